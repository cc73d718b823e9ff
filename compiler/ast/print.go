package ast

import (
	"github.com/nikandfor/hacked/hfmt"
)

// Dump renders the whole tree in preorder, one node per line,
// children indented under their parent.
func Dump(t *Tree) string {
	return string(AppendNode(nil, t.Root, 0))
}

func AppendNode(b []byte, n *Node, d int) []byte {
	b = app(b, d, "<%q, %q, {", n.Kind.String(), n.Content)

	for i, kv := range n.Attrs {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = hfmt.Appendf(b, "%v: ", kv.Key)
		b = appendVal(b, kv.Val)
	}

	b = append(b, "}>\n"...)

	for _, c := range n.Children {
		b = AppendNode(b, c, d+1)
	}

	return b
}

func appendVal(b []byte, v interface{}) []byte {
	switch v := v.(type) {
	case nil:
		return append(b, "nil"...)
	case string:
		return hfmt.Appendf(b, "%q", v)
	case []interface{}:
		b = append(b, '[')

		for i, e := range v {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = appendVal(b, e)
		}

		return append(b, ']')
	case []string:
		b = append(b, '[')

		for i, e := range v {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = hfmt.Appendf(b, "%q", e)
		}

		return append(b, ']')
	default:
		return hfmt.Appendf(b, "%v", v)
	}
}

func app(b []byte, d int, format string, args ...interface{}) []byte {
	for i := 0; i < d; i++ {
		b = append(b, "  "...)
	}

	return hfmt.Appendf(b, format, args...)
}
