package gen

import (
	"context"
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/olympiac-lang/olympiac/compiler/ast"
)

type (
	emitter struct {
		decs  []ast.Attrs
		loops int
	}
)

// prelude is the fixed runtime every generated program starts with.
const prelude = `import "fmt"

type athlete struct {
	name    string
	stats   [3]int
	sport   string
	country string
}

var athletes = map[string]athlete{}

func register(name string, a, b, c int, sport, country string) {
	athletes[name] = athlete{name, [3]int{a, b, c}, sport, country}
}

func comparar(a, b string) int {
	x, y := athletes[a], athletes[b]

	sx, sy := 0, 0
	for i := 0; i < 3; i++ {
		sx += x.stats[i]
		sy += y.stats[i]
	}

	switch {
	case sx > sy:
		return 1
	case sx < sy:
		return -1
	}

	return 0
}

func narrar(args ...interface{}) {
	fmt.Println(args...)
}

func input(prompt interface{}) string {
	var s string

	fmt.Print(prompt)
	fmt.Scanln(&s)

	return s
}

func resultado(a, b interface{}) {
	fmt.Println("resultado:", a, "-", b)
}

func b2i(v bool) int {
	if v {
		return 1
	}

	return 0
}

var env = map[string]int{}
`

// Program renders the decorated tree as a runnable Go source file.
// Broken or unknown constructs degrade to comments; generation itself
// never fails on any tree the parser can produce.
func Program(ctx context.Context, t *ast.Tree, decs []ast.Attrs, pkg string) ([]byte, error) {
	if t == nil || t.Root == nil {
		return nil, errors.New("no tree")
	}

	if pkg == "" {
		pkg = "main"
	}

	g := &emitter{decs: decs}

	b := hfmt.Appendf(nil, "package %v\n\n", pkg)
	b = append(b, prelude...)

	entry := "main"
	if pkg != "main" {
		entry = "Run"
	}

	b = hfmt.Appendf(b, "\nfunc %v() {\n", entry)
	b = g.block(b, t.Root.Children, 1)
	b = append(b, "}\n"...)

	tlog.SpanFromContext(ctx).Printw("generated", "package", pkg, "size", len(b))

	return b, nil
}

// block emits a statement list. Sibling runs of the shape
// obj . agregar ( x ) collapse into one append statement.
func (g *emitter) block(b []byte, nodes []*ast.Node, d int) []byte {
	for i := 0; i < len(nodes); i++ {
		if run, ok := g.methodRun(nodes, i); ok {
			b = run(b, d)
			i += 5

			continue
		}

		b = g.node(b, nodes[i], d)
	}

	return b
}

func (g *emitter) node(b []byte, n *ast.Node, d int) []byte {
	switch n.Kind {
	case ast.Comment:
		b = app(b, d, "// %v\n", strings.TrimLeft(n.Content, "; "))
	case ast.AthleteDecl:
		b = g.athlete(b, n, d)
	case ast.BulkLoad:
		count, _ := n.Attr("count")
		b = app(b, d, "// carga masiva: %v deportistas\n", count)

		for _, c := range n.Children {
			b = g.athlete(b, c, d)
		}
	case ast.ListDecl:
		b = g.list(b, n, d)
	case ast.Conditional:
		b = g.conditional(b, n, d)
	case ast.Loop:
		b = g.loop(b, n, d)
	case ast.LoopUntil:
		b = g.loopUntil(b, n, d)
	case ast.Narrate:
		b = app(b, d, "narrar(")
		b = g.args(b, n)
		b = append(b, ")\n"...)
	case ast.Direct:
		b = app(b, d, "_ = input(")
		b = g.args(b, n)
		b = append(b, ")\n"...)
	case ast.Invocation:
		b = g.invocation(b, n, d)
	case ast.Match:
		a, _ := n.Attr("countryA")
		c, _ := n.Attr("countryB")
		b = app(b, d, "// partido: %v vs %v\n", orUnknown(a), orUnknown(c))
		b = g.eventBlock(b, n, d)
	case ast.Race, ast.Routine, ast.Combat:
		b = app(b, d, "// %v: %v\n", strings.ToLower(n.Kind.String()), n.Content)
		b = g.eventBlock(b, n, d)
	case ast.ActionStub:
		b = app(b, d, "// accion: %v\n", n.Content)
		b = g.eventBlock(b, n, d)
	case ast.Result:
		b = g.result(b, n, d)
	case ast.ResultExtra:
		b = app(b, d, "// listaRes\n")
	case ast.Tie:
		b = app(b, d, "narrar(\"empate\")\n")
	case ast.SyntaxError:
		b = app(b, d, "// descartado: %v (linea %v)\n", n.Content, n.Line)
	case ast.Name, ast.Symbol, ast.Close, ast.Unknown:
		if n.Content != "" {
			b = app(b, d, "// %v\n", n.Content)
		}
	default:
		b = app(b, d, "// %v: %v\n", strings.ToLower(n.Kind.String()), n.Content)
	}

	return b
}

func (g *emitter) athlete(b []byte, n *ast.Node, d int) []byte {
	stats, _ := n.Attr("stats")
	sport, _ := n.Attr("sport")
	country, _ := n.Attr("country")

	s, _ := stats.([]int)
	for len(s) < 3 {
		s = append(s, 0)
	}

	return app(b, d, "register(%q, %v, %v, %v, %q, %q)\n", n.Content, s[0], s[1], s[2], sval(sport), sval(country))
}

func (g *emitter) list(b []byte, n *ast.Node, d int) []byte {
	name, _ := n.Attr("name")
	typ, _ := n.Attr("type")

	if name == nil || sval(name) == "" {
		return app(b, d, "// lista %v sin nombre\n", sval(typ))
	}

	b = app(b, d, "%v := []string{} // lista de %v\n", sval(name), sval(typ))
	b = app(b, d, "_ = %v\n", sval(name))

	return b
}

func (g *emitter) conditional(b []byte, n *ast.Node, d int) []byte {
	cond, body := g.condSplit(n)

	if cond == nil {
		b = app(b, d, "// condicion faltante\n")
		b = app(b, d, "if false {\n")
	} else {
		b = app(b, d, "if ")
		b = g.cond(b, cond)
		b = append(b, " {\n"...)
	}

	var els *ast.Node

	for _, c := range body {
		if c.Kind == ast.Else {
			els = c
			continue
		}

		b = g.node(b, c, d+1)
	}

	if els != nil {
		b = app(b, d, "} else {\n")
		b = g.block(b, els.Children, d+1)
	}

	return app(b, d, "}\n")
}

func (g *emitter) loop(b []byte, n *ast.Node, d int) []byte {
	cond, body := g.condSplit(n)

	it := hfmt.Appendf(nil, "i%d", g.loops)
	g.loops++

	if cond == nil {
		b = app(b, d, "// cuenta faltante\n")
		b = app(b, d, "for %s := 0; %s < 0; %s++ {\n", it, it, it)
	} else {
		b = app(b, d, "for %s := 0; %s < ", it, it)
		b = g.expr(b, cond)
		b = hfmt.Appendf(b, "; %s++ {\n", it)
	}

	b = g.block(b, body, d+1)
	b = app(b, d, "}\n")

	g.loops--

	return b
}

func (g *emitter) loopUntil(b []byte, n *ast.Node, d int) []byte {
	cond, body := g.condSplit(n)

	if cond == nil {
		b = app(b, d, "// condicion faltante\n")
		b = app(b, d, "for false {\n")
	} else {
		b = app(b, d, "for !(")
		b = g.cond(b, cond)
		b = append(b, ") {\n"...)
	}

	b = g.block(b, body, d+1)

	return app(b, d, "}\n")
}

func (g *emitter) invocation(b []byte, n *ast.Node, d int) []byte {
	if strings.EqualFold(n.Content, "comparar") {
		b = app(b, d, "_ = comparar(")
		b = g.args(b, n)
		b = append(b, ")\n"...)

		return b
	}

	args := strsAttr(n, "args")

	return app(b, d, "// llamada: %v(%v)\n", n.Content, strings.Join(args, ", "))
}

func (g *emitter) result(b []byte, n *ast.Node, d int) []byte {
	vals, _ := n.Attr("values")

	vv, _ := vals.([]interface{})
	for len(vv) < 2 {
		vv = append(vv, nil)
	}

	if vv[0] == nil || vv[1] == nil {
		b = app(b, d, "// resultado incompleto\n")
	}

	return app(b, d, "resultado(%v, %v)\n", lit(vv[0]), lit(vv[1]))
}

// eventBlock opens a scope so lists and loop counters declared in one
// competition do not collide with the next.
func (g *emitter) eventBlock(b []byte, n *ast.Node, d int) []byte {
	b = app(b, d, "{\n")
	b = g.block(b, n.Children, d+1)

	return app(b, d, "}\n")
}

// condSplit separates the header expression child, referenced by the
// cond or count attribute, from the body children.
func (g *emitter) condSplit(n *ast.Node) (cond *ast.Node, body []*ast.Node) {
	id := -1

	if v, ok := n.Attr("cond"); ok && v != nil {
		id, _ = v.(int)
	} else if v, ok := n.Attr("count"); ok && v != nil {
		id, _ = v.(int)
	} else {
		id = -1
	}

	for _, c := range n.Children {
		if id >= 0 && c.ID == id {
			cond = c
			continue
		}

		body = append(body, c)
	}

	return cond, body
}

// cond emits a boolean expression: comparisons directly, everything
// else as an int compared against zero.
func (g *emitter) cond(b []byte, n *ast.Node) []byte {
	if n.Kind == ast.BinaryOp && isCompare(n.Content) && len(n.Children) == 2 {
		b = g.expr(b, n.Children[0])
		b = hfmt.Appendf(b, " %v ", n.Content)
		b = g.expr(b, n.Children[1])

		return b
	}

	b = append(b, '(')
	b = g.expr(b, n)

	return append(b, ") != 0"...)
}

// expr emits an int-valued expression. Identifiers live in the env
// map, so unresolved names still compile.
func (g *emitter) expr(b []byte, n *ast.Node) []byte {
	switch n.Kind {
	case ast.Number:
		return hfmt.Appendf(b, "%v", n.Content)
	case ast.Name:
		return hfmt.Appendf(b, "env[%q]", n.Content)
	case ast.UnaryOp:
		b = append(b, '-')

		if len(n.Children) == 1 {
			return g.expr(b, n.Children[0])
		}

		return append(b, '0')
	case ast.BinaryOp:
		if len(n.Children) != 2 {
			return append(b, '0')
		}

		if isCompare(n.Content) {
			b = append(b, "b2i("...)
			b = g.expr(b, n.Children[0])
			b = hfmt.Appendf(b, " %v ", n.Content)
			b = g.expr(b, n.Children[1])

			return append(b, ')')
		}

		b = append(b, '(')
		b = g.expr(b, n.Children[0])
		b = hfmt.Appendf(b, " %v ", n.Content)
		b = g.expr(b, n.Children[1])

		return append(b, ')')
	case ast.Invocation:
		if strings.EqualFold(n.Content, "comparar") {
			b = append(b, "comparar("...)
			b = g.args(b, n)

			return append(b, ')')
		}

		return hfmt.Appendf(b, "0 /* %v */", n.Content)
	default:
		return hfmt.Appendf(b, "0 /* %v */", n.Content)
	}
}

// args renders raw invocation arguments using their resolved types:
// ints stay literals, declared entities index the registry, anything
// else is passed as text.
func (g *emitter) args(b []byte, n *ast.Node) []byte {
	args := strsAttr(n, "args")
	types := g.argTypes(n, len(args))

	for i, a := range args {
		if i != 0 {
			b = append(b, ", "...)
		}

		switch {
		case types[i] == "int" || allDigits(a):
			b = append(b, a...)
		case strings.HasPrefix(types[i], "entity"):
			b = hfmt.Appendf(b, "athletes[%q]", a)
		case len(a) >= 2 && a[0] == '"' && a[len(a)-1] == '"':
			b = append(b, a...)
		default:
			b = hfmt.Appendf(b, "%q", a)
		}
	}

	return b
}

func (g *emitter) argTypes(n *ast.Node, want int) []string {
	var types []string

	if n.ID < len(g.decs) {
		if v, ok := g.decs[n.ID].Get("argTypes"); ok {
			types, _ = v.([]string)
		}
	}

	for len(types) < want {
		types = append(types, "unknown")
	}

	return types
}

// methodRun matches the obj . agregar ( x ) sibling pattern the
// verifier decorated as a list method reference.
func (g *emitter) methodRun(nodes []*ast.Node, i int) (func(b []byte, d int) []byte, bool) {
	if i+5 > len(nodes)-1 {
		return nil, false
	}

	obj, dot, m, open, arg, cls := nodes[i], nodes[i+1], nodes[i+2], nodes[i+3], nodes[i+4], nodes[i+5]

	ok := obj.Kind == ast.Name &&
		dot.Kind == ast.Symbol && dot.Content == "." &&
		m.Kind == ast.Name &&
		open.Kind == ast.Symbol && open.Content == "(" &&
		(arg.Kind == ast.Name || arg.Kind == ast.Number || arg.Kind == ast.Unknown) &&
		cls.Kind == ast.Symbol && cls.Content == ")"

	if !ok || m.ID >= len(g.decs) {
		return nil, false
	}

	if _, decorated := g.decs[m.ID].Get("methodOf"); !decorated {
		return nil, false
	}

	return func(b []byte, d int) []byte {
		if !strings.EqualFold(m.Content, "agregar") {
			return app(b, d, "// %v.%v(%v)\n", obj.Content, m.Content, arg.Content)
		}

		return app(b, d, "%v = append(%v, %q)\n", obj.Content, obj.Content, arg.Content)
	}, true
}

func app(b []byte, d int, format string, args ...interface{}) []byte {
	for i := 0; i < d; i++ {
		b = append(b, '\t')
	}

	return hfmt.Appendf(b, format, args...)
}

func sval(v interface{}) string {
	s, _ := v.(string)
	return s
}

func strsAttr(n *ast.Node, key string) []string {
	v, _ := n.Attr(key)
	s, _ := v.([]string)

	return s
}

func lit(v interface{}) string {
	if v == nil {
		return "nil"
	}

	return string(hfmt.Appendf(nil, "%v", v))
}

func orUnknown(v interface{}) string {
	if v == nil {
		return "?"
	}

	return sval(v)
}

func isCompare(op string) bool {
	switch op {
	case "==", "!=", ">=", "<=", ">", "<":
		return true
	}

	return false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
