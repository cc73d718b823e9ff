package verify

import (
	"context"
	"strings"

	"tlog.app/go/tlog"

	"github.com/olympiac-lang/olympiac/compiler/ast"
	"github.com/olympiac-lang/olympiac/compiler/diag"
	"github.com/olympiac-lang/olympiac/compiler/sym"
)

type (
	// Result bundles one verification pass. Decs is indexed by node
	// ID; undecorated nodes hold nil. The tree itself is never
	// mutated.
	Result struct {
		Decs  []ast.Attrs
		Errs  diag.List
		Table *sym.Table
		Trail []Snap
	}

	// Snap records the table right after a declaration changed it.
	Snap struct {
		Node  int          `json:"node" yaml:"node"`
		Kind  string       `json:"kind" yaml:"kind"`
		Line  int          `json:"line" yaml:"line"`
		Table sym.Snapshot `json:"table" yaml:"table"`
	}

	verifier struct {
		table *sym.Table
		res   *Result

		// depth inside SyntaxError subtrees; positive suppresses
		// undeclared-identifier cascades
		errDepth int
	}

	builtin struct {
		arity    int // -1 accepts any
		entities bool
		ret      string
	}
)

var builtins = map[string]builtin{
	"comparar": {arity: 2, entities: true, ret: "int"},
	"narrar":   {arity: -1, ret: "void"},
	"input":    {arity: 1, ret: "void"},
}

// Run walks the tree once, filling decorations, semantic errors and
// the snapshot trail. Errors are advisory: the walk never stops.
func Run(ctx context.Context, t *ast.Tree) *Result {
	v := &verifier{
		table: sym.New(),
	}

	v.res = &Result{
		Decs:  make([]ast.Attrs, t.Len()),
		Table: v.table,
	}

	v.children(ctx, t.Root)

	tlog.SpanFromContext(ctx).Printw("verified", "errors", len(v.res.Errs), "declarations", len(v.res.Trail), "level", v.table.Level())

	return v.res
}

func (v *verifier) children(ctx context.Context, n *ast.Node) {
	for idx, c := range n.Children {
		v.node(ctx, c, n, idx)
	}
}

func (v *verifier) node(ctx context.Context, n, parent *ast.Node, idx int) {
	switch n.Kind {
	case ast.AthleteDecl:
		v.athlete(n)
	case ast.ListDecl:
		v.listDecl(n)
	case ast.BulkLoad:
		v.bulkLoad(n)
	case ast.Conditional, ast.Loop, ast.LoopUntil:
		v.scoped(ctx, n)
	case ast.Name:
		v.name(n, parent, idx)
	case ast.Number:
		v.number(n)
	case ast.Narrate:
		v.narrate(n)
	case ast.Direct:
		v.direct(n)
	case ast.Invocation:
		v.invocation(n)
	case ast.BinaryOp:
		v.binaryOp(ctx, n)
	case ast.UnaryOp:
		v.unaryOp(ctx, n)
	case ast.Result:
		v.result(n, parent)
	case ast.Match, ast.Race, ast.Routine, ast.Combat:
		v.event(ctx, n)
	case ast.SyntaxError:
		v.errDepth++
		v.children(ctx, n)
		v.errDepth--
	default:
		v.children(ctx, n)
	}
}

func (v *verifier) athlete(n *ast.Node) {
	name := n.Content

	err := v.table.Declare(name, "entity:Deportista", n.ID, n.Line)
	if err != nil {
		v.errorf(n.Line, "%v", err)
	} else {
		v.snap(n)
	}

	v.decorate(n, "type", "entity:Deportista", "name", name)
}

func (v *verifier) listDecl(n *ast.Node) {
	elem, _ := n.Attr("type")
	typ := "list:" + str(elem)

	name := ""
	if nm, _ := n.Attr("name"); nm != nil {
		name = str(nm)
	}

	if name != "" {
		err := v.table.Declare(name, typ, n.ID, n.Line)
		if err != nil {
			v.errorf(n.Line, "%v", err)
		} else {
			v.snap(n)
		}
	}

	v.decorate(n, "type", typ, "name", name)
}

// bulkLoad types the node but deliberately leaves the loaded athletes
// out of the table: a bulk load fills a roster, it declares nothing.
func (v *verifier) bulkLoad(n *ast.Node) {
	count, _ := n.Attr("count")

	v.decorate(n, "type", "list:Deportista", "count", count)
}

func (v *verifier) scoped(ctx context.Context, n *ast.Node) {
	level := v.table.EnterScope()

	v.decorate(n, "type", strings.ToLower(n.Kind.String()), "scope", level)

	v.children(ctx, n)

	v.table.ExitScope()
}

// name resolves an identifier leaf. In method position behind a dot
// whose object is a known list the name is a method reference, not a
// variable use.
func (v *verifier) name(n, parent *ast.Node, idx int) {
	if parent != nil && idx >= 2 {
		dot := parent.Children[idx-1]
		obj := parent.Children[idx-2]

		if dot.Kind == ast.Symbol && dot.Content == "." && obj.Kind == ast.Name {
			if e := v.table.Lookup(obj.Content); e != nil && strings.HasPrefix(e.Type, "list:") {
				v.decorate(n, "methodOf", obj.Content)
				return
			}
		}
	}

	// content that cannot be an identifier is typed by shape, not
	// resolved
	if t := literalType(n.Content); t != "" {
		v.decorate(n, "type", t)
		return
	}

	e := v.table.Lookup(n.Content)
	if e == nil {
		if v.errDepth == 0 {
			v.errorf(n.Line, "identifier '%v' used before being declared", n.Content)
		}

		v.decorate(n, "type", "unknown")

		return
	}

	v.decorate(n, "type", e.Type)
}

func (v *verifier) number(n *ast.Node) {
	val, _ := n.Attr("value")

	v.decorate(n, "type", "int", "value", val)
}

func (v *verifier) narrate(n *ast.Node) {
	args := strs(n, "args")
	types := make([]string, len(args))

	for i, a := range args {
		types[i] = ArgType(v.table, a)

		if types[i] == "unknown" && identLike(a) && v.errDepth == 0 {
			v.errorf(n.Line, "identifier '%v' used before being declared", a)
		}
	}

	v.decorate(n, "type", "void", "args", args, "argTypes", types)
}

// direct is arity-checked against the builtin table but its arguments
// stay untyped.
func (v *verifier) direct(n *ast.Node) {
	args := strs(n, "args")

	b := builtins["input"]
	if len(args) != b.arity {
		v.errorf(n.Line, "wrong number of arguments in call to 'input': want %v, found %v", b.arity, len(args))
	}

	v.decorate(n, "type", b.ret, "args", args)
}

func (v *verifier) invocation(n *ast.Node) {
	name := n.Content
	args := strs(n, "args")

	types := make([]string, len(args))
	for i, a := range args {
		types[i] = ArgType(v.table, a)
	}

	b, known := builtins[strings.ToLower(name)]

	ret := "unknown_call"
	if known {
		ret = b.ret

		if b.arity >= 0 && len(args) != b.arity {
			v.errorf(n.Line, "wrong number of arguments in call to '%v': want %v, found %v", name, b.arity, len(args))
		}

		if b.entities {
			for i, t := range types {
				if !strings.HasPrefix(t, "entity") {
					v.errorf(n.Line, "argument %v of '%v' must be an entity, found '%v'", i+1, name, t)
				}
			}
		}
	} else {
		for i, a := range args {
			if types[i] == "unknown" && identLike(a) && v.errDepth == 0 {
				v.errorf(n.Line, "identifier '%v' used before being declared", a)
			}
		}
	}

	v.decorate(n, "type", ret, "name", name, "args", args, "argTypes", types)
}

func (v *verifier) binaryOp(ctx context.Context, n *ast.Node) {
	v.children(ctx, n)

	op, _ := n.Attr("op")

	lt, rt := "unknown", "unknown"
	if len(n.Children) == 2 {
		lt = v.typeOf(n.Children[0])
		rt = v.typeOf(n.Children[1])
	}

	t := "unknown"

	switch {
	case isArith(str(op)) && lt == "int" && rt == "int":
		t = "int"
	case str(op) == "+" && lt == "string" && rt == "string":
		t = "string"
	case str(op) == "+" && (lt == "string" && rt == "int" || lt == "int" && rt == "string"):
		v.errorf(n.Line, "cannot add text and number")
	}

	v.decorate(n, "type", t, "op", op)
}

func (v *verifier) unaryOp(ctx context.Context, n *ast.Node) {
	v.children(ctx, n)

	op, _ := n.Attr("op")

	t := "unknown"
	if len(n.Children) == 1 && v.typeOf(n.Children[0]) == "int" {
		t = "int"
	}

	v.decorate(n, "type", t, "op", op)
}

// result checks both score slots. The enclosing competition reports
// its own, distinct, incomplete-result error on top of these.
func (v *verifier) result(n, parent *ast.Node) {
	vals, _ := n.Attr("values")

	complete := true

	if vv, ok := vals.([]interface{}); ok && len(vv) == 2 {
		if vv[0] == nil {
			v.errorf(n.Line, "result missing first number")
			complete = false
		}

		if vv[1] == nil {
			v.errorf(n.Line, "result missing second number")
			complete = false
		}
	} else {
		complete = false
	}

	v.decorate(n, "type", "result", "complete", complete, "values", vals)
}

func (v *verifier) event(ctx context.Context, n *ast.Node) {
	v.children(ctx, n)

	kind := strings.ToLower(n.Kind.String())

	if n.Kind == ast.Match {
		if a, _ := n.Attr("countryA"); a == nil || str(a) == "" {
			v.errorf(n.Line, "match missing a country name")
		}

		if b, _ := n.Attr("countryB"); b == nil || str(b) == "" {
			v.errorf(n.Line, "match missing a country name")
		}
	}

	results := 0

	for _, c := range n.Children {
		if c.Kind != ast.Result {
			continue
		}

		results++

		if complete, ok := v.res.Decs[c.ID].Get("complete"); ok && complete == false {
			v.errorf(c.Line, "incomplete result in %v", kind)
		}
	}

	if results != 1 {
		v.errorf(n.Line, "%v requires exactly one result, found %v", kind, results)
	}

	v.decorate(n, "type", kind, "results", results)
}

// ArgType types one raw invocation argument: quoted text is a string,
// a digit run is an int, a declared name has its declared type and
// anything else is unknown.
func ArgType(t *sym.Table, raw string) string {
	s := strings.TrimSpace(raw)

	if lt := literalType(s); lt != "" {
		return lt
	}

	if e := t.Lookup(s); e != nil {
		return e.Type
	}

	return "unknown"
}

// typeOf prefers the decoration set while walking the children and
// falls back to shape-based typing, so trees assembled outside the
// parser still get their quoted and numeric leaves typed.
func (v *verifier) typeOf(n *ast.Node) string {
	if t, ok := v.res.Decs[n.ID].Get("type"); ok {
		return str(t)
	}

	return ArgType(v.table, n.Content)
}

func (v *verifier) decorate(n *ast.Node, kvs ...interface{}) {
	d := v.res.Decs[n.ID]

	for i := 0; i+1 < len(kvs); i += 2 {
		d = d.Set(kvs[i].(string), kvs[i+1])
	}

	v.res.Decs[n.ID] = d
}

func (v *verifier) errorf(line int, format string, args ...interface{}) {
	v.res.Errs = v.res.Errs.Errorf(line, 0, format, args...)
}

func (v *verifier) snap(n *ast.Node) {
	v.res.Trail = append(v.res.Trail, Snap{
		Node:  n.ID,
		Kind:  n.Kind.String(),
		Line:  n.Line,
		Table: v.table.Snapshot(),
	})
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func strs(n *ast.Node, key string) []string {
	v, _ := n.Attr(key)
	s, _ := v.([]string)

	return s
}

// literalType types quoted text and digit runs, returning "" for
// anything identifier-shaped.
func literalType(s string) string {
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return "string"
	}

	if s != "" && allDigits(s) {
		return "int"
	}

	return ""
}

func isArith(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%":
		return true
	}

	return false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func identLike(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}
