package parse

import (
	"context"
	"strconv"
	"strings"

	"github.com/olympiac-lang/olympiac/compiler/ast"
	"github.com/olympiac-lang/olympiac/compiler/token"
)

// match parses: <country> vs <country> ... finact. The caller already
// peeked the vs operator.
func (p *Parser) match(ctx context.Context, st int) (n *ast.Node, i int) {
	a := p.tk(st)
	i = st + 2 // country and vs

	n = p.tree.NewNode(ast.Match, "vs", a.Line).Set("countryA", a.Text)

	if b, j, ok := p.expect(ctx, i, token.Ident, "", "match header"); ok {
		n.Set("countryB", b.Text)
		i = j
	} else {
		n.Set("countryB", nil)
	}

	return p.eventBody(ctx, n, "finact", i)
}

// competition parses the keyword-delimited forms, Race, Routine and
// Combat, which share the match body shape.
func (p *Parser) competition(ctx context.Context, st int, kind ast.Kind, end string) (n *ast.Node, i int) {
	kw := p.tk(st)

	n = p.tree.NewNode(kind, kw.Text, kw.Line)

	return p.eventBody(ctx, n, end, st+1)
}

// eventBody consumes actions and the result section up to the closing
// keyword. A wrong or missing terminator is reported and the partial
// node returned; a foreign terminator is left for the enclosing form.
func (p *Parser) eventBody(ctx context.Context, n *ast.Node, end string, st int) (_ *ast.Node, i int) {
	i = st
	ties := 0

	for p.at(i) {
		tk := p.tk(i)

		switch {
		case tk.Is(token.Keyword, end):
			n.Set("closed", true)
			return n, i + 1
		case isTerminator(tk):
			p.report(tk.Line, tk.Col, "missing '%v' to close %v", end, strings.ToLower(n.Kind.String()))
			n.Set("closed", false)
			return n, i
		case tk.Kind == token.TieMarker:
			// only the first tie marker survives
			if ties == 0 {
				n.Add(p.tree.NewNode(ast.Tie, tk.Text, tk.Line))
			} else {
				p.warn(tk.Line, tk.Col, "duplicate tie marker, keeping the first")
			}

			ties++
			i++
		case tk.Kind == token.ResultMarker:
			n.Add(p.tree.NewNode(ast.ResultExtra, tk.Text, tk.Line))
			i++
		case tk.Is(token.DomainType, "Resultado"):
			var r *ast.Node
			r, i = p.result(ctx, i)
			n.Add(r)
		default:
			var c *ast.Node
			c, i = p.command(ctx, i)
			n.Add(c)
		}
	}

	line, col := p.pos(i)
	p.report(line, col, "missing '%v' to close %v", end, strings.ToLower(n.Kind.String()))
	n.Set("closed", false)

	return n, i
}

// actionStub wraps an unrecognized domain keyword. It greedily owns
// every nested command up to a terminator or a result-section
// boundary, which stay with the enclosing form.
func (p *Parser) actionStub(ctx context.Context, st int) (n *ast.Node, i int) {
	kw := p.tk(st)
	i = st + 1

	n = p.tree.NewNode(ast.ActionStub, kw.Text, kw.Line)

	for p.at(i) {
		tk := p.tk(i)

		if isTerminator(tk) || tk.Kind == token.ResultMarker || tk.Kind == token.TieMarker || tk.Is(token.DomainType, "Resultado") {
			break
		}

		var c *ast.Node
		c, i = p.command(ctx, i)
		n.Add(c)
	}

	return n, i
}

// result parses: Resultado <int> - <int>. Missing numbers become nil
// values; the verifier reports them, the parser stays silent.
func (p *Parser) result(ctx context.Context, st int) (n *ast.Node, i int) {
	kw := p.tk(st)
	i = st + 1

	vals := make([]interface{}, 2)

	if tk := p.tk(i); tk.Kind == token.Int {
		vals[0], _ = strconv.Atoi(tk.Text)
		i++
	}

	if p.tk(i).Is(token.ArithOp, "-") {
		i++
	}

	if tk := p.tk(i); tk.Kind == token.Int {
		vals[1], _ = strconv.Atoi(tk.Text)
		i++
	}

	n = p.tree.NewNode(ast.Result, kw.Text, kw.Line).Set("values", vals)

	return n, i
}
