package parse

import (
	"context"
	"strconv"
	"strings"

	"github.com/olympiac-lang/olympiac/compiler/ast"
	"github.com/olympiac-lang/olympiac/compiler/token"
)

// expression climbs comparison -> additive -> multiplicative -> unary
// -> primary. A hole left by an unusable token becomes a nil node; the
// cursor never goes backwards and operators always consume.
func (p *Parser) expression(ctx context.Context, st int) (n *ast.Node, i int) {
	return p.comparison(ctx, st)
}

func (p *Parser) comparison(ctx context.Context, st int) (n *ast.Node, i int) {
	n, i = p.additive(ctx, st)

	for p.tk(i).Kind == token.CompareOp {
		op := p.tk(i)

		var r *ast.Node
		r, i = p.additive(ctx, i+1)

		n = p.binary(op, n, r)
	}

	return n, i
}

func (p *Parser) additive(ctx context.Context, st int) (n *ast.Node, i int) {
	n, i = p.multiplicative(ctx, st)

	for {
		op := p.tk(i)
		if !op.Is(token.ArithOp, "+") && !op.Is(token.ArithOp, "-") {
			break
		}

		var r *ast.Node
		r, i = p.multiplicative(ctx, i+1)

		n = p.binary(op, n, r)
	}

	return n, i
}

func (p *Parser) multiplicative(ctx context.Context, st int) (n *ast.Node, i int) {
	n, i = p.unary(ctx, st)

	for {
		op := p.tk(i)
		if !op.Is(token.ArithOp, "*") && !op.Is(token.ArithOp, "/") && !op.Is(token.ArithOp, "%") {
			break
		}

		var r *ast.Node
		r, i = p.unary(ctx, i+1)

		n = p.binary(op, n, r)
	}

	return n, i
}

func (p *Parser) unary(ctx context.Context, st int) (n *ast.Node, i int) {
	if op := p.tk(st); op.Is(token.ArithOp, "-") {
		var arg *ast.Node
		arg, i = p.unary(ctx, st+1)

		n = p.tree.NewNode(ast.UnaryOp, op.Text, op.Line).Set("op", op.Text).Add(arg)

		return n, i
	}

	return p.primary(ctx, st)
}

func (p *Parser) primary(ctx context.Context, st int) (n *ast.Node, i int) {
	i = st
	tk := p.tk(i)

	switch {
	case tk.Kind == token.Int:
		v, _ := strconv.Atoi(tk.Text)
		return p.tree.NewNode(ast.Number, tk.Text, tk.Line).Set("value", v), i + 1
	case tk.Kind == token.Ident:
		return p.tree.NewNode(ast.Name, tk.Text, tk.Line), i + 1
	case tk.Kind == token.Invoke:
		return p.invocation(ctx, i)
	case tk.Is(token.Punct, "("):
		n, i = p.expression(ctx, i+1)
		_, i, _ = p.expect(ctx, i, token.Punct, ")", "expression")

		return n, i
	default:
		line, col := p.pos(i)

		if !p.at(i) {
			p.report(line, col, "expected expression, found end of input")
		} else {
			p.report(line, col, "expected expression, found '%v'", tk.Text)
		}

		return nil, i
	}
}

func (p *Parser) binary(op token.Token, l, r *ast.Node) *ast.Node {
	return p.tree.NewNode(ast.BinaryOp, op.Text, op.Line).
		Set("op", op.Text).
		Add(l, r)
}

// invocation parses a call token, its raw arguments and the closing
// paren. Arguments stay lexemes: the verifier types them by shape and
// table, not by structure.
func (p *Parser) invocation(ctx context.Context, st int) (n *ast.Node, i int) {
	tk := p.tk(st)
	i = st + 1

	name := strings.TrimSuffix(tk.Text, "(")

	args := []string{}
	closed := false

	for p.at(i) {
		a := p.tk(i)
		i++

		if a.Is(token.Punct, ")") {
			closed = true
			break
		}

		if !a.Is(token.Punct, ",") {
			args = append(args, a.Text)
		}
	}

	if !closed {
		p.report(tk.Line, tk.Col, "missing ')' in call to '%v'", name)
	}

	kind := ast.Invocation

	switch strings.ToLower(name) {
	case "narrar":
		kind = ast.Narrate

		if len(args) != 1 {
			p.report(tk.Line, tk.Col, "narrar expects one argument, found %v", len(args))
		}
	case "input":
		kind = ast.Direct
	}

	n = p.tree.NewNode(kind, name, tk.Line).Set("args", args)

	return n, i
}
