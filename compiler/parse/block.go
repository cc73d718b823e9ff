package parse

import (
	"context"

	"github.com/olympiac-lang/olympiac/compiler/ast"
	"github.com/olympiac-lang/olympiac/compiler/token"
)

// conditional parses: si <cond> entonces { ... } [sino { ... }] endif.
// Delimiters are checked one by one; a missing entonces costs a single
// diagnostic, a missing brace abandons the body and resynchronizes.
func (p *Parser) conditional(ctx context.Context, st int) (n *ast.Node, i int) {
	kw := p.tk(st)
	i = st + 1

	n = p.tree.NewNode(ast.Conditional, kw.Text, kw.Line)

	var cond *ast.Node
	cond, i = p.expression(ctx, i)
	n.Add(cond)

	if cond != nil {
		n.Set("cond", cond.ID)
	} else {
		n.Set("cond", nil)
	}

	if p.tk(i).Is(token.ControlFlow, "entonces") {
		i++
	} else {
		line, col := p.pos(i)
		p.report(line, col, "conditional missing 'entonces'")
	}

	if _, j, ok := p.expect(ctx, i, token.Punct, "{", "conditional"); ok {
		i = j
	} else {
		return n, p.synchronize(ctx, i)
	}

	i = p.body(ctx, n, i, func(tk token.Token) bool {
		return tk.Is(token.Punct, "}") || tk.Is(token.ControlFlow, "sino") || tk.Is(token.ControlFlow, "endif")
	})

	_, i, _ = p.expect(ctx, i, token.Punct, "}", "conditional")

	if p.tk(i).Is(token.ControlFlow, "sino") {
		els := p.tree.NewNode(ast.Else, p.tk(i).Text, p.tk(i).Line)
		i++

		if _, j, ok := p.expect(ctx, i, token.Punct, "{", "else branch"); ok {
			i = p.body(ctx, els, j, func(tk token.Token) bool {
				return tk.Is(token.Punct, "}") || tk.Is(token.ControlFlow, "endif")
			})

			_, i, _ = p.expect(ctx, i, token.Punct, "}", "else branch")
		} else {
			i = p.synchronize(ctx, i)
		}

		n.Add(els)
	}

	_, i, _ = p.expect(ctx, i, token.ControlFlow, "endif", "conditional")

	return n, i
}

// loop parses: Repetir ( <count> ) [ ... ] FinRep.
func (p *Parser) loop(ctx context.Context, st int) (n *ast.Node, i int) {
	kw := p.tk(st)
	i = st + 1

	n = p.tree.NewNode(ast.Loop, kw.Text, kw.Line)

	if _, j, ok := p.expect(ctx, i, token.Punct, "(", "loop header"); ok {
		i = j
	} else {
		return n, p.synchronize(ctx, i)
	}

	var count *ast.Node
	count, i = p.expression(ctx, i)
	n.Add(count)

	if count != nil {
		n.Set("count", count.ID)
	} else {
		n.Set("count", nil)
	}

	_, i, _ = p.expect(ctx, i, token.Punct, ")", "loop header")

	return p.loopBody(ctx, n, i, "FinRep")
}

// loopUntil parses: RepetirHasta ( <cond> ) [ ... ] FinRepHasta.
func (p *Parser) loopUntil(ctx context.Context, st int) (n *ast.Node, i int) {
	kw := p.tk(st)
	i = st + 1

	n = p.tree.NewNode(ast.LoopUntil, kw.Text, kw.Line)

	if _, j, ok := p.expect(ctx, i, token.Punct, "(", "loop header"); ok {
		i = j
	} else {
		return n, p.synchronize(ctx, i)
	}

	var cond *ast.Node
	cond, i = p.expression(ctx, i)
	n.Add(cond)

	if cond != nil {
		n.Set("cond", cond.ID)
	} else {
		n.Set("cond", nil)
	}

	_, i, _ = p.expect(ctx, i, token.Punct, ")", "loop header")

	return p.loopBody(ctx, n, i, "FinRepHasta")
}

func (p *Parser) loopBody(ctx context.Context, n *ast.Node, st int, end string) (_ *ast.Node, i int) {
	i = st

	if _, j, ok := p.expect(ctx, i, token.Punct, "[", "loop"); ok {
		i = j
	} else {
		return n, p.synchronize(ctx, i)
	}

	i = p.body(ctx, n, i, func(tk token.Token) bool {
		return tk.Is(token.Punct, "]") || tk.Is(token.ControlFlow, end)
	})

	_, i, _ = p.expect(ctx, i, token.Punct, "]", "loop")
	_, i, _ = p.expect(ctx, i, token.ControlFlow, end, "loop")

	return n, i
}

// body appends commands to n until the stream ends or stop matches.
func (p *Parser) body(ctx context.Context, n *ast.Node, st int, stop func(token.Token) bool) (i int) {
	i = st

	for p.at(i) && !stop(p.tk(i)) {
		var c *ast.Node
		c, i = p.command(ctx, i)
		n.Add(c)
	}

	return i
}
