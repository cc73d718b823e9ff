package parse

import (
	"context"
	"strconv"

	"github.com/olympiac-lang/olympiac/compiler/ast"
	"github.com/olympiac-lang/olympiac/compiler/token"
)

// athlete parses: Deportista <name> <int> <int> <int> <sport> <country>.
// Fields are probed silently: a missing one downgrades the whole
// declaration to a SyntaxError node with a single diagnostic and
// resynchronizes.
func (p *Parser) athlete(ctx context.Context, st int) (n *ast.Node, i int) {
	kw := p.tk(st)
	i = st + 1

	name, i, ok := p.accept(i, token.Ident)
	if !ok {
		return p.incomplete(ctx, kw, name, i)
	}

	stats := make([]int, 0, 3)

	for k := 0; k < 3; k++ {
		num, j, ok := p.accept(i, token.Int)
		if !ok {
			return p.incomplete(ctx, kw, name, j)
		}

		v, _ := strconv.Atoi(num.Text)
		stats = append(stats, v)
		i = j
	}

	sport, i, ok := p.accept(i, token.Ident)
	if !ok {
		return p.incomplete(ctx, kw, name, i)
	}

	country, i, ok := p.accept(i, token.Ident)
	if !ok {
		return p.incomplete(ctx, kw, name, i)
	}

	n = p.tree.NewNode(ast.AthleteDecl, name.Text, kw.Line).
		Set("name", name.Text).
		Set("stats", stats).
		Set("sport", sport.Text).
		Set("country", country.Text)

	return n, i
}

// incomplete downgrades a broken declaration to a SyntaxError node.
// The parsed name, when there is one, stays attached; the verifier
// resolves nothing under an error node, so it causes no cascade.
func (p *Parser) incomplete(ctx context.Context, kw, name token.Token, at int) (*ast.Node, int) {
	p.report(kw.Line, kw.Col, "incomplete athlete declaration")

	n := p.tree.NewNode(ast.SyntaxError, kw.Text, kw.Line)

	if name.Kind == token.Ident {
		n.Add(p.tree.NewNode(ast.Name, name.Text, name.Line))
	}

	return n, p.synchronize(ctx, at)
}

// list disambiguates the two Lista forms. After Lista Deportista the
// stream is a bulk load only when an identifier is followed by three
// integer literals; anything else, including a bulk load whose first
// tuple fails, falls back to a simple Lista <Type> <Name> declaration.
func (p *Parser) list(ctx context.Context, st int) (n *ast.Node, i int) {
	kw := p.tk(st)
	i = st + 1

	if p.tk(i).Is(token.EntityDecl, "Deportista") {
		i++

		if p.bulkAhead(i) {
			if n, j, count := p.bulkLoad(ctx, i); count > 0 {
				return n, j
			}
		}

		return p.listDecl(ctx, kw, "Deportista", i)
	}

	typ := ""

	if tk := p.tk(i); tk.Kind == token.Ident || tk.Kind == token.DomainType {
		typ = tk.Text
		i++
	} else {
		line, col := p.pos(i)
		p.report(line, col, "list declaration missing element type")
	}

	return p.listDecl(ctx, kw, typ, i)
}

func (p *Parser) listDecl(ctx context.Context, kw token.Token, typ string, st int) (n *ast.Node, i int) {
	i = st

	n = p.tree.NewNode(ast.ListDecl, kw.Text, kw.Line).Set("type", typ)

	if tk := p.tk(i); tk.Kind == token.Ident {
		n.Set("name", tk.Text)
		i++
	} else {
		line, col := p.pos(i)
		p.report(line, col, "list declaration missing a name")
		n.Set("name", nil)
	}

	return n, i
}

// bulkAhead reports whether an athlete tuple can start at i: an
// identifier with three integer literals right behind it. Lookahead
// only, nothing is consumed.
func (p *Parser) bulkAhead(i int) bool {
	return p.tk(i).Kind == token.Ident &&
		p.tk(i+1).Kind == token.Int &&
		p.tk(i+2).Kind == token.Int &&
		p.tk(i+3).Kind == token.Int
}

// bulkLoad consumes athlete tuples while they keep matching. A tuple
// that fails past the lookahead rolls the cursor back to its first
// token and stops the load; with zero loaded tuples the caller
// re-parses from there as a simple declaration.
func (p *Parser) bulkLoad(ctx context.Context, st int) (n *ast.Node, i, count int) {
	i = st

	var entries []*ast.Node

	for p.bulkAhead(i) {
		save := i

		name := p.tk(i)
		i++

		stats := make([]int, 3)

		for k := 0; k < 3; k++ {
			v, _ := strconv.Atoi(p.tk(i).Text)
			stats[k] = v
			i++
		}

		sport, j, ok := p.accept(i, token.Ident)
		if !ok {
			i = save
			break
		}

		i = j

		country, j, ok := p.accept(i, token.Ident)
		if !ok {
			i = save
			break
		}

		i = j

		entries = append(entries, p.tree.NewNode(ast.AthleteDecl, name.Text, name.Line).
			Set("name", name.Text).
			Set("stats", stats).
			Set("sport", sport.Text).
			Set("country", country.Text))
	}

	count = len(entries)
	if count == 0 {
		return nil, i, 0
	}

	n = p.tree.NewNode(ast.BulkLoad, "Deportista", p.tk(st).Line).
		Set("count", count).
		Add(entries...)

	return n, i, count
}
