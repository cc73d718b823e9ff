package parse

import (
	"context"
	"fmt"
	"os"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/olympiac-lang/olympiac/compiler/ast"
	"github.com/olympiac-lang/olympiac/compiler/diag"
	"github.com/olympiac-lang/olympiac/compiler/scan"
	"github.com/olympiac-lang/olympiac/compiler/token"
)

type (
	Parser struct {
		toks []token.Token
		tree *ast.Tree

		diags diag.List
		seen  map[diagKey]struct{}
	}

	diagKey struct {
		msg  string
		line int
		col  int
	}
)

// maxSync bounds one recovery scan. Hitting the bound discards the
// rest of the stream.
const maxSync = 500

// ParseFile scans and parses the named file. Lexical problems are
// merged ahead of the parser's own diagnostics on the tree.
func ParseFile(ctx context.Context, name string) (*ast.Tree, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	toks, lexErrs := scan.Tokens(ctx, text)

	t := Parse(ctx, toks)
	t.Diags = append(lexErrs, t.Diags...)

	return t, nil
}

// Parse builds a Program tree from the token stream. It never fails:
// defects become diagnostics on the returned tree and the cursor only
// moves forward, so parsing terminates on any input.
func Parse(ctx context.Context, toks []token.Token) *ast.Tree {
	p := &Parser{
		toks: toks,
		tree: ast.New(),
		seen: map[diagKey]struct{}{},
	}

	i := 0
	for p.at(i) {
		var n *ast.Node
		n, i = p.command(ctx, i)
		p.tree.Root.Add(n)
	}

	p.tree.Diags = p.diags

	tlog.SpanFromContext(ctx).Printw("parsed", "nodes", p.tree.Len(), "commands", len(p.tree.Root.Children), "diags", len(p.diags))

	return p.tree
}

// command parses one top-level or nested construct. Every path
// consumes at least one token.
func (p *Parser) command(ctx context.Context, st int) (n *ast.Node, i int) {
	i = st
	tk := p.tk(i)

	if tr := tlog.SpanFromContext(ctx); tr.If("parse_command") {
		tr.Printw("command", "tk", tk, "from", loc.Callers(1, 2))
	}

	switch tk.Kind {
	case token.Comment:
		return p.tree.NewNode(ast.Comment, tk.Text, tk.Line), i + 1
	case token.EntityDecl:
		if tk.IsText("Deportista") {
			return p.athlete(ctx, i)
		}

		return p.list(ctx, i)
	case token.DomainType:
		if tk.IsText("Resultado") {
			return p.result(ctx, i)
		}
	case token.ControlFlow:
		switch strings.ToLower(tk.Text) {
		case "si":
			return p.conditional(ctx, i)
		case "repetir":
			return p.loop(ctx, i)
		case "repetirhasta":
			return p.loopUntil(ctx, i)
		case "finrep", "finrephasta", "endif":
			return p.tree.NewNode(ast.Close, tk.Text, tk.Line), i + 1
		}
	case token.Invoke:
		return p.invocation(ctx, i)
	case token.Keyword:
		switch strings.ToLower(tk.Text) {
		case "iniciocarrera":
			return p.competition(ctx, i, ast.Race, "fincarr")
		case "iniciorutina":
			return p.competition(ctx, i, ast.Routine, "finruti")
		case "preparacion":
			return p.competition(ctx, i, ast.Combat, "finprep")
		case "finact", "fincarr", "finruti", "finprep":
			return p.tree.NewNode(ast.Close, tk.Text, tk.Line), i + 1
		default:
			return p.actionStub(ctx, i)
		}
	case token.ResultMarker:
		return p.tree.NewNode(ast.ResultExtra, tk.Text, tk.Line), i + 1
	case token.TieMarker:
		return p.tree.NewNode(ast.Tie, tk.Text, tk.Line), i + 1
	case token.Ident:
		if p.tk(i+1).Kind == token.SpecialOp {
			return p.match(ctx, i)
		}

		return p.tree.NewNode(ast.Name, tk.Text, tk.Line), i + 1
	case token.Punct:
		return p.tree.NewNode(ast.Symbol, tk.Text, tk.Line), i + 1
	}

	// stray literals, operators and misplaced keywords carry no structure
	return p.tree.NewNode(ast.Unknown, tk.Text, tk.Line), i + 1
}

// tk returns the token at i, or the zero token past the end.
func (p *Parser) tk(i int) token.Token {
	if i < len(p.toks) {
		return p.toks[i]
	}

	return token.Token{}
}

func (p *Parser) at(i int) bool { return i < len(p.toks) }

// pos is the diagnostic position for the token at i, falling back to
// the last token when the stream is exhausted.
func (p *Parser) pos(i int) (line, col int) {
	switch {
	case i < len(p.toks):
		return p.toks[i].Line, p.toks[i].Col
	case len(p.toks) != 0:
		last := p.toks[len(p.toks)-1]
		return last.Line, last.Col
	default:
		return 1, 1
	}
}

// accept consumes one token of the wanted kind, silently. Callers
// that own a single summary diagnostic probe with it instead of
// expect.
func (p *Parser) accept(st int, k token.Kind) (tk token.Token, i int, ok bool) {
	tk = p.tk(st)

	if tk.Kind == k {
		return tk, st + 1, true
	}

	return token.Token{}, st, false
}

// expect consumes one token of the wanted kind (and text, when text is
// not empty) or reports a diagnostic and leaves the cursor in place.
func (p *Parser) expect(ctx context.Context, st int, k token.Kind, text, in string) (tk token.Token, i int, ok bool) {
	tk = p.tk(st)

	if text != "" && tk.Is(k, text) || text == "" && tk.Kind == k {
		return tk, st + 1, true
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("parse_expect") {
		tr.Printw("expect failed", "want_kind", k, "want_text", text, "got", tk, "from", loc.Callers(1, 3))
	}

	want := k.String()
	if text != "" {
		want = "'" + text + "'"
	}

	line, col := p.pos(st)

	if !p.at(st) {
		p.report(line, col, "expected %v in %v, found end of input", want, in)
	} else {
		p.report(line, col, "expected %v in %v, found '%v'", want, in, tk.Text)
	}

	return token.Token{}, st, false
}

// report records an error diagnostic, deduplicated by message and position.
func (p *Parser) report(line, col int, format string, args ...interface{}) {
	p.add(diag.Error, line, col, format, args...)
}

func (p *Parser) warn(line, col int, format string, args ...interface{}) {
	p.add(diag.Warning, line, col, format, args...)
}

func (p *Parser) add(sev diag.Severity, line, col int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	k := diagKey{msg: msg, line: line, col: col}
	if _, ok := p.seen[k]; ok {
		return
	}

	p.seen[k] = struct{}{}

	p.diags = append(p.diags, diag.Diagnostic{Msg: msg, Line: line, Col: col, Severity: sev})
}

// synchronize skips ahead to a token a new command can start from:
// a declaration, control-flow or domain keyword, an invocation or a
// listed boundary word starting a new line, or a closing symbol.
// The failure token itself counts, so a declaration right after a
// broken one is not lost. Progress is still guaranteed: every caller
// consumed its opening keyword before failing, and every boundary
// token starts a command that consumes it.
func (p *Parser) synchronize(ctx context.Context, st int) (i int) {
	for i = st; p.at(i); i++ {
		if i-st >= maxSync {
			line, col := p.pos(i)
			p.report(line, col, "recovery limit reached, remaining input skipped")

			if tr := tlog.SpanFromContext(ctx); tr.If("parse_sync") {
				tr.Printw("sync bound hit", "from", st, "at", i, "tokens", len(p.toks))
			}

			return len(p.toks)
		}

		tk := p.tk(i)
		newLine := i == 0 || tk.Line != p.tk(i-1).Line

		switch tk.Kind {
		case token.EntityDecl, token.ControlFlow, token.Keyword:
			return i
		case token.Invoke:
			if newLine {
				return i
			}
		case token.DomainType:
			if newLine && tk.IsText("Resultado") {
				return i
			}
		case token.SpecialOp:
			if newLine {
				return i
			}
		case token.Punct:
			switch tk.Text {
			case "}", "]", ")":
				return i
			}
		}
	}

	return i
}

func isTerminator(tk token.Token) bool {
	if tk.Kind != token.Keyword {
		return false
	}

	switch strings.ToLower(tk.Text) {
	case "finact", "fincarr", "finruti", "finprep":
		return true
	}

	return false
}
