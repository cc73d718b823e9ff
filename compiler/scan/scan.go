package scan

import (
	"context"
	"strings"
	"unicode/utf8"

	"tlog.app/go/tlog"

	"github.com/olympiac-lang/olympiac/compiler/diag"
	"github.com/olympiac-lang/olympiac/compiler/token"
)

type (
	scanner struct {
		src []byte

		i         int
		line      int
		lineStart int

		toks  []token.Token
		diags diag.List
	}
)

// words maps every reserved word, lowercased, to its category.
var words = map[string]token.Kind{
	"deportista": token.EntityDecl,
	"lista":      token.EntityDecl,

	"pais":      token.DomainType,
	"deporte":   token.DomainType,
	"resultado": token.DomainType,

	"si":           token.ControlFlow,
	"entonces":     token.ControlFlow,
	"sino":         token.ControlFlow,
	"endif":        token.ControlFlow,
	"repetir":      token.ControlFlow,
	"finrep":       token.ControlFlow,
	"repetirhasta": token.ControlFlow,
	"finrephasta":  token.ControlFlow,

	"preparacion":            token.Keyword,
	"finprep":                token.Keyword,
	"iniciocarrera":          token.Keyword,
	"correr":                 token.Keyword,
	"fincarr":                token.Keyword,
	"iniciorutina":           token.Keyword,
	"ejecutar":               token.Keyword,
	"finruti":                token.Keyword,
	"finact":                 token.Keyword,
	"ceremonia_medallas":     token.Keyword,
	"competencia_oficial":    token.Keyword,
	"partido_clasificatorio": token.Keyword,

	"listares": token.ResultMarker,
	"empate":   token.TieMarker,
	"vs":       token.SpecialOp,

	"true":  token.Bool,
	"false": token.Bool,
}

// invocables are the builtin calls whose opening paren is part of the lexeme.
var invocables = map[string]bool{
	"narrar":   true,
	"comparar": true,
	"input":    true,
}

// Tokens splits src into the closed set of token categories.
// Whitespace is consumed and never emitted. Characters outside the
// language produce a diagnostic and are skipped, so the token stream
// is always well formed.
func Tokens(ctx context.Context, src []byte) ([]token.Token, diag.List) {
	s := &scanner{
		src:  src,
		line: 1,
	}

	tr := tlog.SpanFromContext(ctx)
	trace := tr.If("scan_tokens")

	for s.i < len(s.src) {
		st := len(s.toks)

		s.next()

		if trace {
			for _, tk := range s.toks[st:] {
				tr.Printw("token", "tk", tk)
			}
		}
	}

	tr.Printw("scanned", "tokens", len(s.toks), "lex_errors", len(s.diags))

	return s.toks, s.diags
}

func (s *scanner) next() {
	c := s.src[s.i]

	switch {
	case c == '\n':
		s.i++
		s.line++
		s.lineStart = s.i
	case c == ' ' || c == '\t' || c == '\r':
		s.i++
	case c == ';':
		s.comment()
	case isWordStart(c):
		s.word()
	case c >= '0' && c <= '9':
		s.number()
	case c == '=' || c == '!' || c == '<' || c == '>':
		s.compare()
	case c == '+' || c == '-' || c == '*' || c == '/' || c == '%':
		s.emit(token.ArithOp, string(c))
		s.i++
	case strings.IndexByte("(),:{}[].", c) >= 0:
		s.emit(token.Punct, string(c))
		s.i++
	default:
		r, size := utf8.DecodeRune(s.src[s.i:])
		s.diags = s.diags.Errorf(s.line, s.col(), "unrecognized character %q", r)
		s.i += size
	}
}

// comment runs to the end of the line, the ';' included in the text.
func (s *scanner) comment() {
	st := s.i

	for s.i < len(s.src) && s.src[s.i] != '\n' {
		s.i++
	}

	s.toks = append(s.toks, token.Token{
		Kind: token.Comment,
		Text: string(s.src[st:s.i]),
		Line: s.line,
		Col:  st - s.lineStart + 1,
	})
}

func (s *scanner) word() {
	st := s.i

	for s.i < len(s.src) && isWordPart(s.src[s.i]) {
		s.i++
	}

	text := string(s.src[st:s.i])
	low := strings.ToLower(text)

	if invocables[low] && s.i < len(s.src) && s.src[s.i] == '(' {
		s.i++

		s.toks = append(s.toks, token.Token{
			Kind: token.Invoke,
			Text: text + "(",
			Line: s.line,
			Col:  st - s.lineStart + 1,
		})

		return
	}

	kind, ok := words[low]
	if !ok {
		kind = token.Ident
	}

	s.toks = append(s.toks, token.Token{
		Kind: kind,
		Text: text,
		Line: s.line,
		Col:  st - s.lineStart + 1,
	})
}

func (s *scanner) number() {
	st := s.i

	for s.i < len(s.src) && s.src[s.i] >= '0' && s.src[s.i] <= '9' {
		s.i++
	}

	s.toks = append(s.toks, token.Token{
		Kind: token.Int,
		Text: string(s.src[st:s.i]),
		Line: s.line,
		Col:  st - s.lineStart + 1,
	})
}

func (s *scanner) compare() {
	c := s.src[s.i]
	two := s.i+1 < len(s.src) && s.src[s.i+1] == '='

	switch {
	case two:
		s.emit(token.CompareOp, string(c)+"=")
		s.i += 2
	case c == '<' || c == '>':
		s.emit(token.CompareOp, string(c))
		s.i++
	default:
		// lone = or ! is not part of the language
		s.diags = s.diags.Errorf(s.line, s.col(), "unrecognized character %q", rune(c))
		s.i++
	}
}

func (s *scanner) emit(kind token.Kind, text string) {
	s.toks = append(s.toks, token.Token{
		Kind: kind,
		Text: text,
		Line: s.line,
		Col:  s.col(),
	})
}

func (s *scanner) col() int { return s.i - s.lineStart + 1 }

func isWordStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isWordPart(c byte) bool {
	return isWordStart(c) || c >= '0' && c <= '9'
}
