package token

import (
	"fmt"
	"strings"
)

type (
	// Kind is the lexical category of a token.
	Kind int

	// Token is a single lexeme with its source position.
	// Line and Col are 1-based.
	Token struct {
		Kind Kind
		Text string
		Line int
		Col  int
	}
)

const (
	None Kind = iota // zero value, no token

	Comment
	EntityDecl   // Deportista, Lista
	DomainType   // Pais, Deporte, Resultado
	ControlFlow  // si, entonces, sino, endif, Repetir, FinRep, RepetirHasta, FinRepHasta
	Invoke       // narrar(, Comparar(, input(
	Keyword      // preparacion, fincarr, ceremonia_medallas, ...
	ResultMarker // listaRes
	TieMarker    // empate
	CompareOp    // == != >= <= > <
	SpecialOp    // vs
	ArithOp      // + - * / %
	Int
	Bool // True, False
	Ident
	Punct // ( ) , : { } [ ] .
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Comment:
		return "comment"
	case EntityDecl:
		return "entity-declaration"
	case DomainType:
		return "domain-type"
	case ControlFlow:
		return "control-flow"
	case Invoke:
		return "function-invocation"
	case Keyword:
		return "domain-keyword"
	case ResultMarker:
		return "result-marker"
	case TieMarker:
		return "tie-marker"
	case CompareOp:
		return "comparison-operator"
	case SpecialOp:
		return "special-operator"
	case ArithOp:
		return "arithmetic-operator"
	case Int:
		return "integer-literal"
	case Bool:
		return "boolean-literal"
	case Ident:
		return "identifier"
	case Punct:
		return "punctuation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Is reports whether the token has the given kind and text.
// Text comparison is case-insensitive, matching keyword recognition.
func (t Token) Is(k Kind, text string) bool {
	return t.Kind == k && strings.EqualFold(t.Text, text)
}

// IsText reports whether the token text matches, whatever the kind.
func (t Token) IsText(text string) bool {
	return strings.EqualFold(t.Text, text)
}

func (t Token) String() string {
	return fmt.Sprintf("%v %q at %d:%d", t.Kind, t.Text, t.Line, t.Col)
}
