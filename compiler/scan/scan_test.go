package scan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olympiac-lang/olympiac/compiler/token"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"Deportista", token.EntityDecl},
		{"LISTA", token.EntityDecl},
		{"Pais", token.DomainType},
		{"deporte", token.DomainType},
		{"Resultado", token.DomainType},
		{"si", token.ControlFlow},
		{"ENTONCES", token.ControlFlow},
		{"sino", token.ControlFlow},
		{"endif", token.ControlFlow},
		{"Repetir", token.ControlFlow},
		{"FinRep", token.ControlFlow},
		{"RepetirHasta", token.ControlFlow},
		{"FinRepHasta", token.ControlFlow},
		{"preparacion", token.Keyword},
		{"finprep", token.Keyword},
		{"InicioCarrera", token.Keyword},
		{"correr", token.Keyword},
		{"finCarr", token.Keyword},
		{"InicioRutina", token.Keyword},
		{"ejecutar", token.Keyword},
		{"finRuti", token.Keyword},
		{"finact", token.Keyword},
		{"ceremonia_medallas", token.Keyword},
		{"competencia_oficial", token.Keyword},
		{"partido_clasificatorio", token.Keyword},
		{"listaRes", token.ResultMarker},
		{"empate", token.TieMarker},
		{"vs", token.SpecialOp},
		{"true", token.Bool},
		{"False", token.Bool},
		{"juan", token.Ident},
		{"42", token.Int},
	}

	ctx := context.Background()

	for _, tc := range cases {
		toks, diags := Tokens(ctx, []byte(tc.src))

		require.Len(t, toks, 1, "src %q", tc.src)
		assert.Empty(t, diags, "src %q", tc.src)
		assert.Equal(t, tc.kind, toks[0].Kind, "src %q", tc.src)
		assert.Equal(t, tc.src, toks[0].Text, "src %q", tc.src)
	}
}

func TestAthleteLine(t *testing.T) {
	ctx := context.Background()

	toks, diags := Tokens(ctx, []byte("Deportista juan 10 8 9 Futbol CostaRica"))

	require.Empty(t, diags)
	require.Equal(t, []token.Kind{
		token.EntityDecl, token.Ident,
		token.Int, token.Int, token.Int,
		token.Ident, token.Ident,
	}, kinds(toks))

	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 1, toks[0].Col)
	assert.Equal(t, 12, toks[1].Col)
	assert.Equal(t, "juan", toks[1].Text)
}

func TestInvoke(t *testing.T) {
	ctx := context.Background()

	toks, diags := Tokens(ctx, []byte("narrar(juan)"))

	require.Empty(t, diags)
	require.Equal(t, []token.Kind{token.Invoke, token.Ident, token.Punct}, kinds(toks))
	assert.Equal(t, "narrar(", toks[0].Text)

	// classification keeps the written case
	toks, _ = Tokens(ctx, []byte("Comparar(a, b)"))
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Invoke, toks[0].Kind)
	assert.Equal(t, "Comparar(", toks[0].Text)

	// not an invocable, the paren stays separate
	toks, _ = Tokens(ctx, []byte("agregar(x)"))
	require.Equal(t, []token.Kind{token.Ident, token.Punct, token.Ident, token.Punct}, kinds(toks))

	// invocable without a following paren is a plain word
	toks, _ = Tokens(ctx, []byte("narrar"))
	require.Len(t, toks, 1)
	assert.Equal(t, token.Ident, toks[0].Kind)
}

func TestComment(t *testing.T) {
	ctx := context.Background()

	toks, diags := Tokens(ctx, []byte("; cualquier cosa == aqui\nnarrar(x)"))

	require.Empty(t, diags)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Comment, toks[0].Kind)
	assert.Equal(t, "; cualquier cosa == aqui", toks[0].Text)
	assert.Equal(t, token.Invoke, toks[1].Kind)
	assert.Equal(t, 2, toks[1].Line)
}

func TestOperators(t *testing.T) {
	ctx := context.Background()

	toks, diags := Tokens(ctx, []byte("== != <= >= < > + - * / %"))

	require.Empty(t, diags)
	require.Len(t, toks, 11)

	for i := 0; i < 6; i++ {
		assert.Equal(t, token.CompareOp, toks[i].Kind, "op %v", toks[i].Text)
	}

	for i := 6; i < 11; i++ {
		assert.Equal(t, token.ArithOp, toks[i].Kind, "op %v", toks[i].Text)
	}

	// dash between numbers is arithmetic, result lines rely on it
	toks, _ = Tokens(ctx, []byte("Resultado 3 - 2"))
	require.Equal(t, []token.Kind{token.DomainType, token.Int, token.ArithOp, token.Int}, kinds(toks))
}

func TestLexErrors(t *testing.T) {
	ctx := context.Background()

	toks, diags := Tokens(ctx, []byte("juan = 3"))

	require.Len(t, diags, 1)
	assert.Equal(t, `unrecognized character '='`, diags[0].Msg)
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, 6, diags[0].Col)

	// scanning continues past the bad byte
	require.Equal(t, []token.Kind{token.Ident, token.Int}, kinds(toks))

	_, diags = Tokens(ctx, []byte("!"))
	require.Len(t, diags, 1)

	_, diags = Tokens(ctx, []byte("@ juan"))
	require.Len(t, diags, 1)
	assert.Equal(t, `unrecognized character '@'`, diags[0].Msg)
}

func TestPositions(t *testing.T) {
	ctx := context.Background()

	toks, _ := Tokens(ctx, []byte("si x > 2\n\tnarrar(x)\nendif"))

	require.Len(t, toks, 8)

	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[4].Line)
	assert.Equal(t, 2, toks[4].Col)
	assert.Equal(t, 3, toks[7].Line)
	assert.Equal(t, 1, toks[7].Col)
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))

	for i, tk := range toks {
		ks[i] = tk.Kind
	}

	return ks
}
