package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olympiac-lang/olympiac/compiler/parse"
	"github.com/olympiac-lang/olympiac/compiler/scan"
	"github.com/olympiac-lang/olympiac/compiler/verify"
)

func build(t *testing.T, src string) *Report {
	t.Helper()

	ctx := context.Background()

	toks, scanErrs := scan.Tokens(ctx, []byte(src))
	tree := parse.Parse(ctx, toks)
	res := verify.Run(ctx, tree)

	return New("prog.oly", len(toks), scanErrs, tree, res)
}

// one syntax error, one semantic error, one warning
const mixedSrc = `Deportista juan 10 8
narrar(zzz)
Argentina vs Brasil
empate
empate
Resultado 1 - 1
finact`

func TestNew(t *testing.T) {
	r := build(t, mixedSrc)

	assert.Equal(t, "prog.oly", r.File)
	assert.Len(t, r.ID, 36)

	assert.Equal(t, 1, r.Counts.Syntax)
	assert.Equal(t, 1, r.Counts.Semantic)
	assert.Equal(t, 1, r.Counts.Warnings)
	assert.NotZero(t, r.Counts.Tokens)
	assert.NotZero(t, r.Counts.Nodes)

	assert.False(t, r.Clean())

	require.Len(t, r.Syntax, 2)
	assert.Equal(t, "incomplete athlete declaration", r.Syntax[0].Msg)
	assert.Equal(t, "duplicate tie marker, keeping the first", r.Syntax[1].Msg)

	require.Len(t, r.Semantic, 1)
	assert.Equal(t, "identifier 'zzz' used before being declared", r.Semantic[0].Msg)

	// global scope snapshot is always present
	require.Len(t, r.Symbols, 1)
	assert.Equal(t, 0, r.Symbols[0].Level)
}

func TestClean(t *testing.T) {
	r := build(t, "Deportista juan 1 2 3 Futbol P\nnarrar(juan)")

	assert.True(t, r.Clean())
	assert.Equal(t, 0, r.Counts.Syntax)
	assert.Equal(t, 0, r.Counts.Semantic)
	assert.Len(t, r.Trail, 1)
}

func TestEncodeJSON(t *testing.T) {
	r := build(t, mixedSrc)

	data, err := r.EncodeJSON()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	var back map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, r.ID, back["id"])
	assert.Equal(t, "prog.oly", back["file"])

	counts, ok := back["counts"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), counts["syntax_errors"])
	assert.Equal(t, float64(1), counts["semantic_errors"])
}

func TestEncodeYAML(t *testing.T) {
	r := build(t, mixedSrc)

	data, err := r.EncodeYAML()
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, "file: prog.oly")
	assert.Contains(t, s, "syntax_errors: 1")
	assert.Contains(t, s, "message: incomplete athlete declaration")
}

func TestWriteFile(t *testing.T) {
	r := build(t, mixedSrc)
	dir := t.TempDir()

	jpath := filepath.Join(dir, "prog.report.json")
	require.NoError(t, r.WriteFile(context.Background(), jpath))

	data, err := os.ReadFile(jpath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"))

	ypath := filepath.Join(dir, "prog.report.yaml")
	require.NoError(t, r.WriteFile(context.Background(), ypath))

	data, err = os.ReadFile(ypath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file: prog.oly")
}

func TestRenderPlain(t *testing.T) {
	r := build(t, mixedSrc)

	out := r.Render(false)

	assert.Contains(t, out, "prog.oly")
	assert.Contains(t, out, "syntax:")
	assert.Contains(t, out, "semantic:")
	assert.Contains(t, out, "[error] incomplete athlete declaration (1:1)")
	assert.Contains(t, out, "[warn]  duplicate tie marker, keeping the first (5:1)")

	// semantic positions carry no column
	assert.Contains(t, out, "identifier 'zzz' used before being declared (line 2)")
	assert.Contains(t, out, "2 errors, 1 warning")
}

func TestRenderOK(t *testing.T) {
	r := build(t, "narrar(1)")

	out := r.Render(false)
	assert.Contains(t, out, "ok")
	assert.NotContains(t, out, "syntax:")
}
