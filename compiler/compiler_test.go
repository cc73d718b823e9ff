package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olympiac-lang/olympiac/compiler/diag"
)

const sample = `; torneo de ejemplo
Deportista juan 10 8 9 Futbol CostaRica
Deportista ana 9 9 9 Natacion Cuba
Lista Deportista equipo
equipo.agregar(juan)

si Comparar(juan, ana) > 0 entonces {
	narrar(juan)
} sino {
	narrar(ana)
} endif

Argentina vs Brasil
Resultado 2 - 1
finact`

func TestCheck(t *testing.T) {
	res, err := Check(context.Background(), "sample.oly", []byte(sample))
	require.NoError(t, err)

	assert.NotEmpty(t, res.Tokens)
	assert.Empty(t, res.ScanErrs)
	require.NotNil(t, res.Tree)
	assert.Empty(t, res.Tree.Diags)
	require.NotNil(t, res.Verify)
	assert.Empty(t, res.Verify.Errs)

	assert.Empty(t, res.Errors())
}

func TestCheckCollectsAllStages(t *testing.T) {
	src := "7 = 3\nDeportista juan 10 8\nnarrar(zzz)"

	res, err := Check(context.Background(), "bad.oly", []byte(src))
	require.NoError(t, err)

	require.Len(t, res.ScanErrs, 1)
	assert.Equal(t, `unrecognized character '='`, res.ScanErrs[0].Msg)

	require.Len(t, res.Tree.Diags, 1)
	assert.Equal(t, "incomplete athlete declaration", res.Tree.Diags[0].Msg)

	require.Len(t, res.Verify.Errs, 1)
	assert.Equal(t, "identifier 'zzz' used before being declared", res.Verify.Errs[0].Msg)

	// merged in stage order
	all := res.Errors()
	require.Len(t, all, 3)
	assert.Equal(t, res.ScanErrs[0], all[0])
	assert.Equal(t, 3, all.Count(diag.Error))
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.oly")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	res, err := CheckFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, res.File)
	assert.Equal(t, []byte(sample), res.Text)
	assert.Empty(t, res.Errors())
}

func TestCheckFileMissing(t *testing.T) {
	_, err := CheckFile(context.Background(), filepath.Join(t.TempDir(), "nope.oly"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read file")
}

func TestGenerateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.oly")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	obj, err := GenerateFile(context.Background(), path, "main")
	require.NoError(t, err)

	out := string(obj)
	assert.True(t, strings.HasPrefix(out, "package main\n"))
	assert.Contains(t, out, `register("juan", 10, 8, 9, "Futbol", "CostaRica")`)
	assert.Contains(t, out, `equipo = append(equipo, "juan")`)
	assert.Contains(t, out, "resultado(2, 1)")
}

func TestReport(t *testing.T) {
	res, err := Check(context.Background(), "sample.oly", []byte(sample))
	require.NoError(t, err)

	r := res.Report()
	assert.True(t, r.Clean())
	assert.Equal(t, "sample.oly", r.File)
	assert.Equal(t, len(res.Tokens), r.Counts.Tokens)

	// juan, ana and equipo declared at the top level
	require.NotEmpty(t, r.Symbols)
	assert.Len(t, r.Symbols[0].Entries, 3)
	assert.Len(t, r.Trail, 3)
}
