package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTOML(t *testing.T) {
	content := `
color = false
trace = "parse_*"
limit = 500

[report]
format = "yaml"

[gen]
package = "olyprog"
`

	c, err := Parse([]byte(content), FormatTOML)
	require.NoError(t, err)

	assert.False(t, c.Bool("color", true))
	assert.Equal(t, "parse_*", c.String("trace", ""))
	assert.Equal(t, 500, c.Int("limit", 0))
	assert.Equal(t, "yaml", c.String("report.format", "json"))
	assert.Equal(t, "olyprog", c.String("gen.package", "main"))

	assert.True(t, c.Has("report.format"))
	assert.False(t, c.Has("report.color"))
	assert.False(t, c.Has("missing"))
}

func TestParseYAML(t *testing.T) {
	content := `
color: false
limit: 42
report:
  format: yaml
`

	c, err := Parse([]byte(content), FormatYAML)
	require.NoError(t, err)

	assert.False(t, c.Bool("color", true))
	assert.Equal(t, 42, c.Int("limit", 0))
	assert.Equal(t, "yaml", c.String("report.format", "json"))
}

func TestParseEmpty(t *testing.T) {
	c, err := Parse(nil, FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, "fallback", c.String("anything", "fallback"))
}

func TestParseBroken(t *testing.T) {
	_, err := Parse([]byte("= no key"), FormatTOML)
	require.Error(t, err)

	_, err = Parse([]byte("\t- : ["), FormatYAML)
	require.Error(t, err)
}

func TestDefaults(t *testing.T) {
	c := Default()

	assert.True(t, c.Bool("color", false))
	assert.Equal(t, "json", c.String("report.format", ""))
	assert.Equal(t, "main", c.String("gen.package", ""))
	assert.Equal(t, 7, c.Int("nope", 7))
}

func TestSet(t *testing.T) {
	c := Default()

	c.Set("report.format", "yaml")
	assert.Equal(t, "yaml", c.String("report.format", ""))

	// intermediate tables are created on demand
	c.Set("a.b.c", 3)
	assert.Equal(t, 3, c.Int("a.b.c", 0))

	var zero Config

	zero.Set("x", "y")
	assert.Equal(t, "y", zero.String("x", ""))
}

func TestConversions(t *testing.T) {
	c, err := Parse([]byte("n = 3\nflag = true\ns = \"10\""), FormatTOML)
	require.NoError(t, err)

	// toml integers arrive as int64
	assert.Equal(t, "3", c.String("n", ""))
	assert.Equal(t, 3, c.Int("n", 0))
	assert.Equal(t, "true", c.String("flag", ""))
	assert.Equal(t, 10, c.Int("s", 0))
	assert.True(t, c.Bool("flag", false))
}

func TestLoadDetectsFormat(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("color: false"), 0o644))

	c, err := Load(context.Background(), path, FormatAuto)
	require.NoError(t, err)

	assert.Equal(t, FormatYAML, c.Format())
	assert.Equal(t, path, c.Path())
	assert.False(t, c.Bool("color", true))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.toml"), FormatAuto)
	require.Error(t, err)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "olympiac.toml")
	require.NoError(t, os.WriteFile(path, []byte(`color = false`), 0o644))

	c, err := Discover(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, path, c.Path())
	assert.False(t, c.Bool("color", true))
}

func TestDiscoverOrder(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "olympiac.toml"), []byte(`color = false`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "olympiac.yaml"), []byte(`color: true`), 0o644))

	c, err := Discover(context.Background(), dir)
	require.NoError(t, err)

	// toml wins
	assert.False(t, c.Bool("color", true))
}

func TestDiscoverNothing(t *testing.T) {
	c, err := Discover(context.Background(), t.TempDir())
	require.NoError(t, err)

	// defaults, no path
	assert.Equal(t, "", c.Path())
	assert.True(t, c.Bool("color", false))
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "toml", FormatTOML.String())
	assert.Equal(t, "yaml", FormatYAML.String())
	assert.Equal(t, "auto", FormatAuto.String())
	assert.Equal(t, "unknown", Format(9).String())
}
