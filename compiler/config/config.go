// Package config loads tool settings from olympiac.toml or
// olympiac.yaml files, with dot notation access and defaults.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	// Format is the configuration file encoding.
	Format int

	// Config holds parsed settings. Zero value has no data and
	// every getter falls back to its default.
	Config struct {
		data   map[string]interface{}
		path   string
		format Format
	}
)

const (
	FormatTOML Format = iota
	FormatYAML
	FormatAuto
)

// filenames tried by Discover, in order.
var filenames = []string{"olympiac.toml", "olympiac.yaml", "olympiac.yml"}

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	}

	return "unknown"
}

// Default returns the built-in settings used when no file is found.
func Default() *Config {
	return &Config{
		data: map[string]interface{}{
			"color": true,
			"trace": "",
			"report": map[string]interface{}{
				"format": "json",
			},
			"gen": map[string]interface{}{
				"package": "main",
			},
		},
		format: FormatTOML,
	}
}

// Load reads and parses the file at path. Format is detected from
// the extension unless forced.
func Load(ctx context.Context, path string, format Format) (*Config, error) {
	if format == FormatAuto {
		format = detect(path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	c, err := Parse(content, format)
	if err != nil {
		return nil, errors.Wrap(err, "%v", path)
	}

	c.path = path

	tlog.SpanFromContext(ctx).Printw("config loaded", "path", path, "format", format)

	return c, nil
}

// Parse decodes raw settings in the given format.
func Parse(content []byte, format Format) (*Config, error) {
	if format == FormatAuto {
		format = FormatTOML
	}

	var data map[string]interface{}

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(content, &data); err != nil {
			return nil, errors.Wrap(err, "parse toml")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(content, &data); err != nil {
			return nil, errors.Wrap(err, "parse yaml")
		}
	default:
		return nil, errors.New("unsupported format: %v", format)
	}

	if data == nil {
		data = map[string]interface{}{}
	}

	return &Config{data: data, format: format}, nil
}

// Discover looks for a config file in dir and loads the first match.
// No file is not an error; defaults are returned instead.
func Discover(ctx context.Context, dir string) (*Config, error) {
	if dir == "" {
		dir = "."
	}

	for _, name := range filenames {
		path := filepath.Join(dir, name)

		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		return Load(ctx, path, FormatAuto)
	}

	return Default(), nil
}

func detect(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}

	return FormatTOML
}

// Path returns the file the settings came from, if any.
func (c *Config) Path() string { return c.path }

// Format returns the detected encoding.
func (c *Config) Format() Format { return c.format }

// Has reports whether key is present in the file.
func (c *Config) Has(key string) bool {
	return c.value(key) != nil
}

// Set overrides a value at runtime. Flags use it to win over files.
func (c *Config) Set(key string, val interface{}) {
	if c.data == nil {
		c.data = map[string]interface{}{}
	}

	keys := strings.Split(key, ".")
	cur := c.data

	for i, k := range keys {
		if i == len(keys)-1 {
			cur[k] = val
			return
		}

		next, ok := cur[k].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[k] = next
		}

		cur = next
	}
}

// String returns the value at key, or def when unset.
func (c *Config) String(key, def string) string {
	v := c.value(key)
	if v == nil {
		return def
	}

	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	}

	return def
}

// Int returns the value at key, or def when unset or not a number.
func (c *Config) Int(key string, def int) int {
	switch v := c.value(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return def
}

// Bool returns the value at key, or def when unset or not a bool.
func (c *Config) Bool(key string, def bool) bool {
	switch v := c.value(key).(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}

	return def
}

// value walks dot notation keys through nested tables.
func (c *Config) value(key string) interface{} {
	keys := strings.Split(key, ".")
	cur := c.data

	for i, k := range keys {
		if i == len(keys)-1 {
			return cur[k]
		}

		next, ok := cur[k].(map[string]interface{})
		if !ok {
			return nil
		}

		cur = next
	}

	return nil
}
