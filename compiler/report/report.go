// Package report bundles the outcome of a check run into an
// exportable document and renders it for the terminal.
package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/olympiac-lang/olympiac/compiler/ast"
	"github.com/olympiac-lang/olympiac/compiler/diag"
	"github.com/olympiac-lang/olympiac/compiler/sym"
	"github.com/olympiac-lang/olympiac/compiler/verify"
)

type (
	// Report is the full outcome of checking one source file.
	Report struct {
		ID   string `json:"id" yaml:"id"`
		File string `json:"file" yaml:"file"`

		Counts Counts `json:"counts" yaml:"counts"`

		Syntax   diag.List `json:"syntax,omitempty" yaml:"syntax,omitempty"`
		Semantic diag.List `json:"semantic,omitempty" yaml:"semantic,omitempty"`

		Symbols sym.Snapshot  `json:"symbols,omitempty" yaml:"symbols,omitempty"`
		Trail   []verify.Snap `json:"trail,omitempty" yaml:"trail,omitempty"`
	}

	Counts struct {
		Tokens   int `json:"tokens" yaml:"tokens"`
		Nodes    int `json:"nodes" yaml:"nodes"`
		Syntax   int `json:"syntax_errors" yaml:"syntax_errors"`
		Semantic int `json:"semantic_errors" yaml:"semantic_errors"`
		Warnings int `json:"warnings" yaml:"warnings"`
	}
)

var (
	fileStyle = lipgloss.NewStyle().Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// New assembles a report from the pipeline stages. Scanner and parser
// diagnostics are merged into the syntax section.
func New(file string, tokens int, scanErrs diag.List, t *ast.Tree, res *verify.Result) *Report {
	r := &Report{
		ID:   uuid.NewString(),
		File: file,
	}

	r.Syntax = append(r.Syntax, scanErrs...)

	if t != nil {
		r.Syntax = append(r.Syntax, t.Diags...)
		r.Counts.Nodes = t.Len()
	}

	if res != nil {
		r.Semantic = res.Errs
		r.Trail = res.Trail

		if res.Table != nil {
			r.Symbols = res.Table.Snapshot()
		}
	}

	r.Counts.Tokens = tokens
	r.Counts.Syntax = r.Syntax.Count(diag.Error)
	r.Counts.Semantic = r.Semantic.Count(diag.Error)
	r.Counts.Warnings = r.Syntax.Count(diag.Warning) + r.Semantic.Count(diag.Warning)

	return r
}

// Clean reports whether the run produced no errors of any kind.
func (r *Report) Clean() bool {
	return r.Counts.Syntax == 0 && r.Counts.Semantic == 0
}

// EncodeJSON marshals the report as indented json.
func (r *Report) EncodeJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal json")
	}

	return append(data, '\n'), nil
}

// EncodeYAML marshals the report as yaml.
func (r *Report) EncodeYAML() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "marshal yaml")
	}

	return data, nil
}

// WriteFile exports the report to path, yaml for .yaml/.yml
// extensions and json otherwise.
func (r *Report) WriteFile(ctx context.Context, path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = r.EncodeYAML()
	default:
		data, err = r.EncodeJSON()
	}

	if err != nil {
		return err
	}

	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		return errors.Wrap(err, "write report")
	}

	tlog.SpanFromContext(ctx).Printw("report written", "path", path, "id", r.ID, "size", len(data))

	return nil
}

// Render formats the report for a terminal. With color off the
// output is plain text suitable for pipes and tests.
func (r *Report) Render(color bool) string {
	var b strings.Builder

	b.WriteString(paint(color, fileStyle, r.File))
	b.WriteString(" ")
	b.WriteString(paint(color, dimStyle, "("+r.ID+")"))
	b.WriteString("\n\n")

	section(&b, color, "syntax", r.Syntax)
	section(&b, color, "semantic", r.Semantic)

	if r.Clean() && r.Counts.Warnings == 0 {
		b.WriteString(paint(color, okStyle, "ok"))
	} else {
		b.WriteString(summary(color, r.Counts))
	}

	b.WriteString("\n")

	return b.String()
}

func section(b *strings.Builder, color bool, name string, ds diag.List) {
	if len(ds) == 0 {
		return
	}

	b.WriteString(paint(color, dimStyle, name+":"))
	b.WriteString("\n")

	for _, d := range ds {
		b.WriteString("  ")
		b.WriteString(badge(color, d.Severity))
		b.WriteString(" ")
		b.WriteString(d.Msg)
		b.WriteString(" ")
		b.WriteString(paint(color, dimStyle, pos(d)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
}

func badge(color bool, sev diag.Severity) string {
	switch sev {
	case diag.Warning:
		return paint(color, warnStyle, "[warn] ")
	default:
		return paint(color, errStyle, "[error]")
	}
}

func summary(color bool, c Counts) string {
	var parts []string

	if n := c.Syntax + c.Semantic; n != 0 {
		parts = append(parts, paint(color, errStyle, plural(n, "error")))
	}

	if c.Warnings != 0 {
		parts = append(parts, paint(color, warnStyle, plural(c.Warnings, "warning")))
	}

	return strings.Join(parts, ", ")
}

func paint(color bool, st lipgloss.Style, s string) string {
	if !color {
		return s
	}

	return st.Render(s)
}

func pos(d diag.Diagnostic) string {
	if d.Col == 0 {
		return "(line " + strconv.Itoa(d.Line) + ")"
	}

	return "(" + strconv.Itoa(d.Line) + ":" + strconv.Itoa(d.Col) + ")"
}

func plural(n int, what string) string {
	if n == 1 {
		return "1 " + what
	}

	return strconv.Itoa(n) + " " + what + "s"
}
