package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/olympiac-lang/olympiac/compiler/ast"
	"github.com/olympiac-lang/olympiac/compiler/diag"
	"github.com/olympiac-lang/olympiac/compiler/gen"
	"github.com/olympiac-lang/olympiac/compiler/parse"
	"github.com/olympiac-lang/olympiac/compiler/report"
	"github.com/olympiac-lang/olympiac/compiler/scan"
	"github.com/olympiac-lang/olympiac/compiler/token"
	"github.com/olympiac-lang/olympiac/compiler/verify"
)

type (
	// Result carries the output of every stage for one source file.
	// Stages never abort on bad input, so all fields are set even
	// when the diagnostics lists are not empty.
	Result struct {
		File string
		Text []byte

		Tokens   []token.Token
		ScanErrs diag.List

		Tree *ast.Tree

		Verify *verify.Result
	}
)

// CheckFile runs the full pipeline on the named file.
func CheckFile(ctx context.Context, name string) (*Result, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Check(ctx, name, text)
}

// Check scans, parses and verifies text. The error is only set for
// operational failures; language problems land in the result.
func Check(ctx context.Context, name string, text []byte) (*Result, error) {
	res := &Result{File: name, Text: text}

	res.Tokens, res.ScanErrs = scan.Tokens(ctx, text)

	res.Tree = parse.Parse(ctx, res.Tokens)
	if res.Tree == nil {
		return nil, errors.New("parse produced no tree")
	}

	res.Verify = verify.Run(ctx, res.Tree)

	return res, nil
}

// GenerateFile checks the named file and renders it as Go source.
func GenerateFile(ctx context.Context, name, pkg string) ([]byte, error) {
	res, err := CheckFile(ctx, name)
	if err != nil {
		return nil, err
	}

	obj, err := gen.Program(ctx, res.Tree, res.Verify.Decs, pkg)
	if err != nil {
		return nil, errors.Wrap(err, "generate")
	}

	return obj, nil
}

// Report bundles the result for export and rendering.
func (r *Result) Report() *report.Report {
	return report.New(r.File, len(r.Tokens), r.ScanErrs, r.Tree, r.Verify)
}

// Errors merges the syntax and semantic diagnostics in stage order.
func (r *Result) Errors() diag.List {
	var ds diag.List

	ds = append(ds, r.ScanErrs...)

	if r.Tree != nil {
		ds = append(ds, r.Tree.Diags...)
	}

	if r.Verify != nil {
		ds = append(ds, r.Verify.Errs...)
	}

	return ds
}
