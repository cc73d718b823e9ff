package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/olympiac-lang/olympiac/compiler"
	"github.com/olympiac-lang/olympiac/compiler/ast"
	"github.com/olympiac-lang/olympiac/compiler/config"
	"github.com/olympiac-lang/olympiac/compiler/parse"
	"github.com/olympiac-lang/olympiac/compiler/scan"
	"github.com/olympiac-lang/olympiac/tui"
)

func main() {
	tokensCmd := &cli.Command{
		Name:   "tokens",
		Action: tokensAct,
		Args:   cli.Args{},
	}

	parseCmd := &cli.Command{
		Name:   "parse",
		Action: parseAct,
		Args:   cli.Args{},
	}

	checkCmd := &cli.Command{
		Name:   "check",
		Action: checkAct,
		Args:   cli.Args{},
	}

	genCmd := &cli.Command{
		Name:   "gen",
		Action: genAct,
		Args:   cli.Args{},
	}

	reportCmd := &cli.Command{
		Name:   "report",
		Action: reportAct,
		Args:   cli.Args{},
	}

	viewCmd := &cli.Command{
		Name:   "view",
		Action: viewAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "olympiac",
		Description: "olympiac is a tool for checking olympiac source code",
		Commands: []*cli.Command{
			tokensCmd,
			parseCmd,
			checkCmd,
			genCmd,
			reportCmd,
			viewCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func setup() (context.Context, *config.Config, error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	cfg, err := config.Discover(ctx, ".")
	if err != nil {
		return nil, nil, errors.Wrap(err, "config")
	}

	if f := cfg.String("trace", ""); f != "" {
		tlog.SetVerbosity(f)
	}

	return ctx, cfg, nil
}

func tokensAct(c *cli.Command) (err error) {
	ctx, _, err := setup()
	if err != nil {
		return err
	}

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		toks, diags := scan.Tokens(ctx, text)

		for _, tk := range toks {
			fmt.Printf("%v\n", tk)
		}

		for _, d := range diags {
			fmt.Printf("error: %v at %v:%v\n", d.Msg, d.Line, d.Col)
		}
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx, _, err := setup()
	if err != nil {
		return err
	}

	for _, a := range c.Args {
		t, err := parse.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		fmt.Printf("%s", ast.Dump(t))

		for _, d := range t.Diags {
			fmt.Printf("%v: %v at %v:%v\n", d.Severity, d.Msg, d.Line, d.Col)
		}
	}

	return nil
}

func checkAct(c *cli.Command) (err error) {
	ctx, cfg, err := setup()
	if err != nil {
		return err
	}

	failed := 0

	for _, a := range c.Args {
		res, err := compiler.CheckFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "check %v", a)
		}

		rep := res.Report()

		fmt.Printf("%s", rep.Render(cfg.Bool("color", true)))

		if !rep.Clean() {
			failed++
		}
	}

	if failed != 0 {
		return errors.New("%v of %v files have problems", failed, len(c.Args))
	}

	return nil
}

func genAct(c *cli.Command) (err error) {
	ctx, cfg, err := setup()
	if err != nil {
		return err
	}

	for _, a := range c.Args {
		obj, err := compiler.GenerateFile(ctx, a, cfg.String("gen.package", "main"))
		if err != nil {
			return errors.Wrap(err, "generate %v", a)
		}

		fmt.Printf("%s", obj)
	}

	return nil
}

func reportAct(c *cli.Command) (err error) {
	ctx, cfg, err := setup()
	if err != nil {
		return err
	}

	ext := cfg.String("report.format", "json")

	for _, a := range c.Args {
		res, err := compiler.CheckFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "check %v", a)
		}

		path := strings.TrimSuffix(a, filepath.Ext(a)) + ".report." + ext

		err = res.Report().WriteFile(ctx, path)
		if err != nil {
			return errors.Wrap(err, "report %v", a)
		}

		fmt.Printf("%v\n", path)
	}

	return nil
}

func viewAct(c *cli.Command) (err error) {
	ctx, _, err := setup()
	if err != nil {
		return err
	}

	for _, a := range c.Args {
		res, err := compiler.CheckFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "check %v", a)
		}

		err = tui.Run(res)
		if err != nil {
			return errors.Wrap(err, "view %v", a)
		}
	}

	return nil
}
