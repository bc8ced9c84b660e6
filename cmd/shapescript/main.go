// Command shapescript is the reference CLI front end: parse a file and
// report diagnostics, dump its token stream, or evaluate it against a
// stub geometry builder that mints opaque handles without rendering.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"shapescript"
	"shapescript/diag"
	"shapescript/lexer"
)

// Context carries flags shared by every subcommand.
type Context struct {
	Config string
}

// ParseCmd parses a file in the given (or auto-detected) dialect and
// reports either success or a detailed diagnostic.
type ParseCmd struct {
	File    string `arg:"" help:"Source file to parse"`
	Dialect string `help:"Force dialect: shapescript or openscad" default:""`
}

func (cmd *ParseCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return err
	}

	source := string(data)

	_, err = shapescript.Parse(source, cmd.File, shapescript.Dialect(cmd.Dialect))
	if err != nil {
		if derr, ok := err.(*diag.Error); ok {
			color.Red("%s", derr.Detailed(source))
			os.Exit(1)
		}

		return err
	}

	color.Green("parsed %s OK", cmd.File)

	return nil
}

// TokensCmd dumps the token stream of a file, one per line.
type TokensCmd struct {
	File string `arg:"" help:"Source file to tokenize"`
}

func (cmd *TokensCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return err
	}

	toks, err := lexer.New(string(data)).All()
	if err != nil {
		return err
	}

	for _, t := range toks {
		fmt.Println(t.String())
	}

	return nil
}

// EvalCmd parses and evaluates a file, printing the scene's value count
// and any print/debug log lines the program emitted.
type EvalCmd struct {
	File    string `arg:"" help:"Source file to evaluate"`
	Dialect string `help:"Force dialect: shapescript or openscad" default:""`
}

func (cmd *EvalCmd) Run(ctx *Context) error {
	config, err := shapescript.LoadConfig(ctx.Config)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return err
	}

	source := string(data)

	prog, err := shapescript.Parse(source, cmd.File, shapescript.Dialect(cmd.Dialect))
	if err != nil {
		if derr, ok := err.(*diag.Error); ok {
			color.Red("%s", derr.Detailed(source))
			os.Exit(1)
		}

		return err
	}

	delegate := shapescript.NewFileDelegate(config.ImportPaths)

	scene, err := shapescript.Evaluate(prog, delegate, shapescript.StubBuilder{}, nil, config.MaxRecursionDepth)
	if err != nil {
		if derr, ok := err.(*diag.Error); ok {
			color.Red("%s", derr.Detailed(source))
			os.Exit(1)
		}

		return err
	}

	for _, v := range delegate.Log {
		fmt.Printf("print: %+v\n", v)
	}

	color.Green("evaluated %s: %d top-level value(s)", cmd.File, len(scene.Children))

	return nil
}

// CLI is the top-level command set.
var CLI struct {
	Config string    `help:"Configuration file path" default:"shapescript.yaml"`
	Parse  ParseCmd  `cmd:"" help:"Parse a file and report diagnostics"`
	Tokens TokensCmd `cmd:"" help:"Dump a file's token stream"`
	Eval   EvalCmd   `cmd:"" help:"Parse and evaluate a file"`
}

func main() {
	kongCtx := kong.Parse(&CLI)

	appCtx := &Context{Config: CLI.Config}

	err := kongCtx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
