package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
}

var CLI struct {
	Config  string `help:"Configuration file path" default:"snapconf.yaml"`
	Verbose bool   `help:"Enable verbose output" short:"v"`
	Quiet   bool   `help:"Suppress output" short:"q"`

	Apply      ApplyCmd      `cmd:"" help:"Preprocess all configured files and link them into place"`
	Preprocess PreprocessCmd `cmd:"" help:"Preprocess configured files without linking"`
	Link       LinkCmd       `cmd:"" help:"Link previously preprocessed files to their targets"`
	Validate   ValidateCmd   `cmd:"" help:"Check the directive structure of all configured files"`
	Init       InitCmd       `cmd:"" help:"Initialize a new snapconf project"`
	Version    VersionCmd    `cmd:"" help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
