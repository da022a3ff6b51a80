// Package main is the entry point for the oag command-line tool.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urmzd/oag/internal/cli"
	"github.com/urmzd/oag/pkg/compiler"
	"github.com/urmzd/oag/pkg/generator/fastapi"
	"github.com/urmzd/oag/pkg/generator/react"
	"github.com/urmzd/oag/pkg/generator/typescript"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

func run(args []string) error {
	comp := compiler.New(compiler.WithWarningHandler(func(w string) {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}))

	// Register the built-in targets; the configured generators map selects
	// which of them actually run.
	comp.Register(typescript.New())
	comp.Register(react.New())
	comp.Register(fastapi.New())

	app := cli.NewApp(comp, "dev")
	return app.Run(context.Background(), args)
}
