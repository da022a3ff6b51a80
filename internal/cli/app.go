// Package cli implements the command-line interface logic for oag.
package cli

import (
	"context"
	"fmt"
	iofs "io/fs"
	"os"

	"github.com/urmzd/oag/pkg/compiler"
	"github.com/urmzd/oag/pkg/errors"
	"github.com/urmzd/oag/pkg/generator/fastapi"
	"github.com/urmzd/oag/pkg/generator/react"
	"github.com/urmzd/oag/pkg/generator/typescript"
)

// App is the main application struct.
type App struct {
	runner  *Runner
	version string
}

// NewApp creates a new CLI application instance.
func NewApp(comp *compiler.Compiler, version string) *App {
	return &App{
		runner:  NewRunner(comp),
		version: version,
	}
}

// Run builds the default compiler, executes the CLI, and returns the process
// exit code.
func Run(version string) int {
	comp := compiler.New(compiler.WithWarningHandler(func(w string) {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}))
	comp.Register(typescript.New())
	comp.Register(react.New())
	comp.Register(fastapi.New())

	app := NewApp(comp, version)
	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitCode(err)
	}
	return 0
}

// ExitCode maps an error onto the process exit code: 1 for user or spec
// errors, 2 for internal failures.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	for _, user := range []error{
		errors.ErrParse, errors.ErrUnresolvedRef, errors.ErrExternalRef,
		errors.ErrMalformedRef, errors.ErrInvalidIR, errors.ErrConfig,
		errors.ErrUnknownGenerator, errors.ErrUnsupportedLayout, errUsage,
	} {
		if errors.Is(err, user) {
			return 1
		}
	}
	if errors.Is(err, iofs.ErrNotExist) {
		return 1
	}
	return 2
}

// Run executes the CLI application.
func (a *App) Run(ctx context.Context, args []string) error {
	cmd, rest := "", []string{}
	if len(args) > 0 {
		cmd, rest = args[0], args[1:]
	}

	switch cmd {
	case "", "help", "-h", "--help":
		return a.printUsage()
	case "version", "--version":
		fmt.Println("oag " + a.version)
		return nil
	case "generate":
		opts, err := parseGenerateFlags(rest)
		if err != nil {
			return err
		}
		if opts.watch {
			return a.runner.Watch(ctx, opts)
		}
		return a.runner.Generate(ctx, opts)
	case "validate":
		opts, err := parseValidateFlags(rest)
		if err != nil {
			return err
		}
		return a.runner.Validate(ctx, opts)
	case "inspect":
		opts, err := parseInspectFlags(rest)
		if err != nil {
			return err
		}
		return a.runner.Inspect(ctx, opts)
	case "init":
		return a.runner.Init()
	case "completions":
		if len(rest) != 1 {
			return usageError("completions requires a shell argument (bash, zsh, or fish)")
		}
		return a.runner.Completions(rest[0])
	default:
		return usageError(fmt.Sprintf("unknown command %q", cmd))
	}
}

func (a *App) printUsage() error {
	fmt.Print(usageText)
	return nil
}
