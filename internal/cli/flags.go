package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// errUsage marks command-line usage mistakes; they exit with code 1.
var errUsage = errors.New("usage error")

func usageError(msg string) error {
	return fmt.Errorf("%w: %s", errUsage, msg)
}

type generateOpts struct {
	input      string
	configPath string
	watch      bool
}

type validateOpts struct {
	input      string
	configPath string
}

type inspectOpts struct {
	input      string
	configPath string
	format     string
}

func parseGenerateFlags(args []string) (generateOpts, error) {
	var opts generateOpts
	fs := newFlagSet("generate")
	fs.StringVar(&opts.input, "input", "", "Path to the OpenAPI document")
	fs.StringVar(&opts.input, "i", "", "Path to the OpenAPI document (shorthand)")
	fs.StringVar(&opts.configPath, "config", "", "Path to the config file")
	fs.StringVar(&opts.configPath, "c", "", "Path to the config file (shorthand)")
	fs.BoolVar(&opts.watch, "watch", false, "Regenerate when the spec or config changes")
	if err := fs.Parse(args); err != nil {
		return opts, usageError(err.Error())
	}
	if fs.NArg() > 0 {
		return opts, usageError(fmt.Sprintf("unexpected argument %q", fs.Arg(0)))
	}
	return opts, nil
}

func parseValidateFlags(args []string) (validateOpts, error) {
	var opts validateOpts
	fs := newFlagSet("validate")
	fs.StringVar(&opts.input, "input", "", "Path to the OpenAPI document")
	fs.StringVar(&opts.input, "i", "", "Path to the OpenAPI document (shorthand)")
	fs.StringVar(&opts.configPath, "config", "", "Path to the config file")
	fs.StringVar(&opts.configPath, "c", "", "Path to the config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return opts, usageError(err.Error())
	}
	if fs.NArg() > 0 {
		return opts, usageError(fmt.Sprintf("unexpected argument %q", fs.Arg(0)))
	}
	return opts, nil
}

func parseInspectFlags(args []string) (inspectOpts, error) {
	opts := inspectOpts{format: "yaml"}
	fs := newFlagSet("inspect")
	fs.StringVar(&opts.input, "input", "", "Path to the OpenAPI document")
	fs.StringVar(&opts.input, "i", "", "Path to the OpenAPI document (shorthand)")
	fs.StringVar(&opts.configPath, "config", "", "Path to the config file")
	fs.StringVar(&opts.configPath, "c", "", "Path to the config file (shorthand)")
	fs.StringVar(&opts.format, "format", "yaml", "Dump format: yaml or json")
	if err := fs.Parse(args); err != nil {
		return opts, usageError(err.Error())
	}
	if opts.format != "yaml" && opts.format != "json" {
		return opts, usageError("--format must be yaml or json")
	}
	return opts, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}
