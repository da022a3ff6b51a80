package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urmzd/oag/internal/detect"
	"github.com/urmzd/oag/internal/fs"
	"github.com/urmzd/oag/pkg/compiler"
	"github.com/urmzd/oag/pkg/config"
	"github.com/urmzd/oag/pkg/loader"
)

// Runner manages the execution of generation and validation tasks.
type Runner struct {
	comp *compiler.Compiler
}

// NewRunner creates a new Runner instance.
func NewRunner(comp *compiler.Compiler) *Runner {
	return &Runner{comp: comp}
}

// loadConfig resolves and parses the configuration: an explicit path, the
// discovered file, or defaults. The input override wins over the config.
func (r *Runner) loadConfig(configPath, inputOverride string) (*config.Config, error) {
	path := configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		path = config.Discover(cwd)
	}

	var data []byte
	if path != "" {
		var err error
		data, err = fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg, warnings, err := config.Parse(data)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if inputOverride != "" {
		cfg.Input = inputOverride
	}
	return cfg, nil
}

// readSpec loads the spec bytes and derives the encoding hint. The read goes
// through the ctx-aware reader so cancellation covers the initial byte
// handoff.
func (r *Runner) readSpec(ctx context.Context, cfg *config.Config) ([]byte, loader.Format, error) {
	f, err := os.Open(cfg.Input)
	if err != nil {
		return nil, loader.FormatUnknown, fmt.Errorf("reading spec %s: %w", cfg.Input, err)
	}
	defer f.Close()

	data, err := fs.ReadAll(ctx, f)
	if err != nil {
		return nil, loader.FormatUnknown, fmt.Errorf("reading spec %s: %w", cfg.Input, err)
	}
	return data, detect.FromPath(cfg.Input, data), nil
}

// Generate compiles the spec and writes every generator's file tree.
func (r *Runner) Generate(ctx context.Context, opts generateOpts) error {
	cfg, err := r.loadConfig(opts.configPath, opts.input)
	if err != nil {
		return err
	}
	data, hint, err := r.readSpec(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := r.comp.Compile(ctx, data, hint, cfg)
	if err != nil {
		return err
	}
	for _, out := range result.Outputs {
		if err := fs.WriteTree(out.Dir, out.Files); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "generated %d files for %s in %s\n", len(out.Files), out.Generator, out.Dir)
	}
	return nil
}

// Validate runs loader, resolver, and transform, reporting IR validation
// errors without emitting anything.
func (r *Runner) Validate(ctx context.Context, opts validateOpts) error {
	cfg, err := r.loadConfig(opts.configPath, opts.input)
	if err != nil {
		return err
	}
	data, hint, err := r.readSpec(ctx, cfg)
	if err != nil {
		return err
	}

	spec, _, err := r.comp.Lower(ctx, data, hint, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s is valid: %d schemas, %d operations\n",
		cfg.Input, spec.Schemas.Len(), spec.Operations.Len())
	return nil
}

// Inspect dumps the IR to stdout as YAML or JSON.
func (r *Runner) Inspect(ctx context.Context, opts inspectOpts) error {
	cfg, err := r.loadConfig(opts.configPath, opts.input)
	if err != nil {
		return err
	}
	data, hint, err := r.readSpec(ctx, cfg)
	if err != nil {
		return err
	}

	spec, _, err := r.comp.Lower(ctx, data, hint, cfg)
	if err != nil {
		return err
	}

	var out []byte
	if opts.format == "json" {
		out, err = compiler.InspectJSON(spec)
	} else {
		out, err = compiler.InspectYAML(spec)
	}
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

// Init writes a default config file, refusing to overwrite an existing one.
func (r *Runner) Init() error {
	if _, err := os.Stat(config.FileName); err == nil {
		return fmt.Errorf("%s already exists", config.FileName)
	}
	if err := fs.WriteFile(config.FileName, []byte(defaultConfigFile)); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", config.FileName)
	return nil
}

// Completions prints the completion script for the given shell.
func (r *Runner) Completions(shell string) error {
	script, ok := completionScripts[shell]
	if !ok {
		return usageError(fmt.Sprintf("unsupported shell %q (bash, zsh, fish)", shell))
	}
	fmt.Print(script)
	return nil
}
