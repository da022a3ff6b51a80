// Package compiler orchestrates the compilation pipeline: load, resolve,
// transform, and dispatch to every configured generator.
package compiler

import (
	"context"
	"strings"

	"github.com/urmzd/oag/pkg/config"
	"github.com/urmzd/oag/pkg/errors"
	"github.com/urmzd/oag/pkg/generator"
	"github.com/urmzd/oag/pkg/ir"
	"github.com/urmzd/oag/pkg/loader"
	"github.com/urmzd/oag/pkg/resolver"
	"github.com/urmzd/oag/pkg/transform"
)

// Compiler drives one or more registered generators over a lowered spec.
type Compiler struct {
	registry *Registry
	opts     Options
}

// New creates a Compiler with the given options.
func New(opts ...Option) *Compiler {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Compiler{registry: NewRegistry(), opts: options}
}

// Register adds a generator to the compiler's registry.
func (c *Compiler) Register(g generator.Generator) {
	c.registry.Register(g)
}

// KnownGenerators returns the registered generator ids in registration order.
func (c *Compiler) KnownGenerators() []string {
	return c.registry.IDs()
}

// Output is the file list one generator produced. Dir is the configured
// output directory the relative paths are anchored to.
type Output struct {
	Generator string
	Dir       string
	Files     []generator.File
}

// Result is a successful compilation: the shared IR, per-generator outputs in
// configured order, and collected warnings.
type Result struct {
	Spec     *ir.Spec
	Outputs  []Output
	Warnings []string
}

// Lower runs loader, resolver, and transform, yielding the validated IR.
func (c *Compiler) Lower(ctx context.Context, data []byte, hint loader.Format, cfg *config.Config) (*ir.Spec, []string, error) {
	doc, err := loader.Load(data, hint)
	if err != nil {
		return nil, nil, err
	}
	if err := resolver.Resolve(doc); err != nil {
		return nil, nil, err
	}
	spec, warnings, err := transform.Apply(ctx, doc, transform.Options{
		Strategy: transform.NamingStrategy(cfg.Naming.Strategy),
		Aliases:  cfg.Naming.Aliases,
	})
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		c.opts.notify(w)
	}
	return spec, warnings, nil
}

// Compile lowers the spec and runs every configured generator in document
// order. Either a full result is returned or a single error; there is no
// partial output.
func (c *Compiler) Compile(ctx context.Context, data []byte, hint loader.Format, cfg *config.Config) (*Result, error) {
	spec, warnings, err := c.Lower(ctx, data, hint, cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{Spec: spec, Warnings: warnings}
	for _, entry := range cfg.Generators {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gen, ok := c.registry.Get(entry.ID)
		if !ok {
			return nil, &errors.GeneratorError{
				Kind:      errors.ErrUnknownGenerator,
				Generator: entry.ID,
				Message:   "known generators: " + strings.Join(c.registry.IDs(), ", "),
			}
		}
		files, err := gen.Generate(spec, entry.GeneratorConfig)
		if err != nil {
			return nil, err
		}
		result.Outputs = append(result.Outputs, Output{
			Generator: entry.ID,
			Dir:       entry.Output,
			Files:     files,
		})
	}
	return result, nil
}
