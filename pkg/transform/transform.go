// Package transform lowers a resolved OpenAPI document into the intermediate
// representation.
//
// Lowering runs in five ordered phases: schemas, operations, modules,
// metadata, and validation. Each phase only extends the in-progress IR; the
// document is never mutated.
package transform

import (
	"context"

	"github.com/urmzd/oag/pkg/errors"
	"github.com/urmzd/oag/pkg/ir"
	"github.com/urmzd/oag/pkg/loader"
	"github.com/urmzd/oag/pkg/naming"
)

// NamingStrategy selects how operation ids are derived.
type NamingStrategy string

const (
	// UseOperationID uses the spec's operationId, falling back to the route.
	UseOperationID NamingStrategy = "use_operation_id"
	// UseRouteBased derives the id from method and path.
	UseRouteBased NamingStrategy = "use_route_based"
)

// Options configures a transform run.
type Options struct {
	Strategy NamingStrategy
	// Aliases rename operations, keyed by the pre-alias camelCase id.
	Aliases map[string]string
}

// Apply lowers a fully-resolved document into a validated IR spec. Warnings
// flag lossy choices (e.g. a success response carrying both JSON and
// event-stream content) without failing the compilation.
func Apply(ctx context.Context, doc *loader.Document, opts Options) (*ir.Spec, []string, error) {
	if opts.Strategy == "" {
		opts.Strategy = UseOperationID
	}

	t := &transformer{doc: doc, opts: opts, spec: ir.NewSpec(), declared: make(map[string]bool)}

	phases := []func() error{t.schemas, t.operations, t.modules, t.metadata}
	for _, phase := range phases {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if err := phase(); err != nil {
			return nil, nil, err
		}
	}

	if len(t.duplicates) > 0 {
		return nil, nil, &errors.ValidationError{Kind: "duplicate-operation", Path: "operations/" + t.duplicates[0]}
	}
	if err := ir.Validate(t.spec); err != nil {
		return nil, nil, err
	}
	return t.spec, t.warnings, nil
}

type transformer struct {
	doc  *loader.Document
	opts Options
	spec *ir.Spec

	// declared holds the normalized names of all top-level schemas so
	// promoted names never shadow one that has not been classified yet.
	declared   map[string]bool
	duplicates []string
	warnings   []string
}

// metadata extracts info and servers verbatim (phase 4).
func (t *transformer) metadata() error {
	info := loader.Get(t.doc.Root, "info")
	t.spec.Info = ir.Info{
		Title:       loader.StrAt(info, "title"),
		Description: loader.StrAt(info, "description"),
		Version:     loader.StrAt(info, "version"),
	}
	for _, s := range loader.Items(loader.Get(t.doc.Root, "servers")) {
		t.spec.Servers = append(t.spec.Servers, ir.Server{
			URL:         loader.StrAt(s, "url"),
			Description: loader.StrAt(s, "description"),
		})
	}
	return nil
}

// modules groups operation ids by first tag, stable by input order (phase 3).
func (t *transformer) modules() error {
	var order []string
	groups := make(map[string]*ir.Module)
	for _, op := range t.spec.Operations.All() {
		tag := "Default"
		if len(op.Tags) > 0 && op.Tags[0] != "" {
			tag = op.Tags[0]
		}
		name := naming.New(tag)
		key := name.Pascal
		m, ok := groups[key]
		if !ok {
			m = &ir.Module{Name: name}
			groups[key] = m
			order = append(order, key)
		}
		m.Operations = append(m.Operations, op.ID)
	}
	for _, key := range order {
		t.spec.Modules = append(t.spec.Modules, *groups[key])
	}
	return nil
}
