// Package generator defines the plugin contract every code emitter satisfies.
package generator

import (
	"fmt"

	"github.com/urmzd/oag/pkg/config"
	"github.com/urmzd/oag/pkg/errors"
	"github.com/urmzd/oag/pkg/ir"
)

// File is a single generated output unit. Path is relative to the
// generator's configured output directory.
type File struct {
	Path     string
	Contents []byte
}

// Generator produces a file tree from the IR and its configuration.
//
// Determinism contract: for the same IR and config, two invocations produce
// identical file sets — same paths, same bytes, same order. Generators must
// not read ambient process state (clock, environment, filesystem) during
// emission.
type Generator interface {
	// ID returns the stable generator identifier (e.g. "node-client").
	ID() string
	// Generate emits the file list for the spec, or a GeneratorError.
	Generate(spec *ir.Spec, cfg config.GeneratorConfig) ([]File, error)
}

// Text is a convenience constructor for a text output unit.
func Text(path, contents string) File {
	return File{Path: path, Contents: []byte(contents)}
}

// UnsupportedLayout builds the error a generator returns for a layout or
// split key it does not implement.
func UnsupportedLayout(id string, cfg config.GeneratorConfig) error {
	msg := fmt.Sprintf("layout %q", cfg.Layout)
	if cfg.Layout == config.LayoutSplit {
		msg = fmt.Sprintf("layout %q with split_by %q", cfg.Layout, cfg.SplitBy)
	}
	return &errors.GeneratorError{Kind: errors.ErrUnsupportedLayout, Generator: id, Message: msg}
}

// Emission builds the error a generator returns when it meets an IR shape it
// cannot express; this indicates an internal bug, not a user mistake.
func Emission(id, message string) error {
	return &errors.GeneratorError{Kind: errors.ErrEmission, Generator: id, Message: message}
}
