// Package react emits a React hooks layer on top of the TypeScript client.
// It composes the TypeScript generator: the client emission runs first, then
// a hooks unit and a context provider are appended.
package react

import (
	"path"

	"github.com/urmzd/oag/pkg/config"
	"github.com/urmzd/oag/pkg/generator"
	"github.com/urmzd/oag/pkg/generator/typescript"
	"github.com/urmzd/oag/pkg/ir"
)

// ID is the stable generator identifier.
const ID = "react-swr-client"

// Generator is the React hooks emitter.
type Generator struct {
	client *typescript.Generator
}

// New creates the React hooks generator.
func New() *Generator { return &Generator{client: typescript.New()} }

// ID implements generator.Generator.
func (g *Generator) ID() string { return ID }

// Generate implements generator.Generator. Only the modular layout is
// supported: the hooks unit imports the client and types by path.
func (g *Generator) Generate(spec *ir.Spec, cfg config.GeneratorConfig) ([]generator.File, error) {
	if cfg.Layout != config.LayoutModular {
		return nil, generator.UnsupportedLayout(ID, cfg)
	}

	base, err := g.client.Generate(spec, cfg)
	if err != nil {
		return nil, err
	}

	src := cfg.SourceDir
	indexPath := path.Join(src, "index.ts")
	files := make([]generator.File, 0, len(base)+3)
	for _, f := range base {
		if f.Path == indexPath {
			continue
		}
		files = append(files, f)
	}

	files = append(files,
		generator.Text(path.Join(src, "hooks.ts"), hooksUnit(spec)),
		generator.Text(path.Join(src, "provider.tsx"), providerUnit),
		generator.Text(indexPath, indexUnit(spec)),
	)
	return files, nil
}

func indexUnit(spec *ir.Spec) string {
	out := "// Generated by oag. Do not edit.\n\n" +
		"export * from \"./types\";\n" +
		"export * from \"./client\";\n"
	if spec.Streaming() {
		out += "export * from \"./sse\";\n"
	}
	out += "export * from \"./hooks\";\nexport * from \"./provider\";\n"
	return out
}
