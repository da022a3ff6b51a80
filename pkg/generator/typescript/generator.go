// Package typescript emits a dependency-free TypeScript HTTP client: a types
// unit, a client unit, an SSE parser for streaming operations, and the
// project scaffold around them.
package typescript

import (
	"path"
	"strings"

	"github.com/urmzd/oag/pkg/config"
	"github.com/urmzd/oag/pkg/generator"
	"github.com/urmzd/oag/pkg/ir"
	"github.com/urmzd/oag/pkg/naming"
)

// ID is the stable generator identifier.
const ID = "node-client"

const header = "// Generated by oag. Do not edit.\n"

// Generator is the TypeScript client emitter.
type Generator struct{}

// New creates the TypeScript client generator.
func New() *Generator { return &Generator{} }

// ID implements generator.Generator.
func (g *Generator) ID() string { return ID }

// Generate implements generator.Generator. All three layouts are supported.
func (g *Generator) Generate(spec *ir.Spec, cfg config.GeneratorConfig) ([]generator.File, error) {
	var files []generator.File
	src := cfg.SourceDir
	jsdoc := !cfg.NoJSDoc

	switch cfg.Layout {
	case config.LayoutBundled:
		files = append(files, generator.Text(path.Join(src, "index.ts"), g.bundledUnit(spec, cfg)))
	case config.LayoutModular:
		files = append(files,
			generator.Text(path.Join(src, "types.ts"), g.typesUnit(spec, jsdoc)),
			generator.Text(path.Join(src, "client.ts"), g.clientUnit(spec, cfg, false)),
		)
		if spec.Streaming() {
			files = append(files, generator.Text(path.Join(src, "sse.ts"), header+"\n"+sseUnit))
		}
		files = append(files, generator.Text(path.Join(src, "index.ts"), g.indexUnit(spec, nil)))
	case config.LayoutSplit:
		groups, err := splitGroups(spec, cfg.SplitBy)
		if err != nil {
			return nil, err
		}
		files = append(files,
			generator.Text(path.Join(src, "types.ts"), g.typesUnit(spec, jsdoc)),
			generator.Text(path.Join(src, "client.ts"), g.splitCoreUnit(spec, cfg)),
		)
		if spec.Streaming() {
			files = append(files, generator.Text(path.Join(src, "sse.ts"), header+"\n"+sseUnit))
		}
		for _, grp := range groups {
			files = append(files, generator.Text(path.Join(src, grp.fileName()), g.groupUnit(spec, cfg, grp)))
		}
		files = append(files, generator.Text(path.Join(src, "index.ts"), g.indexUnit(spec, groups)))
	default:
		return nil, generator.UnsupportedLayout(ID, cfg)
	}

	files = append(files, scaffoldFiles(spec, cfg)...)
	return files, nil
}

// bundledUnit concatenates types, streaming support, and the client into one
// self-contained unit.
func (g *Generator) bundledUnit(spec *ir.Spec, cfg config.GeneratorConfig) string {
	var sb strings.Builder
	sb.WriteString(g.typesUnit(spec, !cfg.NoJSDoc))
	if spec.Streaming() {
		sb.WriteString(sseUnit)
		sb.WriteString("\n")
	}
	sb.WriteString(g.clientUnit(spec, cfg, true))
	return sb.String()
}

// indexUnit re-exports every emitted unit.
func (g *Generator) indexUnit(spec *ir.Spec, groups []splitGroup) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\nexport * from \"./types\";\nexport * from \"./client\";\n")
	if spec.Streaming() {
		sb.WriteString("export * from \"./sse\";\n")
	}
	for _, grp := range groups {
		sb.WriteString("export * from \"./" + strings.TrimSuffix(grp.fileName(), ".ts") + "\";\n")
	}
	return sb.String()
}

// splitCoreUnit is the client.ts of the split layout: shared plumbing only.
func (g *Generator) splitCoreUnit(spec *ir.Spec, cfg config.GeneratorConfig) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(coreUnit(spec, cfg))
	return sb.String()
}

// groupUnit emits one client class per operation group.
func (g *Generator) groupUnit(spec *ir.Spec, cfg config.GeneratorConfig, grp splitGroup) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	writeTypeImports(&sb, spec, grp.ops)
	sb.WriteString("import { BaseClient } from \"./client\";\n")
	if streamingOps(grp.ops) {
		sb.WriteString("import { parseEventStream } from \"./sse\";\n")
	}
	sb.WriteString("\n")
	sb.WriteString(clientClass(grp.name.Pascal+"Client", grp.ops, cfg))
	return sb.String()
}

type splitGroup struct {
	name naming.Name
	ops  []*ir.Operation
}

func (g splitGroup) fileName() string {
	return strings.ReplaceAll(g.name.Snake, "_", "-") + ".ts"
}

// splitGroups partitions operations by the configured split key.
func splitGroups(spec *ir.Spec, by config.SplitBy) ([]splitGroup, error) {
	switch by {
	case config.SplitByOperation:
		var groups []splitGroup
		for _, op := range spec.Operations.All() {
			groups = append(groups, splitGroup{name: op.ID, ops: []*ir.Operation{op}})
		}
		return groups, nil
	case config.SplitByTag:
		var groups []splitGroup
		for _, m := range spec.Modules {
			grp := splitGroup{name: m.Name}
			for _, id := range m.Operations {
				if op, ok := spec.Operations.Get(id.Camel); ok {
					grp.ops = append(grp.ops, op)
				}
			}
			groups = append(groups, grp)
		}
		return groups, nil
	case config.SplitByRoute:
		var order []string
		grouped := make(map[string]*splitGroup)
		for _, op := range spec.Operations.All() {
			key := routeSegment(op.Path)
			grp, ok := grouped[key]
			if !ok {
				grp = &splitGroup{name: naming.New(key)}
				grouped[key] = grp
				order = append(order, key)
			}
			grp.ops = append(grp.ops, op)
		}
		groups := make([]splitGroup, 0, len(order))
		for _, key := range order {
			groups = append(groups, *grouped[key])
		}
		return groups, nil
	default:
		return nil, nil
	}
}

// routeSegment returns the first non-parameter path segment.
func routeSegment(p string) string {
	for _, seg := range strings.Split(strings.Trim(p, "/"), "/") {
		if seg != "" && !strings.HasPrefix(seg, "{") {
			return seg
		}
	}
	return "root"
}

func streamingOps(ops []*ir.Operation) bool {
	for _, op := range ops {
		if op.Returns.Streaming {
			return true
		}
	}
	return false
}
