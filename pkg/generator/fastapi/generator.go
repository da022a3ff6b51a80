// Package fastapi emits a Python FastAPI server skeleton: pydantic models,
// route stubs answering 501, server-sent event plumbing for streaming
// operations, and the package manifest.
package fastapi

import (
	"fmt"
	"path"
	"strings"

	"github.com/urmzd/oag/pkg/config"
	"github.com/urmzd/oag/pkg/generator"
	"github.com/urmzd/oag/pkg/ir"
)

// ID is the stable generator identifier.
const ID = "fastapi-server"

const pyHeader = "# Generated by oag. Do not edit.\n"

// pkgDir is the Python package directory inside the output tree.
const pkgDir = "app"

// sseUnitPy renders async iterators as a text/event-stream response.
const sseUnitPy = `import json
from collections.abc import AsyncIterator
from typing import Any

from starlette.responses import StreamingResponse


def event_stream(events: AsyncIterator[Any]) -> StreamingResponse:
    async def render() -> AsyncIterator[bytes]:
        async for event in events:
            if isinstance(event, str):
                payload = event
            elif hasattr(event, "model_dump_json"):
                payload = event.model_dump_json()
            else:
                payload = json.dumps(event, default=str)
            yield f"data: {payload}\n\n".encode()

    return StreamingResponse(render(), media_type="text/event-stream")
`

// Generator is the FastAPI server emitter.
type Generator struct{}

// New creates the FastAPI server generator.
func New() *Generator { return &Generator{} }

// ID implements generator.Generator.
func (g *Generator) ID() string { return ID }

// Generate implements generator.Generator. Supported layouts: bundled,
// modular, and split by tag.
func (g *Generator) Generate(spec *ir.Spec, cfg config.GeneratorConfig) ([]generator.File, error) {
	switch cfg.Layout {
	case config.LayoutBundled:
		return g.bundled(spec, cfg), nil
	case config.LayoutModular:
		return g.modular(spec, cfg), nil
	case config.LayoutSplit:
		if cfg.SplitBy != config.SplitByTag {
			return nil, generator.UnsupportedLayout(ID, cfg)
		}
		return g.splitByTag(spec, cfg), nil
	default:
		return nil, generator.UnsupportedLayout(ID, cfg)
	}
}

func (g *Generator) bundled(spec *ir.Spec, cfg config.GeneratorConfig) []generator.File {
	var sb strings.Builder
	sb.WriteString(modelsUnit(spec))
	sb.WriteString("\n")
	if spec.Streaming() {
		sb.WriteString(sseUnitPy)
		sb.WriteString("\n")
	}
	routes := routesUnit(spec, spec.Operations.All(), "__main__")
	// The bundled unit already declares everything; strip the unit header and
	// self-imports from the routes section.
	routes = stripPreamble(routes)
	sb.WriteString("from fastapi import APIRouter, HTTPException\n")
	if hasHeaderParams(spec.Operations.All()) {
		sb.WriteString("from fastapi import Header\n")
	}
	sb.WriteString("\n")
	sb.WriteString(routes)
	sb.WriteString("\n\n")
	sb.WriteString(appUnit(spec, ""))

	return []generator.File{
		generator.Text("main.py", sb.String()),
		generator.Text("pyproject.toml", pyproject(spec, cfg)),
	}
}

func (g *Generator) modular(spec *ir.Spec, cfg config.GeneratorConfig) []generator.File {
	files := []generator.File{
		generator.Text(path.Join(pkgDir, "__init__.py"), pyHeader),
		generator.Text(path.Join(pkgDir, "models.py"), modelsUnit(spec)),
		generator.Text(path.Join(pkgDir, "routes.py"), routesUnit(spec, spec.Operations.All(), ".models")),
	}
	if spec.Streaming() {
		files = append(files, generator.Text(path.Join(pkgDir, "sse.py"), pyHeader+"\n"+sseUnitPy))
	}
	files = append(files,
		generator.Text(path.Join(pkgDir, "main.py"), pyHeader+"\nfrom fastapi import FastAPI\n\nfrom .routes import router\n\n"+appDecl(spec)+"app.include_router(router)\n"),
		generator.Text("pyproject.toml", pyproject(spec, cfg)),
	)
	return files
}

func (g *Generator) splitByTag(spec *ir.Spec, cfg config.GeneratorConfig) []generator.File {
	files := []generator.File{
		generator.Text(path.Join(pkgDir, "__init__.py"), pyHeader),
		generator.Text(path.Join(pkgDir, "models.py"), modelsUnit(spec)),
	}
	if spec.Streaming() {
		files = append(files, generator.Text(path.Join(pkgDir, "sse.py"), pyHeader+"\n"+sseUnitPy))
	}

	var moduleNames []string
	for _, m := range spec.Modules {
		var ops []*ir.Operation
		for _, id := range m.Operations {
			if op, ok := spec.Operations.Get(id.Camel); ok {
				ops = append(ops, op)
			}
		}
		fileName := m.Name.Snake
		moduleNames = append(moduleNames, fileName)
		files = append(files, generator.Text(
			path.Join(pkgDir, "routes", fileName+".py"),
			routesUnit(spec, ops, "..models"),
		))
	}

	var routesInit strings.Builder
	routesInit.WriteString(pyHeader + "\n")
	for _, name := range moduleNames {
		fmt.Fprintf(&routesInit, "from . import %s\n", name)
	}
	files = append(files, generator.Text(path.Join(pkgDir, "routes", "__init__.py"), routesInit.String()))

	var mainUnit strings.Builder
	mainUnit.WriteString(pyHeader + "\nfrom fastapi import FastAPI\n\n")
	for _, name := range moduleNames {
		fmt.Fprintf(&mainUnit, "from .routes import %s\n", name)
	}
	mainUnit.WriteString("\n" + appDecl(spec))
	for _, name := range moduleNames {
		fmt.Fprintf(&mainUnit, "app.include_router(%s.router)\n", name)
	}
	files = append(files,
		generator.Text(path.Join(pkgDir, "main.py"), mainUnit.String()),
		generator.Text("pyproject.toml", pyproject(spec, cfg)),
	)
	return files
}

func appDecl(spec *ir.Spec) string {
	title := spec.Info.Title
	if title == "" {
		title = "API"
	}
	version := spec.Info.Version
	if version == "" {
		version = "0.0.0"
	}
	return fmt.Sprintf("app = FastAPI(title=%q, version=%q)\n", title, version)
}

func appUnit(spec *ir.Spec, include string) string {
	out := "from fastapi import FastAPI\n\n" + appDecl(spec) + "app.include_router(router)\n"
	if include != "" {
		out += include
	}
	return out
}

// stripPreamble drops the header, __future__ import, and import block from a
// routes unit so it can be inlined into the bundled file.
func stripPreamble(unit string) string {
	lines := strings.Split(unit, "\n")
	start := 0
	for i, line := range lines {
		if strings.HasPrefix(line, "router = APIRouter()") {
			start = i
			break
		}
	}
	return strings.Join(lines[start:], "\n")
}
