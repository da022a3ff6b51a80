package fastapi

import (
	"fmt"
	"strings"

	"github.com/urmzd/oag/pkg/ir"
)

// routesUnit renders route stubs for the given operations as one APIRouter.
// modelsFrom is the relative import path of the models unit.
func routesUnit(spec *ir.Spec, ops []*ir.Operation, modelsFrom string) string {
	var sb strings.Builder
	sb.WriteString(pyHeader)
	sb.WriteString("\nfrom __future__ import annotations\n\n")
	sb.WriteString(routeImports(spec, ops, modelsFrom))
	sb.WriteString("\nrouter = APIRouter()\n")
	for _, op := range ops {
		sb.WriteString("\n\n")
		sb.WriteString(routeDecl(op))
	}
	sb.WriteString("\n")
	return sb.String()
}

func routeImports(spec *ir.Spec, ops []*ir.Operation, modelsFrom string) string {
	var sb strings.Builder
	fastapiNames := []string{"APIRouter", "HTTPException"}
	if hasHeaderParams(ops) {
		fastapiNames = append(fastapiNames, "Header")
	}
	sb.WriteString("from fastapi import " + strings.Join(fastapiNames, ", ") + "\n")
	for _, op := range ops {
		if op.Returns.Streaming {
			sb.WriteString("from starlette.responses import StreamingResponse\n")
			break
		}
	}

	if names := usedModels(spec, ops); len(names) > 0 {
		fmt.Fprintf(&sb, "\nfrom %s import %s\n", modelsFrom, strings.Join(names, ", "))
	}
	return sb.String()
}

// routeDecl renders one 501 stub for an operation.
func routeDecl(op *ir.Operation) string {
	var sb strings.Builder

	decorator := fmt.Sprintf("@router.%s(%q", strings.ToLower(string(op.Method)), op.Path)
	if op.Returns.Success != nil && !op.Returns.Streaming {
		decorator += fmt.Sprintf(", response_model=%s", PyType(op.Returns.Success))
	}
	if op.Deprecated {
		decorator += ", deprecated=True"
	}
	decorator += ")"
	sb.WriteString(decorator + "\n")

	var params []string
	for _, p := range op.PathParams() {
		params = append(params, fmt.Sprintf("%s: %s", paramName(p), PyType(p.Type)))
	}
	if op.Body != nil {
		bodyType := PyType(op.Body.Type)
		if op.Body.Required {
			params = append(params, "body: "+bodyType)
		} else {
			params = append(params, fmt.Sprintf("body: %s | None = None", bodyType))
		}
	}
	for _, p := range op.QueryParams() {
		if p.Required {
			params = append(params, fmt.Sprintf("%s: %s", paramName(p), PyType(p.Type)))
		} else {
			params = append(params, fmt.Sprintf("%s: %s | None = None", paramName(p), PyType(p.Type)))
		}
	}
	for _, p := range op.HeaderParams() {
		params = append(params, fmt.Sprintf("%s: %s | None = Header(default=None, alias=%q)", p.Name.Snake, PyType(p.Type), p.Raw))
	}

	returnType := "None"
	if op.Returns.Success != nil {
		returnType = PyType(op.Returns.Success)
	}
	if op.Returns.Streaming {
		returnType = "StreamingResponse"
	}

	fmt.Fprintf(&sb, "async def %s(%s) -> %s:\n", op.ID.Snake, strings.Join(params, ", "), returnType)
	if doc := routeDoc(op); doc != "" {
		writeDocstring(&sb, doc, "    ")
	}
	sb.WriteString("    raise HTTPException(status_code=501, detail=\"Not implemented\")\n")
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func routeDoc(op *ir.Operation) string {
	var lines []string
	if op.Summary != "" {
		lines = append(lines, op.Summary)
	}
	if op.Description != "" && op.Description != op.Summary {
		lines = append(lines, op.Description)
	}
	return strings.Join(lines, "\n\n")
}

// paramName keeps the raw wire name when it is a valid identifier so path
// templates keep matching; otherwise the snake form is used.
func paramName(p ir.Param) string {
	if isPyIdentifier(p.Raw) && !isPyKeyword(p.Raw) {
		return p.Raw
	}
	return p.Name.Snake
}

func hasHeaderParams(ops []*ir.Operation) bool {
	for _, op := range ops {
		if len(op.HeaderParams()) > 0 {
			return true
		}
	}
	return false
}

// usedModels returns the schema names the operations mention, in canonical
// order.
func usedModels(spec *ir.Spec, ops []*ir.Operation) []string {
	used := make(map[string]bool)
	var visit func(t ir.Type)
	visit = func(t ir.Type) {
		switch v := t.(type) {
		case ir.Ref:
			used[v.Name.Pascal] = true
		case ir.Array:
			visit(v.Elem)
		case ir.Map:
			visit(v.Value)
		case ir.Union:
			for _, variant := range v.Variants {
				visit(variant)
			}
		case ir.Intersection:
			for _, part := range v.Parts {
				visit(part)
			}
		}
	}
	for _, op := range ops {
		for _, p := range op.Params {
			visit(p.Type)
		}
		if op.Body != nil {
			visit(op.Body.Type)
		}
		if op.Returns.Success != nil {
			visit(op.Returns.Success)
		}
	}

	var names []string
	for _, s := range spec.Schemas.All() {
		if used[s.Name().Pascal] {
			names = append(names, s.Name().Pascal)
		}
	}
	return names
}
