package fastapi

import (
	"fmt"
	"strings"

	"github.com/urmzd/oag/pkg/ir"
)

// PyType renders an IR type as a Python type expression.
func PyType(t ir.Type) string {
	switch v := t.(type) {
	case nil:
		return "None"
	case ir.Primitive:
		return pyPrimitive(v)
	case ir.Array:
		return "list[" + PyType(v.Elem) + "]"
	case ir.Map:
		return "dict[str, " + PyType(v.Value) + "]"
	case ir.Ref:
		return v.Name.Pascal
	case ir.Union:
		return pyUnion(v)
	case ir.Intersection:
		// Python has no intersection types; the declared-fields part carries
		// the shape and extra properties are allowed on the model itself.
		if len(v.Parts) > 0 {
			return PyType(v.Parts[0])
		}
		return "Any"
	case ir.Literal:
		return "Literal[" + pyLiteral(v.Value) + "]"
	default:
		return "Any"
	}
}

func pyPrimitive(p ir.Primitive) string {
	switch p.Kind {
	case ir.KindString:
		return "str"
	case ir.KindInteger:
		return "int"
	case ir.KindNumber:
		return "float"
	case ir.KindBoolean:
		return "bool"
	case ir.KindNull:
		return "None"
	case ir.KindBinary:
		return "bytes"
	case ir.KindDateTime:
		return "datetime"
	case ir.KindDate:
		return "date"
	default:
		return "Any"
	}
}

func pyUnion(u ir.Union) string {
	// Merge every literal variant, wherever it appears, into a single leading
	// Literal[...] so enum-like unions read naturally; None goes last.
	var literals []string
	var others []string
	hasNone := false
	for _, variant := range u.Variants {
		switch v := variant.(type) {
		case ir.Literal:
			literals = append(literals, pyLiteral(v.Value))
		case ir.Primitive:
			if v.Kind == ir.KindNull {
				hasNone = true
				continue
			}
			others = append(others, PyType(v))
		default:
			others = append(others, PyType(variant))
		}
	}
	var parts []string
	if len(literals) > 0 {
		parts = append(parts, "Literal["+strings.Join(literals, ", ")+"]")
	}
	parts = append(parts, others...)
	if hasNone {
		parts = append(parts, "None")
	}
	if len(parts) == 0 {
		return "Any"
	}
	return strings.Join(parts, " | ")
}

func pyLiteral(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case bool:
		if val {
			return "True"
		}
		return "False"
	case nil:
		return "None"
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// modelsUnit renders one class per IR schema.
func modelsUnit(spec *ir.Spec) string {
	var sb strings.Builder
	sb.WriteString(pyHeader)
	sb.WriteString("\nfrom __future__ import annotations\n\n")
	sb.WriteString(modelImports(spec))

	for _, schema := range spec.Schemas.All() {
		sb.WriteString("\n\n")
		sb.WriteString(modelDecl(schema))
	}
	sb.WriteString("\n")
	return sb.String()
}

// modelImports computes the import block from the shapes actually used.
func modelImports(spec *ir.Spec) string {
	flags := scanSpec(spec)

	var sb strings.Builder
	if flags.date || flags.datetime {
		var names []string
		if flags.date {
			names = append(names, "date")
		}
		if flags.datetime {
			names = append(names, "datetime")
		}
		sb.WriteString("from datetime import " + strings.Join(names, ", ") + "\n")
	}
	if flags.enum {
		sb.WriteString("from enum import Enum\n")
	}
	var typing []string
	if flags.anyType {
		typing = append(typing, "Any")
	}
	if flags.literal {
		typing = append(typing, "Literal")
	}
	if flags.typeAlias {
		typing = append(typing, "TypeAlias")
	}
	if len(typing) > 0 {
		sb.WriteString("from typing import " + strings.Join(typing, ", ") + "\n")
	}
	sb.WriteString("\n")
	pydantic := []string{"BaseModel"}
	if flags.configDict {
		pydantic = append(pydantic, "ConfigDict")
	}
	if flags.field {
		pydantic = append(pydantic, "Field")
	}
	sb.WriteString("from pydantic import " + strings.Join(pydantic, ", ") + "\n")
	return sb.String()
}

func modelDecl(schema ir.Schema) string {
	var sb strings.Builder
	switch s := schema.(type) {
	case ir.Object:
		fmt.Fprintf(&sb, "class %s(BaseModel):\n", s.SchemaName.Pascal)
		if s.Description != "" {
			writeDocstring(&sb, s.Description, "    ")
		}
		if s.Additional != nil {
			sb.WriteString("    model_config = ConfigDict(extra=\"allow\")\n\n")
		}
		if len(s.Fields) == 0 && s.Additional == nil && s.Description == "" {
			sb.WriteString("    pass\n")
			return sb.String()
		}
		for _, f := range s.Fields {
			sb.WriteString(fieldDecl(f))
		}
	case ir.Enum:
		base := "str"
		if s.Base.Kind == ir.KindInteger {
			base = "int"
		}
		fmt.Fprintf(&sb, "class %s(%s, Enum):\n", s.SchemaName.Pascal, base)
		if s.Description != "" {
			writeDocstring(&sb, s.Description, "    ")
		}
		for _, v := range s.Variants {
			fmt.Fprintf(&sb, "    %s = %s\n", variantName(v), pyLiteral(v.Value))
		}
	case ir.Alias:
		fmt.Fprintf(&sb, "%s: TypeAlias = %q\n", s.SchemaName.Pascal, PyType(s.Target))
	case ir.UnionSchema:
		fmt.Fprintf(&sb, "%s: TypeAlias = %q\n", s.SchemaName.Pascal, pyUnion(s.Union))
	}
	return sb.String()
}

func fieldDecl(f ir.Field) string {
	name := f.Raw
	alias := ""
	if !isPyIdentifier(name) || isPyKeyword(name) {
		name = f.Name.Snake
		alias = f.Raw
	}

	typeExpr := PyType(f.Type)
	var sb strings.Builder
	switch {
	case alias != "" && f.Required:
		fmt.Fprintf(&sb, "    %s: %s = Field(alias=%q)\n", name, typeExpr, alias)
	case alias != "":
		fmt.Fprintf(&sb, "    %s: %s | None = Field(default=None, alias=%q)\n", name, typeExpr, alias)
	case f.Required:
		fmt.Fprintf(&sb, "    %s: %s\n", name, typeExpr)
	default:
		fmt.Fprintf(&sb, "    %s: %s | None = None\n", name, typeExpr)
	}
	return sb.String()
}

func variantName(v ir.EnumVariant) string {
	name := v.Name.Screaming
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "VALUE_" + name
	}
	return name
}

func writeDocstring(sb *strings.Builder, text, indent string) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 1 {
		fmt.Fprintf(sb, "%s\"\"\"%s\"\"\"\n\n", indent, lines[0])
		return
	}
	fmt.Fprintf(sb, "%s\"\"\"%s\n", indent, lines[0])
	for _, line := range lines[1:] {
		sb.WriteString(indent + line + "\n")
	}
	sb.WriteString(indent + "\"\"\"\n\n")
}

type importFlags struct {
	date, datetime, enum, anyType, literal, typeAlias, configDict, field bool
}

// scanSpec walks every schema to decide which imports the models unit needs.
func scanSpec(spec *ir.Spec) importFlags {
	var flags importFlags
	var visit func(t ir.Type)
	visit = func(t ir.Type) {
		switch v := t.(type) {
		case ir.Primitive:
			switch v.Kind {
			case ir.KindDate:
				flags.date = true
			case ir.KindDateTime:
				flags.datetime = true
			case ir.KindAny:
				flags.anyType = true
			}
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
		case ir.Literal:
			flags.literal = true
		}
	}

	for _, schema := range spec.Schemas.All() {
		switch s := schema.(type) {
		case ir.Object:
			if s.Additional != nil {
				flags.configDict = true
				visit(s.Additional)
			}
			for _, f := range s.Fields {
				visit(f.Type)
				if !isPyIdentifier(f.Raw) || isPyKeyword(f.Raw) {
					flags.field = true
				}
			}
		case ir.Enum:
			flags.enum = true
		case ir.Alias:
			flags.typeAlias = true
			visit(s.Target)
		case ir.UnionSchema:
			flags.typeAlias = true
			visit(s.Union)
		}
	}
	return flags
}

func isPyIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		if i > 0 {
			ok = ok || (r >= '0' && r <= '9')
		}
		if !ok {
			return false
		}
	}
	return true
}

var pyKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

func isPyKeyword(s string) bool { return pyKeywords[s] }
