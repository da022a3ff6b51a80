package typescript

import (
	"fmt"
	"strings"

	"github.com/urmzd/oag/pkg/ir"
)

// TypeExpr renders an IR type as a TypeScript type expression.
func TypeExpr(t ir.Type) string {
	switch v := t.(type) {
	case nil:
		return "void"
	case ir.Primitive:
		return primitiveExpr(v)
	case ir.Array:
		elem := TypeExpr(v.Elem)
		if needsParens(elem) {
			return "(" + elem + ")[]"
		}
		return elem + "[]"
	case ir.Map:
		return "Record<string, " + TypeExpr(v.Value) + ">"
	case ir.Ref:
		return v.Name.Pascal
	case ir.Union:
		return unionExpr(v)
	case ir.Intersection:
		parts := make([]string, len(v.Parts))
		for i, p := range v.Parts {
			parts[i] = TypeExpr(p)
		}
		return strings.Join(parts, " & ")
	case ir.Literal:
		return literalExpr(v.Value)
	default:
		return "unknown"
	}
}

func primitiveExpr(p ir.Primitive) string {
	switch p.Kind {
	case ir.KindString, ir.KindDateTime, ir.KindDate:
		return "string"
	case ir.KindInteger, ir.KindNumber:
		return "number"
	case ir.KindBoolean:
		return "boolean"
	case ir.KindNull:
		return "null"
	case ir.KindBinary:
		return "Blob"
	default:
		return "unknown"
	}
}

func unionExpr(u ir.Union) string {
	var parts []string
	hasNull := false
	for _, variant := range u.Variants {
		expr := TypeExpr(variant)
		if expr == "null" {
			hasNull = true
			continue
		}
		parts = append(parts, expr)
	}
	result := strings.Join(parts, " | ")
	if hasNull {
		if result == "" {
			return "null"
		}
		result += " | null"
	}
	return result
}

func literalExpr(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func needsParens(expr string) bool {
	return (strings.Contains(expr, " | ") || strings.Contains(expr, " & ")) && !strings.HasPrefix(expr, "(")
}

// typesUnit renders every IR schema as an interface, type alias, or
// discriminated union.
func (g *Generator) typesUnit(spec *ir.Spec, jsdoc bool) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")

	for _, schema := range spec.Schemas.All() {
		sb.WriteString(schemaDecl(schema, jsdoc))
		sb.WriteString("\n")
	}
	return sb.String()
}

func schemaDecl(schema ir.Schema, jsdoc bool) string {
	var sb strings.Builder
	switch s := schema.(type) {
	case ir.Object:
		if jsdoc && s.Description != "" {
			sb.WriteString(docComment(s.Description, ""))
		}
		if s.Additional != nil {
			fmt.Fprintf(&sb, "export type %s = {\n", s.SchemaName.Pascal)
			writeFields(&sb, s.Fields, jsdoc)
			fmt.Fprintf(&sb, "} & Record<string, %s>;\n", TypeExpr(s.Additional))
			return sb.String()
		}
		fmt.Fprintf(&sb, "export interface %s {\n", s.SchemaName.Pascal)
		writeFields(&sb, s.Fields, jsdoc)
		sb.WriteString("}\n")
	case ir.Enum:
		if jsdoc && s.Description != "" {
			sb.WriteString(docComment(s.Description, ""))
		}
		variants := make([]string, len(s.Variants))
		for i, v := range s.Variants {
			variants[i] = literalExpr(v.Value)
		}
		fmt.Fprintf(&sb, "export type %s = %s;\n", s.SchemaName.Pascal, strings.Join(variants, " | "))
	case ir.Alias:
		if jsdoc && s.Description != "" {
			sb.WriteString(docComment(s.Description, ""))
		}
		fmt.Fprintf(&sb, "export type %s = %s;\n", s.SchemaName.Pascal, TypeExpr(s.Target))
	case ir.UnionSchema:
		if jsdoc && s.Description != "" {
			sb.WriteString(docComment(s.Description, ""))
		}
		fmt.Fprintf(&sb, "export type %s = %s;\n", s.SchemaName.Pascal, unionExpr(s.Union))
	}
	return sb.String()
}

func writeFields(sb *strings.Builder, fields []ir.Field, jsdoc bool) {
	for _, f := range fields {
		if jsdoc && f.Description != "" {
			sb.WriteString(docComment(f.Description, "  "))
		}
		opt := "?"
		if f.Required {
			opt = ""
		}
		fmt.Fprintf(sb, "  %s%s: %s;\n", propertyKey(f.Raw), opt, TypeExpr(f.Type))
	}
}

// propertyKey quotes property names that are not valid identifiers.
func propertyKey(name string) string {
	if name == "" {
		return `""`
	}
	for i, r := range name {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$'
		if i > 0 {
			ok = ok || (r >= '0' && r <= '9')
		}
		if !ok {
			return fmt.Sprintf("%q", name)
		}
	}
	return name
}

// docComment renders a JSDoc block at the given indent.
func docComment(text, indent string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 1 {
		return fmt.Sprintf("%s/** %s */\n", indent, lines[0])
	}
	var sb strings.Builder
	sb.WriteString(indent + "/**\n")
	for _, line := range lines {
		if line == "" {
			sb.WriteString(indent + " *\n")
		} else {
			fmt.Fprintf(&sb, "%s * %s\n", indent, line)
		}
	}
	sb.WriteString(indent + " */\n")
	return sb.String()
}
