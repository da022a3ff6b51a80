package compiler

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/urmzd/oag/pkg/ir"
)

// InspectYAML renders the IR as YAML with canonical ordering.
func InspectYAML(spec *ir.Spec) ([]byte, error) {
	return yaml.Marshal(specNode(spec))
}

// InspectJSON renders the IR as JSON with canonical ordering.
func InspectJSON(spec *ir.Spec) ([]byte, error) {
	var buf bytes.Buffer
	writeJSON(&buf, specNode(spec), 0)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// TypeLabel renders an IR type in the compact notation the inspect dump uses.
func TypeLabel(t ir.Type) string {
	switch v := t.(type) {
	case nil:
		return "unit"
	case ir.Primitive:
		switch v.Kind {
		case ir.KindInteger:
			bits := v.Bits
			if bits == 0 {
				bits = 64
			}
			prefix := "int"
			if v.Unsigned {
				prefix = "uint"
			}
			return prefix + strconv.Itoa(bits)
		case ir.KindNumber:
			if v.Double {
				return "double"
			}
			return "float"
		default:
			return v.Kind.String()
		}
	case ir.Array:
		return "array<" + TypeLabel(v.Elem) + ">"
	case ir.Map:
		return "map<string, " + TypeLabel(v.Value) + ">"
	case ir.Ref:
		return v.Name.Pascal
	case ir.Union:
		parts := make([]string, len(v.Variants))
		for i, variant := range v.Variants {
			parts[i] = TypeLabel(variant)
		}
		return strings.Join(parts, " | ")
	case ir.Intersection:
		parts := make([]string, len(v.Parts))
		for i, part := range v.Parts {
			parts[i] = TypeLabel(part)
		}
		return strings.Join(parts, " & ")
	case ir.Literal:
		return fmt.Sprintf("%#v", v.Value)
	default:
		return "unknown"
	}
}

func specNode(spec *ir.Spec) *yaml.Node {
	root := mapping()

	info := mapping()
	put(info, "title", str(spec.Info.Title))
	if spec.Info.Description != "" {
		put(info, "description", str(spec.Info.Description))
	}
	put(info, "version", str(spec.Info.Version))
	put(root, "info", info)

	servers := sequence()
	for _, s := range spec.Servers {
		entry := mapping()
		put(entry, "url", str(s.URL))
		if s.Description != "" {
			put(entry, "description", str(s.Description))
		}
		servers.Content = append(servers.Content, entry)
	}
	put(root, "servers", servers)

	schemas := mapping()
	for _, s := range spec.Schemas.All() {
		put(schemas, s.Name().Pascal, schemaNode(s))
	}
	put(root, "schemas", schemas)

	operations := mapping()
	for _, op := range spec.Operations.All() {
		put(operations, op.ID.Camel, operationNode(op))
	}
	put(root, "operations", operations)

	modules := sequence()
	for _, m := range spec.Modules {
		entry := mapping()
		put(entry, "name", str(m.Name.Pascal))
		ops := sequence()
		for _, id := range m.Operations {
			ops.Content = append(ops.Content, str(id.Camel))
		}
		put(entry, "operations", ops)
		modules.Content = append(modules.Content, entry)
	}
	put(root, "modules", modules)

	return root
}

func schemaNode(schema ir.Schema) *yaml.Node {
	node := mapping()
	switch s := schema.(type) {
	case ir.Object:
		put(node, "kind", str("object"))
		fields := sequence()
		for _, f := range s.Fields {
			field := mapping()
			put(field, "name", str(f.Name.Camel))
			put(field, "type", str(TypeLabel(f.Type)))
			put(field, "required", boolNode(f.Required))
			if f.Description != "" {
				put(field, "description", str(f.Description))
			}
			fields.Content = append(fields.Content, field)
		}
		put(node, "fields", fields)
		if s.Additional != nil {
			put(node, "additional", str(TypeLabel(s.Additional)))
		}
	case ir.Enum:
		put(node, "kind", str("enum"))
		put(node, "base", str(TypeLabel(s.Base)))
		variants := sequence()
		for _, v := range s.Variants {
			variant := mapping()
			put(variant, "name", str(v.Name.Pascal))
			put(variant, "value", str(fmt.Sprintf("%v", v.Value)))
			variants.Content = append(variants.Content, variant)
		}
		put(node, "variants", variants)
	case ir.Alias:
		put(node, "kind", str("alias"))
		put(node, "type", str(TypeLabel(s.Target)))
	case ir.UnionSchema:
		put(node, "kind", str("union"))
		variants := sequence()
		for _, v := range s.Union.Variants {
			variants.Content = append(variants.Content, str(TypeLabel(v)))
		}
		put(node, "variants", variants)
		if d := s.Union.Discriminator; d != nil {
			disc := mapping()
			put(disc, "property", str(d.Property))
			cases := mapping()
			for _, c := range d.Mapping {
				put(cases, c.Value, str(c.Schema.Pascal))
			}
			put(disc, "mapping", cases)
			put(node, "discriminator", disc)
		}
	}
	return node
}

func operationNode(op *ir.Operation) *yaml.Node {
	node := mapping()
	put(node, "method", str(string(op.Method)))
	put(node, "path", str(op.Path))
	if len(op.Tags) > 0 {
		tags := sequence()
		for _, tag := range op.Tags {
			tags.Content = append(tags.Content, str(tag))
		}
		put(node, "tags", tags)
	}
	if op.Summary != "" {
		put(node, "summary", str(op.Summary))
	}
	if op.Deprecated {
		put(node, "deprecated", boolNode(true))
	}

	if len(op.Params) > 0 {
		params := sequence()
		for _, p := range op.Params {
			param := mapping()
			put(param, "name", str(p.Raw))
			put(param, "in", str(string(p.Location)))
			put(param, "type", str(TypeLabel(p.Type)))
			put(param, "required", boolNode(p.Required))
			params.Content = append(params.Content, param)
		}
		put(node, "params", params)
	}

	if op.Body != nil {
		body := mapping()
		put(body, "type", str(TypeLabel(op.Body.Type)))
		put(body, "contentType", str(op.Body.ContentType))
		put(body, "required", boolNode(op.Body.Required))
		put(node, "body", body)
	}

	returns := mapping()
	put(returns, "success", str(TypeLabel(op.Returns.Success)))
	if op.Returns.Streaming {
		put(returns, "streaming", boolNode(true))
	}
	if len(op.Returns.Errors) > 0 {
		errs := sequence()
		for _, e := range op.Returns.Errors {
			entry := mapping()
			put(entry, "status", intNode(e.Status))
			put(entry, "type", str(TypeLabel(e.Type)))
			errs.Content = append(errs.Content, entry)
		}
		put(returns, "errors", errs)
	}
	put(node, "returns", returns)
	return node
}

func mapping() *yaml.Node  { return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"} }
func sequence() *yaml.Node { return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"} }

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func boolNode(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}

func intNode(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(i)}
}

func put(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, str(key), value)
}

// writeJSON serializes a constructed node tree as indented JSON, preserving
// mapping order.
func writeJSON(buf *bytes.Buffer, node *yaml.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	child := strings.Repeat("  ", depth+1)
	switch node.Kind {
	case yaml.MappingNode:
		if len(node.Content) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteString("{\n")
		for i := 0; i+1 < len(node.Content); i += 2 {
			if i > 0 {
				buf.WriteString(",\n")
			}
			fmt.Fprintf(buf, "%s%q: ", child, node.Content[i].Value)
			writeJSON(buf, node.Content[i+1], depth+1)
		}
		buf.WriteString("\n" + indent + "}")
	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteString("[\n")
		for i, item := range node.Content {
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString(child)
			writeJSON(buf, item, depth+1)
		}
		buf.WriteString("\n" + indent + "]")
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!bool", "!!int", "!!float", "!!null":
			buf.WriteString(node.Value)
		default:
			fmt.Fprintf(buf, "%q", node.Value)
		}
	}
}
