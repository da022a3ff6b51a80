package transform

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/urmzd/oag/pkg/ir"
	"github.com/urmzd/oag/pkg/loader"
	"github.com/urmzd/oag/pkg/naming"
	"github.com/urmzd/oag/pkg/resolver"
)

// schemas classifies every components.schemas entry into an IR schema
// declaration (phase 1). Promotion of anonymous objects registers additional
// declarations as they are encountered.
func (t *transformer) schemas() error {
	section := loader.Get(loader.Get(t.doc.Root, "components"), "schemas")
	entries := loader.Entries(section)

	for _, e := range entries {
		t.declared[naming.New(e.Key).Pascal] = true
	}
	for _, e := range entries {
		s, err := t.classify(naming.New(e.Key), e.Value)
		if err != nil {
			return err
		}
		t.spec.Schemas.Add(s)
	}
	return nil
}

// classify maps one named schema node onto an IR schema variant.
func (t *transformer) classify(name naming.Name, node *yaml.Node) (ir.Schema, error) {
	desc := loader.StrAt(node, "description")

	if ref, ok := resolver.CycleRef(node); ok {
		return ir.Alias{SchemaName: name, Target: ir.Ref{Name: naming.New(ref)}}, nil
	}
	if origin, ok := resolver.Origin(node); ok && naming.New(origin).Pascal != name.Pascal {
		return ir.Alias{SchemaName: name, Description: desc, Target: ir.Ref{Name: naming.New(origin)}}, nil
	}

	if loader.Has(node, "enum") {
		return t.classifyEnum(name, node), nil
	}

	if variants := unionVariants(node); variants != nil {
		union, err := t.lowerUnion(node, variants, name.Pascal)
		if err != nil {
			return nil, err
		}
		return ir.UnionSchema{SchemaName: name, Description: desc, Union: union}, nil
	}

	if parts := loader.Items(loader.Get(node, "allOf")); len(parts) > 0 {
		if flat, ok := t.flattenAllOf(name, node, parts); ok {
			return flat, nil
		}
		target, err := t.lowerType(loader.Get(node, "allOf"), name.Pascal)
		if err != nil {
			return nil, err
		}
		return ir.Alias{SchemaName: name, Description: desc, Target: target}, nil
	}

	if loader.Has(node, "properties") {
		return t.objectSchema(name, node)
	}

	target, err := t.lowerType(node, name.Pascal)
	if err != nil {
		return nil, err
	}
	return ir.Alias{SchemaName: name, Description: desc, Target: target}, nil
}

// classifyEnum builds an Enum declaration. Variant names are normalized from
// the values.
func (t *transformer) classifyEnum(name naming.Name, node *yaml.Node) ir.Enum {
	base := ir.Primitive{Kind: ir.KindString}
	switch loader.StrAt(node, "type") {
	case "integer":
		base = ir.Primitive{Kind: ir.KindInteger, Bits: 64}
	case "number":
		base = ir.Primitive{Kind: ir.KindNumber, Double: true}
	case "boolean":
		base = ir.Primitive{Kind: ir.KindBoolean}
	}

	enum := ir.Enum{SchemaName: name, Description: loader.StrAt(node, "description"), Base: base}
	for _, item := range loader.Items(loader.Get(node, "enum")) {
		value := loader.Scalar(item)
		enum.Variants = append(enum.Variants, ir.EnumVariant{
			Name:  naming.New(fmt.Sprintf("%v", value)),
			Value: value,
		})
	}
	return enum
}

// flattenAllOf handles the single-parent inheritance shape: allOf made of
// object-like parts is flattened into one Object, parent fields first, child
// fields overlaid.
func (t *transformer) flattenAllOf(name naming.Name, node *yaml.Node, parts []*yaml.Node) (ir.Schema, bool) {
	for _, part := range parts {
		if _, cyclic := resolver.CycleRef(part); cyclic {
			return nil, false
		}
		if !loader.Has(part, "properties") {
			return nil, false
		}
	}

	obj := ir.Object{SchemaName: name, Description: loader.StrAt(node, "description")}
	seen := make(map[string]int)
	for _, part := range parts {
		partial, err := t.objectSchema(name, part)
		if err != nil {
			return nil, false
		}
		for _, f := range partial.Fields {
			if i, ok := seen[f.Raw]; ok {
				obj.Fields[i] = f
				continue
			}
			seen[f.Raw] = len(obj.Fields)
			obj.Fields = append(obj.Fields, f)
		}
		if partial.Additional != nil {
			obj.Additional = partial.Additional
		}
	}
	return obj, true
}

// objectSchema lowers an object node into an Object declaration.
func (t *transformer) objectSchema(name naming.Name, node *yaml.Node) (ir.Object, error) {
	obj := ir.Object{SchemaName: name, Description: loader.StrAt(node, "description")}

	required := make(map[string]bool)
	for _, r := range loader.Items(loader.Get(node, "required")) {
		required[loader.Str(r)] = true
	}

	for _, prop := range loader.Entries(loader.Get(node, "properties")) {
		fieldType, err := t.lowerType(prop.Value, name.Pascal+naming.New(prop.Key).Pascal)
		if err != nil {
			return ir.Object{}, err
		}
		obj.Fields = append(obj.Fields, ir.Field{
			Raw:         prop.Key,
			Name:        naming.New(prop.Key),
			Type:        fieldType,
			Required:    required[prop.Key],
			Description: loader.StrAt(prop.Value, "description"),
		})
	}

	additional, err := t.additionalType(node, name.Pascal)
	if err != nil {
		return ir.Object{}, err
	}
	obj.Additional = additional
	return obj, nil
}

// additionalType lowers the additionalProperties value type, or nil when the
// object is closed.
func (t *transformer) additionalType(node *yaml.Node, owner string) (ir.Type, error) {
	addl := loader.Get(node, "additionalProperties")
	if addl == nil {
		return nil, nil
	}
	if loader.IsScalar(addl) {
		if v, ok := loader.Scalar(addl).(bool); ok && v {
			return ir.Primitive{Kind: ir.KindAny}, nil
		}
		return nil, nil
	}
	return t.lowerType(addl, owner+"Value")
}

// lowerType maps an arbitrary schema node onto an IR type. owner is the
// synthetic name base used when an anonymous object has to be promoted.
func (t *transformer) lowerType(node *yaml.Node, owner string) (ir.Type, error) {
	if node == nil {
		return ir.Primitive{Kind: ir.KindAny}, nil
	}
	if ref, ok := resolver.CycleRef(node); ok {
		return ir.Ref{Name: naming.New(ref)}, nil
	}
	if origin, ok := resolver.Origin(node); ok {
		return ir.Ref{Name: naming.New(origin)}, nil
	}
	if !loader.IsMapping(node) {
		return ir.Primitive{Kind: ir.KindAny}, nil
	}

	if items := loader.Items(loader.Get(node, "enum")); len(items) > 0 {
		if len(items) == 1 {
			return ir.Literal{Value: loader.Scalar(items[0])}, nil
		}
		union := ir.Union{}
		for _, item := range items {
			union.Variants = append(union.Variants, ir.Literal{Value: loader.Scalar(item)})
		}
		return union, nil
	}
	if c := loader.Get(node, "const"); c != nil {
		return ir.Literal{Value: loader.Scalar(c)}, nil
	}

	if variants := unionVariants(node); variants != nil {
		return t.lowerUnion(node, variants, owner)
	}
	if parts := loader.Items(loader.Get(node, "allOf")); len(parts) > 0 {
		inter := ir.Intersection{}
		for _, part := range parts {
			lowered, err := t.lowerType(part, owner)
			if err != nil {
				return nil, err
			}
			inter.Parts = append(inter.Parts, lowered)
		}
		return inter, nil
	}

	typeNode := loader.Get(node, "type")
	if loader.IsSequence(typeNode) {
		return t.lowerTypeList(node, typeNode, owner)
	}

	typ := loader.Str(typeNode)
	if typ == "" && loader.Has(node, "properties") {
		typ = "object"
	}

	var lowered ir.Type
	var err error
	switch typ {
	case "string":
		lowered = stringPrimitive(loader.StrAt(node, "format"))
	case "integer":
		bits := 64
		if loader.StrAt(node, "format") == "int32" {
			bits = 32
		}
		lowered = ir.Primitive{Kind: ir.KindInteger, Bits: bits}
	case "number":
		lowered = ir.Primitive{Kind: ir.KindNumber, Double: loader.StrAt(node, "format") != "float"}
	case "boolean":
		lowered = ir.Primitive{Kind: ir.KindBoolean}
	case "null":
		lowered = ir.Primitive{Kind: ir.KindNull}
	case "array":
		elem, elemErr := t.lowerType(loader.Get(node, "items"), naming.Singular(owner))
		if elemErr != nil {
			return nil, elemErr
		}
		lowered = ir.Array{Elem: elem}
	case "object":
		lowered, err = t.lowerObject(node, owner)
	default:
		lowered = ir.Primitive{Kind: ir.KindAny}
	}
	if err != nil {
		return nil, err
	}

	if loader.BoolAt(node, "nullable") {
		lowered = ir.Union{Variants: []ir.Type{lowered, ir.Primitive{Kind: ir.KindNull}}}
	}
	return lowered, nil
}

// lowerTypeList handles the 3.1 multi-type form, e.g. type: [string, "null"].
func (t *transformer) lowerTypeList(node, typeNode *yaml.Node, owner string) (ir.Type, error) {
	union := ir.Union{}
	for _, item := range loader.Items(typeNode) {
		switch loader.Str(item) {
		case "null":
			union.Variants = append(union.Variants, ir.Primitive{Kind: ir.KindNull})
		case "string":
			union.Variants = append(union.Variants, stringPrimitive(loader.StrAt(node, "format")))
		case "integer":
			bits := 64
			if loader.StrAt(node, "format") == "int32" {
				bits = 32
			}
			union.Variants = append(union.Variants, ir.Primitive{Kind: ir.KindInteger, Bits: bits})
		case "number":
			union.Variants = append(union.Variants, ir.Primitive{Kind: ir.KindNumber, Double: loader.StrAt(node, "format") != "float"})
		case "boolean":
			union.Variants = append(union.Variants, ir.Primitive{Kind: ir.KindBoolean})
		case "array":
			elem, err := t.lowerType(loader.Get(node, "items"), naming.Singular(owner))
			if err != nil {
				return nil, err
			}
			union.Variants = append(union.Variants, ir.Array{Elem: elem})
		case "object":
			obj, err := t.lowerObject(node, owner)
			if err != nil {
				return nil, err
			}
			union.Variants = append(union.Variants, obj)
		default:
			union.Variants = append(union.Variants, ir.Primitive{Kind: ir.KindAny})
		}
	}
	if len(union.Variants) == 1 {
		return union.Variants[0], nil
	}
	return union, nil
}

// lowerObject handles an anonymous object at a use site: objects with
// declared properties are promoted to a named top-level schema, and a mix of
// properties and additionalProperties becomes an intersection at the use site.
func (t *transformer) lowerObject(node *yaml.Node, owner string) (ir.Type, error) {
	props := loader.Entries(loader.Get(node, "properties"))
	additional, err := t.additionalType(node, owner)
	if err != nil {
		return nil, err
	}

	if len(props) == 0 {
		if additional != nil {
			return ir.Map{Value: additional}, nil
		}
		return ir.Map{Value: ir.Primitive{Kind: ir.KindAny}}, nil
	}

	ref, err := t.promote(owner, node)
	if err != nil {
		return nil, err
	}
	if additional != nil {
		return ir.Intersection{Parts: []ir.Type{ref, ir.Map{Value: additional}}}, nil
	}
	return ref, nil
}

// promote mints a top-level declaration for an anonymous object and returns a
// reference to it.
func (t *transformer) promote(owner string, node *yaml.Node) (ir.Type, error) {
	name := naming.New(t.uniqueName(owner))
	// Reserve the map position so nested promotions keep parent-first order.
	t.spec.Schemas.Add(ir.Alias{SchemaName: name, Target: ir.Primitive{Kind: ir.KindAny}})

	obj, err := t.objectSchema(name, node)
	if err != nil {
		return nil, err
	}
	// Promoted objects stay closed here: additionalProperties are carried by
	// the use site as an intersection.
	obj.Additional = nil
	t.spec.Schemas.Add(obj)
	return ir.Ref{Name: name}, nil
}

// uniqueName returns base or the first numbered variant that collides with
// neither a declared nor an already-promoted schema name.
func (t *transformer) uniqueName(base string) string {
	if base == "" {
		base = "Anonymous"
	}
	name := base
	for i := 2; t.declared[name] || t.spec.Schemas.Has(name); i++ {
		name = base + strconv.Itoa(i)
	}
	return name
}

// unionVariants returns the oneOf or anyOf items of a node, or nil.
func unionVariants(node *yaml.Node) []*yaml.Node {
	if items := loader.Items(loader.Get(node, "oneOf")); len(items) > 0 {
		return items
	}
	if items := loader.Items(loader.Get(node, "anyOf")); len(items) > 0 {
		return items
	}
	return nil
}

// lowerUnion lowers a oneOf/anyOf node, attaching an explicit discriminator
// when present or inferring one from shared literal properties.
func (t *transformer) lowerUnion(node *yaml.Node, variants []*yaml.Node, owner string) (ir.Union, error) {
	union := ir.Union{}
	for _, v := range variants {
		lowered, err := t.lowerType(v, owner)
		if err != nil {
			return ir.Union{}, err
		}
		union.Variants = append(union.Variants, lowered)
	}

	if disc := loader.Get(node, "discriminator"); disc != nil {
		union.Discriminator = t.explicitDiscriminator(disc, variants, union.Variants)
	} else {
		union.Discriminator = inferDiscriminator(variants, union.Variants)
	}
	return union, nil
}

// explicitDiscriminator builds the discriminator from the document node.
// Without a mapping, cases are derived from each variant's literal value for
// the discriminator property.
func (t *transformer) explicitDiscriminator(disc *yaml.Node, variants []*yaml.Node, lowered []ir.Type) *ir.Discriminator {
	property := loader.StrAt(disc, "propertyName")
	if property == "" {
		return nil
	}
	out := &ir.Discriminator{Property: property}

	if mapping := loader.Get(disc, "mapping"); mapping != nil {
		for _, e := range loader.Entries(mapping) {
			out.Mapping = append(out.Mapping, ir.DiscriminatorCase{
				Value:  e.Key,
				Schema: naming.New(refTail(loader.Str(e.Value))),
			})
		}
		return out
	}

	for i, v := range variants {
		ref, ok := lowered[i].(ir.Ref)
		if !ok {
			continue
		}
		value := literalValue(v, property)
		if value == "" {
			value = ref.Name.Snake
		}
		out.Mapping = append(out.Mapping, ir.DiscriminatorCase{Value: value, Schema: ref.Name})
	}
	return out
}

// inferDiscriminator synthesizes a discriminator when every variant is an
// object carrying a shared required literal property with pairwise-distinct
// values. Ambiguity disables the inference.
func inferDiscriminator(variants []*yaml.Node, lowered []ir.Type) *ir.Discriminator {
	if len(variants) < 2 {
		return nil
	}
	first := variants[0]
	for _, prop := range loader.Entries(loader.Get(first, "properties")) {
		cases := make([]ir.DiscriminatorCase, 0, len(variants))
		seen := make(map[string]bool)
		ok := true
		for i, v := range variants {
			ref, isRef := lowered[i].(ir.Ref)
			value := literalValue(v, prop.Key)
			if !isRef || value == "" || seen[value] || !requiresProperty(v, prop.Key) {
				ok = false
				break
			}
			seen[value] = true
			cases = append(cases, ir.DiscriminatorCase{Value: value, Schema: ref.Name})
		}
		if ok {
			return &ir.Discriminator{Property: prop.Key, Mapping: cases}
		}
	}
	return nil
}

// requiresProperty reports whether a variant lists the property as required,
// the same condition validation enforces on discriminator cases.
func requiresProperty(variant *yaml.Node, property string) bool {
	for _, r := range loader.Items(loader.Get(variant, "required")) {
		if loader.Str(r) == property {
			return true
		}
	}
	return false
}

// literalValue extracts the constant value a variant declares for a property,
// from const or a single-element enum.
func literalValue(variant *yaml.Node, property string) string {
	prop := loader.Get(loader.Get(variant, "properties"), property)
	if prop == nil {
		return ""
	}
	if c := loader.Get(prop, "const"); c != nil {
		return loader.Str(c)
	}
	if items := loader.Items(loader.Get(prop, "enum")); len(items) == 1 {
		return loader.Str(items[0])
	}
	return ""
}

func stringPrimitive(format string) ir.Primitive {
	switch format {
	case "date-time":
		return ir.Primitive{Kind: ir.KindDateTime}
	case "date":
		return ir.Primitive{Kind: ir.KindDate}
	case "binary", "byte":
		return ir.Primitive{Kind: ir.KindBinary}
	default:
		return ir.Primitive{Kind: ir.KindString}
	}
}

func refTail(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
