package ir

import "github.com/urmzd/oag/pkg/naming"

// Schema is the sealed sum of top-level type declarations.
type Schema interface {
	isSchema()
	// Name returns the declared name of the schema.
	Name() naming.Name
}

// Field is a single declared property of an object schema. Order follows the
// source document.
type Field struct {
	Raw         string
	Name        naming.Name
	Type        Type
	Required    bool
	Description string
}

// Object is a fixed-shape record, optionally open over additional properties.
type Object struct {
	SchemaName  naming.Name
	Description string
	Fields      []Field
	// Additional is the value type of additionalProperties, or nil when the
	// object is closed.
	Additional Type
}

// EnumVariant is one value of an enum schema.
type EnumVariant struct {
	Name        naming.Name
	Value       any
	Description string
}

// Enum is a closed set of scalar constants.
type Enum struct {
	SchemaName  naming.Name
	Description string
	Base        Primitive
	Variants    []EnumVariant
}

// Alias names an arbitrary type expression.
type Alias struct {
	SchemaName  naming.Name
	Description string
	Target      Type
}

// UnionSchema is a named union declaration.
type UnionSchema struct {
	SchemaName  naming.Name
	Description string
	Union       Union
}

func (Object) isSchema()      {}
func (Enum) isSchema()        {}
func (Alias) isSchema()       {}
func (UnionSchema) isSchema() {}

// Name implements Schema.
func (o Object) Name() naming.Name { return o.SchemaName }

// Name implements Schema.
func (e Enum) Name() naming.Name { return e.SchemaName }

// Name implements Schema.
func (a Alias) Name() naming.Name { return a.SchemaName }

// Name implements Schema.
func (u UnionSchema) Name() naming.Name { return u.SchemaName }

// SchemaMap is an insertion-ordered mapping from schema name to declaration.
// Iteration order is canonical across the whole pipeline.
type SchemaMap struct {
	order []string
	index map[string]Schema
}

// NewSchemaMap creates an empty schema map.
func NewSchemaMap() *SchemaMap {
	return &SchemaMap{index: make(map[string]Schema)}
}

// Add inserts or replaces a schema, keyed by its PascalCase name. First
// insertion fixes the position.
func (m *SchemaMap) Add(s Schema) {
	key := s.Name().Pascal
	if _, ok := m.index[key]; !ok {
		m.order = append(m.order, key)
	}
	m.index[key] = s
}

// Get returns the schema declared under the given PascalCase name.
func (m *SchemaMap) Get(name string) (Schema, bool) {
	s, ok := m.index[name]
	return s, ok
}

// Has reports whether a schema is declared under the given PascalCase name.
func (m *SchemaMap) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Len returns the number of declared schemas.
func (m *SchemaMap) Len() int { return len(m.order) }

// All returns the schemas in insertion order.
func (m *SchemaMap) All() []Schema {
	out := make([]Schema, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.index[key])
	}
	return out
}
