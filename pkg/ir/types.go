// Package ir defines the typed intermediate representation produced by the
// transform and consumed by every generator.
//
// Types and schemas are closed tagged sums: the Type and Schema interfaces are
// sealed by unexported marker methods, so emitters can switch exhaustively
// over the concrete variants.
package ir

import (
	"fmt"

	"github.com/urmzd/oag/pkg/naming"
)

// Type is the sealed sum of every shape a parameter, body, or property may take.
type Type interface {
	isType()
}

// PrimitiveKind enumerates the primitive type variants.
type PrimitiveKind uint8

const (
	// KindString is a UTF-8 string.
	KindString PrimitiveKind = iota
	// KindInteger is an integer with an explicit bit width.
	KindInteger
	// KindNumber is a floating-point number.
	KindNumber
	// KindBoolean is a boolean.
	KindBoolean
	// KindNull is the JSON null type.
	KindNull
	// KindAny is an unconstrained value.
	KindAny
	// KindBinary is raw binary content.
	KindBinary
	// KindDateTime is an RFC 3339 date-time.
	KindDateTime
	// KindDate is an RFC 3339 full-date.
	KindDate
)

// String returns a stable name for the primitive kind.
func (k PrimitiveKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	case KindAny:
		return "any"
	case KindBinary:
		return "binary"
	case KindDateTime:
		return "date-time"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("primitive(%d)", k)
	}
}

// Primitive is a scalar type. Bits and Unsigned apply to integers, Double to
// numbers; both are zero-valued otherwise.
type Primitive struct {
	Kind     PrimitiveKind
	Bits     int
	Unsigned bool
	Double   bool
}

// Array is a homogeneous list type.
type Array struct {
	Elem Type
}

// Map is a string-keyed mapping over a homogeneous value type, as produced by
// additionalProperties.
type Map struct {
	Value Type
}

// Ref is a named reference into the top-level schema map.
type Ref struct {
	Name naming.Name
}

// Union is a sum of variants, optionally selected by a discriminator property.
type Union struct {
	Variants      []Type
	Discriminator *Discriminator
}

// Discriminator describes the property whose literal value selects a union
// variant. Mapping order follows the source document.
type Discriminator struct {
	Property string
	Mapping  []DiscriminatorCase
}

// DiscriminatorCase binds one literal discriminator value to a named schema.
type DiscriminatorCase struct {
	Value  string
	Schema naming.Name
}

// Intersection combines fixed-shape parts, used for objects mixing declared
// properties with additionalProperties.
type Intersection struct {
	Parts []Type
}

// Literal is a constant string, number, or boolean, used inside discriminated
// unions.
type Literal struct {
	Value any
}

func (Primitive) isType()    {}
func (Array) isType()        {}
func (Map) isType()          {}
func (Ref) isType()          {}
func (Union) isType()        {}
func (Intersection) isType() {}
func (Literal) isType()      {}

// Equal reports structural identity of two types.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x == y
	case Array:
		y, ok := b.(Array)
		return ok && Equal(x.Elem, y.Elem)
	case Map:
		y, ok := b.(Map)
		return ok && Equal(x.Value, y.Value)
	case Ref:
		y, ok := b.(Ref)
		return ok && x.Name.Pascal == y.Name.Pascal
	case Literal:
		y, ok := b.(Literal)
		return ok && x.Value == y.Value
	case Union:
		y, ok := b.(Union)
		if !ok || len(x.Variants) != len(y.Variants) {
			return false
		}
		for i := range x.Variants {
			if !Equal(x.Variants[i], y.Variants[i]) {
				return false
			}
		}
		return true
	case Intersection:
		y, ok := b.(Intersection)
		if !ok || len(x.Parts) != len(y.Parts) {
			return false
		}
		for i := range x.Parts {
			if !Equal(x.Parts[i], y.Parts[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
