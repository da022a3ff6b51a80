package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/oag/pkg/errors"
	"github.com/urmzd/oag/pkg/naming"
)

func petSpec() *Spec {
	spec := NewSpec()
	spec.Schemas.Add(Object{
		SchemaName: naming.New("Pet"),
		Fields: []Field{
			{Raw: "id", Name: naming.New("id"), Type: Primitive{Kind: KindInteger, Bits: 64}, Required: true},
			{Raw: "name", Name: naming.New("name"), Type: Primitive{Kind: KindString}, Required: true},
		},
	})
	spec.Operations.Add(&Operation{
		ID:     naming.New("showPetById"),
		Method: MethodGet,
		Path:   "/pets/{petId}",
		Params: []Param{{
			Location: InPath, Raw: "petId", Name: naming.New("petId"),
			Type: Primitive{Kind: KindInteger, Bits: 64}, Required: true,
		}},
		Returns: Returns{Success: Ref{Name: naming.New("Pet")}},
	})
	return spec
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, Validate(petSpec()))
}

func TestValidateDanglingRef(t *testing.T) {
	spec := petSpec()
	op, _ := spec.Operations.Get("showPetById")
	op.Returns.Success = Ref{Name: naming.New("Ghost")}

	err := Validate(spec)
	require.Error(t, err)
	var verr *errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unresolved-ref", verr.Kind)
}

func TestValidateDuplicateCamelFields(t *testing.T) {
	spec := NewSpec()
	spec.Schemas.Add(Object{
		SchemaName: naming.New("Pet"),
		Fields: []Field{
			{Raw: "pet_id", Name: naming.New("pet_id"), Type: Primitive{Kind: KindString}},
			{Raw: "petId", Name: naming.New("petId"), Type: Primitive{Kind: KindString}},
		},
	})

	err := Validate(spec)
	require.Error(t, err)
	var verr *errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "duplicate-field", verr.Kind)
}

func TestValidateDuplicateUnionVariants(t *testing.T) {
	spec := NewSpec()
	spec.Schemas.Add(UnionSchema{
		SchemaName: naming.New("Value"),
		Union: Union{Variants: []Type{
			Primitive{Kind: KindString},
			Primitive{Kind: KindString},
		}},
	})

	err := Validate(spec)
	require.Error(t, err)
	var verr *errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "duplicate-variant", verr.Kind)
}

func TestValidateDiscriminatorMapping(t *testing.T) {
	spec := NewSpec()
	// Cat lacks the required literal "kind" property the mapping promises.
	spec.Schemas.Add(Object{
		SchemaName: naming.New("Cat"),
		Fields:     []Field{{Raw: "meows", Name: naming.New("meows"), Type: Primitive{Kind: KindBoolean}}},
	})
	spec.Schemas.Add(UnionSchema{
		SchemaName: naming.New("Animal"),
		Union: Union{
			Variants: []Type{Ref{Name: naming.New("Cat")}},
			Discriminator: &Discriminator{
				Property: "kind",
				Mapping:  []DiscriminatorCase{{Value: "cat", Schema: naming.New("Cat")}},
			},
		},
	})

	err := Validate(spec)
	require.Error(t, err)
	var verr *errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "discriminator", verr.Kind)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Primitive{Kind: KindString}, Primitive{Kind: KindString}))
	assert.False(t, Equal(Primitive{Kind: KindInteger, Bits: 32}, Primitive{Kind: KindInteger, Bits: 64}))
	assert.True(t, Equal(Array{Elem: Ref{Name: naming.New("Pet")}}, Array{Elem: Ref{Name: naming.New("pet")}}))
	assert.False(t, Equal(Map{Value: Primitive{Kind: KindString}}, Array{Elem: Primitive{Kind: KindString}}))
	assert.True(t, Equal(Literal{Value: "cat"}, Literal{Value: "cat"}))
	assert.False(t, Equal(Literal{Value: "cat"}, Literal{Value: "dog"}))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, Primitive{Kind: KindNull}))
}

func TestSchemaMapOrder(t *testing.T) {
	m := NewSchemaMap()
	m.Add(Alias{SchemaName: naming.New("Zebra"), Target: Primitive{Kind: KindString}})
	m.Add(Alias{SchemaName: naming.New("Apple"), Target: Primitive{Kind: KindString}})
	// Replacing keeps the original position.
	m.Add(Object{SchemaName: naming.New("Zebra")})

	all := m.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Zebra", all[0].Name().Pascal)
	assert.Equal(t, "Apple", all[1].Name().Pascal)
	_, isObject := all[0].(Object)
	assert.True(t, isObject)
}
