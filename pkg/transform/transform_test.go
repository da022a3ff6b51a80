package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/oag/pkg/errors"
	"github.com/urmzd/oag/pkg/ir"
	"github.com/urmzd/oag/pkg/loader"
	"github.com/urmzd/oag/pkg/resolver"
)

// lower runs the full front half of the pipeline over inline YAML.
func lower(t *testing.T, src string, opts Options) (*ir.Spec, []string, error) {
	t.Helper()
	doc, err := loader.Load([]byte(src), loader.FormatYAML)
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve(doc))
	return Apply(context.Background(), doc, opts)
}

func mustLower(t *testing.T, src string, opts Options) *ir.Spec {
	t.Helper()
	spec, _, err := lower(t, src, opts)
	require.NoError(t, err)
	return spec
}

const petstore = `
openapi: 3.0.0
info:
  title: Swagger Petstore
  version: 1.0.0
servers:
  - url: https://petstore.example.com/v1
paths:
  /pets/{petId}:
    get:
      operationId: showPetById
      tags:
        - pets
      summary: Info for a specific pet
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: integer
            format: int64
      responses:
        '200':
          description: Expected response
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
        '404':
          description: Not found
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Error'
components:
  schemas:
    Pet:
      type: object
      required:
        - id
        - name
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
        tag:
          type: string
    Error:
      type: object
      required:
        - code
        - message
      properties:
        code:
          type: integer
          format: int32
        message:
          type: string
`

func TestTransformPetstore(t *testing.T) {
	spec := mustLower(t, petstore, Options{})

	assert.Equal(t, "Swagger Petstore", spec.Info.Title)
	require.Len(t, spec.Servers, 1)
	assert.Equal(t, "https://petstore.example.com/v1", spec.Servers[0].URL)

	op, ok := spec.Operations.Get("showPetById")
	require.True(t, ok)
	assert.Equal(t, ir.MethodGet, op.Method)
	assert.Equal(t, "/pets/{petId}", op.Path)

	require.Len(t, op.Params, 1)
	param := op.Params[0]
	assert.Equal(t, ir.InPath, param.Location)
	assert.Equal(t, "petId", param.Raw)
	assert.True(t, param.Required)
	assert.Equal(t, ir.Primitive{Kind: ir.KindInteger, Bits: 64}, param.Type)

	assert.Equal(t, ir.Ref{Name: op.Returns.Success.(ir.Ref).Name}, op.Returns.Success)
	assert.Equal(t, "Pet", op.Returns.Success.(ir.Ref).Name.Pascal)
	assert.False(t, op.Returns.Streaming)

	require.Len(t, op.Returns.Errors, 1)
	assert.Equal(t, 404, op.Returns.Errors[0].Status)
	assert.Equal(t, "Error", op.Returns.Errors[0].Type.(ir.Ref).Name.Pascal)

	require.Len(t, spec.Modules, 1)
	assert.Equal(t, "Pets", spec.Modules[0].Name.Pascal)
	require.Len(t, spec.Modules[0].Operations, 1)
	assert.Equal(t, "showPetById", spec.Modules[0].Operations[0].Camel)

	pet, ok := spec.Schemas.Get("Pet")
	require.True(t, ok)
	obj := pet.(ir.Object)
	require.Len(t, obj.Fields, 3)
	assert.Equal(t, "id", obj.Fields[0].Raw)
	assert.True(t, obj.Fields[0].Required)
	assert.Equal(t, "tag", obj.Fields[2].Raw)
	assert.False(t, obj.Fields[2].Required)
}

// Re-running the transform over the same document yields an identical IR.
func TestTransformDeterministic(t *testing.T) {
	a := mustLower(t, petstore, Options{})
	b := mustLower(t, petstore, Options{})
	assert.Equal(t, a, b)
}

func TestTransformSSE(t *testing.T) {
	src := `
openapi: 3.1.0
info:
  title: Chat
  version: 1.0.0
paths:
  /chat/stream:
    get:
      operationId: streamChat
      responses:
        '200':
          description: Event stream
          content:
            text/event-stream:
              schema:
                $ref: '#/components/schemas/ChatEvent'
components:
  schemas:
    ChatEvent:
      type: object
      properties:
        text:
          type: string
`
	spec := mustLower(t, src, Options{})

	op, ok := spec.Operations.Get("streamChat")
	require.True(t, ok)
	assert.True(t, op.Returns.Streaming)
	assert.Equal(t, "ChatEvent", op.Returns.Success.(ir.Ref).Name.Pascal)
}

// The original behavior for a success status documenting both JSON and
// event-stream content: event-stream wins, and the choice is surfaced as a
// warning rather than silently broadened.
func TestTransformSSEBeatsJSONAtSameStatus(t *testing.T) {
	src := `
openapi: 3.1.0
info:
  title: Chat
  version: 1.0.0
paths:
  /chat/stream:
    get:
      operationId: streamChat
      responses:
        '200':
          description: Stream or snapshot
          content:
            application/json:
              schema:
                type: string
            text/event-stream:
              schema:
                $ref: '#/components/schemas/ChatEvent'
components:
  schemas:
    ChatEvent:
      type: object
      properties:
        text:
          type: string
`
	spec, warnings, err := lower(t, src, Options{})
	require.NoError(t, err)

	op, ok := spec.Operations.Get("streamChat")
	require.True(t, ok)
	assert.True(t, op.Returns.Streaming)
	assert.Equal(t, "ChatEvent", op.Returns.Success.(ir.Ref).Name.Pascal)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "text/event-stream")
}

func TestTransformDiscriminatedUnion(t *testing.T) {
	src := `
openapi: 3.0.0
info:
  title: Shelter
  version: 1.0.0
paths: {}
components:
  schemas:
    Cat:
      type: object
      required:
        - kind
      properties:
        kind:
          type: string
          enum: [cat]
        meows:
          type: boolean
    Dog:
      type: object
      required:
        - kind
      properties:
        kind:
          type: string
          enum: [dog]
        barks:
          type: boolean
    Animal:
      oneOf:
        - $ref: '#/components/schemas/Cat'
        - $ref: '#/components/schemas/Dog'
      discriminator:
        propertyName: kind
`
	spec := mustLower(t, src, Options{})

	animal, ok := spec.Schemas.Get("Animal")
	require.True(t, ok)
	union := animal.(ir.UnionSchema).Union
	require.Len(t, union.Variants, 2)
	require.NotNil(t, union.Discriminator)
	assert.Equal(t, "kind", union.Discriminator.Property)

	require.Len(t, union.Discriminator.Mapping, 2)
	assert.Equal(t, "cat", union.Discriminator.Mapping[0].Value)
	assert.Equal(t, "Cat", union.Discriminator.Mapping[0].Schema.Pascal)
	assert.Equal(t, "dog", union.Discriminator.Mapping[1].Value)
	assert.Equal(t, "Dog", union.Discriminator.Mapping[1].Schema.Pascal)

	cat := spec.Schemas.All()[0].(ir.Object)
	assert.Equal(t, "Cat", cat.SchemaName.Pascal)
	require.Equal(t, "kind", cat.Fields[0].Raw)
	assert.True(t, cat.Fields[0].Required)
	assert.Equal(t, ir.Literal{Value: "cat"}, cat.Fields[0].Type)
}

func TestTransformInferredDiscriminator(t *testing.T) {
	src := `
openapi: 3.0.0
info:
  title: Shelter
  version: 1.0.0
paths: {}
components:
  schemas:
    Cat:
      type: object
      required: [kind]
      properties:
        kind:
          type: string
          enum: [cat]
    Dog:
      type: object
      required: [kind]
      properties:
        kind:
          type: string
          enum: [dog]
    Animal:
      oneOf:
        - $ref: '#/components/schemas/Cat'
        - $ref: '#/components/schemas/Dog'
`
	spec := mustLower(t, src, Options{})

	union := mustGetUnion(t, spec, "Animal")
	require.NotNil(t, union.Discriminator)
	assert.Equal(t, "kind", union.Discriminator.Property)
	require.Len(t, union.Discriminator.Mapping, 2)
}

// Two variants sharing a literal value make the inference ambiguous; no
// discriminator is synthesized.
func TestTransformAmbiguousInference(t *testing.T) {
	src := `
openapi: 3.0.0
info:
  title: Shelter
  version: 1.0.0
paths: {}
components:
  schemas:
    Cat:
      type: object
      required: [kind]
      properties:
        kind:
          type: string
          enum: [pet]
        meows:
          type: boolean
    Dog:
      type: object
      required: [kind]
      properties:
        kind:
          type: string
          enum: [pet]
        barks:
          type: boolean
    Animal:
      oneOf:
        - $ref: '#/components/schemas/Cat'
        - $ref: '#/components/schemas/Dog'
`
	spec := mustLower(t, src, Options{})
	union := mustGetUnion(t, spec, "Animal")
	assert.Nil(t, union.Discriminator)
}

// Inference only fires on a required literal property: variants declaring the
// shared literal as optional lower to a discriminator-less union instead of a
// mapping that validation would then reject.
func TestTransformOptionalLiteralDisablesInference(t *testing.T) {
	src := `
openapi: 3.0.0
info:
  title: Shelter
  version: 1.0.0
paths: {}
components:
  schemas:
    Cat:
      type: object
      properties:
        kind:
          type: string
          enum: [cat]
        meows:
          type: boolean
    Dog:
      type: object
      properties:
        kind:
          type: string
          enum: [dog]
        barks:
          type: boolean
    Animal:
      oneOf:
        - $ref: '#/components/schemas/Cat'
        - $ref: '#/components/schemas/Dog'
`
	spec := mustLower(t, src, Options{})
	union := mustGetUnion(t, spec, "Animal")
	assert.Nil(t, union.Discriminator)
}

func mustGetUnion(t *testing.T, spec *ir.Spec, name string) ir.Union {
	t.Helper()
	s, ok := spec.Schemas.Get(name)
	require.True(t, ok)
	return s.(ir.UnionSchema).Union
}

// Inline request-body objects are promoted into named schemas: the body of
// POST /orders becomes Order, and its array element OrderItem.
func TestTransformInlinePromotion(t *testing.T) {
	src := `
openapi: 3.0.0
info:
  title: Orders
  version: 1.0.0
paths:
  /orders:
    post:
      operationId: createOrder
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [items]
              properties:
                items:
                  type: array
                  items:
                    type: object
                    properties:
                      sku:
                        type: string
                      qty:
                        type: integer
      responses:
        '201':
          description: Created
`
	spec := mustLower(t, src, Options{})

	op, ok := spec.Operations.Get("createOrder")
	require.True(t, ok)
	require.NotNil(t, op.Body)
	assert.Equal(t, "Order", op.Body.Type.(ir.Ref).Name.Pascal)
	assert.True(t, op.Body.Required)
	assert.Equal(t, "application/json", op.Body.ContentType)

	order, ok := spec.Schemas.Get("Order")
	require.True(t, ok)
	items := order.(ir.Object).Fields[0]
	assert.Equal(t, "items", items.Raw)
	assert.Equal(t, "OrderItem", items.Type.(ir.Array).Elem.(ir.Ref).Name.Pascal)

	item, ok := spec.Schemas.Get("OrderItem")
	require.True(t, ok)
	itemObj := item.(ir.Object)
	require.Len(t, itemObj.Fields, 2)
	assert.Equal(t, "sku", itemObj.Fields[0].Raw)
	assert.Equal(t, "qty", itemObj.Fields[1].Raw)

	// Promotion keeps parent-first insertion order.
	all := spec.Schemas.All()
	assert.Equal(t, "Order", all[0].Name().Pascal)
	assert.Equal(t, "OrderItem", all[1].Name().Pascal)

	// The 201 response documents no body, so the operation yields unit.
	assert.Nil(t, op.Returns.Success)
}

// Recursive schemas end up as named references inside the array, not as
// infinite expansions.
func TestTransformCycle(t *testing.T) {
	src := `
openapi: 3.0.0
info:
  title: Trees
  version: 1.0.0
paths: {}
components:
  schemas:
    Tree:
      type: object
      properties:
        children:
          type: array
          items:
            $ref: '#/components/schemas/Tree'
`
	spec := mustLower(t, src, Options{})

	tree, ok := spec.Schemas.Get("Tree")
	require.True(t, ok)
	children := tree.(ir.Object).Fields[0]
	assert.Equal(t, "Tree", children.Type.(ir.Array).Elem.(ir.Ref).Name.Pascal)
}

func TestRouteBasedNaming(t *testing.T) {
	tests := []struct {
		method ir.Method
		path   string
		want   string
	}{
		{ir.MethodGet, "/pets/{id}", "getPet"},
		{ir.MethodGet, "/pets", "listPets"},
		{ir.MethodPost, "/pets", "createPet"},
		{ir.MethodPut, "/pets/{id}", "updatePet"},
		{ir.MethodPatch, "/pets/{id}", "patchPet"},
		{ir.MethodDelete, "/pets/{id}", "deletePet"},
		{ir.MethodGet, "/users/{uid}/pets", "listUserPets"},
		{ir.MethodGet, "/users/{uid}/pets/{pid}", "getUserPet"},
		{ir.MethodGet, "/", "getRoot"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, routeID(tt.method, tt.path).Camel)
		})
	}
}

func TestNamingAliases(t *testing.T) {
	spec := mustLower(t, petstore, Options{Aliases: map[string]string{"showPetById": "fetchPet"}})
	_, ok := spec.Operations.Get("showPetById")
	assert.False(t, ok)
	_, ok = spec.Operations.Get("fetchPet")
	assert.True(t, ok)
}

func TestRouteStrategyOverridesOperationID(t *testing.T) {
	spec := mustLower(t, petstore, Options{Strategy: UseRouteBased})
	_, ok := spec.Operations.Get("getPet")
	assert.True(t, ok)
}

func TestUntaggedOperationsLandInDefaultModule(t *testing.T) {
	src := `
openapi: 3.0.0
info:
  title: Minimal
  version: 1.0.0
paths:
  /health:
    get:
      operationId: getHealth
      responses:
        '204':
          description: OK
`
	spec := mustLower(t, src, Options{})
	require.Len(t, spec.Modules, 1)
	assert.Equal(t, "Default", spec.Modules[0].Name.Pascal)

	op, _ := spec.Operations.Get("getHealth")
	assert.Nil(t, op.Returns.Success)
}

func TestPathParamMismatchFailsValidation(t *testing.T) {
	src := `
openapi: 3.0.0
info:
  title: Broken
  version: 1.0.0
paths:
  /pets/{petId}:
    get:
      operationId: showPetById
      responses:
        '200':
          description: OK
`
	_, _, err := lower(t, src, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidIR)

	var verr *errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "path-params", verr.Kind)
}

func TestDuplicateOperationIDsFailValidation(t *testing.T) {
	src := `
openapi: 3.0.0
info:
  title: Broken
  version: 1.0.0
paths:
  /a:
    get:
      operationId: doThing
      responses:
        '204':
          description: OK
  /b:
    get:
      operationId: do_thing
      responses:
        '204':
          description: OK
`
	_, _, err := lower(t, src, Options{})
	require.Error(t, err)

	var verr *errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "duplicate-operation", verr.Kind)
}

func TestAllOfFlattening(t *testing.T) {
	src := `
openapi: 3.0.0
info:
  title: Shelter
  version: 1.0.0
paths: {}
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
    Dog:
      allOf:
        - $ref: '#/components/schemas/Pet'
        - type: object
          properties:
            barks:
              type: boolean
`
	spec := mustLower(t, src, Options{})

	dog, ok := spec.Schemas.Get("Dog")
	require.True(t, ok)
	obj := dog.(ir.Object)
	require.Len(t, obj.Fields, 2)
	assert.Equal(t, "name", obj.Fields[0].Raw)
	assert.True(t, obj.Fields[0].Required)
	assert.Equal(t, "barks", obj.Fields[1].Raw)
}

func TestEnumSchema(t *testing.T) {
	src := `
openapi: 3.0.0
info:
  title: Shelter
  version: 1.0.0
paths: {}
components:
  schemas:
    Status:
      type: string
      enum: [available, pending, sold]
`
	spec := mustLower(t, src, Options{})

	status, ok := spec.Schemas.Get("Status")
	require.True(t, ok)
	enum := status.(ir.Enum)
	assert.Equal(t, ir.KindString, enum.Base.Kind)
	require.Len(t, enum.Variants, 3)
	assert.Equal(t, "Available", enum.Variants[0].Name.Pascal)
	assert.Equal(t, "available", enum.Variants[0].Value)
}

func TestAdditionalPropertiesBecomeIntersectionAtUseSite(t *testing.T) {
	src := `
openapi: 3.0.0
info:
  title: Meta
  version: 1.0.0
paths:
  /meta:
    put:
      operationId: putMeta
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                id:
                  type: string
                name:
                  type: string
              additionalProperties:
                type: string
      responses:
        '204':
          description: OK
`
	spec := mustLower(t, src, Options{})

	op, _ := spec.Operations.Get("putMeta")
	require.NotNil(t, op.Body)
	inter, ok := op.Body.Type.(ir.Intersection)
	require.True(t, ok)
	require.Len(t, inter.Parts, 2)
	assert.Equal(t, "Meta", inter.Parts[0].(ir.Ref).Name.Pascal)
	assert.Equal(t, ir.Map{Value: ir.Primitive{Kind: ir.KindString}}, inter.Parts[1])
}
