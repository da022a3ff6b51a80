package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/oag/pkg/errors"
	"github.com/urmzd/oag/pkg/loader"
)

func mustLoad(t *testing.T, src string) *loader.Document {
	t.Helper()
	doc, err := loader.Load([]byte(src), loader.FormatYAML)
	require.NoError(t, err)
	return doc
}

func TestResolveExpandsSchemaRef(t *testing.T) {
	doc := mustLoad(t, `
paths:
  /pets/{petId}:
    get:
      responses:
        '200':
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
`)
	require.NoError(t, Resolve(doc))

	schema := loader.Get(loader.Get(loader.Get(loader.Get(loader.Get(loader.Get(
		doc.Root, "paths"), "/pets/{petId}"), "get"), "responses"), "200"), "content")
	schema = loader.Get(loader.Get(schema, "application/json"), "schema")
	require.NotNil(t, schema)

	// The referring node now holds a clone of Pet, tagged with its origin.
	origin, ok := Origin(schema)
	require.True(t, ok)
	assert.Equal(t, "Pet", origin)
	assert.Equal(t, "object", loader.StrAt(schema, "type"))
	assert.True(t, loader.Has(loader.Get(schema, "properties"), "name"))
}

func TestResolveNestedRefs(t *testing.T) {
	doc := mustLoad(t, `
components:
  schemas:
    Owner:
      type: object
      properties:
        pet:
          $ref: '#/components/schemas/Pet'
    Pet:
      type: object
      properties:
        name:
          type: string
`)
	require.NoError(t, Resolve(doc))

	owner := loader.Get(loader.Get(loader.Get(doc.Root, "components"), "schemas"), "Owner")
	pet := loader.Get(loader.Get(owner, "properties"), "pet")
	origin, ok := Origin(pet)
	require.True(t, ok)
	assert.Equal(t, "Pet", origin)
	assert.True(t, loader.Has(loader.Get(pet, "properties"), "name"))
}

// A self-referential schema resolves with a cycle sentinel instead of
// expanding forever.
func TestResolveCycle(t *testing.T) {
	doc := mustLoad(t, `
components:
  schemas:
    Tree:
      type: object
      properties:
        children:
          type: array
          items:
            $ref: '#/components/schemas/Tree'
`)
	require.NoError(t, Resolve(doc))

	tree := loader.Get(loader.Get(loader.Get(doc.Root, "components"), "schemas"), "Tree")
	items := loader.Get(loader.Get(loader.Get(tree, "properties"), "children"), "items")
	name, ok := CycleRef(items)
	require.True(t, ok)
	assert.Equal(t, "Tree", name)
}

func TestResolveMutualCycle(t *testing.T) {
	doc := mustLoad(t, `
components:
  schemas:
    A:
      type: object
      properties:
        b:
          $ref: '#/components/schemas/B'
    B:
      type: object
      properties:
        a:
          $ref: '#/components/schemas/A'
`)
	require.NoError(t, Resolve(doc))

	a := loader.Get(loader.Get(loader.Get(doc.Root, "components"), "schemas"), "A")
	b := loader.Get(loader.Get(a, "properties"), "b")
	// B was expanded into A; inside that clone the back-reference to A is a
	// sentinel.
	origin, ok := Origin(b)
	require.True(t, ok)
	assert.Equal(t, "B", origin)
	backRef := loader.Get(loader.Get(b, "properties"), "a")
	name, ok := CycleRef(backRef)
	require.True(t, ok)
	assert.Equal(t, "A", name)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{
			name: "unresolved",
			src:  "components:\n  schemas:\n    A:\n      $ref: '#/components/schemas/Missing'\n",
			want: errors.ErrUnresolvedRef,
		},
		{
			name: "external url",
			src:  "components:\n  schemas:\n    A:\n      $ref: 'https://example.com/spec.yaml#/components/schemas/Pet'\n",
			want: errors.ErrExternalRef,
		},
		{
			name: "external file",
			src:  "components:\n  schemas:\n    A:\n      $ref: 'other.yaml#/components/schemas/Pet'\n",
			want: errors.ErrExternalRef,
		},
		{
			name: "malformed pointer",
			src:  "components:\n  schemas:\n    A:\n      $ref: '#/definitions/Pet'\n",
			want: errors.ErrMalformedRef,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustLoad(t, tt.src)
			err := Resolve(doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var refErr *errors.RefError
			require.ErrorAs(t, err, &refErr)
			assert.NotEmpty(t, refErr.Pointer)
		})
	}
}

func TestResolveParameterRef(t *testing.T) {
	doc := mustLoad(t, `
paths:
  /pets:
    get:
      parameters:
        - $ref: '#/components/parameters/Limit'
components:
  parameters:
    Limit:
      name: limit
      in: query
      schema:
        type: integer
`)
	require.NoError(t, Resolve(doc))

	get := loader.Get(loader.Get(loader.Get(doc.Root, "paths"), "/pets"), "get")
	first := loader.Items(loader.Get(get, "parameters"))[0]
	assert.Equal(t, "limit", loader.StrAt(first, "name"))
	assert.Equal(t, "query", loader.StrAt(first, "in"))
	// Parameter clones carry no schema-origin marker.
	_, ok := Origin(first)
	assert.False(t, ok)
}
