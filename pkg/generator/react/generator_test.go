package react

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/oag/pkg/config"
	"github.com/urmzd/oag/pkg/errors"
	"github.com/urmzd/oag/pkg/generator"
	"github.com/urmzd/oag/pkg/ir"
	"github.com/urmzd/oag/pkg/naming"
)

func fixtureSpec() *ir.Spec {
	spec := ir.NewSpec()
	spec.Info = ir.Info{Title: "Petstore", Version: "1.0.0"}

	spec.Schemas.Add(ir.Object{
		SchemaName: naming.New("Pet"),
		Fields: []ir.Field{
			{Raw: "id", Name: naming.New("id"), Type: ir.Primitive{Kind: ir.KindInteger, Bits: 64}, Required: true},
			{Raw: "name", Name: naming.New("name"), Type: ir.Primitive{Kind: ir.KindString}, Required: true},
		},
	})
	spec.Schemas.Add(ir.Object{
		SchemaName: naming.New("ChatEvent"),
		Fields:     []ir.Field{{Raw: "text", Name: naming.New("text"), Type: ir.Primitive{Kind: ir.KindString}}},
	})

	spec.Operations.Add(&ir.Operation{
		ID:     naming.New("showPetById"),
		Method: ir.MethodGet,
		Path:   "/pets/{petId}",
		Params: []ir.Param{{
			Location: ir.InPath, Raw: "petId", Name: naming.New("petId"),
			Type: ir.Primitive{Kind: ir.KindInteger, Bits: 64}, Required: true,
		}},
		Returns: ir.Returns{Success: ir.Ref{Name: naming.New("Pet")}},
	})
	spec.Operations.Add(&ir.Operation{
		ID:      naming.New("createPet"),
		Method:  ir.MethodPost,
		Path:    "/pets",
		Body:    &ir.Body{Type: ir.Ref{Name: naming.New("Pet")}, ContentType: "application/json", Required: true},
		Returns: ir.Returns{Success: ir.Ref{Name: naming.New("Pet")}},
	})
	spec.Operations.Add(&ir.Operation{
		ID:      naming.New("streamChat"),
		Method:  ir.MethodGet,
		Path:    "/chat/stream",
		Returns: ir.Returns{Success: ir.Ref{Name: naming.New("ChatEvent")}, Streaming: true},
	})

	spec.Modules = []ir.Module{
		{Name: naming.New("Default"), Operations: []naming.Name{
			naming.New("showPetById"), naming.New("createPet"), naming.New("streamChat"),
		}},
	}
	return spec
}

func modularCfg() config.GeneratorConfig {
	return config.GeneratorConfig{Output: "out", Layout: config.LayoutModular, SourceDir: "src"}
}

func fileByPath(t *testing.T, files []generator.File, path string) string {
	t.Helper()
	for _, f := range files {
		if f.Path == path {
			return string(f.Contents)
		}
	}
	t.Fatalf("no file %q in output", path)
	return ""
}

// The React generator composes the TypeScript one: its output contains the
// client files plus the hooks and provider units.
func TestGenerateComposesClient(t *testing.T) {
	files, err := New().Generate(fixtureSpec(), modularCfg())
	require.NoError(t, err)

	assert.Contains(t, fileByPath(t, files, "src/types.ts"), "export interface Pet {")
	assert.Contains(t, fileByPath(t, files, "src/client.ts"), "export class ApiClient")

	hooks := fileByPath(t, files, "src/hooks.ts")
	assert.Contains(t, hooks, "export function useShowPetById(petId: number): QueryState<Pet> {")
	assert.Contains(t, hooks, "export function useCreatePet(): MutationState<Pet, [body: Pet]> {")
	assert.Contains(t, hooks, "export function useStreamChat(): StreamState<ChatEvent> {")
	assert.Contains(t, hooks, "import { useApiClient } from \"./provider\";")

	provider := fileByPath(t, files, "src/provider.tsx")
	assert.Contains(t, provider, "export function ApiProvider(")
	assert.Contains(t, provider, "export function useApiClient(): ApiClient {")

	index := fileByPath(t, files, "src/index.ts")
	assert.Contains(t, index, "export * from \"./hooks\";")
	assert.Contains(t, index, "export * from \"./provider\";")
}

func TestGenerateRejectsOtherLayouts(t *testing.T) {
	cfg := modularCfg()
	cfg.Layout = config.LayoutBundled
	_, err := New().Generate(fixtureSpec(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnsupportedLayout)
}

func TestGenerateDeterministic(t *testing.T) {
	spec := fixtureSpec()
	first, err := New().Generate(spec, modularCfg())
	require.NoError(t, err)
	second, err := New().Generate(spec, modularCfg())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
