package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/oag/pkg/compiler"
	"github.com/urmzd/oag/pkg/errors"
	"github.com/urmzd/oag/pkg/generator/fastapi"
	"github.com/urmzd/oag/pkg/generator/react"
	"github.com/urmzd/oag/pkg/generator/typescript"
)

const petstore = `
openapi: 3.0.0
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      required: [id, name]
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
`

func testApp() *App {
	comp := compiler.New()
	comp.Register(typescript.New())
	comp.Register(react.New())
	comp.Register(fastapi.New())
	return NewApp(comp, "test")
}

func TestParseGenerateFlags(t *testing.T) {
	opts, err := parseGenerateFlags([]string{"-i", "spec.yaml", "--watch"})
	require.NoError(t, err)
	assert.Equal(t, "spec.yaml", opts.input)
	assert.True(t, opts.watch)

	_, err = parseGenerateFlags([]string{"positional"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errUsage)
}

func TestParseInspectFlags(t *testing.T) {
	opts, err := parseInspectFlags([]string{"--format", "json"})
	require.NoError(t, err)
	assert.Equal(t, "json", opts.format)

	_, err = parseInspectFlags([]string{"--format", "toml"})
	assert.ErrorIs(t, err, errUsage)
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(&errors.ConfigError{Message: "bad"}))
	assert.Equal(t, 1, ExitCode(&errors.ParseError{Line: 1, Message: "bad"}))
	assert.Equal(t, 1, ExitCode(usageError("bad")))
	assert.Equal(t, 2, ExitCode(assert.AnError))
	assert.Equal(t, 2, ExitCode(&errors.GeneratorError{Kind: errors.ErrEmission, Generator: "x", Message: "boom"}))
}

func TestUnknownCommand(t *testing.T) {
	err := testApp().Run(context.Background(), []string{"frobnicate"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errUsage)
}

func TestGenerateEndToEnd(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "openapi.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte(petstore), 0o644))

	configPath := filepath.Join(dir, "oag.yaml")
	configSrc := "input: " + specPath + "\ngenerators:\n  node-client:\n    output: " + filepath.Join(dir, "out") + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(configSrc), 0o644))

	err := testApp().Run(context.Background(), []string{"generate", "-c", configPath})
	require.NoError(t, err)

	client, err := os.ReadFile(filepath.Join(dir, "out", "src", "client.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(client), "async listPets(): Promise<Pet[]> {")
}

func TestValidateEndToEnd(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "openapi.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte(petstore), 0o644))

	err := testApp().Run(context.Background(), []string{"validate", "-i", specPath})
	require.NoError(t, err)
}

func TestValidateMissingSpec(t *testing.T) {
	err := testApp().Run(context.Background(), []string{"validate", "-i", filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

func TestCompletions(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		assert.NoError(t, testApp().Run(context.Background(), []string{"completions", shell}))
	}
	err := testApp().Run(context.Background(), []string{"completions", "powershell"})
	assert.ErrorIs(t, err, errUsage)
}
