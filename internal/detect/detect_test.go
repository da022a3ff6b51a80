package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/urmzd/oag/pkg/loader"
)

func TestFromPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
		want loader.Format
	}{
		{"yaml extension", "openapi.yaml", "{}", loader.FormatYAML},
		{"yml extension", "spec.yml", "{}", loader.FormatYAML},
		{"json extension", "openapi.json", "openapi: 3.0.0", loader.FormatJSON},
		{"no extension, json body", "spec", `{"openapi":"3.0.0"}`, loader.FormatJSON},
		{"no extension, array body", "spec", "  [1]", loader.FormatJSON},
		{"no extension, yaml body", "spec", "openapi: 3.0.0", loader.FormatYAML},
		{"uppercase extension", "SPEC.YAML", "{}", loader.FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromPath(tt.path, []byte(tt.data)))
		})
	}
}
