package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oagerrors "github.com/urmzd/oag/pkg/errors"
)

func TestLoadYAML(t *testing.T) {
	doc, err := Load([]byte("openapi: 3.0.0\ninfo:\n  title: Sample\n  version: 1.0.0\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, doc.Format)
	assert.Equal(t, "3.0.0", StrAt(doc.Root, "openapi"))
	assert.Equal(t, "Sample", StrAt(Get(doc.Root, "info"), "title"))
}

func TestLoadJSON(t *testing.T) {
	doc, err := Load([]byte(`{"openapi": "3.1.0", "info": {"title": "Sample", "version": "2"}}`), FormatUnknown)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, doc.Format)
	assert.Equal(t, "3.1.0", StrAt(doc.Root, "openapi"))
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load([]byte("openapi: 3.0.0\npaths: [unclosed\n"), FormatYAML)
	require.Error(t, err)
	assert.ErrorIs(t, err, oagerrors.ErrParse)

	var parseErr *oagerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Greater(t, parseErr.Line, 0)
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(nil, FormatYAML)
	assert.ErrorIs(t, err, oagerrors.ErrParse)
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"object", `{"a": 1}`, FormatJSON},
		{"array", "  [1, 2]", FormatJSON},
		{"yaml", "a: 1", FormatYAML},
		{"empty", "", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sniff([]byte(tt.data)))
		})
	}
}

// Mapping entries come back in source order, which the IR treats as canonical.
func TestEntriesOrder(t *testing.T) {
	doc, err := Load([]byte("zebra: 1\napple: 2\nmango: 3\n"), FormatYAML)
	require.NoError(t, err)

	entries := Entries(doc.Root)
	require.Len(t, entries, 3)
	assert.Equal(t, "zebra", entries[0].Key)
	assert.Equal(t, "apple", entries[1].Key)
	assert.Equal(t, "mango", entries[2].Key)
}

func TestScalarDecoding(t *testing.T) {
	doc, err := Load([]byte("count: 42\nratio: 1.5\nok: true\nname: pet\n"), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, 42, Scalar(Get(doc.Root, "count")))
	assert.Equal(t, 1.5, Scalar(Get(doc.Root, "ratio")))
	assert.Equal(t, true, Scalar(Get(doc.Root, "ok")))
	assert.Equal(t, "pet", Scalar(Get(doc.Root, "name")))
	assert.True(t, BoolAt(doc.Root, "ok"))
}

func TestClone(t *testing.T) {
	doc, err := Load([]byte("a:\n  b: [1, 2]\n"), FormatYAML)
	require.NoError(t, err)

	clone := Clone(doc.Root)
	// Mutating the clone must not affect the original.
	clone.Content[1].Content[1].Content[0].Value = "99"
	assert.Equal(t, "1", Items(Get(Get(doc.Root, "a"), "b"))[0].Value)
}
