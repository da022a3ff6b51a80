// Package detect provides input encoding detection for specification files.
package detect

import (
	"path/filepath"
	"strings"

	"github.com/urmzd/oag/pkg/loader"
)

// FromPath derives the encoding hint from a file extension. Paths without a
// recognised extension fall back to sniffing the content.
func FromPath(path string, data []byte) loader.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loader.FormatYAML
	case ".json":
		return loader.FormatJSON
	default:
		return loader.Sniff(data)
	}
}
