// Package loader reads OpenAPI documents into ordered node trees.
//
// Both YAML and JSON inputs are parsed through yaml.v3, whose node
// representation preserves mapping order and source positions — the two
// properties the rest of the pipeline depends on.
package loader

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/urmzd/oag/pkg/errors"
)

// Format is the input encoding hint handed to Load.
type Format string

const (
	// FormatUnknown lets Load sniff the encoding from the first byte.
	FormatUnknown Format = ""
	// FormatYAML indicates a YAML document.
	FormatYAML Format = "yaml"
	// FormatJSON indicates a JSON document.
	FormatJSON Format = "json"
)

// Document is a parsed specification document.
type Document struct {
	// Root is the top-level mapping node.
	Root *yaml.Node
	// Format is the encoding the document was read as.
	Format Format
}

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

// Load parses raw specification bytes into a Document. When the hint is
// FormatUnknown the encoding is sniffed from the first non-whitespace byte.
func Load(data []byte, hint Format) (*Document, error) {
	format := hint
	if format != FormatJSON && format != FormatYAML {
		format = Sniff(data)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, parseError(err)
	}

	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, &errors.ParseError{Line: 1, Message: "empty document"}
		}
		node = node.Content[0]
	}
	if node.Kind == 0 {
		return nil, &errors.ParseError{Line: 1, Message: "empty document"}
	}

	return &Document{Root: node, Format: format}, nil
}

// Sniff detects the encoding from the first non-whitespace byte: '{' or '['
// means JSON, anything else YAML.
func Sniff(data []byte) Format {
	trimmed := bytes.TrimLeftFunc(data, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// parseError converts a yaml.v3 error into a ParseError, recovering the line
// number yaml embeds in its message.
func parseError(err error) error {
	msg := err.Error()
	line := 0
	if m := yamlLineRe.FindStringSubmatch(msg); m != nil {
		line, _ = strconv.Atoi(m[1])
	}
	msg = strings.TrimPrefix(msg, "yaml: ")
	return &errors.ParseError{Line: line, Message: msg}
}
