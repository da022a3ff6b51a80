// Package config models the tool configuration: the modern generator map, the
// legacy flat shape it coerces from, defaults, and discovery.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/urmzd/oag/pkg/errors"
	"github.com/urmzd/oag/pkg/loader"
)

// FileName is the config file discovered in the working directory.
const FileName = ".urmzd.oag.yaml"

// DefaultInput is the spec path used when the config names none.
const DefaultInput = "openapi.yaml"

// Layout selects how a generator arranges its output units.
type Layout string

const (
	// LayoutBundled emits one unit holding everything.
	LayoutBundled Layout = "bundled"
	// LayoutModular emits one unit per concern.
	LayoutModular Layout = "modular"
	// LayoutSplit emits one unit per operation group.
	LayoutSplit Layout = "split"
)

// SplitBy is the grouping key for the split layout.
type SplitBy string

const (
	SplitByOperation SplitBy = "operation"
	SplitByTag       SplitBy = "tag"
	SplitByRoute     SplitBy = "route"
)

// Config is the parsed tool configuration.
type Config struct {
	Input      string
	Naming     Naming
	Generators []GeneratorEntry
}

// Naming configures operation id derivation.
type Naming struct {
	Strategy string            `yaml:"strategy"`
	Aliases  map[string]string `yaml:"aliases"`
}

// GeneratorEntry pairs a generator id with its configuration, in document
// order.
type GeneratorEntry struct {
	ID string
	GeneratorConfig
}

// GeneratorConfig is the per-generator configuration.
type GeneratorConfig struct {
	Output    string   `yaml:"output"`
	Layout    Layout   `yaml:"layout"`
	SplitBy   SplitBy  `yaml:"split_by"`
	SourceDir string   `yaml:"source_dir"`
	BaseURL   string   `yaml:"base_url"`
	NoJSDoc   bool     `yaml:"no_jsdoc"`
	Scaffold  Scaffold `yaml:"scaffold"`
}

// Scaffold toggles project-level files around the generated sources.
type Scaffold struct {
	PackageName  string `yaml:"package_name"`
	Repository   string `yaml:"repository"`
	Biome        bool   `yaml:"biome"`
	Tsdown       bool   `yaml:"tsdown"`
	Tests        bool   `yaml:"tests"`
	Formatter    bool   `yaml:"formatter"`
	Bundler      bool   `yaml:"bundler"`
	TestRunner   bool   `yaml:"test_runner"`
	ExistingRepo bool   `yaml:"existing_repo"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{Input: DefaultInput}
}

// Discover returns the path of the config file in dir, or "" when absent.
func Discover(dir string) string {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

var modernKeys = map[string]bool{"input": true, "naming": true, "generators": true}
var legacyKeys = map[string]bool{"target": true, "output": true, "output_options": true, "client": true}

var generatorKeys = map[string]bool{
	"output": true, "layout": true, "split_by": true, "source_dir": true,
	"base_url": true, "no_jsdoc": true, "scaffold": true,
}

var scaffoldKeys = map[string]bool{
	"package_name": true, "repository": true, "biome": true, "tsdown": true,
	"tests": true, "formatter": true, "bundler": true, "test_runner": true,
	"existing_repo": true,
}

// Parse reads a configuration document. Unknown keys under a generator entry
// are returned as warnings; unknown top-level keys are a hard error. The
// legacy flat shape is coerced into the modern one.
func Parse(data []byte) (*Config, []string, error) {
	if len(data) == 0 {
		return Default(), nil, nil
	}

	doc, err := loader.Load(data, loader.FormatYAML)
	if err != nil {
		return nil, nil, &errors.ConfigError{Message: err.Error()}
	}
	root := doc.Root

	legacy, modern := false, false
	for _, e := range loader.Entries(root) {
		switch {
		case e.Key == "input":
		case legacyKeys[e.Key]:
			legacy = true
		case modernKeys[e.Key]:
			modern = true
		}
	}
	if legacy && modern {
		return nil, nil, &errors.ConfigError{Message: "legacy and modern fields cannot be mixed"}
	}
	if legacy {
		for _, e := range loader.Entries(root) {
			if e.Key != "input" && !legacyKeys[e.Key] {
				return nil, nil, &errors.ConfigError{Field: e.Key, Message: "unknown key"}
			}
		}
		cfg, err := coerceLegacy(root)
		return cfg, nil, err
	}

	for _, e := range loader.Entries(root) {
		if !modernKeys[e.Key] {
			return nil, nil, &errors.ConfigError{Field: e.Key, Message: "unknown key"}
		}
	}
	if err := validateShape(data); err != nil {
		return nil, nil, err
	}

	cfg := &Config{Input: loader.StrAt(root, "input")}
	if cfg.Input == "" {
		cfg.Input = DefaultInput
	}
	if n := loader.Get(root, "naming"); n != nil {
		if err := n.Decode(&cfg.Naming); err != nil {
			return nil, nil, &errors.ConfigError{Field: "naming", Message: err.Error()}
		}
	}

	var warnings []string
	for _, e := range loader.Entries(loader.Get(root, "generators")) {
		var gc GeneratorConfig
		if err := e.Value.Decode(&gc); err != nil {
			return nil, nil, &errors.ConfigError{Field: "generators." + e.Key, Message: err.Error()}
		}
		warnings = append(warnings, unknownKeyWarnings(e.Key, e.Value)...)
		applyDefaults(&gc)
		cfg.Generators = append(cfg.Generators, GeneratorEntry{ID: e.Key, GeneratorConfig: gc})
	}
	return cfg, warnings, nil
}

func applyDefaults(gc *GeneratorConfig) {
	if gc.SourceDir == "" {
		gc.SourceDir = "src"
	}
	if gc.Layout == "" {
		gc.Layout = LayoutModular
	}
	if gc.Layout == LayoutSplit && gc.SplitBy == "" {
		gc.SplitBy = SplitByTag
	}
}

// unknownKeyWarnings collects warnings for unrecognised keys under a
// generator entry (including its scaffold block).
func unknownKeyWarnings(id string, node *yaml.Node) []string {
	var warnings []string
	for _, e := range loader.Entries(node) {
		if !generatorKeys[e.Key] {
			warnings = append(warnings, fmt.Sprintf("generators.%s: unknown key %q", id, e.Key))
			continue
		}
		if e.Key == "scaffold" {
			for _, se := range loader.Entries(e.Value) {
				if !scaffoldKeys[se.Key] {
					warnings = append(warnings, fmt.Sprintf("generators.%s.scaffold: unknown key %q", id, se.Key))
				}
			}
		}
	}
	return warnings
}
