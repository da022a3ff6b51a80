package config

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/urmzd/oag/pkg/errors"
)

// legacyConfig is the deprecated flat shape: a single target with one output
// directory.
type legacyConfig struct {
	Target        string              `yaml:"target"`
	Input         string              `yaml:"input"`
	Output        string              `yaml:"output"`
	OutputOptions legacyOutputOptions `yaml:"output_options"`
	Client        legacyClient        `yaml:"client"`
}

type legacyOutputOptions struct {
	Biome  bool `yaml:"biome"`
	Tsdown bool `yaml:"tsdown"`
}

type legacyClient struct {
	BaseURL string `yaml:"base_url"`
	NoJSDoc bool   `yaml:"no_jsdoc"`
}

// coerceLegacy maps the legacy shape onto the modern generator map:
// target=typescript becomes a node-client generator, target=react a
// react-swr-client one, and target=all both with suffixed outputs.
func coerceLegacy(root *yaml.Node) (*Config, error) {
	var lc legacyConfig
	if err := root.Decode(&lc); err != nil {
		return nil, &errors.ConfigError{Message: err.Error()}
	}

	cfg := &Config{Input: lc.Input}
	if cfg.Input == "" {
		cfg.Input = DefaultInput
	}

	base := GeneratorConfig{
		BaseURL: lc.Client.BaseURL,
		NoJSDoc: lc.Client.NoJSDoc,
		Scaffold: Scaffold{
			Biome:  lc.OutputOptions.Biome,
			Tsdown: lc.OutputOptions.Tsdown,
		},
	}
	applyDefaults(&base)

	entry := func(id, output string) GeneratorEntry {
		gc := base
		gc.Output = output
		return GeneratorEntry{ID: id, GeneratorConfig: gc}
	}

	switch lc.Target {
	case "typescript":
		cfg.Generators = append(cfg.Generators, entry("node-client", lc.Output))
	case "react":
		cfg.Generators = append(cfg.Generators, entry("react-swr-client", lc.Output))
	case "all":
		out := strings.TrimSuffix(lc.Output, "/")
		cfg.Generators = append(cfg.Generators,
			entry("node-client", out+"/typescript"),
			entry("react-swr-client", out+"/react"),
		)
	default:
		return nil, &errors.ConfigError{Field: "target", Message: "must be typescript, react, or all"}
	}
	return cfg, nil
}
