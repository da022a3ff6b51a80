package fastapi

import (
	"fmt"
	"strings"

	"github.com/urmzd/oag/pkg/config"
	"github.com/urmzd/oag/pkg/ir"
	"github.com/urmzd/oag/pkg/naming"
)

// pyproject renders the package manifest.
func pyproject(spec *ir.Spec, cfg config.GeneratorConfig) string {
	name := cfg.Scaffold.PackageName
	if name == "" {
		n := naming.New(spec.Info.Title)
		if n.IsZero() {
			name = "api-server"
		} else {
			name = strings.ReplaceAll(n.Snake, "_", "-")
		}
	}
	version := spec.Info.Version
	if version == "" {
		version = "0.0.0"
	}

	var sb strings.Builder
	sb.WriteString("[project]\n")
	fmt.Fprintf(&sb, "name = %q\n", name)
	fmt.Fprintf(&sb, "version = %q\n", version)
	if spec.Info.Description != "" {
		fmt.Fprintf(&sb, "description = %q\n", firstLine(spec.Info.Description))
	}
	sb.WriteString("requires-python = \">=3.11\"\n")
	sb.WriteString("dependencies = [\n")
	sb.WriteString("    \"fastapi>=0.115\",\n")
	sb.WriteString("    \"pydantic>=2.9\",\n")
	sb.WriteString("    \"uvicorn>=0.32\",\n")
	sb.WriteString("]\n")
	if cfg.Scaffold.Repository != "" {
		sb.WriteString("\n[project.urls]\n")
		fmt.Fprintf(&sb, "Repository = %q\n", cfg.Scaffold.Repository)
	}
	return sb.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
