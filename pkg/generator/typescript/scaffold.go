package typescript

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urmzd/oag/pkg/config"
	"github.com/urmzd/oag/pkg/generator"
	"github.com/urmzd/oag/pkg/ir"
	"github.com/urmzd/oag/pkg/naming"
)

const tsconfigUnit = `{
  "compilerOptions": {
    "target": "ES2022",
    "module": "ESNext",
    "moduleResolution": "bundler",
    "lib": ["ES2022", "DOM"],
    "strict": true,
    "declaration": true,
    "skipLibCheck": true,
    "outDir": "dist"
  },
  "include": ["src"]
}
`

const biomeUnit = `{
  "$schema": "https://biomejs.dev/schemas/1.9.4/schema.json",
  "formatter": { "enabled": true, "indentStyle": "space", "indentWidth": 2 },
  "linter": { "enabled": true, "rules": { "recommended": true } }
}
`

const tsdownUnit = `import { defineConfig } from "tsdown";

export default defineConfig({
  entry: ["src/index.ts"],
  format: ["esm", "cjs"],
  dts: true,
});
`

// scaffoldFiles emits the project files around the generated sources. With
// existing_repo set, only a root re-export of the source directory is
// emitted.
func scaffoldFiles(spec *ir.Spec, cfg config.GeneratorConfig) []generator.File {
	if cfg.Scaffold.ExistingRepo {
		return []generator.File{
			generator.Text("index.ts", header+"\nexport * from \"./"+cfg.SourceDir+"\";\n"),
		}
	}

	files := []generator.File{
		generator.Text("package.json", packageJSON(spec, cfg)),
		generator.Text("tsconfig.json", tsconfigUnit),
	}
	if cfg.Scaffold.Biome || cfg.Scaffold.Formatter {
		files = append(files, generator.Text("biome.json", biomeUnit))
	}
	if cfg.Scaffold.Tsdown || cfg.Scaffold.Bundler {
		files = append(files, generator.Text("tsdown.config.ts", tsdownUnit))
	}
	if cfg.Scaffold.Tests || cfg.Scaffold.TestRunner {
		files = append(files, generator.Text(cfg.SourceDir+"/client.test.ts", smokeTest(spec)))
	}
	return files
}

// packageJSON renders the manifest deterministically from the IR and config.
func packageJSON(spec *ir.Spec, cfg config.GeneratorConfig) string {
	name := cfg.Scaffold.PackageName
	if name == "" {
		name = packageName(spec.Info.Title)
	}
	version := spec.Info.Version
	if version == "" {
		version = "0.0.0"
	}

	manifest := map[string]any{
		"name":    name,
		"version": version,
		"type":    "module",
		"main":    "./dist/index.js",
		"types":   "./dist/index.d.ts",
		"files":   []string{"dist"},
	}
	if spec.Info.Description != "" {
		manifest["description"] = spec.Info.Description
	}
	if cfg.Scaffold.Repository != "" {
		manifest["repository"] = cfg.Scaffold.Repository
	}

	scripts := map[string]any{"typecheck": "tsc --noEmit"}
	devDeps := map[string]any{"typescript": "^5.7.0"}
	if cfg.Scaffold.Tsdown || cfg.Scaffold.Bundler {
		scripts["build"] = "tsdown"
		devDeps["tsdown"] = "^0.11.0"
	}
	if cfg.Scaffold.Biome || cfg.Scaffold.Formatter {
		scripts["format"] = "biome format --write ."
		devDeps["@biomejs/biome"] = "^1.9.4"
	}
	if cfg.Scaffold.Tests || cfg.Scaffold.TestRunner {
		scripts["test"] = "vitest run"
		devDeps["vitest"] = "^2.1.0"
	}
	manifest["scripts"] = scripts
	manifest["devDependencies"] = devDeps

	// json.MarshalIndent sorts map keys, keeping the manifest reproducible.
	out, _ := json.MarshalIndent(manifest, "", "  ")
	return string(out) + "\n"
}

func packageName(title string) string {
	n := naming.New(title)
	if n.IsZero() {
		return "api-client"
	}
	return strings.ReplaceAll(n.Snake, "_", "-")
}

// smokeTest emits a minimal vitest suite instantiating the client.
func smokeTest(spec *ir.Spec) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString(`
import { describe, expect, it } from "vitest";
import { ApiClient, ApiError } from "./client";

describe("ApiClient", () => {
  it("constructs with defaults", () => {
    const client = new ApiClient();
    expect(client).toBeInstanceOf(ApiClient);
  });

  it("exposes typed errors", () => {
    const err = new ApiError(404, { message: "missing" });
    expect(err.status).toBe(404);
  });
`)
	if ops := spec.Operations.All(); len(ops) > 0 {
		fmt.Fprintf(&sb, `
  it("exposes %s", () => {
    expect(typeof ApiClient.prototype.%s).toBe("function");
  });
`, ops[0].ID.Camel, ops[0].ID.Camel)
	}
	sb.WriteString("});\n")
	return sb.String()
}
