// Package main provides the command-line interface for generating TypeScript,
// React, and FastAPI code from OpenAPI 3.x specifications.
package main

import (
	"os"
	"runtime/debug"
	"strings"

	"github.com/urmzd/oag/internal/cli"
)

// version is set by GoReleaser at build time via -ldflags
var version = "dev"

func main() {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.Main.Version != "" && info.Main.Version != "(devel)" {
				version = strings.TrimPrefix(info.Main.Version, "v")
			}
		}
	}
	os.Exit(cli.Run(version))
}
