package cli

const usageText = `oag generates client and server code from OpenAPI 3.x specifications.

Targets:

  - node-client       dependency-free TypeScript HTTP client
  - react-swr-client  React hooks layered on the TypeScript client
  - fastapi-server    Python FastAPI server skeleton

Usage:

    oag <command> [OPTIONS]

Commands:

    generate      Run every configured generator and write the file trees
    validate      Parse, resolve, and type-check the spec without emitting
    inspect       Dump the intermediate representation to stdout
    init          Write a default config file
    completions   Print a shell completion script (bash, zsh, fish)
    version       Print the version

Options:

    -i, --input PATH    OpenAPI document (overrides the config file)
    -c, --config PATH   Config file (default: discovered .urmzd.oag.yaml)
    --watch             generate only: re-run when the spec or config changes
    --format FORMAT     inspect only: yaml (default) or json

Configuration is read from .urmzd.oag.yaml in the working directory.
`

const defaultConfigFile = `input: openapi.yaml
naming:
  strategy: use_operation_id
generators:
  node-client:
    output: generated/typescript
    layout: modular
`
