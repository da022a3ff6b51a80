package cli

// Static completion scripts, keyed by shell name.
var completionScripts = map[string]string{
	"bash": `_oag_completions() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    case "${prev}" in
        oag)
            COMPREPLY=($(compgen -W "generate validate inspect init completions version help" -- "${cur}"))
            return
            ;;
        completions)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "${cur}"))
            return
            ;;
        -i|--input|-c|--config)
            COMPREPLY=($(compgen -f -- "${cur}"))
            return
            ;;
        --format)
            COMPREPLY=($(compgen -W "yaml json" -- "${cur}"))
            return
            ;;
    esac
    COMPREPLY=($(compgen -W "-i --input -c --config --watch --format" -- "${cur}"))
}
complete -F _oag_completions oag
`,
	"zsh": `#compdef oag

_oag() {
    local -a commands
    commands=(
        'generate:Run every configured generator'
        'validate:Parse and type-check the spec'
        'inspect:Dump the intermediate representation'
        'init:Write a default config file'
        'completions:Print a shell completion script'
        'version:Print the version'
        'help:Show usage'
    )
    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi
    _arguments \
        '(-i --input)'{-i,--input}'[OpenAPI document]:file:_files' \
        '(-c --config)'{-c,--config}'[Config file]:file:_files' \
        '--watch[Regenerate on change]' \
        '--format[Dump format]:format:(yaml json)'
}

_oag "$@"
`,
	"fish": `complete -c oag -n "__fish_use_subcommand" -a generate -d "Run every configured generator"
complete -c oag -n "__fish_use_subcommand" -a validate -d "Parse and type-check the spec"
complete -c oag -n "__fish_use_subcommand" -a inspect -d "Dump the intermediate representation"
complete -c oag -n "__fish_use_subcommand" -a init -d "Write a default config file"
complete -c oag -n "__fish_use_subcommand" -a completions -d "Print a shell completion script"
complete -c oag -n "__fish_use_subcommand" -a version -d "Print the version"
complete -c oag -n "__fish_seen_subcommand_from completions" -a "bash zsh fish"
complete -c oag -s i -l input -r -d "OpenAPI document"
complete -c oag -s c -l config -r -d "Config file"
complete -c oag -l watch -d "Regenerate on change"
complete -c oag -l format -x -a "yaml json" -d "Dump format"
`,
}
