package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_credstore() {
    local cur prev words cword
    _init_completion || return

    local commands="register login passwd ls list status diff compact keyring help completion"
    local flags="-config -store -backend -v"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    case "$prev" in
        -config|-store)
            _filedir
            return
            ;;
        -backend)
            COMPREPLY=($(compgen -W "file bolt sqlite redis" -- "$cur"))
            return
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=($(compgen -W "$flags" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        login|passwd)
            local users
            users=$(credstore ls 2>/dev/null)
            COMPREPLY=($(compgen -W "$users" -- "$cur"))
            ;;
        diff)
            _filedir
            ;;
        keyring)
            if [[ $cword -eq 2 ]]; then
                COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            else
                local users
                users=$(credstore ls 2>/dev/null)
                COMPREPLY=($(compgen -W "$users" -- "$cur"))
            fi
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _credstore credstore
`

const zshCompletion = `#compdef credstore

_credstore() {
    local -a commands
    commands=(
        'register:Register a new user'
        'login:Verify the password of a user'
        'passwd:Change the password of a user'
        'ls:List registered users'
        'list:List registered users'
        'status:Show credential store status'
        'diff:Compare users with another store'
        'compact:Rewrite the store and reclaim space'
        'keyring:Manage passwords in OS keyring'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    local -a common
    common=(
        '-config[JSON config file]:config file:_files'
        '-store[Credential store path]:store file:_files'
        '-backend[Storage backend]:backend:(file bolt sqlite redis)'
        '-v[Verbose logging]'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'credstore commands' commands
            ;;
        args)
            case "${words[2]}" in
                register)
                    _arguments $common '*:login:'
                    ;;
                login|passwd)
                    _arguments $common '*:login:_credstore_users'
                    ;;
                diff)
                    _arguments $common '*:other store:_files'
                    ;;
                ls|list|status|compact)
                    _arguments $common
                    ;;
                keyring)
                    _arguments $common '1:subcommand:(save delete status)' '2:login:_credstore_users'
                    ;;
                help)
                    _describe -t commands 'credstore commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_credstore_users() {
    local -a users
    users=(${(f)"$(credstore ls 2>/dev/null)"})
    _describe -t users 'users' users
}

_credstore "$@"
`

const fishCompletion = `# credstore fish completions

set -l commands register login passwd ls list status diff compact keyring help completion

complete -c credstore -f

# Commands
complete -c credstore -n "not __fish_seen_subcommand_from $commands" -a register -d 'Register a new user'
complete -c credstore -n "not __fish_seen_subcommand_from $commands" -a login -d 'Verify a password'
complete -c credstore -n "not __fish_seen_subcommand_from $commands" -a passwd -d 'Change a password'
complete -c credstore -n "not __fish_seen_subcommand_from $commands" -a ls -d 'List users'
complete -c credstore -n "not __fish_seen_subcommand_from $commands" -a list -d 'List users'
complete -c credstore -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show store status'
complete -c credstore -n "not __fish_seen_subcommand_from $commands" -a diff -d 'Compare with another store'
complete -c credstore -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact the store'
complete -c credstore -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage passwords in OS keyring'
complete -c credstore -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c credstore -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# common flags
complete -c credstore -n "__fish_seen_subcommand_from $commands" -o config -r -F -d 'JSON config file'
complete -c credstore -n "__fish_seen_subcommand_from $commands" -o store -r -F -d 'Credential store path'
complete -c credstore -n "__fish_seen_subcommand_from $commands" -o backend -x -a "file bolt sqlite redis" -d 'Storage backend'
complete -c credstore -n "__fish_seen_subcommand_from $commands" -o v -d 'Verbose logging'

# users
complete -c credstore -n "__fish_seen_subcommand_from login passwd" -a "(credstore ls 2>/dev/null)"

# other store
complete -c credstore -n "__fish_seen_subcommand_from diff" -F

# keyring subcommands
complete -c credstore -n "__fish_seen_subcommand_from keyring; and not __fish_seen_subcommand_from save delete status" -a "save delete status"
complete -c credstore -n "__fish_seen_subcommand_from keyring; and __fish_seen_subcommand_from save delete status" -a "(credstore ls 2>/dev/null)"

# help completions
complete -c credstore -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c credstore -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
