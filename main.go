package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/credstore/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "register":
		runRegister(ctx, os.Args[2:])
	case "login":
		runLogin(ctx, os.Args[2:])
	case "passwd":
		runPasswd(ctx, os.Args[2:])
	case "ls", "list":
		runLs(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "diff":
		runDiff(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// parseFlags parses the flags shared by every command and checks the
// number of positional arguments.
func parseFlags(name string, args []string, nargs int, usage string) (cmd.Options, []string) {
	var opts cmd.Options
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&opts.ConfigPath, "config", "", "JSON config file")
	fs.StringVar(&opts.StorePath, "store", "", "Credential store path")
	fs.StringVar(&opts.Backend, "backend", "", "Storage backend (file, bolt, sqlite, redis)")
	fs.BoolVar(&opts.Verbose, "v", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if fs.NArg() != nargs {
		fmt.Fprintf(os.Stderr, "Usage: credstore %s\n", usage)
		os.Exit(1)
	}
	return opts, fs.Args()
}

func runRegister(ctx context.Context, args []string) {
	opts, rest := parseFlags("register", args, 1, "register [flags] <login>")
	cmd.Register(ctx, cmd.LoadConfigOrExit(opts), rest[0])
}

func runLogin(ctx context.Context, args []string) {
	opts, rest := parseFlags("login", args, 1, "login [flags] <login>")
	cmd.Login(ctx, cmd.LoadConfigOrExit(opts), rest[0])
}

func runPasswd(ctx context.Context, args []string) {
	opts, rest := parseFlags("passwd", args, 1, "passwd [flags] <login>")
	cmd.Passwd(ctx, cmd.LoadConfigOrExit(opts), rest[0])
}

func runLs(ctx context.Context, args []string) {
	opts, _ := parseFlags("ls", args, 0, "ls [flags]")
	cmd.Ls(ctx, cmd.LoadConfigOrExit(opts))
}

func runStatus(ctx context.Context, args []string) {
	opts, _ := parseFlags("status", args, 0, "status [flags]")
	cmd.Status(ctx, cmd.LoadConfigOrExit(opts))
}

func runDiff(ctx context.Context, args []string) {
	opts, rest := parseFlags("diff", args, 1, "diff [flags] <other-store>")
	cmd.Diff(ctx, cmd.LoadConfigOrExit(opts), rest[0])
}

func runCompact(ctx context.Context, args []string) {
	opts, _ := parseFlags("compact", args, 0, "compact [flags]")
	cmd.Compact(ctx, cmd.LoadConfigOrExit(opts))
}

func runKeyring(ctx context.Context, args []string) {
	const usage = "keyring <save|delete|status> [flags] <login>"
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: credstore %s\n", usage)
		os.Exit(1)
	}

	sub := args[0]
	opts, rest := parseFlags("keyring "+sub, args[1:], 1, usage)
	cfg := cmd.LoadConfigOrExit(opts)

	switch sub {
	case "save":
		cmd.KeyringSave(ctx, cfg, rest[0])
	case "delete":
		cmd.KeyringDelete(cfg, rest[0])
	case "status":
		cmd.KeyringStatus(cfg, rest[0])
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", sub)
		fmt.Fprintf(os.Stderr, "Usage: credstore %s\n", usage)
		os.Exit(1)
	}
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: credstore completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("credstore - scrypt password credential store")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  credstore <command> [flags] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register    Register a new user")
	fmt.Println("  login       Verify the password of a user")
	fmt.Println("  passwd      Change the password of a user")
	fmt.Println("  ls, list    List registered users")
	fmt.Println("  status      Show credential store status")
	fmt.Println("  diff        Compare users with another store")
	fmt.Println("  compact     Rewrite the store and reclaim space")
	fmt.Println("  keyring     Manage passwords in OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Flags (all commands):")
	fmt.Println("  -config <file>    JSON config file (default $CREDSTORE_CONFIG)")
	fmt.Println("  -store <path>     Credential store path (default ./app_users)")
	fmt.Println("  -backend <name>   Storage backend: file, bolt, sqlite, redis (default file)")
	fmt.Println("  -v                Verbose logging to stderr")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  credstore register alice            # Add user alice")
	fmt.Println("  credstore login alice               # Check alice's password")
	fmt.Println("  credstore status -backend bolt      # Status of a bbolt store")
	fmt.Println()
	fmt.Println("Use 'credstore help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "register":
		fmt.Println("credstore register [flags] <login>")
		fmt.Println()
		fmt.Println("Registers a new user. Prompts for the password twice,")
		fmt.Println("or reads it from CREDSTORE_PASSWORD.")
		fmt.Println("Logins must not contain ':' or control characters.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  credstore register alice")
		fmt.Println("  CREDSTORE_PASSWORD=s3cret credstore register bob")
	case "login":
		fmt.Println("credstore login [flags] <login>")
		fmt.Println()
		fmt.Println("Verifies the password of a user. The password is taken from")
		fmt.Println("CREDSTORE_PASSWORD, then the OS keyring, then a prompt.")
		fmt.Println("Exits with status 1 when the password is wrong.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  credstore login alice")
	case "passwd":
		fmt.Println("credstore passwd [flags] <login>")
		fmt.Println()
		fmt.Println("Changes the password of a user.")
		fmt.Println("Requires the current password; the new one is prompted twice")
		fmt.Println("or read from CREDSTORE_NEW_PASSWORD.")
		fmt.Println("Upgrades the credential to the configured scrypt parameters.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  credstore passwd alice")
	case "ls", "list":
		fmt.Println("credstore ls [flags]")
		fmt.Println()
		fmt.Println("Lists registered users in registration order.")
		fmt.Println("Does not require a password.")
	case "status":
		fmt.Println("credstore status [flags]")
		fmt.Println()
		fmt.Println("Shows credential store status including:")
		fmt.Println("  - Backend, location and size")
		fmt.Println("  - Scrypt parameters for new credentials")
		fmt.Println("  - User count and credentials with outdated parameters")
		fmt.Println("  - Git integration warnings for file based stores")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "diff":
		fmt.Println("credstore diff [flags] <other-store>")
		fmt.Println()
		fmt.Println("Compares users with another store of the same backend")
		fmt.Println("(a file path, or a list key for redis).")
		fmt.Println("Password hashes are never printed.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  credstore diff app_users.bak")
	case "compact":
		fmt.Println("credstore compact [flags]")
		fmt.Println()
		fmt.Println("Rewrites the store without duplicate or blank lines and")
		fmt.Println("reclaims unused space where the backend supports it.")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "keyring":
		fmt.Println("credstore keyring <save|delete|status> [flags] <login>")
		fmt.Println()
		fmt.Println("Manages passwords cached in the OS keyring.")
		fmt.Println("  save     Verify and store the password of login")
		fmt.Println("  delete   Remove the stored password")
		fmt.Println("  status   Show whether a password is stored")
	case "completion":
		fmt.Println("credstore completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(credstore completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(credstore completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  credstore completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
