package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/mailtag/internal/config"
	"github.com/hpungsan/mailtag/internal/dataset"
	"github.com/hpungsan/mailtag/internal/logger"
	"github.com/hpungsan/mailtag/internal/mcp"
	"github.com/hpungsan/mailtag/internal/ops"
	"github.com/hpungsan/mailtag/internal/taxonomy"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"classify": true, "sample": true, "emails": true,
	"customers": true, "tags": true,
	"patterns": true, "antipatterns": true,
	"metrics": true, "web": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
                 _ _ _
   _ __  __ _(_) | |_ __ _  __ _
  | '  \/ _' | | |  _/ _' |/ _' |
  |_|_|_\__,_|_|_|\__\__,_|\__, |
                           |___/

  Customer-isolated email tagging

  Usage: mailtag <command> [options]
         mailtag --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before building the environment
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine working directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadWithRepo(filepath.Join(homeDir, ".mailtag"), cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries MCP traffic and CLI output, so logs go to stderr
	log := logger.New(cfg.LogLevel, os.Stderr)

	ds := dataset.New()
	if err := ds.Validate(taxonomy.NewCatalog()); err != nil {
		log.Error("dataset failed isolation check", "error", err)
		os.Exit(1)
	}

	env, err := ops.NewEnv(context.Background(), cfg, ops.EnvOptions{Dataset: ds, Log: log})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(env)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'mailtag --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(env, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
