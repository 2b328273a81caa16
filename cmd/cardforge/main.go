package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jmhart/cardforge/internal/config"
	"github.com/jmhart/cardforge/internal/gen"
	"github.com/jmhart/cardforge/internal/index"
	"github.com/jmhart/cardforge/internal/mcp"
	"github.com/jmhart/cardforge/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// env bundles the dependencies shared by every command.
type env struct {
	store *store.Store
	index *index.Index
	orch  *gen.Orchestrator
	cfg   *config.Config
}

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"serve": true, "generate": true, "regen": true,
	"list": true, "preview": true, "validate": true,
	"delete": true, "search": true, "reindex": true,
	"export": true, "import": true,
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
                      _  __
   ___ __ _ _ __ __| |/ _| ___  _ __ __ _  ___
  / __/ _' | '__/ _' | |_ / _ \| '__/ _' |/ _ \
 | (_| (_| | | | (_| |  _| (_) | | | (_| |  __/
  \___\__,_|_|  \__,_|_|  \___/|_|  \__, |\___|
                                    |___/
  Flashcard deck manager with AI generation

  Usage: cardforge <command> [options]
         cardforge --help

  MCP server mode requires piped input.`)
}

// newCompleter builds the Gemini-backed completer, or a stub that fails at
// call time when no API key is configured so read-only commands still work.
func newCompleter(ctx context.Context, cfg *config.Config) gen.Completer {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return gen.CompleterFunc(func(context.Context, string) (string, error) {
			return "", fmt.Errorf("missing Gemini API key (set GEMINI_API_KEY)")
		})
	}
	completer, err := gen.NewGeminiCompleter(ctx, apiKey, cfg.GeminiModel)
	if err != nil {
		log.Printf("warning: Gemini client unavailable: %v", err)
		return gen.CompleterFunc(func(context.Context, string) (string, error) {
			return "", err
		})
	}
	return completer
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before any setup (none needed)
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

	baseDir := filepath.Join(homeDir, ".cardforge")
	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to create base directory: %v\n", err)
		os.Exit(1)
	}

	idx, err := index.Open(filepath.Join(baseDir, "index.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open search index: %v\n", err)
		os.Exit(1)
	}
	defer idx.Close()

	e := &env{
		store: store.New(cfg.DecksDir),
		index: idx,
		cfg:   cfg,
	}
	e.orch = gen.New(newCompleter(context.Background(), cfg), cfg.GeminiModel)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(e)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'cardforge --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default): refresh the derived index first.
	if decks, err := e.store.All(); err == nil {
		if err := e.index.Rebuild(decks); err != nil {
			log.Printf("warning: failed to rebuild search index: %v", err)
		}
	}
	if err := mcp.Run(e.store, e.index, e.orch, e.cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
