package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/jmhart/cardforge/internal/errors"
	"github.com/jmhart/cardforge/internal/ops"
	"github.com/jmhart/cardforge/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(e *env) *cli.App {
	app := &cli.App{
		Name:    "cardforge",
		Usage:   "Flashcard deck manager with AI generation",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(e),
			generateCmd(e),
			regenCmd(e),
			listCmd(e),
			previewCmd(e),
			validateCmd(e),
			deleteCmd(e),
			searchCmd(e),
			reindexCmd(e),
			exportCmd(e),
			importCmd(e),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Override the configured port"},
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Override the configured bind address"},
		},
		Action: func(c *cli.Context) error {
			cfg := *e.cfg
			if c.IsSet("port") {
				cfg.Port = c.Int("port")
			}
			if c.IsSet("bind") {
				cfg.Bind = c.String("bind")
			}

			if decks, err := e.store.All(); err == nil {
				if err := e.index.Rebuild(decks); err != nil {
					log.Printf("warning: failed to rebuild search index: %v", err)
				}
			}

			return web.Run(web.NewServer(e.store, e.index, e.orch, &cfg))
		},
	}
}

// generateCmd creates the generate command.
func generateCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Generate a new deck from a description",
		ArgsUsage: "<description>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "cards", Aliases: []string{"c"}, Usage: "Number of cards to request"},
		},
		Action: func(c *cli.Context) error {
			description := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if description == "" {
				return outputError(errors.NewInvalidRequest("description is required"))
			}

			input := ops.GenerateInput{
				Description: description,
				CardCount:   c.Int("cards"),
			}

			output, err := ops.Generate(context.Background(), e.store, e.index, e.orch, e.cfg.DefaultCardCount, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// regenCmd creates the regen command.
func regenCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "regen",
		Usage:     "Regenerate an existing deck's cards from a new description",
		ArgsUsage: "<id> <description>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: regen <id> <description>"))
			}

			input := ops.RegenerateInput{
				ID:          c.Args().First(),
				Description: strings.TrimSpace(strings.Join(c.Args().Slice()[1:], " ")),
			}

			output, err := ops.Regenerate(context.Background(), e.store, e.index, e.orch, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all decks",
		Action: func(c *cli.Context) error {
			output, err := ops.List(e.store)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// previewCmd creates the preview command.
func previewCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Show a deck in full, including every card",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("deck id is required"))
			}

			output, err := ops.Get(e.store, ops.GetInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// validateCmd creates the validate command.
func validateCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a deck file, stored deck, or piped JSON without persisting",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "Validate a stored deck by id"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ValidateInput{ID: c.String("id")}

			if c.NArg() > 0 {
				input.Path = c.Args().First()
			} else if input.ID == "" {
				if !stdinHasData() {
					return outputError(errors.NewInvalidRequest("pass a path, --id, or pipe deck JSON via stdin"))
				}
				raw, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				input.JSON = raw
			}

			output, err := ops.Validate(e.store, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a deck (built-in decks are protected)",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("deck id is required"))
			}

			output, err := ops.Delete(e.store, e.index, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Full-text search over card fronts and backs",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum hits to return"},
		},
		Action: func(c *cli.Context) error {
			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))

			output, err := ops.Search(e.index, ops.SearchInput{
				Query: query,
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// reindexCmd creates the reindex command.
func reindexCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "reindex",
		Usage: "Rebuild the search index from the deck files",
		Action: func(c *cli.Context) error {
			decks, err := e.store.All()
			if err != nil {
				return outputError(err)
			}
			if err := e.index.Rebuild(decks); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"indexed_decks": len(decks)})
		},
	}
}

// exportCmd creates the export command.
func exportCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a deck as a markdown study sheet",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Destination file path (default <id>.md)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("deck id is required"))
			}

			output, err := ops.Export(e.store, ops.ExportInput{
				ID:   c.Args().First(),
				Path: c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import a markdown study sheet as a new deck",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "Provenance tag (default \"manual\")"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("markdown file path is required"))
			}

			output, err := ops.Import(e.store, e.index, ops.ImportInput{
				Path:   c.Args().First(),
				Source: c.String("source"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if dErr, ok := err.(*errors.DeckError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", dErr.Code, dErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
