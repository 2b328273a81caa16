package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var listToolDef = mcp.NewTool("deck_list",
	mcp.WithDescription("List all flashcard decks with id, title, description, source, and card count."),
)

var getToolDef = mcp.NewTool("deck_get",
	mcp.WithDescription("Fetch a full flashcard deck, including every card, by deck id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Deck id (kebab-case, equals the filename stem)")),
)

var generateToolDef = mcp.NewTool("deck_generate",
	mcp.WithDescription("Generate a new flashcard deck from a free-text description using the configured model, validate and repair the output, and persist it."),
	mcp.WithString("description", mcp.Required(), mcp.Description("What the deck should teach (max 120 characters kept)")),
	mcp.WithNumber("card_count", mcp.Description("Number of cards to request (default from config, max 50)")),
)

var regenerateToolDef = mcp.NewTool("deck_regenerate",
	mcp.WithDescription("Regenerate an existing deck's cards from a new description. Deck id, title, description, and provenance are preserved; only cards and prompt are replaced."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Deck id")),
	mcp.WithString("description", mcp.Required(), mcp.Description("New generation description")),
)

var updateToolDef = mcp.NewTool("deck_update",
	mcp.WithDescription("Update a deck's title, description, or cards in place. The merged deck is re-validated; fatal validation errors reject the update."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Deck id")),
	mcp.WithString("title", mcp.Description("New title")),
	mcp.WithString("description", mcp.Description("New description")),
	mcp.WithArray("cards", mcp.Description("Replacement card list; items are objects with front and back"),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"front": map[string]any{"type": "string"},
				"back":  map[string]any{"type": "string"},
			},
			"required": []string{"front", "back"},
		})),
)

var reorderToolDef = mcp.NewTool("deck_reorder",
	mcp.WithDescription("Reorder a deck's cards. card_ids must be a permutation of the current card ids; cards are renumbered c1..cN afterwards."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Deck id")),
	mcp.WithArray("card_ids", mcp.Required(), mcp.Description("Card ids in the desired order"),
		mcp.Items(map[string]any{"type": "string"})),
)

var deleteToolDef = mcp.NewTool("deck_delete",
	mcp.WithDescription("Delete a deck. Built-in decks are protected and refused."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Deck id")),
)

var validateToolDef = mcp.NewTool("deck_validate",
	mcp.WithDescription("Run the validate-and-repair pipeline against a stored deck or raw deck JSON without persisting, reporting the normalized form, warnings, and fatal errors."),
	mcp.WithString("id", mcp.Description("Deck id to validate")),
	mcp.WithString("json", mcp.Description("Raw deck JSON to validate instead of a stored deck")),
)

var searchToolDef = mcp.NewTool("deck_search",
	mcp.WithDescription("Full-text search over card fronts and backs across all decks."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Search terms")),
	mcp.WithNumber("limit", mcp.Description("Maximum hits to return (default 20, max 100)")),
)

var exportToolDef = mcp.NewTool("deck_export",
	mcp.WithDescription("Export a deck as a markdown study sheet."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Deck id")),
	mcp.WithString("path", mcp.Description("Destination file path (default <id>.md)")),
)

var importToolDef = mcp.NewTool("deck_import",
	mcp.WithDescription("Import a markdown study sheet (H1 title, H2 fronts, paragraph backs) as a new deck."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Markdown file path")),
	mcp.WithString("source", mcp.Description("Provenance tag (default \"manual\")")),
)
