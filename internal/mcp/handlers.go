package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jmhart/cardforge/internal/config"
	"github.com/jmhart/cardforge/internal/errors"
	"github.com/jmhart/cardforge/internal/gen"
	"github.com/jmhart/cardforge/internal/index"
	"github.com/jmhart/cardforge/internal/ops"
	"github.com/jmhart/cardforge/internal/store"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store *store.Store
	index *index.Index
	orch  *gen.Orchestrator
	cfg   *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st *store.Store, idx *index.Index, orch *gen.Orchestrator, cfg *config.Config) *Handlers {
	return &Handlers{store: st, index: idx, orch: orch, cfg: cfg}
}

// Request types for each tool

// GetRequest represents the arguments for deck_get.
type GetRequest struct {
	ID string `json:"id"`
}

// GenerateRequest represents the arguments for deck_generate.
type GenerateRequest struct {
	Description string `json:"description"`
	CardCount   int    `json:"card_count,omitempty"`
}

// RegenerateRequest represents the arguments for deck_regenerate.
type RegenerateRequest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// UpdateRequest represents the arguments for deck_update.
type UpdateRequest struct {
	ID          string           `json:"id"`
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Cards       *[]ops.CardInput `json:"cards,omitempty"`
}

// ReorderRequest represents the arguments for deck_reorder.
type ReorderRequest struct {
	ID      string   `json:"id"`
	CardIDs []string `json:"card_ids"`
}

// DeleteRequest represents the arguments for deck_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// ValidateRequest represents the arguments for deck_validate.
type ValidateRequest struct {
	ID   string `json:"id,omitempty"`
	JSON string `json:"json,omitempty"`
}

// SearchRequest represents the arguments for deck_search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// ExportRequest represents the arguments for deck_export.
type ExportRequest struct {
	ID   string `json:"id"`
	Path string `json:"path,omitempty"`
}

// ImportRequest represents the arguments for deck_import.
type ImportRequest struct {
	Path   string `json:"path"`
	Source string `json:"source,omitempty"`
}

// Handler implementations

// HandleList handles the deck_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.List(h.store)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleGet handles the deck_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Get(h.store, ops.GetInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleGenerate handles the deck_generate tool call.
func (h *Handlers) HandleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GenerateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Generate(ctx, h.store, h.index, h.orch, h.cfg.DefaultCardCount, ops.GenerateInput{
		Description: input.Description,
		CardCount:   input.CardCount,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRegenerate handles the deck_regenerate tool call.
func (h *Handlers) HandleRegenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RegenerateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Regenerate(ctx, h.store, h.index, h.orch, ops.RegenerateInput{
		ID:          input.ID,
		Description: input.Description,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleUpdate handles the deck_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(h.store, h.index, ops.UpdateInput{
		ID:          input.ID,
		Title:       input.Title,
		Description: input.Description,
		Cards:       input.Cards,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleReorder handles the deck_reorder tool call.
func (h *Handlers) HandleReorder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ReorderRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Reorder(h.store, h.index, ops.ReorderInput{
		ID:      input.ID,
		CardIDs: input.CardIDs,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDelete handles the deck_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(h.store, h.index, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleValidate handles the deck_validate tool call.
func (h *Handlers) HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ValidateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Validate(h.store, ops.ValidateInput{ID: input.ID, JSON: input.JSON})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSearch handles the deck_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Search(h.index, ops.SearchInput{Query: input.Query, Limit: input.Limit})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleExport handles the deck_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(h.store, ops.ExportInput{ID: input.ID, Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleImport handles the deck_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Import(h.store, h.index, ops.ImportInput{Path: input.Path, Source: input.Source})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error. Internal error
// details are not exposed to avoid leaking paths or driver errors.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if dErr, ok := err.(*errors.DeckError); ok {
		errorObj := map[string]any{
			"code":    dErr.Code,
			"message": dErr.Message,
			"status":  dErr.Status,
		}
		if dErr.Code != errors.ErrInternal && dErr.Details != nil {
			errorObj["details"] = dErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
