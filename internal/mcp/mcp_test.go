package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jmhart/cardforge/internal/config"
	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/store"
)

func testHandlers(t *testing.T) (*Handlers, *store.Store) {
	t.Helper()
	st := store.New(t.TempDir())
	cfg := config.DefaultConfig(t.TempDir())
	return NewHandlers(st, nil, nil, cfg), st
}

func seedDeck(t *testing.T, st *store.Store, id string) {
	t.Helper()
	d := &deck.Deck{
		ID:          id,
		Title:       "Seed Deck",
		Description: "Seeded for tests",
		Source:      "manual",
		GeneratedAt: "2026-01-02",
		Cards: []deck.Card{
			{ID: "c1", Front: "front one", Back: "back one"},
		},
	}
	if _, err := st.Write(d); err != nil {
		t.Fatalf("seed Write failed: %v", err)
	}
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return text.Text
}

func TestAllToolNamesComplete(t *testing.T) {
	want := []string{
		"deck_list", "deck_get", "deck_generate", "deck_regenerate",
		"deck_update", "deck_reorder", "deck_delete", "deck_validate",
		"deck_search", "deck_export", "deck_import",
	}

	names := AllToolNames()
	if len(names) != len(want) {
		t.Fatalf("len(names) = %d, want %d", len(names), len(want))
	}

	got := make(map[string]bool, len(names))
	for _, n := range names {
		got[n] = true
	}
	for _, w := range want {
		if !got[w] {
			t.Errorf("missing tool %q", w)
		}
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"deck_list", "bogus_tool", "deck_get"})
	if len(unknown) != 1 || unknown[0] != "bogus_tool" {
		t.Errorf("unknown = %v, want [bogus_tool]", unknown)
	}

	if got := ValidateDisabledTools(nil); len(got) != 0 {
		t.Errorf("unknown = %v, want empty for nil input", got)
	}
}

func TestToolRegistryEntriesComplete(t *testing.T) {
	for name, entry := range toolRegistry {
		if entry.def.Name != name {
			t.Errorf("tool %q registered under mismatched def name %q", name, entry.def.Name)
		}
		if entry.handler == nil {
			t.Errorf("tool %q has no handler factory", name)
		}
	}
}

func TestHandleListAndGet(t *testing.T) {
	h, st := testHandlers(t)
	seedDeck(t, st, "alpha")

	res, err := h.HandleList(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleList failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("HandleList returned error result: %s", resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), `"alpha"`) {
		t.Errorf("list result = %s, want alpha", resultText(t, res))
	}

	res, err = h.HandleGet(context.Background(), makeRequest(map[string]any{"id": "alpha"}))
	if err != nil {
		t.Fatalf("HandleGet failed: %v", err)
	}
	if !strings.Contains(resultText(t, res), `"alpha:c1"`) {
		t.Errorf("get result = %s, want card uid", resultText(t, res))
	}
}

func TestHandleGetNotFoundIsErrorResult(t *testing.T) {
	h, _ := testHandlers(t)

	res, err := h.HandleGet(context.Background(), makeRequest(map[string]any{"id": "ghost"}))
	if err != nil {
		t.Fatalf("HandleGet returned transport error: %v", err)
	}
	if !res.IsError {
		t.Fatal("IsError = false, want error result")
	}

	var payload struct {
		Error struct {
			Code   string `json:"code"`
			Status int    `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &payload); err != nil {
		t.Fatalf("error payload not JSON: %v", err)
	}
	if payload.Error.Code != "NOT_FOUND" || payload.Error.Status != 404 {
		t.Errorf("payload = %+v, want NOT_FOUND 404", payload.Error)
	}
}

func TestHandleDeleteProtected(t *testing.T) {
	h, st := testHandlers(t)
	d := &deck.Deck{
		ID: "shipped", Title: "T", Source: deck.SourceBuiltin,
		GeneratedAt: "2026-01-02",
		Cards:       []deck.Card{{ID: "c1", Front: "f", Back: "b"}},
	}
	if _, err := st.Write(d); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	res, err := h.HandleDelete(context.Background(), makeRequest(map[string]any{"id": "shipped"}))
	if err != nil {
		t.Fatalf("HandleDelete failed: %v", err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "PROTECTED_DECK") {
		t.Errorf("result = %s, want PROTECTED_DECK error", resultText(t, res))
	}
}

func TestHandleValidateRawJSON(t *testing.T) {
	h, _ := testHandlers(t)

	rawDeck := `{"id":"x","title":"X","source":"manual","generated_at":"2026-01-02","cards":[{"id":"c1","front":"f","back":"b"}]}`
	res, err := h.HandleValidate(context.Background(), makeRequest(map[string]any{"json": rawDeck}))
	if err != nil {
		t.Fatalf("HandleValidate failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), `"valid":true`) {
		t.Errorf("result = %s, want valid true", resultText(t, res))
	}
}

func TestNewServerWithDisabledTools(t *testing.T) {
	cfg := config.DefaultConfig(t.TempDir())
	cfg.DisabledTools = []string{"deck_delete", "not_a_tool"}

	// Registration must not panic on unknown names; they are logged only.
	s := NewServer(nil, nil, nil, cfg, "test")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
}
