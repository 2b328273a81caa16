package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jmhart/cardforge/internal/config"
	"github.com/jmhart/cardforge/internal/errors"
	"github.com/jmhart/cardforge/internal/gen"
	"github.com/jmhart/cardforge/internal/index"
	"github.com/jmhart/cardforge/internal/ops"
	"github.com/jmhart/cardforge/internal/store"
)

// Handlers contains the HTTP route handlers for the deck API.
type Handlers struct {
	store *store.Store
	index *index.Index
	orch  *gen.Orchestrator
	cfg   *config.Config
}

// HandleHealth handles GET /api/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleList handles GET /api/decks, returning deck summaries.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	out, err := ops.List(h.store)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /api/decks/{id}, returning the full deck with card uids.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Get(h.store, ops.GetInput{ID: r.PathValue("id")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Deck)
}

// generateRequest is the body for POST /api/decks/generate.
type generateRequest struct {
	Description string `json:"description"`
	CardCount   int    `json:"card_count,omitempty"`
}

// HandleGenerate handles POST /api/decks/generate.
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.Generate(r.Context(), h.store, h.index, h.orch, h.cfg.DefaultCardCount, ops.GenerateInput{
		Description: req.Description,
		CardCount:   req.CardCount,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// regenerateRequest is the body for POST /api/decks/{id}/regenerate.
type regenerateRequest struct {
	Description string `json:"description"`
}

// HandleRegenerate handles POST /api/decks/{id}/regenerate.
func (h *Handlers) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	var req regenerateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.Regenerate(r.Context(), h.store, h.index, h.orch, ops.RegenerateInput{
		ID:          r.PathValue("id"),
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// updateRequest is the body for PUT /api/decks/{id}. Absent fields are left
// unchanged.
type updateRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Cards       *[]ops.CardInput `json:"cards,omitempty"`
}

// HandleUpdate handles PUT /api/decks/{id}, updating the deck in place.
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.Update(h.store, h.index, ops.UpdateInput{
		ID:          r.PathValue("id"),
		Title:       req.Title,
		Description: req.Description,
		Cards:       req.Cards,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// reorderRequest is the body for PUT /api/decks/{id}/order.
type reorderRequest struct {
	CardIDs []string `json:"card_ids"`
}

// HandleReorder handles PUT /api/decks/{id}/order.
func (h *Handlers) HandleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.Reorder(h.store, h.index, ops.ReorderInput{
		ID:      r.PathValue("id"),
		CardIDs: req.CardIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /api/decks/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Delete(h.store, h.index, ops.DeleteInput{ID: r.PathValue("id")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleSearch handles GET /api/search?q=...&limit=...
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, errors.NewInvalidRequest("limit must be an integer"))
			return
		}
		limit = n
	}

	out, err := ops.Search(h.index, ops.SearchInput{
		Query: r.URL.Query().Get("q"),
		Limit: limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// decodeBody unmarshals a JSON request body, mapping failures to
// INVALID_REQUEST.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewInvalidRequest("invalid JSON body: " + err.Error())
	}
	return nil
}
