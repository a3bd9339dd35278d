package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/northstarhq/northstar/internal/server/response"
	"github.com/northstarhq/northstar/internal/store"
	"github.com/northstarhq/northstar/pkg/logging"
	"github.com/northstarhq/northstar/pkg/okr"
	"github.com/northstarhq/northstar/pkg/reconcile"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

// handleListOKRs returns all active and archived work items.
func (s *Server) handleListOKRs(w http.ResponseWriter, r *http.Request) {
	active, err := s.store.ListActive(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	archived, err := s.store.ListArchived(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{
		"active":   active,
		"archived": archived,
	})
}

// handleCreateOKR creates a work item. The scope statement is generated by
// the model; a generation failure falls back to a templated sentence
// rather than blocking the create.
func (s *Server) handleCreateOKR(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title string `json:"title"`
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}

	title := strings.TrimSpace(body.Title)
	if title == "" {
		response.BadRequest(w, "Title is required", "")
		return
	}
	notes := strings.TrimSpace(body.Notes)

	scope, err := s.engine.GenerateScope(r.Context(), title, notes)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Scope generation failed, using templated fallback")
		scope = reconcile.FallbackScope(title)
	}

	now := utc.Now()
	item := okr.WorkItem{
		ID:        okr.NewID(),
		Title:     title,
		Notes:     notes,
		Scope:     scope,
		Deadline:  now.AddDate(0, 0, 14).Format(okr.DateFormat),
		Category:  okr.CategoryDefault(),
		Priority:  okr.PriorityDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(r.Context(), item); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.Created(w, map[string]any{"okr": item})
}

func (s *Server) handleGetOKR(w http.ResponseWriter, r *http.Request, id string) {
	item, err := s.store.Get(r.Context(), id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{"okr": item})
}

// handleUpdateOKR applies a partial update to an active work item.
func (s *Server) handleUpdateOKR(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Title    *string `json:"title"`
		Scope    *string `json:"scope"`
		Deadline *string `json:"deadline"`
		Category *string `json:"category"`
		Priority *string `json:"priority"`
		Notes    *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}

	fields := store.UpdateFields{
		Deadline: body.Deadline,
	}
	if body.Title != nil {
		trimmed := strings.TrimSpace(*body.Title)
		fields.Title = &trimmed
	}
	if body.Scope != nil {
		trimmed := strings.TrimSpace(*body.Scope)
		fields.Scope = &trimmed
	}
	if body.Notes != nil {
		trimmed := strings.TrimSpace(*body.Notes)
		fields.Notes = &trimmed
	}
	if body.Category != nil {
		if !okr.ValidCategory(*body.Category) {
			response.BadRequest(w, "Invalid category value", *body.Category)
			return
		}
		fields.Category = body.Category
	}
	if body.Priority != nil {
		priority := okr.Priority(*body.Priority)
		if !priority.Valid() {
			response.BadRequest(w, "Invalid priority value", *body.Priority)
			return
		}
		fields.Priority = &priority
	}

	item, err := s.store.Update(r.Context(), id, fields)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{"okr": item})
}

func (s *Server) handleDeleteOKR(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.store.Delete(r.Context(), id); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{"id": id})
}

// handleCompleteOKR archives a work item and records how its completion
// date compared to the deadline.
func (s *Server) handleCompleteOKR(w http.ResponseWriter, r *http.Request, id string) {
	archived, err := s.store.Complete(r.Context(), id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{"okr": archived})
}

// handleReconcile runs a reconciliation pass over the active items in one
// category, persists the model's updates, and returns the refreshed rows.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Category string            `json:"category"`
		Answers  map[string]string `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}

	category := strings.TrimSpace(body.Category)
	if category == "" {
		response.BadRequest(w, "Category is required for reconcile", "")
		return
	}

	ctx := logging.WithCategory(r.Context(), category)

	items, err := s.store.ListActive(ctx, category)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if len(items) == 0 {
		response.OK(w, map[string]any{"updates": []okr.Update{}})
		return
	}

	updates, err := s.engine.Reconcile(ctx, items, &reconcile.BatchOptions{
		Category: category,
		Answers:  body.Answers,
	})
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	if err := s.store.ApplyUpdates(ctx, updates); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	refreshed, err := s.store.ListActive(ctx, category)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	normalized := make([]okr.Update, 0, len(refreshed))
	for _, item := range refreshed {
		normalized = append(normalized, okr.Update{
			ID:       item.ID,
			Category: item.Category,
			Priority: item.Priority,
			Scope:    item.Scope,
			Deadline: item.Deadline,
		})
	}
	response.OK(w, map[string]any{"updates": normalized})
}

// handleQuestions returns clarifying questions for a prioritization pass.
// This endpoint never fails on model trouble; at worst it serves the
// canned set.
func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}

	items, err := s.store.ListActive(r.Context(), strings.TrimSpace(body.Category))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	questions := s.engine.GenerateQuestions(r.Context(), items, body.Category)
	response.OK(w, map[string]any{"questions": questions})
}

// handleAIReconcile reconciles a caller-supplied batch without touching
// storage.
func (s *Server) handleAIReconcile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OKRs []okr.WorkItem `json:"okrs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	if len(body.OKRs) == 0 {
		response.BadRequest(w, "No OKRs provided", "")
		return
	}

	updates, err := s.engine.Reconcile(r.Context(), body.OKRs, nil)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{"updates": updates})
}
