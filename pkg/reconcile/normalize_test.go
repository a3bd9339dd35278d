package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/northstarhq/northstar/pkg/okr"
)

func normalizeEngine() *Engine {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return New(nil, WithClock(func() time.Time { return now }))
}

func TestNormalizeUpdateHappyPath(t *testing.T) {
	original := okr.WorkItem{
		ID:       "a1",
		Category: okr.CategoryDefault(),
		Priority: okr.PriorityP3,
		Scope:    "old scope",
		Deadline: "2026-09-01",
	}
	candidate := map[string]any{
		"id":       "a1",
		"category": "Engineering",
		"priority": "P1",
		"scope":    "new scope",
		"deadline": "2026-09-15",
	}

	update := normalizeEngine().normalizeUpdate(candidate, original)

	assert.Equal(t, okr.Update{
		ID:       "a1",
		Category: "Engineering",
		Priority: okr.PriorityP1,
		Scope:    "new scope",
		Deadline: "2026-09-15",
	}, update)
}

func TestNormalizeUpdateCategoryStickiness(t *testing.T) {
	original := okr.WorkItem{ID: "a1", Category: "Engineering", Priority: okr.PriorityP2, Deadline: "2026-09-01"}
	candidate := map[string]any{"id": "a1", "category": "Sales & Marketing", "priority": "P2"}

	update := normalizeEngine().normalizeUpdate(candidate, original)

	// A category set by a previous pass is authoritative.
	assert.Equal(t, "Engineering", update.Category)
}

func TestNormalizeUpdateDefaultCategoryIsOverridable(t *testing.T) {
	original := okr.WorkItem{ID: "a1", Category: okr.CategoryDefault(), Priority: okr.PriorityP2}
	candidate := map[string]any{"id": "a1", "category": "Growth"}

	assert.Equal(t, "Growth", normalizeEngine().normalizeUpdate(candidate, original).Category)
}

func TestNormalizeUpdateEmptyCategoryFallsBack(t *testing.T) {
	original := okr.WorkItem{ID: "a1"}
	candidate := map[string]any{"id": "a1"}

	assert.Equal(t, okr.CategoryFallback, normalizeEngine().normalizeUpdate(candidate, original).Category)
}

func TestNormalizeUpdateInvalidPriority(t *testing.T) {
	e := normalizeEngine()
	original := okr.WorkItem{ID: "a1", Priority: okr.PriorityP2}

	// Out-of-range candidate keeps the original.
	update := e.normalizeUpdate(map[string]any{"priority": "P9"}, original)
	assert.Equal(t, okr.PriorityP2, update.Priority)

	// Non-string candidate keeps the original.
	update = e.normalizeUpdate(map[string]any{"priority": 1.0}, original)
	assert.Equal(t, okr.PriorityP2, update.Priority)

	// Both invalid lands on the default.
	original.Priority = "urgent"
	update = e.normalizeUpdate(map[string]any{"priority": "P0"}, original)
	assert.Equal(t, okr.PriorityDefault, update.Priority)
}

func TestNormalizeUpdateScopeAndDeadlineFallBackToOriginal(t *testing.T) {
	original := okr.WorkItem{ID: "a1", Scope: "keep me", Deadline: "2026-10-01"}

	update := normalizeEngine().normalizeUpdate(map[string]any{"id": "a1"}, original)

	assert.Equal(t, "keep me", update.Scope)
	assert.Equal(t, "2026-10-01", update.Deadline)
}

func TestNormalizeUpdateSynthesizesDeadline(t *testing.T) {
	// Neither the candidate nor the original has a deadline.
	update := normalizeEngine().normalizeUpdate(map[string]any{"id": "a1"}, okr.WorkItem{ID: "a1"})

	assert.Equal(t, "2026-08-15", update.Deadline)
}

func TestFallbackUpdate(t *testing.T) {
	e := normalizeEngine()

	item := okr.WorkItem{ID: "a1", Category: "Product", Priority: okr.PriorityP1, Scope: "s", Deadline: "2026-09-01"}
	update := e.fallbackUpdate(item)
	assert.Equal(t, okr.Update{ID: "a1", Category: "Product", Priority: okr.PriorityP1, Scope: "s", Deadline: "2026-09-01"}, update)

	// Missing fields get defaults; the deadline lands two weeks out.
	bare := e.fallbackUpdate(okr.WorkItem{ID: "b2"})
	assert.Equal(t, okr.CategoryFallback, bare.Category)
	assert.Equal(t, okr.PriorityDefault, bare.Priority)
	assert.Equal(t, "2026-08-15", bare.Deadline)
}

func TestStringFieldCoercion(t *testing.T) {
	m := map[string]any{
		"s": "text",
		"f": 3.0,
		"b": true,
		"o": map[string]any{},
		"n": nil,
	}

	assert.Equal(t, "text", stringField(m, "s"))
	assert.Equal(t, "3", stringField(m, "f"))
	assert.Equal(t, "true", stringField(m, "b"))
	assert.Equal(t, "", stringField(m, "o"))
	assert.Equal(t, "", stringField(m, "n"))
	assert.Equal(t, "", stringField(m, "missing"))
}
