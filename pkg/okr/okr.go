// Package okr defines the core domain types for northstar: work items,
// their reconciled updates, and the closed priority and category
// vocabularies they are validated against.
package okr

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/agentstation/utc"
)

// Priority is the five-level priority assigned to a work item.
// P1 is the most urgent, P5 the least.
type Priority string

// Allowed priority values.
const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"
	PriorityP5 Priority = "P5"
)

// PriorityDefault is used whenever neither a candidate nor the original
// item carries a valid priority.
const PriorityDefault = PriorityP3

// Priorities returns the allowed priority values in rank order.
func Priorities() []Priority {
	return []Priority{PriorityP1, PriorityP2, PriorityP3, PriorityP4, PriorityP5}
}

// Valid reports whether p is one of the five allowed values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4, PriorityP5:
		return true
	}
	return false
}

// String returns the priority as a string.
func (p Priority) String() string {
	return string(p)
}

// NormalizePriority coerces an arbitrary string into a valid Priority,
// returning PriorityDefault for anything outside the allowed set.
func NormalizePriority(value string) Priority {
	if p := Priority(value); p.Valid() {
		return p
	}
	return PriorityDefault
}

// WorkItem is an active objective/key-result record. IDs are opaque and
// caller-assigned; the reconciliation engine only ever reads these fields.
type WorkItem struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Scope     string   `json:"scope" yaml:"scope"`
	Deadline  string   `json:"deadline" yaml:"deadline"` // YYYY-MM-DD
	Category  string   `json:"category" yaml:"category"`
	Priority  Priority `json:"priority" yaml:"priority"`
	Notes     string   `json:"notes" yaml:"notes"`
	CreatedAt utc.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt utc.Time `json:"updatedAt" yaml:"updated_at"`
}

// ArchivedItem is a completed work item together with its completion
// bookkeeping.
type ArchivedItem struct {
	WorkItem             `yaml:",inline"`
	CompletedAt          utc.Time `json:"completedAt" yaml:"completed_at"`
	ExpectedVsActualDays int      `json:"expectedVsActualDays" yaml:"expected_vs_actual_days"`
}

// Update is the reconciliation engine's sole output type: the recomputed
// category, priority, scope, and deadline for a single work item. For every
// work item submitted, exactly one Update comes back with a matching ID.
type Update struct {
	ID       string   `json:"id" yaml:"id"`
	Category string   `json:"category" yaml:"category"`
	Priority Priority `json:"priority" yaml:"priority"`
	Scope    string   `json:"scope" yaml:"scope"`
	Deadline string   `json:"deadline" yaml:"deadline"` // YYYY-MM-DD
}

// Question is a clarifying question produced while preparing a
// prioritization pass.
type Question struct {
	ID       string `json:"id" yaml:"id"`
	Question string `json:"question" yaml:"question"`
}

// DateFormat is the wire format for deadlines.
const DateFormat = "2006-01-02"

// NewID returns a fresh opaque item id.
func NewID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}
