package reconcile

import (
	"context"
	"fmt"
	"strings"
)

// GenerateScope produces a one-line scope statement for a new work item.
// It uses the same completion path as Reconcile but reads the response as
// free text: the first non-blank line wins. A blank response yields the
// deterministic FallbackScope sentence; transport and configuration
// failures propagate so callers can decide how to degrade.
func (e *Engine) GenerateScope(ctx context.Context, title, notes string) (string, error) {
	lines := []string{
		"You are an OKR operations assistant.",
		"Write a single concise, measurable scope statement for the following objective.",
		"Respond with one sentence of plain text. No markdown, no preamble.",
		"Title: " + title,
	}
	if strings.TrimSpace(notes) != "" {
		lines = append(lines, "Notes: "+notes)
	}

	raw, err := e.complete(ctx, strings.Join(lines, "\n"))
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, nil
		}
	}
	return FallbackScope(title), nil
}

// FallbackScope is the templated scope sentence used when the model
// returns nothing usable.
func FallbackScope(title string) string {
	return fmt.Sprintf("Deliver %s with clear owner, measurable output, and stakeholder sign-off.", title)
}
