package reconcile

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/northstarhq/northstar/pkg/okr"
)

// BuildPrompt assembles the reconciliation prompt for a batch of work
// items. Pure string assembly; deterministic for a given input.
func BuildPrompt(items []okr.WorkItem, scopeCategory string, answers map[string]string) string {
	lines := []string{
		"You are an OKR operations assistant.",
		"Given a set of active OKRs, return a JSON array only.",
		"For each input OKR id, output an object with exactly these fields: id, category, priority (P1-P5), scope, deadline (YYYY-MM-DD).",
		"Allowed categories: " + strings.Join(okr.Categories(), ", ") + ".",
		"Goals:",
		"- Categorize each OKR into one of the allowed categories.",
		fmt.Sprintf("- OKRs whose category is already set to something other than %q must keep that category unchanged.", okr.CategoryDefault()),
		"- Prioritize all OKRs relative to each other.",
		"- Refine scope to be concise and measurable.",
		"- Recalculate each deadline if necessary, based on priority, scope size, and current date.",
		"- Keep deadlines realistic and ensure they are not in the past.",
		"Keep the same number of items as the input and keep ids unchanged.",
	}

	if scopeCategory != "" {
		lines = append(lines, fmt.Sprintf("All OKRs in this batch belong to the %q category; reconcile them against each other.", scopeCategory))
	}

	if len(answers) > 0 {
		lines = append(lines, "The user answered these clarifying questions; take the answers into account:")
		ids := make([]string, 0, len(answers))
		for id := range answers {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			lines = append(lines, fmt.Sprintf("- %s: %s", id, answers[id]))
		}
	}

	lines = append(lines, "Input OKRs: "+marshalItems(items))
	return strings.Join(lines, "\n")
}

// marshalItems serializes the batch verbatim. The item types only hold
// strings and timestamps, so encoding cannot fail in practice; an empty
// array keeps the prompt well-formed if it ever does.
func marshalItems(items []okr.WorkItem) string {
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}
