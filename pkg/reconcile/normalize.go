package reconcile

import (
	"strconv"

	"github.com/northstarhq/northstar/pkg/okr"
)

// fallbackDeadlineDays is how far out a deadline lands when neither the
// candidate nor the original item has one.
const fallbackDeadlineDays = 14

// normalizeUpdate merges a model candidate onto its original item with
// defensive defaults. Shape defects never raise; every field is coerced to
// a valid value.
func (e *Engine) normalizeUpdate(candidate map[string]any, original okr.WorkItem) okr.Update {
	priority := okr.Priority(stringField(candidate, "priority"))
	if !priority.Valid() {
		if original.Priority.Valid() {
			priority = original.Priority
		} else {
			priority = okr.PriorityDefault
		}
	}

	// Once an item has left the default category, the stored value is
	// authoritative and the model's suggestion is discarded.
	category := original.Category
	if category == "" || category == okr.CategoryDefault() {
		if suggested := stringField(candidate, "category"); suggested != "" {
			category = suggested
		} else if category == "" {
			category = okr.CategoryFallback
		}
	}

	scope := stringField(candidate, "scope")
	if scope == "" {
		scope = original.Scope
	}

	deadline := stringField(candidate, "deadline")
	if deadline == "" {
		deadline = original.Deadline
	}
	if deadline == "" {
		deadline = e.now().AddDate(0, 0, fallbackDeadlineDays).Format(okr.DateFormat)
	}

	return okr.Update{
		ID:       original.ID,
		Category: category,
		Priority: priority,
		Scope:    scope,
		Deadline: deadline,
	}
}

// fallbackUpdate synthesizes an update without model input: same id,
// original values where present, defaults elsewhere.
func (e *Engine) fallbackUpdate(item okr.WorkItem) okr.Update {
	category := item.Category
	if category == "" {
		category = okr.CategoryFallback
	}

	priority := item.Priority
	if !priority.Valid() {
		priority = okr.PriorityDefault
	}

	deadline := item.Deadline
	if deadline == "" {
		deadline = e.now().AddDate(0, 0, fallbackDeadlineDays).Format(okr.DateFormat)
	}

	return okr.Update{
		ID:       item.ID,
		Category: category,
		Priority: priority,
		Scope:    item.Scope,
		Deadline: deadline,
	}
}

// stringField coerces a candidate field to a string. Numbers are
// formatted, everything else non-string collapses to "".
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
