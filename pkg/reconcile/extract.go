package reconcile

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Model responses are supposed to be JSON but routinely arrive wrapped in
// prose, fenced in a markdown block, or carrying a trailing comma. Each
// extraction strategy proposes a candidate substring; candidates are tried
// in order of preference and the first one that parses wins. When nothing
// parses the caller falls back to synthesized records, so extraction
// failure is a degraded path, not an error.

// strategy proposes a candidate JSON payload from raw response text.
type strategy func(raw string) (string, bool)

var strategies = []strategy{
	fencedBlock,
	arraySlice,
	objectSlice,
	wholeText,
}

var (
	fencedRe        = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,(\s*[\]}])`)
)

// ExtractRecords pulls the array of record objects out of free-form model
// text. It accepts a bare JSON array or an object wrapping the array in an
// "updates" or "questions" field. The second return is false when no
// strategy produced a parseable payload.
func ExtractRecords(raw string) ([]any, bool) {
	for _, extract := range strategies {
		candidate, ok := extract(raw)
		if !ok {
			continue
		}
		if records, ok := parseRecords(candidate); ok {
			return records, true
		}
	}
	return nil, false
}

// fencedBlock returns the contents of a ```json fenced block.
func fencedBlock(raw string) (string, bool) {
	m := fencedRe.FindStringSubmatch(raw)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// arraySlice returns the substring between the first '[' and last ']'.
func arraySlice(raw string) (string, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// objectSlice returns the substring between the first '{' and last '}'.
func objectSlice(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

func wholeText(raw string) (string, bool) {
	return raw, true
}

// parseRecords parses a candidate payload, retrying once with trailing
// commas stripped, a common model formatting defect.
func parseRecords(candidate string) ([]any, bool) {
	if records, ok := decodeRecords(candidate); ok {
		return records, true
	}
	repaired := trailingCommaRe.ReplaceAllString(candidate, "$1")
	if repaired != candidate {
		return decodeRecords(repaired)
	}
	return nil, false
}

func decodeRecords(payload string) ([]any, bool) {
	var value any
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return nil, false
	}

	switch v := value.(type) {
	case []any:
		return v, true
	case map[string]any:
		for _, key := range []string{"updates", "questions"} {
			if arr, ok := v[key].([]any); ok {
				return arr, true
			}
		}
	}
	return nil, false
}
