package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRecordsBareArray(t *testing.T) {
	records, ok := ExtractRecords(`[{"id":"a"},{"id":"b"}]`)
	require.True(t, ok)
	assert.Len(t, records, 2)
}

func TestExtractRecordsFencedBlock(t *testing.T) {
	raw := "Here is the result you asked for:\n```json\n[{\"id\": \"a\", \"priority\": \"P1\"}]\n```\nLet me know if you need anything else."

	records, ok := ExtractRecords(raw)
	require.True(t, ok)
	require.Len(t, records, 1)

	entry, ok := records[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a", entry["id"])
}

func TestExtractRecordsFencedBlockCaseInsensitive(t *testing.T) {
	raw := "```JSON\n[{\"id\":\"a\"}]\n```"

	records, ok := ExtractRecords(raw)
	require.True(t, ok)
	assert.Len(t, records, 1)
}

func TestExtractRecordsTrailingComma(t *testing.T) {
	raw := "```json\n[{\"id\": \"a\",},]\n```"

	records, ok := ExtractRecords(raw)
	require.True(t, ok)
	require.Len(t, records, 1)

	entry, ok := records[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a", entry["id"])
}

func TestExtractRecordsArrayInsideProse(t *testing.T) {
	raw := `Sure! The reconciled OKRs are [{"id":"x"}] as requested.`

	records, ok := ExtractRecords(raw)
	require.True(t, ok)
	assert.Len(t, records, 1)
}

func TestExtractRecordsUpdatesWrapper(t *testing.T) {
	raw := `{"updates": [{"id":"a"},{"id":"b"}]}`

	records, ok := ExtractRecords(raw)
	require.True(t, ok)
	assert.Len(t, records, 2)
}

func TestExtractRecordsQuestionsWrapper(t *testing.T) {
	raw := `{"questions": [{"id":"q1","question":"Why?"}]}`

	records, ok := ExtractRecords(raw)
	require.True(t, ok)
	assert.Len(t, records, 1)
}

func TestExtractRecordsUnusable(t *testing.T) {
	for _, raw := range []string{
		"",
		"I could not process this request.",
		`{"notes": "no array here"}`,
		`"just a string"`,
		"42",
	} {
		records, ok := ExtractRecords(raw)
		assert.False(t, ok, "input %q should not parse", raw)
		assert.Nil(t, records)
	}
}

func TestExtractRecordsEmptyArray(t *testing.T) {
	records, ok := ExtractRecords("[]")
	require.True(t, ok)
	assert.Empty(t, records)
}
