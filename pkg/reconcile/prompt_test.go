package reconcile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northstarhq/northstar/pkg/okr"
)

func TestBuildPromptContainsItems(t *testing.T) {
	items := []okr.WorkItem{
		{ID: "a1", Title: "Ship onboarding flow", Category: "Product", Priority: okr.PriorityP2},
		{ID: "b2", Title: "Close Q3 books", Category: "Finance & Legal", Priority: okr.PriorityP4},
	}

	prompt := BuildPrompt(items, "", nil)

	assert.Contains(t, prompt, `"a1"`)
	assert.Contains(t, prompt, `"b2"`)
	assert.Contains(t, prompt, "Ship onboarding flow")
	assert.Contains(t, prompt, "Input OKRs: [")
}

func TestBuildPromptListsAllowedCategories(t *testing.T) {
	prompt := BuildPrompt(nil, "", nil)

	for _, c := range okr.Categories() {
		assert.Contains(t, prompt, c)
	}
	assert.Contains(t, prompt, `other than "Uncategorized" must keep that category unchanged`)
}

func TestBuildPromptCategoryScope(t *testing.T) {
	withScope := BuildPrompt(nil, "Engineering", nil)
	withoutScope := BuildPrompt(nil, "", nil)

	assert.Contains(t, withScope, `belong to the "Engineering" category`)
	assert.NotContains(t, withoutScope, "belong to the")
}

func TestBuildPromptAnswersSorted(t *testing.T) {
	answers := map[string]string{
		"q3": "the launch date is fixed",
		"q1": "item a1 is most urgent",
		"q2": "no",
	}

	prompt := BuildPrompt(nil, "", answers)

	require.Contains(t, prompt, "clarifying questions")
	i1 := strings.Index(prompt, "- q1:")
	i2 := strings.Index(prompt, "- q2:")
	i3 := strings.Index(prompt, "- q3:")
	require.True(t, i1 >= 0 && i2 >= 0 && i3 >= 0)
	assert.Less(t, i1, i2)
	assert.Less(t, i2, i3)
}

func TestBuildPromptDeterministic(t *testing.T) {
	items := []okr.WorkItem{{ID: "a", Title: "t"}}
	answers := map[string]string{"q1": "yes", "q2": "no"}

	first := BuildPrompt(items, "Product", answers)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildPrompt(items, "Product", answers))
	}
}
