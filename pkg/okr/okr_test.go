package okr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityValid(t *testing.T) {
	for _, p := range Priorities() {
		assert.True(t, p.Valid(), "priority %s should be valid", p)
	}

	assert.False(t, Priority("P0").Valid())
	assert.False(t, Priority("P6").Valid())
	assert.False(t, Priority("p1").Valid())
	assert.False(t, Priority("").Valid())
	assert.False(t, Priority("high").Valid())
}

func TestPrioritiesRankOrder(t *testing.T) {
	assert.Equal(t, []Priority{PriorityP1, PriorityP2, PriorityP3, PriorityP4, PriorityP5}, Priorities())
}

func TestNormalizePriority(t *testing.T) {
	assert.Equal(t, PriorityP1, NormalizePriority("P1"))
	assert.Equal(t, PriorityP5, NormalizePriority("P5"))
	assert.Equal(t, PriorityDefault, NormalizePriority("P9"))
	assert.Equal(t, PriorityDefault, NormalizePriority(""))
	assert.Equal(t, PriorityDefault, NormalizePriority("urgent"))
}

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestCategories(t *testing.T) {
	cats := Categories()
	require.NotEmpty(t, cats)
	assert.Equal(t, "Uncategorized", CategoryDefault())
	assert.Equal(t, cats[0], CategoryDefault())

	// Mutating the returned slice must not affect the vocabulary.
	cats[0] = "mutated"
	assert.Equal(t, "Uncategorized", CategoryDefault())
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, ValidCategory(c), "category %s should be valid", c)
	}
	assert.False(t, ValidCategory("Nonsense"))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("uncategorized"))
}
