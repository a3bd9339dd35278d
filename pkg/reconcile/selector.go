package reconcile

import (
	"context"
	"strings"
	"sync"

	"github.com/northstarhq/northstar/pkg/errors"
)

// actionGenerateContent is the capability a model must support to be a
// completion candidate.
const actionGenerateContent = "generateContent"

// ModelCache memoizes the discovered model choice. One instance is meant
// to live for the service process; tests create their own and reset it
// between cases. Last writer wins.
type ModelCache struct {
	mu    sync.RWMutex
	model string
}

// NewModelCache creates an empty cache.
func NewModelCache() *ModelCache {
	return &ModelCache{}
}

// Get returns the cached model id, if any.
func (c *ModelCache) Get() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model, c.model != ""
}

// Set stores the model id.
func (c *ModelCache) Set(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// Reset clears the cache.
func (c *ModelCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = ""
}

// Selector picks the completion model for a call. An explicit override
// always wins; otherwise the choice comes from discovery, scored by
// ScoreModelName and cached for the process lifetime.
type Selector struct {
	lister ModelLister
	cache  *ModelCache
}

// NewSelector creates a selector over the given discovery capability.
func NewSelector(lister ModelLister, cache *ModelCache) *Selector {
	if cache == nil {
		cache = NewModelCache()
	}
	return &Selector{lister: lister, cache: cache}
}

// Resolve returns the model to call. A non-blank override is returned
// verbatim with no discovery and no caching; configuration is never
// second-guessed.
func (s *Selector) Resolve(ctx context.Context, override string) (string, error) {
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		return trimmed, nil
	}

	if model, ok := s.cache.Get(); ok {
		return model, nil
	}
	return s.discover(ctx)
}

// Rediscover forces a fresh discovery call, replacing any cached choice.
// Used after a completion failed because the chosen model is unknown.
func (s *Selector) Rediscover(ctx context.Context) (string, error) {
	return s.discover(ctx)
}

func (s *Selector) discover(ctx context.Context) (string, error) {
	models, err := s.lister.ListModels(ctx)
	if err != nil {
		return "", err
	}

	best := ""
	bestScore := 0
	for _, m := range models {
		if !supportsGenerateContent(m.Actions) {
			continue
		}
		name := strings.TrimPrefix(m.Name, "models/")
		if name == "" {
			continue
		}
		// First seen wins on ties.
		if score := ScoreModelName(name); best == "" || score > bestScore {
			best = name
			bestScore = score
		}
	}

	if best == "" {
		return "", errors.ErrNoModels
	}

	s.cache.Set(best)
	return best, nil
}

// ScoreModelName ranks a candidate model name. Current-generation Gemini
// flash models score highest; experimental builds are penalized.
func ScoreModelName(name string) int {
	n := strings.ToLower(name)
	score := 0
	if strings.Contains(n, "gemini") {
		score += 10
	}
	if strings.Contains(n, "2") {
		score += 6
	}
	if strings.Contains(n, "flash") {
		score += 5
	}
	if strings.Contains(n, "lite") {
		score++
	}
	if strings.Contains(n, "exp") {
		score -= 2
	}
	return score
}

func supportsGenerateContent(actions []string) bool {
	for _, a := range actions {
		if a == actionGenerateContent {
			return true
		}
	}
	return false
}
