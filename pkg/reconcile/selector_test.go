package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northstarhq/northstar/pkg/errors"
)

type fakeLister struct {
	models []ModelInfo
	err    error
	calls  int
}

func (f *fakeLister) ListModels(_ context.Context) ([]ModelInfo, error) {
	f.calls++
	return f.models, f.err
}

func generateContentModel(name string) ModelInfo {
	return ModelInfo{Name: name, Actions: []string{"generateContent"}}
}

func TestScoreModelName(t *testing.T) {
	tests := []struct {
		name  string
		score int
	}{
		{"gemini-2.0-flash", 21},
		{"gemini-2.0-flash-lite", 22},
		{"gemini-2.0-flash-exp", 19},
		{"gemini-pro", 10},
		{"text-bison", 0},
		{"Gemini-2.5-Flash", 21}, // case-insensitive
	}
	for _, tt := range tests {
		assert.Equal(t, tt.score, ScoreModelName(tt.name), tt.name)
	}
}

func TestResolveOverrideWinsVerbatim(t *testing.T) {
	lister := &fakeLister{}
	s := NewSelector(lister, NewModelCache())

	model, err := s.Resolve(context.Background(), "  my-custom-model ")
	require.NoError(t, err)
	assert.Equal(t, "my-custom-model", model)
	assert.Zero(t, lister.calls, "override must not trigger discovery")
}

func TestResolveDiscoversBestModel(t *testing.T) {
	lister := &fakeLister{models: []ModelInfo{
		generateContentModel("models/text-bison"),
		generateContentModel("models/gemini-2.0-flash"),
		generateContentModel("models/gemini-pro"),
	}}
	s := NewSelector(lister, NewModelCache())

	model, err := s.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", model)
}

func TestResolveSkipsNonGenerateContentModels(t *testing.T) {
	lister := &fakeLister{models: []ModelInfo{
		{Name: "models/gemini-2.0-flash", Actions: []string{"embedContent"}},
		generateContentModel("models/gemini-pro"),
	}}
	s := NewSelector(lister, NewModelCache())

	model, err := s.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "gemini-pro", model)
}

func TestResolveFirstSeenWinsOnTies(t *testing.T) {
	lister := &fakeLister{models: []ModelInfo{
		generateContentModel("models/gemini-2.0-flash"),
		generateContentModel("models/gemini-2.1-flash"),
	}}
	s := NewSelector(lister, NewModelCache())

	model, err := s.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", model)
}

func TestResolveCachesDiscovery(t *testing.T) {
	lister := &fakeLister{models: []ModelInfo{generateContentModel("models/gemini-pro")}}
	s := NewSelector(lister, NewModelCache())

	for i := 0; i < 3; i++ {
		model, err := s.Resolve(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, "gemini-pro", model)
	}
	assert.Equal(t, 1, lister.calls)
}

func TestResolveNoModels(t *testing.T) {
	for _, models := range [][]ModelInfo{
		nil,
		{{Name: "models/gemini-pro", Actions: []string{"embedContent"}}},
		{{Name: "models/", Actions: []string{"generateContent"}}},
	} {
		s := NewSelector(&fakeLister{models: models}, NewModelCache())
		_, err := s.Resolve(context.Background(), "")
		assert.ErrorIs(t, err, errors.ErrNoModels)
	}
}

func TestResolveListError(t *testing.T) {
	wantErr := errors.New("network down")
	s := NewSelector(&fakeLister{err: wantErr}, NewModelCache())

	_, err := s.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, wantErr)
}

func TestRediscoverReplacesCache(t *testing.T) {
	lister := &fakeLister{models: []ModelInfo{generateContentModel("models/gemini-pro")}}
	cache := NewModelCache()
	s := NewSelector(lister, cache)

	_, err := s.Resolve(context.Background(), "")
	require.NoError(t, err)

	lister.models = []ModelInfo{generateContentModel("models/gemini-2.0-flash")}
	model, err := s.Rediscover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", model)

	cached, ok := cache.Get()
	require.True(t, ok)
	assert.Equal(t, "gemini-2.0-flash", cached)
}

func TestModelCache(t *testing.T) {
	cache := NewModelCache()

	_, ok := cache.Get()
	assert.False(t, ok)

	cache.Set("gemini-pro")
	model, ok := cache.Get()
	assert.True(t, ok)
	assert.Equal(t, "gemini-pro", model)

	cache.Reset()
	_, ok = cache.Get()
	assert.False(t, ok)
}
