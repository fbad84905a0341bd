package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseCache_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	key := CacheKey("comps", "comps", []byte(`{"a":1}`))

	cache, err := NewResponseCache(dir, 0, testLogger())
	require.NoError(t, err)
	cache.Put(key, []byte(`{"ok":true}`))
	cache.Put("bad", []byte(`not json`))
	assert.Equal(t, 1, cache.Len())

	reopened, err := NewResponseCache(dir, 0, testLogger())
	require.NoError(t, err)
	body, ok := reopened.Get(key)
	require.True(t, ok)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestResponseCache_Expiry(t *testing.T) {
	cache, err := NewResponseCache(t.TempDir(), time.Minute, testLogger())
	require.NoError(t, err)

	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }
	cache.Put("k", []byte(`1`))

	_, ok := cache.Get("k")
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = cache.Get("k")
	assert.False(t, ok)
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("comps", "comps", []byte(`{}`))
	assert.Equal(t, a, CacheKey("comps", "comps", []byte(`{}`)))
	assert.NotEqual(t, a, CacheKey("trend", "comps", []byte(`{}`)))
	assert.Len(t, a, 64)
}

func TestResponseCache_Prune(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewResponseCache(dir, time.Minute, testLogger())
	require.NoError(t, err)

	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }
	cache.Put("old", []byte(`1`))
	current = current.Add(2 * time.Minute)
	cache.Put("fresh", []byte(`2`))

	assert.Equal(t, 1, cache.Prune())
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 0, cache.Prune())

	reopened, err := NewResponseCache(dir, 0, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Len())
}
