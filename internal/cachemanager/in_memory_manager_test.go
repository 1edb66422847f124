package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type renderedSlide struct {
	Lines  []string
	Height int
}

func TestInMemoryCacheManager_GetSet(t *testing.T) {
	cache := NewInMemoryCacheManager[RenderKey, renderedSlide]("slides", DefaultExpiration, DefaultCleanupInterval)
	key := NewRenderKey("slide", 80, "# Intro")

	_, ok := cache.Get(context.Background(), key)
	require.False(t, ok)

	want := renderedSlide{Lines: []string{"Intro"}, Height: 1}
	cache.Set(context.Background(), key, want, DefaultExpiration)

	got, ok := cache.Get(context.Background(), key)
	require.True(t, ok)
	require.Equal(t, want, got)
	require.Equal(t, 1, cache.Len())
}

func TestInMemoryCacheManager_Expires(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("short", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "k", "v", time.Millisecond)

	time.Sleep(5 * time.Millisecond)

	_, ok := cache.Get(context.Background(), "k")
	require.False(t, ok)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, string]("slides", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(ctx, "a", "1", DefaultExpiration)
	cache.Set(ctx, "b", "2", DefaultExpiration)
	cache.Set(ctx, "c", "3", DefaultExpiration)

	require.NoError(t, cache.Delete(ctx, "a", "b"))
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	_, ok = cache.Get(ctx, "c")
	require.True(t, ok)

	require.NoError(t, cache.Flush(ctx))
	require.Equal(t, 0, cache.Len())
}

func TestNewRenderKey(t *testing.T) {
	a := NewRenderKey("slide", 80, "# Intro")
	require.Equal(t, a, NewRenderKey("slide", 80, "# Intro"), "stable for equal input")
	require.NotEqual(t, a, NewRenderKey("slide", 100, "# Intro"), "width is part of the key")
	require.NotEqual(t, a, NewRenderKey("slide", 80, "# Intro!"), "content is part of the key")
	require.NotEqual(t, a, NewRenderKey("notes", 80, "# Intro"), "namespace is part of the key")
}
