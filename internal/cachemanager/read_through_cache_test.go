package cachemanager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadThroughCache_FillsOnMiss(t *testing.T) {
	calls := 0
	render := func(_ context.Context, in string) (string, error) {
		calls++
		return "<" + in + ">", nil
	}
	rt := NewReadThroughCache[string, string, string](
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval),
		render, false)

	got, err := rt.Get(context.Background(), "k", "intro", DefaultExpiration)
	require.NoError(t, err)
	require.Equal(t, "<intro>", got)

	got, err = rt.Get(context.Background(), "k", "ignored", DefaultExpiration)
	require.NoError(t, err)
	require.Equal(t, "<intro>", got)
	require.Equal(t, 1, calls)
}

func TestReadThroughCache_ErrorNotCached(t *testing.T) {
	fail := true
	render := func(_ context.Context, in string) (string, error) {
		if fail {
			return "", errors.New("render failed")
		}
		return in, nil
	}
	rt := NewReadThroughCache[string, string, string](
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval),
		render, false)

	_, err := rt.Get(context.Background(), "k", "x", DefaultExpiration)
	require.Error(t, err)
	require.Equal(t, 0, rt.Cache().Len())

	fail = false
	got, err := rt.GetWithRefresh(context.Background(), "k", "x", DefaultExpiration)
	require.NoError(t, err)
	require.Equal(t, "x", got)
}

func TestReadThroughCache_SkipCache(t *testing.T) {
	calls := 0
	render := func(_ context.Context, in string) (string, error) {
		calls++
		return in, nil
	}
	rt := NewReadThroughCache[string, string, string](
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval),
		render, true)

	for i := 0; i < 3; i++ {
		_, err := rt.Get(context.Background(), "k", "x", DefaultExpiration)
		require.NoError(t, err)
	}
	require.Equal(t, 3, calls)
}
