package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartCacheStoresEntry(t *testing.T) {
	cache := NewChartCache(10 * time.Millisecond)
	calls := 0
	render := func() (string, error) {
		calls++
		return "html", nil
	}

	val1, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	val2, err := cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, "html", val1)
	assert.Equal(t, val1, val2)
	assert.Equal(t, 1, calls)
}

func TestChartCacheExpires(t *testing.T) {
	cache := NewChartCache(2 * time.Millisecond)
	calls := 0
	render := func() (string, error) {
		calls++
		return "fresh", nil
	}

	_, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestChartCacheDisabledTTLAlwaysRenders(t *testing.T) {
	cache := NewChartCache(0)
	calls := 0
	render := func() (string, error) {
		calls++
		return "html", nil
	}

	_, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	_, err = cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestChartCacheDoesNotStoreErrors(t *testing.T) {
	cache := NewChartCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("render failed")
		}
		return "html", nil
	}

	_, err := cache.GetOrRender("key", render)
	require.Error(t, err)
	val, err := cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, "html", val)
	assert.Equal(t, 2, calls)
}

func TestConfigHashIsStable(t *testing.T) {
	cfg := map[string]any{"title": "Energy", "series": []any{1.0, 2.0}}
	assert.Equal(t, configHash(cfg), configHash(cfg))
	assert.NotEqual(t, configHash(cfg), configHash(map[string]any{"title": "Carbon"}))
	assert.Equal(t, "empty", configHash(nil))
}
