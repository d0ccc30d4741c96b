package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetchCache(start time.Time) (*FetchCache, *time.Time) {
	now := start
	fc := NewFetchCacheWithClock(NewCache(time.Hour, time.Hour), func() time.Time { return now })
	return fc, &now
}

func TestFetchCache_GetOrFetch(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	t.Run("second call within ttl hits cache", func(t *testing.T) {
		fc, _ := newTestFetchCache(start)
		calls := 0
		fetch := func(ctx context.Context) (interface{}, error) {
			calls++
			return 101.5, nil
		}

		v1, err := fc.GetOrFetch(ctx, "price:AAPL", time.Minute, fetch)
		require.NoError(t, err)
		v2, err := fc.GetOrFetch(ctx, "price:AAPL", time.Minute, fetch)
		require.NoError(t, err)

		assert.Equal(t, 101.5, v1)
		assert.Equal(t, 101.5, v2)
		assert.Equal(t, 1, calls)
	})

	t.Run("entry at exactly ttl is stale", func(t *testing.T) {
		fc, now := newTestFetchCache(start)
		calls := 0
		fetch := func(ctx context.Context) (interface{}, error) {
			calls++
			return calls, nil
		}

		_, err := fc.GetOrFetch(ctx, "price:MSFT", time.Minute, fetch)
		require.NoError(t, err)

		*now = start.Add(time.Minute)
		v, err := fc.GetOrFetch(ctx, "price:MSFT", time.Minute, fetch)
		require.NoError(t, err)

		assert.Equal(t, 2, v)
		assert.Equal(t, 2, calls)
	})

	t.Run("failed fetch is cached for the full ttl", func(t *testing.T) {
		// Deliberate behavior: a nil price for an unknown symbol is reused
		// instead of hammering the upstream on every call.
		fc, now := newTestFetchCache(start)
		calls := 0
		var nilPrice *float64
		fetch := func(ctx context.Context) (interface{}, error) {
			calls++
			return nilPrice, nil
		}

		v, err := fc.GetOrFetch(ctx, "price:ZZZZ", time.Minute, fetch)
		require.NoError(t, err)
		assert.Nil(t, v.(*float64))

		*now = start.Add(59 * time.Second)
		_, err = fc.GetOrFetch(ctx, "price:ZZZZ", time.Minute, fetch)
		require.NoError(t, err)
		assert.Equal(t, 1, calls, "stale check hit upstream inside ttl")

		*now = start.Add(61 * time.Second)
		_, err = fc.GetOrFetch(ctx, "price:ZZZZ", time.Minute, fetch)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("fetch error is cached like a value", func(t *testing.T) {
		fc, _ := newTestFetchCache(start)
		calls := 0
		fetch := func(ctx context.Context) (interface{}, error) {
			calls++
			return nil, errors.New("upstream timeout")
		}

		_, err := fc.GetOrFetch(ctx, "overview", time.Minute, fetch)
		assert.Error(t, err)
		_, err = fc.GetOrFetch(ctx, "overview", time.Minute, fetch)
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("flush drops all entries", func(t *testing.T) {
		fc, _ := newTestFetchCache(start)
		calls := 0
		fetch := func(ctx context.Context) (interface{}, error) {
			calls++
			return "x", nil
		}

		_, _ = fc.GetOrFetch(ctx, "search:apple", time.Minute, fetch)
		fc.Flush()
		_, _ = fc.GetOrFetch(ctx, "search:apple", time.Minute, fetch)

		assert.Equal(t, 2, calls)
	})
}

func TestSymbolSetKey(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		symbols []string
		want    string
	}{
		{
			name:    "sorted and joined",
			kind:    "prices",
			symbols: []string{"AAPL", "MSFT"},
			want:    "prices:AAPL,MSFT",
		},
		{
			name:    "order independent",
			kind:    "prices",
			symbols: []string{"MSFT", "AAPL"},
			want:    "prices:AAPL,MSFT",
		},
		{
			name:    "deduplicates and normalizes case",
			kind:    "prices",
			symbols: []string{"aapl", "AAPL", " msft "},
			want:    "prices:AAPL,MSFT",
		},
		{
			name:    "empty symbols skipped",
			kind:    "prices",
			symbols: []string{"", "TSLA"},
			want:    "prices:TSLA",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SymbolSetKey(tt.kind, tt.symbols))
		})
	}
}

func TestSymbolSetKey_SameEntryThroughCache(t *testing.T) {
	ctx := context.Background()
	fc, _ := newTestFetchCache(time.Now())
	calls := 0
	fetch := func(ctx context.Context) (interface{}, error) {
		calls++
		return map[string]float64{"AAPL": 1, "MSFT": 2}, nil
	}

	_, err := fc.GetOrFetch(ctx, SymbolSetKey("prices", []string{"AAPL", "MSFT"}), time.Minute, fetch)
	require.NoError(t, err)
	_, err = fc.GetOrFetch(ctx, SymbolSetKey("prices", []string{"MSFT", "AAPL"}), time.Minute, fetch)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}
