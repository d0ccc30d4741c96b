package cache

import (
	"context"
	"sort"
	"strings"
	"time"
)

// FetchFunc produces a value for a cache key. Per-symbol failures are expected
// to be encoded in the value itself (for example a nil price in a batch map),
// not returned as an error.
type FetchFunc func(ctx context.Context) (interface{}, error)

type fetchEntry struct {
	value     interface{}
	err       error
	fetchedAt time.Time
}

// FetchCache memoizes fetches behind a Cache store. The whole fetch outcome,
// including failure sentinels and errors, is held for the full TTL, so a
// broken upstream is retried at most once per window instead of on every
// call. The clock is injectable for tests.
type FetchCache struct {
	store Cache
	now   func() time.Time
}

func NewFetchCache(store Cache) *FetchCache {
	return &FetchCache{store: store, now: time.Now}
}

func NewFetchCacheWithClock(store Cache, now func() time.Time) *FetchCache {
	return &FetchCache{store: store, now: now}
}

// GetOrFetch returns the cached value for key if it is younger than ttl,
// otherwise invokes fetch, stores the outcome, and returns it.
//
// Two goroutines missing the same key concurrently may both fetch; the last
// store wins. That duplicate upstream call is accepted in exchange for never
// holding a lock across a network fetch.
func (f *FetchCache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) (interface{}, error) {
	if raw, found := f.store.Get(key); found {
		if entry, ok := raw.(fetchEntry); ok && f.now().Sub(entry.fetchedAt) < ttl {
			return entry.value, entry.err
		}
	}

	value, err := fetch(ctx)
	f.store.Set(key, fetchEntry{value: value, err: err, fetchedAt: f.now()}, ttl)
	return value, err
}

// Flush drops every entry in the backing store.
func (f *FetchCache) Flush() {
	f.store.Flush()
}

// SymbolSetKey builds a deterministic cache key for a multi-symbol fetch. The
// symbol set is upper-cased, deduplicated, and sorted so {A,B} and {B,A}
// resolve to the same entry.
func SymbolSetKey(kind string, symbols []string) string {
	seen := make(map[string]struct{}, len(symbols))
	normalized := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		normalized = append(normalized, s)
	}
	sort.Strings(normalized)
	return kind + ":" + strings.Join(normalized, ",")
}

// SymbolKey builds a cache key for a single-symbol fetch.
func SymbolKey(kind, symbol string) string {
	return kind + ":" + strings.ToUpper(strings.TrimSpace(symbol))
}
