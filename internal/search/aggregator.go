// Package search implements the multi-provider search aggregator: fan-out
// across the catalog adapters, deterministic merge and dedup, and a
// session-scoped result cache.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"mangatrack/internal/domain"
)

// Mode selects which providers a search consults. ModeAuto fans out to all
// of them; any other value names a single provider.
type Mode string

// ModeAuto queries every registered provider concurrently.
const ModeAuto Mode = "auto"

// MinQueryLength is the hard input gate: shorter queries return an empty
// result without touching any provider.
const MinQueryLength = 3

// Result is a completed, merged search: the normalized series plus the names
// of providers that failed outright. Zero results with a non-empty Failed
// list means degraded sources; zero results with an empty list means the
// query genuinely matched nothing.
type Result struct {
	Series []domain.SeriesResult
	Failed []string
}

// Cache is the session-scoped search cache, keyed by (mode, lowercased
// query). It is injected rather than package state so tests can seed and
// inspect it. Entries live until the process ends; write activity elsewhere
// never invalidates them.
type Cache struct {
	mu      sync.RWMutex
	results map[string]Result
}

// NewCache creates an empty session cache.
func NewCache() *Cache {
	return &Cache{results: make(map[string]Result)}
}

func (c *Cache) get(key string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[key]
	return r, ok
}

func (c *Cache) put(key string, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key] = r
}

// Len returns the number of cached result sets.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

// Aggregator fans a query out across the provider set and merges the
// responses into one canonical result list.
type Aggregator struct {
	providers []domain.Provider // fixed priority order
	cache     *Cache
	logger    *slog.Logger
}

// NewAggregator creates an aggregator over providers, which must already be
// in priority order (provider.Priority). A nil cache gets a fresh one.
func NewAggregator(providers []domain.Provider, cache *Cache, logger *slog.Logger) *Aggregator {
	if cache == nil {
		cache = NewCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{providers: providers, cache: cache, logger: logger}
}

// Search runs one aggregated search. Auto mode queries all providers
// concurrently and tolerates individual failures; single-provider mode
// queries exactly the named provider with no fallback. Identical
// (mode, query) searches within one session are served from cache with zero
// network calls.
func (a *Aggregator) Search(ctx context.Context, query string, mode Mode) (Result, error) {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < MinQueryLength {
		return Result{Series: []domain.SeriesResult{}, Failed: []string{}}, nil
	}

	key := string(mode) + ":" + strings.ToLower(trimmed)
	if cached, ok := a.cache.get(key); ok {
		a.logger.Debug("search cache hit", "mode", mode, "query", trimmed)
		return cached, nil
	}

	selected, err := a.selectProviders(mode)
	if err != nil {
		return Result{}, err
	}

	a.logger.Debug("searching", "mode", mode, "query", trimmed, "providers", len(selected))

	// Fan out with one result slot per provider. Slots keep the merge in
	// priority order no matter how the network races; a failing provider
	// fills its error slot without disturbing siblings.
	resultSets := make([][]domain.SeriesResult, len(selected))
	errs := make([]error, len(selected))

	var wg sync.WaitGroup
	for i, p := range selected {
		wg.Add(1)
		go func(i int, p domain.Provider) {
			defer wg.Done()
			resultSets[i], errs[i] = p.Search(ctx, trimmed)
		}(i, p)
	}
	wg.Wait()

	result := merge(selected, resultSets, errs)
	a.cache.put(key, result)

	a.logger.Debug("search complete",
		"query", trimmed, "results", len(result.Series), "failed", len(result.Failed))

	return result, nil
}

// selectProviders resolves a mode to the providers it addresses.
func (a *Aggregator) selectProviders(mode Mode) ([]domain.Provider, error) {
	if mode == ModeAuto {
		return a.providers, nil
	}
	for _, p := range a.providers {
		if p.Name() == string(mode) {
			return []domain.Provider{p}, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", mode, domain.ErrUnknownProvider)
}

// merge concatenates per-provider results in priority order, collapses
// case-insensitive title duplicates (first occurrence wins, so the higher
// priority provider's variant survives), and sorts by score descending with
// missing scores treated as 0. The sort is stable, so equal scores keep
// priority order.
func merge(providers []domain.Provider, resultSets [][]domain.SeriesResult, errs []error) Result {
	merged := Result{Series: []domain.SeriesResult{}, Failed: []string{}}

	seen := make(map[string]struct{})
	for i := range providers {
		if errs[i] != nil {
			merged.Failed = append(merged.Failed, providers[i].Name())
			continue
		}
		for _, s := range resultSets[i] {
			key := strings.ToLower(s.Title)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged.Series = append(merged.Series, s)
		}
	}

	sort.SliceStable(merged.Series, func(i, j int) bool {
		return scoreOf(merged.Series[i]) > scoreOf(merged.Series[j])
	})

	return merged
}

func scoreOf(s domain.SeriesResult) float64 {
	if s.Score == nil {
		return 0
	}
	return *s.Score
}
