// Package update implements chapter-update detection for tracked titles:
// a per-title provider cascade (resolver) and the library-wide sweep with
// notification and cooldown policy (scheduler).
package update

import (
	"context"
	"log/slog"
	"strconv"

	"mangatrack/internal/domain"
)

// Resolver finds current chapter figures for one tracked title by walking
// the provider cascade: a direct id lookup when the entry id is numeric,
// then title searches across every provider in priority order. The cascade
// stops at the first step that yields a usable figure; each step runs at
// most once, so a title nobody recognizes terminates after one full pass.
type Resolver struct {
	idLookup  domain.IDLookupProvider
	providers []domain.Provider
	logger    *slog.Logger
}

// NewResolver creates a resolver over providers in priority order. The
// first provider that supports direct id lookup serves the numeric-id fast
// path.
func NewResolver(providers []domain.Provider, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{providers: providers, logger: logger}
	for _, p := range providers {
		if idp, ok := p.(domain.IDLookupProvider); ok {
			r.idLookup = idp
			break
		}
	}
	return r
}

// Resolve walks the cascade for one entry and returns the first usable
// chapter figures, or nil when every step came up empty. Errors at any step
// are logged and treated as "no result"; they never abort the cascade.
func (r *Resolver) Resolve(ctx context.Context, entryID, title string) *domain.ChapterInfo {
	if info := r.resolveByID(ctx, entryID); info != nil {
		return info
	}

	for _, p := range r.providers {
		results, err := p.Search(ctx, title)
		if err != nil {
			r.logger.Warn("update lookup failed, trying next source",
				"provider", p.Name(), "title", title, "error", err)
			continue
		}
		if info := pickChapterInfo(results, title); info != nil {
			r.logger.Debug("update lookup succeeded",
				"provider", p.Name(), "title", title)
			return info
		}
	}

	r.logger.Debug("no source could resolve chapters", "title", title)
	return nil
}

// resolveByID tries the direct id lookup when the entry id is a numeric
// provider id (slug-derived "fb-" ids fail the parse and skip this step).
func (r *Resolver) resolveByID(ctx context.Context, entryID string) *domain.ChapterInfo {
	if r.idLookup == nil {
		return nil
	}
	id, err := strconv.Atoi(entryID)
	if err != nil || id <= 0 {
		return nil
	}

	series, err := r.idLookup.FetchByID(ctx, id)
	if err != nil {
		r.logger.Warn("id lookup failed, falling back to title search",
			"provider", r.idLookup.Name(), "id", id, "error", err)
		return nil
	}
	if series == nil || series.ChapterCount == nil {
		return nil
	}
	return &domain.ChapterInfo{
		TotalChapters: series.ChapterCount,
		LatestChapter: series.ChapterCount,
	}
}

// pickChapterInfo selects the result to trust from one provider's search:
// the first case-insensitive exact title match, else the first result, and
// only when it actually carries a chapter figure.
func pickChapterInfo(results []domain.SeriesResult, title string) *domain.ChapterInfo {
	if len(results) == 0 {
		return nil
	}
	chosen := results[0]
	for _, s := range results {
		if s.TitleEquals(title) {
			chosen = s
			break
		}
	}
	if chosen.ChapterCount == nil {
		return nil
	}
	return &domain.ChapterInfo{
		TotalChapters: chosen.ChapterCount,
		LatestChapter: chosen.ChapterCount,
	}
}
