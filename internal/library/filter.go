package library

import (
	"sort"
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"mangatrack/internal/domain"
)

// filterIndex implements sahilm/fuzzy.Source over library entries so the
// matcher can run without per-call allocations.
type filterIndex struct {
	entries     []domain.LibraryEntry
	lowerTitles []string
}

func (idx *filterIndex) String(i int) string { return idx.lowerTitles[i] }
func (idx *filterIndex) Len() int            { return len(idx.entries) }

func newFilterIndex(entries []domain.LibraryEntry) *filterIndex {
	idx := &filterIndex{
		entries:     entries,
		lowerTitles: make([]string, len(entries)),
	}
	for i, e := range entries {
		idx.lowerTitles[i] = strings.ToLower(e.Title)
	}
	return idx
}

// Filter narrows entries to those whose title fuzzy-matches query, best
// match first. Subsequence matching is tried first; when it finds nothing
// a rank-fold pass catches queries with small typos. An empty query
// returns the entries unchanged.
func Filter(entries []domain.LibraryEntry, query string) []domain.LibraryEntry {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" || len(entries) == 0 {
		return entries
	}

	idx := newFilterIndex(entries)
	matches := fuzzy.FindFrom(query, idx)
	if len(matches) > 0 {
		out := make([]domain.LibraryEntry, 0, len(matches))
		for _, m := range matches {
			out = append(out, idx.entries[m.Index])
		}
		return out
	}

	ranks := lfuzzy.RankFindFold(query, idx.lowerTitles)
	sort.Slice(ranks, func(i, j int) bool { return ranks[i].Distance < ranks[j].Distance })
	out := make([]domain.LibraryEntry, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, idx.entries[r.OriginalIndex])
	}
	return out
}

// FilterByStatus keeps only entries in the given status, preserving order.
func FilterByStatus(entries []domain.LibraryEntry, status domain.ReadingStatus) []domain.LibraryEntry {
	out := make([]domain.LibraryEntry, 0, len(entries))
	for _, e := range entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}
