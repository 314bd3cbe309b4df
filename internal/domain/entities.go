package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"mangatrack/pkg/slug"
)

// SeriesResult is the canonical shape every provider adapter normalizes its
// search results into. It is ephemeral: produced by adapters and the search
// aggregator, consumed by the UI layer, never persisted as-is.
type SeriesResult struct {
	ExternalID   int        // Numeric id in the by-id lookup provider's space, 0 for every other source
	Title        string     // Display title (romanized/primary variant preferred)
	Type         SeriesType // Normalized publication format
	ChapterCount *float64   // Provider's reported total/last chapter, nil when unknown
	Score        *float64   // Community score on a 0-10 scale, nil when unknown
	Synopsis     *string    // Plot summary, nil when absent
	Genres       []string   // Free-text genre names in provider order
	CoverURL     string     // Cover image URL, empty when absent
	Source       string     // Name of the provider that produced this result
}

// LibraryID derives the stable store key for this result. Numeric provider
// ids are authoritative; titles without one fall back to a slug-based key.
func (r SeriesResult) LibraryID() string {
	if r.ExternalID > 0 {
		return strconv.Itoa(r.ExternalID)
	}
	return "fb-" + slug.From(r.Title)
}

// TitleEquals reports whether this result refers to the given title when no
// numeric id is available. Case-insensitive exact match; a heuristic only.
func (r SeriesResult) TitleEquals(title string) bool {
	return strings.EqualFold(r.Title, title)
}

// LibraryEntry is a tracked title as persisted by the store.
type LibraryEntry struct {
	ID            string        // Stable key: numeric provider id or "fb-<slug>"
	Title         string        // Display title, copied at add time
	Type          SeriesType    // Publication format
	Status        ReadingStatus // Reading | PlanToRead | Completed
	TotalChapters int           // Denominator for progress; may lag behind LatestChapter
	ReadChapters  int           // Invariant: 0 <= ReadChapters <= TotalChapters
	LatestChapter int           // Highest chapter ever observed from any provider (watermark)
	Genres        []string
	CoverURL      string
	CreatedAt     time.Time
	UpdatedAt     time.Time // Bumped on every field mutation
}

// Clamp enforces the progress invariant in place. Every mutation path calls
// this before the entry is handed to the store.
func (e *LibraryEntry) Clamp() {
	if e.TotalChapters < 0 {
		e.TotalChapters = 0
	}
	if e.ReadChapters < 0 {
		e.ReadChapters = 0
	}
	if e.ReadChapters > e.TotalChapters {
		e.ReadChapters = e.TotalChapters
	}
}

// Progress returns read/total as a percentage, 0 when no total is known.
func (e LibraryEntry) Progress() float64 {
	if e.TotalChapters <= 0 {
		return 0
	}
	return float64(e.ReadChapters) / float64(e.TotalChapters) * 100
}

// FormattedProgress returns the progress in a human-readable form.
func (e LibraryEntry) FormattedProgress() string {
	if e.TotalChapters <= 0 {
		return fmt.Sprintf("%d / ?", e.ReadChapters)
	}
	return fmt.Sprintf("%d / %d", e.ReadChapters, e.TotalChapters)
}

// ChapterInfo carries the chapter figures the update resolver extracted from
// a provider. Either field may be nil; a result with both nil is treated as
// no result at all.
type ChapterInfo struct {
	TotalChapters *float64
	LatestChapter *float64
}

// Usable reports whether at least one chapter figure is present.
func (c ChapterInfo) Usable() bool {
	return c.TotalChapters != nil || c.LatestChapter != nil
}

// Notification is an append-only human-readable record of a detected update.
// The store keeps only the newest MaxNotifications entries.
type Notification struct {
	ID          string
	SeriesTitle string
	Message     string
	Date        time.Time
}

// MaxNotifications caps the persisted notification log; oldest evicted first.
const MaxNotifications = 50
