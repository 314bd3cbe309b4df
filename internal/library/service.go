// Package library orchestrates the reading list: adding and removing
// series, tracking read progress, and the status transitions that follow
// from progress changes.
package library

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mangatrack/internal/domain"
)

// Service wraps the store with the progress and status rules of the
// reading list. All chapter math goes through here so the invariants
// (read within [0, total], latest never decreasing) hold no matter which
// command touched the entry.
type Service struct {
	store  domain.Store
	logger *slog.Logger

	// now is the clock for entry timestamps, overridable in tests.
	now func() time.Time
}

// NewService creates a library service over a store.
func NewService(store domain.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Add inserts a search result into the library as a plan-to-read entry.
// A series already present, by derived id or (for id-less results) by
// case-insensitive title, is rejected with domain.ErrDuplicateSeries.
func (s *Service) Add(series domain.SeriesResult) (domain.LibraryEntry, error) {
	id := series.LibraryID()
	if _, err := s.store.Get(id); err == nil {
		return domain.LibraryEntry{}, fmt.Errorf("%q: %w", series.Title, domain.ErrDuplicateSeries)
	}

	// An id-less result can name a series that was added under a numeric
	// key, so the title itself is checked too.
	if series.ExternalID == 0 {
		entries, err := s.store.Entries()
		if err != nil {
			return domain.LibraryEntry{}, err
		}
		for _, e := range entries {
			if strings.EqualFold(e.Title, series.Title) {
				return domain.LibraryEntry{}, fmt.Errorf("%q: %w", series.Title, domain.ErrDuplicateSeries)
			}
		}
	}

	now := s.now()
	total := 0
	if series.ChapterCount != nil {
		total = int(*series.ChapterCount)
	}
	entry := domain.LibraryEntry{
		ID:            id,
		Title:         series.Title,
		Type:          series.Type,
		Status:        domain.StatusPlanToRead,
		TotalChapters: total,
		LatestChapter: total,
		Genres:        series.Genres,
		CoverURL:      series.CoverURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Put(entry); err != nil {
		return domain.LibraryEntry{}, err
	}
	s.logger.Info("series added", "id", id, "title", entry.Title, "source", series.Source)
	return entry, nil
}

// Remove deletes an entry and returns it so callers can offer an undo.
func (s *Service) Remove(id string) (domain.LibraryEntry, error) {
	entry, err := s.store.Get(id)
	if err != nil {
		return domain.LibraryEntry{}, err
	}
	if err := s.store.Remove(id); err != nil {
		return domain.LibraryEntry{}, err
	}
	s.logger.Info("series removed", "id", id, "title", entry.Title)
	return entry, nil
}

// Restore puts a previously removed entry back, keeping its progress and
// timestamps. Re-adding over an existing entry is rejected the same way
// Add is.
func (s *Service) Restore(entry domain.LibraryEntry) error {
	if _, err := s.store.Get(entry.ID); err == nil {
		return fmt.Errorf("%q: %w", entry.Title, domain.ErrDuplicateSeries)
	}
	if err := s.store.Put(entry); err != nil {
		return err
	}
	s.logger.Info("series restored", "id", entry.ID, "title", entry.Title)
	return nil
}

// Import replaces the whole library with a previously exported set of
// entries, used for backup restore. Entries are re-clamped on the way in
// so a hand-edited backup cannot break the progress invariant. Returns the
// number of entries written.
func (s *Service) Import(entries []domain.LibraryEntry) (int, error) {
	current, err := s.store.Entries()
	if err != nil {
		return 0, err
	}
	for _, e := range current {
		if err := s.store.Remove(e.ID); err != nil {
			return 0, err
		}
	}

	count := 0
	for _, e := range entries {
		if e.ID == "" || e.Title == "" {
			s.logger.Warn("skipping malformed backup entry", "id", e.ID)
			continue
		}
		e.Clamp()
		if err := s.store.Put(e); err != nil {
			return count, err
		}
		count++
	}
	s.logger.Info("library imported", "entries", count)
	return count, nil
}

// Get returns one entry by id.
func (s *Service) Get(id string) (domain.LibraryEntry, error) {
	return s.store.Get(id)
}

// Entries returns every entry in the library.
func (s *Service) Entries() ([]domain.LibraryEntry, error) {
	return s.store.Entries()
}

// SetReadChapters sets read progress, clamped to [0, total chapters], and
// applies the follow-on status transitions: reaching the known total marks
// the entry completed, moving off zero while planned starts it, and
// dropping back to zero while reading re-plans it.
func (s *Service) SetReadChapters(id string, read int) (domain.LibraryEntry, error) {
	return s.patch(id, func(e *domain.LibraryEntry) {
		e.ReadChapters = read
		e.Clamp()
		switch {
		case e.TotalChapters > 0 && e.ReadChapters >= e.TotalChapters:
			e.Status = domain.StatusCompleted
		case e.ReadChapters > 0 && e.Status == domain.StatusPlanToRead:
			e.Status = domain.StatusReading
		case e.ReadChapters == 0 && e.Status == domain.StatusReading:
			e.Status = domain.StatusPlanToRead
		}
	})
}

// Increment advances read progress by one chapter.
func (s *Service) Increment(id string) (domain.LibraryEntry, error) {
	cur, err := s.store.Get(id)
	if err != nil {
		return domain.LibraryEntry{}, err
	}
	return s.SetReadChapters(id, cur.ReadChapters+1)
}

// Decrement moves read progress back by one chapter.
func (s *Service) Decrement(id string) (domain.LibraryEntry, error) {
	cur, err := s.store.Get(id)
	if err != nil {
		return domain.LibraryEntry{}, err
	}
	return s.SetReadChapters(id, cur.ReadChapters-1)
}

// SetStatus changes reading status directly. Completing an entry snaps
// progress to the known total; re-planning it resets progress to zero.
func (s *Service) SetStatus(id string, status domain.ReadingStatus) (domain.LibraryEntry, error) {
	return s.patch(id, func(e *domain.LibraryEntry) {
		e.Status = status
		switch status {
		case domain.StatusCompleted:
			if e.TotalChapters > 0 {
				e.ReadChapters = e.TotalChapters
			}
		case domain.StatusPlanToRead:
			e.ReadChapters = 0
		}
		e.Clamp()
	})
}

// SetTotalChapters overrides the known chapter total by hand, for series
// no provider reports correctly. Progress is re-clamped against the new
// total; the latest-seen chapter keeps its high-water mark.
func (s *Service) SetTotalChapters(id string, total int) (domain.LibraryEntry, error) {
	if total < 0 {
		total = 0
	}
	return s.patch(id, func(e *domain.LibraryEntry) {
		e.TotalChapters = total
		if total > e.LatestChapter {
			e.LatestChapter = total
		}
		e.Clamp()
		if e.TotalChapters > 0 && e.ReadChapters >= e.TotalChapters {
			e.Status = domain.StatusCompleted
		}
	})
}

func (s *Service) patch(id string, fn func(*domain.LibraryEntry)) (domain.LibraryEntry, error) {
	err := s.store.Patch(id, func(e *domain.LibraryEntry) {
		fn(e)
		e.UpdatedAt = s.now()
	})
	if err != nil {
		return domain.LibraryEntry{}, err
	}
	return s.store.Get(id)
}
