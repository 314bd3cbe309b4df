package update

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mangatrack/internal/domain"
)

const (
	// AutoCheckInterval is how stale an entry must be before the periodic
	// sweep re-checks it.
	AutoCheckInterval = 7 * 24 * time.Hour

	// ManualCooldown throttles user-triggered full sweeps.
	ManualCooldown = 12 * time.Hour

	// sweepWorkers bounds concurrent provider lookups during a sweep.
	sweepWorkers = 4

	metaLastChecked     = "last_checked"
	metaLastManualCheck = "last_manual_check"
)

// Report summarizes one sweep.
type Report struct {
	Checked int
	Updated []string
	Failed  int
}

// Scheduler runs update sweeps over the library: it decides which entries
// are due, resolves current chapter figures through the cascade, applies
// material updates to the store, and records a notification per update.
// Sweeps are disabled entirely for anonymous sessions.
type Scheduler struct {
	store    domain.Store
	resolver *Resolver
	identity domain.Identity
	logger   *slog.Logger

	// Now is the sweep clock, overridable in tests.
	Now func() time.Time

	mu         sync.Mutex
	lastManual time.Time
}

func NewScheduler(store domain.Store, resolver *Resolver, identity domain.Identity, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		store:    store,
		resolver: resolver,
		identity: identity,
		logger:   logger,
		Now:      time.Now,
	}
	if raw, ok := store.Meta(metaLastManualCheck); ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			s.lastManual = t
		}
	}
	return s
}

// CheckDue runs the periodic sweep: every non-completed entry whose last
// modification is older than AutoCheckInterval is re-checked. The very
// first sweep on a store checks everything.
func (s *Scheduler) CheckDue(ctx context.Context) (Report, error) {
	return s.sweep(ctx, false)
}

// CheckNow runs a user-triggered full sweep of the library, subject to the
// manual cooldown. A second trigger inside the window fails with
// domain.ErrCooldownActive without contacting any provider.
func (s *Scheduler) CheckNow(ctx context.Context) (Report, error) {
	if !s.identity.HasDurableIdentity() {
		return Report{}, domain.ErrSyncDisabled
	}

	s.mu.Lock()
	now := s.Now()
	if !s.lastManual.IsZero() {
		if elapsed := now.Sub(s.lastManual); elapsed < ManualCooldown {
			s.mu.Unlock()
			return Report{}, fmt.Errorf("next manual check in %s: %w",
				(ManualCooldown - elapsed).Round(time.Minute), domain.ErrCooldownActive)
		}
	}
	s.lastManual = now
	s.mu.Unlock()

	if err := s.store.SetMeta(metaLastManualCheck, now.Format(time.RFC3339)); err != nil {
		s.logger.Warn("could not persist manual check time", "error", err)
	}
	return s.sweep(ctx, true)
}

func (s *Scheduler) sweep(ctx context.Context, force bool) (Report, error) {
	if !s.identity.HasDurableIdentity() {
		return Report{}, domain.ErrSyncDisabled
	}

	entries, err := s.store.Entries()
	if err != nil {
		return Report{}, err
	}
	now := s.Now()
	_, sweptBefore := s.store.Meta(metaLastChecked)

	var due []domain.LibraryEntry
	for _, e := range entries {
		if e.Status == domain.StatusCompleted {
			continue
		}
		if force || !sweptBefore || s.stale(e, now) {
			due = append(due, e)
		}
	}

	report := Report{Checked: len(due)}
	if len(due) > 0 {
		var (
			mu   sync.Mutex
			wg   sync.WaitGroup
			jobs = make(chan domain.LibraryEntry)
		)
		workers := sweepWorkers
		if len(due) < workers {
			workers = len(due)
		}
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for e := range jobs {
					updated, failed := s.checkEntry(ctx, e, now)
					mu.Lock()
					if updated {
						report.Updated = append(report.Updated, e.Title)
					}
					if failed {
						report.Failed++
					}
					mu.Unlock()
				}
			}()
		}
		for _, e := range due {
			jobs <- e
		}
		close(jobs)
		wg.Wait()
	}

	if err := s.store.SetMeta(metaLastChecked, now.Format(time.RFC3339)); err != nil {
		s.logger.Warn("could not persist sweep time", "error", err)
	}
	s.logger.Info("update sweep finished",
		"checked", report.Checked, "updated", len(report.Updated), "failed", report.Failed)
	return report, nil
}

// stale reports whether an entry has gone unchecked long enough to be due.
// Any write to the entry counts as a check, since applied updates refresh
// the timestamp.
func (s *Scheduler) stale(e domain.LibraryEntry, now time.Time) bool {
	ref := e.UpdatedAt
	if ref.IsZero() {
		ref = e.CreatedAt
	}
	if ref.IsZero() {
		return true
	}
	return now.Sub(ref) > AutoCheckInterval
}

// checkEntry resolves one entry and applies the result when it is material.
// It returns whether an update was applied and whether the check failed in
// a way worth surfacing.
func (s *Scheduler) checkEntry(ctx context.Context, e domain.LibraryEntry, now time.Time) (updated, failed bool) {
	info := s.resolver.Resolve(ctx, e.ID, e.Title)
	if info == nil || !info.Usable() {
		return false, false
	}

	resolvedLatest := 0
	if info.LatestChapter != nil {
		resolvedLatest = int(*info.LatestChapter)
	}
	resolvedTotal := 0
	if info.TotalChapters != nil {
		resolvedTotal = int(*info.TotalChapters)
	}

	newChapter := resolvedLatest > e.LatestChapter
	countRevised := resolvedTotal > e.TotalChapters
	if !newChapter && !countRevised {
		return false, false
	}

	oldLatest, oldTotal := e.LatestChapter, e.TotalChapters
	err := s.store.Patch(e.ID, func(cur *domain.LibraryEntry) {
		newTotal := cur.TotalChapters
		if resolvedTotal > newTotal {
			newTotal = resolvedTotal
		}
		if resolvedLatest > newTotal {
			newTotal = resolvedLatest
		}
		cur.TotalChapters = newTotal
		if resolvedLatest > cur.LatestChapter {
			cur.LatestChapter = resolvedLatest
		}
		cur.Clamp()
		cur.UpdatedAt = now
	})
	if err != nil {
		s.logger.Error("could not save update", "title", e.Title, "error", err)
		s.notify(e.Title, "An update was found but could not be saved. It will be retried on the next check.", now)
		return false, true
	}

	var msg string
	if newChapter {
		msg = fmt.Sprintf("New chapter out: chapter %d is available (you last saw %d).", resolvedLatest, oldLatest)
	} else {
		msg = fmt.Sprintf("Chapter count revised: now %d total (was %d).", resolvedTotal, oldTotal)
	}
	s.notify(e.Title, msg, now)
	s.logger.Info("entry updated", "title", e.Title,
		"latest", resolvedLatest, "total", resolvedTotal)
	return true, false
}

func (s *Scheduler) notify(title, message string, now time.Time) {
	n := domain.Notification{
		ID:          uuid.NewString(),
		SeriesTitle: title,
		Message:     message,
		Date:        now,
	}
	if err := s.store.AppendNotification(n); err != nil {
		s.logger.Error("could not record notification", "title", title, "error", err)
	}
}
