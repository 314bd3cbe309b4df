package update_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangatrack/internal/adapter"
	"mangatrack/internal/domain"
	"mangatrack/internal/store"
	"mangatrack/internal/update"
)

var (
	account   = adapter.AccountConfig{Username: "reader", SyncURL: "redis://localhost:6379/0"}
	anonymous = adapter.AccountConfig{}
)

func newMemStore(t *testing.T) *store.BoltStore {
	t.Helper()
	st, err := store.NewBoltStore("")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func seedEntry(t *testing.T, st domain.Store, e domain.LibraryEntry) {
	t.Helper()
	require.NoError(t, st.Put(e))
}

func newScheduler(st domain.Store, identity domain.Identity, providers ...domain.Provider) *update.Scheduler {
	resolver := update.NewResolver(providers, adapter.NullLogger())
	return update.NewScheduler(st, resolver, identity, adapter.NullLogger())
}

func TestSweepDisabledForAnonymousSessions(t *testing.T) {
	st := newMemStore(t)
	p := &fakeProvider{name: "jikan"}
	s := newScheduler(st, anonymous, p)

	_, err := s.CheckDue(context.Background())
	assert.ErrorIs(t, err, domain.ErrSyncDisabled)

	_, err = s.CheckNow(context.Background())
	assert.ErrorIs(t, err, domain.ErrSyncDisabled)
	assert.Zero(t, p.searchCalls.Load())
}

func TestSweepAppliesNewChapter(t *testing.T) {
	st := newMemStore(t)
	seedEntry(t, st, domain.LibraryEntry{
		ID: "fb-berserk", Title: "Berserk", Status: domain.StatusReading,
		TotalChapters: 100, ReadChapters: 80, LatestChapter: 100,
		CreatedAt: time.Now().Add(-30 * 24 * time.Hour),
		UpdatedAt: time.Now().Add(-30 * 24 * time.Hour),
	})
	p := &fakeProvider{name: "jikan", results: []domain.SeriesResult{withChapters("Berserk", 105)}}
	s := newScheduler(st, account, p)

	report, err := s.CheckDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Checked)
	assert.Equal(t, []string{"Berserk"}, report.Updated)

	entry, err := st.Get("fb-berserk")
	require.NoError(t, err)
	assert.Equal(t, 105, entry.LatestChapter)
	assert.Equal(t, 105, entry.TotalChapters)
	assert.Equal(t, 80, entry.ReadChapters, "read progress must not move")

	notifs, err := st.Notifications()
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "Berserk", notifs[0].SeriesTitle)
	assert.Contains(t, notifs[0].Message, "105")
	assert.Contains(t, strings.ToLower(notifs[0].Message), "new chapter")
}

func TestSweepCountRevisionMessage(t *testing.T) {
	st := newMemStore(t)
	seedEntry(t, st, domain.LibraryEntry{
		ID: "fb-gamer", Title: "The Gamer", Status: domain.StatusReading,
		TotalChapters: 100, ReadChapters: 10, LatestChapter: 120,
		CreatedAt: time.Now().Add(-30 * 24 * time.Hour),
		UpdatedAt: time.Now().Add(-30 * 24 * time.Hour),
	})
	// Latest stays behind the stored watermark but the total grows.
	p := &fakeProvider{name: "jikan", results: []domain.SeriesResult{withChapters("The Gamer", 110)}}
	s := newScheduler(st, account, p)

	_, err := s.CheckDue(context.Background())
	require.NoError(t, err)

	entry, err := st.Get("fb-gamer")
	require.NoError(t, err)
	assert.Equal(t, 120, entry.LatestChapter, "watermark never decreases")
	assert.Equal(t, 110, entry.TotalChapters)

	notifs, err := st.Notifications()
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Contains(t, strings.ToLower(notifs[0].Message), "revised")
}

func TestSweepNoMaterialChangeIsSilent(t *testing.T) {
	st := newMemStore(t)
	old := time.Now().Add(-30 * 24 * time.Hour)
	seedEntry(t, st, domain.LibraryEntry{
		ID: "fb-berserk", Title: "Berserk", Status: domain.StatusReading,
		TotalChapters: 380, ReadChapters: 300, LatestChapter: 380,
		CreatedAt: old, UpdatedAt: old,
	})
	p := &fakeProvider{name: "jikan", results: []domain.SeriesResult{withChapters("Berserk", 380)}}
	s := newScheduler(st, account, p)

	report, err := s.CheckDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Checked)
	assert.Empty(t, report.Updated)

	entry, err := st.Get("fb-berserk")
	require.NoError(t, err)
	assert.Equal(t, old.Unix(), entry.UpdatedAt.Unix(), "silent checks must not touch the entry")

	notifs, err := st.Notifications()
	require.NoError(t, err)
	assert.Empty(t, notifs)
}

func TestSweepSkipsCompleted(t *testing.T) {
	st := newMemStore(t)
	seedEntry(t, st, domain.LibraryEntry{
		ID: "fb-done", Title: "Finished Series", Status: domain.StatusCompleted,
		TotalChapters: 50, ReadChapters: 50,
		CreatedAt: time.Now().Add(-30 * 24 * time.Hour),
		UpdatedAt: time.Now().Add(-30 * 24 * time.Hour),
	})
	p := &fakeProvider{name: "jikan", results: []domain.SeriesResult{withChapters("Finished Series", 60)}}
	s := newScheduler(st, account, p)

	report, err := s.CheckDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Checked)
	assert.Zero(t, p.searchCalls.Load())
}

func TestSweepStalenessWindow(t *testing.T) {
	st := newMemStore(t)
	// Mark a previous sweep so the first-run rule does not apply.
	require.NoError(t, st.SetMeta("last_checked", time.Now().Format(time.RFC3339)))

	seedEntry(t, st, domain.LibraryEntry{
		ID: "fb-fresh", Title: "Fresh", Status: domain.StatusReading,
		TotalChapters: 10, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	seedEntry(t, st, domain.LibraryEntry{
		ID: "fb-stale", Title: "Stale", Status: domain.StatusReading,
		TotalChapters: 10,
		CreatedAt:     time.Now().Add(-8 * 24 * time.Hour),
		UpdatedAt:     time.Now().Add(-8 * 24 * time.Hour),
	})
	p := &fakeProvider{name: "jikan"}
	s := newScheduler(st, account, p)

	report, err := s.CheckDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Checked, "only the stale entry is due")
}

func TestManualCheckCooldown(t *testing.T) {
	st := newMemStore(t)
	seedEntry(t, st, domain.LibraryEntry{
		ID: "fb-berserk", Title: "Berserk", Status: domain.StatusReading,
		TotalChapters: 380, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	p := &fakeProvider{name: "jikan", results: []domain.SeriesResult{withChapters("Berserk", 380)}}
	s := newScheduler(st, account, p)

	base := time.Now()
	s.Now = func() time.Time { return base }

	_, err := s.CheckNow(context.Background())
	require.NoError(t, err)
	calls := p.searchCalls.Load()

	// Eleven hours later the cooldown still holds and nothing is fetched.
	s.Now = func() time.Time { return base.Add(11 * time.Hour) }
	_, err = s.CheckNow(context.Background())
	assert.ErrorIs(t, err, domain.ErrCooldownActive)
	assert.Equal(t, calls, p.searchCalls.Load())

	// Past the window it runs again.
	s.Now = func() time.Time { return base.Add(13 * time.Hour) }
	_, err = s.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Greater(t, p.searchCalls.Load(), calls)
}

func TestManualCooldownSurvivesRestart(t *testing.T) {
	st := newMemStore(t)
	s := newScheduler(st, account, &fakeProvider{name: "jikan"})
	base := time.Now()
	s.Now = func() time.Time { return base }

	_, err := s.CheckNow(context.Background())
	require.NoError(t, err)

	// A fresh scheduler over the same store inherits the cooldown.
	s2 := newScheduler(st, account, &fakeProvider{name: "jikan"})
	s2.Now = func() time.Time { return base.Add(time.Hour) }
	_, err = s2.CheckNow(context.Background())
	assert.ErrorIs(t, err, domain.ErrCooldownActive)
}

func TestSweepStoreFailureIsRetryable(t *testing.T) {
	st := newMemStore(t)
	old := time.Now().Add(-30 * 24 * time.Hour)
	seedEntry(t, st, domain.LibraryEntry{
		ID: "fb-berserk", Title: "Berserk", Status: domain.StatusReading,
		TotalChapters: 100, LatestChapter: 100,
		CreatedAt: old, UpdatedAt: old,
	})
	p := &fakeProvider{name: "jikan", results: []domain.SeriesResult{withChapters("Berserk", 105)}}

	failing := &failingStore{Store: st}
	s := newScheduler(failing, account, p)

	report, err := s.CheckDue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Updated)
	assert.Equal(t, 1, report.Failed)

	notifs, err := st.Notifications()
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Contains(t, strings.ToLower(notifs[0].Message), "retried")

	// The entry keeps its old figures, so the next sweep sees the update again.
	entry, err := st.Get("fb-berserk")
	require.NoError(t, err)
	assert.Equal(t, 100, entry.LatestChapter)
}

// failingStore rejects entry writes but lets everything else through.
type failingStore struct {
	domain.Store
}

func (f *failingStore) Patch(id string, fn func(*domain.LibraryEntry)) error {
	return domain.ErrStoreWrite
}
