package library_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangatrack/internal/adapter"
	"mangatrack/internal/domain"
	"mangatrack/internal/library"
	"mangatrack/internal/store"
)

func newService(t *testing.T) (*library.Service, *store.BoltStore) {
	t.Helper()
	st, err := store.NewBoltStore("")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return library.NewService(st, adapter.NullLogger()), st
}

func result(id int, title string, chapters float64) domain.SeriesResult {
	return domain.SeriesResult{
		ExternalID:   id,
		Title:        title,
		Type:         domain.TypeManga,
		ChapterCount: &chapters,
		Source:       "jikan",
	}
}

func TestAdd(t *testing.T) {
	svc, _ := newService(t)

	entry, err := svc.Add(result(2, "Berserk", 380))
	require.NoError(t, err)
	assert.Equal(t, "2", entry.ID)
	assert.Equal(t, domain.StatusPlanToRead, entry.Status)
	assert.Equal(t, 380, entry.TotalChapters)
	assert.Equal(t, 380, entry.LatestChapter)
	assert.Zero(t, entry.ReadChapters)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestAddDuplicate(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Add(result(2, "Berserk", 380))
	require.NoError(t, err)

	_, err = svc.Add(result(2, "Berserk (again)", 100))
	assert.ErrorIs(t, err, domain.ErrDuplicateSeries)
}

func TestAddIDLessDuplicateByTitle(t *testing.T) {
	svc, _ := newService(t)

	// Added through the numeric-id provider first.
	_, err := svc.Add(result(2, "Berserk", 380))
	require.NoError(t, err)

	// The same series found on an id-less provider derives a different
	// key, but the title still identifies it.
	_, err = svc.Add(domain.SeriesResult{Title: "berserk", Source: "mangadex"})
	assert.ErrorIs(t, err, domain.ErrDuplicateSeries)

	// A genuinely different id-less title is fine.
	_, err = svc.Add(domain.SeriesResult{Title: "Solo Leveling", Source: "mangadex"})
	assert.NoError(t, err)
}

func TestAddWithoutNumericID(t *testing.T) {
	svc, _ := newService(t)

	entry, err := svc.Add(domain.SeriesResult{Title: "Solo Leveling", Source: "mangadex"})
	require.NoError(t, err)
	assert.Equal(t, "fb-solo-leveling", entry.ID)
	assert.Zero(t, entry.TotalChapters)
}

func TestSetReadChaptersClampsAndTransitions(t *testing.T) {
	svc, _ := newService(t)
	added, err := svc.Add(result(2, "Berserk", 100))
	require.NoError(t, err)

	// Progress moves off zero: planned becomes reading.
	entry, err := svc.SetReadChapters(added.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, entry.ReadChapters)
	assert.Equal(t, domain.StatusReading, entry.Status)

	// Over the total: clamped and completed.
	entry, err = svc.SetReadChapters(added.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, 100, entry.ReadChapters)
	assert.Equal(t, domain.StatusCompleted, entry.Status)

	// Negative: clamped to zero, but a completed entry stays completed
	// until the status is changed explicitly.
	entry, err = svc.SetReadChapters(added.ID, -5)
	require.NoError(t, err)
	assert.Zero(t, entry.ReadChapters)
	assert.Equal(t, domain.StatusCompleted, entry.Status)
}

func TestSetReadChaptersBackToZeroReplans(t *testing.T) {
	svc, _ := newService(t)
	added, err := svc.Add(result(2, "Berserk", 100))
	require.NoError(t, err)

	_, err = svc.SetReadChapters(added.ID, 10)
	require.NoError(t, err)

	entry, err := svc.SetReadChapters(added.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlanToRead, entry.Status)
}

func TestIncrementDecrement(t *testing.T) {
	svc, _ := newService(t)
	added, err := svc.Add(result(2, "Berserk", 3))
	require.NoError(t, err)

	entry, err := svc.Increment(added.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.ReadChapters)
	assert.Equal(t, domain.StatusReading, entry.Status)

	for i := 0; i < 5; i++ {
		entry, err = svc.Increment(added.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, entry.ReadChapters, "increment saturates at the total")
	assert.Equal(t, domain.StatusCompleted, entry.Status)

	entry, err = svc.Decrement(added.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.ReadChapters)
}

func TestSetStatusSideEffects(t *testing.T) {
	svc, _ := newService(t)
	added, err := svc.Add(result(2, "Berserk", 100))
	require.NoError(t, err)
	_, err = svc.SetReadChapters(added.ID, 40)
	require.NoError(t, err)

	entry, err := svc.SetStatus(added.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, 100, entry.ReadChapters, "completing snaps progress to the total")

	entry, err = svc.SetStatus(added.ID, domain.StatusPlanToRead)
	require.NoError(t, err)
	assert.Zero(t, entry.ReadChapters, "re-planning resets progress")
}

func TestSetTotalChapters(t *testing.T) {
	svc, _ := newService(t)
	added, err := svc.Add(result(2, "Berserk", 100))
	require.NoError(t, err)
	_, err = svc.SetReadChapters(added.ID, 80)
	require.NoError(t, err)

	// Shrinking the total re-clamps progress and completes the entry.
	entry, err := svc.SetTotalChapters(added.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, entry.TotalChapters)
	assert.Equal(t, 50, entry.ReadChapters)
	assert.Equal(t, domain.StatusCompleted, entry.Status)
	assert.Equal(t, 100, entry.LatestChapter, "watermark keeps the old high")

	entry, err = svc.SetTotalChapters(added.ID, 200)
	require.NoError(t, err)
	assert.Equal(t, 200, entry.TotalChapters)
	assert.Equal(t, 200, entry.LatestChapter)
}

func TestRemoveAndRestore(t *testing.T) {
	svc, _ := newService(t)
	added, err := svc.Add(result(2, "Berserk", 100))
	require.NoError(t, err)
	_, err = svc.SetReadChapters(added.ID, 40)
	require.NoError(t, err)

	removed, err := svc.Remove(added.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, removed.ReadChapters)

	_, err = svc.Get(added.ID)
	assert.ErrorIs(t, err, domain.ErrSeriesNotFound)

	require.NoError(t, svc.Restore(removed))
	restored, err := svc.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, restored.ReadChapters, "restore keeps progress")

	assert.ErrorIs(t, svc.Restore(removed), domain.ErrDuplicateSeries)
}

func TestImportReplacesLibrary(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Add(result(2, "Berserk", 100))
	require.NoError(t, err)

	count, err := svc.Import([]domain.LibraryEntry{
		{ID: "5", Title: "Vagabond", Status: domain.StatusReading, TotalChapters: 327, ReadChapters: 400},
		{ID: "", Title: "broken"}, // skipped
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = svc.Get("2")
	assert.ErrorIs(t, err, domain.ErrSeriesNotFound, "import replaces the previous library")

	got, err := svc.Get("5")
	require.NoError(t, err)
	assert.Equal(t, 327, got.ReadChapters, "imported entries are re-clamped")
}

func TestRemoveMissing(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Remove("nope")
	assert.ErrorIs(t, err, domain.ErrSeriesNotFound)
}
