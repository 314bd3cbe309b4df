package library_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangatrack/internal/domain"
	"mangatrack/internal/library"
)

func entriesNamed(titles ...string) []domain.LibraryEntry {
	out := make([]domain.LibraryEntry, len(titles))
	for i, title := range titles {
		out[i] = domain.LibraryEntry{ID: title, Title: title, Status: domain.StatusReading}
	}
	return out
}

func titlesOf(entries []domain.LibraryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}

func TestFilter(t *testing.T) {
	entries := entriesNamed("Berserk", "Solo Leveling", "Tower of God", "The Gamer")

	t.Run("empty query returns everything", func(t *testing.T) {
		assert.Len(t, library.Filter(entries, ""), 4)
		assert.Len(t, library.Filter(entries, "   "), 4)
	})

	t.Run("substring match", func(t *testing.T) {
		got := library.Filter(entries, "tower")
		require.NotEmpty(t, got)
		assert.Equal(t, "Tower of God", got[0].Title)
	})

	t.Run("subsequence match", func(t *testing.T) {
		got := library.Filter(entries, "slvl")
		require.NotEmpty(t, got)
		assert.Equal(t, "Solo Leveling", got[0].Title)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := library.Filter(entries, "BERSERK")
		require.NotEmpty(t, got)
		assert.Equal(t, "Berserk", got[0].Title)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, library.Filter(entries, "xyzzyq"))
	})
}

func TestFilterByStatus(t *testing.T) {
	entries := []domain.LibraryEntry{
		{Title: "A", Status: domain.StatusReading},
		{Title: "B", Status: domain.StatusCompleted},
		{Title: "C", Status: domain.StatusReading},
	}

	got := library.FilterByStatus(entries, domain.StatusReading)
	assert.Equal(t, []string{"A", "C"}, titlesOf(got))
	assert.Empty(t, library.FilterByStatus(entries, domain.StatusPlanToRead))
}
