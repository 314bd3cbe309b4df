package mangadex_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangatrack/internal/adapter"
	"mangatrack/internal/domain"
	"mangatrack/internal/provider/mangadex"
)

const searchBody = `{
	"result": "ok",
	"data": [
		{
			"id": "32d76d19-8a05-4db0-9fc2-e0b0648fe9d0",
			"type": "manga",
			"attributes": {
				"title": {"en": "Solo Leveling"},
				"description": {"en": "Ten years ago the Gate appeared."},
				"publicationDemographic": null,
				"lastChapter": "179",
				"status": "completed",
				"tags": [
					{"id": "t1", "type": "tag", "attributes": {"name": {"en": "Action"}, "group": "genre"}},
					{"id": "t2", "type": "tag", "attributes": {"name": {"en": "Web Comic"}, "group": "format"}}
				]
			},
			"relationships": [
				{"id": "c1", "type": "cover_art", "attributes": {"fileName": "cover.jpg"}}
			]
		},
		{
			"id": "b73aa6e4-0c02-431e-8b12-b8f23a7a75c9",
			"type": "manga",
			"attributes": {
				"title": {"ja-ro": "Dungeon Reset"},
				"description": {},
				"publicationDemographic": "shounen",
				"lastChapter": null,
				"status": "ongoing",
				"tags": []
			},
			"relationships": []
		}
	]
}`

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/manga", r.URL.Path)
		assert.Equal(t, "cover_art", r.URL.Query().Get("includes[]"))
		w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := mangadex.New(srv.URL, adapter.NullLogger())
	results, err := c.Search(context.Background(), "solo leveling")
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Zero(t, first.ExternalID, "UUID ids never become numeric ids")
	assert.Equal(t, "fb-solo-leveling", first.LibraryID())
	assert.Equal(t, "Solo Leveling", first.Title)
	require.NotNil(t, first.ChapterCount)
	assert.Equal(t, 179.0, *first.ChapterCount)
	assert.Nil(t, first.Score, "search responses carry no score")
	assert.Equal(t, []string{"Action"}, first.Genres, "non-genre tag groups are dropped")
	assert.Equal(t,
		"https://uploads.mangadex.org/covers/32d76d19-8a05-4db0-9fc2-e0b0648fe9d0/cover.jpg.256.jpg",
		first.CoverURL)
	assert.Equal(t, "mangadex", first.Source)

	second := results[1]
	assert.Equal(t, "Dungeon Reset", second.Title, "non-English title fallback")
	assert.Nil(t, second.ChapterCount)
	assert.Empty(t, second.CoverURL)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := mangadex.New(srv.URL, adapter.NullLogger())
	_, err := c.Search(context.Background(), "solo leveling")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestSearchMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{"))
	}))
	defer srv.Close()

	c := mangadex.New(srv.URL, adapter.NullLogger())
	_, err := c.Search(context.Background(), "solo leveling")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}
