package anilist_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangatrack/internal/adapter"
	"mangatrack/internal/domain"
	"mangatrack/internal/provider/anilist"
)

const searchBody = `{
	"data": {
		"Page": {
			"media": [
				{
					"id": 30013,
					"title": {"romaji": "One Piece", "english": "One Piece", "native": "ONE PIECE"},
					"format": "MANGA",
					"chapters": 1100,
					"averageScore": 92,
					"description": "Gold Roger was known as the Pirate King.",
					"genres": ["Action", "Adventure"],
					"coverImage": {"large": "https://cdn/op.jpg"}
				},
				{
					"id": 105398,
					"title": {"romaji": "", "english": "", "native": "나 혼자만 레벨업"},
					"format": "ONE_SHOT",
					"chapters": null,
					"averageScore": null,
					"description": null,
					"genres": [],
					"coverImage": {"large": ""}
				}
			]
		}
	}
}`

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "media(search: $search, type: MANGA")
		assert.Equal(t, "one piece", req.Variables["search"])

		w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := anilist.New(srv.URL, adapter.NullLogger())
	results, err := c.Search(context.Background(), "one piece")
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Zero(t, first.ExternalID, "AniList ids are not valid lookup ids")
	assert.Equal(t, "fb-one-piece", first.LibraryID(), "identity falls back to the title slug")
	assert.Equal(t, "One Piece", first.Title)
	assert.Equal(t, domain.TypeManga, first.Type)
	require.NotNil(t, first.ChapterCount)
	assert.Equal(t, 1100.0, *first.ChapterCount)
	require.NotNil(t, first.Score)
	assert.InDelta(t, 9.2, *first.Score, 0.001, "averageScore rescales to 0-10")
	assert.Equal(t, []string{"Action", "Adventure"}, first.Genres)
	assert.Equal(t, "https://cdn/op.jpg", first.CoverURL)
	assert.Equal(t, "anilist", first.Source)

	second := results[1]
	assert.Equal(t, "나 혼자만 레벨업", second.Title, "native title is the last fallback")
	assert.Equal(t, domain.TypeOther, second.Type)
	assert.Nil(t, second.Score)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := anilist.New(srv.URL, adapter.NullLogger())
	_, err := c.Search(context.Background(), "one piece")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}
