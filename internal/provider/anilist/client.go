package anilist

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shurcooL/graphql"

	"mangatrack/internal/domain"
)

const (
	// ProviderName is the stable identifier used in priority ordering and
	// failure diagnostics.
	ProviderName = "anilist"

	// DefaultEndpoint is the public AniList GraphQL endpoint.
	DefaultEndpoint = "https://graphql.anilist.co"

	defaultTimeout = 15 * time.Second
)

// Client implements domain.Provider for the AniList GraphQL catalog.
// AniList reports averageScore on a 0-100 scale, rescaled to 0-10 here.
type Client struct {
	gql    *graphql.Client
	logger *slog.Logger
}

// New creates an AniList client. An empty endpoint selects the public API;
// tests point it at a local server.
func New(endpoint string, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := &http.Client{Timeout: defaultTimeout}
	return &Client{
		gql:    graphql.NewClient(endpoint, httpClient),
		logger: logger,
	}
}

// Name implements domain.Provider.
func (c *Client) Name() string { return ProviderName }

// mediaQuery is the shape of one Page of manga media. The graphql tags are
// the only place query text lives; response decoding is structural.
type mediaQuery struct {
	Page struct {
		Media []media `graphql:"media(search: $search, type: MANGA, sort: [SEARCH_MATCH])"`
	} `graphql:"Page(page: 1, perPage: 10)"`
}

type media struct {
	ID    graphql.Int
	Title struct {
		Romaji  graphql.String
		English graphql.String
		Native  graphql.String
	}
	Format       graphql.String
	Chapters     *graphql.Int
	AverageScore *graphql.Int
	Description  *graphql.String
	Genres       []graphql.String
	CoverImage   struct {
		Large graphql.String
	}
}

// Search queries the Media search and returns normalized results. GraphQL
// transport and response-shape errors are indistinguishable through the
// client, so both surface as an unavailable provider.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SeriesResult, error) {
	var q mediaQuery
	variables := map[string]interface{}{
		"search": graphql.String(query),
	}

	c.logger.Debug("anilist request", "search", query)

	if err := c.gql.Query(ctx, &q, variables); err != nil {
		c.logger.Warn("anilist request failed", "error", err)
		return nil, fmt.Errorf("anilist: %w", domain.ErrProviderUnavailable)
	}

	results := make([]domain.SeriesResult, 0, len(q.Page.Media))
	for _, m := range q.Page.Media {
		results = append(results, mapMedia(m))
	}
	return results, nil
}

// mapMedia converts one AniList media node to the normalized shape.
func mapMedia(m media) domain.SeriesResult {
	var chapters *float64
	if m.Chapters != nil {
		n := float64(*m.Chapters)
		chapters = &n
	}

	var score *float64
	if m.AverageScore != nil {
		s := float64(*m.AverageScore) / 10
		score = &s
	}

	var synopsis *string
	if m.Description != nil && *m.Description != "" {
		s := string(*m.Description)
		synopsis = &s
	}

	genres := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		genres = append(genres, string(g))
	}

	return domain.SeriesResult{
		// AniList ids are numeric but foreign to the by-id lookup's id
		// space, so identity stays slug-based.
		ExternalID:   0,
		Title:        pickTitle(m),
		Type:         domain.ParseSeriesType(string(m.Format)),
		ChapterCount: chapters,
		Score:        score,
		Synopsis:     synopsis,
		Genres:       genres,
		CoverURL:     string(m.CoverImage.Large),
		Source:       ProviderName,
	}
}

// pickTitle prefers the romanized variant, then english, then native.
func pickTitle(m media) string {
	for _, t := range []string{
		string(m.Title.Romaji),
		string(m.Title.English),
		string(m.Title.Native),
	} {
		if t != "" {
			return t
		}
	}
	return ""
}
