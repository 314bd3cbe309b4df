package mangadex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"mangatrack/internal/domain"
)

const (
	// ProviderName is the stable identifier used in priority ordering and
	// failure diagnostics.
	ProviderName = "mangadex"

	// DefaultBaseURL is the public MangaDex API endpoint.
	DefaultBaseURL = "https://api.mangadex.org"

	// coverBaseURL serves the cover images referenced by cover_art
	// relationships.
	coverBaseURL = "https://uploads.mangadex.org/covers"

	defaultTimeout = 15 * time.Second
	userAgent      = "MangaTrack/1.0"
)

// Client implements domain.Provider for the MangaDex chapter database.
// MangaDex ids are UUIDs, so every result carries ExternalID 0 and falls
// back to slug-based library keys.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a MangaDex API client. An empty baseURL selects the public
// endpoint; tests point it at a local server.
func New(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// Name implements domain.Provider.
func (c *Client) Name() string { return ProviderName }

// Search queries /manga by title, asking for cover_art relationships so the
// mapper can build image URLs without a second round trip.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SeriesResult, error) {
	params := url.Values{}
	params.Set("title", query)
	params.Add("includes[]", "cover_art")

	reqURL := fmt.Sprintf("%s/manga?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("mangadex: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("mangadex request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("mangadex request failed", "error", err)
		return nil, fmt.Errorf("mangadex: %w", domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("mangadex request error", "status", resp.StatusCode)
		return nil, fmt.Errorf("mangadex: status %d: %w", resp.StatusCode, domain.ErrProviderUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mangadex: read response: %w", domain.ErrProviderUnavailable)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn("mangadex response parse failed", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("mangadex: %w", domain.ErrMalformedResponse)
	}

	return mapSeries(parsed.Data), nil
}
