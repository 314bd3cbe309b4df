package kitsu

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
	ProviderName = "kitsu"

	// DefaultBaseURL is the public Kitsu edge API endpoint.
	DefaultBaseURL = "https://kitsu.io/api/edge"

	defaultTimeout = 15 * time.Second
	userAgent      = "MangaTrack/1.0"
)

// Client implements domain.Provider for the Kitsu community database. Kitsu
// ratings arrive as 0-100 strings and are rescaled to 0-10 by the mapper.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Kitsu API client. An empty baseURL selects the public
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

// Search queries /manga with a text filter and returns normalized results.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SeriesResult, error) {
	params := url.Values{}
	params.Set("filter[text]", query)

	reqURL := fmt.Sprintf("%s/manga?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("kitsu: create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("kitsu request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("kitsu request failed", "error", err)
		return nil, fmt.Errorf("kitsu: %w", domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("kitsu request error", "status", resp.StatusCode)
		return nil, fmt.Errorf("kitsu: status %d: %w", resp.StatusCode, domain.ErrProviderUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kitsu: read response: %w", domain.ErrProviderUnavailable)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn("kitsu response parse failed", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("kitsu: %w", domain.ErrMalformedResponse)
	}

	return mapSeries(parsed.Data), nil
}
