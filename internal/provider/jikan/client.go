package jikan

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
	ProviderName = "jikan"

	// DefaultBaseURL is the public Jikan v4 endpoint.
	DefaultBaseURL = "https://api.jikan.moe/v4"

	defaultTimeout = 15 * time.Second
	userAgent      = "MangaTrack/1.0"
)

// Client implements domain.IDLookupProvider for the Jikan (MyAnimeList)
// aggregator. Jikan is the highest-priority source: it issues stable numeric
// ids and already reports scores on a 0-10 scale.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Jikan API client. An empty baseURL selects the public
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

// Search queries /manga by title and returns normalized results.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SeriesResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sfw", "true")

	body, err := c.doRequest(ctx, "/manga", params)
	if err != nil {
		return nil, err
	}
	if body == nil {
		// 404 from the list endpoint means no matches, not a failure.
		return []domain.SeriesResult{}, nil
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Warn("jikan response parse failed", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("jikan: %w", domain.ErrMalformedResponse)
	}

	return mapSeries(resp.Data), nil
}

// FetchByID looks up /manga/{id} directly. A 404 maps to (nil, nil): the id
// simply is not known, which is not a provider failure.
func (c *Client) FetchByID(ctx context.Context, id int) (*domain.SeriesResult, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/manga/%d", id), nil)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	var resp lookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Warn("jikan response parse failed", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("jikan: %w", domain.ErrMalformedResponse)
	}
	if resp.Data == nil {
		return nil, nil
	}

	series := mapOne(*resp.Data)
	return &series, nil
}

// doRequest performs one GET against the Jikan API. A nil body with a nil
// error signals a 404.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("jikan: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("jikan request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("jikan request failed", "error", err)
		return nil, fmt.Errorf("jikan: %w", domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("jikan request error", "status", resp.StatusCode)
		return nil, fmt.Errorf("jikan: status %d: %w", resp.StatusCode, domain.ErrProviderUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jikan: read response: %w", domain.ErrProviderUnavailable)
	}
	return body, nil
}
