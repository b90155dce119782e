// Package scrape implements the fetch-and-parse engine: one bounded network
// fetch of a weerplaza location page and a structural parse of the response
// into a domain.Record. The engine holds no state between calls and is safe
// to use concurrently for independent locations.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/malosaaa/weerplaza-scraper/internal/domain"
)

const userAgent = "weerplaza-scraper/1.0"

// Client fetches and parses weerplaza location pages.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an engine with the given site base address and overall
// per-request deadline.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Scrape fetches the page for locationPath and parses it.
//
// Outcomes:
//   - (record, nil): the page held extractable content.
//   - (nil, nil): the page loaded but held no extractable content.
//   - (nil, *domain.ScrapeError): connection, no-data (404), or parsing
//     failure. No retries happen here; retry policy belongs to the caller.
func (c *Client) Scrape(ctx context.Context, locationPath string) (*domain.Record, error) {
	loc := strings.Trim(locationPath, "/")
	if loc == "" {
		return nil, domain.NewScrapeError(domain.KindNoData, errors.New("empty location path"))
	}

	// Trailing slash avoids a redirect on every poll.
	pageURL := strings.TrimRight(c.baseURL, "/") + "/" + loc + "/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, domain.NewScrapeError(domain.KindConnection, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			c.logger.Warn("scrape timed out", "location", loc, "url", pageURL)
		} else {
			c.logger.Warn("scrape request failed", "location", loc, "url", pageURL, "error", err)
		}
		return nil, domain.NewScrapeError(domain.KindConnection, fmt.Errorf("request %s: %w", pageURL, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// 404 signals an unknown location, not an outage.
		c.logger.Warn("location page not found", "location", loc, "url", pageURL)
		return nil, domain.NewScrapeError(domain.KindNoData, fmt.Errorf("location not found (404): %s", loc))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, domain.NewScrapeError(domain.KindConnection, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, pageURL))
	}

	rec, err := parsePage(resp.Body, c.baseURL)
	if err != nil {
		return nil, domain.NewScrapeError(domain.KindParsing, err)
	}

	if rec.Empty() {
		c.logger.Debug("page held no extractable content", "location", loc)
		return nil, nil
	}
	return rec, nil
}
