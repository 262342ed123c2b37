// Package scraper harvests the Civ6 fandom wiki and the BBG mod wiki into
// intermediate documents. Extraction is selector-driven with goquery; the
// shared fetcher paces requests and retries transient failures.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// FetchConfig controls request pacing and retry behavior.
type FetchConfig struct {
	UserAgent  string
	Timeout    time.Duration
	Delay      time.Duration // minimum gap between requests
	MaxRetries int
}

// DefaultFetchConfig mirrors the polite defaults used against fandom wikis.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		UserAgent:  defaultUserAgent,
		Timeout:    10 * time.Second,
		Delay:      time.Second,
		MaxRetries: 3,
	}
}

// Fetcher is a rate-limited HTTP client shared by the scrapers.
type Fetcher struct {
	client *http.Client
	cfg    FetchConfig
	logger *slog.Logger

	mu      sync.Mutex
	lastHit time.Time
}

// NewFetcher builds a fetcher. A nil logger discards fetch logging.
func NewFetcher(cfg FetchConfig, logger *slog.Logger) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Fetch GETs a URL, pacing requests and retrying server errors with
// exponential backoff. 4xx responses fail immediately: retrying a missing
// wiki page never helps.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= f.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := fetchBackoff(attempt - 1)
			f.logger.Warn("retrying fetch", "url", url, "attempt", attempt, "wait", wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if err := f.pace(ctx); err != nil {
			return nil, err
		}

		body, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: %s", resp.Status)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("client error: %s", resp.Status)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	return body, false, nil
}

// pace enforces the minimum gap between requests.
func (f *Fetcher) pace(ctx context.Context) error {
	f.mu.Lock()
	wait := f.cfg.Delay - time.Since(f.lastHit)
	f.lastHit = time.Now().Add(wait)
	f.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fetchBackoff returns the wait for retry attempt n (0-indexed) with jitter.
func fetchBackoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}
