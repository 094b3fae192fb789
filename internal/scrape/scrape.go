// Package scrape coordinates a full wiki scrape: one sequential
// enumeration pass, then bounded-concurrency page extraction with
// rate-limit-aware retry and backoff.
package scrape

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"wikiharvest/internal/config"
	"wikiharvest/internal/extract"
	"wikiharvest/internal/types"
	"wikiharvest/internal/wiki"
)

// Target is one resolved scrape destination: a canonical api.php URL
// plus an optional compiled title filter. Immutable once built.
type Target struct {
	APIURL string
	Filter *regexp.Regexp
}

// Stats tracks counters for one scrape run.
type Stats struct {
	PagesScraped  atomic.Int64
	PagesSkipped  atomic.Int64
	PagesFailed   atomic.Int64
	Retries       atomic.Int64
	RateLimitHits atomic.Int64
	StartTime     time.Time
}

// Snapshot returns a copy of stats safe for reading.
func (s *Stats) Snapshot() map[string]any {
	return map[string]any{
		"pages_scraped":   s.PagesScraped.Load(),
		"pages_skipped":   s.PagesSkipped.Load(),
		"pages_failed":    s.PagesFailed.Load(),
		"retries":         s.Retries.Load(),
		"rate_limit_hits": s.RateLimitHits.Load(),
		"elapsed":         time.Since(s.StartTime).String(),
	}
}

// Scraper fans page extraction out to a worker pool after a single
// enumeration pass. Safe for concurrent Run calls; each run owns its
// own result set and counters.
type Scraper struct {
	client    *wiki.Client
	extractor *extract.Extractor
	logger    *slog.Logger
}

// New creates a Scraper.
func New(client *wiki.Client, extractor *extract.Extractor, logger *slog.Logger) *Scraper {
	return &Scraper{
		client:    client,
		extractor: extractor,
		logger:    logger.With("component", "scraper"),
	}
}

// Run scrapes every page of the wiki behind target.APIURL. It fails
// only when the page listing itself fails; individual page errors are
// retried or dropped, never fatal. Result order is completion order.
func (s *Scraper) Run(ctx context.Context, target Target, cfg config.ProfileConfig) ([]types.ScrapedPage, error) {
	logger := s.logger.With("api_url", target.APIURL)
	stats := &Stats{StartTime: time.Now()}

	titles, err := s.client.ListAllPages(ctx, target.APIURL, cfg.ListingDelay)
	if err != nil {
		return nil, err
	}
	titles = wiki.FilterTitles(titles, target.Filter, cfg.AutoFilterLangs, logger)
	total := int64(len(titles))

	// Progress cadence scales with parallelism so high-concurrency
	// runs don't flood the log.
	progressEvery := int64(200)
	if cfg.Concurrency < 5 {
		progressEvery = 20
	}

	results := make([]types.ScrapedPage, 0, len(titles))
	var mu sync.Mutex
	var completed atomic.Int64

	tasks := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			wlog := logger.With("worker_id", id)
			for title := range tasks {
				s.jitter(ctx, cfg)
				page, ok := s.fetchPage(ctx, wlog, target.APIURL, title, cfg, stats)
				if ok {
					mu.Lock()
					results = append(results, *page)
					mu.Unlock()
				}
				if n := completed.Add(1); n%progressEvery == 0 || n == total {
					logger.Info("scrape progress",
						"completed", n,
						"total", total,
						"kept", stats.PagesScraped.Load(),
					)
				}
			}
		}(i)
	}

	// Feed titles; cancellation stops scheduling new pages while
	// in-flight ones drain.
	go func() {
		defer close(tasks)
		for _, t := range titles {
			select {
			case tasks <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()

	logger.Info("scrape complete", "pages", len(results), "stats", stats.Snapshot())
	return results, nil
}

// fetchPage fetches and cleans one page under the retry policy:
// exponential backoff on 429, a short fixed wait on 502/503/resets and
// timeouts, and a single logged abandonment on anything else. Backoff
// sleeps block only this worker.
func (s *Scraper) fetchPage(ctx context.Context, logger *slog.Logger, apiURL, title string, cfg config.ProfileConfig, stats *Stats) (*types.ScrapedPage, bool) {
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		html, err := s.client.ParsePage(ctx, apiURL, title)
		if err == nil {
			text, ok := s.extractor.Clean(html)
			if !ok {
				stats.PagesSkipped.Add(1)
				return nil, false
			}
			stats.PagesScraped.Add(1)
			return &types.ScrapedPage{Title: title, Content: text}, true
		}

		if errors.Is(err, types.ErrNoContent) {
			// Missing or special page: skip silently.
			stats.PagesSkipped.Add(1)
			return nil, false
		}

		var fe *types.FetchError
		switch {
		case errors.As(err, &fe) && fe.RateLimited():
			stats.RateLimitHits.Add(1)
			if attempt == cfg.MaxAttempts {
				continue // out of attempts, nothing left to wait for
			}
			wait := rateLimitWait(cfg.BackoffBase, attempt, fe.RetryAfter)
			logger.Warn("rate limited, backing off",
				"title", title,
				"attempt", attempt,
				"wait", wait,
			)
			if sleepContext(ctx, wait) != nil {
				return nil, false
			}
		case errors.As(err, &fe) && fe.IsRetryable():
			if attempt == cfg.MaxAttempts {
				continue
			}
			if sleepContext(ctx, cfg.TransientDelay) != nil {
				return nil, false
			}
		default:
			if cfg.Concurrency < 5 {
				logger.Warn("page fetch failed", "title", title, "error", err)
			}
			stats.PagesFailed.Add(1)
			return nil, false
		}
		stats.Retries.Add(1)
	}

	stats.PagesFailed.Add(1)
	if cfg.Concurrency < 5 {
		logger.Warn("page abandoned", "title", title, "attempts", cfg.MaxAttempts)
	}
	return nil, false
}

// rateLimitWait picks the 429 backoff for one attempt: the doubling
// schedule, or the server's Retry-After hint when it asks for longer.
func rateLimitWait(base time.Duration, attempt int, retryAfter time.Duration) time.Duration {
	wait := base << (attempt - 1)
	if retryAfter > wait {
		wait = retryAfter
	}
	return wait
}

// jitter sleeps a random duration in [MinDelay, MaxDelay] before a
// page fetch to spread request timing.
func (s *Scraper) jitter(ctx context.Context, cfg config.ProfileConfig) {
	if cfg.MaxDelay <= 0 {
		return
	}
	d := cfg.MinDelay
	if span := cfg.MaxDelay - cfg.MinDelay; span > 0 {
		d += time.Duration(rand.Int63n(int64(span) + 1))
	}
	if d > 0 {
		sleepContext(ctx, d)
	}
}

// sleepContext sleeps for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
