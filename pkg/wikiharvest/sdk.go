// Package wikiharvest provides a public SDK for embedding the wiki
// scraper as a library.
//
// Example usage:
//
//	h := wikiharvest.New(
//	    wikiharvest.WithUserAgent("mybot/1.0"),
//	    wikiharvest.WithConcurrency(10),
//	)
//
//	pages, err := h.ScrapeFandom(ctx, "minecraft", "/^Block/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range pages {
//	    fmt.Println(p.Title, len(p.Content))
//	}
package wikiharvest

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"wikiharvest/internal/config"
	"wikiharvest/internal/extract"
	"wikiharvest/internal/scrape"
	"wikiharvest/internal/types"
	"wikiharvest/internal/wiki"
)

// Page is one cleaned wiki article.
type Page = types.ScrapedPage

// Harvester is the high-level API for scraping wikis as a library.
type Harvester struct {
	cfg     *config.Config
	scraper *scrape.Scraper
}

type settings struct {
	cfg      *config.Config
	removals []string
	logger   *slog.Logger
}

// Option configures a Harvester.
type Option func(*settings)

// WithLogger sets the logger; defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithUserAgent sets the outbound User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.cfg.Client.UserAgent = ua }
}

// WithRequestTimeout caps each page-content fetch.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *settings) { s.cfg.Client.RequestTimeout = d }
}

// WithConcurrency overrides the worker count for both scrape profiles.
func WithConcurrency(n int) Option {
	return func(s *settings) {
		s.cfg.Fandom.Concurrency = n
		s.cfg.MediaWiki.Concurrency = n
	}
}

// WithRemovals replaces the DOM pruning rule set.
func WithRemovals(selectors []string) Option {
	return func(s *settings) { s.removals = selectors }
}

// New creates a Harvester.
func New(opts ...Option) *Harvester {
	s := &settings{
		cfg:      config.DefaultConfig(),
		removals: extract.ExtendedRemovals,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}

	client := wiki.NewClient(&s.cfg.Client, s.logger)
	extractor := extract.New(extract.Options{Removals: s.removals})
	return &Harvester{
		cfg:     s.cfg,
		scraper: scrape.New(client, extractor, s.logger),
	}
}

// ScrapeFandom scrapes a Fandom-hosted wiki identified by subdomain
// name or URL, using the high-parallelism Fandom profile.
func (h *Harvester) ScrapeFandom(ctx context.Context, wikiName, filter string) ([]Page, error) {
	target := scrape.Target{
		APIURL: wiki.ResolveFandomURL(wikiName),
		Filter: wiki.CompileFilter(filter),
	}
	return h.scraper.Run(ctx, target, h.cfg.Fandom)
}

// ScrapeMediaWiki scrapes a generic MediaWiki installation at the
// given base URL, using the throttled profile.
func (h *Harvester) ScrapeMediaWiki(ctx context.Context, baseURL, filter string) ([]Page, error) {
	target := scrape.Target{
		APIURL: wiki.ResolveMediaWikiURL(baseURL),
		Filter: wiki.CompileFilter(filter),
	}
	return h.scraper.Run(ctx, target, h.cfg.MediaWiki)
}

// ResolveFandomURL resolves a Fandom identifier to its api.php endpoint.
func ResolveFandomURL(s string) string { return wiki.ResolveFandomURL(s) }

// ResolveMediaWikiURL resolves a MediaWiki base URL to its api.php endpoint.
func ResolveMediaWikiURL(s string) string { return wiki.ResolveMediaWikiURL(s) }

// CompileFilter compiles a title filter; nil means "no filter".
func CompileFilter(raw string) *regexp.Regexp { return wiki.CompileFilter(raw) }
