package wiki

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/andybalholm/brotli"

	"wikiharvest/internal/config"
	"wikiharvest/internal/types"
)

// Client talks to a MediaWiki api.php endpoint. It is safe for
// concurrent use; all mutable state lives in the underlying transport.
type Client struct {
	http   *http.Client
	cfg    *config.ClientConfig
	logger *slog.Logger
}

// NewClient creates a MediaWiki API client.
func NewClient(cfg *config.ClientConfig, logger *slog.Logger) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns / 2,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  true, // We handle decompression ourselves (including brotli)
	}

	return &Client{
		http:   &http.Client{Transport: transport},
		cfg:    cfg,
		logger: logger.With("component", "wiki_client"),
	}
}

// allPagesResponse is the wire shape of action=query&list=allpages.
// Absent fields mean "no data", never an error.
type allPagesResponse struct {
	Continue map[string]json.RawMessage `json:"continue"`
	Query    *struct {
		AllPages []struct {
			PageID int    `json:"pageid"`
			NS     int    `json:"ns"`
			Title  string `json:"title"`
		} `json:"allpages"`
	} `json:"query"`
}

// parseResponse is the wire shape of action=parse&prop=text. The
// rendered HTML sits under parse.text["*"] in the default format.
type parseResponse struct {
	Parse *struct {
		Title string            `json:"title"`
		Text  map[string]string `json:"text"`
	} `json:"parse"`
}

// ListAllPages walks the allpages listing across continuation batches
// and returns every non-redirect page title in request order. Any
// transport or HTTP failure is terminal and wrapped in a ListingError.
func (c *Client) ListAllPages(ctx context.Context, apiURL string, listingDelay time.Duration) ([]string, error) {
	var titles []string
	cont := map[string]json.RawMessage{}

	for batch := 0; ; batch++ {
		if listingDelay > 0 {
			if err := sleepContext(ctx, listingDelay); err != nil {
				return nil, &types.ListingError{APIURL: apiURL, Err: err}
			}
		}

		params := url.Values{}
		params.Set("action", "query")
		params.Set("list", "allpages")
		params.Set("aplimit", "500")
		params.Set("apfilterredir", "nonredirects")
		params.Set("format", "json")
		// The continuation bag is echoed back verbatim. Values are
		// strings in practice, but numeric tokens must round-trip
		// without reformatting, so the raw JSON is kept.
		for k, raw := range cont {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				params.Set(k, s)
			} else {
				params.Set(k, string(raw))
			}
		}

		var resp allPagesResponse
		if err := c.getJSON(ctx, apiURL, params, &resp); err != nil {
			return nil, &types.ListingError{APIURL: apiURL, Err: err}
		}

		if resp.Query != nil {
			for _, p := range resp.Query.AllPages {
				titles = append(titles, p.Title)
			}
		}

		c.logger.Debug("listing batch", "batch", batch, "total", len(titles))

		if len(resp.Continue) == 0 {
			break
		}
		cont = resp.Continue
	}

	return titles, nil
}

// ParsePage fetches the rendered HTML for one page title. Returns
// types.ErrNoContent when the API has no parsed text for the title
// (missing or special pages) — callers skip those silently.
func (c *Client) ParsePage(ctx context.Context, apiURL, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", title)
	params.Set("prop", "text")
	params.Set("format", "json")
	params.Set("disablelimitreport", "1")
	params.Set("disableeditsection", "1")
	params.Set("redirects", "1")

	var resp parseResponse
	if err := c.getJSON(ctx, apiURL, params, &resp); err != nil {
		return "", err
	}

	if resp.Parse == nil {
		return "", types.ErrNoContent
	}
	html := resp.Parse.Text["*"]
	if html == "" {
		return "", types.ErrNoContent
	}
	return html, nil
}

// getJSON performs one API GET with the required headers, decompresses
// the body, and decodes it into out.
func (c *Client) getJSON(ctx context.Context, apiURL string, params url.Values, out any) error {
	reqURL := apiURL + "?" + params.Encode()

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &types.FetchError{URL: reqURL, Err: err}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Connection", "keep-alive")

	resp, err := c.http.Do(req)
	if err != nil {
		return &types.FetchError{
			URL:       reqURL,
			Err:       err,
			Retryable: isRetryableError(ctx, err),
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return &types.FetchError{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Err:        errors.New("rate limited"),
			Retryable:  true,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode == http.StatusBadGateway || resp.StatusCode == http.StatusServiceUnavailable:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &types.FetchError{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			Retryable:  true,
		}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &types.FetchError{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var reader io.Reader = resp.Body
	if c.cfg.MaxBodySize > 0 {
		reader = io.LimitReader(reader, c.cfg.MaxBodySize)
	}
	reader, err = decompressReader(resp, reader)
	if err != nil {
		return &types.FetchError{URL: reqURL, Err: err}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return &types.FetchError{URL: reqURL, Err: err, Retryable: true}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &types.FetchError{URL: reqURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// decompressReader wraps a reader with the appropriate decompressor.
// Handles gzip, deflate, and brotli (br) encodings.
func decompressReader(resp *http.Response, reader io.Reader) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		return flate.NewReader(reader), nil
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}

// isRetryableError checks if a network error warrants a retry. The
// parent context is consulted so external cancellation is never
// retried, while a per-request deadline (fetch timeout) is.
func isRetryableError(parent context.Context, err error) bool {
	if err == nil {
		return false
	}
	if parent.Err() != nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNRESET) ||
			errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return true
		}
	}
	return false
}

// parseRetryAfter parses the Retry-After header value.
// Supports both integer seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(header)); err == nil {
		if secs > 120 {
			secs = 120 // cap at 2 minutes
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		d := time.Until(t)
		if d < 0 {
			return time.Second
		}
		if d > 2*time.Minute {
			return 2 * time.Minute
		}
		return d
	}
	return 0
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
