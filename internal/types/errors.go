package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoContent marks a page the API could not parse (missing or
// special pages). Callers skip these silently.
var ErrNoContent = errors.New("page has no parsed content")

// FetchError wraps errors that occur while talking to the wiki API.
// Retryable distinguishes transient failures (rate limiting, bad
// gateways, connection resets, timeouts) from permanent ones.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
	RetryAfter time.Duration // populated from Retry-After header on HTTP 429
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// RateLimited reports whether the error is an HTTP 429 response.
func (e *FetchError) RateLimited() bool { return e.StatusCode == 429 }

// ListingError marks a failure during page enumeration. Listing errors
// are terminal: the whole scrape aborts, unlike per-page failures.
type ListingError struct {
	APIURL string
	Err    error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("page listing failed for %s: %v", e.APIURL, e.Err)
}

func (e *ListingError) Unwrap() error { return e.Err }
