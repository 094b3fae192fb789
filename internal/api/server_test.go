package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wikiharvest/internal/config"
	"wikiharvest/internal/extract"
	"wikiharvest/internal/scrape"
	"wikiharvest/internal/types"
	"wikiharvest/internal/wiki"
)

var longBody = "<p>" + strings.Repeat("Body text that puts the article past the length gate. ", 4) + "</p>"

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	// No politeness delays in tests.
	cfg.MediaWiki.MinDelay = 0
	cfg.MediaWiki.MaxDelay = 0
	cfg.MediaWiki.ListingDelay = 0
	cfg.MediaWiki.BackoffBase = 10 * time.Millisecond
	cfg.MediaWiki.TransientDelay = 5 * time.Millisecond
	return cfg
}

func newTestServer(cfg *config.Config) *httptest.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := wiki.NewClient(&cfg.Client, logger)
	scraper := scrape.New(client, extract.New(extract.DefaultOptions()), logger)
	return httptest.NewServer(NewServer(cfg, scraper, logger).Handler())
}

// fakeUpstream serves a two-page wiki at any path ending in api.php.
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "query":
			fmt.Fprint(w, `{"query":{"allpages":[{"pageid":1,"ns":0,"title":"Alpha"},{"pageid":2,"ns":0,"title":"Stub"}]}}`)
		case "parse":
			if r.URL.Query().Get("page") == "Alpha" {
				json.NewEncoder(w).Encode(map[string]any{
					"parse": map[string]any{
						"title": "Alpha",
						"text":  map[string]string{"*": longBody},
					},
				})
				return
			}
			fmt.Fprint(w, `{"parse":{"title":"Stub","text":{"*":"<p>tiny</p>"}}}`)
		default:
			http.Error(w, "bad action", http.StatusBadRequest)
		}
	}))
}

func TestProbeEndpoints(t *testing.T) {
	srv := newTestServer(testConfig())
	defer srv.Close()

	for _, path := range []string{"/probe", "/probe-mediawiki"} {
		resp, err := http.Post(srv.URL+path, "application/json", nil)
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("POST %s = %d, want 204", path, resp.StatusCode)
		}
	}
}

func TestScrapeMediaWikiEndpoint(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	srv := newTestServer(testConfig())
	defer srv.Close()

	body, _ := json.Marshal(map[string]string{"url": upstream.URL, "filter": ""})
	resp, err := http.Post(srv.URL+"/scrape-mediawiki", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /scrape-mediawiki: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var pages []types.ScrapedPage
	if err := json.NewDecoder(resp.Body).Decode(&pages); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(pages) != 1 || pages[0].Title != "Alpha" {
		t.Errorf("expected only Alpha (Stub is below the length gate), got %v", pages)
	}
	if pages[0].Content == "" {
		t.Error("page content is empty")
	}
}

func TestScrapeListingFailureReturns500(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	srv := newTestServer(testConfig())
	defer srv.Close()

	body, _ := json.Marshal(map[string]string{"url": upstream.URL})
	resp, err := http.Post(srv.URL+"/scrape-mediawiki", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /scrape-mediawiki: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	var errBody map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if errBody["error"] == "" {
		t.Error("expected an error message in the body")
	}
}

func TestScrapeInvalidJSON(t *testing.T) {
	srv := newTestServer(testConfig())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/scrape", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST /scrape: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
