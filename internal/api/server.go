// Package api is the thin HTTP adapter over the scrape core: route
// registrations plus a JSON request/response contract for a host
// process.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"wikiharvest/internal/config"
	"wikiharvest/internal/scrape"
	"wikiharvest/internal/wiki"
)

// Server exposes the scrape endpoints.
type Server struct {
	mux     *http.ServeMux
	addr    string
	cfg     *config.Config
	scraper *scrape.Scraper
	logger  *slog.Logger
}

// NewServer creates the endpoint adapter around a Scraper.
func NewServer(cfg *config.Config, scraper *scrape.Scraper, logger *slog.Logger) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		addr:    cfg.Server.Addr,
		cfg:     cfg,
		scraper: scraper,
		logger:  logger.With("component", "api_server"),
	}
	s.registerRoutes()
	return s
}

// Handler returns the route table, for embedding in a host router or
// test server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe runs the HTTP server until it fails.
func (s *Server) ListenAndServe() error {
	s.logger.Info("API server starting", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /probe", s.handleProbe)
	s.mux.HandleFunc("POST /probe-mediawiki", s.handleProbe)

	s.mux.HandleFunc("POST /scrape", s.handleScrapeFandom)
	s.mux.HandleFunc("POST /scrape-fandom", s.handleScrapeFandom)
	s.mux.HandleFunc("POST /scrape-mediawiki", s.handleScrapeMediaWiki)
}

// handleProbe is the liveness check: no body in, no body out.
func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScrapeFandom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Fandom string `json:"fandom"`
		Filter string `json:"filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	target := scrape.Target{
		APIURL: wiki.ResolveFandomURL(body.Fandom),
		Filter: wiki.CompileFilter(body.Filter),
	}
	s.runScrape(w, r, target, s.cfg.Fandom)
}

func (s *Server) handleScrapeMediaWiki(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL    string `json:"url"`
		Filter string `json:"filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	target := scrape.Target{
		APIURL: wiki.ResolveMediaWikiURL(body.URL),
		Filter: wiki.CompileFilter(body.Filter),
	}
	s.runScrape(w, r, target, s.cfg.MediaWiki)
}

// runScrape executes one scrape and writes the JSON result array. A
// listing failure is the only server error; a scrape that kept zero
// pages still returns 200 with an empty array.
func (s *Server) runScrape(w http.ResponseWriter, r *http.Request, target scrape.Target, profile config.ProfileConfig) {
	pages, err := s.scraper.Run(r.Context(), target, profile)
	if err != nil {
		s.logger.Error("scrape failed", "api_url", target.APIURL, "error", err)
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, pages)
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
