package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wikiharvest/internal/api"
	"wikiharvest/internal/config"
	"wikiharvest/internal/extract"
	"wikiharvest/internal/scrape"
	"wikiharvest/internal/wiki"
)

var (
	cfgFile     string
	verbose     bool
	filterExpr  string
	mediaWiki   bool
	outputPath  string
	concurrency int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wikiharvest",
		Short: "wikiharvest — MediaWiki/Fandom wiki scraper",
		Long: `wikiharvest crawls an entire MediaWiki-family wiki through its public
API, strips boilerplate and markup from every article, and emits clean
(title, text) records ready for retrieval-augmented-generation ingestion.

Features:
  • Full paginated page enumeration with continuation handling
  • Bounded-concurrency fetch pipeline with jittered request timing
  • Exponential backoff under remote rate limiting
  • Deterministic DOM pruning and text normalization
  • HTTP endpoints for host-process integration`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP endpoint server",
		Long:  "Expose /probe, /scrape, /scrape-fandom, and /scrape-mediawiki over HTTP.",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	server := api.NewServer(cfg, newScraper(cfg, logger), logger)
	return server.ListenAndServe()
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [wiki]",
		Short: "Scrape one wiki and write the result as JSON",
		Long: `Scrape every article of the given wiki. The argument is a Fandom
subdomain name (e.g. "minecraft"), a Fandom URL, or — with --mediawiki —
the base URL of any MediaWiki installation.`,
		Args: cobra.ExactArgs(1),
		RunE: runScrape,
	}

	cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "title filter: /pattern/flags or plain substring")
	cmd.Flags().BoolVar(&mediaWiki, "mediawiki", false, "treat the argument as a generic MediaWiki base URL")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "n", 0, "override profile concurrency (0 = profile default)")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	profile := cfg.Fandom
	apiURL := wiki.ResolveFandomURL(args[0])
	if mediaWiki {
		profile = cfg.MediaWiki
		apiURL = wiki.ResolveMediaWikiURL(args[0])
	}
	if concurrency > 0 {
		profile.Concurrency = concurrency
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	target := scrape.Target{
		APIURL: apiURL,
		Filter: wiki.CompileFilter(filterExpr),
	}
	pages, err := newScraper(cfg, logger).Run(ctx, target, profile)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(pages)
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wikiharvest %s\n", config.Version)
		},
	}
}

// setup loads and validates configuration and builds the root logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, setupLogger(&cfg.Logging), nil
}

func newScraper(cfg *config.Config, logger *slog.Logger) *scrape.Scraper {
	client := wiki.NewClient(&cfg.Client, logger)
	extractor := extract.New(extract.DefaultOptions())
	return scrape.New(client, extractor, logger)
}

func setupLogger(cfg *config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
