package config

import (
	"fmt"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if cfg.Client.RequestTimeout <= 0 {
		return fmt.Errorf("client.request_timeout must be > 0")
	}
	if cfg.Client.MaxBodySize <= 0 {
		return fmt.Errorf("client.max_body_size must be > 0")
	}

	if err := validateProfile("fandom", cfg.Fandom); err != nil {
		return err
	}
	if err := validateProfile("mediawiki", cfg.MediaWiki); err != nil {
		return err
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

func validateProfile(name string, p ProfileConfig) error {
	if p.Concurrency < 1 {
		return fmt.Errorf("%s.concurrency must be >= 1, got %d", name, p.Concurrency)
	}
	if p.Concurrency > 1000 {
		return fmt.Errorf("%s.concurrency must be <= 1000, got %d", name, p.Concurrency)
	}
	if p.MinDelay < 0 || p.MaxDelay < 0 {
		return fmt.Errorf("%s delays must be >= 0", name)
	}
	if p.MaxDelay < p.MinDelay {
		return fmt.Errorf("%s.max_delay must be >= %s.min_delay", name, name)
	}
	if p.ListingDelay < 0 {
		return fmt.Errorf("%s.listing_delay must be >= 0", name)
	}
	if p.MaxAttempts < 1 {
		return fmt.Errorf("%s.max_attempts must be >= 1, got %d", name, p.MaxAttempts)
	}
	if p.BackoffBase <= 0 {
		return fmt.Errorf("%s.backoff_base must be > 0", name)
	}
	if p.TransientDelay <= 0 {
		return fmt.Errorf("%s.transient_delay must be > 0", name)
	}
	return nil
}
