package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for wikiharvest.
type Config struct {
	Server    ServerConfig  `mapstructure:"server"    yaml:"server"`
	Client    ClientConfig  `mapstructure:"client"    yaml:"client"`
	Fandom    ProfileConfig `mapstructure:"fandom"    yaml:"fandom"`
	MediaWiki ProfileConfig `mapstructure:"mediawiki" yaml:"mediawiki"`
	Logging   LoggingConfig `mapstructure:"logging"   yaml:"logging"`
}

// ServerConfig controls the HTTP endpoint adapter.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// ClientConfig controls the upstream MediaWiki API client.
type ClientConfig struct {
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	UserAgent       string        `mapstructure:"user_agent"        yaml:"user_agent"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
}

// ProfileConfig is one scrape profile. Fandom-hosted wikis tolerate
// high parallelism; generic MediaWiki installs tend to rate-limit
// aggressively and get a throttled profile instead.
type ProfileConfig struct {
	Concurrency     int           `mapstructure:"concurrency"       yaml:"concurrency"`
	MinDelay        time.Duration `mapstructure:"min_delay"         yaml:"min_delay"`
	MaxDelay        time.Duration `mapstructure:"max_delay"         yaml:"max_delay"`
	AutoFilterLangs bool          `mapstructure:"auto_filter_langs" yaml:"auto_filter_langs"`
	ListingDelay    time.Duration `mapstructure:"listing_delay"     yaml:"listing_delay"`
	MaxAttempts     int           `mapstructure:"max_attempts"      yaml:"max_attempts"`
	BackoffBase     time.Duration `mapstructure:"backoff_base"      yaml:"backoff_base"`
	TransientDelay  time.Duration `mapstructure:"transient_delay"   yaml:"transient_delay"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Client: ClientConfig{
			RequestTimeout:  15 * time.Second,
			UserAgent:       "wikiharvest/" + Version + " (+https://github.com/wikiharvest)",
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			MaxIdleConns:    100,
			IdleConnTimeout: 90 * time.Second,
		},
		Fandom: ProfileConfig{
			Concurrency:     30,
			MinDelay:        0,
			MaxDelay:        0,
			AutoFilterLangs: false,
			ListingDelay:    0,
			MaxAttempts:     10,
			BackoffBase:     5 * time.Second,
			TransientDelay:  2 * time.Second,
		},
		MediaWiki: ProfileConfig{
			Concurrency:     2,
			MinDelay:        100 * time.Millisecond,
			MaxDelay:        800 * time.Millisecond,
			AutoFilterLangs: true,
			ListingDelay:    200 * time.Millisecond,
			MaxAttempts:     10,
			BackoffBase:     5 * time.Second,
			TransientDelay:  2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
