package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("WIKIHARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("wikiharvest")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".wikiharvest"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.addr", cfg.Server.Addr)

	v.SetDefault("client.request_timeout", cfg.Client.RequestTimeout)
	v.SetDefault("client.user_agent", cfg.Client.UserAgent)
	v.SetDefault("client.max_body_size", cfg.Client.MaxBodySize)
	v.SetDefault("client.max_idle_conns", cfg.Client.MaxIdleConns)
	v.SetDefault("client.idle_conn_timeout", cfg.Client.IdleConnTimeout)

	setProfileDefaults(v, "fandom", cfg.Fandom)
	setProfileDefaults(v, "mediawiki", cfg.MediaWiki)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}

func setProfileDefaults(v *viper.Viper, name string, p ProfileConfig) {
	v.SetDefault(name+".concurrency", p.Concurrency)
	v.SetDefault(name+".min_delay", p.MinDelay)
	v.SetDefault(name+".max_delay", p.MaxDelay)
	v.SetDefault(name+".auto_filter_langs", p.AutoFilterLangs)
	v.SetDefault(name+".listing_delay", p.ListingDelay)
	v.SetDefault(name+".max_attempts", p.MaxAttempts)
	v.SetDefault(name+".backoff_base", p.BackoffBase)
	v.SetDefault(name+".transient_delay", p.TransientDelay)
}
