// Package config loads and validates pipeline configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all pipeline configuration knobs loaded via Viper.
type Config struct {
	Search  SearchConfig  `mapstructure:"search"`
	Fetcher FetcherConfig `mapstructure:"fetcher"`
	Storage StorageConfig `mapstructure:"storage"`
	Cleanup CleanupConfig `mapstructure:"cleanup"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SearchConfig describes what to look for and how far to paginate.
type SearchConfig struct {
	Keyword       string `mapstructure:"keyword"`
	Location      string `mapstructure:"location"`
	WorkType      string `mapstructure:"work_type"`
	Hours         int    `mapstructure:"hours"`
	Days          int    `mapstructure:"days"`
	MaxJobs       int    `mapstructure:"max_jobs"`
	PacingSeconds int    `mapstructure:"pacing_seconds"`
}

// FetcherConfig governs HTTP transport and retry behavior.
type FetcherConfig struct {
	UserAgent      string      `mapstructure:"user_agent"`
	TimeoutSeconds int         `mapstructure:"timeout_seconds"`
	Attempts       int         `mapstructure:"attempts"`
	BackoffMs      int         `mapstructure:"backoff_ms"`
	Proxy          ProxyConfig `mapstructure:"proxy"`
}

// ProxyConfig holds the optional forward proxy and its credentials.
type ProxyConfig struct {
	Host     string `mapstructure:"host"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// StorageConfig selects and configures the record store backend.
type StorageConfig struct {
	Type     string         `mapstructure:"type"`
	CSV      CSVConfig      `mapstructure:"csv"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// CSVConfig sets the path of the flat-file store.
type CSVConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig controls access to the relational store.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
	Table    string `mapstructure:"table"`
	MaxConns int    `mapstructure:"max_conns"`
}

// CleanupConfig lists title patterns the clean command removes.
type CleanupConfig struct {
	TitlePatterns []string `mapstructure:"title_patterns"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JOBRADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("search.keyword", "software engineer")
	v.SetDefault("search.location", "United States")
	v.SetDefault("search.work_type", "all")
	v.SetDefault("search.days", 1)
	v.SetDefault("search.max_jobs", 50)
	v.SetDefault("search.pacing_seconds", 1)
	v.SetDefault("fetcher.user_agent", "Mozilla/5.0 (X11; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0")
	v.SetDefault("fetcher.timeout_seconds", 10)
	v.SetDefault("fetcher.attempts", 3)
	v.SetDefault("fetcher.backoff_ms", 1000)
	v.SetDefault("storage.type", "csv")
	v.SetDefault("storage.csv.path", "jobs.csv")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.sslmode", "disable")
	v.SetDefault("storage.postgres.table", "job_postings")
	v.SetDefault("storage.postgres.max_conns", 4)
	v.SetDefault("cleanup.title_patterns", []string{})
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Search.Keyword == "" {
		return fmt.Errorf("search.keyword must be set")
	}
	if c.Search.Hours < 0 || c.Search.Hours > 720 {
		return fmt.Errorf("search.hours must be between 0 and 720")
	}
	if c.Search.Hours == 0 && (c.Search.Days < 1 || c.Search.Days > 30) {
		return fmt.Errorf("search.days must be between 1 and 30")
	}
	if c.Search.MaxJobs <= 0 {
		return fmt.Errorf("search.max_jobs must be > 0")
	}
	if c.Fetcher.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetcher.timeout_seconds must be > 0")
	}
	if c.Fetcher.Attempts <= 0 {
		return fmt.Errorf("fetcher.attempts must be > 0")
	}
	switch c.Storage.Type {
	case "csv":
		if c.Storage.CSV.Path == "" {
			return fmt.Errorf("storage.csv.path must be set")
		}
	case "postgres":
		if c.Storage.Postgres.Host == "" {
			return fmt.Errorf("storage.postgres.host must be set")
		}
		if c.Storage.Postgres.Database == "" {
			return fmt.Errorf("storage.postgres.database must be set")
		}
	case "memory":
		// No settings required; records live only for the process lifetime.
	default:
		return fmt.Errorf("storage.type must be csv, postgres, or memory")
	}
	return nil
}

// FetchTimeout converts the fetcher timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetcher.TimeoutSeconds) * time.Second
}

// Backoff converts the fetcher backoff unit into a duration.
func (c Config) Backoff() time.Duration {
	return time.Duration(c.Fetcher.BackoffMs) * time.Millisecond
}

// Pacing converts the per-page delay into a duration.
func (c Config) Pacing() time.Duration {
	return time.Duration(c.Search.PacingSeconds) * time.Second
}
