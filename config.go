package localize

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-localize/internal/registry"
)

// Locale re-exports the locale descriptor for consumers of the localize
// package.
type Locale = registry.Locale

// RouteRule re-exports the route to namespace binding.
type RouteRule = registry.RouteRule

// Direction re-exports the locale text direction.
type Direction = registry.Direction

const (
	DirectionLTR = registry.DirectionLTR
	DirectionRTL = registry.DirectionRTL
)

// CacheConfig controls the repository-level bundle cache used by the bun
// provider. The loader's in-memory memoisation is always on.
type CacheConfig struct {
	Enabled bool          `json:"enabled"`
	TTL     time.Duration `json:"ttl"`
}

// LoggingConfig controls the go-logger backed provider built by New when no
// logger provider is injected.
type LoggingConfig struct {
	Enabled   bool     `json:"enabled"`
	Level     string   `json:"level"`
	Format    string   `json:"format"`
	AddSource bool     `json:"add_source"`
	Focus     []string `json:"focus,omitempty"`
}

// Config carries the construction inputs for the localize module.
type Config struct {
	DefaultLocale      string        `json:"default_locale"`
	Locales            []Locale      `json:"locales"`
	Namespaces         []string      `json:"namespaces"`
	Routes             []RouteRule   `json:"routes"`
	GenericNamespaces  []string      `json:"generic_namespaces,omitempty"`
	CriticalNamespaces []string      `json:"critical_namespaces,omitempty"`
	FetchTimeout       time.Duration `json:"fetch_timeout"`
	Cache              CacheConfig   `json:"cache"`
	Logging            LoggingConfig `json:"logging"`
}

// DefaultConfig returns the configuration shipped with the module: the full
// locale set, the namespace buckets, and the route table.
func DefaultConfig() Config {
	return Config{
		DefaultLocale:      "en",
		Locales:            registry.DefaultLocales(),
		Namespaces:         registry.DefaultNamespaces(),
		Routes:             registry.DefaultRoutes(),
		CriticalNamespaces: []string{"common", "navigation"},
		FetchTimeout:       5 * time.Second,
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
			Format:  "json",
		},
	}
}

// Validate checks the configuration before module construction.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.DefaultLocale, validation.Required),
		validation.Field(&c.Locales, validation.Required),
		validation.Field(&c.Namespaces, validation.Required),
	); err != nil {
		return err
	}

	if c.Logging.Enabled {
		if err := c.Logging.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c LoggingConfig) validate() error {
	switch c.Level {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("localize: unsupported logging level %q", c.Level)
	}
	switch c.Format {
	case "", "json", "console", "pretty":
	default:
		return fmt.Errorf("localize: unsupported logging format %q", c.Format)
	}
	return nil
}
