// Package bootstrap wires the localize module for the i18n command line
// tools: a directory-backed bundle provider plus optional console logging.
package bootstrap

import (
	"fmt"
	"strings"

	localize "github.com/goliatone/go-localize"
)

// Options carries the command line inputs shared by the i18n tools.
type Options struct {
	LocalesDir    string
	DefaultLocale string
	Locales       []string
	Verbose       bool
}

// BuildModule constructs a localize module over the locales directory.
func BuildModule(opts Options) (*localize.Module, error) {
	if strings.TrimSpace(opts.LocalesDir) == "" {
		return nil, fmt.Errorf("locales directory is required")
	}

	cfg := localize.DefaultConfig()
	if opts.DefaultLocale != "" {
		cfg.DefaultLocale = opts.DefaultLocale
	}
	if len(opts.Locales) > 0 {
		cfg.Locales = buildLocales(opts.Locales, cfg.DefaultLocale)
	}
	if opts.Verbose {
		cfg.Logging = localize.LoggingConfig{
			Enabled: true,
			Level:   "debug",
			Format:  "console",
		}
	}

	return localize.New(cfg, localize.WithProvider(localize.NewDirProvider(opts.LocalesDir)))
}

// SplitLocales parses a comma separated locale list, dropping empty entries.
func SplitLocales(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func buildLocales(codes []string, defaultLocale string) []localize.Locale {
	seen := make(map[string]struct{}, len(codes)+1)
	out := make([]localize.Locale, 0, len(codes)+1)

	add := func(code string) {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			return
		}
		if _, dup := seen[code]; dup {
			return
		}
		seen[code] = struct{}{}
		out = append(out, localize.Locale{Code: code, Direction: directionFor(code)})
	}

	add(defaultLocale)
	for _, code := range codes {
		add(code)
	}
	return out
}

func directionFor(code string) localize.Direction {
	switch code {
	case "ar", "he", "fa", "ur":
		return localize.DirectionRTL
	default:
		return localize.DirectionLTR
	}
}
