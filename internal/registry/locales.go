// Package registry holds the static lookup tables for the localize runtime:
// the supported locale set and the route to namespace mapping. Both are
// defined at construction time and never mutated afterwards.
package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDefaultLocaleRequired    = errors.New("registry: default locale is required")
	ErrDefaultLocaleUnsupported = errors.New("registry: default locale is not in the supported set")
	ErrLocalesRequired          = errors.New("registry: at least one locale is required")
	ErrLocaleCodeRequired       = errors.New("registry: locale code is required")
	ErrDuplicateLocale          = errors.New("registry: duplicate locale code")
)

// Direction is the text direction associated with a locale.
type Direction string

const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

// Locale describes one supported language/region entry.
type Locale struct {
	Code      string
	Name      string
	Direction Direction
}

// LocaleRegistry is the closed, read-only set of supported locales.
type LocaleRegistry struct {
	defaultCode string
	index       map[string]Locale
	ordered     []Locale
}

// NewLocaleRegistry builds a registry from the supplied locales. Codes are
// matched case-insensitively; the default locale must be part of the set.
func NewLocaleRegistry(defaultLocale string, locales []Locale) (*LocaleRegistry, error) {
	defaultCode := normalizeLocaleCode(defaultLocale)
	if defaultCode == "" {
		return nil, ErrDefaultLocaleRequired
	}
	if len(locales) == 0 {
		return nil, ErrLocalesRequired
	}

	index := make(map[string]Locale, len(locales))
	ordered := make([]Locale, 0, len(locales))
	for _, locale := range locales {
		code := normalizeLocaleCode(locale.Code)
		if code == "" {
			return nil, ErrLocaleCodeRequired
		}
		if _, exists := index[code]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLocale, code)
		}
		entry := Locale{
			Code:      code,
			Name:      strings.TrimSpace(locale.Name),
			Direction: normalizeDirection(locale.Direction),
		}
		index[code] = entry
		ordered = append(ordered, entry)
	}

	if _, ok := index[defaultCode]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrDefaultLocaleUnsupported, defaultCode)
	}

	return &LocaleRegistry{
		defaultCode: defaultCode,
		index:       index,
		ordered:     ordered,
	}, nil
}

// IsSupported reports whether the candidate code belongs to the registry.
func (r *LocaleRegistry) IsSupported(code string) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[normalizeLocaleCode(code)]
	return ok
}

// Resolve returns the locale for candidate, or the default locale when the
// candidate is empty or unsupported. It never fails.
func (r *LocaleRegistry) Resolve(candidate string) Locale {
	if locale, ok := r.index[normalizeLocaleCode(candidate)]; ok {
		return locale
	}
	return r.Default()
}

// Default returns the configured default locale.
func (r *LocaleRegistry) Default() Locale {
	return r.index[r.defaultCode]
}

// Direction returns the text direction for the candidate, resolving
// unsupported candidates to the default locale first.
func (r *LocaleRegistry) Direction(code string) Direction {
	return r.Resolve(code).Direction
}

// Locales returns the supported locales in registration order.
func (r *LocaleRegistry) Locales() []Locale {
	out := make([]Locale, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Codes returns the supported locale codes in registration order.
func (r *LocaleRegistry) Codes() []string {
	out := make([]string, 0, len(r.ordered))
	for _, locale := range r.ordered {
		out = append(out, locale.Code)
	}
	return out
}

// DefaultLocales returns the locale set shipped with the module: English as
// the reference plus the ten translation targets, with RTL flagged for
// Arabic and Hebrew.
func DefaultLocales() []Locale {
	return []Locale{
		{Code: "en", Name: "English", Direction: DirectionLTR},
		{Code: "es", Name: "Español", Direction: DirectionLTR},
		{Code: "fr", Name: "Français", Direction: DirectionLTR},
		{Code: "de", Name: "Deutsch", Direction: DirectionLTR},
		{Code: "it", Name: "Italiano", Direction: DirectionLTR},
		{Code: "pt", Name: "Português", Direction: DirectionLTR},
		{Code: "zh", Name: "中文", Direction: DirectionLTR},
		{Code: "ja", Name: "日本語", Direction: DirectionLTR},
		{Code: "ko", Name: "한국어", Direction: DirectionLTR},
		{Code: "ar", Name: "العربية", Direction: DirectionRTL},
		{Code: "he", Name: "עברית", Direction: DirectionRTL},
	}
}

func normalizeLocaleCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func normalizeDirection(direction Direction) Direction {
	if direction == DirectionRTL {
		return DirectionRTL
	}
	return DirectionLTR
}
