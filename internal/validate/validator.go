// Package validate measures translation completeness against the default
// locale. The default locale is the reference: its key set defines what a
// complete translation looks like, so it is complete by definition.
package validate

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/goliatone/go-localize/internal/bundle"
	"github.com/goliatone/go-localize/internal/loader"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/internal/registry"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

var (
	ErrLoaderRequired  = errors.New("validate: namespace loader is required")
	ErrLocalesRequired = errors.New("validate: locale registry is required")
)

// Result is the completeness verdict for one (locale, namespace) pair.
type Result struct {
	Locale       string   `json:"locale"`
	Namespace    string   `json:"namespace"`
	Completeness float64  `json:"completeness"`
	MissingKeys  []string `json:"missing_keys,omitempty"`
	ExtraKeys    []string `json:"extra_keys,omitempty"`
	Valid        bool     `json:"valid"`
}

// UntranslatedKey flags a key whose value is byte-identical to the default
// locale's. Identical values are usually copy-through placeholders, though
// brand names legitimately match.
type UntranslatedKey struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// LocaleSummary aggregates per-namespace results for one locale.
type LocaleSummary struct {
	Completeness float64           `json:"completeness"`
	MissingTotal int               `json:"missing_total"`
	ExtraTotal   int               `json:"extra_total"`
	Namespaces   map[string]Result `json:"namespaces"`
}

// Report is the full completeness report across every non-default locale.
type Report struct {
	GeneratedAt         time.Time                `json:"generated_at"`
	DefaultLocale       string                   `json:"default_locale"`
	ReferenceKeys       int                      `json:"reference_keys"`
	OverallCompleteness float64                  `json:"overall_completeness"`
	Locales             map[string]LocaleSummary `json:"locales"`
}

// Option mutates the validator configuration.
type Option func(*Validator)

// WithLogger injects the validator logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// Validator compares translated bundles against the default locale.
type Validator struct {
	loader     *loader.Loader
	locales    *registry.LocaleRegistry
	namespaces []string
	logger     interfaces.Logger
}

// New constructs a validator over the supplied loader. The namespace list
// defines the validation surface; it is usually the registry's full set.
func New(l *loader.Loader, locales *registry.LocaleRegistry, namespaces []string, opts ...Option) (*Validator, error) {
	if l == nil {
		return nil, ErrLoaderRequired
	}
	if locales == nil {
		return nil, ErrLocalesRequired
	}

	v := &Validator{
		loader:     l,
		locales:    locales,
		namespaces: append([]string(nil), namespaces...),
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// ValidateNamespace compares one translated bundle against the reference.
// A translation that fails to load counts as an empty bundle, so every
// reference key reports as missing. A namespace with an empty reference is
// trivially complete.
func (v *Validator) ValidateNamespace(ctx context.Context, locale, namespace string) Result {
	defaultLocale := v.locales.Default().Code
	result := Result{Locale: locale, Namespace: namespace}

	reference := v.loadFlat(ctx, defaultLocale, namespace)
	if locale == defaultLocale {
		result.Completeness = 1
		result.Valid = true
		return result
	}

	translated := v.loadFlat(ctx, locale, namespace)

	for key := range reference {
		if _, ok := translated[key]; !ok {
			result.MissingKeys = append(result.MissingKeys, key)
		}
	}
	for key := range translated {
		if _, ok := reference[key]; !ok {
			result.ExtraKeys = append(result.ExtraKeys, key)
		}
	}
	sort.Strings(result.MissingKeys)
	sort.Strings(result.ExtraKeys)

	result.Completeness = completeness(len(reference), len(result.MissingKeys))
	result.Valid = len(result.MissingKeys) == 0
	return result
}

// ValidateLocale validates every configured namespace for one locale.
func (v *Validator) ValidateLocale(ctx context.Context, locale string) LocaleSummary {
	summary := LocaleSummary{Namespaces: make(map[string]Result, len(v.namespaces))}

	var refTotal, missingTotal int
	for _, namespace := range v.namespaces {
		result := v.ValidateNamespace(ctx, locale, namespace)
		summary.Namespaces[namespace] = result
		summary.MissingTotal += len(result.MissingKeys)
		summary.ExtraTotal += len(result.ExtraKeys)

		refCount := len(v.loadFlat(ctx, v.locales.Default().Code, namespace))
		refTotal += refCount
		missingTotal += len(result.MissingKeys)
	}

	summary.Completeness = completeness(refTotal, missingTotal)
	return summary
}

// ValidateAll validates every locale except the default, which is complete
// by definition.
func (v *Validator) ValidateAll(ctx context.Context) map[string]LocaleSummary {
	defaultLocale := v.locales.Default().Code
	out := make(map[string]LocaleSummary)
	for _, code := range v.locales.Codes() {
		if code == defaultLocale {
			continue
		}
		out[code] = v.ValidateLocale(ctx, code)
	}
	return out
}

// Report validates every non-default locale against the reference.
func (v *Validator) Report(ctx context.Context) Report {
	defaultLocale := v.locales.Default().Code
	report := Report{
		GeneratedAt:   time.Now().UTC(),
		DefaultLocale: defaultLocale,
		Locales:       v.ValidateAll(ctx),
	}

	for _, namespace := range v.namespaces {
		report.ReferenceKeys += len(v.loadFlat(ctx, defaultLocale, namespace))
	}

	var sum float64
	for code, summary := range report.Locales {
		sum += summary.Completeness

		v.logger.Info("validate.locale",
			"locale", code,
			"completeness", summary.Completeness,
			"missing", summary.MissingTotal,
			"extra", summary.ExtraTotal,
		)
	}

	if counted := len(report.Locales); counted > 0 {
		report.OverallCompleteness = sum / float64(counted)
	} else {
		report.OverallCompleteness = 1
	}
	return report
}

// FindUntranslated returns keys whose translated value is byte-identical to
// the reference value. Results are sorted by namespace then key.
func (v *Validator) FindUntranslated(ctx context.Context, locale string) []UntranslatedKey {
	defaultLocale := v.locales.Default().Code
	if locale == defaultLocale {
		return nil
	}

	var out []UntranslatedKey
	for _, namespace := range v.namespaces {
		reference := v.loadFlat(ctx, defaultLocale, namespace)
		translated := v.loadFlat(ctx, locale, namespace)
		for key, value := range translated {
			if refValue, ok := reference[key]; ok && refValue == value {
				out = append(out, UntranslatedKey{Namespace: namespace, Key: key, Value: value})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Namespace != out[j].Namespace {
			return out[i].Namespace < out[j].Namespace
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Namespaces returns the configured validation surface.
func (v *Validator) Namespaces() []string {
	out := make([]string, len(v.namespaces))
	copy(out, v.namespaces)
	return out
}

// loadFlat loads a bundle and flattens it to dotted keys. Load failures
// degrade to an empty key set.
func (v *Validator) loadFlat(ctx context.Context, locale, namespace string) map[string]string {
	res := v.loader.LoadNamespace(ctx, locale, namespace)
	if !res.OK() {
		v.logger.Debug("validate.load.failed",
			"locale", locale,
			"namespace", namespace,
			"error", res.Err,
		)
		return map[string]string{}
	}
	return bundle.Flatten(res.Bundle)
}

func completeness(referenceKeys, missing int) float64 {
	if referenceKeys == 0 {
		return 1
	}
	return float64(referenceKeys-missing) / float64(referenceKeys)
}
