// Package fallback layers default-locale substitution over the namespace
// loader. Translation content is never on the critical failure path: every
// resolution degrades to the default locale, then to an empty bundle, and
// never surfaces a hard failure to the render path.
package fallback

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-localize/internal/bundle"
	"github.com/goliatone/go-localize/internal/loader"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// DefaultCriticalNamespaces are warmed up for future navigations.
var DefaultCriticalNamespaces = []string{"common", "navigation"}

const preloadTimeout = 10 * time.Second

// Option mutates the handler configuration.
type Option func(*Handler)

// WithLogger injects the fallback logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithCriticalNamespaces overrides the namespaces warmed by PreloadCritical.
func WithCriticalNamespaces(namespaces ...string) Option {
	return func(h *Handler) {
		if len(namespaces) > 0 {
			h.critical = append([]string(nil), namespaces...)
		}
	}
}

// Handler resolves bundles with default-locale fallback.
type Handler struct {
	loader        *loader.Loader
	defaultLocale string
	critical      []string
	logger        interfaces.Logger
}

// New constructs a fallback handler over the supplied loader.
func New(l *loader.Loader, defaultLocale string, opts ...Option) *Handler {
	h := &Handler{
		loader:        l,
		defaultLocale: defaultLocale,
		critical:      append([]string(nil), DefaultCriticalNamespaces...),
		logger:        logging.NoOp(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Resolve loads a namespace for the target locale, substituting the default
// locale's bundle when the target fails. The returned result always carries
// a non-nil bundle: when both locales fail it is empty so rendering can
// proceed with raw keys.
func (h *Handler) Resolve(ctx context.Context, locale, namespace string) loader.LoadResult {
	result := h.loader.LoadNamespace(ctx, locale, namespace)
	if result.OK() {
		return result
	}

	if !h.isDefault(locale) {
		substituted := h.loader.LoadNamespace(ctx, h.defaultLocale, namespace)
		if substituted.OK() {
			h.logger.Debug("bundle.fallback.substituted",
				"locale", locale,
				"namespace", namespace,
				"fallback_locale", h.defaultLocale,
			)
			return loader.LoadResult{
				Locale:    locale,
				Namespace: namespace,
				Bundle:    substituted.Bundle,
				FromCache: substituted.FromCache,
				Fallback:  true,
			}
		}
	}

	h.logger.Warn("bundle.fallback.exhausted",
		"locale", locale,
		"namespace", namespace,
		"error", result.Err,
	)
	result.Bundle = bundle.Empty()
	result.Fallback = true
	return result
}

// ResolveAll resolves several namespaces concurrently. Every requested
// namespace gets a result; order between namespaces is unspecified.
func (h *Handler) ResolveAll(ctx context.Context, locale string, namespaces []string) map[string]loader.LoadResult {
	results := make(map[string]loader.LoadResult, len(namespaces))
	if len(namespaces) == 0 {
		return results
	}

	seen := make(map[string]struct{}, len(namespaces))
	unique := make([]string, 0, len(namespaces))
	for _, namespace := range namespaces {
		if _, dup := seen[namespace]; dup {
			continue
		}
		seen[namespace] = struct{}{}
		unique = append(unique, namespace)
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, namespace := range unique {
		wg.Add(1)
		go func(ns string) {
			defer wg.Done()
			res := h.Resolve(ctx, locale, ns)
			mu.Lock()
			results[ns] = res
			mu.Unlock()
		}(namespace)
	}
	wg.Wait()

	return results
}

// Preload warms the supplied namespaces for a locale synchronously. It is
// best-effort: failures are logged and dropped.
func (h *Handler) Preload(ctx context.Context, locale string, namespaces ...string) {
	if len(namespaces) == 0 {
		namespaces = h.critical
	}
	for namespace, result := range h.loader.LoadNamespaces(ctx, locale, namespaces) {
		if !result.OK() {
			h.logger.Debug("bundle.preload.failed",
				"locale", locale,
				"namespace", namespace,
				"error", result.Err,
			)
		}
	}
}

// PreloadCritical warms the critical namespace set in the background. It
// never blocks, never propagates failures, and must not be awaited by the
// render path.
func (h *Handler) PreloadCritical(locale string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), preloadTimeout)
		defer cancel()
		h.Preload(ctx, locale)
	}()
}

// CriticalNamespaces returns the configured warm-up set.
func (h *Handler) CriticalNamespaces() []string {
	out := make([]string, len(h.critical))
	copy(out, h.critical)
	return out
}

// DefaultLocale returns the locale used for substitution.
func (h *Handler) DefaultLocale() string {
	return h.defaultLocale
}

func (h *Handler) isDefault(locale string) bool {
	return locale == h.defaultLocale
}
