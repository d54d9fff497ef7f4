// Package loader fetches translation bundles through a resource provider,
// memoising successful loads in an in-memory cache keyed locale:namespace.
// Failures are carried as values on LoadResult; nothing below the resolver
// boundary throws.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-localize/internal/bundle"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/internal/resource"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// ErrProviderRequired indicates the loader was constructed without a bundle
// provider.
var ErrProviderRequired = errors.New("loader: bundle provider is required")

// ErrProviderPanic indicates the bundle provider panicked during a fetch.
// The panic is contained here so it surfaces as an ordinary load failure and
// feeds the fallback path instead of crashing request handling.
var ErrProviderPanic = errors.New("loader: bundle provider panicked")

// DefaultFetchTimeout bounds a single backing-store fetch. A timeout is an
// ordinary load failure and feeds the same fallback path as a missing file.
const DefaultFetchTimeout = 5 * time.Second

// LoadResult reports one namespace-load attempt.
type LoadResult struct {
	Locale    string
	Namespace string
	Bundle    bundle.Bundle
	Err       error
	FromCache bool
	// Fallback marks bundles substituted from the default locale.
	Fallback bool
}

// OK reports whether the attempt produced a usable bundle.
func (r LoadResult) OK() bool {
	return r.Err == nil
}

// Option mutates the loader configuration.
type Option func(*Loader)

// WithLogger injects the loader logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithFetchTimeout overrides the per-fetch timeout. Zero or negative
// disables the bound.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		l.timeout = timeout
	}
}

// Loader loads and caches translation bundles. The cache is owned by the
// loader instance, constructed once at process start and shared by
// injection, never through package-level state.
type Loader struct {
	provider resource.Provider
	logger   interfaces.Logger
	timeout  time.Duration

	mu    sync.RWMutex
	cache map[string]bundle.Bundle
}

// New constructs a loader over the supplied provider.
func New(provider resource.Provider, opts ...Option) *Loader {
	l := &Loader{
		provider: provider,
		logger:   logging.NoOp(),
		timeout:  DefaultFetchTimeout,
		cache:    make(map[string]bundle.Bundle),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadNamespace loads one bundle, consulting the cache first. Only
// successful loads populate the cache; failures are returned as values and
// retried on the next call.
func (l *Loader) LoadNamespace(ctx context.Context, locale, namespace string) LoadResult {
	result := LoadResult{Locale: locale, Namespace: namespace}

	if l == nil || l.provider == nil {
		result.Err = ErrProviderRequired
		return result
	}
	if ctx == nil {
		ctx = context.Background()
	}

	key := resource.Key(locale, namespace)

	l.mu.RLock()
	cached, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		result.Bundle = cached
		result.FromCache = true
		return result
	}

	fetchCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	doc, err := l.fetch(fetchCtx, locale, namespace)
	if err != nil {
		l.logger.Debug("bundle.load.failed", "key", key, "error", err)
		result.Err = err
		return result
	}
	if doc == nil {
		doc = bundle.Empty()
	}

	l.mu.Lock()
	l.cache[key] = doc
	l.mu.Unlock()

	l.logger.Debug("bundle.load.success", "key", key, "keys", len(doc))
	result.Bundle = doc
	return result
}

// fetch calls the provider with panics contained. Loads run in worker
// goroutines, so an escaping panic would kill the process rather than a
// single request.
func (l *Loader) fetch(ctx context.Context, locale, namespace string) (doc bundle.Bundle, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			l.logger.Error("bundle.load.panic",
				"key", resource.Key(locale, namespace),
				"panic", rec,
			)
			doc = nil
			err = fmt.Errorf("%w: %v", ErrProviderPanic, rec)
		}
	}()
	return l.provider.Fetch(ctx, locale, namespace)
}

// LoadNamespaces loads several bundles for one locale concurrently. There
// is no ordering between namespaces and a failure in one never aborts the
// others; callers receive one result per requested namespace.
func (l *Loader) LoadNamespaces(ctx context.Context, locale string, namespaces []string) map[string]LoadResult {
	results := make(map[string]LoadResult, len(namespaces))
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
			res := l.LoadNamespace(ctx, locale, ns)
			mu.Lock()
			results[ns] = res
			mu.Unlock()
		}(namespace)
	}
	wg.Wait()

	return results
}

// Cached reports whether a bundle is currently memoised.
func (l *Loader) Cached(locale, namespace string) bool {
	if l == nil {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.cache[resource.Key(locale, namespace)]
	return ok
}

// CacheSize returns the number of memoised bundles.
func (l *Loader) CacheSize() int {
	if l == nil {
		return 0
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}

// ClearCache drops every memoised bundle. Intended for tests and for
// operational cache-invalidation commands.
func (l *Loader) ClearCache() {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.cache = make(map[string]bundle.Bundle)
	l.mu.Unlock()
}
