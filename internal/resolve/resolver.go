// Package resolve assembles the translation payload for one request. It is
// the outermost guard of the localize runtime: whatever fails underneath,
// Resolve returns a usable Resolution so page delivery never depends on
// translation availability.
package resolve

import (
	"context"
	"errors"

	"github.com/goliatone/go-localize/internal/bundle"
	"github.com/goliatone/go-localize/internal/fallback"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/internal/registry"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

var (
	ErrLocalesRequired    = errors.New("resolve: locale registry is required")
	ErrNamespacesRequired = errors.New("resolve: namespace registry is required")
	ErrFallbackRequired   = errors.New("resolve: fallback handler is required")
)

// Resolution is the per-request translation payload handed to rendering.
type Resolution struct {
	Locale    string
	Direction registry.Direction
	Messages  map[string]bundle.Bundle

	// Degraded marks resolutions where at least one namespace fell back to
	// the default locale or to an empty bundle.
	Degraded bool
}

// Message resolves a dotted key inside a namespace, applying `{{name}}`
// interpolation. Missing keys return the raw key so broken translations
// surface visibly instead of blanking the UI.
func (r Resolution) Message(namespace, key string, vars map[string]string) string {
	if doc, ok := r.Messages[namespace]; ok {
		if value, found := bundle.Lookup(doc, key); found {
			return bundle.Interpolate(value, vars)
		}
	}
	return key
}

// Namespaces returns the namespaces present in the resolution.
func (r Resolution) Namespaces() []string {
	out := make([]string, 0, len(r.Messages))
	for namespace := range r.Messages {
		out = append(out, namespace)
	}
	return out
}

// Option mutates the resolver configuration.
type Option func(*Resolver)

// WithLogger injects the resolver logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver wires the locale registry, the route table, and the fallback
// handler into the request-time entry point.
type Resolver struct {
	locales    *registry.LocaleRegistry
	namespaces *registry.NamespaceRegistry
	fallback   *fallback.Handler
	logger     interfaces.Logger
}

// New constructs a resolver. All three collaborators are required.
func New(locales *registry.LocaleRegistry, namespaces *registry.NamespaceRegistry, handler *fallback.Handler, opts ...Option) (*Resolver, error) {
	if locales == nil {
		return nil, ErrLocalesRequired
	}
	if namespaces == nil {
		return nil, ErrNamespacesRequired
	}
	if handler == nil {
		return nil, ErrFallbackRequired
	}

	r := &Resolver{
		locales:    locales,
		namespaces: namespaces,
		fallback:   handler,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve produces the translation payload for one request. Unsupported
// locales resolve to the default locale; every route namespace is loaded
// concurrently with fallback; the critical namespace set is warmed in the
// background without blocking the response. Resolve never fails: a panic
// anywhere underneath degrades to an empty payload for the default locale.
func (r *Resolver) Resolve(ctx context.Context, localeCode, route string) (resolution Resolution) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("resolve.panic", "route", route, "panic", rec)
			resolution = r.minimalResolution()
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	locale := r.locales.Resolve(localeCode)
	namespaces := r.namespaces.NamespacesForRoute(route)

	resolution = Resolution{
		Locale:    locale.Code,
		Direction: locale.Direction,
		Messages:  make(map[string]bundle.Bundle, len(namespaces)),
	}

	for namespace, result := range r.fallback.ResolveAll(ctx, locale.Code, namespaces) {
		doc := result.Bundle
		if doc == nil {
			doc = bundle.Empty()
		}
		resolution.Messages[namespace] = doc
		if result.Fallback {
			resolution.Degraded = true
		}
	}

	r.fallback.PreloadCritical(locale.Code)

	r.logger.Debug("resolve.done",
		"locale", locale.Code,
		"route", route,
		"namespaces", len(resolution.Messages),
		"degraded", resolution.Degraded,
	)
	return resolution
}

// minimalResolution is the last-resort payload: default locale, no messages.
func (r *Resolver) minimalResolution() Resolution {
	locale := r.locales.Default()
	return Resolution{
		Locale:    locale.Code,
		Direction: locale.Direction,
		Messages:  make(map[string]bundle.Bundle),
		Degraded:  true,
	}
}
