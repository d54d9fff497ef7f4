// Package localize loads, caches, and validates the translation bundles
// backing a multi-locale web application. Content is organised into
// namespaces mapped from routes; every lookup falls back through the default
// locale to an empty bundle so page delivery never depends on translation
// availability.
package localize

import (
	"context"
	"errors"
	"io"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-localize/internal/bundle"
	"github.com/goliatone/go-localize/internal/commands"
	bundlescmd "github.com/goliatone/go-localize/internal/commands/bundles"
	"github.com/goliatone/go-localize/internal/fallback"
	"github.com/goliatone/go-localize/internal/loader"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/internal/logging/gologger"
	"github.com/goliatone/go-localize/internal/registry"
	"github.com/goliatone/go-localize/internal/resolve"
	"github.com/goliatone/go-localize/internal/resource"
	"github.com/goliatone/go-localize/internal/validate"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

// ErrProviderRequired indicates New was called without a bundle provider.
var ErrProviderRequired = errors.New("localize: bundle provider is required")

// Bundle re-exports the decoded translation document shape.
type Bundle = bundle.Bundle

// BundleProvider re-exports the backing-store contract.
type BundleProvider = interfaces.BundleProvider

// Resolution re-exports the per-request translation payload.
type Resolution = resolve.Resolution

// LoadResult re-exports the outcome of one namespace load.
type LoadResult = loader.LoadResult

// Report re-exports the completeness report.
type Report = validate.Report

// ValidationResult re-exports the per-namespace completeness verdict.
type ValidationResult = validate.Result

// LocaleSummary re-exports the per-locale completeness summary.
type LocaleSummary = validate.LocaleSummary

// UntranslatedKey re-exports the copy-through detection entry.
type UntranslatedKey = validate.UntranslatedKey

// PreloadBundlesCommand re-exports the cache warm-up command message.
type PreloadBundlesCommand = bundlescmd.PreloadBundlesCommand

// InvalidateBundleCacheCommand re-exports the cache invalidation command
// message.
type InvalidateBundleCacheCommand = bundlescmd.InvalidateBundleCacheCommand

// GenerateReportCommand re-exports the completeness report command message.
type GenerateReportCommand = bundlescmd.GenerateReportCommand

// Option configures the module beyond what Config carries.
type Option func(*moduleOptions)

type moduleOptions struct {
	provider       interfaces.BundleProvider
	db             *bun.DB
	loggerProvider interfaces.LoggerProvider
}

// WithProvider injects the bundle backing store. Either this or WithDatabase
// is required.
func WithProvider(provider interfaces.BundleProvider) Option {
	return func(o *moduleOptions) {
		o.provider = provider
	}
}

// WithDatabase builds a database-backed bundle provider over db, honouring
// Config.Cache for the repository-level cache wrap. Ignored when WithProvider
// is also supplied.
func WithDatabase(db *bun.DB) Option {
	return func(o *moduleOptions) {
		o.db = db
	}
}

// WithLoggerProvider injects a logger provider, overriding the go-logger
// instance New would build from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *moduleOptions) {
		o.loggerProvider = provider
	}
}

// Module is the top level localize runtime façade.
type Module struct {
	config         Config
	locales        *registry.LocaleRegistry
	namespaces     *registry.NamespaceRegistry
	loader         *loader.Loader
	fallback       *fallback.Handler
	validator      *validate.Validator
	resolver       *resolve.Resolver
	loggerProvider interfaces.LoggerProvider
}

// New constructs the localize module from the supplied configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := moduleOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.provider == nil && options.db != nil {
		options.provider = NewDatabaseProvider(options.db, cfg.Cache)
	}
	if options.provider == nil {
		return nil, ErrProviderRequired
	}

	loggerProvider := options.loggerProvider
	if loggerProvider == nil && cfg.Logging.Enabled {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		loggerProvider = provider
	}

	locales, err := registry.NewLocaleRegistry(cfg.DefaultLocale, cfg.Locales)
	if err != nil {
		return nil, err
	}

	namespaces, err := registry.NewNamespaceRegistry(registry.NamespaceRegistryConfig{
		Namespaces: cfg.Namespaces,
		Routes:     cfg.Routes,
		Generic:    cfg.GenericNamespaces,
	})
	if err != nil {
		return nil, err
	}

	loaderOpts := []loader.Option{
		loader.WithLogger(logging.LoaderLogger(loggerProvider)),
	}
	if cfg.FetchTimeout > 0 {
		loaderOpts = append(loaderOpts, loader.WithFetchTimeout(cfg.FetchTimeout))
	}
	bundleLoader := loader.New(options.provider, loaderOpts...)

	fallbackOpts := []fallback.Option{
		fallback.WithLogger(logging.FallbackLogger(loggerProvider)),
	}
	if len(cfg.CriticalNamespaces) > 0 {
		fallbackOpts = append(fallbackOpts, fallback.WithCriticalNamespaces(cfg.CriticalNamespaces...))
	}
	handler := fallback.New(bundleLoader, locales.Default().Code, fallbackOpts...)

	validator, err := validate.New(bundleLoader, locales, namespaces.Namespaces(),
		validate.WithLogger(logging.ValidatorLogger(loggerProvider)))
	if err != nil {
		return nil, err
	}

	resolver, err := resolve.New(locales, namespaces, handler,
		resolve.WithLogger(logging.ResolverLogger(loggerProvider)))
	if err != nil {
		return nil, err
	}

	return &Module{
		config:         cfg,
		locales:        locales,
		namespaces:     namespaces,
		loader:         bundleLoader,
		fallback:       handler,
		validator:      validator,
		resolver:       resolver,
		loggerProvider: loggerProvider,
	}, nil
}

// Resolve produces the translation payload for one request. It never fails.
func (m *Module) Resolve(ctx context.Context, locale, route string) Resolution {
	return m.resolver.Resolve(ctx, locale, route)
}

// Report produces the completeness report for every non-default locale.
func (m *Module) Report(ctx context.Context) Report {
	return m.validator.Report(ctx)
}

// Locales returns the locale registry.
func (m *Module) Locales() *registry.LocaleRegistry {
	return m.locales
}

// Namespaces returns the namespace registry and route table.
func (m *Module) Namespaces() *registry.NamespaceRegistry {
	return m.namespaces
}

// Loader returns the namespace loader and its cache.
func (m *Module) Loader() *loader.Loader {
	return m.loader
}

// Fallback returns the fallback handler.
func (m *Module) Fallback() *fallback.Handler {
	return m.fallback
}

// Validator returns the completeness validator.
func (m *Module) Validator() *validate.Validator {
	return m.validator
}

// Resolver returns the request-time resolver.
func (m *Module) Resolver() *resolve.Resolver {
	return m.resolver
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	return m.config
}

// Commands returns the operational command handlers wired to the module.
func (m *Module) Commands() Commands {
	return Commands{module: m}
}

// Commands groups the go-command handlers for cache and report operations.
type Commands struct {
	module *Module
}

// Preload returns the handler that warms bundles for a locale.
func (c Commands) Preload() *bundlescmd.PreloadBundlesHandler {
	return bundlescmd.NewPreloadBundlesHandler(
		c.module.fallback,
		bundlescmd.FeatureGates{},
		commands.CommandLogger(c.module.loggerProvider, "bundles"),
	)
}

// InvalidateCache returns the handler that drops every memoised bundle.
func (c Commands) InvalidateCache() *bundlescmd.InvalidateBundleCacheHandler {
	return bundlescmd.NewInvalidateBundleCacheHandler(
		c.module.loader,
		bundlescmd.FeatureGates{},
		commands.CommandLogger(c.module.loggerProvider, "bundles"),
	)
}

// GenerateReport returns the handler that writes the completeness report to
// sink as JSON.
func (c Commands) GenerateReport(sink io.Writer) *bundlescmd.GenerateReportHandler {
	return bundlescmd.NewGenerateReportHandler(
		c.module.validator,
		sink,
		commands.CommandLogger(c.module.loggerProvider, "bundles"),
	)
}

// NewDirProvider returns a filesystem bundle provider rooted at dir, laid out
// as <dir>/<locale>/<namespace>.json.
func NewDirProvider(dir string) BundleProvider {
	return resource.NewDirProvider(dir)
}

// NewMemoryProvider returns an in-memory bundle provider, useful for tests
// and embedded defaults.
func NewMemoryProvider() *resource.MemoryProvider {
	return resource.NewMemoryProvider()
}

// NewDatabaseProvider returns a bun-backed bundle provider. When the cache
// configuration is enabled, record lookups are wrapped with a
// go-repository-cache service honouring the configured TTL; a cache service
// that fails to construct degrades to the uncached repository.
func NewDatabaseProvider(db *bun.DB, cacheCfg CacheConfig) *resource.BunProvider {
	if !cacheCfg.Enabled {
		return resource.NewBunProvider(db)
	}

	serviceCfg := repocache.DefaultConfig()
	if cacheCfg.TTL > 0 {
		serviceCfg.TTL = cacheCfg.TTL
	}
	service, err := repocache.NewCacheService(serviceCfg)
	if err != nil {
		return resource.NewBunProvider(db)
	}

	return resource.NewBunProviderWithCache(db, service, repocache.NewDefaultKeySerializer())
}
