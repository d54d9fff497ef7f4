package localize

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func newTestModule(t *testing.T) *Module {
	t.Helper()

	provider := NewMemoryProvider()
	seed := map[string]map[string]Bundle{
		"en": {
			"common":     {"appName": "Restaurant Insights", "greeting": "Welcome back, {{name}}"},
			"navigation": {"home": "Home"},
			"dashboard":  {"title": "Dashboard"},
			"errors":     {"notFound": "Not found"},
		},
		"fr": {
			"common": {"appName": "Restaurant Insights", "greeting": "Bon retour, {{name}}"},
		},
	}
	for locale, namespaces := range seed {
		for namespace, doc := range namespaces {
			if err := provider.Register(locale, namespace, doc); err != nil {
				t.Fatalf("seed %s:%s: %v", locale, namespace, err)
			}
		}
	}

	module, err := New(DefaultConfig(), WithProvider(provider))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return module
}

func TestNewRequiresProvider(t *testing.T) {
	if _, err := New(DefaultConfig()); !errors.Is(err, ErrProviderRequired) {
		t.Fatalf("expected ErrProviderRequired, got %v", err)
	}
}

func TestNewValidatesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLocale = ""
	if _, err := New(cfg, WithProvider(NewMemoryProvider())); err == nil {
		t.Fatal("expected validation error for missing default locale")
	}
}

func TestNewRejectsUnknownRouteNamespace(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Routes = append(cfg.Routes, RouteRule{Pattern: "/kitchen", Namespaces: []string{"unregistered"}})
	if _, err := New(cfg, WithProvider(NewMemoryProvider())); err == nil {
		t.Fatal("expected error for route referencing unknown namespace")
	}
}

func TestModuleResolve(t *testing.T) {
	module := newTestModule(t)

	res := module.Resolve(context.Background(), "fr", "/dashboard")
	if res.Locale != "fr" {
		t.Fatalf("unexpected locale %q", res.Locale)
	}
	if got := res.Message("common", "greeting", map[string]string{"name": "Maya"}); got != "Bon retour, Maya" {
		t.Fatalf("unexpected message %q", got)
	}
	// fr has no dashboard bundle; en substitutes.
	if got := res.Message("dashboard", "title", nil); got != "Dashboard" {
		t.Fatalf("expected substituted title, got %q", got)
	}
	if !res.Degraded {
		t.Fatal("partial locale must mark the resolution degraded")
	}
}

func TestModuleResolveUnsupportedLocale(t *testing.T) {
	module := newTestModule(t)

	res := module.Resolve(context.Background(), "xx", "/")
	if res.Locale != "en" {
		t.Fatalf("unsupported locale must resolve to default, got %q", res.Locale)
	}
}

func TestModuleReport(t *testing.T) {
	module := newTestModule(t)

	report := module.Report(context.Background())
	if report.DefaultLocale != "en" {
		t.Fatalf("unexpected default locale %q", report.DefaultLocale)
	}
	if _, ok := report.Locales["fr"]; !ok {
		t.Fatal("expected fr summary in report")
	}
	if report.OverallCompleteness <= 0 || report.OverallCompleteness >= 1 {
		t.Fatalf("expected partial overall completeness, got %v", report.OverallCompleteness)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
	if cfg.DefaultLocale != "en" {
		t.Fatalf("unexpected default locale %q", cfg.DefaultLocale)
	}
	if len(cfg.Locales) != 11 {
		t.Fatalf("expected 11 locales, got %d", len(cfg.Locales))
	}
	if len(cfg.Namespaces) == 0 || len(cfg.Routes) == 0 {
		t.Fatal("default config must ship namespaces and routes")
	}
}

func TestConfigValidateRejectsBadLogging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Enabled = true
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown logging level")
	}

	cfg = DefaultConfig()
	cfg.Logging.Enabled = true
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown logging format")
	}
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", "file:localize_test?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewWithDatabase(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Seed through an uncached provider against the same database.
	seed := NewDatabaseProvider(db, CacheConfig{})
	if err := seed.CreateTable(ctx); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := seed.Store(ctx, "en", "common", Bundle{"appName": "Restaurant Insights"}); err != nil {
		t.Fatalf("seed en:common: %v", err)
	}

	// DefaultConfig enables the repository cache, so lookups go through the
	// cache-wrapped repository.
	cfg := DefaultConfig()
	cfg.Cache.TTL = time.Minute
	module, err := New(cfg, WithDatabase(db))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res := module.Resolve(ctx, "en", "/dashboard")
	if got := res.Message("common", "appName", nil); got != "Restaurant Insights" {
		t.Fatalf("unexpected message %q", got)
	}
	// Missing namespaces degrade to empty bundles, never errors.
	if doc, ok := res.Messages["dashboard"]; !ok || doc == nil || len(doc) != 0 {
		t.Fatalf("expected empty dashboard bundle, got %#v", doc)
	}
}

func TestNewDatabaseProviderUncached(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	provider := NewDatabaseProvider(db, CacheConfig{Enabled: false})
	if err := provider.CreateTable(ctx); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := provider.Store(ctx, "fr", "menu", Bundle{"title": "Menu"}); err != nil {
		t.Fatalf("store: %v", err)
	}
	doc, err := provider.Fetch(ctx, "fr", "menu")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if doc["title"] != "Menu" {
		t.Fatalf("unexpected document %#v", doc)
	}
}

func TestModuleCommands(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()
	cmds := module.Commands()

	if err := cmds.Preload().Execute(ctx, PreloadBundlesCommand{Locale: "en"}); err != nil {
		t.Fatalf("preload command error = %v", err)
	}
	if module.Loader().CacheSize() == 0 {
		t.Fatal("preload command must warm the cache")
	}

	if err := cmds.InvalidateCache().Execute(ctx, InvalidateBundleCacheCommand{}); err != nil {
		t.Fatalf("invalidate command error = %v", err)
	}
	if module.Loader().CacheSize() != 0 {
		t.Fatal("invalidate command must clear the cache")
	}

	var buf bytes.Buffer
	if err := cmds.GenerateReport(&buf).Execute(ctx, GenerateReportCommand{Pretty: true}); err != nil {
		t.Fatalf("report command error = %v", err)
	}
	var report Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
}

func TestModuleAccessors(t *testing.T) {
	module := newTestModule(t)

	if module.Loader() == nil || module.Fallback() == nil || module.Validator() == nil || module.Resolver() == nil {
		t.Fatal("module accessors must expose wired services")
	}
	if module.Locales().Default().Code != "en" {
		t.Fatalf("unexpected default locale %q", module.Locales().Default().Code)
	}
	if !module.Namespaces().IsNamespace("dashboard") {
		t.Fatal("expected dashboard namespace to be registered")
	}
}
