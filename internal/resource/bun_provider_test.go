package resource

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	cache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-localize/internal/bundle"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", "file:resource_test?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestBunProvider(t *testing.T) *BunProvider {
	t.Helper()

	provider := NewBunProvider(newTestDB(t))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := provider.CreateTable(ctx); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return provider
}

func TestBunProviderStoreAndFetch(t *testing.T) {
	provider := newTestBunProvider(t)
	ctx := context.Background()

	doc := bundle.Bundle{
		"title": "Notifications",
		"badges": map[string]any{
			"unread": "Unread",
		},
	}
	if err := provider.Store(ctx, "en", "notifications", doc); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	fetched, err := provider.Fetch(ctx, "en", "notifications")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got, _ := bundle.Lookup(fetched, "badges.unread"); got != "Unread" {
		t.Fatalf("unexpected document value %q", got)
	}
}

func TestBunProviderStoreReplacesDocument(t *testing.T) {
	provider := newTestBunProvider(t)
	ctx := context.Background()

	if err := provider.Store(ctx, "en", "reports", bundle.Bundle{"title": "Reports"}); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := provider.Store(ctx, "en", "reports", bundle.Bundle{"title": "Sales reports"}); err != nil {
		t.Fatalf("Store() update error = %v", err)
	}

	fetched, err := provider.Fetch(ctx, "en", "reports")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got, _ := bundle.Lookup(fetched, "title"); got != "Sales reports" {
		t.Fatalf("expected replaced document, got %q", got)
	}
}

func TestBunProviderMissingBundle(t *testing.T) {
	provider := newTestBunProvider(t)

	_, err := provider.Fetch(context.Background(), "fr", "reports")
	if !errors.Is(err, ErrBundleNotFound) {
		t.Fatalf("expected ErrBundleNotFound, got %v", err)
	}
}

func TestBunProviderRejectsInvalidShape(t *testing.T) {
	provider := newTestBunProvider(t)

	err := provider.Store(context.Background(), "en", "reports", bundle.Bundle{"total": 12})
	if !errors.Is(err, ErrBundleMalformed) {
		t.Fatalf("expected ErrBundleMalformed, got %v", err)
	}
}

func TestBunProviderWithCacheServesFetches(t *testing.T) {
	cacheCfg := cache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := cache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	keySerializer := cache.NewDefaultKeySerializer()

	provider := NewBunProviderWithCache(newTestDB(t), cacheService, keySerializer)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := provider.CreateTable(ctx); err != nil {
		t.Fatalf("create table: %v", err)
	}

	if err := provider.Store(ctx, "de", "menu", bundle.Bundle{"title": "Speisekarte"}); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	// Both the cold and the cache-served lookup must return the document.
	for i := 0; i < 2; i++ {
		fetched, err := provider.Fetch(ctx, "de", "menu")
		if err != nil {
			t.Fatalf("Fetch() #%d error = %v", i+1, err)
		}
		if got, _ := bundle.Lookup(fetched, "title"); got != "Speisekarte" {
			t.Fatalf("Fetch() #%d unexpected value %q", i+1, got)
		}
	}
}

func TestBunProviderRequiresDatabase(t *testing.T) {
	var provider *BunProvider
	if _, err := provider.Fetch(context.Background(), "en", "common"); !errors.Is(err, ErrDatabaseRequired) {
		t.Fatalf("expected ErrDatabaseRequired, got %v", err)
	}
}
