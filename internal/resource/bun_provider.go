package resource

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	bundlepkg "github.com/goliatone/go-localize/internal/bundle"
)

// ErrDatabaseRequired indicates the bun provider was constructed without a
// database handle.
var ErrDatabaseRequired = errors.New("resource: bun provider requires a database")

// BundleRecord is the persisted form of one translation document.
type BundleRecord struct {
	bun.BaseModel `bun:"table:translation_bundles,alias:tb"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Locale      string    `bun:"locale,notnull"`
	Namespace   string    `bun:"namespace,notnull"`
	ResourceKey string    `bun:"resource_key,notnull,unique"`
	Document    []byte    `bun:"document,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

// BunProvider serves bundle documents from a Bun-backed database, the
// "remote store" variant of the bundle provider.
type BunProvider struct {
	db   *bun.DB
	repo repository.Repository[*BundleRecord]
}

// NewBunProvider constructs a database-backed provider without caching.
func NewBunProvider(db *bun.DB) *BunProvider {
	return NewBunProviderWithCache(db, nil, nil)
}

// NewBunProviderWithCache constructs a database-backed provider whose record
// lookups are wrapped with the supplied cache service.
func NewBunProviderWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunProvider {
	base := newBundleRepository(db)
	return &BunProvider{
		db:   db,
		repo: wrapWithCache(base, cacheService, keySerializer),
	}
}

func newBundleRepository(db *bun.DB) repository.Repository[*BundleRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*BundleRecord]{
		NewRecord: func() *BundleRecord { return &BundleRecord{} },
		GetID: func(r *BundleRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *BundleRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "resource_key"
		},
		GetIdentifierValue: func(r *BundleRecord) string {
			return r.ResourceKey
		},
	})
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}

// Fetch implements interfaces.BundleProvider.
func (p *BunProvider) Fetch(ctx context.Context, locale, namespace string) (bundlepkg.Bundle, error) {
	if p == nil || p.db == nil {
		return nil, ErrDatabaseRequired
	}
	if err := validateCoordinates(locale, namespace); err != nil {
		return nil, err
	}

	record, err := p.repo.GetByIdentifier(ctx, Key(locale, namespace))
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{Locale: locale, Namespace: namespace}
		}
		return nil, err
	}

	return decodeDocument(locale, namespace, record.Document)
}

// Store persists a document for a locale and namespace, replacing any
// previous revision. Used by seeders and sync tooling.
func (p *BunProvider) Store(ctx context.Context, locale, namespace string, doc bundlepkg.Bundle) error {
	if p == nil || p.db == nil {
		return ErrDatabaseRequired
	}
	if err := validateCoordinates(locale, namespace); err != nil {
		return err
	}
	if err := validateDocumentShape(doc); err != nil {
		return &MalformedError{Locale: locale, Namespace: namespace, Cause: err}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return &MalformedError{Locale: locale, Namespace: namespace, Cause: err}
	}

	key := Key(locale, namespace)
	now := time.Now().UTC()

	record := &BundleRecord{
		Locale:      normalizeComponent(locale),
		Namespace:   normalizeComponent(namespace),
		ResourceKey: key,
		Document:    data,
		UpdatedAt:   now,
	}

	existing, err := p.repo.GetByIdentifier(ctx, key)
	if err != nil {
		if !goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return err
		}
		record.ID = uuid.New()
		if _, err := p.db.NewInsert().Model(record).Exec(ctx); err != nil {
			return err
		}
		return nil
	}

	record.ID = existing.ID
	if _, err := p.db.NewUpdate().
		Model(record).
		Column("document", "updated_at").
		WherePK().
		Exec(ctx); err != nil {
		return err
	}
	return nil
}

// CreateTable creates the backing table when it does not exist. Intended for
// tests and embedded deployments; production schemas are migrated externally.
func (p *BunProvider) CreateTable(ctx context.Context) error {
	if p == nil || p.db == nil {
		return ErrDatabaseRequired
	}
	_, err := p.db.NewCreateTable().Model((*BundleRecord)(nil)).IfNotExists().Exec(ctx)
	return err
}
