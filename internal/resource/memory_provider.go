package resource

import (
	"context"
	"sync"

	"github.com/goliatone/go-localize/internal/bundle"
)

// MemoryProvider serves bundle documents from an in-memory table. It backs
// tests and embedded deployments that register their documents at start-up.
type MemoryProvider struct {
	mu    sync.RWMutex
	table map[string]bundle.Bundle
}

// NewMemoryProvider constructs an empty provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{table: make(map[string]bundle.Bundle)}
}

// Register stores a document for a locale and namespace, validating its
// shape first. Registering the same pair twice replaces the document.
func (p *MemoryProvider) Register(locale, namespace string, doc bundle.Bundle) error {
	if err := validateCoordinates(locale, namespace); err != nil {
		return err
	}
	if err := validateDocumentShape(doc); err != nil {
		return &MalformedError{Locale: locale, Namespace: namespace, Cause: err}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.table == nil {
		p.table = make(map[string]bundle.Bundle)
	}
	p.table[Key(locale, namespace)] = bundle.Clone(doc)
	return nil
}

// Fetch implements interfaces.BundleProvider.
func (p *MemoryProvider) Fetch(ctx context.Context, locale, namespace string) (bundle.Bundle, error) {
	if err := validateCoordinates(locale, namespace); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	doc, ok := p.table[Key(locale, namespace)]
	p.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{Locale: locale, Namespace: namespace}
	}
	return bundle.Clone(doc), nil
}
