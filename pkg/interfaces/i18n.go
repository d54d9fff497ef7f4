package interfaces

import "context"

// Bundle is the decoded translation document for one (locale, namespace)
// pair: an arbitrarily nested object whose leaf values are strings.
type Bundle = map[string]any

// BundleProvider retrieves the raw translation document for a locale and
// namespace from a backing store. Implementations may read from a filesystem,
// an embedded resource table, or a database; the loader never assumes a
// particular retrieval mechanism.
//
// Missing resources and documents that violate the bundle shape must be
// reported through the sentinel errors exposed by the resource package so the
// fallback layer can treat both failure classes the same way.
type BundleProvider interface {
	Fetch(ctx context.Context, locale, namespace string) (Bundle, error)
}
