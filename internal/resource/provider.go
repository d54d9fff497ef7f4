// Package resource supplies the backing stores for translation bundles.
// A provider fetches the raw JSON document for one (locale, namespace)
// pair; the loader layered above decides caching and failure policy.
package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-localize/internal/bundle"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

var (
	// ErrBundleNotFound indicates no document exists for the requested
	// locale and namespace.
	ErrBundleNotFound = errors.New("resource: bundle not found")

	// ErrBundleMalformed indicates a document exists but is not valid JSON
	// or violates the bundle shape (nested objects with string leaves).
	// Fallback handling treats it exactly like a missing bundle.
	ErrBundleMalformed = errors.New("resource: bundle document malformed")

	ErrLocaleRequired    = errors.New("resource: locale is required")
	ErrNamespaceRequired = errors.New("resource: namespace is required")
)

// Provider re-exports the bundle provider contract for internal consumers.
type Provider = interfaces.BundleProvider

// NotFoundError carries the lookup coordinates of a missing bundle.
type NotFoundError struct {
	Locale    string
	Namespace string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrBundleNotFound.Error()
	}
	return fmt.Sprintf("%s: %s", ErrBundleNotFound.Error(), Key(e.Locale, e.Namespace))
}

func (e *NotFoundError) Unwrap() error {
	return ErrBundleNotFound
}

// MalformedError carries the lookup coordinates and cause of a document
// that failed decoding or shape validation.
type MalformedError struct {
	Locale    string
	Namespace string
	Cause     error
}

func (e *MalformedError) Error() string {
	if e == nil {
		return ErrBundleMalformed.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", ErrBundleMalformed.Error(), Key(e.Locale, e.Namespace), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrBundleMalformed.Error(), Key(e.Locale, e.Namespace))
}

func (e *MalformedError) Unwrap() error {
	return ErrBundleMalformed
}

// Key builds the canonical cache/storage key for a locale and namespace.
func Key(locale, namespace string) string {
	return normalizeComponent(locale) + ":" + normalizeComponent(namespace)
}

func normalizeComponent(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func validateCoordinates(locale, namespace string) error {
	if normalizeComponent(locale) == "" {
		return ErrLocaleRequired
	}
	if normalizeComponent(namespace) == "" {
		return ErrNamespaceRequired
	}
	return nil
}

// decodeDocument parses raw JSON into a bundle and enforces the document
// shape. Any failure maps to MalformedError.
func decodeDocument(locale, namespace string, data []byte) (bundle.Bundle, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedError{Locale: locale, Namespace: namespace, Cause: err}
	}
	if err := validateDocumentShape(doc); err != nil {
		return nil, &MalformedError{Locale: locale, Namespace: namespace, Cause: err}
	}
	if doc == nil {
		doc = bundle.Empty()
	}
	return doc, nil
}
