package resource

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"

	"github.com/goliatone/go-localize/internal/bundle"
)

// FSProvider reads bundle documents from a filesystem laid out as
// <root>/<locale>/<namespace>.json.
type FSProvider struct {
	fsys fs.FS
	root string
}

// FSOption mutates the provider configuration.
type FSOption func(*FSProvider)

// WithRoot sets a subdirectory inside the filesystem that holds the locale
// directories.
func WithRoot(root string) FSOption {
	return func(p *FSProvider) {
		p.root = path.Clean(root)
	}
}

// NewFSProvider constructs a provider over any fs.FS (embedded tables
// included).
func NewFSProvider(fsys fs.FS, opts ...FSOption) *FSProvider {
	p := &FSProvider{fsys: fsys, root: "."}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewDirProvider constructs a provider over a directory on disk.
func NewDirProvider(dir string) *FSProvider {
	return NewFSProvider(os.DirFS(dir))
}

// Fetch implements interfaces.BundleProvider.
func (p *FSProvider) Fetch(ctx context.Context, locale, namespace string) (bundle.Bundle, error) {
	if p == nil || p.fsys == nil {
		return nil, &NotFoundError{Locale: locale, Namespace: namespace}
	}
	if err := validateCoordinates(locale, namespace); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := p.documentPath(locale, namespace)
	data, err := fs.ReadFile(p.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Locale: locale, Namespace: namespace}
		}
		return nil, err
	}

	return decodeDocument(locale, namespace, data)
}

func (p *FSProvider) documentPath(locale, namespace string) string {
	name := path.Join(normalizeComponent(locale), normalizeComponent(namespace)+".json")
	if p.root != "" && p.root != "." {
		name = path.Join(p.root, name)
	}
	return name
}
