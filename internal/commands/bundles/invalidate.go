package bundlescmd

import (
	"context"

	"github.com/goliatone/go-localize/internal/commands"
	"github.com/goliatone/go-localize/internal/loader"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

const invalidateCacheMessageType = "localize.bundles.invalidate"

// InvalidateBundleCacheCommand drops every memoised bundle so the next load
// refetches from the backing store. Issued after translation deployments.
type InvalidateBundleCacheCommand struct{}

// Type implements command.Message.
func (InvalidateBundleCacheCommand) Type() string { return invalidateCacheMessageType }

// Validate implements command.Message.
func (InvalidateBundleCacheCommand) Validate() error { return nil }

// InvalidateBundleCacheHandler clears the loader cache using the shared
// command handler foundation.
type InvalidateBundleCacheHandler struct {
	inner *commands.Handler[InvalidateBundleCacheCommand]
}

// NewInvalidateBundleCacheHandler constructs a handler wired to the loader.
func NewInvalidateBundleCacheHandler(l *loader.Loader, gates FeatureGates, logger interfaces.Logger, opts ...commands.HandlerOption[InvalidateBundleCacheCommand]) *InvalidateBundleCacheHandler {
	exec := func(ctx context.Context, msg InvalidateBundleCacheCommand) error {
		if !gates.cacheEnabled() {
			return nil
		}
		dropped := l.CacheSize()
		l.ClearCache()
		if logger != nil {
			logger.Info("bundles.cache.invalidated", "dropped", dropped)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[InvalidateBundleCacheCommand]{
		commands.WithLogger[InvalidateBundleCacheCommand](logger),
		commands.WithOperation[InvalidateBundleCacheCommand]("bundles.invalidate"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &InvalidateBundleCacheHandler{
		inner: commands.NewHandler[InvalidateBundleCacheCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[InvalidateBundleCacheCommand].Execute.
func (h *InvalidateBundleCacheHandler) Execute(ctx context.Context, msg InvalidateBundleCacheCommand) error {
	return h.inner.Execute(ctx, msg)
}
