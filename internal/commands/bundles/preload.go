// Package bundlescmd hosts the operational commands for the bundle cache:
// warming namespaces ahead of traffic, invalidating stale entries, and
// generating completeness reports.
package bundlescmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-localize/internal/commands"
	"github.com/goliatone/go-localize/internal/fallback"
	"github.com/goliatone/go-localize/pkg/interfaces"
)

const preloadBundlesMessageType = "localize.bundles.preload"

// PreloadBundlesCommand warms the cache for a locale. An empty namespace
// list warms the critical set.
type PreloadBundlesCommand struct {
	Locale     string   `json:"locale"`
	Namespaces []string `json:"namespaces,omitempty"`
}

// Type implements command.Message.
func (PreloadBundlesCommand) Type() string { return preloadBundlesMessageType }

// Validate ensures the message carries the required fields before reaching
// handlers.
func (m PreloadBundlesCommand) Validate() error {
	errs := validation.Errors{}
	if m.Locale == "" {
		errs["locale"] = validation.NewError("localize.bundles.preload.locale_required", "locale is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PreloadBundlesHandler warms bundles through the fallback handler using the
// shared command handler foundation.
type PreloadBundlesHandler struct {
	inner *commands.Handler[PreloadBundlesCommand]
}

// NewPreloadBundlesHandler constructs a handler wired to the fallback handler.
func NewPreloadBundlesHandler(handler *fallback.Handler, gates FeatureGates, logger interfaces.Logger, opts ...commands.HandlerOption[PreloadBundlesCommand]) *PreloadBundlesHandler {
	exec := func(ctx context.Context, msg PreloadBundlesCommand) error {
		if !gates.preloadEnabled() {
			return nil
		}
		handler.Preload(ctx, msg.Locale, msg.Namespaces...)
		return nil
	}

	handlerOpts := []commands.HandlerOption[PreloadBundlesCommand]{
		commands.WithLogger[PreloadBundlesCommand](logger),
		commands.WithOperation[PreloadBundlesCommand]("bundles.preload"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PreloadBundlesHandler{
		inner: commands.NewHandler[PreloadBundlesCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PreloadBundlesCommand].Execute.
func (h *PreloadBundlesHandler) Execute(ctx context.Context, msg PreloadBundlesCommand) error {
	return h.inner.Execute(ctx, msg)
}
