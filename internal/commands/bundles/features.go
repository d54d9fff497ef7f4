package bundlescmd

// FeatureGates exposes runtime feature toggles required by bundle command
// handlers. Callers supply closures that read from the module configuration
// so handlers stay decoupled from configuration packages.
type FeatureGates struct {
	// PreloadEnabled should return true when bundle preloading is enabled.
	PreloadEnabled func() bool
	// CacheEnabled should return true when the bundle cache is enabled.
	CacheEnabled func() bool
}

func (g FeatureGates) preloadEnabled() bool {
	if g.PreloadEnabled == nil {
		return true
	}
	return g.PreloadEnabled()
}

func (g FeatureGates) cacheEnabled() bool {
	if g.CacheEnabled == nil {
		return true
	}
	return g.CacheEnabled()
}
