package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	ErrNamespacesRequired      = errors.New("registry: at least one namespace is required")
	ErrNamespaceNameRequired   = errors.New("registry: namespace name is required")
	ErrDuplicateNamespace      = errors.New("registry: duplicate namespace")
	ErrUnknownRouteNamespace   = errors.New("registry: route references unknown namespace")
	ErrRoutePatternRequired    = errors.New("registry: route pattern is required")
	ErrRoutePatternInvalid     = errors.New("registry: route pattern is invalid")
	ErrRouteNamespacesRequired = errors.New("registry: route requires at least one namespace")
)

// RouteRule binds a route pattern to the ordered namespaces required to
// render it. Patterns use path segments where `[name]` matches exactly one
// segment and a trailing `*` segment matches the remainder of the path;
// entries without either marker are exact routes.
type RouteRule struct {
	Pattern    string
	Namespaces []string
}

// NamespaceRegistry is the closed namespace set plus the route table.
// Exact entries are always consulted before patterns; patterns match in
// registration order, first match wins. Routes with no match resolve to the
// generic fallback set.
type NamespaceRegistry struct {
	names   map[string]struct{}
	ordered []string

	exact    map[string][]string
	patterns []compiledRoute
	generic  []string
}

type compiledRoute struct {
	pattern    string
	matcher    glob.Glob
	namespaces []string
}

// NamespaceRegistryConfig carries the inputs for NewNamespaceRegistry.
type NamespaceRegistryConfig struct {
	Namespaces []string
	Routes     []RouteRule
	// Generic is the namespace set returned for unmatched routes. Defaults
	// to {common, navigation, errors} intersected with Namespaces.
	Generic []string
}

// DefaultNamespaces returns the namespace buckets shipped with the module.
func DefaultNamespaces() []string {
	return []string{
		"common",
		"navigation",
		"dashboard",
		"analytics",
		"reports",
		"settings",
		"auth",
		"errors",
		"notifications",
		"billing",
		"inventory",
		"staff",
		"menu",
		"feedback",
	}
}

// DefaultRoutes returns the route table shipped with the module.
func DefaultRoutes() []RouteRule {
	return []RouteRule{
		{Pattern: "/", Namespaces: []string{"common", "navigation", "dashboard"}},
		{Pattern: "/dashboard", Namespaces: []string{"common", "navigation", "dashboard"}},
		{Pattern: "/analytics", Namespaces: []string{"common", "navigation", "analytics"}},
		{Pattern: "/reports", Namespaces: []string{"common", "navigation", "reports"}},
		{Pattern: "/settings", Namespaces: []string{"common", "navigation", "settings"}},
		{Pattern: "/login", Namespaces: []string{"common", "auth", "errors"}},
		{Pattern: "/reports/[id]", Namespaces: []string{"common", "navigation", "reports"}},
		{Pattern: "/staff/[id]", Namespaces: []string{"common", "navigation", "staff"}},
		{Pattern: "/menu/[section]", Namespaces: []string{"common", "navigation", "menu", "inventory"}},
		{Pattern: "/settings/*", Namespaces: []string{"common", "navigation", "settings", "billing"}},
		{Pattern: "/notifications/*", Namespaces: []string{"common", "navigation", "notifications"}},
	}
}

// NewNamespaceRegistry compiles the namespace set and route table. Route
// namespaces must belong to the namespace set.
func NewNamespaceRegistry(cfg NamespaceRegistryConfig) (*NamespaceRegistry, error) {
	if len(cfg.Namespaces) == 0 {
		return nil, ErrNamespacesRequired
	}

	names := make(map[string]struct{}, len(cfg.Namespaces))
	ordered := make([]string, 0, len(cfg.Namespaces))
	for _, raw := range cfg.Namespaces {
		name := normalizeNamespace(raw)
		if name == "" {
			return nil, ErrNamespaceNameRequired
		}
		if _, exists := names[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNamespace, name)
		}
		names[name] = struct{}{}
		ordered = append(ordered, name)
	}

	registry := &NamespaceRegistry{
		names:   names,
		ordered: ordered,
		exact:   make(map[string][]string),
	}

	for _, rule := range cfg.Routes {
		pattern := strings.TrimSpace(rule.Pattern)
		if pattern == "" {
			return nil, ErrRoutePatternRequired
		}
		namespaces, err := registry.normalizeRouteNamespaces(pattern, rule.Namespaces)
		if err != nil {
			return nil, err
		}

		if !isPatternRoute(pattern) {
			registry.exact[normalizePath(pattern)] = namespaces
			continue
		}

		matcher, err := compileRoutePattern(pattern)
		if err != nil {
			return nil, err
		}
		registry.patterns = append(registry.patterns, compiledRoute{
			pattern:    pattern,
			matcher:    matcher,
			namespaces: namespaces,
		})
	}

	generic := cfg.Generic
	if len(generic) == 0 {
		generic = []string{"common", "navigation", "errors"}
	}
	for _, raw := range generic {
		name := normalizeNamespace(raw)
		if _, ok := names[name]; ok {
			registry.generic = append(registry.generic, name)
		}
	}

	return registry, nil
}

// IsNamespace reports whether name belongs to the namespace set.
func (r *NamespaceRegistry) IsNamespace(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.names[normalizeNamespace(name)]
	return ok
}

// Namespaces returns every namespace in registration order.
func (r *NamespaceRegistry) Namespaces() []string {
	out := make([]string, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Generic returns the fallback namespace set used for unmatched routes.
func (r *NamespaceRegistry) Generic() []string {
	out := make([]string, len(r.generic))
	copy(out, r.generic)
	return out
}

// NamespacesForRoute returns the ordered namespaces required to render the
// route. Exact entries win over patterns; patterns are tested in
// registration order; unmatched routes get the generic fallback set. The
// lookup is a pure function of the path.
func (r *NamespaceRegistry) NamespacesForRoute(path string) []string {
	normalized := normalizePath(path)

	if namespaces, ok := r.exact[normalized]; ok {
		return cloneNamespaces(namespaces)
	}

	for _, route := range r.patterns {
		if route.matcher.Match(normalized) {
			return cloneNamespaces(route.namespaces)
		}
	}

	return r.Generic()
}

func (r *NamespaceRegistry) normalizeRouteNamespaces(pattern string, raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrRouteNamespacesRequired, pattern)
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		name := normalizeNamespace(entry)
		if name == "" {
			continue
		}
		if _, ok := r.names[name]; !ok {
			return nil, fmt.Errorf("%w: %q in route %q", ErrUnknownRouteNamespace, name, pattern)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrRouteNamespacesRequired, pattern)
	}
	return out, nil
}

// compileRoutePattern translates the route pattern language into a glob
// matched against normalized paths: `[name]` segments become single-segment
// wildcards, a trailing `*` segment matches across the remaining segments,
// and every literal segment is quoted.
func compileRoutePattern(pattern string) (glob.Glob, error) {
	normalized := normalizePath(pattern)
	segments := strings.Split(normalized, "/")

	converted := make([]string, 0, len(segments))
	for i, segment := range segments {
		switch {
		case segment == "*" && i == len(segments)-1:
			converted = append(converted, "**")
		case strings.HasPrefix(segment, "[") && strings.HasSuffix(segment, "]") && len(segment) > 2:
			converted = append(converted, "*")
		case strings.Contains(segment, "*") || strings.Contains(segment, "["):
			return nil, fmt.Errorf("%w: %q", ErrRoutePatternInvalid, pattern)
		default:
			converted = append(converted, glob.QuoteMeta(segment))
		}
	}

	matcher, err := glob.Compile(strings.Join(converted, "/"), '/')
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrRoutePatternInvalid, pattern, err)
	}
	return matcher, nil
}

func isPatternRoute(pattern string) bool {
	return strings.Contains(pattern, "[") || strings.Contains(pattern, "*")
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

func normalizeNamespace(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func cloneNamespaces(namespaces []string) []string {
	out := make([]string, len(namespaces))
	copy(out, namespaces)
	return out
}
