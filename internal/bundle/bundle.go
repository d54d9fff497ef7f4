// Package bundle manipulates translation documents: arbitrarily nested
// JSON objects whose leaf values are strings, addressed by dotted key paths.
package bundle

import (
	"sort"
	"strings"
)

// Bundle is the decoded translation document for one (locale, namespace)
// pair. It aliases the provider-facing shape so documents flow through the
// loader without conversion.
type Bundle = map[string]any

// Empty returns a non-nil bundle with no keys. Fallback handling substitutes
// it when both the target and default locale fail so rendering can proceed
// with raw keys.
func Empty() Bundle {
	return Bundle{}
}

// Clone returns a deep copy of the bundle. Nested objects are copied; leaf
// values are shared (strings are immutable).
func Clone(b Bundle) Bundle {
	if b == nil {
		return nil
	}
	out := make(Bundle, len(b))
	for key, value := range b {
		if nested, ok := value.(map[string]any); ok {
			out[key] = Clone(nested)
			continue
		}
		out[key] = value
	}
	return out
}

// Flatten converts a bundle tree into a dotted-path to string-value mapping.
// Non-string, non-object leaves are skipped; the backing resource contract
// only admits string leaves.
func Flatten(b Bundle) map[string]string {
	out := make(map[string]string)
	flattenInto(out, "", b)
	return out
}

func flattenInto(out map[string]string, prefix string, node map[string]any) {
	for key, value := range node {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch typed := value.(type) {
		case string:
			out[path] = typed
		case map[string]any:
			flattenInto(out, path, typed)
		}
	}
}

// Keys returns the sorted dotted key paths present in the bundle.
func Keys(b Bundle) []string {
	flat := Flatten(b)
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Lookup resolves a dotted key path against the bundle tree. It returns the
// string value and true when the full path terminates at a string leaf.
func Lookup(b Bundle, path string) (string, bool) {
	path = strings.TrimSpace(path)
	if path == "" || b == nil {
		return "", false
	}

	var node any = map[string]any(b)
	for _, segment := range strings.Split(path, ".") {
		typed, ok := node.(map[string]any)
		if !ok {
			return "", false
		}
		node, ok = typed[segment]
		if !ok {
			return "", false
		}
	}

	value, ok := node.(string)
	return value, ok
}

// Merge overlays src onto dst, returning a new bundle. Nested objects merge
// recursively; scalar conflicts resolve in favour of src.
func Merge(dst, src Bundle) Bundle {
	out := Clone(dst)
	if out == nil {
		out = Empty()
	}
	for key, value := range src {
		srcNested, srcIsMap := value.(map[string]any)
		dstNested, dstIsMap := out[key].(map[string]any)
		if srcIsMap && dstIsMap {
			out[key] = Merge(dstNested, srcNested)
			continue
		}
		if srcIsMap {
			out[key] = Clone(srcNested)
			continue
		}
		out[key] = value
	}
	return out
}

// Interpolate substitutes `{{name}}` placeholders in value with entries from
// vars. Unknown placeholders are left untouched. This is a read-time
// post-processing step, not part of bundle loading.
func Interpolate(value string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(value, "{{") {
		return value
	}
	for name, replacement := range vars {
		value = strings.ReplaceAll(value, "{{"+name+"}}", replacement)
	}
	return value
}
