// Package filter provides glob matching for listing results.
// Patterns are matched against the full key, its base name, and any
// trailing run of path segments, so "*.SAFE" matches
// "Sentinel-2/L2A/T32TQM/product.SAFE" and "T32TQM/*.SAFE" matches it too.
package filter

import (
	"path"
	"strings"
)

// Match reports whether key matches the glob pattern.
// Both key and pattern use forward slashes. An empty pattern matches nothing.
func Match(key, pattern string) bool {
	if pattern == "" {
		return false
	}

	key = strings.Trim(key, "/")
	pattern = strings.Trim(pattern, "/")

	if strings.Contains(pattern, "**") {
		return matchDoubleStar(key, pattern)
	}

	patternDepth := len(strings.Split(pattern, "/"))
	parts := strings.Split(key, "/")
	if patternDepth > len(parts) {
		return false
	}

	// Right-anchored: match the pattern against the trailing segments.
	suffix := strings.Join(parts[len(parts)-patternDepth:], "/")
	matched, err := path.Match(pattern, suffix)
	if err != nil {
		return false
	}
	return matched
}

// Apply filters keys in place order, keeping those matching pattern.
// An empty pattern keeps everything.
func Apply(keys []string, pattern string) []string {
	if pattern == "" {
		return keys
	}
	filtered := make([]string, 0, len(keys))
	for _, k := range keys {
		if Match(k, pattern) {
			filtered = append(filtered, k)
		}
	}
	return filtered
}

// matchDoubleStar handles ** patterns for multi-directory matching.
//   - "**/foo.txt" matches "foo.txt", "a/foo.txt", "a/b/c/foo.txt"
//   - "run_1/**" matches anything under run_1/
func matchDoubleStar(key, pattern string) bool {
	if pattern == "**" {
		return true
	}

	if strings.HasPrefix(pattern, "**/") {
		suffix := pattern[3:]
		if Match(key, suffix) {
			return true
		}
		parts := strings.Split(key, "/")
		for i := range parts {
			if Match(strings.Join(parts[i:], "/"), suffix) {
				return true
			}
		}
		return false
	}

	if strings.HasSuffix(pattern, "/**") {
		prefix := pattern[:len(pattern)-3]
		if key == prefix || strings.HasPrefix(key, prefix+"/") {
			return true
		}
		parts := strings.Split(key, "/")
		for i := 1; i <= len(parts); i++ {
			if matched, _ := path.Match(prefix, strings.Join(parts[:i], "/")); matched {
				return true
			}
		}
		return false
	}

	// ** in the middle: split and require prefix then suffix with any
	// number of segments between.
	if idx := strings.Index(pattern, "/**/"); idx != -1 {
		prefix := pattern[:idx]
		suffix := pattern[idx+4:]
		parts := strings.Split(key, "/")
		for i := 1; i < len(parts); i++ {
			if matched, _ := path.Match(prefix, strings.Join(parts[:i], "/")); matched {
				for j := i; j <= len(parts); j++ {
					if Match(strings.Join(parts[j:], "/"), suffix) {
						return true
					}
				}
			}
		}
		return false
	}

	// Degenerate forms like "a**b": treat ** as *.
	matched, _ := path.Match(strings.ReplaceAll(pattern, "**", "*"), key)
	return matched
}
