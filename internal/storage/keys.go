package storage

import (
	"path"
	"strings"
)

// CleanKey normalizes a storage path: forward slashes, no leading or
// trailing slash, no empty segments.
func CleanKey(key string) string {
	key = strings.ReplaceAll(key, "\\", "/")
	key = path.Clean("/" + key)
	return strings.TrimPrefix(key, "/")
}

// JoinKey joins path segments into a storage key, dropping empty parts.
func JoinKey(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = CleanKey(p)
		if p != "" && p != "." {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}

// ParentKey returns the parent of a key, or "" for a top-level key.
func ParentKey(key string) string {
	dir := path.Dir(CleanKey(key))
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// underPrefix reports whether key equals prefix or sits below it as a
// path segment (prefix followed by "/"). This is the segment-aware check
// backing Exists, stricter than a raw string prefix.
func underPrefix(key, prefix string) bool {
	if prefix == "" {
		return true
	}
	return key == prefix || strings.HasPrefix(key, prefix+"/")
}
