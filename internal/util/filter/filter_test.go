package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		key     string
		pattern string
		want    bool
	}{
		// Empty pattern matches nothing; Apply short-circuits it instead.
		{"a/b/c.jp2", "", false},

		// Right-anchored single segment.
		{"a/b/scene.jp2", "*.jp2", true},
		{"a/b/scene.tif", "*.jp2", false},
		{"scene.jp2", "*.jp2", true},

		// Multi-segment suffix match.
		{"a/IMG_DATA/B02.jp2", "IMG_DATA/*.jp2", true},
		{"a/QI_DATA/B02.jp2", "IMG_DATA/*.jp2", false},

		// Pattern must match whole trailing segments, not substrings.
		{"a/b/xscene.jp2", "scene.jp2", false},
		{"a/b/scene.jp2", "scene.jp2", true},

		// Recursive wildcard.
		{"a/b/c.jp2", "**", true},
		{"a/b/c.jp2", "**/*.jp2", true},
		{"a/b/c.tif", "**/*.jp2", false},
		{"a/b/c.jp2", "a/**", true},
		{"x/b/c.jp2", "a/**", false},
		{"a/x/y/c.jp2", "a/**/c.jp2", true},
		{"a/c.jp2", "a/**/c.jp2", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Match(tc.key, tc.pattern), "Match(%q, %q)", tc.key, tc.pattern)
	}
}

func TestApply(t *testing.T) {
	keys := []string{"p/a.jp2", "p/b.tif", "p/c/d.jp2"}

	assert.Equal(t, keys, Apply(keys, ""))
	assert.Equal(t, []string{"p/a.jp2", "p/c/d.jp2"}, Apply(keys, "*.jp2"))
	assert.Empty(t, Apply(keys, "*.xml"))
}
