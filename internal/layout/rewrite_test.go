package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegacyRewrites(t *testing.T) {
	assert.Equal(t, map[string]string{
		"../facets/personas/": "../personas/",
		"../facets/policies/": "../policies/",
	}, LegacyRewrites([]string{"personas", "policies"}))
}

func TestRewriteReferences(t *testing.T) {
	rewrites := LegacyRewrites([]string{"personas", "knowledge"})

	in := "persona: ../facets/personas/planner.md\nknowledge:\n  - ../facets/knowledge/sdd.md\nother: ../facets/unknown/x.md\n"
	want := "persona: ../personas/planner.md\nknowledge:\n  - ../knowledge/sdd.md\nother: ../facets/unknown/x.md\n"

	assert.Equal(t, want, string(RewriteReferences([]byte(in), rewrites)))
	assert.Equal(t, in, string(RewriteReferences([]byte(in), nil)))
}

func TestRewriteReferencesLongestFirst(t *testing.T) {
	rewrites := map[string]string{
		"../a/":   "../x/",
		"../a/b/": "../y/",
	}
	assert.Equal(t, "../y/c ../x/d", string(RewriteReferences([]byte("../a/b/c ../a/d"), rewrites)))
}

func TestRewriteTransform(t *testing.T) {
	transform := RewriteTransform(LegacyRewrites([]string{"personas"}), DefaultRewriteExts)
	src := []byte("ref: ../facets/personas/p.md")

	tests := []struct {
		rel  string
		want string
	}{
		{"sdd.yaml", "ref: ../personas/p.md"},
		{"nested/sdd.YML", "ref: ../personas/p.md"},
		{"README.md", "ref: ../personas/p.md"},
		{"script.sh", "ref: ../facets/personas/p.md"},
		{"noext", "ref: ../facets/personas/p.md"},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, string(transform(tt.rel, src)))
		})
	}
}
