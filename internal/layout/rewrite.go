package layout

import (
	"bytes"
	"path"
	"sort"
	"strings"
)

// DefaultRewriteExts are the text files whose references are rewritten.
var DefaultRewriteExts = []string{".yaml", ".yml", ".md"}

// LegacyRewrites maps each modern relative reference prefix to its legacy form,
// e.g. "../facets/personas/" to "../personas/".
func LegacyRewrites(categories []string) map[string]string {
	out := make(map[string]string, len(categories))
	for _, c := range categories {
		out["../"+FacetsDir+"/"+c+"/"] = "../" + c + "/"
	}
	return out
}

// RewriteReferences replaces every occurrence of each key in rewrites with its
// value. Longer keys are applied first so overlapping prefixes resolve
// deterministically.
func RewriteReferences(data []byte, rewrites map[string]string) []byte {
	if len(rewrites) == 0 {
		return data
	}
	keys := make([]string, 0, len(rewrites))
	for k := range rewrites {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	out := data
	for _, k := range keys {
		out = bytes.ReplaceAll(out, []byte(k), []byte(rewrites[k]))
	}
	return out
}

// RewriteTransform returns a content transform that applies rewrites to files
// whose extension is in exts and passes every other file through.
func RewriteTransform(rewrites map[string]string, exts []string) func(rel string, data []byte) []byte {
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = true
	}
	return func(rel string, data []byte) []byte {
		if !allowed[strings.ToLower(path.Ext(rel))] {
			return data
		}
		return RewriteReferences(data, rewrites)
	}
}
