// Package layout decides which directory shape the installed assets take.
//
// takt 0.22 moved facet categories under a common facets/ parent. Older
// releases expect each category as a top-level sibling of pieces/. Resolve
// probes the installed takt to pick one, and RewriteReferences keeps the
// relative links inside piece files valid when the legacy shape flattens
// those paths.
package layout
