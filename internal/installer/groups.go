package installer

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/takt-sdd/create-takt-sdd/internal/branding"
	"github.com/takt-sdd/create-takt-sdd/internal/layout"
	"github.com/takt-sdd/create-takt-sdd/internal/syncer"
)

// skillSourceDirs are where bundles keep skills, in lookup order.
var skillSourceDirs = []string{filepath.Join(".agent", "skills"), "skills"}

// assetSource returns the asset tree for lang inside the extracted bundle:
// .takt/<lang> when the bundle is split by language, .takt when the bundle
// has a single tree. It reports false when neither holds pieces.
func assetSource(fs afero.Fs, taktRoot, lang string) (string, bool) {
	perLang := filepath.Join(taktRoot, lang)
	if ok, _ := afero.DirExists(fs, perLang); ok {
		return perLang, true
	}
	if ok, _ := afero.DirExists(fs, filepath.Join(taktRoot, layout.PiecesDir)); ok {
		return taktRoot, true
	}
	return "", false
}

// primaryGroups lists pieces, each facet category and .gitignore.
func primaryGroups(fs afero.Fs, src, dest string, l layout.Layout) []syncer.Group {
	var transform func(string, []byte) []byte
	if l == layout.Legacy {
		transform = layout.RewriteTransform(layout.LegacyRewrites(branding.FacetCategories()), layout.DefaultRewriteExts)
	}

	groups := []syncer.Group{{
		Name:      layout.PiecesDir,
		Source:    filepath.Join(src, layout.PiecesDir),
		Dest:      filepath.Join(dest, layout.PiecesDir),
		Transform: transform,
	}}

	for _, cat := range branding.FacetCategories() {
		source := filepath.Join(src, layout.FacetsDir, cat)
		if ok, _ := afero.DirExists(fs, source); !ok {
			source = filepath.Join(src, cat)
		}
		groups = append(groups, syncer.Group{
			Name:      cat,
			Source:    source,
			Dest:      filepath.Join(dest, filepath.FromSlash(layout.DestinationPath(cat, l))),
			Transform: transform,
		})
	}

	groups = append(groups, syncer.Group{
		Name:    ".gitignore",
		Source:  src,
		Dest:    dest,
		Include: func(rel string) bool { return rel == ".gitignore" },
	})
	return groups
}

// skillGroups lists one group per skill directory in the bundle, sorted by name.
func skillGroups(fs afero.Fs, bundleRoot, projectDir string) ([]syncer.Group, error) {
	for _, dir := range skillSourceDirs {
		root := filepath.Join(bundleRoot, dir)
		ok, err := afero.DirExists(fs, root)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		entries, err := afero.ReadDir(fs, root)
		if err != nil {
			return nil, err
		}
		var groups []syncer.Group
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			groups = append(groups, syncer.Group{
				Name:   e.Name(),
				Source: filepath.Join(root, e.Name()),
				Dest:   filepath.Join(projectDir, filepath.FromSlash(branding.SkillsDir()), e.Name()),
			})
		}
		return groups, nil
	}
	return nil, nil
}

// referenceGroups lists the reference bundle directories.
func referenceGroups(bundleRoot, refsDir string) []syncer.Group {
	var groups []syncer.Group
	for _, dir := range branding.ReferenceDirs() {
		groups = append(groups, syncer.Group{
			Name:   "references/" + dir,
			Source: filepath.Join(bundleRoot, dir),
			Dest:   filepath.Join(refsDir, dir),
		})
	}
	return groups
}
