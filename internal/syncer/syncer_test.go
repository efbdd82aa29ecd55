package syncer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takt-sdd/create-takt-sdd/internal/fingerprint"
	"github.com/takt-sdd/create-takt-sdd/internal/ledger"
)

const (
	projectDir = "/proj"
	sourceDir  = "/tmp/bundle/src"
	destDir    = "/proj/dest"
)

func newTestEngine(t *testing.T, files map[string]string) (*Engine, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return NewEngine(fs, projectDir, zerolog.Nop()), fs
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func group() Group {
	return Group{Name: "test", Source: sourceDir, Dest: destDir}
}

func TestFreshInstallCopiesEverything(t *testing.T) {
	e, fs := newTestEngine(t, map[string]string{
		sourceDir + "/a.txt":     "alpha",
		sourceDir + "/sub/b.txt": "bravo",
	})

	res, err := e.Sync(group(), nil)
	require.NoError(t, err)

	assert.Equal(t, "alpha", readFile(t, fs, destDir+"/a.txt"))
	assert.Equal(t, "bravo", readFile(t, fs, destDir+"/sub/b.txt"))
	assert.Equal(t, map[string]string{
		"dest/a.txt":     fingerprint.Sum([]byte("alpha")),
		"dest/sub/b.txt": fingerprint.Sum([]byte("bravo")),
	}, res.Files)
	for _, d := range res.Decisions {
		assert.Equal(t, Add, d.Action, d.Key)
	}
}

func TestFreshDestinationAlwaysAdds(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a.md", "b/c.md", "b/d/e.yaml", "f"} {
		files[sourceDir+"/"+name] = "content of " + name
	}
	prior := &ledger.Manifest{Files: map[string]string{"dest/a.md": "stale"}}

	for name, p := range map[string]*ledger.Manifest{"without ledger": nil, "with ledger": prior} {
		t.Run(name, func(t *testing.T) {
			e, fs := newTestEngine(t, files)
			res, err := e.Sync(group(), p)
			require.NoError(t, err)
			require.Len(t, res.Decisions, len(files))
			for _, d := range res.Decisions {
				assert.Equal(t, Add, d.Action, d.Key)
				assert.Equal(t, readFile(t, fs, d.SourcePath), readFile(t, fs, d.DestPath))
			}
		})
	}
}

func TestUpdateUntouchedFile(t *testing.T) {
	h1 := fingerprint.Sum([]byte("v1"))
	e, fs := newTestEngine(t, map[string]string{
		sourceDir + "/x/a.txt": "v2",
		destDir + "/x/a.txt":   "v1",
	})
	prior := &ledger.Manifest{Files: map[string]string{"dest/x/a.txt": h1}}

	res, err := e.Sync(group(), prior)
	require.NoError(t, err)

	require.Len(t, res.Decisions, 1)
	assert.Equal(t, Update, res.Decisions[0].Action)
	assert.Equal(t, "v2", readFile(t, fs, destDir+"/x/a.txt"))
	assert.Equal(t, fingerprint.Sum([]byte("v2")), res.Files["dest/x/a.txt"])
}

func TestSkipCustomizedFile(t *testing.T) {
	h1 := fingerprint.Sum([]byte("v1"))
	e, fs := newTestEngine(t, map[string]string{
		sourceDir + "/x/a.txt": "v2",
		destDir + "/x/a.txt":   "v1 with my edits",
	})
	prior := &ledger.Manifest{Files: map[string]string{"dest/x/a.txt": h1}}

	res, err := e.Sync(group(), prior)
	require.NoError(t, err)

	require.Len(t, res.Decisions, 1)
	assert.Equal(t, SkipCustomized, res.Decisions[0].Action)
	assert.Equal(t, "v1 with my edits", readFile(t, fs, destDir+"/x/a.txt"))
	assert.Equal(t, fingerprint.Sum([]byte("v2")), res.Files["dest/x/a.txt"])
	assert.NotEqual(t, h1, res.Files["dest/x/a.txt"])
}

func TestSkipCustomizedStaysCustomized(t *testing.T) {
	e, fs := newTestEngine(t, map[string]string{
		sourceDir + "/a.txt": "v2",
		destDir + "/a.txt":   "mine",
	})
	prior := &ledger.Manifest{Files: map[string]string{"dest/a.txt": fingerprint.Sum([]byte("v1"))}}

	first, err := e.Sync(group(), prior)
	require.NoError(t, err)
	second, err := e.Sync(group(), &ledger.Manifest{Files: first.Files})
	require.NoError(t, err)

	assert.Equal(t, SkipCustomized, second.Decisions[0].Action)
	assert.Equal(t, "mine", readFile(t, fs, destDir+"/a.txt"))
}

func TestUnknownProvenanceIsNotOverwritten(t *testing.T) {
	e, fs := newTestEngine(t, map[string]string{
		sourceDir + "/a.txt": "shipped",
		destDir + "/a.txt":   "hand written",
	})
	prior := &ledger.Manifest{Files: map[string]string{}}

	res, err := e.Sync(group(), prior)
	require.NoError(t, err)

	assert.Equal(t, SkipCustomized, res.Decisions[0].Action)
	assert.Equal(t, "hand written", readFile(t, fs, destDir+"/a.txt"))
}

func TestNoLedgerOverwritesExisting(t *testing.T) {
	e, fs := newTestEngine(t, map[string]string{
		sourceDir + "/a.txt": "shipped",
		destDir + "/a.txt":   "old",
	})

	res, err := e.Sync(group(), nil)
	require.NoError(t, err)

	assert.Equal(t, Update, res.Decisions[0].Action)
	assert.Equal(t, "shipped", readFile(t, fs, destDir+"/a.txt"))
}

func TestIdenticalFileIsUnchanged(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		sourceDir + "/a.txt": "same",
		destDir + "/a.txt":   "same",
	})

	for name, prior := range map[string]*ledger.Manifest{
		"no ledger":        nil,
		"untracked":        {Files: map[string]string{}},
		"tracked":          {Files: map[string]string{"dest/a.txt": fingerprint.Sum([]byte("same"))}},
		"tracked outdated": {Files: map[string]string{"dest/a.txt": fingerprint.Sum([]byte("older"))}},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := e.Sync(group(), prior)
			require.NoError(t, err)
			assert.Equal(t, SkipUnchanged, res.Decisions[0].Action)
			assert.Equal(t, fingerprint.Sum([]byte("same")), res.Files["dest/a.txt"])
		})
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	e, fs := newTestEngine(t, map[string]string{
		sourceDir + "/a.txt":     "alpha",
		sourceDir + "/sub/b.txt": "bravo",
		destDir + "/sub/b.txt":   "old bravo",
	})
	prior := &ledger.Manifest{Files: map[string]string{"dest/sub/b.txt": fingerprint.Sum([]byte("old bravo"))}}

	first, err := e.Sync(group(), prior)
	require.NoError(t, err)
	afterFirst := snapshot(t, fs, destDir)

	second, err := e.Sync(group(), &ledger.Manifest{Files: first.Files})
	require.NoError(t, err)

	assert.Equal(t, first.Files, second.Files)
	assert.Equal(t, afterFirst, snapshot(t, fs, destDir))
	assert.Equal(t, 2, second.Counts()[SkipUnchanged])
}

func TestNothingIsDeleted(t *testing.T) {
	e, fs := newTestEngine(t, map[string]string{
		sourceDir + "/a.txt":  "alpha",
		destDir + "/extra.md": "keep me",
	})
	prior := &ledger.Manifest{Files: map[string]string{"dest/extra.md": fingerprint.Sum([]byte("keep me"))}}

	res, err := e.Sync(group(), prior)
	require.NoError(t, err)

	assert.Equal(t, "keep me", readFile(t, fs, destDir+"/extra.md"))
	assert.NotContains(t, res.Files, "dest/extra.md")
}

func TestTransformIsFingerprinted(t *testing.T) {
	e, fs := newTestEngine(t, map[string]string{
		sourceDir + "/p.yaml": "ref: ../facets/personas/a.md",
	})
	g := group()
	g.Transform = func(_ string, data []byte) []byte {
		return []byte(strings.ReplaceAll(string(data), "../facets/", "../"))
	}

	first, err := e.Sync(g, nil)
	require.NoError(t, err)
	assert.Equal(t, "ref: ../personas/a.md", readFile(t, fs, destDir+"/p.yaml"))
	assert.Equal(t, fingerprint.Sum([]byte("ref: ../personas/a.md")), first.Files["dest/p.yaml"])

	second, err := e.Sync(g, &ledger.Manifest{Files: first.Files})
	require.NoError(t, err)
	assert.Equal(t, SkipUnchanged, second.Decisions[0].Action)
}

func TestIncludeFilter(t *testing.T) {
	e, fs := newTestEngine(t, map[string]string{
		sourceDir + "/.gitignore":  "tasks/",
		sourceDir + "/pieces/a.md": "a",
	})
	g := group()
	g.Include = func(rel string) bool { return rel == ".gitignore" }

	res, err := e.Sync(g, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"dest/.gitignore"}, keys(res.Files))
	exists, err := afero.Exists(fs, destDir+"/pieces/a.md")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMissingSourceIsEmpty(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	res, err := e.Sync(group(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Files)
}

func TestPlanDoesNotWrite(t *testing.T) {
	e, fs := newTestEngine(t, map[string]string{
		sourceDir + "/a.txt": "alpha",
	})

	plan, err := e.Plan(group(), nil)
	require.NoError(t, err)
	require.Len(t, plan.Decisions, 1)
	assert.Equal(t, Add, plan.Decisions[0].Action)
	assert.Equal(t, 1, plan.Counts()[Add])

	exists, err := afero.DirExists(fs, destDir)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDestinationDirectoryConflictFails(t *testing.T) {
	e, fs := newTestEngine(t, map[string]string{
		sourceDir + "/a.txt": "alpha",
	})
	require.NoError(t, fs.MkdirAll(destDir+"/a.txt", 0o755))

	_, err := e.Sync(group(), nil)
	assert.Error(t, err)
}

func TestPreservesModeOnDisk(t *testing.T) {
	root := t.TempDir()
	fs := afero.NewOsFs()
	src := filepath.Join(root, "src")
	require.NoError(t, fs.MkdirAll(src, 0o755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(src, "run.sh"), []byte("#!/bin/sh\n"), 0o755))

	e := NewEngine(fs, root, zerolog.Nop())
	res, err := e.Sync(Group{Name: "scripts", Source: src, Dest: filepath.Join(root, "out")}, nil)
	require.NoError(t, err)
	assert.Contains(t, res.Files, "out/run.sh")

	info, err := fs.Stat(filepath.Join(root, "out", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, "-rwxr-xr-x", info.Mode().String())

	entries, err := afero.ReadDir(fs, filepath.Join(root, "out"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "add", Add.String())
	assert.Equal(t, "update", Update.String())
	assert.Equal(t, "skip-customized", SkipCustomized.String())
	assert.Equal(t, "skip-unchanged", SkipUnchanged.String())
	assert.True(t, Add.Writes())
	assert.False(t, SkipCustomized.Writes())
}

func snapshot(t *testing.T, fs afero.Fs, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	require.NoError(t, afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		data, err := afero.ReadFile(fs, path)
		out[path] = string(data)
		return err
	}))
	return out
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
