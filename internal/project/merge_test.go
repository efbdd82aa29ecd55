package project

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takt-sdd/create-takt-sdd/internal/errors"
)

const pkgPath = "/proj/package.json"

func testDecl() *Declarations {
	return &Declarations{
		Scripts: []Entry{
			{Name: "build", Value: "takt build"},
			{Name: "test", Value: "takt test"},
		},
		DevDependencies: []Entry{{Name: "takt", Value: "^0.22.0"}},
	}
}

func writePkg(t *testing.T, content string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, pkgPath, []byte(content), 0o644))
	return fs
}

func readPkg(t *testing.T, fs afero.Fs) string {
	t.Helper()
	data, err := afero.ReadFile(fs, pkgPath)
	require.NoError(t, err)
	return string(data)
}

func TestMergeKeepsExistingScripts(t *testing.T) {
	fs := writePkg(t, `{"name":"demo","scripts":{"build":"vite build && tsc"}}`)

	report, err := Merge(fs, pkgPath, testDecl())
	require.NoError(t, err)

	assert.Equal(t, []string{"test"}, report.Added)
	assert.Equal(t, []string{"build"}, report.Skipped)
	assert.Equal(t, []string{"takt"}, report.DepsAdded)
	assert.Equal(t, `{
  "name": "demo",
  "scripts": {
    "build": "vite build && tsc",
    "test": "takt test"
  },
  "devDependencies": {
    "takt": "^0.22.0"
  }
}
`, readPkg(t, fs))
}

func TestMergeCreatesMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	report, err := Merge(fs, pkgPath, testDecl())
	require.NoError(t, err)

	assert.True(t, report.Created)
	assert.Equal(t, []string{"build", "test"}, report.Added)
	assert.Equal(t, `{
  "private": true,
  "scripts": {
    "build": "takt build",
    "test": "takt test"
  },
  "devDependencies": {
    "takt": "^0.22.0"
  }
}
`, readPkg(t, fs))
}

func TestMergeDevDependencies(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantAdded   []string
		wantUpdated []DependencyChange
		wantValue   string
	}{
		{
			name:      "missing",
			content:   `{"devDependencies":{"typescript":"^5.0.0"}}`,
			wantAdded: []string{"takt"},
			wantValue: `"typescript": "^5.0.0",` + "\n    " + `"takt": "^0.22.0"`,
		},
		{
			name:        "outdated",
			content:     `{"devDependencies":{"takt":"^0.20.0","typescript":"^5.0.0"}}`,
			wantUpdated: []DependencyChange{{Name: "takt", From: "^0.20.0", To: "^0.22.0"}},
			wantValue:   `"takt": "^0.22.0",` + "\n    " + `"typescript": "^5.0.0"`,
		},
		{
			name:      "current",
			content:   `{"devDependencies":{"takt":"^0.22.0"}}`,
			wantValue: `"takt": "^0.22.0"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := writePkg(t, tt.content)
			decl := testDecl()
			decl.Scripts = nil

			report, err := Merge(fs, pkgPath, decl)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdded, report.DepsAdded)
			assert.Equal(t, tt.wantUpdated, report.DepsUpdated)
			if len(tt.wantAdded) > 0 || len(tt.wantUpdated) > 0 {
				assert.Contains(t, readPkg(t, fs), tt.wantValue)
			}
		})
	}
}

func TestMergeUnchangedDoesNotRewrite(t *testing.T) {
	original := `{"scripts":{"build":"x","test":"y"},"devDependencies":{"takt":"^0.22.0"}}`
	fs := writePkg(t, original)

	report, err := Merge(fs, pkgPath, testDecl())
	require.NoError(t, err)
	assert.False(t, report.Changed())
	assert.Equal(t, []string{"build", "test"}, report.Skipped)
	assert.Equal(t, original, readPkg(t, fs))
}

func TestMergeIsIdempotent(t *testing.T) {
	fs := writePkg(t, `{"name":"demo"}`)

	_, err := Merge(fs, pkgPath, testDecl())
	require.NoError(t, err)
	first := readPkg(t, fs)

	report, err := Merge(fs, pkgPath, testDecl())
	require.NoError(t, err)
	assert.False(t, report.Changed())
	assert.Equal(t, first, readPkg(t, fs))
}

func TestMergeMalformed(t *testing.T) {
	for name, content := range map[string]string{
		"not json":         "{",
		"array":            "[]",
		"scripts not obj":  `{"scripts":["a"]}`,
		"trailing garbage": `{} {}`,
	} {
		t.Run(name, func(t *testing.T) {
			fs := writePkg(t, content)
			_, err := Merge(fs, pkgPath, testDecl())
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrDeclarationFile))
			assert.Equal(t, content, readPkg(t, fs))
		})
	}
}

func TestPlanDoesNotWrite(t *testing.T) {
	fs := afero.NewMemMapFs()

	report, err := Plan(fs, pkgPath, testDecl())
	require.NoError(t, err)
	assert.True(t, report.Created)

	ok, err := afero.Exists(fs, pkgPath)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDefaultDeclarations(t *testing.T) {
	d, err := DefaultDeclarations()
	require.NoError(t, err)

	assert.Len(t, d.Scripts, 10)
	assert.Equal(t, "sdd", d.Scripts[0].Name)
	assert.Equal(t, "takt --pipeline --skip-git --create-worktree no -w sdd -t", d.Scripts[0].Value)
	assert.Equal(t, "steering:custom", d.Scripts[9].Name)
	assert.Contains(t, d.Scripts[9].Value, "-w steering-custom")
	require.Len(t, d.DevDependencies, 1)
	assert.Equal(t, "takt", d.DevDependencies[0].Name)
}
