package ledger

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/takt-sdd/create-takt-sdd/internal/branding"
)

// FileName is the ledger's name inside the installation root.
const FileName = ".sdd-manifest.json"

// Manifest is the persisted install ledger.
type Manifest struct {
	Version                 string            `json:"version"`
	InstalledAt             time.Time         `json:"installedAt"`
	Language                string            `json:"language,omitempty"`
	ReferenceBundleIdentity string            `json:"referenceBundleIdentity,omitempty"`
	Files                   map[string]string `json:"files"`
}

// Path returns the ledger location for a project directory.
func Path(projectDir string) string {
	return filepath.Join(projectDir, branding.TargetDir(), FileName)
}

// Lookup returns the recorded fingerprint for key. It is safe on a nil Manifest.
func (m *Manifest) Lookup(key string) (string, bool) {
	if m == nil || m.Files == nil {
		return "", false
	}
	h, ok := m.Files[key]
	return h, ok
}

// Carry returns the entries whose key is prefix or lies below it. Groups
// skipped in a run use it to keep their previous entries in the new ledger.
func (m *Manifest) Carry(prefix string) map[string]string {
	out := make(map[string]string)
	if m == nil {
		return out
	}
	prefix = strings.TrimSuffix(prefix, "/")
	for k, v := range m.Files {
		if k == prefix || strings.HasPrefix(k, prefix+"/") {
			out[k] = v
		}
	}
	return out
}

// Keys returns the recorded paths in sorted order.
func (m *Manifest) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.Files))
	for k := range m.Files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
