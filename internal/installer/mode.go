package installer

import (
	"os"

	"github.com/spf13/afero"

	"github.com/takt-sdd/create-takt-sdd/internal/ledger"
)

// Mode is how a run treats the existing project.
type Mode int

const (
	// Fresh installs into an empty destination.
	Fresh Mode = iota
	// ForcedFresh overwrites a populated destination that has no usable ledger.
	ForcedFresh
	// Update compares against the ledger and keeps customized files.
	Update
	// Blocked refuses to touch a populated destination without a ledger.
	Blocked
)

func (m Mode) String() string {
	switch m {
	case Fresh:
		return "fresh"
	case ForcedFresh:
		return "forced-fresh"
	case Update:
		return "update"
	case Blocked:
		return "blocked"
	}
	return "unknown"
}

// DetectMode picks the run mode. A corrupt ledger counts as no ledger, so a
// populated destination then needs --force.
func DetectMode(state ledger.State, populated, force bool) Mode {
	switch {
	case state == ledger.Valid:
		return Update
	case !populated:
		return Fresh
	case force:
		return ForcedFresh
	default:
		return Blocked
	}
}

// populated reports whether dir exists and has at least one entry.
func populated(fs afero.Fs, dir string) (bool, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return len(entries) > 0, nil
}
