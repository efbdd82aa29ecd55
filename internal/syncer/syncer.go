package syncer

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/takt-sdd/create-takt-sdd/internal/errors"
	"github.com/takt-sdd/create-takt-sdd/internal/fingerprint"
	"github.com/takt-sdd/create-takt-sdd/internal/ledger"
)

// Action is the decision taken for one file.
type Action int

const (
	Add Action = iota
	Update
	SkipCustomized
	SkipUnchanged
)

func (a Action) String() string {
	switch a {
	case Add:
		return "add"
	case Update:
		return "update"
	case SkipCustomized:
		return "skip-customized"
	case SkipUnchanged:
		return "skip-unchanged"
	}
	return "unknown"
}

// Writes reports whether the action changes the destination.
func (a Action) Writes() bool {
	return a == Add || a == Update
}

// Group is a source tree synchronized onto a destination tree as one unit.
type Group struct {
	Name   string
	Source string
	Dest   string
	// Transform rewrites a file's content before it is fingerprinted and
	// written. rel is the slash-separated path below Source.
	Transform func(rel string, data []byte) []byte
	// Include filters source files by rel. Nil includes everything.
	Include func(rel string) bool
}

// Decision is the outcome for a single source file.
type Decision struct {
	Action      Action
	Key         string
	SourcePath  string
	DestPath    string
	Fingerprint string

	mode    os.FileMode
	content []byte
}

// Plan holds the decisions for one group, sorted by key.
type Plan struct {
	Group     Group
	Decisions []Decision
}

// Result is what Apply produced.
type Result struct {
	// Files maps every source file's key to its incoming fingerprint.
	Files     map[string]string
	Decisions []Decision
}

// Counts tallies decisions per action.
func (r *Result) Counts() map[Action]int {
	return countActions(r.Decisions)
}

// Counts tallies decisions per action.
func (p *Plan) Counts() map[Action]int {
	return countActions(p.Decisions)
}

func countActions(ds []Decision) map[Action]int {
	counts := make(map[Action]int, 4)
	for _, d := range ds {
		counts[d.Action]++
	}
	return counts
}

// Engine synchronizes groups on a filesystem.
type Engine struct {
	fs      afero.Fs
	keyRoot string
	logger  zerolog.Logger
}

// NewEngine returns an Engine that keys ledger entries by destination path
// relative to keyRoot, normally the project directory.
func NewEngine(fs afero.Fs, keyRoot string, logger zerolog.Logger) *Engine {
	return &Engine{fs: fs, keyRoot: keyRoot, logger: logger}
}

// Key returns the ledger key for an absolute destination path. Keys always
// use forward slashes.
func (e *Engine) Key(dest string) (string, error) {
	rel, err := filepath.Rel(e.keyRoot, dest)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Plan decides the action for every file under g.Source without writing
// anything. A missing source directory yields an empty plan.
func (e *Engine) Plan(g Group, prior *ledger.Manifest) (*Plan, error) {
	plan := &Plan{Group: g}

	if _, err := e.fs.Stat(g.Source); err != nil {
		if os.IsNotExist(err) {
			e.logger.Debug().Str("group", g.Name).Str("source", g.Source).Msg("source missing, nothing to sync")
			return plan, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileIO, "reading %s", g.Source)
	}

	err := afero.Walk(e.fs, g.Source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(g.Source, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if g.Include != nil && !g.Include(rel) {
			return nil
		}

		d, err := e.decide(g, rel, path, info.Mode().Perm(), prior)
		if err != nil {
			return err
		}
		plan.Decisions = append(plan.Decisions, d)
		return nil
	})
	if err != nil {
		if errors.GetCode(err) != errors.ErrUnknown {
			return nil, err
		}
		return nil, errors.Wrapf(err, errors.ErrFileIO, "walking %s", g.Source)
	}

	sort.Slice(plan.Decisions, func(i, j int) bool {
		return plan.Decisions[i].Key < plan.Decisions[j].Key
	})
	return plan, nil
}

func (e *Engine) decide(g Group, rel, src string, mode os.FileMode, prior *ledger.Manifest) (Decision, error) {
	data, err := afero.ReadFile(e.fs, src)
	if err != nil {
		return Decision{}, errors.Wrapf(err, errors.ErrFileIO, "reading %s", src)
	}
	if g.Transform != nil {
		data = g.Transform(rel, data)
	}

	dest := filepath.Join(g.Dest, filepath.FromSlash(rel))
	key, err := e.Key(dest)
	if err != nil {
		return Decision{}, errors.Wrapf(err, errors.ErrFileIO, "keying %s", dest)
	}

	d := Decision{
		Key:         key,
		SourcePath:  src,
		DestPath:    dest,
		Fingerprint: fingerprint.Sum(data),
		mode:        mode,
		content:     data,
	}

	info, err := e.fs.Stat(dest)
	switch {
	case os.IsNotExist(err):
		d.Action = Add
		return d, nil
	case err != nil:
		return Decision{}, errors.Wrapf(err, errors.ErrFileIO, "inspecting %s", dest)
	case info.IsDir():
		return Decision{}, errors.Newf(errors.ErrFileIO, "%s is a directory, expected a file", dest)
	}

	current, err := fingerprint.File(e.fs, dest)
	if err != nil {
		return Decision{}, errors.Wrap(err, errors.ErrFileIO, "fingerprinting destination")
	}

	switch {
	case current == d.Fingerprint:
		d.Action = SkipUnchanged
	case prior == nil:
		d.Action = Update
	default:
		recorded, ok := prior.Lookup(key)
		if ok && recorded == current {
			d.Action = Update
		} else {
			d.Action = SkipCustomized
		}
	}
	return d, nil
}

// Apply performs the writes of plan. Skipped files are left untouched and
// customized ones are logged at warn level.
func (e *Engine) Apply(plan *Plan) (*Result, error) {
	res := &Result{
		Files:     make(map[string]string, len(plan.Decisions)),
		Decisions: plan.Decisions,
	}

	for _, d := range plan.Decisions {
		res.Files[d.Key] = d.Fingerprint

		if d.Action == SkipCustomized {
			e.logger.Warn().Str("group", plan.Group.Name).Str("file", d.Key).Msg("file was customized, keeping local version")
		}
		if !d.Action.Writes() {
			continue
		}
		e.logger.Debug().Str("group", plan.Group.Name).Str("file", d.Key).Stringer("action", d.Action).Msg("writing file")
		if err := writeAtomic(e.fs, d.DestPath, d.content, d.mode); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileIO, "writing %s", d.DestPath)
		}
	}

	counts := res.Counts()
	e.logger.Info().
		Str("group", plan.Group.Name).
		Int("added", counts[Add]).
		Int("updated", counts[Update]).
		Int("customized", counts[SkipCustomized]).
		Int("unchanged", counts[SkipUnchanged]).
		Msg("group synchronized")
	return res, nil
}

// Sync plans and applies g.
func (e *Engine) Sync(g Group, prior *ledger.Manifest) (*Result, error) {
	plan, err := e.Plan(g, prior)
	if err != nil {
		return nil, err
	}
	return e.Apply(plan)
}

// writeAtomic writes data to a temp file next to dst and renames it into place.
func writeAtomic(fs afero.Fs, dst string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(dst)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(fs, dir, ".takt-sdd-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = fs.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if mode == 0 {
		mode = 0o644
	}
	if err := fs.Chmod(tmpPath, mode); err != nil {
		return err
	}
	return fs.Rename(tmpPath, dst)
}
