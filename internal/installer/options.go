package installer

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/takt-sdd/create-takt-sdd/internal/branding"
	"github.com/takt-sdd/create-takt-sdd/internal/errors"
	"github.com/takt-sdd/create-takt-sdd/internal/i18n"
	"github.com/takt-sdd/create-takt-sdd/internal/layout"
	"github.com/takt-sdd/create-takt-sdd/internal/project"
	"github.com/takt-sdd/create-takt-sdd/internal/ui"
)

// Options are the per-run inputs, normally taken from command-line flags.
type Options struct {
	// ProjectDir is the absolute project directory.
	ProjectDir string
	// Lang selects messages and the asset variant. Empty defers to the
	// ledger, then the configured default, then English.
	Lang i18n.Lang
	// Tag is "latest", a version, or empty for the installer's own version.
	Tag        string
	LayoutMode layout.Mode
	// RefsPath is the project-relative reference bundle directory.
	RefsPath      string
	Force         bool
	DryRun        bool
	WithoutSkills bool
	WithoutRefs   bool
}

func (o Options) normalize() (Options, error) {
	if o.ProjectDir == "" || !filepath.IsAbs(o.ProjectDir) {
		return o, errors.Newf(errors.ErrInvalidOption, "project directory must be an absolute path, got %q", o.ProjectDir)
	}
	o.ProjectDir = filepath.Clean(o.ProjectDir)

	if o.LayoutMode == "" {
		o.LayoutMode = layout.ModeAuto
	}
	if o.RefsPath == "" {
		o.RefsPath = branding.ReferencePath()
	}
	clean := filepath.Clean(filepath.FromSlash(o.RefsPath))
	if filepath.IsAbs(clean) || clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return o, errors.Newf(errors.ErrInvalidOption, "--refs-path must be a directory inside the project, got %q", o.RefsPath)
	}
	o.RefsPath = clean
	return o, nil
}

// Fetcher resolves release tags and downloads bundles.
type Fetcher interface {
	ResolveTag(ctx context.Context, repo, requested, fallback string) (string, error)
	LatestTag(ctx context.Context, repo string) (string, error)
	Fetch(ctx context.Context, fs afero.Fs, repo, tag, workDir string) (string, error)
}

// Installer runs installs. Build one with New.
type Installer struct {
	fs           afero.Fs
	fetcher      Fetcher
	prober       layout.Prober
	console      *ui.Console
	logger       zerolog.Logger
	now          func() time.Time
	version      string
	defaultLang  i18n.Lang
	declarations *project.Declarations
}

// Option configures an Installer.
type Option func(*Installer)

// WithFs sets the filesystem (useful for testing).
func WithFs(fs afero.Fs) Option {
	return func(in *Installer) { in.fs = fs }
}

// WithProber sets the takt version probe.
func WithProber(p layout.Prober) Option {
	return func(in *Installer) { in.prober = p }
}

// WithConsole sets where progress lines are printed.
func WithConsole(c *ui.Console) Option {
	return func(in *Installer) { in.console = c }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(in *Installer) { in.logger = l }
}

// WithClock sets the time source for the ledger timestamp.
func WithClock(now func() time.Time) Option {
	return func(in *Installer) { in.now = now }
}

// WithVersion sets the installer's own version, used when no tag is requested.
func WithVersion(v string) Option {
	return func(in *Installer) { in.version = v }
}

// WithDefaultLang sets the language used when neither the flag nor the
// ledger names one.
func WithDefaultLang(l i18n.Lang) Option {
	return func(in *Installer) { in.defaultLang = l }
}

// WithDeclarations replaces the embedded package.json declarations.
func WithDeclarations(d *project.Declarations) Option {
	return func(in *Installer) { in.declarations = d }
}

// New creates an Installer that fetches through f.
func New(f Fetcher, opts ...Option) (*Installer, error) {
	in := &Installer{
		fs:      afero.NewOsFs(),
		fetcher: f,
		prober:  &layout.ExecProber{Binary: branding.ToolBinary(), Timeout: 10 * time.Second},
		console: ui.Discard(),
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.declarations == nil {
		d, err := project.DefaultDeclarations()
		if err != nil {
			return nil, err
		}
		in.declarations = d
	}
	return in, nil
}
