package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/takt-sdd/create-takt-sdd/internal/branding"
	"github.com/takt-sdd/create-takt-sdd/internal/config"
	"github.com/takt-sdd/create-takt-sdd/internal/errors"
	"github.com/takt-sdd/create-takt-sdd/internal/i18n"
	"github.com/takt-sdd/create-takt-sdd/internal/installer"
	"github.com/takt-sdd/create-takt-sdd/internal/layout"
	"github.com/takt-sdd/create-takt-sdd/internal/logging"
	"github.com/takt-sdd/create-takt-sdd/internal/remote"
	"github.com/takt-sdd/create-takt-sdd/internal/ui"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// installFlags holds the root command's flag values.
type installFlags struct {
	lang          string
	tag           string
	layout        string
	refsPath      string
	dir           string
	force         bool
	dryRun        bool
	withoutSkills bool
	withoutRefs   bool
	verbose       int
}

var flags installFlags

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs the takt-sdd pieces and facets into a project's .takt/ directory,
adds the sdd npm scripts to package.json, and installs agent skills and the takt
reference documents. Running it again updates the installation while keeping
files you have edited.`,
	Example: `  npx create-takt-sdd
  npx create-takt-sdd --lang ja
  npx create-takt-sdd --tag latest --force
  npx create-takt-sdd --dry-run`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		logging.SetupLogger(flags.verbose)
	},
	RunE: runInstall,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flags.lang, "lang", "", `Message and asset language: "en" or "ja" (default: previous install, then config, then en)`)
	f.StringVar(&flags.tag, "tag", "", `Release to install: "latest", x.y.z or vx.y.z (default: this installer's version)`)
	f.StringVar(&flags.layout, "layout", string(layout.ModeAuto), "Directory layout: auto, modern or legacy")
	f.StringVar(&flags.refsPath, "refs-path", branding.ReferencePath(), "Project-relative directory for the takt reference documents")
	f.StringVar(&flags.dir, "dir", "", "Project directory (default: current directory)")
	f.BoolVar(&flags.force, "force", false, "Overwrite an existing installation that has no manifest")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Show what would be installed without writing anything")
	f.BoolVar(&flags.withoutSkills, "without-skills", false, "Skip installing agent skills")
	f.BoolVar(&flags.withoutRefs, "without-refs", false, "Skip downloading the takt reference documents")
	rootCmd.PersistentFlags().CountVar(&flags.verbose, "verbose", "Increase log verbosity (repeat for more)")

	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// options validates the flags and turns them into installer options.
// changed reports whether a flag was given on the command line.
func (f installFlags) options(changed func(name string) bool, cwd string) (installer.Options, error) {
	var opts installer.Options

	if f.lang != "" || changed("lang") {
		lang, err := i18n.ParseLang(f.lang)
		if err != nil {
			return opts, err
		}
		opts.Lang = lang
	}

	if changed("tag") && f.tag == "" {
		return opts, errors.New(errors.ErrInvalidOption, `--tag requires a value (e.g. "latest", "0.1.0")`)
	}
	if f.tag != "" && f.tag != remote.Latest {
		if _, err := remote.NormalizeTag(f.tag); err != nil {
			return opts, err
		}
	}
	opts.Tag = f.tag

	mode, err := layout.ParseMode(f.layout)
	if err != nil {
		return opts, err
	}
	opts.LayoutMode = mode

	if f.refsPath == "" {
		return opts, errors.New(errors.ErrInvalidOption, `--refs-path requires a value (e.g. "references/takt")`)
	}
	opts.RefsPath = f.refsPath

	dir := f.dir
	if dir == "" {
		dir = cwd
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cwd, dir)
	}
	opts.ProjectDir = filepath.Clean(dir)

	opts.Force = f.force
	opts.DryRun = f.dryRun
	opts.WithoutSkills = f.withoutSkills
	opts.WithoutRefs = f.withoutRefs
	return opts, nil
}

func runInstall(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, errors.ErrFileIO, "resolving working directory")
	}
	opts, err := flags.options(cmd.Flags().Changed, cwd)
	if err != nil {
		return err
	}

	installerOpts := []installer.Option{
		installer.WithConsole(newConsole(cmd)),
		installer.WithLogger(logging.GetLogger("installer")),
		installer.WithVersion(buildVersion),
	}
	if v := config.Get(config.KeyLang); v != "" {
		lang, err := i18n.ParseLang(v)
		if err != nil {
			return errors.Wrapf(err, errors.ErrInvalidOption, "config key %s", config.KeyLang)
		}
		installerOpts = append(installerOpts, installer.WithDefaultLang(lang))
	}

	in, err := installer.New(newRemoteClient(), installerOpts...)
	if err != nil {
		return err
	}

	summary, err := in.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	log.Info().Str("summary", summary.String()).Msg("install finished")
	return nil
}

func newRemoteClient() *remote.Client {
	opts := []remote.Option{remote.WithLogger(logging.GetLogger("remote"))}
	if v := config.Get(config.KeyMirror); v != "" {
		opts = append(opts, remote.WithArchiveBase(v))
	}
	if v := config.Get(config.KeyAPIBase); v != "" {
		opts = append(opts, remote.WithAPIBase(v))
	}
	if v := config.GitHubToken(); v != "" {
		opts = append(opts, remote.WithToken(v))
	}
	return remote.New(opts...)
}

func newConsole(cmd *cobra.Command) *ui.Console {
	_, noColor := os.LookupEnv("NO_COLOR")
	return ui.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr(), noColor)
}

// Execute runs the root command with build info injected via ldflags. A
// returned error has already been printed.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		newConsole(rootCmd).Error(errors.UserMessage(err))
		log.Error().Err(err).
			Str("code", string(errors.GetCode(err))).
			Fields(errors.GetDetails(err)).
			Msg("command failed")
		return err
	}
	return nil
}
