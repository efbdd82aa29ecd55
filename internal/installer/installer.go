package installer

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/takt-sdd/create-takt-sdd/internal/branding"
	"github.com/takt-sdd/create-takt-sdd/internal/errors"
	"github.com/takt-sdd/create-takt-sdd/internal/i18n"
	"github.com/takt-sdd/create-takt-sdd/internal/layout"
	"github.com/takt-sdd/create-takt-sdd/internal/ledger"
	"github.com/takt-sdd/create-takt-sdd/internal/logging"
	"github.com/takt-sdd/create-takt-sdd/internal/platform"
	"github.com/takt-sdd/create-takt-sdd/internal/project"
	"github.com/takt-sdd/create-takt-sdd/internal/syncer"
)

// Summary describes a finished run.
type Summary struct {
	Mode   Mode
	Tag    string
	Layout layout.Layout
	Lang   i18n.Lang
	DryRun bool
	// Decisions holds every file decision in processing order. For a dry
	// run these are the planned decisions.
	Decisions    []syncer.Decision
	Declarations *project.Report
	RefsSynced   bool
	// Ledger is the manifest written at the end of the run; nil for a dry run.
	Ledger *ledger.Manifest
}

// run carries the state of one Run call.
type run struct {
	*Installer
	opts    Options
	msg     *i18n.Messages
	prior   *ledger.Manifest
	mode    Mode
	engine  *syncer.Engine
	files   map[string]string
	summary *Summary
}

// Run performs one install or update.
func (in *Installer) Run(ctx context.Context, opts Options) (*Summary, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	done := logging.LogOperationStart(in.logger, "install")
	defer done()

	store := ledger.NewStore(in.fs, in.logger)
	ledgerPath := ledger.Path(opts.ProjectDir)
	state, prior := store.Inspect(ledgerPath)

	msg := i18n.New(in.resolveLang(opts.Lang, prior))
	r := &run{
		Installer: in,
		opts:      opts,
		msg:       msg,
		prior:     prior,
		engine:    syncer.NewEngine(in.fs, opts.ProjectDir, in.logger),
		files:     make(map[string]string),
		summary:   &Summary{Lang: msg.Lang(), DryRun: opts.DryRun},
	}

	if !in.toolAvailable(ctx) {
		in.console.Warn(r.msg.Get(i18n.ToolNotFound, branding.ToolBinary(), branding.ToolURL()))
	}

	targetDir := filepath.Join(opts.ProjectDir, branding.TargetDir())
	isPopulated, err := populated(in.fs, filepath.Join(targetDir, layout.PiecesDir))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileIO, "inspecting %s", targetDir)
	}
	if state == ledger.Corrupt {
		in.console.Warn(r.msg.Get(i18n.LedgerUnusable, filepath.ToSlash(filepath.Join(branding.TargetDir(), ledger.FileName))))
	}
	r.mode = DetectMode(state, isPopulated, opts.Force)
	r.summary.Mode = r.mode
	in.logger.Info().Stringer("mode", r.mode).Str("ledger", state.String()).Msg("detected run mode")
	if r.mode == Blocked {
		return nil, errors.New(errors.ErrDestinationPopulated,
			r.msg.Get(i18n.ExistsError, branding.TargetDir(), branding.CLIName()))
	}
	if r.mode != Update {
		r.prior = nil
	}

	tag, err := in.fetcher.ResolveTag(ctx, branding.GitHubRepo(), opts.Tag, in.version)
	if err != nil {
		return nil, err
	}
	r.summary.Tag = tag
	if r.mode == Update {
		in.console.Info(r.msg.Get(i18n.UpdateMode, prior.Version, tag))
	}
	in.console.Info(r.msg.Get(i18n.Downloading, tag))

	workDir, err := afero.TempDir(in.fs, "", "takt-sdd-")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileIO, "creating temporary directory")
	}
	defer func() {
		if err := in.fs.RemoveAll(workDir); err != nil {
			in.logger.Warn().Err(err).Str("path", workDir).Msg("failed to remove temporary directory")
		}
	}()

	bundleRoot, err := in.fetcher.Fetch(ctx, in.fs, branding.GitHubRepo(), tag, filepath.Join(workDir, "bundle"))
	if err != nil {
		return nil, err
	}
	taktRoot := filepath.Join(bundleRoot, branding.TargetDir())
	if ok, _ := afero.DirExists(in.fs, taktRoot); !ok {
		return nil, errors.New(errors.ErrArchiveStructure, r.msg.Get(i18n.ArchiveError, branding.TargetDir()))
	}
	src, ok := assetSource(in.fs, taktRoot, string(r.msg.Lang()))
	if !ok {
		return nil, errors.New(errors.ErrArchiveStructure,
			r.msg.Get(i18n.ArchiveError, branding.TargetDir()+"/"+string(r.msg.Lang())))
	}

	l := layout.NewResolver(in.prober, in.logger).Resolve(ctx, opts.LayoutMode)
	r.summary.Layout = l
	in.console.Info(r.msg.Get(i18n.LayoutSelected, string(l)))

	primary := primaryGroups(in.fs, src, targetDir, l)
	var skills []syncer.Group
	if !opts.WithoutSkills {
		skills, err = skillGroups(in.fs, bundleRoot, opts.ProjectDir)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileIO, "listing skills in the bundle")
		}
	}

	if opts.DryRun {
		return r.dryRun(append(primary, skills...))
	}

	in.console.Info(r.msg.Get(i18n.Installing, branding.TargetDir()))
	for _, g := range primary {
		if err := r.sync(g); err != nil {
			return nil, err
		}
	}

	if err := r.installSkills(skills); err != nil {
		return nil, err
	}

	identity, err := r.installReferences(ctx, workDir)
	if err != nil {
		return nil, err
	}

	if err := r.mergeDeclarations(); err != nil {
		return nil, err
	}

	m := &ledger.Manifest{
		Version:                 tag,
		InstalledAt:             in.now().UTC(),
		Language:                string(r.msg.Lang()),
		ReferenceBundleIdentity: identity,
		Files:                   r.files,
	}
	if err := store.Persist(ledgerPath, m); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestWrite, "writing install ledger")
	}
	r.summary.Ledger = m
	in.logger.Info().Int("files", len(m.Files)).Str("path", ledgerPath).Msg("ledger written")
	in.logger.Trace().Strs("keys", m.Keys()).Msg("ledger entries")
	in.console.Info(r.msg.Get(i18n.LedgerWritten, len(m.Files), filepath.ToSlash(filepath.Join(branding.TargetDir(), ledger.FileName))))

	in.console.Info(r.msg.Get(i18n.Complete))
	in.console.Println(r.msg.Get(i18n.UsageExamples, branding.TargetDir()))
	in.console.Println("")
	return r.summary, nil
}

func (in *Installer) resolveLang(flag i18n.Lang, prior *ledger.Manifest) i18n.Lang {
	if flag != "" {
		return flag
	}
	if prior != nil {
		if l, err := i18n.ParseLang(prior.Language); err == nil {
			return l
		}
	}
	if in.defaultLang != "" {
		return in.defaultLang
	}
	return i18n.EN
}

func (in *Installer) toolAvailable(ctx context.Context) bool {
	if in.prober == nil {
		return false
	}
	if p, ok := in.prober.(interface{ Available() bool }); ok {
		return p.Available()
	}
	_, err := in.prober.Version(ctx)
	return err == nil
}

// sync applies one group and folds its result into the run.
func (r *run) sync(g syncer.Group) error {
	res, err := r.engine.Sync(g, r.prior)
	if err != nil {
		return err
	}
	for k, v := range res.Files {
		r.files[k] = v
	}
	r.summary.Decisions = append(r.summary.Decisions, res.Decisions...)

	for _, d := range res.Decisions {
		if d.Action == syncer.SkipCustomized {
			r.console.Warn(r.msg.Get(i18n.KeptCustomized, d.Key))
		}
	}
	if r.mode == Update && len(res.Decisions) > 0 {
		c := res.Counts()
		r.console.Info(r.msg.Get(i18n.GroupSynced, g.Name, c[syncer.Add], c[syncer.Update], c[syncer.SkipCustomized]))
	}
	return nil
}

// carry keeps the prior ledger entries below a project-relative directory.
func (r *run) carry(dir string) {
	for k, v := range r.prior.Carry(filepath.ToSlash(dir)) {
		r.files[k] = v
	}
}

func (r *run) dryRun(groups []syncer.Group) (*Summary, error) {
	r.console.Info(r.msg.Get(i18n.DryRunHeader))
	for _, g := range groups {
		plan, err := r.engine.Plan(g, r.prior)
		if err != nil {
			return nil, err
		}
		for _, d := range plan.Decisions {
			r.console.Println(r.msg.Get(i18n.DryRunItem, d.Key, r.actionLabel(d.Action)))
		}
		r.summary.Decisions = append(r.summary.Decisions, plan.Decisions...)
	}

	report, err := project.Plan(r.fs, filepath.Join(r.opts.ProjectDir, project.FileName), r.declarations)
	if err != nil {
		return nil, err
	}
	r.summary.Declarations = report
	if report.Changed() {
		action := syncer.Update
		if report.Created {
			action = syncer.Add
		}
		r.console.Println(r.msg.Get(i18n.DryRunItem, project.FileName, r.actionLabel(action)))
	}
	r.console.Println("")
	r.console.Info(r.msg.Get(i18n.DryRunSkipped))
	return r.summary, nil
}

func (r *run) actionLabel(a syncer.Action) string {
	switch a {
	case syncer.Add:
		return r.msg.Get(i18n.ActionAdd)
	case syncer.Update:
		return r.msg.Get(i18n.ActionUpdate)
	case syncer.SkipCustomized:
		return r.msg.Get(i18n.ActionCustomized)
	default:
		return r.msg.Get(i18n.ActionUnchanged)
	}
}

func (r *run) installSkills(groups []syncer.Group) error {
	if r.opts.WithoutSkills {
		r.carry(filepath.FromSlash(branding.SkillsDir()))
		for _, linkDir := range branding.SkillLinkDirs() {
			r.carry(filepath.FromSlash(linkDir))
		}
		return nil
	}
	if len(groups) == 0 {
		return nil
	}

	r.console.Info(r.msg.Get(i18n.InstallingSkills, branding.SkillsDir()))
	for _, g := range groups {
		if err := r.sync(g); err != nil {
			return err
		}
		r.console.Info(r.msg.Get(i18n.SkillInstalled, g.Name))

		for _, linkDir := range branding.SkillLinkDirs() {
			if err := r.linkSkill(g, linkDir); err != nil {
				return err
			}
		}
	}
	return nil
}

// linkSkill points linkDir/<skill> at the installed skill. Where symlinks are
// unavailable the link is a copy, which is kept in sync with the bundle like
// any other installed file.
func (r *run) linkSkill(g syncer.Group, linkDir string) error {
	link := filepath.Join(r.opts.ProjectDir, filepath.FromSlash(linkDir), g.Name)
	shown := linkDir + "/" + g.Name

	target, err := filepath.Rel(filepath.Dir(link), g.Dest)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileIO, "linking skill %s", g.Name)
	}
	res, err := platform.CreateSymlink(r.fs, target, link)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileIO, "linking skill %s", g.Name)
	}

	switch res {
	case platform.Linked:
		r.console.Info(r.msg.Get(i18n.SkillSymlinked, shown, branding.SkillsDir()+"/"+g.Name))
		return nil
	case platform.Copied:
		r.console.Warn(r.msg.Get(i18n.SkillCopied, shown))
	case platform.Existing:
		if current, err := platform.ReadSymlinkTarget(r.fs, link); err == nil {
			r.logger.Debug().Str("link", shown).Str("target", current).Msg("skill link already present")
			return nil
		}
		if isDir, _ := afero.IsDir(r.fs, link); !isDir {
			r.logger.Warn().Str("link", shown).Msg("skill link path is occupied by a file, leaving it alone")
			return nil
		}
	}

	return r.sync(syncer.Group{Name: shown, Source: g.Source, Dest: link})
}

// installReferences syncs the takt reference bundle when it changed and
// returns the identity to record. Download problems are warnings.
func (r *run) installReferences(ctx context.Context, workDir string) (string, error) {
	refsDir := filepath.Join(r.opts.ProjectDir, r.opts.RefsPath)
	priorIdentity := ""
	if r.prior != nil {
		priorIdentity = r.prior.ReferenceBundleIdentity
	}
	keep := func() (string, error) {
		r.carry(r.opts.RefsPath)
		return priorIdentity, nil
	}

	if r.opts.WithoutRefs {
		return keep()
	}
	if r.mode != Update {
		exists, err := platform.Exists(r.fs, refsDir)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileIO, "inspecting %s", refsDir)
		}
		if exists {
			r.console.Info(r.msg.Get(i18n.RefsSkipped))
			return keep()
		}
	}

	repo := branding.ReferenceRepo()
	tag, err := r.fetcher.LatestTag(ctx, repo)
	if err != nil {
		r.logger.Warn().Err(err).Str("repo", repo).Msg("reference bundle lookup failed")
		r.console.Warn(r.msg.Get(i18n.RefsError))
		return keep()
	}
	identity := repo + "@" + tag
	if r.mode == Update && identity == priorIdentity {
		r.console.Info(r.msg.Get(i18n.RefsUpToDate, tag))
		return keep()
	}

	r.console.Info(r.msg.Get(i18n.DownloadingRefs, filepath.ToSlash(r.opts.RefsPath)))
	root, err := r.fetcher.Fetch(ctx, r.fs, repo, tag, filepath.Join(workDir, "refs"))
	if err != nil {
		r.logger.Warn().Err(err).Str("repo", repo).Str("tag", tag).Msg("reference bundle download failed")
		r.console.Warn(r.msg.Get(i18n.RefsError))
		return keep()
	}

	for _, g := range referenceGroups(root, refsDir) {
		if err := r.sync(g); err != nil {
			return "", err
		}
	}
	r.summary.RefsSynced = true
	r.console.Info(r.msg.Get(i18n.RefsInstalled, strings.Join(branding.ReferenceDirs(), ", ")))
	return identity, nil
}

func (r *run) mergeDeclarations() error {
	path := filepath.Join(r.opts.ProjectDir, project.FileName)
	report, err := project.Merge(r.fs, path, r.declarations)
	if err != nil {
		return err
	}
	r.summary.Declarations = report

	if report.Created {
		r.console.Info(r.msg.Get(i18n.ScriptsCreated))
		return nil
	}
	if len(report.Added) > 0 {
		r.console.Info(r.msg.Get(i18n.ScriptsAdded, len(report.Added)))
	}
	if len(report.Skipped) > 0 {
		r.console.Warn(r.msg.Get(i18n.ScriptsSkipped, strings.Join(report.Skipped, ", ")))
	}
	if len(report.DepsAdded) > 0 {
		deps := append([]string(nil), report.DepsAdded...)
		sort.Strings(deps)
		r.console.Info(r.msg.Get(i18n.DepsAdded, strings.Join(deps, ", ")))
	}
	for _, c := range report.DepsUpdated {
		r.console.Info(r.msg.Get(i18n.DepUpdated, c.Name, c.From, c.To))
	}
	return nil
}

// String renders the summary for logs.
func (s *Summary) String() string {
	counts := map[syncer.Action]int{}
	for _, d := range s.Decisions {
		counts[d.Action]++
	}
	return fmt.Sprintf("%s %s (%s, %s): %d added, %d updated, %d customized, %d unchanged",
		s.Mode, s.Tag, s.Layout, s.Lang,
		counts[syncer.Add], counts[syncer.Update], counts[syncer.SkipCustomized], counts[syncer.SkipUnchanged])
}
