package i18n

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/message/catalog"
)

// Key identifies a message.
type Key string

const (
	Downloading      Key = "downloading"
	Installing       Key = "installing"
	ExistsError      Key = "exists-error"
	Complete         Key = "complete"
	DryRunHeader     Key = "dry-run-header"
	DryRunItem       Key = "dry-run-item"
	DryRunSkipped    Key = "dry-run-skipped"
	ToolNotFound     Key = "tool-not-found"
	ArchiveError     Key = "archive-error"
	UpdateMode       Key = "update-mode"
	LedgerUnusable   Key = "ledger-unusable"
	LayoutSelected   Key = "layout-selected"
	GroupSynced      Key = "group-synced"
	KeptCustomized   Key = "kept-customized"
	ScriptsAdded     Key = "scripts-added"
	ScriptsSkipped   Key = "scripts-skipped"
	ScriptsCreated   Key = "scripts-created"
	DepsAdded        Key = "deps-added"
	DepUpdated       Key = "dep-updated"
	InstallingSkills Key = "installing-skills"
	SkillInstalled   Key = "skill-installed"
	SkillSymlinked   Key = "skill-symlinked"
	SkillCopied      Key = "skill-copied"
	DownloadingRefs  Key = "downloading-refs"
	RefsInstalled    Key = "refs-installed"
	RefsSkipped      Key = "refs-skipped"
	RefsUpToDate     Key = "refs-up-to-date"
	RefsError        Key = "refs-error"
	UsageExamples    Key = "usage-examples"
	ActionAdd        Key = "action-add"
	ActionUpdate     Key = "action-update"
	ActionCustomized Key = "action-skip-customized"
	ActionUnchanged  Key = "action-skip-unchanged"
	LedgerWritten    Key = "ledger-written"
)

type entry struct {
	key Key
	en  catalog.Message
	ja  catalog.Message
}

func s(msg string) catalog.Message { return catalog.String(msg) }

var messages = []entry{
	{Downloading, s("Downloading takt-sdd %s..."), s("takt-sdd %s をダウンロード中...")},
	{Installing, s("Installing pieces and facets to %s/..."), s("%s/ にピースとファセットをインストール中...")},
	{ExistsError,
		s("%s/ already exists. To overwrite, run:\n  %s --force"),
		s("%s/ が既に存在します。上書きするには以下を実行してください:\n  %s --force")},
	{Complete, s("Installation complete!"), s("インストール完了!")},
	{DryRunHeader, s("[dry-run] The following files would be installed:"), s("[dry-run] 以下のファイルがインストールされます:")},
	{DryRunItem, s("  %s (%s)"), s("  %s (%s)")},
	{DryRunSkipped, s("[dry-run] No files were written."), s("[dry-run] ファイルは書き込まれませんでした。")},
	{ToolNotFound,
		s("Warning: %s is not installed. Install it first: %s"),
		s("警告: %s がインストールされていません。先にインストールしてください: %s")},
	{ArchiveError,
		s("Error: %s/ not found in the downloaded archive."),
		s("エラー: ダウンロードしたアーカイブに %s/ が見つかりません。")},
	{UpdateMode,
		s("Found installation %s, updating to %s..."),
		s("既存のインストール (%s) を検出しました。%s に更新します...")},
	{LedgerUnusable,
		s("Warning: %s could not be read. Existing files are treated as unknown."),
		s("警告: %s を読み込めませんでした。既存のファイルは由来不明として扱います。")},
	{LayoutSelected, s("Using the %s layout"), s("%s レイアウトを使用します")},
	{GroupSynced,
		s("%s: %d added, %d updated, %d kept"),
		s("%s: 追加 %d, 更新 %d, 保持 %d")},
	{KeptCustomized,
		s("Kept your customized file: %s"),
		s("カスタマイズされたファイルを保持しました: %s")},
	{ScriptsAdded,
		plural.Selectf(1, "%d",
			"=1", "Added %d npm script to package.json",
			"other", "Added %d npm scripts to package.json"),
		s("package.json に %d 個の npm scripts を追加しました")},
	{ScriptsSkipped, s("Skipped existing scripts: %s"), s("既存のスクリプトをスキップしました: %s")},
	{ScriptsCreated, s("Created package.json with npm scripts"), s("npm scripts 付きの package.json を作成しました")},
	{DepsAdded, s("Added devDependencies to package.json: %s"), s("package.json に devDependencies を追加しました: %s")},
	{DepUpdated, s("Updated devDependency %s: %s -> %s"), s("devDependency %s を更新しました: %s -> %s")},
	{InstallingSkills, s("Installing takt skills to %s/..."), s("%s/ に takt スキルをインストール中...")},
	{SkillInstalled, s("Installed skill: %s"), s("スキルをインストールしました: %s")},
	{SkillSymlinked, s("Symlinked %s -> %s"), s("シンボリックリンク作成: %s -> %s")},
	{SkillCopied, s("Copied %s (symlinks unavailable)"), s("%s をコピーしました（シンボリックリンク非対応）")},
	{DownloadingRefs, s("Downloading takt builtins to %s/..."), s("%s/ に takt ビルトインをダウンロード中...")},
	{RefsInstalled, s("Installed takt references (%s)"), s("takt リファレンスをインストールしました（%s）")},
	{RefsSkipped, s("Takt references already exist, skipping"), s("takt リファレンスは既に存在するためスキップしました")},
	{RefsUpToDate, s("Takt references are up to date (%s), skipping"), s("takt リファレンスは最新です (%s)。スキップしました")},
	{RefsError,
		s("Warning: Failed to download takt references. Skills may not find style guides."),
		s("警告: takt リファレンスのダウンロードに失敗しました。スキルがスタイルガイドを参照できない可能性があります。")},
	{LedgerWritten, s("Recorded %d installed files in %s"), s("インストールした %d 個のファイルを %s に記録しました")},
	{UsageExamples, s(usageEN), s(usageJA)},
	{ActionAdd, s("new"), s("新規")},
	{ActionUpdate, s("update"), s("更新")},
	{ActionCustomized, s("customized, kept"), s("カスタマイズ済み・保持")},
	{ActionUnchanged, s("unchanged"), s("変更なし")},
}

const usageEN = `
  Installed to: %s/

  Usage:
    npm run sdd -- "description of requirements"

  Run individual phases:
    npm run sdd:requirements -- "description of requirements"
    npm run sdd:design -- "feature={feature}"
    npm run sdd:validate-design -- "feature={feature}"
    npm run sdd:tasks -- "feature={feature}"
    npm run sdd:impl -- "feature={feature}"
    npm run sdd:validate-impl -- "feature={feature}"`

const usageJA = `
  インストール先: %s/

  使い方:
    npm run sdd -- "要件の説明"

  各フェーズの個別実行:
    npm run sdd:requirements -- "要件の説明"
    npm run sdd:design -- "feature={feature}"
    npm run sdd:validate-design -- "feature={feature}"
    npm run sdd:tasks -- "feature={feature}"
    npm run sdd:impl -- "feature={feature}"
    npm run sdd:validate-impl -- "feature={feature}"`
