// Package branding provides compile-time identity values for the installer.
//
// branding.yaml is embedded with //go:embed and overlays the hard defaults
// below, so a fork can retarget the installer at another bundle repository
// without touching Go code.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName         string   `yaml:"cli_name"`
	DisplayName     string   `yaml:"display_name"`
	Description     string   `yaml:"description"`
	ConfigDir       string   `yaml:"config_dir"`
	EnvPrefix       string   `yaml:"env_prefix"`
	GitHubRepo      string   `yaml:"github_repo"`
	TargetDir       string   `yaml:"target_dir"`
	FacetCategories []string `yaml:"facet_categories"`
	SkillsDir       string   `yaml:"skills_dir"`
	SkillLinkDirs   []string `yaml:"skill_link_dirs"`
	ReferenceRepo   string   `yaml:"reference_repo"`
	ReferenceDirs   []string `yaml:"reference_dirs"`
	ReferencePath   string   `yaml:"reference_path"`
	ToolBinary      string   `yaml:"tool_binary"`
	ToolURL         string   `yaml:"tool_url"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:     "create-takt-sdd",
			DisplayName: "takt-sdd",
			Description: "Install takt-sdd pieces and facets into a project",
			ConfigDir:   "takt-sdd",
			EnvPrefix:   "TAKT_SDD",
			GitHubRepo:  "j5ik2o/takt-sdd",
			TargetDir:   ".takt",
			FacetCategories: []string{
				"personas",
				"policies",
				"instructions",
				"knowledge",
				"output-contracts",
			},
			SkillsDir:     ".agent/skills",
			SkillLinkDirs: []string{".claude/skills", ".codex/skills"},
			ReferenceRepo: "nrslib/takt",
			ReferenceDirs: []string{"builtins", "docs"},
			ReferencePath: "references/takt",
			ToolBinary:    "takt",
			ToolURL:       "https://github.com/nrslib/takt",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "create-takt-sdd").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "takt-sdd").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// ConfigDir returns the directory name used under the XDG config and state homes.
func ConfigDir() string { load(); return defaults.ConfigDir }

// EnvPrefix returns the environment variable prefix (e.g., "TAKT_SDD").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GitHubRepo returns the "owner/repo" of the asset bundle.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// TargetDir returns the project-relative installation root (e.g., ".takt").
func TargetDir() string { load(); return defaults.TargetDir }

// FacetCategories returns the facet categories in installation order.
func FacetCategories() []string {
	load()
	return append([]string(nil), defaults.FacetCategories...)
}

// SkillsDir returns the project-relative directory skill bundles are installed to.
func SkillsDir() string { load(); return defaults.SkillsDir }

// SkillLinkDirs returns the project-relative directories that receive a
// symlink per installed skill.
func SkillLinkDirs() []string {
	load()
	return append([]string(nil), defaults.SkillLinkDirs...)
}

// ReferenceRepo returns the "owner/repo" of the reference bundle.
func ReferenceRepo() string { load(); return defaults.ReferenceRepo }

// ReferenceDirs returns the top-level directories copied from the reference bundle.
func ReferenceDirs() []string {
	load()
	return append([]string(nil), defaults.ReferenceDirs...)
}

// ReferencePath returns the default project-relative reference bundle location.
func ReferencePath() string { load(); return defaults.ReferencePath }

// ToolBinary returns the name of the consuming tool's executable.
func ToolBinary() string { load(); return defaults.ToolBinary }

// ToolURL returns where users can get the consuming tool.
func ToolURL() string { load(); return defaults.ToolURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("mirror") → "TAKT_SDD_MIRROR".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
