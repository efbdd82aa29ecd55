package layout

import (
	"context"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/takt-sdd/create-takt-sdd/internal/errors"
)

// Mode is the layout requested by the user.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeModern Mode = "modern"
	ModeLegacy Mode = "legacy"
)

// Layout is a concrete directory shape.
type Layout string

const (
	// Modern nests facet categories under facets/.
	Modern Layout = "modern"
	// Legacy places facet categories beside pieces/.
	Legacy Layout = "legacy"
)

// PiecesDir is the pieces directory in both layouts.
const PiecesDir = "pieces"

// FacetsDir is the parent of facet categories in the modern layout.
const FacetsDir = "facets"

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

// modernSince is the first takt release that reads facets/<category>.
var modernSince = semver.MustParse("0.22.0")

// ParseMode validates a --layout value. The empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeModern:
		return ModeModern, nil
	case ModeLegacy:
		return ModeLegacy, nil
	}
	return "", errors.Newf(errors.ErrInvalidOption,
		"invalid layout %q: expected one of auto, modern, legacy", s)
}

// Resolver turns a requested Mode into a Layout.
type Resolver struct {
	prober Prober
	logger zerolog.Logger
}

// NewResolver returns a Resolver that consults prober in auto mode.
// A nil prober behaves as if the tool were absent.
func NewResolver(prober Prober, logger zerolog.Logger) *Resolver {
	return &Resolver{prober: prober, logger: logger}
}

// Resolve returns explicit modes unchanged and probes the tool for auto.
// Any probe or parse failure resolves to Modern.
func (r *Resolver) Resolve(ctx context.Context, mode Mode) Layout {
	switch mode {
	case ModeModern:
		return Modern
	case ModeLegacy:
		return Legacy
	}

	if r.prober == nil {
		return Modern
	}
	out, err := r.prober.Version(ctx)
	if err != nil {
		r.logger.Debug().Err(err).Msg("version probe failed, using modern layout")
		return Modern
	}
	l := FromVersionString(out)
	r.logger.Debug().Str("reported", strings.TrimSpace(out)).Str("layout", string(l)).Msg("resolved layout")
	return l
}

// FromVersionString picks the layout for a tool's self-reported version
// string. Output without a major.minor.patch triple yields Modern.
func FromVersionString(s string) Layout {
	m := versionPattern.FindString(s)
	if m == "" {
		return Modern
	}
	v, err := semver.NewVersion(m)
	if err != nil {
		return Modern
	}
	if v.LessThan(modernSince) {
		return Legacy
	}
	return Modern
}

// DestinationPath maps an asset category to its path relative to the
// installation root.
func DestinationPath(category string, l Layout) string {
	if category == PiecesDir || l == Legacy {
		return category
	}
	return FacetsDir + "/" + category
}
