// Package intent lowers a high-level declarative Intent into a concrete
// internal/config.Config, applying an ordered table of lowering rules and
// the degradation rules of spec.md §4.8. The ordered-rule-table dispatch
// mirrors dfbb-im2code/internal/router/router.go's command table: a slice
// of small structs walked in sequence, rather than a big type switch or
// reflection-based matcher.
package intent

import (
	"fmt"

	"github.com/systmms/qrstyle/internal/config"
	"github.com/systmms/qrstyle/internal/geometry"
	"github.com/systmms/qrstyle/internal/shape"
)

// Severity mirrors internal/validate.Severity; kept as its own type so
// intent does not need to import validate for a three-value enum.
type Severity string

const (
	Info     Severity = "info"
	Warning  Severity = "warning"
	Critical Severity = "critical"
)

// Finding is one lowering or degradation outcome.
type Finding struct {
	Code     string
	Severity Severity
	Field    string
	Message  string
}

// Report accumulates Findings produced while lowering one Intent.
type Report struct {
	Findings []Finding
}

func (r *Report) warn(code, field, msg string) {
	r.Findings = append(r.Findings, Finding{Code: code, Severity: Warning, Field: field, Message: msg})
}

// UnsupportedIntentError reports that an Intent field named an unsupported
// or unrecognized value with no declared fallback.
type UnsupportedIntentError struct {
	Field string
	Value any
}

func (e *UnsupportedIntentError) Error() string {
	return fmt.Sprintf("intent: unsupported value for %s: %v", e.Field, e.Value)
}

// StyleIntent is the declarative module-appearance sub-intent.
type StyleIntent struct {
	ModuleShape string // e.g. "rounded-square"; lowered via shapeFallback
	FGColor     string
	BGColor     string
	Merge       string
}

// FrameIntent is the declarative frame sub-intent.
type FrameIntent struct {
	Shape    string
	ClipMode string
}

// ReserveIntent is the declarative centerpiece sub-intent.
type ReserveIntent struct {
	AreaPct float64
	Mode    string
}

// AccessibilityIntent is the declarative a11y sub-intent.
type AccessibilityIntent struct {
	IDPrefix         string
	ComplianceTarget string
}

// Intent is the full declarative request, lowered to a Config by Lower.
type Intent struct {
	Style         StyleIntent
	Frame         FrameIntent
	Reserve       ReserveIntent
	Accessibility AccessibilityIntent
	SafeMode      *bool // nil means "use the default"
}

type loweringRule struct {
	Field string
	Apply func(i Intent, cfg *config.Config, report *Report) error
}

var loweringRules = []loweringRule{
	{Field: "style.module_shape", Apply: lowerModuleShape},
	{Field: "style.fg_color", Apply: lowerPalette},
	{Field: "style.merge", Apply: lowerMerge},
	{Field: "frame.shape", Apply: lowerFrame},
	{Field: "reserve.area_pct", Apply: lowerReserve},
	{Field: "accessibility", Apply: lowerAccessibility},
	{Field: "safe_mode", Apply: lowerSafeMode},
}

// Lower applies every lowering rule in order, building a Config from
// config.Defaults() and recording a warning for every rule that degrades.
// The first rule to return a non-degradation error aborts the whole lower
// and is returned to the caller; by that point no SVG bytes have been
// produced, per spec.md §7's "validation errors surface before any SVG
// bytes" policy.
func Lower(i Intent) (*config.Config, *Report, error) {
	cfg := config.Defaults()
	report := &Report{}

	for _, rule := range loweringRules {
		if err := rule.Apply(i, cfg, report); err != nil {
			return nil, report, err
		}
	}

	return cfg, report, nil
}

func lowerModuleShape(i Intent, cfg *config.Config, report *Report) error {
	if i.Style.ModuleShape == "" {
		return nil
	}
	k := shape.Kind(i.Style.ModuleShape)
	if _, ok := shapeFallback[k]; !ok && !isRegisteredKind(k) {
		return &UnsupportedIntentError{Field: "style.module_shape", Value: i.Style.ModuleShape}
	}
	if fallback, degraded := shapeFallback[k]; degraded {
		cfg.Geometry.Shape = fallback
		report.warn("SHAPE_FALLBACK", "style.module_shape", fmt.Sprintf("%q not supported, falling back to %q", k, fallback))
		return nil
	}
	cfg.Geometry.Shape = k
	return nil
}

func lowerPalette(i Intent, cfg *config.Config, _ *Report) error {
	if i.Style.FGColor != "" {
		cfg.Palette.FG = i.Style.FGColor
	}
	if i.Style.BGColor != "" {
		cfg.Palette.BG = i.Style.BGColor
	}
	return nil
}

func lowerMerge(i Intent, cfg *config.Config, report *Report) error {
	switch i.Style.Merge {
	case "":
		return nil
	case string(shape.MergeNone), string(shape.MergeSoft), string(shape.MergeAggressive):
		cfg.Geometry.Merge = shape.MergeStrategy(i.Style.Merge)
		if cfg.Geometry.Merge == shape.MergeAggressive && cfg.Geometry.MinIslandModules < 3 {
			cfg.Geometry.MinIslandModules = 3
			report.warn("MERGE_SAFETY_ADJUSTED", "geometry.min_island_modules", "aggressive merge requires min_island_modules >= 3")
		}
		return nil
	default:
		return &UnsupportedIntentError{Field: "style.merge", Value: i.Style.Merge}
	}
}

func lowerFrame(i Intent, cfg *config.Config, report *Report) error {
	if i.Frame.Shape == "" {
		return nil
	}
	fs := geometry.FrameShape(i.Frame.Shape)
	switch fs {
	case geometry.FrameSquare, geometry.FrameRoundedRect, geometry.FrameCircle, geometry.FrameSquircle, geometry.FrameCustom:
		cfg.Frame.Shape = fs
	default:
		return &UnsupportedIntentError{Field: "frame.shape", Value: i.Frame.Shape}
	}
	if i.Frame.ClipMode != "" {
		cm := geometry.ClipMode(i.Frame.ClipMode)
		switch cm {
		case geometry.ClipNone, geometry.ClipClip, geometry.ClipFade, geometry.ClipScale:
			cfg.Frame.ClipMode = cm
		default:
			return &UnsupportedIntentError{Field: "frame.clip_mode", Value: i.Frame.ClipMode}
		}
	}
	return nil
}

func lowerReserve(i Intent, cfg *config.Config, report *Report) error {
	if i.Reserve.AreaPct <= 0 {
		return nil
	}
	cfg.Centerpiece.Enabled = true
	cfg.Centerpiece.SizeFraction = i.Reserve.AreaPct
	if i.Reserve.Mode != "" {
		cfg.Centerpiece.Mode = geometry.CenterpieceMode(i.Reserve.Mode)
	} else {
		cfg.Centerpiece.Mode = geometry.Knockout
	}
	// Final ECC-aware clamping happens in internal/validate once the target
	// matrix (and hence ECC level) is known; this rule only transcribes the
	// requested fraction.
	return nil
}

func lowerAccessibility(i Intent, cfg *config.Config, report *Report) error {
	if i.Accessibility.IDPrefix != "" {
		cfg.Accessibility.IDPrefix = i.Accessibility.IDPrefix
	}
	if i.Accessibility.ComplianceTarget != "" {
		switch i.Accessibility.ComplianceTarget {
		case "AA", "AAA":
			cfg.Accessibility.ComplianceTarget = i.Accessibility.ComplianceTarget
		default:
			return &UnsupportedIntentError{Field: "accessibility.compliance_target", Value: i.Accessibility.ComplianceTarget}
		}
	}
	return nil
}

func lowerSafeMode(i Intent, cfg *config.Config, _ *Report) error {
	if i.SafeMode != nil {
		cfg.SafeMode = *i.SafeMode
	}
	return nil
}

func isRegisteredKind(k shape.Kind) bool {
	for _, known := range shape.NewRegistry().Kinds() {
		if known == k {
			return true
		}
	}
	return false
}
