// Package validate implements the Composition Validator (C9): the
// cross-cutting invariants spec.md §4.9 lists, run after intent lowering and
// before SVG emission. The ECC-indexed safe-reserve-capacity table is
// derived from the ISO/IEC 18004 per-version, per-ECC-level codeword tables
// (carried here as eccCodewordsPerBlockTable/numErrorCorrectionBlocksTable),
// reusing the exact data-codeword arithmetic a QR encoder uses rather than
// the spec's approximate per-ECC guidance numbers, per the Open Question in
// spec.md §9 ("take the exact table from the validator's current constants
// rather than inventing values").
package validate

import (
	"fmt"
	"math"

	"github.com/systmms/qrstyle/internal/config"
	"github.com/systmms/qrstyle/internal/geometry"
	"github.com/systmms/qrstyle/internal/matrix"
	"github.com/systmms/qrstyle/internal/shape"
)

// Severity classifies a Report entry.
type Severity string

const (
	Info     Severity = "info"
	Warning  Severity = "warning"
	Critical Severity = "critical"
)

// Finding is one invariant check's outcome.
type Finding struct {
	Code     string
	Severity Severity
	Message  string
	Field    string
}

// Report accumulates Findings for one Check call.
type Report struct {
	Findings []Finding
}

func (r *Report) add(code string, sev Severity, field, msg string) {
	r.Findings = append(r.Findings, Finding{Code: code, Severity: sev, Field: field, Message: msg})
}

// ContrastError is raised in strict mode when fg/bg contrast is insufficient.
type ContrastError struct {
	Ratio, Threshold float64
}

func (e *ContrastError) Error() string {
	return fmt.Sprintf("validate: contrast ratio %.2f below threshold %.2f", e.Ratio, e.Threshold)
}

// UnsafeReserveError is raised in strict mode when the centerpiece exceeds
// the ECC-indexed safe capacity and policy disallows shrinking.
type UnsafeReserveError struct {
	Requested, Cap float64
}

func (e *UnsafeReserveError) Error() string {
	return fmt.Sprintf("validate: centerpiece.size_fraction %.3f exceeds safe cap %.3f for this ECC level", e.Requested, e.Cap)
}

// SafeReserveFraction returns the maximum centerpiece.size_fraction this ECC
// level can absorb without risking unscannability: half of the share of the
// symbol's codewords spent on error correction, never more than 0.5, derived
// from the exact per-version/ECC data-codeword counts the encoder computes.
func SafeReserveFraction(version int, ecc matrix.ECCLevel) float64 {
	raw := float64(rawDataModules(version))
	dataCodewords := float64(numDataCodewords(version, ecc))

	totalCodewords := raw / 8
	eccBudget := totalCodewords - dataCodewords // codewords spent on error correction
	// The safe area fraction is half of the ECC budget's share of the grid:
	// knocking out more than the error-correction budget can repair risks an
	// unscannable code, so reserve area is capped well under that ceiling.
	fraction := (eccBudget / totalCodewords) / 2
	return math.Min(fraction, 0.5)
}

func rawDataModules(version int) int {
	v := version
	result := (16*v+128)*v + 64
	if v >= 2 {
		numalign := v/7 + 2
		result -= (25*numalign-10)*numalign - 55
		if v >= 7 {
			result -= 36
		}
	}
	return result
}

func numDataCodewords(version int, ecc matrix.ECCLevel) int {
	raw := rawDataModules(version) / 8
	return raw - eccCodewordsPerBlock(version, ecc)*numErrorCorrectionBlocks(version, ecc)
}

func eccCodewordsPerBlock(version int, ecc matrix.ECCLevel) int {
	return int(eccCodewordsPerBlockTable[eccOrdinal(ecc)][version])
}

func numErrorCorrectionBlocks(version int, ecc matrix.ECCLevel) int {
	return int(numErrorCorrectionBlocksTable[eccOrdinal(ecc)][version])
}

// eccCodewordsPerBlockTable and numErrorCorrectionBlocksTable are the
// ISO/IEC 18004 Annex tables: per (ECC level, version) counts of error
// correction codewords per block and block counts. These are fixed
// standard constants, not an implementation choice, so they are carried
// here verbatim rather than rederived.
var (
	eccCodewordsPerBlockTable = [4][41]int8{
		// Version:  0,  1,  2,  3,  4,  5,  6,  7,  8,  9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40
		{-1, 7, 10, 15, 20, 26, 18, 20, 24, 30, 18, 20, 24, 26, 30, 22, 24, 28, 30, 28, 28, 28, 28, 30, 30, 26, 28, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},  // Low
		{-1, 10, 16, 26, 18, 24, 16, 18, 22, 22, 26, 30, 22, 22, 24, 24, 28, 28, 26, 26, 26, 26, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28}, // Medium
		{-1, 13, 22, 18, 26, 18, 24, 18, 22, 20, 24, 28, 26, 24, 20, 30, 24, 28, 28, 26, 30, 28, 30, 30, 30, 30, 28, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30}, // Quartile
		{-1, 17, 28, 22, 16, 22, 28, 26, 26, 24, 28, 24, 28, 22, 24, 24, 30, 28, 28, 26, 28, 30, 24, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30}, // High
	}

	numErrorCorrectionBlocksTable = [4][41]int8{
		// Version: 0, 1, 2, 3, 4, 5, 6, 7, 8, 9,10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40
		{-1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 4, 4, 4, 4, 4, 6, 6, 6, 6, 7, 8, 8, 9, 9, 10, 12, 12, 12, 13, 14, 15, 16, 17, 18, 19, 19, 20, 21, 22, 24, 25},              // Low
		{-1, 1, 1, 1, 2, 2, 4, 4, 4, 5, 5, 5, 8, 9, 9, 10, 10, 11, 13, 14, 16, 17, 17, 18, 20, 21, 23, 25, 26, 28, 29, 31, 33, 35, 37, 38, 40, 43, 45, 47, 49},     // Medium
		{-1, 1, 1, 2, 2, 4, 4, 6, 6, 8, 8, 8, 10, 12, 16, 12, 17, 16, 18, 21, 20, 23, 23, 25, 27, 29, 34, 34, 35, 38, 40, 43, 45, 48, 51, 53, 56, 59, 62, 65, 68},  // Quartile
		{-1, 1, 1, 2, 4, 4, 4, 5, 6, 8, 8, 11, 11, 16, 16, 18, 16, 19, 21, 25, 25, 25, 34, 30, 32, 35, 37, 40, 42, 45, 48, 51, 54, 57, 60, 63, 66, 70, 74, 77, 81}, // High
	}
)

func eccOrdinal(ecc matrix.ECCLevel) int {
	switch ecc {
	case matrix.ECCLow:
		return 0
	case matrix.ECCMedium:
		return 1
	case matrix.ECCQuartile:
		return 2
	case matrix.ECCHigh:
		return 3
	default:
		return 0
	}
}

// Check runs the five C9 invariants in order against cfg and m. Contrast,
// centerpiece-cap and function-pattern-clipping violations either
// auto-adjust cfg in place with a Warning-severity Finding (default) or
// return a Critical-severity Finding plus an error (cfg.Strict). Frame
// clearance only adds Warning findings and never changes cfg. The
// aggressive-merge floor is always auto-raised with a Warning, in strict
// mode too; it never returns an error.
func Check(cfg *config.Config, m *matrix.Matrix) (*Report, error) {
	report := &Report{}

	if err := checkContrast(cfg, report); err != nil {
		return report, err
	}
	if err := checkCenterpieceCap(cfg, m, report); err != nil {
		return report, err
	}
	checkFrameClearance(cfg, report)
	if err := checkFunctionPatternClipping(cfg, m, report); err != nil {
		return report, err
	}
	checkAggressiveMergeFloor(cfg, report)

	return report, nil
}

func checkContrast(cfg *config.Config, report *Report) error {
	ratio := contrastRatio(cfg.Palette.FG, cfg.Palette.BG)
	threshold := 4.5
	if cfg.Accessibility.ComplianceTarget == "AAA" {
		threshold = 7.0
	}
	if ratio >= threshold {
		return nil
	}
	if cfg.Strict {
		report.add("CONTRAST_BELOW_THRESHOLD", Critical, "palette", fmt.Sprintf("contrast %.2f below %.2f", ratio, threshold))
		return &ContrastError{Ratio: ratio, Threshold: threshold}
	}
	cfg.Palette.FG = "#000000"
	cfg.Palette.BG = "#ffffff"
	report.add("CONTRAST_ADJUSTED", Warning, "palette", fmt.Sprintf("contrast %.2f below %.2f, clamped to black/white", ratio, threshold))
	return nil
}

func checkCenterpieceCap(cfg *config.Config, m *matrix.Matrix, report *Report) error {
	if !cfg.Centerpiece.Enabled {
		return nil
	}
	safeCap := SafeReserveFraction(m.Version, m.ECC)
	if cfg.Centerpiece.SizeFraction <= safeCap {
		return nil
	}
	if cfg.Strict {
		report.add("UNSAFE_RESERVE", Critical, "centerpiece.size_fraction", fmt.Sprintf("%.3f exceeds cap %.3f", cfg.Centerpiece.SizeFraction, safeCap))
		return &UnsafeReserveError{Requested: cfg.Centerpiece.SizeFraction, Cap: safeCap}
	}
	cfg.Centerpiece.SizeFraction = safeCap
	report.add("RESERVE_CLAMPED", Warning, "centerpiece.size_fraction", fmt.Sprintf("clamped to ECC-%v cap %.3f", m.ECC, safeCap))
	return nil
}

func checkFrameClearance(cfg *config.Config, report *Report) {
	min := 0
	switch cfg.Frame.Shape {
	case geometry.FrameCircle, geometry.FrameSquircle:
		min = 2
	case geometry.FrameRoundedRect:
		min = 1
	}
	if cfg.Frame.Shape != geometry.FrameSquare && cfg.Frame.Shape != "" && cfg.Border < min {
		report.add("FRAME_CLEARANCE_ADJUSTED", Warning, "border", fmt.Sprintf("%s frame needs border >= %d, got %d", cfg.Frame.Shape, min, cfg.Border))
	}
	if cfg.Frame.Shape != geometry.FrameSquare && cfg.Frame.Shape != "" && cfg.Border == 0 {
		report.add("NONSQUARE_FRAME_NO_BORDER", Warning, "border", "non-square frame with border=0")
	}
}

func checkFunctionPatternClipping(cfg *config.Config, m *matrix.Matrix, report *Report) error {
	if cfg.Frame.ClipMode != geometry.ClipClip {
		return nil
	}
	// A clip frame narrower than the quiet zone would clip function-pattern
	// cells; the only safe remedy is widening the border, never shrinking
	// the functional grid.
	if cfg.Border < 4 {
		if cfg.Strict {
			report.add("FUNCTION_PATTERN_CLIPPED", Critical, "border", "clip_mode=clip with border < 4 risks clipping function patterns")
			return fmt.Errorf("validate: clip_mode=clip requires border >= 4 to avoid clipping function patterns, got %d", cfg.Border)
		}
		cfg.Border = 4
		report.add("BORDER_WIDENED", Warning, "border", "widened to 4 to avoid clipping function patterns under clip_mode=clip")
	}
	return nil
}

func checkAggressiveMergeFloor(cfg *config.Config, report *Report) {
	if cfg.Geometry.Merge != shape.MergeAggressive {
		return
	}
	if cfg.Geometry.MinIslandModules < 3 {
		cfg.Geometry.MinIslandModules = 3
		report.add("MERGE_SAFETY_ADJUSTED", Warning, "geometry.min_island_modules", "aggressive merge requires min_island_modules >= 3")
	}
}

// contrastRatio computes the WCAG relative-luminance contrast ratio between
// two "#rrggbb" hex colors.
func contrastRatio(fgHex, bgHex string) float64 {
	l1 := relativeLuminance(fgHex)
	l2 := relativeLuminance(bgHex)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	r, g, b := hexToRGB(hex)
	lr := channelLuminance(r)
	lg := channelLuminance(g)
	lb := channelLuminance(b)
	return 0.2126*lr + 0.7152*lg + 0.0722*lb
}

func channelLuminance(c float64) float64 {
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func hexToRGB(hex string) (r, g, b float64) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	var ri, gi, bi int64
	_, err := fmt.Sscanf(hex[1:3], "%x", &ri)
	if err != nil {
		return 0, 0, 0
	}
	fmt.Sscanf(hex[3:5], "%x", &gi)
	fmt.Sscanf(hex[5:7], "%x", &bi)
	return float64(ri) / 255, float64(gi) / 255, float64(bi) / 255
}
