package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/qrstyle/internal/config"
	"github.com/systmms/qrstyle/internal/geometry"
	"github.com/systmms/qrstyle/internal/matrix"
	"github.com/systmms/qrstyle/internal/shape"
	"github.com/systmms/qrstyle/internal/validate"
)

func buildMatrix(t *testing.T, version int, ecc matrix.ECCLevel) *matrix.Matrix {
	t.Helper()
	n := matrix.SideForVersion(version)
	m, err := matrix.Classify(make([]bool, n*n), version, ecc)
	require.NoError(t, err)
	return m
}

func TestCheckNoFindingsOnDefaults(t *testing.T) {
	cfg := config.Defaults()
	m := buildMatrix(t, 1, matrix.ECCMedium)
	report, err := validate.Check(cfg, m)
	require.NoError(t, err)
	assert.Empty(t, report.Findings)
}

func TestCheckClampsAggressiveMerge(t *testing.T) {
	cfg := config.Defaults()
	cfg.Geometry.Merge = shape.MergeAggressive
	cfg.Geometry.MinIslandModules = 1
	m := buildMatrix(t, 1, matrix.ECCQuartile)

	report, err := validate.Check(cfg, m)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Geometry.MinIslandModules)
	assertHasCode(t, report, "MERGE_SAFETY_ADJUSTED")
}

func TestCheckClampsOversizedCenterpiece(t *testing.T) {
	cfg := config.Defaults()
	cfg.Centerpiece.Enabled = true
	cfg.Centerpiece.SizeFraction = 0.49
	m := buildMatrix(t, 5, matrix.ECCLow)

	report, err := validate.Check(cfg, m)
	require.NoError(t, err)
	assert.Less(t, cfg.Centerpiece.SizeFraction, 0.49)
	assertHasCode(t, report, "RESERVE_CLAMPED")
}

func TestCheckStrictModeReturnsUnsafeReserveError(t *testing.T) {
	cfg := config.Defaults()
	cfg.Strict = true
	cfg.Centerpiece.Enabled = true
	cfg.Centerpiece.SizeFraction = 0.49
	m := buildMatrix(t, 5, matrix.ECCLow)

	_, err := validate.Check(cfg, m)
	require.Error(t, err)
	var ure *validate.UnsafeReserveError
	require.ErrorAs(t, err, &ure)
}

func TestCheckLowContrastWarnsAndClamps(t *testing.T) {
	cfg := config.Defaults()
	cfg.Palette.FG = "#888888"
	cfg.Palette.BG = "#999999"
	m := buildMatrix(t, 1, matrix.ECCMedium)

	report, err := validate.Check(cfg, m)
	require.NoError(t, err)
	assert.Equal(t, "#000000", cfg.Palette.FG)
	assertHasCode(t, report, "CONTRAST_ADJUSTED")
}

func TestCheckLowContrastStrictModeFails(t *testing.T) {
	cfg := config.Defaults()
	cfg.Strict = true
	cfg.Palette.FG = "#888888"
	cfg.Palette.BG = "#999999"
	m := buildMatrix(t, 1, matrix.ECCMedium)

	_, err := validate.Check(cfg, m)
	require.Error(t, err)
	var ce *validate.ContrastError
	require.ErrorAs(t, err, &ce)
}

func TestCheckWidensBorderForClipMode(t *testing.T) {
	cfg := config.Defaults()
	cfg.Border = 1
	cfg.Frame.Shape = geometry.FrameCircle
	cfg.Frame.ClipMode = geometry.ClipClip
	m := buildMatrix(t, 1, matrix.ECCMedium)

	report, err := validate.Check(cfg, m)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Border)
	assertHasCode(t, report, "BORDER_WIDENED")
}

func TestSafeReserveFractionIncreasesWithHigherECC(t *testing.T) {
	low := validate.SafeReserveFraction(5, matrix.ECCLow)
	high := validate.SafeReserveFraction(5, matrix.ECCHigh)
	assert.Less(t, low, high)
}

func assertHasCode(t *testing.T, report *validate.Report, code string) {
	t.Helper()
	for _, f := range report.Findings {
		if f.Code == code {
			return
		}
	}
	t.Fatalf("expected finding code %q, got %+v", code, report.Findings)
}
