package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/qrstyle/internal/geometry"
	"github.com/systmms/qrstyle/internal/matrix"
)

func TestPlanFrameSquareNoWarnings(t *testing.T) {
	plan, err := geometry.PlanFrame(geometry.FrameConfig{Shape: geometry.FrameSquare}, 21, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, plan.Warnings)
	assert.Contains(t, plan.ClipPathD, "M0,0")
}

func TestPlanFrameFadeWarnsOnThinBorder(t *testing.T) {
	plan, err := geometry.PlanFrame(geometry.FrameConfig{
		Shape: geometry.FrameCircle, ClipMode: geometry.ClipFade,
	}, 21, 2, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, plan.FadeMaskID)
	assert.NotEmpty(t, plan.Warnings)
}

func TestPlanFrameFadeNoWarningWithSufficientBorder(t *testing.T) {
	plan, err := geometry.PlanFrame(geometry.FrameConfig{
		Shape: geometry.FrameCircle, ClipMode: geometry.ClipFade,
	}, 21, 5, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, plan.FadeMaskID)
	for _, w := range plan.Warnings {
		assert.NotContains(t, w, "FADE_BORDER_THIN")
	}
}

func TestPlanFrameCustomRequiresPath(t *testing.T) {
	_, err := geometry.PlanFrame(geometry.FrameConfig{Shape: geometry.FrameCustom}, 21, 4, 10)
	require.Error(t, err)
}

func TestPlanCenterpieceDisabled(t *testing.T) {
	plan, err := geometry.PlanCenterpiece(geometry.CenterpieceConfig{Enabled: false}, 21, matrix.ECCMedium)
	require.NoError(t, err)
	assert.False(t, plan.Enabled)
	assert.Nil(t, plan.Reserved)
}

func TestPlanCenterpieceReservesCenterCells(t *testing.T) {
	plan, err := geometry.PlanCenterpiece(geometry.CenterpieceConfig{
		Enabled:      true,
		Shape:        geometry.FrameCircle,
		SizeFraction: 0.2,
		Mode:         geometry.Knockout,
	}, 21, matrix.ECCHigh)
	require.NoError(t, err)
	require.True(t, plan.Enabled)
	assert.NotEmpty(t, plan.Reserved)
	for pt := range plan.Reserved {
		assert.True(t, pt.X >= 0 && pt.X < 21 && pt.Y >= 0 && pt.Y < 21)
	}
}

func TestPlanCenterpieceRejectsOutOfRangeOffset(t *testing.T) {
	_, err := geometry.PlanCenterpiece(geometry.CenterpieceConfig{
		Enabled: true, SizeFraction: 0.1, OffsetX: 0.9,
	}, 21, matrix.ECCLow)
	require.Error(t, err)
}
