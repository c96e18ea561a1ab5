package intent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/qrstyle/internal/geometry"
	"github.com/systmms/qrstyle/internal/intent"
	"github.com/systmms/qrstyle/internal/shape"
)

func TestLowerEmptyIntentYieldsDefaults(t *testing.T) {
	cfg, report, err := intent.Lower(intent.Intent{})
	require.NoError(t, err)
	assert.Empty(t, report.Findings)
	assert.Equal(t, shape.Square, cfg.Geometry.Shape)
}

func TestLowerModuleShapeDirect(t *testing.T) {
	cfg, report, err := intent.Lower(intent.Intent{Style: intent.StyleIntent{ModuleShape: "circle"}})
	require.NoError(t, err)
	assert.Empty(t, report.Findings)
	assert.Equal(t, shape.Circle, cfg.Geometry.Shape)
}

func TestLowerModuleShapeFallback(t *testing.T) {
	cfg, report, err := intent.Lower(intent.Intent{Style: intent.StyleIntent{ModuleShape: "rounded-square"}})
	require.NoError(t, err)
	assert.Equal(t, shape.Rounded, cfg.Geometry.Shape)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, "SHAPE_FALLBACK", report.Findings[0].Code)
}

func TestLowerModuleShapeUnsupportedFails(t *testing.T) {
	_, _, err := intent.Lower(intent.Intent{Style: intent.StyleIntent{ModuleShape: "totally-unknown"}})
	require.Error(t, err)
	var uie *intent.UnsupportedIntentError
	require.ErrorAs(t, err, &uie)
}

func TestLowerAggressiveMergeAutoRaisesMinIsland(t *testing.T) {
	cfg, report, err := intent.Lower(intent.Intent{Style: intent.StyleIntent{Merge: "aggressive"}})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cfg.Geometry.MinIslandModules, 3)
	found := false
	for _, f := range report.Findings {
		if f.Code == "MERGE_SAFETY_ADJUSTED" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLowerFrameAndReserve(t *testing.T) {
	cfg, _, err := intent.Lower(intent.Intent{
		Frame:   intent.FrameIntent{Shape: "circle", ClipMode: "fade"},
		Reserve: intent.ReserveIntent{AreaPct: 0.1, Mode: "imprint"},
	})
	require.NoError(t, err)
	assert.Equal(t, geometry.FrameCircle, cfg.Frame.Shape)
	assert.Equal(t, geometry.ClipFade, cfg.Frame.ClipMode)
	assert.True(t, cfg.Centerpiece.Enabled)
	assert.InDelta(t, 0.1, cfg.Centerpiece.SizeFraction, 1e-9)
	assert.Equal(t, geometry.Imprint, cfg.Centerpiece.Mode)
}

func TestLowerUnsupportedComplianceTarget(t *testing.T) {
	_, _, err := intent.Lower(intent.Intent{Accessibility: intent.AccessibilityIntent{ComplianceTarget: "X"}})
	require.Error(t, err)
}
