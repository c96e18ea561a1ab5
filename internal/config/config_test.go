package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/qrstyle/internal/config"
	"github.com/systmms/qrstyle/internal/shape"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := config.Defaults()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.SafeMode)
	assert.Equal(t, shape.Square, cfg.Geometry.Shape)
}

func TestValidateRejectsBadScale(t *testing.T) {
	cfg := config.Defaults()
	cfg.Scale = 0
	err := cfg.Validate()
	require.Error(t, err)
	var ive *config.IntentValidationError
	require.ErrorAs(t, err, &ive)
	assert.Equal(t, "scale", ive.Field)
}

func TestValidateRejectsAggressiveWithLowMinIsland(t *testing.T) {
	cfg := config.Defaults()
	cfg.Geometry.Merge = shape.MergeAggressive
	cfg.Geometry.MinIslandModules = 1
	require.Error(t, cfg.Validate())
}

func TestFreezeReturnsIndependentCopy(t *testing.T) {
	cfg := config.Defaults()
	frozen := cfg.Freeze()
	assert.True(t, frozen.IsFrozen())
	assert.False(t, cfg.IsFrozen())

	cfg.Scale = 99
	assert.NotEqual(t, cfg.Scale, frozen.Scale)
}

func TestFromFlatMapLegacyKeys(t *testing.T) {
	cfg, err := config.FromFlatMap(map[string]any{
		"module_shape": "circle",
		"fg_color":     "#111111",
		"quiet_zone":   6,
	})
	require.NoError(t, err)
	assert.Equal(t, shape.Circle, cfg.Geometry.Shape)
	assert.Equal(t, "#111111", cfg.Palette.FG)
	assert.Equal(t, 6, cfg.Border)
}

func TestFromFlatMapConflict(t *testing.T) {
	_, err := config.FromFlatMap(map[string]any{
		"module_shape":   "circle",
		"geometry.shape": "square",
	})
	require.ErrorIs(t, err, config.ErrConfigConflict)
}
