package qrstyle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/qrstyle"
	"github.com/systmms/qrstyle/internal/config"
	"github.com/systmms/qrstyle/internal/matrix"
	"github.com/systmms/qrstyle/internal/qrencode"
	"github.com/systmms/qrstyle/internal/qrencode/qrcodeecc"
	"github.com/systmms/qrstyle/internal/shape"
)

func helloWorldMatrix(t *testing.T) *matrix.Matrix {
	t.Helper()
	qr, err := qrencode.EncodeText("Hello World", qrcodeecc.Medium)
	require.NoError(t, err)
	m, err := matrix.Classify(qr.DarkModules(), int(qr.Version().Value()), matrix.ECCMedium)
	require.NoError(t, err)
	return m
}

// TestRenderS1PlainSquareSafeMode exercises concrete scenario S1 of spec.md §8.
func TestRenderS1PlainSquareSafeMode(t *testing.T) {
	m := helloWorldMatrix(t)
	cfg := config.Defaults()
	cfg.Geometry.Shape = shape.Square
	cfg.Scale = 10
	cfg.Border = 4

	result, err := qrstyle.Render(m, cfg)
	require.NoError(t, err)
	assert.Contains(t, string(result.SVG), `viewBox="0 0 290 290"`)
}

func TestRenderS2CircleSafeMode(t *testing.T) {
	m := helloWorldMatrix(t)
	cfg := config.Defaults()
	cfg.Geometry.Shape = shape.Circle
	cfg.SafeMode = true

	result, err := qrstyle.Render(m, cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, result.SVG)
}

func TestRenderDeterministic(t *testing.T) {
	m := helloWorldMatrix(t)
	cfg := config.Defaults()

	r1, err := qrstyle.Render(m, cfg)
	require.NoError(t, err)
	r2, err := qrstyle.Render(m, cfg)
	require.NoError(t, err)
	assert.Equal(t, r1.SVG, r2.SVG)
}

func TestRenderWithIntentsEndToEnd(t *testing.T) {
	result, err := qrstyle.RenderWithIntents(
		qrstyle.PayloadSpec{Text: "https://example.com", ErrorCorrectionHint: qrstyle.ECCQuartile},
		qrstyle.Intent{},
	)
	require.NoError(t, err)
	assert.NotEmpty(t, result.SVG)
}

func TestListCapabilitiesEnumeratesShapes(t *testing.T) {
	caps := qrstyle.ListCapabilities()
	assert.Len(t, caps.Shapes, 14)
	assert.NotEmpty(t, caps.FrameShapes)
	assert.NotEmpty(t, caps.ClipModes)
}

func TestRenderRejectsInvalidConfig(t *testing.T) {
	m := helloWorldMatrix(t)
	cfg := config.Defaults()
	cfg.Scale = 0

	_, err := qrstyle.Render(m, cfg)
	require.Error(t, err)
}
