package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/qrstyle/internal/config"
	"github.com/systmms/qrstyle/internal/matrix"
	"github.com/systmms/qrstyle/internal/qrencode"
	"github.com/systmms/qrstyle/internal/qrencode/qrcodeecc"
	"github.com/systmms/qrstyle/internal/render"
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

func TestEmitDeterministic(t *testing.T) {
	m := helloWorldMatrix(t)
	cfg := config.Defaults().Freeze()

	svg1, report1, err := render.Emit(m, cfg)
	require.NoError(t, err)
	svg2, _, err := render.Emit(m, cfg)
	require.NoError(t, err)

	assert.Equal(t, svg1, svg2)
	assert.Equal(t, 1.0, report1.ScannabilityScore)
}

func TestEmitViewBoxMatchesSideFormula(t *testing.T) {
	m := helloWorldMatrix(t)
	cfg := config.Defaults()
	cfg.Scale = 10
	cfg.Border = 4
	frozen := cfg.Freeze()

	svg, _, err := render.Emit(m, frozen)
	require.NoError(t, err)
	side := (m.Side() + 2*4) * 10
	assert.Contains(t, string(svg), strings_Sprintf(side))
}

func strings_Sprintf(side int) string {
	return `viewBox="0 0 ` + itoa(side) + ` ` + itoa(side) + `"`
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestEmitSafeModeRendersFinderAsSquare(t *testing.T) {
	m := helloWorldMatrix(t)
	cfg := config.Defaults()
	cfg.Geometry.Shape = shape.Circle
	cfg.SafeMode = true
	frozen := cfg.Freeze()

	svg, _, err := render.Emit(m, frozen)
	require.NoError(t, err)
	out := string(svg)
	assert.True(t, strings.Contains(out, `class="qr-module finder"`))

	start := strings.Index(out, `<g class="qr-finder">`)
	require.GreaterOrEqual(t, start, 0)
	finderGroup := out[start:]
	finderGroup = finderGroup[:strings.Index(finderGroup, `</g>`)]
	assert.Contains(t, finderGroup, "h10v10h-10z") // square module paths at scale 10
	assert.NotContains(t, finderGroup, "a4.5,4.5") // circle arcs (radius 0.45*scale)
}

func TestEmitCenterpieceKnockoutOmitsReservedModules(t *testing.T) {
	m := helloWorldMatrix(t)
	cfg := config.Defaults()
	cfg.Centerpiece.Enabled = true
	cfg.Centerpiece.SizeFraction = 0.1
	cfg.Accessibility.EmitElementIDs = true
	frozen := cfg.Freeze()

	svg, _, err := render.Emit(m, frozen)
	require.NoError(t, err)
	assert.Contains(t, string(svg), `qr-centerpiece`)

	// On the 21x21 matrix a 0.1 reserve spans rows/cols 9..11 around the center.
	for r := 9; r <= 11; r++ {
		for c := 9; c <= 11; c++ {
			assert.NotContains(t, string(svg), `id="qr-m-`+itoa(r)+`-`+itoa(c)+`"`)
		}
	}
}
