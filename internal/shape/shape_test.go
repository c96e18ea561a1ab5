package shape_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/qrstyle/internal/shape"
)

func TestDispatchSquare(t *testing.T) {
	reg := shape.NewRegistry()
	frag, err := reg.Dispatch(shape.Square, shape.Rect{X: 0, Y: 0, W: 10, H: 10}, shape.Context{})
	require.NoError(t, err)
	assert.Contains(t, frag.String(), "M0,0h10v10h-10z")
}

func TestDispatchUnknownKind(t *testing.T) {
	reg := shape.NewRegistry()
	_, err := reg.Dispatch(shape.Kind("nonexistent"), shape.Rect{W: 1, H: 1}, shape.Context{})
	require.Error(t, err)
	var spe *shape.ShapeParamError
	require.ErrorAs(t, err, &spe)
}

func TestStarRejectsBadParams(t *testing.T) {
	reg := shape.NewRegistry()
	_, err := reg.Dispatch(shape.Star, shape.Rect{W: 10, H: 10}, shape.Context{
		Params: shape.Params{StarPoints: 2, StarInnerRatio: 0.5},
	})
	require.Error(t, err)

	frag, err := reg.Dispatch(shape.Star, shape.Rect{W: 10, H: 10}, shape.Context{
		Params: shape.Params{StarPoints: 5, StarInnerRatio: 0.5},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(frag.String(), "M"))
}

func TestConnectedShapesNeverError(t *testing.T) {
	reg := shape.NewRegistry()
	for _, k := range []shape.Kind{
		shape.Connected, shape.ConnectedExtraRounded,
		shape.ConnectedClassy, shape.ConnectedClassyRounded,
	} {
		_, err := reg.Dispatch(k, shape.Rect{W: 10, H: 10}, shape.Context{})
		assert.NoError(t, err, "kind %s", k)
	}
}

func TestKindsEnumeratesAllFourteen(t *testing.T) {
	reg := shape.NewRegistry()
	assert.Len(t, reg.Kinds(), 14)
}
