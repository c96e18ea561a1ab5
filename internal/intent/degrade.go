package intent

import "github.com/systmms/qrstyle/internal/shape"

// shapeFallback maps a requested-but-unregistered shape name to the nearest
// registered Kind, per spec.md §4.8's "requested shape not in the registry
// -> pick nearest supported, warn" degradation rule. Declared as plain data
// so new fallback entries are additive — no code path needs to change to
// add one.
var shapeFallback = map[shape.Kind]shape.Kind{
	shape.Kind("rounded-square"): shape.Rounded,
	shape.Kind("pill"):           shape.Rounded,
	shape.Kind("oval"):           shape.Circle,
	shape.Kind("blob"):           shape.Squircle,
	shape.Kind("arrow"):          shape.Triangle,
	shape.Kind("plus"):           shape.Cross,
	shape.Kind("gem"):            shape.Diamond,
	shape.Kind("flower"):         shape.Star,
	shape.Kind("joined"):         shape.Connected,
	shape.Kind("joined-extra"):   shape.ConnectedExtraRounded,
	shape.Kind("joined-classy"):  shape.ConnectedClassy,
}
