// Package shape is the renderer registry: a closed set of module shapes,
// each a pure function from a cell rectangle and context to an SVG
// fragment. The registry itself is built once at init() and never mutated
// afterward, matching spec.md §9's "registry owned by the pipeline, no
// reflective lookup, no runtime plugin registration" redesign guidance.
package shape

import (
	"fmt"

	"github.com/systmms/qrstyle/internal/cluster"
	"github.com/systmms/qrstyle/internal/matrix"
	"github.com/systmms/qrstyle/internal/svgutil"
	"github.com/systmms/qrstyle/internal/topology"
)

// Kind is a closed enum of module shapes.
type Kind string

const (
	Square                 Kind = "square"
	Circle                 Kind = "circle"
	Dot                    Kind = "dot"
	Diamond                Kind = "diamond"
	Star                   Kind = "star"
	Triangle               Kind = "triangle"
	Hexagon                Kind = "hexagon"
	Cross                  Kind = "cross"
	Rounded                Kind = "rounded"
	Squircle               Kind = "squircle"
	Connected              Kind = "connected"
	ConnectedExtraRounded  Kind = "connected-extra-rounded"
	ConnectedClassy        Kind = "connected-classy"
	ConnectedClassyRounded Kind = "connected-classy-rounded"
)

// MergeStrategy is carried to renderers in Context.Merge; when it is not
// MergeNone, internal/render also computes clusters and sets
// Context.Cluster. The built-in renderers read neither field: the Connected
// family joins a cell to its dark neighbors from Context.Neighborhood alone,
// so soft and aggressive produce the same output as none.
type MergeStrategy string

const (
	MergeNone       MergeStrategy = "none"
	MergeSoft       MergeStrategy = "soft"
	MergeAggressive MergeStrategy = "aggressive"
)

// TriangleDirection is the orientation parameter for the Triangle shape.
type TriangleDirection string

const (
	TriangleUp    TriangleDirection = "up"
	TriangleDown  TriangleDirection = "down"
	TriangleLeft  TriangleDirection = "left"
	TriangleRight TriangleDirection = "right"
)

// Params is the discriminated union of per-shape parameters. Only the
// fields matching Kind are meaningful; Params.ValidateFor (called from
// internal/config's Config.Validate) rejects bad values before a Context ever
// reaches Dispatch, per spec.md §4.4's "should be impossible post-
// validation" contract.
type Params struct {
	StarPoints      int
	StarInnerRatio  float64
	TriangleDir     TriangleDirection
	CrossThickness  float64
	CrossSharp      bool
	RoundedRadius   float64
	SquircleRadius  float64
}

// ValidateFor checks that p carries sane values for the sub-struct Kind k
// actually uses, per spec.md §4.7 ("per-field constraints and a
// discriminated union on shape"). Kinds with no parameters (Square, Circle,
// Dot, Diamond, Hexagon, the Connected family) always pass.
func (p Params) ValidateFor(k Kind) error {
	switch k {
	case Star:
		if p.StarPoints < 3 {
			return &ShapeParamError{Kind: k, Reason: "star_points must be >= 3"}
		}
		if p.StarInnerRatio <= 0 || p.StarInnerRatio >= 1 {
			return &ShapeParamError{Kind: k, Reason: "inner_ratio must be in (0,1)"}
		}
	case Triangle:
		switch p.TriangleDir {
		case "", TriangleUp, TriangleDown, TriangleLeft, TriangleRight:
		default:
			return &ShapeParamError{Kind: k, Reason: "unknown direction"}
		}
	case Cross:
		if p.CrossThickness <= 0 || p.CrossThickness >= 1 {
			return &ShapeParamError{Kind: k, Reason: "thickness must be in (0,1)"}
		}
	case Rounded:
		if p.RoundedRadius < 0 {
			return &ShapeParamError{Kind: k, Reason: "radius must be >= 0"}
		}
	case Squircle:
		if p.SquircleRadius <= 0 || p.SquircleRadius > 0.5 {
			return &ShapeParamError{Kind: k, Reason: "radius must be in (0,0.5]"}
		}
	}
	return nil
}

// Rect is the cell rectangle a Renderer paints into, in user (SVG) units.
type Rect struct {
	X, Y, W, H float64
}

// Context carries everything a Renderer needs beyond the bare rectangle:
// the cell's classified kind, its neighborhood, the cluster it belongs to
// (nil unless a cluster-aware merge strategy requested extraction), the
// validated shape parameters, and the requested merge strategy.
type Context struct {
	Kind         matrix.CellKind
	Neighborhood topology.Neighborhood
	Cluster      *cluster.Cluster
	Params       Params
	Merge        MergeStrategy
}

// Renderer paints one cell (or, for cluster-aware shapes, contributes one
// cell's portion of a cluster path) into an SVG fragment.
type Renderer func(rect Rect, ctx Context) (*svgutil.Fragment, error)

// ShapeParamError reports that ctx.Params violated the contract for Kind.
// Per spec.md §4.4/§7 this should be unreachable post-validation; it is an
// InternalInconsistency at the call site, not a recoverable warning.
type ShapeParamError struct {
	Kind   Kind
	Reason string
}

func (e *ShapeParamError) Error() string {
	return fmt.Sprintf("shape: invalid parameters for %q: %s", e.Kind, e.Reason)
}

// Registry is the read-only, built-once-at-init mapping of Kind to Renderer.
type Registry struct {
	renderers map[Kind]Renderer
}

var builtin *Registry

func init() {
	builtin = &Registry{renderers: map[Kind]Renderer{
		Square:                 renderSquare,
		Circle:                 renderCircle,
		Dot:                    renderDot,
		Diamond:                renderDiamond,
		Star:                   renderStar,
		Triangle:               renderTriangle,
		Hexagon:                renderHexagon,
		Cross:                  renderCross,
		Rounded:                renderRounded,
		Squircle:               renderSquircle,
		Connected:              renderConnected,
		ConnectedExtraRounded:  renderConnectedExtraRounded,
		ConnectedClassy:        renderConnectedClassy,
		ConnectedClassyRounded: renderConnectedClassyRounded,
	}}
}

// NewRegistry returns the one built-in, read-only registry.
func NewRegistry() *Registry { return builtin }

// Kinds returns every registered Kind, sorted in declaration order, for
// Capabilities() to enumerate.
func (r *Registry) Kinds() []Kind {
	return []Kind{
		Square, Circle, Dot, Diamond, Star, Triangle, Hexagon, Cross,
		Rounded, Squircle, Connected, ConnectedExtraRounded,
		ConnectedClassy, ConnectedClassyRounded,
	}
}

// Dispatch renders one cell with the Renderer registered for kind.
func (r *Registry) Dispatch(kind Kind, rect Rect, ctx Context) (*svgutil.Fragment, error) {
	fn, ok := r.renderers[kind]
	if !ok {
		return nil, &ShapeParamError{Kind: kind, Reason: "no renderer registered for this kind"}
	}
	return fn(rect, ctx)
}

// SafeOverrideKinds is the set of CellKinds that safe_mode forces to Square
// regardless of geometry.shape, per spec.md §4.4 step 1.
func SafeOverrideKinds() []matrix.CellKind {
	return []matrix.CellKind{
		matrix.CellFinderOuter, matrix.CellFinderInner, matrix.CellSeparator,
		matrix.CellTimingH, matrix.CellTimingV,
		matrix.CellAlignmentOuter, matrix.CellAlignmentInner,
		matrix.CellFormatInfo, matrix.CellVersionInfo,
	}
}

// IsSafeOverrideKind reports whether k is in SafeOverrideKinds().
func IsSafeOverrideKind(k matrix.CellKind) bool {
	return k.IsFunction()
}
