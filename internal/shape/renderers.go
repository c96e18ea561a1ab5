package shape

import (
	"fmt"
	"math"
	"strings"

	"github.com/systmms/qrstyle/internal/svgutil"
	"github.com/systmms/qrstyle/internal/topology"
)

func center(rect Rect) (cx, cy float64) {
	return rect.X + rect.W/2, rect.Y + rect.H/2
}

func renderSquare(rect Rect, _ Context) (*svgutil.Fragment, error) {
	f := svgutil.NewFragment("qr-module")
	f.WriteString(svgutil.Rect(rect.X, rect.Y, rect.W, rect.H))
	return f, nil
}

func renderCircle(rect Rect, _ Context) (*svgutil.Fragment, error) {
	cx, cy := center(rect)
	r := 0.45 * math.Min(rect.W, rect.H)
	f := svgutil.NewFragment("qr-module")
	f.WriteString(svgutil.CirclePath(cx, cy, r))
	return f, nil
}

func renderDot(rect Rect, _ Context) (*svgutil.Fragment, error) {
	cx, cy := center(rect)
	r := 0.3 * math.Min(rect.W, rect.H)
	f := svgutil.NewFragment("qr-module")
	f.WriteString(svgutil.CirclePath(cx, cy, r))
	return f, nil
}

func renderDiamond(rect Rect, _ Context) (*svgutil.Fragment, error) {
	cx, cy := center(rect)
	hw := rect.W / 2
	f := svgutil.NewFragment("qr-module")
	f.WriteString(svgutil.MoveTo(cx, rect.Y))
	f.WriteString("L" + fmtPt(cx+hw, cy) + "L" + fmtPt(cx, rect.Y+rect.H) + "L" + fmtPt(cx-hw, cy) + "z")
	return f, nil
}

func renderStar(rect Rect, ctx Context) (*svgutil.Fragment, error) {
	points := ctx.Params.StarPoints
	if points < 3 {
		return nil, &ShapeParamError{Kind: Star, Reason: "star_points must be >= 3"}
	}
	innerRatio := ctx.Params.StarInnerRatio
	if innerRatio <= 0 || innerRatio >= 1 {
		return nil, &ShapeParamError{Kind: Star, Reason: "inner_ratio must be in (0,1)"}
	}
	cx, cy := center(rect)
	outerR := math.Min(rect.W, rect.H) / 2
	innerR := outerR * innerRatio

	f := svgutil.NewFragment("qr-module")
	n := points * 2
	for i := 0; i < n; i++ {
		angle := math.Pi/2 + float64(i)*math.Pi/float64(points)
		r := outerR
		if i%2 == 1 {
			r = innerR
		}
		x := cx + r*math.Cos(angle)
		y := cy - r*math.Sin(angle)
		if i == 0 {
			f.WriteString(svgutil.MoveTo(x, y))
		} else {
			f.WriteString("L" + fmtPt(x, y))
		}
	}
	f.WriteString("z")
	return f, nil
}

func renderTriangle(rect Rect, ctx Context) (*svgutil.Fragment, error) {
	dir := ctx.Params.TriangleDir
	if dir == "" {
		dir = TriangleUp
	}
	f := svgutil.NewFragment("qr-module")
	x, y, w, h := rect.X, rect.Y, rect.W, rect.H
	switch dir {
	case TriangleUp:
		f.WriteString(svgutil.MoveTo(x+w/2, y))
		f.WriteString("L" + fmtPt(x+w, y+h) + "L" + fmtPt(x, y+h) + "z")
	case TriangleDown:
		f.WriteString(svgutil.MoveTo(x, y))
		f.WriteString("L" + fmtPt(x+w, y) + "L" + fmtPt(x+w/2, y+h) + "z")
	case TriangleLeft:
		f.WriteString(svgutil.MoveTo(x+w, y))
		f.WriteString("L" + fmtPt(x+w, y+h) + "L" + fmtPt(x, y+h/2) + "z")
	case TriangleRight:
		f.WriteString(svgutil.MoveTo(x, y))
		f.WriteString("L" + fmtPt(x, y+h) + "L" + fmtPt(x+w, y+h/2) + "z")
	default:
		return nil, &ShapeParamError{Kind: Triangle, Reason: "unknown direction " + string(dir)}
	}
	return f, nil
}

func renderHexagon(rect Rect, _ Context) (*svgutil.Fragment, error) {
	cx, cy := center(rect)
	r := math.Min(rect.W, rect.H) / 2
	f := svgutil.NewFragment("qr-module")
	for i := 0; i < 6; i++ {
		angle := math.Pi/6 + float64(i)*math.Pi/3
		x := cx + r*math.Cos(angle)
		y := cy - r*math.Sin(angle)
		if i == 0 {
			f.WriteString(svgutil.MoveTo(x, y))
		} else {
			f.WriteString("L" + fmtPt(x, y))
		}
	}
	f.WriteString("z")
	return f, nil
}

func renderCross(rect Rect, ctx Context) (*svgutil.Fragment, error) {
	thickness := ctx.Params.CrossThickness
	if thickness <= 0 || thickness >= 1 {
		return nil, &ShapeParamError{Kind: Cross, Reason: "thickness must be in (0,1)"}
	}
	y, w, h := rect.Y, rect.W, rect.H
	tw, th := w*thickness, h*thickness
	cx, cy := center(rect)
	f := svgutil.NewFragment("qr-module")
	f.WriteString(svgutil.MoveTo(cx-tw/2, y))
	f.WriteString("h" + fmtNum(tw) + "v" + fmtNum((h-th)/2))
	f.WriteString("h" + fmtNum((w-tw)/2) + "v" + fmtNum(th))
	f.WriteString("h" + fmtNum(-(w-tw)/2) + "v" + fmtNum((h-th)/2))
	f.WriteString("h" + fmtNum(-tw) + "v" + fmtNum(-(h-th)/2))
	f.WriteString("h" + fmtNum(-(w-tw)/2) + "v" + fmtNum(-th))
	f.WriteString("h" + fmtNum((w-tw)/2) + "z")
	_ = cy
	return f, nil
}

func renderRounded(rect Rect, ctx Context) (*svgutil.Fragment, error) {
	radius := ctx.Params.RoundedRadius
	if radius < 0 {
		return nil, &ShapeParamError{Kind: Rounded, Reason: "radius must be >= 0"}
	}
	f := svgutil.NewFragment("qr-module")
	f.WriteString(svgutil.RoundedRectPath(rect.X, rect.Y, rect.W, rect.H, radius*math.Min(rect.W, rect.H)))
	return f, nil
}

func renderSquircle(rect Rect, ctx Context) (*svgutil.Fragment, error) {
	radius := ctx.Params.SquircleRadius
	if radius <= 0 || radius > 0.5 {
		return nil, &ShapeParamError{Kind: Squircle, Reason: "radius must be in (0,0.5]"}
	}
	f := svgutil.NewFragment("qr-module")
	f.WriteString(svgutil.RoundedRectPath(rect.X, rect.Y, rect.W, rect.H, radius*math.Min(rect.W, rect.H)*1.4))
	return f, nil
}

// renderConnected and its variants consult ctx.Neighborhood to decide
// end-cap vs interior vs boundary-join geometry so adjacent same-cluster
// cells appear continuous. All four variants share the same cardinal-degree
// dispatch; they differ only in corner radius, matching spec.md §4.4's
// requirement that "Connected" renderers be deterministic functions of cell
// + neighborhood alone (no randomness, no render-order dependence).
func renderConnected(rect Rect, ctx Context) (*svgutil.Fragment, error) {
	return renderConnectedWithRadius(rect, ctx, 0.15)
}

func renderConnectedExtraRounded(rect Rect, ctx Context) (*svgutil.Fragment, error) {
	return renderConnectedWithRadius(rect, ctx, 0.35)
}

func renderConnectedClassy(rect Rect, ctx Context) (*svgutil.Fragment, error) {
	return renderConnectedWithRadius(rect, ctx, 0.05)
}

func renderConnectedClassyRounded(rect Rect, ctx Context) (*svgutil.Fragment, error) {
	return renderConnectedWithRadius(rect, ctx, 0.25)
}

func renderConnectedWithRadius(rect Rect, ctx Context, baseRadius float64) (*svgutil.Fragment, error) {
	nb := ctx.Neighborhood
	f := svgutil.NewFragment("qr-module", "qr-connected")

	switch nb.Cardinal {
	case 0:
		// Isolated cell, or only diagonal neighbors: render as a rounded
		// jewel so it reads cleanly on its own.
		f.WriteString(svgutil.RoundedRectPath(rect.X, rect.Y, rect.W, rect.H, baseRadius*2*math.Min(rect.W, rect.H)))
	case 1:
		// Line end: flat where it joins the cluster, a rounded cap on
		// the free edge.
		f.WriteString(lineEndPath(rect, nb, baseRadius))
	case 2:
		// Through cell or corner join.
		f.WriteString(throughOrCornerPath(rect, nb, baseRadius))
	default:
		// 3 or 4 cardinal neighbors: interior cell, full rectangle.
		f.WriteString(svgutil.Rect(rect.X, rect.Y, rect.W, rect.H))
	}
	return f, nil
}

// lineEndPath rounds a cell with exactly one cardinal neighbor into a
// capsule-like end: the edge touching the neighbor stays flat and square,
// the opposite edge is capped with a single semicircular arc.
// radius is unused here: the cap radius is fixed by the cell's own span
// (half its width or height), not the family's baseRadius knob.
func lineEndPath(rect Rect, nb topology.Neighborhood, radius float64) string {
	x, y, w, h := rect.X, rect.Y, rect.W, rect.H
	var b strings.Builder
	switch nb.Flow {
	case topology.DirS:
		// Neighbor below: flat bottom, rounded cap on top.
		r := w / 2
		fmt.Fprintf(&b, "M%s,%s", fmtNum(x), fmtNum(y+r))
		b.WriteString(svgutil.ArcPath(x+w, y+r, r, 1))
		fmt.Fprintf(&b, "L%s,%sL%s,%sz", fmtNum(x+w), fmtNum(y+h), fmtNum(x), fmtNum(y+h))
	case topology.DirW:
		// Neighbor to the left: flat left edge, rounded cap on the right.
		r := h / 2
		fmt.Fprintf(&b, "M%s,%s", fmtNum(x), fmtNum(y))
		fmt.Fprintf(&b, "L%s,%s", fmtNum(x+w-r), fmtNum(y))
		b.WriteString(svgutil.ArcPath(x+w-r, y+h, r, 1))
		fmt.Fprintf(&b, "L%s,%sz", fmtNum(x), fmtNum(y+h))
	case topology.DirE:
		// Neighbor to the right: flat right edge, rounded cap on the left.
		r := h / 2
		fmt.Fprintf(&b, "M%s,%s", fmtNum(x+w), fmtNum(y))
		fmt.Fprintf(&b, "L%s,%s", fmtNum(x+r), fmtNum(y))
		b.WriteString(svgutil.ArcPath(x+r, y+h, r, 0))
		fmt.Fprintf(&b, "L%s,%sz", fmtNum(x+w), fmtNum(y+h))
	default: // topology.DirN, or no cardinal neighbor at all
		// Neighbor above (or none): flat top, rounded cap on the bottom.
		r := w / 2
		fmt.Fprintf(&b, "M%s,%s", fmtNum(x), fmtNum(y))
		fmt.Fprintf(&b, "L%s,%s", fmtNum(x+w), fmtNum(y))
		fmt.Fprintf(&b, "L%s,%s", fmtNum(x+w), fmtNum(y+h-r))
		b.WriteString(svgutil.ArcPath(x, y+h-r, r, 1))
		b.WriteString("z")
	}
	return b.String()
}

// throughOrCornerPath handles a cell with exactly two cardinal neighbors:
// a straight-through run (opposite neighbors) renders as a plain rectangle,
// a corner turn (adjacent neighbors) rounds the single free corner with one
// quarter-circle arc.
func throughOrCornerPath(rect Rect, nb topology.Neighborhood, radius float64) string {
	x, y, w, h := rect.X, rect.Y, rect.W, rect.H
	n, s := nb.Has(topology.DirN), nb.Has(topology.DirS)
	e, w2 := nb.Has(topology.DirE), nb.Has(topology.DirW)

	if (n && s) || (e && w2) {
		return svgutil.Rect(x, y, w, h)
	}

	r := radius * 2 * math.Min(w, h)
	var b strings.Builder
	switch {
	case n && e:
		// Free corner: bottom-left.
		fmt.Fprintf(&b, "M%s,%sL%s,%sL%s,%sL%s,%s", fmtNum(x), fmtNum(y), fmtNum(x+w), fmtNum(y), fmtNum(x+w), fmtNum(y+h), fmtNum(x+r), fmtNum(y+h))
		b.WriteString(svgutil.ArcPath(x, y+h-r, r, 1))
		fmt.Fprintf(&b, "L%s,%sz", fmtNum(x), fmtNum(y))
	case e && s:
		// Free corner: top-left.
		fmt.Fprintf(&b, "M%s,%s", fmtNum(x), fmtNum(y+r))
		b.WriteString(svgutil.ArcPath(x+r, y, r, 1))
		fmt.Fprintf(&b, "L%s,%sL%s,%sL%s,%sz", fmtNum(x+w), fmtNum(y), fmtNum(x+w), fmtNum(y+h), fmtNum(x), fmtNum(y+h))
	case s && w2:
		// Free corner: top-right.
		fmt.Fprintf(&b, "M%s,%sL%s,%s", fmtNum(x), fmtNum(y), fmtNum(x+w-r), fmtNum(y))
		b.WriteString(svgutil.ArcPath(x+w, y+r, r, 1))
		fmt.Fprintf(&b, "L%s,%sL%s,%sz", fmtNum(x+w), fmtNum(y+h), fmtNum(x), fmtNum(y+h))
	case w2 && n:
		// Free corner: bottom-right.
		fmt.Fprintf(&b, "M%s,%sL%s,%sL%s,%s", fmtNum(x), fmtNum(y), fmtNum(x+w), fmtNum(y), fmtNum(x+w), fmtNum(y+h-r))
		b.WriteString(svgutil.ArcPath(x+w-r, y+h, r, 1))
		fmt.Fprintf(&b, "L%s,%sz", fmtNum(x), fmtNum(y+h))
	default:
		return svgutil.Rect(x, y, w, h)
	}
	return b.String()
}

func fmtPt(x, y float64) string {
	return svgutil.FormatNum(x) + "," + svgutil.FormatNum(y)
}

func fmtNum(v float64) string {
	return svgutil.FormatNum(v)
}
