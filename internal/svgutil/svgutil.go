// Package svgutil provides the low-level SVG path-fragment vocabulary every
// shape renderer in internal/shape composes from. The one-path-per-module
// idiom is grounded on nayuki-QR-Code-generator's examples/demo.go
// toSvgString, which emits a single <path> built from "M x,y h1 v1 h-1 z"
// subpaths rather than one <rect> per module; uSwapExchange-zero/qr.go and
// dfbb-im2code/internal/channel/whatsapp/qr.go independently corroborate the
// same square-subpath idiom.
package svgutil

import (
	"fmt"
	"strings"
)

// Fragment is a piece of SVG markup plus the CSS classes it should be
// wrapped or tagged with, built incrementally by a strings.Builder so shape
// renderers never hand-concatenate strings themselves.
type Fragment struct {
	b       strings.Builder
	Classes []string
	ID      string
}

// NewFragment starts an empty fragment with the given CSS classes.
func NewFragment(classes ...string) *Fragment {
	return &Fragment{Classes: classes}
}

// WriteString appends raw markup to the fragment.
func (f *Fragment) WriteString(s string) *Fragment {
	f.b.WriteString(s)
	return f
}

// String returns the accumulated markup.
func (f *Fragment) String() string {
	return f.b.String()
}

// Rect formats a plain axis-aligned rectangle path command, unit square or
// otherwise, the teacher's base case: "Mx,yh{w}v{h}h{-w}z".
func Rect(x, y, w, h float64) string {
	return fmt.Sprintf("M%s,%sh%sv%sh%sz", fnum(x), fnum(y), fnum(w), fnum(h), fnum(-w))
}

// RoundedRectPath formats a rounded-rectangle path of the given corner
// radius (in the same units as w/h), clamped to half the shorter side.
func RoundedRectPath(x, y, w, h, radius float64) string {
	r := radius
	if max := minF(w, h) / 2; r > max {
		r = max
	}
	if r <= 0 {
		return Rect(x, y, w, h)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M%s,%s", fnum(x+r), fnum(y))
	fmt.Fprintf(&b, "h%s", fnum(w-2*r))
	fmt.Fprintf(&b, "a%s,%s 0 0 1 %s,%s", fnum(r), fnum(r), fnum(r), fnum(r))
	fmt.Fprintf(&b, "v%s", fnum(h-2*r))
	fmt.Fprintf(&b, "a%s,%s 0 0 1 %s,%s", fnum(r), fnum(r), fnum(-r), fnum(r))
	fmt.Fprintf(&b, "h%s", fnum(-(w - 2*r)))
	fmt.Fprintf(&b, "a%s,%s 0 0 1 %s,%s", fnum(r), fnum(r), fnum(-r), fnum(-r))
	fmt.Fprintf(&b, "v%s", fnum(-(h - 2*r)))
	fmt.Fprintf(&b, "a%s,%s 0 0 1 %s,%s z", fnum(r), fnum(r), fnum(r), fnum(-r))
	return b.String()
}

// ArcPath formats a single circular-arc path *command*, from the pen's
// current position to (x2,y2), with the given radius and sweep flag. It
// has no move-to of its own: callers position the pen first (MoveTo, or a
// preceding "L"/"h"/"v"), then splice this in, the same way RoundedRectPath
// composes "h"/"v"/"a" segments one after another. The Connected shape
// family uses this for the rounded free end of a line-end cell and the one
// free corner of a corner-join cell.
func ArcPath(x2, y2, radius float64, sweep int) string {
	return fmt.Sprintf("A%s,%s 0 0 %d %s,%s", fnum(radius), fnum(radius), sweep, fnum(x2), fnum(y2))
}

// CirclePath formats a full circle of the given radius centered at (cx, cy)
// as two arcs (a single SVG arc command cannot describe a full circle).
func CirclePath(cx, cy, r float64) string {
	return fmt.Sprintf("M%s,%sm%s,0a%s,%s 0 1 0 %s,0a%s,%s 0 1 0 %s,0z",
		fnum(cx), fnum(cy), fnum(-r), fnum(r), fnum(r), fnum(2*r), fnum(r), fnum(r), fnum(-2*r))
}

// MoveTo formats a bare move-to command, the start of any path fragment.
func MoveTo(x, y float64) string {
	return fmt.Sprintf("M%s,%s", fnum(x), fnum(y))
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// FormatNum formats a float with the minimum digits needed, trimming
// trailing zeros, so repeated renders of the same input are byte-identical
// without locale-dependent formatting surprises. Exposed for callers (e.g.
// shape renderers) building path fragments outside the helpers above.
func FormatNum(v float64) string { return fnum(v) }

// fnum formats a float with the minimum digits needed, trimming trailing
// zeros, so repeated renders of the same input are byte-identical without
// locale-dependent formatting surprises.
func fnum(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-0" {
		return "0"
	}
	return s
}
