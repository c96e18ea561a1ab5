// Package geometry computes the frame clip/fade/scale plan and the
// centerpiece reserve-region plan described in spec.md §4.5. Both plans are
// pure functions of a handful of scalar parameters (never of internal/config
// directly, to keep this package free of a dependency on the config model it
// is consumed by) so internal/render can call them without either package
// importing the other.
package geometry

import (
	"fmt"
	"image"
	"math"

	"github.com/systmms/qrstyle/internal/matrix"
	"github.com/systmms/qrstyle/internal/svgutil"
)

// FrameShape is the closed set of outer-boundary shapes a frame can take.
type FrameShape string

const (
	FrameSquare      FrameShape = "square"
	FrameRoundedRect FrameShape = "rounded-rect"
	FrameCircle      FrameShape = "circle"
	FrameSquircle    FrameShape = "squircle"
	FrameCustom      FrameShape = "custom"
)

// ClipMode is how geometry outside the frame boundary is treated.
type ClipMode string

const (
	ClipNone  ClipMode = "none"
	ClipClip  ClipMode = "clip"
	ClipFade  ClipMode = "fade"
	ClipScale ClipMode = "scale"
)

// CenterpieceMode controls whether reserved modules are omitted or dimmed.
type CenterpieceMode string

const (
	Knockout CenterpieceMode = "knockout"
	Imprint  CenterpieceMode = "imprint"
)

// FrameConfig is the subset of the styling Config that PlanFrame needs.
type FrameConfig struct {
	Shape        FrameShape
	CornerRadius float64 // fraction of the shorter side, [0, 0.5]
	ClipMode     ClipMode
	CustomPath   string // used verbatim when Shape == FrameCustom
}

// FramePlan is the realized clip path / fade mask / per-cell scale function
// for one render, expressed in the same user-unit coordinate space the SVG
// emitter draws modules in.
type FramePlan struct {
	ClipPathID string
	ClipPathD  string
	FadeMaskID string             // "" unless ClipMode == ClipFade
	ScaleFn    func(r, c int) float64 // 1.0 unless ClipMode == ClipScale
	Warnings   []string
}

// PlanFrame computes the clip path (and, for fade/scale modes, the fade mask
// or scale function) covering an N-module grid plus its quiet zone, in a
// coordinate space where each module is `scale` user units wide.
func PlanFrame(cfg FrameConfig, n, border, scaleUnits int) (FramePlan, error) {
	side := float64((n+2*border)*scaleUnits)
	plan := FramePlan{ScaleFn: func(int, int) float64 { return 1.0 }}

	if cfg.Shape != FrameSquare && border < minBorderFor(cfg.Shape) {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf(
			"FRAME_CLEARANCE_ADJUSTED: %s frame requested with border=%d, minimum recommended is %d",
			cfg.Shape, border, minBorderFor(cfg.Shape)))
	}

	switch cfg.Shape {
	case FrameSquare, "":
		plan.ClipPathD = svgutil.Rect(0, 0, side, side)
	case FrameRoundedRect:
		r := cfg.CornerRadius
		if r < 0 || r > 0.5 {
			return FramePlan{}, fmt.Errorf("geometry: frame.corner_radius %v out of range [0,0.5]", r)
		}
		plan.ClipPathD = svgutil.RoundedRectPath(0, 0, side, side, r*side)
	case FrameCircle:
		plan.ClipPathD = svgutil.CirclePath(side/2, side/2, side/2)
	case FrameSquircle:
		plan.ClipPathD = svgutil.RoundedRectPath(0, 0, side, side, side*0.3)
	case FrameCustom:
		if cfg.CustomPath == "" {
			return FramePlan{}, fmt.Errorf("geometry: frame.shape=custom requires a non-empty custom_path")
		}
		plan.ClipPathD = cfg.CustomPath
	default:
		return FramePlan{}, fmt.Errorf("geometry: unknown frame shape %q", cfg.Shape)
	}

	plan.ClipPathID = "frame-clip"

	switch cfg.ClipMode {
	case ClipFade:
		plan.FadeMaskID = "frame-fade"
		if border < 5 {
			plan.Warnings = append(plan.Warnings, "FADE_BORDER_THIN: border < 5 with clip_mode=fade")
		}
	case ClipScale:
		plan.ScaleFn = scaleFalloff(n, border, cfg.Shape)
	case ClipClip, ClipNone, "":
		// no extra state
	default:
		return FramePlan{}, fmt.Errorf("geometry: unknown clip mode %q", cfg.ClipMode)
	}

	return plan, nil
}

func minBorderFor(s FrameShape) int {
	switch s {
	case FrameCircle, FrameSquircle:
		return 2
	case FrameRoundedRect:
		return 1
	default:
		return 0
	}
}

// scaleFalloff returns a per-module scale factor that smoothsteps from 1.0
// in the interior down to a minimum near the frame boundary, for
// ClipMode == scale. The smoothstep curve is the chosen baseline per
// spec.md §9's "fade attenuation curve should be matched to the existing
// baseline" guidance — documented here so a future change is a visible diff.
func scaleFalloff(n, border int, shape FrameShape) func(r, c int) float64 {
	cx, cy := float64(n-1)/2, float64(n-1)/2
	maxDist := math.Hypot(cx, cy)
	return func(r, c int) float64 {
		if shape == FrameSquare || shape == "" {
			return 1.0
		}
		d := math.Hypot(float64(r)-cy, float64(c)-cx) / maxDist
		return 1.0 - 0.4*smoothstep(0.85, 1.0, d)
	}
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// CenterpieceConfig is the subset of the styling Config that PlanCenterpiece
// needs.
type CenterpieceConfig struct {
	Enabled       bool
	Shape         FrameShape // reuses the same closed shape vocabulary
	SizeFraction  float64    // [0, 0.5]
	OffsetX       float64    // [-0.5, 0.5]
	OffsetY       float64    // [-0.5, 0.5]
	MarginModules int
	Mode          CenterpieceMode
}

// CenterpiecePlan is the realized reserve region for one render.
type CenterpiecePlan struct {
	Enabled       bool
	Mode          CenterpieceMode
	Reserved      map[image.Point]bool
	ShapeFragment *svgutil.Fragment
}

// PlanCenterpiece computes the reserved-module set and the decorative shape
// fragment placed above it, in module coordinates. The ECC level argument is
// unused: PlanCenterpiece does not clamp to the ECC-indexed cap
// (internal/validate.Check owns clamping so the warning ends up on the
// report, not silently here) but returns an error if asked to reserve a
// region that would leave zero data capacity (size_fraction >= 1).
func PlanCenterpiece(cfg CenterpieceConfig, n int, _ matrix.ECCLevel) (CenterpiecePlan, error) {
	if !cfg.Enabled {
		return CenterpiecePlan{Enabled: false}, nil
	}
	if cfg.SizeFraction < 0 || cfg.SizeFraction >= 1 {
		return CenterpiecePlan{}, fmt.Errorf("geometry: centerpiece.size_fraction %v out of range [0,1)", cfg.SizeFraction)
	}
	if cfg.OffsetX < -0.5 || cfg.OffsetX > 0.5 || cfg.OffsetY < -0.5 || cfg.OffsetY > 0.5 {
		return CenterpiecePlan{}, fmt.Errorf("geometry: centerpiece offset out of range [-0.5,0.5]")
	}

	side := float64(n)
	half := cfg.SizeFraction * side / 2
	cx := side/2 + cfg.OffsetX*side
	cy := side/2 + cfg.OffsetY*side

	minR := int(math.Floor(cy - half - float64(cfg.MarginModules)))
	maxR := int(math.Ceil(cy + half + float64(cfg.MarginModules)))
	minC := int(math.Floor(cx - half - float64(cfg.MarginModules)))
	maxC := int(math.Ceil(cx + half + float64(cfg.MarginModules)))

	reserved := make(map[image.Point]bool)
	for r := minR; r <= maxR; r++ {
		for c := minC; c <= maxC; c++ {
			if r < 0 || r >= n || c < 0 || c >= n {
				continue
			}
			if withinShape(cfg.Shape, float64(c)+0.5, float64(r)+0.5, cx, cy, half+float64(cfg.MarginModules)) {
				reserved[image.Point{X: c, Y: r}] = true
			}
		}
	}

	frag := svgutil.NewFragment("qr-centerpiece")
	switch cfg.Shape {
	case FrameCircle:
		frag.WriteString(svgutil.CirclePath(cx, cy, half))
	default:
		frag.WriteString(svgutil.RoundedRectPath(cx-half, cy-half, half*2, half*2, half*0.2))
	}

	return CenterpiecePlan{
		Enabled:       true,
		Mode:          cfg.Mode,
		Reserved:      reserved,
		ShapeFragment: frag,
	}, nil
}

func withinShape(shape FrameShape, x, y, cx, cy, r float64) bool {
	switch shape {
	case FrameCircle:
		return math.Hypot(x-cx, y-cy) <= r
	default:
		return math.Abs(x-cx) <= r && math.Abs(y-cy) <= r
	}
}
