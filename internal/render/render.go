// Package render is the SVG Emitter (C6): it assembles the classified
// matrix, topology, cluster, geometry-plan, and shape-dispatch outputs of
// its sibling packages into one deterministic SVG document plus a
// RenderReport. Layer assembly and the one-path-per-module idiom are
// grounded on nayuki-QR-Code-generator's examples/demo.go toSvgString, and
// independently corroborated by uSwapExchange-zero/qr.go and
// dfbb-im2code/internal/channel/whatsapp/qr.go.
package render

import (
	"fmt"
	"hash/fnv"
	"image"
	"sort"
	"strings"

	"github.com/systmms/qrstyle/internal/cluster"
	"github.com/systmms/qrstyle/internal/config"
	"github.com/systmms/qrstyle/internal/geometry"
	"github.com/systmms/qrstyle/internal/matrix"
	"github.com/systmms/qrstyle/internal/shape"
	"github.com/systmms/qrstyle/internal/svgutil"
	"github.com/systmms/qrstyle/internal/topology"
)

// Severity classifies one Report entry. Mirrors internal/validate.Severity
// and internal/intent.Severity; kept independent so render does not need to
// import either just for a three-value enum.
type Severity string

const (
	Info     Severity = "info"
	Warning  Severity = "warning"
	Critical Severity = "critical"
)

// Finding is one warning or informational note attached to a render.
type Finding struct {
	Code     string
	Severity Severity
	Field    string
	Message  string
}

// Report is the RenderReport of spec.md §3: accumulated Findings plus a
// predicted scannability score.
type Report struct {
	Findings          []Finding
	ScannabilityScore float64 // heuristic in [0,1]; 1.0 = Emit itself recorded no warning or critical finding (findings added later via AddFindings do not lower it)
}

func (r *Report) add(code string, sev Severity, field, msg string) {
	r.Findings = append(r.Findings, Finding{Code: code, Severity: sev, Field: field, Message: msg})
}

// AddFindings appends already-converted Findings (for example from
// internal/validate or internal/intent reports) to r, preserving
// code/severity/field/message. It does not recompute ScannabilityScore.
func (r *Report) AddFindings(findings []Finding) {
	r.Findings = append(r.Findings, findings...)
}

func (r *Report) computeScore() {
	score := 1.0
	for _, f := range r.Findings {
		switch f.Severity {
		case Warning:
			score -= 0.05
		case Critical:
			score -= 0.25
		}
	}
	if score < 0 {
		score = 0
	}
	r.ScannabilityScore = score
}

// InternalInconsistencyError wraps a shape/geometry fault that should have
// been caught by C7/C9 validation, per spec.md §7.
type InternalInconsistencyError struct {
	Cause error
}

func (e *InternalInconsistencyError) Error() string {
	return fmt.Sprintf("render: internal inconsistency: %v", e.Cause)
}

func (e *InternalInconsistencyError) Unwrap() error { return e.Cause }

// Emit assembles the full SVG document for m under cfg. cfg must already be
// frozen (internal/validate.Check and internal/intent's degradation pass
// have both already run); Emit itself never mutates cfg.
func Emit(m *matrix.Matrix, cfg *config.Config) ([]byte, *Report, error) {
	report := &Report{}
	n := m.Side()
	scale := float64(cfg.Scale)
	border := cfg.Border
	side := (n + 2*border) * cfg.Scale

	topo := topology.Analyze(m)

	var clusters []cluster.Cluster
	clusterOf := map[image.Point]*cluster.Cluster{}
	if cfg.Geometry.Merge != shape.MergeNone {
		conn := cluster.Conn4
		if cfg.Geometry.Connectivity == 8 {
			conn = cluster.Conn8
		}
		// safe_mode forces function-pattern cells to render as plain
		// squares regardless of geometry.shape, so clustering restricts
		// itself to data cells in that mode; with safe_mode off, function
		// cells are eligible for merging like any other dark module.
		dataOnly := cfg.SafeMode
		found, err := cluster.Find(m, conn, dataOnly)
		if err != nil {
			return nil, report, &InternalInconsistencyError{Cause: err}
		}
		clusters = found
		for i := range clusters {
			cl := &clusters[i]
			if cl.Count < cfg.Geometry.MinIslandModules {
				continue
			}
			for _, cell := range cl.Cells {
				clusterOf[image.Point{X: cell.Col, Y: cell.Row}] = cl
			}
		}
	}

	framePlan, err := geometry.PlanFrame(cfg.Frame, n, border, cfg.Scale)
	if err != nil {
		return nil, report, err
	}
	for _, w := range framePlan.Warnings {
		report.add("FRAME_WARNING", Warning, "frame", w)
	}

	centerpiecePlan, err := geometry.PlanCenterpiece(cfg.Centerpiece, n, m.ECC)
	if err != nil {
		return nil, report, err
	}

	registry := shape.NewRegistry()

	var modulesByGroup = map[string]*strings.Builder{}
	groupOrder := []string{"finder", "timing", "alignment", "data"}
	for _, g := range groupOrder {
		modulesByGroup[g] = &strings.Builder{}
	}

	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if !m.Dark(r, c) {
				continue
			}
			kind := m.Kind(r, c)

			if centerpiecePlan.Enabled && centerpiecePlan.Mode == geometry.Knockout {
				if centerpiecePlan.Reserved[image.Point{X: c, Y: r}] {
					continue
				}
			}

			shapeKind, params := dispatchPrecedence(cfg, kind)
			ctx := shape.Context{
				Kind:         kind,
				Neighborhood: topo.At(r, c),
				Params:       params,
				Merge:        cfg.Geometry.Merge,
			}
			if cl, ok := clusterOf[image.Point{X: c, Y: r}]; ok {
				ctx.Cluster = cl
			}

			rect := shape.Rect{
				X: float64(border+c) * scale,
				Y: float64(border+r) * scale,
				W: scale,
				H: scale,
			}

			frag, err := registry.Dispatch(shapeKind, rect, ctx)
			if err != nil {
				return nil, report, &InternalInconsistencyError{Cause: err}
			}

			opacity := ""
			if centerpiecePlan.Enabled && centerpiecePlan.Mode == geometry.Imprint &&
				centerpiecePlan.Reserved[image.Point{X: c, Y: r}] {
				opacity = " opacity=\"0.25\""
			}
			scaleFactor := framePlan.ScaleFn(r, c)

			id := ""
			if cfg.Accessibility.EmitElementIDs {
				id = fmt.Sprintf(` id="%s-m-%d-%d"`, cfg.Accessibility.IDPrefix, r, c)
			}

			group := groupFor(kind)
			b := modulesByGroup[group]
			if scaleFactor < 1.0 {
				cx, cy := rect.X+rect.W/2, rect.Y+rect.H/2
				fmt.Fprintf(b, `<path class="qr-module %s"%s transform="translate(%s,%s) scale(%s) translate(%s,%s)" d="%s"%s/>`,
					group, id, svgutil.FormatNum(cx), svgutil.FormatNum(cy), svgutil.FormatNum(scaleFactor),
					svgutil.FormatNum(-cx), svgutil.FormatNum(-cy), frag.String(), opacity)
			} else {
				fmt.Fprintf(b, `<path class="qr-module %s"%s d="%s"%s/>`, group, id, frag.String(), opacity)
			}
		}
	}

	var svg strings.Builder
	svg.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	role := ""
	if cfg.Accessibility.Title != "" || cfg.Accessibility.Desc != "" {
		role = ` role="img"`
	}
	fmt.Fprintf(&svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d"%s>`, side, side, role)

	if cfg.Accessibility.Title != "" {
		fmt.Fprintf(&svg, `<title>%s</title>`, escapeXML(cfg.Accessibility.Title))
	}
	if cfg.Accessibility.Desc != "" {
		fmt.Fprintf(&svg, `<desc>%s</desc>`, escapeXML(cfg.Accessibility.Desc))
	}

	gradientID := contentID(cfg.Accessibility.IDPrefix, "gradient", cfg.Palette.Gradient)
	clipID := contentID(cfg.Accessibility.IDPrefix, "clip", framePlan.ClipPathD)
	fadeID := ""
	if framePlan.FadeMaskID != "" {
		fadeID = contentID(cfg.Accessibility.IDPrefix, "fade", framePlan.ClipPathD)
	}

	svg.WriteString(`<defs>`)
	if cfg.Palette.Gradient.Enabled {
		writeGradient(&svg, gradientID, cfg.Palette.Gradient)
	}
	fmt.Fprintf(&svg, `<clipPath id="%s"><path d="%s"/></clipPath>`, clipID, framePlan.ClipPathD)
	if fadeID != "" {
		fmt.Fprintf(&svg, `<mask id="%s"><path d="%s" fill="white"/></mask>`, fadeID, framePlan.ClipPathD)
	}
	svg.WriteString(`</defs>`)

	bgFill := cfg.Palette.BG
	if cfg.Palette.Gradient.Enabled {
		bgFill = "url(#" + gradientID + ")"
	}
	fmt.Fprintf(&svg, `<rect class="qr-background" width="%d" height="%d" fill="%s"/>`, side, side, bgFill)

	groupAttrs := fmt.Sprintf(` clip-path="url(#%s)"`, clipID)
	if cfg.Frame.ClipMode != geometry.ClipClip {
		groupAttrs = ""
	}
	if fadeID != "" {
		groupAttrs += fmt.Sprintf(` mask="url(#%s)"`, fadeID)
	}
	fmt.Fprintf(&svg, `<g class="qr-modules"%s fill="%s">`, groupAttrs, cfg.Palette.FG)
	for _, g := range groupOrder {
		fmt.Fprintf(&svg, `<g class="qr-%s">%s</g>`, g, modulesByGroup[g].String())
	}
	svg.WriteString(`</g>`)

	if centerpiecePlan.Enabled {
		fmt.Fprintf(&svg, `<g class="qr-centerpiece"><path d="%s" fill="%s"/></g>`, centerpiecePlan.ShapeFragment.String(), cfg.Palette.BG)
	}

	svg.WriteString(`</svg>`)

	report.computeScore()
	return []byte(svg.String()), report, nil
}

// dispatchPrecedence implements spec.md §4.4's three-step dispatch order:
// safe_mode override, then patterns override, then geometry.shape.
func dispatchPrecedence(cfg *config.Config, kind matrix.CellKind) (shape.Kind, shape.Params) {
	if cfg.SafeMode && shape.IsSafeOverrideKind(kind) {
		return shape.Square, shape.Params{}
	}
	if override := patternOverrideFor(cfg, kind); override != "" {
		return override, cfg.Geometry.ShapeParams
	}
	return cfg.Geometry.Shape, cfg.Geometry.ShapeParams
}

func patternOverrideFor(cfg *config.Config, kind matrix.CellKind) shape.Kind {
	switch kind {
	case matrix.CellFinderOuter, matrix.CellFinderInner, matrix.CellSeparator:
		return cfg.Patterns.Finder
	case matrix.CellTimingH, matrix.CellTimingV:
		return cfg.Patterns.Timing
	case matrix.CellAlignmentOuter, matrix.CellAlignmentInner:
		return cfg.Patterns.Alignment
	case matrix.CellData:
		return cfg.Patterns.Data
	default:
		return ""
	}
}

func groupFor(kind matrix.CellKind) string {
	switch kind {
	case matrix.CellFinderOuter, matrix.CellFinderInner, matrix.CellSeparator:
		return "finder"
	case matrix.CellTimingH, matrix.CellTimingV:
		return "timing"
	case matrix.CellAlignmentOuter, matrix.CellAlignmentInner:
		return "alignment"
	case matrix.CellFormatInfo, matrix.CellVersionInfo:
		return "data"
	default:
		return "data"
	}
}

// contentID derives a deterministic gradient/clip ID from its defining
// content via fnv1a, so renaming accessibility.id_prefix changes only the
// first path segment of the ID (spec.md §8 property 9). hash/fnv is stdlib;
// no corpus example needs content-addressed SVG IDs, so there is no
// third-party hashing library to wire here.
func contentID(prefix, kind string, content any) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%v", content)
	if prefix == "" {
		prefix = "qr"
	}
	return fmt.Sprintf("%s-%s-%x", prefix, kind, h.Sum32())
}

func writeGradient(svg *strings.Builder, id string, g config.GradientConfig) {
	tag := "linearGradient"
	if g.Kind == "radial" {
		tag = "radialGradient"
	}
	fmt.Fprintf(svg, `<%s id="%s">`, tag, id)
	stops := append([]string(nil), g.Stops...)
	sort.Strings(stops) // deterministic even if caller supplied an unordered slice
	n := len(stops)
	for i, stop := range stops {
		offset := 0.0
		if n > 1 {
			offset = float64(i) / float64(n-1)
		}
		fmt.Fprintf(svg, `<stop offset="%s" stop-color="%s"/>`, svgutil.FormatNum(offset), escapeXML(stop))
	}
	fmt.Fprintf(svg, `</%s>`, tag)
}

func escapeXML(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
