// Package qrstyle turns a finished QR Code bit-matrix plus a structured
// style configuration into a self-contained, scannable SVG document. It is
// a pure, synchronous, concurrency-safe function plus a read-only shape
// registry, as nayuki-QR-Code-generator's own root package is a pure
// encoder plus read-only lookup tables: Config and Matrix are immutable,
// the shape registry is built once at init(), and no render call retains
// state from another.
package qrstyle

import (
	"github.com/systmms/qrstyle/internal/config"
	"github.com/systmms/qrstyle/internal/geometry"
	"github.com/systmms/qrstyle/internal/intent"
	"github.com/systmms/qrstyle/internal/matrix"
	"github.com/systmms/qrstyle/internal/qrencode"
	"github.com/systmms/qrstyle/internal/qrencode/qrcodeecc"
	"github.com/systmms/qrstyle/internal/render"
	"github.com/systmms/qrstyle/internal/shape"
	"github.com/systmms/qrstyle/internal/validate"
)

// Re-exported so callers never need to import internal/config directly.
type Config = config.Config

// Intent is the declarative, higher-level rendering request RenderWithIntents
// accepts; see internal/intent.Intent for the sub-intent fields.
type Intent = intent.Intent

// Result is the output of a successful render: the SVG document and its
// accompanying report.
type Result struct {
	SVG    []byte
	Report render.Report
}

// Capabilities enumerates what this build of the pipeline supports, so
// callers can pre-validate an Intent or Config before calling Render.
type Capabilities struct {
	Shapes          []shape.Kind
	FrameShapes     []geometry.FrameShape
	ClipModes       []geometry.ClipMode
	MergeStrategies []shape.MergeStrategy
}

// ListCapabilities returns the fixed set of shapes, frame shapes, clip
// modes, and merge strategies this build supports. The registry backing
// this is read-only and initialized once, per spec.md §9's "registry owned
// by the pipeline, no runtime plugin registration" guidance.
func ListCapabilities() Capabilities {
	return Capabilities{
		Shapes:      shape.NewRegistry().Kinds(),
		FrameShapes: []geometry.FrameShape{geometry.FrameSquare, geometry.FrameRoundedRect, geometry.FrameCircle, geometry.FrameSquircle, geometry.FrameCustom},
		ClipModes:   []geometry.ClipMode{geometry.ClipNone, geometry.ClipClip, geometry.ClipFade, geometry.ClipScale},
		MergeStrategies: []shape.MergeStrategy{
			shape.MergeNone, shape.MergeSoft, shape.MergeAggressive,
		},
	}
}

// PayloadSpec is the text payload forwarded to the in-tree test-oracle QR
// encoder by RenderWithIntents. It is intentionally minimal: spec.md §1
// treats QR encoding as an out-of-scope external collaborator, so this
// struct only carries what internal/qrencode needs to manufacture a matrix.
type PayloadSpec struct {
	Text                string
	ErrorCorrectionHint ECCLevel
}

// ECCLevel re-exports internal/matrix.ECCLevel so callers never need to
// import internal/matrix directly.
type ECCLevel = matrix.ECCLevel

const (
	ECCLow      = matrix.ECCLow
	ECCMedium   = matrix.ECCMedium
	ECCQuartile = matrix.ECCQuartile
	ECCHigh     = matrix.ECCHigh
)

// Render is the core entry point: render(matrix, config) -> (svg, report)
// of spec.md §6. m must already be classified (internal/matrix.Classify);
// a copy of cfg is validated, auto-adjusted or rejected, then frozen before
// any SVG bytes are produced. The caller's cfg is never modified.
func Render(m *matrix.Matrix, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	own := *cfg
	cfg = &own

	report := &render.Report{}
	vreport, err := validate.Check(cfg, m)
	if err != nil {
		report.AddFindings(convertValidateFindings(vreport.Findings))
		return nil, err
	}
	report.AddFindings(convertValidateFindings(vreport.Findings))

	frozen := cfg.Freeze()
	svg, emitReport, err := render.Emit(m, frozen)
	if err != nil {
		return nil, err
	}
	report.AddFindings(emitReport.Findings)
	report.ScannabilityScore = emitReport.ScannabilityScore

	return &Result{SVG: svg, Report: *report}, nil
}

// RenderWithIntents is the convenience entry point of spec.md §6: it
// forwards payload.Text to the in-tree test-oracle QR encoder
// (internal/qrencode, the "external QR library" spec.md §1 treats as an
// out-of-scope collaborator), classifies the resulting matrix, lowers
// intents to a Config, and renders.
func RenderWithIntents(payload PayloadSpec, intents Intent) (*Result, error) {
	ecl := eccToQrencode(payload.ErrorCorrectionHint)
	qr, err := qrencode.EncodeText(payload.Text, ecl)
	if err != nil {
		return nil, err
	}

	cfg, lowerReport, err := intent.Lower(intents)
	if err != nil {
		return nil, err
	}

	m, err := matrix.Classify(qr.DarkModules(), int(qr.Version().Value()), payload.ErrorCorrectionHint)
	if err != nil {
		return nil, err
	}

	result, err := Render(m, cfg)
	if err != nil {
		return nil, err
	}
	result.Report.AddFindings(convertIntentFindings(lowerReport.Findings))
	return result, nil
}

func eccToQrencode(e ECCLevel) qrcodeecc.QrCodeEcc {
	switch e {
	case matrix.ECCLow:
		return qrcodeecc.Low
	case matrix.ECCMedium:
		return qrcodeecc.Medium
	case matrix.ECCQuartile:
		return qrcodeecc.Quartile
	case matrix.ECCHigh:
		return qrcodeecc.High
	default:
		return qrcodeecc.Medium
	}
}

func convertValidateFindings(in []validate.Finding) []render.Finding {
	out := make([]render.Finding, len(in))
	for i, f := range in {
		out[i] = render.Finding{Code: f.Code, Severity: render.Severity(f.Severity), Field: f.Field, Message: f.Message}
	}
	return out
}

func convertIntentFindings(in []intent.Finding) []render.Finding {
	out := make([]render.Finding, len(in))
	for i, f := range in {
		out[i] = render.Finding{Code: f.Code, Severity: render.Severity(f.Severity), Field: f.Field, Message: f.Message}
	}
	return out
}
