// Package config is the typed styling configuration: nested groups with
// per-field constraints, a discriminated shape-parameter union, and
// load/save helpers. The struct-of-structs plus yaml tags plus
// Defaults/Load/Save shape mirrors dfbb-im2code/internal/config/config.go;
// the Freeze/FromFlatMap additions generalize it to spec.md §4.7's
// frozen-config and legacy-flat-keyword requirements, which the teacher's
// config (no discriminated unions, no legacy form) never needed.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/systmms/qrstyle/internal/geometry"
	"github.com/systmms/qrstyle/internal/shape"
)

// ErrConfigConflict reports that a legacy flat-keyword map supplied both a
// deprecated and a current key for the same field with different values.
var ErrConfigConflict = errors.New("config: conflicting deprecated and current keys")

// IntentValidationError reports a single field-level validation failure.
type IntentValidationError struct {
	Field      string
	Value      any
	Suggestion string
}

func (e *IntentValidationError) Error() string {
	return fmt.Sprintf("config: invalid value for %s: %v (%s)", e.Field, e.Value, e.Suggestion)
}

// GeometryConfig groups shape dispatch and clustering parameters.
type GeometryConfig struct {
	Shape            shape.Kind          `yaml:"shape"`
	ShapeParams      shape.Params        `yaml:"shape_params"`
	Connectivity     int                 `yaml:"connectivity"` // 4 or 8
	Merge            shape.MergeStrategy `yaml:"merge"`
	MinIslandModules int                 `yaml:"min_island_modules"`
}

// GradientConfig is an optional linear/radial gradient background.
type GradientConfig struct {
	Enabled bool     `yaml:"enabled"`
	Kind    string   `yaml:"kind"` // "linear" or "radial"
	Stops   []string `yaml:"stops"`
}

// PaletteConfig groups foreground/background color and gradient.
type PaletteConfig struct {
	FG       string         `yaml:"fg"`
	BG       string         `yaml:"bg"`
	Gradient GradientConfig `yaml:"gradient"`
}

// PatternsConfig overrides the base shape per CellKind group.
type PatternsConfig struct {
	Finder    shape.Kind `yaml:"finder"`
	Timing    shape.Kind `yaml:"timing"`
	Alignment shape.Kind `yaml:"alignment"`
	Data      shape.Kind `yaml:"data"`
}

// AccessibilityConfig groups a11y metadata and compliance target.
type AccessibilityConfig struct {
	IDPrefix         string `yaml:"id_prefix"`
	Title            string `yaml:"title"`
	Desc             string `yaml:"desc"`
	EmitElementIDs   bool   `yaml:"emit_element_ids"`
	ComplianceTarget string `yaml:"compliance_target"` // "AA" or "AAA"
}

// Config is the fully typed, validated styling configuration. It is built
// once (via Defaults, a struct literal, FromFlatMap, or a YAML unmarshal)
// and then frozen with Freeze before C1 runs, per spec.md §3's lifecycle.
type Config struct {
	Geometry            GeometryConfig             `yaml:"geometry"`
	Palette             PaletteConfig              `yaml:"palette"`
	Patterns            PatternsConfig             `yaml:"patterns"`
	Frame               geometry.FrameConfig       `yaml:"frame"`
	Centerpiece         geometry.CenterpieceConfig `yaml:"centerpiece"`
	SafeMode            bool                       `yaml:"safe_mode"`
	Accessibility       AccessibilityConfig        `yaml:"accessibility"`
	Scale               int                        `yaml:"scale"`
	Border              int                        `yaml:"border"`
	ErrorCorrectionHint string                     `yaml:"error_correction_hint"`
	Strict              bool                       `yaml:"strict"`

	frozen bool
}

// Defaults returns a Config populated with spec.md's documented defaults:
// safe mode on, plain squares, 4-connectivity, no frame, no centerpiece.
func Defaults() *Config {
	return &Config{
		Geometry: GeometryConfig{
			Shape:            shape.Square,
			Connectivity:     4,
			Merge:            shape.MergeNone,
			MinIslandModules: 1,
		},
		Palette: PaletteConfig{FG: "#000000", BG: "#ffffff"},
		Frame:   geometry.FrameConfig{Shape: geometry.FrameSquare, ClipMode: geometry.ClipNone},
		Centerpiece: geometry.CenterpieceConfig{
			Enabled: false, Mode: geometry.Knockout,
		},
		SafeMode: true,
		Accessibility: AccessibilityConfig{
			IDPrefix: "qr", ComplianceTarget: "AA",
		},
		Scale:  10,
		Border: 4,
	}
}

// Load reads a YAML config file, applying it on top of Defaults() so any
// field omitted from the file keeps its default value, exactly as
// dfbb-im2code's config.Load does.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path in YAML form, creating parent directories as
// needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks every per-field constraint spec.md §3/§4.7 names. It does
// not check the cross-cutting composition invariants of C9 (contrast,
// centerpiece-vs-ECC, frame clearance) — those require the matrix and ECC
// level and live in internal/validate.
func (c *Config) Validate() error {
	if c.Scale < 1 {
		return &IntentValidationError{Field: "scale", Value: c.Scale, Suggestion: "scale must be >= 1"}
	}
	if c.Border < 0 {
		return &IntentValidationError{Field: "border", Value: c.Border, Suggestion: "border must be >= 0"}
	}
	if c.Geometry.Connectivity != 4 && c.Geometry.Connectivity != 8 {
		return &IntentValidationError{Field: "geometry.connectivity", Value: c.Geometry.Connectivity, Suggestion: "must be 4 or 8"}
	}
	if c.Geometry.MinIslandModules < 0 {
		return &IntentValidationError{Field: "geometry.min_island_modules", Value: c.Geometry.MinIslandModules, Suggestion: "must be >= 0"}
	}
	if c.Geometry.Merge == shape.MergeAggressive && c.Geometry.MinIslandModules < 3 {
		return &IntentValidationError{
			Field: "geometry.min_island_modules", Value: c.Geometry.MinIslandModules,
			Suggestion: "merge=aggressive requires min_island_modules >= 3 (auto-raised by internal/validate if not strict)",
		}
	}
	if c.Centerpiece.Enabled {
		if c.Centerpiece.SizeFraction < 0 || c.Centerpiece.SizeFraction > 0.5 {
			return &IntentValidationError{Field: "centerpiece.size_fraction", Value: c.Centerpiece.SizeFraction, Suggestion: "must be in [0,0.5]"}
		}
	}
	if c.Frame.ClipMode == geometry.ClipFade && c.Border < 5 {
		// Not fatal: spec.md §3 calls this a warning, not an invariant
		// violation, so Validate leaves it to internal/validate's report.
	}
	if err := c.Geometry.ShapeParams.ValidateFor(c.Geometry.Shape); err != nil {
		return err
	}
	return nil
}

// Freeze returns an immutable copy of c for the render pipeline to consume.
// Frozen configs are never mutated; internal/intent's degradation pass
// mutates a Config before Freeze is called, never after.
func (c *Config) Freeze() *Config {
	frozen := *c
	frozen.frozen = true
	return &frozen
}

// IsFrozen reports whether Freeze has already been called on this value.
func (c *Config) IsFrozen() bool { return c.frozen }

// deprecatedKeys maps a legacy flat keyword to the current dotted field path
// it was renamed to, for FromFlatMap's conflict detection.
var deprecatedKeys = map[string]string{
	"module_shape":    "geometry.shape",
	"fg_color":        "palette.fg",
	"bg_color":        "palette.bg",
	"reserve_pct":     "centerpiece.size_fraction",
	"quiet_zone":      "border",
}

// FromFlatMap builds a Config from a legacy flat keyword dictionary,
// starting from Defaults() and overlaying recognized keys. Both a
// deprecated key and its current replacement supplying different values is
// ErrConfigConflict.
func FromFlatMap(flat map[string]any) (*Config, error) {
	cfg := Defaults()

	for oldKey, newKey := range deprecatedKeys {
		oldVal, hasOld := flat[oldKey]
		newVal, hasNew := flat[newKey]
		if hasOld && hasNew && fmt.Sprint(oldVal) != fmt.Sprint(newVal) {
			return nil, fmt.Errorf("%w: %q=%v conflicts with %q=%v", ErrConfigConflict, oldKey, oldVal, newKey, newVal)
		}
	}

	get := func(keys ...string) (any, bool) {
		for _, k := range keys {
			if v, ok := flat[k]; ok {
				return v, true
			}
		}
		return nil, false
	}

	if v, ok := get("geometry.shape", "module_shape"); ok {
		cfg.Geometry.Shape = shape.Kind(fmt.Sprint(v))
	}
	if v, ok := get("palette.fg", "fg_color"); ok {
		cfg.Palette.FG = fmt.Sprint(v)
	}
	if v, ok := get("palette.bg", "bg_color"); ok {
		cfg.Palette.BG = fmt.Sprint(v)
	}
	if v, ok := get("centerpiece.size_fraction", "reserve_pct"); ok {
		f, ok := v.(float64)
		if !ok {
			return nil, &IntentValidationError{Field: "centerpiece.size_fraction", Value: v, Suggestion: "must be a number"}
		}
		cfg.Centerpiece.SizeFraction = f
		cfg.Centerpiece.Enabled = f > 0
	}
	if v, ok := get("border", "quiet_zone"); ok {
		i, ok := v.(int)
		if !ok {
			return nil, &IntentValidationError{Field: "border", Value: v, Suggestion: "must be an integer"}
		}
		cfg.Border = i
	}
	if v, ok := flat["safe_mode"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, &IntentValidationError{Field: "safe_mode", Value: v, Suggestion: "must be a boolean"}
		}
		cfg.SafeMode = b
	}

	return cfg, nil
}
