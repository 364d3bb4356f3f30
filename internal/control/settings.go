// Package control holds the per-session interaction toggles that painters
// and the edit dispatcher consult: selection mode, mirror mode, snapping.
package control

import (
	"math"
	"strings"

	"ship-editor/internal/prefs"
	"ship-editor/pkg/geometry"
)

// SelectionMode decides how a click picks a point.
type SelectionMode int

const (
	// SelectClosest picks the point nearest the cursor anywhere on the layer.
	SelectClosest SelectionMode = iota
	// SelectStrict picks a point only when the cursor is over its hit shape.
	SelectStrict
)

func (m SelectionMode) String() string {
	if m == SelectStrict {
		return "strict"
	}
	return "closest"
}

// ParseSelectionMode accepts "closest" or "strict"; anything else is closest.
func ParseSelectionMode(s string) SelectionMode {
	if strings.EqualFold(strings.TrimSpace(s), "strict") {
		return SelectStrict
	}
	return SelectClosest
}

// Preference keys.
const (
	KeySelectionMode    = "selection_mode"
	KeyMirrorMode       = "mirror_mode"
	KeyCursorSnapping   = "cursor_snapping"
	KeyRotationRounding = "rotation_rounding"
	KeyMirrorTolerance  = "mirror_tolerance"
	KeyHitRadius        = "hit_radius"
)

const (
	// DefaultMirrorTolerance is the counterpart linkage distance in scaled
	// layer units.
	DefaultMirrorTolerance = 2.0
	// DefaultHitRadius is the strict-selection radius around a point.
	DefaultHitRadius = 0.5

	snapStep = 0.5
)

// Settings is the editor-session context passed to painters.
type Settings struct {
	SelectionMode    SelectionMode
	MirrorMode       bool
	CursorSnapping   bool
	RotationRounding bool
	MirrorTolerance  float64
	HitRadius        float64
}

// Defaults returns the settings a fresh session starts with.
func Defaults() *Settings {
	return &Settings{
		SelectionMode:    SelectClosest,
		MirrorMode:       true,
		CursorSnapping:   true,
		RotationRounding: true,
		MirrorTolerance:  DefaultMirrorTolerance,
		HitRadius:        DefaultHitRadius,
	}
}

// FromPrefs builds settings from stored preferences, falling back to the
// defaults for missing keys.
func FromPrefs(p *prefs.Prefs) *Settings {
	d := Defaults()
	return &Settings{
		SelectionMode:    ParseSelectionMode(p.String(KeySelectionMode, d.SelectionMode.String())),
		MirrorMode:       p.Bool(KeyMirrorMode, d.MirrorMode),
		CursorSnapping:   p.Bool(KeyCursorSnapping, d.CursorSnapping),
		RotationRounding: p.Bool(KeyRotationRounding, d.RotationRounding),
		MirrorTolerance:  p.FloatWithFallback(KeyMirrorTolerance, d.MirrorTolerance),
		HitRadius:        p.FloatWithFallback(KeyHitRadius, d.HitRadius),
	}
}

// Store writes the settings into p. The caller decides when to Save.
func (s *Settings) Store(p *prefs.Prefs) {
	p.SetString(KeySelectionMode, s.SelectionMode.String())
	p.SetBool(KeyMirrorMode, s.MirrorMode)
	p.SetBool(KeyCursorSnapping, s.CursorSnapping)
	p.SetBool(KeyRotationRounding, s.RotationRounding)
	p.SetFloat(KeyMirrorTolerance, s.MirrorTolerance)
	p.SetFloat(KeyHitRadius, s.HitRadius)
}

// CorrectCursor snaps a layer-space cursor to the half-unit grid when
// snapping is enabled.
func (s *Settings) CorrectCursor(p geometry.Point2D) geometry.Point2D {
	if !s.CursorSnapping {
		return p
	}
	return geometry.Point2D{
		X: math.Round(p.X/snapStep) * snapStep,
		Y: math.Round(p.Y/snapStep) * snapStep,
	}
}

// RoundRotation rounds an angle in degrees to a whole degree when rotation
// rounding is enabled.
func (s *Settings) RoundRotation(degrees float64) float64 {
	if !s.RotationRounding {
		return degrees
	}
	return math.Round(degrees)
}
