// Package layer provides the ship layer: the painters of every point role,
// plus the anchor and rotation that place the layer in world space.
package layer

import (
	"fmt"
	"log"

	"golang.org/x/image/math/f64"

	"ship-editor/internal/control"
	"ship-editor/internal/event"
	"ship-editor/internal/points"
	"ship-editor/pkg/geometry"
)

// Slot id prefixes.
const (
	WeaponSlotPrefix = "WS"
	LaunchBayPrefix  = "LB"
)

// ShipLayer owns one painter per point role. Layer space is the sprite's
// own frame; world space is where the viewer draws it.
type ShipLayer struct {
	Name string

	Bounds  *points.BoundPainter
	Slots   *points.SlotPainter
	Engines *points.EnginePainter
	Bays    *points.BayPainter
	Center  *points.CenterPainter
	Shield  *points.CenterPainter

	Sprite *Sprite

	anchor   geometry.Point2D
	rotation float64 // radians, positive = counter-clockwise

	settings *control.Settings
	bus      *event.Bus
}

// New creates an empty layer whose painters share settings and bus.
func New(name string, settings *control.Settings, bus *event.Bus) *ShipLayer {
	if settings == nil {
		settings = control.Defaults()
	}
	if bus == nil {
		bus = event.NewBus()
	}
	l := &ShipLayer{Name: name, settings: settings, bus: bus}
	l.Bounds = points.NewBoundPainter(settings, bus, l)
	l.Slots = points.NewSlotPainter(settings, bus, l)
	l.Engines = points.NewEnginePainter(settings, bus, l)
	l.Bays = points.NewBayPainter(settings, bus, l)

	// The kinds are fixed, so construction cannot fail
	l.Center, _ = points.NewCenterPainter(points.KindShipCenter, settings, bus)
	l.Shield, _ = points.NewCenterPainter(points.KindShieldCenter, settings, bus)
	return l
}

// Bus returns the event bus the layer publishes on.
func (l *ShipLayer) Bus() *event.Bus { return l.bus }

// Settings returns the session settings the painters consult.
func (l *ShipLayer) Settings() *control.Settings { return l.settings }

// AxisX is the x of the symmetry axis: the ship center, or 0 when unset.
func (l *ShipLayer) AxisX() float64 {
	if pos, ok := l.Center.Position(); ok {
		return pos.X
	}
	return 0
}

// Painters returns every painter in draw order.
func (l *ShipLayer) Painters() []points.Painter {
	return []points.Painter{l.Bounds, l.Slots, l.Engines, l.Bays, l.Center, l.Shield}
}

// PainterFor returns the painter owning points of kind.
func (l *ShipLayer) PainterFor(kind points.Kind) (points.Painter, error) {
	switch kind {
	case points.KindBound:
		return l.Bounds, nil
	case points.KindWeaponSlot:
		return l.Slots, nil
	case points.KindEngine:
		return l.Engines, nil
	case points.KindLaunchPort:
		return l.Bays, nil
	case points.KindShipCenter:
		return l.Center, nil
	case points.KindShieldCenter:
		return l.Shield, nil
	default:
		return nil, fmt.Errorf("no painter for %s: %w", kind, points.ErrInvalidPointKind)
	}
}

// Mirrorable returns the painter for kind when that role has symmetric
// counterparts. Centers sit on the axis and never do.
func (l *ShipLayer) Mirrorable(kind points.Kind) (points.Mirrorable, bool) {
	switch kind {
	case points.KindBound:
		return l.Bounds, true
	case points.KindWeaponSlot:
		return l.Slots, true
	case points.KindEngine:
		return l.Engines, true
	case points.KindLaunchPort:
		return l.Bays, true
	default:
		return nil, false
	}
}

// PanelEvent is the panel refresh published after a change to kind.
func PanelEvent(kind points.Kind) event.Type {
	switch kind {
	case points.KindBound:
		return event.BoundsPanelRepaintQueued
	case points.KindWeaponSlot:
		return event.SlotControlRepaintQueued
	case points.KindEngine:
		return event.EnginesPanelRepaintQueued
	case points.KindLaunchPort:
		return event.BaysPanelRepaintQueued
	default:
		return event.CenterPanelRepaintQueued
	}
}

// SlotIDTaken reports whether id is used by a weapon slot or a launch bay.
func (l *ShipLayer) SlotIDTaken(id string) bool {
	return l.Slots.SlotByID(id) != nil || l.Bays.BayByID(id) != nil
}

// GenerateSlotID returns the first free id with the given prefix.
func (l *ShipLayer) GenerateSlotID(prefix string) string {
	return points.GenerateSlotID(prefix, l.SlotIDTaken)
}

// NewBay creates a launch bay with a fresh id. It joins the bay list when
// its first port is added.
func (l *ShipLayer) NewBay() *points.Bay {
	return points.NewBay(l.GenerateSlotID(LaunchBayPrefix))
}

// Anchor returns the world position of the layer origin.
func (l *ShipLayer) Anchor() geometry.Point2D { return l.anchor }

// SetAnchor moves the layer in world space.
func (l *ShipLayer) SetAnchor(p geometry.Point2D) {
	l.anchor = p
	l.bus.Emit(event.ViewerRepaintQueued, nil)
}

// Rotation returns the layer rotation in radians.
func (l *ShipLayer) Rotation() float64 { return l.rotation }

// SetRotation rotates the layer about its origin.
func (l *ShipLayer) SetRotation(radians float64) {
	l.rotation = radians
	l.bus.Emit(event.ViewerRepaintQueued, nil)
}

// Transform maps layer space to world space.
func (l *ShipLayer) Transform() geometry.AffineTransform {
	return geometry.Translation(l.anchor.X, l.anchor.Y).Compose(geometry.Rotation(l.rotation))
}

// LayerToWorld maps a layer-space point to world space.
func (l *ShipLayer) LayerToWorld(p geometry.Point2D) geometry.Point2D {
	return l.Transform().Apply(p)
}

// WorldToLayer maps a world-space point, such as a cursor, into layer space.
func (l *ShipLayer) WorldToLayer(p geometry.Point2D) geometry.Point2D {
	inv, ok := l.Transform().Inverse()
	if !ok {
		// Translation and rotation are always invertible
		log.Printf("Layer %s: singular transform", l.Name)
		return p
	}
	return inv.Apply(p)
}

// SpriteTransform returns the layer-to-world matrix in the form
// x/image/draw.Transform accepts.
func (l *ShipLayer) SpriteTransform() f64.Aff3 {
	return l.Transform().Aff3()
}
