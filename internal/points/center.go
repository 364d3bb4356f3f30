package points

import (
	"fmt"

	"ship-editor/internal/control"
	"ship-editor/internal/event"
	"ship-editor/pkg/geometry"
)

// CenterPainter holds at most one point: the ship center or the shield
// center, depending on its kind.
type CenterPainter struct {
	basePainter
}

// NewCenterPainter creates a painter for KindShipCenter or KindShieldCenter.
func NewCenterPainter(kind Kind, settings *control.Settings, bus *event.Bus) (*CenterPainter, error) {
	label := "ShipCenter"
	switch kind {
	case KindShipCenter:
	case KindShieldCenter:
		label = "ShieldCenter"
	default:
		return nil, fmt.Errorf("center painter for %s: %w", kind, ErrInvalidPointKind)
	}
	p := &CenterPainter{basePainter: newBase(kind, label, settings, bus, nil)}
	p.self = p
	return p, nil
}

// AddPoint sets the center. A second point is refused.
func (p *CenterPainter) AddPoint(pt *Point) error {
	if err := p.checkKind(pt, "add"); err != nil {
		return err
	}
	if len(p.index) > 0 && p.index[0] != pt {
		return fmt.Errorf("add %s: %w", pt, ErrCenterOccupied)
	}
	return p.basePainter.AddPoint(pt)
}

// RestorePoint puts a removed center back.
func (p *CenterPainter) RestorePoint(pt *Point, index int) error {
	if err := p.checkKind(pt, "restore"); err != nil {
		return err
	}
	if len(p.index) > 0 && p.index[0] != pt {
		return fmt.Errorf("restore %s: %w", pt, ErrCenterOccupied)
	}
	return p.basePainter.RestorePoint(pt, index)
}

// Center returns the center point, or nil when unset.
func (p *CenterPainter) Center() *Point {
	if len(p.index) == 0 {
		return nil
	}
	return p.index[0]
}

// Position returns the center position and whether one is set.
func (p *CenterPainter) Position() (geometry.Point2D, bool) {
	c := p.Center()
	if c == nil {
		return geometry.Point2D{}, false
	}
	return c.position, true
}
