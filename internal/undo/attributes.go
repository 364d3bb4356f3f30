package undo

import (
	"errors"
	"fmt"

	"ship-editor/internal/points"
	"ship-editor/pkg/geometry"
)

// ErrSlotIDTaken is returned when renaming a slot to an id already in use.
var ErrSlotIDTaken = errors.New("slot id already in use")

// ErrNoCenter is returned when a radius is set before its center exists.
var ErrNoCenter = errors.New("center not set")

// AnchorOffsetChanged moves the layer anchor to pos.
func (d *Dispatch) AnchorOffsetChanged(pos geometry.Point2D) {
	old := d.layer.Anchor()
	d.continuous(NewEdit(KindAnchorOffset, "", func() {
		d.layer.SetAnchor(old)
	}, func() {
		d.layer.SetAnchor(pos)
	}))
}

// LayerRotated sets the layer rotation in radians.
func (d *Dispatch) LayerRotated(radians float64) {
	old := d.layer.Rotation()
	d.continuous(NewEdit(KindLayerRotation, "", func() {
		d.layer.SetRotation(old)
	}, func() {
		d.layer.SetRotation(radians)
	}))
}

func (d *Dispatch) radiusChanged(kind Kind, center *points.Point, radius float64) error {
	if center == nil {
		return fmt.Errorf("%s: %w", kind, ErrNoCenter)
	}
	old := center.Radius()
	d.continuous(NewEdit(kind, "", func() {
		center.SetRadius(old)
		d.repaint(center.Kind())
	}, func() {
		center.SetRadius(radius)
		d.repaint(center.Kind())
	}))
	return nil
}

// CollisionRadiusChanged sets the ship center's collision radius.
func (d *Dispatch) CollisionRadiusChanged(radius float64) error {
	return d.radiusChanged(KindCollisionRadius, d.layer.Center.Center(), radius)
}

// ShieldRadiusChanged sets the shield center's radius.
func (d *Dispatch) ShieldRadiusChanged(radius float64) error {
	return d.radiusChanged(KindShieldRadius, d.layer.Shield.Center(), radius)
}

// slotCounterpart returns the mirrored slot of data when data is a weapon
// slot point and mirror mode is on. Bays have no counterpart.
func (d *Dispatch) slotCounterpart(data points.SlotData) *points.Point {
	p, ok := data.(*points.Point)
	if !ok {
		return nil
	}
	return d.counterpart(p)
}

func slotKind(data points.SlotData) points.Kind {
	if p, ok := data.(*points.Point); ok {
		return p.Kind()
	}
	return points.KindLaunchPort
}

// SlotAngleSet sets the facing of a weapon slot or launch bay. A mirrored
// slot gets the negated angle.
func (d *Dispatch) SlotAngleSet(slot points.SlotData, angle float64) {
	old := slot.Angle()
	mirror := d.slotCounterpart(slot)
	var mirrorOld float64
	if mirror != nil {
		mirrorOld = mirror.Angle()
	}
	kind := slotKind(slot)
	d.continuous(NewEdit(KindSlotAngle, "", func() {
		slot.SetAngle(old)
		if mirror != nil {
			mirror.SetAngle(mirrorOld)
		}
		d.repaint(kind)
	}, func() {
		slot.SetAngle(angle)
		if mirror != nil {
			mirror.SetAngle(-angle)
		}
		d.repaint(kind)
	}))
}

// SlotArcSet sets the firing arc of a weapon slot or launch bay, copying it
// to a mirrored slot.
func (d *Dispatch) SlotArcSet(slot points.SlotData, arc float64) {
	old := slot.Arc()
	mirror := d.slotCounterpart(slot)
	var mirrorOld float64
	if mirror != nil {
		mirrorOld = mirror.Arc()
	}
	kind := slotKind(slot)
	d.continuous(NewEdit(KindSlotArc, "", func() {
		slot.SetArc(old)
		if mirror != nil {
			mirror.SetArc(mirrorOld)
		}
		d.repaint(kind)
	}, func() {
		slot.SetArc(arc)
		if mirror != nil {
			mirror.SetArc(arc)
		}
		d.repaint(kind)
	}))
}

func checkEngine(p *points.Point, op string) error {
	if p == nil || p.Kind() != points.KindEngine {
		return fmt.Errorf("%s on %v: %w", op, p, points.ErrInvalidPointKind)
	}
	return nil
}

// EngineAngleSet sets an engine's facing. A mirrored engine gets the negated
// angle.
func (d *Dispatch) EngineAngleSet(engine *points.Point, angle float64) error {
	if err := checkEngine(engine, "engine angle"); err != nil {
		return err
	}
	old := engine.Angle()
	mirror := d.counterpart(engine)
	var mirrorOld float64
	if mirror != nil {
		mirrorOld = mirror.Angle()
	}
	d.continuous(NewEdit(KindEngineAngle, "", func() {
		engine.SetAngle(old)
		if mirror != nil {
			mirror.SetAngle(mirrorOld)
		}
		d.repaint(points.KindEngine)
	}, func() {
		engine.SetAngle(angle)
		if mirror != nil {
			mirror.SetAngle(-angle)
		}
		d.repaint(points.KindEngine)
	}))
	return nil
}

// EngineSizeChanged sets an engine's flame width and length.
func (d *Dispatch) EngineSizeChanged(engine *points.Point, size geometry.Size) error {
	if err := checkEngine(engine, "engine size"); err != nil {
		return err
	}
	old := engine.EngineSize()
	d.continuous(NewEdit(KindEngineSize, "", func() {
		engine.SetEngineSize(old)
		d.repaint(points.KindEngine)
	}, func() {
		engine.SetEngineSize(size)
		d.repaint(points.KindEngine)
	}))
	return nil
}

// EngineContrailChanged sets an engine's contrail size.
func (d *Dispatch) EngineContrailChanged(engine *points.Point, contrail float64) error {
	if err := checkEngine(engine, "engine contrail"); err != nil {
		return err
	}
	old := engine.Contrail()
	d.continuous(NewEdit(KindEngineContrail, "", func() {
		engine.SetContrail(old)
		d.repaint(points.KindEngine)
	}, func() {
		engine.SetContrail(contrail)
		d.repaint(points.KindEngine)
	}))
	return nil
}

// EngineStyleChanged sets an engine's style id.
func (d *Dispatch) EngineStyleChanged(engine *points.Point, style string) error {
	if err := checkEngine(engine, "engine style"); err != nil {
		return err
	}
	old := engine.Style()
	d.discrete(NewEdit(KindEngineStyle, "", func() {
		engine.SetStyle(old)
		d.repaint(points.KindEngine)
	}, func() {
		engine.SetStyle(style)
		d.repaint(points.KindEngine)
	}))
	return nil
}

// SlotIDChanged renames a weapon slot or launch bay. The id must not be used
// by any other slot or bay.
func (d *Dispatch) SlotIDChanged(slot points.SlotData, id string) error {
	old := slot.SlotID()
	if id == old {
		return nil
	}
	if d.layer.SlotIDTaken(id) {
		return fmt.Errorf("rename %s to %s: %w", old, id, ErrSlotIDTaken)
	}
	kind := slotKind(slot)
	d.discrete(NewEdit(KindSlotID, "", func() {
		slot.SetSlotID(old)
		d.repaint(kind)
	}, func() {
		slot.SetSlotID(id)
		d.repaint(kind)
	}))
	return nil
}

// SlotTypeChanged sets a slot's weapon type. Bays keep their fixed type.
func (d *Dispatch) SlotTypeChanged(slot points.SlotData, t points.WeaponType) {
	old := slot.WeaponType()
	kind := slotKind(slot)
	d.discrete(NewEdit(KindSlotType, "", func() {
		slot.SetWeaponType(old)
		d.repaint(kind)
	}, func() {
		slot.SetWeaponType(t)
		d.repaint(kind)
	}))
}

// SlotMountChanged sets a slot's mount.
func (d *Dispatch) SlotMountChanged(slot points.SlotData, m points.WeaponMount) {
	old := slot.WeaponMount()
	kind := slotKind(slot)
	d.discrete(NewEdit(KindSlotMount, "", func() {
		slot.SetWeaponMount(old)
		d.repaint(kind)
	}, func() {
		slot.SetWeaponMount(m)
		d.repaint(kind)
	}))
}

// SlotSizeChanged sets a slot's size class.
func (d *Dispatch) SlotSizeChanged(slot points.SlotData, s points.WeaponSize) {
	old := slot.WeaponSize()
	kind := slotKind(slot)
	d.discrete(NewEdit(KindSlotSize, "", func() {
		slot.SetWeaponSize(old)
		d.repaint(kind)
	}, func() {
		slot.SetWeaponSize(s)
		d.repaint(kind)
	}))
}
