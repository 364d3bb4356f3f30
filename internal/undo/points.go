package undo

import (
	"fmt"
	"log"

	"ship-editor/internal/layer"
	"ship-editor/internal/points"
	"ship-editor/pkg/geometry"
)

// PointDragged moves p to pos. In mirror mode its counterpart follows to the
// reflected position within the same edit.
func (d *Dispatch) PointDragged(p *points.Point, pos geometry.Point2D) {
	old := p.Position()
	mirror := d.counterpart(p)
	var mirrorOld, mirrorNew geometry.Point2D
	if mirror != nil {
		m, _ := d.layer.Mirrorable(p.Kind())
		mirrorOld = mirror.Position()
		mirrorNew = m.CounterpartPosition(pos)
	}

	e := NewEdit(KindPointDrag, "", func() {
		p.SetPosition(old)
		if mirror != nil {
			mirror.SetPosition(mirrorOld)
		}
		d.repaint(p.Kind())
	}, func() {
		p.SetPosition(pos)
		if mirror != nil {
			mirror.SetPosition(mirrorNew)
		}
		d.repaint(p.Kind())
	})
	d.continuous(e)
}

// PointAdded appends p to painter as a single edit.
func (d *Dispatch) PointAdded(painter points.Painter, p *points.Point) error {
	if err := painter.AddPoint(p); err != nil {
		return fmt.Errorf("add point: %w", err)
	}
	index, _ := painter.IndexOf(p)
	d.record(NewEdit(KindPointAdd, "", func() {
		_ = painter.RemovePoint(p)
		d.repaint(p.Kind())
	}, func() {
		restore(painter, p, index)
		d.repaint(p.Kind())
	}))
	d.repaint(p.Kind())
	return nil
}

// MirroredSlotAdded adds slot and, in mirror mode, a reflected copy with a
// fresh id and mirrored angle. Both land in one edit.
func (d *Dispatch) MirroredSlotAdded(slot *points.Point) error {
	if slot.Kind() != points.KindWeaponSlot {
		return fmt.Errorf("add slot %s: %w", slot, points.ErrInvalidPointKind)
	}
	slots := d.layer.Slots
	if err := slots.AddPoint(slot); err != nil {
		return fmt.Errorf("add slot: %w", err)
	}

	added := []*points.Point{slot}
	reflected := slots.CounterpartPosition(slot.Position())
	if d.settings.MirrorMode && reflected.Distance(slot.Position()) > d.settings.MirrorTolerance &&
		slots.MirroredCounterpart(slot) == nil {
		copySlot := points.NewWeaponSlot(reflected, d.layer.GenerateSlotID(layer.WeaponSlotPrefix))
		copySlot.CopySlotValues(slot)
		copySlot.SetAngle(-slot.Angle())
		if err := slots.AddPoint(copySlot); err != nil {
			_ = slots.RemovePoint(slot)
			return fmt.Errorf("add mirrored slot: %w", err)
		}
		added = append(added, copySlot)
	}

	indices := make([]int, len(added))
	for i, s := range added {
		indices[i], _ = slots.IndexOf(s)
	}
	kind := KindPointAdd
	if len(added) > 1 {
		kind = KindComposite
	}
	d.record(NewEdit(kind, "Add Slot", func() {
		for i := len(added) - 1; i >= 0; i-- {
			_ = slots.RemovePoint(added[i])
		}
		d.repaint(points.KindWeaponSlot)
	}, func() {
		for i, s := range added {
			restore(slots, s, indices[i])
		}
		d.repaint(points.KindWeaponSlot)
	}))
	d.repaint(points.KindWeaponSlot)
	return nil
}

type removal struct {
	point    *points.Point
	painter  points.Painter
	index    int
	bay      *points.Bay
	bayIndex int
}

// PointRemoved removes p from its painter. In mirror mode its counterpart is
// removed in the same edit. Removing a point no painter owns does nothing.
func (d *Dispatch) PointRemoved(p *points.Point) error {
	if p == nil || p.Parent() == nil {
		return nil
	}
	targets := []*points.Point{p}
	if mirror := d.counterpart(p); mirror != nil {
		targets = append(targets, mirror)
	}

	var removed []removal
	for _, t := range targets {
		painter := t.Parent()
		index, err := painter.IndexOf(t)
		if err != nil {
			return fmt.Errorf("remove point: %w", err)
		}
		if index < 0 {
			continue
		}
		r := removal{point: t, painter: painter, index: index, bayIndex: -1}
		if t.Kind() == points.KindLaunchPort {
			r.bay = t.Bay()
			r.bayIndex = d.layer.Bays.BayIndex(r.bay)
		}
		if err := painter.RemovePoint(t); err != nil {
			return fmt.Errorf("remove point: %w", err)
		}
		removed = append(removed, r)
	}
	if len(removed) == 0 {
		return nil
	}

	d.record(NewEdit(KindPointRemove, "", func() {
		for i := len(removed) - 1; i >= 0; i-- {
			r := removed[i]
			if r.bay != nil {
				d.layer.Bays.InsertBay(r.bay, r.bayIndex)
			}
			restore(r.painter, r.point, r.index)
		}
		d.repaint(p.Kind())
	}, func() {
		for _, r := range removed {
			_ = r.painter.RemovePoint(r.point)
		}
		d.repaint(p.Kind())
	}))
	d.repaint(p.Kind())
	return nil
}

// BoundInserted inserts a boundary vertex at pos between the two vertices of
// the nearest segment. In mirror mode a reflected vertex is inserted too and
// both are undone together. With fewer than 2 vertices nothing happens.
func (d *Dispatch) BoundInserted(pos geometry.Point2D) ([]points.Insertion, error) {
	bounds := d.layer.Bounds
	plan := bounds.PlanInsertion(pos, d.settings.MirrorMode)
	if len(plan) == 0 {
		log.Printf("Dispatch: bound insertion needs 2 points, have %d", bounds.Len())
		return nil, nil
	}

	kind := KindPointInsert
	if len(plan) > 1 {
		kind = KindComposite
	}
	e := NewEdit(kind, "Insert Bound", func() {
		for i := len(plan) - 1; i >= 0; i-- {
			_ = bounds.RemovePoint(plan[i].Point)
		}
		d.repaint(points.KindBound)
	}, func() {
		for _, ins := range plan {
			if err := bounds.InsertPoint(ins.Point, ins.Index); err != nil {
				log.Printf("Dispatch: %v", err)
			}
		}
		d.repaint(points.KindBound)
	})
	d.discrete(e)
	return plan, nil
}

func (d *Dispatch) rearranged(kind Kind, painter points.Painter, changed []*points.Point) error {
	old := painter.Points()
	if err := painter.SetPoints(changed); err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	list := make([]*points.Point, len(changed))
	copy(list, changed)
	d.record(NewEdit(kind, "", func() {
		_ = painter.SetPoints(old)
		d.repaint(painter.Kind())
	}, func() {
		_ = painter.SetPoints(list)
		d.repaint(painter.Kind())
	}))
	d.repaint(painter.Kind())
	return nil
}

// BoundsRearranged replaces the boundary order.
func (d *Dispatch) BoundsRearranged(changed []*points.Point) error {
	return d.rearranged(KindBoundsSort, d.layer.Bounds, changed)
}

// SlotsRearranged replaces the weapon slot order.
func (d *Dispatch) SlotsRearranged(changed []*points.Point) error {
	return d.rearranged(KindSlotsSort, d.layer.Slots, changed)
}

// EnginesRearranged replaces the engine order.
func (d *Dispatch) EnginesRearranged(changed []*points.Point) error {
	return d.rearranged(KindEnginesSort, d.layer.Engines, changed)
}

func restore(painter points.Painter, p *points.Point, index int) {
	if err := painter.RestorePoint(p, index); err != nil {
		log.Printf("Dispatch: restore %s: %v", p, err)
	}
}
