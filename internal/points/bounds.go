package points

import (
	"fmt"
	"log"

	"ship-editor/internal/control"
	"ship-editor/internal/event"
	"ship-editor/pkg/geometry"
)

// Insertion is one planned boundary insertion: Point is placed at Index.
type Insertion struct {
	Point *Point
	Index int
}

// BoundPainter owns the closed hull polygon. Its index is cyclic: the last
// point connects back to the first.
type BoundPainter struct {
	basePainter
}

// NewBoundPainter creates an empty boundary painter mirrored across axis.
func NewBoundPainter(settings *control.Settings, bus *event.Bus, axis Axis) *BoundPainter {
	p := &BoundPainter{basePainter: newBase(KindBound, "Bounds", settings, bus, axis)}
	p.self = p
	return p
}

// insertionIndex picks the slot for pos in a closed polygon. The winning
// segment i joins i and i+1; the new vertex goes between them, which is index
// i+1, or index 0 when the winning segment is the wrap from n-1 back to 0.
func insertionIndex(pos geometry.Point2D, polygon []geometry.Point2D) (int, bool) {
	i, _, ok := geometry.NearestSegment(pos, polygon)
	if !ok {
		return 0, false
	}
	if i == len(polygon)-1 {
		return 0, true
	}
	return i + 1, true
}

// InsertionIndex returns where a vertex at pos would be placed. ok is false
// with fewer than 2 boundary points since no segment exists yet.
func (p *BoundPainter) InsertionIndex(pos geometry.Point2D) (int, bool) {
	return insertionIndex(pos, p.Positions())
}

// PlanInsertion computes the insertions needed to add a vertex at pos
// without mutating the painter. When mirror is set and pos has no existing
// counterpart, a reflected vertex is planned too; its index is computed
// against the polygon that already contains the primary vertex, so applying
// the plan in order reproduces it exactly.
func (p *BoundPainter) PlanInsertion(pos geometry.Point2D, mirror bool) []Insertion {
	polygon := p.Positions()
	index, ok := insertionIndex(pos, polygon)
	if !ok {
		return nil
	}
	primary := NewBound(pos)
	plan := []Insertion{{Point: primary, Index: index}}

	if !mirror {
		return plan
	}
	reflected := p.CounterpartPosition(pos)
	if reflected.Distance(pos) <= p.settings.MirrorTolerance {
		// On or near the axis; the vertex is its own counterpart
		return plan
	}
	if p.nearestWithin(reflected, p.settings.MirrorTolerance) != nil {
		return plan
	}

	grown := make([]geometry.Point2D, 0, len(polygon)+1)
	grown = append(grown, polygon[:index]...)
	grown = append(grown, pos)
	grown = append(grown, polygon[index:]...)

	mirrorIndex, _ := insertionIndex(reflected, grown)
	return append(plan, Insertion{Point: NewBound(reflected), Index: mirrorIndex})
}

func (p *BoundPainter) nearestWithin(pos geometry.Point2D, tolerance float64) *Point {
	for _, q := range p.index {
		if q.position.Distance(pos) <= tolerance {
			return q
		}
	}
	return nil
}

// InsertPoint places pt at index, shifting later vertices up.
func (p *BoundPainter) InsertPoint(pt *Point, index int) error {
	if err := p.checkKind(pt, "insert"); err != nil {
		return err
	}
	if err := p.checkOwnership(pt, "insert"); err != nil {
		return err
	}
	if index < 0 || index > len(p.index) {
		return fmt.Errorf("insert %s at %d of %d: index out of range", pt, index, len(p.index))
	}
	at := p.insertAt(pt, index)
	p.bus.Emit(event.BoundInsertedConfirmed, Change{Painter: p, Point: pt, Index: at})
	return nil
}

// InsertAt plans and applies an insertion at pos. With fewer than 2 points
// it does nothing and returns an empty plan.
func (p *BoundPainter) InsertAt(pos geometry.Point2D, mirror bool) ([]Insertion, error) {
	plan := p.PlanInsertion(pos, mirror)
	if len(plan) == 0 {
		log.Printf("Bounds: insertion at %v ignored, %d points", pos, len(p.index))
		return nil, nil
	}
	for _, ins := range plan {
		if err := p.InsertPoint(ins.Point, ins.Index); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// Contains reports whether pos lies inside the hull polygon.
func (p *BoundPainter) Contains(pos geometry.Point2D) bool {
	return geometry.PointInPolygon(pos, p.Positions())
}

// Clockwise reports the polygon winding in layer space, where y grows
// downward on screen.
func (p *BoundPainter) Clockwise() bool {
	return geometry.SignedArea(p.Positions()) > 0
}
