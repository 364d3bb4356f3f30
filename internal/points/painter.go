package points

import (
	"errors"
	"fmt"
	"log"
	"math"

	"ship-editor/internal/control"
	"ship-editor/internal/event"
	"ship-editor/pkg/geometry"
)

var (
	// ErrInvalidPointKind is returned when a painter receives a point of a
	// role it does not own.
	ErrInvalidPointKind = errors.New("invalid point kind")
	// ErrForeignPoint is returned when a point is still owned by a different
	// painter.
	ErrForeignPoint = errors.New("point belongs to another painter")
	// ErrDuplicatePoint is returned when a point is already in the index.
	ErrDuplicatePoint = errors.New("point already in painter")
	// ErrNotInsertable is returned by painters without positional insertion.
	ErrNotInsertable = errors.New("painter does not support insertion")
	// ErrCenterOccupied is returned when a single-point painter already holds
	// its point.
	ErrCenterOccupied = errors.New("center already set")
)

// Axis supplies the x coordinate of the vertical symmetry axis.
type Axis interface {
	AxisX() float64
}

// Change is the payload of point add/remove/insert confirmations.
type Change struct {
	Painter Painter
	Point   *Point
	Index   int
}

// Painter owns the ordered points of one role on a layer.
type Painter interface {
	Kind() Kind
	Points() []*Point
	Len() int
	AddPoint(p *Point) error
	RemovePoint(p *Point) error
	IndexOf(p *Point) (int, error)
	HasPointAt(pos geometry.Point2D) bool
	RestorePoint(p *Point, index int) error
	SetPoints(list []*Point) error
	Selected() *Point
	Select(p *Point)
	SelectPointConditionally(cursor geometry.Point2D) *Point
	InteractionEnabled() bool
	SetInteractionEnabled(enabled bool)
	Visibility() Visibility
	SetVisibility(v Visibility)
}

// Mirrorable painters can locate a point's symmetric counterpart.
type Mirrorable interface {
	Painter
	MirroredCounterpart(p *Point) *Point
	CounterpartPosition(pos geometry.Point2D) geometry.Point2D
}

// basePainter implements the index bookkeeping shared by every variant.
// self is the outer painter recorded as each point's parent.
type basePainter struct {
	kind        Kind
	label       string
	index       []*Point
	selected    *Point
	interaction bool
	visibility  Visibility
	settings    *control.Settings
	bus         *event.Bus
	axis        Axis
	self        Painter
}

func newBase(kind Kind, label string, settings *control.Settings, bus *event.Bus, axis Axis) basePainter {
	if settings == nil {
		settings = control.Defaults()
	}
	if bus == nil {
		bus = event.NewBus()
	}
	return basePainter{
		kind:        kind,
		label:       label,
		index:       make([]*Point, 0),
		interaction: true,
		settings:    settings,
		bus:         bus,
		axis:        axis,
	}
}

func (b *basePainter) Kind() Kind { return b.kind }

func (b *basePainter) Len() int { return len(b.index) }

// Points returns a copy of the ordered index.
func (b *basePainter) Points() []*Point {
	out := make([]*Point, len(b.index))
	copy(out, b.index)
	return out
}

// Positions returns the point positions in index order.
func (b *basePainter) Positions() []geometry.Point2D {
	out := make([]geometry.Point2D, len(b.index))
	for i, p := range b.index {
		out[i] = p.position
	}
	return out
}

// At returns the point at index i, wrapping cyclically so that -1 is the
// last point. Returns nil for an empty index.
func (b *basePainter) At(i int) *Point {
	n := len(b.index)
	if n == 0 {
		return nil
	}
	return b.index[((i%n)+n)%n]
}

func (b *basePainter) checkKind(p *Point, op string) error {
	if p == nil {
		return fmt.Errorf("%s: nil point: %w", op, ErrInvalidPointKind)
	}
	if p.kind != b.kind {
		log.Printf("%s: refused %s of %s point", b.label, op, p.kind)
		return fmt.Errorf("%s %s on %s painter: %w", op, p.kind, b.kind, ErrInvalidPointKind)
	}
	return nil
}

func (b *basePainter) checkOwnership(p *Point, op string) error {
	if p.parent != nil && p.parent != b.self {
		log.Printf("%s: refused %s of point owned by another painter", b.label, op)
		return fmt.Errorf("%s %s: %w", op, p, ErrForeignPoint)
	}
	if b.find(p) >= 0 {
		return fmt.Errorf("%s %s: %w", op, p, ErrDuplicatePoint)
	}
	return nil
}

func (b *basePainter) find(p *Point) int {
	for i, q := range b.index {
		if q == p {
			return i
		}
	}
	return -1
}

// AddPoint appends p to the end of the index.
func (b *basePainter) AddPoint(p *Point) error {
	if err := b.checkKind(p, "add"); err != nil {
		return err
	}
	if err := b.checkOwnership(p, "add"); err != nil {
		return err
	}
	b.appendPoint(p)
	return nil
}

func (b *basePainter) appendPoint(p *Point) {
	b.index = append(b.index, p)
	p.parent = b.self
	b.bus.Emit(event.PointAddConfirmed, Change{Painter: b.self, Point: p, Index: len(b.index) - 1})
}

// insertAt places p at index, clamped to [0, len].
func (b *basePainter) insertAt(p *Point, index int) int {
	if index < 0 {
		index = 0
	}
	if index > len(b.index) {
		index = len(b.index)
	}
	b.index = append(b.index, nil)
	copy(b.index[index+1:], b.index[index:])
	b.index[index] = p
	p.parent = b.self
	return index
}

// RestorePoint puts a previously removed point back at its old index.
func (b *basePainter) RestorePoint(p *Point, index int) error {
	if err := b.checkKind(p, "restore"); err != nil {
		return err
	}
	if err := b.checkOwnership(p, "restore"); err != nil {
		return err
	}
	at := b.insertAt(p, index)
	b.bus.Emit(event.PointAddConfirmed, Change{Painter: b.self, Point: p, Index: at})
	return nil
}

// RemovePoint removes p by identity. Absent points are ignored.
func (b *basePainter) RemovePoint(p *Point) error {
	if err := b.checkKind(p, "remove"); err != nil {
		return err
	}
	if i := b.find(p); i >= 0 {
		b.removeIndex(i)
	}
	return nil
}

func (b *basePainter) removeIndex(i int) {
	p := b.index[i]
	b.index = append(b.index[:i], b.index[i+1:]...)
	p.parent = nil
	if b.selected == p {
		p.selected = false
		b.selected = nil
	}
	b.bus.Emit(event.PointRemoveConfirmed, Change{Painter: b.self, Point: p, Index: i})
}

// IndexOf returns the index of p, or -1 if absent.
func (b *basePainter) IndexOf(p *Point) (int, error) {
	if err := b.checkKind(p, "lookup"); err != nil {
		return -1, err
	}
	return b.find(p), nil
}

// HasPointAt reports whether a point already sits exactly at pos.
func (b *basePainter) HasPointAt(pos geometry.Point2D) bool {
	for _, q := range b.index {
		if q.position.Equal(pos) {
			return true
		}
	}
	return false
}

// SetPoints replaces the index with list, used by rearrange edits.
func (b *basePainter) SetPoints(list []*Point) error {
	seen := make(map[*Point]bool, len(list))
	for _, p := range list {
		if err := b.checkKind(p, "rearrange"); err != nil {
			return err
		}
		if p.parent != nil && p.parent != b.self {
			return fmt.Errorf("rearrange %s: %w", p, ErrForeignPoint)
		}
		if seen[p] {
			return fmt.Errorf("rearrange %s: %w", p, ErrDuplicatePoint)
		}
		seen[p] = true
	}
	for _, p := range b.index {
		if !seen[p] {
			p.parent = nil
		}
	}
	b.index = make([]*Point, len(list))
	copy(b.index, list)
	for _, p := range b.index {
		p.parent = b.self
	}
	if b.selected != nil && !seen[b.selected] {
		b.selected.selected = false
		b.selected = nil
	}
	return nil
}

func (b *basePainter) Selected() *Point { return b.selected }

// Select makes p the selection. nil, or a point this painter does not own,
// clears it.
func (b *basePainter) Select(p *Point) {
	if b.selected != nil {
		b.selected.selected = false
	}
	if p != nil && b.find(p) < 0 {
		p = nil
	}
	b.selected = p
	if p != nil {
		p.selected = true
	}
	b.bus.Emit(event.PointSelectedConfirmed, p)
	b.bus.Emit(event.ViewerRepaintQueued, nil)
}

// SelectPointConditionally selects according to the session selection mode.
// In closest mode the nearest point wins; in strict mode only a point whose
// hit radius contains the cursor is selected. Ties go to the earlier point.
func (b *basePainter) SelectPointConditionally(cursor geometry.Point2D) *Point {
	if !b.interaction {
		return nil
	}
	corrected := b.settings.CorrectCursor(cursor)

	var toSelect *Point
	if b.settings.SelectionMode == control.SelectStrict {
		for _, p := range b.index {
			if p.position.Distance(corrected) <= b.settings.HitRadius {
				toSelect = p
				break
			}
		}
	} else {
		minDistance := math.MaxFloat64
		for _, p := range b.index {
			if d := p.position.Distance(corrected); d < minDistance {
				minDistance = d
				toSelect = p
			}
		}
	}
	b.Select(toSelect)
	return toSelect
}

func (b *basePainter) InteractionEnabled() bool { return b.interaction }

func (b *basePainter) SetInteractionEnabled(enabled bool) { b.interaction = enabled }

func (b *basePainter) Visibility() Visibility { return b.visibility }

func (b *basePainter) SetVisibility(v Visibility) {
	b.visibility = v
	b.bus.Emit(event.ViewerRepaintQueued, nil)
}

// CounterpartPosition reflects pos across the layer's vertical axis.
func (b *basePainter) CounterpartPosition(pos geometry.Point2D) geometry.Point2D {
	axisX := 0.0
	if b.axis != nil {
		axisX = b.axis.AxisX()
	}
	return pos.MirrorX(axisX)
}

// MirroredCounterpart returns the existing point closest to p's reflection,
// provided it lies within the mirror tolerance. p itself never qualifies.
func (b *basePainter) MirroredCounterpart(p *Point) *Point {
	if p == nil {
		return nil
	}
	target := b.CounterpartPosition(p.position)

	var closest *Point
	closestDistance := math.MaxFloat64
	for _, q := range b.index {
		if q == p {
			continue
		}
		if d := target.Distance(q.position); d < closestDistance {
			closest = q
			closestDistance = d
		}
	}
	if closestDistance <= b.settings.MirrorTolerance {
		return closest
	}
	return nil
}
