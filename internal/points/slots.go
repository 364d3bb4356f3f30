package points

import (
	"fmt"

	"ship-editor/internal/control"
	"ship-editor/internal/event"
)

// SlotPainter owns the weapon slots of a layer.
type SlotPainter struct {
	basePainter
}

// NewSlotPainter creates an empty weapon slot painter.
func NewSlotPainter(settings *control.Settings, bus *event.Bus, axis Axis) *SlotPainter {
	p := &SlotPainter{basePainter: newBase(KindWeaponSlot, "Slots", settings, bus, axis)}
	p.self = p
	return p
}

// SlotByID returns the slot with the given id, or nil.
func (p *SlotPainter) SlotByID(id string) *Point {
	for _, s := range p.index {
		if s.slotID == id {
			return s
		}
	}
	return nil
}

// IDs returns the slot ids in index order.
func (p *SlotPainter) IDs() []string {
	ids := make([]string, len(p.index))
	for i, s := range p.index {
		ids[i] = s.slotID
	}
	return ids
}

// GenerateSlotID returns the first id of the form prefix + four digits,
// counting from 0001, for which taken reports false.
func GenerateSlotID(prefix string, taken func(id string) bool) string {
	for n := 1; ; n++ {
		id := fmt.Sprintf("%s%04d", prefix, n)
		if taken == nil || !taken(id) {
			return id
		}
	}
}
