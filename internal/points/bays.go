package points

import (
	"fmt"
	"log"

	"ship-editor/internal/control"
	"ship-editor/internal/event"
)

// BayPainter owns launch ports grouped into bays. A bay exists while it has
// at least one port; removing its last port removes the bay.
type BayPainter struct {
	basePainter
	bays []*Bay
}

// NewBayPainter creates an empty launch bay painter.
func NewBayPainter(settings *control.Settings, bus *event.Bus, axis Axis) *BayPainter {
	p := &BayPainter{basePainter: newBase(KindLaunchPort, "Bays", settings, bus, axis)}
	p.self = p
	return p
}

// Bays returns a copy of the bay list in order.
func (p *BayPainter) Bays() []*Bay {
	out := make([]*Bay, len(p.bays))
	copy(out, p.bays)
	return out
}

// BayIndex returns the position of bay in the bay list, or -1.
func (p *BayPainter) BayIndex(bay *Bay) int {
	for i, b := range p.bays {
		if b == bay {
			return i
		}
	}
	return -1
}

// BayByID returns the bay with the given id, or nil.
func (p *BayPainter) BayByID(id string) *Bay {
	for _, b := range p.bays {
		if b.id == id {
			return b
		}
	}
	return nil
}

func (p *BayPainter) addBay(bay *Bay) {
	p.bays = append(p.bays, bay)
	p.bus.Emit(event.LaunchBayAddConfirmed, bay)
}

// InsertBay puts an empty bay back at index, used when undoing the removal of
// its last port.
func (p *BayPainter) InsertBay(bay *Bay, index int) {
	if p.BayIndex(bay) >= 0 {
		return
	}
	if index < 0 || index > len(p.bays) {
		index = len(p.bays)
	}
	p.bays = append(p.bays, nil)
	copy(p.bays[index+1:], p.bays[index:])
	p.bays[index] = bay
	p.bus.Emit(event.LaunchBayAddConfirmed, bay)
}

func (p *BayPainter) removeBay(bay *Bay) {
	i := p.BayIndex(bay)
	if i < 0 {
		return
	}
	p.bays = append(p.bays[:i], p.bays[i+1:]...)
	p.bus.Emit(event.LaunchBayRemoveConfirmed, bay)
}

func (p *BayPainter) checkBay(pt *Point, op string) error {
	if pt.bay == nil {
		log.Printf("Bays: refused %s of port without bay", op)
		return fmt.Errorf("%s %s: port has no bay: %w", op, pt, ErrInvalidPointKind)
	}
	return nil
}

// AddPoint appends a port, registering its bay if needed.
func (p *BayPainter) AddPoint(pt *Point) error {
	if err := p.checkKind(pt, "add"); err != nil {
		return err
	}
	if err := p.checkBay(pt, "add"); err != nil {
		return err
	}
	if err := p.checkOwnership(pt, "add"); err != nil {
		return err
	}
	if p.BayIndex(pt.bay) < 0 {
		p.addBay(pt.bay)
	}
	pt.bay.ports = append(pt.bay.ports, pt)
	p.appendPoint(pt)
	return nil
}

// RestorePoint puts a removed port back at index, restoring its position
// within its bay as well.
func (p *BayPainter) RestorePoint(pt *Point, index int) error {
	if err := p.checkKind(pt, "restore"); err != nil {
		return err
	}
	if err := p.checkBay(pt, "restore"); err != nil {
		return err
	}
	if err := p.checkOwnership(pt, "restore"); err != nil {
		return err
	}
	if p.BayIndex(pt.bay) < 0 {
		p.addBay(pt.bay)
	}
	at := p.insertAt(pt, index)

	// Bay order follows index order
	before := 0
	for _, q := range p.index[:at] {
		if q.bay == pt.bay {
			before++
		}
	}
	ports := pt.bay.ports
	ports = append(ports, nil)
	copy(ports[before+1:], ports[before:])
	ports[before] = pt
	pt.bay.ports = ports

	p.bus.Emit(event.PointAddConfirmed, Change{Painter: p, Point: pt, Index: at})
	return nil
}

// RemovePoint removes a port. A bay left without ports is removed too.
func (p *BayPainter) RemovePoint(pt *Point) error {
	if err := p.checkKind(pt, "remove"); err != nil {
		return err
	}
	i := p.find(pt)
	if i < 0 {
		return nil
	}
	if bay := pt.bay; bay != nil {
		for j, q := range bay.ports {
			if q == pt {
				bay.ports = append(bay.ports[:j], bay.ports[j+1:]...)
				break
			}
		}
		if len(bay.ports) == 0 {
			p.removeBay(bay)
		}
	}
	p.removeIndex(i)
	return nil
}

// SetPoints reorders the ports and rebuilds each bay's port order to match.
func (p *BayPainter) SetPoints(list []*Point) error {
	for _, pt := range list {
		if pt != nil && pt.bay == nil {
			return p.checkBay(pt, "rearrange")
		}
	}
	if err := p.basePainter.SetPoints(list); err != nil {
		return err
	}
	for _, bay := range p.Bays() {
		bay.ports = bay.ports[:0]
		for _, pt := range p.index {
			if pt.bay == bay {
				bay.ports = append(bay.ports, pt)
			}
		}
		if len(bay.ports) == 0 {
			p.removeBay(bay)
		}
	}
	return nil
}

// InsertPoint is not supported; ports are positioned by their bay.
func (p *BayPainter) InsertPoint(*Point, int) error {
	return fmt.Errorf("launch ports: %w", ErrNotInsertable)
}
