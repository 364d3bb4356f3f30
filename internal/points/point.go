// Package points provides the point entities attached to a ship layer and
// the painters that own and order them.
package points

import (
	"fmt"

	"github.com/google/uuid"

	"ship-editor/pkg/geometry"
)

// Point is a single mutable layer-space position plus the attributes of its
// role. Identity is the pointer; UID is a stable label for event payloads
// and file round trips.
type Point struct {
	UID uuid.UUID

	kind     Kind
	position geometry.Point2D
	parent   Painter
	selected bool

	// Weapon slot
	slotID         string
	weaponType     WeaponType
	weaponMount    WeaponMount
	weaponSize     WeaponSize
	renderOrderMod int

	// Weapon slot and engine facing
	angle float64
	arc   float64

	// Engine
	engineSize geometry.Size
	contrail   float64
	style      string

	// Ship center collision radius or shield radius
	radius float64

	// Launch port
	bay *Bay
}

func newPoint(kind Kind, pos geometry.Point2D) *Point {
	return &Point{UID: uuid.New(), kind: kind, position: pos}
}

// NewBound creates a hull boundary vertex.
func NewBound(pos geometry.Point2D) *Point {
	return newPoint(KindBound, pos)
}

// NewWeaponSlot creates a weapon slot with the given id.
func NewWeaponSlot(pos geometry.Point2D, id string) *Point {
	p := newPoint(KindWeaponSlot, pos)
	p.slotID = id
	p.weaponType = TypeBallistic
	p.weaponMount = MountTurret
	p.weaponSize = SizeSmall
	return p
}

// CopySlotValues makes p a weapon slot with the same attributes as src,
// except position and id. Used when a mirrored slot is created.
func (p *Point) CopySlotValues(src *Point) {
	p.weaponType = src.weaponType
	p.weaponMount = src.weaponMount
	p.weaponSize = src.weaponSize
	p.renderOrderMod = src.renderOrderMod
	p.angle = src.angle
	p.arc = src.arc
}

// NewEngine creates an engine point facing angle degrees.
func NewEngine(pos geometry.Point2D, angle float64, size geometry.Size) *Point {
	p := newPoint(KindEngine, pos)
	p.angle = angle
	p.engineSize = size
	p.style = "LOW_TECH"
	return p
}

// NewLaunchPort creates a port belonging to bay.
func NewLaunchPort(pos geometry.Point2D, bay *Bay) *Point {
	p := newPoint(KindLaunchPort, pos)
	p.bay = bay
	return p
}

// NewShipCenter creates the ship center with its collision radius.
func NewShipCenter(pos geometry.Point2D, radius float64) *Point {
	p := newPoint(KindShipCenter, pos)
	p.radius = radius
	return p
}

// NewShieldCenter creates the shield center with its shield radius.
func NewShieldCenter(pos geometry.Point2D, radius float64) *Point {
	p := newPoint(KindShieldCenter, pos)
	p.radius = radius
	return p
}

func (p *Point) Kind() Kind { return p.kind }
func (p *Point) Position() geometry.Point2D { return p.position }
func (p *Point) Parent() Painter { return p.parent }
func (p *Point) IsSelected() bool { return p.selected }

// SetPosition moves the point. Callers go through the edit dispatcher so the
// move is recorded.
func (p *Point) SetPosition(pos geometry.Point2D) {
	p.position = pos
}

func (p *Point) SlotID() string { return p.slotID }

// SetSlotID renames the slot. Uniqueness is checked by the layer.
func (p *Point) SetSlotID(id string) { p.slotID = id }

func (p *Point) WeaponType() WeaponType { return p.weaponType }
func (p *Point) SetWeaponType(t WeaponType) { p.weaponType = t }
func (p *Point) WeaponMount() WeaponMount { return p.weaponMount }
func (p *Point) SetWeaponMount(m WeaponMount) { p.weaponMount = m }
func (p *Point) WeaponSize() WeaponSize { return p.weaponSize }
func (p *Point) SetWeaponSize(s WeaponSize) { p.weaponSize = s }
func (p *Point) RenderOrderMod() int { return p.renderOrderMod }
func (p *Point) SetRenderOrderMod(v int) { p.renderOrderMod = v }
func (p *Point) Angle() float64 { return p.angle }
func (p *Point) SetAngle(v float64) { p.angle = v }
func (p *Point) Arc() float64 { return p.arc }
func (p *Point) SetArc(v float64) { p.arc = v }
func (p *Point) EngineSize() geometry.Size { return p.engineSize }
func (p *Point) SetEngineSize(s geometry.Size) { p.engineSize = s }
func (p *Point) Contrail() float64 { return p.contrail }
func (p *Point) SetContrail(v float64) { p.contrail = v }
func (p *Point) Style() string { return p.style }
func (p *Point) SetStyle(s string) { p.style = s }
func (p *Point) Radius() float64 { return p.radius }
func (p *Point) SetRadius(v float64) { p.radius = v }
func (p *Point) Bay() *Bay { return p.bay }

func (p *Point) String() string {
	return fmt.Sprintf("%s(%.2f, %.2f)", p.kind, p.position.X, p.position.Y)
}

// SlotData is the attribute surface shared by weapon slots and launch bays.
type SlotData interface {
	SlotID() string
	SetSlotID(id string)
	WeaponType() WeaponType
	SetWeaponType(t WeaponType)
	WeaponMount() WeaponMount
	SetWeaponMount(m WeaponMount)
	WeaponSize() WeaponSize
	SetWeaponSize(s WeaponSize)
	Angle() float64
	SetAngle(v float64)
	Arc() float64
	SetArc(v float64)
}

// Bay groups launch ports that share one set of slot attributes.
type Bay struct {
	id             string
	weaponSize     WeaponSize
	weaponMount    WeaponMount
	renderOrderMod int
	angle          float64
	arc            float64
	ports          []*Point
}

// NewBay creates an empty launch bay.
func NewBay(id string) *Bay {
	return &Bay{id: id, weaponSize: SizeSmall, weaponMount: MountHidden}
}

func (b *Bay) SlotID() string { return b.id }
func (b *Bay) SetSlotID(id string) { b.id = id }
func (b *Bay) WeaponType() WeaponType { return TypeLaunchBay }
func (b *Bay) SetWeaponType(WeaponType) {}
func (b *Bay) WeaponMount() WeaponMount { return b.weaponMount }
func (b *Bay) SetWeaponMount(m WeaponMount) { b.weaponMount = m }
func (b *Bay) WeaponSize() WeaponSize { return b.weaponSize }
func (b *Bay) SetWeaponSize(s WeaponSize) { b.weaponSize = s }
func (b *Bay) RenderOrderMod() int { return b.renderOrderMod }
func (b *Bay) SetRenderOrderMod(v int) { b.renderOrderMod = v }
func (b *Bay) Angle() float64 { return b.angle }
func (b *Bay) SetAngle(v float64) { b.angle = v }
func (b *Bay) Arc() float64 { return b.arc }
func (b *Bay) SetArc(v float64) { b.arc = v }

// Ports returns a copy of the bay's ports in order.
func (b *Bay) Ports() []*Point {
	out := make([]*Point, len(b.ports))
	copy(out, b.ports)
	return out
}
