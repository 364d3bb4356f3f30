// Package session provides the editor session: the layer being edited, its
// history, and the input requests that drive them.
package session

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"

	"ship-editor/internal/control"
	"ship-editor/internal/event"
	"ship-editor/internal/layer"
	"ship-editor/internal/layout"
	"ship-editor/internal/points"
	"ship-editor/internal/undo"
	"ship-editor/pkg/geometry"
)

// ErrNothingSelected is returned by requests that act on the selection when
// the active painter has none.
var ErrNothingSelected = errors.New("no point selected")

// ErrIndexOutOfRange is returned by MoveSelectedTo for an index past the
// painter's points.
var ErrIndexOutOfRange = errors.New("index out of range")

// Defaults for points created by AddPointAt.
const (
	DefaultCollisionRadius = 50.0
	DefaultShieldRadius    = 60.0
	DefaultEngineAngle     = 180.0
)

// DefaultEngineSize is the flame size of a newly added engine.
var DefaultEngineSize = geometry.Size{Width: 10, Height: 30}

// Session holds the edited layer, its history, and the editing role that
// input requests apply to. All methods except Post must be called from the
// logical editor thread.
type Session struct {
	// Layout file
	Path     string
	Modified bool

	Bus      *event.Bus
	Settings *control.Settings
	Layer    *layer.ShipLayer
	History  *undo.Overseer
	Dispatch *undo.Dispatch

	role points.Kind

	// Pending work posted from other goroutines
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

// New creates a session with an empty layer. nil settings means defaults.
func New(settings *control.Settings) *Session {
	if settings == nil {
		settings = control.Defaults()
	}
	s := &Session{
		Bus:      event.NewBus(),
		Settings: settings,
		role:     points.KindBound,
		wake:     make(chan struct{}, 1),
	}
	s.History = undo.NewOverseer(s.Bus)
	s.setLayer(layer.New("untitled", settings, s.Bus))
	s.Bus.Subscribe(event.HistoryChanged, func(event.Event) { s.Modified = true })
	return s
}

func (s *Session) setLayer(l *layer.ShipLayer) {
	if s.Dispatch != nil {
		s.Dispatch.EndGesture()
	}
	s.Layer = l
	s.Dispatch = undo.NewDispatch(l, s.History)
	s.applyRole()
}

// Role returns the point role input requests act on.
func (s *Session) Role() points.Kind { return s.role }

// SetRole switches the active painter. Only it takes selection input.
func (s *Session) SetRole(kind points.Kind) error {
	if _, err := s.Layer.PainterFor(kind); err != nil {
		return err
	}
	s.role = kind
	s.applyRole()
	return nil
}

func (s *Session) applyRole() {
	for _, p := range s.Layer.Painters() {
		p.SetInteractionEnabled(p.Kind() == s.role)
	}
}

func (s *Session) painter() points.Painter {
	p, _ := s.Layer.PainterFor(s.role)
	return p
}

// Selected returns the active painter's selection, or nil.
func (s *Session) Selected() *points.Point {
	return s.painter().Selected()
}

// cursor maps a world position into layer space and applies snapping.
func (s *Session) cursor(world geometry.Point2D) geometry.Point2D {
	return s.Settings.CorrectCursor(s.Layer.WorldToLayer(world))
}

// SelectAt selects in the active painter according to the selection mode.
func (s *Session) SelectAt(world geometry.Point2D) *points.Point {
	return s.painter().SelectPointConditionally(s.Layer.WorldToLayer(world))
}

// DragSelected moves the selection to world. Successive drags coalesce into
// one edit until EndGesture.
func (s *Session) DragSelected(world geometry.Point2D) error {
	p := s.Selected()
	if p == nil {
		return ErrNothingSelected
	}
	s.Dispatch.PointDragged(p, s.cursor(world))
	return nil
}

// EndGesture publishes the pointer release that closes the open gesture.
func (s *Session) EndGesture() {
	s.Bus.Emit(event.PointerReleased, nil)
}

// AddPointAt creates a point of the active role at world and records it.
// A launch port joins the selected port's bay, or starts a new bay. Nothing
// is created where the active painter already has a point; the result is
// then nil.
func (s *Session) AddPointAt(world geometry.Point2D) (*points.Point, error) {
	pos := s.cursor(world)
	l := s.Layer
	if s.painter().HasPointAt(pos) {
		log.Printf("Session: %s point already at %v", s.role, pos)
		return nil, nil
	}

	var p *points.Point
	switch s.role {
	case points.KindBound:
		p = points.NewBound(pos)
	case points.KindWeaponSlot:
		p = points.NewWeaponSlot(pos, l.GenerateSlotID(layer.WeaponSlotPrefix))
		if err := s.Dispatch.MirroredSlotAdded(p); err != nil {
			return nil, err
		}
		return p, nil
	case points.KindEngine:
		p = points.NewEngine(pos, DefaultEngineAngle, DefaultEngineSize)
	case points.KindLaunchPort:
		var bay *points.Bay
		if sel := l.Bays.Selected(); sel != nil {
			bay = sel.Bay()
		} else {
			bay = l.NewBay()
		}
		p = points.NewLaunchPort(pos, bay)
	case points.KindShipCenter:
		p = points.NewShipCenter(pos, DefaultCollisionRadius)
	case points.KindShieldCenter:
		p = points.NewShieldCenter(pos, DefaultShieldRadius)
	default:
		return nil, fmt.Errorf("add point: %w", points.ErrInvalidPointKind)
	}

	if err := s.Dispatch.PointAdded(s.painter(), p); err != nil {
		return nil, err
	}
	return p, nil
}

// InsertBoundAt inserts a boundary vertex into the nearest segment. Nothing
// is inserted on top of an existing vertex.
func (s *Session) InsertBoundAt(world geometry.Point2D) ([]points.Insertion, error) {
	pos := s.cursor(world)
	if s.Layer.Bounds.HasPointAt(pos) {
		log.Printf("Session: bound already at %v", pos)
		return nil, nil
	}
	return s.Dispatch.BoundInserted(pos)
}

// RemoveSelected removes the selection, and its counterpart in mirror mode.
func (s *Session) RemoveSelected() error {
	p := s.Selected()
	if p == nil {
		return ErrNothingSelected
	}
	return s.Dispatch.PointRemoved(p)
}

// SetAngle sets the facing of the selected slot, bay or engine in degrees.
func (s *Session) SetAngle(degrees float64) error {
	p := s.Selected()
	if p == nil {
		return ErrNothingSelected
	}
	switch p.Kind() {
	case points.KindWeaponSlot:
		s.Dispatch.SlotAngleSet(p, degrees)
	case points.KindLaunchPort:
		s.Dispatch.SlotAngleSet(p.Bay(), degrees)
	case points.KindEngine:
		return s.Dispatch.EngineAngleSet(p, degrees)
	default:
		return fmt.Errorf("set angle on %s: %w", p.Kind(), points.ErrInvalidPointKind)
	}
	return nil
}

// SetArc sets the firing arc of the selected slot or bay in degrees.
func (s *Session) SetArc(degrees float64) error {
	p := s.Selected()
	if p == nil {
		return ErrNothingSelected
	}
	switch p.Kind() {
	case points.KindWeaponSlot:
		s.Dispatch.SlotArcSet(p, degrees)
	case points.KindLaunchPort:
		s.Dispatch.SlotArcSet(p.Bay(), degrees)
	default:
		return fmt.Errorf("set arc on %s: %w", p.Kind(), points.ErrInvalidPointKind)
	}
	return nil
}

// selectedSlot returns the attribute holder of the selection: the slot
// itself, or the bay of a launch port.
func (s *Session) selectedSlot(op string) (points.SlotData, error) {
	p := s.Selected()
	if p == nil {
		return nil, ErrNothingSelected
	}
	switch p.Kind() {
	case points.KindWeaponSlot:
		return p, nil
	case points.KindLaunchPort:
		return p.Bay(), nil
	default:
		return nil, fmt.Errorf("%s on %s: %w", op, p.Kind(), points.ErrInvalidPointKind)
	}
}

// SetSlotType sets the weapon type of the selected slot from its id, such
// as "MISSILE".
func (s *Session) SetSlotType(id string) error {
	slot, err := s.selectedSlot("set type")
	if err != nil {
		return err
	}
	t, err := points.ParseWeaponType(id)
	if err != nil {
		return err
	}
	s.Dispatch.SlotTypeChanged(slot, t)
	return nil
}

// SetSlotMount sets the mount of the selected slot or bay, such as "TURRET".
func (s *Session) SetSlotMount(id string) error {
	slot, err := s.selectedSlot("set mount")
	if err != nil {
		return err
	}
	m, err := points.ParseWeaponMount(id)
	if err != nil {
		return err
	}
	s.Dispatch.SlotMountChanged(slot, m)
	return nil
}

// SetSlotSize sets the size class of the selected slot or bay, such as
// "LARGE".
func (s *Session) SetSlotSize(id string) error {
	slot, err := s.selectedSlot("set size")
	if err != nil {
		return err
	}
	size, err := points.ParseWeaponSize(id)
	if err != nil {
		return err
	}
	s.Dispatch.SlotSizeChanged(slot, size)
	return nil
}

// RenameSelected changes the id of the selected slot or bay.
func (s *Session) RenameSelected(id string) error {
	slot, err := s.selectedSlot("rename")
	if err != nil {
		return err
	}
	return s.Dispatch.SlotIDChanged(slot, id)
}

func (s *Session) selection() (*points.Point, error) {
	p := s.Selected()
	if p == nil {
		return nil, ErrNothingSelected
	}
	return p, nil
}

// SetEngineSize sets the flame width and length of the selected engine.
func (s *Session) SetEngineSize(size geometry.Size) error {
	p, err := s.selection()
	if err != nil {
		return err
	}
	return s.Dispatch.EngineSizeChanged(p, size)
}

// SetContrail sets the contrail size of the selected engine.
func (s *Session) SetContrail(contrail float64) error {
	p, err := s.selection()
	if err != nil {
		return err
	}
	return s.Dispatch.EngineContrailChanged(p, contrail)
}

// SetEngineStyle sets the style id of the selected engine.
func (s *Session) SetEngineStyle(style string) error {
	p, err := s.selection()
	if err != nil {
		return err
	}
	return s.Dispatch.EngineStyleChanged(p, style)
}

// SetRadius sets the collision radius while the ship center role is
// active, or the shield radius while the shield role is.
func (s *Session) SetRadius(radius float64) error {
	switch s.role {
	case points.KindShipCenter:
		return s.Dispatch.CollisionRadiusChanged(radius)
	case points.KindShieldCenter:
		return s.Dispatch.ShieldRadiusChanged(radius)
	default:
		return fmt.Errorf("set radius on %s: %w", s.role, points.ErrInvalidPointKind)
	}
}

// MoveSelectedTo moves the selection to index in its painter's order. Only
// bounds, slots and engines can be reordered.
func (s *Session) MoveSelectedTo(index int) error {
	p := s.Selected()
	if p == nil {
		return ErrNothingSelected
	}
	list := s.painter().Points()
	if index < 0 || index >= len(list) {
		return fmt.Errorf("move to %d of %d: %w", index, len(list), ErrIndexOutOfRange)
	}

	order := make([]*points.Point, 0, len(list))
	for _, q := range list {
		if q != p {
			order = append(order, q)
		}
	}
	order = append(order[:index], append([]*points.Point{p}, order[index:]...)...)

	switch s.role {
	case points.KindBound:
		return s.Dispatch.BoundsRearranged(order)
	case points.KindWeaponSlot:
		return s.Dispatch.SlotsRearranged(order)
	case points.KindEngine:
		return s.Dispatch.EnginesRearranged(order)
	default:
		return fmt.Errorf("reorder %s: %w", s.role, points.ErrInvalidPointKind)
	}
}

// RotateLayer sets the layer rotation in degrees, rounded when rotation
// rounding is on.
func (s *Session) RotateLayer(degrees float64) {
	degrees = s.Settings.RoundRotation(degrees)
	s.Dispatch.LayerRotated(degrees * math.Pi / 180)
}

// MoveAnchor places the layer origin at world.
func (s *Session) MoveAnchor(world geometry.Point2D) {
	s.Dispatch.AnchorOffsetChanged(world)
}

// Undo reverts the latest edit, closing any open gesture first.
func (s *Session) Undo() bool {
	s.Dispatch.EndGesture()
	return s.History.Undo()
}

// Redo reapplies the latest undone edit.
func (s *Session) Redo() bool {
	s.Dispatch.EndGesture()
	return s.History.Redo()
}

// SetMirrorMode toggles symmetric editing.
func (s *Session) SetMirrorMode(on bool) {
	s.Settings.MirrorMode = on
	s.Bus.Emit(event.SettingsChanged, s.Settings)
}

// SetSelectionMode switches between closest and strict selection.
func (s *Session) SetSelectionMode(mode control.SelectionMode) {
	s.Settings.SelectionMode = mode
	s.Bus.Emit(event.SettingsChanged, s.Settings)
}

// Snapshot returns the current geometry in layout form.
func (s *Session) Snapshot() *layout.File {
	return layout.FromLayer(s.Layer)
}

// Post queues fn to run on the editor thread at the next Drain. It is safe
// to call from any goroutine.
func (s *Session) Post(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Wake signals that posted work is waiting.
func (s *Session) Wake() <-chan struct{} { return s.wake }

// Drain runs queued work in posting order and returns how many ran.
func (s *Session) Drain() int {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
	return len(queue)
}
