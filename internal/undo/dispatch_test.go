package undo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ship-editor/internal/control"
	"ship-editor/internal/event"
	"ship-editor/internal/layer"
	"ship-editor/internal/points"
	"ship-editor/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.Point2D{X: x, Y: y} }

type fixture struct {
	layer    *layer.ShipLayer
	settings *control.Settings
	bus      *event.Bus
	d        *Dispatch
	o        *Overseer
}

func newFixture(t *testing.T, mirror bool) *fixture {
	t.Helper()
	settings := control.Defaults()
	settings.MirrorMode = mirror
	bus := event.NewBus()
	l := layer.New("test", settings, bus)
	require.NoError(t, l.Center.AddPoint(points.NewShipCenter(pt(0, 0), 10)))
	o := NewOverseer(bus)
	return &fixture{layer: l, settings: settings, bus: bus, d: NewDispatch(l, o), o: o}
}

func (f *fixture) bound(t *testing.T, x, y float64) *points.Point {
	t.Helper()
	b := points.NewBound(pt(x, y))
	require.NoError(t, f.layer.Bounds.AddPoint(b))
	return b
}

func (f *fixture) square(t *testing.T) {
	t.Helper()
	for _, p := range []geometry.Point2D{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)} {
		f.bound(t, p.X, p.Y)
	}
}

func (f *fixture) release() {
	f.bus.Emit(event.PointerReleased, nil)
}

func TestDragCoalescing(t *testing.T) {
	f := newFixture(t, false)
	b := f.bound(t, 5, 0)

	for i := 1; i <= 10; i++ {
		f.d.PointDragged(b, pt(5+float64(i), 0))
	}
	require.Equal(t, 1, f.o.UndoLen())
	assert.Equal(t, 10, f.o.Top().Steps())
	assert.False(t, f.o.Top().Finished())

	f.release()
	assert.True(t, f.o.Top().Finished())

	f.d.PointDragged(b, pt(20, 0))
	require.Equal(t, 2, f.o.UndoLen())

	require.True(t, f.o.Undo())
	assert.Equal(t, pt(15, 0), b.Position())
	require.True(t, f.o.Undo())
	assert.Equal(t, pt(5, 0), b.Position())

	require.True(t, f.o.Redo())
	assert.Equal(t, pt(15, 0), b.Position())
}

func TestMirroredDragCoalesces(t *testing.T) {
	f := newFixture(t, true)
	right := f.bound(t, 5, 0)
	left := f.bound(t, -5, 0)

	f.d.PointDragged(right, pt(6, 1))
	f.d.PointDragged(right, pt(7, 2))
	assert.Equal(t, pt(-7, 2), left.Position())
	require.Equal(t, 1, f.o.UndoLen())

	require.True(t, f.o.Undo())
	assert.Equal(t, pt(5, 0), right.Position())
	assert.Equal(t, pt(-5, 0), left.Position())
}

func TestStaleMergeStartsNewEdit(t *testing.T) {
	f := newFixture(t, false)
	b := f.bound(t, 5, 0)

	f.d.PointDragged(b, pt(6, 0))
	// Finished without a gesture end, as after an abnormal input sequence
	f.o.Top().Finish()
	f.d.PointDragged(b, pt(7, 0))
	assert.Equal(t, 2, f.o.UndoLen())
}

func TestGestureScope(t *testing.T) {
	f := newFixture(t, false)
	b := f.bound(t, 5, 0)
	baseline := f.bus.Len()

	g := f.d.BeginGesture()
	assert.Equal(t, baseline+1, f.bus.Len())
	f.d.PointDragged(b, pt(6, 0))
	f.d.PointDragged(b, pt(7, 0))
	f.d.AnchorOffsetChanged(pt(1, 1))
	assert.Equal(t, 2, g.Edits())
	assert.Equal(t, g, f.d.ActiveGesture())

	g.End()
	assert.True(t, g.Ended())
	assert.True(t, f.o.Top().Finished())
	assert.Nil(t, f.d.ActiveGesture())
	assert.Equal(t, baseline, f.bus.Len())

	// Ending twice and a stray release are harmless
	g.End()
	f.release()
	assert.Equal(t, baseline, f.bus.Len())
}

func TestImplicitGestureEndsOnRelease(t *testing.T) {
	f := newFixture(t, false)
	baseline := f.bus.Len()

	f.d.LayerRotated(0.25)
	require.NotNil(t, f.d.ActiveGesture())
	f.release()
	assert.Nil(t, f.d.ActiveGesture())
	assert.Equal(t, baseline, f.bus.Len())
}

func TestDiscreteEditsNeverCoalesce(t *testing.T) {
	f := newFixture(t, false)
	slot := points.NewWeaponSlot(pt(3, 3), "WS0001")
	require.NoError(t, f.layer.Slots.AddPoint(slot))

	f.d.SlotTypeChanged(slot, points.TypeEnergy)
	f.d.SlotTypeChanged(slot, points.TypeMissile)
	assert.Equal(t, 2, f.o.UndoLen())
	assert.True(t, f.o.Top().Finished())

	require.True(t, f.o.Undo())
	assert.Equal(t, points.TypeEnergy, slot.WeaponType())
}

func TestRedoInvalidation(t *testing.T) {
	f := newFixture(t, false)
	b := f.bound(t, 5, 0)

	f.d.PointDragged(b, pt(6, 0))
	f.release()
	f.d.PointDragged(b, pt(7, 0))
	f.release()
	require.True(t, f.o.Undo())
	require.True(t, f.o.Undo())
	assert.Equal(t, 2, f.o.RedoLen())

	f.d.PointDragged(b, pt(9, 9))
	assert.Equal(t, 0, f.o.RedoLen())
	assert.False(t, f.o.Redo())
	assert.Equal(t, pt(9, 9), b.Position())
}

type snapshot struct {
	bounds   []geometry.Point2D
	anchor   geometry.Point2D
	rotation float64
	radius   float64
}

func take(f *fixture) snapshot {
	return snapshot{
		bounds:   f.layer.Bounds.Positions(),
		anchor:   f.layer.Anchor(),
		rotation: f.layer.Rotation(),
		radius:   f.layer.Center.Center().Radius(),
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	f := newFixture(t, false)
	f.square(t)
	initial := take(f)

	_, err := f.d.BoundInserted(pt(5, 0))
	require.NoError(t, err)
	f.d.PointDragged(f.layer.Bounds.At(2), pt(12, -1))
	f.d.EndGesture()
	require.NoError(t, f.d.PointRemoved(f.layer.Bounds.At(3)))
	f.d.AnchorOffsetChanged(pt(3, 4))
	f.d.LayerRotated(0.5)
	f.d.EndGesture()
	require.NoError(t, f.d.CollisionRadiusChanged(20))
	f.d.EndGesture()
	pts := f.layer.Bounds.Points()
	reversed := make([]*points.Point, len(pts))
	for i, p := range pts {
		reversed[len(pts)-1-i] = p
	}
	require.NoError(t, f.d.BoundsRearranged(reversed))

	const k = 7
	require.Equal(t, k, f.o.UndoLen())
	final := take(f)

	for i := 0; i < k; i++ {
		require.True(t, f.o.Undo())
	}
	assert.Equal(t, initial, take(f))
	for i := 0; i < k; i++ {
		require.True(t, f.o.Redo())
	}
	assert.Equal(t, final, take(f))
}

func TestBoundInsertedMirroredIsOneEdit(t *testing.T) {
	f := newFixture(t, true)
	f.square(t)
	// Move the axis to the middle of the square
	f.layer.Center.Center().SetPosition(pt(5, 5))

	plan, err := f.d.BoundInserted(pt(3, 0))
	require.NoError(t, err)
	require.Len(t, plan, 2)
	require.Equal(t, 1, f.o.UndoLen())
	assert.Equal(t, KindComposite, f.o.Top().Kind)
	after := f.layer.Bounds.Positions()
	assert.Len(t, after, 6)

	require.True(t, f.o.Undo())
	assert.Equal(t, []geometry.Point2D{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}, f.layer.Bounds.Positions())
	require.True(t, f.o.Redo())
	assert.Equal(t, after, f.layer.Bounds.Positions())
}

func TestBoundInsertedNeedsTwoPoints(t *testing.T) {
	f := newFixture(t, true)
	f.bound(t, 1, 1)
	plan, err := f.d.BoundInserted(pt(2, 2))
	require.NoError(t, err)
	assert.Empty(t, plan)
	assert.Equal(t, 0, f.o.UndoLen())
}

func TestPointRemovedRestoresBay(t *testing.T) {
	f := newFixture(t, false)
	first := f.layer.NewBay()
	require.NoError(t, f.layer.Bays.AddPoint(points.NewLaunchPort(pt(1, 1), first)))
	second := f.layer.NewBay()
	port := points.NewLaunchPort(pt(2, 2), second)
	require.NoError(t, f.d.PointAdded(f.layer.Bays, port))
	third := f.layer.NewBay()
	require.NoError(t, f.layer.Bays.AddPoint(points.NewLaunchPort(pt(3, 3), third)))

	require.NoError(t, f.d.PointRemoved(port))
	assert.Equal(t, []*points.Bay{first, third}, f.layer.Bays.Bays())

	require.True(t, f.o.Undo())
	assert.Equal(t, []*points.Bay{first, second, third}, f.layer.Bays.Bays())
	assert.Equal(t, []*points.Point{port}, second.Ports())
	idx, err := f.layer.Bays.IndexOf(port)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestMirroredRemoval(t *testing.T) {
	f := newFixture(t, true)
	a := points.NewWeaponSlot(pt(5, 0), "WS0001")
	b := points.NewWeaponSlot(pt(-5, 0), "WS0002")
	require.NoError(t, f.layer.Slots.AddPoint(a))
	require.NoError(t, f.layer.Slots.AddPoint(b))

	require.NoError(t, f.d.PointRemoved(b))
	assert.Equal(t, 0, f.layer.Slots.Len())
	assert.Equal(t, 1, f.o.UndoLen())

	require.True(t, f.o.Undo())
	assert.Equal(t, []*points.Point{a, b}, f.layer.Slots.Points())
	assert.Equal(t, 0, f.o.UndoLen())
	assert.Equal(t, 1, f.o.RedoLen())

	// Not owned by any painter: nothing is posted, so redo survives
	require.NoError(t, f.d.PointRemoved(points.NewBound(pt(0, 0))))
	assert.Equal(t, 0, f.o.UndoLen())
	assert.Equal(t, 1, f.o.RedoLen())
}

func TestMirroredSlotAdded(t *testing.T) {
	f := newFixture(t, true)
	slot := points.NewWeaponSlot(pt(4, 2), f.layer.GenerateSlotID(layer.WeaponSlotPrefix))
	slot.SetAngle(15)
	slot.SetWeaponSize(points.SizeMedium)

	require.NoError(t, f.d.MirroredSlotAdded(slot))
	require.Equal(t, 2, f.layer.Slots.Len())
	copySlot := f.layer.Slots.Points()[1]
	assert.Equal(t, pt(-4, 2), copySlot.Position())
	assert.Equal(t, "WS0002", copySlot.SlotID())
	assert.Equal(t, -15.0, copySlot.Angle())
	assert.Equal(t, points.SizeMedium, copySlot.WeaponSize())

	require.True(t, f.o.Undo())
	assert.Equal(t, 0, f.layer.Slots.Len())
	require.True(t, f.o.Redo())
	assert.Equal(t, []*points.Point{slot, copySlot}, f.layer.Slots.Points())
}

func TestSlotAngleMirrored(t *testing.T) {
	f := newFixture(t, true)
	a := points.NewWeaponSlot(pt(5, 0), "WS0001")
	b := points.NewWeaponSlot(pt(-5, 0), "WS0002")
	require.NoError(t, f.layer.Slots.AddPoint(a))
	require.NoError(t, f.layer.Slots.AddPoint(b))

	f.d.SlotAngleSet(a, 20)
	f.d.SlotAngleSet(a, 30)
	f.d.SlotArcSet(a, 90)
	assert.Equal(t, -30.0, b.Angle())
	assert.Equal(t, 90.0, b.Arc())
	assert.Equal(t, 2, f.o.UndoLen())

	require.True(t, f.o.Undo())
	assert.Equal(t, 0.0, b.Arc())
	require.True(t, f.o.Undo())
	assert.Equal(t, 0.0, a.Angle())
	assert.Equal(t, 0.0, b.Angle())
}

func TestBayAttributes(t *testing.T) {
	f := newFixture(t, true)
	bay := f.layer.NewBay()
	require.NoError(t, f.layer.Bays.AddPoint(points.NewLaunchPort(pt(1, 1), bay)))

	f.d.SlotAngleSet(bay, 45)
	f.d.SlotMountChanged(bay, points.MountTurret)
	f.d.SlotSizeChanged(bay, points.SizeLarge)
	assert.Equal(t, 45.0, bay.Angle())
	assert.Equal(t, points.MountTurret, bay.WeaponMount())
	assert.Equal(t, points.SizeLarge, bay.WeaponSize())

	require.NoError(t, f.d.SlotIDChanged(bay, "LB0042"))
	assert.Equal(t, bay, f.layer.Bays.BayByID("LB0042"))
}

func TestSlotIDChangedRejectsTaken(t *testing.T) {
	f := newFixture(t, false)
	a := points.NewWeaponSlot(pt(5, 0), "WS0001")
	b := points.NewWeaponSlot(pt(6, 0), "WS0002")
	require.NoError(t, f.layer.Slots.AddPoint(a))
	require.NoError(t, f.layer.Slots.AddPoint(b))

	assert.ErrorIs(t, f.d.SlotIDChanged(b, "WS0001"), ErrSlotIDTaken)
	require.NoError(t, f.d.SlotIDChanged(b, "WS0002"))
	assert.Equal(t, 0, f.o.UndoLen())

	require.NoError(t, f.d.SlotIDChanged(b, "WS0100"))
	require.True(t, f.o.Undo())
	assert.Equal(t, "WS0002", b.SlotID())
}

func TestEngineEdits(t *testing.T) {
	f := newFixture(t, true)
	left := points.NewEngine(pt(-4, 8), 180, geometry.Size{Width: 2, Height: 6})
	right := points.NewEngine(pt(4, 8), 180, geometry.Size{Width: 2, Height: 6})
	require.NoError(t, f.layer.Engines.AddPoint(left))
	require.NoError(t, f.layer.Engines.AddPoint(right))

	require.NoError(t, f.d.EngineAngleSet(left, 170))
	assert.Equal(t, -170.0, right.Angle())
	require.NoError(t, f.d.EngineSizeChanged(left, geometry.Size{Width: 3, Height: 9}))
	require.NoError(t, f.d.EngineContrailChanged(left, 128))
	require.NoError(t, f.d.EngineStyleChanged(left, "HIGH_TECH"))
	f.release()
	assert.Equal(t, 4, f.o.UndoLen())

	for f.o.Undo() {
	}
	assert.Equal(t, 180.0, left.Angle())
	assert.Equal(t, 180.0, right.Angle())
	assert.Equal(t, geometry.Size{Width: 2, Height: 6}, left.EngineSize())
	assert.Equal(t, 0.0, left.Contrail())
	assert.Equal(t, "LOW_TECH", left.Style())

	slot := points.NewWeaponSlot(pt(0, 0), "WS0001")
	assert.ErrorIs(t, f.d.EngineAngleSet(slot, 10), points.ErrInvalidPointKind)
	assert.ErrorIs(t, f.d.EngineStyleChanged(nil, "X"), points.ErrInvalidPointKind)
}

func TestRadiusEdits(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, f.d.CollisionRadiusChanged(12))
	require.NoError(t, f.d.CollisionRadiusChanged(14))
	assert.Equal(t, 1, f.o.UndoLen())

	assert.ErrorIs(t, f.d.ShieldRadiusChanged(30), ErrNoCenter)
	require.NoError(t, f.layer.Shield.AddPoint(points.NewShieldCenter(pt(0, 0), 25)))
	require.NoError(t, f.d.ShieldRadiusChanged(30))
	assert.Equal(t, 2, f.o.UndoLen())

	require.True(t, f.o.Undo())
	require.True(t, f.o.Undo())
	assert.Equal(t, 10.0, f.layer.Center.Center().Radius())
	assert.Equal(t, 25.0, f.layer.Shield.Center().Radius())
}

func TestRearrangeRejectsForeignKind(t *testing.T) {
	f := newFixture(t, false)
	err := f.d.EnginesRearranged([]*points.Point{points.NewBound(pt(0, 0))})
	assert.ErrorIs(t, err, points.ErrInvalidPointKind)
	assert.Equal(t, 0, f.o.UndoLen())

	a := points.NewWeaponSlot(pt(1, 0), "WS0001")
	b := points.NewWeaponSlot(pt(2, 0), "WS0002")
	require.NoError(t, f.layer.Slots.AddPoint(a))
	require.NoError(t, f.layer.Slots.AddPoint(b))
	require.NoError(t, f.d.SlotsRearranged([]*points.Point{b, a}))
	require.True(t, f.o.Undo())
	assert.Equal(t, []*points.Point{a, b}, f.layer.Slots.Points())
}

func TestRepaintEvents(t *testing.T) {
	f := newFixture(t, false)
	slot := points.NewWeaponSlot(pt(3, 3), "WS0001")
	require.NoError(t, f.layer.Slots.AddPoint(slot))

	counts := map[event.Type]int{}
	f.bus.SubscribeAll(func(e event.Event) { counts[e.Type]++ })

	f.d.SlotSizeChanged(slot, points.SizeLarge)
	assert.Equal(t, 1, counts[event.ViewerRepaintQueued])
	assert.Equal(t, 1, counts[event.SlotControlRepaintQueued])
	assert.Equal(t, 1, counts[event.HistoryChanged])

	require.True(t, f.o.Undo())
	assert.Equal(t, 2, counts[event.SlotControlRepaintQueued])
	assert.Equal(t, 2, counts[event.HistoryChanged])
}
