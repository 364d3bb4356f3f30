package undo

import (
	"log"

	"ship-editor/internal/control"
	"ship-editor/internal/event"
	"ship-editor/internal/layer"
	"ship-editor/internal/points"
)

// Dispatch turns geometry change requests into applied, recorded edits.
// Gesture kinds coalesce into the open top edit until the gesture ends,
// either through Gesture.End or a PointerReleased event on the bus.
type Dispatch struct {
	layer    *layer.ShipLayer
	overseer *Overseer
	settings *control.Settings
	bus      *event.Bus

	gesture *Gesture
}

// NewDispatch creates a dispatcher editing l and recording into o.
func NewDispatch(l *layer.ShipLayer, o *Overseer) *Dispatch {
	return &Dispatch{
		layer:    l,
		overseer: o,
		settings: l.Settings(),
		bus:      l.Bus(),
	}
}

// Overseer returns the history the dispatcher records into.
func (d *Dispatch) Overseer() *Overseer { return d.overseer }

// Layer returns the edited layer.
func (d *Dispatch) Layer() *layer.ShipLayer { return d.layer }

// Gesture scopes a run of continuous input. Every gesture-kind edit posted
// while it is open is finished by End.
type Gesture struct {
	d      *Dispatch
	edits  []*Edit
	handle event.Handle
	ended  bool
}

// BeginGesture opens a gesture, ending the previous one. The gesture also
// ends on the next PointerReleased event.
func (d *Dispatch) BeginGesture() *Gesture {
	if d.gesture != nil {
		d.gesture.End()
	}
	g := &Gesture{d: d}
	g.handle = d.bus.Subscribe(event.PointerReleased, func(event.Event) { g.End() })
	d.gesture = g
	return g
}

// ActiveGesture returns the open gesture, or nil.
func (d *Dispatch) ActiveGesture() *Gesture {
	if d.gesture == nil || d.gesture.ended {
		return nil
	}
	return d.gesture
}

// EndGesture ends the open gesture, if any.
func (d *Dispatch) EndGesture() {
	if g := d.ActiveGesture(); g != nil {
		g.End()
	}
}

// End finishes the gesture's edits and drops its bus subscription.
func (g *Gesture) End() {
	if g.ended {
		return
	}
	g.ended = true
	for _, e := range g.edits {
		e.Finish()
	}
	g.d.bus.Unsubscribe(g.handle)
	if g.d.gesture == g {
		g.d.gesture = nil
	}
}

// Ended reports whether End has run.
func (g *Gesture) Ended() bool { return g.ended }

// Edits returns the number of history entries the gesture opened.
func (g *Gesture) Edits() int { return len(g.edits) }

// continuous applies e and either merges it into the open top edit of the
// same kind or posts it as a new entry tracked by the active gesture.
func (d *Dispatch) continuous(e *Edit) {
	e.redo()

	// A finished top is never merged into; the step starts a new entry
	if top := d.overseer.Top(); top != nil && top.Kind == e.Kind && !top.Finished() {
		err := top.Merge(e)
		if err == nil {
			return
		}
		log.Printf("Dispatch: %v, recording new edit", err)
	}

	d.overseer.Post(e)
	g := d.ActiveGesture()
	if g == nil {
		g = d.BeginGesture()
	}
	g.edits = append(g.edits, e)
}

// discrete applies e and posts it as a finished entry.
func (d *Dispatch) discrete(e *Edit) {
	e.redo()
	e.Finish()
	d.overseer.Post(e)
}

// record posts an edit whose change was already applied by the caller.
func (d *Dispatch) record(e *Edit) {
	e.Finish()
	d.overseer.Post(e)
}

// repaint publishes the viewer refresh plus the panels of the given roles.
func (d *Dispatch) repaint(kinds ...points.Kind) {
	d.bus.Emit(event.ViewerRepaintQueued, nil)
	seen := make(map[event.Type]bool, len(kinds))
	for _, k := range kinds {
		t := layer.PanelEvent(k)
		if !seen[t] {
			seen[t] = true
			d.bus.Emit(t, nil)
		}
	}
}

// counterpart returns p's mirrored counterpart when mirror mode is on and
// the role is mirrorable.
func (d *Dispatch) counterpart(p *points.Point) *points.Point {
	if !d.settings.MirrorMode || p == nil {
		return nil
	}
	m, ok := d.layer.Mirrorable(p.Kind())
	if !ok {
		return nil
	}
	return m.MirroredCounterpart(p)
}
