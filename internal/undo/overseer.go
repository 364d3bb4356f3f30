package undo

import (
	"log"

	"ship-editor/internal/event"
)

// Overseer holds the undo and redo stacks. It is not safe for concurrent
// use; every call happens on the editor's logical thread.
type Overseer struct {
	bus       *event.Bus
	undoStack []*Edit
	redoStack []*Edit
}

// NewOverseer creates an empty history publishing HistoryChanged on bus.
func NewOverseer(bus *event.Bus) *Overseer {
	if bus == nil {
		bus = event.NewBus()
	}
	return &Overseer{bus: bus}
}

// Post pushes e, finishing the previous top and discarding every redoable
// edit.
func (o *Overseer) Post(e *Edit) {
	if top := o.Top(); top != nil {
		top.Finish()
	}
	o.undoStack = append(o.undoStack, e)
	o.redoStack = nil
	o.changed()
}

// Top returns the next undoable edit, or nil.
func (o *Overseer) Top() *Edit {
	if len(o.undoStack) == 0 {
		return nil
	}
	return o.undoStack[len(o.undoStack)-1]
}

// Undo reverts the top edit. It reports false when there is nothing to undo.
func (o *Overseer) Undo() bool {
	n := len(o.undoStack)
	if n == 0 {
		return false
	}
	e := o.undoStack[n-1]
	o.undoStack = o.undoStack[:n-1]

	e.Undo()
	e.Finish()
	o.redoStack = append(o.redoStack, e)
	log.Printf("Undo: %s", e.Name)
	o.changed()
	return true
}

// Redo reapplies the most recently undone edit.
func (o *Overseer) Redo() bool {
	n := len(o.redoStack)
	if n == 0 {
		return false
	}
	e := o.redoStack[n-1]
	o.redoStack = o.redoStack[:n-1]

	e.Redo()
	o.undoStack = append(o.undoStack, e)
	log.Printf("Redo: %s", e.Name)
	o.changed()
	return true
}

func (o *Overseer) CanUndo() bool { return len(o.undoStack) > 0 }
func (o *Overseer) CanRedo() bool { return len(o.redoStack) > 0 }
func (o *Overseer) UndoLen() int { return len(o.undoStack) }
func (o *Overseer) RedoLen() int { return len(o.redoStack) }

// Clear drops the whole history, as after loading a new layout.
func (o *Overseer) Clear() {
	o.undoStack = nil
	o.redoStack = nil
	o.changed()
}

// History returns the undo stack names, oldest first.
func (o *Overseer) History() []string {
	names := make([]string, len(o.undoStack))
	for i, e := range o.undoStack {
		names[i] = e.Name
	}
	return names
}

func (o *Overseer) changed() {
	o.bus.Emit(event.HistoryChanged, o)
}
