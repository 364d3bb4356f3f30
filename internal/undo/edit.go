// Package undo provides the edit history: recorded edits, the overseer that
// stacks them, and the dispatcher that applies geometry changes as edits.
package undo

import (
	"errors"
	"fmt"
)

// ErrStaleMerge is returned when merging into an edit that is already
// finished.
var ErrStaleMerge = errors.New("merge into finished edit")

// Kind tags an edit. Gesture kinds coalesce while their gesture is open;
// every other kind is recorded as its own finished entry.
type Kind int

const (
	// Gesture kinds
	KindPointDrag Kind = iota
	KindAnchorOffset
	KindLayerRotation
	KindCollisionRadius
	KindShieldRadius
	KindSlotAngle
	KindSlotArc
	KindEngineAngle
	KindEngineSize
	KindEngineContrail

	// Discrete kinds
	KindPointAdd
	KindPointRemove
	KindPointInsert
	KindBoundsSort
	KindSlotsSort
	KindEnginesSort
	KindSlotID
	KindSlotType
	KindSlotMount
	KindSlotSize
	KindEngineStyle
	KindComposite
)

var kindNames = map[Kind]string{
	KindPointDrag:       "Point Drag",
	KindAnchorOffset:    "Anchor Offset",
	KindLayerRotation:   "Layer Rotation",
	KindCollisionRadius: "Collision Radius",
	KindShieldRadius:    "Shield Radius",
	KindSlotAngle:       "Slot Angle",
	KindSlotArc:         "Slot Arc",
	KindEngineAngle:     "Engine Angle",
	KindEngineSize:      "Engine Size",
	KindEngineContrail:  "Engine Contrail",
	KindPointAdd:        "Add Point",
	KindPointRemove:     "Remove Point",
	KindPointInsert:     "Insert Point",
	KindBoundsSort:      "Sort Bounds",
	KindSlotsSort:       "Sort Slots",
	KindEnginesSort:     "Sort Engines",
	KindSlotID:          "Slot ID",
	KindSlotType:        "Slot Type",
	KindSlotMount:       "Slot Mount",
	KindSlotSize:        "Slot Size",
	KindEngineStyle:     "Engine Style",
	KindComposite:       "Composite",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Continuous reports whether edits of this kind coalesce within a gesture.
func (k Kind) Continuous() bool {
	return k >= KindPointDrag && k <= KindEngineContrail
}

// Edit is one undoable history entry. Its recipes are closures capturing the
// old and new values; merged steps of the same gesture are kept as subs.
type Edit struct {
	Kind Kind
	Name string

	finished bool
	undo     func()
	redo     func()
	subs     []*Edit
}

// NewEdit creates an open edit. Discrete edits are finished when posted.
func NewEdit(kind Kind, name string, undo, redo func()) *Edit {
	if name == "" {
		name = kind.String()
	}
	return &Edit{Kind: kind, Name: name, undo: undo, redo: redo}
}

// Finished reports whether the edit can still absorb merged steps.
func (e *Edit) Finished() bool { return e.finished }

// Finish closes the edit. Finishing twice is harmless.
func (e *Edit) Finish() { e.finished = true }

// Steps returns the number of recorded steps, the edit itself included.
func (e *Edit) Steps() int { return 1 + len(e.subs) }

// Merge appends step as part of this edit.
func (e *Edit) Merge(step *Edit) error {
	if e.finished {
		return fmt.Errorf("%s: %w", e.Name, ErrStaleMerge)
	}
	if step.Kind != e.Kind {
		return fmt.Errorf("merge %s into %s: kind mismatch", step.Kind, e.Kind)
	}
	step.finished = true
	e.subs = append(e.subs, step)
	return nil
}

// Undo reverts every merged step, latest first, ending at the value the edit
// started from.
func (e *Edit) Undo() {
	for i := len(e.subs) - 1; i >= 0; i-- {
		e.subs[i].undo()
	}
	e.undo()
}

// Redo reapplies the edit and its merged steps in order, ending at the final
// value.
func (e *Edit) Redo() {
	e.redo()
	for _, s := range e.subs {
		s.redo()
	}
}

func (e *Edit) String() string {
	state := "open"
	if e.finished {
		state = "finished"
	}
	return fmt.Sprintf("%s (%d steps, %s)", e.Name, e.Steps(), state)
}
