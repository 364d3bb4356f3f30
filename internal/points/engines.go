package points

import (
	"ship-editor/internal/control"
	"ship-editor/internal/event"
)

// EnginePainter owns the engine points of a layer.
type EnginePainter struct {
	basePainter
}

// NewEnginePainter creates an empty engine painter.
func NewEnginePainter(settings *control.Settings, bus *event.Bus, axis Axis) *EnginePainter {
	p := &EnginePainter{basePainter: newBase(KindEngine, "Engines", settings, bus, axis)}
	p.self = p
	return p
}
