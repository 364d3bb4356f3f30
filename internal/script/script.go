// Package script replays recorded editor input against a session. A script
// is YAML: a name and a list of single-action steps.
//
//	name: widen bow
//	steps:
//	  - role: bound
//	  - select: [10, 10]
//	  - drag: [12, 12]
//	  - release
//	  - undo: 2
package script

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"ship-editor/internal/control"
	"ship-editor/internal/points"
	"ship-editor/internal/session"
	"ship-editor/pkg/geometry"
)

var (
	// ErrUnknownAction is returned for a step whose action is not recognized.
	ErrUnknownAction = errors.New("unknown script action")
	// ErrHistoryExhausted is returned when an undo or redo step has nothing
	// left to apply.
	ErrHistoryExhausted = errors.New("history exhausted")
)

// Script is a named list of steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one input request. Which argument field is used depends on Action.
type Step struct {
	Action string
	Line   int

	Point geometry.Point2D // select, drag, add, insert, anchor, flame
	Value float64          // angle, arc, rotate, radius, contrail
	Count int              // undo, redo, order
	Flag  bool             // mirror
	Text  string           // mode, role, type, mount, size, id, style
}

var roles = map[string]points.Kind{
	"bound":  points.KindBound,
	"slot":   points.KindWeaponSlot,
	"engine": points.KindEngine,
	"bay":    points.KindLaunchPort,
	"center": points.KindShipCenter,
	"shield": points.KindShieldCenter,
}

// UnmarshalYAML accepts either a bare action ("release") or a one-entry
// mapping from action to argument ("drag: [3, 4]").
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	s.Line = node.Line
	switch node.Kind {
	case yaml.ScalarNode:
		s.Action = node.Value
		switch s.Action {
		case "release", "remove":
		case "undo", "redo":
			s.Count = 1
		case "select", "drag", "add", "insert", "anchor", "angle", "arc", "rotate", "mirror", "mode", "role":
			return fmt.Errorf("line %d: %s needs an argument", node.Line, s.Action)
		default:
			return fmt.Errorf("line %d: %q: %w", node.Line, s.Action, ErrUnknownAction)
		}
		return nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: step must hold exactly one action", node.Line)
		}
	default:
		return fmt.Errorf("line %d: step must be an action or a mapping", node.Line)
	}

	s.Action = node.Content[0].Value
	arg := node.Content[1]
	var err error
	switch s.Action {
	case "select", "drag", "add", "insert", "anchor", "flame":
		s.Point, err = decodePoint(arg)
	case "angle", "arc", "rotate", "radius", "contrail":
		err = arg.Decode(&s.Value)
	case "undo", "redo", "order":
		err = arg.Decode(&s.Count)
	case "mirror":
		err = arg.Decode(&s.Flag)
	case "mode", "type", "mount", "size", "id", "style":
		err = arg.Decode(&s.Text)
	case "role":
		if err = arg.Decode(&s.Text); err == nil {
			if _, ok := roles[strings.ToLower(s.Text)]; !ok {
				err = fmt.Errorf("unknown role %q", s.Text)
			}
		}
	case "release", "remove":
	default:
		return fmt.Errorf("line %d: %q: %w", node.Line, s.Action, ErrUnknownAction)
	}
	if err != nil {
		return fmt.Errorf("line %d: %s: %w", node.Line, s.Action, err)
	}
	return nil
}

func decodePoint(node *yaml.Node) (geometry.Point2D, error) {
	var xy []float64
	if err := node.Decode(&xy); err != nil {
		return geometry.Point2D{}, err
	}
	if len(xy) != 2 {
		return geometry.Point2D{}, fmt.Errorf("want [x, y], got %d values", len(xy))
	}
	return geometry.Point2D{X: xy[0], Y: xy[1]}, nil
}

// Parse reads a script from r.
func Parse(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	sc, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// Run applies every step to s in order and stops at the first failure.
// Positions are in world space, as pointer input would be.
func (sc *Script) Run(s *session.Session) error {
	for i, step := range sc.Steps {
		if err := step.apply(s); err != nil {
			return fmt.Errorf("step %d (%s, line %d): %w", i+1, step.Action, step.Line, err)
		}
	}
	log.Printf("Script: %s ran %d steps, %d undoable edits", sc.Name, len(sc.Steps), s.History.UndoLen())
	return nil
}

func (step Step) apply(s *session.Session) error {
	switch step.Action {
	case "role":
		return s.SetRole(roles[strings.ToLower(step.Text)])
	case "mirror":
		s.SetMirrorMode(step.Flag)
	case "mode":
		s.SetSelectionMode(control.ParseSelectionMode(step.Text))
	case "select":
		if s.SelectAt(step.Point) == nil {
			log.Printf("Script: nothing selected at %v", step.Point)
		}
	case "drag":
		return s.DragSelected(step.Point)
	case "release":
		s.EndGesture()
	case "add":
		_, err := s.AddPointAt(step.Point)
		return err
	case "insert":
		_, err := s.InsertBoundAt(step.Point)
		return err
	case "remove":
		return s.RemoveSelected()
	case "undo":
		for n := 0; n < step.Count; n++ {
			if !s.Undo() {
				return ErrHistoryExhausted
			}
		}
	case "redo":
		for n := 0; n < step.Count; n++ {
			if !s.Redo() {
				return ErrHistoryExhausted
			}
		}
	case "angle":
		return s.SetAngle(step.Value)
	case "arc":
		return s.SetArc(step.Value)
	case "rotate":
		s.RotateLayer(step.Value)
	case "anchor":
		s.MoveAnchor(step.Point)
	case "radius":
		return s.SetRadius(step.Value)
	case "type":
		return s.SetSlotType(step.Text)
	case "mount":
		return s.SetSlotMount(step.Text)
	case "size":
		return s.SetSlotSize(step.Text)
	case "id":
		return s.RenameSelected(step.Text)
	case "flame":
		return s.SetEngineSize(geometry.Size{Width: step.Point.X, Height: step.Point.Y})
	case "contrail":
		return s.SetContrail(step.Value)
	case "style":
		return s.SetEngineStyle(step.Text)
	case "order":
		return s.MoveSelectedTo(step.Count)
	default:
		return fmt.Errorf("%q: %w", step.Action, ErrUnknownAction)
	}
	return nil
}
