package layout

import (
	"encoding/json"
	"fmt"

	"ship-editor/pkg/geometry"
)

// Vec2 is a single position stored as a two-element array, [x, y].
type Vec2 struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
}

func vec(p geometry.Point2D) Vec2 { return Vec2{X: p.X, Y: p.Y} }

// Point returns the position as a geometry point.
func (v Vec2) Point() geometry.Point2D { return geometry.Point2D{X: v.X, Y: v.Y} }

func (v Vec2) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{v.X, v.Y})
}

func (v *Vec2) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if len(arr) != 2 {
		return fmt.Errorf("position: want 2 coordinates, got %d", len(arr))
	}
	v.X, v.Y = arr[0], arr[1]
	return nil
}

// FlatPoints is an ordered point list stored as one flat coordinate array,
// [x0, y0, x1, y1, ...].
type FlatPoints []geometry.Point2D

func (f FlatPoints) MarshalJSON() ([]byte, error) {
	flat := make([]float64, 0, len(f)*2)
	for _, p := range f {
		flat = append(flat, p.X, p.Y)
	}
	return json.Marshal(flat)
}

func (f *FlatPoints) UnmarshalJSON(data []byte) error {
	var flat []float64
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("point array: %w", err)
	}
	if len(flat)%2 != 0 {
		return fmt.Errorf("point array: odd coordinate count %d", len(flat))
	}
	pts := make(FlatPoints, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		pts = append(pts, geometry.Point2D{X: flat[i], Y: flat[i+1]})
	}
	*f = pts
	return nil
}
