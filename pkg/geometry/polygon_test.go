package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func square() []Point2D {
	return []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
}

func TestSegmentDistance(t *testing.T) {
	tests := []struct {
		name string
		p    Point2D
		a, b Point2D
		want float64
	}{
		{"perpendicular foot inside", Point2D{5, 3}, Point2D{0, 0}, Point2D{10, 0}, 3},
		{"clamped to start", Point2D{-3, 4}, Point2D{0, 0}, Point2D{10, 0}, 5},
		{"clamped to end", Point2D{13, 4}, Point2D{0, 0}, Point2D{10, 0}, 5},
		{"degenerate segment", Point2D{3, 4}, Point2D{0, 0}, Point2D{0, 0}, 5},
		{"on segment", Point2D{0, 5}, Point2D{0, 10}, Point2D{0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SegmentDistance(tt.p, tt.a, tt.b), 1e-12)
		})
	}
}

func TestNearestSegment(t *testing.T) {
	idx, dist, ok := NearestSegment(Point2D{5, 1}, square())
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.InDelta(t, 1, dist, 1e-12)

	idx, _, ok = NearestSegment(Point2D{1, 5}, square())
	assert.True(t, ok)
	assert.Equal(t, 3, idx, "wrap-around edge joins last and first vertex")

	// Exactly on the shared corner: later edge wins.
	idx, _, _ = NearestSegment(Point2D{10, 0}, square())
	assert.Equal(t, 1, idx)

	_, _, ok = NearestSegment(Point2D{1, 1}, []Point2D{{0, 0}})
	assert.False(t, ok)
}

func TestPointInPolygon(t *testing.T) {
	assert.True(t, PointInPolygon(Point2D{5, 5}, square()))
	assert.False(t, PointInPolygon(Point2D{15, 5}, square()))
	assert.False(t, PointInPolygon(Point2D{1, 1}, square()[:2]))
}

func TestSignedArea(t *testing.T) {
	assert.InDelta(t, 100, SignedArea(square()), 1e-12)
	reversed := []Point2D{{0, 10}, {10, 10}, {10, 0}, {0, 0}}
	assert.InDelta(t, -100, SignedArea(reversed), 1e-12)
}

func TestPointTransforms(t *testing.T) {
	p := Point2D{5, 2}
	assert.Equal(t, Point2D{-5, 2}, p.MirrorX(0))
	assert.Equal(t, Point2D{1, 2}, p.MirrorX(3))

	r := Point2D{1, 0}.Rotate(Point2D{}, math.Pi/2)
	assert.InDelta(t, 0, r.X, 1e-12)
	assert.InDelta(t, 1, r.Y, 1e-12)

	assert.InDelta(t, 5, Point2D{3, 4}.Distance(Point2D{}), 1e-12)
}

func TestAffineTransform(t *testing.T) {
	tr := Translation(3, 4).Compose(Rotation(math.Pi / 2))
	out := tr.Apply(Point2D{1, 0})
	assert.InDelta(t, 3, out.X, 1e-12)
	assert.InDelta(t, 5, out.Y, 1e-12)

	inv, ok := tr.Inverse()
	assert.True(t, ok)
	back := inv.Apply(out)
	assert.InDelta(t, 1, back.X, 1e-12)
	assert.InDelta(t, 0, back.Y, 1e-12)

	aff := Translation(7, -2).Aff3()
	assert.Equal(t, 7.0, aff[2])
	assert.Equal(t, -2.0, aff[5])

	pivot := Point2D{5, 5}
	rotated := RotationAbout(pivot, math.Pi).Apply(Point2D{6, 5})
	assert.InDelta(t, 4, rotated.X, 1e-12)
	assert.InDelta(t, 5, rotated.Y, 1e-12)
}

func TestBoundingBoxAndCentroid(t *testing.T) {
	box := BoundingBox(square())
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 10, Height: 10}, box)
	assert.Equal(t, Point2D{5, 5}, Centroid(square()))
	assert.True(t, box.Contains(Point2D{10, 10}))
}
