package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// segmentTieEpsilon is the distance difference below which two segments are
// considered equally near.
const segmentTieEpsilon = 1e-9

// SegmentDistance returns the shortest distance from p to the segment a-b.
// A degenerate segment (a == b) measures the distance to that point.
func SegmentDistance(p, a, b Point2D) float64 {
	ab := r2.Sub(b.Vec(), a.Vec())
	ap := r2.Sub(p.Vec(), a.Vec())

	lenSq := r2.Norm2(ab)
	if lenSq == 0 {
		return r2.Norm(ap)
	}

	// Project onto the segment and clamp to its endpoints
	t := r2.Dot(ap, ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	closest := r2.Add(a.Vec(), r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p.Vec(), closest))
}

// NearestSegment finds the polygon edge closest to p, treating the vertex
// list as closed: segment i joins vertex i to vertex (i+1) mod n, so the last
// segment wraps back to the first vertex. Among edges that are equally near,
// the later one wins. Returns ok=false when fewer than 2 vertices exist.
func NearestSegment(p Point2D, polygon []Point2D) (index int, dist float64, ok bool) {
	n := len(polygon)
	if n < 2 {
		return -1, 0, false
	}

	index = -1
	dist = math.MaxFloat64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		d := SegmentDistance(p, polygon[i], polygon[j])
		if d < dist-segmentTieEpsilon || math.Abs(d-dist) <= segmentTieEpsilon {
			index = i
			dist = d
		}
	}
	return index, dist, true
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// SignedArea returns the shoelace area of the closed polygon. Positive values
// mean counter-clockwise winding in a y-up frame.
func SignedArea(polygon []Point2D) float64 {
	n := len(polygon)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r2.Cross(polygon[i].Vec(), polygon[j].Vec())
	}
	return sum / 2
}
