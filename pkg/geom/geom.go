// Package geom provides the small amount of planar geometry the symbol
// renderer needs: points, closed polygons, bounding rectangles and chords.
//
// Coordinates are real-world centimeters in document space: x grows to the
// right and y grows downward, matching SVG. A [Polygon] is implicitly
// closed; its first vertex is never repeated at the end.
package geom

import (
	"math"
	"slices"
)

// Point is a 2D position in centimeters.
type Point struct {
	X float64 `json:"x" toml:"x" bson:"x"`
	Y float64 `json:"y" toml:"y" bson:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min, Max Point
}

func (r Rect) W() float64 { return r.Max.X - r.Min.X }
func (r Rect) H() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Center() Point { return r.Min.Lerp(r.Max, 0.5) }
func (r Rect) Diagonal() float64 { return r.Min.Dist(r.Max) }

// Within reports whether r lies inside the square [0, side] x [0, side].
func (r Rect) Within(side float64) bool {
	const eps = 1e-9
	return r.Min.X >= -eps && r.Min.Y >= -eps && r.Max.X <= side+eps && r.Max.Y <= side+eps
}

// Polygon is a closed simple polygon given by its vertices in order.
type Polygon []Point

// Clone returns a copy that shares no memory with p.
func (p Polygon) Clone() Polygon { return slices.Clone(p) }

// Bounds returns the axis-aligned bounding box.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	r := Rect{Min: p[0], Max: p[0]}
	for _, v := range p[1:] {
		r.Min.X = min(r.Min.X, v.X)
		r.Min.Y = min(r.Min.Y, v.Y)
		r.Max.X = max(r.Max.X, v.X)
		r.Max.Y = max(r.Max.Y, v.Y)
	}
	return r
}

func (p Polygon) signedArea() float64 {
	var a float64
	for i := range p {
		j := (i + 1) % len(p)
		a += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return a / 2
}

// Area returns the enclosed area in square centimeters.
func (p Polygon) Area() float64 { return math.Abs(p.signedArea()) }

// Centroid returns the area centroid, falling back to the vertex mean for
// degenerate polygons.
func (p Polygon) Centroid() Point {
	a := p.signedArea()
	if math.Abs(a) < 1e-12 {
		var c Point
		for _, v := range p {
			c = c.Add(v)
		}
		if len(p) == 0 {
			return c
		}
		return c.Scale(1 / float64(len(p)))
	}
	var cx, cy float64
	for i := range p {
		j := (i + 1) % len(p)
		cross := p[i].X*p[j].Y - p[j].X*p[i].Y
		cx += (p[i].X + p[j].X) * cross
		cy += (p[i].Y + p[j].Y) * cross
	}
	return Point{cx / (6 * a), cy / (6 * a)}
}

// Translate returns p moved by d.
func (p Polygon) Translate(d Point) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = v.Add(d)
	}
	return out
}

// Contains reports whether q is strictly inside p (even-odd rule).
// Points exactly on an edge may go either way; use [Polygon.Covers] when the
// boundary counts as inside.
func (p Polygon) Contains(q Point) bool {
	in := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > q.Y) != (b.Y > q.Y) {
			x := a.X + (q.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if q.X < x {
				in = !in
			}
		}
	}
	return in
}

// Covers reports whether q is inside p or within tol of its boundary.
func (p Polygon) Covers(q Point, tol float64) bool {
	return p.Contains(q) || p.DistanceToEdge(q) <= tol
}

// DistanceToEdge returns the distance from q to the nearest polygon edge.
func (p Polygon) DistanceToEdge(q Point) float64 {
	best := math.Inf(1)
	for i := range p {
		best = min(best, segmentDist(q, p[i], p[(i+1)%len(p)]))
	}
	return best
}

func segmentDist(q, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return q.Dist(a)
	}
	t := max(0, min(1, q.Sub(a).Dot(ab)/l2))
	return q.Dist(a.Add(ab.Scale(t)))
}

// SegmentInside reports whether the segment ab lies inside p: both ends are
// inside and the segment crosses no edge.
func (p Polygon) SegmentInside(a, b Point) bool {
	if !p.Contains(a) || !p.Contains(b) {
		return false
	}
	for i := range p {
		if segmentsCross(a, b, p[i], p[(i+1)%len(p)]) {
			return false
		}
	}
	return true
}

// SegmentCovered is [Polygon.SegmentInside] with the boundary counted as
// inside: both ends and the midpoint are covered within tol and the segment
// properly crosses no edge. Outline vertices pass as endpoints.
func (p Polygon) SegmentCovered(a, b Point, tol float64) bool {
	if !p.Covers(a, tol) || !p.Covers(b, tol) || !p.Covers(a.Lerp(b, 0.5), tol) {
		return false
	}
	for i := range p {
		if segmentsCross(a, b, p[i], p[(i+1)%len(p)]) {
			return false
		}
	}
	return true
}

func orient(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func segmentsCross(a, b, c, d Point) bool {
	d1, d2 := orient(c, d, a), orient(c, d, b)
	d3, d4 := orient(a, b, c), orient(a, b, d)
	return ((d1 > 0) != (d2 > 0)) && ((d3 > 0) != (d4 > 0)) &&
		d1 != 0 && d2 != 0 && d3 != 0 && d4 != 0
}
