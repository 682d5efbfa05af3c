package geom

import (
	"math"
	"slices"
)

// Segment is a straight line between two points.
type Segment struct {
	A, B Point
}

func (s Segment) Len() float64 { return s.A.Dist(s.B) }
func (s Segment) Mid() Point { return s.A.Lerp(s.B, 0.5) }

// Chords intersects p with a family of parallel lines and returns the
// interior pieces. Lines run at angle (radians) and are spaced evenly along
// the normal, starting offset in (0, spacing] past the extreme vertex.
// Each piece is shortened by inset at both ends; pieces shorter than
// 2*inset are dropped. Results are ordered line by line, then along the
// line direction.
func (p Polygon) Chords(angle, spacing, offset, inset float64) []Segment {
	if len(p) < 3 || spacing <= 0 {
		return nil
	}
	dir := Point{math.Cos(angle), math.Sin(angle)}
	nrm := Point{-dir.Y, dir.X}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range p {
		t := v.Dot(nrm)
		lo = min(lo, t)
		hi = max(hi, t)
	}

	var out []Segment
	var hits []float64
	for t := lo + offset; t < hi; t += spacing {
		hits = hits[:0]
		for i := range p {
			a, b := p[i], p[(i+1)%len(p)]
			sa, sb := a.Dot(nrm)-t, b.Dot(nrm)-t
			if (sa > 0) == (sb > 0) {
				continue
			}
			x := a.Lerp(b, sa/(sa-sb))
			hits = append(hits, x.Dot(dir))
		}
		slices.Sort(hits)
		base := nrm.Scale(t)
		for i := 0; i+1 < len(hits); i += 2 {
			u0, u1 := hits[i]+inset, hits[i+1]-inset
			if u1-u0 <= 0 {
				continue
			}
			out = append(out, Segment{
				A: base.Add(dir.Scale(u0)),
				B: base.Add(dir.Scale(u1)),
			})
		}
	}
	return out
}
