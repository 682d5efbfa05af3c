package styles

import (
	"math"
	"slices"

	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/variation"
)

// wobbleMM is the largest on-paper offset of a redrawn outline vertex.
const wobbleMM = 0.2

// handDrawn redraws the outline twice with a shaky hand and fills the crown
// with sketchy cross-hatching.
type handDrawn struct{}

func (handDrawn) Render(ctx Context) Layer {
	var l Layer
	poly := ctx.Outline
	g := ctx.grain()
	edge := ctx.Source.Derive("outline")
	tex := ctx.Source.Derive("texture")
	bound := ctx.pen(wobbleMM)

	if f := ctx.foliage(); f > 0 {
		spacing := ctx.size(g.hatchMM*1.5) / math.Sqrt(f)
		base := g.hatchDeg * math.Pi / 180
		inset := ctx.pen(0.3)
		count := 0
		for k, a := range []float64{base, base + math.Pi/2} {
			if k == 1 && f < 0.4 {
				break
			}
			chords := poly.Chords(a+tex.Jitter(0.05), spacing, spacing*tex.Range(0.2, 1), inset)
			for _, ch := range chords {
				if count >= maxHatchMarks {
					break
				}
				count++
				l.add(Mark{
					Kind:    KindPolyline,
					Class:   ClassHatch,
					Points:  sketch(poly, ch, bound, tex),
					Stroke:  ctx.Palette.Stroke,
					Width:   ctx.pen(0.2),
					Opacity: 0.7,
				})
			}
		}
	}

	for pass, op := range []float64{0.85, 0.5} {
		l.add(Mark{
			Kind:    KindPath,
			Class:   ClassOutline,
			Points:  wobble(poly, bound, edge),
			Stroke:  ctx.Palette.Stroke,
			Width:   ctx.pen(g.lineMM * (1.2 - 0.4*float64(pass))),
			Opacity: op,
		})
	}

	finish(ctx, &l)
	return l
}

// wobble offsets each vertex by at most bound. An offset is kept only when
// the vertex stays inside and both strokes to its neighbours stay covered,
// so concave stretches never cut across the outline. Rejected offsets still
// consume their draws.
func wobble(poly geom.Polygon, bound float64, src *variation.Source) []geom.Point {
	const tol = 1e-9
	amp := bound / math.Sqrt2
	n := len(poly)
	out := slices.Clone(poly)
	for i, v := range poly {
		p := v.Add(geom.Point{X: src.Jitter(amp), Y: src.Jitter(amp)})
		// out[i+1] is still the original vertex except when closing the loop.
		prev, next := out[(i+n-1)%n], out[(i+1)%n]
		if poly.Contains(p) && poly.SegmentCovered(prev, p, tol) && poly.SegmentCovered(p, next, tol) {
			out[i] = p
		}
	}
	return out
}

// sketch bends a hatch chord at its midpoint. A bend that would carry the
// stroke outside the polygon is straightened.
func sketch(poly geom.Polygon, ch geom.Segment, bound float64, src *variation.Source) []geom.Point {
	d := ch.B.Sub(ch.A)
	n := math.Hypot(d.X, d.Y)
	off := src.Jitter(bound)
	if n == 0 {
		return []geom.Point{ch.A, ch.B}
	}
	mid := ch.Mid().Add(geom.Point{X: -d.Y / n, Y: d.X / n}.Scale(off))
	if poly.SegmentInside(ch.A, mid) && poly.SegmentInside(mid, ch.B) {
		return []geom.Point{ch.A, mid, ch.B}
	}
	return []geom.Point{ch.A, ch.B}
}
