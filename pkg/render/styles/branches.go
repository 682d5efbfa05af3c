package styles

import (
	"math"

	"github.com/matzehuels/canopy/pkg/botanical"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/variation"
)

const (
	maxBranchDepth = 5
	maxBranches    = 120
)

// finish adds the winter structure shared by all styles: the branch
// skeleton when the crown is bare or bark interest shows through, then
// berry or flower dots.
func finish(ctx Context, l *Layer) {
	if ctx.Palette.ShowsBranches() {
		drawBranches(ctx, l)
	}
	if ctx.Palette.ShowsAccentDots() {
		drawAccentDots(ctx, l)
	}
}

// trunk returns the vertical chord through the crown's centroid, inset from
// the outline. Its B end is the lowest point and serves as the trunk base.
func trunk(poly geom.Polygon, inset float64) (geom.Segment, bool) {
	b := poly.Bounds()
	x := poly.Centroid().X
	chords := poly.Chords(math.Pi/2, b.W()+1, b.Max.X-x, inset)
	if len(chords) == 0 {
		return geom.Segment{}, false
	}
	best := chords[0]
	for _, c := range chords[1:] {
		if c.Len() > best.Len() {
			best = c
		}
	}
	return best, true
}

type brancher struct {
	poly  geom.Polygon
	src   *variation.Source
	layer *Layer
	color string
	min   float64
	count int
}

func drawBranches(ctx Context, l *Layer) {
	poly := ctx.Outline
	span, ok := trunk(poly, ctx.size(0.5))
	if !ok {
		return
	}
	b := &brancher{
		poly:  poly,
		src:   ctx.Source.Derive("branches"),
		layer: l,
		color: ctx.Palette.Stroke,
		min:   ctx.pen(0.12),
	}
	angle := -math.Pi/2 + b.src.Jitter(0.08)
	b.grow(span.B, angle, span.Len()*0.45, ctx.pen(0.7), 0)
}

// grow draws one branch and recurses into its children. Every node makes
// the same draws whether or not its branch fits, so pruning one branch
// never reshuffles its siblings.
func (b *brancher) grow(from geom.Point, angle, length, width float64, depth int) {
	if depth > maxBranchDepth || b.count >= maxBranches {
		return
	}
	bend := b.src.Jitter(0.15)
	n := 2 + b.src.IntN(2)
	turns := make([]float64, n)
	shrinks := make([]float64, n)
	for i := range n {
		turns[i] = b.src.Range(0.3, 0.75)
		shrinks[i] = b.src.Range(0.6, 0.78)
	}

	a := angle + bend
	to := from.Add(geom.Point{X: math.Cos(a), Y: math.Sin(a)}.Scale(length))
	if !b.poly.SegmentInside(from, to) {
		to = from.Lerp(to, 0.5)
		if !b.poly.SegmentInside(from, to) {
			return
		}
	}
	b.layer.add(Mark{
		Kind:   KindPolyline,
		Class:  ClassBranch,
		Points: []geom.Point{from, to},
		Stroke: b.color,
		Width:  max(width, b.min),
	})
	b.count++

	for i := range n {
		side := 1.0
		if i%2 == 0 {
			side = -1
		}
		turn := turns[i]
		if i == 2 {
			turn *= 0.3
		}
		b.grow(to, a+side*turn, length*shrinks[i], width*0.7, depth+1)
	}
}

func drawAccentDots(ctx Context, l *Layer) {
	src := ctx.Source.Derive("accent")
	n, mm := 24, 0.5
	if ctx.Palette.Interest == botanical.Flowers {
		n, mm = 16, 0.7
	}
	r := ctx.size(mm)
	pts := ctx.sampler().SampleInterior(ctx.Outline, 3*r, n, src)
	for _, p := range pts {
		rr, ok := disc(ctx.Outline, p, r*src.Range(0.8, 1.2))
		if !ok {
			continue
		}
		l.add(Mark{
			Kind:   KindCircle,
			Class:  ClassAccent,
			Center: p,
			Radius: rr,
			Fill:   ctx.Palette.Accent,
		})
	}
}
