package styles

import (
	"math"

	"github.com/matzehuels/canopy/pkg/geom"
)

const maxHatchMarks = 1500

// marker is a flat fill with directional dashes. Fine crowns get dense,
// short strokes; coarse crowns sparse, long ones.
type marker struct{}

func (marker) Render(ctx Context) Layer {
	var l Layer
	poly := ctx.Outline
	g := ctx.grain()

	fill, op := ctx.Palette.Fill, 0.85
	if ctx.Palette.Bare {
		fill, op = ctx.Palette.Secondary, 0.15
	}
	l.add(Mark{Kind: KindPath, Class: ClassWash, Points: poly.Clone(), Fill: fill, Opacity: op})

	src := ctx.Source.Derive("texture")
	angle := g.hatchDeg*math.Pi/180 + src.Jitter(5*math.Pi/180)
	if f := ctx.foliage(); f > 0 {
		spacing := ctx.size(g.hatchMM) / math.Sqrt(f)
		dash := ctx.size(g.dashMM)
		gap := dash * 0.6
		chords := poly.Chords(angle, spacing, spacing*src.Range(0.2, 1), ctx.pen(0.3))
		count := 0
	dashes:
		for _, ch := range chords {
			n := ch.Len()
			for u := src.Range(0, gap); u < n; u += dash + gap {
				end := min(u+dash, n)
				if end-u < dash*0.3 {
					continue
				}
				if count >= maxHatchMarks {
					break dashes
				}
				count++
				l.add(Mark{
					Kind:    KindPolyline,
					Class:   ClassHatch,
					Points:  []geom.Point{ch.A.Lerp(ch.B, u/n), ch.A.Lerp(ch.B, end/n)},
					Stroke:  ctx.Palette.Stroke,
					Width:   ctx.pen(0.5),
					Opacity: 0.7,
				})
			}
		}
	}

	l.add(Mark{
		Kind:   KindPath,
		Class:  ClassOutline,
		Points: poly.Clone(),
		Stroke: ctx.Palette.Stroke,
		Width:  ctx.pen(0.5),
	})

	finish(ctx, &l)
	return l
}
