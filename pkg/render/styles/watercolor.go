package styles

// watercolor lays two soft washes, scatters blue-noise blotches over them
// and finishes with an irregular, slightly inset edge.
type watercolor struct{}

func (watercolor) Render(ctx Context) Layer {
	var l Layer
	poly := ctx.Outline
	g := ctx.grain()
	edge := ctx.Source.Derive("outline")
	tex := ctx.Source.Derive("texture")

	for i, col := range []string{ctx.Palette.Fill, ctx.Palette.Secondary} {
		op := 0.35 - 0.1*float64(i)
		if ctx.Palette.Bare {
			col, op = ctx.Palette.Secondary, 0.1
		}
		l.add(Mark{
			Kind:    KindPath,
			Class:   ClassWash,
			Points:  jitterIn(poly, 0.04+0.03*float64(i), edge),
			Fill:    col,
			Opacity: op,
		})
	}

	r := max(ctx.size(g.markMM*6), poly.Bounds().Diagonal()/30)
	limit := markBudget(poly, r, ctx.foliage(), 400)
	for _, p := range ctx.sampler().SampleInterior(poly, r*1.1, limit, tex) {
		rf := tex.Range(0.7, 1.2)
		op := tex.Range(0.2, 0.45)
		col := ctx.Palette.Fill
		if tex.Float64() < 0.5 {
			col = ctx.Palette.Secondary
		}
		rr, ok := disc(poly, p, r*rf)
		if !ok {
			continue
		}
		l.add(Mark{Kind: KindCircle, Class: ClassFoliage, Center: p, Radius: rr, Fill: col, Opacity: op})
	}

	l.add(Mark{
		Kind:    KindPath,
		Class:   ClassOutline,
		Points:  jitterIn(poly, 0.015, edge),
		Stroke:  ctx.Palette.Stroke,
		Width:   ctx.pen(g.lineMM),
		Opacity: 0.55,
	})

	finish(ctx, &l)
	return l
}
