package styles

// scientific is the botanical-plate convention: a single crisp outline whose
// weight follows the crown texture, a faint tint and sparse stippling.
type scientific struct{}

func (scientific) Render(ctx Context) Layer {
	var l Layer
	poly := ctx.Outline
	g := ctx.grain()

	if !ctx.Palette.Bare {
		l.add(Mark{Kind: KindPath, Class: ClassWash, Points: poly.Clone(), Fill: ctx.Palette.Fill, Opacity: 0.12})
	}

	src := ctx.Source.Derive("texture")
	r := ctx.size(g.markMM * 0.35)
	spacing := ctx.size(g.markMM * 2.5)
	limit := markBudget(poly, spacing/2, ctx.foliage()*0.6, 250)
	for _, p := range ctx.sampler().SampleInterior(poly, spacing, limit, src) {
		rr, ok := disc(poly, p, r*src.Range(0.7, 1.3))
		if !ok {
			continue
		}
		l.add(Mark{Kind: KindCircle, Class: ClassFoliage, Center: p, Radius: rr, Fill: ctx.Palette.Stroke})
	}

	outline := Mark{
		Kind:   KindPath,
		Class:  ClassOutline,
		Points: poly.Clone(),
		Stroke: ctx.Palette.Stroke,
		Width:  ctx.pen(g.lineMM),
	}
	if ctx.Palette.Bare {
		outline.Opacity = 0.45
	}
	l.add(outline)

	finish(ctx, &l)
	return l
}
