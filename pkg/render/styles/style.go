// Package styles turns a placed canopy outline into the marks of one of four
// illustration styles.
//
// Every [Renderer] obeys the same contract:
//
//   - All coordinates it emits lie inside or on the outline polygon, and
//     circles lie entirely inside it.
//   - All randomness comes from [Context.Source], through child sources
//     named after the concern ("outline", "texture", "branches", "accent"),
//     so the draw order of one concern never shifts another.
//   - Sizes are derived from paper millimeters at the drawing scale, so a
//     pen line looks the same width at 1:20 and 1:200.
//
// Bare crowns (deciduous in winter) are drawn as branch structure in every
// style.
package styles

import (
	"math"
	"slices"

	"github.com/matzehuels/canopy/pkg/botanical"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/palette"
	"github.com/matzehuels/canopy/pkg/scale"
	"github.com/matzehuels/canopy/pkg/variation"
)

// Style names an illustration style.
type Style string

const (
	Scientific Style = "scientific"
	Watercolor Style = "watercolor"
	Marker     Style = "marker"
	HandDrawn  Style = "hand-drawn"
)

// All lists the styles in canonical order; pack cell positions use it.
var All = []Style{Scientific, Watercolor, Marker, HandDrawn}

func (s Style) Valid() bool { return slices.Contains(All, s) }

// Index returns the canonical position of s, or -1.
func (s Style) Index() int { return slices.Index(All, s) }

// Parse validates a style name. "handdrawn" is accepted as an alias.
func Parse(s string) (Style, error) {
	if s == "handdrawn" {
		return HandDrawn, nil
	}
	if v := Style(s); v.Valid() {
		return v, nil
	}
	return "", errors.New(errors.ErrCodeInvalidStyle,
		"invalid style %q (allowed: %v)", s, All).WithField("style")
}

// Context carries everything a renderer needs for one symbol.
type Context struct {
	Outline geom.Polygon // placed outline in document coordinates
	Params  botanical.Parameters
	Palette palette.Palette
	Source  *variation.Source
	Sampler variation.Sampler // nil selects variation.PoissonDisk
	Scale   scale.Scale
}

// Renderer draws the plant body in one style.
type Renderer interface {
	Render(ctx Context) Layer
}

// For returns the renderer for s.
func For(s Style) (Renderer, error) {
	switch s {
	case Scientific:
		return scientific{}, nil
	case Watercolor:
		return watercolor{}, nil
	case Marker:
		return marker{}, nil
	case HandDrawn:
		return handDrawn{}, nil
	}
	_, err := Parse(string(s))
	return nil, err
}

func (c Context) sampler() variation.Sampler {
	if c.Sampler == nil {
		return variation.PoissonDisk{}
	}
	return c.Sampler
}

func (c Context) denominator() float64 {
	if !c.Scale.Valid() {
		return float64(scale.Default)
	}
	return float64(c.Scale)
}

// pen converts a paper width in millimeters to document centimeters.
func (c Context) pen(mm float64) float64 { return mm / 10 * c.denominator() }

// size converts a paper size to document centimeters, clamped to a sane
// fraction of the crown so marks neither vanish nor swamp the outline.
func (c Context) size(mm float64) float64 {
	d := c.Outline.Bounds().Diagonal()
	return max(d/200, min(c.pen(mm), d/6))
}

// foliage is the effective fraction of the crown that carries foliage.
func (c Context) foliage() float64 {
	return c.Params.CrownDensity * c.Palette.FoliageDensity
}

func (c Context) grain() grain {
	if g, ok := grains[c.Params.CrownTexture]; ok {
		return g
	}
	return grains[botanical.Medium]
}

// grain holds the texture-dependent sizes on paper.
type grain struct {
	markMM   float64 // foliage mark radius
	lineMM   float64 // outline pen width
	hatchDeg float64 // hatch angle from horizontal
	hatchMM  float64 // hatch spacing at full density
	dashMM   float64 // marker dash length
}

var grains = map[botanical.CrownTexture]grain{
	botanical.Fine:   {markMM: 0.6, lineMM: 0.18, hatchDeg: 30, hatchMM: 1.2, dashMM: 1.5},
	botanical.Medium: {markMM: 1.0, lineMM: 0.25, hatchDeg: 45, hatchMM: 1.8, dashMM: 3},
	botanical.Coarse: {markMM: 1.6, lineMM: 0.35, hatchDeg: 60, hatchMM: 2.6, dashMM: 5},
	botanical.Needle: {markMM: 0.4, lineMM: 0.18, hatchDeg: 80, hatchMM: 1.0, dashMM: 1},
}

// markBudget is how many marks of radius r fit the crown at coverage f.
func markBudget(poly geom.Polygon, r, f float64, ceiling int) int {
	if f <= 0 || r <= 0 {
		return 0
	}
	n := int(math.Round(f * poly.Area() / (math.Pi * r * r)))
	return min(n, ceiling)
}

// jitterIn nudges every vertex toward the centroid by up to frac of the
// distance. Each vertex consumes one draw; a nudged vertex that leaves
// the polygon falls back to the original.
func jitterIn(poly geom.Polygon, frac float64, src *variation.Source) []geom.Point {
	c := poly.Centroid()
	out := make([]geom.Point, len(poly))
	for i, v := range poly {
		p := v.Lerp(c, src.Range(0, frac))
		if !poly.Contains(p) {
			p = v
		}
		out[i] = p
	}
	return out
}

// disc clamps a circle of radius r at p so it stays inside poly. The second
// result is false when too little room is left to be worth drawing.
func disc(poly geom.Polygon, p geom.Point, r float64) (float64, bool) {
	room := poly.DistanceToEdge(p)
	r = min(r, room)
	return r, r > 0 && poly.Contains(p)
}
