package styles

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/canopy/pkg/botanical"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/palette"
	"github.com/matzehuels/canopy/pkg/scale"
	"github.com/matzehuels/canopy/pkg/variation"
)

func params(habit botanical.LeafHabit, interest botanical.WinterInterest) botanical.Parameters {
	return botanical.Parameters{
		SpreadCM:       1000,
		HeightCM:       2500,
		ScaleBoxCM:     2500,
		CenterCM:       geom.Point{X: 1250, Y: 1250},
		LeafHabit:      habit,
		CrownTexture:   botanical.Fine,
		CrownDensity:   0.35,
		WinterInterest: interest,
	}
}

func round() geom.Polygon {
	return botanical.Ellipse(geom.Point{X: 1250, Y: 1250}, 500, 500, 48)
}

// star is a non-convex crown with five lobes.
func star() geom.Polygon {
	p := make(geom.Polygon, 60)
	for i := range p {
		a := 2 * math.Pi * float64(i) / float64(len(p))
		r := 420 + 160*math.Sin(5*a)
		p[i] = geom.Point{X: 1250 + r*math.Cos(a), Y: 1250 + r*math.Sin(a)}
	}
	return p
}

func newContext(t *testing.T, outline geom.Polygon, p botanical.Parameters, season palette.Season, seed uint64) Context {
	t.Helper()
	pal, err := palette.Map(p.LeafHabit, season, p.WinterInterest)
	if err != nil {
		t.Fatal(err)
	}
	return Context{
		Outline: outline,
		Params:  p,
		Palette: pal,
		Source:  variation.Derive(seed, "cell"),
		Scale:   scale.S50,
	}
}

func render(t *testing.T, s Style, ctx Context) Layer {
	t.Helper()
	r, err := For(s)
	if err != nil {
		t.Fatal(err)
	}
	return r.Render(ctx)
}

func checkContained(t *testing.T, poly geom.Polygon, l Layer) {
	t.Helper()
	const tol = 1e-6
	for i, m := range l.Marks {
		switch m.Kind {
		case KindCircle:
			if !poly.Contains(m.Center) {
				t.Fatalf("mark %d (%s): circle center %v outside outline", i, m.Class, m.Center)
			}
			if m.Radius > poly.DistanceToEdge(m.Center)+tol {
				t.Fatalf("mark %d (%s): circle radius %v crosses outline", i, m.Class, m.Radius)
			}
		default:
			for _, p := range m.Points {
				if !poly.Covers(p, tol) {
					t.Fatalf("mark %d (%s): point %v outside outline", i, m.Class, p)
				}
			}
		}
	}
}

func TestBoundaryContainment(t *testing.T) {
	shapes := map[string]geom.Polygon{"round": round(), "star": star()}
	interests := []botanical.WinterInterest{"", botanical.WhiteBark, botanical.Berries}
	for name, poly := range shapes {
		for _, s := range All {
			for _, season := range palette.Seasons {
				for _, habit := range botanical.LeafHabits {
					for _, wi := range interests {
						ctx := newContext(t, poly, params(habit, wi), season, 42)
						l := render(t, s, ctx)
						if len(l.Marks) == 0 {
							t.Fatalf("%s/%s/%s/%s: empty layer", name, s, season, habit)
						}
						checkContained(t, poly, l)
					}
				}
			}
		}
	}
}

func TestDeterministic(t *testing.T) {
	for _, s := range All {
		t.Run(string(s), func(t *testing.T) {
			var a, b bytes.Buffer
			render(t, s, newContext(t, star(), params(botanical.Deciduous, ""), palette.Summer, 7)).WriteSVG(&a)
			render(t, s, newContext(t, star(), params(botanical.Deciduous, ""), palette.Summer, 7)).WriteSVG(&b)
			if !bytes.Equal(a.Bytes(), b.Bytes()) {
				t.Fatal("same inputs produced different output")
			}
			var c bytes.Buffer
			render(t, s, newContext(t, star(), params(botanical.Deciduous, ""), palette.Summer, 8)).WriteSVG(&c)
			if bytes.Equal(a.Bytes(), c.Bytes()) {
				t.Error("different seeds produced identical output")
			}
		})
	}
}

func TestBareWinter(t *testing.T) {
	for _, s := range All {
		t.Run(string(s), func(t *testing.T) {
			ctx := newContext(t, round(), params(botanical.Deciduous, botanical.WhiteBark), palette.Winter, 42)
			l := render(t, s, ctx)
			if n := l.Count(ClassFoliage); n != 0 {
				t.Errorf("foliage marks = %d, want 0", n)
			}
			if n := l.Count(ClassHatch); n != 0 {
				t.Errorf("hatch marks = %d, want 0", n)
			}
			if l.Count(ClassBranch) == 0 {
				t.Fatal("no branch structure")
			}
			got := l.Strokes(ClassBranch)
			if len(got) != 1 || got[0] != ctx.Palette.Accent {
				t.Errorf("branch strokes = %v, want [%s]", got, ctx.Palette.Accent)
			}
		})
	}
}

func TestEvergreenWinterNotBare(t *testing.T) {
	for _, s := range All {
		ctx := newContext(t, round(), params(botanical.Evergreen, botanical.WhiteBark), palette.Winter, 42)
		l := render(t, s, ctx)
		if l.Count(ClassBranch) != 0 {
			t.Errorf("%s: evergreen winter shows %d branches", s, l.Count(ClassBranch))
		}
		if l.Count(ClassFoliage)+l.Count(ClassHatch) == 0 {
			t.Errorf("%s: evergreen winter has no foliage texture", s)
		}
	}
}

func TestAccentDots(t *testing.T) {
	ctx := newContext(t, round(), params(botanical.Deciduous, botanical.Berries), palette.Winter, 42)
	l := render(t, Watercolor, ctx)
	if l.Count(ClassAccent) == 0 {
		t.Fatal("berries produced no accent marks")
	}
	for _, m := range l.Marks {
		if m.Class == ClassAccent && m.Fill != ctx.Palette.Accent {
			t.Errorf("accent fill = %s, want %s", m.Fill, ctx.Palette.Accent)
		}
	}
}

func TestDensityScalesFoliage(t *testing.T) {
	lo := params(botanical.Deciduous, "")
	lo.CrownDensity = 0.15
	hi := params(botanical.Deciduous, "")
	hi.CrownDensity = 0.9

	nLo := render(t, Watercolor, newContext(t, round(), lo, palette.Summer, 1)).Count(ClassFoliage)
	nHi := render(t, Watercolor, newContext(t, round(), hi, palette.Summer, 1)).Count(ClassFoliage)
	if nHi <= nLo {
		t.Errorf("foliage marks: density 0.9 = %d, density 0.15 = %d", nHi, nLo)
	}
}

func TestMarkerTextureDrivesHatch(t *testing.T) {
	fine := params(botanical.Evergreen, "")
	coarse := params(botanical.Evergreen, "")
	coarse.CrownTexture = botanical.Coarse

	nFine := render(t, Marker, newContext(t, round(), fine, palette.Summer, 3)).Count(ClassHatch)
	nCoarse := render(t, Marker, newContext(t, round(), coarse, palette.Summer, 3)).Count(ClassHatch)
	if nFine <= nCoarse {
		t.Errorf("hatch marks: fine = %d, coarse = %d; want fine denser", nFine, nCoarse)
	}
}

func TestHandDrawnWobbleBound(t *testing.T) {
	poly := round()
	for _, sc := range scale.All {
		ctx := newContext(t, poly, params(botanical.Deciduous, ""), palette.Summer, 11)
		ctx.Scale = sc
		bound := 0.02 * float64(sc.Denominator())
		l := render(t, HandDrawn, ctx)
		outlines := 0
		for _, m := range l.Marks {
			if m.Class != ClassOutline {
				continue
			}
			outlines++
			for i, p := range m.Points {
				if d := p.Dist(poly[i]); d > bound+1e-9 {
					t.Fatalf("%s: vertex %d moved %v cm, bound %v", sc, i, d, bound)
				}
			}
		}
		if outlines != 2 {
			t.Errorf("%s: outline passes = %d, want 2", sc, outlines)
		}
	}
}

// crescent is a C-shaped crown opening to the left; its centroid lies
// outside the outline.
func crescent() geom.Polygon {
	const steps = 40
	var p geom.Polygon
	for i := 0; i <= steps; i++ {
		a := -5*math.Pi/6 + float64(i)*(5*math.Pi/3)/steps
		p = append(p, geom.Point{X: 1250 + 500*math.Cos(a), Y: 1250 + 500*math.Sin(a)})
	}
	for i := steps; i >= 0; i-- {
		a := -5*math.Pi/6 + float64(i)*(5*math.Pi/3)/steps
		p = append(p, geom.Point{X: 1250 + 250*math.Cos(a), Y: 1250 + 250*math.Sin(a)})
	}
	return p
}

func TestHandDrawnOutlineStrokesStayInside(t *testing.T) {
	poly := crescent()
	if poly.Contains(poly.Centroid()) {
		t.Fatal("crescent centroid should lie outside the outline")
	}
	const samples = 32
	for _, sc := range scale.All {
		for seed := uint64(1); seed <= 25; seed++ {
			ctx := newContext(t, poly, params(botanical.Deciduous, ""), palette.Summer, seed)
			ctx.Scale = sc
			for _, m := range render(t, HandDrawn, ctx).Marks {
				if m.Class != ClassOutline {
					continue
				}
				for i, a := range m.Points {
					b := m.Points[(i+1)%len(m.Points)]
					for k := 1; k < samples; k++ {
						if q := a.Lerp(b, float64(k)/samples); !poly.Covers(q, 1e-6) {
							t.Fatalf("%s seed %d: stroke %d leaves the outline at %v", sc, seed, i, q)
						}
					}
				}
			}
		}
	}
}

type fixedSampler []geom.Point

func (f fixedSampler) SampleInterior(geom.Polygon, float64, int, *variation.Source) []geom.Point {
	return f
}

func TestSamplerSubstitution(t *testing.T) {
	ctx := newContext(t, round(), params(botanical.Deciduous, ""), palette.Summer, 5)
	ctx.Sampler = fixedSampler{{X: 1200, Y: 1200}, {X: 1300, Y: 1300}, {X: 1250, Y: 1100}}
	l := render(t, Watercolor, ctx)
	if got := l.Count(ClassFoliage); got != 3 {
		t.Errorf("foliage marks = %d, want 3 from the fixed sampler", got)
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	render(t, Watercolor, newContext(t, round(), params(botanical.Deciduous, ""), palette.Summer, 42)).WriteSVG(&buf)
	out := buf.String()
	for _, want := range []string{`class="wash"`, `class="foliage"`, `class="outline"`, "<circle", "<path"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "<text") {
		t.Error("output contains text")
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{1: "1", 1.5: "1.5", 1.256: "1.26", -0.001: "0", 1250: "1250"}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestParseAndFor(t *testing.T) {
	if s, err := Parse("handdrawn"); err != nil || s != HandDrawn {
		t.Errorf("Parse(handdrawn) = %v, %v", s, err)
	}
	if _, err := For("pastel"); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("For(pastel) error = %v", err)
	}
	if HandDrawn.Index() != 3 {
		t.Errorf("HandDrawn.Index() = %d", HandDrawn.Index())
	}
}
