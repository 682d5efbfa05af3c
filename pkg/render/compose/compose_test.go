package compose

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/canopy/pkg/botanical"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/render/styles"
	"github.com/matzehuels/canopy/pkg/scale"
)

func plant(t *testing.T, center geom.Point) *botanical.Plant {
	t.Helper()
	p, err := botanical.Validate(
		botanical.Ellipse(geom.Point{X: 1250, Y: 1250}, 500, 500, 48),
		botanical.Parameters{
			SpreadCM: 1000, HeightCM: 2500, ScaleBoxCM: 2500, CenterCM: center,
			LeafHabit: botanical.Deciduous, CrownTexture: botanical.Fine, CrownDensity: 0.35,
		})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPlaceCenters(t *testing.T) {
	placed, err := Place(plant(t, geom.Point{X: 1000, Y: 1800}))
	if err != nil {
		t.Fatal(err)
	}
	if c := placed.Centroid(); c.Dist(geom.Point{X: 1000, Y: 1800}) > 1e-6 {
		t.Errorf("centroid = %v, want (1000, 1800)", c)
	}
}

func TestPlaceOutsideBox(t *testing.T) {
	_, err := Place(plant(t, geom.Point{X: 100, Y: 1250}))
	if !errors.Is(err, errors.ErrCodeComposition) {
		t.Fatalf("error = %v, want COMPOSITION_ERROR", err)
	}
	if errors.FieldOf(err) != "center_cm" {
		t.Errorf("field = %q", errors.FieldOf(err))
	}
}

type svgDoc struct {
	XMLName   xml.Name   `xml:"svg"`
	ViewBox   string     `xml:"viewBox,attr"`
	Width     string     `xml:"width,attr"`
	Scale     string     `xml:"data-scale,attr"`
	BoxCM     string     `xml:"data-scale-box-cm,attr"`
	GridCM    string     `xml:"data-grid-spacing-cm,attr"`
	PxPerCM   string     `xml:"data-px-per-cm,attr"`
	PaperMM   string     `xml:"data-paper-mm,attr"`
	Seed      string     `xml:"data-seed,attr"`
	Name      string     `xml:"data-botanical-name,attr"`
	Rects     []svgRect  `xml:"rect"`
	Groups    []svgGroup `xml:"g"`
	TextNodes []string   `xml:"text"`
}

type svgRect struct {
	ID     string `xml:"id,attr"`
	Fill   string `xml:"fill,attr"`
	BoxCM  string `xml:"data-scale-box-cm,attr"`
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
}

type svgGroup struct {
	ID    string     `xml:"id,attr"`
	Lines []struct{} `xml:"line"`
}

func parse(t *testing.T, b []byte) svgDoc {
	t.Helper()
	var d svgDoc
	if err := xml.Unmarshal(b, &d); err != nil {
		t.Fatalf("invalid SVG: %v\n%s", err, b)
	}
	return d
}

func TestScaleFidelity(t *testing.T) {
	for _, sc := range scale.All {
		t.Run(sc.String(), func(t *testing.T) {
			d := parse(t, RenderSVG(styles.Layer{}, 2500, sc, WithSeed(42)))

			if d.BoxCM != "2500" {
				t.Errorf("data-scale-box-cm = %q, want 2500", d.BoxCM)
			}
			if d.GridCM != "100" {
				t.Errorf("data-grid-spacing-cm = %q, want 100", d.GridCM)
			}
			if d.ViewBox != "0 0 2500 2500" {
				t.Errorf("viewBox = %q", d.ViewBox)
			}
			if d.Scale != sc.String() {
				t.Errorf("data-scale = %q", d.Scale)
			}
			w, _ := strconv.ParseFloat(d.Width, 64)
			if want := 2500 * sc.PixelsPerCM(); math.Abs(w-want) > 0.01 {
				t.Errorf("width = %v, want %v", w, want)
			}
			mm, _ := strconv.ParseFloat(d.PaperMM, 64)
			if want := 25000 / float64(sc.Denominator()); math.Abs(mm-want) > 0.01 {
				t.Errorf("data-paper-mm = %v, want %v", mm, want)
			}
			if d.Seed != "42" {
				t.Errorf("data-seed = %q", d.Seed)
			}
			if len(d.Rects) != 1 || d.Rects[0].ID != "scale-box" || d.Rects[0].BoxCM != "2500" {
				t.Errorf("scale-box rect = %+v", d.Rects)
			}
			if d.Rects[0].Fill != "none" {
				t.Errorf("scale box has a background fill %q", d.Rects[0].Fill)
			}
			if len(d.TextNodes) != 0 {
				t.Error("document contains text")
			}
		})
	}
}

func TestGrid(t *testing.T) {
	d := parse(t, RenderSVG(styles.Layer{}, 2500, scale.S50))
	var grid *svgGroup
	for i := range d.Groups {
		if d.Groups[i].ID == "grid" {
			grid = &d.Groups[i]
		}
	}
	if grid == nil {
		t.Fatal("no grid group")
	}
	// 24 interior positions, one vertical and one horizontal line each.
	if got := len(grid.Lines); got != 48 {
		t.Errorf("grid lines = %d, want 48", got)
	}

	off := RenderSVG(styles.Layer{}, 2500, scale.S50, WithGrid(false))
	if strings.Contains(string(off), `id="grid"`) {
		t.Error("WithGrid(false) still drew the grid")
	}
}

func TestAttributesEscaped(t *testing.T) {
	out := RenderSVG(styles.Layer{}, 500, scale.S20, WithName(`Acer "Red" <x>`), WithStyle(styles.Marker))
	d := parse(t, out)
	if d.Name != `Acer "Red" <x>` {
		t.Errorf("name round trip = %q", d.Name)
	}
	if !strings.Contains(string(out), `data-style="marker"`) {
		t.Error("style attribute missing")
	}
}

func TestPlantLayerIncluded(t *testing.T) {
	l := styles.Layer{Marks: []styles.Mark{{
		Kind: styles.KindCircle, Class: styles.ClassAccent,
		Center: geom.Point{X: 10, Y: 10}, Radius: 2, Fill: "#ffffff",
	}}}
	out := string(RenderSVG(l, 500, scale.S20))
	if !strings.Contains(out, `<g id="plant">`) || !strings.Contains(out, `class="accent"`) {
		t.Errorf("plant layer missing:\n%s", out)
	}
}
