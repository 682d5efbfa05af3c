package symbol

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/matzehuels/canopy/pkg/botanical"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/palette"
	"github.com/matzehuels/canopy/pkg/render/styles"
	"github.com/matzehuels/canopy/pkg/scale"
)

func birch(t *testing.T, center geom.Point) *botanical.Plant {
	t.Helper()
	p, err := botanical.Validate(
		botanical.Ellipse(geom.Point{X: 1250, Y: 1250}, 500, 500, 48),
		botanical.Parameters{
			SpreadCM:       1000,
			HeightCM:       2500,
			ScaleBoxCM:     2500,
			CenterCM:       center,
			LeafHabit:      botanical.Deciduous,
			CrownTexture:   botanical.Fine,
			CrownDensity:   0.35,
			WinterInterest: botanical.WhiteBark,
		})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestWatercolorWinterWhiteBark(t *testing.T) {
	sym, err := Render(Request{
		Plant:         birch(t, geom.Point{X: 1250, Y: 1250}),
		Style:         styles.Watercolor,
		Season:        palette.Winter,
		Scale:         scale.S50,
		Seed:          42,
		BotanicalName: "Betula pendula",
		CommonName:    "Silver birch",
	})
	if err != nil {
		t.Fatal(err)
	}
	svg := string(sym.SVG)

	if !strings.Contains(svg, `data-scale-box-cm="2500"`) {
		t.Error("scale box annotation missing or wrong")
	}
	if n := strings.Count(svg, `class="foliage"`); n != 0 {
		t.Errorf("foliage marks = %d, want 0", n)
	}
	pal, _ := palette.Map(botanical.Deciduous, palette.Winter, botanical.WhiteBark)
	branch := regexp.MustCompile(`class="branch"[^>]*stroke="` + pal.Accent + `"`)
	if !branch.MatchString(svg) {
		t.Errorf("no branch stroke in white bark accent %s", pal.Accent)
	}
	if sym.Length != len(sym.SVG) || sym.Seed != 42 || sym.Scale != scale.S50 {
		t.Errorf("metadata = %+v", sym)
	}
}

func TestRenderDeterministic(t *testing.T) {
	plant := birch(t, geom.Point{X: 1250, Y: 1400})
	for _, st := range styles.All {
		for _, se := range palette.Seasons {
			req := Request{Plant: plant, Style: st, Season: se, Scale: scale.S100, Seed: 99}
			a, err := Render(req)
			if err != nil {
				t.Fatal(err)
			}
			b, _ := Render(req)
			if !bytes.Equal(a.SVG, b.SVG) {
				t.Fatalf("%s/%s: output differs between runs", st, se)
			}
		}
	}
}

func TestRenderValidation(t *testing.T) {
	plant := birch(t, geom.Point{X: 1250, Y: 1250})
	tests := []struct {
		name string
		req  Request
		code errors.Code
	}{
		{"no plant", Request{Style: styles.Marker, Season: palette.Summer, Scale: scale.S50}, errors.ErrCodeInvalidInput},
		{"bad style", Request{Plant: plant, Style: "pastel", Season: palette.Summer, Scale: scale.S50}, errors.ErrCodeInvalidStyle},
		{"bad season", Request{Plant: plant, Style: styles.Marker, Season: "monsoon", Scale: scale.S50}, errors.ErrCodeInvalidSeason},
		{"bad scale", Request{Plant: plant, Style: styles.Marker, Season: palette.Summer, Scale: 25}, errors.ErrCodeInvalidScale},
		{"off-box center", Request{Plant: birch(t, geom.Point{X: 2400, Y: 1250}), Style: styles.Marker, Season: palette.Summer, Scale: scale.S50}, errors.ErrCodeComposition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.req)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestGeneratePackComplete(t *testing.T) {
	p := GeneratePack(context.Background(), PackRequest{
		Plant:         birch(t, geom.Point{X: 1250, Y: 1250}),
		Scale:         scale.S50,
		BaseSeed:      42,
		BotanicalName: "Betula pendula",
	}, WithWorkers(4))

	if len(p.Cells) != 16 {
		t.Fatalf("cells = %d, want 16", len(p.Cells))
	}
	seeds := make(map[uint64]bool)
	for _, k := range Keys() {
		c, ok := p.Cells[k]
		if !ok {
			t.Fatalf("missing key %s", k)
		}
		if c.Err != nil || c.Symbol == nil {
			t.Errorf("%s: err = %v", k, c.Err)
			continue
		}
		if c.Symbol.Style != k.Style || c.Symbol.Season != k.Season {
			t.Errorf("%s: symbol is %s/%s", k, c.Symbol.Style, c.Symbol.Season)
		}
		seeds[c.Seed] = true
	}
	if len(seeds) != 16 {
		t.Errorf("distinct cell seeds = %d, want 16", len(seeds))
	}
	if p.Succeeded() != 16 || len(p.Failed()) != 0 {
		t.Errorf("Succeeded = %d, Failed = %v", p.Succeeded(), p.Failed())
	}
}

func TestGeneratePackReproducible(t *testing.T) {
	req := PackRequest{Plant: birch(t, geom.Point{X: 1250, Y: 1250}), Scale: scale.S20, BaseSeed: 7}
	a := GeneratePack(context.Background(), req, WithWorkers(1))
	b := GeneratePack(context.Background(), req, WithWorkers(8))
	for _, k := range Keys() {
		if !bytes.Equal(a.Cells[k].Symbol.SVG, b.Cells[k].Symbol.SVG) {
			t.Errorf("%s differs between worker counts", k)
		}
	}
}

func TestGeneratePackFailuresAreTyped(t *testing.T) {
	p := GeneratePack(context.Background(), PackRequest{
		Plant:    birch(t, geom.Point{X: 100, Y: 1250}),
		Scale:    scale.S50,
		BaseSeed: 1,
	})
	if len(p.Cells) != 16 {
		t.Fatalf("cells = %d, want 16", len(p.Cells))
	}
	for _, c := range p.Ordered() {
		if !errors.Is(c.Err, errors.ErrCodeComposition) {
			t.Errorf("%s: err = %v, want COMPOSITION_ERROR", c.Key, c.Err)
		}
		if c.Symbol != nil {
			t.Errorf("%s: failed cell carries a symbol", c.Key)
		}
	}
	if len(p.Failed()) != 16 {
		t.Errorf("Failed() = %d keys", len(p.Failed()))
	}
}

func TestGeneratePackCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := GeneratePack(ctx, PackRequest{Plant: birch(t, geom.Point{X: 1250, Y: 1250}), Scale: scale.S50})
	if len(p.Cells) != 16 {
		t.Fatalf("cells = %d, want 16", len(p.Cells))
	}
	for _, c := range p.Ordered() {
		if c.Err != context.Canceled {
			t.Errorf("%s: err = %v, want context.Canceled", c.Key, c.Err)
		}
	}
}

func TestFileName(t *testing.T) {
	got := FileName("Betula pendula 'Youngii'", styles.HandDrawn, palette.Autumn, scale.S50)
	want := "betula_pendula_youngii__hand-drawn__autumn__1-50.svg"
	if got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}

func TestKeysOrder(t *testing.T) {
	keys := Keys()
	if len(keys) != 16 {
		t.Fatalf("Keys() = %d", len(keys))
	}
	if keys[0] != (Key{styles.Scientific, palette.Spring}) || keys[15] != (Key{styles.HandDrawn, palette.Winter}) {
		t.Errorf("unexpected order: first %s, last %s", keys[0], keys[15])
	}
}
