package raster

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/matzehuels/canopy/pkg/botanical"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/palette"
	"github.com/matzehuels/canopy/pkg/render/styles"
	"github.com/matzehuels/canopy/pkg/scale"
	"github.com/matzehuels/canopy/pkg/symbol"
)

func markerSymbol(t *testing.T) []byte {
	t.Helper()
	plant, err := botanical.Validate(
		botanical.Ellipse(geom.Point{X: 1250, Y: 1250}, 500, 500, 48),
		botanical.Parameters{
			SpreadCM:     1000,
			HeightCM:     1000,
			ScaleBoxCM:   2500,
			CenterCM:     geom.Point{X: 1250, Y: 1250},
			LeafHabit:    botanical.Deciduous,
			CrownTexture: botanical.Medium,
			CrownDensity: 0.8,
		})
	if err != nil {
		t.Fatal(err)
	}
	sym, err := symbol.Render(symbol.Request{
		Plant:  plant,
		Style:  styles.Marker,
		Season: palette.Summer,
		Scale:  scale.S50,
		Seed:   42,
	})
	if err != nil {
		t.Fatal(err)
	}
	return sym.SVG
}

func TestNativeRasterize(t *testing.T) {
	data, err := Native{}.Rasterize(context.Background(), markerSymbol(t), 128)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("size = %dx%d, want 128x128", b.Dx(), b.Dy())
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("corner alpha = %d, want transparent", a)
	}
	if _, _, _, a := img.At(64, 64).RGBA(); a == 0 {
		t.Error("crown centre is transparent")
	}
}

func TestNativeProportionalHeight(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 100"><rect x="10" y="10" width="50" height="50" fill="#336633"/></svg>`)
	data, err := Native{}.Rasterize(context.Background(), svg, 300)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 300 || cfg.Height != 150 {
		t.Errorf("size = %dx%d, want 300x150", cfg.Width, cfg.Height)
	}
}

func TestNativeRejects(t *testing.T) {
	good := markerSymbol(t)
	tests := []struct {
		name  string
		svg   []byte
		width int
		code  errors.Code
	}{
		{"text glyphs", []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><text>x</text></svg>`), 64, errors.ErrCodeRasterization},
		{"font face", []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><style>@font-face{}</style></svg>`), 64, errors.ErrCodeRasterization},
		{"not svg", []byte("plain text"), 64, errors.ErrCodeRasterization},
		{"no viewbox", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), 64, errors.ErrCodeRasterization},
		{"too narrow", good, 8, errors.ErrCodeInvalidInput},
		{"too wide", good, MaxWidth + 1, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Native{}.Rasterize(context.Background(), tt.svg, tt.width)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestNativeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Native{}).Rasterize(ctx, markerSymbol(t), 64); err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRSVGRasterize(t *testing.T) {
	r := RSVG{}
	if !r.Available() {
		t.Skip("rsvg-convert not installed")
	}
	data, err := r.Rasterize(context.Background(), markerSymbol(t), 96)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 96 {
		t.Errorf("width = %d, want 96", cfg.Width)
	}
}

func TestRSVGMissingBinary(t *testing.T) {
	r := RSVG{Binary: "canopy-no-such-converter"}
	_, err := r.Rasterize(context.Background(), markerSymbol(t), 64)
	if !errors.Is(err, errors.ErrCodeRasterization) {
		t.Errorf("error = %v, want RASTERIZATION_ERROR", err)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "native", "rsvg"} {
		if _, err := New(name); err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
	}
	if _, err := New("cairo"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("New(cairo) error = %v", err)
	}
}

func TestOutputName(t *testing.T) {
	got := OutputName("acer_rubrum__marker__autumn__1-50.svg", 512)
	if got != "acer_rubrum__marker__autumn__1-50__512.png" {
		t.Errorf("OutputName = %q", got)
	}
}
