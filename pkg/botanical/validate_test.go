package botanical

import (
	"testing"

	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
)

func birch() Parameters {
	return Parameters{
		SpreadCM:       1000,
		HeightCM:       2500,
		ScaleBoxCM:     2500,
		CenterCM:       geom.Point{X: 1250, Y: 1250},
		LeafHabit:      Deciduous,
		CrownTexture:   Fine,
		CrownDensity:   0.35,
		WinterInterest: WhiteBark,
	}
}

func circle48() geom.Polygon {
	return Ellipse(geom.Point{X: 1250, Y: 1250}, 500, 500, 48)
}

func TestValidateAccepts(t *testing.T) {
	plant, err := Validate(circle48(), birch())
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if plant.Len() != 48 {
		t.Errorf("Len() = %d, want 48", plant.Len())
	}
	if plant.Params().WinterInterest != WhiteBark {
		t.Errorf("WinterInterest = %q", plant.Params().WinterInterest)
	}
}

func TestValidateCopiesOutline(t *testing.T) {
	outline := circle48()
	plant, err := Validate(outline, birch())
	if err != nil {
		t.Fatal(err)
	}
	outline[0] = geom.Point{X: -1, Y: -1}
	if plant.Outline()[0] == outline[0] {
		t.Error("plant shares memory with the caller's outline")
	}
	got := plant.Outline()
	got[1] = geom.Point{}
	if plant.Outline()[1] == got[1] {
		t.Error("Outline() returned an alias")
	}
}

func TestValidateErrors(t *testing.T) {
	closed := circle48()
	closed = append(closed, closed[0])

	tests := []struct {
		name    string
		outline geom.Polygon
		mutate  func(*Parameters)
		code    errors.Code
		field   string
	}{
		{"ten points", Ellipse(geom.Point{X: 1250, Y: 1250}, 500, 500, 10), nil, errors.ErrCodeShape, "outline"},
		{"explicitly closed", closed, nil, errors.ErrCodeShape, "outline"},
		{"point outside box", Ellipse(geom.Point{X: 2400, Y: 1250}, 500, 500, 48), nil, errors.ErrCodeShape, "outline"},
		{"density above one", circle48(), func(p *Parameters) { p.CrownDensity = 1.4 }, errors.ErrCodeParameter, "crown_density_value"},
		{"negative density", circle48(), func(p *Parameters) { p.CrownDensity = -0.1 }, errors.ErrCodeParameter, "crown_density_value"},
		{"spread exceeds box", circle48(), func(p *Parameters) { p.SpreadCM = 3000 }, errors.ErrCodeParameter, "spread_cm"},
		{"height exceeds box", circle48(), func(p *Parameters) { p.HeightCM = 2600 }, errors.ErrCodeParameter, "height_cm"},
		{"zero height", circle48(), func(p *Parameters) { p.HeightCM = 0 }, errors.ErrCodeParameter, "height_cm"},
		{"box not a bracket", circle48(), func(p *Parameters) { p.ScaleBoxCM = 2000 }, errors.ErrCodeParameter, "scale_box_cm"},
		{"center outside", circle48(), func(p *Parameters) { p.CenterCM.X = 2600 }, errors.ErrCodeParameter, "center_cm"},
		{"unknown habit", circle48(), func(p *Parameters) { p.LeafHabit = "perennial" }, errors.ErrCodeParameter, "leaf_habit"},
		{"unknown texture", circle48(), func(p *Parameters) { p.CrownTexture = "silky" }, errors.ErrCodeParameter, "crown_texture"},
		{"unknown interest", circle48(), func(p *Parameters) { p.WinterInterest = "catkins" }, errors.ErrCodeParameter, "winter_interest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := birch()
			if tt.mutate != nil {
				tt.mutate(&params)
			}
			_, err := Validate(tt.outline, params)
			if err == nil {
				t.Fatal("Validate() error = nil")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), tt.code)
			}
			if got := errors.FieldOf(err); got != tt.field {
				t.Errorf("field = %q, want %q", got, tt.field)
			}
		})
	}
}

func TestBracketFor(t *testing.T) {
	tests := []struct {
		height, spread float64
		want           float64
		ok             bool
	}{
		{300, 200, 500, true},
		{500, 500, 500, true},
		{900, 1200, 1500, true},
		{2500, 1000, 2500, true},
		{3500, 1000, 4000, true},
		{4500, 1000, 0, false},
	}
	for _, tt := range tests {
		got, ok := BracketFor(tt.height, tt.spread)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BracketFor(%v, %v) = %v, %v; want %v, %v", tt.height, tt.spread, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCrownFitsBox(t *testing.T) {
	p := birch()
	outline := Crown(p)
	if _, err := Validate(outline, p); err != nil {
		t.Fatalf("Validate(Crown()) error = %v", err)
	}
	b := outline.Bounds()
	if b.Max.Y > p.ScaleBoxCM+1e-9 {
		t.Errorf("crown extends below ground: %v", b.Max.Y)
	}
}

func TestEnumValidity(t *testing.T) {
	if !SemiEvergreen.Valid() || LeafHabit("x").Valid() {
		t.Error("LeafHabit.Valid()")
	}
	if !Needle.Valid() || CrownTexture("").Valid() {
		t.Error("CrownTexture.Valid()")
	}
	if !NoWinterInterest.Valid() || !Berries.Valid() || WinterInterest("x").Valid() {
		t.Error("WinterInterest.Valid()")
	}
}
