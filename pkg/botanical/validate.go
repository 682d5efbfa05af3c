package botanical

import (
	"math"
	"slices"

	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
)

const (
	// MinOutlinePoints is the fewest vertices an outline may have.
	MinOutlinePoints = 24
	// RecommendedOutlinePoints gives smooth curvature at every scale.
	RecommendedOutlinePoints = 40
)

// Brackets is the fixed set of scale-box side lengths in centimeters.
var Brackets = []float64{500, 1000, 1500, 2500, 4000}

// IsBracket reports whether box is one of [Brackets].
func IsBracket(box float64) bool { return slices.Contains(Brackets, box) }

// BracketFor returns the smallest bracket that fits a plant of the given
// mature height and spread. The second result is false when the plant is
// larger than every bracket.
func BracketFor(heightCM, spreadCM float64) (float64, bool) {
	need := max(heightCM, spreadCM)
	for _, b := range Brackets {
		if need <= b {
			return b, true
		}
	}
	return 0, false
}

// Validate checks outline and params and returns an immutable Plant.
//
// Outline problems are reported as SHAPE_ERROR, parameter problems as
// PARAMETER_ERROR; each error names the offending field. The outline is
// copied, so later changes to the caller's slice do not affect the Plant.
func Validate(outline geom.Polygon, params Parameters) (*Plant, error) {
	if err := validateOutlineShape(outline); err != nil {
		return nil, err
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}
	box := params.ScaleBoxCM
	for i, p := range outline {
		if !finite(p.X) || !finite(p.Y) || p.X < 0 || p.Y < 0 || p.X > box || p.Y > box {
			return nil, errors.New(errors.ErrCodeShape,
				"point %d (%g, %g) lies outside the %g cm scale box", i, p.X, p.Y, box).
				WithField("outline")
		}
	}
	return &Plant{outline: outline.Clone(), params: params}, nil
}

func validateOutlineShape(outline geom.Polygon) error {
	if len(outline) < MinOutlinePoints {
		return errors.New(errors.ErrCodeShape,
			"outline has %d points, need at least %d", len(outline), MinOutlinePoints).
			WithField("outline")
	}
	if outline[0] == outline[len(outline)-1] {
		return errors.New(errors.ErrCodeShape,
			"outline repeats its first point at the end; closure is implicit").
			WithField("outline")
	}
	if outline.Area() == 0 {
		return errors.New(errors.ErrCodeShape, "outline encloses no area").WithField("outline")
	}
	return nil
}

func validateParams(p Parameters) error {
	if !IsBracket(p.ScaleBoxCM) {
		return errors.New(errors.ErrCodeParameter,
			"scale box %g cm is not one of %v", p.ScaleBoxCM, Brackets).
			WithField("scale_box_cm")
	}
	if !finite(p.SpreadCM) || p.SpreadCM <= 0 || p.SpreadCM > p.ScaleBoxCM {
		return errors.New(errors.ErrCodeParameter,
			"spread %g cm must be within (0, %g]", p.SpreadCM, p.ScaleBoxCM).
			WithField("spread_cm")
	}
	if !finite(p.HeightCM) || p.HeightCM <= 0 || p.HeightCM > p.ScaleBoxCM {
		return errors.New(errors.ErrCodeParameter,
			"height %g cm must be within (0, %g]", p.HeightCM, p.ScaleBoxCM).
			WithField("height_cm")
	}
	if !finite(p.CrownDensity) || p.CrownDensity < 0 || p.CrownDensity > 1 {
		return errors.New(errors.ErrCodeParameter,
			"crown density %g must be within [0, 1]", p.CrownDensity).
			WithField("crown_density_value")
	}
	c := p.CenterCM
	if !finite(c.X) || !finite(c.Y) || c.X < 0 || c.Y < 0 || c.X > p.ScaleBoxCM || c.Y > p.ScaleBoxCM {
		return errors.New(errors.ErrCodeParameter,
			"center (%g, %g) lies outside the %g cm scale box", c.X, c.Y, p.ScaleBoxCM).
			WithField("center_cm")
	}
	if !p.LeafHabit.Valid() {
		return errors.New(errors.ErrCodeParameter,
			"unknown leaf habit %q (allowed: %v)", p.LeafHabit, LeafHabits).
			WithField("leaf_habit")
	}
	if !p.CrownTexture.Valid() {
		return errors.New(errors.ErrCodeParameter,
			"unknown crown texture %q (allowed: %v)", p.CrownTexture, CrownTextures).
			WithField("crown_texture")
	}
	if !p.WinterInterest.Valid() {
		return errors.New(errors.ErrCodeParameter,
			"unknown winter interest %q (allowed: %v)", p.WinterInterest, WinterInterests).
			WithField("winter_interest")
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
