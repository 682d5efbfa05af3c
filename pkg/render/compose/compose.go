// Package compose frames a rendered plant layer in a self-describing,
// dimensionally true SVG document.
//
// Document units are real-world centimeters: the viewBox spans exactly the
// scale box, so the plant geometry never changes with the drawing scale.
// The scale only sets the nominal width and height, i.e. how large the
// document prints. Annotations on the root element and on the scale-box
// rectangle record the real-world box size, the scale, the grid spacing and
// the pixel ratio; downstream tools parse them to check dimensions.
package compose

import (
	"github.com/matzehuels/canopy/pkg/botanical"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
)

// GridSpacingCM is the real-world distance between grid lines at every
// scale.
const GridSpacingCM = 100

// Place moves the plant's outline so its centroid sits on center_cm and
// checks that the result still fits the scale box.
func Place(plant *botanical.Plant) (geom.Polygon, error) {
	outline := plant.Outline()
	params := plant.Params()
	placed := outline.Translate(params.CenterCM.Sub(outline.Centroid()))

	if b := placed.Bounds(); !b.Within(params.ScaleBoxCM) {
		return nil, errors.New(errors.ErrCodeComposition,
			"outline spans (%.1f, %.1f)-(%.1f, %.1f) after centering on (%.1f, %.1f), outside the %g cm scale box",
			b.Min.X, b.Min.Y, b.Max.X, b.Max.Y, params.CenterCM.X, params.CenterCM.Y, params.ScaleBoxCM).
			WithField("center_cm")
	}
	return clamp(placed, params.ScaleBoxCM), nil
}

// clamp removes floating-point spill past the box edges left by Within's
// tolerance.
func clamp(p geom.Polygon, box float64) geom.Polygon {
	for i, v := range p {
		p[i] = geom.Point{X: min(max(v.X, 0), box), Y: min(max(v.Y, 0), box)}
	}
	return p
}
