package botanical

import (
	"math"

	"github.com/matzehuels/canopy/pkg/geom"
)

// Ellipse approximates an elliptical canopy with n vertices, starting at
// angle zero and winding clockwise on screen.
func Ellipse(center geom.Point, rx, ry float64, n int) geom.Polygon {
	p := make(geom.Polygon, n)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		p[i] = geom.Point{X: center.X + rx*math.Cos(a), Y: center.Y + ry*math.Sin(a)}
	}
	return p
}

// Crown builds a default outline for plants that have parameters but no
// measured silhouette: an ellipse of the given spread and height whose
// lowest point sits on the ground line at the bottom of the scale box,
// centered horizontally.
func Crown(p Parameters) geom.Polygon {
	rx, ry := p.SpreadCM/2, p.HeightCM/2
	c := geom.Point{X: p.ScaleBoxCM / 2, Y: p.ScaleBoxCM - ry}
	return Ellipse(c, rx, ry, 48)
}
