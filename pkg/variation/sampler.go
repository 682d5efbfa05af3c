package variation

import (
	"math"

	"github.com/matzehuels/canopy/pkg/geom"
)

// Sampler places points inside a polygon with a minimum spacing.
//
// Implementations must return at most limit points, all strictly inside
// poly, no two closer than minDist, and must terminate after a bounded
// amount of work even when the polygon cannot hold limit points.
type Sampler interface {
	SampleInterior(poly geom.Polygon, minDist float64, limit int, src *Source) []geom.Point
}

// DefaultAttempts is the number of candidates [PoissonDisk] tries per
// requested point when Attempts is zero.
const DefaultAttempts = 30

// PoissonDisk is a blue-noise sampler using dart throwing over a background
// grid. Every candidate consumes exactly two draws from the source.
type PoissonDisk struct {
	// Attempts is the candidate budget per requested point.
	Attempts int
}

type cell struct{ x, y int }

// SampleInterior implements [Sampler]. When space runs out it returns fewer
// points than requested.
func (d PoissonDisk) SampleInterior(poly geom.Polygon, minDist float64, limit int, src *Source) []geom.Point {
	if limit <= 0 || len(poly) < 3 {
		return nil
	}
	attempts := d.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	b := poly.Bounds()
	if b.W() <= 0 || b.H() <= 0 {
		return nil
	}

	size := minDist / math.Sqrt2
	useGrid := minDist > 0
	grid := make(map[cell]geom.Point)
	key := func(p geom.Point) cell {
		return cell{int(math.Floor((p.X - b.Min.X) / size)), int(math.Floor((p.Y - b.Min.Y) / size))}
	}
	free := func(p geom.Point) bool {
		if !useGrid {
			return true
		}
		k := key(p)
		for dx := -2; dx <= 2; dx++ {
			for dy := -2; dy <= 2; dy++ {
				if q, ok := grid[cell{k.x + dx, k.y + dy}]; ok && q.Dist(p) < minDist {
					return false
				}
			}
		}
		return true
	}

	points := make([]geom.Point, 0, limit)
	budget := limit * attempts
	for try := 0; try < budget && len(points) < limit; try++ {
		c := geom.Point{
			X: src.Range(b.Min.X, b.Max.X),
			Y: src.Range(b.Min.Y, b.Max.Y),
		}
		if !poly.Contains(c) || !free(c) {
			continue
		}
		points = append(points, c)
		if useGrid {
			grid[key(c)] = c
		}
	}
	return points
}
