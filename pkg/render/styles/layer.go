package styles

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/canopy/pkg/geom"
)

// Class tags what a mark depicts. Tests and tooling count marks by class.
type Class string

const (
	ClassOutline Class = "outline"
	ClassWash    Class = "wash"
	ClassFoliage Class = "foliage"
	ClassHatch   Class = "hatch"
	ClassBranch  Class = "branch"
	ClassAccent  Class = "accent"
)

// Kind is the geometric primitive of a mark.
type Kind int

const (
	KindPath     Kind = iota // closed polygon
	KindPolyline             // open polyline
	KindCircle
)

// Mark is one drawn primitive in document centimeters.
type Mark struct {
	Kind   Kind
	Class  Class
	Points []geom.Point // KindPath, KindPolyline
	Center geom.Point   // KindCircle
	Radius float64      // KindCircle

	Fill    string  // empty = none
	Stroke  string  // empty = none
	Width   float64 // stroke width in cm
	Opacity float64 // 0 means fully opaque
}

// Layer is the ordered list of marks a renderer produced for the plant body.
type Layer struct {
	Marks []Mark
}

func (l *Layer) add(m Mark) { l.Marks = append(l.Marks, m) }

// Count returns the number of marks of class c.
func (l Layer) Count(c Class) int {
	n := 0
	for _, m := range l.Marks {
		if m.Class == c {
			n++
		}
	}
	return n
}

// Strokes returns the distinct stroke colours used by marks of class c,
// in first-use order.
func (l Layer) Strokes(c Class) []string {
	var out []string
	for _, m := range l.Marks {
		if m.Class != c || m.Stroke == "" {
			continue
		}
		seen := false
		for _, s := range out {
			if s == m.Stroke {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, m.Stroke)
		}
	}
	return out
}

// WriteSVG writes the marks as SVG elements, one per line.
func (l Layer) WriteSVG(buf *bytes.Buffer) {
	for _, m := range l.Marks {
		switch m.Kind {
		case KindPath:
			fmt.Fprintf(buf, `<path class="%s" d="%s"`, m.Class, pathData(m.Points, true))
		case KindPolyline:
			fmt.Fprintf(buf, `<polyline class="%s" points="%s"`, m.Class, pointList(m.Points))
		case KindCircle:
			fmt.Fprintf(buf, `<circle class="%s" cx="%s" cy="%s" r="%s"`,
				m.Class, num(m.Center.X), num(m.Center.Y), num(m.Radius))
		}
		writePaint(buf, m)
		buf.WriteString("/>\n")
	}
}

func writePaint(buf *bytes.Buffer, m Mark) {
	if m.Fill == "" {
		buf.WriteString(` fill="none"`)
	} else {
		fmt.Fprintf(buf, ` fill="%s"`, m.Fill)
	}
	if m.Stroke == "" {
		buf.WriteString(` stroke="none"`)
	} else {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"`,
			m.Stroke, num(m.Width))
	}
	if m.Opacity > 0 && m.Opacity < 1 {
		fmt.Fprintf(buf, ` opacity="%s"`, num(m.Opacity))
	}
}

func pathData(pts []geom.Point, closed bool) string {
	var sb strings.Builder
	for i, p := range pts {
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString(" L")
		}
		sb.WriteString(num(p.X))
		sb.WriteByte(' ')
		sb.WriteString(num(p.Y))
	}
	if closed && len(pts) > 0 {
		sb.WriteString(" Z")
	}
	return sb.String()
}

func pointList(pts []geom.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

// num formats with at most two decimals and no trailing zeros.
func num(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
