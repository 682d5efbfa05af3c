package compose

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/canopy/pkg/render/styles"
	"github.com/matzehuels/canopy/pkg/scale"
)

const gridColor = "#8a96a3"

type Option func(*document)

type document struct {
	grid   bool
	attrs  [][2]string
	seeded bool
	seed   uint64
}

// WithGrid toggles the reference grid. It is on by default.
func WithGrid(on bool) Option { return func(d *document) { d.grid = on } }

// WithStyle records the style name on the root element.
func WithStyle(s styles.Style) Option { return WithAttr("data-style", string(s)) }

// WithSeason records the season on the root element.
func WithSeason(s string) Option { return WithAttr("data-season", s) }

// WithName records the botanical name on the root element.
func WithName(name string) Option { return WithAttr("data-botanical-name", name) }

// WithSeed records the render seed on the root element.
func WithSeed(seed uint64) Option {
	return func(d *document) { d.seeded, d.seed = true, seed }
}

// WithAttr adds a data attribute to the root element. Values are escaped.
func WithAttr(name, value string) Option {
	return func(d *document) {
		if value != "" {
			d.attrs = append(d.attrs, [2]string{name, value})
		}
	}
}

// RenderSVG assembles the final document: scale box, grid and plant layer.
// The output has no background fill and no text.
func RenderSVG(layer styles.Layer, boxCM float64, sc scale.Scale, opts ...Option) []byte {
	d := document{grid: true}
	for _, opt := range opts {
		opt(&d)
	}
	if !sc.Valid() {
		sc = scale.Default
	}

	box := num(boxCM, 2)
	px := num(boxCM*sc.PixelsPerCM(), 2)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s"`,
		box, box, px, px)
	fmt.Fprintf(&buf, ` data-scale="%s" data-scale-box-cm="%s" data-grid-spacing-cm="%d" data-px-per-cm="%s" data-paper-mm="%s"`,
		sc, box, GridSpacingCM, num(sc.PixelsPerCM(), 4), num(sc.PaperMM(boxCM), 2))
	for _, a := range d.attrs {
		fmt.Fprintf(&buf, ` %s="%s"`, a[0], escape(a[1]))
	}
	if d.seeded {
		fmt.Fprintf(&buf, ` data-seed="%d"`, d.seed)
	}
	buf.WriteString(">\n")

	fmt.Fprintf(&buf, `<rect id="scale-box" x="0" y="0" width="%s" height="%s" fill="none" stroke="none" data-scale-box-cm="%s"/>`+"\n",
		box, box, box)

	if d.grid {
		renderGrid(&buf, boxCM, sc)
	}

	buf.WriteString(`<g id="plant">` + "\n")
	layer.WriteSVG(&buf)
	buf.WriteString("</g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderGrid draws interior lines only, so the document corners stay
// transparent.
func renderGrid(buf *bytes.Buffer, boxCM float64, sc scale.Scale) {
	width := 0.1 / 10 * float64(sc.Denominator()) // 0.1 mm on paper
	fmt.Fprintf(buf, `<g id="grid" fill="none" stroke="%s" stroke-width="%s" opacity="0.25" data-grid-spacing-cm="%d">`+"\n",
		gridColor, num(width, 3), GridSpacingCM)
	box := num(boxCM, 2)
	for v := float64(GridSpacingCM); v < boxCM; v += GridSpacingCM {
		at := num(v, 2)
		fmt.Fprintf(buf, `<line x1="%s" y1="0" x2="%s" y2="%s"/>`+"\n", at, at, box)
		fmt.Fprintf(buf, `<line x1="0" y1="%s" x2="%s" y2="%s"/>`+"\n", at, box, at)
	}
	buf.WriteString("</g>\n")
}

func num(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'f', prec, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	}
	return s
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
