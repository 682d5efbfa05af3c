package raster

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/canopy/pkg/errors"
)

// Native rasterizes in-process with oksvg and rasterx.
type Native struct{}

// Name returns "native".
func (Native) Name() string { return "native" }

// Rasterize draws svg onto a transparent RGBA canvas widthPx wide.
func (n Native) Rasterize(ctx context.Context, svg []byte, widthPx int) ([]byte, error) {
	return observe(ctx, n.Name(), widthPx, func() ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := ValidateWidth(widthPx); err != nil {
			return nil, err
		}
		if err := checkDocument(svg); err != nil {
			return nil, err
		}
		return drawPNG(svg, widthPx)
	})
}

func drawPNG(svg []byte, widthPx int) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, errors.New(errors.ErrCodeRasterization, "draw: %v", r)
		}
	}()

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterization, err, "parse svg")
	}
	vb := icon.ViewBox
	if vb.W <= 0 || vb.H <= 0 {
		return nil, errors.New(errors.ErrCodeRasterization, "document has no usable viewBox")
	}

	w := widthPx
	h := int(math.Round(float64(w) * vb.H / vb.W))
	if h < 1 {
		h = 1
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterization, err, "encode png")
	}
	return buf.Bytes(), nil
}

