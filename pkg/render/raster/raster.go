// Package raster converts finished symbol documents to transparent PNGs.
//
// Two [Rasterizer] implementations are provided:
//
//   - [Native]: pure Go (oksvg + rasterx), no external tools. The default.
//   - [RSVG]: shells out to rsvg-convert from librsvg, for callers who need
//     librsvg's exact antialiasing.
//
// Both size the bitmap by pixel width and derive the height from the
// document's viewBox, leave every unpainted pixel fully transparent, and
// refuse documents that would need font resolution. Symbols never carry text.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/observability"
)

// Accepted bitmap widths in pixels.
const (
	MinWidth = 16
	MaxWidth = 8192
)

// Rasterizer converts an SVG document to PNG bytes at widthPx.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg []byte, widthPx int) ([]byte, error)
	// Name identifies the backend in logs, cache keys and hooks.
	Name() string
}

// New returns the rasterizer for backend: "native" (or empty) or "rsvg".
func New(backend string) (Rasterizer, error) {
	switch backend {
	case "", "native":
		return Native{}, nil
	case "rsvg":
		return RSVG{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput,
		"unknown raster backend %q (allowed: native, rsvg)", backend).WithField("backend")
}

// OutputName returns the companion raster file name for a document base
// name, e.g. "acer_rubrum__marker__autumn__1-50__512.png".
func OutputName(base string, widthPx int) string {
	base = strings.TrimSuffix(base, ".svg")
	return fmt.Sprintf("%s__%d.png", base, widthPx)
}

// ValidateWidth checks widthPx against [MinWidth, MaxWidth].
func ValidateWidth(widthPx int) error {
	if widthPx < MinWidth || widthPx > MaxWidth {
		return errors.New(errors.ErrCodeInvalidInput,
			"raster_size %d out of range [%d, %d]", widthPx, MinWidth, MaxWidth).WithField("raster_size")
	}
	return nil
}

// checkDocument rejects input that is not SVG or would load fonts.
func checkDocument(svg []byte) error {
	if !bytes.Contains(svg, []byte("<svg")) {
		return errors.New(errors.ErrCodeRasterization, "input is not an SVG document")
	}
	if bytes.Contains(svg, []byte("<text")) || bytes.Contains(svg, []byte("@font-face")) {
		return errors.New(errors.ErrCodeRasterization, "document contains text or font resources")
	}
	return nil
}

// observe runs fn between the raster start and complete hooks.
func observe(ctx context.Context, backend string, widthPx int, fn func() ([]byte, error)) ([]byte, error) {
	hooks := observability.Raster()
	hooks.OnRasterStart(ctx, backend, widthPx)
	start := time.Now()
	png, err := fn()
	hooks.OnRasterComplete(ctx, backend, widthPx, len(png), time.Since(start), err)
	return png, err
}
