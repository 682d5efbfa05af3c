package raster

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strconv"

	"github.com/matzehuels/canopy/pkg/cache"
	"github.com/matzehuels/canopy/pkg/errors"
)

// RSVG rasterizes with the external rsvg-convert tool.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
type RSVG struct {
	// Binary overrides the executable; defaults to "rsvg-convert".
	Binary string
}

// Name returns "rsvg".
func (RSVG) Name() string { return "rsvg" }

// Available reports whether the converter binary is on PATH.
func (r RSVG) Available() bool {
	_, err := exec.LookPath(r.binary())
	return err == nil
}

func (r RSVG) binary() string {
	if r.Binary != "" {
		return r.Binary
	}
	return "rsvg-convert"
}

// Rasterize pipes svg through rsvg-convert at widthPx. A converter killed
// by a signal is reported as retryable.
func (r RSVG) Rasterize(ctx context.Context, svg []byte, widthPx int) ([]byte, error) {
	return observe(ctx, r.Name(), widthPx, func() ([]byte, error) {
		if err := ValidateWidth(widthPx); err != nil {
			return nil, err
		}
		if err := checkDocument(svg); err != nil {
			return nil, err
		}
		if !r.Available() {
			return nil, errors.New(errors.ErrCodeRasterization,
				"png export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
		}

		cmd := exec.CommandContext(ctx, r.binary(), "-f", "png", "-w", strconv.Itoa(widthPx), "--keep-aspect-ratio")
		cmd.Stdin = bytes.NewReader(svg)

		var out, errBuf bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &errBuf

		if err := cmd.Run(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			wrapped := errors.Wrap(errors.ErrCodeRasterization, err, "rsvg-convert: %s", errBuf.String())
			var exitErr *exec.ExitError
			if stderrors.As(err, &exitErr) && !exitErr.Exited() {
				return nil, cache.Retryable(wrapped)
			}
			return nil, wrapped
		}
		return out.Bytes(), nil
	})
}
