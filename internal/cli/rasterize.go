package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/render/raster"
)

// rasterizeCommand converts existing symbol documents to PNG.
func (c *CLI) rasterizeCommand() *cobra.Command {
	var (
		widthsStr string
		outDir    string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "rasterize [file.svg...]",
		Short: "Convert symbol documents to transparent PNGs",
		Long: `Convert symbol documents to transparent PNGs at one or more pixel widths.

Each input produces <name>__<width>.png beside it, or in --out. Height
follows the document's aspect ratio. A file that fails is reported and
the others are still converted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			widths, err := parseWidths(widthsStr)
			if err != nil {
				return err
			}
			if len(widths) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "at least one --width is required").WithField("raster_size")
			}
			for _, w := range widths {
				if err := raster.ValidateWidth(w); err != nil {
					return err
				}
			}
			return c.runRasterize(cmd.Context(), args, widths, outDir, noCache)
		},
	}

	cmd.Flags().StringVarP(&widthsStr, "width", "w", "1024", "PNG widths in pixels (comma-separated)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: beside each input)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRasterize(ctx context.Context, inputs []string, widths []int, outDir string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", outDir).WithField("output")
		}
	}

	prog := newProgress(c.Logger)
	written, failed := 0, 0
	for _, in := range inputs {
		svg, err := os.ReadFile(in)
		if err != nil {
			printError("%s: %v", in, err)
			failed += len(widths)
			continue
		}
		dir := filepath.Dir(in)
		if outDir != "" {
			dir = outDir
		}
		for _, w := range widths {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, raster.OutputName(filepath.Base(in), w))
			png, err := runner.Rasterize(ctx, svg, w)
			if err == nil {
				err = os.WriteFile(path, png, 0644)
			}
			if err != nil {
				printError("%s: %s", path, errors.UserMessage(err))
				failed++
				continue
			}
			printFile(path)
			written++
		}
	}
	prog.done(fmt.Sprintf("Rasterized %d files", written))

	if failed > 0 {
		return errors.New(errors.ErrCodeRasterization, "%d of %d conversions failed", failed, written+failed)
	}
	return nil
}
