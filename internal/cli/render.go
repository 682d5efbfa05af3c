package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/palette"
	"github.com/matzehuels/canopy/pkg/pipeline"
	"github.com/matzehuels/canopy/pkg/render/raster"
	"github.com/matzehuels/canopy/pkg/render/styles"
	"github.com/matzehuels/canopy/pkg/scale"
	"github.com/matzehuels/canopy/pkg/symbol"
)

// renderFlags holds the flags shared by render and pack.
type renderFlags struct {
	output     string // output file (render) or directory (pack)
	catalogDSN string // catalog to resolve plant names against
	noGrid     bool   // omit the 100 cm reference grid
	noCache    bool   // disable caching
	refresh    bool   // bypass cache reads
	seed       uint64 // applied only when --seed is set
}

// renderCommand creates the render command for a single symbol.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [plant.json|plant.toml|name]",
		Short: "Render one plant symbol",
		Long: `Render one plan-view symbol for a plant.

The plant is read from a .json or .toml plant file, or looked up by
botanical name in the configured catalog. The document is written as
<name>__<style>__<season>__<1-N>.svg unless --output says otherwise.
With --format raster a transparent PNG of --raster-size pixels is written
instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				opts.Seed = &flags.seed
			}
			if opts.Format != "" {
				if err := pipeline.ValidateFormat(opts.Format); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&flags.catalogDSN, "catalog", "", "catalog directory, sqlite: path or postgres:// URL")
	cmd.Flags().BoolVar(&flags.noGrid, "no-grid", false, "omit the reference grid")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "re-render even when cached")

	cmd.Flags().StringVar(&opts.Style, "style", "", "drawing style: scientific (default), hand-drawn, watercolor, marker")
	cmd.Flags().StringVar(&opts.Season, "season", "", "season: spring, summer (default), autumn, winter")
	cmd.Flags().StringVar(&opts.Scale, "scale", "", "drawing scale: 1:10, 1:20, 1:50, 1:100, 1:200")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "variation seed (default from config, 42)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format: vector (default), raster")
	cmd.Flags().IntVar(&opts.RasterSize, "raster-size", pipeline.DefaultRasterSize, "PNG width in pixels for raster output")

	_ = cmd.RegisterFlagCompletionFunc("style", fixedCompletions(styleNames()))
	_ = cmd.RegisterFlagCompletionFunc("season", fixedCompletions(seasonNames()))

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags renderFlags) error {
	pd, err := c.resolvePlant(ctx, input, flags.catalogDSN)
	if err != nil {
		return err
	}
	opts.PlantData = pd
	opts.Refresh = flags.refresh
	opts.Logger = c.Logger
	if flags.noGrid {
		off := false
		opts.Grid = &off
	}
	if err := c.applyConfigDefaults(&opts); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering symbol...")
	spinner.Start()

	res, err := runner.RenderWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	md := res.Metadata
	path := flags.output
	if path == "" {
		path, err = symbolFileName(pd.BotanicalName, md)
		if err != nil {
			return err
		}
		if res.PNG != nil {
			path = raster.OutputName(path, md.RasterSize)
		}
	}
	data := res.SVG
	if res.PNG != nil {
		data = res.PNG
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir).WithField("output")
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path).WithField("output")
	}

	printSuccess("Rendered %s", StyleHighlight.Render(displayName(pd)))
	printSymbolStats(md, res.CacheInfo.SymbolHit)
	printFile(path)
	return nil
}

// resolvePlant reads a plant file, or looks the name up in a catalog when
// no such file exists.
func (c *CLI) resolvePlant(ctx context.Context, input, dsn string) (*pipeline.PlantData, error) {
	if _, err := os.Stat(input); err == nil {
		return pipeline.LoadPlant(input)
	}
	src, err := c.openCatalog(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return pipeline.LookupPlant(ctx, src, input)
}

// symbolFileName names a rendered document from its metadata.
func symbolFileName(botanicalName string, md pipeline.Metadata) (string, error) {
	sc, err := scale.Parse(md.Scale)
	if err != nil {
		return "", err
	}
	if botanicalName == "" {
		botanicalName = "plant"
	}
	return symbol.FileName(botanicalName, styles.Style(md.Style), palette.Season(md.Season), sc), nil
}

func displayName(pd *pipeline.PlantData) string {
	switch {
	case pd.BotanicalName != "" && pd.CommonName != "":
		return fmt.Sprintf("%s (%s)", pd.BotanicalName, pd.CommonName)
	case pd.BotanicalName != "":
		return pd.BotanicalName
	}
	return "plant"
}

func styleNames() []string {
	out := make([]string, len(styles.All))
	for i, s := range styles.All {
		out[i] = string(s)
	}
	return out
}

func seasonNames() []string {
	out := make([]string, len(palette.Seasons))
	for i, s := range palette.Seasons {
		out[i] = string(s)
	}
	return out
}

func fixedCompletions(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
