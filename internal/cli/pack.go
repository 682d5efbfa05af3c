package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/catalog"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/pipeline"
)

// packCommand creates the pack command: all styles and seasons for one plant.
func (c *CLI) packCommand() *cobra.Command {
	var (
		flags     renderFlags
		widthsStr string
		pick      bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "pack [plant.json|plant.toml|name]",
		Short: "Render the full style and season pack for a plant",
		Long: `Render all 16 style and season combinations for one plant at one scale.

Files are written to --out (default ./<name>) as
<name>__<style>__<season>__<1-N>.svg, with one PNG per --png width and a
manifest.json listing every file. A cell that fails is reported and the
rest of the pack is still written.

With --pick the plant is chosen interactively from the catalog.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				opts.Seed = &flags.seed
			}
			widths, err := parseWidths(widthsStr)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var pd *pipeline.PlantData
			switch {
			case pick:
				pd, err = c.pickPlant(ctx, flags.catalogDSN)
			case len(args) == 1:
				pd, err = c.resolvePlant(ctx, args[0], flags.catalogDSN)
			default:
				return errors.New(errors.ErrCodeInvalidInput, "pack needs a plant file, a plant name or --pick").
					WithField("plant_data")
			}
			if err != nil || pd == nil {
				return err
			}
			opts.PlantData = pd
			return c.runPack(ctx, opts, flags, widths)
		},
	}

	cmd.Flags().StringVar(&flags.output, "out", "", "output directory (default ./<name>)")
	cmd.Flags().StringVar(&flags.catalogDSN, "catalog", "", "catalog directory, sqlite: path or postgres:// URL")
	cmd.Flags().BoolVar(&flags.noGrid, "no-grid", false, "omit the reference grid")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the plant interactively from the catalog")
	cmd.Flags().StringVar(&widthsStr, "png", "", "companion PNG widths in pixels (comma-separated, e.g. 512,2048)")
	cmd.Flags().StringVar(&opts.Scale, "scale", "", "drawing scale: 1:10, 1:20, 1:50, 1:100, 1:200")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "base variation seed (default from config, 42)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel cell renders (default GOMAXPROCS)")

	return cmd
}

func (c *CLI) runPack(ctx context.Context, opts pipeline.Options, flags renderFlags, widths []int) error {
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

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering pack...")
	spinner.Start()
	pack, hit, err := runner.PackWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Pack failed")
		return err
	}
	spinner.Stop()

	dir := flags.output
	if dir == "" {
		dir = catalog.Key(opts.PlantData.BotanicalName)
		if dir == "" {
			dir = "plant"
		}
	}

	spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Writing files to %s...", dir))
	spinner.Start()
	report, err := runner.Export(ctx, pack, dir, widths)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d of %d symbols", pack.Succeeded(), len(pack.Cells)))

	printPackSummary(pack, report, hit)
	if failed := report.Failed(); len(failed) > 0 {
		return errors.New(errors.ErrCodeInternal, "%d of %d files failed", len(failed), len(report.Files))
	}
	printFile(filepath.Join(dir, pipeline.ManifestName))
	return nil
}

// pickPlant runs the interactive plant picker. It returns nil plant data
// when the user quits without choosing.
func (c *CLI) pickPlant(ctx context.Context, dsn string) (*pipeline.PlantData, error) {
	src, err := c.openCatalog(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	plants, err := src.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(plants) == 0 {
		printWarning("Catalog is empty")
		printNextStep("Add plants with", "canopy catalog import <files>")
		return nil, nil
	}

	final, err := tea.NewProgram(NewPlantListModel(plants), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("plant picker: %w", err)
	}
	m, ok := final.(PlantListModel)
	if !ok || m.Selected == nil {
		printInfo("No plant selected")
		return nil, nil
	}
	return pipeline.LookupPlant(ctx, src, m.Selected.BotanicalName)
}
