package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/catalog"
	"github.com/matzehuels/canopy/pkg/errors"
)

// catalogCommand creates the plant catalog command group.
func (c *CLI) catalogCommand() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse and maintain the plant catalog",
		Long: `Browse and maintain the plant catalog.

A catalog is a directory of .json/.toml plant files, a SQLite database
(sqlite:path or *.db) or a PostgreSQL database (postgres://...). It is
taken from --catalog, CANOPY_CATALOG or the config file.`,
	}
	cmd.PersistentFlags().StringVar(&dsn, "catalog", "", "catalog directory, sqlite: path or postgres:// URL")

	cmd.AddCommand(c.catalogListCommand(&dsn))
	cmd.AddCommand(c.catalogShowCommand(&dsn))
	cmd.AddCommand(c.catalogImportCommand(&dsn))

	return cmd
}

func (c *CLI) catalogListCommand(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog plants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := c.openCatalog(ctx, *dsn)
			if err != nil {
				return err
			}
			defer src.Close()

			plants, err := src.List(ctx)
			if err != nil {
				return err
			}
			if len(plants) == 0 {
				printInfo("Catalog is empty")
				return nil
			}
			fmt.Println(plantTable(plants))
			printDetail("%d plants", len(plants))
			return nil
		},
	}
}

func (c *CLI) catalogShowCommand(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show one plant's parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := c.openCatalog(ctx, *dsn)
			if err != nil {
				return err
			}
			defer src.Close()

			e, err := src.Lookup(ctx, args[0])
			if err != nil {
				return err
			}
			p := e.Params
			fmt.Println(StyleTitle.Render(e.BotanicalName))
			if e.CommonName != "" {
				printKeyValue("Common name", e.CommonName)
			}
			printKeyValue("Spread", formatMeters(p.SpreadCM))
			printKeyValue("Height", formatMeters(p.HeightCM))
			printKeyValue("Scale box", formatMeters(p.ScaleBoxCM))
			printKeyValue("Center", fmt.Sprintf("%g, %g cm", p.CenterCM.X, p.CenterCM.Y))
			printKeyValue("Leaf habit", string(p.LeafHabit))
			printKeyValue("Texture", string(p.CrownTexture))
			printKeyValue("Density", fmt.Sprintf("%.2f", p.CrownDensity))
			if p.WinterInterest != "" {
				printKeyValue("Winter", string(p.WinterInterest))
			}
			outline := "generated crown"
			if len(e.Outline) > 0 {
				outline = fmt.Sprintf("%d points", len(e.Outline))
			}
			printKeyValue("Outline", outline)
			return nil
		},
	}
}

func (c *CLI) catalogImportCommand(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import [plant files...]",
		Short: "Import .json or .toml plant files into the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := c.openCatalog(ctx, *dsn)
			if err != nil {
				return err
			}
			defer src.Close()

			w, ok := src.(catalog.Writer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "catalog does not accept imports")
			}

			imported := 0
			for _, path := range args {
				e, err := catalog.ReadFile(path)
				if err == nil {
					if _, err = e.Plant(); err == nil {
						err = w.Put(ctx, e)
					}
				}
				if err != nil {
					printError("%s: %s", path, errors.UserMessage(err))
					continue
				}
				printSuccess("Imported %s", StyleSuccess.Render(e.BotanicalName))
				imported++
			}
			if imported < len(args) {
				return errors.New(errors.ErrCodeInvalidInput, "%d of %d files could not be imported",
					len(args)-imported, len(args))
			}
			return nil
		},
	}
}

// plantTable renders catalog summaries as a bordered table.
func plantTable(plants []catalog.Summary) string {
	rows := make([][]string, len(plants))
	for i, p := range plants {
		rows[i] = []string{p.BotanicalName, p.CommonName, string(p.LeafHabit), formatMeters(p.ScaleBoxCM)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Botanical name", "Common name", "Habit", "Box").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorGreen).Italic(true)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// trimDSN hides credentials in a postgres URL for display.
func trimDSN(dsn string) string {
	if i := strings.Index(dsn, "@"); i > 0 && strings.Contains(dsn[:i], "://") {
		return dsn[:strings.Index(dsn, "://")+3] + "…" + dsn[i:]
	}
	return dsn
}
