package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Canopy draws plan-view plant symbols for landscape drawings",
		Long: `Canopy turns a plant's crown outline and botanical parameters into
scale-accurate SVG plan symbols in four drawing styles and four seasons,
with optional transparent PNG companions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/canopy/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.packCommand())
	root.AddCommand(c.rasterizeCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
