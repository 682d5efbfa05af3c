// Package cli implements the canopy command-line interface.
package cli

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canopy/internal/config"
	"github.com/matzehuels/canopy/pkg/catalog"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "canopy"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the config file location (--config).
	ConfigPath string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner from the configured cache and raster
// backend.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	rz, err := cfg.Rasterizer()
	if err != nil {
		return nil, err
	}
	store, err := cfg.OpenCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, cfg.Keyer(), c.Logger)
	r.Rasterizer = rz
	return r, nil
}

// openCatalog opens the catalog named by dsn, falling back to the config.
func (c *CLI) openCatalog(ctx context.Context, dsn string) (catalog.Source, error) {
	if dsn != "" {
		return catalog.Open(ctx, dsn)
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	src, err := cfg.OpenCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"no catalog configured (use --catalog or set CANOPY_CATALOG)").WithField("catalog")
	}
	return src, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfigDefaults fills scale and seed from the config when the user
// left the flags unset.
func (c *CLI) applyConfigDefaults(opts *pipeline.Options) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if opts.Scale == "" {
		opts.Scale = cfg.Render.Scale
	}
	if opts.Seed == nil {
		seed := cfg.Render.Seed
		opts.Seed = &seed
	}
	return nil
}

// parseWidths parses a comma-separated list of raster widths.
func parseWidths(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var widths []int
	for _, part := range strings.Split(s, ",") {
		w, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid raster width %q", part).WithField("raster_size")
		}
		widths = append(widths, w)
	}
	return widths, nil
}
