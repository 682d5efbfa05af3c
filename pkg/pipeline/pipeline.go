// Package pipeline provides the request-level symbol pipeline for canopy.
//
// This package turns a caller's request into finished documents and is used
// by both the CLI and the HTTP API. By centralizing this logic, both entry
// points validate, cache and report errors the same way.
//
// # Stages
//
//  1. Validate: structural checks on plant_data, enumeration checks on
//     style, season, scale and format (see [Options.ValidateAndSetDefaults])
//  2. Render: the plant is validated and rendered by [symbol.Render]
//  3. Rasterize (optional): the document is converted to PNG by the runner's
//     [raster.Rasterizer], retried on transient failures
//
// Packs follow the same path through [symbol.GeneratePack], and [Runner.Export]
// writes a pack to disk in the batch file layout.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Render(ctx, pipeline.Options{
//	    PlantData: plantData,
//	    Style:     "watercolor",
//	    Season:    "winter",
//	    Scale:     "1:50",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("birch.svg", result.SVG, 0644)
package pipeline

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canopy/pkg/botanical"
	"github.com/matzehuels/canopy/pkg/cache"
	"github.com/matzehuels/canopy/pkg/catalog"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/palette"
	"github.com/matzehuels/canopy/pkg/render/raster"
	"github.com/matzehuels/canopy/pkg/render/styles"
	"github.com/matzehuels/canopy/pkg/scale"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSeed is the seed used when a request names none.
	DefaultSeed = uint64(42)

	// DefaultStyle is the default drawing style.
	DefaultStyle = styles.Scientific

	// DefaultSeason is the default season.
	DefaultSeason = palette.Summer

	// DefaultRasterSize is the PNG width used by the CLI when none is given.
	DefaultRasterSize = 1024
)

// DefaultScale is the default drawing scale.
var DefaultScale = scale.Default

// Output formats.
const (
	FormatVector = "vector"
	FormatRaster = "raster"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatVector, FormatRaster}

// =============================================================================
// Options - Request Configuration
// =============================================================================

// PlantData is the plant part of a request. Pointers and slices stay nil
// when the caller omitted them, so missing fields can be named.
type PlantData struct {
	BotanicalName string                `json:"botanical_name,omitempty"`
	CommonName    string                `json:"common_name,omitempty"`
	Params        *botanical.Parameters `json:"botanical_params"`
	Outline       geom.Polygon          `json:"outline"`
}

// FromEntry converts a catalog entry. Entries without an outline get the
// generated crown so they pass structural validation.
func FromEntry(e *catalog.Entry) *PlantData {
	params := e.Params
	outline := e.Outline
	if len(outline) == 0 {
		outline = botanical.Crown(params)
	}
	return &PlantData{
		BotanicalName: e.BotanicalName,
		CommonName:    e.CommonName,
		Params:        &params,
		Outline:       outline,
	}
}

// Options contains all configuration for one render or pack request.
// This struct supports JSON serialization for API requests.
type Options struct {
	PlantData  *PlantData `json:"plant_data"`
	Style      string     `json:"style,omitempty"`
	Season     string     `json:"season,omitempty"`
	Scale      string     `json:"scale,omitempty"`
	Seed       *uint64    `json:"seed,omitempty"` // nil means DefaultSeed; 0 is a valid seed
	Format     string     `json:"format,omitempty"`
	RasterSize int        `json:"raster_size,omitempty"`
	Grid       *bool      `json:"grid,omitempty"`
	Refresh    bool       `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger  *log.Logger `json:"-"`
	Workers int         `json:"-"`

	style     styles.Style
	season    palette.Season
	scale     scale.Scale
	validated bool
}

// Result contains the outputs of one render.
type Result struct {
	// SVG is the vector document.
	SVG []byte

	// PNG is set for raster requests.
	PNG []byte

	// Metadata describes the document.
	Metadata Metadata

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Metadata is the response metadata for a rendered symbol.
type Metadata struct {
	BotanicalName  string `json:"botanical_name,omitempty"`
	CommonName     string `json:"common_name,omitempty"`
	Style          string `json:"style"`
	Season         string `json:"season"`
	Scale          string `json:"scale"`
	RenderTimeMS   int64  `json:"render_time_ms"`
	DocumentLength int    `json:"document_length"`
	Seed           uint64 `json:"seed"`
	RasterSize     int    `json:"raster_size,omitempty"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SymbolHit bool // Whether the document came from cache
	RasterHit bool // Whether the PNG came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(ValidFormats, ", ")).WithField("format")
	}
	return nil
}

// validatePlantData checks that the plant part of a request is complete.
// It does not check geometry; that is botanical.Validate's job.
func validatePlantData(pd *PlantData) error {
	if pd == nil {
		return errors.New(errors.ErrCodeInvalidInput, "plant_data is required").WithField("plant_data")
	}
	if pd.Params == nil {
		return errors.New(errors.ErrCodeInvalidInput, "plant_data.botanical_params is required").WithField("plant_data.botanical_params")
	}
	if len(pd.Outline) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "plant_data.outline is required").WithField("plant_data.outline")
	}
	if pd.BotanicalName != "" {
		if err := errors.ValidateBotanicalName(pd.BotanicalName); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for a
// single render. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForPack(); err != nil {
		return err
	}

	if o.Style == "" {
		o.Style = string(DefaultStyle)
	}
	st, err := styles.Parse(o.Style)
	if err != nil {
		return err
	}
	if o.Season == "" {
		o.Season = string(DefaultSeason)
	}
	se, err := palette.ParseSeason(o.Season)
	if err != nil {
		return err
	}
	if o.Format == "" {
		o.Format = FormatVector
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Format == FormatRaster {
		if err := raster.ValidateWidth(o.RasterSize); err != nil {
			return err
		}
	}

	o.style, o.season = st, se
	o.Style, o.Season = string(st), string(se)
	o.validated = true
	return nil
}

// ValidateForPack checks the fields a pack needs: plant data and scale.
// Style, season and format are ignored.
func (o *Options) ValidateForPack() error {
	if err := validatePlantData(o.PlantData); err != nil {
		return err
	}
	if o.Scale == "" {
		o.Scale = DefaultScale.String()
	}
	sc, err := scale.Parse(o.Scale)
	if err != nil {
		return err
	}
	o.scale = sc
	o.Scale = sc.String()
	if o.Seed == nil {
		seed := DefaultSeed
		o.Seed = &seed
	}
	if o.Grid == nil {
		on := true
		o.Grid = &on
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Plant validates the request's geometry and parameters.
func (o *Options) Plant() (*botanical.Plant, error) {
	if err := validatePlantData(o.PlantData); err != nil {
		return nil, err
	}
	return botanical.Validate(o.PlantData.Outline, *o.PlantData.Params)
}

// SeedValue returns the request seed, or [DefaultSeed] when none was given.
func (o *Options) SeedValue() uint64 {
	if o.Seed == nil {
		return DefaultSeed
	}
	return *o.Seed
}

// IsRaster returns true if a PNG was requested.
func (o *Options) IsRaster() bool {
	return o.Format == FormatRaster
}

// GridEnabled reports whether the reference grid is drawn.
func (o *Options) GridEnabled() bool {
	return o.Grid == nil || *o.Grid
}

// plantHash is the content hash of the plant data, used in cache keys.
func (o *Options) plantHash() string {
	return cache.Hash(mustJSON(o.PlantData))
}

// SymbolKeyOpts returns cache key options for a single symbol.
func (o *Options) SymbolKeyOpts() cache.SymbolKeyOpts {
	return cache.SymbolKeyOpts{
		Style:  o.Style,
		Season: o.Season,
		Scale:  o.Scale,
		Seed:   o.SeedValue(),
		Grid:   o.GridEnabled(),
	}
}

// PackKeyOpts returns cache key options for a pack.
func (o *Options) PackKeyOpts() cache.PackKeyOpts {
	return cache.PackKeyOpts{
		Scale: o.Scale,
		Seed:  o.SeedValue(),
		Grid:  o.GridEnabled(),
	}
}
