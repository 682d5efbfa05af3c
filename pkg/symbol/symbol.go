// Package symbol renders botanical symbols and symbol packs.
//
// [Render] runs one request through the whole chain: palette lookup,
// placement, the style renderer and composition. [GeneratePack] fans a
// plant out over every style and season. Both are pure: no I/O, and
// identical inputs always produce byte-identical documents.
package symbol

import (
	"time"

	"github.com/matzehuels/canopy/pkg/botanical"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/palette"
	"github.com/matzehuels/canopy/pkg/render/compose"
	"github.com/matzehuels/canopy/pkg/render/styles"
	"github.com/matzehuels/canopy/pkg/scale"
	"github.com/matzehuels/canopy/pkg/variation"
)

// Request describes one symbol.
type Request struct {
	Plant         *botanical.Plant
	Style         styles.Style
	Season        palette.Season
	Scale         scale.Scale
	Seed          uint64
	BotanicalName string
	CommonName    string
}

// Symbol is a rendered SVG document with its metadata.
type Symbol struct {
	SVG           []byte
	Style         styles.Style
	Season        palette.Season
	Scale         scale.Scale
	Seed          uint64
	RenderTime    time.Duration
	Length        int
	BotanicalName string
	CommonName    string
}

type options struct {
	sampler variation.Sampler
	grid    bool
	workers int
}

// Option configures rendering.
type Option func(*options)

// WithSampler replaces the interior point sampler.
func WithSampler(s variation.Sampler) Option { return func(o *options) { o.sampler = s } }

// WithGrid toggles the reference grid.
func WithGrid(on bool) Option { return func(o *options) { o.grid = on } }

// WithWorkers bounds how many pack cells render at once. Values below one
// mean one worker per CPU.
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

func newOptions(opts []Option) options {
	o := options{sampler: variation.PoissonDisk{}, grid: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Render produces the symbol for req.
func Render(req Request, opts ...Option) (*Symbol, error) {
	start := time.Now()
	o := newOptions(opts)

	if req.Plant == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "plant is required").WithField("plant_data")
	}
	renderer, err := styles.For(req.Style)
	if err != nil {
		return nil, err
	}
	if !req.Season.Valid() {
		_, err := palette.ParseSeason(string(req.Season))
		return nil, err
	}
	if !req.Scale.Valid() {
		_, err := scale.Parse(req.Scale.String())
		return nil, err
	}

	params := req.Plant.Params()
	pal, err := palette.Map(params.LeafHabit, req.Season, params.WinterInterest)
	if err != nil {
		return nil, err
	}
	outline, err := compose.Place(req.Plant)
	if err != nil {
		return nil, err
	}

	layer := renderer.Render(styles.Context{
		Outline: outline,
		Params:  params,
		Palette: pal,
		Source:  variation.Derive(req.Seed, "symbol"),
		Sampler: o.sampler,
		Scale:   req.Scale,
	})

	svg := compose.RenderSVG(layer, params.ScaleBoxCM, req.Scale,
		compose.WithGrid(o.grid),
		compose.WithName(req.BotanicalName),
		compose.WithStyle(req.Style),
		compose.WithSeason(string(req.Season)),
		compose.WithSeed(req.Seed),
	)

	return &Symbol{
		SVG:           svg,
		Style:         req.Style,
		Season:        req.Season,
		Scale:         req.Scale,
		Seed:          req.Seed,
		RenderTime:    time.Since(start),
		Length:        len(svg),
		BotanicalName: req.BotanicalName,
		CommonName:    req.CommonName,
	}, nil
}

// FileName returns the export file name for one symbol, e.g.
// "betula_pendula__watercolor__winter__1-50.svg".
func FileName(botanicalName string, style styles.Style, season palette.Season, sc scale.Scale) string {
	return errors.Slug(botanicalName) + "__" + string(style) + "__" + string(season) + "__" + sc.FileTag() + ".svg"
}
