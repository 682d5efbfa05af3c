package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canopy/pkg/cache"
	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/palette"
	"github.com/matzehuels/canopy/pkg/render/raster"
	"github.com/matzehuels/canopy/pkg/render/styles"
	"github.com/matzehuels/canopy/pkg/symbol"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, rasterizer and logger - it
// doesn't store results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache      cache.Cache
	Keyer      cache.Keyer
	Logger     *log.Logger
	Rasterizer raster.Rasterizer
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The rasterizer defaults to [raster.Native]; set Rasterizer to change it.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
		Rasterizer: raster.Native{},
	}
}

// cachedSymbol is the cache form of a rendered document.
type cachedSymbol struct {
	SVG      []byte   `json:"svg"`
	Metadata Metadata `json:"metadata"`
}

// RenderWithCacheInfo renders one symbol, and its PNG for raster requests.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}
	key := r.Keyer.SymbolKey(opts.plantHash(), opts.SymbolKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached cachedSymbol
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "symbol")
				result.SVG = cached.SVG
				result.Metadata = cached.Metadata
				result.CacheInfo.SymbolHit = true
			}
		}
	}

	if !result.CacheInfo.SymbolHit {
		observability.Cache().OnCacheMiss(ctx, "symbol")
		sym, err := r.renderSymbol(ctx, opts)
		if err != nil {
			return nil, err
		}
		result.SVG = sym.SVG
		result.Metadata = MetadataFor(sym)

		if data, err := json.Marshal(cachedSymbol{SVG: sym.SVG, Metadata: result.Metadata}); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.SymbolTTL); err == nil {
				observability.Cache().OnCacheSet(ctx, "symbol", len(data))
			}
		}
		opts.Logger.Debug("rendered symbol",
			"style", opts.Style,
			"season", opts.Season,
			"scale", opts.Scale,
			"bytes", len(sym.SVG),
			"duration", sym.RenderTime)
	}

	if opts.IsRaster() {
		png, hit, err := r.RasterizeWithCacheInfo(ctx, result.SVG, opts.RasterSize, opts.Refresh)
		if err != nil {
			return nil, err
		}
		result.PNG = png
		result.CacheInfo.RasterHit = hit
		result.Metadata.RasterSize = opts.RasterSize
	}
	return result, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo.
func (r *Runner) Render(ctx context.Context, opts Options) (*Result, error) {
	return r.RenderWithCacheInfo(ctx, opts)
}

// cachedCell is the cache form of one successful pack cell.
type cachedCell struct {
	Style    string `json:"style"`
	Season   string `json:"season"`
	Seed     uint64 `json:"seed"`
	SVG      []byte `json:"svg"`
	RenderNS int64  `json:"render_ns"`
}

// PackWithCacheInfo renders every style and season for the plant in opts.
// Style, season and format are ignored. Cell failures are recorded in the
// pack, not returned; the error is for invalid requests only. Only packs
// without failed cells are cached.
func (r *Runner) PackWithCacheInfo(ctx context.Context, opts Options) (*symbol.Pack, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForPack(); err != nil {
		return nil, false, err
	}
	plant, err := opts.Plant()
	if err != nil {
		return nil, false, err
	}
	req := symbol.PackRequest{
		Plant:         plant,
		Scale:         opts.scale,
		BaseSeed:      opts.SeedValue(),
		BotanicalName: opts.PlantData.BotanicalName,
		CommonName:    opts.PlantData.CommonName,
	}

	key := r.Keyer.PackKey(opts.plantHash(), opts.PackKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cells []cachedCell
			if err := json.Unmarshal(data, &cells); err == nil && len(cells) == len(symbol.Keys()) {
				observability.Cache().OnCacheHit(ctx, "pack")
				return restorePack(req, cells), true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "pack")

	pack := symbol.GeneratePack(ctx, req, symbol.WithGrid(opts.GridEnabled()), symbol.WithWorkers(opts.Workers))

	for _, c := range pack.Ordered() {
		if c.Err != nil {
			opts.Logger.Warn("pack cell failed", "cell", c.Key, "error", c.Err)
		}
	}
	opts.Logger.Info("generated pack",
		"plant", opts.PlantData.BotanicalName,
		"succeeded", pack.Succeeded(),
		"failed", len(pack.Failed()),
		"duration", pack.Duration)

	if len(pack.Failed()) == 0 {
		cells := make([]cachedCell, 0, len(pack.Cells))
		for _, c := range pack.Ordered() {
			cells = append(cells, cachedCell{
				Style:    string(c.Key.Style),
				Season:   string(c.Key.Season),
				Seed:     c.Seed,
				SVG:      c.Symbol.SVG,
				RenderNS: int64(c.Symbol.RenderTime),
			})
		}
		if data, err := json.Marshal(cells); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.SymbolTTL); err == nil {
				observability.Cache().OnCacheSet(ctx, "pack", len(data))
			}
		}
	}
	return pack, false, nil
}

// Pack is a convenience wrapper that calls PackWithCacheInfo.
func (r *Runner) Pack(ctx context.Context, opts Options) (*symbol.Pack, error) {
	pack, _, err := r.PackWithCacheInfo(ctx, opts)
	return pack, err
}

// restorePack rebuilds a pack from cached cells.
func restorePack(req symbol.PackRequest, cells []cachedCell) *symbol.Pack {
	p := &symbol.Pack{
		BotanicalName: req.BotanicalName,
		CommonName:    req.CommonName,
		Scale:         req.Scale,
		BaseSeed:      req.BaseSeed,
		Cells:         make(map[symbol.Key]*symbol.Cell, len(cells)),
	}
	for _, c := range cells {
		k := symbol.Key{Style: styles.Style(c.Style), Season: palette.Season(c.Season)}
		p.Cells[k] = &symbol.Cell{
			Key:  k,
			Seed: c.Seed,
			Symbol: &symbol.Symbol{
				SVG:           c.SVG,
				Style:         k.Style,
				Season:        k.Season,
				Scale:         req.Scale,
				Seed:          c.Seed,
				RenderTime:    time.Duration(c.RenderNS),
				Length:        len(c.SVG),
				BotanicalName: req.BotanicalName,
				CommonName:    req.CommonName,
			},
		}
	}
	return p
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) rasterizer() raster.Rasterizer {
	if r.Rasterizer == nil {
		return raster.Native{}
	}
	return r.Rasterizer
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
