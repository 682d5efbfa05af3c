package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/canopy/pkg/cache"
	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/symbol"
)

// renderSymbol validates the plant and renders it, reporting to the hooks.
func (r *Runner) renderSymbol(ctx context.Context, opts Options) (*symbol.Symbol, error) {
	hooks := observability.Render()
	hooks.OnSymbolStart(ctx, opts.Style, opts.Season)
	start := time.Now()

	sym, err := func() (*symbol.Symbol, error) {
		plant, err := opts.Plant()
		if err != nil {
			return nil, err
		}
		return symbol.Render(symbol.Request{
			Plant:         plant,
			Style:         opts.style,
			Season:        opts.season,
			Scale:         opts.scale,
			Seed:          opts.SeedValue(),
			BotanicalName: opts.PlantData.BotanicalName,
			CommonName:    opts.PlantData.CommonName,
		}, symbol.WithGrid(opts.GridEnabled()))
	}()

	size := 0
	if sym != nil {
		size = sym.Length
	}
	hooks.OnSymbolComplete(ctx, opts.Style, opts.Season, size, time.Since(start), err)
	return sym, err
}

// RasterizeWithCacheInfo converts svg to PNG with caching and retries.
func (r *Runner) RasterizeWithCacheInfo(ctx context.Context, svg []byte, width int, refresh bool) ([]byte, bool, error) {
	rz := r.rasterizer()
	key := r.Keyer.RasterKey(cache.Hash(svg), cache.RasterKeyOpts{Width: width, Backend: rz.Name()})

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "raster")
			return data, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "raster")

	var png []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		png, err = rz.Rasterize(ctx, svg, width)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, png, cache.RasterTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "raster", len(png))
	}
	return png, false, nil
}

// Rasterize is a convenience wrapper that calls RasterizeWithCacheInfo.
func (r *Runner) Rasterize(ctx context.Context, svg []byte, width int) ([]byte, error) {
	png, _, err := r.RasterizeWithCacheInfo(ctx, svg, width, false)
	return png, err
}

// MetadataFor builds response metadata from a rendered symbol. Single
// renders and pack cells both report through it.
func MetadataFor(s *symbol.Symbol) Metadata {
	return Metadata{
		BotanicalName:  s.BotanicalName,
		CommonName:     s.CommonName,
		Style:          string(s.Style),
		Season:         string(s.Season),
		Scale:          s.Scale.String(),
		RenderTimeMS:   s.RenderTime.Milliseconds(),
		DocumentLength: s.Length,
		Seed:           s.Seed,
	}
}
