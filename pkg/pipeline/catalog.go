package pipeline

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/canopy/pkg/cache"
	"github.com/matzehuels/canopy/pkg/catalog"
	"github.com/matzehuels/canopy/pkg/observability"
)

// LookupEntry resolves name in src, caching the entry for [cache.CatalogTTL].
// Entries are keyed by slug, so "Acer rubrum" and "acer_rubrum" share one
// cache entry. Lookup errors are never cached.
func (r *Runner) LookupEntry(ctx context.Context, src catalog.Source, name string, refresh bool) (*catalog.Entry, error) {
	key := r.Keyer.CatalogKey(catalog.Describe(src), catalog.Key(name))

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var e catalog.Entry
			if err := json.Unmarshal(data, &e); err == nil {
				observability.Cache().OnCacheHit(ctx, "catalog")
				return &e, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "catalog")

	e, err := src.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(e); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.CatalogTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "catalog", len(data))
		}
	}
	return e, nil
}
