// Package cache stores rendered symbols, raster conversions and catalog
// lookups behind one small interface.
//
// Backends:
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: shared cache for API deployments
//   - [MongoCache]: document store with TTL index, for deployments that
//     already run MongoDB
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer], so multi-tenant deployments can scope them with
// [ScopedKeyer] without touching callers. Renders are deterministic, so a
// key derived from the full request never goes stale; TTLs only bound disk
// use.
package cache

import (
	"context"
	"time"
)

// Default lifetimes per entry kind.
const (
	SymbolTTL  = 30 * 24 * time.Hour
	RasterTTL  = 30 * 24 * time.Hour
	CatalogTTL = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value and true on a hit. Misses are not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data; ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// SymbolKeyOpts holds the request fields besides the plant that change a
// rendered document.
type SymbolKeyOpts struct {
	Style  string `json:"style"`
	Season string `json:"season"`
	Scale  string `json:"scale"`
	Seed   uint64 `json:"seed"`
	Grid   bool   `json:"grid"`
}

// PackKeyOpts holds the request fields besides the plant that change a pack.
type PackKeyOpts struct {
	Scale string `json:"scale"`
	Seed  uint64 `json:"seed"`
	Grid  bool   `json:"grid"`
}

// RasterKeyOpts holds the conversion settings for a raster entry.
type RasterKeyOpts struct {
	Width   int    `json:"width"`
	Backend string `json:"backend"`
}

// Keyer builds cache keys.
type Keyer interface {
	// SymbolKey keys a rendered SVG by plant hash and render options.
	SymbolKey(plantHash string, opts SymbolKeyOpts) string
	// PackKey keys a pack manifest by plant hash and pack options.
	PackKey(plantHash string, opts PackKeyOpts) string
	// RasterKey keys a PNG by the hash of its source SVG.
	RasterKey(svgHash string, opts RasterKeyOpts) string
	// CatalogKey keys a catalog entry by source and botanical name.
	CatalogKey(source, name string) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) SymbolKey(plantHash string, opts SymbolKeyOpts) string {
	return hashKey("symbol", plantHash, opts)
}

func (DefaultKeyer) PackKey(plantHash string, opts PackKeyOpts) string {
	return hashKey("pack", plantHash, opts)
}

func (DefaultKeyer) RasterKey(svgHash string, opts RasterKeyOpts) string {
	return hashKey("raster", svgHash, opts)
}

func (DefaultKeyer) CatalogKey(source, name string) string {
	return "catalog:" + source + ":" + name
}
