package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The API server uses it to keep each deployment's entries apart when
// several share one Redis or MongoDB instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:nursery-42:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SymbolKey generates a prefixed key for rendered symbols.
func (k *ScopedKeyer) SymbolKey(plantHash string, opts SymbolKeyOpts) string {
	return k.prefix + k.inner.SymbolKey(plantHash, opts)
}

// PackKey generates a prefixed key for pack manifests.
func (k *ScopedKeyer) PackKey(plantHash string, opts PackKeyOpts) string {
	return k.prefix + k.inner.PackKey(plantHash, opts)
}

// RasterKey generates a prefixed key for raster conversions.
func (k *ScopedKeyer) RasterKey(svgHash string, opts RasterKeyOpts) string {
	return k.prefix + k.inner.RasterKey(svgHash, opts)
}

// CatalogKey generates a prefixed key for catalog entries.
func (k *ScopedKeyer) CatalogKey(source, name string) string {
	return k.prefix + k.inner.CatalogKey(source, name)
}
