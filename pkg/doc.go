// Package pkg provides the core libraries for canopy, a procedural plan-view
// plant symbol renderer for landscape drawings.
//
// # Overview
//
// Canopy turns a plant's crown outline and botanical parameters into
// scale-accurate SVG symbols. Every plant can be drawn in four styles
// (scientific, hand-drawn, watercolor, marker) and four seasons, and the
// same request always produces the same document.
//
// # Architecture
//
// The typical data flow:
//
//	outline + botanical parameters
//	         ↓
//	    [botanical] (validate into a Plant)
//	         ↓
//	    [palette] + [variation] (season colours, seeded jitter)
//	         ↓
//	    [render/styles] (style marks inside the crown)
//	         ↓
//	    [render/compose] (place on the scale box, emit SVG)
//	         ↓
//	    [render/raster] (optional PNG)
//
// [symbol] ties these together for one symbol or a 16-cell pack, and
// [pipeline] adds request validation, caching and batch export on top.
//
// # Quick Start
//
//	params := botanical.Parameters{
//	    SpreadCM: 800, HeightCM: 1200, ScaleBoxCM: 1500,
//	    CenterCM:  geom.Point{X: 750, Y: 900},
//	    LeafHabit: botanical.Evergreen, CrownTexture: botanical.Needle,
//	    CrownDensity: 0.6,
//	}
//	plant, _ := botanical.Validate(botanical.Crown(params), params)
//	sym, _ := symbol.Render(symbol.Request{
//	    Plant: plant, Style: styles.Watercolor, Season: palette.Winter,
//	    Scale: scale.S50, Seed: 42,
//	})
//	os.WriteFile("taxus.svg", sym.SVG, 0644)
//
// # Main Packages
//
// ## Rendering core
//
// [geom] - points, polygons, chords and containment tests.
//
// [botanical] - plant parameters, outline validation and generated crowns.
//
// [scale] - drawing scales 1:10 to 1:200 and centimetre to pixel conversion.
//
// [variation] - PCG random streams, per-cell seed derivation and Poisson
// disk sampling.
//
// [palette] - seasonal colour mapping by leaf habit and winter interest.
//
// [render/styles], [render/compose], [render/raster] - the four style
// renderers, document composition, and PNG conversion.
//
// [symbol] - single symbols, packs and batch file names.
//
// ## Infrastructure
//
// [cache] - file, Redis, MongoDB and null caches with scoped keys.
//
// [catalog] - plant catalogs in a directory, SQLite or PostgreSQL.
//
// [pipeline] - validated requests, cached rendering and pack export.
//
// [api] - the HTTP interface.
//
// [observability] - hooks for metrics and tracing.
//
// [errors] - coded errors shared by every layer.
package pkg
