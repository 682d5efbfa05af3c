// Package palette maps a plant's leaf habit, the season and its optional
// winter interest to the colours and foliage density a render uses.
//
// Map is a pure function. Every combination of the known habits, seasons
// and interests is defined; unknown values fail with PALETTE_ERROR instead
// of falling back to a default.
//
// Colour blending happens in CIE-L*a*b* space via go-colorful, so the
// semi-evergreen blend and the dulled evergreen winter stay perceptually
// even.
package palette

import (
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/canopy/pkg/botanical"
	"github.com/matzehuels/canopy/pkg/errors"
)

// Season is one of the four seasonal states a symbol can be drawn in.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// Seasons lists the seasons in canonical order; pack cell positions use it.
var Seasons = []Season{Spring, Summer, Autumn, Winter}

func (s Season) Valid() bool { return slices.Contains(Seasons, s) }

// Index returns the canonical position of s, or -1.
func (s Season) Index() int { return slices.Index(Seasons, s) }

// ParseSeason validates a season name.
func ParseSeason(s string) (Season, error) {
	if v := Season(s); v.Valid() {
		return v, nil
	}
	return "", errors.New(errors.ErrCodeInvalidSeason,
		"invalid season %q (allowed: %v)", s, Seasons).WithField("season")
}

// WinterBareThreshold is the highest foliage density a deciduous winter
// palette may carry.
const WinterBareThreshold = 0.05

// SemiEvergreenBlend is the weight of the evergreen palette in a
// semi-evergreen one.
const SemiEvergreenBlend = 0.5

// Palette is the resolved colour set for one render. Colours are hex
// strings ready for SVG attributes.
type Palette struct {
	Fill      string
	Secondary string
	Stroke    string
	// Accent is set when a winter interest is visible; empty otherwise.
	Accent string
	// FoliageDensity scales how much of the crown carries foliage marks.
	FoliageDensity float64
	// Bare means the crown is drawn as branch structure only.
	Bare bool
	// Interest is the winter interest the accent was derived from.
	Interest botanical.WinterInterest
}

// ShowsBranches reports whether the branch skeleton is drawn: always when
// bare, and for bark or stem interest even under partial foliage.
func (p Palette) ShowsBranches() bool {
	if p.Bare {
		return true
	}
	return p.Accent != "" && (p.Interest == botanical.WhiteBark || p.Interest == botanical.RedStems)
}

// ShowsAccentDots reports whether berry or flower dots are drawn.
func (p Palette) ShowsAccentDots() bool {
	return p.Accent != "" && (p.Interest == botanical.Berries || p.Interest == botanical.Flowers)
}

type swatch struct {
	fill, secondary, stroke colorful.Color
	density                 float64
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("palette: bad colour literal " + s)
	}
	return c
}

var (
	deciduous = map[Season]swatch{
		Spring: {hex("#9acd62"), hex("#c8e6a0"), hex("#4f7a28"), 0.7},
		Summer: {hex("#4e8a3a"), hex("#7fb069"), hex("#2f5a22"), 1.0},
		Autumn: {hex("#d98e2b"), hex("#b5462c"), hex("#6b3a1e"), 0.85},
		Winter: {hex("#b8a99a"), hex("#d8cfc4"), hex("#5e4b3c"), 0},
	}
	evergreen = map[Season]swatch{
		Spring: {hex("#3a6b40"), hex("#5e8f5a"), hex("#1f3d26"), 1.0},
		Summer: {hex("#2f5d3a"), hex("#4c7d52"), hex("#1e3b25"), 1.0},
		Autumn: {hex("#34603b"), hex("#557a4e"), hex("#213c26"), 1.0},
		Winter: dull(swatch{hex("#2f5d3a"), hex("#4c7d52"), hex("#1e3b25"), 1.0}),
	}
	winterGrey = hex("#7a8279")

	accents = map[botanical.WinterInterest]colorful.Color{
		botanical.WhiteBark: hex("#efede6"),
		botanical.RedStems:  hex("#b3261e"),
		botanical.Berries:   hex("#c0392b"),
		botanical.Flowers:   hex("#f4d35e"),
	}
)

// dull shifts a swatch toward grey for the evergreen winter look.
func dull(s swatch) swatch {
	const k = 0.3
	return swatch{
		fill:      s.fill.BlendLab(winterGrey, k).Clamped(),
		secondary: s.secondary.BlendLab(winterGrey, k).Clamped(),
		stroke:    s.stroke.BlendLab(winterGrey, k/2).Clamped(),
		density:   s.density,
	}
}

func blend(a, b swatch, t float64) swatch {
	return swatch{
		fill:      a.fill.BlendLab(b.fill, t).Clamped(),
		secondary: a.secondary.BlendLab(b.secondary, t).Clamped(),
		stroke:    a.stroke.BlendLab(b.stroke, t).Clamped(),
		density:   a.density + (b.density-a.density)*t,
	}
}

// Map resolves the palette for a habit, season and winter interest.
//
// Winter interest only shows in winter and only for deciduous and
// semi-evergreen plants; evergreen crowns hide bark and stems, so the
// interest is ignored for them. Bark and stem interest replace the
// branch stroke colour.
func Map(habit botanical.LeafHabit, season Season, interest botanical.WinterInterest) (Palette, error) {
	if !season.Valid() {
		return Palette{}, errors.New(errors.ErrCodePalette,
			"no palette for season %q", season).WithField("season")
	}
	if !interest.Valid() {
		return Palette{}, errors.New(errors.ErrCodePalette,
			"no palette for winter interest %q", interest).WithField("winter_interest")
	}

	var sw swatch
	switch habit {
	case botanical.Deciduous:
		sw = deciduous[season]
	case botanical.Evergreen:
		sw = evergreen[season]
	case botanical.SemiEvergreen:
		sw = blend(deciduous[season], evergreen[season], SemiEvergreenBlend)
	default:
		return Palette{}, errors.New(errors.ErrCodePalette,
			"no palette for leaf habit %q", habit).WithField("leaf_habit")
	}

	p := Palette{
		Fill:           sw.fill.Hex(),
		Secondary:      sw.secondary.Hex(),
		Stroke:         sw.stroke.Hex(),
		FoliageDensity: sw.density,
		Bare:           sw.density <= WinterBareThreshold,
	}

	if season == Winter && interest != botanical.NoWinterInterest && habit != botanical.Evergreen {
		accent := accents[interest].Hex()
		p.Accent = accent
		p.Interest = interest
		if interest == botanical.WhiteBark || interest == botanical.RedStems {
			p.Stroke = accent
		}
	}
	return p, nil
}
