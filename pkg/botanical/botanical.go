// Package botanical defines the plant data model: the canopy outline and the
// measured botanical parameters every symbol is rendered from.
//
// A [Plant] is only obtainable through [Validate], so any Plant value in the
// program has passed the shape and parameter checks. Plants are immutable;
// accessors hand out copies.
package botanical

import (
	"slices"

	"github.com/matzehuels/canopy/pkg/geom"
)

// LeafHabit describes how a plant holds its leaves through the year.
type LeafHabit string

const (
	Deciduous     LeafHabit = "deciduous"
	Evergreen     LeafHabit = "evergreen"
	SemiEvergreen LeafHabit = "semi_evergreen"
)

// LeafHabits lists every habit in canonical order.
var LeafHabits = []LeafHabit{Deciduous, Evergreen, SemiEvergreen}

func (h LeafHabit) Valid() bool { return slices.Contains(LeafHabits, h) }

// CrownTexture describes the graininess of the foliage mass.
type CrownTexture string

const (
	Fine   CrownTexture = "fine"
	Medium CrownTexture = "medium"
	Coarse CrownTexture = "coarse"
	Needle CrownTexture = "needle"
)

// CrownTextures lists every texture in canonical order.
var CrownTextures = []CrownTexture{Fine, Medium, Coarse, Needle}

func (c CrownTexture) Valid() bool { return slices.Contains(CrownTextures, c) }

// WinterInterest is an optional seasonal feature shown in winter renders.
// The zero value means none.
type WinterInterest string

const (
	NoWinterInterest WinterInterest = ""
	WhiteBark        WinterInterest = "white_bark"
	RedStems         WinterInterest = "red_stems"
	Berries          WinterInterest = "berries"
	Flowers          WinterInterest = "flowers"
)

// WinterInterests lists every non-empty winter interest.
var WinterInterests = []WinterInterest{WhiteBark, RedStems, Berries, Flowers}

func (w WinterInterest) Valid() bool {
	return w == NoWinterInterest || slices.Contains(WinterInterests, w)
}

// Parameters is the botanical description of one plant. All lengths are
// real-world centimeters.
type Parameters struct {
	SpreadCM       float64        `json:"spread_cm" toml:"spread_cm" bson:"spread_cm"`
	HeightCM       float64        `json:"height_cm" toml:"height_cm" bson:"height_cm"`
	ScaleBoxCM     float64        `json:"scale_box_cm" toml:"scale_box_cm" bson:"scale_box_cm"`
	CenterCM       geom.Point     `json:"center_cm" toml:"center_cm" bson:"center_cm"`
	LeafHabit      LeafHabit      `json:"leaf_habit" toml:"leaf_habit" bson:"leaf_habit"`
	CrownTexture   CrownTexture   `json:"crown_texture" toml:"crown_texture" bson:"crown_texture"`
	CrownDensity   float64        `json:"crown_density_value" toml:"crown_density_value" bson:"crown_density_value"`
	WinterInterest WinterInterest `json:"winter_interest,omitempty" toml:"winter_interest" bson:"winter_interest,omitempty"`
}

// Plant is a validated outline together with its parameters.
type Plant struct {
	outline geom.Polygon
	params  Parameters
}

// Outline returns a copy of the canopy outline.
func (p *Plant) Outline() geom.Polygon { return p.outline.Clone() }

// Params returns the plant's parameters.
func (p *Plant) Params() Parameters { return p.params }

// Len returns the number of outline vertices.
func (p *Plant) Len() int { return len(p.outline) }
