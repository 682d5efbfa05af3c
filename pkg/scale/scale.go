// Package scale models drawing scale ratios such as 1:50.
//
// A scale changes how large a symbol appears on paper, never the real-world
// dimensions it represents. At 1:50 one real centimeter occupies 0.2 mm of
// paper; a 2500 cm scale box therefore prints 50 cm wide.
package scale

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/canopy/pkg/errors"
)

// Scale is the denominator of a 1:N drawing ratio.
type Scale int

const (
	S10  Scale = 10
	S20  Scale = 20
	S50  Scale = 50
	S100 Scale = 100
	S200 Scale = 200
)

// All lists the supported scales from largest to smallest drawing.
var All = []Scale{S10, S20, S50, S100, S200}

// Default is the scale used when a request names none.
const Default = S50

// CSSPixelsPerCM is the CSS reference resolution: 96 px per inch.
const CSSPixelsPerCM = 96 / 2.54

// Parse accepts "1:50", "1/50" or "50".
func Parse(s string) (Scale, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "1:")
	raw = strings.TrimPrefix(raw, "1/")
	n, err := strconv.Atoi(raw)
	if err == nil {
		sc := Scale(n)
		if sc.Valid() {
			return sc, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidScale,
		"invalid scale %q (allowed: %s)", s, allowed()).WithField("scale")
}

func allowed() string {
	parts := make([]string, len(All))
	for i, sc := range All {
		parts[i] = sc.String()
	}
	return strings.Join(parts, ", ")
}

// Valid reports whether s is one of [All].
func (s Scale) Valid() bool {
	for _, v := range All {
		if s == v {
			return true
		}
	}
	return false
}

// Denominator returns N for a 1:N scale.
func (s Scale) Denominator() int { return int(s) }

// String returns the ratio form, e.g. "1:50".
func (s Scale) String() string { return fmt.Sprintf("1:%d", int(s)) }

// FileTag returns the ratio in a filename-safe form, e.g. "1-50".
func (s Scale) FileTag() string { return fmt.Sprintf("1-%d", int(s)) }

// PaperCM converts a real-world length to its printed length.
func (s Scale) PaperCM(realCM float64) float64 { return realCM / float64(s) }

// PaperMM converts a real-world length to printed millimeters.
func (s Scale) PaperMM(realCM float64) float64 { return s.PaperCM(realCM) * 10 }

// PixelsPerCM returns CSS pixels per real-world centimeter at this scale.
func (s Scale) PixelsPerCM() float64 { return CSSPixelsPerCM / float64(s) }

// MarshalText encodes the scale as "1:N".
func (s Scale) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts any form [Parse] accepts.
func (s *Scale) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
