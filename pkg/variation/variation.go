// Package variation supplies every random decision a symbol render makes.
//
// A [Source] is a seeded generator scoped to one rendering concern. Sources
// are derived, never shared: [Derive] mixes a base seed with a per-concern
// salt, so adding draws to one concern (say, outline wobble) leaves every
// other concern's sequence untouched. There is no package-level generator;
// concurrent renders each own their sources.
//
// Identical (seed, salt) pairs always produce identical draw sequences.
package variation

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
)

// Source is a deterministic random stream. It is not safe for concurrent use.
type Source struct {
	seed uint64
	rng  *rand.Rand
}

// Derive returns a Source for the given base seed and purpose salt.
func Derive(seed uint64, salt string) *Source {
	s := mix(seed ^ fnv64a(salt))
	return &Source{seed: s, rng: rand.New(rand.NewPCG(s, s^0xdeadbeef))}
}

// Derive returns a child source scoped to salt. The child depends only on
// the parent's seed, not on how many draws the parent has made.
func (s *Source) Derive(salt string) *Source { return Derive(s.seed, salt) }

// Seed returns the mixed seed backing s.
func (s *Source) Seed() uint64 { return s.seed }

// Float64 returns a value in [0, 1).
func (s *Source) Float64() float64 { return s.rng.Float64() }

// Range returns a value in [lo, hi).
func (s *Source) Range(lo, hi float64) float64 { return lo + (hi-lo)*s.rng.Float64() }

// Jitter returns a value in [-amp, amp).
func (s *Source) Jitter(amp float64) float64 { return (2*s.rng.Float64() - 1) * amp }

// IntN returns a value in [0, n). It panics if n <= 0, like rand.IntN.
func (s *Source) IntN(n int) int { return s.rng.IntN(n) }

// Angle returns an angle in [0, 2π).
func (s *Source) Angle() float64 { return 2 * math.Pi * s.rng.Float64() }

// CellSeed derives the seed of one symbol-pack cell from the pack's base
// seed and the cell's style and season positions. Cells never share a seed
// for distinct positions, and the result never depends on wall-clock time.
func CellSeed(base uint64, styleIndex, seasonIndex int) uint64 {
	pos := uint64(styleIndex)<<32 | uint64(uint32(seasonIndex))
	return mix(mix(base) ^ mix(pos+1))
}

// mix is the splitmix64 finalizer.
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

func fnv64a(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
