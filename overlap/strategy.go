package overlap

import (
	"fmt"
	"math"

	"github.com/gogpu/graffiti/glyph"
)

// Strategy computes the overlap fraction for an adjacent glyph pair.
// Implementations are pure: identical inputs always yield the identical
// value, and spaces never overlap.
type Strategy interface {
	Overlap(prev, curr glyph.Glyph) float64
}

// Mode selects a Strategy implementation.
type Mode int

const (
	// ModeLookup uses LookupStrategy.
	ModeLookup Mode = iota
	// ModeAnalytical uses AnalyticalStrategy.
	ModeAnalytical
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeLookup:
		return "lookup"
	case ModeAnalytical:
		return "analytical"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses the String form of a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "lookup":
		return ModeLookup, nil
	case "analytical":
		return ModeAnalytical, nil
	}
	return 0, fmt.Errorf("overlap: unknown mode %q", s)
}

// New returns the strategy for mode over t.
func New(mode Mode, t *Tables) (Strategy, error) {
	if t == nil {
		return nil, ErrNilTables
	}
	switch mode {
	case ModeLookup:
		return NewLookup(t), nil
	case ModeAnalytical:
		return NewAnalytical(t), nil
	}
	return nil, fmt.Errorf("overlap: unknown mode %v", mode)
}

// LookupStrategy consults the precomputed pair table first and falls back
// to the rule-based computation on a miss.
type LookupStrategy struct {
	tables *Tables
}

// NewLookup creates a LookupStrategy over t.
func NewLookup(t *Tables) *LookupStrategy {
	return &LookupStrategy{tables: t}
}

// Overlap implements Strategy.
func (s *LookupStrategy) Overlap(prev, curr glyph.Glyph) float64 {
	if prev.IsSpace || curr.IsSpace {
		return 0
	}
	if v, ok := s.tables.Pairs[Pair{Fold(prev.Letter), Fold(curr.Letter)}]; ok {
		return clamp01(v)
	}
	return s.tables.RuleOverlap(prev.Letter, curr.Letter)
}

// Analytical defaults.
const (
	DefaultStep             = 0.01
	DefaultCollisionPenalty = 1.5
	DefaultSamples          = 32
)

// AnalyticalStrategy fits glyphs using their ink occupancy profiles.
type AnalyticalStrategy struct {
	tables *Tables

	// Step is the increment between candidate overlap fractions.
	Step float64

	// CollisionPenalty weighs ink collision against tightness.
	CollisionPenalty float64

	// Samples is the number of probes across the overlapping region.
	Samples int
}

// NewAnalytical creates an AnalyticalStrategy over t with default tuning.
func NewAnalytical(t *Tables) *AnalyticalStrategy {
	return &AnalyticalStrategy{
		tables:           t,
		Step:             DefaultStep,
		CollisionPenalty: DefaultCollisionPenalty,
		Samples:          DefaultSamples,
	}
}

// Overlap implements Strategy.
//
// Candidates run from the rule's minimum to its maximum. Each candidate
// scores its fraction minus the penalized mean ink collision of the two
// touching edges, so overlap only grows where the edges are sparse. A
// special case for the next letter is taken as authored.
func (s *AnalyticalStrategy) Overlap(prev, curr glyph.Glyph) float64 {
	if prev.IsSpace || curr.IsSpace {
		return 0
	}
	rule := s.tables.Rule(prev.Letter)
	if _, ok := rule.SpecialCases[Fold(curr.Letter)]; ok {
		return s.tables.RuleOverlap(prev.Letter, curr.Letter)
	}
	if len(prev.Occupancy) == 0 || len(curr.Occupancy) == 0 || prev.InkWidth() <= 0 || curr.InkWidth() <= 0 {
		return s.tables.RuleOverlap(prev.Letter, curr.Letter)
	}

	lo, hi := rule.bounds()
	step := s.Step
	if step <= 0 {
		step = DefaultStep
	}

	best, bestScore := lo, lo-s.CollisionPenalty*s.collision(prev, curr, lo)
	n := int((hi-lo)/step + 1e-9)
	for i := 1; i <= n; i++ {
		f := math.Min(lo+float64(i)*step, hi)
		score := f - s.CollisionPenalty*s.collision(prev, curr, f)
		if score > bestScore {
			best, bestScore = f, score
		}
	}
	if hi > lo+float64(n)*step {
		if score := hi - s.CollisionPenalty*s.collision(prev, curr, hi); score > bestScore {
			best = hi
		}
	}
	return s.tables.dampen(prev.Letter, curr.Letter, best)
}

// collision returns the colliding ink, as a fraction of prev's ink width,
// when curr overlaps the right edge of prev by fraction f.
func (s *AnalyticalStrategy) collision(prev, curr glyph.Glyph, f float64) float64 {
	wp, wc := prev.InkWidth(), curr.InkWidth()
	w := f * wp
	if w <= 0 {
		return 0
	}
	samples := s.Samples
	if samples <= 0 {
		samples = DefaultSamples
	}

	var sum float64
	for i := 0; i < samples; i++ {
		x := (float64(i) + 0.5) / float64(samples) * w
		if x >= wc {
			continue // curr's ink ended before this probe
		}
		dp := sample(prev.Occupancy, (wp-w+x)/wp)
		dc := sample(curr.Occupancy, x/wc)
		sum += dp * dc
	}
	return sum / float64(samples) * w / wp
}

// sample returns the density at relative position t in [0,1).
func sample(occ []float64, t float64) float64 {
	i := int(t * float64(len(occ)))
	if i < 0 {
		i = 0
	}
	if i >= len(occ) {
		i = len(occ) - 1
	}
	return occ[i]
}

// Precompute evaluates s for every ordered pair of non-space glyphs and
// returns a table suitable for Tables.Pairs. The first glyph seen for a
// letter wins.
func Precompute(s Strategy, glyphs []glyph.Glyph) map[Pair]float64 {
	out := make(map[Pair]float64)
	for _, a := range glyphs {
		if a.IsSpace {
			continue
		}
		for _, b := range glyphs {
			if b.IsSpace {
				continue
			}
			key := Pair{Fold(a.Letter), Fold(b.Letter)}
			if _, done := out[key]; done {
				continue
			}
			out[key] = s.Overlap(a, b)
		}
	}
	return out
}
