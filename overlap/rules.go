// Package overlap resolves how far adjacent glyphs tuck into each other.
//
// For each adjacent pair the resolver returns a fraction in [0,1] of the
// previous glyph's ink width that the next glyph may encroach upon, plus an
// independent stylistic rotation for the later glyph.
//
// All reference data lives in an immutable Tables value injected at
// construction. Two interchangeable strategies implement the same
// contract:
//
//   - LookupStrategy reads a precomputed pairwise table and falls back to
//     the per-letter rules.
//   - AnalyticalStrategy slides the ink occupancy profiles of both glyphs
//     against each other and picks the tightest fit that avoids ink
//     collisions, bounded by the per-letter rule.
package overlap

import (
	"golang.org/x/text/cases"
)

// ExceptionDampening scales the overlap of pairs listed as exceptions.
const ExceptionDampening = 0.7

// Rule bounds the overlap after one letter.
type Rule struct {
	MinOverlap float64
	MaxOverlap float64

	// SpecialCases overrides the target overlap for a given next letter.
	SpecialCases map[rune]float64
}

// bounds returns the rule limits ordered and clamped to [0,1].
func (r Rule) bounds() (lo, hi float64) {
	lo, hi = clamp01(r.MinOverlap), clamp01(r.MaxOverlap)
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi
}

// Pair is an ordered letter pair.
type Pair struct {
	Prev, Curr rune
}

// RotationRule holds stylistic tilts in degrees, keyed by the neighboring
// letter.
type RotationRule struct {
	// Before applies when this letter follows the keyed letter.
	Before map[rune]float64

	// After applies to the keyed letter when it follows this letter.
	After map[rune]float64
}

// Tables is the read-only reference data of the resolver. Letter keys are
// case folded; use Fold when building tables by hand.
type Tables struct {
	Rules      map[rune]Rule
	Default    Rule
	Exceptions map[Pair]bool
	Rotations  map[rune]RotationRule

	// Pairs is the precomputed table consulted by LookupStrategy.
	Pairs map[Pair]float64
}

// Rule returns the rule for letter, or the default rule.
func (t *Tables) Rule(letter rune) Rule {
	if r, ok := t.Rules[Fold(letter)]; ok {
		return r
	}
	return t.Default
}

// IsException reports whether the ordered pair is dampened.
func (t *Tables) IsException(prev, curr rune) bool {
	return t.Exceptions[Pair{Fold(prev), Fold(curr)}]
}

// RuleOverlap is the rule-based overlap for a letter pair: the rule's
// maximum, or its special case for curr, dampened for exception pairs.
func (t *Tables) RuleOverlap(prev, curr rune) float64 {
	rule := t.Rule(prev)
	_, hi := rule.bounds()
	v := hi
	if special, ok := rule.SpecialCases[Fold(curr)]; ok {
		v = clamp01(special)
	}
	return t.dampen(prev, curr, v)
}

// Rotation returns the tilt in degrees for curr following prev. Entries
// from prev's After map and curr's Before map add up; missing entries
// contribute 0.
func (t *Tables) Rotation(prev, curr rune) float64 {
	p, c := Fold(prev), Fold(curr)
	var deg float64
	if r, ok := t.Rotations[p]; ok {
		deg += r.After[c]
	}
	if r, ok := t.Rotations[c]; ok {
		deg += r.Before[p]
	}
	return deg
}

func (t *Tables) dampen(prev, curr rune, v float64) float64 {
	if t.IsException(prev, curr) {
		v *= ExceptionDampening
	}
	return clamp01(v)
}

// Fold returns the table key for a letter.
func Fold(r rune) rune {
	// A Caser is stateful, so one is created per call.
	folded := []rune(cases.Fold().String(string(r)))
	if len(folded) != 1 {
		return r
	}
	return folded[0]
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
