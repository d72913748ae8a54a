// Package glyph turns per-character outline markup into processed glyphs
// ready for layout.
//
// The pipeline is:
//
//   - Source: an external provider returning raw SVG markup for a letter
//     in its positional context (first/last in word, alternate variant).
//   - Processor: validates the markup, walks its geometry and produces a
//     Glyph with a tight ink box and per-column ink occupancy.
//
// A Glyph is immutable once produced. Layout code derives modified copies
// (for example WithRotation) rather than mutating a glyph in place.
package glyph

import "github.com/gogpu/graffiti/svgsafe"

// Bounds is a box in glyph-local coordinates. Y grows downwards, so Top is
// the smaller Y value.
type Bounds struct {
	Left, Right, Top, Bottom float64
}

// Width returns Right - Left.
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns Bottom - Top.
func (b Bounds) Height() float64 { return b.Bottom - b.Top }

// IsEmpty reports whether the box has no area.
func (b Bounds) IsEmpty() bool { return b.Right <= b.Left || b.Bottom <= b.Top }

// Glyph is a processed glyph.
type Glyph struct {
	// Letter is the character this glyph renders.
	Letter rune

	// IsSpace marks a glyph that only reserves horizontal space.
	IsSpace bool

	// Width and Height are the glyph's declared box (viewBox or
	// width/height attributes), falling back to the ink box.
	Width, Height float64

	// Bounds is the tight ink box in glyph-local coordinates.
	Bounds Bounds

	// Occupancy holds one ink density sample in [0,1] per column of the
	// ink box, left to right. Shared and read-only.
	Occupancy []float64

	// Scale is the glyph's own scale factor.
	Scale float64

	// Rotation is a stylistic tilt in degrees.
	Rotation float64

	// RawMarkup is the markup as returned by the Source.
	RawMarkup string

	// Removed lists the constructs the sanitizer stripped from RawMarkup.
	Removed []*svgsafe.RejectedError
}

// WithRotation returns a copy of g rotated by deg degrees in addition to
// its current rotation.
func (g Glyph) WithRotation(deg float64) Glyph {
	g.Rotation += deg
	return g
}

// InkWidth returns the width of the ink box.
func (g Glyph) InkWidth() float64 { return g.Bounds.Width() }

// Space returns a space glyph reserving width units.
func Space(width float64) Glyph {
	if width < 0 {
		width = 0
	}
	return Glyph{
		Letter:  ' ',
		IsSpace: true,
		Width:   width,
		Bounds:  Bounds{Right: width},
		Scale:   1,
	}
}

// IsSpaceRune reports whether r is rendered as a space glyph.
func IsSpaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\u00a0':
		return true
	}
	return false
}
