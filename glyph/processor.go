package glyph

import (
	"fmt"

	"github.com/gogpu/graffiti/svgsafe"
)

// Default occupancy sampling resolution.
const (
	DefaultColumns = 64
	DefaultRows    = 64
)

// Processor turns raw glyph markup into processed glyphs.
// The zero value uses DefaultColumns x DefaultRows sampling.
// Processor holds no mutable state and is safe for concurrent use.
type Processor struct {
	// Columns is the number of occupancy samples across the ink box.
	Columns int

	// Rows is the vertical raster resolution per column.
	Rows int
}

// Process validates markup and computes the ink box and occupancy of the
// glyph for letter.
func (p Processor) Process(letter rune, markup string) (Glyph, error) {
	frag, err := svgsafe.Parse(markup)
	if err != nil {
		return Glyph{}, fmt.Errorf("glyph: %q: %w", letter, err)
	}
	cs, err := collectContours(frag)
	if err != nil {
		return Glyph{}, fmt.Errorf("glyph: %q: %w", letter, err)
	}

	g := Glyph{
		Letter:    letter,
		Scale:     1,
		RawMarkup: markup,
		Removed:   frag.Removed,
	}

	ink, hasInk := inkBounds(cs)
	vx, vy, vw, vh, hasViewBox := frag.ViewBox()
	switch {
	case hasInk:
		g.Bounds = ink
	case hasViewBox:
		g.Bounds = Bounds{Left: vx, Top: vy, Right: vx + vw, Bottom: vy + vh}
	}

	switch {
	case hasViewBox:
		g.Width, g.Height = vw, vh
	case numAttr(frag.Root, "width") > 0 && numAttr(frag.Root, "height") > 0:
		g.Width, g.Height = numAttr(frag.Root, "width"), numAttr(frag.Root, "height")
	default:
		g.Width, g.Height = g.Bounds.Width(), g.Bounds.Height()
	}

	cols, rows := p.Columns, p.Rows
	if cols <= 0 {
		cols = DefaultColumns
	}
	if rows <= 0 {
		rows = DefaultRows
	}
	g.Occupancy = occupancy(cs, g.Bounds, cols, rows)
	return g, nil
}

// Placeholder returns an empty glyph for letter that reserves width units.
// It stands in for a glyph that could not be fetched or processed.
func Placeholder(letter rune, width float64) Glyph {
	if width < 0 {
		width = 0
	}
	return Glyph{
		Letter:    letter,
		Width:     width,
		Bounds:    Bounds{Right: width},
		Scale:     1,
		RawMarkup: svgsafe.Placeholder,
	}
}
