// Package layout positions processed glyphs along a baseline and computes
// the boxes a graffiti composite occupies.
//
// Layout is a pure function of its inputs. Spacing uses only the glyphs'
// ink boxes and the overlap function; effect layers never influence where
// glyphs go, they only grow the container box returned by Inflate.
package layout

import (
	"math"

	"seehuhn.de/go/geom/rect"

	"github.com/gogpu/graffiti/glyph"
)

// DefaultTargetWidth is the content width above which ContainerScale
// drops below 1.
const DefaultTargetWidth = 1200

// OverlapFunc returns the fraction of prev's ink width that curr may
// encroach upon.
type OverlapFunc func(prev, curr glyph.Glyph) float64

// Result is the outcome of a layout pass.
type Result struct {
	// Positions holds the x origin of each glyph.
	Positions []float64

	// Overlaps holds the overlap between glyph i-1 and glyph i.
	// Overlaps[0] is always 0.
	Overlaps []float64

	// Box is the union of all placed ink boxes. Spaces contribute only
	// horizontally.
	Box rect.Rect

	ContentWidth  float64
	ContentHeight float64

	// ContainerScale normalizes very wide content to the target width.
	// It is at most 1.
	ContainerScale float64
}

// Calculator computes layouts.
// The zero value uses DefaultTargetWidth.
type Calculator struct {
	TargetWidth float64
}

// Layout places glyphs with the default calculator.
func Layout(glyphs []glyph.Glyph, overlap OverlapFunc) Result {
	return Calculator{}.Layout(glyphs, overlap)
}

// Layout places glyphs left to right. The first glyph's ink starts at
// x=0; each following glyph starts where the previous ink box ends, pulled
// back by the overlap fraction of the previous ink width.
//
// Overlap values are clamped to [0,1], so positions never decrease.
func (c Calculator) Layout(glyphs []glyph.Glyph, overlap OverlapFunc) Result {
	res := Result{ContainerScale: 1}
	if len(glyphs) == 0 {
		return res
	}

	res.Positions = make([]float64, len(glyphs))
	res.Overlaps = make([]float64, len(glyphs))
	res.Positions[0] = -glyphs[0].Bounds.Left
	for i := 1; i < len(glyphs); i++ {
		prev, curr := glyphs[i-1], glyphs[i]
		f := 0.0
		if overlap != nil {
			f = clampFraction(overlap(prev, curr))
		}
		res.Overlaps[i] = f
		res.Positions[i] = res.Positions[i-1] + inkWidth(prev)*(1-f) - curr.Bounds.Left
	}

	res.Box = contentBox(glyphs, res.Positions)
	res.ContentWidth = res.Box.Dx()
	res.ContentHeight = res.Box.Dy()

	target := c.TargetWidth
	if target <= 0 {
		target = DefaultTargetWidth
	}
	if res.ContentWidth > 0 {
		res.ContainerScale = math.Min(1, target/res.ContentWidth)
	}
	return res
}

// inkWidth is right - left of the ink box, never negative.
func inkWidth(g glyph.Glyph) float64 {
	return math.Max(0, g.Bounds.Width())
}

func contentBox(glyphs []glyph.Glyph, positions []float64) rect.Rect {
	var box rect.Rect
	haveX, haveY := false, false
	for i, g := range glyphs {
		x0 := positions[i] + g.Bounds.Left
		x1 := positions[i] + g.Bounds.Right
		if !haveX {
			box.LLx, box.URx = x0, x1
			haveX = true
		} else {
			box.LLx = math.Min(box.LLx, x0)
			box.URx = math.Max(box.URx, x1)
		}
		if g.IsSpace {
			continue
		}
		if !haveY {
			box.LLy, box.URy = g.Bounds.Top, g.Bounds.Bottom
			haveY = true
		} else {
			box.LLy = math.Min(box.LLy, g.Bounds.Top)
			box.URy = math.Max(box.URy, g.Bounds.Bottom)
		}
	}
	return box
}

func clampFraction(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// LetterCount returns the number of non-space glyphs.
func LetterCount(glyphs []glyph.Glyph) int {
	n := 0
	for _, g := range glyphs {
		if !g.IsSpace {
			n++
		}
	}
	return n
}

// SpaceWidth returns the width reserved for a space between glyphs: a
// fraction of the mean ink width of the letters, but at least MinSpaceWidth.
func SpaceWidth(glyphs []glyph.Glyph) float64 {
	sum, n := 0.0, 0
	for _, g := range glyphs {
		if g.IsSpace {
			continue
		}
		sum += inkWidth(g)
		n++
	}
	if n == 0 {
		return MinSpaceWidth
	}
	return math.Max(MinSpaceWidth, SpaceFactor*sum/float64(n))
}

// Space sizing.
const (
	SpaceFactor   = 0.35
	MinSpaceWidth = 20
)
