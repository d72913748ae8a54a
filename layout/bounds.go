package layout

import (
	"math"

	"seehuhn.de/go/geom/rect"

	"github.com/gogpu/graffiti/style"
)

// Inflate returns the box that contains box together with all enabled
// effects.
//
// Two inflations are computed from box and united:
//   - the shadow path extends only the edges the shadow offset points
//     to (a negative offset grows the min edge, a positive one the max edge);
//   - the padding path grows all four edges by half the stamp width plus
//     the full shield width.
func Inflate(box rect.Rect, o style.Options) rect.Rect {
	shadow := box
	if o.ShadowEnabled {
		extend(&shadow.LLx, &shadow.URx, o.ShadowOffsetX)
		extend(&shadow.LLy, &shadow.URy, o.ShadowOffsetY)
	}

	pad := Padding(o)
	padded := rect.Rect{
		LLx: box.LLx - pad,
		LLy: box.LLy - pad,
		URx: box.URx + pad,
		URy: box.URy + pad,
	}
	return union(shadow, padded)
}

// Padding returns how far the stamp and shield effects reach beyond a
// glyph's ink on every side.
func Padding(o style.Options) float64 {
	pad := 0.0
	if o.StampEnabled {
		pad += o.StampWidth / 2
	}
	if o.ShieldEnabled {
		pad += o.ShieldWidth
	}
	return pad
}

func extend(lo, hi *float64, d float64) {
	if d < 0 {
		*lo += d
	} else {
		*hi += d
	}
}

func union(a, b rect.Rect) rect.Rect {
	return rect.Rect{
		LLx: math.Min(a.LLx, b.LLx),
		LLy: math.Min(a.LLy, b.LLy),
		URx: math.Max(a.URx, b.URx),
		URy: math.Max(a.URy, b.URy),
	}
}

// Coefficient returns the fit multiplier for a string of n letters.
// Short words get a smaller multiplier so they do not fill the viewport.
func Coefficient(n int) float64 {
	switch {
	case n <= 4:
		return 0.7
	case n <= 10:
		return 0.85
	default:
		return 0.95
	}
}

// FitScale returns the presentation scale that fits content of the given
// size into the viewport, multiplied by Coefficient(letters). An axis with
// no extent does not constrain the scale; if neither does, the result is
// the coefficient alone.
func FitScale(viewportW, viewportH, contentW, contentH float64, letters int) float64 {
	s := math.Inf(1)
	if contentW > 0 && viewportW > 0 {
		s = viewportW / contentW
	}
	if contentH > 0 && viewportH > 0 {
		s = math.Min(s, viewportH/contentH)
	}
	if math.IsInf(s, 1) {
		s = 1
	}
	return s * Coefficient(letters)
}
