package graffiti

import (
	"io"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"github.com/gogpu/graffiti/compose"
	"github.com/gogpu/graffiti/glyph"
	"github.com/gogpu/graffiti/layout"
	"github.com/gogpu/graffiti/style"
	"github.com/gogpu/graffiti/svgsafe"
)

// Scene is the result of one render pass.
//
// A Scene is a snapshot: it does not change when the renderer renders
// again, and callers must not modify its slices.
type Scene struct {
	Text    string
	Glyphs  []glyph.Glyph
	Layout  layout.Result
	Layers  []compose.Layer
	Options style.Options

	// Bounds is the content box grown by all enabled effects.
	Bounds rect.Rect

	// FitScale is the presentation scale that fits Bounds into the
	// viewport.
	FitScale float64

	ViewportWidth, ViewportHeight float64
}

func newScene(text string, glyphs []glyph.Glyph, res layout.Result, layers []compose.Layer, o style.Options, vw, vh float64) *Scene {
	s := &Scene{
		Text:           text,
		Glyphs:         glyphs,
		Layout:         res,
		Layers:         layers,
		Options:        o,
		Bounds:         layout.Inflate(res.Box, o),
		ViewportWidth:  vw,
		ViewportHeight: vh,
	}
	s.FitScale = layout.FitScale(vw, vh, s.Bounds.Dx(), s.Bounds.Dy(), s.Letters())
	return s
}

// Letters returns the number of non-space glyphs.
func (s *Scene) Letters() int {
	return layout.LetterCount(s.Glyphs)
}

// Placement returns the transform that centers Bounds in the viewport at
// FitScale.
func (s *Scene) Placement() matrix.Matrix {
	cx := (s.Bounds.LLx + s.Bounds.URx) / 2
	cy := (s.Bounds.LLy + s.Bounds.URy) / 2
	return matrix.Translate(-cx, -cy).
		Mul(matrix.Scale(s.FitScale, s.FitScale)).
		Mul(matrix.Translate(s.ViewportWidth/2, s.ViewportHeight/2))
}

// WriteSVG writes the scene as a standalone SVG document of viewport size.
func (s *Scene) WriteSVG(w io.Writer) error {
	var b strings.Builder
	vw, vh := num(s.ViewportWidth), num(s.ViewportHeight)
	b.WriteString(`<svg xmlns="` + svgsafe.Namespace + `" width="` + vw + `" height="` + vh +
		`" viewBox="0 0 ` + vw + ` ` + vh + `">`)

	o := s.Options
	if o.ShineEnabled && o.FillEnabled {
		writeShine(&b, o)
	}
	if o.BackgroundEnabled {
		if c, err := style.NormalizeColor(o.BackgroundColor); err == nil {
			b.WriteString(`<rect width="` + vw + `" height="` + vh + `" fill="` + c + `"/>`)
		}
	}

	b.WriteString(`<g transform="` + compose.MatrixString(s.Placement()) + `">`)
	for _, l := range s.Layers {
		b.WriteString(l.SVG())
	}
	b.WriteString("</g></svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// writeShine defines the vertical gradient main layers fill with: the
// fill color washed towards the shine color at the top, fading into the
// plain fill color below the middle.
func writeShine(b *strings.Builder, o style.Options) {
	fill, err := colorful.Hex(o.FillColor)
	if err != nil {
		return
	}
	shine, err := colorful.Hex(o.ShineColor)
	if err != nil {
		shine = colorful.Color{R: 1, G: 1, B: 1}
	}
	top := fill.BlendLab(shine, o.ShineOpacity).Clamped()

	b.WriteString(`<defs><linearGradient id="` + compose.ShineGradientID + `" x1="0" y1="0" x2="0" y2="1">`)
	b.WriteString(`<stop offset="0" stop-color="` + top.Hex() + `"/>`)
	b.WriteString(`<stop offset="0.55" stop-color="` + fill.Hex() + `"/>`)
	b.WriteString(`<stop offset="1" stop-color="` + fill.Hex() + `"/>`)
	b.WriteString(`</linearGradient></defs>`)
}

func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
