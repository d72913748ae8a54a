// Package compose turns laid out glyphs into the ordered effect layers of
// a graffiti composite.
//
// Each non-space glyph yields up to five layers, bottom to top: shield,
// shadow-shield, shadow, stamp and main. Every effect layer of the string
// sits below every main layer, and among main layers later glyphs sit on
// top of earlier ones. Layers whose effect is disabled are omitted.
//
// Glyph markup always passes through svgsafe before it is emitted. A glyph
// whose markup is rejected, or whose composition fails for any other
// reason, is replaced by an empty placeholder layer and the failure is
// reported; the rest of the string is composed normally.
package compose

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/graffiti/glyph"
	"github.com/gogpu/graffiti/style"
	"github.com/gogpu/graffiti/svgsafe"
)

// ShineGradientID is the id of the gradient main layers reference when
// shine is enabled. The document writer must define it.
const ShineGradientID = "graffiti-shine"

// PlaceholderMarkup replaces the markup of a glyph that failed.
const PlaceholderMarkup = "<g/>"

var (
	// ErrLengthMismatch is reported when glyphs and positions differ in
	// length. Only the common prefix is composed.
	ErrLengthMismatch = errors.New("compose: glyph and position counts differ")

	// ErrGlyphPanic wraps a panic recovered while composing one glyph.
	ErrGlyphPanic = errors.New("compose: panic while composing glyph")
)

// GlyphError is reported for a glyph that was replaced by a placeholder.
type GlyphError struct {
	Index  int
	Letter rune
	Err    error
}

func (e *GlyphError) Error() string {
	return fmt.Sprintf("compose: glyph %d (%q): %v", e.Index, e.Letter, e.Err)
}

func (e *GlyphError) Unwrap() error { return e.Err }

// Compositor builds layer lists.
// The zero value is ready to use and discards failures.
type Compositor struct {
	// Report receives per-glyph failures. It may be nil.
	Report func(err error)
}

// Compose builds layers with a zero Compositor.
func Compose(glyphs []glyph.Glyph, positions []float64, o style.Options) []Layer {
	return Compositor{}.Compose(glyphs, positions, o)
}

// Compose returns the layers of the composite sorted by ascending Z.
func (c Compositor) Compose(glyphs []glyph.Glyph, positions []float64, o style.Options) []Layer {
	n := len(glyphs)
	if len(positions) != n {
		c.report(fmt.Errorf("%w: %d glyphs, %d positions", ErrLengthMismatch, len(glyphs), len(positions)))
		n = min(n, len(positions))
	}
	o = o.Clamp()

	layers := make([]Layer, 0, n*kindCount)
	for i := 0; i < n; i++ {
		g := glyphs[i]
		if g.IsSpace {
			continue
		}
		ls, err := c.composeGlyph(n, i, g, positions[i], o)
		if err != nil {
			c.report(&GlyphError{Index: i, Letter: g.Letter, Err: err})
			ls = []Layer{placeholder(n, i, g, positions[i])}
		}
		layers = append(layers, ls...)
	}
	slices.SortFunc(layers, func(a, b Layer) int { return cmp.Compare(a.Z, b.Z) })
	return layers
}

func (c Compositor) report(err error) {
	if c.Report != nil {
		c.Report(err)
	}
}

func (c Compositor) composeGlyph(n, i int, g glyph.Glyph, x float64, o style.Options) (layers []Layer, err error) {
	defer func() {
		if r := recover(); r != nil {
			layers = nil
			err = fmt.Errorf("%w: %v", ErrGlyphPanic, r)
		}
	}()

	frag, err := svgsafe.Parse(g.RawMarkup)
	if err != nil {
		return nil, err
	}
	body := frag.Body(svgsafe.StripPaint)

	scale := g.Scale
	if scale <= 0 {
		scale = 1
	}
	base := Transform{
		X:        x,
		Scale:    scale,
		Rotation: g.Rotation,
		CX:       (g.Bounds.Left + g.Bounds.Right) / 2,
		CY:       (g.Bounds.Top + g.Bounds.Bottom) / 2,
	}
	shifted := base
	shifted.X += o.ShadowOffsetX
	shifted.Y += o.ShadowOffsetY

	// Widths are given in composite units; the layer transform scales
	// the glyph, so strokes are drawn at width/scale.
	w := func(v float64) float64 { return v / scale }

	add := func(k Kind, t Transform, p paint) {
		layers = append(layers, Layer{
			Kind:      k,
			Z:         int(k)*n + i,
			Glyph:     i,
			Letter:    g.Letter,
			Transform: t,
			Markup:    p.wrap(body),
		})
	}

	shield := paint{
		fill:        "none",
		stroke:      safeColor(o.ShieldColor),
		strokeWidth: w(o.StampWidth + 2*o.ShieldWidth),
	}

	if o.ShieldEnabled {
		add(KindShield, base, shield)
	}
	if o.ShadowEnabled && o.ShieldEnabled {
		add(KindShadowShield, shifted, shield)
	}
	if o.ShadowEnabled {
		p := paint{fill: safeColor(o.StampColor)}
		if o.StampEnabled {
			p.stroke = safeColor(o.StampColor)
			p.strokeWidth = w(o.StampWidth / 2)
		}
		add(KindShadow, shifted, p)
	}
	if o.StampEnabled {
		add(KindStamp, base, paint{fill: "none", stroke: safeColor(o.StampColor), strokeWidth: w(o.StampWidth)})
	}
	if o.FillEnabled || o.StrokeEnabled {
		p := paint{fill: "none"}
		if o.FillEnabled {
			p.fill = safeColor(o.FillColor)
			if o.ShineEnabled {
				p.fill = "url(#" + ShineGradientID + ")"
			}
		}
		if o.StrokeEnabled {
			p.stroke = safeColor(o.StrokeColor)
			p.strokeWidth = w(o.StrokeWidth)
		}
		add(KindMain, base, p)
	}
	return layers, nil
}

func placeholder(n, i int, g glyph.Glyph, x float64) Layer {
	return Layer{
		Kind:      KindMain,
		Z:         int(KindMain)*n + i,
		Glyph:     i,
		Letter:    g.Letter,
		Transform: Transform{X: x, Scale: 1},
		Markup:    PlaceholderMarkup,
	}
}

// safeColor returns c normalized, or "none" when c is not a hex color.
// Options built without a Patch are never trusted to be attribute-safe.
func safeColor(c string) string {
	n, err := style.NormalizeColor(c)
	if err != nil {
		return "none"
	}
	return n
}

// paint is the presentation of one layer group.
type paint struct {
	fill        string
	stroke      string
	strokeWidth float64
}

func (p paint) wrap(body string) string {
	var b strings.Builder
	b.WriteString(`<g fill="`)
	b.WriteString(p.fill)
	b.WriteByte('"')
	if p.stroke != "" && p.strokeWidth > 0 {
		b.WriteString(` stroke="`)
		b.WriteString(p.stroke)
		b.WriteString(`" stroke-width="`)
		b.WriteString(formatNumber(p.strokeWidth))
		b.WriteString(`" stroke-linejoin="round" stroke-linecap="round"`)
	}
	if body == "" {
		b.WriteString("/>")
		return b.String()
	}
	b.WriteByte('>')
	b.WriteString(body)
	b.WriteString("</g>")
	return b.String()
}
