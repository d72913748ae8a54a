package compose

import (
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/matrix"

	"github.com/gogpu/graffiti/glyph"
)

// Kind identifies an effect layer. Kinds are ordered from bottom to top.
type Kind uint8

const (
	// KindShield is the wide halo stroke behind the stamp.
	KindShield Kind = iota

	// KindShadowShield is the shield redrawn at the shadow offset.
	KindShadowShield

	// KindShadow is the glyph redrawn at the shadow offset.
	KindShadow

	// KindStamp is the outline stroke.
	KindStamp

	// KindMain is the glyph itself.
	KindMain

	kindCount = int(KindMain) + 1
)

// String returns the layer kind name.
func (k Kind) String() string {
	switch k {
	case KindShield:
		return "shield"
	case KindShadowShield:
		return "shadow-shield"
	case KindShadow:
		return "shadow"
	case KindStamp:
		return "stamp"
	case KindMain:
		return "main"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Transform places a glyph in composite coordinates. The glyph is first
// rotated about (CX, CY) in its own coordinates, then scaled, then moved
// by (X, Y).
type Transform struct {
	X, Y     float64
	Scale    float64
	Rotation float64 // degrees
	CX, CY   float64
}

// Matrix returns the transform as an affine matrix.
func (t Transform) Matrix() matrix.Matrix {
	m := matrix.Identity
	if t.Rotation != 0 {
		m = matrix.Translate(-t.CX, -t.CY).
			Mul(glyph.Rotation(t.Rotation)).
			Mul(matrix.Translate(t.CX, t.CY))
	}
	s := t.Scale
	if s == 0 {
		s = 1
	}
	return m.Mul(matrix.Scale(s, s)).Mul(matrix.Translate(t.X, t.Y))
}

// String returns the transform as an SVG transform attribute value.
func (t Transform) String() string {
	return MatrixString(t.Matrix())
}

// MatrixString formats m as an SVG matrix() transform.
func MatrixString(m matrix.Matrix) string {
	var b strings.Builder
	b.WriteString("matrix(")
	for i, v := range m {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatNumber(v))
	}
	b.WriteByte(')')
	return b.String()
}

// Layer is one renderable layer of the composite.
type Layer struct {
	Kind Kind

	// Z is the stacking position. Layers with a higher Z are drawn later.
	Z int

	// Glyph is the index of the glyph in the laid out string.
	Glyph  int
	Letter rune

	Transform Transform

	// Markup is a sanitized <g> element carrying the layer paint.
	Markup string
}

// SVG returns the layer as an SVG group with its transform applied.
func (l Layer) SVG() string {
	return `<g transform="` + l.Transform.String() + `">` + l.Markup + `</g>`
}

// formatNumber prints v with at most four decimals.
func formatNumber(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		return "0" // also catches -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
