package glyph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
)

// ErrNoOutline is returned when a font glyph has no vector outline
// (bitmap or color glyphs).
var ErrNoOutline = errors.New("glyph: font glyph has no outline")

// FontSource builds glyph markup from TrueType outlines. It is a stand-in
// for a hand-authored glyph set and is mainly useful for previews and tests.
//
// FontSource is safe for concurrent use: faces are parsed once and only
// read afterwards.
type FontSource struct {
	regular   *font.Face
	alternate *font.Face

	// size is the em size of the produced markup in user units.
	size float64
}

// NewFontSource parses TrueType data. alternate may be nil, in which case
// alternate variants fall back to the regular face.
func NewFontSource(regular, alternate []byte, size float64) (*FontSource, error) {
	if size <= 0 {
		return nil, fmt.Errorf("glyph: font size must be positive, got %v", size)
	}
	reg, err := font.ParseTTF(bytes.NewReader(regular))
	if err != nil {
		return nil, fmt.Errorf("glyph: parse font: %w", err)
	}
	s := &FontSource{regular: reg, alternate: reg, size: size}
	if alternate != nil {
		alt, err := font.ParseTTF(bytes.NewReader(alternate))
		if err != nil {
			return nil, fmt.Errorf("glyph: parse alternate font: %w", err)
		}
		s.alternate = alt
	}
	return s, nil
}

// DefaultFontSource returns a FontSource backed by the bundled Go Bold
// faces, with Go Bold Italic as the alternate variant.
func DefaultFontSource(size float64) (*FontSource, error) {
	return NewFontSource(gobold.TTF, gobolditalic.TTF, size)
}

// FetchGlyph implements Source.
func (s *FontSource) FetchGlyph(ctx context.Context, letter rune, pos Position) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	face := s.regular
	if pos.UseAlternate {
		face = s.alternate
	}

	gid, ok := face.NominalGlyph(letter)
	if !ok {
		return "", ErrNotFound
	}
	outline, ok := face.GlyphData(gid).(font.GlyphOutline)
	if !ok {
		return "", ErrNoOutline
	}

	scale := s.size / float64(face.Upem())
	baseline := s.size * 0.8
	advance := float64(face.HorizontalAdvance(gid)) * scale

	var d strings.Builder
	pt := func(p font.SegmentPoint) {
		d.WriteString(formatNum(float64(p.X) * scale))
		d.WriteByte(' ')
		d.WriteString(formatNum(baseline - float64(p.Y)*scale))
	}
	for _, seg := range outline.Segments {
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			if d.Len() > 0 {
				d.WriteString("Z")
			}
			d.WriteString("M")
			pt(seg.Args[0])
		case ot.SegmentOpLineTo:
			d.WriteString("L")
			pt(seg.Args[0])
		case ot.SegmentOpQuadTo:
			d.WriteString("Q")
			pt(seg.Args[0])
			d.WriteByte(' ')
			pt(seg.Args[1])
		case ot.SegmentOpCubeTo:
			d.WriteString("C")
			pt(seg.Args[0])
			d.WriteByte(' ')
			pt(seg.Args[1])
			d.WriteByte(' ')
			pt(seg.Args[2])
		}
	}
	if d.Len() > 0 {
		d.WriteString("Z")
	}

	return `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 ` +
		formatNum(advance) + " " + formatNum(s.size) + `"><path d="` +
		d.String() + `"/></svg>`, nil
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 32)
}
