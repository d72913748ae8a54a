package glyph

import (
	"context"
	"unicode"
)

// MapSource serves glyph markup from memory.
type MapSource struct {
	// Glyphs maps a letter to its markup.
	Glyphs map[rune]string

	// Alternates maps a letter to its alternate variant markup.
	Alternates map[rune]string

	// FoldCase makes lookups retry with the other letter case.
	FoldCase bool
}

// FetchGlyph implements Source.
func (s *MapSource) FetchGlyph(ctx context.Context, letter rune, pos Position) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if pos.UseAlternate {
		if m, ok := s.lookup(s.Alternates, letter); ok {
			return m, nil
		}
	}
	if m, ok := s.lookup(s.Glyphs, letter); ok {
		return m, nil
	}
	return "", ErrNotFound
}

func (s *MapSource) lookup(m map[rune]string, letter rune) (string, bool) {
	if v, ok := m[letter]; ok {
		return v, true
	}
	if !s.FoldCase {
		return "", false
	}
	for _, r := range []rune{unicode.ToUpper(letter), unicode.ToLower(letter)} {
		if v, ok := m[r]; ok {
			return v, true
		}
	}
	return "", false
}
