package glyph

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by a Source that has no glyph for a letter.
var ErrNotFound = errors.New("glyph: letter not found")

// Position describes where a letter sits inside its word.
type Position struct {
	IsFirst      bool
	IsLast       bool
	UseAlternate bool
}

// Source provides raw outline markup for a letter.
// Implementations may block (network, disk) and must honor ctx.
type Source interface {
	FetchGlyph(ctx context.Context, letter rune, pos Position) (string, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, letter rune, pos Position) (string, error)

// FetchGlyph calls f.
func (f SourceFunc) FetchGlyph(ctx context.Context, letter rune, pos Position) (string, error) {
	return f(ctx, letter, pos)
}

// FetchError records a failed fetch for one letter.
type FetchError struct {
	Letter rune
	Index  int
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("glyph: fetch %q at %d: %v", e.Letter, e.Index, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Positions computes the positional context of every rune in text.
// Words are separated by space runes. Every second occurrence of the same
// letter inside a word uses the alternate variant.
func Positions(text []rune) []Position {
	out := make([]Position, len(text))
	start := 0
	for i := 0; i <= len(text); i++ {
		if i < len(text) && !IsSpaceRune(text[i]) {
			continue
		}
		if i > start {
			seen := make(map[rune]int)
			for j := start; j < i; j++ {
				seen[text[j]]++
				out[j] = Position{
					IsFirst:      j == start,
					IsLast:       j == i-1,
					UseAlternate: seen[text[j]]%2 == 0,
				}
			}
		}
		start = i + 1
	}
	return out
}
