package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gogpu/graffiti"
	"github.com/gogpu/graffiti/glyph"
)

// loadGlyphDir reads a glyph set from dir. Each letter is a file named
// after it, either literally ("A.svg") or by code point ("U+0041.svg").
// Alternate variants use the ".alt.svg" suffix.
func loadGlyphDir(dir string) (*glyph.MapSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	src := &glyph.MapSource{
		Glyphs:     make(map[rune]string),
		Alternates: make(map[rune]string),
		FoldCase:   true,
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".svg") {
			continue
		}
		stem := strings.TrimSuffix(name, ".svg")
		target := src.Glyphs
		if s, ok := strings.CutSuffix(stem, ".alt"); ok {
			stem, target = s, src.Alternates
		}
		letter, ok := letterFromName(stem)
		if !ok {
			graffiti.Logger().Debug("graffiti: skipping glyph file", "file", name)
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		target[letter] = string(data)
	}
	if len(src.Glyphs) == 0 {
		return nil, fmt.Errorf("%s: no glyph files", dir)
	}
	graffiti.Logger().Info("graffiti: loaded glyphs", "dir", dir,
		"letters", len(src.Glyphs), "alternates", len(src.Alternates))
	return src, nil
}

func letterFromName(stem string) (rune, bool) {
	if hex, ok := strings.CutPrefix(strings.ToUpper(stem), "U+"); ok {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return 0, false
		}
		return rune(v), true
	}
	r, size := utf8.DecodeRuneInString(stem)
	if r == utf8.RuneError || size != len(stem) {
		return 0, false
	}
	return r, true
}
