package overlap

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/graffiti/glyph"
)

// box returns a glyph with uniform occupancy density d over width w.
func box(letter rune, w, d float64) glyph.Glyph {
	occ := make([]float64, 16)
	for i := range occ {
		occ[i] = d
	}
	return glyph.Glyph{
		Letter:    letter,
		Width:     w,
		Height:    100,
		Bounds:    glyph.Bounds{Right: w, Bottom: 100},
		Occupancy: occ,
		Scale:     1,
	}
}

// edges returns a glyph whose ink is dense on the left and sparse on the right.
func edges(letter rune, w float64) glyph.Glyph {
	g := box(letter, w, 0)
	for i := range g.Occupancy {
		if i < len(g.Occupancy)/2 {
			g.Occupancy[i] = 1
		}
	}
	return g
}

func testTables() *Tables {
	return &Tables{
		Default: Rule{MinOverlap: 0.05, MaxOverlap: 0.15},
		Rules: map[rune]Rule{
			'a': {MinOverlap: 0.1, MaxOverlap: 0.3},
			'l': {MinOverlap: 0.1, MaxOverlap: 0.3, SpecialCases: map[rune]float64{'t': 0.4}},
		},
		Exceptions: map[Pair]bool{{'l', 't'}: true, {'a', 'c'}: true},
		Rotations: map[rune]RotationRule{
			'o': {After: map[rune]float64{'n': -2.5}, Before: map[rune]float64{'r': 1.5}},
			'n': {Before: map[rune]float64{'o': 1}},
		},
		Pairs: map[Pair]float64{{'a', 'v'}: 0.33},
	}
}

func strategies(t *Tables) map[string]Strategy {
	return map[string]Strategy{
		"lookup":     NewLookup(t),
		"analytical": NewAnalytical(t),
	}
}

func TestRuleOverlap(t *testing.T) {
	tb := testTables()
	tests := []struct {
		name       string
		prev, curr rune
		want       float64
	}{
		{"rule max", 'A', 'B', 0.3},
		{"default rule", 'Q', 'B', 0.15},
		{"special case", 'L', 'O', 0.3},
		{"special case with exception", 'L', 'T', 0.4 * ExceptionDampening},
		{"exception", 'a', 'c', 0.3 * ExceptionDampening},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tb.RuleOverlap(tt.prev, tt.curr)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("RuleOverlap(%q, %q) = %v, want %v", tt.prev, tt.curr, got, tt.want)
			}
		})
	}
}

func TestSpacesNeverOverlap(t *testing.T) {
	space := glyph.Space(40)
	a := box('A', 100, 0)
	for name, s := range strategies(testTables()) {
		t.Run(name, func(t *testing.T) {
			if got := s.Overlap(a, space); got != 0 {
				t.Errorf("Overlap(A, space) = %v, want 0", got)
			}
			if got := s.Overlap(space, a); got != 0 {
				t.Errorf("Overlap(space, A) = %v, want 0", got)
			}
			if got := s.Overlap(space, space); got != 0 {
				t.Errorf("Overlap(space, space) = %v, want 0", got)
			}
		})
	}
}

func TestOverlapWithinRuleAndDeterministic(t *testing.T) {
	tb := testTables()
	glyphs := []glyph.Glyph{
		box('A', 100, 0.2), edges('B', 80), box('C', 60, 1), box('Q', 90, 0.5),
		edges('L', 70), box('M', 120, 0),
	}
	for name, s := range strategies(tb) {
		t.Run(name, func(t *testing.T) {
			for _, prev := range glyphs {
				for _, curr := range glyphs {
					got := s.Overlap(prev, curr)
					lo, hi := tb.Rule(prev.Letter).bounds()
					if tb.IsException(prev.Letter, curr.Letter) {
						lo *= ExceptionDampening
						hi *= ExceptionDampening
					}
					if got < lo-1e-12 || got > hi+1e-12 {
						t.Errorf("Overlap(%c, %c) = %v, want in [%v, %v]", prev.Letter, curr.Letter, got, lo, hi)
					}
					if again := s.Overlap(prev, curr); again != got {
						t.Errorf("Overlap(%c, %c) not deterministic: %v then %v", prev.Letter, curr.Letter, got, again)
					}
				}
			}
		})
	}
}

func TestScenarioAB(t *testing.T) {
	tb := &Tables{
		Default: Rule{MinOverlap: 0, MaxOverlap: 0.1},
		Rules:   map[rune]Rule{'a': {MinOverlap: 0.1, MaxOverlap: 0.3}},
	}
	a, b := box('A', 100, 0.5), box('B', 80, 0.5)
	for name, s := range strategies(tb) {
		got := s.Overlap(a, b)
		if got < 0.1 || got > 0.3 {
			t.Errorf("%s: Overlap(A, B) = %v, want in [0.1, 0.3]", name, got)
		}
	}
}

func TestLookupTableHit(t *testing.T) {
	s := NewLookup(testTables())
	if got := s.Overlap(box('A', 10, 1), box('v', 10, 1)); got != 0.33 {
		t.Errorf("Overlap(A, v) = %v, want table value 0.33", got)
	}
}

func TestAnalyticalPrefersSparseEdges(t *testing.T) {
	tb := &Tables{Default: Rule{MinOverlap: 0.1, MaxOverlap: 0.5}}
	s := NewAnalytical(tb)

	empty := box('x', 100, 0)
	if got := s.Overlap(empty, empty); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Overlap(empty, empty) = %v, want max 0.5", got)
	}

	solid := box('x', 100, 1)
	if got := s.Overlap(solid, solid); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("Overlap(solid, solid) = %v, want min 0.1", got)
	}

	// The right half of prev is empty, so curr may slide in until it
	// reaches prev's dense left half.
	left := edges('x', 100)
	got := s.Overlap(left, solid)
	if got < 0.45 || got > 0.5 {
		t.Errorf("Overlap(dense-left, solid) = %v, want near 0.5", got)
	}
}

func TestAnalyticalSpecialCaseAndFallback(t *testing.T) {
	tb := testTables()
	s := NewAnalytical(tb)
	if got, want := s.Overlap(box('L', 10, 1), box('T', 10, 1)), 0.4*ExceptionDampening; math.Abs(got-want) > 1e-12 {
		t.Errorf("Overlap(L, T) = %v, want %v", got, want)
	}
	noOcc := glyph.Glyph{Letter: 'a', Bounds: glyph.Bounds{Right: 10}}
	if got := s.Overlap(noOcc, noOcc); got != tb.RuleOverlap('a', 'a') {
		t.Errorf("Overlap without occupancy = %v, want rule fallback %v", got, tb.RuleOverlap('a', 'a'))
	}
}

func TestRotation(t *testing.T) {
	tb := testTables()
	tests := []struct {
		prev, curr rune
		want       float64
	}{
		{'O', 'N', -2.5 + 1},
		{'R', 'O', 1.5},
		{'A', 'B', 0},
	}
	for _, tt := range tests {
		if got := tb.Rotation(tt.prev, tt.curr); got != tt.want {
			t.Errorf("Rotation(%q, %q) = %v, want %v", tt.prev, tt.curr, got, tt.want)
		}
	}
}

func TestNewAndParseMode(t *testing.T) {
	for _, m := range []Mode{ModeLookup, ModeAnalytical} {
		parsed, err := ParseMode(m.String())
		if err != nil || parsed != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), parsed, err)
		}
		if _, err := New(m, testTables()); err != nil {
			t.Errorf("New(%v) error = %v", m, err)
		}
	}
	if _, err := ParseMode("magic"); err == nil {
		t.Error("ParseMode(magic) error = nil")
	}
	if _, err := New(ModeLookup, nil); !errors.Is(err, ErrNilTables) {
		t.Errorf("New(nil tables) error = %v, want ErrNilTables", err)
	}
}

func TestPrecompute(t *testing.T) {
	tb := &Tables{Default: Rule{MinOverlap: 0.1, MaxOverlap: 0.2}}
	glyphs := []glyph.Glyph{box('A', 10, 0), glyph.Space(5), box('B', 10, 1)}
	got := Precompute(NewAnalytical(tb), glyphs)
	if len(got) != 4 {
		t.Fatalf("len(Precompute) = %d, want 4", len(got))
	}
	tb.Pairs = got
	lookup := NewLookup(tb)
	analytical := NewAnalytical(tb)
	for _, a := range []glyph.Glyph{glyphs[0], glyphs[2]} {
		for _, b := range []glyph.Glyph{glyphs[0], glyphs[2]} {
			if l, an := lookup.Overlap(a, b), analytical.Overlap(a, b); l != an {
				t.Errorf("lookup(%c,%c) = %v, analytical = %v", a.Letter, b.Letter, l, an)
			}
		}
	}
}

func TestDefaultTables(t *testing.T) {
	tb := DefaultTables()
	if r := tb.Rule('a'); r.MinOverlap != 0.10 || r.MaxOverlap != 0.30 {
		t.Errorf("Rule('a') = %+v", r)
	}
	if r := tb.Rule('!'); r.MinOverlap != tb.Default.MinOverlap || r.MaxOverlap != tb.Default.MaxOverlap {
		t.Errorf("Rule('!') = %+v, want default %+v", r, tb.Default)
	}
	if !tb.IsException('L', 'T') {
		t.Error("IsException(L, T) = false")
	}
	if got := tb.Rotation('O', 'N'); got != -2.5 {
		t.Errorf("Rotation(O, N) = %v, want -2.5", got)
	}
	if v, ok := tb.Pairs[Pair{'a', 'v'}]; !ok || v != 0.34 {
		t.Errorf("Pairs[av] = %v, %v", v, ok)
	}
}

func TestLoadTables(t *testing.T) {
	doc := `
exceptions = ["xy"]

[default]
min = 0.0
max = 0.2

[rules.X]
min = 0.1
max = 0.4
special = { Z = 0.5 }

[rotations.X]
after = { Y = 3 }

[pairs]
XZ = 0.25
`
	got, err := LoadTables(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadTables() error = %v", err)
	}
	want := &Tables{
		Default:    Rule{MinOverlap: 0, MaxOverlap: 0.2},
		Rules:      map[rune]Rule{'x': {MinOverlap: 0.1, MaxOverlap: 0.4, SpecialCases: map[rune]float64{'z': 0.5}}},
		Exceptions: map[Pair]bool{{'x', 'y'}: true},
		Rotations:  map[rune]RotationRule{'x': {After: map[rune]float64{'y': 3}}},
		Pairs:      map[Pair]float64{{'x', 'z'}: 0.25},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadTables() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadTablesErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"out of range", "[default]\nmin = 0\nmax = 1.5\n"},
		{"max below min", "[default]\nmin = 0.5\nmax = 0.1\n"},
		{"bad pair", "exceptions = [\"abc\"]\n[default]\nmax = 0.1\n"},
		{"bad letter", "[default]\nmax = 0.1\n[rules.AB]\nmax = 0.1\n"},
		{"unknown field", "colour = 1\n[default]\nmax = 0.1\n"},
		{"not toml", "[[[\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTables(strings.NewReader(tt.doc)); err == nil {
				t.Errorf("LoadTables(%q) error = nil, want error", tt.doc)
			}
		})
	}
}

func TestLoadTablesDuplicateFoldedKeys(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"rules", "[default]\nmax = 0.1\n[rules.A]\nmax = 0.2\n[rules.a]\nmax = 0.3\n"},
		{"rotations", "[default]\nmax = 0.1\n[rotations.O]\nafter = { N = 1.0 }\n[rotations.o]\nafter = { N = 2.0 }\n"},
		{"pairs", "[default]\nmax = 0.1\n[pairs]\nAV = 0.2\nav = 0.3\n"},
		{"special", "[default]\nmax = 0.1\n[rules.A]\nmax = 0.2\nspecial = { V = 0.3, v = 0.4 }\n"},
		{"rotation neighbors", "[default]\nmax = 0.1\n[rotations.O]\nbefore = { R = 1.0, r = 2.0 }\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTables(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrDuplicateKey) {
				t.Errorf("LoadTables() error = %v, want ErrDuplicateKey", err)
			}
		})
	}
}

func TestFold(t *testing.T) {
	if Fold('A') != 'a' || Fold('a') != 'a' || Fold('1') != '1' {
		t.Errorf("Fold mismatch: %q %q %q", Fold('A'), Fold('a'), Fold('1'))
	}
}
