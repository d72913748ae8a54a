package glyph

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParsePathData(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want []contour
	}{
		{"absolute", "M0 0 H10 V10 Z", []contour{{{0, 0}, {10, 0}, {10, 10}, {0, 0}}}},
		{"relative", "m1 1 l2 0 0 2z", []contour{{{1, 1}, {3, 1}, {3, 3}, {1, 1}}}},
		{"implicit lineto", "m1 1 2 0", []contour{{{1, 1}, {3, 1}}}},
		{"compact numbers", "M0-1.5L.5.5", []contour{{{0, -1.5}, {0.5, 0.5}}}},
		{"exponent", "M1e1 0L0 2E-1", []contour{{{10, 0}, {0, 0.2}}}},
		{"two subpaths", "M0 0L1 0ZM5 5L6 5", []contour{{{0, 0}, {1, 0}, {0, 0}}, {{5, 5}, {6, 5}}}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePathData(tt.d)
			if err != nil {
				t.Fatalf("parsePathData(%q) error = %v", tt.d, err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("parsePathData(%q) mismatch (-want +got):\n%s", tt.d, diff)
			}
		})
	}
}

func TestParsePathDataErrors(t *testing.T) {
	for _, d := range []string{"X0 0", "5 5", "M0", "M0 0Z5", "M0 0A1 1 0 2 0 1 1"} {
		if _, err := parsePathData(d); err == nil {
			t.Errorf("parsePathData(%q) error = nil, want error", d)
		}
	}
}

func TestParsePathDataCurves(t *testing.T) {
	cs, err := parsePathData("M0 0C0 10 10 10 10 0S20 -10 20 0Q25 5 30 0T40 0")
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 1 {
		t.Fatalf("len(contours) = %d, want 1", len(cs))
	}
	last := cs[0][len(cs[0])-1]
	if math.Abs(last.X-40) > 1e-9 || math.Abs(last.Y) > 1e-9 {
		t.Errorf("last point = %+v, want (40,0)", last)
	}
	b, _ := inkBounds(cs)
	if b.Bottom < 7 || b.Top > -7 {
		t.Errorf("curve bounds = %+v, want bulges on both sides", b)
	}
}

func TestParsePathDataArc(t *testing.T) {
	cs, err := parsePathData("M0 0 A5 5 0 0 1 10 0")
	if err != nil {
		t.Fatal(err)
	}
	last := cs[0][len(cs[0])-1]
	if math.Abs(last.X-10) > 1e-9 || math.Abs(last.Y) > 1e-9 {
		t.Errorf("arc end = %+v, want (10,0)", last)
	}
	b, _ := inkBounds(cs)
	if math.Abs(b.Top+5) > 1e-6 {
		t.Errorf("arc top = %v, want -5", b.Top)
	}
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		name string
		s    string
		in   point
		want point
	}{
		{"translate", "translate(5 -2)", point{1, 1}, point{6, -1}},
		{"translate one arg", "translate(5)", point{1, 1}, point{6, 1}},
		{"scale", "scale(2)", point{1, 3}, point{2, 6}},
		{"rotate", "rotate(90)", point{10, 0}, point{0, 10}},
		{"rotate about point", "rotate(180 5 5)", point{0, 0}, point{10, 10}},
		{"list applies right first", "translate(10 0) scale(2)", point{1, 1}, point{12, 2}},
		{"matrix", "matrix(1 0 0 1 3 4)", point{0, 0}, point{3, 4}},
		{"skewX", "skewX(45)", point{0, 1}, point{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := parseTransform(tt.s)
			if err != nil {
				t.Fatalf("parseTransform(%q) error = %v", tt.s, err)
			}
			got := apply(m, tt.in)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("apply(%q, %v) = %v, want %v", tt.s, tt.in, got, tt.want)
			}
		})
	}
}

func TestProcessRect(t *testing.T) {
	g, err := Processor{}.Process('I', `<svg viewBox="0 0 100 100"><rect x="10" y="20" width="30" height="40"/></svg>`)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	want := Bounds{Left: 10, Right: 40, Top: 20, Bottom: 60}
	if g.Bounds != want {
		t.Errorf("Bounds = %+v, want %+v", g.Bounds, want)
	}
	if g.Width != 100 || g.Height != 100 {
		t.Errorf("Width, Height = %v, %v, want 100, 100", g.Width, g.Height)
	}
	if len(g.Occupancy) != DefaultColumns {
		t.Fatalf("len(Occupancy) = %d, want %d", len(g.Occupancy), DefaultColumns)
	}
	for i, v := range g.Occupancy {
		if v < 0.99 {
			t.Errorf("Occupancy[%d] = %v, want ~1 for a full rect", i, v)
		}
	}
	if g.IsSpace || g.Scale != 1 || g.Letter != 'I' {
		t.Errorf("unexpected glyph fields: %+v", g)
	}
}

func TestProcessTriangleOccupancy(t *testing.T) {
	g, err := Processor{Columns: 16, Rows: 16}.Process('V', `<svg><path d="M0 0L100 100L0 100Z"/></svg>`)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(g.Occupancy) != 16 {
		t.Fatalf("len(Occupancy) = %d, want 16", len(g.Occupancy))
	}
	if g.Occupancy[0] <= g.Occupancy[15] {
		t.Errorf("Occupancy[0] = %v, Occupancy[15] = %v, want left denser", g.Occupancy[0], g.Occupancy[15])
	}
	if g.Width != 100 || g.Height != 100 {
		t.Errorf("Width, Height = %v, %v, want ink extents", g.Width, g.Height)
	}
}

func TestProcessTransformedGroup(t *testing.T) {
	g, err := Processor{}.Process('x', `<svg><g transform="translate(5 0)"><rect width="10" height="10"/><circle cx="30" cy="5" r="5"/></g></svg>`)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(g.Bounds.Left-5) > 1e-9 || math.Abs(g.Bounds.Right-40) > 1e-9 {
		t.Errorf("Bounds = %+v, want left 5 right 40", g.Bounds)
	}
}

func TestProcessInvalid(t *testing.T) {
	for _, markup := range []string{`<svg><g></svg>`, `<div/>`, `<svg><path d="Q"/></svg>`} {
		if _, err := (Processor{}).Process('a', markup); err == nil {
			t.Errorf("Process(%q) error = nil, want error", markup)
		}
	}
}

func TestSpaceAndPlaceholder(t *testing.T) {
	s := Space(30)
	if !s.IsSpace || s.InkWidth() != 30 || s.Bounds.Left != 0 {
		t.Errorf("Space(30) = %+v", s)
	}
	p := Placeholder('q', 12)
	if p.IsSpace || p.InkWidth() != 12 || p.RawMarkup == "" {
		t.Errorf("Placeholder('q', 12) = %+v", p)
	}
	if r := s.WithRotation(5).WithRotation(-2); r.Rotation != 3 || s.Rotation != 0 {
		t.Errorf("WithRotation chain = %v, original = %v", r.Rotation, s.Rotation)
	}
}

func TestPositions(t *testing.T) {
	got := Positions([]rune("noon a"))
	want := []Position{
		{IsFirst: true},
		{},
		{UseAlternate: true},
		{IsLast: true, UseAlternate: true},
		{},
		{IsFirst: true, IsLast: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Positions mismatch (-want +got):\n%s", diff)
	}
}

func TestMapSource(t *testing.T) {
	s := &MapSource{
		Glyphs:     map[rune]string{'A': "<svg id='a'/>"},
		Alternates: map[rune]string{'A': "<svg id='alt'/>"},
		FoldCase:   true,
	}
	ctx := context.Background()

	tests := []struct {
		letter rune
		pos    Position
		want   string
	}{
		{'A', Position{}, "<svg id='a'/>"},
		{'a', Position{}, "<svg id='a'/>"},
		{'A', Position{UseAlternate: true}, "<svg id='alt'/>"},
	}
	for _, tt := range tests {
		got, err := s.FetchGlyph(ctx, tt.letter, tt.pos)
		if err != nil || got != tt.want {
			t.Errorf("FetchGlyph(%q, %+v) = %q, %v, want %q", tt.letter, tt.pos, got, err, tt.want)
		}
	}

	if _, err := s.FetchGlyph(ctx, 'Z', Position{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("FetchGlyph('Z') error = %v, want ErrNotFound", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := s.FetchGlyph(cancelled, 'A', Position{}); !errors.Is(err, context.Canceled) {
		t.Errorf("FetchGlyph(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestFontSource(t *testing.T) {
	src, err := DefaultFontSource(100)
	if err != nil {
		t.Fatalf("DefaultFontSource() error = %v", err)
	}
	markup, err := src.FetchGlyph(context.Background(), 'A', Position{})
	if err != nil {
		t.Fatalf("FetchGlyph('A') error = %v", err)
	}
	g, err := Processor{}.Process('A', markup)
	if err != nil {
		t.Fatalf("Process(font 'A') error = %v\n%s", err, markup)
	}
	if g.Bounds.IsEmpty() {
		t.Errorf("font glyph has empty ink box: %+v", g.Bounds)
	}
	if g.Bounds.Bottom > 100 || g.Bounds.Top < 0 {
		t.Errorf("font glyph ink box %+v outside the em box", g.Bounds)
	}

	alt, err := src.FetchGlyph(context.Background(), 'A', Position{UseAlternate: true})
	if err != nil {
		t.Fatalf("FetchGlyph(alternate 'A') error = %v", err)
	}
	if alt == markup {
		t.Error("alternate variant equals regular markup")
	}
}
