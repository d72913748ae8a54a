package glyph

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/matrix"

	"github.com/gogpu/graffiti/svgsafe"
)

// ellipseSteps is the number of segments used for circles and ellipses.
const ellipseSteps = 32

// collectContours walks a sanitized fragment and returns all filled
// geometry in root coordinates.
func collectContours(f *svgsafe.Fragment) ([]contour, error) {
	if f == nil || f.Root == nil {
		return nil, nil
	}
	var out []contour
	for _, child := range f.Root.Children {
		cs, err := walkElement(child, matrix.Identity)
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	return out, nil
}

func walkElement(e *svgsafe.Element, parent matrix.Matrix) ([]contour, error) {
	ctm := parent
	if t, ok := e.Attr("transform"); ok {
		local, err := parseTransform(t)
		if err != nil {
			return nil, err
		}
		ctm = local.Mul(parent)
	}

	var local []contour
	switch e.Name {
	case "g":
		var out []contour
		for _, child := range e.Children {
			cs, err := walkElement(child, ctm)
			if err != nil {
				return nil, err
			}
			out = append(out, cs...)
		}
		return out, nil
	case "path":
		d, _ := e.Attr("d")
		cs, err := parsePathData(d)
		if err != nil {
			return nil, err
		}
		local = cs
	case "rect":
		x, y := numAttr(e, "x"), numAttr(e, "y")
		w, h := numAttr(e, "width"), numAttr(e, "height")
		if w > 0 && h > 0 {
			local = []contour{{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}, {x, y}}}
		}
	case "circle":
		r := numAttr(e, "r")
		local = ellipseContour(numAttr(e, "cx"), numAttr(e, "cy"), r, r)
	case "ellipse":
		local = ellipseContour(numAttr(e, "cx"), numAttr(e, "cy"), numAttr(e, "rx"), numAttr(e, "ry"))
	case "line":
		local = []contour{{{numAttr(e, "x1"), numAttr(e, "y1")}, {numAttr(e, "x2"), numAttr(e, "y2")}}}
	case "polyline", "polygon":
		pts, _ := e.Attr("points")
		c, err := parsePoints(pts)
		if err != nil {
			return nil, err
		}
		if e.Name == "polygon" && len(c) > 0 {
			c = append(c, c[0])
		}
		if len(c) > 1 {
			local = []contour{c}
		}
	}

	for _, c := range local {
		for i, p := range c {
			c[i] = apply(ctm, p)
		}
	}
	return local, nil
}

func ellipseContour(cx, cy, rx, ry float64) []contour {
	if rx <= 0 || ry <= 0 {
		return nil
	}
	c := make(contour, 0, ellipseSteps+1)
	for i := 0; i <= ellipseSteps; i++ {
		t := 2 * math.Pi * float64(i) / ellipseSteps
		c = append(c, point{cx + rx*math.Cos(t), cy + ry*math.Sin(t)})
	}
	return []contour{c}
}

func parsePoints(s string) (contour, error) {
	nums, err := parseNumbers(s)
	if err != nil {
		return nil, err
	}
	c := make(contour, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		c = append(c, point{nums[i], nums[i+1]})
	}
	return c, nil
}

func numAttr(e *svgsafe.Element, name string) float64 {
	v, ok := e.Attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil {
		return 0
	}
	return n
}

func parseNumbers(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("glyph: bad number %q: %w", f, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// apply maps p through m. matrix.Matrix uses the [a b c d e f] layout of
// an SVG matrix() transform.
func apply(m matrix.Matrix, p point) point {
	return point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// parseTransform parses an SVG transform list. The rightmost function
// applies first.
func parseTransform(s string) (matrix.Matrix, error) {
	m := matrix.Identity
	rest := strings.TrimSpace(s)
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		closing := strings.IndexByte(rest, ')')
		if open < 0 || closing < open {
			return matrix.Identity, fmt.Errorf("glyph: bad transform %q", s)
		}
		name := strings.TrimSpace(strings.Trim(rest[:open], ", \t\n"))
		args, err := parseNumbers(rest[open+1 : closing])
		if err != nil {
			return matrix.Identity, err
		}
		fn, err := transformFunc(name, args)
		if err != nil {
			return matrix.Identity, err
		}
		m = fn.Mul(m)
		rest = strings.TrimSpace(strings.TrimLeft(rest[closing+1:], ", \t\n"))
	}
	return m, nil
}

func transformFunc(name string, a []float64) (matrix.Matrix, error) {
	arg := func(i int, def float64) float64 {
		if i < len(a) {
			return a[i]
		}
		return def
	}
	switch name {
	case "matrix":
		if len(a) != 6 {
			return matrix.Identity, fmt.Errorf("glyph: matrix() needs 6 arguments, got %d", len(a))
		}
		return matrix.Matrix{a[0], a[1], a[2], a[3], a[4], a[5]}, nil
	case "translate":
		return matrix.Translate(arg(0, 0), arg(1, 0)), nil
	case "scale":
		sx := arg(0, 1)
		return matrix.Scale(sx, arg(1, sx)), nil
	case "rotate":
		r := Rotation(arg(0, 0))
		if len(a) == 3 {
			cx, cy := a[1], a[2]
			return matrix.Translate(-cx, -cy).Mul(r).Mul(matrix.Translate(cx, cy)), nil
		}
		return r, nil
	case "skewX":
		return matrix.Matrix{1, 0, math.Tan(arg(0, 0) * math.Pi / 180), 1, 0, 0}, nil
	case "skewY":
		return matrix.Matrix{1, math.Tan(arg(0, 0) * math.Pi / 180), 0, 1, 0, 0}, nil
	}
	return matrix.Identity, fmt.Errorf("glyph: unknown transform %q", name)
}

// Rotation returns a rotation by deg degrees, clockwise on a y-down canvas.
func Rotation(deg float64) matrix.Matrix {
	rad := deg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	return matrix.Matrix{c, s, -s, c, 0, 0}
}

// inkBounds returns the box around all contour points.
func inkBounds(cs []contour) (Bounds, bool) {
	b := Bounds{Left: math.Inf(1), Top: math.Inf(1), Right: math.Inf(-1), Bottom: math.Inf(-1)}
	found := false
	for _, c := range cs {
		for _, p := range c {
			found = true
			b.Left = math.Min(b.Left, p.X)
			b.Right = math.Max(b.Right, p.X)
			b.Top = math.Min(b.Top, p.Y)
			b.Bottom = math.Max(b.Bottom, p.Y)
		}
	}
	if !found {
		return Bounds{}, false
	}
	return b, true
}
