package glyph

import (
	"fmt"
	"math"
	"strconv"
)

// point is a 2D point in glyph-local coordinates.
type point struct{ X, Y float64 }

// contour is a flattened closed subpath.
type contour []point

// curveSteps is the number of line segments used per curve.
const curveSteps = 16

// parsePathData flattens SVG path data into contours.
func parsePathData(d string) ([]contour, error) {
	s := pathScanner{src: d}
	var (
		out          []contour
		cur          contour
		pos, start   point
		lastCtrl     point
		lastCmd      byte
		cmd          byte
		haveCommand  bool
		implicitLine bool
	)

	flush := func() {
		if len(cur) > 1 {
			out = append(out, cur)
		}
		cur = nil
	}

	for {
		s.skipSeparators()
		if s.done() {
			break
		}
		if c := s.peek(); isCommand(c) {
			cmd = c
			s.i++
			haveCommand = true
			implicitLine = false
		} else if !haveCommand {
			return nil, fmt.Errorf("glyph: path data must start with a command at %d", s.i)
		} else if cmd == 'Z' || cmd == 'z' {
			return nil, fmt.Errorf("glyph: unexpected number after closepath at %d", s.i)
		} else if implicitLine {
			// Coordinates after a moveto are implicit linetos.
			if cmd == 'M' {
				cmd = 'L'
			} else if cmd == 'm' {
				cmd = 'l'
			}
		}

		rel := cmd >= 'a'
		base := pos
		if !rel {
			base = point{}
		}

		switch cmd {
		case 'M', 'm':
			p, err := s.point()
			if err != nil {
				return nil, err
			}
			flush()
			pos = point{base.X + p.X, base.Y + p.Y}
			start = pos
			cur = contour{pos}
			implicitLine = true
		case 'L', 'l':
			p, err := s.point()
			if err != nil {
				return nil, err
			}
			pos = point{base.X + p.X, base.Y + p.Y}
			cur = append(cur, pos)
		case 'H', 'h':
			x, err := s.number()
			if err != nil {
				return nil, err
			}
			if rel {
				pos.X += x
			} else {
				pos.X = x
			}
			cur = append(cur, pos)
		case 'V', 'v':
			y, err := s.number()
			if err != nil {
				return nil, err
			}
			if rel {
				pos.Y += y
			} else {
				pos.Y = y
			}
			cur = append(cur, pos)
		case 'C', 'c', 'S', 's':
			var c1 point
			if cmd == 'C' || cmd == 'c' {
				p, err := s.point()
				if err != nil {
					return nil, err
				}
				c1 = point{base.X + p.X, base.Y + p.Y}
			} else {
				c1 = pos
				if isCubic(lastCmd) {
					c1 = point{2*pos.X - lastCtrl.X, 2*pos.Y - lastCtrl.Y}
				}
			}
			c2, err := s.point()
			if err != nil {
				return nil, err
			}
			end, err := s.point()
			if err != nil {
				return nil, err
			}
			c2 = point{base.X + c2.X, base.Y + c2.Y}
			end = point{base.X + end.X, base.Y + end.Y}
			cur = appendCubic(cur, pos, c1, c2, end)
			lastCtrl, pos = c2, end
		case 'Q', 'q', 'T', 't':
			var c point
			if cmd == 'Q' || cmd == 'q' {
				p, err := s.point()
				if err != nil {
					return nil, err
				}
				c = point{base.X + p.X, base.Y + p.Y}
			} else {
				c = pos
				if isQuad(lastCmd) {
					c = point{2*pos.X - lastCtrl.X, 2*pos.Y - lastCtrl.Y}
				}
			}
			end, err := s.point()
			if err != nil {
				return nil, err
			}
			end = point{base.X + end.X, base.Y + end.Y}
			cur = appendQuad(cur, pos, c, end)
			lastCtrl, pos = c, end
		case 'A', 'a':
			rx, err := s.number()
			if err != nil {
				return nil, err
			}
			ry, err := s.number()
			if err != nil {
				return nil, err
			}
			phi, err := s.number()
			if err != nil {
				return nil, err
			}
			large, err := s.flag()
			if err != nil {
				return nil, err
			}
			sweep, err := s.flag()
			if err != nil {
				return nil, err
			}
			p, err := s.point()
			if err != nil {
				return nil, err
			}
			end := point{base.X + p.X, base.Y + p.Y}
			cur = appendArc(cur, pos, end, rx, ry, phi, large, sweep)
			pos = end
		case 'Z', 'z':
			if len(cur) > 0 {
				cur = append(cur, start)
			}
			flush()
			pos = start
			cur = contour{pos}
		default:
			return nil, fmt.Errorf("glyph: unknown path command %q", cmd)
		}
		lastCmd = cmd
	}
	flush()
	return out, nil
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's',
		'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

func isCubic(c byte) bool { return c == 'C' || c == 'c' || c == 'S' || c == 's' }
func isQuad(c byte) bool  { return c == 'Q' || c == 'q' || c == 'T' || c == 't' }

func appendCubic(c contour, p0, p1, p2, p3 point) contour {
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		mt := 1 - t
		a, b, cc, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
		c = append(c, point{
			a*p0.X + b*p1.X + cc*p2.X + d*p3.X,
			a*p0.Y + b*p1.Y + cc*p2.Y + d*p3.Y,
		})
	}
	return c
}

func appendQuad(c contour, p0, p1, p2 point) contour {
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		mt := 1 - t
		a, b, d := mt*mt, 2*mt*t, t*t
		c = append(c, point{a*p0.X + b*p1.X + d*p2.X, a*p0.Y + b*p1.Y + d*p2.Y})
	}
	return c
}

// appendArc flattens an elliptical arc using the endpoint to center
// conversion of the SVG implementation notes.
func appendArc(c contour, p0, p1 point, rx, ry, phiDeg float64, large, sweep bool) contour {
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 || (p0 == p1) {
		return append(c, p1)
	}
	phi := phiDeg * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	dx, dy := (p0.X-p1.X)/2, (p0.Y-p1.Y)/2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx

	cx := cosPhi*cx1 - sinPhi*cy1 + (p0.X+p1.X)/2
	cy := sinPhi*cx1 + cosPhi*cy1 + (p0.Y+p1.Y)/2

	theta1 := math.Atan2((y1-cy1)/ry, (x1-cx1)/rx)
	theta2 := math.Atan2((-y1-cy1)/ry, (-x1-cx1)/rx)
	delta := theta2 - theta1
	if sweep && delta < 0 {
		delta += 2 * math.Pi
	} else if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	}

	for i := 1; i <= curveSteps; i++ {
		t := theta1 + delta*float64(i)/curveSteps
		ct, st := math.Cos(t), math.Sin(t)
		c = append(c, point{
			cx + rx*ct*cosPhi - ry*st*sinPhi,
			cy + rx*ct*sinPhi + ry*st*cosPhi,
		})
	}
	return c
}

// pathScanner reads numbers and flags from path data.
type pathScanner struct {
	src string
	i   int
}

func (s *pathScanner) done() bool { return s.i >= len(s.src) }
func (s *pathScanner) peek() byte { return s.src[s.i] }

func (s *pathScanner) skipSeparators() {
	for s.i < len(s.src) {
		switch s.src[s.i] {
		case ' ', '\t', '\n', '\r', ',':
			s.i++
		default:
			return
		}
	}
}

func (s *pathScanner) point() (point, error) {
	x, err := s.number()
	if err != nil {
		return point{}, err
	}
	y, err := s.number()
	if err != nil {
		return point{}, err
	}
	return point{x, y}, nil
}

// number scans a floating point number. "1.5.5" is read as 1.5 and .5,
// and "1-2" as 1 and -2, as the path grammar allows.
func (s *pathScanner) number() (float64, error) {
	s.skipSeparators()
	begin := s.i
	if s.i < len(s.src) && (s.src[s.i] == '+' || s.src[s.i] == '-') {
		s.i++
	}
	digits, dot := false, false
	for s.i < len(s.src) {
		c := s.src[s.i]
		switch {
		case c >= '0' && c <= '9':
			digits = true
			s.i++
		case c == '.' && !dot:
			dot = true
			s.i++
		case (c == 'e' || c == 'E') && digits:
			s.i++
			if s.i < len(s.src) && (s.src[s.i] == '+' || s.src[s.i] == '-') {
				s.i++
			}
			for s.i < len(s.src) && s.src[s.i] >= '0' && s.src[s.i] <= '9' {
				s.i++
			}
			return s.parse(begin)
		default:
			if !digits {
				return 0, fmt.Errorf("glyph: expected number at %d in path data", begin)
			}
			return s.parse(begin)
		}
	}
	if !digits {
		return 0, fmt.Errorf("glyph: unexpected end of path data")
	}
	return s.parse(begin)
}

func (s *pathScanner) parse(begin int) (float64, error) {
	v, err := strconv.ParseFloat(s.src[begin:s.i], 64)
	if err != nil {
		return 0, fmt.Errorf("glyph: bad number %q in path data: %w", s.src[begin:s.i], err)
	}
	return v, nil
}

// flag scans an arc flag, which may be written without separators.
func (s *pathScanner) flag() (bool, error) {
	s.skipSeparators()
	if s.done() {
		return false, fmt.Errorf("glyph: unexpected end of path data")
	}
	switch s.src[s.i] {
	case '0':
		s.i++
		return false, nil
	case '1':
		s.i++
		return true, nil
	}
	return false, fmt.Errorf("glyph: bad arc flag at %d", s.i)
}
