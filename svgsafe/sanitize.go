package svgsafe

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// Placeholder is the minimal valid markup used in place of a glyph that
// failed validation or sanitizing.
const Placeholder = `<svg xmlns="http://www.w3.org/2000/svg"/>`

// allowedElements is the element whitelist.
var allowedElements = map[string]bool{
	"svg":      true,
	"g":        true,
	"path":     true,
	"rect":     true,
	"circle":   true,
	"ellipse":  true,
	"line":     true,
	"polyline": true,
	"polygon":  true,
}

// allowedAttrs is the attribute whitelist. Geometry attributes plus a small
// set of presentation attributes.
var allowedAttrs = map[string]bool{
	"viewBox":           true,
	"width":             true,
	"height":            true,
	"x":                 true,
	"y":                 true,
	"d":                 true,
	"cx":                true,
	"cy":                true,
	"r":                 true,
	"rx":                true,
	"ry":                true,
	"x1":                true,
	"y1":                true,
	"x2":                true,
	"y2":                true,
	"points":            true,
	"transform":         true,
	"fill":              true,
	"fill-rule":         true,
	"fill-opacity":      true,
	"clip-rule":         true,
	"stroke":            true,
	"stroke-width":      true,
	"stroke-linejoin":   true,
	"stroke-linecap":    true,
	"stroke-miterlimit": true,
	"stroke-opacity":    true,
	"opacity":           true,
}

// unsafeValueMarkers are lowercase substrings that disqualify an attribute
// value once whitespace has been removed.
var unsafeValueMarkers = []string{
	"javascript:",
	"vbscript:",
	"data:",
	"url(",
	"expression(",
}

// Sanitize validates markup and returns its whitelisted form.
// On failure it returns Placeholder together with the error.
func Sanitize(markup string) (string, error) {
	f, err := Parse(markup)
	if err != nil {
		return Placeholder, err
	}
	return f.Markup(), nil
}

// Parse validates markup and builds the whitelisted element tree.
func Parse(markup string) (*Fragment, error) {
	if err := Validate(markup); err != nil {
		return nil, err
	}

	f := &Fragment{}
	l := xml.NewLexer(parse.NewInputString(markup))

	var (
		stack   []*Element
		cur     *Element // element whose start tag is being read
		dropped bool     // start tag being read belongs to a removed element
		skip    int      // depth inside a removed element
	)

	attach := func(e *Element) {
		if len(stack) == 0 {
			if f.Root == nil {
				f.Root = e
			}
			return
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, e)
	}

	for {
		tt, _ := l.Next()
		switch tt {
		case xml.ErrorToken:
			if err := l.Err(); err != nil && err != io.EOF {
				return nil, fmt.Errorf("svgsafe: tokenize: %w", err)
			}
			if f.Root == nil || f.Root.Name != "svg" {
				return nil, ErrRootNotGraphic
			}
			return f, nil

		case xml.StartTagToken:
			name := string(l.Text())
			cur, dropped = nil, false
			switch {
			case skip > 0:
				dropped = true
			case !allowedElements[name]:
				dropped = true
				f.reject(name, "", "element not allowed")
			default:
				cur = &Element{Name: name}
			}

		case xml.StartTagPIToken:
			cur, dropped = nil, true

		case xml.AttributeToken:
			if dropped || cur == nil {
				continue
			}
			name := string(l.Text())
			if name == "xmlns" || strings.HasPrefix(name, "xmlns:") {
				continue // the namespace is re-emitted on output
			}
			value := attrValue(l.AttrVal())
			if reason := checkAttr(name, value); reason != "" {
				f.reject(cur.Name, name, reason)
				continue
			}
			cur.Attrs = append(cur.Attrs, Attr{Name: name, Value: value})

		case xml.StartTagCloseToken:
			if dropped {
				skip++
			} else if cur != nil {
				attach(cur)
				stack = append(stack, cur)
			}
			cur, dropped = nil, false

		case xml.StartTagCloseVoidToken:
			if !dropped && cur != nil {
				attach(cur)
			}
			cur, dropped = nil, false

		case xml.StartTagClosePIToken:
			cur, dropped = nil, false

		case xml.EndTagToken:
			if skip > 0 {
				skip--
				continue
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
		// Text, comments, CDATA and doctype are dropped.
	}
}

// checkAttr returns a non-empty reason when the attribute must be removed.
func checkAttr(name, value string) string {
	if len(name) > 2 && strings.EqualFold(name[:2], "on") {
		return "event handler"
	}
	if !allowedAttrs[name] {
		return "attribute not allowed"
	}
	compact := strings.ToLower(strings.Join(strings.Fields(value), ""))
	for _, marker := range unsafeValueMarkers {
		if strings.Contains(compact, marker) {
			return "unsafe value"
		}
	}
	return ""
}

// attrValue strips the quotes the lexer keeps and decodes entities, so
// checks run against the value a renderer would see.
func attrValue(raw []byte) string {
	v := string(raw)
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	return html.UnescapeString(v)
}
