package svgsafe

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Namespace is the SVG namespace written on every serialized root.
const Namespace = "http://www.w3.org/2000/svg"

// Attr is a whitelisted attribute with its decoded value.
type Attr struct {
	Name  string
	Value string
}

// Element is a whitelisted element.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Fragment is sanitized glyph markup: the root <svg> element and the
// constructs removed on the way.
type Fragment struct {
	Root    *Element
	Removed []*RejectedError
}

func (f *Fragment) reject(element, attr, reason string) {
	f.Removed = append(f.Removed, &RejectedError{Element: element, Attr: attr, Reason: reason})
}

// Paint controls whether presentation attributes survive serialization.
type Paint uint8

const (
	// KeepPaint keeps the glyph's own fill and stroke attributes.
	KeepPaint Paint = iota

	// StripPaint removes fill, stroke and opacity attributes so that an
	// enclosing group decides the paint.
	StripPaint
)

// paintAttrs are removed by StripPaint.
var paintAttrs = map[string]bool{
	"fill":              true,
	"fill-opacity":      true,
	"stroke":            true,
	"stroke-width":      true,
	"stroke-linejoin":   true,
	"stroke-linecap":    true,
	"stroke-miterlimit": true,
	"stroke-opacity":    true,
	"opacity":           true,
}

// Markup serializes the fragment as a standalone <svg> document.
func (f *Fragment) Markup() string {
	if f == nil || f.Root == nil {
		return Placeholder
	}
	var b strings.Builder
	b.WriteString(`<svg xmlns="` + Namespace + `"`)
	writeAttrs(&b, f.Root.Attrs, KeepPaint)
	if len(f.Root.Children) == 0 {
		b.WriteString("/>")
		return b.String()
	}
	b.WriteByte('>')
	for _, c := range f.Root.Children {
		writeElement(&b, c, KeepPaint)
	}
	b.WriteString("</svg>")
	return b.String()
}

// Body serializes the children of the root element.
func (f *Fragment) Body(p Paint) string {
	if f == nil || f.Root == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range f.Root.Children {
		writeElement(&b, c, p)
	}
	return b.String()
}

// ViewBox returns the root viewBox as min-x, min-y, width, height.
func (f *Fragment) ViewBox() (x, y, w, h float64, ok bool) {
	if f == nil || f.Root == nil {
		return 0, 0, 0, 0, false
	}
	v, found := f.Root.Attr("viewBox")
	if !found {
		return 0, 0, 0, 0, false
	}
	fields := strings.FieldsFunc(v, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' || r == '\n' })
	if len(fields) != 4 {
		return 0, 0, 0, 0, false
	}
	var vals [4]float64
	for i, s := range fields {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, 0, 0, 0, false
		}
		vals[i] = n
	}
	return vals[0], vals[1], vals[2], vals[3], true
}

func writeElement(b *strings.Builder, e *Element, p Paint) {
	b.WriteByte('<')
	b.WriteString(e.Name)
	writeAttrs(b, e.Attrs, p)
	if len(e.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range e.Children {
		writeElement(b, c, p)
	}
	b.WriteString("</")
	b.WriteString(e.Name)
	b.WriteByte('>')
}

func writeAttrs(b *strings.Builder, attrs []Attr, p Paint) {
	for _, a := range attrs {
		if p == StripPaint && paintAttrs[a.Name] {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		_ = xml.EscapeText(b, []byte(a.Value)) // strings.Builder never fails
		b.WriteByte('"')
	}
}
