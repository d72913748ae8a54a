// Package svgsafe validates and whitelists glyph markup before it reaches a
// render surface.
//
// Glyph markup comes from an external source and is treated as untrusted.
// Every glyph goes through two steps:
//
//   - Validate: the markup must be well-formed XML with exactly one root
//     <svg> element.
//   - Sanitize: elements and attributes outside a fixed whitelist are
//     dropped, together with script-bearing constructs, inline event
//     handlers and any value that references an external resource.
//
// # Example usage
//
//	frag, err := svgsafe.Parse(raw)
//	if err != nil {
//	    // use svgsafe.Placeholder and report err
//	}
//	body := frag.Body(svgsafe.StripPaint) // children without fill/stroke
//
// Whitelisted elements are svg, g, path, rect, circle, ellipse, line,
// polyline and polygon. Text content, comments, CDATA sections, processing
// instructions and doctype declarations never survive sanitizing.
package svgsafe
