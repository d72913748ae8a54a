// Package graffiti renders short text as a layered graffiti composite.
//
// # Overview
//
// Each character of the input is mapped to a glyph outline supplied by a
// glyph.Source. Glyphs are packed left to right with a per-pair overlap,
// the composite is scaled to fit a viewport, and optional effect layers
// (shield halo, drop shadow, stamp outline, fill, shine) are stacked in a
// fixed order.
//
// # Quick Start
//
//	src, _ := glyph.DefaultFontSource(200)
//	r, _ := graffiti.New(src, graffiti.WithViewport(1200, 400))
//
//	opts := style.Default()
//	opts.ShadowEnabled = true
//
//	scene, err := r.Render(ctx, "WILD", opts)
//	if err != nil {
//	    return err
//	}
//	scene.WriteSVG(os.Stdout)
//
// # Pipeline
//
// A render pass runs:
//
//  1. text normalization (NFC) and positional context per letter
//  2. concurrent glyph fetch and processing (glyph package)
//  3. rotation nudges and overlap resolution (overlap package)
//  4. positions and boxes (layout package)
//  5. layer composition (compose package), memoized across passes
//
// Failures that concern one glyph never fail the pass: the glyph is
// replaced by a placeholder and the error goes to the Reporter. Render
// only returns an error when the context is done.
//
// # Editing
//
// Interactive edits of the style options go through history.Manager,
// which records discrete edits and whole drag gestures as undo steps.
//
// # Coordinate System
//
// Glyph and composite coordinates put the origin at the top left with Y
// growing downwards, matching SVG.
package graffiti

// Version is the current version of the library.
const Version = "0.1.0"
