// Command graffiti renders text as layered graffiti SVG.
//
// Usage:
//
//	graffiti render "HELLO" --preset chrome --out hello.svg
//	graffiti render "HELLO" --shadow --shadow-x 20 --format yaml
//	graffiti inspect "HELLO" --mode analytical
//	graffiti presets
//
// Glyphs come from a directory of SVG files (--glyphs) or, by default,
// from the outlines of the bundled Go Bold font.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		pterm.Error.Println(err)
		stop()
		os.Exit(1)
	}
}
