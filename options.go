package graffiti

import (
	"github.com/gogpu/graffiti/overlap"
)

// Renderer defaults.
const (
	DefaultViewportWidth    = 1200
	DefaultViewportHeight   = 400
	DefaultMemoSize         = 64
	DefaultGlyphCacheSize   = 256
	DefaultFetchConcurrency = 8

	// DefaultTolerance is how far two layouts' positions may differ while
	// still reusing a memoized composite.
	DefaultTolerance = 0.1
)

// Option configures a Renderer.
//
// Example:
//
//	r, err := graffiti.New(src,
//	    graffiti.WithMode(overlap.ModeAnalytical),
//	    graffiti.WithViewport(800, 300),
//	)
type Option func(*config)

// config holds the renderer configuration.
type config struct {
	mode     overlap.Mode
	strategy overlap.Strategy
	tables   *overlap.Tables

	viewportW, viewportH float64
	targetWidth          float64
	spaceWidth           float64

	reporter Reporter

	memoSize       int
	glyphCacheSize int
	concurrency    int
	tolerance      float64
	columns        int
}

func defaultConfig() config {
	return config{
		mode:           overlap.ModeLookup,
		viewportW:      DefaultViewportWidth,
		viewportH:      DefaultViewportHeight,
		reporter:       logReporter{},
		memoSize:       DefaultMemoSize,
		glyphCacheSize: DefaultGlyphCacheSize,
		concurrency:    DefaultFetchConcurrency,
		tolerance:      DefaultTolerance,
	}
}

// WithMode selects the overlap resolution mode. It is ignored when
// WithStrategy is also given.
func WithMode(m overlap.Mode) Option {
	return func(c *config) {
		c.mode = m
	}
}

// WithStrategy injects an overlap strategy, for example one wrapping
// precomputed pairs or a test double.
func WithStrategy(s overlap.Strategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}

// WithTables sets the rule tables used for overlaps and rotations.
// The default is overlap.DefaultTables().
func WithTables(t *overlap.Tables) Option {
	return func(c *config) {
		c.tables = t
	}
}

// WithViewport sets the size of the surface the composite is fitted into.
// Non-positive values keep the default.
func WithViewport(w, h float64) Option {
	return func(c *config) {
		if w > 0 {
			c.viewportW = w
		}
		if h > 0 {
			c.viewportH = h
		}
	}
}

// WithTargetWidth sets the content width above which the layout
// container scale drops below 1.
func WithTargetWidth(w float64) Option {
	return func(c *config) {
		c.targetWidth = w
	}
}

// WithSpaceWidth fixes the width reserved for a space. By default it is
// derived from the letters of each string.
func WithSpaceWidth(w float64) Option {
	return func(c *config) {
		c.spaceWidth = w
	}
}

// WithReporter sets where degraded glyph failures go. nil restores the
// default, which logs at warn level through Logger.
func WithReporter(r Reporter) Option {
	return func(c *config) {
		if r == nil {
			r = logReporter{}
		}
		c.reporter = r
	}
}

// WithMemoSize bounds the number of memoized composites. 0 disables
// memoization.
func WithMemoSize(n int) Option {
	return func(c *config) {
		c.memoSize = max(n, 0)
	}
}

// WithFetchConcurrency bounds the number of concurrent glyph fetches.
func WithFetchConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithTolerance sets the position tolerance for memo reuse.
func WithTolerance(tol float64) Option {
	return func(c *config) {
		if tol >= 0 {
			c.tolerance = tol
		}
	}
}

// WithOccupancyColumns sets the number of ink occupancy samples per glyph
// used by analytical overlap resolution.
func WithOccupancyColumns(n int) Option {
	return func(c *config) {
		c.columns = n
	}
}
