package graffiti

import (
	"context"
	"fmt"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/graffiti/compose"
	"github.com/gogpu/graffiti/glyph"
	"github.com/gogpu/graffiti/internal/cache"
	"github.com/gogpu/graffiti/layout"
	"github.com/gogpu/graffiti/overlap"
	"github.com/gogpu/graffiti/style"
)

// Renderer runs the render pipeline for one glyph source.
//
// A Renderer is safe for concurrent use. Rule tables and the overlap
// strategy are read-only after New; the glyph cache and the composite memo
// are synchronized.
type Renderer struct {
	cfg       config
	src       glyph.Source
	tables    *overlap.Tables
	strategy  overlap.Strategy
	processor glyph.Processor
	calc      layout.Calculator

	glyphs *cache.Cache[glyphKey, glyph.Glyph]
	memo   *cache.Cache[memoKey, memoEntry]
}

// glyphKey identifies processed glyphs by their source markup.
type glyphKey struct {
	letter rune
	markup string
}

// memoKey holds everything except positions that determines a composite.
type memoKey struct {
	letters string
	count   int
	options style.Options
}

type memoEntry struct {
	positions []float64
	layers    []compose.Layer
}

// New creates a renderer for src.
func New(src glyph.Source, opts ...Option) (*Renderer, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	tables := cfg.tables
	if tables == nil {
		tables = overlap.DefaultTables()
	}
	strategy := cfg.strategy
	if strategy == nil {
		s, err := overlap.New(cfg.mode, tables)
		if err != nil {
			return nil, fmt.Errorf("graffiti: %w", err)
		}
		strategy = s
	}

	r := &Renderer{
		cfg:       cfg,
		src:       src,
		tables:    tables,
		strategy:  strategy,
		processor: glyph.Processor{Columns: cfg.columns},
		calc:      layout.Calculator{TargetWidth: cfg.targetWidth},
		glyphs:    cache.New[glyphKey, glyph.Glyph](cfg.glyphCacheSize),
	}
	if cfg.memoSize > 0 {
		r.memo = cache.New[memoKey, memoEntry](cfg.memoSize)
	}
	return r, nil
}

// Tables returns the rule tables in use.
func (r *Renderer) Tables() *overlap.Tables { return r.tables }

// Strategy returns the overlap strategy in use.
func (r *Renderer) Strategy() overlap.Strategy { return r.strategy }

// Render lays out and composites text with the given options.
//
// Glyphs that cannot be fetched, processed or composed are replaced by
// placeholders and reported. The only error Render returns is the
// context's, when it is canceled during the glyph fetch.
func (r *Renderer) Render(ctx context.Context, text string, o style.Options) (*Scene, error) {
	text = norm.NFC.String(text)
	runes := []rune(text)
	o = o.Clamp()

	glyphs, err := r.Glyphs(ctx, runes)
	if err != nil {
		return nil, err
	}
	res := r.calc.Layout(glyphs, r.strategy.Overlap)
	layers := r.compose(ctx, runes, glyphs, res.Positions, o)

	return newScene(text, glyphs, res, layers, o, r.cfg.viewportW, r.cfg.viewportH), nil
}

// Glyphs fetches and processes the glyphs for text, fills in spaces and
// applies rotation nudges. Failed letters become placeholders.
func (r *Renderer) Glyphs(ctx context.Context, text []rune) ([]glyph.Glyph, error) {
	if len(text) == 0 {
		return nil, nil
	}
	positions := glyph.Positions(text)
	out := make([]glyph.Glyph, len(text))
	ok := make([]bool, len(text))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.concurrency)
	for i, letter := range text {
		if glyph.IsSpaceRune(letter) {
			continue
		}
		g.Go(func() error {
			markup, err := r.src.FetchGlyph(gctx, letter, positions[i])
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				r.cfg.reporter.Report(ctx, &glyph.FetchError{Letter: letter, Index: i, Err: err})
				return nil
			}
			gl, err := r.process(ctx, i, letter, markup)
			if err != nil {
				r.cfg.reporter.Report(ctx, &glyph.FetchError{Letter: letter, Index: i, Err: err})
				return nil
			}
			out[i], ok[i] = gl, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("graffiti: fetch glyphs: %w", err)
	}

	space := r.cfg.spaceWidth
	if space <= 0 {
		present := make([]glyph.Glyph, 0, len(out))
		for i, gl := range out {
			if ok[i] {
				present = append(present, gl)
			}
		}
		space = layout.SpaceWidth(present)
	}
	for i, letter := range text {
		switch {
		case glyph.IsSpaceRune(letter):
			out[i] = glyph.Space(space)
		case !ok[i]:
			out[i] = glyph.Placeholder(letter, space)
		}
	}

	for i := 1; i < len(out); i++ {
		prev, curr := out[i-1], out[i]
		if prev.IsSpace || curr.IsSpace {
			continue
		}
		if deg := r.tables.Rotation(prev.Letter, curr.Letter); deg != 0 {
			out[i] = curr.WithRotation(deg)
		}
	}
	return out, nil
}

// process returns the processed glyph for markup, from the cache when
// possible. Constructs the sanitizer stripped are reported once, when the
// markup is first processed.
func (r *Renderer) process(ctx context.Context, i int, letter rune, markup string) (glyph.Glyph, error) {
	key := glyphKey{letter: letter, markup: markup}
	if g, ok := r.glyphs.Get(key); ok {
		return g, nil
	}
	g, err := r.processor.Process(letter, markup)
	if err != nil {
		return glyph.Glyph{}, err
	}
	Logger().Debug("graffiti: glyph processed", letterAttr(letter), "columns", len(g.Occupancy))
	for _, rej := range g.Removed {
		r.cfg.reporter.Report(ctx, &glyph.FetchError{Letter: letter, Index: i, Err: rej})
	}
	r.glyphs.Set(key, g)
	return g, nil
}

// compose returns the layers for a layout, reusing a memoized composite
// when letters and visual options match and positions agree within the
// tolerance.
func (r *Renderer) compose(ctx context.Context, runes []rune, glyphs []glyph.Glyph, positions []float64, o style.Options) []compose.Layer {
	c := compose.Compositor{Report: func(err error) { r.cfg.reporter.Report(ctx, err) }}
	if r.memo == nil {
		return c.Compose(glyphs, positions, o)
	}

	key := memoKey{letters: string(runes), count: len(runes), options: o.Visual()}
	if e, ok := r.memo.Get(key); ok && positionsClose(e.positions, positions, r.cfg.tolerance) {
		Logger().Debug("graffiti: memo hit", "letters", key.letters)
		return slices.Clone(e.layers)
	}
	Logger().Debug("graffiti: memo miss", "letters", key.letters)

	layers := c.Compose(glyphs, positions, o)
	r.memo.Set(key, memoEntry{
		positions: slices.Clone(positions),
		layers:    slices.Clone(layers),
	})
	return layers
}

// MemoStats reports composite memo activity.
type MemoStats struct {
	Len          int
	Hits, Misses uint64
}

// MemoStats returns the composite memo counters.
func (r *Renderer) MemoStats() MemoStats {
	if r.memo == nil {
		return MemoStats{}
	}
	s := r.memo.Stats()
	return MemoStats{Len: s.Len, Hits: s.Hits, Misses: s.Misses}
}

func positionsClose(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
