package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/graffiti"
	"github.com/gogpu/graffiti/glyph"
	"github.com/gogpu/graffiti/overlap"
	"github.com/gogpu/graffiti/style"
)

// globalFlags are shared by all subcommands.
type globalFlags struct {
	logLevel  string
	rules     string
	presets   string
	glyphs    string
	fontSize  float64
	mode      string
	viewportW float64
	viewportH float64
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "graffiti",
		Short:         "Lay out and composite graffiti lettering",
		Version:       graffiti.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.setupLogger(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&g.rules, "rules", "", "overlap rule tables (TOML); bundled rules by default")
	pf.StringVar(&g.presets, "presets", "", "preset list (YAML); bundled presets by default")
	pf.StringVar(&g.glyphs, "glyphs", "", "directory of <letter>.svg glyph files; font outlines by default")
	pf.Float64Var(&g.fontSize, "font-size", 200, "em size of font outline glyphs")
	pf.StringVar(&g.mode, "mode", overlap.ModeLookup.String(), "overlap mode (lookup, analytical)")
	pf.Float64Var(&g.viewportW, "width", graffiti.DefaultViewportWidth, "viewport width")
	pf.Float64Var(&g.viewportH, "height", graffiti.DefaultViewportHeight, "viewport height")

	root.AddCommand(
		newRenderCmd(g),
		newInspectCmd(g),
		newPresetsCmd(g),
	)
	return root
}

func (g *globalFlags) setupLogger(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	graffiti.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return nil
}

// source returns the configured glyph source.
func (g *globalFlags) source() (glyph.Source, error) {
	if g.glyphs != "" {
		return loadGlyphDir(g.glyphs)
	}
	return glyph.DefaultFontSource(g.fontSize)
}

// tables returns the configured rule tables.
func (g *globalFlags) tables() (*overlap.Tables, error) {
	if g.rules == "" {
		return overlap.DefaultTables(), nil
	}
	f, err := os.Open(g.rules)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := overlap.LoadTables(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.rules, err)
	}
	return t, nil
}

// presetList returns the configured presets.
func (g *globalFlags) presetList() (style.Presets, error) {
	if g.presets == "" {
		return style.DefaultPresets(), nil
	}
	f, err := os.Open(g.presets)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ps, err := style.LoadPresets(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.presets, err)
	}
	return ps, nil
}

// renderer builds a renderer from the current flags and files. It is
// called again after watched files change.
func (g *globalFlags) renderer() (*graffiti.Renderer, error) {
	mode, err := overlap.ParseMode(g.mode)
	if err != nil {
		return nil, err
	}
	src, err := g.source()
	if err != nil {
		return nil, err
	}
	tables, err := g.tables()
	if err != nil {
		return nil, err
	}
	return graffiti.New(src,
		graffiti.WithMode(mode),
		graffiti.WithTables(tables),
		graffiti.WithViewport(g.viewportW, g.viewportH),
	)
}

// watched returns the files whose changes trigger a re-render.
func (g *globalFlags) watched() []string {
	var paths []string
	for _, p := range []string{g.rules, g.presets, g.glyphs} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
