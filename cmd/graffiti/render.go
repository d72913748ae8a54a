package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/gogpu/graffiti"
	"github.com/gogpu/graffiti/history"
	"github.com/gogpu/graffiti/style"
)

// styleFlags binds the customization options to command line flags.
// Only flags given on the command line end up in the patch.
type styleFlags struct {
	preset string
	o      style.Options
}

func (s *styleFlags) register(cmd *cobra.Command) {
	s.o = style.Default()
	f := cmd.Flags()
	f.StringVar(&s.preset, "preset", "", "start from a preset (see 'graffiti presets')")

	f.BoolVar(&s.o.BackgroundEnabled, "background", s.o.BackgroundEnabled, "paint a background")
	f.StringVar(&s.o.BackgroundColor, "background-color", s.o.BackgroundColor, "background color")
	f.BoolVar(&s.o.FillEnabled, "fill", s.o.FillEnabled, "fill the letters")
	f.StringVar(&s.o.FillColor, "fill-color", s.o.FillColor, "fill color")
	f.BoolVar(&s.o.StampEnabled, "stamp", s.o.StampEnabled, "draw the stamp outline")
	f.StringVar(&s.o.StampColor, "stamp-color", s.o.StampColor, "stamp color")
	f.Float64Var(&s.o.StampWidth, "stamp-width", s.o.StampWidth, "stamp width")
	f.BoolVar(&s.o.ShieldEnabled, "shield", s.o.ShieldEnabled, "draw the shield outline")
	f.StringVar(&s.o.ShieldColor, "shield-color", s.o.ShieldColor, "shield color")
	f.Float64Var(&s.o.ShieldWidth, "shield-width", s.o.ShieldWidth, "shield width beyond the stamp")
	f.BoolVar(&s.o.ShadowEnabled, "shadow", s.o.ShadowEnabled, "draw a drop shadow")
	f.Float64Var(&s.o.ShadowOffsetX, "shadow-x", s.o.ShadowOffsetX, "shadow offset x")
	f.Float64Var(&s.o.ShadowOffsetY, "shadow-y", s.o.ShadowOffsetY, "shadow offset y")
	f.BoolVar(&s.o.ShineEnabled, "shine", s.o.ShineEnabled, "add a shine gradient to the fill")
	f.StringVar(&s.o.ShineColor, "shine-color", s.o.ShineColor, "shine color")
	f.Float64Var(&s.o.ShineOpacity, "shine-opacity", s.o.ShineOpacity, "shine strength in [0,1]")
	f.BoolVar(&s.o.StrokeEnabled, "stroke", s.o.StrokeEnabled, "draw a thin letter stroke")
	f.StringVar(&s.o.StrokeColor, "stroke-color", s.o.StrokeColor, "stroke color")
	f.Float64Var(&s.o.StrokeWidth, "stroke-width", s.o.StrokeWidth, "stroke width")
}

func (s *styleFlags) patch(cmd *cobra.Command) style.Patch {
	changed := cmd.Flags().Changed
	var p style.Patch
	if changed("background") {
		p.BackgroundEnabled = style.Ptr(s.o.BackgroundEnabled)
	}
	if changed("background-color") {
		p.BackgroundColor = style.Ptr(s.o.BackgroundColor)
	}
	if changed("fill") {
		p.FillEnabled = style.Ptr(s.o.FillEnabled)
	}
	if changed("fill-color") {
		p.FillColor = style.Ptr(s.o.FillColor)
	}
	if changed("stamp") {
		p.StampEnabled = style.Ptr(s.o.StampEnabled)
	}
	if changed("stamp-color") {
		p.StampColor = style.Ptr(s.o.StampColor)
	}
	if changed("stamp-width") {
		p.StampWidth = style.Ptr(s.o.StampWidth)
	}
	if changed("shield") {
		p.ShieldEnabled = style.Ptr(s.o.ShieldEnabled)
	}
	if changed("shield-color") {
		p.ShieldColor = style.Ptr(s.o.ShieldColor)
	}
	if changed("shield-width") {
		p.ShieldWidth = style.Ptr(s.o.ShieldWidth)
	}
	if changed("shadow") {
		p.ShadowEnabled = style.Ptr(s.o.ShadowEnabled)
	}
	if changed("shadow-x") {
		p.ShadowOffsetX = style.Ptr(s.o.ShadowOffsetX)
	}
	if changed("shadow-y") {
		p.ShadowOffsetY = style.Ptr(s.o.ShadowOffsetY)
	}
	if changed("shine") {
		p.ShineEnabled = style.Ptr(s.o.ShineEnabled)
	}
	if changed("shine-color") {
		p.ShineColor = style.Ptr(s.o.ShineColor)
	}
	if changed("shine-opacity") {
		p.ShineOpacity = style.Ptr(s.o.ShineOpacity)
	}
	if changed("stroke") {
		p.StrokeEnabled = style.Ptr(s.o.StrokeEnabled)
	}
	if changed("stroke-color") {
		p.StrokeColor = style.Ptr(s.o.StrokeColor)
	}
	if changed("stroke-width") {
		p.StrokeWidth = style.Ptr(s.o.StrokeWidth)
	}
	return p
}

// options resolves preset and flags into options the way an editor
// session would: the preset is selected, then the flags are committed as
// one discrete edit.
func (s *styleFlags) options(cmd *cobra.Command, g *globalFlags, text string) (*history.Manager, error) {
	m := history.NewManager(text, style.Default(), history.WithLogger(graffiti.Logger()))
	if s.preset != "" {
		ps, err := g.presetList()
		if err != nil {
			return nil, err
		}
		p, err := ps.Find(s.preset)
		if err != nil {
			return nil, err
		}
		if err := m.SelectPreset(p); err != nil {
			return nil, err
		}
	}
	if p := s.patch(cmd); !p.IsEmpty() {
		if err := m.CommitDiscrete(p); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func newRenderCmd(g *globalFlags) *cobra.Command {
	var (
		sf     styleFlags
		format string
		out    string
		watch  bool
	)
	cmd := &cobra.Command{
		Use:   "render TEXT",
		Short: "Render text to SVG or a YAML layer manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := graffiti.LookupEncoder(format)
			if err != nil {
				return fmt.Errorf("%w (available: %s)", err, strings.Join(graffiti.Encoders(), ", "))
			}
			run := func() error {
				m, err := sf.options(cmd, g, args[0])
				if err != nil {
					return err
				}
				r, err := g.renderer()
				if err != nil {
					return err
				}
				scene, err := r.Render(cmd.Context(), m.Text(), m.Options())
				if err != nil {
					return err
				}
				return writeScene(cmd.OutOrStdout(), out, enc, scene)
			}
			if err := run(); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return watchFiles(cmd.Context(), g.watched(), run)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file; stdout by default")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render when rules, presets or glyphs change")
	return cmd
}

// writeScene encodes scene to path, or to stdout when path is empty. The
// scene is encoded in memory first so a failed encode leaves an existing
// file untouched.
func writeScene(stdout io.Writer, path string, enc graffiti.Encoder, scene *graffiti.Scene) error {
	var buf bytes.Buffer
	if err := enc.Encode(&buf, scene); err != nil {
		return err
	}
	if path == "" {
		_, err := buf.WriteTo(stdout)
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	pterm.Info.Printf("wrote %s (%d layers, fit %.3f)\n", path, len(scene.Layers), scene.FitScale)
	return nil
}
