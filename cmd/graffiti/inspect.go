package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/gogpu/graffiti"
)

func newInspectCmd(g *globalFlags) *cobra.Command {
	var sf styleFlags
	cmd := &cobra.Command{
		Use:   "inspect TEXT",
		Short: "Show the glyph layout of text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			pterm.DefaultTable.WithHasHeader().WithData(layoutTable(scene)).Render()
			printSummary(cmd.OutOrStdout(), scene)
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}

// layoutTable returns one row per glyph, with a header row.
func layoutTable(s *graffiti.Scene) [][]string {
	data := [][]string{
		{"#", "Letter", "X", "Overlap", "Ink", "Rotation", "Layers"},
	}
	layers := make([]int, len(s.Glyphs))
	for _, l := range s.Layers {
		layers[l.Glyph]++
	}
	for i, gl := range s.Glyphs {
		letter := strconv.QuoteRune(gl.Letter)
		if gl.IsSpace {
			letter = "space"
		}
		data = append(data, []string{
			strconv.Itoa(i),
			letter,
			formatFloat(s.Layout.Positions[i]),
			formatFloat(s.Layout.Overlaps[i]),
			formatFloat(gl.InkWidth()),
			formatFloat(gl.Rotation),
			strconv.Itoa(layers[i]),
		})
	}
	return data
}

func printSummary(w io.Writer, s *graffiti.Scene) {
	fmt.Fprintf(w, "content %sx%s, container scale %s\n",
		formatFloat(s.Layout.ContentWidth), formatFloat(s.Layout.ContentHeight), formatFloat(s.Layout.ContainerScale))
	fmt.Fprintf(w, "bounds %sx%s, fit scale %s, %d layers\n",
		formatFloat(s.Bounds.Dx()), formatFloat(s.Bounds.Dy()), formatFloat(s.FitScale), len(s.Layers))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
