package main

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/gogpu/graffiti/style"
)

func newPresetsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ps, err := g.presetList()
			if err != nil {
				return err
			}
			pterm.DefaultTable.WithHasHeader().WithData(presetTable(ps)).Render()
			return nil
		},
	}
}

func presetTable(ps style.Presets) [][]string {
	data := [][]string{{"ID", "Name", "Effects"}}
	for _, p := range ps {
		data = append(data, []string{p.ID, p.Name, effects(p.Options)})
	}
	return data
}

// effects lists the effects a patch switches on or off.
func effects(p style.Patch) string {
	var out []string
	add := func(name string, v *bool) {
		switch {
		case v == nil:
		case *v:
			out = append(out, "+"+name)
		default:
			out = append(out, "-"+name)
		}
	}
	add("background", p.BackgroundEnabled)
	add("fill", p.FillEnabled)
	add("stamp", p.StampEnabled)
	add("shield", p.ShieldEnabled)
	add("shadow", p.ShadowEnabled)
	add("shine", p.ShineEnabled)
	add("stroke", p.StrokeEnabled)
	return strings.Join(out, " ")
}
