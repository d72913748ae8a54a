package style

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresets []byte

// ErrUnknownPreset is returned when a preset id is not found.
var ErrUnknownPreset = errors.New("style: unknown preset")

// Preset is a named patch.
type Preset struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Options Patch  `yaml:"options"`
}

// Apply applies the preset to o and records its id.
func (p Preset) Apply(o Options) (Options, error) {
	out, err := p.Options.Apply(o)
	out.PresetID = p.ID
	return out, err
}

// Presets is an ordered preset list.
type Presets []Preset

// Find returns the preset with the given id.
func (ps Presets) Find(id string) (Preset, error) {
	for _, p := range ps {
		if p.ID == id {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w %q", ErrUnknownPreset, id)
}

// DefaultPresets returns the bundled presets.
func DefaultPresets() Presets {
	ps, err := LoadPresets(bytes.NewReader(defaultPresets))
	if err != nil {
		panic("style: bundled presets.yaml: " + err.Error())
	}
	return ps
}

// LoadPresets decodes a YAML preset list. Preset ids must be unique and
// non-empty, and every color must be valid.
func LoadPresets(r io.Reader) (Presets, error) {
	var ps Presets
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ps); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("style: decode presets: %w", err)
	}

	seen := make(map[string]bool, len(ps))
	for _, p := range ps {
		if p.ID == "" {
			return nil, errors.New("style: preset without id")
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("style: duplicate preset %q", p.ID)
		}
		seen[p.ID] = true
		if _, err := p.Options.Apply(Default()); err != nil {
			return nil, fmt.Errorf("style: preset %q: %w", p.ID, err)
		}
	}
	return ps, nil
}
