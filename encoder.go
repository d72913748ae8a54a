package graffiti

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Encoder writes a scene in some output format.
type Encoder interface {
	Encode(w io.Writer, s *Scene) error
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(w io.Writer, s *Scene) error

// Encode calls f.
func (f EncoderFunc) Encode(w io.Writer, s *Scene) error { return f(w, s) }

// Registry state, protected by encodersMu.
var (
	encodersMu sync.RWMutex
	encoders   = make(map[string]Encoder)
)

func init() {
	RegisterEncoder("svg", EncoderFunc(func(w io.Writer, s *Scene) error { return s.WriteSVG(w) }))
	RegisterEncoder("yaml", EncoderFunc(encodeManifest))
}

// RegisterEncoder makes an encoder available by name, following the
// database/sql driver pattern:
//
//	func init() {
//	    graffiti.RegisterEncoder("png", pngEncoder{})
//	}
//
// RegisterEncoder panics if e is nil or name is already registered.
func RegisterEncoder(name string, e Encoder) {
	encodersMu.Lock()
	defer encodersMu.Unlock()

	if e == nil {
		panic("graffiti: RegisterEncoder encoder is nil")
	}
	if _, dup := encoders[name]; dup {
		panic("graffiti: RegisterEncoder called twice for " + name)
	}
	encoders[name] = e
}

// UnregisterEncoder removes an encoder. It is mainly useful in tests.
func UnregisterEncoder(name string) {
	encodersMu.Lock()
	defer encodersMu.Unlock()
	delete(encoders, name)
}

// LookupEncoder returns the encoder registered under name.
func LookupEncoder(name string) (Encoder, error) {
	encodersMu.RLock()
	e, ok := encoders[name]
	encodersMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("graffiti: unknown encoder %q (forgotten import?)", name)
	}
	return e, nil
}

// Encoders returns the registered encoder names, sorted.
func Encoders() []string {
	encodersMu.RLock()
	defer encodersMu.RUnlock()

	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// manifest is the YAML view of a scene: what a render surface needs to
// place the layers itself.
type manifest struct {
	Text           string          `yaml:"text"`
	ContentWidth   float64         `yaml:"contentWidth"`
	ContentHeight  float64         `yaml:"contentHeight"`
	ContainerScale float64         `yaml:"containerScale"`
	FitScale       float64         `yaml:"fitScale"`
	Bounds         [4]float64      `yaml:"bounds,flow"`
	Glyphs         []manifestGlyph `yaml:"glyphs"`
	Layers         []manifestLayer `yaml:"layers"`
}

type manifestGlyph struct {
	Letter   string  `yaml:"letter"`
	X        float64 `yaml:"x"`
	Overlap  float64 `yaml:"overlap"`
	Rotation float64 `yaml:"rotation,omitempty"`
	Space    bool    `yaml:"space,omitempty"`
}

type manifestLayer struct {
	Kind      string `yaml:"kind"`
	Z         int    `yaml:"z"`
	Glyph     int    `yaml:"glyph"`
	Transform string `yaml:"transform"`
	Markup    string `yaml:"markup"`
}

func encodeManifest(w io.Writer, s *Scene) error {
	m := manifest{
		Text:           s.Text,
		ContentWidth:   s.Layout.ContentWidth,
		ContentHeight:  s.Layout.ContentHeight,
		ContainerScale: s.Layout.ContainerScale,
		FitScale:       s.FitScale,
		Bounds:         [4]float64{s.Bounds.LLx, s.Bounds.LLy, s.Bounds.URx, s.Bounds.URy},
	}
	for i, g := range s.Glyphs {
		m.Glyphs = append(m.Glyphs, manifestGlyph{
			Letter:   string(g.Letter),
			X:        s.Layout.Positions[i],
			Overlap:  s.Layout.Overlaps[i],
			Rotation: g.Rotation,
			Space:    g.IsSpace,
		})
	}
	for _, l := range s.Layers {
		m.Layers = append(m.Layers, manifestLayer{
			Kind:      l.Kind.String(),
			Z:         l.Z,
			Glyph:     l.Glyph,
			Transform: l.Transform.String(),
			Markup:    l.Markup,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("graffiti: encode manifest: %w", err)
	}
	return enc.Close()
}
