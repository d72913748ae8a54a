// Package style defines the customization options of a graffiti composite
// and the partial updates applied to them.
//
// Options is a flat value type. It is copied, never shared: the history
// manager owns the current value and hands out copies to renderers.
package style

import (
	"errors"
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Options is the full set of effect parameters.
type Options struct {
	BackgroundEnabled bool   `yaml:"backgroundEnabled"`
	BackgroundColor   string `yaml:"backgroundColor"`

	FillEnabled bool   `yaml:"fillEnabled"`
	FillColor   string `yaml:"fillColor"`

	StampEnabled bool    `yaml:"stampEnabled"`
	StampColor   string  `yaml:"stampColor"`
	StampWidth   float64 `yaml:"stampWidth"`

	ShieldEnabled bool    `yaml:"shieldEnabled"`
	ShieldColor   string  `yaml:"shieldColor"`
	ShieldWidth   float64 `yaml:"shieldWidth"`

	ShadowEnabled bool    `yaml:"shadowEnabled"`
	ShadowOffsetX float64 `yaml:"shadowOffsetX"`
	ShadowOffsetY float64 `yaml:"shadowOffsetY"`

	ShineEnabled bool    `yaml:"shineEnabled"`
	ShineColor   string  `yaml:"shineColor"`
	ShineOpacity float64 `yaml:"shineOpacity"`

	StrokeEnabled bool    `yaml:"strokeEnabled"`
	StrokeColor   string  `yaml:"strokeColor"`
	StrokeWidth   float64 `yaml:"strokeWidth"`

	// PresetID names the preset the options were last set from.
	// Bookkeeping only; it has no visual effect.
	PresetID string `yaml:"presetId,omitempty"`
}

// Range is the valid interval of a numeric parameter.
type Range struct {
	Min, Max float64
}

// Clamp limits v to the range. NaN maps to Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Valid ranges of the numeric parameters.
var (
	StampWidthRange   = Range{0, 200}
	ShieldWidthRange  = Range{0, 200}
	ShadowOffsetRange = Range{-300, 300}
	ShineOpacityRange = Range{0, 1}
	StrokeWidthRange  = Range{0, 50}
)

// Default returns the options of a fresh session.
func Default() Options {
	return Options{
		BackgroundEnabled: false,
		BackgroundColor:   "#ffffff",
		FillEnabled:       true,
		FillColor:         "#ff4fa3",
		StampEnabled:      true,
		StampColor:        "#1a1a1a",
		StampWidth:        24,
		ShieldEnabled:     false,
		ShieldColor:       "#ffffff",
		ShieldWidth:       12,
		ShadowEnabled:     false,
		ShadowOffsetX:     12,
		ShadowOffsetY:     12,
		ShineEnabled:      false,
		ShineColor:        "#ffffff",
		ShineOpacity:      0.6,
		StrokeEnabled:     false,
		StrokeColor:       "#000000",
		StrokeWidth:       2,
	}
}

// Clamp returns o with every numeric parameter limited to its range.
func (o Options) Clamp() Options {
	o.StampWidth = StampWidthRange.Clamp(o.StampWidth)
	o.ShieldWidth = ShieldWidthRange.Clamp(o.ShieldWidth)
	o.ShadowOffsetX = ShadowOffsetRange.Clamp(o.ShadowOffsetX)
	o.ShadowOffsetY = ShadowOffsetRange.Clamp(o.ShadowOffsetY)
	o.ShineOpacity = ShineOpacityRange.Clamp(o.ShineOpacity)
	o.StrokeWidth = StrokeWidthRange.Clamp(o.StrokeWidth)
	return o
}

// Visual returns o without bookkeeping fields. Two options with equal
// Visual values render identically, so the result is usable as a cache key.
func (o Options) Visual() Options {
	o.PresetID = ""
	return o
}

// ErrBadColor is returned for color strings that are not #rgb or #rrggbb.
var ErrBadColor = errors.New("style: invalid color")

// NormalizeColor validates a hex color and returns it as lowercase #rrggbb.
func NormalizeColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return "", fmt.Errorf("%w %q", ErrBadColor, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrBadColor, s)
	}
	return c.Hex(), nil
}
