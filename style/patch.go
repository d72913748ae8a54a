package style

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
)

// Patch is a partial update of Options. Nil fields are left unchanged.
type Patch struct {
	BackgroundEnabled *bool   `yaml:"backgroundEnabled,omitempty"`
	BackgroundColor   *string `yaml:"backgroundColor,omitempty"`

	FillEnabled *bool   `yaml:"fillEnabled,omitempty"`
	FillColor   *string `yaml:"fillColor,omitempty"`

	StampEnabled *bool    `yaml:"stampEnabled,omitempty"`
	StampColor   *string  `yaml:"stampColor,omitempty"`
	StampWidth   *float64 `yaml:"stampWidth,omitempty"`

	ShieldEnabled *bool    `yaml:"shieldEnabled,omitempty"`
	ShieldColor   *string  `yaml:"shieldColor,omitempty"`
	ShieldWidth   *float64 `yaml:"shieldWidth,omitempty"`

	ShadowEnabled *bool    `yaml:"shadowEnabled,omitempty"`
	ShadowOffsetX *float64 `yaml:"shadowOffsetX,omitempty"`
	ShadowOffsetY *float64 `yaml:"shadowOffsetY,omitempty"`

	ShineEnabled *bool    `yaml:"shineEnabled,omitempty"`
	ShineColor   *string  `yaml:"shineColor,omitempty"`
	ShineOpacity *float64 `yaml:"shineOpacity,omitempty"`

	StrokeEnabled *bool    `yaml:"strokeEnabled,omitempty"`
	StrokeColor   *string  `yaml:"strokeColor,omitempty"`
	StrokeWidth   *float64 `yaml:"strokeWidth,omitempty"`
}

// Apply merges p into o. Numeric values are clamped to their ranges.
// An invalid color leaves the previous color in place; all color errors
// are joined into the returned error while the rest of the patch still
// applies.
func (p Patch) Apply(o Options) (Options, error) {
	// Flags and numbers are copied field by field; nil fields are empty
	// and skipped. Colors go through NormalizeColor below.
	plain := p
	plain.BackgroundColor, plain.FillColor, plain.StampColor = nil, nil, nil
	plain.ShieldColor, plain.ShineColor, plain.StrokeColor = nil, nil, nil
	if err := copier.CopyWithOption(&o, &plain, copier.Option{IgnoreEmpty: true}); err != nil {
		return o, fmt.Errorf("style: merge patch: %w", err)
	}

	var errs []error
	color := func(dst *string, src *string, name string) {
		if src == nil {
			return
		}
		c, err := NormalizeColor(*src)
		if err != nil {
			errs = append(errs, fmt.Errorf("style: %s: %w", name, err))
			return
		}
		*dst = c
	}
	color(&o.BackgroundColor, p.BackgroundColor, "background color")
	color(&o.FillColor, p.FillColor, "fill color")
	color(&o.StampColor, p.StampColor, "stamp color")
	color(&o.ShieldColor, p.ShieldColor, "shield color")
	color(&o.ShineColor, p.ShineColor, "shine color")
	color(&o.StrokeColor, p.StrokeColor, "stroke color")

	return o.Clamp(), errors.Join(errs...)
}

// IsEmpty reports whether p changes nothing.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Ptr returns a pointer to v, for building patches inline:
//
//	style.Patch{StampWidth: style.Ptr(80.0)}
func Ptr[T any](v T) *T {
	return &v
}
