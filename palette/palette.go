// Package palette resolves color modes for the wave renderer and crossfades
// between them.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"maps"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/wavecanvas/config"
)

// Palette is one color mode: the light colors plus an optional clear color.
type Palette struct {
	Colors   []color.RGBA
	Fallback *color.RGBA
}

// Set holds the configured modes.
type Set struct {
	modes map[string]Palette
	names []string
}

// FromConfig parses every mode in cfg. All malformed colors are reported.
func FromConfig(cfg config.PaletteConfig) (*Set, error) {
	s := &Set{modes: make(map[string]Palette, len(cfg.Modes))}
	var errs []error

	for _, name := range slices.Sorted(maps.Keys(cfg.Modes)) {
		var p Palette
		for i, hex := range cfg.Modes[name] {
			c, err := ParseHex(hex)
			if err != nil {
				errs = append(errs, fmt.Errorf("palette %s color %d: %w", name, i, err))
				continue
			}
			p.Colors = append(p.Colors, c)
		}
		if hex, ok := cfg.Fallback[name]; ok && hex != "" {
			c, err := ParseHex(hex)
			if err != nil {
				errs = append(errs, fmt.Errorf("palette %s fallback: %w", name, err))
			} else {
				p.Fallback = &c
			}
		}
		s.modes[name] = p
		s.names = append(s.names, name)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseHex parses a #rrggbb color.
func ParseHex(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, err
	}
	return toRGBA(c), nil
}

// Get returns the named mode.
func (s *Set) Get(name string) (Palette, bool) {
	p, ok := s.modes[name]
	return p, ok
}

// Names returns the mode names in sorted order.
func (s *Set) Names() []string {
	return slices.Clone(s.names)
}

// Next returns the mode after name, wrapping around.
func (s *Set) Next(name string) string {
	if len(s.names) == 0 {
		return name
	}
	i := slices.Index(s.names, name)
	return s.names[(i+1)%len(s.names)]
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func fromRGBA(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
