package palette

import (
	"image/color"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Transition crossfades between two palettes in Lab space. The shorter color
// list is padded with its last color while the fade runs.
type Transition struct {
	from, to []colorful.Color
	fbFrom   colorful.Color
	fbTo     colorful.Color
	target   Palette
	tween    *gween.Tween
	Done     bool
}

// NewTransition starts a fade from one palette to another. A non-positive
// duration finishes on the first Update.
func NewTransition(from, to Palette, duration time.Duration) *Transition {
	n := max(len(from.Colors), len(to.Colors))
	t := &Transition{
		from:   pad(from.Colors, n),
		to:     pad(to.Colors, n),
		fbFrom: fromRGBA(fallback(from)),
		fbTo:   fromRGBA(fallback(to)),
		target: to,
		tween:  gween.New(0, 1, float32(max(duration, 0).Seconds()), ease.InOutQuad),
	}
	return t
}

// Update advances the fade by dt seconds and returns the blended palette.
// Once finished it returns the target palette exactly.
func (t *Transition) Update(dt float32) Palette {
	if t.Done {
		return t.target
	}
	k, finished := t.tween.Update(dt)
	if finished {
		t.Done = true
		return t.target
	}

	colors := make([]color.RGBA, len(t.from))
	for i := range colors {
		colors[i] = toRGBA(t.from[i].BlendLab(t.to[i], float64(k)))
	}
	fb := toRGBA(t.fbFrom.BlendLab(t.fbTo, float64(k)))
	return Palette{Colors: colors, Fallback: &fb}
}

func pad(colors []color.RGBA, n int) []colorful.Color {
	out := make([]colorful.Color, n)
	last := colorful.Color{}
	for i := range out {
		if i < len(colors) {
			last = fromRGBA(colors[i])
		}
		out[i] = last
	}
	return out
}

func fallback(p Palette) color.RGBA {
	if p.Fallback != nil {
		return *p.Fallback
	}
	if len(p.Colors) > 0 {
		return p.Colors[0]
	}
	return color.RGBA{A: 0xff}
}
