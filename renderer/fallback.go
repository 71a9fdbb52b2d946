package renderer

import (
	"image/color"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Fallback draws a static image or solid color under the canvas. It is what
// the viewer sees before the first frame and whenever drawing fails.
type Fallback struct {
	log   *slog.Logger
	path  string
	color color.RGBA

	texture     rl.Texture2D
	hasTexture  bool
	initialized bool
}

// NewFallback creates a fallback that shows the image at path, if any, over c.
func NewFallback(log *slog.Logger, path string, c color.RGBA) *Fallback {
	return &Fallback{log: log, path: path, color: c}
}

// Init loads the image (must be called after raylib window is created).
func (f *Fallback) Init() {
	if f.initialized {
		return
	}
	f.initialized = true
	if f.path == "" {
		return
	}

	f.texture = rl.LoadTexture(f.path)
	if f.texture.ID == 0 {
		f.log.Warn("fallback image not loaded, using color", "path", f.path)
		return
	}
	rl.SetTextureFilter(f.texture, rl.FilterBilinear)
	f.hasTexture = true
}

// SetColor sets the solid color.
func (f *Fallback) SetColor(c color.RGBA) {
	f.color = c
}

// Color returns the solid color.
func (f *Fallback) Color() color.RGBA {
	return f.color
}

// Draw fills the screen, cropping the image to cover it.
func (f *Fallback) Draw(screenW, screenH int) {
	if !f.initialized {
		f.Init()
	}

	rl.DrawRectangle(0, 0, int32(screenW), int32(screenH), f.color)
	if !f.hasTexture {
		return
	}

	src := coverSource(float32(f.texture.Width), float32(f.texture.Height), float32(screenW), float32(screenH))
	dst := rl.Rectangle{Width: float32(screenW), Height: float32(screenH)}
	rl.DrawTexturePro(f.texture, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees resources.
func (f *Fallback) Unload() {
	if f.hasTexture {
		rl.UnloadTexture(f.texture)
		f.hasTexture = false
	}
	f.initialized = false
}

// coverSource returns the centered region of a texW x texH texture with the
// aspect of dstW x dstH.
func coverSource(texW, texH, dstW, dstH float32) rl.Rectangle {
	if texW <= 0 || texH <= 0 || dstW <= 0 || dstH <= 0 {
		return rl.Rectangle{Width: texW, Height: texH}
	}
	texAspect := texW / texH
	dstAspect := dstW / dstH
	if texAspect > dstAspect {
		w := texH * dstAspect
		return rl.Rectangle{X: (texW - w) / 2, Width: w, Height: texH}
	}
	h := texW / dstAspect
	return rl.Rectangle{Y: (texH - h) / 2, Width: texW, Height: h}
}
