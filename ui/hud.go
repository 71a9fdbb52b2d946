package ui

import (
	"fmt"
	"image/color"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wavecanvas/telemetry"
)

// HUDData holds all the data needed to render the HUD.
type HUDData struct {
	Title  string
	Mode   string
	Time   float64 // animation seconds
	Paused bool
	Noise  string
	Blend  string
	FPS    int32
	Colors []color.RGBA
	Stats  telemetry.FrameStats
}

// HUD renders the heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewHUD creates a hidden HUD anchored at x, y.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches HUD visibility.
func (h *HUD) Toggle() bool {
	h.visible = !h.visible
	return h.visible
}

// IsVisible returns whether the HUD is shown.
func (h *HUD) IsVisible() bool {
	return h.visible
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	if !h.visible {
		return
	}
	r := h.renderer
	pad := r.Theme.Padding

	r.DrawPanel(h.x, h.y, h.width, panelHeight(r.Theme))

	x := h.x + pad
	y := h.y + pad
	rl.DrawText(data.Title, x, y, 16, rl.White)
	y += 22

	status := "playing"
	if data.Paused {
		status = "PAUSED"
	}
	y = r.DrawLabelValue(x, y, "Time", fmt.Sprintf("%.2fs (%s)", data.Time, status))
	y = r.DrawLabelValue(x, y, "Mode", data.Mode)
	y = r.DrawSwatches(x, y, "Colors", data.Colors)
	y = r.DrawLabelValue(x, y, "Noise", shortName(data.Noise))
	y = r.DrawLabelValue(x, y, "Blend", shortName(data.Blend))
	y += 4

	s := data.Stats
	y = r.DrawSectionHeader(x, y, "Frames")
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d (%.1f avg)", data.FPS, s.FPS))
	y = r.DrawLabelValue(x, y, "p50/p95", fmt.Sprintf("%s / %s", s.P50.Round(time.Microsecond), s.P95.Round(time.Microsecond)))
	r.DrawBar(x, y, "Drawn", float32(s.DrawRatio), h.width-2*pad)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	if !h.visible {
		return
	}
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// panelHeight is the height of the HUD for t: title, five rows, a header,
// two rows and a bar.
func panelHeight(t Theme) int32 {
	return 2*t.Padding + 22 + 8*t.LineHeight + 4 + t.LineHeight + 2
}

// shortName keeps inline GLSL from flooding the panel.
func shortName(s string) string {
	const limit = 24
	if len(s) <= limit {
		return s
	}
	return "inline (" + fmt.Sprint(len(s)) + " bytes)"
}
