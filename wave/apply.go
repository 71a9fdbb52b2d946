package wave

import (
	"fmt"

	"github.com/pthm-cable/wavecanvas/config"
)

// Apply pushes a wave config section through the setters, as a host would
// push props. Extra uniforms with an invalid shape are reported and skipped.
func (r *Renderer) Apply(cfg config.WaveConfig) error {
	r.SetDeformNoiseFrequency(vec2(cfg.Deform.Frequency))
	r.SetDeformNoiseSpeed(Float(cfg.Deform.Speed))
	r.SetDeformNoiseStrength(Float(cfg.Deform.Strength))
	r.SetDeformNoiseScrollSpeed(vec2(cfg.Deform.ScrollSpeed))
	r.SetDeformNoiseClampLow(Float(cfg.Deform.ClampLow))
	r.SetDeformNoiseClampHigh(Float(cfg.Deform.ClampHigh))

	r.SetLightNoiseFrequency(vec2(cfg.Light.Frequency))
	r.SetLightNoiseSpeed(Float(cfg.Light.Speed))
	r.SetLightNoiseStrength(Float(cfg.Light.Strength))
	r.SetLightNoiseScrollSpeed(vec2(cfg.Light.ScrollSpeed))
	r.SetLightNoiseClampLow(Float(cfg.Light.ClampLow))
	r.SetLightNoiseClampHigh(Float(cfg.Light.ClampHigh))

	r.SetPerLightNoiseOffset(Float(cfg.PerLightNoiseOffset))
	r.SetLightBlendStrength(Float(cfg.LightBlendStrength))
	r.SetTimeOffset(Float(cfg.TimeOffset))
	r.SetSubdivision(vec2(cfg.Subdivision))
	r.SetNoiseSource(cfg.Noise)
	r.SetBlendSource(cfg.Blend)

	var firstErr error
	extra := make(map[string]Uniform, len(cfg.ExtraUniforms))
	for name, values := range cfg.ExtraUniforms {
		u, err := FromComponents(values)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("extra uniform %s: %w", name, err)
			}
			continue
		}
		extra[name] = u
	}
	if len(extra) == 0 {
		extra = nil
	}
	r.SetExtraUniforms(extra)

	if r.state == nil {
		r.startPaused = cfg.StartPaused
		r.startAtTime = cfg.StartAtTime
	}
	return firstErr
}

func vec2(v config.Vec2) Vec2 {
	return Vec2{X: v.X, Y: v.Y}
}
