package wave

import (
	"image/color"
	"maps"
	"slices"

	"github.com/pthm-cable/wavecanvas/shader"
)

// Parameter setters store raw values; nil restores the default. While mounted
// they also push the rescaled uniform and redraw a paused frame.

func (r *Renderer) setScalar(p scalarParam, v *float64) {
	raw := scalarSpecs[p].def
	if v != nil {
		raw = *v
	}
	r.params.scalars[p] = raw
	if name := scalarSpecs[p].uniform; name != "" {
		r.material.set(name, p.uniform(raw))
	}
	r.invalidate()
}

func (r *Renderer) setVector(p vectorParam, v Vector2Like) {
	raw := toVec2(v, vectorSpecs[p].def)
	r.params.vectors[p] = raw
	r.material.set(vectorSpecs[p].uniform, p.uniform(raw))
	r.invalidate()
}

// SetDeformNoiseFrequency sets the spatial frequency of the displacement noise. Default (1.2, 1.8).
func (r *Renderer) SetDeformNoiseFrequency(v Vector2Like) {
	r.setVector(paramDeformNoiseFrequency, v)
}

// SetDeformNoiseSpeed sets how fast the displacement evolves. Default 6; the shader sees v/100.
func (r *Renderer) SetDeformNoiseSpeed(v *float64) { r.setScalar(paramDeformNoiseSpeed, v) }

// SetDeformNoiseStrength sets the displacement amplitude. Default 3; the shader sees v/10.
func (r *Renderer) SetDeformNoiseStrength(v *float64) { r.setScalar(paramDeformNoiseStrength, v) }

// SetDeformNoiseScrollSpeed sets the drift of the displacement pattern. Default (1, 3); the shader sees v/100.
func (r *Renderer) SetDeformNoiseScrollSpeed(v Vector2Like) {
	r.setVector(paramDeformNoiseScrollSpeed, v)
}

// SetDeformNoiseClampLow sets the lower clamp of the displacement noise. Default -1.
func (r *Renderer) SetDeformNoiseClampLow(v *float64) { r.setScalar(paramDeformNoiseClampLow, v) }

// SetDeformNoiseClampHigh sets the upper clamp of the displacement noise. Default 1.
func (r *Renderer) SetDeformNoiseClampHigh(v *float64) { r.setScalar(paramDeformNoiseClampHigh, v) }

// SetLightNoiseFrequency sets the spatial frequency of the light noise. Default (0.9, 1.4).
func (r *Renderer) SetLightNoiseFrequency(v Vector2Like) {
	r.setVector(paramLightNoiseFrequency, v)
}

// SetLightNoiseSpeed sets how fast the lights evolve. Default 8; the shader sees v/100.
func (r *Renderer) SetLightNoiseSpeed(v *float64) { r.setScalar(paramLightNoiseSpeed, v) }

// SetLightNoiseStrength sets the contrast of the light noise. Default 10; the shader sees v/10.
func (r *Renderer) SetLightNoiseStrength(v *float64) { r.setScalar(paramLightNoiseStrength, v) }

// SetLightNoiseScrollSpeed sets the drift of the lights. Default (2, 1); the shader sees v/100.
func (r *Renderer) SetLightNoiseScrollSpeed(v Vector2Like) {
	r.setVector(paramLightNoiseScrollSpeed, v)
}

// SetLightNoiseClampLow sets the lower clamp of light opacity. Default 0.
func (r *Renderer) SetLightNoiseClampLow(v *float64) { r.setScalar(paramLightNoiseClampLow, v) }

// SetLightNoiseClampHigh sets the upper clamp of light opacity. Default 1.
func (r *Renderer) SetLightNoiseClampHigh(v *float64) { r.setScalar(paramLightNoiseClampHigh, v) }

// SetPerLightNoiseOffset sets the noise phase offset between consecutive lights. Default 10.
func (r *Renderer) SetPerLightNoiseOffset(v *float64) { r.setScalar(paramPerLightNoiseOffset, v) }

// SetLightBlendStrength sets the opacity used when compositing lights. Default 1.
func (r *Renderer) SetLightBlendStrength(v *float64) { r.setScalar(paramLightBlendStrength, v) }

// SetTimeOffset shifts the animation time seen by the shader, in seconds. Default 0.
func (r *Renderer) SetTimeOffset(v *float64) { r.setScalar(paramTimeOffset, v) }

// SetColors replaces the light colors. The first color is the base of the
// surface. nil or empty restores DefaultColors; more than MaxLights are truncated.
func (r *Renderer) SetColors(colors []color.RGBA) {
	if len(colors) == 0 {
		colors = DefaultColors
	}
	if len(colors) > MaxLights {
		r.log.Warn("too many colors, truncating",
			"count", len(colors),
			"max", MaxLights,
		)
		colors = colors[:MaxLights]
	}
	r.storeColors(colors)

	if r.state != nil && r.fallback == nil {
		r.state.device.SetClearColor(r.fallbackColor())
	}
	r.invalidate()
}

func (r *Renderer) storeColors(colors []color.RGBA) {
	r.colors = slices.Clone(colors)

	packed := make([]float32, MaxLights*3)
	for i, c := range r.colors {
		packed[i*3] = float32(c.R) / 255
		packed[i*3+1] = float32(c.G) / 255
		packed[i*3+2] = float32(c.B) / 255
	}
	r.material.set(shader.UniformLightColors, Vec3Array(packed, MaxLights))
	r.material.set(shader.UniformLightCount, Int(len(r.colors)))
}

// SetFallbackColor sets the clear color shown behind the plane and whenever
// drawing fails. nil restores the first light color.
func (r *Renderer) SetFallbackColor(c *color.RGBA) {
	if c == nil {
		r.fallback = nil
	} else {
		cp := *c
		r.fallback = &cp
	}
	if r.state != nil {
		r.state.device.SetClearColor(r.fallbackColor())
	}
	r.invalidate()
}

// SetSubdivision sets the plane tessellation before aspect scaling. nil restores
// DefaultSubdivision. While mounted the plane is rebuilt.
func (r *Renderer) SetSubdivision(v Vector2Like) {
	sub := toVec2(v, DefaultSubdivision)
	if sub == r.subdivision {
		return
	}
	r.subdivision = sub

	m := r.state
	if m == nil {
		return
	}
	mesh, err := m.device.UploadGeometry(CreatePlaneGeometry(sub))
	if err != nil {
		r.log.Error("rebuilding plane failed", "error", err, "subdivision", sub)
		return
	}
	m.scene.SetMesh(m.plane, mesh)
	r.invalidate()
}

// SetNoiseSource replaces the noise function. src is a preset name or GLSL
// defining float noise(vec3); "" restores the default preset. The program is
// recompiled before the next draw; uniform values are kept.
func (r *Renderer) SetNoiseSource(src string) {
	if src == "" {
		src = shader.DefaultNoise
	}
	r.material.setSources(shader.Resolve(shader.Noise, src), r.material.blendSource)
	r.invalidate()
}

// SetBlendSource replaces the blend function. src is a preset name or GLSL
// defining vec3 blend(vec3, vec3, float); "" restores the default preset.
func (r *Renderer) SetBlendSource(src string) {
	if src == "" {
		src = shader.DefaultBlend
	}
	r.material.setSources(r.material.noiseSource, shader.Resolve(shader.Blend, src))
	r.invalidate()
}

// SetExtraUniforms merges caller-defined uniforms into the material. With the
// same key set as before the values are updated in place; a different key set
// rebuilds the program. nil removes all extra uniforms. Names declared by the
// shader skeleton are skipped with a warning.
func (r *Renderer) SetExtraUniforms(extra map[string]Uniform) {
	r.extra = maps.Clone(extra)
	for _, name := range slices.Sorted(maps.Keys(r.extra)) {
		if shader.Reserved(name) {
			r.log.Warn("extra uniform shadows a built-in uniform, skipping", "name", name)
			delete(r.extra, name)
		}
	}
	if r.material.setExtra(r.extra) {
		r.log.Debug("extra uniforms changed shape, rebuilding program", "count", len(r.extra))
	}
	r.invalidate()
}

// SetOnLoad registers fn to run at the end of every mount. nil clears it.
func (r *Renderer) SetOnLoad(fn func()) { r.onLoad = fn }

// SetOnRender registers fn to run after every drawn frame. nil clears it.
func (r *Renderer) SetOnRender(fn func()) { r.onRender = fn }

// SetIsPaused pauses or resumes the animation without a jump in time. nil means playing.
func (r *Renderer) SetIsPaused(v *bool) {
	paused := false
	if v != nil {
		paused = *v
	}
	r.startPaused = paused
	if r.state != nil {
		r.state.clock.SetPaused(paused, r.now())
	}
}

// Paused reports whether the animation is paused.
func (r *Renderer) Paused() bool {
	if r.state != nil {
		return r.state.clock.Paused()
	}
	return r.startPaused
}

// RestartAnimation seeks to zero. While unmounted the next mount starts at zero.
func (r *Renderer) RestartAnimation() {
	if r.state == nil {
		r.startAtTime = 0
		return
	}
	r.state.clock.Restart(r.now())
}

// SeekToTime jumps to t seconds. While unmounted the next mount starts at t.
func (r *Renderer) SeekToTime(t float64) {
	if r.state == nil {
		r.startAtTime = t
		return
	}
	r.state.clock.SeekTo(t, r.now())
}

// Time returns the current animation time in seconds.
func (r *Renderer) Time() float64 {
	return r.TimeAt(r.now())
}

// TimeAt returns the animation time at a timestamp in milliseconds. While
// unmounted it logs a warning and returns the configured start time.
func (r *Renderer) TimeAt(timestamp float64) float64 {
	if r.state == nil {
		r.log.Warn("time requested while not mounted")
		return r.startAtTime
	}
	return r.state.clock.Time(timestamp)
}
