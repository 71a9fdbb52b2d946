package wave

import "github.com/pthm-cable/wavecanvas/shader"

// Vector2Like is either a Scalar applied to both axes or an explicit Vec2.
type Vector2Like interface {
	XY() (x, y float64)
}

// Scalar is an isotropic Vector2Like.
type Scalar float64

// XY implements Vector2Like.
func (s Scalar) XY() (float64, float64) { return float64(s), float64(s) }

// Vec2 is an anisotropic Vector2Like.
type Vec2 struct {
	X, Y float64
}

// XY implements Vector2Like.
func (v Vec2) XY() (float64, float64) { return v.X, v.Y }

// Float returns a pointer to v for the scalar setters.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v for SetIsPaused.
func Bool(v bool) *bool { return &v }

type scalarParam int

const (
	paramDeformNoiseSpeed scalarParam = iota
	paramDeformNoiseStrength
	paramDeformNoiseClampLow
	paramDeformNoiseClampHigh
	paramLightNoiseSpeed
	paramLightNoiseStrength
	paramLightNoiseClampLow
	paramLightNoiseClampHigh
	paramPerLightNoiseOffset
	paramLightBlendStrength
	paramTimeOffset
	numScalarParams
)

type vectorParam int

const (
	paramDeformNoiseFrequency vectorParam = iota
	paramDeformNoiseScrollSpeed
	paramLightNoiseFrequency
	paramLightNoiseScrollSpeed
	numVectorParams
)

// paramSpec describes how a raw setter value maps onto a uniform.
// An empty uniform name means the value is consumed by the renderer itself.
type paramSpec struct {
	name    string
	uniform string
	scale   float64
}

type scalarSpec struct {
	paramSpec
	def float64
}

type vectorSpec struct {
	paramSpec
	def Vec2
}

var scalarSpecs = [numScalarParams]scalarSpec{
	paramDeformNoiseSpeed:     {paramSpec{"deformNoiseSpeed", shader.UniformDeformNoiseSpeed, 1.0 / 100}, 6},
	paramDeformNoiseStrength:  {paramSpec{"deformNoiseStrength", shader.UniformDeformNoiseStrength, 1.0 / 10}, 3},
	paramDeformNoiseClampLow:  {paramSpec{"deformNoiseClampLow", shader.UniformDeformNoiseClampLow, 1}, -1},
	paramDeformNoiseClampHigh: {paramSpec{"deformNoiseClampHigh", shader.UniformDeformNoiseClampHigh, 1}, 1},
	paramLightNoiseSpeed:      {paramSpec{"lightNoiseSpeed", shader.UniformLightNoiseSpeed, 1.0 / 100}, 8},
	paramLightNoiseStrength:   {paramSpec{"lightNoiseStrength", shader.UniformLightNoiseStrength, 1.0 / 10}, 10},
	paramLightNoiseClampLow:   {paramSpec{"lightNoiseClampLow", shader.UniformLightNoiseClampLow, 1}, 0},
	paramLightNoiseClampHigh:  {paramSpec{"lightNoiseClampHigh", shader.UniformLightNoiseClampHigh, 1}, 1},
	paramPerLightNoiseOffset:  {paramSpec{"perLightNoiseOffset", shader.UniformPerLightNoiseOffset, 1}, 10},
	paramLightBlendStrength:   {paramSpec{"lightBlendStrength", shader.UniformLightBlendStrength, 1}, 1},
	paramTimeOffset:           {paramSpec{"timeOffset", "", 1}, 0},
}

var vectorSpecs = [numVectorParams]vectorSpec{
	paramDeformNoiseFrequency:   {paramSpec{"deformNoiseFrequency", shader.UniformDeformNoiseFrequency, 1}, Vec2{1.2, 1.8}},
	paramDeformNoiseScrollSpeed: {paramSpec{"deformNoiseScrollSpeed", shader.UniformDeformNoiseScrollSpeed, 1.0 / 100}, Vec2{1, 3}},
	paramLightNoiseFrequency:    {paramSpec{"lightNoiseFrequency", shader.UniformLightNoiseFrequency, 1}, Vec2{0.9, 1.4}},
	paramLightNoiseScrollSpeed:  {paramSpec{"lightNoiseScrollSpeed", shader.UniformLightNoiseScrollSpeed, 1.0 / 100}, Vec2{2, 1}},
}

// DefaultSubdivision is the plane subdivision before aspect scaling.
var DefaultSubdivision = Vec2{X: 64, Y: 64}

// params holds raw values as the caller supplied them.
type params struct {
	scalars [numScalarParams]float64
	vectors [numVectorParams]Vec2
}

func defaultParams() params {
	var p params
	for i, s := range scalarSpecs {
		p.scalars[i] = s.def
	}
	for i, s := range vectorSpecs {
		p.vectors[i] = s.def
	}
	return p
}

func (p scalarParam) uniform(raw float64) Uniform {
	return Float32(float32(raw * scalarSpecs[p].scale))
}

func (p vectorParam) uniform(raw Vec2) Uniform {
	s := vectorSpecs[p].scale
	return Vec2Uniform(float32(raw.X*s), float32(raw.Y*s))
}

// toVec2 normalizes a Vector2Like, returning def for nil.
func toVec2(v Vector2Like, def Vec2) Vec2 {
	if v == nil {
		return def
	}
	x, y := v.XY()
	return Vec2{X: x, Y: y}
}
