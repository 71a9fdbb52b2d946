package wave

import (
	"fmt"
	"slices"

	"github.com/pthm-cable/wavecanvas/shader"
)

// UniformType is the GLSL type of a uniform value.
type UniformType int

const (
	UniformFloat UniformType = iota
	UniformVec2
	UniformVec3
	UniformVec4
	UniformInt
	UniformVec3Array
)

// GLSL returns the GLSL type name.
func (t UniformType) GLSL() string {
	switch t {
	case UniformFloat:
		return "float"
	case UniformVec2:
		return "vec2"
	case UniformVec3, UniformVec3Array:
		return "vec3"
	case UniformVec4:
		return "vec4"
	case UniformInt:
		return "int"
	}
	return fmt.Sprintf("UniformType(%d)", int(t))
}

// Uniform is a typed shader input. Int values are stored as float32 and
// converted by the device.
type Uniform struct {
	Type   UniformType
	Values []float32
	Count  int // array length for UniformVec3Array
}

// Float32 creates a float uniform.
func Float32(v float32) Uniform {
	return Uniform{Type: UniformFloat, Values: []float32{v}}
}

// Vec2Uniform creates a vec2 uniform.
func Vec2Uniform(x, y float32) Uniform {
	return Uniform{Type: UniformVec2, Values: []float32{x, y}}
}

// Vec3Uniform creates a vec3 uniform.
func Vec3Uniform(x, y, z float32) Uniform {
	return Uniform{Type: UniformVec3, Values: []float32{x, y, z}}
}

// Vec4Uniform creates a vec4 uniform.
func Vec4Uniform(x, y, z, w float32) Uniform {
	return Uniform{Type: UniformVec4, Values: []float32{x, y, z, w}}
}

// Int creates an int uniform.
func Int(v int) Uniform {
	return Uniform{Type: UniformInt, Values: []float32{float32(v)}}
}

// Vec3Array creates a vec3[count] uniform from packed xyz triples.
func Vec3Array(values []float32, count int) Uniform {
	return Uniform{Type: UniformVec3Array, Values: slices.Clone(values), Count: count}
}

// FromComponents picks float, vec2, vec3 or vec4 by the number of components.
func FromComponents(values []float64) (Uniform, error) {
	f := make([]float32, len(values))
	for i, v := range values {
		f[i] = float32(v)
	}
	switch len(f) {
	case 1:
		return Uniform{Type: UniformFloat, Values: f}, nil
	case 2:
		return Uniform{Type: UniformVec2, Values: f}, nil
	case 3:
		return Uniform{Type: UniformVec3, Values: f}, nil
	case 4:
		return Uniform{Type: UniformVec4, Values: f}, nil
	}
	return Uniform{}, fmt.Errorf("uniform needs 1-4 components, got %d", len(f))
}

// Declaration returns the GLSL declaration of u under name.
func (u Uniform) Declaration(name string) shader.Declaration {
	d := shader.Declaration{Name: name, Type: u.Type.GLSL()}
	if u.Type == UniformVec3Array {
		d.Count = u.Count
	}
	return d
}

// Equal reports whether two uniforms have the same type and values.
func (u Uniform) Equal(o Uniform) bool {
	return u.Type == o.Type && u.Count == o.Count && slices.Equal(u.Values, o.Values)
}

// clone returns a copy that does not share Values with u.
func (u Uniform) clone() Uniform {
	u.Values = slices.Clone(u.Values)
	return u
}
