// Package shader assembles the GLSL program for the wave plane.
//
// The vertex stage is built from three parts: a pluggable noise function, a
// pluggable blend function and a fixed skeleton that calls both by name. The
// uniform interface lives in the skeleton, so swapping either part never
// changes which uniforms the program expects.
package shader

import (
	"fmt"
	"sort"
	"strings"
)

// MaxLights is the number of light colors the skeleton reads.
const MaxLights = 8

// Uniform names of the fixed interface.
const (
	UniformTime = "u_time"

	UniformDeformNoiseFrequency   = "u_deformNoiseFrequency"
	UniformDeformNoiseSpeed       = "u_deformNoiseSpeed"
	UniformDeformNoiseStrength    = "u_deformNoiseStrength"
	UniformDeformNoiseScrollSpeed = "u_deformNoiseScrollSpeed"
	UniformDeformNoiseClampLow    = "u_deformNoiseClampLow"
	UniformDeformNoiseClampHigh   = "u_deformNoiseClampHigh"

	UniformLightNoiseFrequency   = "u_lightNoiseFrequency"
	UniformLightNoiseSpeed       = "u_lightNoiseSpeed"
	UniformLightNoiseStrength    = "u_lightNoiseStrength"
	UniformLightNoiseScrollSpeed = "u_lightNoiseScrollSpeed"
	UniformLightNoiseClampLow    = "u_lightNoiseClampLow"
	UniformLightNoiseClampHigh   = "u_lightNoiseClampHigh"

	UniformPerLightNoiseOffset = "u_perLightNoiseOffset"
	UniformLightBlendStrength  = "u_lightBlendStrength"
	UniformLightColors         = "u_lightColors"
	UniformLightCount          = "u_lightCount"

	// UniformMVP is the model-view-projection matrix set by the device.
	UniformMVP = "mvp"
)

// Declaration describes one uniform: its name, GLSL type and array length (0 for scalars).
type Declaration struct {
	Name  string
	Type  string
	Count int
}

// GLSL returns the declaration statement.
func (d Declaration) GLSL() string {
	if d.Count > 0 {
		return fmt.Sprintf("uniform %s %s[%d];", d.Type, d.Name, d.Count)
	}
	return fmt.Sprintf("uniform %s %s;", d.Type, d.Name)
}

var fixedInterface = []Declaration{
	{Name: UniformTime, Type: "float"},
	{Name: UniformDeformNoiseFrequency, Type: "vec2"},
	{Name: UniformDeformNoiseSpeed, Type: "float"},
	{Name: UniformDeformNoiseStrength, Type: "float"},
	{Name: UniformDeformNoiseScrollSpeed, Type: "vec2"},
	{Name: UniformDeformNoiseClampLow, Type: "float"},
	{Name: UniformDeformNoiseClampHigh, Type: "float"},
	{Name: UniformLightNoiseFrequency, Type: "vec2"},
	{Name: UniformLightNoiseSpeed, Type: "float"},
	{Name: UniformLightNoiseStrength, Type: "float"},
	{Name: UniformLightNoiseScrollSpeed, Type: "vec2"},
	{Name: UniformLightNoiseClampLow, Type: "float"},
	{Name: UniformLightNoiseClampHigh, Type: "float"},
	{Name: UniformPerLightNoiseOffset, Type: "float"},
	{Name: UniformLightBlendStrength, Type: "float"},
	{Name: UniformLightColors, Type: "vec3", Count: MaxLights},
	{Name: UniformLightCount, Type: "int"},
}

// Reserved reports whether name is declared by the skeleton and so cannot be
// used for an extra uniform.
func Reserved(name string) bool {
	if name == UniformMVP {
		return true
	}
	for _, d := range fixedInterface {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Interface returns the uniforms declared by the skeleton.
func Interface() []Declaration {
	out := make([]Declaration, len(fixedInterface))
	copy(out, fixedInterface)
	return out
}

const vertexHeader = `#version 330

in vec3 vertexPosition;
in vec2 vertexTexCoord;

uniform mat4 mvp;

out vec3 v_color;

#define MAX_LIGHTS %d
`

const vertexBody = `
void main() {
    vec2 st = vertexTexCoord;

    vec2 deformCoord = st * u_deformNoiseFrequency + u_time * u_deformNoiseScrollSpeed;
    float deform = noise(vec3(deformCoord, u_time * u_deformNoiseSpeed));
    deform = clamp(deform, u_deformNoiseClampLow, u_deformNoiseClampHigh);

    vec3 pos = vertexPosition;
    pos.z += deform * u_deformNoiseStrength;

    vec3 color = u_lightColors[0];
    for (int i = 1; i < MAX_LIGHTS; i++) {
        if (i >= u_lightCount) {
            break;
        }
        float offset = float(i) * u_perLightNoiseOffset;
        vec2 lightCoord = st * u_lightNoiseFrequency + u_time * u_lightNoiseScrollSpeed + vec2(offset);
        float light = noise(vec3(lightCoord, u_time * u_lightNoiseSpeed + offset));
        light = clamp(light * u_lightNoiseStrength * 0.5 + 0.5, u_lightNoiseClampLow, u_lightNoiseClampHigh);
        color = blend(color, u_lightColors[i], light * u_lightBlendStrength);
    }

    v_color = color;
    gl_Position = mvp * vec4(pos, 1.0);
}
`

const fragmentSource = `#version 330

in vec3 v_color;

out vec4 finalColor;

void main() {
    finalColor = vec4(v_color, 1.0);
}
`

// VertexShader concatenates the header, the uniform interface, extra uniforms,
// noiseSource, blendSource and the skeleton body. noiseSource must define
// float noise(vec3); blendSource must define vec3 blend(vec3, vec3, float).
func VertexShader(noiseSource, blendSource string, extra []Declaration) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, vertexHeader, MaxLights)
	sb.WriteString("\n")
	for _, d := range fixedInterface {
		sb.WriteString(d.GLSL())
		sb.WriteString("\n")
	}

	if len(extra) > 0 {
		sb.WriteString("\n")
		for _, d := range SortDeclarations(extra) {
			sb.WriteString(d.GLSL())
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(noiseSource)
	sb.WriteString("\n")
	sb.WriteString(blendSource)
	sb.WriteString("\n")
	sb.WriteString(vertexBody)

	return sb.String()
}

// FragmentShader returns the fixed fragment stage.
func FragmentShader() string {
	return fragmentSource
}

// SortDeclarations returns a copy of decls ordered by name so generated text is stable.
func SortDeclarations(decls []Declaration) []Declaration {
	out := make([]Declaration, len(decls))
	copy(out, decls)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// NumberLines prefixes each line of src with its 1-based line number,
// matching the numbering GLSL compilers use in their info logs.
func NumberLines(src string) string {
	lines := strings.Split(src, "\n")
	width := len(fmt.Sprint(len(lines)))

	var sb strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&sb, "%*d| %s\n", width, i+1, line)
	}
	return sb.String()
}
