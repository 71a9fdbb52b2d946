package wave

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/pthm-cable/wavecanvas/shader"
)

// material owns the uniform values and the compiled program. Values outlive
// the program: they are kept while unmounted and pushed to every new program.
type material struct {
	noiseSource string
	blendSource string

	uniforms  map[string]Uniform
	extraKeys []string // sorted names of caller-supplied uniforms

	program Program
	dirty   bool

	// compiles counts successful and failed compilations.
	compiles int
}

func newMaterial(noiseSource, blendSource string) *material {
	return &material{
		noiseSource: noiseSource,
		blendSource: blendSource,
		uniforms:    make(map[string]Uniform),
		dirty:       true,
	}
}

// set stores a uniform value and pushes it to the live program, if any.
func (m *material) set(name string, u Uniform) {
	u = u.clone()
	m.uniforms[name] = u
	if m.program != nil {
		m.program.SetUniform(name, u)
	}
}

// setSources swaps the pluggable shader functions. Uniform values are untouched;
// the program is rebuilt before the next draw.
func (m *material) setSources(noiseSource, blendSource string) {
	if noiseSource == m.noiseSource && blendSource == m.blendSource {
		return
	}
	m.noiseSource = noiseSource
	m.blendSource = blendSource
	m.dirty = true
}

// setExtra replaces the caller-supplied uniforms. With an unchanged key set and
// shapes the values are updated in place; otherwise the declarations change and
// the program is rebuilt. Reports whether a rebuild was scheduled.
func (m *material) setExtra(extra map[string]Uniform) bool {
	keys := slices.Sorted(maps.Keys(extra))

	sameShape := slices.Equal(keys, m.extraKeys)
	if sameShape {
		for _, k := range keys {
			old := m.uniforms[k]
			if old.Type != extra[k].Type || old.Count != extra[k].Count {
				sameShape = false
				break
			}
		}
	}

	if sameShape {
		for _, k := range keys {
			m.set(k, extra[k])
		}
		return false
	}

	for _, k := range m.extraKeys {
		delete(m.uniforms, k)
	}
	for _, k := range keys {
		m.uniforms[k] = extra[k].clone()
	}
	m.extraKeys = keys
	m.dirty = true
	return true
}

func (m *material) extraDeclarations() []shader.Declaration {
	decls := make([]shader.Declaration, 0, len(m.extraKeys))
	for _, k := range m.extraKeys {
		decls = append(decls, m.uniforms[k].Declaration(k))
	}
	return decls
}

// vertexSource builds the current vertex shader text.
func (m *material) vertexSource() string {
	return shader.VertexShader(m.noiseSource, m.blendSource, m.extraDeclarations())
}

// compile builds a new program and transfers every stored uniform into it.
// On failure the previous program is released and the material stays without
// one until the sources change again.
func (m *material) compile(dev Device, log *slog.Logger) error {
	m.compiles++
	m.dirty = false
	m.disposeProgram()

	vs := m.vertexSource()
	prog, err := dev.CompileProgram(vs, shader.FragmentShader())
	if err != nil {
		log.Error("shader compilation failed",
			"error", err,
			"source", shader.NumberLines(vs),
		)
		return fmt.Errorf("compiling wave shader: %w", err)
	}

	m.program = prog
	for name, u := range m.uniforms {
		prog.SetUniform(name, u)
	}
	log.Debug("shader compiled", "uniforms", len(m.uniforms), "extra", len(m.extraKeys))
	return nil
}

// unload releases the program; the next mount compiles again.
func (m *material) unload() {
	m.disposeProgram()
	m.dirty = true
}

func (m *material) disposeProgram() {
	if m.program != nil {
		m.program.Dispose()
		m.program = nil
	}
}
