package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"

	"github.com/pthm-cable/wavecanvas/wave"
)

// Errors returned by Device.
var (
	ErrCompile      = errors.New("shader compilation failed")
	ErrMeshTooLarge = errors.New("mesh exceeds 16-bit index range")
	ErrNoTarget     = errors.New("render target not allocated")
	ErrNoWindow     = errors.New("window not initialized")
)

// supersample is the render target scale used when antialiasing is requested.
const supersample = 2

// Device renders into an offscreen texture that the host presents each frame.
// It implements wave.Device.
type Device struct {
	log   *slog.Logger
	scale int

	target     rl.RenderTexture2D
	hasTarget  bool
	w, h       int
	clearColor color.RGBA

	// material supplies the default maps; the shader is swapped per draw.
	material rl.Material

	hasFrame bool
	disposed bool
}

// NewDevice creates a device. Must be called after the raylib window exists.
func NewDevice(opts wave.DeviceOptions, log *slog.Logger) *Device {
	scale := 1
	if opts.Antialias {
		scale = supersample
	}
	return &Device{
		log:        log,
		scale:      scale,
		clearColor: color.RGBA{A: 0xff},
		material:   rl.LoadMaterialDefault(),
	}
}

// SetClearColor sets the color drawn behind the plane.
func (d *Device) SetClearColor(c color.RGBA) {
	d.clearColor = c
}

// SetSize reallocates the render target for a w x h output.
func (d *Device) SetSize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if d.hasTarget && w == d.w && h == d.h {
		return
	}
	d.unloadTarget()

	d.target = rl.LoadRenderTexture(int32(w*d.scale), int32(h*d.scale))
	if !rl.IsRenderTextureValid(d.target) {
		d.log.Error("render target allocation failed", "width", w, "height", h, "scale", d.scale)
		return
	}
	rl.SetTextureFilter(d.target.Texture, rl.FilterBilinear)
	d.hasTarget = true
	d.w, d.h = w, h
	d.log.Debug("render target resized", "width", w, "height", h, "scale", d.scale)
}

// CompileProgram links a vertex and fragment shader.
func (d *Device) CompileProgram(vertex, fragment string) (wave.Program, error) {
	startCapture()
	shader := rl.LoadShaderFromMemory(vertex, fragment)
	lines := stopCapture()

	// raylib substitutes its default shader when linking fails.
	if shader.ID == 0 || shader.ID == rl.GetShaderIdDefault() {
		d.hasFrame = false
		if len(lines) == 0 {
			return nil, ErrCompile
		}
		return nil, fmt.Errorf("%w: %s", ErrCompile, strings.Join(lines, "; "))
	}
	return &program{shader: shader, locs: make(map[string]int32)}, nil
}

// UploadGeometry copies g into GPU buffers.
func (d *Device) UploadGeometry(g *wave.Geometry) (wave.Mesh, error) {
	indices, err := toIndices16(g.Indices, g.VertexCount())
	if err != nil {
		return nil, err
	}
	if g.VertexCount() == 0 || len(indices) == 0 {
		return nil, errors.New("empty geometry")
	}

	m := &mesh{
		positions: g.Positions,
		texcoords: g.TexCoords,
		indices:   indices,
	}
	m.mesh = rl.Mesh{
		VertexCount:   int32(g.VertexCount()),
		TriangleCount: int32(g.TriangleCount()),
		Vertices:      &m.positions[0],
		Texcoords:     &m.texcoords[0],
		Indices:       &m.indices[0],
	}
	rl.UploadMesh(&m.mesh, false)
	if m.mesh.VaoID == 0 {
		return nil, errors.New("mesh upload failed")
	}
	return m, nil
}

// BeginFrame binds the render target and clears it.
func (d *Device) BeginFrame() {
	if !d.hasTarget {
		return
	}
	rl.BeginTextureMode(d.target)
	rl.ClearBackground(d.clearColor)
	rl.DisableBackfaceCulling()
}

// DrawMesh draws mesh with program using the given matrices.
func (d *Device) DrawMesh(m wave.Mesh, p wave.Program, projection, model mgl32.Mat4) {
	if !d.hasTarget {
		return
	}
	rm, ok := m.(*mesh)
	if !ok {
		return
	}
	rp, ok := p.(*program)
	if !ok {
		return
	}

	rl.SetMatrixProjection(toMatrix(projection))
	rl.SetMatrixModelview(rl.MatrixIdentity())

	mat := d.material
	mat.Shader = rp.shader
	rl.DrawMesh(rm.drawable(), mat, toMatrix(model))
}

// EndFrame unbinds the render target.
func (d *Device) EndFrame() {
	if !d.hasTarget {
		return
	}
	rl.EnableBackfaceCulling()
	rl.EndTextureMode()
	d.hasFrame = true
}

// HasFrame reports whether the target holds a drawn frame.
func (d *Device) HasFrame() bool {
	return d.hasFrame && d.hasTarget && !d.disposed
}

// Present draws the last frame scaled to the screen rectangle.
func (d *Device) Present(screenW, screenH int) {
	if !d.HasFrame() {
		return
	}
	tex := d.target.Texture
	// Render textures are stored bottom-up.
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(tex.Width), Height: -float32(tex.Height)}
	dst := rl.Rectangle{X: 0, Y: 0, Width: float32(screenW), Height: float32(screenH)}
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// ReadPixels returns the target contents at the logical size.
func (d *Device) ReadPixels() (image.Image, error) {
	if !d.hasTarget {
		return nil, ErrNoTarget
	}

	img := rl.LoadImageFromTexture(d.target.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)

	colors := rl.LoadImageColors(img)
	full := image.NewRGBA(image.Rect(0, 0, int(img.Width), int(img.Height)))
	for i, c := range colors {
		full.Pix[i*4] = c.R
		full.Pix[i*4+1] = c.G
		full.Pix[i*4+2] = c.B
		full.Pix[i*4+3] = c.A
	}
	rl.UnloadImageColors(colors)

	return downscale(full, d.w, d.h), nil
}

// Dispose releases the render target and material.
func (d *Device) Dispose() {
	if d.disposed {
		return
	}
	d.unloadTarget()
	rl.UnloadMaterial(d.material)
	d.disposed = true
}

func (d *Device) unloadTarget() {
	if d.hasTarget {
		rl.UnloadRenderTexture(d.target)
		d.hasTarget = false
		d.hasFrame = false
	}
}

// program is a linked raylib shader with cached uniform locations.
type program struct {
	shader   rl.Shader
	locs     map[string]int32
	disposed bool
}

func (p *program) location(name string) int32 {
	loc, ok := p.locs[name]
	if !ok {
		loc = rl.GetShaderLocation(p.shader, name)
		p.locs[name] = loc
	}
	return loc
}

func (p *program) SetUniform(name string, u wave.Uniform) {
	if p.disposed || len(u.Values) == 0 {
		return
	}
	loc := p.location(name)
	if loc < 0 {
		// Declared but unused uniforms are optimized out by the driver.
		return
	}
	switch u.Type {
	case wave.UniformInt:
		rl.SetShaderValue(p.shader, loc, []float32{intBits(u.Values[0])}, rl.ShaderUniformInt)
	case wave.UniformVec3Array:
		rl.SetShaderValueV(p.shader, loc, u.Values, rl.ShaderUniformVec3, int32(u.Count))
	default:
		rl.SetShaderValue(p.shader, loc, u.Values, uniformType(u.Type))
	}
}

func (p *program) Dispose() {
	if p.disposed {
		return
	}
	rl.UnloadShader(p.shader)
	p.disposed = true
}

// mesh keeps the CPU arrays referenced by the uploaded raylib mesh alive.
type mesh struct {
	mesh      rl.Mesh
	positions []float32
	texcoords []float32
	indices   []uint16
	disposed  bool
}

// drawable returns the mesh as DrawMesh needs it: buffer ids, counts and a
// non-nil index pointer to select indexed drawing.
func (m *mesh) drawable() rl.Mesh {
	return rl.Mesh{
		VertexCount:   m.mesh.VertexCount,
		TriangleCount: m.mesh.TriangleCount,
		Indices:       m.mesh.Indices,
		VaoID:         m.mesh.VaoID,
		VboID:         m.mesh.VboID,
	}
}

func (m *mesh) Dispose() {
	if m.disposed {
		return
	}
	rl.UnloadMesh(&m.mesh)
	m.disposed = true
}

// intBits encodes an int uniform for SetShaderValue, which reinterprets the
// slice memory according to the uniform type.
func intBits(v float32) float32 {
	return math.Float32frombits(uint32(int32(v)))
}

func uniformType(t wave.UniformType) rl.ShaderUniformDataType {
	switch t {
	case wave.UniformVec2:
		return rl.ShaderUniformVec2
	case wave.UniformVec3, wave.UniformVec3Array:
		return rl.ShaderUniformVec3
	case wave.UniformVec4:
		return rl.ShaderUniformVec4
	case wave.UniformInt:
		return rl.ShaderUniformInt
	}
	return rl.ShaderUniformFloat
}

// toMatrix converts a column-major mgl32 matrix to raylib's layout.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

// toIndices16 narrows indices for raylib meshes, which use 16-bit indices.
func toIndices16(indices []uint32, vertexCount int) ([]uint16, error) {
	if vertexCount > math.MaxUint16+1 {
		return nil, fmt.Errorf("%w: %d vertices", ErrMeshTooLarge, vertexCount)
	}
	out := make([]uint16, len(indices))
	for i, idx := range indices {
		if int(idx) >= vertexCount {
			return nil, fmt.Errorf("index %d out of range for %d vertices", idx, vertexCount)
		}
		out[i] = uint16(idx)
	}
	return out, nil
}

// downscale resamples src to w x h. A src already at that size is returned as is.
func downscale(src *image.RGBA, w, h int) *image.RGBA {
	if b := src.Bounds(); b.Dx() == w && b.Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
