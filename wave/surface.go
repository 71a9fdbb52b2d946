package wave

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// FrameFunc is called once per display frame with a monotonic timestamp in milliseconds.
type FrameFunc func(timestamp float64)

// DeviceOptions configures the rendering context created on mount.
type DeviceOptions struct {
	Antialias bool
}

// Surface is the drawable target supplied by the host. The host keeps it
// valid between Mount and Unmount.
type Surface interface {
	// ClientSize returns the drawable size in physical pixels.
	ClientSize() (width, height int)
	// CreateDevice binds a rendering context to the surface.
	CreateDevice(opts DeviceOptions) (Device, error)
	// OnResize registers fn for size changes and returns a function that removes it.
	OnResize(fn func()) (remove func())
	// RequestFrame schedules fn for the next display frame.
	RequestFrame(fn FrameFunc)
}

// Device is the low-level rendering context.
type Device interface {
	SetClearColor(c color.RGBA)
	// SetSize resizes the output buffer. The displayed size is controlled by the host.
	SetSize(width, height int)
	CompileProgram(vertex, fragment string) (Program, error)
	UploadGeometry(g *Geometry) (Mesh, error)
	BeginFrame()
	DrawMesh(mesh Mesh, program Program, projection, model mgl32.Mat4)
	EndFrame()
	// ReadPixels returns the contents of the output buffer at its logical size.
	ReadPixels() (image.Image, error)
	Dispose()
}

// Program is a linked shader program.
type Program interface {
	SetUniform(name string, u Uniform)
	Dispose()
}

// Mesh is geometry uploaded to the device.
type Mesh interface {
	Dispose()
}
