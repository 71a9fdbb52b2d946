package wave

import "math"

// Plane proportions. After the tilt the plane covers (-1,-1)..(1,1).
var (
	planeAspect = Vec2{X: 1, Y: 3.2}
	planeScale  = Vec2{X: 2, Y: 2}
)

// Geometry is an indexed triangle mesh on the CPU.
type Geometry struct {
	Positions []float32 // xyz per vertex
	TexCoords []float32 // uv per vertex
	Indices   []uint32

	Width, Height        float32
	SegmentsX, SegmentsY int
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// CreatePlaneGeometry builds the deformation plane. Its size is fixed at
// aspect.x*scale.x by aspect.y*scale.x; the segment count on each axis is the
// subdivision scaled by the aspect and rounded up.
func CreatePlaneGeometry(subdivision Vector2Like) *Geometry {
	sx, sy := subdivision.XY()
	segX := segments(sx * planeAspect.X)
	segY := segments(sy * planeAspect.Y)

	width := float32(planeAspect.X * planeScale.X)
	height := float32(planeAspect.Y * planeScale.X)

	g := &Geometry{
		Positions: make([]float32, 0, (segX+1)*(segY+1)*3),
		TexCoords: make([]float32, 0, (segX+1)*(segY+1)*2),
		Indices:   make([]uint32, 0, segX*segY*6),
		Width:     width,
		Height:    height,
		SegmentsX: segX,
		SegmentsY: segY,
	}

	// Rows run top to bottom, columns left to right.
	for iy := 0; iy <= segY; iy++ {
		v := float32(iy) / float32(segY)
		y := height/2 - v*height
		for ix := 0; ix <= segX; ix++ {
			u := float32(ix) / float32(segX)
			x := u*width - width/2
			g.Positions = append(g.Positions, x, y, 0)
			g.TexCoords = append(g.TexCoords, u, 1-v)
		}
	}

	row := uint32(segX + 1)
	for iy := 0; iy < segY; iy++ {
		for ix := 0; ix < segX; ix++ {
			a := uint32(ix) + row*uint32(iy)
			b := uint32(ix) + row*uint32(iy+1)
			c := uint32(ix+1) + row*uint32(iy+1)
			d := uint32(ix+1) + row*uint32(iy)
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}

	return g
}

func segments(v float64) int {
	n := int(math.Ceil(v))
	if n < 1 {
		return 1
	}
	return n
}
