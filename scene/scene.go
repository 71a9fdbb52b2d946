// Package scene holds the drawable objects of a mounted renderer as ECS entities.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
)

// Resource is a GPU-side object owned by the scene.
type Resource interface {
	Dispose()
}

// Node places an entity in the world.
type Node struct {
	Name  string
	Model mgl32.Mat4
}

// Drawable attaches a mesh to a node.
type Drawable struct {
	Mesh Resource
}

// Scene is the root of the scene graph.
type Scene struct {
	world    *ecs.World
	mapper   *ecs.Map2[Node, Drawable]
	filter   *ecs.Filter2[Node, Drawable]
	nodeMap  *ecs.Map1[Node]
	drawMap  *ecs.Map1[Drawable]
	entities []ecs.Entity
}

// New creates an empty scene.
func New() *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:   world,
		mapper:  ecs.NewMap2[Node, Drawable](world),
		filter:  ecs.NewFilter2[Node, Drawable](world),
		nodeMap: ecs.NewMap1[Node](world),
		drawMap: ecs.NewMap1[Drawable](world),
	}
}

// Add creates an entity with the given model matrix and mesh.
func (s *Scene) Add(name string, model mgl32.Mat4, mesh Resource) ecs.Entity {
	node := Node{Name: name, Model: model}
	draw := Drawable{Mesh: mesh}
	e := s.mapper.NewEntity(&node, &draw)
	s.entities = append(s.entities, e)
	return e
}

// SetMesh replaces the mesh of e, disposing the previous one.
func (s *Scene) SetMesh(e ecs.Entity, mesh Resource) {
	if !s.world.Alive(e) {
		return
	}
	draw := s.drawMap.Get(e)
	if draw.Mesh != nil && draw.Mesh != mesh {
		draw.Mesh.Dispose()
	}
	draw.Mesh = mesh
}

// Model returns the model matrix of e.
func (s *Scene) Model(e ecs.Entity) (mgl32.Mat4, bool) {
	if !s.world.Alive(e) {
		return mgl32.Mat4{}, false
	}
	return s.nodeMap.Get(e).Model, true
}

// Each calls fn for every entity with a mesh.
func (s *Scene) Each(fn func(model mgl32.Mat4, mesh Resource)) {
	query := s.filter.Query()
	for query.Next() {
		node, draw := query.Get()
		if draw.Mesh == nil {
			continue
		}
		fn(node.Model, draw.Mesh)
	}
}

// Len returns the number of entities in the scene.
func (s *Scene) Len() int {
	return len(s.entities)
}

// Dispose releases every mesh and removes all entities.
func (s *Scene) Dispose() {
	// Collect first; the world must not change during a query.
	var meshes []Resource
	query := s.filter.Query()
	for query.Next() {
		_, draw := query.Get()
		if draw.Mesh != nil {
			meshes = append(meshes, draw.Mesh)
		}
	}

	for _, m := range meshes {
		m.Dispose()
	}
	for _, e := range s.entities {
		if s.world.Alive(e) {
			s.world.RemoveEntity(e)
		}
	}
	s.entities = nil
}
