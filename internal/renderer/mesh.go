package renderer

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

type Mesh struct {
	Positions []float32 // xyz triplets
	Normals   []float32 // xyz triplets, may be empty
	Indices   []uint32
	Color     mgl32.Vec3
	Texture   image.Image // Optional map sampled by custom shaders on unit 0

	// GPU handles, filled lazily by the OpenGL renderer
	vao, vbo, nbo, ebo uint32
	textureID          uint32
	uploaded           bool
}

func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// Points is a sprite point cloud.
type Points struct {
	Positions []float32 // xyz triplets
	Size      float32
	Color     mgl32.Vec3
	AlphaTest float32
	Sprite    image.Image

	vao, vbo  uint32
	textureID uint32
	bound     image.Image
	uploaded  bool
}

func (p *Points) Count() int {
	return len(p.Positions) / 3
}
