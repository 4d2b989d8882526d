package loader

import (
	"LotusPond/internal/logger"
	"LotusPond/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// LoadPlane builds a flat XZ grid centred on the origin, normals up.
func LoadPlane(size float32, resolution int) *renderer.Mesh {
	if resolution < 2 {
		resolution = 2
	}
	step := size / float32(resolution-1)
	start := -size * 0.5

	mesh := &renderer.Mesh{
		Positions: make([]float32, 0, resolution*resolution*3),
		Normals:   make([]float32, 0, resolution*resolution*3),
		Indices:   make([]uint32, 0, (resolution-1)*(resolution-1)*6),
	}
	for x := 0; x < resolution; x++ {
		for z := 0; z < resolution; z++ {
			mesh.Positions = append(mesh.Positions, start+float32(x)*step, 0, start+float32(z)*step)
			mesh.Normals = append(mesh.Normals, 0, 1, 0)
		}
	}
	for x := 0; x < resolution-1; x++ {
		for z := 0; z < resolution-1; z++ {
			topLeft := uint32(x*resolution + z)
			topRight := topLeft + 1
			bottomLeft := uint32((x+1)*resolution + z)
			bottomRight := bottomLeft + 1
			indices := []uint32{topLeft, topRight, bottomRight, topLeft, bottomRight, bottomLeft}
			mesh.Indices = append(mesh.Indices, indices...)
		}
	}

	logger.Log.Debug("Plane created",
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", len(mesh.Indices)/3),
		zap.Float32("size", size))
	return mesh
}

// LoadBox builds a unit cube, used for the sky dome.
func LoadBox() *renderer.Mesh {
	const h = 0.5
	corners := []float32{
		-h, -h, -h, h, -h, -h, h, h, -h, -h, h, -h,
		-h, -h, h, h, -h, h, h, h, h, -h, h, h,
	}
	indices := []uint32{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
		3, 7, 6, 3, 6, 2, // top
		0, 1, 5, 0, 5, 4, // bottom
	}
	return &renderer.Mesh{Positions: corners, Indices: indices}
}

// RecalculateNormals averages face normals per vertex.
func RecalculateNormals(vertices []float32, faces []uint32) []float32 {
	if len(vertices) == 0 || len(faces) == 0 {
		return nil
	}
	normals := make([]float32, len(vertices))
	limit := uint32(len(vertices))

	for i := 0; i+2 < len(faces); i += 3 {
		idx0, idx1, idx2 := faces[i]*3, faces[i+1]*3, faces[i+2]*3
		if idx0+2 >= limit || idx1+2 >= limit || idx2+2 >= limit {
			logger.Log.Warn("Face index out of bounds",
				zap.Uint32("idx0", idx0), zap.Uint32("idx1", idx1), zap.Uint32("idx2", idx2),
				zap.Int("vertices", len(vertices)))
			continue
		}
		v0 := mgl32.Vec3{vertices[idx0], vertices[idx0+1], vertices[idx0+2]}
		v1 := mgl32.Vec3{vertices[idx1], vertices[idx1+1], vertices[idx1+2]}
		v2 := mgl32.Vec3{vertices[idx2], vertices[idx2+1], vertices[idx2+2]}

		normal := v1.Sub(v0).Cross(v2.Sub(v0))
		if normal.Len() == 0 {
			continue
		}
		normal = normal.Normalize()
		for j := uint32(0); j < 3; j++ {
			normals[idx0+j] += normal[j]
			normals[idx1+j] += normal[j]
			normals[idx2+j] += normal[j]
		}
	}

	for i := 0; i+2 < len(normals); i += 3 {
		n := mgl32.Vec3{normals[i], normals[i+1], normals[i+2]}
		if n.Len() == 0 {
			continue
		}
		n = n.Normalize()
		normals[i], normals[i+1], normals[i+2] = n[0], n[1], n[2]
	}
	return normals
}
