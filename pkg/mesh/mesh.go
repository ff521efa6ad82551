// Package mesh builds printable triangle meshes from dot patterns.
//
// Generation is deterministic: the same pattern and parameters always
// produce identical vertex and face arrays. All faces are triangles
// wound counter-clockwise when seen from outside the solid, with one
// stored normal per face.
package mesh

import (
	"github.com/printlab/dotforge/pkg/math"
)

// Mesh is an indexed triangle mesh. Faces hold zero-based vertex
// indices; Normals holds one outward unit normal per face.
type Mesh struct {
	Vertices []math.Vec3
	Faces    [][3]int
	Normals  []math.Vec3
}

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Faces) == 0
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	c := &Mesh{
		Vertices: make([]math.Vec3, len(m.Vertices)),
		Faces:    make([][3]int, len(m.Faces)),
		Normals:  make([]math.Vec3, len(m.Normals)),
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Faces, m.Faces)
	copy(c.Normals, m.Normals)
	return c
}

// facePoints returns the three vertex positions of face i.
func (m *Mesh) facePoints(i int) (a, b, c math.Vec3) {
	f := m.Faces[i]
	return m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
}

// faceArea returns the area of face i.
func (m *Mesh) faceArea(i int) float64 {
	a, b, c := m.facePoints(i)
	return b.Sub(a).Cross(c.Sub(a)).Length() / 2
}
