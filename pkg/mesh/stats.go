package mesh

import (
	"github.com/printlab/dotforge/pkg/math"
)

// Stats summarizes mesh size and geometry. Volume and surface area are
// in cubic and square model units.
type Stats struct {
	VertexCount int
	FaceCount   int
	EdgeCount   int
	Bounds      math.AABB
	SurfaceArea float64
	Volume      float64
	// MemoryBytes estimates the in-memory footprint of the vertex,
	// face and normal arrays.
	MemoryBytes int
}

// Stats computes metrics for the mesh. The mesh is not modified;
// results are recomputed on every call. Volume assumes a closed,
// consistently wound surface.
func (m *Mesh) Stats() Stats {
	if m == nil {
		return Stats{Bounds: math.EmptyAABB()}
	}
	s := Stats{
		VertexCount: len(m.Vertices),
		FaceCount:   len(m.Faces),
		Bounds:      math.EmptyAABB(),
	}
	for _, v := range m.Vertices {
		s.Bounds = s.Bounds.Extend(v)
	}
	edges := make(map[[2]int]struct{}, len(m.Faces)*3/2)
	for i, f := range m.Faces {
		for k := 0; k < 3; k++ {
			a, b := f[k], f[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			edges[[2]int{a, b}] = struct{}{}
		}
		s.SurfaceArea += m.faceArea(i)
		va, vb, vc := m.facePoints(i)
		s.Volume += va.Dot(vb.Cross(vc)) / 6
	}
	s.EdgeCount = len(edges)
	if s.Volume < 0 {
		s.Volume = -s.Volume
	}
	s.MemoryBytes = len(m.Vertices)*24 + len(m.Normals)*24 + len(m.Faces)*24
	return s
}
