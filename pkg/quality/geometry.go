package quality

import (
	gomath "math"

	"github.com/printlab/dotforge/pkg/math"
	"github.com/printlab/dotforge/pkg/mesh"
)

// edgeManifoldness counts distinct undirected edges and how many of
// them are referenced by exactly two faces.
func edgeManifoldness(m *mesh.Mesh) (manifold, total int) {
	type edge struct{ a, b int }
	counts := make(map[edge]int, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			counts[edge{a, b}]++
		}
	}
	for _, n := range counts {
		if n == 2 {
			manifold++
		}
	}
	return manifold, len(counts)
}

// duplicateVertexCount counts vertices that coincide with an earlier
// vertex within tol. Vertices are hashed onto a tol-sized grid and
// compared against the neighboring cells only.
func duplicateVertexCount(m *mesh.Mesh, tol float64) int {
	type cell struct{ x, y, z int64 }
	gridKey := func(v math.Vec3) cell {
		return cell{
			x: int64(gomath.Floor(v.X / tol)),
			y: int64(gomath.Floor(v.Y / tol)),
			z: int64(gomath.Floor(v.Z / tol)),
		}
	}
	buckets := make(map[cell][]int, len(m.Vertices))
	dups := 0
	for i, v := range m.Vertices {
		c := gridKey(v)
		found := false
	scan:
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					for _, j := range buckets[cell{x: c.x + dx, y: c.y + dy, z: c.z + dz}] {
						if v.Distance(m.Vertices[j]) <= tol {
							found = true
							break scan
						}
					}
				}
			}
		}
		if found {
			dups++
		}
		buckets[c] = append(buckets[c], i)
	}
	return dups
}
