// Package obj serializes meshes to the Wavefront OBJ text format.
package obj

import (
	"bytes"
	"fmt"
	"io"

	"github.com/printlab/dotforge/pkg/mesh"
)

// ExportError reports a mesh that cannot be serialized.
type ExportError struct {
	Msg string
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export obj: %s", e.Msg)
}

// Marshal renders the mesh as an ASCII OBJ document: header comments,
// one `v x y z` line per vertex with six decimal places, then one
// `f a b c` line per face with 1-based indices. Identical meshes
// produce byte-identical output.
func Marshal(m *mesh.Mesh) ([]byte, error) {
	if err := validate(m); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(m.Vertices)*40 + len(m.Faces)*16)
	fmt.Fprintf(&buf, "# dotforge mesh\n")
	fmt.Fprintf(&buf, "# vertices: %d\n", len(m.Vertices))
	fmt.Fprintf(&buf, "# faces: %d\n", len(m.Faces))
	for _, v := range m.Vertices {
		fmt.Fprintf(&buf, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
	}
	for _, f := range m.Faces {
		fmt.Fprintf(&buf, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return buf.Bytes(), nil
}

// Encode writes the OBJ document to w. The mesh is validated and fully
// rendered before the first byte is written, so a failed export never
// leaves partial output.
func Encode(w io.Writer, m *mesh.Mesh) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func validate(m *mesh.Mesh) error {
	if m == nil {
		return &ExportError{Msg: "nil mesh"}
	}
	if len(m.Faces) == 0 {
		return &ExportError{Msg: "mesh has no faces"}
	}
	for i, f := range m.Faces {
		for _, vi := range f {
			if vi < 0 || vi >= len(m.Vertices) {
				return &ExportError{
					Msg: fmt.Sprintf("face %d references vertex %d, mesh has %d", i, vi, len(m.Vertices)),
				}
			}
		}
	}
	return nil
}
