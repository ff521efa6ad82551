package mesh

import (
	"testing"
)

func TestStats_EmptyMesh(t *testing.T) {
	s := (&Mesh{}).Stats()
	if s.VertexCount != 0 || s.FaceCount != 0 || s.EdgeCount != 0 {
		t.Errorf("empty mesh stats = %+v, want zero counts", s)
	}
	if !s.Bounds.IsEmpty() {
		t.Errorf("empty mesh bounds = %+v, want empty box", s.Bounds)
	}
	if s.Volume != 0 || s.SurfaceArea != 0 {
		t.Errorf("empty mesh volume/area = %g/%g, want 0/0", s.Volume, s.SurfaceArea)
	}
}

func TestStats_CountsMemory(t *testing.T) {
	m, err := Generate(makePattern(t, "x"), plainParams())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	s := m.Stats()
	// 8 vertices + 12 normals at 24 bytes, 12 faces at 24 bytes.
	want := 8*24 + 12*24 + 12*24
	if s.MemoryBytes != want {
		t.Errorf("MemoryBytes = %d, want %d", s.MemoryBytes, want)
	}
}

func TestStats_VolumeIgnoresWindingSign(t *testing.T) {
	m, err := Generate(makePattern(t, "x"), plainParams())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	// Reverse every face; the enclosed volume must not go negative.
	for i, f := range m.Faces {
		m.Faces[i] = [3]int{f[0], f[2], f[1]}
	}
	if v := m.Stats().Volume; v < 7.999 || v > 8.001 {
		t.Errorf("volume = %g, want 8 regardless of orientation", v)
	}
}

func TestClone_Independent(t *testing.T) {
	m, err := Generate(makePattern(t, "x"), plainParams())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	c := m.Clone()
	c.Vertices[0].X = 99
	c.Faces[0][0] = 7
	if m.Vertices[0].X == 99 || m.Faces[0][0] == 7 {
		t.Error("mutating the clone changed the original")
	}
}

func TestIsEmpty(t *testing.T) {
	var nilMesh *Mesh
	if !nilMesh.IsEmpty() {
		t.Error("nil mesh should be empty")
	}
	if !(&Mesh{}).IsEmpty() {
		t.Error("zero mesh should be empty")
	}
	m, err := Generate(makePattern(t, "x"), plainParams())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if m.IsEmpty() {
		t.Error("generated mesh should not be empty")
	}
}
