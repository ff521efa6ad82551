package obj

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/printlab/dotforge/pkg/math"
	"github.com/printlab/dotforge/pkg/mesh"
	"github.com/printlab/dotforge/pkg/pattern"
)

func triangleMesh() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Faces:   [][3]int{{0, 1, 2}},
		Normals: []math.Vec3{{Z: 1}},
	}
}

func TestMarshal_Triangle(t *testing.T) {
	want := "# dotforge mesh\n" +
		"# vertices: 3\n" +
		"# faces: 1\n" +
		"v 0.000000 0.000000 0.000000\n" +
		"v 1.000000 0.000000 0.000000\n" +
		"v 0.000000 1.000000 0.000000\n" +
		"f 1 2 3\n"

	got, err := Marshal(triangleMesh())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(got) != want {
		t.Errorf("Marshal() = %q, want %q", got, want)
	}
}

func TestMarshal_Deterministic(t *testing.T) {
	p, err := pattern.New(2, 1, []bool{true, true}, pattern.Meta{})
	if err != nil {
		t.Fatalf("pattern.New() error = %v", err)
	}
	m, err := mesh.Generate(p, mesh.DefaultParams())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	a, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	b, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("Marshal() produced different bytes for the same mesh")
	}
}

func TestMarshal_CountsMatchBody(t *testing.T) {
	p, err := pattern.New(2, 2, []bool{true, false, false, true}, pattern.Meta{})
	if err != nil {
		t.Fatalf("pattern.New() error = %v", err)
	}
	params := mesh.DefaultParams()
	params.GenerateBase = true
	m, err := mesh.Generate(p, params)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var vLines, fLines int
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.HasPrefix(line, "v "):
			vLines++
		case strings.HasPrefix(line, "f "):
			fLines++
		}
	}
	if vLines != len(m.Vertices) {
		t.Errorf("vertex lines = %d, want %d", vLines, len(m.Vertices))
	}
	if fLines != len(m.Faces) {
		t.Errorf("face lines = %d, want %d", fLines, len(m.Faces))
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("output does not end with a newline")
	}
}

func TestMarshal_Invalid(t *testing.T) {
	badIndex := triangleMesh()
	badIndex.Faces[0][2] = 7

	negIndex := triangleMesh()
	negIndex.Faces[0][0] = -1

	tests := []struct {
		name string
		m    *mesh.Mesh
	}{
		{"nil mesh", nil},
		{"no faces", &mesh.Mesh{Vertices: []math.Vec3{{}}}},
		{"index out of range", badIndex},
		{"negative index", negIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.m)
			var exportErr *ExportError
			if !errors.As(err, &exportErr) {
				t.Fatalf("Marshal() error = %v, want *ExportError", err)
			}
		})
	}
}

func TestEncode_NoPartialOutput(t *testing.T) {
	bad := triangleMesh()
	bad.Faces[0][1] = 99

	var buf bytes.Buffer
	if err := Encode(&buf, bad); err == nil {
		t.Fatal("Encode() error = nil, want error")
	}
	if buf.Len() != 0 {
		t.Errorf("Encode() wrote %d bytes on failure, want 0", buf.Len())
	}
}

func TestEncode_MatchesMarshal(t *testing.T) {
	m := triangleMesh()
	want, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Error("Encode() output differs from Marshal()")
	}
}
