package wavefront

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mesh.obj")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse(t *testing.T) {
	path := writeTemp(t, `
# a quad and a triangle sharing an edge
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 2 0.5 0

f 1/1/1 2//2 3 4
f 2 5 3
`)
	topo, pos, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if topo.NumVertices != 5 || len(pos) != 5 {
		t.Fatalf("verts = %d", topo.NumVertices)
	}
	if topo.NumFaces() != 2 {
		t.Fatalf("faces = %d", topo.NumFaces())
	}
	if got := topo.Face(0); len(got) != 4 || got[0] != 0 || got[3] != 3 {
		t.Errorf("face 0 = %v", got)
	}
	if got := topo.Face(1); len(got) != 3 || got[1] != 4 {
		t.Errorf("face 1 = %v", got)
	}
	if pos[4] != [3]float32{2, 0.5, 0} {
		t.Errorf("pos[4] = %v", pos[4])
	}
	if err := topo.Validate(); err != nil {
		t.Errorf("parsed topology invalid: %v", err)
	}
}

func TestParseNegativeIndices(t *testing.T) {
	path := writeTemp(t, "v 0 0 0\nv 1 0 0\nv 1 1 0\nf -3 -2 -1\n")
	topo, _, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := topo.Face(0); got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Errorf("face = %v", got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"short vertex", "v 1 2\nf 1 2 3\n"},
		{"bad coord", "v a 0 0\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"bad index", "v 0 0 0\nf 1 x 1\n"},
		{"out of range", "v 0 0 0\nf 1 2 3\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTemp(t, tc.content)
			if _, _, err := Parse(path); err == nil {
				t.Error("accepted")
			}
		})
	}
	if _, _, err := Parse(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestWriteQuadsRoundTrip(t *testing.T) {
	pos := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	quads := []int{0, 1, 2, 3}
	path := filepath.Join(t.TempDir(), "out.obj")
	if err := WriteQuads(path, pos, quads); err != nil {
		t.Fatal(err)
	}

	topo, gotPos, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if topo.NumVertices != 4 || topo.NumFaces() != 1 {
		t.Fatalf("round trip: %d verts %d faces", topo.NumVertices, topo.NumFaces())
	}
	for i := range pos {
		if gotPos[i] != pos[i] {
			t.Errorf("pos[%d] = %v, want %v", i, gotPos[i], pos[i])
		}
	}
	if got := topo.Face(0); got[0] != 0 || got[1] != 1 || got[2] != 2 || got[3] != 3 {
		t.Errorf("face = %v", got)
	}
}

func TestWriteQuadsBadLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.obj")
	if err := WriteQuads(path, nil, []int{0, 1, 2}); err == nil {
		t.Error("non-quad list accepted")
	}
}
