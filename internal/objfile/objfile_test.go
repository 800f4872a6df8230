package objfile

import (
	"bytes"
	"strings"
	"testing"

	"treegen/internal/mathutil"
	"treegen/internal/scene"
)

func TestWriteReadRoundTrip(t *testing.T) {
	s := scene.New()
	cube := scene.Cube(1)
	cube.SetUniformUV([2]float64{0.25, 0.5})
	if err := s.AddMesh("Box", cube, mathutil.Vec3{2, 0, 0}); err != nil {
		t.Fatal(err)
	}
	cone := scene.Cone(5, 1, 2)
	if err := s.AddMesh("Spike", cone, mathutil.Vec3{}); err != nil {
		t.Fatal(err)
	}
	s.ShadeFlat("Spike")

	var buf bytes.Buffer
	if err := Write(&buf, []*scene.Object{s.Object("Box"), s.Object("Spike")}); err != nil {
		t.Fatal(err)
	}

	groups, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}

	box := groups[0]
	if box.Name != "Box" || len(box.Mesh.Verts) != 8 || len(box.Mesh.Faces) != 6 {
		t.Errorf("box = %s, %d verts, %d faces", box.Name, len(box.Mesh.Verts), len(box.Mesh.Faces))
	}
	lo, hi := box.Mesh.Bounds()
	if !lo.ApproxEqual(mathutil.Vec3{1.5, -0.5, -0.5}, 1e-6) || !hi.ApproxEqual(mathutil.Vec3{2.5, 0.5, 0.5}, 1e-6) {
		t.Errorf("box written in world space: bounds %v..%v", lo, hi)
	}
	uvs := box.Mesh.DistinctUVs()
	if len(uvs) != 1 || uvs[0] != [2]float64{0.25, 0.5} {
		t.Errorf("box uvs = %v", uvs)
	}

	spike := groups[1]
	if !spike.Flat || len(spike.Mesh.Verts) != 6 || len(spike.Mesh.Faces) != 6 {
		t.Errorf("spike = flat %v, %d verts, %d faces", spike.Flat, len(spike.Mesh.Verts), len(spike.Mesh.Faces))
	}
}

func TestReadFormats(t *testing.T) {
	src := `# hand written
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
vt 0 0
vn 0 0 1
g Leaf
usemtl Palette
f 1//1 2//1 3//1
f -3/1 -1/1 -2/1
`
	groups, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 {
		t.Fatalf("groups = %d", len(groups))
	}
	g := groups[0]
	if g.Name != "Leaf" || g.Material != "Palette" {
		t.Errorf("group = %q / %q", g.Name, g.Material)
	}
	if len(g.Mesh.Verts) != 4 || len(g.Mesh.Faces) != 2 {
		t.Errorf("%d verts, %d faces", len(g.Mesh.Verts), len(g.Mesh.Faces))
	}
}

func TestReadErrors(t *testing.T) {
	tests := map[string]string{
		"short face":    "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"bad index":     "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n",
		"bad number":    "v 0 zero 0\n",
		"missing coord": "vt 0.5\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
