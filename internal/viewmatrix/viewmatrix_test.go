package viewmatrix

import (
	"math"
	"testing"

	"treegen/internal/mathutil"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestFitCentresBox(t *testing.T) {
	// A 2-unit tall pole standing at x=5 in Z-up space.
	verts := []mathutil.Vec3{{5, 0, 0}, {5, 0, 2}}
	cam := Side()
	f := Fit(verts, cam, 100, 10)
	if !approxEqual(f.Scale, 40, 1e-9) {
		t.Errorf("scale = %g, want 40", f.Scale)
	}

	px, py, _ := ProjectVertices(verts, cam, f, 100)
	// Z-up becomes screen-up: the top vertex has the smaller screen Y.
	if !approxEqual(py[0], 90, 1e-9) || !approxEqual(py[1], 10, 1e-9) {
		t.Errorf("py = %v, want [90 10]", py)
	}
	if !approxEqual(px[0], 50, 1e-9) || !approxEqual(px[1], 50, 1e-9) {
		t.Errorf("px = %v, want centred", px)
	}
}

func TestSideDepth(t *testing.T) {
	// The side camera looks along +Y: points at smaller Y are nearer.
	verts := []mathutil.Vec3{{0, -1, 0}, {0, 1, 0}}
	cam := Side()
	_, _, pz := ProjectVertices(verts, cam, Fit(verts, cam, 64, 0), 64)
	if pz[0] <= pz[1] {
		t.Errorf("pz = %v, want first nearer", pz)
	}
}

func TestPerspectiveShrinksFarPoints(t *testing.T) {
	near := mathutil.Vec3{1, -5, 0}
	far := mathutil.Vec3{1, 5, 0}
	verts := []mathutil.Vec3{near, far, {-1, 0, 0}}
	cam := Side()
	cam.Perspective = true
	f := Fit(verts, cam, 200, 0)
	px, _, _ := ProjectVertices(verts, cam, f, 200)
	if math.Abs(px[0]-100) <= math.Abs(px[1]-100) {
		t.Errorf("near point should project further from centre: %v", px)
	}
}

func TestFitEmpty(t *testing.T) {
	if f := Fit(nil, Preview(), 64, 4); f.Scale != 1 {
		t.Errorf("Fit(nil) = %+v", f)
	}
}
