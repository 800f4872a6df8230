package raster

import (
	"image"
	"image/color"
	"testing"

	"treegen/internal/mathutil"
	"treegen/internal/palette"
	"treegen/internal/scene"
	"treegen/internal/viewmatrix"
)

func cubeScene(t *testing.T, uv [2]float64) []*scene.Object {
	t.Helper()
	s := scene.New()
	cube := scene.Cube(2)
	cube.SetUniformUV(uv)
	if err := s.AddMesh("Box", cube, mathutil.Vec3{}); err != nil {
		t.Fatal(err)
	}
	return []*scene.Object{s.Object("Box")}
}

func TestRenderSceneCoverage(t *testing.T) {
	img := RenderScene(cubeScene(t, [2]float64{0.6, 0.8}), Options{
		Size:        64,
		Supersample: 2,
		Camera:      viewmatrix.Side(),
	})
	if img.Bounds() != image.Rect(0, 0, 128, 128) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	c := Coverage(img)
	// The side view of a cube is a square filling the 64px framed area.
	if c < 0.2 || c > 0.35 {
		t.Errorf("coverage = %.2f", c)
	}
	if img.NRGBAAt(0, 0).A != 0 {
		t.Error("corner should stay transparent")
	}
	if img.NRGBAAt(64, 64).A == 0 {
		t.Error("centre should be covered")
	}
}

func TestRenderScenePalette(t *testing.T) {
	green := [2]float64{0.600, 0.8}
	img := RenderScene(cubeScene(t, green), Options{
		Size:    128,
		Camera:  viewmatrix.Preview(),
		Palette: palette.Gradient(64),
	})
	c := img.NRGBAAt(64, 64)
	if c.A == 0 {
		t.Fatal("centre not covered")
	}
	if c.G <= c.R || c.G <= c.B {
		t.Errorf("centre pixel %v is not green", c)
	}
}

func TestRenderSceneEmpty(t *testing.T) {
	s := scene.New()
	s.CreateCurve("Stick", mathutil.Vec3{})
	img := RenderScene([]*scene.Object{s.Object("Stick"), nil}, Options{Size: 16, Camera: viewmatrix.Side()})
	if Coverage(img) != 0 {
		t.Error("curves and nil objects should not render")
	}
}

func TestComputeShadePositive(t *testing.T) {
	lc := DefaultLightConfig()
	for _, n := range []mathutil.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0, 0, -1}} {
		if s := lc.ComputeShade(n); s <= lc.Ambient {
			t.Errorf("shade(%v) = %g, want > ambient", n, s)
		}
	}
}

func TestDepthOrder(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	far := [3]Corner{{X: 0, Y: 0, Z: 1}, {X: 8, Y: 0, Z: 1}, {X: 0, Y: 8, Z: 1}}
	near := [3]Corner{{X: 0, Y: 0, Z: 2}, {X: 8, Y: 0, Z: 2}, {X: 0, Y: 8, Z: 2}}

	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}

	RasterizeTriangle(fb, near, blue)
	RasterizeTriangle(fb, far, red)

	i := (1*8 + 1) * 4
	if fb.Color[i+2] != 255 || fb.Color[i] != 0 {
		t.Errorf("far triangle overwrote near one: %v", fb.Color[i:i+4])
	}
}

func TestFaceColor(t *testing.T) {
	lc := DefaultLightConfig()
	tri := [3]Corner{{X: 0, Y: 0, Z: 0}, {X: 4, Y: 0, Z: 0}, {X: 0, Y: 4, Z: 0}}

	c, ok := FaceColor(tri, nil, DefaultColor, &lc)
	if !ok || c.A != 255 {
		t.Fatalf("FaceColor = %v, %v", c, ok)
	}

	flat := [3]Corner{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	if _, ok := FaceColor(flat, nil, DefaultColor, &lc); ok {
		t.Error("degenerate triangle reported a colour")
	}

	transparent := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	if _, ok := FaceColor(tri, transparent, DefaultColor, &lc); ok {
		t.Error("transparent palette texel reported a colour")
	}
}

func TestSamplePaletteNearestClamped(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	tex.Pix = []uint8{255, 0, 0, 255, 0, 0, 255, 255}

	tests := []struct {
		u     float64
		wantR uint8
	}{
		{-0.5, 255}, {0.2, 255}, {0.49, 255}, {0.51, 0}, {1.0, 0}, {3, 0},
	}
	for _, tt := range tests {
		if r, _, _, _ := SamplePalette(tex, tt.u, 0.5); r != tt.wantR {
			t.Errorf("SamplePalette(u=%g) red = %d, want %d", tt.u, r, tt.wantR)
		}
	}
}
