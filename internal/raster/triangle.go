package raster

import (
	"image"
	"image/color"
	"math"

	"treegen/internal/mathutil"
)

// Corner is a projected triangle corner: X and Y in pixels, Z growing
// towards the viewer, UV in palette image space (V down).
type Corner struct {
	X, Y, Z float64
	UV      [2]float64
}

// FaceColor resolves the lit colour of a triangle. Tree meshes carry one UV
// pair per object, so the palette is sampled once at the UV centroid and
// the result is shaded by the screen-space face normal. ok is false for
// degenerate triangles and transparent texels.
func FaceColor(t [3]Corner, tex *image.NRGBA, def color.NRGBA, lc *LightConfig) (color.NRGBA, bool) {
	e1 := mathutil.Vec3{t[1].X - t[0].X, t[1].Y - t[0].Y, t[1].Z - t[0].Z}
	e2 := mathutil.Vec3{t[2].X - t[0].X, t[2].Y - t[0].Y, t[2].Z - t[0].Z}
	n := e1.Cross(e2)
	if n.Len() < 1e-8 {
		return color.NRGBA{}, false
	}

	c := def
	if tex != nil {
		u := (t[0].UV[0] + t[1].UV[0] + t[2].UV[0]) / 3
		v := (t[0].UV[1] + t[1].UV[1] + t[2].UV[1]) / 3
		c.R, c.G, c.B, c.A = SamplePalette(tex, u, v)
	}
	if c.A < 8 {
		return color.NRGBA{}, false
	}

	k := lc.ComputeShade(n.Normalize()) * lc.Exposure
	return color.NRGBA{
		R: lc.toDisplay(srgbToLinear[c.R] * k),
		G: lc.toDisplay(srgbToLinear[c.G] * k),
		B: lc.toDisplay(srgbToLinear[c.B] * k),
		A: c.A,
	}, true
}

// toDisplay tone maps a linear value and encodes it back to sRGB.
func (lc *LightConfig) toDisplay(x float64) uint8 {
	return clamp255(math.Pow(ACESTonemap(x), lc.InvGamma) * 255)
}

// RasterizeTriangle fills t with c wherever it is nearer than what the
// depth buffer holds. Winding does not matter.
func RasterizeTriangle(fb *FrameBuffer, t [3]Corner, c color.NRGBA) {
	area := edge(t[0], t[1], t[2].X, t[2].Y)
	if math.Abs(area) < 1e-8 {
		return
	}
	inv := 1 / area

	minX := max(0, int(math.Floor(min(t[0].X, t[1].X, t[2].X))))
	maxX := min(fb.Width-1, int(math.Ceil(max(t[0].X, t[1].X, t[2].X))))
	minY := max(0, int(math.Floor(min(t[0].Y, t[1].Y, t[2].Y))))
	maxY := min(fb.Height-1, int(math.Ceil(max(t[0].Y, t[1].Y, t[2].Y))))

	for y := minY; y <= maxY; y++ {
		fy := float64(y)
		row := y * fb.Width
		for x := minX; x <= maxX; x++ {
			fx := float64(x)
			w0 := edge(t[1], t[2], fx, fy) * inv
			w1 := edge(t[2], t[0], fx, fy) * inv
			w2 := 1 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*t[0].Z + w1*t[1].Z + w2*t[2].Z
			i := row + x
			if z <= fb.ZBuf[i] {
				continue
			}
			fb.ZBuf[i] = z
			p := fb.Color[i*4 : i*4+4 : i*4+4]
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
		}
	}
}

// edge is twice the signed area of (a, b, p).
func edge(a, b Corner, px, py float64) float64 {
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
