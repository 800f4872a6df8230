package raster

import "image"

// SamplePalette returns the texel nearest to (u, v), with coordinates
// clamped to the image.
func SamplePalette(tex *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()

	x := clampIndex(int(u*float64(w)), w)
	y := clampIndex(int(v*float64(h)), h)

	i := y*tex.Stride + x*4
	return tex.Pix[i], tex.Pix[i+1], tex.Pix[i+2], tex.Pix[i+3]
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
