// Package palette provides the gradient palette texture that tree UVs
// index into.
//
// The palette is a set of vertical colour bands: U picks the hue band and
// V the shade within it, with V = 0 at the bottom of the image.
package palette

import (
	"image"
	"image/color"
	"math"
)

// Stop is one hue band of the built-in palette, centred at U.
type Stop struct {
	U     float64
	Color color.NRGBA
}

// Stops are the hue bands of the built-in palette, ordered by U. The
// named bands match the colours of the built-in species.
var Stops = []Stop{
	{0.000, color.NRGBA{96, 64, 150, 255}},
	{0.157, color.NRGBA{205, 48, 62, 255}}, // red
	{0.310, color.NRGBA{222, 132, 164, 255}},
	{0.472, color.NRGBA{118, 78, 46, 255}},  // trunk brown
	{0.600, color.NRGBA{74, 156, 62, 255}},  // green
	{0.720, color.NRGBA{226, 196, 64, 255}}, // yellow
	{0.782, color.NRGBA{230, 128, 42, 255}}, // orange
	{1.000, color.NRGBA{64, 112, 196, 255}},
}

// Gradient renders the built-in palette as a size×size image.
func Gradient(size int) *image.NRGBA {
	if size < 2 {
		size = 2
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for x := 0; x < size; x++ {
		base := hueAt(float64(x) / float64(size-1))
		for y := 0; y < size; y++ {
			v := 1 - float64(y)/float64(size-1)
			img.SetNRGBA(x, y, shade(base, v))
		}
	}
	return img
}

// At returns the built-in palette colour for a UV pair without
// rasterizing the image.
func At(uv [2]float64) color.NRGBA {
	return shade(hueAt(clamp01(uv[0])), clamp01(uv[1]))
}

// hueAt picks the nearest band; bands are flat so a UV range never bleeds
// into a neighbouring hue.
func hueAt(u float64) color.NRGBA {
	best := Stops[0]
	for _, s := range Stops[1:] {
		if math.Abs(s.U-u) < math.Abs(best.U-u) {
			best = s
		}
	}
	return best.Color
}

// shade darkens towards the bottom of the band and lifts the very top.
func shade(c color.NRGBA, v float64) color.NRGBA {
	k := 0.35 + 0.65*v
	lift := math.Max(0, v-0.9) * 2.5
	f := func(x uint8) uint8 {
		y := float64(x)*k + (255-float64(x)*k)*lift*0.3
		return uint8(math.Min(255, math.Round(y)))
	}
	return color.NRGBA{f(c.R), f(c.G), f(c.B), 255}
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
