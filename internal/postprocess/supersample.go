// Package postprocess turns supersampled renders into preview images.
package postprocess

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Downsample scales a supersampled render down to targetSize×targetSize.
func Downsample(img *image.NRGBA, targetSize int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= targetSize && b.Dy() <= targetSize {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, targetSize, targetSize))
	scaleInto(dst, dst.Bounds(), img)
	return dst
}

// scaleInto resamples src into r of dst with CatmullRom, filtering in
// premultiplied alpha so silhouettes do not pick up dark fringes.
func scaleInto(dst *image.NRGBA, r image.Rectangle, src *image.NRGBA) {
	tmp := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.CatmullRom.Scale(tmp, tmp.Bounds(), premultiply(src), src.Bounds(), draw.Src, nil)

	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			si := tmp.PixOffset(x, y)
			di := dst.PixOffset(r.Min.X+x, r.Min.Y+y)
			p := tmp.Pix[si : si+4 : si+4]
			q := dst.Pix[di : di+4 : di+4]
			if p[3] > 1 {
				inv := 255 / float64(p[3])
				q[0] = clamp8(float64(p[0]) * inv)
				q[1] = clamp8(float64(p[1]) * inv)
				q[2] = clamp8(float64(p[2]) * inv)
			} else {
				q[0], q[1], q[2] = 0, 0, 0
			}
			q[3] = p[3]
		}
	}
}

func premultiply(img *image.NRGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := out.PixOffset(x, y)
			a := float64(img.Pix[si+3]) / 255
			for c := 0; c < 3; c++ {
				out.Pix[di+c] = uint8(float64(img.Pix[si+c])*a + 0.5)
			}
			out.Pix[di+3] = img.Pix[si+3]
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
