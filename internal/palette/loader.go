package palette

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
)

// Load reads a PNG, JPEG or TGA palette texture and returns an NRGBA image.
// The decoder is chosen by extension.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("palette: open %s: %w", path, err)
	}
	defer f.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tga":
		img, err = tga.Decode(f)
	case ".png":
		img, err = png.Decode(f)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(f)
	default:
		return nil, fmt.Errorf("palette: %s: unsupported format", path)
	}
	if err != nil {
		return nil, fmt.Errorf("palette: decode %s: %w", path, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("palette: %s is empty", path)
	}

	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA format with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 255
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				i := dst.PixOffset(x, y)
				dst.Pix[i] = c.R
				dst.Pix[i+1] = c.G
				dst.Pix[i+2] = c.B
				dst.Pix[i+3] = c.A
			}
		}
	}
	return dst
}
