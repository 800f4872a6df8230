package postprocess

import (
	"image"
	"image/draw"
	"math"
)

// FitTile crops img to its opaque pixels and scales the result into a
// size×size tile, centred horizontally and standing on the bottom edge.
// fillRatio is the fraction of the tile the longer side may occupy.
func FitTile(img *image.NRGBA, size int, fillRatio float64) *image.NRGBA {
	tile := image.NewNRGBA(image.Rect(0, 0, size, size))
	cropped, ok := cropAlpha(img)
	if !ok {
		return tile
	}

	b := cropped.Bounds()
	maxDim := float64(size) * fillRatio
	scaleF := maxDim / math.Max(float64(b.Dx()), float64(b.Dy()))
	newW := max(1, int(float64(b.Dx())*scaleF+0.5))
	newH := max(1, int(float64(b.Dy())*scaleF+0.5))

	// Feet on the ground: same bottom gap as the side gap of a full tile
	gap := int(float64(size)*(1-fillRatio)/2 + 0.5)
	offX := (size - newW) / 2
	offY := size - gap - newH
	scaleInto(tile, image.Rect(offX, offY, offX+newW, offY+newH), cropped)
	return tile
}

// ContactSheet lays tiles out left to right, top to bottom, cols per row.
// All tiles are drawn at the size of the first one.
func ContactSheet(tiles []*image.NRGBA, cols int) *image.NRGBA {
	if len(tiles) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	if cols < 1 {
		cols = 1
	}
	cols = min(cols, len(tiles))
	rows := (len(tiles) + cols - 1) / cols
	tw, th := tiles[0].Bounds().Dx(), tiles[0].Bounds().Dy()

	sheet := image.NewNRGBA(image.Rect(0, 0, cols*tw, rows*th))
	for i, t := range tiles {
		at := image.Pt((i%cols)*tw, (i/cols)*th)
		r := image.Rectangle{Min: at, Max: at.Add(image.Pt(tw, th))}
		draw.Draw(sheet, r, t, t.Bounds().Min, draw.Over)
	}
	return sheet
}

// cropAlpha returns the bounding box of non-transparent pixels as a new
// image. ok is false when img is fully transparent.
func cropAlpha(img *image.NRGBA) (*image.NRGBA, bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.Pix[y*img.Stride+x*4+3] > 0 {
				minX = min(minX, x)
				maxX = max(maxX, x)
				minY = min(minY, y)
				maxY = max(maxY, y)
			}
		}
	}

	if maxX < 0 {
		return nil, false
	}

	cropW := maxX - minX + 1
	cropH := maxY - minY + 1
	cropped := image.NewNRGBA(image.Rect(0, 0, cropW, cropH))
	for y := 0; y < cropH; y++ {
		srcOff := (minY+y)*img.Stride + minX*4
		dstOff := y * cropped.Stride
		copy(cropped.Pix[dstOff:dstOff+cropW*4], img.Pix[srcOff:srcOff+cropW*4])
	}
	return cropped, true
}
