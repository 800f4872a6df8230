package postprocess

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.NRGBA, r image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDownsampleKeepsEdgeColour(t *testing.T) {
	green := color.NRGBA{40, 200, 60, 255}
	src := solid(64, 64, green, image.Rect(16, 16, 48, 48))
	dst := Downsample(src, 32)
	if dst.Bounds().Dx() != 32 {
		t.Fatalf("size = %v", dst.Bounds())
	}
	if got := dst.NRGBAAt(16, 16); !near(got, green, 2) {
		t.Errorf("interior = %v, want %v", got, green)
	}
	// Partly covered edge pixels keep the hue instead of darkening.
	for x := 6; x <= 9; x++ {
		edge := dst.NRGBAAt(x, 16)
		if edge.A > 0 && edge.G < 150 {
			t.Errorf("edge pixel %d darkened: %v", x, edge)
		}
	}
}

func near(a, b color.NRGBA, tol int) bool {
	d := func(x, y uint8) bool { return abs(int(x)-int(y)) <= tol }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestDownsampleNoop(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	if Downsample(src, 32) != src {
		t.Error("smaller image should be returned unchanged")
	}
}

func TestFitTileStandsOnGround(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	// A tall thin shape in the top-left corner.
	src := solid(100, 100, red, image.Rect(5, 5, 15, 45))
	tile := FitTile(src, 50, 0.8)

	if tile.Bounds().Dx() != 50 {
		t.Fatalf("tile size = %v", tile.Bounds())
	}
	cropped, ok := cropAlpha(tile)
	if !ok {
		t.Fatal("tile is empty")
	}
	if h := cropped.Bounds().Dy(); h < 38 || h > 42 {
		t.Errorf("height = %d, want ~40", h)
	}
	// Bottom gap is 5px.
	if tile.NRGBAAt(25, 44).A == 0 || tile.NRGBAAt(25, 46).A != 0 {
		t.Error("shape not standing on the ground line")
	}
}

func TestFitTileEmpty(t *testing.T) {
	tile := FitTile(image.NewNRGBA(image.Rect(0, 0, 10, 10)), 8, 0.9)
	if _, ok := cropAlpha(tile); ok {
		t.Error("empty input should give an empty tile")
	}
}

func TestContactSheet(t *testing.T) {
	c := color.NRGBA{0, 0, 255, 255}
	tiles := []*image.NRGBA{
		solid(4, 4, c, image.Rect(0, 0, 4, 4)),
		solid(4, 4, c, image.Rect(0, 0, 1, 1)),
		solid(4, 4, c, image.Rect(0, 0, 4, 4)),
	}
	sheet := ContactSheet(tiles, 2)
	if sheet.Bounds() != image.Rect(0, 0, 8, 8) {
		t.Fatalf("bounds = %v", sheet.Bounds())
	}
	if sheet.NRGBAAt(5, 1).A != 0 || sheet.NRGBAAt(4, 0).A == 0 {
		t.Error("second tile misplaced")
	}
	if sheet.NRGBAAt(1, 5).A == 0 || sheet.NRGBAAt(5, 5).A != 0 {
		t.Error("third tile misplaced")
	}
}
