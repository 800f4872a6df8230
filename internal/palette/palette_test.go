package palette

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestGradientBands(t *testing.T) {
	img := Gradient(64)
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("size = %v", img.Bounds())
	}

	// Same band across a whole UV range of the built-in species.
	green := At([2]float64{0.600, 0.655})
	greenTop := At([2]float64{0.600, 0.955})
	if green.G <= green.R || greenTop.G <= greenTop.R {
		t.Errorf("green band is not green: %v %v", green, greenTop)
	}
	if greenTop.G <= green.G {
		t.Errorf("higher V should be lighter: %v vs %v", greenTop, green)
	}

	brown := At([2]float64{0.472, 0.9})
	red := At([2]float64{0.157, 0.9})
	if brown == red {
		t.Error("brown and red bands coincide")
	}

	// Image and At agree; V=1 is the top row.
	if got, want := img.NRGBAAt(63, 0), At([2]float64{1, 1}); got != want {
		t.Errorf("top-right texel %v, want %v", got, want)
	}
	if got, want := img.NRGBAAt(0, 63), At([2]float64{0, 0}); got != want {
		t.Errorf("bottom-left texel %v, want %v", got, want)
	}
}

func TestLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pal.png")
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	src.Set(1, 1, color.RGBA{10, 20, 30, 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("pixel = %v", got)
	}
}

func TestLoadJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pal.jpg")
	src := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, src, nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if got := img.NRGBAAt(3, 3); got.A != 255 || got.R < 190 || got.R > 210 {
		t.Errorf("pixel = %v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
	junk := filepath.Join(dir, "junk.tga")
	os.WriteFile(junk, []byte("not an image"), 0644)
	if _, err := Load(junk); err == nil {
		t.Error("expected error for junk TGA")
	}
	bmp := filepath.Join(dir, "pal.bmp")
	os.WriteFile(bmp, []byte("BM"), 0644)
	if _, err := Load(bmp); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestCacheShared(t *testing.T) {
	c := NewCache(16)
	var wg sync.WaitGroup
	got := make([]*image.NRGBA, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _ = c.Get("")
		}(i)
	}
	wg.Wait()
	for i := range got {
		if got[i] != got[0] || got[i] == nil {
			t.Fatalf("worker %d got a different palette", i)
		}
	}

	_, err1 := c.Get("/no/such/palette.png")
	_, err2 := c.Get("/no/such/palette.png")
	if err1 == nil || err1 != err2 {
		t.Errorf("failed load not cached: %v / %v", err1, err2)
	}
}
