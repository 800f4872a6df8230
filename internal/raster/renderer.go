// Package raster is a small flat-shaded software rasterizer for tree
// previews.
package raster

import (
	"image"
	"image/color"

	"treegen/internal/mathutil"
	"treegen/internal/scene"
	"treegen/internal/viewmatrix"
)

// DefaultColor is used for faces when no palette is given.
var DefaultColor = color.NRGBA{160, 160, 170, 255}

// Options controls RenderScene.
type Options struct {
	Size        int // output edge in pixels before supersampling
	Supersample int
	Camera      viewmatrix.Camera
	Palette     *image.NRGBA // nil renders every face in DefaultColor
}

// RenderScene renders the mesh objects to a transparent square image of
// Size*Supersample pixels. Curve objects are ignored.
func RenderScene(objects []*scene.Object, opts Options) *image.NRGBA {
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	renderSize := opts.Size * opts.Supersample

	// World vertices of every mesh, plus the combined list for framing
	world := make([][]mathutil.Vec3, 0, len(objects))
	var all []mathutil.Vec3
	var meshes []*scene.Object
	for _, obj := range objects {
		if obj == nil || obj.Mesh == nil || len(obj.Mesh.Faces) == 0 {
			continue
		}
		wv := obj.WorldVertices()
		world = append(world, wv)
		all = append(all, wv...)
		meshes = append(meshes, obj)
	}

	if len(meshes) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}

	margin := 16 * opts.Supersample
	frame := viewmatrix.Fit(all, opts.Camera, renderSize, margin)

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	for m, obj := range meshes {
		px, py, pz := viewmatrix.ProjectVertices(world[m], opts.Camera, frame, renderSize)
		corner := func(f scene.Face, k int) Corner {
			v := f.V[k]
			return Corner{X: px[v], Y: py[v], Z: pz[v], UV: cornerUV(f, k)}
		}
		for _, f := range obj.Mesh.Faces {
			// Fan triangulation; faces are convex
			for k := 1; k+1 < len(f.V); k++ {
				t := [3]Corner{corner(f, 0), corner(f, k), corner(f, k+1)}
				if c, ok := FaceColor(t, opts.Palette, DefaultColor, &lc); ok {
					RasterizeTriangle(fb, t, c)
				}
			}
		}
	}

	return fb.Image()
}

// cornerUV flips V so that V=0 is the bottom row of the palette image.
func cornerUV(f scene.Face, k int) [2]float64 {
	if k >= len(f.UV) {
		return [2]float64{}
	}
	return [2]float64{f.UV[k][0], 1 - f.UV[k][1]}
}

// Coverage returns the fraction of pixels with non-zero alpha.
func Coverage(img *image.NRGBA) float64 {
	n := len(img.Pix) / 4
	if n == 0 {
		return 0
	}
	covered := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			covered++
		}
	}
	return float64(covered) / float64(n)
}
