// Package viewmatrix places the preview camera and projects scene vertices
// to screen space.
package viewmatrix

import (
	"math"

	"treegen/internal/mathutil"
)

// DefaultFOV is the vertical field of view for perspective previews, in
// degrees.
const DefaultFOV = 35.0

// Camera is a view rotation plus optional perspective.
type Camera struct {
	View        mathutil.Mat3
	Perspective bool
	FOV         float64 // degrees; 0 means DefaultFOV
}

// Preview is the three-quarter camera used for batch renders.
func Preview() Camera {
	return Camera{View: mathutil.PreviewView, Perspective: true}
}

// Side is an orthographic side elevation.
func Side() Camera {
	return Camera{View: mathutil.SideView}
}

// Frame is the screen fit of a vertex set: the view-space centre and the
// pixels-per-unit scale.
type Frame struct {
	Center mathutil.Vec3
	Scale  float64
}

// Fit centres the view-space bounding box of verts in a renderSize square
// leaving margin pixels on every side.
func Fit(verts []mathutil.Vec3, cam Camera, renderSize, margin int) Frame {
	if len(verts) == 0 {
		return Frame{Scale: 1}
	}
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range verts {
		t := cam.View.MulVec3(v)
		lo = lo.Min(t)
		hi = hi.Max(t)
	}

	span := math.Max(hi[0]-lo[0], hi[1]-lo[1])
	if span < 0.001 {
		span = 0.001
	}
	avail := renderSize - 2*margin
	if avail < 1 {
		avail = 1
	}
	return Frame{
		Center: lo.Add(hi).Scale(0.5),
		Scale:  float64(avail) / span,
	}
}

// ProjectVertices transforms 3D vertices to 2D screen coordinates.
// Returns px, py, pz slices (screen X, screen Y, depth); larger pz is
// nearer the camera.
func ProjectVertices(verts []mathutil.Vec3, cam Camera, f Frame, renderSize int) ([]float64, []float64, []float64) {
	n := len(verts)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)

	half := float64(renderSize) / 2

	// Perspective setup
	var perspCamDist, perspZCenter float64
	if cam.Perspective {
		fov := cam.FOV
		if fov == 0 {
			fov = DefaultFOV
		}
		halfFOV := mathutil.Deg2Rad(fov / 2)

		// Compute z range and xy half-extent from ALL transformed verts
		zMin, zMax, xyMax := math.Inf(1), math.Inf(-1), 0.0
		for _, v := range verts {
			t := cam.View.MulVec3(v)
			zMin = math.Min(zMin, t[2])
			zMax = math.Max(zMax, t[2])
			for k := 0; k < 2; k++ {
				xyMax = math.Max(xyMax, math.Abs(t[k]-f.Center[k]))
			}
		}
		perspZCenter = (zMin + zMax) / 2
		if xyMax < 0.001 {
			xyMax = 0.001
		}
		perspCamDist = xyMax / math.Tan(halfFOV)
	}

	for i, v := range verts {
		t := cam.View.MulVec3(v)
		cx, cy := t[0]-f.Center[0], t[1]-f.Center[1]

		if cam.Perspective {
			zOff := t[2] - perspZCenter
			depth := math.Max(perspCamDist-zOff, 0.1)
			factor := perspCamDist / depth
			cx *= factor
			cy *= factor
		}

		px[i] = cx*f.Scale + half
		py[i] = -cy*f.Scale + half
		pz[i] = t[2]
	}

	return px, py, pz
}
