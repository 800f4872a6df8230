package mathutil

import "math"

// Preview camera matrices.
var (
	// ModelFlip converts the Z-up tree space to Y-up screen space: Rx(-90°)
	ModelFlip = RotX(math.Pi / -2)

	// PreviewView looks at a tree slightly from above and off-axis.
	// Rx(15°) @ Ry(-30°) @ MODEL_FLIP
	PreviewView = Mat3Mul(Mat3Mul(RotX(Deg2Rad(15)), RotY(Deg2Rad(-30))), ModelFlip)

	// SideView is a straight side-on elevation.
	SideView = ModelFlip
)
