package tree

import "fmt"

// PointReference locates one control point of the tree skeleton.
// References are only valid until the next structural edit of the curve;
// every split or append hands back a fresh one.
type PointReference struct {
	IsTrunk     bool
	SplineIndex int
	PointIndex  int
}

func (r PointReference) String() string {
	kind := "branch"
	if r.IsTrunk {
		kind = "trunk"
	}
	return fmt.Sprintf("%s[%d:%d]", kind, r.SplineIndex, r.PointIndex)
}
