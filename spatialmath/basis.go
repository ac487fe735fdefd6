package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Anchors whose pairwise distances fall below this cannot support a stable
// unit normal.
const degenerateEpsilon = 1e-12

// ErrDegeneratePlane is returned when plane anchors are collinear or
// coincident, so no unit normal can be formed.
var ErrDegeneratePlane = errors.New("plane anchors are collinear or coincident")

// OrthonormalBasis is a right-handed triple of unit vectors describing a
// local frame of reference.
type OrthonormalBasis struct {
	X r3.Vector
	Y r3.Vector
	Z r3.Vector
}

// NewBasisFromPlane derives the local frame of the plane spanned by anchors
// a, b, c. X points from a toward b, Z along the plane normal qb×qc, and Y
// completes the right-handed triple.
func NewBasisFromPlane(a, b, c r3.Vector) (*OrthonormalBasis, error) {
	qb := b.Sub(a)
	qc := c.Sub(a)
	n := qb.Cross(qc)

	if qb.Norm() < degenerateEpsilon || n.Norm() < degenerateEpsilon {
		return nil, ErrDegeneratePlane
	}

	unitZ := n.Normalize()
	unitX := qb.Normalize()
	return &OrthonormalBasis{
		X: unitX,
		Y: unitZ.Cross(unitX),
		Z: unitZ,
	}, nil
}

// EulerAngles reads the rotation of the basis relative to the world frame.
func (ob *OrthonormalBasis) EulerAngles() *EulerAngles {
	return &EulerAngles{
		Yaw:   math.Asin(ob.Z.X),
		Pitch: math.Atan2(-ob.Z.Y, ob.Z.Z),
		Roll:  math.Atan2(-ob.Y.X, ob.X.X),
	}
}
