// Package headpose reduces a frame of face-mesh landmarks to head rotation,
// position, and size.
package headpose

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/kalidoface/kalidokit/landmark"
	"github.com/kalidoface/kalidokit/spatialmath"
	"github.com/kalidoface/kalidokit/utils"
)

// Estimate derives the head pose for a single frame. The temples and the
// midpoint of the jaw landmarks span a face plane; the plane's orthonormal
// frame yields the Euler angles. Estimate is pure and stateless, so distinct
// frames may be processed concurrently.
//
// The rotation reported for the x and z axes is sign-flipped to match the
// camera-facing display convention of downstream consumers; y is not.
func Estimate(lms *landmark.List) (*KalidokitData, error) {
	if err := lms.CheckFaceMesh(); err != nil {
		return nil, err
	}

	p1 := lms.Point(landmark.LeftTemple)
	p2 := lms.Point(landmark.RightTemple)
	p3 := lms.Point(landmark.RightJaw)
	p4 := lms.Point(landmark.LeftJaw)
	// the jaw midpoint is less sensitive to vertical asymmetry in the
	// detector's jaw landmarks than either single point
	p3mid := p3.Add(p4).Mul(0.5)

	a, b, c := p1, p2, p3mid
	basis, err := spatialmath.NewBasisFromPlane(a, b, c)
	if err != nil {
		return nil, errors.Wrap(err, "cannot derive head frame")
	}

	ea := basis.EulerAngles()
	rx := -spatialmath.NormalizeAngle(ea.Pitch)
	ry := spatialmath.NormalizeAngle(ea.Yaw)
	rz := -spatialmath.NormalizeAngle(ea.Roll)

	midPoint := a.Add(b).Mul(0.5)
	width := a.Sub(b).Norm()
	height := midPoint.Sub(c).Norm()
	position := midPoint.Add(b).Mul(0.5)

	return newKalidokitData(rx, ry, rz, width, height, position), nil
}

func newKalidokitData(rx, ry, rz, width, height float64, position r3.Vector) *KalidokitData {
	radX := rx * math.Pi
	radY := ry * math.Pi
	radZ := rz * math.Pi

	return &KalidokitData{
		Head: &Head{
			X:      radX,
			Y:      radY,
			Z:      radZ,
			Width:  width,
			Height: height,
			Position: &Position{
				X: position.X,
				Y: position.Y,
				Z: position.Z,
			},
			Normalized: &Normalized{X: rx, Y: ry, Z: rz},
			Degrees: &Degrees{
				X: utils.RadToDeg(radX),
				Y: utils.RadToDeg(radY),
				Z: utils.RadToDeg(radZ),
			},
		},
	}
}
