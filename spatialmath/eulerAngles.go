// Package spatialmath defines the geometric primitives used to recover a
// head-local orthonormal frame and Euler angles from face landmarks.
package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// EulerAngles are three angles (in radians) used to represent the rotation of
// an object in 3D Euclidean space. The extraction in this package corresponds
// to the intrinsic x-y'-z'' order, R = Rx(Pitch)·Ry(Yaw)·Rz(Roll).
type EulerAngles struct {
	Roll  float64
	Pitch float64
	Yaw   float64
}

// NewEulerAngles creates an empty EulerAngles struct.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{}
}

// Quaternion returns the orientation in quaternion representation.
func (ea *EulerAngles) Quaternion() quat.Number {
	qx := quat.Number{Real: math.Cos(ea.Pitch / 2), Imag: math.Sin(ea.Pitch / 2)}
	qy := quat.Number{Real: math.Cos(ea.Yaw / 2), Jmag: math.Sin(ea.Yaw / 2)}
	qz := quat.Number{Real: math.Cos(ea.Roll / 2), Kmag: math.Sin(ea.Roll / 2)}
	return quat.Mul(qx, quat.Mul(qy, qz))
}

// NormalizeAngle wraps theta into (-pi, pi] and scales the result by 1/pi,
// yielding a value in [-1, 1]. The wrap uses math.Mod, whose sign follows the
// dividend; a strictly non-negative modulus would be wrong for negative input.
func NormalizeAngle(theta float64) float64 {
	angle := math.Mod(theta, 2*math.Pi)

	if angle > math.Pi {
		angle -= 2 * math.Pi
	} else if angle < -math.Pi {
		angle += 2 * math.Pi
	}

	return angle / math.Pi
}
