// Package landmark provides access to the per-frame face-mesh landmark lists
// produced by an upstream face detector.
package landmark

import (
	"encoding/json"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Face-mesh indices consulted by the head pose estimator, following the
// MediaPipe face-mesh numbering.
const (
	LeftTemple  = 21
	LeftJaw     = 172
	RightTemple = 251
	RightJaw    = 397
)

// MinFaceMeshPoints is the smallest landmark list that contains every
// consulted index.
const MinFaceMeshPoints = 398

// Errors for landmark lists the estimator cannot consume.
var (
	ErrTooFewLandmarks   = errors.New("landmark list has too few points for a face mesh")
	ErrNonFiniteLandmark = errors.New("landmark has a non-finite coordinate")
)

// Point is a single detected feature point. Coordinates follow the upstream
// detector's normalized convention: image-relative x/y, with y growing
// downward, and z a relative depth in commensurate units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// List is an ordered landmark sequence for one frame.
type List struct {
	points []Point
}

// NewList wraps a slice of points as a landmark list.
func NewList(points []Point) *List {
	return &List{points: points}
}

// Len returns the number of landmarks in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.points)
}

// Point returns the landmark at index i as a vector.
func (l *List) Point(i int) r3.Vector {
	pt := l.points[i]
	return r3.Vector{X: pt.X, Y: pt.Y, Z: pt.Z}
}

// CheckFaceMesh verifies the list is a consumable face-mesh frame: it has at
// least MinFaceMeshPoints entries and every consulted coordinate is finite.
func (l *List) CheckFaceMesh() error {
	if l.Len() < MinFaceMeshPoints {
		return errors.Wrapf(ErrTooFewLandmarks, "got %d, need at least %d", l.Len(), MinFaceMeshPoints)
	}
	for _, i := range []int{LeftTemple, LeftJaw, RightTemple, RightJaw} {
		pt := l.points[i]
		for _, coord := range []float64{pt.X, pt.Y, pt.Z} {
			if math.IsNaN(coord) || math.IsInf(coord, 0) {
				return errors.Wrapf(ErrNonFiniteLandmark, "at index %d", i)
			}
		}
	}
	return nil
}

// MarshalJSON encodes the list as a bare array of points.
func (l *List) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.points)
}

// UnmarshalJSON decodes a bare array of points.
func (l *List) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &l.points)
}
