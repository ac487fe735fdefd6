package calculator_test

import (
	"context"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/kalidoface/kalidokit/calculator"
	"github.com/kalidoface/kalidokit/landmark"
	"github.com/kalidoface/kalidokit/spatialmath"
)

func frontFaceMesh() *landmark.List {
	points := make([]landmark.Point, landmark.MinFaceMeshPoints)
	points[landmark.LeftTemple] = landmark.Point{X: -1}
	points[landmark.LeftJaw] = landmark.Point{X: -0.5, Y: 1}
	points[landmark.RightTemple] = landmark.Point{X: 1}
	points[landmark.RightJaw] = landmark.Point{X: 0.5, Y: 1}
	return landmark.NewList(points)
}

func TestProcess(t *testing.T) {
	logger := golog.NewTestLogger(t)
	calc := calculator.New(logger)
	ctx := context.Background()
	ts := time.UnixMicro(42)

	res, err := calc.Process(ctx, calculator.Packet{Landmarks: frontFaceMesh(), Timestamp: ts})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res, test.ShouldNotBeNil)
	test.That(t, res.Timestamp, test.ShouldResemble, ts)
	test.That(t, res.Data.Head, test.ShouldNotBeNil)
	test.That(t, res.Data.Head.Width, test.ShouldAlmostEqual, 2, 1e-5)
}

func TestProcessEmptyFrame(t *testing.T) {
	logger := golog.NewTestLogger(t)
	calc := calculator.New(logger)
	ctx := context.Background()

	// absent upstream packet: no output and no error
	res, err := calc.Process(ctx, calculator.Packet{Timestamp: time.UnixMicro(42)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res, test.ShouldBeNil)

	res, err = calc.Process(ctx, calculator.Packet{Landmarks: landmark.NewList(nil)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res, test.ShouldBeNil)
}

func TestProcessBadFrames(t *testing.T) {
	logger := golog.NewTestLogger(t)
	calc := calculator.New(logger)
	ctx := context.Background()

	_, err := calc.Process(ctx, calculator.Packet{Landmarks: landmark.NewList(make([]landmark.Point, 5))})
	test.That(t, errors.Is(err, landmark.ErrTooFewLandmarks), test.ShouldBeTrue)

	collinear := make([]landmark.Point, landmark.MinFaceMeshPoints)
	collinear[landmark.LeftTemple] = landmark.Point{X: 0}
	collinear[landmark.LeftJaw] = landmark.Point{X: 0.25}
	collinear[landmark.RightTemple] = landmark.Point{X: 1}
	collinear[landmark.RightJaw] = landmark.Point{X: 0.75}
	_, err = calc.Process(ctx, calculator.Packet{Landmarks: landmark.NewList(collinear)})
	test.That(t, errors.Is(err, spatialmath.ErrDegeneratePlane), test.ShouldBeTrue)

	// a bad frame does not poison the next one
	res, err := calc.Process(ctx, calculator.Packet{Landmarks: frontFaceMesh()})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res, test.ShouldNotBeNil)
}

func TestProcessCanceledContext(t *testing.T) {
	logger := golog.NewTestLogger(t)
	calc := calculator.New(logger)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := calc.Process(ctx, calculator.Packet{Landmarks: frontFaceMesh()})
	test.That(t, err, test.ShouldBeError, context.Canceled)
}
