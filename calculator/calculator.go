// Package calculator adapts the head pose estimator to a per-frame graph
// node: packets in, pose records out, timestamps passed through untouched.
package calculator

import (
	"context"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/kalidoface/kalidokit/headpose"
	"github.com/kalidoface/kalidokit/landmark"
)

// Packet is one frame of input. A nil or empty Landmarks field is the legal
// "no face this frame" signal from the upstream detector.
type Packet struct {
	Landmarks *landmark.List
	Timestamp time.Time
}

// Result carries the pose record for a frame under the frame's own timestamp.
type Result struct {
	Data      *headpose.KalidokitData
	Timestamp time.Time
}

// Calculator runs the head pose estimator on successive packets. It holds no
// cross-frame state; every invocation is independent.
type Calculator struct {
	logger golog.Logger
}

// New returns a head pose calculator.
func New(logger golog.Logger) *Calculator {
	return &Calculator{logger: logger}
}

// Process estimates the head pose for one packet. An empty packet produces
// neither a result nor an error. Malformed or degenerate frames return an
// error; the next frame is always a fresh attempt.
func (c *Calculator) Process(ctx context.Context, pkt Packet) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pkt.Landmarks.Len() == 0 {
		return nil, nil
	}
	data, err := headpose.Estimate(pkt.Landmarks)
	if err != nil {
		return nil, errors.Wrapf(err, "frame at %s dropped", pkt.Timestamp.Format(time.RFC3339Nano))
	}
	return &Result{Data: data, Timestamp: pkt.Timestamp}, nil
}
