package landmark

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"go.viam.com/test"
)

const captureData = `{"timestamp_us":1000,"landmarks":[{"x":0.1,"y":0.2,"z":0.3},{"x":0.4,"y":0.5,"z":0.6}]}

{"timestamp_us":2000,"landmarks":[]}
{"timestamp_us":3000,"landmarks":[{"x":1,"y":1,"z":1}]}
`

func TestReplaySource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.jsonl")
	test.That(t, os.WriteFile(path, []byte(captureData), 0o600), test.ShouldBeNil)

	src, err := NewReplaySource(path)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, src.Close(), test.ShouldBeNil)
	}()

	ctx := context.Background()

	lms, ts, err := src.NextFace(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lms.Len(), test.ShouldEqual, 2)
	test.That(t, ts, test.ShouldResemble, time.UnixMicro(1000))
	test.That(t, lms.Point(1).Y, test.ShouldAlmostEqual, 0.5)

	// no face this frame; blank line before it is skipped
	lms, ts, err = src.NextFace(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lms, test.ShouldBeNil)
	test.That(t, ts, test.ShouldResemble, time.UnixMicro(2000))

	lms, _, err = src.NextFace(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lms.Len(), test.ShouldEqual, 1)

	_, _, err = src.NextFace(ctx)
	test.That(t, err, test.ShouldBeError, io.EOF)
}

func TestReplaySourceCanceled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.jsonl")
	test.That(t, os.WriteFile(path, []byte(captureData), 0o600), test.ShouldBeNil)

	src, err := NewReplaySource(path)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, src.Close(), test.ShouldBeNil)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = src.NextFace(ctx)
	test.That(t, err, test.ShouldBeError, context.Canceled)
}

func TestTCPSource(t *testing.T) {
	logger := golog.NewTestLogger(t)

	listener, err := net.Listen("tcp", "localhost:0")
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, listener.Close(), test.ShouldBeNil)
	}()

	served := make(chan error, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			served <- err
			return
		}
		_, err = conn.Write([]byte(captureData))
		if err == nil {
			err = conn.Close()
		}
		served <- err
	}()

	src, err := NewTCPSource(listener.Addr().String(), logger)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, src.Close(), test.ShouldBeNil)
	}()

	ctx := context.Background()

	lms, ts, err := src.NextFace(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lms.Len(), test.ShouldEqual, 2)
	test.That(t, ts, test.ShouldResemble, time.UnixMicro(1000))

	lms, _, err = src.NextFace(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lms, test.ShouldBeNil)

	lms, _, err = src.NextFace(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lms.Len(), test.ShouldEqual, 1)

	_, _, err = src.NextFace(ctx)
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, <-served, test.ShouldBeNil)
}
