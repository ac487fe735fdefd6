package landmark

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
)

// Source yields successive landmark frames from an upstream producer. A nil
// list with a nil error is the legal "no face this frame" signal.
type Source interface {
	// NextFace returns the next frame's landmarks and timestamp. It returns
	// io.EOF once the producer is exhausted.
	NextFace(ctx context.Context) (*List, time.Time, error)
	Close() error
}

// frame is the JSON-lines wire form used by landmark producers: one object
// per line, an empty landmarks array meaning no face was detected.
type frame struct {
	TimestampMicros int64   `json:"timestamp_us"`
	Landmarks       []Point `json:"landmarks"`
}

func (f *frame) timestamp() time.Time {
	if f.TimestampMicros == 0 {
		return time.Now()
	}
	return time.UnixMicro(f.TimestampMicros)
}

func decodeFrame(line string) (*List, time.Time, error) {
	var f frame
	if err := json.Unmarshal([]byte(line), &f); err != nil {
		return nil, time.Time{}, errors.Wrap(err, "cannot decode landmark frame")
	}
	if len(f.Landmarks) == 0 {
		return nil, f.timestamp(), nil
	}
	return NewList(f.Landmarks), f.timestamp(), nil
}

// TCPSource reads landmark frames from a producer over TCP, one JSON frame
// per line.
type TCPSource struct {
	conn   net.Conn
	reader *bufio.Reader
	logger golog.Logger
}

// NewTCPSource connects to the landmark producer at host.
func NewTCPSource(host string, logger golog.Logger) (*TCPSource, error) {
	conn, err := net.DialTimeout("tcp", host, 3*time.Second)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot reach landmark producer at %q", host)
	}
	return &TCPSource{conn: conn, reader: bufio.NewReader(conn), logger: logger}, nil
}

// NextFace reads one frame off the connection. Blank lines are skipped.
func (s *TCPSource) NextFace(ctx context.Context) (*List, time.Time, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, time.Time{}, err
		}
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, time.Time{}, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		return decodeFrame(line)
	}
}

// Close closes the underlying connection.
func (s *TCPSource) Close() error {
	return s.conn.Close()
}

// ReplaySource reads landmark frames from a JSONL capture file, for offline
// runs and tests.
type ReplaySource struct {
	file    *os.File
	scanner *bufio.Scanner
}

// NewReplaySource opens the capture at path.
func NewReplaySource(path string) (*ReplaySource, error) {
	//nolint:gosec
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open landmark capture")
	}
	scanner := bufio.NewScanner(file)
	// a full face-mesh frame can exceed the default token size
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	return &ReplaySource{file: file, scanner: scanner}, nil
}

// NextFace returns the next recorded frame, or io.EOF after the last one.
func (s *ReplaySource) NextFace(ctx context.Context) (*List, time.Time, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, time.Time{}, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, time.Time{}, err
			}
			return nil, time.Time{}, io.EOF
		}
		if strings.TrimSpace(s.scanner.Text()) == "" {
			continue
		}
		return decodeFrame(s.scanner.Text())
	}
}

// Close closes the capture file.
func (s *ReplaySource) Close() error {
	return s.file.Close()
}
