package calculator

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/kalidoface/kalidokit/landmark"
)

// Source pulls landmark frames from an upstream producer at a fixed rate,
// runs the head pose calculator on each, and caches the most recent result
// for consumers to poll. Frames that fail estimation are logged and dropped;
// empty frames leave the cache untouched.
type Source struct {
	upstream landmark.Source
	calc     *Calculator
	logger   golog.Logger
	ticker   *clock.Ticker

	mu    sync.RWMutex
	cache *Result

	cancelCtx               context.Context
	cancel                  context.CancelFunc
	activeBackgroundWorkers sync.WaitGroup
}

// NewSource starts a source that polls upstream at fps frames per second.
// The clock is injectable so tests can drive the pacing.
func NewSource(upstream landmark.Source, calc *Calculator, fps float64, clk clock.Clock, logger golog.Logger) (*Source, error) {
	if upstream == nil {
		return nil, errors.New("landmark source cannot be nil")
	}
	if calc == nil {
		return nil, errors.New("calculator cannot be nil")
	}
	if fps <= 0 {
		return nil, errors.Errorf("frame rate must be positive, got %f", fps)
	}

	cancelCtx, cancel := context.WithCancel(context.Background())
	s := &Source{
		upstream:  upstream,
		calc:      calc,
		logger:    logger,
		ticker:    clk.Ticker(time.Duration(float64(time.Second) / fps)),
		cancelCtx: cancelCtx,
		cancel:    cancel,
	}

	s.activeBackgroundWorkers.Add(1)
	goutils.PanicCapturingGo(func() {
		defer s.activeBackgroundWorkers.Done()
		s.pullFrames()
	})
	return s, nil
}

func (s *Source) pullFrames() {
	for {
		if !goutils.SelectContextOrWaitChan(s.cancelCtx, s.ticker.C) {
			return
		}

		lms, ts, err := s.upstream.NextFace(s.cancelCtx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Errorw("cannot read landmark frame", "error", err)
			continue
		}

		res, err := s.calc.Process(s.cancelCtx, Packet{Landmarks: lms, Timestamp: ts})
		if err != nil {
			s.logger.Debugw("frame dropped", "error", err)
			continue
		}
		if res == nil {
			// no face this frame
			continue
		}

		s.mu.Lock()
		s.cache = res
		s.mu.Unlock()
	}
}

// Next returns the most recent result, or nil if no face has been seen yet.
func (s *Source) Next(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache, nil
}

// Close stops the pull loop and closes the upstream producer.
func (s *Source) Close() error {
	s.cancel()
	s.ticker.Stop()
	s.activeBackgroundWorkers.Wait()
	return s.upstream.Close()
}
