package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/kalidoface/kalidokit/calculator"
	"github.com/kalidoface/kalidokit/headpose"
)

// poseMessage is the wire envelope for one broadcast record.
type poseMessage struct {
	TimestampMicros int64          `json:"timestamp_us"`
	Head            *headpose.Head `json:"head"`
}

// Server accepts websocket subscribers on /pose and broadcasts each pose
// record to all of them.
type Server struct {
	hub      *Hub
	httpSrv  *http.Server
	listener net.Listener
	logger   golog.Logger

	activeBackgroundWorkers sync.WaitGroup
}

// NewServer listens on addr and serves the pose stream.
func NewServer(addr string, logger golog.Logger) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot listen on %q", addr)
	}

	hub := NewHub(logger)
	mux := http.NewServeMux()
	mux.HandleFunc("/pose", poseHandler(hub, logger))

	s := &Server{
		hub:      hub,
		httpSrv:  &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		listener: listener,
		logger:   logger,
	}

	s.activeBackgroundWorkers.Add(1)
	goutils.PanicCapturingGo(func() {
		defer s.activeBackgroundWorkers.Done()
		if err := s.httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("pose server stopped", "error", err)
		}
	})

	logger.Infow("pose server listening", "address", listener.Addr().String())
	return s, nil
}

// Address returns the bound listen address.
func (s *Server) Address() string {
	return s.listener.Addr().String()
}

// Broadcast encodes one result and fans it out to all subscribers.
func (s *Server) Broadcast(res *calculator.Result) error {
	if res == nil || res.Data == nil {
		return nil
	}
	msg, err := json.Marshal(poseMessage{
		TimestampMicros: res.Timestamp.UnixMicro(),
		Head:            res.Data.Head,
	})
	if err != nil {
		return errors.Wrap(err, "cannot encode pose record")
	}
	s.hub.Broadcast(msg)
	return nil
}

// Close shuts the server down and disconnects all subscribers.
func (s *Server) Close(ctx context.Context) error {
	err := s.httpSrv.Shutdown(ctx)
	s.hub.Stop()
	s.activeBackgroundWorkers.Wait()
	return err
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// subscribers are local UI delegates; origin checks happen upstream
	CheckOrigin: func(*http.Request) bool { return true },
}

func poseHandler(hub *Hub, logger golog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Errorw("cannot upgrade subscriber", "error", err)
			return
		}
		c := newClient(hub, conn)
		go c.writePump()
		c.readPump()
	}
}
