package stream

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// Handler receives item_listed events. It runs on the reader goroutine, so
// the next frame is not read until it returns.
type Handler func(ctx context.Context, ev Event)

// Session manages one logical connection to the stream. Run may be called
// again after it returns; counters accumulate across runs.
type Session struct {
	cfg    Config
	logger *slog.Logger

	state atomic.Int32
	ref   atomic.Int64 // join ref counter

	runs       atomic.Int64
	received   atomic.Int64
	dispatched atomic.Int64
	ignored    atomic.Int64
	malformed  atomic.Int64
	heartbeats atomic.Int64

	errMu   sync.Mutex
	lastErr error

	// heartbeatSend, when set, replaces the socket write for heartbeats.
	heartbeatSend func(Command) error
}

// NewSession creates a session. It does not connect.
func NewSession(cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = DefaultConfig().HeartbeatInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultConfig().WriteTimeout
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultConfig().HandshakeTimeout
	}

	return &Session{
		cfg:    cfg,
		logger: logger,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Stats returns cumulative counters.
func (s *Session) Stats() Stats {
	st := Stats{
		State:      s.State(),
		Runs:       s.runs.Load(),
		Received:   s.received.Load(),
		Dispatched: s.dispatched.Load(),
		Ignored:    s.ignored.Load(),
		Malformed:  s.malformed.Load(),
		Heartbeats: s.heartbeats.Load(),
	}

	s.errMu.Lock()
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	s.errMu.Unlock()

	return st
}

// Run connects, joins the collection channel and streams until the
// connection fails or ctx is cancelled. The returned error is never nil
// and describes why the session ended. Heartbeat and reader goroutines have
// both exited by the time Run returns, and the state is back to
// disconnected.
func (s *Session) Run(ctx context.Context, handler Handler) (err error) {
	s.runs.Add(1)
	logger := s.logger.With("session_id", uuid.NewString())

	defer func() {
		s.setState(StateDisconnected)
		s.errMu.Lock()
		s.lastErr = err
		s.errMu.Unlock()
	}()

	s.setState(StateConnecting)

	conn, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("dial stream: %w", err)
	}
	defer conn.Close()

	logger.Info("connected to stream", "collection", s.cfg.Collection)

	var writeMu sync.Mutex
	send := func(cmd Command) error {
		writeMu.Lock()
		defer writeMu.Unlock()

		conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		return conn.WriteJSON(cmd)
	}

	ref := s.ref.Add(1)
	if err := send(JoinCommand(s.cfg.Collection, ref)); err != nil {
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}
	s.setState(StateSubscribed)
	logger.Info("subscribed to collection", "topic", CollectionTopic(s.cfg.Collection), "ref", ref)

	beat := send
	if s.heartbeatSend != nil {
		beat = s.heartbeatSend
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.heartbeatLoop(gctx, beat, logger)
		return nil
	})

	g.Go(func() error {
		return s.readLoop(gctx, conn, handler, logger)
	})

	// Unblocks ReadMessage once the reader fails or ctx is cancelled.
	g.Go(func() error {
		<-gctx.Done()
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		conn.Close()
		return nil
	})

	err = g.Wait()
	s.setState(StateClosed)
	if ctx.Err() != nil {
		err = ctx.Err()
	}

	logger.Warn("stream session ended", "error", err)
	return err
}

// dial opens the WebSocket connection.
func (s *Session) dial(ctx context.Context) (*websocket.Conn, error) {
	endpoint, err := s.cfg.endpoint()
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: s.cfg.HandshakeTimeout,
	}
	if s.cfg.InsecureSkipVerify {
		s.logger.Warn("stream TLS certificate verification disabled")
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via stream.insecure_skip_verify
	}

	header := http.Header{}
	header.Set("Accept", "application/json")

	conn, _, err := dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// heartbeatLoop sends a heartbeat now and then every interval. A failed send
// ends the loop but not the session.
func (s *Session) heartbeatLoop(ctx context.Context, send func(Command) error, logger *slog.Logger) {
	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		if err := send(HeartbeatCommand()); err != nil {
			if ctx.Err() == nil {
				logger.Error("heartbeat failed", "error", err)
			}
			return
		}
		s.heartbeats.Add(1)
		logger.Debug("heartbeat sent")

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// readLoop reads frames until the connection fails. It always returns a
// non-nil error.
func (s *Session) readLoop(ctx context.Context, conn *websocket.Conn, handler Handler, logger *slog.Logger) error {
	s.setState(StateStreaming)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read stream: %w", err)
		}
		s.received.Add(1)

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			s.malformed.Add(1)
			if s.cfg.TolerateMalformed {
				logger.Warn("skipping malformed stream message", "error", err, "size", len(data))
				continue
			}
			return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}

		switch ev.Event {
		case EventItemListed:
			s.dispatched.Add(1)
			if handler != nil {
				handler(ctx, ev)
			}
		case EventReply:
			s.ignored.Add(1)
			var reply replyPayload
			if err := json.Unmarshal(ev.Payload, &reply); err != nil {
				logger.Debug("undecodable stream reply", "topic", ev.Topic, "error", err)
				continue
			}
			logger.Debug("stream reply", "topic", ev.Topic, "status", reply.Status)
		default:
			s.ignored.Add(1)
			logger.Debug("ignoring stream event", "event", ev.Event, "topic", ev.Topic)
		}
	}
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
}
