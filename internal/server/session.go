package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/internal/blackjack"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	sendBuffer = 16
)

// ErrSessionClosed is returned when sending on a closed session
var ErrSessionClosed = errors.New("server: session closed")

// Session is one websocket player with their own engine. The engine is only
// touched from the read pump goroutine.
type Session struct {
	id     string
	conn   *websocket.Conn
	engine *blackjack.Engine
	seeds  func() int64
	send   chan *ServerMessage
	logger *log.Logger

	clock       quartz.Clock
	idleTimeout time.Duration
	idleMu      sync.Mutex
	idleTimer   *quartz.Timer

	ctx         context.Context
	cancel      context.CancelFunc
	closeOnce   sync.Once
	reasonMu    sync.Mutex
	closeReason string
}

func newSession(id string, conn *websocket.Conn, engine *blackjack.Engine, seeds func() int64, clock quartz.Clock, idleTimeout time.Duration, logger *log.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		id:          id,
		conn:        conn,
		engine:      engine,
		seeds:       seeds,
		send:        make(chan *ServerMessage, sendBuffer),
		logger:      logger.With("session", id),
		clock:       clock,
		idleTimeout: idleTimeout,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Done is closed once the session has shut down
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Start begins handling the connection
func (s *Session) Start() {
	s.resetIdle()
	go s.writePump()
	go s.readPump()
}

// Close ends the session. The write pump sends a close frame with reason.
func (s *Session) Close(reason string) {
	s.closeOnce.Do(func() {
		s.reasonMu.Lock()
		s.closeReason = reason
		s.reasonMu.Unlock()
		s.cancel()
	})
}

// SendMessage queues a message for the client
func (s *Session) SendMessage(msg *ServerMessage) error {
	select {
	case <-s.ctx.Done():
		return ErrSessionClosed
	default:
	}

	select {
	case s.send <- msg:
		return nil
	case <-s.ctx.Done():
		return ErrSessionClosed
	default:
		s.logger.Warn("Session send buffer full, closing session")
		s.Close("send buffer full")
		return ErrSessionClosed
	}
}

// resetIdle restarts the idle timer. Every inbound frame counts as activity.
func (s *Session) resetIdle() {
	s.idleMu.Lock()
	defer s.idleMu.Unlock()

	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	s.idleTimer = s.clock.AfterFunc(s.idleTimeout, func() {
		if s.ctx.Err() != nil {
			return
		}
		s.logger.Info("Closing idle session", "idle_timeout", s.idleTimeout)
		s.Close("idle timeout")
	})
}

// readPump handles incoming frames from the client
func (s *Session) readPump() {
	defer s.Close("client gone")

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		select {
		case <-s.ctx.Done():
			return
		default:
		}

		s.resetIdle()
		s.handleFrame(data)
	}
}

// writePump handles outgoing messages to the client and owns closing the
// underlying connection.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.logger.Error("Failed to write message", "error", err)
				s.Close("write failed")
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close("ping failed")
				return
			}

		case <-s.ctx.Done():
			s.reasonMu.Lock()
			reason := s.closeReason
			s.reasonMu.Unlock()

			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
			return
		}
	}
}

// handleFrame decodes one client frame and applies it to the engine
func (s *Session) handleFrame(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(CodeBadRequest, "malformed message: "+err.Error())
		return
	}

	s.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case TypeStart:
		seed := s.seeds()
		if msg.Seed != nil {
			seed = *msg.Seed
		}
		view := s.engine.Start(seed)
		s.logger.Debug("Round started", "round", view.Round, "round_id", view.RoundID, "seed", seed)
		s.sendView(view)

	case TypeHit:
		s.reply(s.engine.Hit())

	case TypeStand:
		s.reply(s.engine.Stand())

	case TypeView:
		s.sendView(s.engine.View())

	default:
		s.sendError(CodeBadRequest, "unknown message type: "+msg.Type)
	}
}

func (s *Session) reply(view blackjack.RoundView, err error) {
	if err != nil {
		if errors.Is(err, blackjack.ErrInvalidState) {
			s.sendError(CodeInvalidState, err.Error())
			return
		}
		s.sendError(CodeInternal, err.Error())
		return
	}

	if view.IsOver() {
		s.logger.Info("Round over", "round", view.Round, "outcome", view.Outcome,
			"player", view.PlayerEffectiveSum, "dealer", view.DealerEffectiveSum)
	}
	s.sendView(view)
}

func (s *Session) sendView(view blackjack.RoundView) {
	if err := s.SendMessage(newViewMessage(view)); err != nil {
		s.logger.Debug("Dropped view", "error", err)
	}
}

func (s *Session) sendError(code, message string) {
	if err := s.SendMessage(newErrorMessage(code, message)); err != nil {
		s.logger.Debug("Dropped error", "code", code, "error", err)
	}
}
