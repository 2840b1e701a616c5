package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/legbook"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/logger"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/sharelink"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/models"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer; a snapshot carries every leg
	maxMessageSize = models.MaxMessageBytes

	// Buffer size for outbound messages
	sendBufferSize = 64
)

// Registry is the part of the hub a session reports to
type Registry interface {
	Unregister(s *Session)
	RecordEvaluation()
}

// Options are the dependencies shared by every session
type Options struct {
	Calculator   *calculator.Calculator
	NewRequest   func() models.EvaluateRequest // Initial form settings
	ShareBaseURL string                        // Empty disables share URLs
}

// Session is one browser editing one parlay. The book and settings are only
// touched from ReadPump.
type Session struct {
	ID   string
	conn *websocket.Conn
	Send chan models.ServerMessage // Closed by the hub on unregister
	hub  Registry
	opts Options

	book     *legbook.Book
	settings models.EvaluateRequest // Legs unused; the book owns them

	connectedAt      time.Time
	messagesSent     int64
	messagesReceived int64
	evaluations      int64
	lastMessageAt    time.Time
	mu               sync.Mutex
}

// NewSession creates a session holding the initial form
func NewSession(id string, conn *websocket.Conn, hub Registry, opts Options) *Session {
	if opts.NewRequest == nil {
		opts.NewRequest = models.NewEvaluateRequest
	}

	s := &Session{
		ID:          id,
		conn:        conn,
		Send:        make(chan models.ServerMessage, sendBufferSize),
		hub:         hub,
		opts:        opts,
		connectedAt: time.Now(),
	}
	s.reset()
	return s
}

// ReadPump applies client messages to the session until the connection closes
func (s *Session) ReadPump(ctx context.Context) {
	defer func() {
		s.hub.Unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// The browser renders from the first evaluation
	s.sendEvaluation()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg models.ClientMessage
			if err := s.conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.log().WithError(err).Warn("unexpected close")
				}
				return
			}

			s.updateReceived()
			s.handleMessage(msg)
		}
	}
}

// WritePump writes queued messages and keepalive pings to the connection
func (s *Session) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message, ok := <-s.Send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := s.conn.WriteJSON(message); err != nil {
				s.log().WithError(err).Warn("write failed")
				return
			}

			s.updateSent()

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues a message without blocking. It reports false when the
// buffer is full.
func (s *Session) TrySend(msg models.ServerMessage) bool {
	select {
	case s.Send <- msg:
		return true
	default:
		return false
	}
}

// GetStats returns session statistics
func (s *Session) GetStats() models.SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.SessionStats{
		SessionID:        s.ID,
		ConnectedAt:      s.connectedAt,
		MessagesSent:     s.messagesSent,
		MessagesReceived: s.messagesReceived,
		Evaluations:      s.evaluations,
		LastMessageAt:    s.lastMessageAt,
	}
}

// handleMessage applies one client message and answers with the new evaluation
func (s *Session) handleMessage(msg models.ClientMessage) {
	var err error

	switch msg.Type {
	case models.MessageTypeSnapshot:
		err = s.applySnapshot(msg.Payload)
	case models.MessageTypeAddLeg:
		s.book.Add()
	case models.MessageTypeUpdateLeg:
		err = s.applyLegUpdate(msg.Payload)
	case models.MessageTypeRemoveLeg:
		err = s.applyRemove(msg.Payload)
	case models.MessageTypeClearLegs:
		s.book.ClearLegs()
	case models.MessageTypeClearAll:
		s.reset()
	case models.MessageTypeSettings:
		err = s.applySettings(msg.Payload)
	case models.MessageTypeHeartbeat:
		s.sendHeartbeat()
	default:
		s.sendError(models.ErrorCodeUnknownType, fmt.Sprintf("unknown message type: %s", msg.Type))
		return
	}

	if err != nil {
		var me *messageError
		if errors.As(err, &me) {
			s.sendError(me.code, me.Error())
		} else {
			s.sendError(models.ErrorCodeInvalidPayload, err.Error())
		}
		return
	}

	s.sendEvaluation()
}

// messageError carries the error code reported to the client
type messageError struct {
	code string
	err  error
}

func (e *messageError) Error() string { return e.err.Error() }
func (e *messageError) Unwrap() error { return e.err }

func (s *Session) applySnapshot(payload json.RawMessage) error {
	req := s.opts.NewRequest()
	req.Legs = nil
	if err := decodePayload(payload, &req); err != nil {
		return err
	}

	s.book = legbook.FromLegs(req.Legs)
	req.Legs = nil
	s.settings = req
	return nil
}

func (s *Session) applyLegUpdate(payload json.RawMessage) error {
	var leg models.LegInput
	if err := decodePayload(payload, &leg); err != nil {
		return err
	}

	if err := s.book.Update(leg.ID, leg); err != nil {
		return &messageError{code: models.ErrorCodeLegNotFound, err: err}
	}
	return nil
}

func (s *Session) applyRemove(payload json.RawMessage) error {
	var ref models.LegRef
	if err := decodePayload(payload, &ref); err != nil {
		return err
	}

	if err := s.book.Remove(ref.ID); err != nil {
		code := models.ErrorCodeLegNotFound
		if errors.Is(err, legbook.ErrLastLeg) {
			code = models.ErrorCodeLastLeg
		}
		return &messageError{code: code, err: err}
	}
	return nil
}

// applySettings overlays the payload onto the current settings. Absent keys
// and unparseable numbers keep their current values.
func (s *Session) applySettings(payload json.RawMessage) error {
	next := s.settings
	if err := decodePayload(payload, &next); err != nil {
		return err
	}

	next.Legs = nil
	s.settings = next
	return nil
}

func (s *Session) reset() {
	s.book = legbook.New()
	s.settings = s.opts.NewRequest()
	s.settings.Legs = nil
}

// Snapshot returns the form as currently edited
func (s *Session) Snapshot() models.EvaluateRequest {
	return s.book.Snapshot(s.settings)
}

// Evaluate computes the evaluation for the current form
func (s *Session) Evaluate() models.Evaluation {
	req := s.Snapshot()

	eval := models.Evaluation{
		SessionID: s.ID,
		Request:   req,
		Result:    s.opts.Calculator.Evaluate(req),
		Hints:     s.opts.Calculator.Validate(req),
	}

	if s.opts.ShareBaseURL != "" {
		shareURL, err := sharelink.URL(s.opts.ShareBaseURL, req)
		if err != nil {
			s.log().WithError(err).Warn("share link failed")
		} else {
			eval.ShareURL = shareURL
		}
	}

	return eval
}

func (s *Session) sendEvaluation() {
	eval := s.Evaluate()

	s.mu.Lock()
	s.evaluations++
	s.mu.Unlock()
	s.hub.RecordEvaluation()

	if !s.TrySend(models.ServerMessage{
		Type:      models.MessageTypeEvaluation,
		Payload:   eval,
		Timestamp: time.Now(),
	}) {
		s.log().Warn("send buffer full, dropping evaluation")
	}
}

func (s *Session) sendHeartbeat() {
	s.TrySend(models.ServerMessage{
		Type:      models.MessageTypeHeartbeat,
		Payload:   s.GetStats(),
		Timestamp: time.Now(),
	})
}

func (s *Session) sendError(code, message string) {
	s.TrySend(models.ServerMessage{
		Type: models.MessageTypeError,
		Payload: models.ErrorMessage{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now(),
	})
}

func (s *Session) updateSent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messagesSent++
	s.lastMessageAt = time.Now()
}

func (s *Session) updateReceived() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messagesReceived++
	s.lastMessageAt = time.Now()
}

func (s *Session) log() *logrus.Entry {
	return logger.WithFields(logrus.Fields{"session": s.ID})
}

// decodePayload reads an object payload into v
func decodePayload(payload json.RawMessage, v interface{}) error {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return fmt.Errorf("missing payload")
	}
	if payload[0] != '{' {
		return fmt.Errorf("payload must be an object")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// Wrong-typed fields are skipped; the rest were applied
			return nil
		}
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
