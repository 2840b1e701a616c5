package session

import (
	"context"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/logger"
	"github.com/sirupsen/logrus"
)

// Hub tracks the active sessions
type Hub struct {
	sessions   map[*Session]bool
	sessionsMu sync.RWMutex

	register   chan *Session
	unregister chan *Session
	done       chan struct{}

	// Metrics
	totalSessions    int64
	totalEvaluations int64
	metricsMu        sync.Mutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[*Session]bool),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and returns when ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	logger.Logger.Info("session hub started")

	go h.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case s := <-h.register:
			h.registerSession(s)

		case s := <-h.unregister:
			h.unregisterSession(s)
		}
	}
}

// Register adds a session to the hub
func (h *Hub) Register(s *Session) {
	select {
	case h.register <- s:
	case <-h.done:
	}
}

// Unregister removes a session from the hub and closes its send channel
func (h *Hub) Unregister(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// RecordEvaluation counts one evaluation sent to a session
func (h *Hub) RecordEvaluation() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalEvaluations++
}

func (h *Hub) registerSession(s *Session) {
	h.sessionsMu.Lock()
	defer h.sessionsMu.Unlock()

	h.sessions[s] = true

	h.metricsMu.Lock()
	h.totalSessions++
	h.metricsMu.Unlock()

	logger.WithFields(logrus.Fields{
		"session": s.ID,
		"active":  len(h.sessions),
	}).Info("session connected")
}

func (h *Hub) unregisterSession(s *Session) {
	h.sessionsMu.Lock()
	defer h.sessionsMu.Unlock()

	if _, ok := h.sessions[s]; ok {
		delete(h.sessions, s)
		close(s.Send)

		logger.WithFields(logrus.Fields{
			"session": s.ID,
			"active":  len(h.sessions),
		}).Info("session disconnected")
	}
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() map[string]interface{} {
	active := h.GetSessionCount()

	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_sessions":   active,
		"total_sessions":    h.totalSessions,
		"total_evaluations": h.totalEvaluations,
	}
}

// GetSessionCount returns the number of active sessions
func (h *Hub) GetSessionCount() int {
	h.sessionsMu.RLock()
	defer h.sessionsMu.RUnlock()
	return len(h.sessions)
}

// shutdown forgets every session. Their pumps stop on the same context.
func (h *Hub) shutdown() {
	close(h.done)

	h.sessionsMu.Lock()
	defer h.sessionsMu.Unlock()

	logger.Logger.Infof("shutting down session hub (%d active sessions)", len(h.sessions))

	for s := range h.sessions {
		delete(h.sessions, s)
	}
}

// reportMetrics periodically logs hub metrics
func (h *Hub) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.WithFields(logrus.Fields(h.GetMetrics())).Info("session hub metrics")
		}
	}
}
