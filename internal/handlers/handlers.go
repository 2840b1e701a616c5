package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/config"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/logger"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/report"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/session"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/sharelink"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = models.MaxMessageBytes

// Handler contains dependencies for HTTP handlers
type Handler struct {
	ctx      context.Context // Server lifetime; sessions outlive their upgrade request
	cfg      *config.Config
	calc     *calculator.Calculator
	hub      *session.Hub
	upgrader websocket.Upgrader
}

// NewHandler creates a new handler
func NewHandler(ctx context.Context, cfg *config.Config, calc *calculator.Calculator, hub *session.Hub) *Handler {
	h := &Handler{
		ctx:  ctx,
		cfg:  cfg,
		calc: calc,
		hub:  hub,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"service":         "parlay-builder",
		"active_sessions": h.hub.GetSessionCount(),
	})
}

// Metrics returns session hub metrics
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.hub.GetMetrics())
}

// Evaluate computes the full parlay evaluation for a form snapshot
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	resp := h.calc.Evaluate(req)

	logger.WithFields(logrus.Fields{
		"legs":   len(req.Legs),
		"mode":   resp.Settings.OddsMode,
		"status": resp.Status,
	}).Debug("evaluated parlay")

	respondJSON(w, http.StatusOK, resp)
}

// Validate returns field-level hints for a form snapshot
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"hints": h.calc.Validate(req),
	})
}

// Report returns the plain-text results block for a form snapshot
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	resp := h.calc.Evaluate(req)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, report.Build(resp))
}

// Share encodes a form snapshot as a share token and URL
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	token, err := sharelink.Encode(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	shareURL, err := sharelink.URL(h.cfg.Share.BaseURL, req)
	if err != nil {
		logger.Logger.WithError(err).Error("failed to build share url")
		respondError(w, http.StatusInternalServerError, "failed to build share url")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"url":   shareURL,
	})
}

// RestoreShare decodes a share token. Unreadable tokens restore the defaults.
func (h *Handler) RestoreShare(w http.ResponseWriter, r *http.Request) {
	req, restored := sharelink.Decode(chi.URLParam(r, "token"), h.cfg.NewRequest())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"restored": restored,
		"request":  req,
	})
}

// HandleWebSocket upgrades the connection to a live editing session
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	s := session.NewSession(uuid.New().String(), conn, h.hub, session.Options{
		Calculator:   h.calc,
		NewRequest:   h.cfg.NewRequest,
		ShareBaseURL: h.cfg.Share.BaseURL,
	})

	h.hub.Register(s)

	// Use the server context, not the request context
	go s.WritePump(h.ctx)
	go s.ReadPump(h.ctx)
}

// decodeRequest reads a form snapshot, starting from the configured
// defaults so omitted settings keep them
func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (models.EvaluateRequest, bool) {
	req := h.cfg.NewRequest()
	req.Legs = nil

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return req, false
	}

	// A form always has at least one leg
	if len(req.Legs) == 0 {
		req.Legs = []models.LegInput{{}}
	}
	return req, true
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.cfg.Server.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
