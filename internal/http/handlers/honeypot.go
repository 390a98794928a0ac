// Package handlers exposes the honeypot pipeline over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scamshield/honeypot/internal/automation"
	"github.com/scamshield/honeypot/internal/engine"
	"github.com/scamshield/honeypot/internal/fingerprint"
	"github.com/scamshield/honeypot/internal/session"
	"github.com/scamshield/honeypot/pkg/logging"
)

// HoneypotHandler serves the message pipeline and session inspection
// endpoints.
type HoneypotHandler struct {
	engine  *engine.Engine
	store   session.Store
	tracker *fingerprint.Tracker
	policy  automation.Policy
	logger  *logging.Logger
	started time.Time
}

// NewHoneypotHandler creates the handler set.
func NewHoneypotHandler(eng *engine.Engine, store session.Store, tracker *fingerprint.Tracker, policy automation.Policy, logger *logging.Logger) *HoneypotHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &HoneypotHandler{
		engine:  eng,
		store:   store,
		tracker: tracker,
		policy:  policy,
		logger:  logger,
		started: time.Now(),
	}
}

// apiMessage mirrors the wire format of a single message.
type apiMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

type apiMetadata struct {
	Channel  string `json:"channel,omitempty"`
	Language string `json:"language,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

type messageRequest struct {
	SessionID           string       `json:"sessionId"`
	Message             apiMessage   `json:"message"`
	ConversationHistory []apiMessage `json:"conversationHistory,omitempty"`
	Metadata            *apiMetadata `json:"metadata,omitempty"`
}

type messageResponse struct {
	Status string `json:"status"`
	*engine.Result
}

// HandleMessage is the main endpoint: one scammer message in, one victim
// reply out.
func (h *HoneypotHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	if req.Message.Text == "" {
		writeError(w, http.StatusBadRequest, "message.text is required")
		return
	}

	engReq := engine.Request{
		SessionID: req.SessionID,
		Message:   toInbound(req.Message),
	}
	for _, msg := range req.ConversationHistory {
		engReq.History = append(engReq.History, toInbound(msg))
	}
	if req.Metadata != nil {
		engReq.Meta = engine.Meta{
			Channel:  req.Metadata.Channel,
			Language: req.Metadata.Language,
			Locale:   req.Metadata.Locale,
		}
	}

	result, err := h.engine.ProcessMessage(r.Context(), engReq)
	if err != nil {
		h.logger.Error("message processing failed",
			"session_id", req.SessionID,
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Status: "success", Result: result})
}

// Health is the liveness endpoint.
func (h *HoneypotHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}

type sessionResponse struct {
	Session *session.Session   `json:"session"`
	Quality automation.Quality `json:"quality"`
	Status  string             `json:"status"`
}

// GetSession returns one session with its engagement quality.
func (h *HoneypotHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	sess, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h.logger.Error("failed to load session", "session_id", id, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Session: sess,
		Quality: automation.AnalyzeQuality(sess),
		Status:  h.policy.Status(sess),
	})
}

// Stats aggregates session store and fingerprint tracker statistics.
func (h *HoneypotHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sessionStats, err := h.store.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to load session stats", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": sessionStats,
		"scammers": h.tracker.Stats(),
	})
}

type scammerSummary struct {
	FingerprintID string   `json:"fingerprintId"`
	SessionCount  int      `json:"sessionCount"`
	RiskScore     float64  `json:"riskScore"`
	ThreatLevel   string   `json:"threatLevel"`
	ScamTypes     []string `json:"scamTypes"`
	Languages     []string `json:"languages"`
	FirstSeen     string   `json:"firstSeen"`
	LastSeen      string   `json:"lastSeen"`
}

// Scammers lists all tracked fingerprints.
func (h *HoneypotHandler) Scammers(w http.ResponseWriter, r *http.Request) {
	all := h.tracker.All()
	out := make([]scammerSummary, 0, len(all))
	for _, fp := range all {
		out = append(out, scammerSummary{
			FingerprintID: fp.ID,
			SessionCount:  fp.SessionCount(),
			RiskScore:     fp.RiskScore,
			ThreatLevel:   fp.ThreatLevel(),
			ScamTypes:     fp.ScamTypes,
			Languages:     fp.Languages,
			FirstSeen:     fp.FirstSeen.UTC().Format(time.RFC3339),
			LastSeen:      fp.LastSeen.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":    len(out),
		"scammers": out,
	})
}

// Escalate forces the report callback for a session.
func (h *HoneypotHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	sent, err := h.engine.Escalate(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h.logger.Error("forced escalation failed", "session_id", id, "error", err.Error())
		writeError(w, http.StatusBadGateway, "escalation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId":    id,
		"callbackSent": sent,
	})
}

func toInbound(msg apiMessage) engine.Inbound {
	var ts time.Time
	if msg.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, msg.Timestamp); err == nil {
			ts = parsed
		}
	}
	return engine.Inbound{Sender: msg.Sender, Text: msg.Text, Timestamp: ts}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
