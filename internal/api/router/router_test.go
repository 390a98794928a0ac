package router

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/scamshield/honeypot/internal/agent"
	"github.com/scamshield/honeypot/internal/automation"
	"github.com/scamshield/honeypot/internal/emotion"
	"github.com/scamshield/honeypot/internal/engine"
	"github.com/scamshield/honeypot/internal/fingerprint"
	"github.com/scamshield/honeypot/internal/http/handlers"
	"github.com/scamshield/honeypot/internal/http/middleware"
	"github.com/scamshield/honeypot/internal/persona"
	"github.com/scamshield/honeypot/internal/scam"
	"github.com/scamshield/honeypot/internal/session"
	"github.com/scamshield/honeypot/internal/tactics"
	"github.com/scamshield/honeypot/pkg/logging"
)

const (
	testAPIKey      = "test-api-key"
	testAdminSecret = "test-admin-secret"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.New("error")
	store := session.NewMemoryStore()
	tracker := fingerprint.NewTracker(0.15)
	policy := automation.DefaultPolicy()

	eng := engine.New(engine.Config{
		Store:    store,
		Detector: scam.NewDetector(0.30),
		Emotions: emotion.NewManager(rand.New(rand.NewSource(1))),
		Tactics:  tactics.NewEngine(rand.New(rand.NewSource(1))),
		Personas: persona.NewGenerator(),
		Tracker:  tracker,
		Policy:   policy,
		Agent:    agent.New(nil, slog.New(slog.DiscardHandler), rand.New(rand.NewSource(1)), agent.Config{}),
		Logger:   slog.New(slog.DiscardHandler),
	})

	honeypot := handlers.NewHoneypotHandler(eng, store, tracker, policy, logger)

	return New(&Config{
		Logger:          logger,
		Honeypot:        honeypot,
		APIKey:          testAPIKey,
		AdminAuthSecret: testAdminSecret,
	})
}

func adminToken(t *testing.T) string {
	t.Helper()
	claims := middleware.AnalystClaims{
		Role: middleware.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAdminSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("expected status 'healthy', got %q", resp["status"])
	}
}

func TestRouterMessageRequiresAPIKey(t *testing.T) {
	router := newTestRouter(t)

	body := bytes.NewBufferString(`{"sessionId":"s1","message":{"sender":"scammer","text":"hello"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/message", body)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestRouterMessageEndToEnd(t *testing.T) {
	router := newTestRouter(t)

	payload := map[string]any{
		"sessionId": "router-1",
		"message": map[string]any{
			"sender": "scammer",
			"text":   "Your SBI account is blocked! Call now to verify KYC.",
		},
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/message", bytes.NewReader(body))
	req.Header.Set("X-API-Key", testAPIKey)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var resp struct {
		Status       string `json:"status"`
		Reply        string `json:"reply"`
		ScamDetected bool   `json:"scamDetected"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("expected status 'success', got %q", resp.Status)
	}
	if resp.Reply == "" {
		t.Error("expected non-empty reply")
	}
	if !resp.ScamDetected {
		t.Error("expected scam to be detected")
	}

	// The processed session is visible through the sessions endpoint.
	req = httptest.NewRequest(http.MethodGet, "/api/sessions/router-1", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRouterSessionNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/missing", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestRouterScammersRequiresAdminJWT(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/scammers", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/scammers", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rr = httptest.NewRecorder()

	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRouterStats(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode stats response: %v", err)
	}
	if _, ok := resp["sessions"]; !ok {
		t.Error("expected sessions block in stats")
	}
	if _, ok := resp["scammers"]; !ok {
		t.Error("expected scammers block in stats")
	}
}
