// Package report delivers the final intelligence result of an engaged
// session to an external evaluation endpoint.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/scamshield/honeypot/internal/intel"
)

// Result is the payload posted when a session is escalated.
type Result struct {
	SessionID              string        `json:"sessionId"`
	ScamDetected           bool          `json:"scamDetected"`
	TotalMessagesExchanged int           `json:"totalMessagesExchanged"`
	ExtractedIntelligence  *intel.Bundle `json:"extractedIntelligence"`
	AgentNotes             string        `json:"agentNotes"`
}

// Sink receives escalation results.
type Sink interface {
	Send(ctx context.Context, result Result) error
}

// HTTPSink posts results as JSON to a configured callback URL. A failed
// attempt is retried once before giving up.
type HTTPSink struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewHTTPSink creates an HTTP report sink targeting url. A zero timeout
// defaults to 10 seconds.
func NewHTTPSink(url string, timeout time.Duration, logger *slog.Logger) *HTTPSink {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPSink{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Send posts the result to the callback endpoint, retrying once on failure.
func (s *HTTPSink) Send(ctx context.Context, result Result) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("report: failed to marshal result: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			s.logger.Warn("retrying report callback",
				"session_id", result.SessionID,
				"error", lastErr.Error(),
			)
		}

		lastErr = s.post(ctx, body)
		if lastErr == nil {
			s.logger.Info("report callback delivered",
				"session_id", result.SessionID,
				"messages", result.TotalMessagesExchanged,
			)
			return nil
		}

		if ctx.Err() != nil {
			break
		}
	}

	return fmt.Errorf("report: callback failed: %w", lastErr)
}

func (s *HTTPSink) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post callback: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("callback returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
