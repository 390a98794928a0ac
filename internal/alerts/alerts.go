// Package alerts pushes operational notifications about honeypot sessions
// to external channels. Delivery is best effort: a failed notifier is
// logged and never blocks or corrupts session processing.
package alerts

import (
	"context"
	"log/slog"
	"time"

	"github.com/scamshield/honeypot/internal/intel"
)

// Event kinds.
const (
	KindNewScamSession  = "new_scam_session"
	KindIntelExtracted  = "intel_extracted"
	KindRepeatScammer   = "repeat_scammer"
	KindSessionComplete = "session_complete"
)

// Event describes something worth alerting on. Only the fields relevant
// to the kind are populated.
type Event struct {
	Kind      string        `json:"kind"`
	SessionID string        `json:"sessionId"`
	ScamType  string        `json:"scamType,omitempty"`
	Message   string        `json:"message,omitempty"`
	Intel     *intel.Bundle `json:"intel,omitempty"`

	// repeat_scammer
	FingerprintID string   `json:"fingerprintId,omitempty"`
	SessionCount  int      `json:"sessionCount,omitempty"`
	ScamTypes     []string `json:"scamTypes,omitempty"`

	// session_complete
	TotalMessages int           `json:"totalMessages,omitempty"`
	Duration      time.Duration `json:"duration,omitempty"`
}

// Notifier delivers a single event to one channel.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Fanout dispatches an event to every configured notifier. Individual
// failures are logged and swallowed.
type Fanout struct {
	notifiers []Notifier
	logger    *slog.Logger
}

// NewFanout creates a Fanout over the given notifiers. Nil notifiers are
// skipped so optional channels can be wired unconditionally.
func NewFanout(logger *slog.Logger, notifiers ...Notifier) *Fanout {
	if logger == nil {
		logger = slog.Default()
	}
	kept := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			kept = append(kept, n)
		}
	}
	return &Fanout{notifiers: kept, logger: logger}
}

// Notify delivers the event to all notifiers. It always returns nil.
func (f *Fanout) Notify(ctx context.Context, event Event) error {
	for _, n := range f.notifiers {
		if err := n.Notify(ctx, event); err != nil {
			f.logger.Warn("alert delivery failed",
				"kind", event.Kind,
				"session_id", event.SessionID,
				"error", err.Error(),
			)
		}
	}
	return nil
}

// intelHighlights pulls the identifiers worth surfacing in an alert.
func intelHighlights(b *intel.Bundle) (phones, upis, accounts []string) {
	if b == nil {
		return nil, nil, nil
	}
	return head(b.PhoneNumbers, 5), head(b.UPIIDs, 5), head(b.BankAccounts, 3)
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
