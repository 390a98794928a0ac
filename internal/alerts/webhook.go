package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Embed colors per event kind.
const (
	colorNewSession      = 0xFFA500
	colorIntelExtracted  = 0x00FF00
	colorRepeatScammer   = 0xFF0000
	colorSessionComplete = 0x00BFFF
)

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Timestamp   string       `json:"timestamp"`
	Footer      embedFooter  `json:"footer"`
	Fields      []embedField `json:"fields,omitempty"`
}

type embedFooter struct {
	Text string `json:"text"`
}

// WebhookNotifier posts Discord-style embeds to a webhook URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
	now    func() time.Time
}

// NewWebhookNotifier creates a webhook notifier targeting url.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		now:    time.Now,
	}
}

// Notify posts the event as a single-embed webhook payload.
func (w *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	e := w.buildEmbed(event)

	body, err := json.Marshal(map[string]any{"embeds": []embed{e}})
	if err != nil {
		return fmt.Errorf("alerts: failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("alerts: failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("alerts: webhook post failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("alerts: webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func (w *WebhookNotifier) buildEmbed(event Event) embed {
	e := embed{
		Timestamp: w.now().UTC().Format(time.RFC3339),
		Footer:    embedFooter{Text: "Honeypot Alert System"},
	}

	switch event.Kind {
	case KindNewScamSession:
		e.Title = "🎣 New Scam Session Detected!"
		e.Description = fmt.Sprintf("Session `%s` started", event.SessionID)
		e.Color = colorNewSession
		e.Fields = append(e.Fields, embedField{Name: "First Message", Value: truncate(event.Message, 200)})
		if event.ScamType != "" {
			e.Fields = append(e.Fields, embedField{Name: "Scam Type", Value: event.ScamType, Inline: true})
		}

	case KindIntelExtracted:
		e.Title = "🔍 Intel Extracted!"
		e.Description = fmt.Sprintf("Session `%s` yielded valuable intel", event.SessionID)
		e.Color = colorIntelExtracted
		phones, upis, accounts := intelHighlights(event.Intel)
		if len(phones) > 0 {
			e.Fields = append(e.Fields, embedField{Name: "📱 Phone Numbers", Value: strings.Join(phones, ", ")})
		}
		if len(upis) > 0 {
			e.Fields = append(e.Fields, embedField{Name: "💳 UPI IDs", Value: strings.Join(upis, ", ")})
		}
		if len(accounts) > 0 {
			e.Fields = append(e.Fields, embedField{Name: "🏦 Bank Accounts", Value: strings.Join(accounts, ", ")})
		}

	case KindRepeatScammer:
		e.Title = "⚠️ Repeat Scammer Detected!"
		e.Description = fmt.Sprintf("Known scammer in session `%s`", event.SessionID)
		e.Color = colorRepeatScammer
		e.Fields = append(e.Fields,
			embedField{Name: "Fingerprint ID", Value: event.FingerprintID, Inline: true},
			embedField{Name: "Previous Sessions", Value: fmt.Sprintf("%d", event.SessionCount), Inline: true},
		)

	case KindSessionComplete:
		e.Title = "✅ Session Complete"
		e.Description = fmt.Sprintf("Session `%s` ended", event.SessionID)
		e.Color = colorSessionComplete
		phones, upis, _ := intelHighlights(event.Intel)
		e.Fields = append(e.Fields,
			embedField{Name: "⏱️ Duration", Value: event.Duration.Round(time.Second).String(), Inline: true},
			embedField{Name: "💬 Messages", Value: fmt.Sprintf("%d", event.TotalMessages), Inline: true},
			embedField{Name: "🔍 Intel Items", Value: fmt.Sprintf("%d", len(phones)+len(upis)), Inline: true},
		)

	default:
		e.Title = "Honeypot Alert"
		e.Description = fmt.Sprintf("Session `%s`", event.SessionID)
		e.Color = colorNewSession
	}

	return e
}
