package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamshield/honeypot/internal/intel"
)

type recordingNotifier struct {
	events []Event
	err    error
}

func (r *recordingNotifier) Notify(_ context.Context, event Event) error {
	r.events = append(r.events, event)
	return r.err
}

func TestFanoutDeliversToAll(t *testing.T) {
	a := &recordingNotifier{}
	b := &recordingNotifier{}
	f := NewFanout(slog.New(slog.DiscardHandler), a, b)

	err := f.Notify(context.Background(), Event{Kind: KindNewScamSession, SessionID: "s1"})
	require.NoError(t, err)
	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
	assert.Equal(t, "s1", a.events[0].SessionID)
}

func TestFanoutSwallowsFailures(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("webhook down")}
	healthy := &recordingNotifier{}
	f := NewFanout(slog.New(slog.DiscardHandler), failing, healthy)

	err := f.Notify(context.Background(), Event{Kind: KindIntelExtracted, SessionID: "s2"})
	assert.NoError(t, err)
	assert.Len(t, healthy.events, 1)
}

func TestFanoutSkipsNilNotifiers(t *testing.T) {
	a := &recordingNotifier{}
	f := NewFanout(slog.New(slog.DiscardHandler), nil, a)

	require.NoError(t, f.Notify(context.Background(), Event{Kind: KindSessionComplete}))
	assert.Len(t, a.events, 1)
}

func TestWebhookNotifierPayload(t *testing.T) {
	var payload struct {
		Embeds []embed `json:"embeds"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	n.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	event := Event{
		Kind:      KindIntelExtracted,
		SessionID: "sess-9",
		Intel: &intel.Bundle{
			PhoneNumbers: []string{"9876543210"},
			UPIIDs:       []string{"fraud@paytm", "fraud@ybl"},
		},
	}
	require.NoError(t, n.Notify(context.Background(), event))

	require.Len(t, payload.Embeds, 1)
	e := payload.Embeds[0]
	assert.Equal(t, "🔍 Intel Extracted!", e.Title)
	assert.Contains(t, e.Description, "sess-9")
	assert.Equal(t, colorIntelExtracted, e.Color)
	assert.Equal(t, "2026-03-01T12:00:00Z", e.Timestamp)
	assert.Equal(t, "Honeypot Alert System", e.Footer.Text)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "9876543210", e.Fields[0].Value)
	assert.Equal(t, "fraud@paytm, fraud@ybl", e.Fields[1].Value)
}

func TestWebhookNotifierErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	err := n.Notify(context.Background(), Event{Kind: KindNewScamSession, SessionID: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestWebhookEmbedPerKind(t *testing.T) {
	n := NewWebhookNotifier("http://example.invalid")
	n.now = func() time.Time { return time.Unix(0, 0) }

	tests := []struct {
		name  string
		event Event
		title string
		color int
	}{
		{"new session", Event{Kind: KindNewScamSession, SessionID: "a", Message: "send otp", ScamType: "BANKING"}, "🎣 New Scam Session Detected!", colorNewSession},
		{"repeat scammer", Event{Kind: KindRepeatScammer, SessionID: "b", FingerprintID: "abc123", SessionCount: 3}, "⚠️ Repeat Scammer Detected!", colorRepeatScammer},
		{"session complete", Event{Kind: KindSessionComplete, SessionID: "c", TotalMessages: 14, Duration: 3 * time.Minute}, "✅ Session Complete", colorSessionComplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := n.buildEmbed(tt.event)
			assert.Equal(t, tt.title, e.Title)
			assert.Equal(t, tt.color, e.Color)
			assert.Contains(t, e.Description, tt.event.SessionID)
		})
	}
}

type stubSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (s *stubSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, s.err
}

func TestTelegramNotifier(t *testing.T) {
	sender := &stubSender{}
	n := &TelegramNotifier{bot: sender, chatID: 42}

	event := Event{
		Kind:          KindRepeatScammer,
		SessionID:     "sess-7",
		FingerprintID: "deadbeef",
		SessionCount:  4,
		ScamTypes:     []string{"KYC", "LOTTERY"},
	}
	require.NoError(t, n.Notify(context.Background(), event))

	require.Len(t, sender.sent, 1)
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "HTML", msg.ParseMode)
	assert.True(t, msg.DisableWebPagePreview)
	assert.Contains(t, msg.Text, "REPEAT SCAMMER")
	assert.Contains(t, msg.Text, "deadbeef")
	assert.Contains(t, msg.Text, "KYC, LOTTERY")
}

func TestTelegramNotifierSendError(t *testing.T) {
	sender := &stubSender{err: errors.New("chat not found")}
	n := &TelegramNotifier{bot: sender, chatID: 1}

	err := n.Notify(context.Background(), Event{Kind: KindNewScamSession})
	assert.Error(t, err)
}

func TestFormatTelegramMessage(t *testing.T) {
	msg := formatTelegramMessage(Event{
		Kind:      KindIntelExtracted,
		SessionID: "sess-3",
		Intel: &intel.Bundle{
			UPIIDs: []string{"scammer@upi"},
		},
	})
	assert.Contains(t, msg, "<code>sess-3</code>")
	assert.Contains(t, msg, "scammer@upi")
	assert.NotContains(t, msg, "Phones")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcde", truncate("abcdefgh", 5))
	assert.Equal(t, "नमस्", truncate("नमस्ते", 4))
}
