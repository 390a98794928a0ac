package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramSender is the subset of the bot API used here, split out so
// tests can stub delivery.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends HTML-formatted alerts to a Telegram chat.
type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
}

// NewTelegramNotifier creates a Telegram notifier using a bot token.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("alerts: telegram bot token is required")
	}
	if chatID == 0 {
		return nil, errors.New("alerts: telegram chat id is required")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("alerts: failed to create telegram bot: %w", err)
	}

	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// Notify sends the event as a formatted Telegram message.
func (t *TelegramNotifier) Notify(_ context.Context, event Event) error {
	msg := tgbotapi.NewMessage(t.chatID, formatTelegramMessage(event))
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("alerts: telegram send failed: %w", err)
	}
	return nil
}

func formatTelegramMessage(event Event) string {
	var b strings.Builder

	switch event.Kind {
	case KindNewScamSession:
		b.WriteString("🎣 <b>New Scam Session</b>\n\n")
		fmt.Fprintf(&b, "<b>Session:</b> <code>%s</code>\n", event.SessionID)
		scamType := event.ScamType
		if scamType == "" {
			scamType = "Unknown"
		}
		fmt.Fprintf(&b, "<b>Type:</b> %s\n", scamType)
		fmt.Fprintf(&b, "<b>Message:</b> %s\n", truncate(event.Message, 200))

	case KindIntelExtracted:
		b.WriteString("🔍 <b>Intel Extracted</b>\n\n")
		fmt.Fprintf(&b, "<b>Session:</b> <code>%s</code>\n", event.SessionID)
		phones, upis, accounts := intelHighlights(event.Intel)
		if len(phones) > 0 {
			fmt.Fprintf(&b, "📱 <b>Phones:</b> %s\n", strings.Join(phones, ", "))
		}
		if len(upis) > 0 {
			fmt.Fprintf(&b, "💳 <b>UPIs:</b> %s\n", strings.Join(upis, ", "))
		}
		if len(accounts) > 0 {
			fmt.Fprintf(&b, "🏦 <b>Accounts:</b> %s\n", strings.Join(accounts, ", "))
		}

	case KindRepeatScammer:
		b.WriteString("⚠️ <b>REPEAT SCAMMER</b>\n\n")
		fmt.Fprintf(&b, "<b>Session:</b> <code>%s</code>\n", event.SessionID)
		fmt.Fprintf(&b, "<b>Fingerprint:</b> <code>%s</code>\n", event.FingerprintID)
		fmt.Fprintf(&b, "<b>Previous Sessions:</b> %d\n", event.SessionCount)
		if len(event.ScamTypes) > 0 {
			fmt.Fprintf(&b, "<b>Scam Types:</b> %s\n", strings.Join(event.ScamTypes, ", "))
		}

	case KindSessionComplete:
		b.WriteString("✅ <b>Session Complete</b>\n\n")
		fmt.Fprintf(&b, "<b>Session:</b> <code>%s</code>\n", event.SessionID)
		fmt.Fprintf(&b, "⏱️ <b>Duration:</b> %s\n", event.Duration.Round(time.Second))
		fmt.Fprintf(&b, "💬 <b>Messages:</b> %d\n", event.TotalMessages)
		phones, upis, _ := intelHighlights(event.Intel)
		fmt.Fprintf(&b, "🔍 <b>Intel:</b> %d phones, %d UPIs\n", len(phones), len(upis))

	default:
		fmt.Fprintf(&b, "<b>Session:</b> <code>%s</code>\n", event.SessionID)
	}

	return b.String()
}
