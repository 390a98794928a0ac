package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const defaultSubjectPrefix = "honeypot.alerts"

// NATSNotifier publishes events as JSON onto a NATS subject per event
// kind, e.g. honeypot.alerts.new_scam_session.
type NATSNotifier struct {
	conn          *nats.Conn
	subjectPrefix string
}

// NewNATSNotifier connects to a NATS server and returns a notifier.
func NewNATSNotifier(url, subjectPrefix string, logger *slog.Logger) (*NATSNotifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if subjectPrefix == "" {
		subjectPrefix = defaultSubjectPrefix
	}

	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err.Error())
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("alerts: nats connect: %w", err)
	}

	return &NATSNotifier{conn: conn, subjectPrefix: subjectPrefix}, nil
}

// Notify publishes the event to its kind-specific subject.
func (n *NATSNotifier) Notify(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("alerts: failed to marshal event: %w", err)
	}

	subject := n.subjectPrefix + "." + event.Kind
	if err := n.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("alerts: nats publish: %w", err)
	}
	return nil
}

// Close drains the NATS connection.
func (n *NATSNotifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}
