// Package session tracks one conversation with a scam operator: the
// message history, detection status and accumulated intelligence. Stores
// come in two flavors, in-memory for single node and Redis for shared
// state across replicas.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/scamshield/honeypot/internal/intel"
)

// Message is one turn of the conversation.
type Message struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the full state of one engagement.
type Session struct {
	ID             string        `json:"sessionId"`
	CreatedAt      time.Time     `json:"createdAt"`
	LastActivity   time.Time     `json:"lastActivity"`
	Conversation   []Message     `json:"conversation"`
	ScamDetected   bool          `json:"scamDetected"`
	ScamConfidence float64       `json:"scamConfidence"`
	ScamType       string        `json:"scamType"`
	Language       string        `json:"language"`
	Intel          *intel.Bundle `json:"intel"`
	CallbackSent   bool          `json:"callbackSent"`
}

// New creates an empty session.
func New(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
		Intel:        &intel.Bundle{},
		Language:     "en",
	}
}

// MessageCount is the total number of turns recorded.
func (s *Session) MessageCount() int {
	return len(s.Conversation)
}

// AddMessage appends one turn and bumps the activity clock.
func (s *Session) AddMessage(sender, text string, at time.Time) {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	s.Conversation = append(s.Conversation, Message{
		Sender:    sender,
		Text:      text,
		Timestamp: at,
	})
	s.LastActivity = at
}

// ScammerTexts returns the operator's side of the conversation.
func (s *Session) ScammerTexts() []string {
	var texts []string
	for _, m := range s.Conversation {
		if m.Sender == "scammer" {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

// IntelMessages adapts the conversation for the intel extractor.
func (s *Session) IntelMessages() []intel.Message {
	msgs := make([]intel.Message, 0, len(s.Conversation))
	for _, m := range s.Conversation {
		msgs = append(msgs, intel.Message{Sender: m.Sender, Text: m.Text})
	}
	return msgs
}

// HistoryForPrompt formats the most recent turns for the model prompt,
// capped to keep token usage bounded.
func (s *Session) HistoryForPrompt(maxMessages int) string {
	recent := s.Conversation
	if len(recent) > maxMessages {
		recent = recent[len(recent)-maxMessages:]
	}
	lines := make([]string, 0, len(recent))
	for _, m := range recent {
		role := "You"
		if m.Sender == "scammer" {
			role = "Scammer"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, m.Text))
	}
	return strings.Join(lines, "\n")
}

// Duration is the wall time between the first and most recent message.
func (s *Session) Duration() time.Duration {
	if s.LastActivity.Before(s.CreatedAt) {
		return 0
	}
	return s.LastActivity.Sub(s.CreatedAt)
}

// Stats summarizes active sessions for the stats endpoint.
type Stats struct {
	TotalSessions int `json:"totalSessions"`
	ScamSessions  int `json:"scamSessions"`
	CallbacksSent int `json:"callbacksSent"`
}
