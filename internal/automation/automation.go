// Package automation decides when an engagement has produced enough to
// escalate, and scores how well a session is going. Pure decision logic;
// the engine acts on the answers.
package automation

import (
	"math"

	"github.com/scamshield/honeypot/internal/session"
)

// Policy holds the escalation thresholds, usually sourced from config.
type Policy struct {
	Enabled     bool
	MinMessages int
	MaxMessages int
	MinIntel    int
}

// DefaultPolicy mirrors the tuned production thresholds.
func DefaultPolicy() Policy {
	return Policy{
		Enabled:     true,
		MinMessages: 6,
		MaxMessages: 20,
		MinIntel:    1,
	}
}

// Quality describes how well a session engaged the operator.
type Quality struct {
	TotalMessages   int     `json:"totalMessages"`
	ScammerMessages int     `json:"scammerMessages"`
	UserResponses   int     `json:"userResponses"`
	IntelExtracted  int     `json:"intelExtracted"`
	EngagementScore float64 `json:"engagementScore"`
	CallbackSent    bool    `json:"callbackSent"`
}

// ShouldEscalate decides whether to fire the escalation report now. The
// checks run in a fixed order; the first decisive rule wins.
func (p Policy) ShouldEscalate(s *session.Session) bool {
	if !p.Enabled {
		return false
	}
	if s.CallbackSent {
		return false
	}
	if !s.ScamDetected {
		return false
	}

	msgCount := s.MessageCount()

	// force escalation once the conversation is long enough
	if msgCount >= p.MaxMessages {
		return true
	}
	if msgCount < p.MinMessages {
		return false
	}
	if intelCount(s) >= p.MinIntel {
		return true
	}
	// long conversation with no intel still gets reported eventually
	if msgCount >= p.MinMessages+4 {
		return true
	}
	return false
}

// AnalyzeQuality scores the engagement 0-100: response coverage, intel
// yield per scammer message, and raw conversation length.
func AnalyzeQuality(s *session.Session) Quality {
	var scammer, user int
	for _, m := range s.Conversation {
		switch m.Sender {
		case "scammer":
			scammer++
		case "user":
			user++
		}
	}

	intelCount := intelCount(s)
	responseRate := float64(user) / math.Max(float64(scammer), 1)
	intelPerMsg := float64(intelCount) / math.Max(float64(scammer), 1)

	score := responseRate*30 + intelPerMsg*40 + math.Min(float64(len(s.Conversation)), 10)*3
	score = math.Min(100, score)
	score = math.Round(score*10) / 10

	return Quality{
		TotalMessages:   len(s.Conversation),
		ScammerMessages: scammer,
		UserResponses:   user,
		IntelExtracted:  intelCount,
		EngagementScore: score,
		CallbackSent:    s.CallbackSent,
	}
}

// Status names the session's lifecycle phase for dashboards.
func (p Policy) Status(s *session.Session) string {
	if !s.ScamDetected {
		return "monitoring"
	}
	if s.CallbackSent {
		return "completed"
	}
	if s.MessageCount() >= p.MinMessages {
		return "ready_for_callback"
	}
	return "engaging"
}

// intelCount counts the actionable identifier families used by the
// escalation gate: accounts, handles, phones and links.
func intelCount(s *session.Session) int {
	if s.Intel == nil {
		return 0
	}
	return len(s.Intel.BankAccounts) +
		len(s.Intel.UPIIDs) +
		len(s.Intel.PhoneNumbers) +
		len(s.Intel.PhishingLinks)
}
