package automation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scamshield/honeypot/internal/intel"
	"github.com/scamshield/honeypot/internal/session"
)

func sessionWith(messages int, scam bool, intelItems int) *session.Session {
	s := session.New("t")
	for i := 0; i < messages; i++ {
		sender := "scammer"
		if i%2 == 1 {
			sender = "user"
		}
		s.AddMessage(sender, "msg", time.Time{})
	}
	s.ScamDetected = scam
	if intelItems > 0 {
		upis := make([]string, intelItems)
		for i := range upis {
			upis[i] = string(rune('a'+i)) + "@ybl"
		}
		s.Intel = &intel.Bundle{UPIIDs: upis}
	}
	return s
}

func TestShouldEscalateRuleOrder(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name string
		s    *session.Session
		want bool
	}{
		{"not a scam", sessionWith(25, false, 5), false},
		{"max messages forces escalation", sessionWith(20, true, 0), true},
		{"below min messages", sessionWith(4, true, 3), false},
		{"enough messages and intel", sessionWith(6, true, 1), true},
		{"enough messages no intel", sessionWith(8, true, 0), false},
		{"long conversation no intel", sessionWith(10, true, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ShouldEscalate(tt.s))
		})
	}
}

func TestShouldEscalateOnlyOnce(t *testing.T) {
	p := DefaultPolicy()
	s := sessionWith(10, true, 3)
	assert.True(t, p.ShouldEscalate(s))

	s.CallbackSent = true
	assert.False(t, p.ShouldEscalate(s))
}

func TestShouldEscalateDisabled(t *testing.T) {
	p := DefaultPolicy()
	p.Enabled = false
	assert.False(t, p.ShouldEscalate(sessionWith(20, true, 5)))
}

func TestAnalyzeQuality(t *testing.T) {
	s := sessionWith(10, true, 2) // 5 scammer, 5 user turns

	q := AnalyzeQuality(s)
	assert.Equal(t, 10, q.TotalMessages)
	assert.Equal(t, 5, q.ScammerMessages)
	assert.Equal(t, 5, q.UserResponses)
	assert.Equal(t, 2, q.IntelExtracted)
	// 1.0*30 + (2/5)*40 + 10*3 = 76
	assert.Equal(t, 76.0, q.EngagementScore)
}

func TestAnalyzeQualityCapped(t *testing.T) {
	s := sessionWith(10, true, 20)
	q := AnalyzeQuality(s)
	assert.Equal(t, 100.0, q.EngagementScore)
}

func TestAnalyzeQualityEmptySession(t *testing.T) {
	q := AnalyzeQuality(session.New("empty"))
	assert.Zero(t, q.EngagementScore)
	assert.Zero(t, q.TotalMessages)
}

func TestStatus(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, "monitoring", p.Status(sessionWith(3, false, 0)))
	assert.Equal(t, "engaging", p.Status(sessionWith(3, true, 0)))
	assert.Equal(t, "ready_for_callback", p.Status(sessionWith(8, true, 1)))

	done := sessionWith(8, true, 1)
	done.CallbackSent = true
	assert.Equal(t, "completed", p.Status(done))
}
