// Package fingerprint links sessions run by the same scam operator. An
// operator is identified by the payment and contact identifiers they hand
// out; any overlap merges the sessions under one fingerprint.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/scamshield/honeypot/internal/intel"
)

// Fingerprint aggregates everything observed about one operator.
type Fingerprint struct {
	ID        string    `json:"fingerprintId"`
	FirstSeen time.Time `json:"firstSeen"`
	LastSeen  time.Time `json:"lastSeen"`

	PhoneNumbers    []string `json:"phoneNumbers"`
	UPIIDs          []string `json:"upiIds"`
	EmailAddresses  []string `json:"emailAddresses"`
	BankAccounts    []string `json:"bankAccounts"`
	CryptoAddresses []string `json:"cryptoAddresses"`

	ScamTypes []string `json:"scamTypes"`
	Languages []string `json:"languages"`

	SessionIDs []string `json:"sessionIds"`

	TotalMessages          int     `json:"totalMessages"`
	TotalEngagementSeconds int64   `json:"totalEngagementSeconds"`
	RiskScore              float64 `json:"riskScore"`
}

// SessionCount is the number of distinct sessions linked to the operator.
func (f *Fingerprint) SessionCount() int {
	return len(f.SessionIDs)
}

// IsRepeatOffender reports whether the operator ran more than one session.
func (f *Fingerprint) IsRepeatOffender() bool {
	return len(f.SessionIDs) > 1
}

// ThreatLevel buckets the accumulated risk score.
func (f *Fingerprint) ThreatLevel() string {
	switch {
	case f.RiskScore >= 0.8:
		return "critical"
	case f.RiskScore >= 0.6:
		return "high"
	case f.RiskScore >= 0.3:
		return "medium"
	default:
		return "low"
	}
}

// Match is the result of checking intel against known operators.
type Match struct {
	Known         bool     `json:"isKnown"`
	FingerprintID string   `json:"fingerprintId,omitempty"`
	SessionCount  int      `json:"sessionCount,omitempty"`
	ScamTypes     []string `json:"scamTypes,omitempty"`
	Languages     []string `json:"languages,omitempty"`
}

// Stats summarizes the tracker for the stats endpoint.
type Stats struct {
	TotalTracked    int `json:"totalScammersTracked"`
	RepeatOffenders int `json:"repeatOffenders"`
	UniquePhones    int `json:"uniquePhones"`
	UniqueUPIs      int `json:"uniqueUpis"`
	UniqueEmails    int `json:"uniqueEmails"`
}

// Tracker correlates sessions by identifier overlap. One mutex guards the
// fingerprint map and all three indices so a concurrent lookup can never
// observe a half-registered operator.
type Tracker struct {
	mu sync.Mutex

	fingerprints map[string]*Fingerprint

	phoneIndex map[string]string
	upiIndex   map[string]string
	emailIndex map[string]string

	riskIncrement float64
	now           func() time.Time
}

// NewTracker builds an empty tracker. riskIncrement is added to an
// operator's risk score per tracked session, clamped to 1.
func NewTracker(riskIncrement float64) *Tracker {
	return &Tracker{
		fingerprints:  make(map[string]*Fingerprint),
		phoneIndex:    make(map[string]string),
		upiIndex:      make(map[string]string),
		emailIndex:    make(map[string]string),
		riskIncrement: riskIncrement,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Track links a session's intel to an operator, creating a fingerprint if
// the identifiers are all new. Returns nil when the intel carries nothing
// to correlate on.
func (t *Tracker) Track(sessionID string, b *intel.Bundle, scamType, language string) *Fingerprint {
	if b == nil {
		return nil
	}
	phones, upis, emails := b.Identifiers()
	if len(phones) == 0 && len(upis) == 0 && len(emails) == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fp := t.lookupLocked(phones, upis, emails)
	if fp == nil {
		fp = t.createLocked(phones, upis, emails)
	}

	now := t.now()
	fp.LastSeen = now
	if !contains(fp.SessionIDs, sessionID) {
		fp.SessionIDs = append(fp.SessionIDs, sessionID)
		fp.RiskScore = clamp(fp.RiskScore + t.riskIncrement)
	}

	fp.PhoneNumbers = appendUnique(fp.PhoneNumbers, phones)
	fp.UPIIDs = appendUnique(fp.UPIIDs, upis)
	fp.EmailAddresses = appendUnique(fp.EmailAddresses, emails)
	// bank accounts and crypto addresses are evidence only, never lookup keys
	fp.BankAccounts = appendUnique(fp.BankAccounts, b.BankAccounts)
	fp.CryptoAddresses = appendUnique(fp.CryptoAddresses, b.CryptoAddresses)
	if scamType != "" {
		fp.ScamTypes = appendUnique(fp.ScamTypes, []string{scamType})
	}
	if language != "" {
		fp.Languages = appendUnique(fp.Languages, []string{language})
	}

	// index every identifier, new ones included
	for _, p := range phones {
		t.phoneIndex[p] = fp.ID
	}
	for _, u := range upis {
		t.upiIndex[u] = fp.ID
	}
	for _, e := range emails {
		t.emailIndex[e] = fp.ID
	}

	return fp
}

// RecordEngagement adds message and duration totals to the operator.
func (t *Tracker) RecordEngagement(fingerprintID string, messages int, engagement time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if fp, ok := t.fingerprints[fingerprintID]; ok {
		fp.TotalMessages += messages
		fp.TotalEngagementSeconds += int64(engagement.Seconds())
	}
}

// Check reports whether intel matches a known operator, without mutating
// tracker state.
func (t *Tracker) Check(b *intel.Bundle) Match {
	if b == nil {
		return Match{}
	}
	phones, upis, emails := b.Identifiers()

	t.mu.Lock()
	defer t.mu.Unlock()

	fp := t.lookupLocked(phones, upis, emails)
	if fp == nil {
		return Match{}
	}
	return Match{
		Known:         fp.IsRepeatOffender(),
		FingerprintID: fp.ID,
		SessionCount:  fp.SessionCount(),
		ScamTypes:     fp.ScamTypes,
		Languages:     fp.Languages,
	}
}

// Get returns a fingerprint by id.
func (t *Tracker) Get(id string) (*Fingerprint, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fp, ok := t.fingerprints[id]
	return fp, ok
}

// FindByPhone resolves an operator from a phone number.
func (t *Tracker) FindByPhone(phone string) (*Fingerprint, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.phoneIndex[phone]; ok {
		fp, ok := t.fingerprints[id]
		return fp, ok
	}
	return nil, false
}

// FindByUPI resolves an operator from a UPI handle.
func (t *Tracker) FindByUPI(upi string) (*Fingerprint, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.upiIndex[upi]; ok {
		fp, ok := t.fingerprints[id]
		return fp, ok
	}
	return nil, false
}

// RepeatOffenders lists operators seen in more than one session.
func (t *Tracker) RepeatOffenders() []*Fingerprint {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []*Fingerprint
	for _, fp := range t.fingerprints {
		if fp.IsRepeatOffender() {
			out = append(out, fp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All lists every tracked operator, ordered by fingerprint id.
func (t *Tracker) All() []*Fingerprint {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Fingerprint, 0, len(t.fingerprints))
	for _, fp := range t.fingerprints {
		out = append(out, fp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stats summarizes the tracker.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats := Stats{
		TotalTracked: len(t.fingerprints),
		UniquePhones: len(t.phoneIndex),
		UniqueUPIs:   len(t.upiIndex),
		UniqueEmails: len(t.emailIndex),
	}
	for _, fp := range t.fingerprints {
		if fp.IsRepeatOffender() {
			stats.RepeatOffenders++
		}
	}
	return stats
}

// lookupLocked resolves an existing fingerprint by identifier overlap.
// Phones take priority over UPI handles over emails.
func (t *Tracker) lookupLocked(phones, upis, emails []string) *Fingerprint {
	for _, p := range phones {
		if id, ok := t.phoneIndex[p]; ok {
			return t.fingerprints[id]
		}
	}
	for _, u := range upis {
		if id, ok := t.upiIndex[u]; ok {
			return t.fingerprints[id]
		}
	}
	for _, e := range emails {
		if id, ok := t.emailIndex[e]; ok {
			return t.fingerprints[id]
		}
	}
	return nil
}

func (t *Tracker) createLocked(phones, upis, emails []string) *Fingerprint {
	id := contentID(firstOf(phones), firstOf(upis), firstOf(emails))
	fp := &Fingerprint{
		ID:        id,
		FirstSeen: t.now(),
	}
	t.fingerprints[id] = fp
	return fp
}

// contentID derives a stable 12-character id from the seed identifiers,
// so the same operator gets the same id across restarts.
func contentID(identifiers ...string) string {
	var parts []string
	for _, id := range identifiers {
		if id != "" {
			parts = append(parts, strings.ToLower(id))
		}
	}
	sort.Strings(parts)
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:12]
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func appendUnique(dst, src []string) []string {
	for _, s := range src {
		if !contains(dst, s) {
			dst = append(dst, s)
		}
	}
	return dst
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
