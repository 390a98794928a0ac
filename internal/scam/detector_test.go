package scam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestDetector() *Detector {
	return NewDetector(0.30)
}

func TestDetectScamMessages(t *testing.T) {
	d := newTestDetector()

	tests := []struct {
		name string
		text string
		scam bool
	}{
		{"blocked account", "Your SBI account is blocked! Call now to verify KYC.", true},
		{"lucky draw", "Congratulations! You won Rs.50000 in lucky draw. Click link to claim.", true},
		{"otp phishing", "UPI transaction failed. Share OTP to verify.", true},
		{"casual chat", "Hey, what's up?", false},
		{"coffee plans", "Let's meet for coffee tomorrow", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.text)
			assert.Equal(t, tt.scam, got.IsScam, "confidence=%v keywords=%v", got.Confidence, got.MatchedKeywords)
		})
	}
}

func TestDetectConfidenceBounds(t *testing.T) {
	d := newTestDetector()

	loaded := d.Detect("URGENT your bank account blocked, share OTP immediately, " +
		"send money to 9876543210, click here http://fake-bank.xyz, police case filed, " +
		"you won lottery prize Rs 50000")
	assert.True(t, loaded.IsScam)
	assert.LessOrEqual(t, loaded.Confidence, 1.0)
	assert.GreaterOrEqual(t, loaded.Confidence, 0.0)
	assert.GreaterOrEqual(t, len(loaded.Categories), 2)
}

func TestDetectMultiCategoryBump(t *testing.T) {
	d := newTestDetector()

	one := d.Detect("police")
	two := d.Detect("police upi")
	assert.Greater(t, two.Confidence, one.Confidence)
}

func TestDetectHindiScam(t *testing.T) {
	d := newTestDetector()

	got := d.Detect("आपका खाता बंद हो जाएगा! तुरंत ओटीपी भेजें पेटीएम पर")
	assert.True(t, got.IsScam)
	assert.Contains(t, got.Categories, "urgency")
}

func TestDetectTrustedLinkNotCounted(t *testing.T) {
	d := newTestDetector()

	trusted := d.Detect("see https://www.sbi.co.in/ for details")
	phishy := d.Detect("see https://sbi-kyc-update.xyz/ for details")
	assert.Less(t, trusted.Confidence, phishy.Confidence)
}

func TestDetectConversation(t *testing.T) {
	d := newTestDetector()

	// individually borderline, together clear
	texts := []string{
		"hello sir, calling from sbi",
		"share the otp you received",
		"do it immediately",
	}
	for _, text := range texts {
		assert.False(t, d.Detect(text).IsScam, text)
	}
	combined := d.DetectConversation(texts)
	assert.True(t, combined.IsScam)

	empty := d.DetectConversation(nil)
	assert.False(t, empty.IsScam)
	assert.Zero(t, empty.Confidence)
}

func TestDetectDeterministic(t *testing.T) {
	d := newTestDetector()

	text := "urgent: verify account, share otp, click here"
	a := d.Detect(text)
	b := d.Detect(text)
	assert.Equal(t, a, b)
}
