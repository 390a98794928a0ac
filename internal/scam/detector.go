// Package scam scores incoming text for scam intent and classifies the
// scam archetype so the engagement layer can pick type-specific tactics.
// Keyword and pattern matching only, no model calls on the hot path.
package scam

import (
	"math"
	"regexp"
	"strings"
)

// DetectionResult is the outcome of scoring one text for scam intent.
type DetectionResult struct {
	IsScam          bool     `json:"isScam"`
	Confidence      float64  `json:"confidence"`
	MatchedKeywords []string `json:"matchedKeywords"`
	Categories      []string `json:"categories"`
}

// scamKeywords groups indicator phrases by category. Collected from real
// scam messages across English, Hindi, Tamil and Telugu.
var scamKeywords = map[string][]string{
	"urgency": {
		"urgent", "immediately", "right now", "asap", "hurry",
		"within 24 hours", "last chance", "final warning", "act now",
		"don't delay", "expire today", "suspended", "blocked",
		"तुरंत", "जल्दी", "अभी", "ब्लॉक", "सस्पेंड", "बंद हो जाएगा",
		"உடனடியாக", "தடுக்கப்பட்டது", "நிறுத்தப்பட்டது",
		"వెంటనే", "బ్లాక్", "సస్పెండ్",
	},
	"banking": {
		"bank account", "account blocked", "account suspended", "verify account",
		"update kyc", "kyc expired", "pan card", "aadhar", "aadhaar",
		"credit card", "debit card", "atm pin", "cvv", "card number",
		"sbi", "hdfc", "icici", "axis", "rbi", "reserve bank",
		"बैंक खाता", "खाता बंद", "केवाईसी", "पैन कार्ड", "आधार",
		"வங்கி கணக்கு", "கணக்கு தடுக்கப்பட்டது",
		"బ్యాంక్ ఖాతా", "ఖాతా బ్లాక్",
	},
	"upi": {
		"upi", "upi id", "upi pin", "paytm", "phonepe", "gpay", "google pay",
		"bhim", "@ybl", "@paytm", "@oksbi", "@okicici", "@okaxis",
		"send money", "transfer money", "payment failed",
		"यूपीआई", "पेटीएम", "फोनपे", "पैसे भेजो", "ट्रांसफर",
		"பணம் அனுப்பு", "பேமென்ட்",
	},
	"otp_password": {
		"otp", "one time password", "password", "pin", "secret code",
		"verification code", "security code", "cvv", "mpin",
		"ओटीपी", "पासवर्ड", "पिन", "गुप्त कोड",
		"கடவுச்சொல்", "ஓடிபி",
		"ఓటీపీ", "పాస్వర్డ్",
	},
	"lottery_prize": {
		"congratulations", "you won", "winner", "lottery", "prize",
		"lucky draw", "scratch card", "gift card", "free gift",
		"claim now", "reward", "cashback", "bonus",
		"बधाई हो", "जीत गए", "लॉटरी", "इनाम", "गिफ्ट",
		"வாழ்த்துக்கள்", "வென்றீர்கள்", "பரிசு",
	},
	"threats": {
		"legal action", "police", "arrest", "fir", "court", "jail",
		"case filed", "cyber crime", "investigation", "fraud department",
		"कानूनी कार्रवाई", "पुलिस", "गिरफ्तार", "कोर्ट", "जेल", "एफआईआर",
		"சட்ட நடவடிக்கை", "போலீஸ்", "கைது",
	},
	"links_requests": {
		"click here", "click link", "click below", "visit link",
		"download app", "install app", "fill form", "update details",
		"क्लिक करें", "लिंक पर जाएं", "ऐप डाउनलोड करें",
		"கிளிக் செய்யவும்", "லிங்க்",
	},
}

// suspiciousPatterns are structural signals independent of wording.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d{10}\b`),                              // bare phone
	regexp.MustCompile(`(?i)\+91[\s-]?\d{10}`),                        // indian phone format
	regexp.MustCompile(`(?i)[a-zA-Z0-9._-]+@[a-z]{2,10}\b`),           // upi handle shape
	regexp.MustCompile(`(?i)\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`), // card number
	regexp.MustCompile(`(?i)rs\.?\s*\d+`),                             // money amount
	regexp.MustCompile(`₹\s*\d+`),                                     // rupee symbol
}

var anyLink = regexp.MustCompile(`(?i)https?://[^\s]+`)

// trustedLinkDomains are not counted as a suspicious-link signal.
var trustedLinkDomains = []string{"gov.in", "sbi.co.in", "hdfcbank.com", "icicibank.com"}

// Detector scores text against the keyword and pattern tables. Stateless
// and safe for concurrent use.
type Detector struct {
	threshold float64
}

// NewDetector builds a detector that calls scam at or above threshold.
func NewDetector(threshold float64) *Detector {
	return &Detector{threshold: threshold}
}

// Detect scores a single message. Empty text is never a scam.
func (d *Detector) Detect(text string) DetectionResult {
	if text == "" {
		return DetectionResult{MatchedKeywords: []string{}, Categories: []string{}}
	}

	lower := strings.ToLower(text)

	var matched []string
	var categories []string
	for category, keywords := range scamKeywords {
		hit := false
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, kw)
				hit = true
			}
		}
		if hit {
			categories = append(categories, category)
		}
	}

	patternMatches := 0
	for _, re := range suspiciousPatterns {
		if re.MatchString(text) {
			patternMatches++
		}
	}
	if d.hasUntrustedLink(text) {
		patternMatches++
	}

	keywordScore := math.Min(float64(len(matched))/5, 1.0)
	patternScore := math.Min(float64(patternMatches)/3, 1.0)
	categoryScore := math.Min(float64(len(categories))/3, 1.0)

	confidence := keywordScore*0.4 + patternScore*0.3 + categoryScore*0.3
	if len(categories) >= 2 {
		confidence = math.Min(confidence+0.15, 1.0)
	}
	confidence = math.Round(confidence*100) / 100

	matched = dedupe(matched)
	sortStrings(categories)

	return DetectionResult{
		IsScam:          confidence >= d.threshold,
		Confidence:      confidence,
		MatchedKeywords: matched,
		Categories:      categories,
	}
}

// DetectConversation scores the combined scammer side of a conversation.
// Useful when a single borderline message is not enough signal.
func (d *Detector) DetectConversation(scammerTexts []string) DetectionResult {
	if len(scammerTexts) == 0 {
		return DetectionResult{MatchedKeywords: []string{}, Categories: []string{}}
	}
	return d.Detect(strings.Join(scammerTexts, " "))
}

// hasUntrustedLink reports whether the text carries a link outside the
// trusted domain list. RE2 has no lookahead, so the exclusion is code.
func (d *Detector) hasUntrustedLink(text string) bool {
	for _, link := range anyLink.FindAllString(text, -1) {
		lower := strings.ToLower(link)
		trusted := false
		for _, domain := range trustedLinkDomains {
			if strings.Contains(lower, domain) {
				trusted = true
				break
			}
		}
		if !trusted {
			return true
		}
	}
	return false
}
