package intel

import (
	"strings"
)

// Message is the minimal view of a conversation message the extractor needs.
type Message struct {
	Sender string
	Text   string
}

// FromText extracts every intelligence family from a single message. The
// function is pure: same text in, same bundle out. Empty input yields an
// empty bundle.
func FromText(text string) *Bundle {
	b := &Bundle{}
	if text == "" {
		return b
	}

	b.UPIIDs = extractUPIIDs(text)
	b.PhoneNumbers = extractPhoneNumbers(text)
	b.BankAccounts = extractBankAccounts(text, b.PhoneNumbers)
	b.IFSCCodes = extractIFSCCodes(text)
	b.CardNumbers = extractCardNumbers(text)
	b.EmailAddresses = extractEmails(text)
	b.PhishingLinks, b.Domains = extractLinks(text)
	b.AadhaarNumbers = extractAadhaar(text)
	b.PANNumbers = extractPAN(text)
	b.CryptoAddresses = extractCrypto(text)
	b.Amounts = extractAmounts(text)
	b.WhatsAppNumbers = extractWhatsApp(text)
	b.Names = extractNames(text)
	b.SuspiciousKeywords, b.TacticsDetected = extractKeywords(text)

	b.RiskScore = riskScore(b)
	b.ScamType = determineScamType(b.TacticsDetected, b.SuspiciousKeywords)
	return b
}

// FromMessages folds per-message extractions over a conversation. Merge is
// order-independent, so the result does not depend on message ordering.
func FromMessages(messages []Message) *Bundle {
	combined := &Bundle{}
	for _, msg := range messages {
		combined.Merge(FromText(msg.Text))
	}
	combined.RiskScore = riskScore(combined)
	combined.ScamType = determineScamType(combined.TacticsDetected, combined.SuspiciousKeywords)
	return combined
}

func extractUPIIDs(text string) []string {
	var out []string
	for _, re := range upiPatterns {
		out = append(out, re.FindAllString(text, -1)...)
	}
	return dedupe(out)
}

func extractPhoneNumbers(text string) []string {
	var out []string
	for _, re := range phonePatterns {
		for _, m := range re.FindAllString(text, -1) {
			clean := separatorRe.ReplaceAllString(m, "")
			clean = phonePrefixRe.ReplaceAllString(clean, "")
			clean = strings.TrimSpace(clean)
			if len(clean) >= 10 && digitsOnlyRe.MatchString(clean) {
				out = append(out, clean)
			}
		}
	}
	return dedupe(out)
}

// extractBankAccounts filters out tokens already claimed as phone numbers:
// a bare 10-digit run starting 6-9 is an Indian mobile, not an account.
func extractBankAccounts(text string, phones []string) []string {
	known := make(map[string]struct{}, len(phones))
	for _, p := range phones {
		known[strings.TrimPrefix(p, "+")] = struct{}{}
	}

	var out []string
	for _, re := range bankAccountPatterns {
		for _, m := range re.FindAllString(text, -1) {
			clean := separatorRe.ReplaceAllString(m, "")
			clean = accountPrefixRe.ReplaceAllString(clean, "")
			if len(clean) < 9 || len(clean) > 18 || !allDigits(clean) {
				continue
			}
			if distinctRunes(clean) <= 2 {
				continue
			}
			if len(clean) == 10 && clean[0] >= '6' && clean[0] <= '9' {
				continue
			}
			if _, taken := known[clean]; taken {
				continue
			}
			out = append(out, clean)
		}
	}
	return dedupe(out)
}

func extractIFSCCodes(text string) []string {
	upper := strings.ToUpper(text)
	var out []string
	for _, re := range ifscPatterns {
		out = append(out, re.FindAllString(upper, -1)...)
	}
	for i, s := range out {
		if idx := strings.LastIndexAny(s, ": "); idx >= 0 {
			out[i] = s[idx+1:]
		}
	}
	return dedupe(out)
}

func extractCardNumbers(text string) []string {
	var out []string
	for _, re := range cardPatterns {
		for _, m := range re.FindAllString(text, -1) {
			clean := separatorRe.ReplaceAllString(m, "")
			if len(clean) == 15 || len(clean) == 16 {
				// mask middle digits before these ever leave the process
				out = append(out, clean[:4]+"XXXX"+clean[len(clean)-4:])
			}
		}
	}
	return dedupe(out)
}

func extractEmails(text string) []string {
	var out []string
	for _, re := range emailPatterns {
		for _, m := range re.FindAllString(text, -1) {
			m = strings.ToLower(strings.TrimSpace(m))
			for _, prefix := range []string{"email", "e-mail", "mail"} {
				if strings.HasPrefix(m, prefix) {
					m = strings.TrimSpace(strings.TrimPrefix(m, prefix))
					m = strings.TrimLeft(m, ": ")
				}
			}
			if strings.Contains(m, "@") {
				out = append(out, m)
			}
		}
	}
	return dedupe(out)
}

// extractLinks returns suspicious links and their domains. Known safe
// domains pass unless they also match a lookalike pattern.
func extractLinks(text string) (links, domains []string) {
	for _, re := range linkPatterns {
		for _, link := range re.FindAllString(text, -1) {
			m := domainOfLink.FindStringSubmatch(link)
			if m == nil {
				continue
			}
			domain := strings.ToLower(m[1])

			safe := false
			for _, sd := range safeDomains {
				if strings.Contains(domain, sd) {
					safe = true
					break
				}
			}
			suspicious := false
			for _, pat := range suspiciousDomainPatterns {
				if pat.MatchString(domain) {
					suspicious = true
					break
				}
			}
			if !safe || suspicious {
				links = append(links, link)
				domains = append(domains, domain)
			}
		}
	}
	return dedupe(links), dedupe(domains)
}

func extractAadhaar(text string) []string {
	var out []string
	for _, re := range aadhaarPatterns {
		for _, m := range re.FindAllString(text, -1) {
			clean := separatorRe.ReplaceAllString(m, "")
			clean = aadhaarPrefixRe.ReplaceAllString(clean, "")
			if len(clean) == 12 && allDigits(clean) {
				// store only last 4 digits
				out = append(out, "XXXX-XXXX-"+clean[8:])
			}
		}
	}
	return dedupe(out)
}

func extractPAN(text string) []string {
	upper := strings.ToUpper(text)
	var out []string
	for _, re := range panPatterns {
		out = append(out, re.FindAllString(upper, -1)...)
	}
	for i, s := range out {
		if idx := strings.LastIndexAny(s, ":# "); idx >= 0 {
			out[i] = s[idx+1:]
		}
	}
	return dedupe(out)
}

func extractCrypto(text string) []string {
	var out []string
	for _, re := range cryptoPatterns {
		out = append(out, re.FindAllString(text, -1)...)
	}
	return dedupe(out)
}

func extractAmounts(text string) []string {
	var out []string
	for _, re := range amountPatterns {
		for _, m := range re.FindAllString(text, -1) {
			out = append(out, strings.TrimSpace(m))
		}
	}
	return dedupe(out)
}

func extractWhatsApp(text string) []string {
	var out []string
	for _, re := range whatsappPatterns {
		for _, m := range re.FindAllString(text, -1) {
			clean := separatorRe.ReplaceAllString(m, "")
			clean = whatsPrefixRe.ReplaceAllString(clean, "")
			if clean != "" {
				out = append(out, clean)
			}
		}
	}
	return dedupe(out)
}

// nameFalsePositives are capitalized words the name patterns keep matching
// that are honorifics or sentence starts, not people.
var nameFalsePositives = map[string]struct{}{
	"Sir": {}, "Madam": {}, "Dear": {}, "Customer": {}, "Account": {},
	"Bank": {}, "The": {}, "This": {}, "Your": {},
}

func extractNames(text string) []string {
	var out []string
	for _, re := range namePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if len(name) <= 2 {
				continue
			}
			if _, bad := nameFalsePositives[name]; bad {
				continue
			}
			out = append(out, titleCase(name))
		}
	}
	return dedupe(out)
}

func extractKeywords(text string) (keywords, categories []string) {
	lower := strings.ToLower(text)
	for category, list := range keywordCategories {
		hit := false
		for _, kw := range list {
			if strings.Contains(lower, strings.ToLower(kw)) {
				keywords = append(keywords, kw)
				hit = true
			}
		}
		if hit {
			categories = append(categories, category)
		}
	}
	return dedupe(keywords), dedupe(categories)
}

// riskScore maps intel presence to a 0-100 score. Points reflect how
// directly the item can be actioned against the operator.
func riskScore(b *Bundle) int {
	score := 0

	if len(b.UPIIDs) > 0 {
		score += 25
	}
	if len(b.BankAccounts) > 0 {
		score += 20
	}
	if len(b.CardNumbers) > 0 {
		score += 30
	}
	if len(b.AadhaarNumbers) > 0 {
		score += 15
	}
	if len(b.PANNumbers) > 0 {
		score += 15
	}

	if len(b.PhoneNumbers) > 0 {
		score += 10
	}
	if len(b.EmailAddresses) > 0 {
		score += 5
	}
	if len(b.WhatsAppNumbers) > 0 {
		score += 10
	}

	if len(b.PhishingLinks) > 0 {
		score += 20
	}

	if contains(b.TacticsDetected, "threat") {
		score += 15
	}
	if contains(b.TacticsDetected, "credential") {
		score += 20
	}
	if contains(b.TacticsDetected, "urgency") {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

// determineScamType classifies by keyword evidence, most specific first.
func determineScamType(tactics, keywords []string) string {
	lower := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		lower[strings.ToLower(k)] = struct{}{}
	}
	anyOf := func(words ...string) bool {
		for _, w := range words {
			if _, ok := lower[w]; ok {
				return true
			}
		}
		return false
	}

	switch {
	case anyOf("kyc", "aadhar", "pan", "verify"):
		return "KYC_SCAM"
	case anyOf("won", "lottery", "prize", "winner"):
		return "LOTTERY_SCAM"
	case anyOf("blocked", "suspended", "closed", "freeze"):
		return "ACCOUNT_FREEZE_SCAM"
	case anyOf("arrest", "police", "legal", "court"):
		return "LEGAL_THREAT_SCAM"
	case anyOf("refund", "cashback", "bonus"):
		return "REFUND_SCAM"
	case anyOf("otp", "pin", "password", "cvv"):
		return "CREDENTIAL_PHISHING"
	case contains(tactics, "click_bait"):
		return "PHISHING_LINK_SCAM"
	default:
		return "GENERAL_SCAM"
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func distinctRunes(s string) int {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
