package intel

import "sort"

// Bundle holds all intelligence extracted from conversation text. Every
// slice field is a deduplicated, sorted set; Merge relies on that.
type Bundle struct {
	// core financial
	BankAccounts []string `json:"bankAccounts"`
	UPIIDs       []string `json:"upiIds"`
	IFSCCodes    []string `json:"ifscCodes"`
	CardNumbers  []string `json:"cardNumbers"`

	// contact info
	PhoneNumbers    []string `json:"phoneNumbers"`
	EmailAddresses  []string `json:"emailAddresses"`
	WhatsAppNumbers []string `json:"whatsappNumbers"`

	// web/links
	PhishingLinks []string `json:"phishingLinks"`
	Domains       []string `json:"domains"`

	// identity (masked before storage)
	AadhaarNumbers []string `json:"aadharNumbers"`
	PANNumbers     []string `json:"panNumbers"`
	Names          []string `json:"names"`

	// crypto
	CryptoAddresses []string `json:"cryptoAddresses"`

	// financial amounts
	Amounts []string `json:"amounts"`

	// analysis
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
	TacticsDetected    []string `json:"tacticsDetected"`
	ScamType           string   `json:"scamType"`
	RiskScore          int      `json:"riskScore"`
}

// Merge folds other into b: set union per field, max risk score. The
// operation is commutative, associative, and idempotent over the set fields,
// so folding per-message extractions in any order yields the same bundle.
func (b *Bundle) Merge(other *Bundle) {
	if other == nil {
		return
	}
	b.BankAccounts = union(b.BankAccounts, other.BankAccounts)
	b.UPIIDs = union(b.UPIIDs, other.UPIIDs)
	b.IFSCCodes = union(b.IFSCCodes, other.IFSCCodes)
	b.CardNumbers = union(b.CardNumbers, other.CardNumbers)
	b.PhoneNumbers = union(b.PhoneNumbers, other.PhoneNumbers)
	b.EmailAddresses = union(b.EmailAddresses, other.EmailAddresses)
	b.WhatsAppNumbers = union(b.WhatsAppNumbers, other.WhatsAppNumbers)
	b.PhishingLinks = union(b.PhishingLinks, other.PhishingLinks)
	b.Domains = union(b.Domains, other.Domains)
	b.AadhaarNumbers = union(b.AadhaarNumbers, other.AadhaarNumbers)
	b.PANNumbers = union(b.PANNumbers, other.PANNumbers)
	b.Names = union(b.Names, other.Names)
	b.CryptoAddresses = union(b.CryptoAddresses, other.CryptoAddresses)
	b.Amounts = union(b.Amounts, other.Amounts)
	b.SuspiciousKeywords = union(b.SuspiciousKeywords, other.SuspiciousKeywords)
	b.TacticsDetected = union(b.TacticsDetected, other.TacticsDetected)

	if other.RiskScore > b.RiskScore {
		b.RiskScore = other.RiskScore
	}
	if b.ScamType == "" {
		b.ScamType = other.ScamType
	}
}

// Count returns the number of linkable intel items: the identifier families
// that can tie a session to an operator (accounts, payment handles, contact
// channels, links, names).
func (b *Bundle) Count() int {
	return len(b.BankAccounts) +
		len(b.UPIIDs) +
		len(b.PhoneNumbers) +
		len(b.EmailAddresses) +
		len(b.PhishingLinks) +
		len(b.Names)
}

// IsEmpty reports whether the bundle carries no actionable intelligence.
func (b *Bundle) IsEmpty() bool {
	return len(b.BankAccounts) == 0 &&
		len(b.UPIIDs) == 0 &&
		len(b.PhishingLinks) == 0 &&
		len(b.PhoneNumbers) == 0 &&
		len(b.EmailAddresses) == 0 &&
		len(b.SuspiciousKeywords) == 0 &&
		len(b.AadhaarNumbers) == 0 &&
		len(b.PANNumbers) == 0 &&
		len(b.CryptoAddresses) == 0
}

// Identifiers returns the values the fingerprint tracker can correlate on.
func (b *Bundle) Identifiers() (phones, upis, emails []string) {
	return b.PhoneNumbers, b.UPIIDs, b.EmailAddresses
}

// union merges two sorted unique slices into a new sorted unique slice.
func union(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// dedupe sorts and removes duplicates in place.
func dedupe(values []string) []string {
	if len(values) < 2 {
		return values
	}
	sort.Strings(values)
	out := values[:1]
	for _, v := range values[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
