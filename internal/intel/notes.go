package intel

import (
	"fmt"
	"strings"
)

// AgentNotes renders a human-readable summary of what a session collected,
// suitable for escalation reports and operator dashboards.
func AgentNotes(b *Bundle) string {
	if b == nil {
		return "Scam attempt detected - gathering more intel"
	}

	var notes []string

	if b.ScamType != "" {
		notes = append(notes, "Scam Type: "+b.ScamType)
	}

	switch {
	case b.RiskScore >= 70:
		notes = append(notes, fmt.Sprintf("Risk Level: HIGH (%d/100)", b.RiskScore))
	case b.RiskScore >= 40:
		notes = append(notes, fmt.Sprintf("Risk Level: MEDIUM (%d/100)", b.RiskScore))
	default:
		notes = append(notes, fmt.Sprintf("Risk Level: LOW (%d/100)", b.RiskScore))
	}

	if len(b.TacticsDetected) > 0 {
		notes = append(notes, "Tactics: "+strings.Join(b.TacticsDetected, ", "))
	}

	var collected []string
	if len(b.UPIIDs) > 0 {
		collected = append(collected, fmt.Sprintf("%d UPI ID(s): %s", len(b.UPIIDs), strings.Join(head(b.UPIIDs, 3), ", ")))
	}
	if len(b.PhoneNumbers) > 0 {
		collected = append(collected, fmt.Sprintf("%d phone(s)", len(b.PhoneNumbers)))
	}
	if len(b.EmailAddresses) > 0 {
		collected = append(collected, fmt.Sprintf("%d email(s)", len(b.EmailAddresses)))
	}
	if len(b.BankAccounts) > 0 {
		collected = append(collected, fmt.Sprintf("%d account(s)", len(b.BankAccounts)))
	}
	if len(b.PhishingLinks) > 0 {
		collected = append(collected, fmt.Sprintf("%d link(s)", len(b.PhishingLinks)))
	}
	if len(b.Names) > 0 {
		collected = append(collected, "Names: "+strings.Join(head(b.Names, 3), ", "))
	}
	if len(collected) > 0 {
		notes = append(notes, "Extracted: "+strings.Join(collected, "; "))
	}

	if len(notes) == 0 {
		return "Scam attempt detected - gathering more intel"
	}
	return strings.Join(notes, ". ")
}

func head(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
