package scam

import (
	"math"
	"sort"
	"strings"
)

// Classification names the scam archetype and the engagement tactics that
// work against it.
type Classification struct {
	ScamType         string   `json:"scamType"`
	Confidence       float64  `json:"confidence"`
	MatchedKeywords  []string `json:"matchedKeywords"`
	SuggestedTactics []string `json:"suggestedTactics"`
}

type archetype struct {
	keywords []string
	tactics  []string
}

// archetypes maps scam type to its indicator keywords and the persona
// tactics that string that operator along.
var archetypes = map[string]archetype{
	"BANKING": {
		keywords: []string{
			"bank", "account", "blocked", "suspended", "debit card", "credit card",
			"atm", "pin", "cvv", "otp", "net banking", "mobile banking", "upi",
			"transaction", "transfer", "ifsc", "branch", "manager", "rbi",
			"बैंक", "खाता", "ब्लॉक", "एटीएम", "ट्रांसफर",
		},
		tactics: []string{
			"Ask which bank and branch",
			"Ask for employee ID",
			"Pretend confusion about account number",
			"Ask them to verify YOUR details first",
		},
	},
	"LOTTERY": {
		keywords: []string{
			"lottery", "winner", "won", "prize", "jackpot", "lucky draw",
			"congratulations", "million", "lakh", "crore", "claim", "lucky",
			"selected", "random", "jio", "amazon", "flipkart",
			"लॉटरी", "जीत", "इनाम", "लकी",
		},
		tactics: []string{
			"Act excited but confused",
			"Ask how you entered the lottery",
			"Ask for official website",
			"Request physical letter/certificate",
		},
	},
	"TECH_SUPPORT": {
		keywords: []string{
			"virus", "malware", "hacked", "computer", "laptop", "microsoft",
			"windows", "apple", "support", "technician", "remote", "anydesk",
			"teamviewer", "download", "install", "software", "security",
			"कंप्यूटर", "वायरस", "हैक",
		},
		tactics: []string{
			"Pretend to be tech-illiterate",
			"Ask them to explain slowly",
			"Say you need grandson's help",
			"Keep asking 'which button?'",
		},
	},
	"KYC": {
		keywords: []string{
			"kyc", "aadhar", "aadhaar", "pan", "pan card", "link", "update",
			"verify", "verification", "expir", "document", "upload", "sebi",
			"mutual fund", "demat",
			"आधार", "पैन", "केवाईसी", "अपडेट",
		},
		tactics: []string{
			"Ask why bank didn't inform",
			"Say you'll visit branch",
			"Ask for reference number",
			"Pretend aadhar is with family member",
		},
	},
	"JOB": {
		keywords: []string{
			"job", "vacancy", "hiring", "work from home", "wfh", "salary",
			"income", "earning", "part time", "full time", "offer letter",
			"interview", "hr", "recruitment", "typing job", "data entry",
			"नौकरी", "जॉब", "सैलरी", "वर्क फ्रॉम होम",
		},
		tactics: []string{
			"Ask about company registration",
			"Ask for office address to visit",
			"Request official email from company domain",
			"Ask about PF/ESI benefits",
		},
	},
	"LOAN": {
		keywords: []string{
			"loan", "pre-approved", "instant loan", "personal loan",
			"home loan", "emi", "interest", "processing fee", "sanction",
			"credit score", "cibil", "disburs",
			"लोन", "ऋण", "ब्याज", "किश्त",
		},
		tactics: []string{
			"Ask why processing fee before disbursement",
			"Ask for RBI license number",
			"Say you'll check with bank first",
			"Request physical documents",
		},
	},
	"INVESTMENT": {
		keywords: []string{
			"invest", "trading", "stock", "share", "crypto", "bitcoin",
			"forex", "profit", "return", "double", "guaranteed", "scheme",
			"portfolio", "broker", "tip",
			"निवेश", "शेयर", "मुनाफा", "रिटर्न",
		},
		tactics: []string{
			"Ask for SEBI registration",
			"Ask how they got your number",
			"Say you need to consult CA first",
			"Ask for past verified returns proof",
		},
	},
	"ROMANCE": {
		keywords: []string{
			"dear", "darling", "love", "relationship", "marry", "lonely",
			"beautiful", "handsome", "gift", "parcel", "customs", "stuck",
			"army", "soldier", "abroad", "foreign",
		},
		tactics: []string{
			"Ask for video call",
			"Ask why they chose you",
			"Ask for family members contact",
			"Request meeting in person",
		},
	},
	"DELIVERY": {
		keywords: []string{
			"courier", "parcel", "delivery", "customs", "stuck", "warehouse",
			"dhl", "fedex", "bluedart", "fees", "clearance", "import",
			"पार्सल", "कूरियर", "डिलीवरी",
		},
		tactics: []string{
			"Ask for tracking number",
			"Say you didn't order anything",
			"Ask for sender details",
			"Request official customs document",
		},
	},
	"GOVERNMENT": {
		keywords: []string{
			"police", "cyber cell", "legal", "court", "arrest", "warrant",
			"summon", "income tax", "gst", "enforcement", "narcotics",
			"crime", "case", "fir", "complaint",
			"पुलिस", "कोर्ट", "गिरफ्तार", "कानूनी",
		},
		tactics: []string{
			"Act scared and confused",
			"Ask for badge number/ID",
			"Say you'll come to station",
			"Ask for official letter/email",
		},
	},
}

var unknownTactics = []string{"Stay vague", "Ask clarifying questions", "Act confused"}

// Classify names the scam archetype for a message, with optional prior
// conversation for context. Ties between equally scoring archetypes break
// lexicographically so classification is deterministic.
func Classify(text string, conversation []string) Classification {
	var sb strings.Builder
	for _, m := range conversation {
		sb.WriteString(strings.ToLower(m))
		sb.WriteString(" ")
	}
	sb.WriteString(strings.ToLower(text))
	fullText := sb.String()

	type score struct {
		confidence float64
		matched    []string
	}
	scores := make(map[string]score)
	for name, arch := range archetypes {
		var matched []string
		for _, kw := range arch.keywords {
			if strings.Contains(fullText, strings.ToLower(kw)) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > 0 {
			scores[name] = score{
				confidence: math.Min(float64(len(matched))/3, 1.0),
				matched:    matched,
			}
		}
	}

	if len(scores) == 0 {
		return Classification{
			ScamType:         "UNKNOWN",
			Confidence:       0,
			MatchedKeywords:  []string{},
			SuggestedTactics: unknownTactics,
		}
	}

	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if scores[name].confidence > scores[best].confidence {
			best = name
		}
	}

	return Classification{
		ScamType:         best,
		Confidence:       scores[best].confidence,
		MatchedKeywords:  scores[best].matched,
		SuggestedTactics: archetypes[best].tactics,
	}
}

// TacticsFor returns the engagement tactics for a known scam type.
func TacticsFor(scamType string) []string {
	if arch, ok := archetypes[scamType]; ok {
		return arch.tactics
	}
	return []string{"Stay vague", "Ask clarifying questions"}
}

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

func sortStrings(values []string) {
	sort.Strings(values)
}
