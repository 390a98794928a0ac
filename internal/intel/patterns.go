package intel

import "regexp"

// Pattern families for each entity type. Families are matched independently;
// cross-family exclusions (phone vs bank account) live in the extractor.

var upiPatterns = []*regexp.Regexp{
	// standard format: user@provider
	regexp.MustCompile(`(?i)[a-zA-Z0-9._-]+@(?:ybl|paytm|oksbi|okaxis|okicici|okhdfcbank|okhdfc|upi|axl|ibl|sbi|apl|ratn|icici|hdfcbank|axisbank|kotak|indus|federal|pnb|boi|bob|cbi|iob|canara|uco|syndicate|allahabad|vijaya|dena|andhra|corporation|indian|united|idbi|bandhan|rbl|yes|nsdl|airtel|jio|freecharge|mobikwik|phonepe|gpay|amazonpay|slice|cred|groww|bajaj|jupiter|fi|navi|payzapp|hsbc|citi|sc|dbs|rbs|barclays)\b`),
	// number@provider
	regexp.MustCompile(`(?i)\b\d{10}@(?:ybl|paytm|oksbi|okaxis|okicici|upi|sbi|axl|ibl|phonepe|gpay)\b`),
}

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+91[\s.-]?\d{5}[\s.-]?\d{5}`),
	regexp.MustCompile(`\+91[\s.-]?\d{10}`),
	regexp.MustCompile(`91[\s.-]?\d{10}\b`),
	regexp.MustCompile(`\b0\d{2,4}[\s.-]?\d{6,8}\b`), // landline
	regexp.MustCompile(`\b[6-9]\d{9}\b`),             // bare mobile
	regexp.MustCompile(`\b[6-9]\d{4}[\s.-]?\d{5}\b`), // mobile with separator
	regexp.MustCompile(`(?i)(?:call|contact|whatsapp|ph|phone|mobile|mob|cell|tel)[\s:]*[+]?[\d\s.-]{10,15}`),
}

var bankAccountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{9,18}\b`),
	regexp.MustCompile(`\b\d{4}[\s.-]?\d{4}[\s.-]?\d{4}[\s.-]?\d{2,6}\b`),
	regexp.MustCompile(`(?i)(?:a/c|ac|account|acct)[\s.:#]*\d{9,18}`),
}

var ifscPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`),
	regexp.MustCompile(`(?:IFSC|IFSC CODE)[\s:]*[A-Z]{4}0[A-Z0-9]{6}`),
}

var cardPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b4\d{3}[\s.-]?\d{4}[\s.-]?\d{4}[\s.-]?\d{4}\b`),        // Visa
	regexp.MustCompile(`\b5[1-5]\d{2}[\s.-]?\d{4}[\s.-]?\d{4}[\s.-]?\d{4}\b`),   // Mastercard
	regexp.MustCompile(`\b3[47]\d{2}[\s.-]?\d{6}[\s.-]?\d{5}\b`),                // Amex
	regexp.MustCompile(`\b6(?:011|5\d{2})[\s.-]?\d{4}[\s.-]?\d{4}[\s.-]?\d{4}\b`), // Discover
	regexp.MustCompile(`\b\d{4}[\s.-]?\d{4}[\s.-]?\d{4}[\s.-]?\d{4}\b`),         // generic 16 digit
}

var emailPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	regexp.MustCompile(`(?i)(?:email|mail|e-mail)[\s:]*[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
}

var linkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://[^\s<>"'\]\)]+`),
	regexp.MustCompile(`(?i)www\.[^\s<>"'\]\)]+`),
	regexp.MustCompile(`\b[a-z0-9][-a-z0-9]*\.[a-z]{2,}(?:/[^\s]*)?`),
}

var domainOfLink = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?([^/\s]+)`)

var aadhaarPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}[\s.-]?\d{4}[\s.-]?\d{4}\b`),
	regexp.MustCompile(`(?i)(?:aadhar|aadhaar|uid)[\s:#]*\d{4}[\s.-]?\d{4}[\s.-]?\d{4}`),
}

var panPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z]{3}[ABCFGHLJPT][A-Z]\d{4}[A-Z]\b`),
	regexp.MustCompile(`(?:PAN|PAN CARD|PAN NO)[\s:#]*[A-Z]{5}\d{4}[A-Z]`),
}

var cryptoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[13][a-km-zA-HJ-NP-Z1-9]{25,34}\b`),  // Bitcoin
	regexp.MustCompile(`\bbc1[a-zA-HJ-NP-Z0-9]{39,59}\b`),      // Bitcoin bech32
	regexp.MustCompile(`\b0x[a-fA-F0-9]{40}\b`),                // Ethereum
	regexp.MustCompile(`\bT[A-Za-z1-9]{33}\b`),                 // Tron
	regexp.MustCompile(`\b[LM][a-km-zA-HJ-NP-Z1-9]{26,33}\b`),  // Litecoin
}

var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`₹[\s]?[\d,]+(?:\.\d{1,2})?`),
	regexp.MustCompile(`(?i)Rs\.?[\s]?[\d,]+(?:\.\d{1,2})?`),
	regexp.MustCompile(`(?i)INR[\s]?[\d,]+(?:\.\d{1,2})?`),
	regexp.MustCompile(`(?i)\b\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?\s*(?:rupees?|rs|inr|lakhs?|crores?|k)\b`),
	regexp.MustCompile(`(?i)(?:amount|payment|send|transfer|pay)[\s:]*(?:₹|Rs\.?|INR)?[\s]?[\d,]+`),
}

var whatsappPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:whatsapp|wa|watsapp|whats app)[\s:]*[+]?\d[\d\s.-]{9,15}`),
	regexp.MustCompile(`(?i)wa\.me/\d+`),
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:my name is|i am|this is|myself|i'm)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
	regexp.MustCompile(`(?i)(?:name|naam)[\s:]+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
	regexp.MustCompile(`(?i)(?:mr\.|mrs\.|ms\.|shri|smt\.?)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
	regexp.MustCompile(`(?i)(?:from|calling from)\s+(?:bank|sbi|hdfc|icici)[\s,]+(?:my name is\s+)?([A-Z][a-z]+)`),
}

// cleaners applied during normalization
var (
	separatorRe     = regexp.MustCompile(`[\s.-]`)
	phonePrefixRe   = regexp.MustCompile(`(?i)^(call|contact|whatsapp|ph|phone|mobile|mob|cell|tel):?`)
	accountPrefixRe = regexp.MustCompile(`(?i)^(a/c|ac|account|acct):?`)
	aadhaarPrefixRe = regexp.MustCompile(`(?i)^(aadhar|aadhaar|uid):?`)
	whatsPrefixRe   = regexp.MustCompile(`(?i)^(whatsapp|wa|watsapp|whatsapp):?`)
	digitsOnlyRe    = regexp.MustCompile(`^\+?\d+$`)
)

// keywordCategories groups suspicious keywords used both for the bundle's
// keyword set and for tactic-category detection. Hindi terms included; the
// operators this engine baits work both scripts.
var keywordCategories = map[string][]string{
	"urgency": {
		"urgent", "immediately", "now", "quick", "fast", "hurry",
		"deadline", "expire", "expiring", "last chance", "limited time",
		"तुरंत", "जल्दी", "अभी", "फटाफट",
	},
	"threat": {
		"blocked", "suspended", "closed", "terminated", "deactivate",
		"arrest", "legal", "police", "court", "fir", "case", "jail",
		"action", "penalty", "fine", "seize", "freeze",
		"ब्लॉक", "बंद", "गिरफ्तार", "पुलिस", "कोर्ट",
	},
	"credential": {
		"otp", "pin", "password", "cvv", "expiry", "mpin",
		"verify", "verification", "authenticate", "confirm",
		"ओटीपी", "पिन", "पासवर्ड",
	},
	"financial": {
		"transfer", "payment", "pay", "send", "receive", "refund",
		"cashback", "bonus", "credit", "debit", "deposit", "withdraw",
		"पैसे", "भेजो", "ट्रांसफर", "रिफंड",
	},
	"prize": {
		"won", "winner", "prize", "lottery", "lucky", "congratulations",
		"reward", "gift", "free", "selected", "chosen",
		"जीत", "इनाम", "लॉटरी", "बधाई",
	},
	"identity": {
		"kyc", "aadhar", "aadhaar", "pan", "id proof", "document",
		"upload", "submit", "provide",
		"आधार", "पैन", "केवाईसी",
	},
	"click_bait": {
		"click", "link", "website", "visit", "open", "download",
		"install", "update", "upgrade",
		"क्लिक", "लिंक", "खोलो",
	},
}

// safeDomains are never flagged as phishing unless they also hit a
// suspicious pattern (lookalike domains embed real bank names).
var safeDomains = []string{
	"sbi.co.in", "onlinesbi.com", "onlinesbi.sbi", "sbiyono.sbi",
	"hdfcbank.com", "netbanking.hdfcbank.com",
	"icicibank.com", "infinity.icicibank.com",
	"axisbank.com", "omniconnect.axisbank.com",
	"kotak.com", "kotakmahindrabank.com",
	"yesbank.in", "pnbindia.in", "bankofindia.co.in",
	"bankofbaroda.in", "canarabank.com", "unionbankofindia.co.in",
	"rbi.org.in", "npci.org.in", "uidai.gov.in",
	"google.com", "gmail.com", "paytm.com", "phonepe.com",
	"googlepay.com", "amazon.in", "flipkart.com",
	"gov.in", "nic.in", "india.gov.in",
}

// suspiciousDomainPatterns are matched against the start of the domain.
var suspiciousDomainPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^.*sbi.*verify.*`), regexp.MustCompile(`^.*bank.*secure.*`),
	regexp.MustCompile(`^.*kyc.*update.*`), regexp.MustCompile(`^.*account.*verify.*`),
	regexp.MustCompile(`^.*login.*bank.*`), regexp.MustCompile(`^.*otp.*verify.*`),
	regexp.MustCompile(`^bit\.ly`), regexp.MustCompile(`^tinyurl\.com`),
	regexp.MustCompile(`^short\.link`), regexp.MustCompile(`^t\.co`),
	regexp.MustCompile(`\.xyz$`), regexp.MustCompile(`\.tk$`),
	regexp.MustCompile(`\.ml$`), regexp.MustCompile(`\.ga$`), regexp.MustCompile(`\.cf$`),
	regexp.MustCompile(`^.*-secure.*`), regexp.MustCompile(`^.*-verify.*`),
	regexp.MustCompile(`^.*-update.*`),
}
