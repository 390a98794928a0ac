// Package tactics drives the engagement playbook: a six stage arc from
// feigned confusion to final extraction, with stage-appropriate stalls,
// probing questions and fake artifact decisions.
package tactics

import (
	"math/rand"
	"strings"
	"sync"
)

// Stage names one step of the engagement arc, in order.
type Stage string

const (
	InitialConfusion     Stage = "initial_confusion"
	BuildingTrust        Stage = "building_trust"
	FakeCompliance       Stage = "fake_compliance"
	InformationGathering Stage = "information_gathering"
	DelayTactics         Stage = "delay_tactics"
	FinalExtraction      Stage = "final_extraction"
)

var stageOrder = []Stage{
	InitialConfusion,
	BuildingTrust,
	FakeCompliance,
	InformationGathering,
	DelayTactics,
	FinalExtraction,
}

// Response is a tactical reply plus metadata about what it tries to pull
// out of the operator.
type Response struct {
	Text         string `json:"text"`
	Tactic       string `json:"tactic"`
	Goal         string `json:"goal"`
	AdvanceStage bool   `json:"advanceStage"`
}

// ArtifactDecision says whether to send a fake image and which kind.
type ArtifactDecision struct {
	Send    bool   `json:"send"`
	Type    string `json:"type,omitempty"`
	Subtype string `json:"subtype,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type stagePlay struct {
	tactic       string
	goal         string
	advanceStage bool
	responses    map[string][]string
	questions    map[string][]string
}

var stagePlays = map[Stage]stagePlay{
	InitialConfusion: {
		tactic:       "confusion",
		goal:         "make scammer explain more, extract name/org",
		advanceStage: true,
		responses: map[string][]string{
			"en": {
				"Wait I don't understand... what exactly am I supposed to do? Can you explain step by step?",
				"Sorry I'm not very good with technology... what is UPI? Can you explain simply?",
				"I'm confused, you're calling from which bank? What department exactly?",
				"Hold on, my grandson usually handles these things... can you explain more clearly?",
				"I don't understand this computer stuff... what should I do exactly?",
			},
			"hi": {
				"रुकिए मुझे समझ नहीं आया... मुझे क्या करना है? थोड़ा आसान भाषा में बताइए",
				"माफ कीजिए मुझे टेक्नोलॉजी की ज्यादा समझ नहीं है... UPI क्या होता है?",
				"एक मिनट, आप किस बैंक से बोल रहे हो? कौन सा डिपार्टमेंट?",
				"मेरा बेटा ये सब देखता है... आप थोड़ा और समझाइए",
			},
			"ta": {
				"காத்திருங்கள் புரியவில்லை... என்ன செய்ய வேண்டும்?",
				"மன்னிக்கவும் எனக்கு தொழில்நுட்பம் சரியாக தெரியாது...",
			},
			"te": {
				"ఆగండి నాకు అర్థం కాలేదు... ఏం చేయాలి?",
				"క్షమించండి నాకు టెక్నాలజీ తెలియదు...",
			},
		},
		questions: map[string][]string{
			"en": {
				"By the way, what is your name sir/madam?",
				"And this is official bank call right? From which branch?",
				"Can I get your employee ID for my records?",
			},
			"hi": {
				"वैसे आपका नाम क्या है?",
				"और ये ऑफिशियल बैंक कॉल है ना? कौन सी ब्रांच से?",
			},
		},
	},
	BuildingTrust: {
		tactic:       "trust_verification",
		goal:         "extract phone numbers, addresses, department info",
		advanceStage: true,
		responses: map[string][]string{
			"en": {
				"Okay I understand now... but how do I know this is real? What's your callback number?",
				"Alright, let me just verify - what's your supervisor's name? I want to be sure.",
				"I see, I see... and where is your office located? I might want to visit.",
				"Okay sounds important... but first tell me which exact department you're from?",
			},
			"hi": {
				"ठीक है समझ गया... लेकिन ये असली है कैसे पता चलेगा? आपका नंबर क्या है?",
				"अच्छा ठीक है... आपके ऑफिस का पता क्या है? मैं आकर मिलूंगा",
				"हाँ हाँ... पहले बताइए आप कौन से डिपार्टमेंट से हैं?",
			},
		},
	},
	FakeCompliance: {
		tactic:       "fake_compliance",
		goal:         "extract UPI IDs, bank accounts, names",
		advanceStage: true,
		responses: map[string][]string{
			"en": {
				"Okay okay I'll do it... but wait, let me note down your details first. What's your full name and ID?",
				"Fine I trust you... just tell me where to send the money? Give me complete details.",
				"Alright I want to help... but first send me the official document so I can verify.",
				"Yes yes I'll send OTP... but first tell me your bank account so I know it's going to right place.",
			},
			"hi": {
				"ठीक है मैं करूंगा... पहले अपना पूरा नाम और ID बताओ लिख लूं",
				"हाँ ठीक है... बस बताओ पैसे कहाँ भेजने हैं? पूरी डिटेल दो",
				"चलो भरोसा करता हूँ... पहले डॉक्यूमेंट भेजो तो",
			},
		},
	},
	InformationGathering: {
		tactic:       "direct_extraction",
		goal:         "get UPI ID, account details, organization name",
		advanceStage: true,
		responses: map[string][]string{
			"en": {
				"I'm ready to send... just confirm the UPI ID once more, and whose account is it?",
				"Money is ready... give me account number, IFSC, and beneficiary name",
				"OTP will come in 2 minutes... meanwhile tell me which company/org you represent?",
				"Just transferring now... what's the reference number you'll give me as proof?",
			},
			"hi": {
				"भेज रहा हूँ... UPI ID फिर से बताओ, किसके नाम है?",
				"पैसे तैयार हैं... अकाउंट नंबर, IFSC और नाम बताओ",
				"OTP आ रहा है... तब तक बताओ आप कौन सी कंपनी से हो?",
			},
		},
	},
	DelayTactics: {
		tactic:       "delay",
		goal:         "waste time, get backup contact info",
		advanceStage: true,
		responses: map[string][]string{
			"en": {
				"Wait wait, the app is loading slowly... network problem. Give me 5 minutes.",
				"Hold on, someone is at the door. Don't go anywhere, I'll be back.",
				"The OTP is not coming... let me try again. What's your number again?",
				"My phone is hanging... using old phone. Tell me your alternate number if call drops.",
				"Bank app asking for more details... what was your employee ID again?",
			},
			"hi": {
				"रुको रुको, ऐप लोड हो रहा है... नेटवर्क प्रॉब्लम है। 5 मिनट दो",
				"एक मिनट, कोई दरवाज़े पर है। कहीं मत जाना, अभी आया",
				"OTP नहीं आ रहा... फिर से ट्राई करता हूँ। नंबर फिर से बताओ?",
			},
		},
	},
	FinalExtraction: {
		tactic:       "final_extraction",
		goal:         "get backup contacts, supervisor info, WhatsApp",
		advanceStage: false,
		responses: map[string][]string{
			"en": {
				"Okay done, payment processing... give me your reference number and main office number for follow up.",
				"Sending now... but if there's problem, what's your WhatsApp number?",
				"It says pending... give me alternate account in case this fails.",
				"Almost done... just need your supervisor's contact for confirmation.",
			},
			"hi": {
				"हो गया, पेमेंट हो रहा है... रेफरेंस नंबर दो और मेन ऑफिस का नंबर",
				"भेज रहा हूँ... प्रॉब्लम हुई तो WhatsApp नंबर क्या है?",
			},
		},
	},
}

// probingQuestions are extraction prompts keyed by language and scam type.
var probingQuestions = map[string]map[string][]string{
	"en": {
		"KYC": {
			"What's your UPI ID for the payment?",
			"And this UPI is registered to which name?",
			"Any alternate UPI if this doesn't work?",
		},
		"BANKING": {
			"Which branch are you calling from?",
			"What's your employee ID?",
			"Can I get the branch manager's name?",
		},
		"LOTTERY": {
			"What company is this lottery from?",
			"What's the official website?",
			"Where should I send the processing fee?",
		},
		"TECH_SUPPORT": {
			"Which company are you from?",
			"What's your technician ID?",
			"What's your callback number?",
		},
		"default": {
			"Can I get your name for my records?",
			"What organization are you from?",
			"What's your contact number?",
			"Where is your office located?",
		},
	},
	"hi": {
		"default": {
			"आपका नाम क्या है?",
			"कौन सी कंपनी से हैं?",
			"फोन नंबर क्या है?",
			"ऑफिस कहाँ है?",
		},
	},
}

// artifactTriggers maps request keywords to the fake artifact kind the
// operator is fishing for.
var artifactTriggers = []struct {
	keyword string
	kind    string
}{
	{"screenshot", "bank_balance"},
	{"balance", "bank_balance"},
	{"स्क्रीनशॉट", "bank_balance"},
	{"payment", "upi_payment"},
	{"पेमेंट", "upi_payment"},
	{"otp", "otp"},
	{"ओटीपी", "otp"},
	{"aadhar", "id_card"},
	{"aadhaar", "id_card"},
	{"आधार", "id_card"},
	{"pan", "id_card"},
	{"पैन", "id_card"},
}

// Engine tracks the engagement stage for every session and plays the
// stage's tactic. Safe for concurrent use.
type Engine struct {
	mu     sync.Mutex
	stages map[string]Stage
	rng    *rand.Rand
}

// NewEngine builds a tactics engine around the given randomness source.
func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{
		stages: make(map[string]Stage),
		rng:    rng,
	}
}

// CurrentStage returns the session's stage, starting at initial confusion.
func (e *Engine) CurrentStage(sessionID string) Stage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentLocked(sessionID)
}

// AdvanceStage moves the session one stage forward, clamped at the last.
func (e *Engine) AdvanceStage(sessionID string) Stage {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.currentLocked(sessionID)
	idx := stageIndex(current)
	if idx < len(stageOrder)-1 {
		idx++
	}
	e.stages[sessionID] = stageOrder[idx]
	return stageOrder[idx]
}

// Respond plays the session's current stage for the given scam type and
// language. It does not advance the stage; the caller decides that from
// the returned AdvanceStage flag.
func (e *Engine) Respond(sessionID, scamType, language string) Response {
	e.mu.Lock()
	defer e.mu.Unlock()

	stage := e.currentLocked(sessionID)
	play := stagePlays[stage]

	text := e.pick(localized(play.responses, language))
	if len(play.questions) > 0 {
		text += " " + e.pick(localized(play.questions, language))
	}

	return Response{
		Text:         text,
		Tactic:       play.tactic,
		Goal:         play.goal,
		AdvanceStage: play.advanceStage,
	}
}

// Drop forgets a session's stage.
func (e *Engine) Drop(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.stages, sessionID)
}

// ProbingQuestion picks one extraction question for the session, or ""
// before the engagement reaches the information gathering stages.
func (e *Engine) ProbingQuestion(sessionID, scamType, language string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if stageIndex(e.currentLocked(sessionID)) < stageIndex(InformationGathering) {
		return ""
	}
	return e.pick(ProbingQuestions(scamType, language))
}

// ProbingQuestions returns extraction questions for a scam type, falling
// back to the default set and to English.
func ProbingQuestions(scamType, language string) []string {
	byType, ok := probingQuestions[language]
	if !ok {
		byType = probingQuestions["en"]
	}
	if qs, ok := byType[scamType]; ok {
		return qs
	}
	return byType["default"]
}

// DecideArtifact decides whether to answer a request with a fake image.
// OTP requests in the first two stages get a network error stall instead;
// handing over an OTP artifact too early kills the engagement.
func DecideArtifact(message string, stage Stage) ArtifactDecision {
	lower := strings.ToLower(message)

	for _, trig := range artifactTriggers {
		if !strings.Contains(lower, trig.keyword) {
			continue
		}
		if trig.kind == "otp" && (stage == InitialConfusion || stage == BuildingTrust) {
			return ArtifactDecision{
				Send:    true,
				Type:    "error",
				Subtype: "network",
				Reason:  "Stalling - not ready to send OTP yet",
			}
		}
		return ArtifactDecision{
			Send:   true,
			Type:   trig.kind,
			Reason: "Scammer asked for " + trig.kind,
		}
	}
	return ArtifactDecision{}
}

func (e *Engine) currentLocked(sessionID string) Stage {
	if s, ok := e.stages[sessionID]; ok {
		return s
	}
	return InitialConfusion
}

func (e *Engine) pick(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[e.rng.Intn(len(list))]
}

func localized(byLang map[string][]string, language string) []string {
	if list, ok := byLang[language]; ok {
		return list
	}
	return byLang["en"]
}

func stageIndex(s Stage) int {
	for i, stage := range stageOrder {
		if stage == s {
			return i
		}
	}
	return 0
}
