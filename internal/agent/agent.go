package agent

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
)

// Agent turns scammer messages into victim-persona replies. When no LLM
// client is configured, or every provider fails, it falls back to
// deterministic templated replies keyed on message keywords and language.
type Agent struct {
	llm          LLMClient
	facts        *FactClient
	logger       *slog.Logger
	rng          *rand.Rand
	systemPrompt string
}

// Config tunes an Agent. All fields are optional.
type Config struct {
	SystemPrompt string
	// Facts answers general knowledge questions from free public
	// sources before any LLM call is made.
	Facts *FactClient
}

// New creates an Agent. llm may be nil, in which case only templated
// replies are produced. The rng drives the neutral reply pool.
func New(llm LLMClient, logger *slog.Logger, rng *rand.Rand, cfg Config) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	prompt := cfg.SystemPrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = defaultSystemPrompt
	}
	return &Agent{
		llm:          llm,
		facts:        cfg.Facts,
		logger:       logger,
		rng:          rng,
		systemPrompt: prompt,
	}
}

// GenerateReply produces the next victim reply to the scammer's latest
// message. It never returns an error: on any provider failure it degrades
// to a templated reply in the detected language.
func (a *Agent) GenerateReply(ctx context.Context, pc PersonaContext, message string) string {
	// Scammers often test the persona with general knowledge questions.
	// Those are answered from free sources before any model is called.
	if a.facts != nil {
		if answer := a.facts.Answer(ctx, message); answer != "" {
			a.logger.Debug("answered factual question without model",
				"language", pc.Language,
			)
			return answer
		}
	}

	if a.llm == nil {
		return FallbackReply(message, pc.Language)
	}

	req := LLMRequest{
		System: []string{a.systemPrompt},
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: buildUserPrompt(pc, message)},
		},
		MaxTokens:   150,
		Temperature: 0.8,
		TopP:        0.9,
	}

	resp, err := a.llm.Complete(ctx, req)
	if err != nil {
		a.logger.Warn("reply generation failed, using templated fallback",
			"error", err.Error(),
			"language", pc.Language,
		)
		return FallbackReply(message, pc.Language)
	}

	reply := cleanReply(resp.Text)
	if reply == "" {
		a.logger.Warn("model returned empty reply, using templated fallback",
			"language", pc.Language,
		)
		return FallbackReply(message, pc.Language)
	}

	return reply
}

// NeutralReply returns a low-commitment reply for sessions where no scam
// has been confirmed yet. It keeps the conversation open without playing
// the victim persona.
func (a *Agent) NeutralReply(language string) string {
	pool, ok := neutralReplies[language]
	if !ok {
		pool = neutralReplies["en"]
	}
	if a.rng == nil {
		return pool[0]
	}
	return pool[a.rng.Intn(len(pool))]
}

var neutralReplies = map[string][]string{
	"en": {
		"Hello, who is this?",
		"Sorry, I think I don't know this number. Who are you?",
		"Ok. What is this regarding?",
		"I am little busy right now, can you tell me quickly?",
	},
	"hi": {
		"नमस्ते, आप कौन बोल रहे हैं?",
		"माफ कीजिए, यह नंबर मेरे पास सेव नहीं है। आप कौन?",
		"ठीक है। किस बारे में बात करनी है?",
	},
}

// fallbackReplies are per-language canned lines keyed by message topic.
type fallbackSet map[string]string

var fallbackReplies = map[string]fallbackSet{
	"en": {
		"blocked": "Oh no! Which account sir? I have multiple banks",
		"otp":     "Sir I didn't receive any OTP yet. Can you send again?",
		"upi":     "Which UPI should I use? Paytm or PhonePe?",
		"link":    "Link is not opening sir. Can you send again?",
		"won":     "Really?? I never win anything! What should I do?",
		"police":  "Please sir I am honest person! What happened?",
		"default": "I don't understand properly. Can you explain again please?",
	},
	"hi": {
		"blocked": "अरे बाप रे! कौन सा खाता सर? मेरे पास कई बैंक हैं",
		"otp":     "सर मुझे अभी तक कोई OTP नहीं आया। फिर से भेज सकते हैं?",
		"upi":     "कौन सा UPI use करूं? Paytm या PhonePe?",
		"link":    "सर लिंक नहीं खुल रहा। फिर से भेजिए?",
		"won":     "सच में?? मैं कभी नहीं जीतता! क्या करना होगा?",
		"police":  "सर प्लीज मैं ईमानदार आदमी हूं! क्या हुआ?",
		"default": "मुझे ठीक से समझ नहीं आया। फिर से बताइए?",
	},
	"ta": {
		"blocked": "ஐயோ! எந்த அக்கவுண்ட் சார்? என்கிட்ட பல பேங்க் இருக்கு",
		"otp":     "சார் எனக்கு இன்னும் OTP வரல. மறுபடியும் அனுப்புங்க?",
		"upi":     "எந்த UPI use பண்ணணும்? Paytm அல்லது PhonePe?",
		"link":    "சார் லிங்க் ஓபன் ஆகல. மறுபடியும் அனுப்புங்க?",
		"won":     "உண்மையா?? நான் எப்பவும் ஜெயிக்க மாட்டேன்! என்ன பண்ணணும்?",
		"police":  "சார் ப்ளீஸ் நான் நல்ல ஆள் தான்! என்ன ஆச்சு?",
		"default": "எனக்கு சரியா புரியல. மறுபடியும் சொல்லுங்க?",
	},
	"te": {
		"blocked": "అయ్యో! ఏ అకౌంట్ సర్? నా దగ్గర చాలా బ్యాంక్‌లు ఉన్నాయి",
		"otp":     "సర్ నాకు ఇంకా OTP రాలేదు. మళ్ళీ పంపగలరా?",
		"upi":     "ఏ UPI వాడాలి? Paytm లేదా PhonePe?",
		"link":    "సర్ లింక్ ఓపెన్ కావడం లేదు. మళ్ళీ పంపండి?",
		"default": "నాకు సరిగ్గా అర్థం కాలేదు. మళ్ళీ చెప్పండి?",
	},
}

// fallbackTopics is checked in order; the first topic whose keywords
// appear in the message wins.
var fallbackTopics = []struct {
	topic    string
	keywords []string
}{
	{"blocked", []string{"blocked", "suspended", "closed", "ब्लॉक", "बंद"}},
	{"otp", []string{"otp", "code", "verify", "ओटीपी", "कोड"}},
	{"upi", []string{"upi", "payment", "transfer", "send", "पैसे", "भेजो"}},
	{"link", []string{"click", "link", "website", "लिंक", "क्लिक"}},
	{"won", []string{"won", "prize", "lottery", "जीत", "इनाम"}},
	{"police", []string{"police", "legal", "arrest", "पुलिस", "कानूनी"}},
}

// FallbackReply picks a deterministic canned reply matching the message
// topic, in the given language when available and English otherwise.
func FallbackReply(message, language string) string {
	set, ok := fallbackReplies[language]
	if !ok {
		set = fallbackReplies["en"]
	}

	lower := strings.ToLower(message)
	for _, t := range fallbackTopics {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				if reply, ok := set[t.topic]; ok {
					return reply
				}
				return set["default"]
			}
		}
	}

	return set["default"]
}
