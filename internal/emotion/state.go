// Package emotion simulates the victim persona's emotional arc so replies
// stay believable over a long engagement. A session moves through states
// like confused, scared, compliant as the operator applies tactics.
package emotion

import (
	"math/rand"
	"strings"
	"sync"
)

// State is the persona's current emotional state.
type State string

const (
	Confused   State = "confused"
	Concerned  State = "concerned"
	Scared     State = "scared"
	Compliant  State = "compliant"
	Hesitant   State = "hesitant"
	Suspicious State = "suspicious"
	Panicked   State = "panicked"
)

// transition is one possible state change with its probability of firing.
type transition struct {
	to   State
	prob float64
}

// stateTransitions maps current state and detected tactic to the next
// state. Probabilities are tuned so the persona drifts toward compliance
// under sustained pressure but can turn suspicious.
var stateTransitions = map[State]map[string]transition{
	Confused: {
		"threat":    {Scared, 0.7},
		"urgency":   {Concerned, 0.6},
		"authority": {Concerned, 0.5},
		"help":      {Compliant, 0.4},
		"default":   {Confused, 0.8},
	},
	Concerned: {
		"threat":   {Scared, 0.8},
		"urgency":  {Panicked, 0.3},
		"reassure": {Compliant, 0.6},
		"help":     {Compliant, 0.7},
		"default":  {Concerned, 0.6},
	},
	Scared: {
		"threat":   {Panicked, 0.5},
		"reassure": {Compliant, 0.7},
		"help":     {Compliant, 0.8},
		"pressure": {Hesitant, 0.4},
		"default":  {Scared, 0.6},
	},
	Compliant: {
		"pressure": {Hesitant, 0.5},
		"threat":   {Scared, 0.4},
		"reassure": {Compliant, 0.8},
		"default":  {Compliant, 0.7},
	},
	Hesitant: {
		"threat":   {Scared, 0.6},
		"pressure": {Suspicious, 0.5},
		"reassure": {Compliant, 0.5},
		"default":  {Hesitant, 0.6},
	},
	Suspicious: {
		"threat":   {Scared, 0.4},
		"reassure": {Hesitant, 0.5},
		"default":  {Suspicious, 0.7},
	},
	Panicked: {
		"reassure": {Scared, 0.6},
		"help":     {Compliant, 0.5},
		"default":  {Panicked, 0.5},
	},
}

// tacticKeywords detects which manipulation tactic a message uses. Checked
// in order; the first tactic with a keyword hit wins.
var tacticKeywords = []struct {
	tactic   string
	keywords []string
}{
	{"threat", []string{"block", "arrest", "police", "legal", "suspend", "cancel", "jail",
		"ब्लॉक", "गिरफ्तार", "पुलिस", "बंद"}},
	{"urgency", []string{"immediately", "now", "urgent", "hurry", "today", "quickly", "fast",
		"तुरंत", "अभी", "जल्दी"}},
	{"authority", []string{"bank", "rbi", "government", "officer", "manager", "department",
		"बैंक", "सरकार", "अधिकारी"}},
	{"pressure", []string{"last chance", "final", "deadline", "expire", "must", "have to",
		"आखिरी", "ज़रूरी"}},
	{"reassure", []string{"don't worry", "safe", "help", "trust", "secure", "protect",
		"चिंता मत", "सुरक्षित"}},
	{"help", []string{"help", "assist", "support", "solve", "fix", "resolve",
		"मदद", "सहायता"}},
}

// stateResponses are canned replies per state and language, used when no
// model is available or the model fails.
var stateResponses = map[State]map[string][]string{
	Confused: {
		"en": {
			"Wait, I don't understand... can you explain again?",
			"Sorry, what are you saying? I'm confused.",
			"I don't get it... what should I do?",
			"Huh? What is happening? Please explain slowly.",
		},
		"hi": {
			"रुकिए, मुझे समझ नहीं आया... फिर से बताइए?",
			"माफ कीजिए, आप क्या कह रहे हैं? मुझे confusion हो रहा है",
			"मुझे समझ नहीं आ रहा... क्या करना है?",
		},
	},
	Concerned: {
		"en": {
			"Oh no, is there really a problem? What happened?",
			"This is concerning... what should I do?",
			"I'm worried now... please tell me more.",
			"Is this serious? What's wrong with my account?",
		},
		"hi": {
			"अरे नहीं, सच में कोई problem है? क्या हुआ?",
			"मुझे चिंता हो रही है... क्या करना चाहिए?",
			"ये serious है क्या? मेरे account में क्या गड़बड़ है?",
		},
	},
	Scared: {
		"en": {
			"Oh my god! Please don't block my account! I'll do anything!",
			"Please sir, I'm scared! What do I do?",
			"I don't want any trouble! Please help me!",
			"I'm very worried now... please tell me what to do!",
		},
		"hi": {
			"भगवान! प्लीज मेरा account block मत करिए! मैं कुछ भी करूंगा!",
			"सर प्लीज, मुझे डर लग रहा है! क्या करूं?",
			"मुझे कोई problem नहीं चाहिए! प्लीज मदद करिए!",
		},
	},
	Compliant: {
		"en": {
			"Okay okay, I'll do whatever you say. Just tell me.",
			"Yes sir, I'm ready to help. What do you need?",
			"Fine, I trust you. Tell me what to do.",
			"Alright, I'll cooperate. Please guide me.",
		},
		"hi": {
			"ठीक है ठीक है, आप जो कहो मैं करूंगा। बस बताइए।",
			"हाँ सर, मैं तैयार हूं। क्या चाहिए आपको?",
			"चलिए, मुझे भरोसा है। बताइए क्या करना है।",
		},
	},
	Hesitant: {
		"en": {
			"Wait, are you sure about this? Let me think...",
			"I'm not sure... maybe I should check with someone first.",
			"Hmm, something doesn't feel right... can you verify again?",
			"Hold on, let me just confirm this with my bank first.",
		},
		"hi": {
			"रुकिए, आप sure हैं? मुझे सोचने दीजिए...",
			"मुझे पक्का नहीं है... शायद पहले किसी से पूछ लूं।",
			"हम्म, कुछ ठीक नहीं लग रहा... फिर से verify करिए?",
		},
	},
	Suspicious: {
		"en": {
			"Wait a minute... how do I know you're really from the bank?",
			"Something is fishy here... can you give me your employee ID?",
			"I think I should call my bank directly to verify this.",
			"Why are you asking for OTP? Bank never asks for OTP on call.",
		},
		"hi": {
			"एक मिनट... मुझे कैसे पता आप सच में बैंक से हैं?",
			"कुछ गड़बड़ लग रहा है... अपना employee ID दीजिए?",
			"मुझे लगता है मैं bank को directly call करके verify करूं।",
		},
	},
	Panicked: {
		"en": {
			"OH NO OH NO! Please don't do anything! I'll send immediately!",
			"Please please please! Don't arrest me! I'll do everything!",
			"I'm so scared! Just tell me quickly what to do!",
			"My hands are shaking! Please help me fix this NOW!",
		},
		"hi": {
			"अरे बाप रे! प्लीज कुछ मत करिए! मैं अभी भेजता हूं!",
			"प्लीज प्लीज! मुझे arrest मत करिए! सब करूंगा!",
			"मुझे बहुत डर लग रहा है! जल्दी बताइए क्या करना है!",
		},
	},
}

// promptModifiers feed the current state into the model prompt.
var promptModifiers = map[State]string{
	Confused:   "You are confused and don't understand what's happening.",
	Concerned:  "You are concerned and worried about the situation.",
	Scared:     "You are scared and afraid of the consequences.",
	Compliant:  "You are willing to help and follow instructions.",
	Hesitant:   "You are having second thoughts and are unsure.",
	Suspicious: "You are becoming suspicious and asking questions.",
	Panicked:   "You are in a state of panic and will do anything.",
}

// DetectTactic names the manipulation tactic a message leans on, or
// "default" when none is recognized.
func DetectTactic(message string) string {
	lower := strings.ToLower(message)
	for _, tk := range tacticKeywords {
		for _, kw := range tk.keywords {
			if strings.Contains(lower, kw) {
				return tk.tactic
			}
		}
	}
	return "default"
}

// Context tracks one session's emotional state. Not safe for concurrent
// use; the Manager serializes access per session.
type Context struct {
	SessionID       string  `json:"sessionId"`
	Current         State   `json:"current"`
	History         []State `json:"history"`
	TransitionCount int     `json:"transitionCount"`
}

// NewContext starts a session in the confused state.
func NewContext(sessionID string) *Context {
	return &Context{
		SessionID: sessionID,
		Current:   Confused,
		History:   []State{Confused},
	}
}

// Transition advances the state machine for one scammer message. The rng
// decides whether the candidate transition actually fires.
func (c *Context) Transition(message string, rng *rand.Rand) State {
	tactic := DetectTactic(message)
	transitions := stateTransitions[c.Current]

	tr, ok := transitions[tactic]
	if !ok {
		tr, ok = transitions["default"]
		if !ok {
			tr = transition{c.Current, 0.5}
		}
	}

	if rng.Float64() < tr.prob {
		c.Current = tr.to
		c.History = append(c.History, tr.to)
		c.TransitionCount++
	}
	return c.Current
}

// Response picks a canned reply matching the current state and language,
// falling back to English for unsupported languages.
func (c *Context) Response(language string, rng *rand.Rand) string {
	responses := stateResponses[c.Current]
	list, ok := responses[language]
	if !ok {
		list = responses["en"]
	}
	if len(list) == 0 {
		return "..."
	}
	return list[rng.Intn(len(list))]
}

// PromptModifier describes the current state for the model prompt.
func (c *Context) PromptModifier() string {
	return promptModifiers[c.Current]
}

// Manager holds emotional contexts for all live sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Context
	rng      *rand.Rand
}

// NewManager builds a manager around the given randomness source.
func NewManager(rng *rand.Rand) *Manager {
	return &Manager{
		sessions: make(map[string]*Context),
		rng:      rng,
	}
}

// GetOrCreate returns the context for a session, creating it on first use.
func (m *Manager) GetOrCreate(sessionID string) *Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(sessionID)
}

// ProcessMessage transitions the session's state for one scammer message.
func (m *Manager) ProcessMessage(sessionID, message string) *Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctx := m.getOrCreateLocked(sessionID)
	ctx.Transition(message, m.rng)
	return ctx
}

// Response draws a canned reply for the session's current state.
func (m *Manager) Response(sessionID, language string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(sessionID).Response(language, m.rng)
}

// CurrentState returns the session's state without transitioning.
func (m *Manager) CurrentState(sessionID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(sessionID).Current
}

// Drop forgets a session's emotional context.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) getOrCreateLocked(sessionID string) *Context {
	ctx, ok := m.sessions[sessionID]
	if !ok {
		ctx = NewContext(sessionID)
		m.sessions[sessionID] = ctx
	}
	return ctx
}
