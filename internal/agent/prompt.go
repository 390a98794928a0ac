package agent

import (
	"fmt"
	"strings"

	"github.com/scamshield/honeypot/internal/langdetect"
	"github.com/scamshield/honeypot/internal/persona"
)

// defaultSystemPrompt frames the victim persona for the model. A custom
// prompt can be supplied through Config.SystemPrompt.
const defaultSystemPrompt = `You are playing a naive person who might fall for scams.
Your goal is to keep the scammer engaged as long as possible while acting confused
and asking questions that make them reveal payment identifiers (UPI IDs, account
numbers, phone numbers, links).
Never reveal that you know it is a scam. Never send real money or real credentials.
Keep every reply short, one or two sentences, like a real chat message. Small typos
and grammar slips are fine.
IMPORTANT: Always reply in the same language as the scammer.`

// PersonaContext carries the per-session context a reply is generated
// against: who the victim pretends to be, how they currently feel, and
// what tactics the conversation stage calls for.
type PersonaContext struct {
	Channel           string
	Language          string
	Identity          *persona.Identity
	EmotionalState    string
	EmotionalModifier string
	ScamType          string
	Tactics           []string
	ProbingQuestion   string
	History           string
	Artifact          string
}

// buildUserPrompt assembles the turn prompt from the persona context and
// the scammer's latest message.
func buildUserPrompt(pc PersonaContext, message string) string {
	channel := pc.Channel
	if channel == "" {
		channel = "SMS"
	}

	name := "the victim"
	age := 45
	occupation := "homemaker"
	if pc.Identity != nil {
		name = pc.Identity.FirstName + " " + pc.Identity.LastName
		age = pc.Identity.Age
		occupation = pc.Identity.Occupation
	}

	state := pc.EmotionalState
	if state == "" {
		state = "CONFUSED"
	}

	scamType := pc.ScamType
	if scamType == "" {
		scamType = "UNKNOWN"
	}

	tactics := "ask questions, act confused"
	if len(pc.Tactics) > 0 {
		tactics = strings.Join(pc.Tactics, ", ")
	}

	language := langdetect.Name(pc.Language)

	history := pc.History
	if history == "" {
		history = "(This is the first message)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You're chatting on %s. A scammer just sent you this message.\n\n", channel)
	fmt.Fprintf(&b, "YOUR IDENTITY:\n- Name: %s\n- Age: %d\n- Occupation: %s\n\n", name, age, occupation)
	fmt.Fprintf(&b, "CURRENT EMOTIONAL STATE: %s\n", state)
	if pc.EmotionalModifier != "" {
		b.WriteString(pc.EmotionalModifier)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nSCAM TYPE DETECTED: %s\nRECOMMENDED TACTICS: %s\n\n", scamType, tactics)
	if pc.Artifact != "" {
		fmt.Fprintf(&b, "You have just sent the scammer a fake %s screenshot. Refer to it naturally if relevant.\n\n", pc.Artifact)
	}
	fmt.Fprintf(&b, "IMPORTANT: The scammer is writing in %s. You MUST reply in %s only.\n\n", language, language)
	fmt.Fprintf(&b, "CONVERSATION SO FAR:\n%s\n\n", history)
	fmt.Fprintf(&b, "SCAMMER'S LATEST MESSAGE:\n%q\n\n", message)
	fmt.Fprintf(&b, "YOUR TASK:\nReply as %s in %s. You are feeling %s.\n", name, language, strings.ToLower(state))
	fmt.Fprintf(&b, "Keep it short (1-2 sentences) and realistic. Try to extract information.\nUse tactics: %s\n", tactics)
	if pc.ProbingQuestion != "" {
		fmt.Fprintf(&b, "If it fits naturally, work in a question like: %q\n", pc.ProbingQuestion)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "YOUR REPLY (just the message in %s, nothing else):", language)

	return b.String()
}

// replyPrefixes are chatter some models prepend despite instructions.
var replyPrefixes = []string{"you:", "reply:", "response:", "assistant:"}

func cleanReply(text string) string {
	reply := strings.TrimSpace(text)
	reply = strings.Trim(reply, `"'`)

	for _, prefix := range replyPrefixes {
		if strings.HasPrefix(strings.ToLower(reply), prefix) {
			reply = strings.TrimSpace(reply[len(prefix):])
		}
	}

	return reply
}
