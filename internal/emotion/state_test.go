package emotion

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectTactic(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"threat", "your account will be blocked and police will come", "threat"},
		{"urgency", "do this immediately", "urgency"},
		{"authority", "I am calling from the bank", "authority"},
		{"pressure", "this is your last chance", "pressure"},
		{"reassure", "don't worry, it is safe", "reassure"},
		{"help hindi", "हम आपकी मदद करेंगे", "help"},
		{"none", "hello there", "default"},
		{"threat wins over urgency", "account blocked, act now!", "threat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectTactic(tt.message))
		})
	}
}

func TestContextStartsConfused(t *testing.T) {
	ctx := NewContext("s1")
	assert.Equal(t, Confused, ctx.Current)
	assert.Equal(t, []State{Confused}, ctx.History)
	assert.Zero(t, ctx.TransitionCount)
}

func TestTransitionThreatFromConfused(t *testing.T) {
	// threat moves confused to scared with p=0.7; over many trials the
	// observed rate should land near that
	const trials = 2000
	rng := rand.New(rand.NewSource(42))

	moved := 0
	for i := 0; i < trials; i++ {
		ctx := NewContext("s")
		ctx.Transition("we will arrest you", rng)
		if ctx.Current == Scared {
			moved++
		}
	}
	rate := float64(moved) / trials
	assert.InDelta(t, 0.7, rate, 0.05)
}

func TestTransitionOnlyToDefinedStates(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ctx := NewContext("s")
	messages := []string{
		"account blocked!", "don't worry we help", "last chance!",
		"police case", "bank officer here", "hurry now", "trust us, safe",
	}
	for i := 0; i < 200; i++ {
		got := ctx.Transition(messages[i%len(messages)], rng)
		_, known := stateTransitions[got]
		require.True(t, known, "unknown state %q", got)
	}
	assert.Equal(t, len(ctx.History), ctx.TransitionCount+1)
}

func TestResponseMatchesLanguage(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ctx := NewContext("s")

	en := ctx.Response("en", rng)
	assert.Contains(t, stateResponses[Confused]["en"], en)

	hi := ctx.Response("hi", rng)
	assert.Contains(t, stateResponses[Confused]["hi"], hi)

	// unsupported language falls back to english
	ta := ctx.Response("ta", rng)
	assert.Contains(t, stateResponses[Confused]["en"], ta)
}

func TestPromptModifierPerState(t *testing.T) {
	for state := range stateTransitions {
		ctx := &Context{Current: state}
		assert.NotEmpty(t, ctx.PromptModifier(), "state %q", state)
	}
}

func TestManagerPerSessionIsolation(t *testing.T) {
	m := NewManager(rand.New(rand.NewSource(99)))

	for i := 0; i < 50; i++ {
		m.ProcessMessage("a", "police will arrest you, account blocked!")
	}
	// session b never saw a message
	assert.Equal(t, Confused, m.CurrentState("b"))
	assert.NotEqual(t, Confused, m.CurrentState("a"))

	m.Drop("a")
	assert.Equal(t, Confused, m.CurrentState("a"))
}

func TestManagerResponseNeverEmpty(t *testing.T) {
	m := NewManager(rand.New(rand.NewSource(3)))
	m.ProcessMessage("s", "urgent! blocked!")
	assert.NotEmpty(t, m.Response("s", "en"))
}
