package agent

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamshield/honeypot/internal/persona"
)

type stubLLMClient struct {
	resp  LLMResponse
	err   error
	calls int
	last  LLMRequest
}

func (s *stubLLMClient) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return LLMResponse{}, s.err
	}
	return s.resp, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestGenerateReplyUsesModel(t *testing.T) {
	stub := &stubLLMClient{resp: LLMResponse{Text: `"You: Haan sir, which account?"`}}
	a := New(stub, discardLogger(), nil, Config{})

	reply := a.GenerateReply(context.Background(), PersonaContext{Language: "en"}, "Your account is blocked")

	assert.Equal(t, "Haan sir, which account?", reply)
	require.Equal(t, 1, stub.calls)
	require.Len(t, stub.last.Messages, 1)
	assert.Equal(t, ChatRoleUser, stub.last.Messages[0].Role)
	assert.Contains(t, stub.last.System[0], "naive person")
}

func TestGenerateReplyFallsBackOnError(t *testing.T) {
	stub := &stubLLMClient{err: errors.New("quota exceeded")}
	a := New(stub, discardLogger(), nil, Config{})

	reply := a.GenerateReply(context.Background(), PersonaContext{Language: "en"}, "Your account is blocked immediately")

	assert.Equal(t, "Oh no! Which account sir? I have multiple banks", reply)
}

func TestGenerateReplyFallsBackOnEmptyText(t *testing.T) {
	stub := &stubLLMClient{resp: LLMResponse{Text: `""`}}
	a := New(stub, discardLogger(), nil, Config{})

	reply := a.GenerateReply(context.Background(), PersonaContext{Language: "hi"}, "OTP भेजो")

	assert.Equal(t, fallbackReplies["hi"]["otp"], reply)
}

func TestGenerateReplyWithoutModel(t *testing.T) {
	a := New(nil, discardLogger(), nil, Config{})

	reply := a.GenerateReply(context.Background(), PersonaContext{}, "Click this link now")

	assert.Equal(t, "Link is not opening sir. Can you send again?", reply)
}

func TestFallbackReplyTopics(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		language string
		want     string
	}{
		{"blocked english", "Your account has been suspended", "en", fallbackReplies["en"]["blocked"]},
		{"otp english", "Share the verification code", "en", fallbackReplies["en"]["otp"]},
		{"upi hindi", "पैसे भेजो अभी", "hi", fallbackReplies["hi"]["upi"]},
		{"lottery tamil", "You won a prize", "ta", fallbackReplies["ta"]["won"]},
		{"police english", "Police will arrest you", "en", fallbackReplies["en"]["police"]},
		{"default english", "Hello good morning", "en", fallbackReplies["en"]["default"]},
		{"unknown language falls back to english", "Your account is blocked", "ml", fallbackReplies["en"]["blocked"]},
		{"missing topic falls back to default", "You won the lottery", "te", fallbackReplies["te"]["default"]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackReply(tt.message, tt.language))
		})
	}
}

func TestBuildUserPrompt(t *testing.T) {
	id := &persona.Identity{
		FirstName:  "Ramesh",
		LastName:   "Kumar",
		Age:        52,
		Occupation: "retired teacher",
	}
	pc := PersonaContext{
		Channel:           "WhatsApp",
		Language:          "hi",
		Identity:          id,
		EmotionalState:    "SCARED",
		EmotionalModifier: "You are frightened and typing fast.",
		ScamType:          "BANKING",
		Tactics:           []string{"express fear", "ask which branch"},
	}

	prompt := buildUserPrompt(pc, "Your account will be frozen")

	assert.Contains(t, prompt, "WhatsApp")
	assert.Contains(t, prompt, "Ramesh Kumar")
	assert.Contains(t, prompt, "Age: 52")
	assert.Contains(t, prompt, "CURRENT EMOTIONAL STATE: SCARED")
	assert.Contains(t, prompt, "You are frightened and typing fast.")
	assert.Contains(t, prompt, "SCAM TYPE DETECTED: BANKING")
	assert.Contains(t, prompt, "express fear, ask which branch")
	assert.Contains(t, prompt, "reply in Hindi only")
	assert.Contains(t, prompt, "(This is the first message)")
}

func TestBuildUserPromptDefaults(t *testing.T) {
	prompt := buildUserPrompt(PersonaContext{}, "hello")

	assert.Contains(t, prompt, "You're chatting on SMS.")
	assert.Contains(t, prompt, "Name: the victim")
	assert.Contains(t, prompt, "SCAM TYPE DETECTED: UNKNOWN")
	assert.Contains(t, prompt, "ask questions, act confused")
	assert.Contains(t, prompt, "reply in English only")
}

func TestCleanReply(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"hello sir"`, "hello sir"},
		{"You: which bank?", "which bank?"},
		{"Reply: ok sir", "ok sir"},
		{"  plain text  ", "plain text"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanReply(tt.in))
	}
}

func TestNeutralReply(t *testing.T) {
	a := New(nil, discardLogger(), rand.New(rand.NewSource(7)), Config{})

	reply := a.NeutralReply("hi")
	assert.Contains(t, neutralReplies["hi"], reply)

	reply = a.NeutralReply("ta")
	assert.Contains(t, neutralReplies["en"], reply)
}

func TestFallbackLLMClient(t *testing.T) {
	t.Run("primary succeeds", func(t *testing.T) {
		primary := &stubLLMClient{resp: LLMResponse{Text: "ok"}}
		fallback := &stubLLMClient{resp: LLMResponse{Text: "never"}}
		c := NewFallbackLLMClient(primary, fallback, discardLogger())

		resp, err := c.Complete(context.Background(), LLMRequest{})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Text)
		assert.Zero(t, fallback.calls)
	})

	t.Run("fallback after primary failure", func(t *testing.T) {
		primary := &stubLLMClient{err: errors.New("down")}
		fallback := &stubLLMClient{resp: LLMResponse{Text: "backup"}}
		c := NewFallbackLLMClient(primary, fallback, discardLogger())

		resp, err := c.Complete(context.Background(), LLMRequest{})
		require.NoError(t, err)
		assert.Equal(t, "backup", resp.Text)
	})

	t.Run("both fail", func(t *testing.T) {
		primary := &stubLLMClient{err: errors.New("down")}
		fallback := &stubLLMClient{err: errors.New("also down")}
		c := NewFallbackLLMClient(primary, fallback, discardLogger())

		_, err := c.Complete(context.Background(), LLMRequest{})
		assert.EqualError(t, err, "also down")
	})

	t.Run("no fallback configured", func(t *testing.T) {
		primary := &stubLLMClient{err: errors.New("down")}
		c := NewFallbackLLMClient(primary, nil, discardLogger())

		_, err := c.Complete(context.Background(), LLMRequest{})
		assert.EqualError(t, err, "down")
	})
}
