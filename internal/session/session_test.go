package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMessageAndCounts(t *testing.T) {
	s := New("s1")
	require.Zero(t, s.MessageCount())

	s.AddMessage("scammer", "your account is blocked", time.Time{})
	s.AddMessage("user", "oh no what do I do", time.Time{})
	s.AddMessage("scammer", "send otp", time.Time{})

	assert.Equal(t, 3, s.MessageCount())
	assert.Equal(t, []string{"your account is blocked", "send otp"}, s.ScammerTexts())
	assert.False(t, s.LastActivity.Before(s.CreatedAt))
}

func TestHistoryForPrompt(t *testing.T) {
	s := New("s1")
	s.AddMessage("scammer", "hello", time.Time{})
	s.AddMessage("user", "who is this", time.Time{})

	got := s.HistoryForPrompt(20)
	assert.Equal(t, "Scammer: hello\nYou: who is this", got)
}

func TestHistoryForPromptCapped(t *testing.T) {
	s := New("s1")
	for i := 0; i < 30; i++ {
		s.AddMessage("scammer", "msg", time.Time{})
	}
	got := s.HistoryForPrompt(5)
	assert.Equal(t, "Scammer: msg\nScammer: msg\nScammer: msg\nScammer: msg\nScammer: msg", got)
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s, err := store.GetOrCreate(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, s)

	again, err := store.GetOrCreate(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, s, again)

	s.ScamDetected = true
	s.CallbackSent = true
	require.NoError(t, store.Save(ctx, s))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalSessions: 1, ScamSessions: 1, CallbacksSent: 1}, stats)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, store.Delete(ctx, "a"))
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				id := string(rune('a' + n))
				s, _ := store.GetOrCreate(ctx, id)
				_ = store.Save(ctx, s)
				_, _ = store.Stats(ctx)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, stats.TotalSessions)
}
