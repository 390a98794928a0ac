package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const sessionKeyPrefix = "honeypot:session:"

// RedisStore persists sessions in Redis so replicas share engagement
// state. Sessions expire after the configured TTL of inactivity.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore wraps a Redis client. A zero ttl disables expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("honeypot.internal.session")
	}
	return &RedisStore{
		redis:  client,
		ttl:    ttl,
		tracer: tracer,
	}
}

// GetOrCreate loads the session, creating and persisting a fresh one when
// the id is unknown.
func (r *RedisStore) GetOrCreate(ctx context.Context, id string) (*Session, error) {
	s, err := r.Get(ctx, id)
	if err == nil {
		return s, nil
	}
	if err != ErrNotFound {
		return nil, err
	}
	s = New(id)
	if err := r.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get loads one session or returns ErrNotFound.
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	ctx, span := r.tracer.Start(ctx, "session.load")
	defer span.End()

	data, err := r.redis.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to load %s: %w", id, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to decode %s: %w", id, err)
	}
	return &s, nil
}

// Save persists the session and refreshes its TTL.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	ctx, span := r.tracer.Start(ctx, "session.save")
	defer span.End()

	data, err := json.Marshal(s)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal %s: %w", s.ID, err)
	}
	if err := r.redis.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist %s: %w", s.ID, err)
	}
	return nil
}

// Delete removes the session.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "session.delete")
	defer span.End()

	if err := r.redis.Del(ctx, sessionKey(id)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to delete %s: %w", id, err)
	}
	return nil
}

// List scans for live session ids.
func (r *RedisStore) List(ctx context.Context) ([]string, error) {
	ctx, span := r.tracer.Start(ctx, "session.list")
	defer span.End()

	var ids []string
	iter := r.redis.Scan(ctx, 0, sessionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(sessionKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to list: %w", err)
	}
	return ids, nil
}

// Stats loads every live session and summarizes it. Fine at honeypot
// scale; the session count is bounded by the TTL.
func (r *RedisStore) Stats(ctx context.Context) (Stats, error) {
	ids, err := r.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{TotalSessions: len(ids)}
	for _, id := range ids {
		s, err := r.Get(ctx, id)
		if err != nil {
			if err == ErrNotFound {
				stats.TotalSessions--
				continue
			}
			return Stats{}, err
		}
		if s.ScamDetected {
			stats.ScamSessions++
		}
		if s.CallbackSent {
			stats.CallbacksSent++
		}
	}
	return stats, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
