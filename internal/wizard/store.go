package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prank-kart/internal/model"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned for unknown, expired or foreign sessions.
var ErrSessionNotFound = model.NewDomainError(model.ErrCodeNotFound, "Wizard session not found or expired")

const sessionKeyPrefix = "wizard:"

// SessionStore keeps wizard sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisSessionStore stores sessions in Redis. Each save refreshes the ttl.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl, now: time.Now}
}

func (r *redisSessionStore) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = r.now().UTC()
	blob, err := encodeSession(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+s.ID, blob, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *redisSessionStore) Load(ctx context.Context, id string) (*Session, error) {
	raw, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	s, err := decodeSession(raw)
	if err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return s, nil
}

func (r *redisSessionStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
