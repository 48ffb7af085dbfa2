package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionRepository stores login sessions in Redis. A session maps an opaque
// session ID (the token's jti) to the user it belongs to.
type SessionRepository struct {
	rdb *redis.Client
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

// Save records a session that expires after ttl.
func (r *SessionRepository) Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, sessionKeyPrefix+sessionID, userID, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Lookup returns the user owning a live session, or ErrSessionNotFound.
func (r *SessionRepository) Lookup(ctx context.Context, sessionID string) (string, error) {
	userID, err := r.rdb.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("lookup session: %w", err)
	}
	return userID, nil
}

// Delete ends a session. Deleting an unknown session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
