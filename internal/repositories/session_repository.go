package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore is the server-side session record behind the JWT: logout
// deletes the record, which revokes the token before it expires.
type SessionStore interface {
	Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

type RedisSessionStore struct {
	Client *redis.Client
}

func NewRedisSessionStore(addr, password string) *RedisSessionStore {
	return &RedisSessionStore{
		Client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func sessionKey(sessionID string) string { return "session:" + sessionID }

func (s *RedisSessionStore) Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	return s.Client.Set(ctx, sessionKey(sessionID), userID, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.Client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	return userID, err
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, sessionKey(sessionID)).Err()
}
