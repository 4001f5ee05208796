// Package session holds the Redis session backend and the janitor that purges
// expired rows from the SQLite backend. Redis records expire via key TTLs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/quizgen/quizgen/internal/store"
)

const keyPrefix = "session:"

type record struct {
	UserID    int64 `json:"user_id"`
	ExpiresAt int64 `json:"expires_at"`
	CreatedAt int64 `json:"created_at"`
}

type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) CreateSession(ctx context.Context, userID int64, ttl time.Duration) (*store.Session, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	now := time.Now().UTC().Truncate(time.Second)
	sess := &store.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	payload, err := json.Marshal(record{
		UserID:    sess.UserID,
		ExpiresAt: sess.ExpiresAt.Unix(),
		CreatedAt: sess.CreatedAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+sess.ID, payload, ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return sess, nil
}

// GetSession returns nil, nil for unknown or expired sessions.
func (r *RedisStore) GetSession(ctx context.Context, id string) (*store.Session, error) {
	raw, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	sess := &store.Session{
		ID:        id,
		UserID:    rec.UserID,
		ExpiresAt: time.Unix(rec.ExpiresAt, 0).UTC(),
		CreatedAt: time.Unix(rec.CreatedAt, 0).UTC(),
	}
	if sess.Expired(time.Now()) {
		return nil, nil
	}
	return sess, nil
}

func (r *RedisStore) DeleteSession(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
