package core

import (
	"context"
	"time"

	"github.com/quizgen/quizgen/internal/store"
)

// UserRepository is satisfied by *store.SQLiteStore.
type UserRepository interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*store.User, error)
	GetUserByID(ctx context.Context, id int64) (*store.User, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*store.User, error)
}

// SessionRepository is satisfied by *store.SQLiteStore and *session.RedisStore.
// GetSession returns nil, nil when the session is unknown or expired.
type SessionRepository interface {
	CreateSession(ctx context.Context, userID int64, ttl time.Duration) (*store.Session, error)
	GetSession(ctx context.Context, id string) (*store.Session, error)
	DeleteSession(ctx context.Context, id string) error
}
