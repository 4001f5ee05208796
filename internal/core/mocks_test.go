package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/quizgen/quizgen/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockUserRepository struct {
	createUserFunc               func(ctx context.Context, username, email, passwordHash string) (*store.User, error)
	getUserByIDFunc              func(ctx context.Context, id int64) (*store.User, error)
	getUserByEmailFunc           func(ctx context.Context, email string) (*store.User, error)
	getUserByUsernameOrEmailFunc func(ctx context.Context, username, email string) (*store.User, error)
}

func (m *mockUserRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (*store.User, error) {
	if m.createUserFunc != nil {
		return m.createUserFunc(ctx, username, email, passwordHash)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	if m.getUserByIDFunc != nil {
		return m.getUserByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	if m.getUserByEmailFunc != nil {
		return m.getUserByEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*store.User, error) {
	if m.getUserByUsernameOrEmailFunc != nil {
		return m.getUserByUsernameOrEmailFunc(ctx, username, email)
	}
	return nil, errors.New("not implemented")
}

type mockSessionRepository struct {
	createSessionFunc func(ctx context.Context, userID int64, ttl time.Duration) (*store.Session, error)
	getSessionFunc    func(ctx context.Context, id string) (*store.Session, error)
	deleteSessionFunc func(ctx context.Context, id string) error
}

func (m *mockSessionRepository) CreateSession(ctx context.Context, userID int64, ttl time.Duration) (*store.Session, error) {
	if m.createSessionFunc != nil {
		return m.createSessionFunc(ctx, userID, ttl)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSessionRepository) GetSession(ctx context.Context, id string) (*store.Session, error) {
	if m.getSessionFunc != nil {
		return m.getSessionFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSessionRepository) DeleteSession(ctx context.Context, id string) error {
	if m.deleteSessionFunc != nil {
		return m.deleteSessionFunc(ctx, id)
	}
	return errors.New("not implemented")
}

type mockGenerator struct {
	generateTextFunc func(ctx context.Context, prompt string) ([]string, error)
	prompts          []string
}

func (m *mockGenerator) GenerateText(ctx context.Context, prompt string) ([]string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateTextFunc != nil {
		return m.generateTextFunc(ctx, prompt)
	}
	return nil, errors.New("not implemented")
}

func replyWith(parts ...string) func(context.Context, string) ([]string, error) {
	return func(context.Context, string) ([]string, error) {
		return parts, nil
	}
}
