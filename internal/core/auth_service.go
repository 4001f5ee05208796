package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quizgen/quizgen/internal/auth"
	"github.com/quizgen/quizgen/internal/store"
)

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrUserExists         = errors.New("email or username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionInvalid     = errors.New("session is missing or expired")
)

type AuthService struct {
	users    UserRepository
	sessions SessionRepository
	ttl      time.Duration
	logger   *slog.Logger
}

func NewAuthService(users UserRepository, sessions SessionRepository, ttl time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
	}
}

// SessionTTL is how long a session created by Login stays valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// Signup registers a new account. Username and email must both be unused.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*store.User, error) {
	if blank(username) || blank(email) || blank(password) {
		return nil, ErrMissingCredentials
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, auth.ErrPasswordTooLong
	}

	existing, err := s.users.GetUserByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, email, hashedPassword)
	if err != nil {
		// Lost a race with a concurrent signup for the same username or email.
		if errors.Is(err, store.ErrDuplicateUser) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User signed up", "user_id", user.ID)
	return user, nil
}

// Authenticate checks an email/password pair. Unknown email and wrong password
// both return ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*store.User, error) {
	if blank(email) || blank(password) {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*store.User, *store.Session, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.sessions.CreateSession(ctx, user.ID, s.ttl)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return user, sess, nil
}

// Logout destroys the session. Unknown or empty ids are not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ResolveSession returns the user behind a live session.
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (*store.User, error) {
	if sessionID == "" {
		return nil, ErrSessionInvalid
	}

	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionInvalid
	}

	return s.ResolveUser(ctx, sess.UserID)
}

func (s *AuthService) ResolveUser(ctx context.Context, userID int64) (*store.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionInvalid
	}
	return user, nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
