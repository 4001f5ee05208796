package auth

import (
	"context"

	"github.com/quizgen/quizgen/internal/store"
)

type contextKey struct{}

func WithUser(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

func UserFromContext(ctx context.Context) (*store.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*store.User)
	return user, ok && user != nil
}

func IsAuthenticated(ctx context.Context) bool {
	_, ok := UserFromContext(ctx)
	return ok
}
