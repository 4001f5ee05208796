package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizgen/quizgen/internal/store"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong horse", hash))
	assert.False(t, CheckPasswordHash("correct horse", "not-a-bcrypt-hash"))
}

func TestHashPassword_ByteLimit(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes))
	assert.NoError(t, err)

	// 40 two-byte runes: under 72 characters, over 72 bytes.
	_, err = HashPassword(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, CheckPasswordHash("same", a))
	assert.True(t, CheckPasswordHash("same", b))
}

func TestJWT_RoundTrip(t *testing.T) {
	secret := []byte("super-secret")

	tok, err := GenerateJWT(secret, 42, time.Hour)
	require.NoError(t, err)

	userID, err := ValidateJWT(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestJWT_Expired(t *testing.T) {
	secret := []byte("secret")

	tok, err := GenerateJWT(secret, 1, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(secret, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_WrongSecret(t *testing.T) {
	tok, err := GenerateJWT([]byte("right"), 1, time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT([]byte("wrong"), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_NonNumericSubject(t *testing.T) {
	secret := []byte("secret")
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = ValidateJWT(secret, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_Garbage(t *testing.T) {
	_, err := ValidateJWT([]byte("secret"), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserContext(t *testing.T) {
	ctx := context.Background()

	_, ok := UserFromContext(ctx)
	assert.False(t, ok)
	assert.False(t, IsAuthenticated(ctx))

	user := &store.User{ID: 7, Username: "alice"}
	ctx = WithUser(ctx, user)

	got, ok := UserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), got.ID)
	assert.True(t, IsAuthenticated(ctx))

	assert.False(t, IsAuthenticated(WithUser(context.Background(), nil)))
}
