package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("s3cret", 2*time.Hour)
	id := uuid.New()

	token, issued, err := svc.Generate(id)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.UserID)
	assert.Equal(t, issued.ID, claims.ID)
	assert.InDelta(t, (2 * time.Hour).Seconds(), claims.RemainingTTL().Seconds(), 5)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("s3cret", 2*time.Hour)
	token, _, err := svc.Generate(uuid.New())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(3 * time.Hour) }

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_WrongSecretAndAlgorithm(t *testing.T) {
	token, _, err := NewJWTService("one", time.Hour).Generate(uuid.New())
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewJWTService("one", time.Hour).Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryTokenBlacklist()

	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.Revoke(ctx, "jti-1", time.Minute))
	revoked, _ = b.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)

	require.NoError(t, b.Revoke(ctx, "jti-2", 0))
	revoked, _ = b.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked, "already expired tokens need no entry")

	require.NoError(t, b.Revoke(ctx, "jti-3", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)
	revoked, _ = b.IsRevoked(ctx, "jti-3")
	assert.False(t, revoked)
}

func TestJWTService_EmptySecretIsRandom(t *testing.T) {
	a := NewJWTService("", time.Hour)
	b := NewJWTService("", time.Hour)
	assert.Len(t, a.secret, 32)

	token, _, err := a.Generate(uuid.New())
	require.NoError(t, err)

	_, err = a.Validate(token)
	require.NoError(t, err)

	_, err = b.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
