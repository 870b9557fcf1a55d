package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewJWTService("test-secret-key-for-jwt", "1h")
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("secret", "soon")
	assert.Error(t, err)
}

func TestJWTService_GenerateAccessToken(t *testing.T) {
	svc := newTestService(t)

	// Act
	token, expiresAt, err := svc.GenerateAccessToken("ops@example.com", auth.RoleManager, 0)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims["sub"])
	assert.Equal(t, "manager", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestJWTService_SSEToken_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	// Act
	token, expiresIn, err := svc.GenerateSSEToken("viewer-1", auth.RoleViewer)
	require.NoError(t, err)
	subject, err := svc.ValidateSSEToken(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)
	assert.Equal(t, "viewer-1", subject)
}

func TestJWTService_ValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := newTestService(t)
	token, _, err := svc.GenerateAccessToken("viewer-1", auth.RoleViewer, time.Minute)
	require.NoError(t, err)

	// Act
	_, err = svc.ValidateSSEToken(token)

	// Assert
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_ValidateSSEToken_Garbage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ValidateSSEToken("not-a-token")

	assert.Error(t, err)
}
