package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumeshhesums/ml-deployment-platform/internal/app_errors"
)

func newTestManager() *JWTManager {
	return NewJWTManager("test-secret", "test-issuer", 30*time.Minute, 168*time.Hour)
}

func TestVerify_AccessRoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	userID := uuid.New()

	tok, err := m.IssueAccessToken(userID)
	require.NoError(t, err)

	got, err := m.Verify(tok, AccessTokenKind)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerify_RefreshRoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	userID := uuid.New()

	tok, err := m.IssueRefreshToken(userID)
	require.NoError(t, err)

	got, err := m.Verify(tok, RefreshTokenKind)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerify_WrongKind(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	userID := uuid.New()

	access, err := m.IssueAccessToken(userID)
	require.NoError(t, err)
	refresh, err := m.IssueRefreshToken(userID)
	require.NoError(t, err)

	_, err = m.Verify(access, RefreshTokenKind)
	assert.ErrorIs(t, err, app_errors.ErrWrongTokenKind)

	_, err = m.Verify(refresh, AccessTokenKind)
	assert.ErrorIs(t, err, app_errors.ErrWrongTokenKind)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("test-secret", "test-issuer", -1*time.Second, -1*time.Second)
	tok, err := m.IssueAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = m.Verify(tok, AccessTokenKind)
	assert.ErrorIs(t, err, app_errors.ErrTokenExpired)
}

func TestVerify_ExpiredBeatsWrongKind(t *testing.T) {
	t.Parallel()

	// An expired token of the wrong kind must report expiry, not kind.
	m := NewJWTManager("test-secret", "test-issuer", -1*time.Second, -1*time.Second)
	tok, err := m.IssueRefreshToken(uuid.New())
	require.NoError(t, err)

	_, err = m.Verify(tok, AccessTokenKind)
	assert.ErrorIs(t, err, app_errors.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	tok, err := m.IssueAccessToken(uuid.New())
	require.NoError(t, err)

	other := NewJWTManager("other-secret", "test-issuer", 30*time.Minute, 168*time.Hour)
	_, err = other.Verify(tok, AccessTokenKind)
	assert.ErrorIs(t, err, app_errors.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	_, err := m.Verify("not.a.jwt", AccessTokenKind)
	assert.ErrorIs(t, err, app_errors.ErrInvalidToken)

	_, err = m.Verify("", AccessTokenKind)
	assert.ErrorIs(t, err, app_errors.ErrInvalidToken)
}
