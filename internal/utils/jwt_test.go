package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() TokenManager {
	return TokenManager{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		Issuer:        "http://localhost:5173",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()
	sessionID := uuid.New()

	token, err := m.SignAccess(userID, sessionID)
	require.NoError(t, err)

	claims, verifyErr := m.Verify(token, AccessToken)
	require.Nil(t, verifyErr)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, sessionID.String(), claims.SessionID)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	sessionID := uuid.New()

	token, err := m.SignRefresh(sessionID)
	require.NoError(t, err)

	claims, verifyErr := m.Verify(token, RefreshToken)
	require.Nil(t, verifyErr)
	assert.Equal(t, sessionID.String(), claims.SessionID)
	assert.Empty(t, claims.UserID)
}

func TestVerifyRejectsCrossKindTokens(t *testing.T) {
	m := newTestManager()

	refreshToken, err := m.SignRefresh(uuid.New())
	require.NoError(t, err)
	accessToken, err := m.SignAccess(uuid.New(), uuid.New())
	require.NoError(t, err)

	// Each kind signs with its own secret, so the other kind's secret
	// must reject it.
	_, verifyErr := m.Verify(refreshToken, AccessToken)
	require.NotNil(t, verifyErr)
	assert.Equal(t, ReasonInvalid, verifyErr.Reason)

	_, verifyErr = m.Verify(accessToken, RefreshToken)
	require.NotNil(t, verifyErr)
	assert.Equal(t, ReasonInvalid, verifyErr.Reason)
}

func TestVerifyDistinguishesExpiredFromInvalid(t *testing.T) {
	m := newTestManager()
	m.AccessTTL = -time.Minute

	expired, err := m.SignAccess(uuid.New(), uuid.New())
	require.NoError(t, err)

	_, verifyErr := m.Verify(expired, AccessToken)
	require.NotNil(t, verifyErr)
	assert.Equal(t, ReasonExpired, verifyErr.Reason)

	_, verifyErr = m.Verify("not-a-jwt", AccessToken)
	require.NotNil(t, verifyErr)
	assert.Equal(t, ReasonInvalid, verifyErr.Reason)

	_, verifyErr = m.Verify("", RefreshToken)
	require.NotNil(t, verifyErr)
	assert.Equal(t, ReasonInvalid, verifyErr.Reason)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := newTestManager()

	token, err := m.SignAccess(uuid.New(), uuid.New())
	require.NoError(t, err)
	tampered := token[:len(token)-2] + "xx"

	_, verifyErr := m.Verify(tampered, AccessToken)
	require.NotNil(t, verifyErr)
	assert.Equal(t, ReasonInvalid, verifyErr.Reason)
}
