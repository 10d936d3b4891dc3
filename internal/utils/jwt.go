package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// VerifyReason tells callers whether a rejected token is worth refreshing.
type VerifyReason string

const (
	ReasonExpired VerifyReason = "expired"
	ReasonInvalid VerifyReason = "invalid"
)

type VerifyError struct {
	Reason VerifyReason
}

func (e *VerifyError) Error() string {
	return "token " + string(e.Reason)
}

const tokenAudience = "user"

type TokenClaims struct {
	UserID    string `json:"userId,omitempty"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies the two token kinds. Each kind has its
// own secret so a session can be revoked without retiring the access key.
type TokenManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (m TokenManager) SignAccess(userID uuid.UUID, sessionID uuid.UUID) (string, error) {
	ttl := m.AccessTTL
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return m.sign(TokenClaims{UserID: userID.String(), SessionID: sessionID.String()}, m.AccessSecret, ttl)
}

func (m TokenManager) SignRefresh(sessionID uuid.UUID) (string, error) {
	ttl := m.RefreshTTL
	if ttl == 0 {
		ttl = 30 * 24 * time.Hour
	}
	return m.sign(TokenClaims{SessionID: sessionID.String()}, m.RefreshSecret, ttl)
}

func (m TokenManager) sign(claims TokenClaims, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    m.Issuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify checks a token against the secret for the given kind. It always
// returns a claims/error pair, never panics: both outcomes are routine on
// the request path.
func (m TokenManager) Verify(tokenString string, kind TokenKind) (*TokenClaims, *VerifyError) {
	secret := m.AccessSecret
	if kind == RefreshToken {
		secret = m.RefreshSecret
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithAudience(tokenAudience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &VerifyError{Reason: ReasonExpired}
		}
		return nil, &VerifyError{Reason: ReasonInvalid}
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return nil, &VerifyError{Reason: ReasonInvalid}
	}
	if kind == AccessToken && claims.UserID == "" {
		return nil, &VerifyError{Reason: ReasonInvalid}
	}
	return claims, nil
}
