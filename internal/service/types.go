package service

import (
	"time"

	"authcore/internal/utils"

	"github.com/google/uuid"
)

// TokenIssuer is the signing/verification surface the services need.
// utils.TokenManager satisfies it.
type TokenIssuer interface {
	SignAccess(userID uuid.UUID, sessionID uuid.UUID) (string, error)
	SignRefresh(sessionID uuid.UUID) (string, error)
	Verify(token string, kind utils.TokenKind) (*utils.TokenClaims, *utils.VerifyError)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
