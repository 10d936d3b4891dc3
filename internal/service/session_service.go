package service

import (
	"context"
	"time"

	"authcore/internal/apperror"
	"authcore/internal/entity"
	"authcore/internal/repository"
	"authcore/internal/utils"

	"github.com/google/uuid"
)

const (
	// sessionTTL is applied at creation and on every rotation.
	sessionTTL = 30 * 24 * time.Hour
	// rotationWindow: a refresh within the last day of a session's life
	// extends it and mints a new refresh token.
	rotationWindow = 24 * time.Hour
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RefreshResult carries a NewRefreshToken only when the session was
// rotated, signaling the caller to overwrite the stored credential.
type RefreshResult struct {
	AccessToken     string
	NewRefreshToken string
}

type SessionService struct {
	sessions repository.SessionRepository
	tokens   TokenIssuer
	clock    Clock
}

func NewSessionService(sessions repository.SessionRepository, tokens TokenIssuer, clock Clock) *SessionService {
	return &SessionService{
		sessions: sessions,
		tokens:   tokens,
		clock:    clock,
	}
}

func (s *SessionService) Create(ctx context.Context, userID uuid.UUID, userAgent *string) (*entity.Session, error) {
	session := &entity.Session{
		UserID:    userID,
		UserAgent: userAgent,
		ExpiresAt: s.now().Add(sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) IssuePair(session *entity.Session) (TokenPair, error) {
	accessToken, err := s.tokens.SignAccess(session.UserID, session.ID)
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := s.tokens.SignRefresh(session.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh exchanges a refresh token for a new access token. Session expiry
// is checked against the wall clock here, not at token-verify time: the
// token can still be cryptographically valid after the session row was
// deleted or shortened.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, verifyErr := s.tokens.Verify(refreshToken, utils.RefreshToken)
	if verifyErr != nil {
		return nil, apperror.New(apperror.Unauthorized, "invalid refresh token")
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, apperror.New(apperror.Unauthorized, "invalid refresh token")
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if session == nil || !session.Live(now) {
		return nil, apperror.New(apperror.Unauthorized, "session expired")
	}

	// Concurrent refreshes may each extend and mint; tolerated.
	needsRotation := session.ExpiresAt.Sub(now) < rotationWindow
	if needsRotation {
		session.ExpiresAt = now.Add(sessionTTL)
		if err := s.sessions.ExtendExpiry(ctx, session.ID, session.ExpiresAt); err != nil {
			return nil, err
		}
	}

	result := &RefreshResult{}
	result.AccessToken, err = s.tokens.SignAccess(session.UserID, session.ID)
	if err != nil {
		return nil, err
	}
	if needsRotation {
		result.NewRefreshToken, err = s.tokens.SignRefresh(session.ID)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Revoke deletes the session. Revoking an absent session is not an error.
func (s *SessionService) Revoke(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.sessions.Delete(ctx, sessionID)
	return err
}

// RevokeFor deletes a session scoped to its owner, for per-session
// management actions.
func (s *SessionService) RevokeFor(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) error {
	deleted, err := s.sessions.DeleteByIDAndUser(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.New(apperror.NotFound, "session not found")
	}
	return nil
}

func (s *SessionService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.DeleteAllByUser(ctx, userID)
}

func (s *SessionService) ListFor(ctx context.Context, userID uuid.UUID) ([]entity.Session, error) {
	return s.sessions.ListLiveByUser(ctx, userID)
}

func (s *SessionService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
