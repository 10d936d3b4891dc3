package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"authcore/internal/apperror"
	"authcore/internal/entity"
	"authcore/internal/repository"
	"authcore/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const (
	emailVerificationTTL = 365 * 24 * time.Hour
	passwordResetTTL     = time.Hour

	// At most two forgot-password codes per user inside this window.
	passwordResetRateWindow = 5 * time.Minute
	passwordResetRateLimit  = 2
)

type RegisterInput struct {
	Email      string
	Username   string
	Password   string
	FirstName  string
	MiddleName string
	LastName   string
	UserAgent  *string
	IPAddress  *string
}

type LoginInput struct {
	Username  string
	Password  string
	UserAgent *string
	IPAddress *string
}

// AuthResult is the triple returned by Register and Login. The user's
// password never serializes (entity tag), so the payload is safe to return
// as-is.
type AuthResult struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	users    repository.UserRepository
	codes    repository.VerificationCodeRepository
	audits   repository.AuditLogRepository
	sessions *SessionService
	mailer   Mailer
	tokens   TokenIssuer
	clock    Clock
	logger   *logrus.Logger

	appOrigin string
}

func NewAuthService(
	users repository.UserRepository,
	codes repository.VerificationCodeRepository,
	audits repository.AuditLogRepository,
	sessions *SessionService,
	mailer Mailer,
	tokens TokenIssuer,
	clock Clock,
	logger *logrus.Logger,
	appOrigin string,
) *AuthService {
	return &AuthService{
		users:     users,
		codes:     codes,
		audits:    audits,
		sessions:  sessions,
		mailer:    mailer,
		tokens:    tokens,
		clock:     clock,
		logger:    logger,
		appOrigin: appOrigin,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	emailTaken, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, apperror.New(apperror.Conflict, "email already exists")
	}

	usernameTaken, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		return nil, apperror.New(apperror.Conflict, "username already exists")
	}

	user := &entity.User{
		Email:      input.Email,
		Username:   input.Username,
		Password:   input.Password,
		FirstName:  input.FirstName,
		MiddleName: input.MiddleName,
		LastName:   input.LastName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Both existence probes can pass under a concurrent registration;
		// the unique constraint decides the loser.
		if repository.IsDuplicate(err) {
			return nil, apperror.New(apperror.Conflict, "email or username already exists")
		}
		return nil, err
	}

	code := &entity.VerificationCode{
		UserID:    user.ID,
		Type:      entity.EmailVerification,
		ExpiresAt: s.now().Add(emailVerificationTTL),
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/email/verify/%s", s.appOrigin, code.ID)
	deliveryID, err := s.mailer.Send(ctx, verifyEmailMessage(user.Email, url))
	if err != nil || deliveryID == "" {
		// The user row stays; registration is not rolled back.
		return nil, apperror.New(apperror.Internal, "failed to send verification email")
	}

	result, err := s.startSession(ctx, user, input.UserAgent)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, &user.ID, input.IPAddress, entity.AuditRegister, nil)
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	// Identical message for unknown username and wrong password, so the
	// response cannot be used to enumerate usernames.
	if user == nil {
		s.audit(ctx, nil, input.IPAddress, entity.AuditLoginFailed, map[string]any{"username": input.Username})
		return nil, apperror.New(apperror.Unauthorized, "invalid username or password")
	}
	if !user.ComparePassword(input.Password) {
		s.audit(ctx, &user.ID, input.IPAddress, entity.AuditLoginFailed, map[string]any{"username": input.Username})
		return nil, apperror.New(apperror.Unauthorized, "invalid username or password")
	}

	result, err := s.startSession(ctx, user, input.UserAgent)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, &user.ID, input.IPAddress, entity.AuditLoginSuccess, nil)
	return result, nil
}

// Logout is best effort: the access token may be expired or garbage, the
// caller still gets a success so it can clear its cookies.
func (s *AuthService) Logout(ctx context.Context, accessToken string, ipAddress *string) {
	claims, verifyErr := s.tokens.Verify(accessToken, utils.AccessToken)
	if verifyErr != nil {
		return
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		s.logger.WithError(err).Warn("logout: session revoke failed")
		return
	}
	var userID *uuid.UUID
	if parsed, err := uuid.Parse(claims.UserID); err == nil {
		userID = &parsed
	}
	s.audit(ctx, userID, ipAddress, entity.AuditLogout, nil)
}

func (s *AuthService) VerifyEmail(ctx context.Context, code string) (*entity.User, error) {
	codeID, err := uuid.Parse(code)
	if err != nil {
		return nil, apperror.New(apperror.NotFound, "invalid or expired verification code")
	}
	validCode, err := s.codes.FindValid(ctx, codeID, entity.EmailVerification)
	if err != nil {
		return nil, err
	}
	if validCode == nil {
		return nil, apperror.New(apperror.NotFound, "invalid or expired verification code")
	}

	updated, err := s.users.MarkVerified(ctx, validCode.UserID)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperror.New(apperror.Internal, "failed to verify email")
	}

	// Single use.
	if err := s.codes.Delete(ctx, validCode.ID); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, validCode.UserID)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, &validCode.UserID, nil, entity.AuditEmailVerified, nil)
	return user, nil
}

// ForgotPassword swallows every failure: the response must not reveal
// whether the account exists or whether infrastructure is down. Failures
// are only logged.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) {
	if err := s.sendPasswordResetEmail(ctx, email); err != nil {
		s.logger.WithError(err).WithField("flow", "forgot_password").Warn("password reset request failed")
	}
}

func (s *AuthService) sendPasswordResetEmail(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.New(apperror.NotFound, "user not found")
	}

	since := s.now().Add(-passwordResetRateWindow)
	count, err := s.codes.CountRecentByUser(ctx, user.ID, entity.ForgotPassword, since)
	if err != nil {
		return err
	}
	if count >= passwordResetRateLimit {
		return apperror.New(apperror.TooManyRequests, "too many requests, please try again later")
	}

	expiresAt := s.now().Add(passwordResetTTL)
	code := &entity.VerificationCode{
		UserID:    user.ID,
		Type:      entity.ForgotPassword,
		ExpiresAt: expiresAt,
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/password/reset?code=%s&exp=%d", s.appOrigin, code.ID, expiresAt.UnixMilli())
	deliveryID, err := s.mailer.Send(ctx, passwordResetMessage(user.Email, url))
	if err != nil || deliveryID == "" {
		return apperror.New(apperror.Internal, "failed to send password reset email")
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, code string, newPassword string) (*entity.User, error) {
	codeID, err := uuid.Parse(code)
	if err != nil {
		return nil, apperror.New(apperror.NotFound, "invalid or expired verification code")
	}
	validCode, err := s.codes.FindValid(ctx, codeID, entity.ForgotPassword)
	if err != nil {
		return nil, err
	}
	if validCode == nil {
		return nil, apperror.New(apperror.NotFound, "invalid or expired verification code")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.UpdatePassword(ctx, validCode.UserID, hash)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperror.New(apperror.Internal, "failed to reset password")
	}

	if err := s.codes.Delete(ctx, validCode.ID); err != nil {
		return nil, err
	}

	// A credential compromise covered by the reset also covers every other
	// outstanding login.
	if err := s.sessions.RevokeAll(ctx, validCode.UserID); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, validCode.UserID)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, &validCode.UserID, nil, entity.AuditPasswordReset, nil)
	s.audit(ctx, &validCode.UserID, nil, entity.AuditSessionsRevoked, map[string]any{"reason": "password_reset"})
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.New(apperror.NotFound, "user not found")
	}
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, user *entity.User, userAgent *string) (*AuthResult, error) {
	session, err := s.sessions.Create(ctx, user.ID, userAgent)
	if err != nil {
		return nil, err
	}
	pair, err := s.sessions.IssuePair(session)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *AuthService) audit(
	ctx context.Context,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.AuditAction,
	metadata map[string]any,
) {
	if s.audits == nil {
		return
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return
		}
		payload = datatypes.JSON(bytes)
	}
	log := &entity.AuditLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	if err := s.audits.Log(ctx, log); err != nil {
		s.logger.WithError(err).Warn("audit log write failed")
	}
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
