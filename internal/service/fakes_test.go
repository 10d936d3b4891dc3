package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"authcore/internal/entity"
	"authcore/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

// Create mimics the store's pre-persist hook: the plaintext password is
// hashed before the record lands.
func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	hash, err := utils.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hash
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	user, err := r.FindByEmail(ctx, email)
	return user != nil, err
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	user, err := r.FindByUsername(ctx, username)
	return user != nil, err
}

func (r *fakeUserRepo) MarkVerified(ctx context.Context, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	user.Verified = true
	return true, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	user.Password = passwordHash
	return true, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
	now      func() time.Time
}

func newFakeSessionRepo(now func() time.Time) *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: make(map[uuid.UUID]*entity.Session),
		now:      now,
	}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = uuid.New()
	s.CreatedAt = r.now()
	copied := *s
	r.sessions[s.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[id]; ok {
		copied := *session
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) ListLiveByUser(ctx context.Context, userID uuid.UUID) ([]entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	var result []entity.Session
	for _, session := range r.sessions {
		if session.UserID == userID && session.ExpiresAt.After(now) {
			result = append(result, *session)
		}
	}
	return result, nil
}

func (r *fakeSessionRepo) ExtendExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return errors.New("session not found")
	}
	session.ExpiresAt = expiresAt
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false, nil
	}
	delete(r.sessions, id)
	return true, nil
}

func (r *fakeSessionRepo) DeleteByIDAndUser(ctx context.Context, id uuid.UUID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok || session.UserID != userID {
		return false, nil
	}
	delete(r.sessions, id)
	return true, nil
}

func (r *fakeSessionRepo) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, session := range r.sessions {
		if session.ExpiresAt.Before(now) {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

type fakeCodeRepo struct {
	mu    sync.Mutex
	codes map[uuid.UUID]*entity.VerificationCode
	now   func() time.Time
}

func newFakeCodeRepo(now func() time.Time) *fakeCodeRepo {
	return &fakeCodeRepo{
		codes: make(map[uuid.UUID]*entity.VerificationCode),
		now:   now,
	}
}

func (r *fakeCodeRepo) Create(ctx context.Context, c *entity.VerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = r.now()
	copied := *c
	r.codes[c.ID] = &copied
	return nil
}

func (r *fakeCodeRepo) FindValid(ctx context.Context, id uuid.UUID, codeType entity.VerificationCodeType) (*entity.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.codes[id]
	if !ok || code.Type != codeType || !code.ExpiresAt.After(r.now()) {
		return nil, nil
	}
	copied := *code
	return &copied, nil
}

func (r *fakeCodeRepo) CountRecentByUser(ctx context.Context, userID uuid.UUID, codeType entity.VerificationCodeType, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, code := range r.codes {
		if code.UserID == userID && code.Type == codeType && code.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeCodeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, id)
	return nil
}

func (r *fakeCodeRepo) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, code := range r.codes {
		if code.ExpiresAt.Before(now) {
			delete(r.codes, id)
		}
	}
	return nil
}

func (r *fakeCodeRepo) lastCreated(codeType entity.VerificationCodeType) *entity.VerificationCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *entity.VerificationCode
	for _, code := range r.codes {
		if code.Type != codeType {
			continue
		}
		if last == nil || code.CreatedAt.After(last.CreatedAt) {
			last = code
		}
	}
	if last == nil {
		return nil
	}
	copied := *last
	return &copied
}

type fakeMailer struct {
	mu       sync.Mutex
	sent     []Message
	sendErr  error
	noID     bool
	sequence int
}

func (m *fakeMailer) Send(ctx context.Context, msg Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return "", m.sendErr
	}
	m.sent = append(m.sent, msg)
	if m.noID {
		return "", nil
	}
	m.sequence++
	return fmt.Sprintf("email-%d", m.sequence), nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeAuditRepo struct {
	mu   sync.Mutex
	logs []entity.AuditLog
}

func (r *fakeAuditRepo) Log(ctx context.Context, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
