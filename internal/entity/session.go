package entity

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	UserAgent *string `gorm:"type:text"`

	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (s *Session) Live(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
