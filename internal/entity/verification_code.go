package entity

import (
	"time"

	"github.com/google/uuid"
)

type VerificationCodeType string

const (
	EmailVerification VerificationCodeType = "email_verification"
	ForgotPassword    VerificationCodeType = "forgot_password"
)

// VerificationCode is a single-use capability: its id is the bearer
// credential delivered by email. Consuming it deletes the row.
type VerificationCode struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Type VerificationCodeType `gorm:"type:varchar(32);not null"`

	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}
