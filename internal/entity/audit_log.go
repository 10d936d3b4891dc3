package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditRegister        AuditAction = "register"
	AuditLoginSuccess    AuditAction = "login_success"
	AuditLoginFailed     AuditAction = "login_failed"
	AuditLogout          AuditAction = "logout"
	AuditEmailVerified   AuditAction = "email_verified"
	AuditPasswordReset   AuditAction = "password_reset"
	AuditSessionsRevoked AuditAction = "sessions_revoked"
)

type AuditLog struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID  `gorm:"type:uuid;index"`
	IPAddress *string     `gorm:"type:varchar(45)"`
	Action    AuditAction `gorm:"type:varchar(32);not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
