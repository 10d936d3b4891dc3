package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"authcore/internal/utils"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username string    `gorm:"type:varchar(100);uniqueIndex;not null"`

	// bcrypt digest; never serialized.
	Password string `gorm:"type:text;not null" json:"-"`

	Verified bool `gorm:"not null;default:false"`

	FirstName  string `gorm:"type:varchar(100);not null"`
	MiddleName string `gorm:"type:varchar(100)"`
	LastName   string `gorm:"type:varchar(100);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Sessions []Session
}

// BeforeCreate hashes the plaintext password before the row is written.
// Flows hand the store plaintext and never hash on creation themselves.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	hash, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

func (u *User) ComparePassword(password string) bool {
	return utils.CheckPassword(password, u.Password)
}
