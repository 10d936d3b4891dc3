package dto

import (
	"regexp"
	"time"

	"authcore/internal/entity"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,min=6,max=100"`
	Username        string `json:"username" validate:"required,alphanum,min=8,max=12,username_chars"`
	Password        string `json:"password" validate:"required,min=8,max=100,password_strength"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FirstName       string `json:"firstName" validate:"required,alphanum,max=100"`
	MiddleName      string `json:"middleName" validate:"omitempty,alphanum,max=100"`
	LastName        string `json:"lastName" validate:"required,alphanum,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=8,max=12"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,min=6,max=100"`
}

type ResetPasswordRequest struct {
	VerificationCode string `json:"verificationCode" validate:"required,min=6,max=64"`
	Password         string `json:"password" validate:"required,min=8,max=100,password_strength"`
	ConfirmPassword  string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode,omitempty"`
}

type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Verified   bool      `json:"verified"`
	FirstName  string    `json:"firstName"`
	MiddleName string    `json:"middleName,omitempty"`
	LastName   string    `json:"lastName"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	return UserResponse{
		ID:         user.ID.String(),
		Email:      user.Email,
		Username:   user.Username,
		Verified:   user.Verified,
		FirstName:  user.FirstName,
		MiddleName: user.MiddleName,
		LastName:   user.LastName,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

type SessionResponse struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	IsCurrent bool      `json:"isCurrent,omitempty"`
}

func SessionResponseFromEntity(session *entity.Session, currentID uuid.UUID) SessionResponse {
	response := SessionResponse{
		ID:        session.ID.String(),
		CreatedAt: session.CreatedAt,
		IsCurrent: session.ID == currentID,
	}
	if session.UserAgent != nil {
		response.UserAgent = *session.UserAgent
	}
	return response
}

func SessionResponsesFromEntities(sessions []entity.Session, currentID uuid.UUID) []SessionResponse {
	responses := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, SessionResponseFromEntity(&sessions[i], currentID))
	}
	return responses
}

var (
	oneLetter           = regexp.MustCompile(`[a-zA-Z]`)
	oneNumber           = regexp.MustCompile(`[0-9]`)
	oneLowercaseLetter  = regexp.MustCompile(`[a-z]`)
	oneUppercaseLetter  = regexp.MustCompile(`[A-Z]`)
	oneSpecialCharacter = regexp.MustCompile(`[@$!%*?&]`)
)

// RegisterValidations installs the password and username rules the struct
// tags cannot express.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		password := fl.Field().String()
		return oneLetter.MatchString(password) &&
			oneNumber.MatchString(password) &&
			oneLowercaseLetter.MatchString(password) &&
			oneUppercaseLetter.MatchString(password) &&
			oneSpecialCharacter.MatchString(password)
	}); err != nil {
		return err
	}
	return v.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
		username := fl.Field().String()
		return oneLetter.MatchString(username) && oneNumber.MatchString(username)
	})
}
