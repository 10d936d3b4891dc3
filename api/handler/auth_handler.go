package handler

import (
	"net/http"
	"strings"

	"authcore/api/middleware"
	"authcore/internal/dto"
	"authcore/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Auth     *service.AuthService
	Sessions *service.SessionService
	Validate *validator.Validate
	Cookies  CookieWriter
}

func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, validate *validator.Validate, cookies CookieWriter) *AuthHandler {
	return &AuthHandler{
		Auth:     auth,
		Sessions: sessions,
		Validate: validate,
		Cookies:  cookies,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}

	input := service.RegisterInput{
		Email:      req.Email,
		Username:   req.Username,
		Password:   req.Password,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		UserAgent:  stringPtr(c.Request().UserAgent()),
		IPAddress:  stringPtr(c.RealIP()),
	}
	result, err := h.Auth.Register(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}

	h.Cookies.SetAuthCookies(c, result.AccessToken, result.RefreshToken)
	return c.JSON(http.StatusCreated, dto.UserResponseFromEntity(result.User))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}

	input := service.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		UserAgent: stringPtr(c.Request().UserAgent()),
		IPAddress: stringPtr(c.RealIP()),
	}
	result, err := h.Auth.Login(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}

	h.Cookies.SetAuthCookies(c, result.AccessToken, result.RefreshToken)
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "login successful"})
}

// Logout always succeeds: cookies are cleared whether or not the access
// token still resolved to a session.
func (h *AuthHandler) Logout(c echo.Context) error {
	accessToken := readCookie(c, middleware.AccessTokenCookie)
	if accessToken != "" {
		h.Auth.Logout(c.Request().Context(), accessToken, stringPtr(c.RealIP()))
	}
	h.Cookies.ClearAuthCookies(c)
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "logout successful"})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := readCookie(c, RefreshTokenCookie)
	if refreshToken == "" {
		return writeError(c, http.StatusUnauthorized, "missing refresh token")
	}

	result, err := h.Sessions.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		// A failed refresh means the held credential is no longer
		// trustworthy.
		h.Cookies.ClearAuthCookies(c)
		return writeServiceError(c, err)
	}

	h.Cookies.setAccessCookie(c, result.AccessToken)
	if result.NewRefreshToken != "" {
		h.Cookies.setRefreshCookie(c, result.NewRefreshToken)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "access token refreshed"})
}

func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	code := c.Param("code")
	if _, err := h.Auth.VerifyEmail(c.Request().Context(), code); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "email was successfully verified"})
}

// ForgotPassword responds identically whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req dto.ForgotPasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}

	h.Auth.ForgotPassword(c.Request().Context(), req.Email)
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "password reset email sent"})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}

	if _, err := h.Auth.ResetPassword(c.Request().Context(), req.VerificationCode, req.Password); err != nil {
		return writeServiceError(c, err)
	}

	h.Cookies.ClearAuthCookies(c)
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "password reset successful"})
}

func (h *AuthHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
