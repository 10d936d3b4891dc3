package middleware

import (
	"net/http"
	"strings"

	"authcore/internal/apperror"
	"authcore/internal/dto"
	"authcore/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const AccessTokenCookie = "accessToken"

// Authenticator is the per-request gate: pure token verification, no
// database access. It runs on every protected route.
type Authenticator struct {
	Tokens utils.TokenManager
}

func (a Authenticator) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := readAccessToken(c)
		if token == "" {
			return unauthorized(c, "not authorized", apperror.CodeInvalidToken)
		}

		claims, verifyErr := a.Tokens.Verify(token, utils.AccessToken)
		if verifyErr != nil {
			// The machine code tells the client whether a silent refresh
			// is worth attempting.
			if verifyErr.Reason == utils.ReasonExpired {
				return unauthorized(c, "token expired", apperror.CodeTokenExpired)
			}
			return unauthorized(c, "invalid token", apperror.CodeInvalidToken)
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return unauthorized(c, "invalid token", apperror.CodeInvalidToken)
		}
		sessionID, err := uuid.Parse(claims.SessionID)
		if err != nil {
			return unauthorized(c, "invalid token", apperror.CodeInvalidToken)
		}

		SetAuthContext(c, userID, sessionID)
		return next(c)
	}
}

func unauthorized(c echo.Context, message string, code apperror.Code) error {
	return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Message:   message,
		ErrorCode: string(code),
	})
}

func readAccessToken(c echo.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return bearerToken(c.Request())
}

func bearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
