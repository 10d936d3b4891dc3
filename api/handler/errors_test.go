package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"authcore/internal/apperror"
	"authcore/internal/dto"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceErrorMapsKindsToStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   dto.ErrorResponse
	}{
		{
			name:       "conflict",
			err:        apperror.New(apperror.Conflict, "email already exists"),
			wantStatus: http.StatusConflict,
			wantBody:   dto.ErrorResponse{Message: "email already exists"},
		},
		{
			name:       "unauthorized with code",
			err:        apperror.New(apperror.Unauthorized, "token expired").WithCode(apperror.CodeTokenExpired),
			wantStatus: http.StatusUnauthorized,
			wantBody:   dto.ErrorResponse{Message: "token expired", ErrorCode: "token_expired"},
		},
		{
			name:       "not found",
			err:        apperror.New(apperror.NotFound, "session not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   dto.ErrorResponse{Message: "session not found"},
		},
		{
			name:       "too many requests",
			err:        apperror.New(apperror.TooManyRequests, "too many requests, please try again later"),
			wantStatus: http.StatusTooManyRequests,
			wantBody:   dto.ErrorResponse{Message: "too many requests, please try again later"},
		},
		{
			name:       "internal",
			err:        apperror.New(apperror.Internal, "failed to send verification email"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   dto.ErrorResponse{Message: "failed to send verification email"},
		},
		{
			name:       "wrapped classified error",
			err:        fmt.Errorf("register: %w", apperror.New(apperror.Conflict, "username already exists")),
			wantStatus: http.StatusConflict,
			wantBody:   dto.ErrorResponse{Message: "username already exists"},
		},
		{
			name:       "unclassified error does not leak",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   dto.ErrorResponse{Message: "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, writeServiceError(c, tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestCookieWriterSetAndClear(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	w := CookieWriter{Secure: true}
	w.SetAuthCookies(c, "access-token-value", "refresh-token-value")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	byName := map[string]*http.Cookie{}
	for _, cookie := range cookies {
		byName[cookie.Name] = cookie
	}

	access := byName["accessToken"]
	require.NotNil(t, access)
	assert.Equal(t, "access-token-value", access.Value)
	assert.Equal(t, "/", access.Path)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)

	// The refresh credential only travels on the refresh exchange.
	refresh := byName["refreshToken"]
	require.NotNil(t, refresh)
	assert.Equal(t, RefreshPath, refresh.Path)

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	w.ClearAuthCookies(c)
	for _, cookie := range rec.Result().Cookies() {
		assert.Equal(t, -1, cookie.MaxAge)
		assert.Empty(t, cookie.Value)
	}
}
