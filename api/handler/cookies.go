package handler

import (
	"net/http"
	"time"

	"authcore/api/middleware"

	"github.com/labstack/echo/v4"
)

const (
	RefreshTokenCookie = "refreshToken"

	// RefreshPath scopes the refresh cookie so it only travels on the
	// refresh exchange.
	RefreshPath = "/auth/refresh"

	accessCookieTTL  = 15 * time.Minute
	refreshCookieTTL = 30 * 24 * time.Hour
)

type CookieWriter struct {
	Domain string
	Secure bool
}

func (w CookieWriter) SetAuthCookies(c echo.Context, accessToken string, refreshToken string) {
	w.setAccessCookie(c, accessToken)
	w.setRefreshCookie(c, refreshToken)
}

func (w CookieWriter) setAccessCookie(c echo.Context, token string) {
	c.SetCookie(w.cookie(middleware.AccessTokenCookie, token, "/", accessCookieTTL))
}

func (w CookieWriter) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(w.cookie(RefreshTokenCookie, token, RefreshPath, refreshCookieTTL))
}

func (w CookieWriter) ClearAuthCookies(c echo.Context) {
	c.SetCookie(w.expired(middleware.AccessTokenCookie, "/"))
	c.SetCookie(w.expired(RefreshTokenCookie, RefreshPath))
}

func (w CookieWriter) cookie(name string, value string, path string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   w.Domain,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   w.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (w CookieWriter) expired(name string, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Domain:   w.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   w.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func readCookie(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
