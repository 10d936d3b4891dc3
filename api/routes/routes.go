package routes

import (
	"net/http"
	"time"

	"authcore/api/handler"
	"authcore/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo          *echo.Echo
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Sessions      *handler.SessionHandler
	Authenticator middleware.Authenticator
	AuthRate      *middleware.RateLimiter
	LoginRate     *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	auth *handler.AuthHandler,
	users *handler.UserHandler,
	sessions *handler.SessionHandler,
	authenticator middleware.Authenticator,
) *Router {
	return &Router{
		Echo:          e,
		Auth:          auth,
		Users:         users,
		Sessions:      sessions,
		Authenticator: authenticator,
		AuthRate:      middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:     middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	e.POST("/auth/register", r.Auth.Register, r.AuthRate.Middleware())
	e.POST("/auth/login", r.Auth.Login, r.LoginRate.Middleware())
	e.GET("/auth/logout", r.Auth.Logout)
	e.GET(handler.RefreshPath, r.Auth.Refresh, r.AuthRate.Middleware())
	e.GET("/auth/email/verify/:code", r.Auth.VerifyEmail, r.AuthRate.Middleware())
	e.POST("/auth/password/forgot", r.Auth.ForgotPassword, r.LoginRate.Middleware())
	e.POST("/auth/password/reset", r.Auth.ResetPassword, r.AuthRate.Middleware())

	e.GET("/user", r.Users.Me, r.Authenticator.Authenticate)
	e.GET("/sessions", r.Sessions.List, r.Authenticator.Authenticate)
	e.DELETE("/sessions/:id", r.Sessions.Delete, r.Authenticator.Authenticate)
}
