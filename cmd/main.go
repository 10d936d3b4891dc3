package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"authcore/api/handler"
	apiMiddleware "authcore/api/middleware"
	"authcore/api/routes"
	"authcore/config"
	"authcore/internal/dto"
	"authcore/internal/entity"
	"authcore/internal/repository"
	"authcore/internal/service"
	"authcore/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Session{},
		&entity.VerificationCode{},
		&entity.AuditLog{},
	); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	validate := validator.New()
	if err := dto.RegisterValidations(validate); err != nil {
		logger.WithError(err).Fatal("validator setup failed")
	}

	tokens := utils.TokenManager{
		AccessSecret:  []byte(cfg.JWTSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		Issuer:        cfg.AppOrigin,
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    30 * 24 * time.Hour,
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	codeRepo := repository.NewVerificationCodeRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	mailer := service.NewResendMailer(cfg.ResendAPIKey, cfg.EmailSender)
	clock := service.RealClock{}

	sessionService := service.NewSessionService(sessionRepo, tokens, clock)
	authService := service.NewAuthService(
		userRepo,
		codeRepo,
		auditRepo,
		sessionService,
		mailer,
		tokens,
		clock,
		logger,
		cfg.AppOrigin,
	)

	cookies := handler.CookieWriter{
		Domain: cfg.CookieDomain,
		Secure: cfg.SecureCookies,
	}
	authHandler := handler.NewAuthHandler(authService, sessionService, validate, cookies)
	userHandler := handler.NewUserHandler(authService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	authenticator := apiMiddleware.Authenticator{Tokens: tokens}

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.AppOrigin},
		AllowCredentials: true,
	}))
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	router := routes.NewRouter(app, authHandler, userHandler, sessionHandler, authenticator)
	router.RegisterRoutes()

	go pruneExpired(sessionRepo, codeRepo, logger)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

// pruneExpired drops expired sessions and verification codes hourly. Both
// are already invisible to queries once past expiry; this just keeps the
// tables small.
func pruneExpired(
	sessions repository.SessionRepository,
	codes repository.VerificationCodeRepository,
	logger *logrus.Logger,
) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := sessions.DeleteExpired(ctx); err != nil {
			logger.WithError(err).Warn("session cleanup failed")
		}
		if err := codes.DeleteExpired(ctx); err != nil {
			logger.WithError(err).Warn("verification code cleanup failed")
		}
		cancel()
	}
}
