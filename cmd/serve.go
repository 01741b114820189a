package cmd

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vibast-solutions/ms-go-adminpanel/app/controller"
	"github.com/vibast-solutions/ms-go-adminpanel/app/mail"
	"github.com/vibast-solutions/ms-go-adminpanel/app/middleware"
	"github.com/vibast-solutions/ms-go-adminpanel/app/repository"
	"github.com/vibast-solutions/ms-go-adminpanel/app/service"
	"github.com/vibast-solutions/ms-go-adminpanel/app/view"
	"github.com/vibast-solutions/ms-go-adminpanel/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin panel HTTP server",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	mailer, err := mail.NewSMTPMailer(cfg.Mail)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to configure mailer")
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	resetRepo := repository.NewPasswordResetRepository(db)
	authService := service.NewAuthService(userRepo, sessionRepo, cfg)
	resetService := service.NewPasswordResetService(userRepo, resetRepo, sessionRepo, mailer, cfg)

	go sweepExpiredSessions(sessionRepo)

	startHTTPServer(cfg, authService, resetService)
}

// sweepExpiredSessions clears stale session rows that were never resolved
// again after expiry.
func sweepExpiredSessions(sessionRepo *repository.SessionRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		if err := sessionRepo.DeleteExpired(context.Background()); err != nil {
			logrus.WithError(err).Error("Failed to delete expired sessions")
		}
	}
}

func startHTTPServer(cfg *config.Config, authService *service.AuthService, resetService *service.PasswordResetService) {
	e := echo.New()
	defer e.Close()
	e.HideBanner = true

	renderer, err := view.NewRenderer()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to parse templates")
	}
	e.Renderer = renderer

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())

	authController := controller.NewAuthController(authService, cfg)
	passwordController := controller.NewPasswordController(resetService, cfg)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/admin/dashboard")
	})
	e.GET("/login", authController.LoginForm)
	e.POST("/login", authController.Login)
	e.POST("/logout", authController.Logout)
	e.GET("/forgot-password", passwordController.ForgotPasswordForm)
	e.POST("/forgot-password", passwordController.ForgotPassword)
	e.GET("/reset-password/:token", passwordController.ResetPasswordForm)
	e.POST("/reset-password/:token", passwordController.ResetPassword)

	admin := e.Group("/admin")
	admin.Use(authMiddleware.RequireSession)
	admin.GET("/dashboard", authController.Dashboard)

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}
