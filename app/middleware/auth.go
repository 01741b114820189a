package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/vibast-solutions/ms-go-adminpanel/app/entity"
	"github.com/vibast-solutions/ms-go-adminpanel/app/service"
	"github.com/vibast-solutions/ms-go-adminpanel/app/web"
)

type sessionResolver interface {
	ResolveSession(ctx context.Context, cookieValue string) (*entity.User, *entity.Session, error)
}

type AuthMiddleware struct {
	authService sessionResolver
}

func NewAuthMiddleware(authService sessionResolver) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// RequireSession resolves the session cookie to its user and stores both on
// the request context. Requests without a valid session are redirected to
// the login form.
func (m *AuthMiddleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		w, r := c.Response(), c.Request()

		cookieValue, ok := web.ReadSessionCookie(r)
		if !ok {
			logrus.Debug("Missing session cookie")
			return m.redirectToLogin(c, w, r)
		}

		user, session, err := m.authService.ResolveSession(r.Context(), cookieValue)
		if err != nil {
			if !errors.Is(err, service.ErrNoSession) {
				logrus.WithError(err).Error("Failed to resolve session")
			}
			web.ClearSessionCookie(w, r)
			return m.redirectToLogin(c, w, r)
		}

		c.Set("user", user)
		c.Set("session", session)
		return next(c)
	}
}

func (m *AuthMiddleware) redirectToLogin(c echo.Context, w http.ResponseWriter, r *http.Request) error {
	web.WriteFlash(w, r, web.Flash{Kind: web.FlashFail, Message: "Please login to continue"})
	return c.Redirect(http.StatusFound, "/login")
}
