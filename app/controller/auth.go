package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/vibast-solutions/ms-go-adminpanel/app/entity"
	"github.com/vibast-solutions/ms-go-adminpanel/app/service"
	"github.com/vibast-solutions/ms-go-adminpanel/app/view"
	"github.com/vibast-solutions/ms-go-adminpanel/app/web"
	"github.com/vibast-solutions/ms-go-adminpanel/config"
)

type AuthController struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthController(authService *service.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{authService: authService, cfg: cfg}
}

func (c *AuthController) LoginForm(ctx echo.Context) error {
	w, r := ctx.Response(), ctx.Request()

	page := view.Page{Title: "Login"}
	if flash, ok := web.ReadFlash(w, r); ok {
		page.Flash = &flash
	}
	if input, ok := web.ReadFormInput(w, r); ok {
		page.Input = input
	}
	return ctx.Render(http.StatusOK, "login.html", page)
}

func (c *AuthController) Login(ctx echo.Context) error {
	w, r := ctx.Response(), ctx.Request()

	form := LoginForm{
		LoginID:  strings.TrimSpace(ctx.FormValue("login_id")),
		Password: ctx.FormValue("password"),
	}

	if errs := form.Validate(c.cfg.Password); len(errs) > 0 {
		logrus.WithField("login_id", form.LoginID).Debug("Login validation failed")
		return ctx.Render(http.StatusOK, "login.html", view.Page{
			Title:  "Login",
			Errors: errs,
			Input:  map[string]string{"login_id": form.LoginID},
		})
	}

	user, cookieValue, err := c.authService.Login(r.Context(), form.LoginID, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("login_id", form.LoginID).Debug("Login failed: unknown identifier")
			message := "Username is not exists in our system."
			if service.IsEmailAddress(form.LoginID) {
				message = "Email is not exists in our system."
			}
			return ctx.Render(http.StatusOK, "login.html", view.Page{
				Title:  "Login",
				Errors: map[string]string{"login_id": message},
				Input:  map[string]string{"login_id": form.LoginID},
			})
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			logrus.WithField("login_id", form.LoginID).Warn("Login failed: wrong password")
			web.WriteFlash(w, r, web.Flash{Kind: web.FlashFail, Message: "Wrong password"})
			web.WriteFormInput(w, r, map[string]string{"login_id": form.LoginID})
			return ctx.Redirect(http.StatusFound, "/login")
		}
		logrus.WithError(err).WithField("login_id", form.LoginID).Error("Login failed")
		web.WriteFlash(w, r, web.Flash{Kind: web.FlashFail, Message: "Something went wrong. Please try again."})
		return ctx.Redirect(http.StatusFound, "/login")
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("Login successful")

	web.WriteSessionCookie(w, r, cookieValue, time.Now().Add(c.cfg.SessionTTL))
	return ctx.Redirect(http.StatusFound, "/admin/dashboard")
}

// Logout destroys the current session unconditionally and is safe to call
// without one.
func (c *AuthController) Logout(ctx echo.Context) error {
	w, r := ctx.Response(), ctx.Request()

	if cookieValue, ok := web.ReadSessionCookie(r); ok {
		if err := c.authService.DestroySession(r.Context(), cookieValue); err != nil {
			logrus.WithError(err).Error("Failed to destroy session")
		}
	}
	web.ClearSessionCookie(w, r)

	web.WriteFlash(w, r, web.Flash{Kind: web.FlashSuccess, Message: "You are logged out!"})
	return ctx.Redirect(http.StatusFound, "/login")
}

func (c *AuthController) Dashboard(ctx echo.Context) error {
	w, r := ctx.Response(), ctx.Request()

	user, _ := ctx.Get("user").(*entity.User)
	page := view.Page{Title: "Dashboard", User: user}
	if flash, ok := web.ReadFlash(w, r); ok {
		page.Flash = &flash
	}
	return ctx.Render(http.StatusOK, "dashboard.html", page)
}
