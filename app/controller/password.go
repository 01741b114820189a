package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/vibast-solutions/ms-go-adminpanel/app/service"
	"github.com/vibast-solutions/ms-go-adminpanel/app/view"
	"github.com/vibast-solutions/ms-go-adminpanel/app/web"
	"github.com/vibast-solutions/ms-go-adminpanel/config"
)

type PasswordController struct {
	resetService *service.PasswordResetService
	cfg          *config.Config
}

func NewPasswordController(resetService *service.PasswordResetService, cfg *config.Config) *PasswordController {
	return &PasswordController{resetService: resetService, cfg: cfg}
}

func (c *PasswordController) ForgotPasswordForm(ctx echo.Context) error {
	w, r := ctx.Response(), ctx.Request()

	page := view.Page{Title: "Forgot password"}
	if flash, ok := web.ReadFlash(w, r); ok {
		page.Flash = &flash
	}
	if input, ok := web.ReadFormInput(w, r); ok {
		page.Input = input
	}
	return ctx.Render(http.StatusOK, "forgot_password.html", page)
}

func (c *PasswordController) ForgotPassword(ctx echo.Context) error {
	w, r := ctx.Response(), ctx.Request()

	form := ForgotPasswordForm{Email: strings.TrimSpace(ctx.FormValue("email"))}
	if errs := form.Validate(); len(errs) > 0 {
		logrus.WithField("email", form.Email).Debug("Forgot password validation failed")
		return ctx.Render(http.StatusOK, "forgot_password.html", view.Page{
			Title:  "Forgot password",
			Errors: errs,
			Input:  map[string]string{"email": form.Email},
		})
	}

	err := c.resetService.RequestReset(r.Context(), form.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("email", form.Email).Debug("Forgot password for unknown email")
			return ctx.Render(http.StatusOK, "forgot_password.html", view.Page{
				Title:  "Forgot password",
				Errors: map[string]string{"email": "Email is not exists in our system."},
				Input:  map[string]string{"email": form.Email},
			})
		}
		if errors.Is(err, service.ErrMailDispatch) {
			logrus.WithError(err).WithField("email", form.Email).Error("Failed to send reset email")
			web.WriteFlash(w, r, web.Flash{Kind: web.FlashFail, Message: "Something went wrong while sending the reset link. Please try again."})
			return ctx.Redirect(http.StatusFound, "/forgot-password")
		}
		logrus.WithError(err).WithField("email", form.Email).Error("Forgot password failed")
		web.WriteFlash(w, r, web.Flash{Kind: web.FlashFail, Message: "Something went wrong. Please try again."})
		return ctx.Redirect(http.StatusFound, "/forgot-password")
	}

	logrus.WithField("email", form.Email).Info("Password reset email sent")
	web.WriteFlash(w, r, web.Flash{Kind: web.FlashSuccess, Message: "Password reset link has been sent to your email."})
	return ctx.Redirect(http.StatusFound, "/forgot-password")
}

func (c *PasswordController) ResetPasswordForm(ctx echo.Context) error {
	w, r := ctx.Response(), ctx.Request()
	token := ctx.Param("token")

	if _, err := c.resetService.ValidateToken(r.Context(), token); err != nil {
		return c.redirectTokenFailure(ctx, w, r, err)
	}

	return ctx.Render(http.StatusOK, "reset_password.html", view.Page{
		Title: "Reset password",
		Token: token,
	})
}

func (c *PasswordController) ResetPassword(ctx echo.Context) error {
	w, r := ctx.Response(), ctx.Request()
	token := ctx.Param("token")

	form := ResetPasswordForm{
		Password:        ctx.FormValue("password"),
		ConfirmPassword: ctx.FormValue("confirm_password"),
	}
	if errs := form.Validate(c.cfg.Password); len(errs) > 0 {
		logrus.Debug("Reset password validation failed")
		return ctx.Render(http.StatusOK, "reset_password.html", view.Page{
			Title:  "Reset password",
			Errors: errs,
			Token:  token,
		})
	}

	if err := c.resetService.ResetPassword(r.Context(), token, form.Password); err != nil {
		return c.redirectTokenFailure(ctx, w, r, err)
	}

	logrus.Info("Password reset successful")
	web.WriteFlash(w, r, web.Flash{Kind: web.FlashSuccess, Message: "Your password has been changed. Please login with your new password."})
	return ctx.Redirect(http.StatusFound, "/login")
}

func (c *PasswordController) redirectTokenFailure(ctx echo.Context, w http.ResponseWriter, r *http.Request, err error) error {
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		logrus.Warn("Reset password failed: token expired")
		web.WriteFlash(w, r, web.Flash{Kind: web.FlashFail, Message: "Token expired"})
	case errors.Is(err, service.ErrInvalidToken):
		logrus.Warn("Reset password failed: invalid token")
		web.WriteFlash(w, r, web.Flash{Kind: web.FlashFail, Message: "Invalid token"})
	default:
		logrus.WithError(err).Error("Reset password failed")
		web.WriteFlash(w, r, web.Flash{Kind: web.FlashFail, Message: "Something went wrong. Please try again."})
	}
	return ctx.Redirect(http.StatusFound, "/forgot-password")
}
