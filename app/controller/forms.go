package controller

import (
	"strings"

	"github.com/vibast-solutions/ms-go-adminpanel/app/service"
	"github.com/vibast-solutions/ms-go-adminpanel/config"
)

// LoginForm is the POST /login payload. The identifier is either an email or
// a username; detection follows service.IsEmailAddress.
type LoginForm struct {
	LoginID  string
	Password string
}

// Validate checks the syntactic rules only; identifier existence is resolved
// against the credential store afterwards.
func (f LoginForm) Validate(policy config.PasswordPolicy) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(f.LoginID) == "" {
		// An empty identifier never detects as an email.
		errs["login_id"] = "Username is required"
	}

	if f.Password == "" {
		errs["password"] = "Password is required"
	} else if err := policy.Validate(f.Password); err != nil {
		errs["password"] = err.Error()
	}

	return errs
}

type ForgotPasswordForm struct {
	Email string
}

func (f ForgotPasswordForm) Validate() map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(f.Email) == "" {
		errs["email"] = "Email is required"
	} else if !service.IsEmailAddress(f.Email) {
		errs["email"] = "Please, check the email field. It does not appears to be valid"
	}

	return errs
}

type ResetPasswordForm struct {
	Password        string
	ConfirmPassword string
}

func (f ResetPasswordForm) Validate(policy config.PasswordPolicy) map[string]string {
	errs := map[string]string{}

	if f.Password == "" {
		errs["password"] = "Password is required"
	} else if err := policy.Validate(f.Password); err != nil {
		errs["password"] = err.Error()
	}

	if f.ConfirmPassword == "" {
		errs["confirm_password"] = "Confirm password is required"
	} else if f.Password != f.ConfirmPassword {
		errs["confirm_password"] = "Passwords do not match"
	}

	return errs
}
