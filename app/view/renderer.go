// Package view renders the embedded page and email templates.
package view

import (
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vibast-solutions/ms-go-adminpanel/app/entity"
	"github.com/vibast-solutions/ms-go-adminpanel/app/web"
)

//go:embed templates/*.html templates/email/*.html
var files embed.FS

// Page carries everything a page template can show: the authenticated user,
// a one-time flash, field-level validation errors, and preserved form input.
type Page struct {
	Title  string
	User   *entity.User
	Flash  *web.Flash
	Errors map[string]string
	Input  map[string]string
	Token  string
}

// Value returns the preserved input for a form field, or empty.
func (p Page) Value(field string) string {
	return p.Input[field]
}

// Error returns the validation message for a form field, or empty.
func (p Page) Error(field string) string {
	return p.Errors[field]
}

// Renderer implements echo.Renderer over the embedded page templates.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// ResetEmail is the data handed to the reset email template.
type ResetEmail struct {
	User       *entity.User
	ActionLink string
}

// RenderEmail renders an email body template to a string.
func RenderEmail(name string, data interface{}) (string, error) {
	t, err := template.ParseFS(files, "templates/email/*.html")
	if err != nil {
		return "", err
	}

	var body strings.Builder
	if err := t.ExecuteTemplate(&body, name, data); err != nil {
		return "", err
	}
	return body.String(), nil
}
