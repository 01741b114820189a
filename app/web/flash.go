// Package web holds the cookie plumbing shared by the page handlers: the
// one-time flash notice, the one-time preserved form input, and the session
// cookie.
package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const (
	FlashCookieName   = "admin_flash"
	InputCookieName   = "admin_form_input"
	SessionCookieName = "admin_session"
)

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashFail    FlashKind = "fail"
)

// Flash is a one-time message attached to a redirect, displayed on the next
// rendered page only.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// WriteFlash stores a flash cookie for the next page render.
func WriteFlash(w http.ResponseWriter, r *http.Request, flash Flash) {
	if flash.Message == "" {
		return
	}
	payload, err := json.Marshal(flash)
	if err != nil {
		return
	}
	setOneTimeCookie(w, r, FlashCookieName, base64.RawURLEncoding.EncodeToString(payload))
}

// ReadFlash reads and clears the flash cookie.
func ReadFlash(w http.ResponseWriter, r *http.Request) (Flash, bool) {
	value, ok := readAndClear(w, r, FlashCookieName)
	if !ok {
		return Flash{}, false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Flash{}, false
	}
	var flash Flash
	if err := json.Unmarshal(decoded, &flash); err != nil {
		return Flash{}, false
	}
	if flash.Kind != FlashSuccess && flash.Kind != FlashFail {
		return Flash{}, false
	}
	if flash.Message == "" {
		return Flash{}, false
	}
	return flash, true
}

// WriteFormInput preserves submitted form values across a redirect so the
// next render can pre-fill the form.
func WriteFormInput(w http.ResponseWriter, r *http.Request, values map[string]string) {
	if len(values) == 0 {
		return
	}
	payload, err := json.Marshal(values)
	if err != nil {
		return
	}
	setOneTimeCookie(w, r, InputCookieName, base64.RawURLEncoding.EncodeToString(payload))
}

// ReadFormInput reads and clears preserved form values.
func ReadFormInput(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	value, ok := readAndClear(w, r, InputCookieName)
	if !ok {
		return nil, false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, false
	}
	values := map[string]string{}
	if err := json.Unmarshal(decoded, &values); err != nil {
		return nil, false
	}
	if len(values) == 0 {
		return nil, false
	}
	return values, true
}

func setOneTimeCookie(w http.ResponseWriter, r *http.Request, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func readAndClear(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(name)
	if err != nil || cookie == nil {
		return "", false
	}
	if w != nil {
		clearCookie(w, r, name)
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

func clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func isHTTPS(r *http.Request) bool {
	return r != nil && r.TLS != nil
}

// WriteSessionCookie sets the session cookie until expiresAt.
func WriteSessionCookie(w http.ResponseWriter, r *http.Request, value string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadSessionCookie returns the trimmed session cookie value when present.
func ReadSessionCookie(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, r, SessionCookieName)
}
