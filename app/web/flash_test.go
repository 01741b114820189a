package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-adminpanel/app/web"
)

func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			continue
		}
		req.AddCookie(cookie)
	}
	return req
}

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	web.WriteFlash(rec, httptest.NewRequest(http.MethodPost, "/login", nil), web.Flash{
		Kind:    web.FlashFail,
		Message: "Wrong password",
	})

	req := requestWithCookies(t, rec)
	readRec := httptest.NewRecorder()

	flash, ok := web.ReadFlash(readRec, req)
	if !ok {
		t.Fatalf("expected flash to be read")
	}
	if flash.Kind != web.FlashFail || flash.Message != "Wrong password" {
		t.Fatalf("unexpected flash: %+v", flash)
	}

	// reading must clear the cookie
	cleared := false
	for _, cookie := range readRec.Result().Cookies() {
		if cookie.Name == web.FlashCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected flash cookie to be cleared on read")
	}
}

func TestReadFlashMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := web.ReadFlash(httptest.NewRecorder(), req); ok {
		t.Fatalf("expected no flash without a cookie")
	}
}

func TestReadFlashRejectsGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: web.FlashCookieName, Value: "not-base64!!"})
	if _, ok := web.ReadFlash(httptest.NewRecorder(), req); ok {
		t.Fatalf("expected garbage flash cookie to be rejected")
	}
}

func TestFormInputRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	web.WriteFormInput(rec, httptest.NewRequest(http.MethodPost, "/login", nil), map[string]string{
		"login_id": "user@example.com",
	})

	req := requestWithCookies(t, rec)
	values, ok := web.ReadFormInput(httptest.NewRecorder(), req)
	if !ok {
		t.Fatalf("expected preserved input to be read")
	}
	if values["login_id"] != "user@example.com" {
		t.Fatalf("unexpected preserved input: %#v", values)
	}
}

func TestSessionCookieRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	web.WriteSessionCookie(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "signed-value", time.Now().Add(time.Hour))

	req := requestWithCookies(t, rec)
	value, ok := web.ReadSessionCookie(req)
	if !ok || value != "signed-value" {
		t.Fatalf("expected session cookie round trip, got %q ok=%v", value, ok)
	}

	clearRec := httptest.NewRecorder()
	web.ClearSessionCookie(clearRec, req)
	cleared := false
	for _, cookie := range clearRec.Result().Cookies() {
		if cookie.Name == web.SessionCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected session cookie to be expired")
	}
}
