package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func csrfTestConfig() CSRFConfig {
	return CSRFConfig{CookieSecure: true}
}

func TestCSRFMiddleware_GETWithoutToken_PassesAndSetsCookie(t *testing.T) {
	mw := NewCSRFMiddleware(csrfTestConfig())
	handler := mw(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "csrf_token" && c.Value != "" {
			found = true
			if c.HttpOnly {
				t.Error("csrf_token cookie must be readable from JavaScript")
			}
		}
	}
	if !found {
		t.Error("csrf_token cookie should be set on safe methods")
	}
}

func TestCSRFMiddleware_POSTWithoutToken_Returns403(t *testing.T) {
	mw := NewCSRFMiddleware(csrfTestConfig())
	handler := mw(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/cart/lines", nil))

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestCSRFMiddleware_POSTWithMatchingToken_Passes(t *testing.T) {
	mw := NewCSRFMiddleware(csrfTestConfig())
	handler := mw(okHandler())

	r := httptest.NewRequest(http.MethodPost, "/api/cart/lines", nil)
	r.AddCookie(&http.Cookie{Name: "csrf_token", Value: "test-csrf-token"})
	r.Header.Set("X-CSRF-Token", "test-csrf-token")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestCSRFMiddleware_POSTWithMismatchedToken_Returns403(t *testing.T) {
	mw := NewCSRFMiddleware(csrfTestConfig())
	handler := mw(okHandler())

	r := httptest.NewRequest(http.MethodPost, "/api/cart/lines", nil)
	r.AddCookie(&http.Cookie{Name: "csrf_token", Value: "cookie-token"})
	r.Header.Set("X-CSRF-Token", "different-token")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestCSRFMiddleware_POSTWithCookieButNoHeader_Returns403(t *testing.T) {
	mw := NewCSRFMiddleware(csrfTestConfig())
	handler := mw(okHandler())

	r := httptest.NewRequest(http.MethodPost, "/api/cart/lines", nil)
	r.AddCookie(&http.Cookie{Name: "csrf_token", Value: "cookie-token"})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestCSRFTokenHandler_ReturnsNewToken(t *testing.T) {
	handler := NewCSRFTokenHandler(csrfTestConfig())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["token"] == "" {
		t.Error("token should not be empty")
	}
}

func TestCSRFTokenHandler_ReusesExistingToken(t *testing.T) {
	handler := NewCSRFTokenHandler(csrfTestConfig())

	r := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	r.AddCookie(&http.Cookie{Name: "csrf_token", Value: "existing-token"})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["token"] != "existing-token" {
		t.Errorf("token = %q, want existing-token", body["token"])
	}
}
