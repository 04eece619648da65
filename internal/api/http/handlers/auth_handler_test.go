package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/varnooj/SubsPanel/internal/auth"
)

func postForm(target, form string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.SessionCookie {
			return cookie
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	resp, err := env.app.Test(postForm("/login", "username=admin&password=change-me-strong"))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/admin" {
		t.Fatalf("Location = %q, want /admin", loc)
	}

	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatalf("no session cookie set")
	}
	identity, err := env.codec.Verify(cookie.Value)
	if err != nil || identity != "admin" {
		t.Fatalf("cookie does not verify as admin: identity=%q err=%v", identity, err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cases := []string{
		"username=admin&password=wrong",
		"username=root&password=change-me-strong",
		"username=&password=",
	}
	for _, form := range cases {
		resp, err := env.app.Test(postForm("/login", form))
		if err != nil {
			t.Fatalf("app.Test error: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", form, resp.StatusCode)
		}
		if sessionCookie(resp) != nil {
			t.Fatalf("%s: cookie set on failed login", form)
		}
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(env.adminCookie(t))

	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("Location = %q, want /login", loc)
	}
	cookie := sessionCookie(resp)
	if cookie == nil || cookie.Value != "" {
		t.Fatalf("logout did not clear the session cookie: %+v", cookie)
	}
}

func TestRoot_RedirectsByIdentity(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	resp.Body.Close()
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("anonymous: Location = %q, want /login", loc)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(env.adminCookie(t))
	resp, err = env.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	resp.Body.Close()
	if loc := resp.Header.Get("Location"); loc != "/admin" {
		t.Fatalf("admin: Location = %q, want /admin", loc)
	}
}
