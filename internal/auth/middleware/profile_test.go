package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	auth "github.com/placequest/placequest/internal/auth/middleware"
)

func TestIssueParseRoundTrip(t *testing.T) {
	s := auth.NewProfileService("secret")

	id, token, err := s.Issue()
	if err != nil {
		t.Fatal(err)
	}
	if id == "" || token == "" {
		t.Fatal("empty id or token")
	}
	if got := s.Parse(token); got != id {
		t.Fatalf("Parse = %q, want %q", got, id)
	}
}

func TestParseRejectsForeignToken(t *testing.T) {
	s := auth.NewProfileService("secret")
	other := auth.NewProfileService("other-secret")

	_, token, err := other.Issue()
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Parse(token); got != "" {
		t.Fatalf("Parse accepted a token signed with another secret: %q", got)
	}
	if got := s.Parse("garbage"); got != "" {
		t.Fatalf("Parse accepted garbage: %q", got)
	}
}

func TestProfileMiddlewareMintsCookie(t *testing.T) {
	s := auth.NewProfileService("secret")

	var seen string
	h := auth.ProfileMiddleware(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.ProfileIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if seen == "" {
		t.Fatal("no profile ID in context")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	if got := s.Parse(cookies[0].Value); got != seen {
		t.Fatalf("cookie carries %q, context carried %q", got, seen)
	}
}

func TestProfileMiddlewareKeepsExistingProfile(t *testing.T) {
	s := auth.NewProfileService("secret")

	id, token, err := s.Issue()
	if err != nil {
		t.Fatal(err)
	}

	var seen string
	h := auth.ProfileMiddleware(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.ProfileIDFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "pc_profile", Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != id {
		t.Fatalf("profile = %q, want %q", seen, id)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("valid cookie should not be re-minted")
	}
}

func TestProfileMiddlewareReplacesBadCookie(t *testing.T) {
	s := auth.NewProfileService("secret")

	var seen string
	h := auth.ProfileMiddleware(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.ProfileIDFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "pc_profile", Value: "tampered"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen == "" {
		t.Fatal("tampered cookie should still yield a fresh profile")
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatal("tampered cookie should be replaced")
	}
}
