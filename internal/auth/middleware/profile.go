package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// The profile cookie is a partition key for progress persistence, not an
// identity: no accounts, no login. Signing it keeps one browser profile from
// trivially forging another profile's partition.
const profileCookieName = "pc_profile"

type ProfileService struct{ hmac []byte }

func NewProfileService(secret string) *ProfileService {
	return &ProfileService{hmac: []byte(secret)}
}

type profileClaims struct {
	jwt.RegisteredClaims
}

// Issue mints a fresh anonymous profile ID and its signed token.
func (s *ProfileService) Issue() (profileID, token string, err error) {
	now := time.Now()
	profileID = uuid.NewString()
	claims := &profileClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID,
			Issuer:    "placequest",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(365 * 24 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(s.hmac)
	return profileID, token, err
}

// Parse returns the profile ID carried by a token, or "" if invalid.
func (s *ProfileService) Parse(tokenStr string) string {
	token, err := jwt.ParseWithClaims(tokenStr, &profileClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.hmac, nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	c, ok := token.Claims.(*profileClaims)
	if !ok {
		return ""
	}
	return c.Subject
}

// ProfileMiddleware ensures every request carries a valid profile cookie,
// minting one when absent or unparseable, and exposes the profile ID through
// the request context.
func ProfileMiddleware(s *ProfileService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var profileID string
			if c, err := r.Cookie(profileCookieName); err == nil {
				profileID = s.Parse(c.Value)
			}
			if profileID == "" {
				id, token, err := s.Issue()
				if err != nil {
					http.Error(w, "profile token", http.StatusInternalServerError)
					return
				}
				profileID = id
				http.SetCookie(w, &http.Cookie{
					Name:     profileCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   365 * 24 * 60 * 60,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(WithProfileID(r.Context(), profileID)))
		})
	}
}
