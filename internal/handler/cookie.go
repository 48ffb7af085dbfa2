package handler

import (
	"net/http"
	"time"
)

// AccessTokenCookie carries the access token for browser clients.
const AccessTokenCookie = "access_token"

// CookieHelper manages the authentication cookie.
type CookieHelper struct {
	Secure bool
	Path   string
}

// NewCookieHelper creates a cookie helper scoped to the whole site.
func NewCookieHelper(secure bool) *CookieHelper {
	return &CookieHelper{Secure: secure, Path: "/"}
}

// SetAccessToken stores token in an HttpOnly cookie expiring at expires.
func (h *CookieHelper) SetAccessToken(w http.ResponseWriter, token string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     h.Path,
		MaxAge:   maxAge,
		Expires:  expires,
		Secure:   h.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAccessToken removes the cookie.
func (h *CookieHelper) ClearAccessToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     h.Path,
		MaxAge:   -1,
		Secure:   h.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
