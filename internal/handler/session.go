package handler

import (
	"net/http"
	"strings"
	"time"
)

// SessionCookieName holds the provider access token for browser requests.
const SessionCookieName = "sb_session"

const defaultSessionMaxAge = time.Hour

func setSessionCookie(w http.ResponseWriter, r *http.Request, token string, expiresIn int) {
	maxAge := int(defaultSessionMaxAge / time.Second)
	if expiresIn > 0 {
		maxAge = expiresIn
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionCookieToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
