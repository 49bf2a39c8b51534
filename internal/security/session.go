package security

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateSessionID returns an opaque, unguessable session token
func GenerateSessionID() string {
	return uuid.New().String()
}

// IsSecureRequest reports whether the browser reached us over HTTPS, either
// directly or through a TLS-terminating proxy
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil || r.URL.Scheme == "https" {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// sessionCookie sets the flags shared by issued and cleared session cookies.
// Browsers only replace a cookie whose attributes match.
func sessionCookie(r *http.Request, name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// CreateSessionCookie issues the session cookie until expires
func CreateSessionCookie(r *http.Request, name, value string, expires time.Time) *http.Cookie {
	c := sessionCookie(r, name, value)
	c.Expires = expires
	return c
}

// CreateDeleteCookie clears a cookie set by CreateSessionCookie
func CreateDeleteCookie(r *http.Request, name string) *http.Cookie {
	c := sessionCookie(r, name, "")
	c.MaxAge = -1
	return c
}
