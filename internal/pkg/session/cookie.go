package session

import (
	"net/http"
	"strings"
	"time"
)

// DefaultCookieName is used when no cookie name is configured.
const DefaultCookieName = "plus_session"

// CookieWriter sets and clears the session cookie.
type CookieWriter struct {
	name   string
	domain string
	secure bool
}

// NewCookieWriter builds a CookieWriter from the session config.
func NewCookieWriter(cfg Config) *CookieWriter {
	name := cfg.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	return &CookieWriter{name: name, domain: cfg.CookieDomain, secure: cfg.CookieSecure}
}

// Name returns the cookie name carrying the credential.
func (w *CookieWriter) Name() string {
	return w.name
}

// Set writes token as an HttpOnly cookie that expires with the session.
func (w *CookieWriter) Set(rw http.ResponseWriter, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	http.SetCookie(rw, &http.Cookie{
		Name:     w.name,
		Value:    token,
		Path:     "/",
		Domain:   formatDomain(w.domain),
		MaxAge:   maxAge,
		Expires:  expiresAt,
		Secure:   w.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie.
func (w *CookieWriter) Clear(rw http.ResponseWriter) {
	http.SetCookie(rw, &http.Cookie{
		Name:     w.name,
		Value:    "",
		Path:     "/",
		Domain:   formatDomain(w.domain),
		MaxAge:   -1,
		Secure:   w.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func formatDomain(domain string) string {
	if domain == "" || domain == "localhost" || strings.HasPrefix(domain, ".") {
		return domain
	}
	return "." + domain
}
