// internal/pkg/session/types.go
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CurrentVersion is the claim layout version of sessions issued today.
// Anything older is a legacy session.
const CurrentVersion = 2

// Config describes how session cookies are signed and transported.
type Config struct {
	Secret       string
	Issuer       string
	CookieName   string
	CookieDomain string
	CookieSecure bool
	TTL          time.Duration
}

// Claims is the current session claim layout.
type Claims struct {
	Version int `json:"ver"`
	jwt.RegisteredClaims
}
