// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// ProviderClaims are the verified claims of an identity provider ID token.
type ProviderClaims struct {
	Email         string   `json:"email"`
	EmailVerified bool     `json:"email_verified"`
	DisplayName   string   `json:"display_name,omitempty"`
	Avatar        string   `json:"avatar,omitempty"`
	Subscriptions []string `json:"subscriptions,omitempty"`
	jwt.RegisteredClaims
}

// HasSubscription reports whether the provider lists plan among the
// account's subscriptions.
func (c *ProviderClaims) HasSubscription(plan string) bool {
	for _, s := range c.Subscriptions {
		if s == plan {
			return true
		}
	}
	return false
}
