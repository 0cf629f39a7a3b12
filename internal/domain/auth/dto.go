// internal/domain/auth/dto.go
package auth

import (
	"time"

	"plus-service/internal/domain/user"
)

// LoginRequest carries the identity provider's ID token.
type LoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type LoginResponse struct {
	Username         string                `json:"username"`
	Email            string                `json:"email"`
	IsSubscriber     bool                  `json:"is_subscriber"`
	SubscriptionType user.SubscriptionType `json:"subscription_type"`
	ExpiresAt        time.Time             `json:"expires_at"`
}

// Session is a freshly issued session credential.
type Session struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}
