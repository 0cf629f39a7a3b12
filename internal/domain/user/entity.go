// internal/domain/user/entity.go
package user

import (
	"time"
)

// User is the stored account record, keyed by the provider subject id.
type User struct {
	ID               int64            `json:"id"`
	SubjectID        string           `json:"subject_id"`
	Username         string           `json:"username"`
	Email            string           `json:"email"`
	AvatarURL        *string          `json:"avatar_url"`
	IsSubscriber     bool             `json:"is_subscriber"`
	SubscriptionType SubscriptionType `json:"subscription_type"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Profile carries the provider-verified fields written on login.
type Profile struct {
	SubjectID        string
	Email            string
	AvatarURL        *string
	IsSubscriber     bool
	SubscriptionType SubscriptionType
}
