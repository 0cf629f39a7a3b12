// internal/domain/whoami/dto.go
package whoami

import (
	"plus-service/internal/domain/newsletter"
	"plus-service/internal/domain/settings"
	"plus-service/internal/domain/user"
	"plus-service/internal/pkg/geo"
)

// Response is the identity summary. Authenticated-only fields are pointers
// without omitempty so that anonymous callers see explicit nulls.
type Response struct {
	IsAuthenticated      bool                   `json:"is_authenticated"`
	Geo                  geo.Result             `json:"geo"`
	Username             *string                `json:"username"`
	Email                *string                `json:"email"`
	AvatarURL            *string                `json:"avatar_url"`
	IsSubscriber         *bool                  `json:"is_subscriber"`
	SubscriptionType     *user.SubscriptionType `json:"subscription_type"`
	NewsletterSubscribed *newsletter.Status     `json:"newsletter_subscribed"`
	Settings             *settings.Settings     `json:"settings"`
}

// Anonymous builds the response for any caller without a usable session.
func Anonymous(g geo.Result) *Response {
	return &Response{Geo: g}
}
