// internal/domain/settings/entity.go
package settings

import (
	"time"
)

// Settings are the stored preferences of a user. A user without a row has
// never saved a preference, which is not the same as saving the defaults.
type Settings struct {
	SubjectID           string    `json:"-"`
	LocaleOverride      *string   `json:"locale_override"`
	MdnplusNewsletter   bool      `json:"mdnplus_newsletter"`
	NoAds               bool      `json:"no_ads"`
	MultipleCollections bool      `json:"multiple_collections"`
	UpdatedAt           time.Time `json:"-"`
}
