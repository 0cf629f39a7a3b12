// internal/domain/settings/dto.go
package settings

import (
	"bytes"
	"encoding/json"
)

// UpdateRequest is a partial settings update. Omitted fields keep their
// stored value; an explicit null locale clears the override.
type UpdateRequest struct {
	LocaleOverride      NullableString `json:"locale_override"`
	MdnplusNewsletter   *bool          `json:"mdnplus_newsletter"`
	NoAds               *bool          `json:"no_ads"`
	MultipleCollections *bool          `json:"multiple_collections"`
}

// NullableString tells "absent" from "null" in a JSON body.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

func (n NullableString) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
