package session

import "time"

// Outcome is the result of decoding a session credential. It is a closed
// set: Absent, LegacyRejected, InvalidCurrent and ValidCurrent. Only
// ValidCurrent authenticates a caller.
type Outcome interface {
	// Kind is a stable telemetry label for the outcome.
	Kind() string
	sealed()
}

// Absent means the request carried no credential at all.
type Absent struct{}

// LegacyRejected means the credential was produced by a retired session
// scheme. It is never honored, whatever subject it names.
type LegacyRejected struct {
	Shape LegacyShape
}

// InvalidCurrent means the credential looked like the current format but
// failed verification.
type InvalidCurrent struct {
	Reason Reason
}

// ValidCurrent carries the verified subject of a current-format credential.
type ValidCurrent struct {
	SubjectID string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (Absent) Kind() string         { return "absent" }
func (LegacyRejected) Kind() string { return "legacy_rejected" }
func (InvalidCurrent) Kind() string { return "invalid_current" }
func (ValidCurrent) Kind() string   { return "valid_current" }

func (Absent) sealed()         {}
func (LegacyRejected) sealed() {}
func (InvalidCurrent) sealed() {}
func (ValidCurrent) sealed()   {}

// LegacyShape names which retired scheme a legacy credential matched.
type LegacyShape string

const (
	// ShapeOldClaims is a JWT whose claim layout predates the current version.
	ShapeOldClaims LegacyShape = "old_claims"
	// ShapeUnsignedPayload is a bare JSON session payload with no signature.
	ShapeUnsignedPayload LegacyShape = "unsigned_payload"
	// ShapeBareSubject is a "v1:<subject>" identity cookie.
	ShapeBareSubject LegacyShape = "bare_subject"
)

// Reason explains why a current-format credential was refused.
type Reason string

const (
	ReasonMalformed          Reason = "malformed"
	ReasonBadSignature       Reason = "bad_signature"
	ReasonExpired            Reason = "expired"
	ReasonNotYetValid        Reason = "not_yet_valid"
	ReasonMissingSubject     Reason = "missing_subject"
	ReasonInvalidClaims      Reason = "invalid_claims"
	ReasonUnsupportedVersion Reason = "unsupported_version"
	ReasonRevoked            Reason = "revoked"
)
