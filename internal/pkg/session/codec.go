package session

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/hkdf"
)

const (
	minSecretLength = 32
	keyInfo         = "plus-service session signing v2"
	legacyPrefix    = "v1:"
	maxSubjectLen   = 255
)

// Codec issues and decodes session credentials. It is built once at startup
// and its key never changes for the lifetime of the process.
type Codec struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec derives the signing key from cfg.Secret.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes", minSecretLength)
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(cfg.Secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive session key: %w", err)
	}

	return &Codec{
		key:    key,
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		now:    time.Now,
	}, nil
}

// Issue mints a current-format credential for subjectID.
func (c *Codec) Issue(subjectID string) (string, *Claims, error) {
	if subjectID == "" {
		return "", nil, fmt.Errorf("cannot issue session without subject")
	}

	now := c.now()
	claims := &Claims{
		Version: CurrentVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subjectID,
			ID:        ulid.Make().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, claims, nil
}

// Decode classifies raw into exactly one Outcome. It performs no I/O.
func (c *Codec) Decode(raw string) Outcome {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return Absent{}
	case strings.HasPrefix(raw, legacyPrefix):
		if validSubject(strings.TrimPrefix(raw, legacyPrefix)) {
			return LegacyRejected{Shape: ShapeBareSubject}
		}
		return InvalidCurrent{Reason: ReasonMalformed}
	case strings.Count(raw, ".") == 2:
		return c.decodeToken(raw)
	case isUnsignedPayload(raw):
		return LegacyRejected{Shape: ShapeUnsignedPayload}
	default:
		return InvalidCurrent{Reason: ReasonMalformed}
	}
}

func (c *Codec) decodeToken(raw string) Outcome {
	// Shape first: an old claim layout is legacy no matter whether its
	// signature still verifies.
	unverified := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, unverified); err != nil {
		return InvalidCurrent{Reason: ReasonMalformed}
	}
	switch {
	case unverified.Version < CurrentVersion:
		return LegacyRejected{Shape: ShapeOldClaims}
	case unverified.Version > CurrentVersion:
		return InvalidCurrent{Reason: ReasonUnsupportedVersion}
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return InvalidCurrent{Reason: reasonFor(err)}
	}

	if claims.Subject == "" {
		return InvalidCurrent{Reason: ReasonMissingSubject}
	}
	if claims.ID == "" || claims.IssuedAt == nil {
		return InvalidCurrent{Reason: ReasonInvalidClaims}
	}

	return ValidCurrent{
		SubjectID: claims.Subject,
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}

func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ReasonNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return ReasonInvalidClaims
	default:
		return ReasonMalformed
	}
}

// isUnsignedPayload recognizes the pre-signature cookie: a JSON object,
// optionally base64 encoded, that names a subject directly.
func isUnsignedPayload(raw string) bool {
	payload := []byte(raw)
	if !strings.HasPrefix(raw, "{") {
		b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(raw, "="))
		if err != nil {
			if b, err = base64.StdEncoding.DecodeString(raw); err != nil {
				return false
			}
		}
		payload = b
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return false
	}
	for _, k := range []string{"sub", "user_id"} {
		if s, ok := fields[k].(string); ok && s != "" {
			return true
		}
	}
	return false
}

func validSubject(s string) bool {
	if s == "" || len(s) > maxSubjectLen {
		return false
	}
	return !strings.ContainsAny(s, " \t\r\n.")
}
