// internal/domain/user/subscription.go
package user

import (
	"strings"
	"time"
)

type SubscriptionType string

const (
	SubscriptionCore        SubscriptionType = "core"
	SubscriptionPlus5Month  SubscriptionType = "mdn_plus_5m"
	SubscriptionPlus5Year   SubscriptionType = "mdn_plus_5y"
	SubscriptionPlus10Month SubscriptionType = "mdn_plus_10m"
	SubscriptionPlus10Year  SubscriptionType = "mdn_plus_10y"
)

// ParseSubscriptionType accepts a plan name as reported by the
// subscription platform. Unknown plans are rejected.
func ParseSubscriptionType(s string) (SubscriptionType, bool) {
	switch t := SubscriptionType(strings.ToLower(strings.TrimSpace(s))); t {
	case SubscriptionCore, SubscriptionPlus5Month, SubscriptionPlus5Year,
		SubscriptionPlus10Month, SubscriptionPlus10Year:
		return t, true
	}
	return "", false
}

// Tier ranks plans: core < mdn_plus_5 < mdn_plus_10.
func (t SubscriptionType) Tier() int {
	switch t {
	case SubscriptionPlus10Month, SubscriptionPlus10Year:
		return 2
	case SubscriptionPlus5Month, SubscriptionPlus5Year:
		return 1
	default:
		return 0
	}
}

func (t SubscriptionType) Yearly() bool {
	return strings.HasSuffix(string(t), "y") && t.Tier() > 0
}

// IsPaid reports whether the plan makes the user a subscriber.
func (t SubscriptionType) IsPaid() bool {
	return t.Tier() > 0
}

// SubscriptionEntry is one active subscription reported for a subject.
type SubscriptionEntry struct {
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

// BestSubscription picks the highest tier entry, preferring the longer
// duration and then the most recent one. With no recognised entry the
// caller is on the core plan.
func BestSubscription(entries []SubscriptionEntry) SubscriptionType {
	var (
		best      SubscriptionType
		bestAt    time.Time
		haveEntry bool
	)
	for _, e := range entries {
		t, ok := ParseSubscriptionType(e.Plan)
		if !ok {
			continue
		}
		if !haveEntry || better(t, e.CreatedAt, best, bestAt) {
			best, bestAt, haveEntry = t, e.CreatedAt, true
		}
	}
	if !haveEntry {
		return SubscriptionCore
	}
	return best
}

func better(t SubscriptionType, at time.Time, best SubscriptionType, bestAt time.Time) bool {
	if t.Tier() != best.Tier() {
		return t.Tier() > best.Tier()
	}
	if t.Yearly() != best.Yearly() {
		return t.Yearly()
	}
	return at.After(bestAt)
}
