// Package entity holds the domain types of the twofactor module.
package entity

import "time"

// CodeState is the derived lifecycle state of an OTP record. It is never
// stored; it is computed at read time from (consumed, expires_at, now).
type CodeState int

const (
	// StateActive means the code is unconsumed and not yet expired.
	StateActive CodeState = iota
	// StateConsumed means the code has been used to enable the second factor.
	StateConsumed
	// StateExpired means the code is unconsumed but past its expiry.
	StateExpired
)

// String returns the string representation of the code state.
func (s CodeState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateConsumed:
		return "consumed"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// OTPRecord is one issued verification code.
type OTPRecord struct {
	ID        int64
	UserID    string
	Code      string
	ExpiresAt time.Time
	Consumed  bool
	CreatedAt time.Time
}

// State derives the lifecycle state at the given instant. Consumption wins
// over expiry; a record expires only when its deadline is strictly before
// now, so a code submitted exactly at the deadline still validates.
func (o OTPRecord) State(now time.Time) CodeState {
	if o.Consumed {
		return StateConsumed
	}
	if o.ExpiresAt.Before(now) {
		return StateExpired
	}
	return StateActive
}

// NewOTPRecord is the data required to persist a fresh code.
type NewOTPRecord struct {
	ID        int64
	UserID    string
	Code      string
	ExpiresAt time.Time
}
