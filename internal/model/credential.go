package model

import "time"

// CredentialTTL is how long a stored credential may be reused after issuance.
const CredentialTTL = 24 * time.Hour

// VerificationStatus is the identity-verification (eKYC) outcome of a user.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "Pending"
	VerificationApproved VerificationStatus = "Approved"
	VerificationRejected VerificationStatus = "Rejected"
)

// ParseVerificationStatus maps a raw value to a VerificationStatus.
// Missing or unknown values are treated as Pending.
func ParseVerificationStatus(raw string) VerificationStatus {
	switch VerificationStatus(raw) {
	case VerificationApproved:
		return VerificationApproved
	case VerificationRejected:
		return VerificationRejected
	default:
		return VerificationPending
	}
}

// User is the profile attached to a credential.
type User struct {
	UserID             string             `json:"user_id"`
	Username           string             `json:"username"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	ClientID           string             `json:"client_id,omitempty"`
}

// Credential is the bearer token and user profile produced by an approved session.
type Credential struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether c may no longer be reused at now.
func (c Credential) Expired(now time.Time, ttl time.Duration) bool {
	if now.Sub(c.IssuedAt) > ttl {
		return true
	}
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
