package model

import "time"

// Fixed timings of a push-approval login session.
const (
	SessionLifetime = 300 * time.Second
	PollInterval    = 2000 * time.Millisecond
	RequestTimeout  = 10 * time.Second
	DisplayDelay    = 3 * time.Second
)

// SessionStatus is the local state of a login session.
type SessionStatus string

const (
	SessionPending  SessionStatus = "Pending"
	SessionApproved SessionStatus = "Approved"
	SessionDenied   SessionStatus = "Denied"
	SessionExpired  SessionStatus = "Expired"
	SessionError    SessionStatus = "Error"
)

// Terminal reports whether s can no longer change.
func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionApproved, SessionDenied, SessionExpired, SessionError:
		return true
	}
	return false
}

// Remote status literals returned by the identity service.
const (
	RemoteStatusPending  = "pending"
	RemoteStatusApproved = "approved"
	RemoteStatusDenied   = "denied"
	RemoteStatusExpired  = "expired"
)

// DeviceContext describes the device the push was sent to. Every field is optional.
type DeviceContext struct {
	IP        string     `json:"ip,omitempty"`
	Platform  string     `json:"platform,omitempty"`
	Location  string     `json:"location,omitempty"`
	DeviceID  string     `json:"device_id,omitempty"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

// LoginSession is a time-boxed login attempt awaiting a device decision.
type LoginSession struct {
	ID         string         `json:"session_id"`
	Identifier string         `json:"identifier"`
	CreatedAt  time.Time      `json:"created_at"`
	DeadlineAt time.Time      `json:"deadline_at"`
	Status     SessionStatus  `json:"status"`
	Device     *DeviceContext `json:"device,omitempty"`
}

// Expired reports whether the session deadline has passed relative to now.
func (s LoginSession) Expired(now time.Time) bool {
	return !now.Before(s.DeadlineAt)
}

// LoginResult is the terminal outcome of a session together with the next route.
type LoginResult struct {
	Session  LoginSession
	Redirect Redirect
	Reason   string
	Err      error
}
