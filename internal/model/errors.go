package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrNoCredential       = errors.New("no stored credential")
	ErrSessionNotFound    = errors.New("login session not found")
	ErrInvalidIdentifier  = errors.New("identifier must not be empty")
	ErrRecordCorrupt      = errors.New("credential record corrupt")
	ErrRemoteRejected     = errors.New("remote service rejected request")
	ErrSessionCancelled   = errors.New("login session cancelled")
	ErrCredentialReplaced = errors.New("stored credential was replaced")
	ErrShuttingDown       = errors.New("login agent is shutting down")
)

// Login failure taxonomy.
var (
	ErrSessionCreation  = errors.New("session creation failed")
	ErrPollingNetwork   = errors.New("session status query failed")
	ErrDataIntegrity    = errors.New("approved session is missing credential fields")
	ErrDeadlineExceeded = errors.New("session deadline exceeded")
	ErrUserDenied       = errors.New("login denied on device")
)

// LoginError is a terminal non-approved outcome of a login session.
type LoginError struct {
	SessionID string
	Status    SessionStatus
	Err       error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("session %s ended %s: %v", e.SessionID, e.Status, e.Err)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// Reason returns the human-readable explanation shown to the user.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUserDenied):
		return "The login request was denied on your device."
	case errors.Is(err, ErrDeadlineExceeded):
		return "The login request expired before it was approved."
	case errors.Is(err, ErrDataIntegrity):
		return "The login was approved but the server returned an incomplete response."
	case errors.Is(err, ErrPollingNetwork):
		return "Could not reach the login service."
	default:
		return "The login could not be completed."
	}
}
