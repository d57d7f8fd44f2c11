package model

import (
	"context"
	"net"
)

// SessionCreated is the identity service reply to a session creation request.
type SessionCreated struct {
	SessionID string
	Device    *DeviceContext
}

// SessionStatusReply is the identity service reply to a status query.
// Token and User are only expected when Status is approved.
type SessionStatusReply struct {
	Status   string
	Token    string
	User     *User
	ClientID string
	Device   *DeviceContext
}

// IdentityService is the remote service that creates sessions, records
// device decisions and issues tokens.
type IdentityService interface {
	CreateSession(ctx context.Context, identifier string) (SessionCreated, error)
	GetSessionStatus(ctx context.Context, sessionID string) (SessionStatusReply, error)
	GetVerificationStatus(ctx context.Context, token string) (VerificationStatus, error)
}

// RecordStore persists a single opaque credential record.
// Put replaces the whole record atomically; Get returns ErrNotFound when absent.
type RecordStore interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, record []byte) error
	Delete(ctx context.Context) error
}

// SecurityLayer opens the listener a server is served on.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a long-running endpoint of the agent: the HTTP API or the
// health endpoint. Start blocks until Stop is called.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
