package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/pushlogin/internal/logger"
	"github.com/dtroode/pushlogin/internal/model"
)

// Initiator creates push-approval sessions on the identity service.
type Initiator struct {
	remote   model.IdentityService
	lifetime time.Duration
	now      func() time.Time
	logger   *logger.Logger
}

// NewInitiator creates a new Initiator whose sessions live for lifetime.
// A non-positive lifetime falls back to model.SessionLifetime.
func NewInitiator(remote model.IdentityService, lifetime time.Duration, logger *logger.Logger) *Initiator {
	if lifetime <= 0 {
		lifetime = model.SessionLifetime
	}
	return &Initiator{
		remote:   remote,
		lifetime: lifetime,
		now:      time.Now,
		logger:   logger,
	}
}

// Initiate submits identifier and returns a pending session. On failure no
// session is produced and the error wraps model.ErrSessionCreation.
func (i *Initiator) Initiate(ctx context.Context, identifier string) (model.LoginSession, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return model.LoginSession{}, fmt.Errorf("%w: %w", model.ErrSessionCreation, model.ErrInvalidIdentifier)
	}

	i.logger.Debug("Login service: creating session",
		"identifier", identifier)

	created, err := i.remote.CreateSession(ctx, identifier)
	if err != nil {
		i.logger.Error("Login service: failed to create session",
			"identifier", identifier,
			"error", err.Error())
		return model.LoginSession{}, fmt.Errorf("%w: %w", model.ErrSessionCreation, err)
	}

	if created.SessionID == "" {
		i.logger.Error("Login service: identity service returned no session id",
			"identifier", identifier)
		return model.LoginSession{}, fmt.Errorf("%w: no session id in response", model.ErrSessionCreation)
	}

	now := i.now()
	session := model.LoginSession{
		ID:         created.SessionID,
		Identifier: identifier,
		CreatedAt:  now,
		DeadlineAt: now.Add(i.lifetime),
		Status:     model.SessionPending,
		Device:     created.Device,
	}

	i.logger.Info("Login service: session created",
		"identifier", identifier,
		"session_id", session.ID,
		"deadline_at", session.DeadlineAt.Format(time.RFC3339))

	return session, nil
}
