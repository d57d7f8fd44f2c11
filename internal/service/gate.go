package service

import (
	"context"
	"errors"

	"github.com/dtroode/pushlogin/internal/logger"
	"github.com/dtroode/pushlogin/internal/model"
)

// CredentialLoader reads the stored credential.
type CredentialLoader interface {
	Load(ctx context.Context) (model.Credential, error)
}

// Gate admits callers of protected capabilities. It never writes, so
// repeated calls against an unchanged store return the same decision.
type Gate struct {
	store  CredentialLoader
	logger *logger.Logger
}

// NewGate creates a new Gate.
func NewGate(store CredentialLoader, logger *logger.Logger) *Gate {
	return &Gate{store: store, logger: logger}
}

// Admit decides whether a protected capability may run.
func (g *Gate) Admit(ctx context.Context) model.Decision {
	_, d := g.Authorize(ctx)
	return d
}

// Authorize is Admit that also returns the admitted credential.
func (g *Gate) Authorize(ctx context.Context) (model.Credential, model.Decision) {
	c, err := g.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, model.ErrNoCredential) {
			g.logger.Error("Auth gate: failed to load credential",
				"error", err.Error())
		}
		return model.Credential{}, model.RedirectTo(model.RouteLogin)
	}

	if c.User.VerificationStatus != model.VerificationApproved {
		return c, model.RedirectTo(model.RouteVerification)
	}

	return c, model.Admit()
}
