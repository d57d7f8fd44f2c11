package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dtroode/pushlogin/internal/logger"
	"github.com/dtroode/pushlogin/internal/model"
)

// CredentialStore is the process-wide persisted credential. Every operation
// holds one mutex, so readers never observe a partially written record and
// writes never interleave.
type CredentialStore struct {
	mu      sync.Mutex
	backend model.RecordStore
	ttl     time.Duration
	now     func() time.Time
	logger  *logger.Logger
}

// NewCredentialStore creates a new CredentialStore over backend. A stored
// credential older than ttl is discarded on load.
func NewCredentialStore(backend model.RecordStore, ttl time.Duration, logger *logger.Logger) *CredentialStore {
	if ttl <= 0 {
		ttl = model.CredentialTTL
	}
	return &CredentialStore{
		backend: backend,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

// Save replaces the stored credential with c.
func (s *CredentialStore) Save(ctx context.Context, c model.Credential) error {
	if c.Token == "" || c.User.UserID == "" {
		return fmt.Errorf("failed to save credential: %w", model.ErrDataIntegrity)
	}
	if c.IssuedAt.IsZero() {
		c.IssuedAt = s.now()
	}
	c.User.VerificationStatus = model.ParseVerificationStatus(string(c.User.VerificationStatus))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.put(ctx, c); err != nil {
		return err
	}

	s.logger.Info("Credential store: credential saved",
		"user_id", c.User.UserID,
		"verification_status", string(c.User.VerificationStatus))
	return nil
}

// Load returns the stored credential or model.ErrNoCredential. Expired and
// unreadable records are cleared.
func (s *CredentialStore) Load(ctx context.Context) (model.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// UpdateVerificationStatus merges status into the stored user and re-persists
// the whole record. The update applies only while the stored credential still
// carries token; otherwise it returns model.ErrCredentialReplaced.
func (s *CredentialStore) UpdateVerificationStatus(ctx context.Context, token string, status model.VerificationStatus) (model.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx)
	if err != nil {
		return model.Credential{}, err
	}
	if c.Token != token {
		s.logger.Warn("Credential store: dropping verification update for a replaced credential",
			"user_id", c.User.UserID)
		return model.Credential{}, model.ErrCredentialReplaced
	}

	c.User.VerificationStatus = model.ParseVerificationStatus(string(status))
	if err := s.put(ctx, c); err != nil {
		return model.Credential{}, err
	}

	s.logger.Info("Credential store: verification status updated",
		"user_id", c.User.UserID,
		"verification_status", string(c.User.VerificationStatus))
	return c, nil
}

// Clear removes the stored credential. Clearing an empty store is not an error.
func (s *CredentialStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clear(ctx)
}

func (s *CredentialStore) load(ctx context.Context) (model.Credential, error) {
	data, err := s.backend.Get(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return model.Credential{}, model.ErrNoCredential
	}
	if err != nil {
		return model.Credential{}, fmt.Errorf("failed to read credential: %w", err)
	}

	c, err := decodeCredential(data)
	if err != nil {
		s.logger.Error("Credential store: discarding unreadable credential record",
			"error", err.Error())
		if err := s.clear(ctx); err != nil {
			return model.Credential{}, err
		}
		return model.Credential{}, model.ErrNoCredential
	}

	if c.Expired(s.now(), s.ttl) {
		s.logger.Info("Credential store: credential expired",
			"user_id", c.User.UserID,
			"issued_at", c.IssuedAt.Format(time.RFC3339))
		if err := s.clear(ctx); err != nil {
			return model.Credential{}, err
		}
		return model.Credential{}, model.ErrNoCredential
	}

	return c, nil
}

func (s *CredentialStore) put(ctx context.Context, c model.Credential) error {
	data, err := encodeCredential(c)
	if err != nil {
		return err
	}
	if err := s.backend.Put(ctx, data); err != nil {
		return fmt.Errorf("failed to write credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx); err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}
