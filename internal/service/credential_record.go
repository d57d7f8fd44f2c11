package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dtroode/pushlogin/internal/model"
)

const credentialRecordVersion = 1

// credentialRecord is the persisted layout of a credential. The whole record
// is written as one blob so token and user never diverge.
type credentialRecord struct {
	Version   int        `json:"version"`
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func encodeCredential(c model.Credential) ([]byte, error) {
	rec := credentialRecord{
		Version:  credentialRecordVersion,
		Token:    c.Token,
		User:     c.User,
		IssuedAt: c.IssuedAt.UTC(),
	}
	if !c.ExpiresAt.IsZero() {
		exp := c.ExpiresAt.UTC()
		rec.ExpiresAt = &exp
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credential record: %w", err)
	}
	return data, nil
}

func decodeCredential(data []byte) (model.Credential, error) {
	var rec credentialRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.Credential{}, fmt.Errorf("%w: %w", model.ErrRecordCorrupt, err)
	}
	if rec.Version != credentialRecordVersion {
		return model.Credential{}, fmt.Errorf("%w: unsupported version %d", model.ErrRecordCorrupt, rec.Version)
	}
	if rec.Token == "" || rec.User.UserID == "" || rec.IssuedAt.IsZero() {
		return model.Credential{}, fmt.Errorf("%w: missing fields", model.ErrRecordCorrupt)
	}

	c := model.Credential{
		Token:    rec.Token,
		User:     rec.User,
		IssuedAt: rec.IssuedAt.UTC(),
	}
	c.User.VerificationStatus = model.ParseVerificationStatus(string(rec.User.VerificationStatus))
	if rec.ExpiresAt != nil {
		c.ExpiresAt = rec.ExpiresAt.UTC()
	}
	return c, nil
}
