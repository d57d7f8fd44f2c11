package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/pushlogin/internal/model"
)

// CredentialRepository keeps the credential record under a single Redis key.
// The key carries a TTL so a forgotten record expires server-side as well.
type CredentialRepository struct {
	rdb goredis.UniversalClient
	key string
	ttl time.Duration
}

// NewCredentialRepository creates a new CredentialRepository. A ttl of zero
// stores the key without expiry.
func NewCredentialRepository(rdb goredis.UniversalClient, key string, ttl time.Duration) *CredentialRepository {
	return &CredentialRepository{
		rdb: rdb,
		key: key,
		ttl: ttl,
	}
}

// Get returns the stored record or model.ErrNotFound.
func (r *CredentialRepository) Get(ctx context.Context) ([]byte, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get credential record: %w", err)
	}
	return data, nil
}

// Put replaces the record. SET is atomic so readers never see a partial value.
func (r *CredentialRepository) Put(ctx context.Context, data []byte) error {
	if err := r.rdb.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set credential record: %w", err)
	}
	return nil
}

// Delete removes the record. It returns model.ErrNotFound if there was none.
func (r *CredentialRepository) Delete(ctx context.Context) error {
	n, err := r.rdb.Del(ctx, r.key).Result()
	if err != nil {
		return fmt.Errorf("failed to delete credential record: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Ping checks that the server is reachable.
func (r *CredentialRepository) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
