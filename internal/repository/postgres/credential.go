package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/pushlogin/internal/model"
)

var _ model.RecordStore = (*CredentialRepository)(nil)

// DB is the subset of pgxpool.Pool used by the repositories.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DefaultSlot is the row key of the device credential.
const DefaultSlot = "default"

// CredentialRepository stores the credential record as one row of the
// credentials table.
type CredentialRepository struct {
	db   DB
	slot string
}

func NewCredentialRepository(db DB, slot string) *CredentialRepository {
	if slot == "" {
		slot = DefaultSlot
	}
	return &CredentialRepository{
		db:   db,
		slot: slot,
	}
}

func (r *CredentialRepository) Get(ctx context.Context) ([]byte, error) {
	query := `SELECT payload FROM credentials WHERE slot = $1`

	var payload []byte
	if err := r.db.QueryRow(ctx, query, r.slot).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select credential: %w", err)
	}
	return payload, nil
}

// Put upserts the row in a single statement, which replaces the record
// atomically.
func (r *CredentialRepository) Put(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO credentials (slot, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`

	if _, err := r.db.Exec(ctx, query, r.slot, data); err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) Delete(ctx context.Context) error {
	query := `DELETE FROM credentials WHERE slot = $1`

	tag, err := r.db.Exec(ctx, query, r.slot)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
