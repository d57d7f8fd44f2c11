package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/pushlogin/internal/model"
)

type fakeRow struct {
	payload []byte
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.payload
	return nil
}

// fakeDB keeps rows in memory keyed by slot.
type fakeDB struct {
	rows    map[string][]byte
	execErr error
	rowErr  error
	lastSQL string
}

func newFakeDB() *fakeDB {
	return &fakeDB{rows: map[string][]byte{}}
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL = sql
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	slot := args[0].(string)
	if len(args) == 2 {
		f.rows[slot] = args[1].([]byte)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	if _, ok := f.rows[slot]; !ok {
		return pgconn.NewCommandTag("DELETE 0"), nil
	}
	delete(f.rows, slot)
	return pgconn.NewCommandTag("DELETE 1"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL = sql
	if f.rowErr != nil {
		return fakeRow{err: f.rowErr}
	}
	payload, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{payload: payload}
}

func TestCredentialRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	repo := NewCredentialRepository(db, "")

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, repo.Put(ctx, []byte(`{"version":1}`)))
	assert.Contains(t, db.lastSQL, "ON CONFLICT (slot)")
	assert.Contains(t, db.rows, DefaultSlot)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(got))

	require.NoError(t, repo.Delete(ctx))
	assert.ErrorIs(t, repo.Delete(ctx), model.ErrNotFound)
}

func TestCredentialRepository_Slots(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	a := NewCredentialRepository(db, "a")
	b := NewCredentialRepository(db, "b")

	require.NoError(t, a.Put(ctx, []byte("A")))
	_, err := b.Get(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCredentialRepository_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	db := newFakeDB()
	db.rowErr = boom
	db.execErr = boom
	repo := NewCredentialRepository(db, "")

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, repo.Put(ctx, []byte("x")), boom)
	assert.ErrorIs(t, repo.Delete(ctx), boom)
}
