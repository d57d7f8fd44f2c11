//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/pushlogin/internal/model"
	repo "github.com/dtroode/pushlogin/internal/repository/postgres"
	"github.com/dtroode/pushlogin/internal/service"
	"github.com/dtroode/pushlogin/internal/testutil"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "pushlogin_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/pushlogin_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestCredentialRepository_Postgres(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.Ping(ctx))

	r := repo.NewCredentialRepository(conn, "integration")

	_, err = r.Get(ctx)
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, r.Put(ctx, []byte(`{"version":1}`)))
	require.NoError(t, r.Put(ctx, []byte(`{"version":1,"token":"b"}`)))

	got, err := r.Get(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `{"version":1,"token":"b"}`, string(got))

	require.NoError(t, r.Delete(ctx))
	require.ErrorIs(t, r.Delete(ctx), model.ErrNotFound)
}

func TestCredentialStore_OverPostgres(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	store := service.NewCredentialStore(repo.NewCredentialRepository(conn, "store"), model.CredentialTTL, testutil.MakeNoopLogger())

	c := model.Credential{
		Token:    "tok",
		User:     model.User{UserID: "u1", VerificationStatus: model.VerificationApproved},
		IssuedAt: time.Now(),
	}
	require.NoError(t, store.Save(ctx, c))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok", loaded.Token)
	require.Equal(t, model.VerificationApproved, loaded.User.VerificationStatus)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	require.ErrorIs(t, err, model.ErrNoCredential)
}
