package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/pushlogin/internal/model"
	"github.com/dtroode/pushlogin/internal/testutil"
)

func TestLogin_ScenarioA_ApprovedAndVerified(t *testing.T) {
	f := newLoginFixture(t, testLifetime, WatcherOptions{}, pending(), approved("t1", model.VerificationApproved))

	s, err := f.login.Start(waitCtx(t), "alice")
	require.NoError(t, err)
	assert.Equal(t, model.SessionPending, s.Status)

	res, err := f.login.Wait(waitCtx(t), s.ID)
	require.NoError(t, err)

	assert.Equal(t, model.SessionApproved, res.Session.Status)
	assert.Equal(t, model.Redirect{Route: model.RouteDashboard}, res.Redirect)
	assert.Empty(t, res.Reason)
	assert.Equal(t, 2, f.remote.Calls())

	c, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t1", c.Token)
	assert.Equal(t, "1", c.User.UserID)
}

func TestLogin_ScenarioB_ApprovedPendingVerification(t *testing.T) {
	f := newLoginFixture(t, testLifetime, WatcherOptions{}, pending(), approved("t1", model.VerificationPending))

	s, err := f.login.Start(waitCtx(t), "alice")
	require.NoError(t, err)

	res, err := f.login.Wait(waitCtx(t), s.ID)
	require.NoError(t, err)

	assert.Equal(t, model.RouteVerification, res.Redirect.Route)
	assert.Zero(t, res.Redirect.Delay)
	assert.Equal(t, model.RedirectTo(model.RouteVerification), f.login.gate.Admit(context.Background()))
}

func TestLogin_ScenarioC_AllPendingExpires(t *testing.T) {
	f := newLoginFixture(t, 120*time.Millisecond, WatcherOptions{}, pending())

	s, err := f.login.Start(waitCtx(t), "alice")
	require.NoError(t, err)

	res, err := f.login.Wait(waitCtx(t), s.ID)
	require.NoError(t, err)

	assert.Equal(t, model.SessionExpired, res.Session.Status)
	assert.ErrorIs(t, res.Err, model.ErrDeadlineExceeded)
	assert.Equal(t, model.Redirect{Route: model.RouteLogin, Delay: testDelay}, res.Redirect)
	assert.NotEmpty(t, res.Reason)
	assert.Zero(t, f.records.Puts())

	_, err = f.store.Load(context.Background())
	assert.ErrorIs(t, err, model.ErrNoCredential)
}

func TestLogin_ScenarioD_ApprovedWithoutToken(t *testing.T) {
	f := newLoginFixture(t, testLifetime, WatcherOptions{}, pending(), approved("", model.VerificationApproved))

	s, err := f.login.Start(waitCtx(t), "alice")
	require.NoError(t, err)

	res, err := f.login.Wait(waitCtx(t), s.ID)
	require.NoError(t, err)

	assert.Equal(t, model.SessionError, res.Session.Status)
	assert.ErrorIs(t, res.Err, model.ErrDataIntegrity)
	assert.Equal(t, model.RouteLogin, res.Redirect.Route)
	assert.Zero(t, f.records.Puts())
}

func TestLogin_Start_InvalidIdentifier(t *testing.T) {
	f := newLoginFixture(t, testLifetime, WatcherOptions{}, pending())

	_, err := f.login.Start(waitCtx(t), "")
	require.ErrorIs(t, err, model.ErrSessionCreation)
	assert.Zero(t, f.remote.Calls())
}

func TestLogin_Get(t *testing.T) {
	f := newLoginFixture(t, time.Minute, WatcherOptions{}, pending())

	s, err := f.login.Start(waitCtx(t), "alice")
	require.NoError(t, err)

	res, err := f.login.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionPending, res.Session.Status)
	assert.Empty(t, res.Redirect.Route)

	_, err = f.login.Get("missing")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestLogin_Cancel_DiscardsLateApproval(t *testing.T) {
	slow := approved("t1", model.VerificationApproved)
	slow.delay = 100 * time.Millisecond
	f := newLoginFixture(t, time.Minute, WatcherOptions{}, slow)

	s, err := f.login.Start(waitCtx(t), "alice")
	require.NoError(t, err)

	ctx := waitCtx(t)
	waited := make(chan error, 1)
	go func() {
		_, err := f.login.Wait(ctx, s.ID)
		waited <- err
	}()

	require.Eventually(t, func() bool { return f.remote.Calls() > 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, f.login.Cancel(s.ID))

	assert.ErrorIs(t, <-waited, model.ErrSessionCancelled)

	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, f.records.Puts())
	_, err = f.login.Get(s.ID)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	assert.ErrorIs(t, f.login.Cancel(s.ID), model.ErrSessionNotFound)
}

func TestLogin_TerminalStatusIsFinal(t *testing.T) {
	f := newLoginFixture(t, testLifetime, WatcherOptions{}, step{reply: model.SessionStatusReply{Status: model.RemoteStatusDenied}})

	s, err := f.login.Start(waitCtx(t), "alice")
	require.NoError(t, err)

	first, err := f.login.Wait(waitCtx(t), s.ID)
	require.NoError(t, err)
	require.Equal(t, model.SessionDenied, first.Session.Status)

	t.Run("stale outcome", func(t *testing.T) {
		tr, err := f.login.lookup(s.ID)
		require.NoError(t, err)

		f.login.finish(context.Background(), tr, Outcome{
			Session:    model.LoginSession{ID: s.ID, Status: model.SessionApproved},
			Credential: &model.Credential{Token: "late", User: model.User{UserID: "1"}},
		})

		again, err := f.login.Get(s.ID)
		require.NoError(t, err)
		assert.Equal(t, model.SessionDenied, again.Session.Status)
		assert.Zero(t, f.records.Puts())
	})

	t.Run("wait is repeatable", func(t *testing.T) {
		again, err := f.login.Wait(waitCtx(t), s.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Session, again.Session)
		assert.Equal(t, first.Redirect, again.Redirect)
	})
}

func TestLogin_Logout(t *testing.T) {
	f := newLoginFixture(t, time.Minute, WatcherOptions{}, pending())
	ctx := waitCtx(t)

	require.NoError(t, f.store.Save(ctx, model.Credential{Token: "t0", User: model.User{UserID: "1"}}))

	s, err := f.login.Start(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, f.login.Logout(ctx))

	_, err = f.login.Get(s.ID)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	_, err = f.store.Load(ctx)
	assert.ErrorIs(t, err, model.ErrNoCredential)
	assert.Equal(t, model.RedirectTo(model.RouteLogin), f.login.gate.Admit(ctx))
}

func TestLogin_RefreshVerification(t *testing.T) {
	f := newLoginFixture(t, time.Minute, WatcherOptions{}, pending())
	f.remote.verification = model.VerificationApproved
	ctx := waitCtx(t)

	_, err := f.login.RefreshVerification(ctx)
	require.ErrorIs(t, err, model.ErrNoCredential)

	require.NoError(t, f.store.Save(ctx, model.Credential{Token: "t1", User: model.User{UserID: "1", VerificationStatus: model.VerificationPending}}))

	d, err := f.login.RefreshVerification(ctx)
	require.NoError(t, err)
	assert.True(t, d.Admitted)

	c, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationApproved, c.User.VerificationStatus)
	assert.Equal(t, "t1", c.Token)
}

func TestLogin_RefreshVerification_CredentialReplacedMidFlight(t *testing.T) {
	f := newLoginFixture(t, time.Minute, WatcherOptions{}, pending())
	ctx := waitCtx(t)

	require.NoError(t, f.store.Save(ctx, model.Credential{Token: "tA", User: model.User{UserID: "A", VerificationStatus: model.VerificationPending}}))

	f.remote.verification = model.VerificationApproved
	f.remote.onVerify = func() {
		require.NoError(t, f.store.Save(ctx, model.Credential{Token: "tB", User: model.User{UserID: "B", VerificationStatus: model.VerificationPending}}))
	}

	_, err := f.login.RefreshVerification(ctx)
	require.ErrorIs(t, err, model.ErrCredentialReplaced)

	c, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tB", c.Token)
	assert.Equal(t, "B", c.User.UserID)
	assert.Equal(t, model.VerificationPending, c.User.VerificationStatus)
	assert.Equal(t, model.RedirectTo(model.RouteVerification), f.login.gate.Admit(ctx))
}

func TestLogin_RefreshVerification_RemoteError(t *testing.T) {
	f := newLoginFixture(t, time.Minute, WatcherOptions{}, pending())
	f.remote.verifyErr = assert.AnError
	ctx := waitCtx(t)

	require.NoError(t, f.store.Save(ctx, model.Credential{Token: "t1", User: model.User{UserID: "1"}}))

	_, err := f.login.RefreshVerification(ctx)
	require.ErrorIs(t, err, assert.AnError)

	c, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationPending, c.User.VerificationStatus)
}

func TestLogin_ApprovedJWTCarriesExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}).SignedString([]byte("k"))
	require.NoError(t, err)

	f := newLoginFixture(t, testLifetime, WatcherOptions{}, approved(tok, model.VerificationApproved))

	s, err := f.login.Start(waitCtx(t), "alice")
	require.NoError(t, err)
	_, err = f.login.Wait(waitCtx(t), s.ID)
	require.NoError(t, err)

	c, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, exp.Equal(c.ExpiresAt))
}

func TestLogin_EvictsAfterRetention(t *testing.T) {
	f := newLoginFixture(t, testLifetime, WatcherOptions{}, step{reply: model.SessionStatusReply{Status: model.RemoteStatusDenied}})
	f.login.opts.Retention = 50 * time.Millisecond

	s, err := f.login.Start(waitCtx(t), "alice")
	require.NoError(t, err)
	_, err = f.login.Wait(waitCtx(t), s.ID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := f.login.Get(s.ID)
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestLogin_WaitContextDone(t *testing.T) {
	f := newLoginFixture(t, time.Minute, WatcherOptions{}, pending())

	s, err := f.login.Start(waitCtx(t), "alice")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	res, err := f.login.Wait(ctx, s.ID)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, model.SessionPending, res.Session.Status)
}

func TestLogin_Shutdown(t *testing.T) {
	f := newLoginFixture(t, testLifetime, WatcherOptions{}, pending())

	s, err := f.login.Start(waitCtx(t), "alice")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return f.remote.Calls() > 0 }, time.Second, testInterval)

	done := make(chan struct{})
	go func() {
		f.login.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("shutdown did not wait for watchers to exit")
	}

	_, err = f.login.Get(s.ID)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	calls := f.remote.Calls()
	time.Sleep(5 * testInterval)
	assert.Equal(t, calls, f.remote.Calls())
	assert.Zero(t, f.records.Puts())
}

func TestLogin_StartAfterShutdown(t *testing.T) {
	f := newLoginFixture(t, 100*time.Millisecond, WatcherOptions{}, pending())

	f.login.Shutdown()

	_, err := f.login.Start(waitCtx(t), "alice")
	require.ErrorIs(t, err, model.ErrShuttingDown)

	_, err = f.login.Get("s-alice")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	assert.Zero(t, f.remote.created)
	assert.Zero(t, f.remote.Calls())
}

func TestLogin_DefaultDisplayDelay(t *testing.T) {
	f := newLoginFixture(t, testLifetime, WatcherOptions{}, step{reply: model.SessionStatusReply{Status: model.RemoteStatusDenied}})
	l := NewLogin(f.login.initiator, f.login.watcher, f.store, f.remote, f.login.gate, f.login.inspector, LoginOptions{}, testutil.MakeNoopLogger())
	t.Cleanup(l.Shutdown)

	assert.Equal(t, model.DisplayDelay, l.opts.DisplayDelay)
}
