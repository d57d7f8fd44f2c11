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

// CredentialKeeper is the persisted credential used by the login flow.
type CredentialKeeper interface {
	Save(ctx context.Context, c model.Credential) error
	Load(ctx context.Context) (model.Credential, error)
	UpdateVerificationStatus(ctx context.Context, token string, status model.VerificationStatus) (model.Credential, error)
	Clear(ctx context.Context) error
}

// TokenInspector reads an expiry hint from a bearer token.
type TokenInspector interface {
	ExpiresAt(token string) (time.Time, bool)
}

// LoginOptions configures a Login registry.
type LoginOptions struct {
	DisplayDelay time.Duration
	// Retention is how long a terminal session stays readable.
	Retention time.Duration
}

type trackedSession struct {
	mu        sync.Mutex
	session   model.LoginSession
	result    *model.LoginResult
	cancelled bool
	cancel    context.CancelFunc
	done      chan struct{}
}

func (t *trackedSession) snapshot() model.LoginResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.result != nil {
		return *t.result
	}
	return model.LoginResult{Session: t.session}
}

// Login owns the active login sessions of the agent. Each session is driven
// by its own Watcher goroutine; the first terminal outcome is applied once
// and everything after a cancel or a terminal outcome is dropped.
type Login struct {
	initiator *Initiator
	watcher   *Watcher
	store     CredentialKeeper
	remote    model.IdentityService
	gate      *Gate
	inspector TokenInspector
	opts      LoginOptions
	logger    *logger.Logger

	baseCtx  context.Context
	stopAll  context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	closed   bool
	sessions map[string]*trackedSession
}

// NewLogin creates a new Login registry.
func NewLogin(
	initiator *Initiator,
	watcher *Watcher,
	store CredentialKeeper,
	remote model.IdentityService,
	gate *Gate,
	inspector TokenInspector,
	opts LoginOptions,
	logger *logger.Logger,
) *Login {
	if opts.DisplayDelay <= 0 {
		opts.DisplayDelay = model.DisplayDelay
	}
	if opts.Retention <= 0 {
		opts.Retention = 5 * time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Login{
		initiator: initiator,
		watcher:   watcher,
		store:     store,
		remote:    remote,
		gate:      gate,
		inspector: inspector,
		opts:      opts,
		logger:    logger,
		baseCtx:   ctx,
		stopAll:   cancel,
		sessions:  make(map[string]*trackedSession),
	}
}

// Start creates a session for identifier and begins watching it. After
// Shutdown it returns model.ErrShuttingDown without contacting the remote.
func (l *Login) Start(ctx context.Context, identifier string) (model.LoginSession, error) {
	if l.isClosed() {
		return model.LoginSession{}, model.ErrShuttingDown
	}

	session, err := l.initiator.Initiate(ctx, identifier)
	if err != nil {
		return model.LoginSession{}, err
	}

	watchCtx, cancel := context.WithCancel(l.baseCtx)
	t := &trackedSession{
		session: session,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	// Registration and wg.Add happen under l.mu so Shutdown either sees the
	// session or Start sees closed.
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		cancel()
		l.logger.Warn("Login service: session created during shutdown, abandoning",
			"session_id", session.ID)
		return model.LoginSession{}, model.ErrShuttingDown
	}
	if prev, ok := l.sessions[session.ID]; ok {
		l.cancelTracked(prev)
	}
	l.sessions[session.ID] = t
	l.wg.Add(1)
	l.mu.Unlock()

	go l.run(watchCtx, t)

	return session, nil
}

// Get returns the current state of a session. The redirect is only set once
// the session is terminal.
func (l *Login) Get(id string) (model.LoginResult, error) {
	t, err := l.lookup(id)
	if err != nil {
		return model.LoginResult{}, err
	}
	return t.snapshot(), nil
}

// Wait blocks until the session is terminal, cancelled, or ctx is done.
func (l *Login) Wait(ctx context.Context, id string) (model.LoginResult, error) {
	t, err := l.lookup(id)
	if err != nil {
		return model.LoginResult{}, err
	}

	select {
	case <-t.done:
	case <-ctx.Done():
		return t.snapshot(), ctx.Err()
	}

	res := t.snapshot()
	if res.Redirect.Route == "" {
		return res, model.ErrSessionCancelled
	}
	return res, nil
}

// Cancel abandons a session. Any poll result still in flight is discarded.
func (l *Login) Cancel(id string) error {
	l.mu.Lock()
	t, ok := l.sessions[id]
	if ok {
		delete(l.sessions, id)
	}
	l.mu.Unlock()
	if !ok {
		return model.ErrSessionNotFound
	}

	l.cancelTracked(t)
	return nil
}

// Logout cancels every active session and clears the stored credential.
func (l *Login) Logout(ctx context.Context) error {
	l.mu.Lock()
	sessions := l.sessions
	l.sessions = make(map[string]*trackedSession)
	l.mu.Unlock()

	for _, t := range sessions {
		l.cancelTracked(t)
	}

	if err := l.store.Clear(ctx); err != nil {
		l.logger.Error("Login service: failed to clear credential on logout",
			"error", err.Error())
		return err
	}

	l.logger.Info("Login service: logged out",
		"cancelled_sessions", len(sessions))
	return nil
}

// RefreshVerification re-reads the verification status of the stored
// credential from the identity service and returns the resulting gate decision.
func (l *Login) RefreshVerification(ctx context.Context) (model.Decision, error) {
	c, err := l.store.Load(ctx)
	if err != nil {
		return model.RedirectTo(model.RouteLogin), err
	}

	status, err := l.remote.GetVerificationStatus(ctx, c.Token)
	if err != nil {
		l.logger.Error("Login service: failed to refresh verification status",
			"user_id", c.User.UserID,
			"error", err.Error())
		return model.Decision{}, fmt.Errorf("failed to refresh verification status: %w", err)
	}

	if _, err := l.store.UpdateVerificationStatus(ctx, c.Token, status); err != nil {
		if errors.Is(err, model.ErrCredentialReplaced) {
			l.logger.Info("Login service: credential replaced during verification refresh, status dropped",
				"user_id", c.User.UserID)
		}
		return model.Decision{}, err
	}

	return l.gate.Admit(ctx), nil
}

// Shutdown cancels every session and waits for their watchers to exit.
// Later calls to Start are rejected.
func (l *Login) Shutdown() {
	l.stopAll()

	l.mu.Lock()
	l.closed = true
	sessions := l.sessions
	l.sessions = make(map[string]*trackedSession)
	l.mu.Unlock()

	for _, t := range sessions {
		l.cancelTracked(t)
	}
	l.wg.Wait()
}

func (l *Login) run(ctx context.Context, t *trackedSession) {
	defer l.wg.Done()
	defer t.cancel()

	t.mu.Lock()
	session := t.session
	t.mu.Unlock()

	out, err := l.watcher.Watch(ctx, session)
	if err != nil {
		return
	}
	l.finish(ctx, t, out)
}

// finish applies the first terminal outcome of t. The lock is held while the
// credential is saved so a concurrent Cancel either wins before the save or
// becomes a no-op after it.
func (l *Login) finish(ctx context.Context, t *trackedSession, out Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled || t.session.Status.Terminal() {
		l.logger.Debug("Login service: discarding stale outcome",
			"session_id", out.Session.ID,
			"status", string(out.Session.Status))
		return
	}

	verification := model.VerificationPending
	if out.Session.Status == model.SessionApproved {
		c := *out.Credential
		if exp, ok := l.inspector.ExpiresAt(c.Token); ok {
			c.ExpiresAt = exp
		}
		if err := l.store.Save(ctx, c); err != nil {
			l.logger.Error("Login service: failed to persist credential",
				"session_id", out.Session.ID,
				"error", err.Error())
			out.Session.Status = model.SessionError
			out.Err = &model.LoginError{SessionID: out.Session.ID, Status: model.SessionError, Err: err}
		} else {
			verification = c.User.VerificationStatus
		}
	}

	t.session = out.Session
	t.result = &model.LoginResult{
		Session:  out.Session,
		Redirect: RedirectFor(out.Session.Status, verification, l.opts.DisplayDelay),
		Reason:   model.Reason(out.Err),
		Err:      out.Err,
	}
	close(t.done)

	l.logger.Info("Login service: session finished",
		"session_id", out.Session.ID,
		"status", string(out.Session.Status),
		"route", string(t.result.Redirect.Route))

	id := out.Session.ID
	time.AfterFunc(l.opts.Retention, func() { l.evict(id, t) })
}

func (l *Login) cancelTracked(t *trackedSession) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled || t.session.Status.Terminal() {
		return
	}
	t.cancelled = true
	t.cancel()
	close(t.done)

	l.logger.Info("Login service: session cancelled",
		"session_id", t.session.ID)
}

func (l *Login) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *Login) lookup(id string) (*trackedSession, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return t, nil
}

func (l *Login) evict(id string, t *trackedSession) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sessions[id] == t {
		delete(l.sessions, id)
	}
}
