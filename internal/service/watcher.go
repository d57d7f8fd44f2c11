package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/pushlogin/internal/logger"
	"github.com/dtroode/pushlogin/internal/model"
)

// WatcherOptions configures the status poll loop.
type WatcherOptions struct {
	// Interval is the poll cadence.
	Interval time.Duration
	// RequestTimeout bounds a single status query.
	RequestTimeout time.Duration
	// RetryOnFailure keeps polling after a failed query instead of
	// terminating the session as Error.
	RetryOnFailure bool
}

// Outcome is the terminal state a watched session reached.
type Outcome struct {
	Session model.LoginSession
	// Credential is set only when Session.Status is Approved.
	Credential *model.Credential
	// Err is a *model.LoginError for every non-approved outcome.
	Err error
}

type pollResult struct {
	reply model.SessionStatusReply
	err   error
}

// Watcher polls a session until it reaches a terminal status or its
// deadline passes, whichever happens first.
type Watcher struct {
	remote model.IdentityService
	opts   WatcherOptions
	now    func() time.Time
	logger *logger.Logger
}

// NewWatcher creates a new Watcher.
func NewWatcher(remote model.IdentityService, opts WatcherOptions, logger *logger.Logger) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = model.PollInterval
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = model.RequestTimeout
	}
	return &Watcher{
		remote: remote,
		opts:   opts,
		now:    time.Now,
		logger: logger,
	}
}

// Watch drives session from Pending to a terminal status. The deadline timer
// and the poll ticker share one loop so exactly one of them terminates the
// session. A result handled at or after the deadline is discarded in favour
// of Expired. Watch returns ctx.Err() if ctx is cancelled first; the session
// is then left untouched.
func (w *Watcher) Watch(ctx context.Context, session model.LoginSession) (Outcome, error) {
	if session.Status != model.SessionPending {
		return Outcome{Session: session}, fmt.Errorf("session %s is %s, not pending", session.ID, session.Status)
	}

	log := w.logger.With("session_id", session.ID)

	deadline := time.NewTimer(session.DeadlineAt.Sub(w.now()))
	defer deadline.Stop()

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	pollCtx, cancelPolls := context.WithCancel(ctx)
	defer cancelPolls()

	// Only one query is in flight at a time, so a buffer of one means the
	// poll goroutine never blocks after Watch has returned.
	results := make(chan pollResult, 1)
	inFlight := false

	for {
		select {
		case <-ctx.Done():
			log.Debug("Login service: watch cancelled")
			return Outcome{Session: session}, ctx.Err()

		case <-deadline.C:
			cancelPolls()
			return w.expire(log, session), nil

		case <-ticker.C:
			if inFlight {
				log.Debug("Login service: previous status query still in flight, skipping tick")
				continue
			}
			inFlight = true
			go w.poll(pollCtx, session.ID, results)

		case res := <-results:
			inFlight = false
			if session.Expired(w.now()) {
				cancelPolls()
				return w.expire(log, session), nil
			}
			out, done := w.apply(log, session, res)
			if done {
				return out, nil
			}
			session = out.Session
		}
	}
}

func (w *Watcher) poll(ctx context.Context, sessionID string, results chan<- pollResult) {
	reqCtx, cancel := context.WithTimeout(ctx, w.opts.RequestTimeout)
	defer cancel()

	reply, err := w.remote.GetSessionStatus(reqCtx, sessionID)
	results <- pollResult{reply: reply, err: err}
}

// apply maps one poll result onto session. It reports true when the result
// is terminal; otherwise the returned Outcome carries the session with any
// device context the reply added.
func (w *Watcher) apply(log *logger.Logger, session model.LoginSession, res pollResult) (Outcome, bool) {
	if res.err != nil {
		if errors.Is(res.err, context.Canceled) {
			return Outcome{Session: session}, false
		}
		if w.opts.RetryOnFailure {
			log.Warn("Login service: status query failed, retrying on next tick",
				"error", res.err.Error())
			return Outcome{Session: session}, false
		}
		log.Error("Login service: status query failed",
			"error", res.err.Error())
		return w.terminate(log, session, model.SessionError, fmt.Errorf("%w: %w", model.ErrPollingNetwork, res.err)), true
	}

	reply := res.reply
	if reply.Device != nil {
		session.Device = reply.Device
	}

	switch reply.Status {
	case model.RemoteStatusPending:
		return Outcome{Session: session}, false

	case model.RemoteStatusApproved:
		if reply.Token == "" || reply.User == nil || reply.User.UserID == "" {
			log.Error("Login service: backend contract violation, approved session without token or user",
				"has_token", reply.Token != "",
				"has_user", reply.User != nil)
			return w.terminate(log, session, model.SessionError, model.ErrDataIntegrity), true
		}

		user := *reply.User
		if user.ClientID == "" {
			user.ClientID = reply.ClientID
		}
		user.VerificationStatus = model.ParseVerificationStatus(string(user.VerificationStatus))

		session.Status = model.SessionApproved
		log.Info("Login service: session approved",
			"user_id", user.UserID,
			"verification_status", string(user.VerificationStatus))

		return Outcome{
			Session: session,
			Credential: &model.Credential{
				Token:    reply.Token,
				User:     user,
				IssuedAt: w.now(),
			},
		}, true

	case model.RemoteStatusDenied:
		return w.terminate(log, session, model.SessionDenied, model.ErrUserDenied), true

	case model.RemoteStatusExpired:
		return w.terminate(log, session, model.SessionExpired, model.ErrDeadlineExceeded), true

	default:
		log.Error("Login service: backend contract violation, unknown session status",
			"status", reply.Status)
		return w.terminate(log, session, model.SessionError, fmt.Errorf("%w: unknown status %q", model.ErrDataIntegrity, reply.Status)), true
	}
}

func (w *Watcher) expire(log *logger.Logger, session model.LoginSession) Outcome {
	return w.terminate(log, session, model.SessionExpired, model.ErrDeadlineExceeded)
}

func (w *Watcher) terminate(log *logger.Logger, session model.LoginSession, status model.SessionStatus, cause error) Outcome {
	session.Status = status
	if status != model.SessionError {
		log.Info("Login service: session ended",
			"status", string(status),
			"reason", cause.Error())
	}
	return Outcome{
		Session: session,
		Err:     &model.LoginError{SessionID: session.ID, Status: status, Err: cause},
	}
}
