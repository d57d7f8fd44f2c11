package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dtroode/pushlogin/internal/model"
	"github.com/dtroode/pushlogin/internal/testutil"
	"github.com/dtroode/pushlogin/internal/token"
)

// step is one scripted reply of the fake identity service.
type step struct {
	reply model.SessionStatusReply
	err   error
	delay time.Duration
}

// fakeRemote replays steps in order; the last step repeats.
type fakeRemote struct {
	mu           sync.Mutex
	steps        []step
	calls        int
	created      int
	verification model.VerificationStatus
	verifyErr    error
	// onVerify runs inside GetVerificationStatus before it replies.
	onVerify func()
}

func (f *fakeRemote) CreateSession(_ context.Context, identifier string) (model.SessionCreated, error) {
	f.mu.Lock()
	f.created++
	f.mu.Unlock()
	return model.SessionCreated{SessionID: "s-" + identifier}, nil
}

func (f *fakeRemote) GetSessionStatus(ctx context.Context, _ string) (model.SessionStatusReply, error) {
	f.mu.Lock()
	i := f.calls
	if i >= len(f.steps) {
		i = len(f.steps) - 1
	}
	f.calls++
	s := f.steps[i]
	f.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return model.SessionStatusReply{}, ctx.Err()
		}
	}
	return s.reply, s.err
}

func (f *fakeRemote) GetVerificationStatus(_ context.Context, _ string) (model.VerificationStatus, error) {
	if f.onVerify != nil {
		f.onVerify()
	}
	return f.verification, f.verifyErr
}

func (f *fakeRemote) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memoryRecords is an in-memory model.RecordStore.
type memoryRecords struct {
	mu   sync.Mutex
	data []byte
	puts int
}

func (m *memoryRecords) Get(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, model.ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memoryRecords) Put(_ context.Context, record []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), record...)
	m.puts++
	return nil
}

func (m *memoryRecords) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return model.ErrNotFound
	}
	m.data = nil
	return nil
}

func (m *memoryRecords) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

func pending() step {
	return step{reply: model.SessionStatusReply{Status: model.RemoteStatusPending}}
}

func approved(tok string, verification model.VerificationStatus) step {
	return step{reply: model.SessionStatusReply{
		Status: model.RemoteStatusApproved,
		Token:  tok,
		User:   &model.User{UserID: "1", Username: "alice", VerificationStatus: verification},
	}}
}

const (
	testInterval = 10 * time.Millisecond
	testLifetime = 300 * time.Millisecond
	testDelay    = 30 * time.Millisecond
)

type loginFixture struct {
	login   *Login
	remote  *fakeRemote
	records *memoryRecords
	store   *CredentialStore
}

func newLoginFixture(t *testing.T, lifetime time.Duration, opts WatcherOptions, steps ...step) *loginFixture {
	t.Helper()

	log := testutil.MakeNoopLogger()
	remote := &fakeRemote{steps: steps}
	records := &memoryRecords{}
	store := NewCredentialStore(records, model.CredentialTTL, log)

	if opts.Interval == 0 {
		opts.Interval = testInterval
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = time.Second
	}

	l := NewLogin(
		NewInitiator(remote, lifetime, log),
		NewWatcher(remote, opts, log),
		store,
		remote,
		NewGate(store, log),
		token.NewInspector(),
		LoginOptions{DisplayDelay: testDelay, Retention: time.Minute},
		log,
	)
	t.Cleanup(l.Shutdown)

	return &loginFixture{login: l, remote: remote, records: records, store: store}
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
