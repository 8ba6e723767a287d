package service

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/streamly/accounts/internal/accounts/domain"
	"github.com/streamly/accounts/internal/accounts/store"
	"github.com/streamly/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/streamly/accounts/pkg/cryptox"
	"github.com/streamly/accounts/pkg/jwtx"
	"github.com/streamly/accounts/pkg/slogx"
)

const (
	testIssuer = "accounts-test"
	testSecret = "0123456789abcdef0123456789abcdef"
)

var testNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestHasher(t *testing.T) *cryptox.PasswordHasher {
	t.Helper()
	h, err := cryptox.NewPasswordHasher(cryptox.Argon2Params{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		KeyLength:   32,
		SaltLength:  16,
	}, "test-pepper")
	require.NoError(t, err)
	return h
}

func newTestIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	signer, err := jwtx.NewSignerHS256("", []byte(testSecret))
	require.NoError(t, err)
	issuer, err := NewTokenIssuer(signer, testIssuer, 24*time.Hour)
	require.NoError(t, err)
	return issuer
}

// logCapture returns a context whose logger writes JSON lines to buf.
func logCapture() (context.Context, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return slogx.WithContext(context.Background(), l), buf
}

// faultyStore wraps a real store and injects failures into selected account
// and role operations, including those run inside WithTx.
type faultyStore struct {
	store.Store

	lookupErr      error
	recordLoginErr error
	createErr      error

	ensureRoleCalls atomic.Int32
	recordLogins    atomic.Int32
}

func (f *faultyStore) Accounts() store.Accounts {
	return &faultyAccounts{Accounts: f.Store.Accounts(), f: f}
}

func (f *faultyStore) Roles() store.Roles {
	return &countingRoles{Roles: f.Store.Roles(), f: f}
}

func (f *faultyStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return f.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(&faultyTx{innerTx: tx, f: f})
	})
}

// innerTx lets faultyTx embed a store.Tx without a field named Tx
// shadowing the Tx method.
type innerTx = store.Tx

type faultyTx struct {
	innerTx
	f *faultyStore
}

func (t *faultyTx) Accounts() store.Accounts {
	return &faultyAccounts{Accounts: t.innerTx.Accounts(), f: t.f}
}

type faultyAccounts struct {
	store.Accounts
	f *faultyStore
}

func (a *faultyAccounts) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	if a.f.lookupErr != nil {
		return domain.Account{}, a.f.lookupErr
	}
	return a.Accounts.GetAccountByUsername(ctx, username)
}

func (a *faultyAccounts) RecordLogin(ctx context.Context, id string, at time.Time) error {
	a.f.recordLogins.Add(1)
	if a.f.recordLoginErr != nil {
		return a.f.recordLoginErr
	}
	return a.Accounts.RecordLogin(ctx, id, at)
}

func (a *faultyAccounts) CreateAccount(ctx context.Context, acct domain.Account) error {
	if a.f.createErr != nil {
		return a.f.createErr
	}
	return a.Accounts.CreateAccount(ctx, acct)
}

type countingRoles struct {
	store.Roles
	f *faultyStore
}

func (r *countingRoles) EnsureRole(ctx context.Context, role domain.Role) (domain.Role, error) {
	r.f.ensureRoleCalls.Add(1)
	return r.Roles.EnsureRole(ctx, role)
}

// stubHasher counts calls and delegates to a real hasher.
type stubHasher struct {
	PasswordHasher

	mu       sync.Mutex
	verified []string
	hashErr  error
}

func (h *stubHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return h.PasswordHasher.Hash(password)
}

func (h *stubHasher) Verify(password, encoded string) bool {
	h.mu.Lock()
	h.verified = append(h.verified, encoded)
	h.mu.Unlock()
	return h.PasswordHasher.Verify(password, encoded)
}
