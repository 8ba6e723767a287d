package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamly/accounts/internal/accounts/store"
)

func newRegistration(t *testing.T) (*RegistrationService, *faultyStore) {
	t.Helper()
	st := &faultyStore{Store: newTestStore(t)}
	reg := NewRegistrationService(st, newTestHasher(t), "", "", 0)
	reg.Now = fixedClock
	return reg, st
}

func TestRegister_Success(t *testing.T) {
	reg, st := newRegistration(t)

	acct, err := reg.Register(context.Background(), "  alice ", " Alice@X.com ", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, acct.ID)
	require.Equal(t, "alice", acct.Username)
	require.Equal(t, "alice@x.com", acct.Email)
	require.Len(t, acct.Roles, 1)
	require.Equal(t, "USER", acct.Roles[0].Name)
	require.Equal(t, "Default user role", acct.Roles[0].Description)
	require.NotNil(t, acct.LastLoginAt)
	require.True(t, acct.LastLoginAt.Equal(testNow))
	require.NotEqual(t, "secret123", acct.PasswordHash)

	stored, err := st.Accounts().GetAccountByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, acct.ID, stored.ID)
	require.Equal(t, []string{"USER"}, stored.RoleNames())
}

func TestRegister_Duplicates(t *testing.T) {
	reg, _ := newRegistration(t)
	ctx := context.Background()

	_, err := reg.Register(ctx, "alice", "alice@x.com", "secret123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		email    string
		want     error
	}{
		{"same username, new email", "alice", "new@x.com", ErrUsernameTaken},
		{"same username and email", "alice", "alice@x.com", ErrUsernameTaken},
		{"new username, same email", "bob", "alice@x.com", ErrEmailTaken},
		{"email differs only by case", "carol", "ALICE@x.com", ErrEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Register(ctx, tt.username, tt.email, "another-password")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	reg, st := newRegistration(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
		detail   string
	}{
		{"blank username", "   ", "a@x.com", "secret123", "username is required"},
		{"blank email", "alice", "", "secret123", "email is required"},
		{"email without at", "alice", "alice.x.com", "secret123", "email is invalid"},
		{"empty password", "alice", "a@x.com", "", "password is required"},
		{"short password", "alice", "a@x.com", "short", "password is too short"},
		{"short multibyte password", "alice", "a@x.com", "ééééé", "password is too short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Register(context.Background(), tt.username, tt.email, tt.password)
			require.ErrorIs(t, err, ErrInvalidInput)
			require.EqualError(t, err, tt.detail)
		})
	}
	require.Equal(t, int32(0), st.ensureRoleCalls.Load())
}

func TestRegister_MinPasswordLengthConfigurable(t *testing.T) {
	st := &faultyStore{Store: newTestStore(t)}
	reg := NewRegistrationService(st, newTestHasher(t), "", "", 12)

	_, err := reg.Register(context.Background(), "alice", "alice@x.com", "secret123")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = reg.Register(context.Background(), "alice", "alice@x.com", "secret123456")
	require.NoError(t, err)
}

func TestRegister_PasswordLengthCountsCharacters(t *testing.T) {
	reg, _ := newRegistration(t)

	// Eight characters, sixteen bytes.
	_, err := reg.Register(context.Background(), "alice", "alice@x.com", "éééééééé")
	require.NoError(t, err)

	_, err = reg.Register(context.Background(), "bob", "bob@x.com", "ééééééé")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegister_CustomRole(t *testing.T) {
	st := &faultyStore{Store: newTestStore(t)}
	reg := NewRegistrationService(st, newTestHasher(t), "MEMBER", "Members", 0)

	acct, err := reg.Register(context.Background(), "alice", "alice@x.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, []string{"MEMBER"}, acct.RoleNames())
	require.Equal(t, "Members", acct.Roles[0].Description)
}

func TestRegister_DefaultRoleIsCreatedOnceAndCached(t *testing.T) {
	reg, st := newRegistration(t)
	ctx := context.Background()

	a, err := reg.Register(ctx, "alice", "alice@x.com", "secret123")
	require.NoError(t, err)
	b, err := reg.Register(ctx, "bob", "bob@x.com", "secret123")
	require.NoError(t, err)

	require.Equal(t, a.Roles[0].ID, b.Roles[0].ID)
	require.Equal(t, int32(1), st.ensureRoleCalls.Load())

	roles, err := st.Roles().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 1)
}

func TestRegister_StorageConflictIsTranslated(t *testing.T) {
	tests := []struct {
		field string
		want  error
	}{
		{store.FieldUsername, ErrUsernameTaken},
		{store.FieldEmail, ErrEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			reg, st := newRegistration(t)
			// The pre-checks pass; the insert loses a race to another writer.
			st.createErr = &store.ConflictError{Field: tt.field, Err: errors.New("UNIQUE constraint failed")}

			_, err := reg.Register(context.Background(), "alice", "alice@x.com", "secret123")
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, store.ErrAlreadyExists)
		})
	}
}

func TestRegister_UnexpectedStorageFailure(t *testing.T) {
	reg, st := newRegistration(t)
	st.createErr = errors.New("disk I/O error")

	_, err := reg.Register(context.Background(), "alice", "alice@x.com", "secret123")
	require.ErrorIs(t, err, ErrRegistrationFailed)
	require.Equal(t, "registration failed", err.Error())

	st.createErr = nil
	_, err = reg.Register(context.Background(), "alice", "alice@x.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, int32(2), st.ensureRoleCalls.Load(), "role cache is dropped after a failed save")
}

func TestRegister_HashFailure(t *testing.T) {
	st := &faultyStore{Store: newTestStore(t)}
	hasher := &stubHasher{PasswordHasher: newTestHasher(t), hashErr: errors.New("entropy exhausted")}
	reg := NewRegistrationService(st, hasher, "", "", 0)

	_, err := reg.Register(context.Background(), "alice", "alice@x.com", "secret123")
	require.ErrorIs(t, err, ErrRegistrationFailed)

	exists, err := st.Accounts().ExistsByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	reg, st := newRegistration(t)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			email := string(rune('a'+i)) + "@x.com"
			_, errs[i] = reg.Register(context.Background(), "alice", email, "secret123")
		}()
	}
	wg.Wait()

	var ok, taken int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrUsernameTaken):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, workers-1, taken)

	roles, err := st.Roles().ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 1)
}

func TestRegister_NeverLogsSecrets(t *testing.T) {
	reg, _ := newRegistration(t)
	ctx, logs := logCapture()

	acct, err := reg.Register(ctx, "alice", "alice@x.com", "secret123")
	require.NoError(t, err)
	_, err = reg.Register(ctx, "alice", "alice@x.com", "secret123")
	require.ErrorIs(t, err, ErrUsernameTaken)

	out := logs.String()
	require.Contains(t, out, "account registered")
	require.NotContains(t, out, "secret123")
	require.NotContains(t, out, acct.PasswordHash)
}
