package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/streamly/accounts/internal/accounts/store"
	"github.com/stretchr/testify/require"
)

func TestConflictError(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: accounts.email")
	err := fmt.Errorf("create account: %w", &store.ConflictError{Field: store.FieldEmail, Err: cause})

	require.ErrorIs(t, err, store.ErrAlreadyExists)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, store.ErrNotFound)

	var conflict *store.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, store.FieldEmail, conflict.Field)
	require.Equal(t, "create account: store: already exists: email", err.Error())
}
