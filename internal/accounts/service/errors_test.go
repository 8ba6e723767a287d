package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesByKind(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("login: %w", failed(cause))

	require.ErrorIs(t, err, ErrAuthenticationFailed)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, ErrInvalidCredentials)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, KindAuthenticationFailed, svcErr.Kind)
}

func TestError_MessageHidesCause(t *testing.T) {
	err := failed(errors.New("pq: password authentication failed for user \"root\""))
	require.Equal(t, "authentication failed", err.Error())

	err = registrationFailed(errors.New("UNIQUE constraint failed: accounts.id"))
	require.Equal(t, "registration failed", err.Error())
}

func TestError_InvalidInputDetail(t *testing.T) {
	err := invalidInput("email is invalid")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, "email is invalid", err.Error())
	require.Equal(t, "invalid input", ErrInvalidInput.Error())
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindInvalidCredentials, "invalid_credentials"},
		{KindAuthenticationFailed, "authentication_failed"},
		{KindUsernameTaken, "username_taken"},
		{KindEmailTaken, "email_taken"},
		{KindInvalidInput, "invalid_input"},
		{KindRegistrationFailed, "registration_failed"},
		{Kind(99), "kind(99)"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.kind.String())
	}
}
