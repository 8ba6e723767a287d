package http

import (
	"errors"

	"github.com/streamly/accounts/internal/accounts/service"
	"github.com/streamly/accounts/pkg/authsdk"
)

// apiError maps a service error onto the response the client sees. Only
// the kind's message leaves the process; causes stay in the logs.
func apiError(err error) *authsdk.APIError {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		return authsdk.ErrServerError
	}

	switch svcErr.Kind {
	case service.KindInvalidCredentials:
		return authsdk.ErrInvalidCredentials
	case service.KindAuthenticationFailed:
		return authsdk.ErrAuthenticationFailed
	case service.KindUsernameTaken:
		return authsdk.ErrUsernameTaken
	case service.KindEmailTaken:
		return authsdk.ErrEmailTaken
	case service.KindInvalidInput:
		return authsdk.ErrInvalidRequest.WithDescription(svcErr.Error())
	case service.KindRegistrationFailed:
		return authsdk.ErrRegistrationFailed
	default:
		return authsdk.ErrServerError
	}
}
