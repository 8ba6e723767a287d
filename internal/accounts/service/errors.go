package service

import "fmt"

// Kind enumerates every failure the accounts core reports to callers.
type Kind int

const (
	KindInvalidCredentials Kind = iota + 1
	KindAuthenticationFailed
	KindUsernameTaken
	KindEmailTaken
	KindInvalidInput
	KindRegistrationFailed
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindAuthenticationFailed:
		return "authentication_failed"
	case KindUsernameTaken:
		return "username_taken"
	case KindEmailTaken:
		return "email_taken"
	case KindInvalidInput:
		return "invalid_input"
	case KindRegistrationFailed:
		return "registration_failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) message() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid username or password"
	case KindAuthenticationFailed:
		return "authentication failed"
	case KindUsernameTaken:
		return "username already exists"
	case KindEmailTaken:
		return "email already exists"
	case KindInvalidInput:
		return "invalid input"
	case KindRegistrationFailed:
		return "registration failed"
	default:
		return "unknown error"
	}
}

// Error is the single error type returned by the services. Error() is safe to
// show to end users; the wrapped cause is for logs only.
type Error struct {
	Kind Kind
	// Detail replaces the default message for KindInvalidInput.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Kind.message()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is regardless of detail or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidCredentials   = &Error{Kind: KindInvalidCredentials}
	ErrAuthenticationFailed = &Error{Kind: KindAuthenticationFailed}
	ErrUsernameTaken        = &Error{Kind: KindUsernameTaken}
	ErrEmailTaken           = &Error{Kind: KindEmailTaken}
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
	ErrRegistrationFailed   = &Error{Kind: KindRegistrationFailed}
)

func failed(cause error) error {
	return &Error{Kind: KindAuthenticationFailed, Err: cause}
}

func registrationFailed(cause error) error {
	return &Error{Kind: KindRegistrationFailed, Err: cause}
}

func invalidInput(detail string) error {
	return &Error{Kind: KindInvalidInput, Detail: detail}
}
