package domain

import "time"

// Identity is the result of a successful credential check. It is returned to
// the caller and never stored in shared state.
type Identity struct {
	AccountID string
	Username  string
	Roles     []string
}

// Session is what a login hands back: who authenticated and the bearer token
// proving it until ExpiresAt.
type Session struct {
	Identity  Identity
	Token     string
	ExpiresAt time.Time
}
