package authsdk

import "time"

// ============================================================================
// Account Types
// ============================================================================

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned when an account has been created.
type RegisterResponse struct {
	// Message is a human-readable confirmation
	Message string `json:"message"`

	// UserID is the ULID of the new account
	UserID string `json:"user_id"`

	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued on a successful login.
type LoginResponse struct {
	// Token is the signed access token
	Token string `json:"token"`

	// Type is always "Bearer"
	Type string `json:"type"`

	Username string `json:"username"`

	// ExpiresAt is when the token stops being accepted
	ExpiresAt time.Time `json:"expires_at"`
}

// AccountResponse describes the account named by the presented token.
// It never includes the password hash.
type AccountResponse struct {
	UserID      string     `json:"user_id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Roles       []string   `json:"roles"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Service is always "accounts"
	Service string `json:"service"`

	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// StartedAt is when the serving process started, in UTC
	StartedAt time.Time `json:"started_at"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains individual component health checks (only in /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Signer indicates whether token signing keys are loaded
	Signer string `json:"signer"`
}
