package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/streamly/accounts/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidCredentials   = "invalid_credentials"
	ErrorCodeAuthenticationFailed = "authentication_failed"
	ErrorCodeUsernameTaken        = "username_taken"
	ErrorCodeEmailTaken           = "email_taken"
	ErrorCodeRegistrationFailed   = "registration_failed"
	ErrorCodeInvalidToken         = "invalid_token"
	ErrorCodeServerError          = "server_error"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is the error body returned by every non-2xx response of the
// accounts service. The server writes it with WriteError and the client
// parses it back from the response.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g., "username_taken")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches any APIError with the same status and code, so callers can
// compare against the predefined errors regardless of description.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Code, e.Description)
}

// WithDescription returns a copy of e carrying a different description.
func (e *APIError) WithDescription(desc string) *APIError {
	cp := *e
	cp.Description = desc
	return &cp
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	// ErrInvalidRequest is returned when the body is malformed or a field
	// fails validation.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "invalid input",
	}

	// ErrInvalidCredentials is returned for an unknown username and for a
	// wrong password alike.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid username or password",
	}

	// ErrAuthenticationFailed is returned when the credentials were checked
	// but the login could not be completed.
	ErrAuthenticationFailed = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeAuthenticationFailed,
		Description: "authentication failed",
	}

	ErrUsernameTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeUsernameTaken,
		Description: "username already exists",
	}

	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEmailTaken,
		Description: "email already exists",
	}

	ErrRegistrationFailed = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeRegistrationFailed,
		Description: "registration failed",
	}

	// ErrInvalidToken is returned when the access token is missing, invalid or expired.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the access token is missing, invalid or expired",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse converts a non-2xx response body into an *APIError.
// Bodies that are not JSON error objects still yield an APIError carrying
// the HTTP status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp httpx.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: http.StatusText(resp.StatusCode),
	}
}
