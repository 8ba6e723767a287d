package http

import (
	"errors"
	"net/http"

	"github.com/streamly/accounts/internal/accounts/service"
	"github.com/streamly/accounts/internal/accounts/store"
	"github.com/streamly/accounts/pkg/authsdk"
	"github.com/streamly/accounts/pkg/httpx"
	"github.com/streamly/accounts/pkg/slogx"
)

type RegisterHandler struct {
	RegistrationService *service.RegistrationService
}

// ServeHTTP creates an account.
//
//	@Summary		Register an account
//	@Description	Creates an account holding the default role. The username is checked before the email.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest		true	"username, email and password"
//	@Success		201		{object}	authsdk.RegisterResponse	"Account created"
//	@Failure		400		{object}	authsdk.APIError			"Invalid input"
//	@Failure		409		{object}	authsdk.APIError			"Username or email already exists"
//	@Failure		500		{object}	authsdk.APIError			"Registration failed"
//	@Router			/api/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WithDescription("invalid request body").WriteError(w)
		return
	}

	acct, err := h.RegistrationService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		apiError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.RegisterResponse{
		Message:  "account created",
		UserID:   acct.ID,
		Username: acct.Username,
		Roles:    acct.RoleNames(),
	})
}

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP exchanges credentials for a bearer token.
//
//	@Summary		Log in
//	@Description	Verifies a username and password and returns a signed access token.
//	@Description	An unknown username and a wrong password produce the same response.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"username and password"
//	@Success		200		{object}	authsdk.LoginResponse	"Bearer token"
//	@Failure		400		{object}	authsdk.APIError		"Malformed request"
//	@Failure		401		{object}	authsdk.APIError		"Invalid username or password"
//	@Failure		500		{object}	authsdk.APIError		"Authentication failed"
//	@Router			/api/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WithDescription("invalid request body").WriteError(w)
		return
	}
	if req.Username == "" || req.Password == "" {
		authsdk.ErrInvalidRequest.WithDescription("username and password are required").WriteError(w)
		return
	}

	session, err := h.AuthService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		apiError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		Token:     session.Token,
		Type:      "Bearer",
		Username:  session.Identity.Username,
		ExpiresAt: session.ExpiresAt,
	})
}

type MeHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP returns the account named by the bearer token.
//
//	@Summary		Current account
//	@Description	Returns the account the access token was issued to.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.AccountResponse	"Account details"
//	@Failure		401	{object}	authsdk.APIError		"Invalid or missing access token"
//	@Failure		500	{object}	authsdk.APIError		"Internal server error"
//	@Router			/api/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username, ok := httpx.UsernameFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	acct, err := h.AccountService.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Valid signature, but the account is gone.
			authsdk.ErrInvalidToken.WriteError(w)
			return
		}
		log.Warn("failed to load account", "username", username, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.AccountResponse{
		UserID:      acct.ID,
		Username:    acct.Username,
		Email:       acct.Email,
		Roles:       acct.RoleNames(),
		LastLoginAt: acct.LastLoginAt,
		CreatedAt:   acct.CreatedAt,
	})
}
