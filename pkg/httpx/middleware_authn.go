package httpx

import (
	"net/http"
	"strings"

	"github.com/streamly/accounts/pkg/jwtx"
	"github.com/streamly/accounts/pkg/slogx"
)

// AuthnMiddleware requires a valid bearer token and stores its claims in the
// request context.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				slogx.FromContext(ctx).Debug("jwt verify failed", "err", err)
				return
			}

			ctx = slogx.With(ctx, "username", claims.Subject)
			next.ServeHTTP(w, r.WithContext(contextWithAuth(ctx, claims)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
