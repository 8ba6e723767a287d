package httpx

import (
	"context"

	"github.com/streamly/accounts/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUsername ctxKey = "username"
	CtxKeyClaims   ctxKey = "claims"
)

// UsernameFromContext returns the subject of the verified bearer token.
func UsernameFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyUsername).(string)
	return v, ok && v != ""
}

// ClaimsFromContext returns the full verified claims.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUsername, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}
