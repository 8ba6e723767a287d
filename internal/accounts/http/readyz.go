package http

import (
	"net/http"

	"github.com/streamly/accounts/pkg/authsdk"
	"github.com/streamly/accounts/pkg/httpx"
	"github.com/streamly/accounts/pkg/slogx"
)

// Readyz godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness check for the accounts service: pings the account database and checks that a token signing key is loaded.
//	@Description	Answers 503 with status "degraded" when either check fails.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"service, status, started_at, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"service, status, started_at, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func (r *Router) Readyz(w http.ResponseWriter, req *http.Request) {
	checks := &authsdk.HealthChecks{
		Database: "ok",
		Signer:   "ok",
	}
	status := "ok"
	statusCode := http.StatusOK

	// Driver errors can carry connection strings; keep them in the log.
	if err := r.store.Ping(req.Context()); err != nil {
		slogx.FromContext(req.Context()).Warn("readiness: database ping failed", "err", err)
		checks.Database = "error: unreachable"
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	if r.tokens == nil || !r.tokens.Ready() {
		checks.Signer = "error: no keys loaded"
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	resp := r.health(status)
	resp.Checks = checks
	httpx.WriteJSON(w, statusCode, resp)
}
