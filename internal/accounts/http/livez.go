package http

import (
	"net/http"
	"time"

	"github.com/streamly/accounts/pkg/authsdk"
	"github.com/streamly/accounts/pkg/httpx"
)

// serviceName identifies this service in health responses.
const serviceName = "accounts"

// health fills the process-level part of both health responses.
func (r *Router) health(status string) authsdk.HealthResponse {
	return authsdk.HealthResponse{
		Service:   serviceName,
		Status:    status,
		StartedAt: r.startTime.UTC(),
		Uptime:    time.Since(r.startTime).Truncate(time.Second).String(),
		Version:   r.buildVersion,
	}
}

// Livez godoc
//
//	@Summary		Liveness Check Endpoint
//	@Description	Reports that the accounts process is up, with its version and start time.
//	@Description	Dependencies are not checked here; see /readyz.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"service, status, started_at, uptime, version"
//	@Router			/livez [get].
func (r *Router) Livez(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, r.health("ok"))
}
