package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/streamly/accounts/internal/accounts/observability"
	"github.com/streamly/accounts/internal/accounts/service"
	"github.com/streamly/accounts/internal/accounts/store"
	"github.com/streamly/accounts/pkg/httpx"
	"github.com/streamly/accounts/pkg/slogx"

	_ "github.com/streamly/accounts/api/accounts" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:generate go run github.com/swaggo/swag/cmd/swag@v1.16.6 init --generalInfo router.go --dir .,../../../pkg/authsdk --output ../../../api/accounts --outputTypes go

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	tokens       *service.TokenIssuer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *observability.Metrics
	gatherer     prometheus.Gatherer

	store               store.Store
	AuthService         *service.AuthService
	RegistrationService *service.RegistrationService
	AccountService      *service.AccountService
}

// NewRouter builds a router without routes; set the services and call
// ApplyRoutes. A nil gatherer disables GET /metrics.
func NewRouter(
	tokens *service.TokenIssuer,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	metrics *observability.Metrics,
	gatherer prometheus.Gatherer,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		tokens:       tokens,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		metrics:      metrics,
		gatherer:     gatherer,
	}

	// Metrics must sit directly on the mux to see the matched pattern.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.metrics.HTTPMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Accounts Service API
//	@version		0.1.0
//	@description	Account registration and username/password login issuing signed bearer tokens.
//	@description
//	@description				Tokens are HS256 (or EdDSA) signed JWTs carrying the username as subject and the account roles.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	registerHandler := &RegisterHandler{RegistrationService: r.RegistrationService}
	r.Mux.Handle("POST /api/auth/register", registerHandler)

	loginHandler := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /api/auth/login", loginHandler)

	meHandler := &MeHandler{AccountService: r.AccountService}
	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(meHandler,
			httpx.AuthnMiddleware(r.tokens.Verifier()), // verify JWT (iss/exp)
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.HandleFunc("GET /livez", r.Livez)
	r.Mux.HandleFunc("GET /readyz", r.Readyz)

	if r.gatherer != nil {
		r.Mux.Handle("GET /metrics", observability.Handler(r.gatherer))
	}
}
