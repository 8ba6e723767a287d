package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "github.com/streamly/accounts/internal/accounts/http"
	"github.com/streamly/accounts/internal/accounts/observability"
	"github.com/streamly/accounts/internal/accounts/service"
	"github.com/streamly/accounts/internal/accounts/store"
	"github.com/streamly/accounts/internal/accounts/store/drivers/postgres"
	"github.com/streamly/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/streamly/accounts/pkg/cryptox"
	"github.com/streamly/accounts/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Database is a store that can also migrate its schema.
type Database interface {
	store.Store
	ApplyMigrations() error
}

// Application encapsulates the accounts service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       Database
	hasher   *cryptox.PasswordHasher
	tokens   *service.TokenIssuer
	registry *prometheus.Registry
	metrics  *observability.Metrics

	// Services
	authService         *service.AuthService
	registrationService *service.RegistrationService
	accountService      *service.AccountService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(ctx context.Context, cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg),
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := app.initCrypto(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// NewLogger builds the service logger described by cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "accounts",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// Handler is the fully wired HTTP handler, middleware included.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("accounts service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"db_driver", app.cfg.DBDriver,
		"token_algorithm", app.cfg.TokenAlgorithm,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down accounts service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("accounts service stopped")
	return nil
}

// OpenDatabase connects to the configured driver without migrating.
func OpenDatabase(ctx context.Context, cfg Config) (Database, error) {
	switch cfg.DBDriver {
	case DriverPostgres:
		db, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return db, nil
	case DriverSQLite:
		dsn := cfg.DatabaseFile
		if dsn != ":memory:" {
			dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DatabaseFile)
		}
		db, err := sqlite.NewStore(dsn)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	db, err := OpenDatabase(ctx, app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DBDriver)
	return nil
}

// initCrypto loads the pepper and the token signing key
func (app *Application) initCrypto() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	app.hasher, err = cryptox.NewPasswordHasher(app.cfg.HashParams(), pepper)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	signer, err := InitSigner(app.cfg, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}

	app.tokens, err = service.NewTokenIssuer(signer, app.cfg.Issuer, app.cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	app.logger.Info("token signer ready",
		"algorithm", signer.Alg(),
		"issuer", app.cfg.Issuer,
		"ttl", app.tokens.TTL(),
	)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = observability.NewMetrics(app.registry)

	app.authService = &service.AuthService{
		Store:   app.db,
		Hasher:  app.hasher,
		Tokens:  app.tokens,
		Metrics: app.metrics,
	}

	app.registrationService = service.NewRegistrationService(
		app.db,
		app.hasher,
		app.cfg.DefaultRole,
		app.cfg.DefaultRoleDescription,
		app.cfg.MinPasswordLength,
	)
	app.registrationService.Metrics = app.metrics

	app.accountService = &service.AccountService{Store: app.db}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		BuildVersion,
		app.db,
		app.logger,
		app.metrics,
		app.registry,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.RegistrationService = app.registrationService
	router.AccountService = app.accountService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
