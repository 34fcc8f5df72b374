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

	"github.com/dharmil18/betterbank-auth-service/internal/auth/guard"
	httpapi "github.com/dharmil18/betterbank-auth-service/internal/auth/http"
	"github.com/dharmil18/betterbank-auth-service/internal/auth/service"
	"github.com/dharmil18/betterbank-auth-service/internal/auth/store"
	"github.com/dharmil18/betterbank-auth-service/internal/auth/store/drivers/sqlite"
	"github.com/dharmil18/betterbank-auth-service/pkg/keycloak"
	"github.com/dharmil18/betterbank-auth-service/pkg/slogx"
	"github.com/dharmil18/betterbank-auth-service/pkg/workpool"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion is reported by /livez, /readyz and every log line.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	keycloak *keycloak.Client
	redis    redis.UniversalClient // nil when the guard is in memory
	guard    guard.DispatchGuard
	pool     *workpool.Pool

	// Services
	authService         *service.AuthService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initKeycloak()

	if err := app.initGuard(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.closeStores()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Start launches background services. Run calls it; tests serving Handler
// directly call it themselves and must pair it with Shutdown.
func (app *Application) Start() {
	app.housekeepingService.Start()
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.Start()

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"keycloak_realm", app.cfg.KeycloakRealm,
		"shared_guard", app.redis != nil,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown stops accepting requests, then gives in-flight provisioning tasks
// the rest of the grace period to finish before closing the stores.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.pool.Shutdown(ctx); err != nil {
		app.logger.Warn("provisioning tasks still running at shutdown", "error", err)
	}

	app.housekeepingService.Stop()

	if err := app.closeStores(); err != nil {
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

func (app *Application) closeStores() error {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// initDatabase opens the provisioning journal and applies migrations
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initKeycloak() {
	app.keycloak = keycloak.NewClient(keycloak.Config{
		BaseURL:           app.cfg.KeycloakURL,
		Realm:             app.cfg.KeycloakRealm,
		ClientID:          app.cfg.KeycloakClientID,
		ClientSecret:      app.cfg.KeycloakClientSecret,
		AdminRealm:        app.cfg.KeycloakAdminRealm,
		AdminClientID:     app.cfg.KeycloakAdminClientID,
		AdminClientSecret: app.cfg.KeycloakAdminClientSecret,
		AdminUsername:     app.cfg.KeycloakAdminUsername,
		AdminPassword:     app.cfg.KeycloakAdminPassword,
		Timeout:           app.cfg.KeycloakTimeout,
	})
}

// initGuard picks the shared redis guard when REDIS_ADDR is set and the
// in-process guard otherwise.
func (app *Application) initGuard() error {
	if app.cfg.RedisAddr == "" {
		app.guard = guard.NewMemory(app.cfg.DispatchGuardTTL)
		app.logger.Warn("dispatch guard is in memory; duplicate registrations are only suppressed per replica")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	app.redis = client
	app.guard = guard.NewRedis(client, app.cfg.DispatchGuardTTL)
	app.logger.Info("dispatch guard backed by redis", "addr", app.cfg.RedisAddr)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	pool, err := workpool.New(workpool.Config{
		Workers:    app.cfg.ProvisioningWorkers,
		MaxWorkers: app.cfg.ProvisioningMaxWorkers,
		QueueSize:  app.cfg.ProvisioningQueueSize,
		Logger:     app.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create provisioning pool: %w", err)
	}
	app.pool = pool

	provisioner := &service.ProvisioningWorker{
		Provider:    app.keycloak,
		Pool:        pool,
		Guard:       app.guard,
		Journal:     app.db.ProvisioningTasks(),
		Logger:      app.logger,
		TaskTimeout: app.cfg.ProvisioningTaskTimeout,
		Recheck:     app.cfg.ProvisioningRecheck,
	}

	app.authService = &service.AuthService{
		Registration: &service.RegistrationService{
			Provider:    app.keycloak,
			Provisioner: provisioner,
			Logger:      app.logger,
		},
		Logins: &service.LoginService{
			Provider: app.keycloak,
			Logger:   app.logger,
		},
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.JournalRetention,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.cfg.RequestTimeout, app.logger)

	router.Auth = app.authService
	router.Journal = app.db
	router.Provider = app.keycloak
	if r, ok := app.guard.(*guard.Redis); ok {
		router.Guard = r
	}
	if app.cfg.AuthRateLimit.RequestsPerWindow > 0 {
		router.AuthLimit = app.cfg.AuthRateLimit
	}
	if app.cfg.HealthRateLimit.RequestsPerWindow > 0 {
		router.HealthLimit = app.cfg.HealthRateLimit
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
