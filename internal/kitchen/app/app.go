package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/onkyoh/paper-kitchen-api/internal/kitchen/http"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/service"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store/drivers/sqlite"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/token"
	"github.com/onkyoh/paper-kitchen-api/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags; not wired yet.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the API service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec *token.Codec

	userService     *service.UserService
	resourceService *service.ResourceService
	shareService    *service.ShareService
	joinService     *service.JoinService
	housekeeping    *service.Housekeeping

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "paper-kitchen-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	codec, err := token.NewCodec([]byte(cfg.JWTSecret), cfg.Issuer)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeeping.Start(context.Background())

	app.logger.Info("api starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down api...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("api stopped")
	return nil
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
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

// initServices initializes all business logic services.
func (app *Application) initServices() {
	perms := &service.Permissions{Store: app.db}

	app.userService = &service.UserService{
		Store:     app.db,
		Codec:     app.codec,
		AccessTTL: app.cfg.AccessTokenTTL,
	}
	app.resourceService = &service.ResourceService{
		Store:       app.db,
		Permissions: perms,
	}
	app.shareService = &service.ShareService{
		Store:       app.db,
		Codec:       app.codec,
		Permissions: perms,
	}
	app.joinService = &service.JoinService{
		Store:     app.db,
		Codec:     app.codec,
		Retention: app.cfg.ShareLinkRetention,
	}
	app.housekeeping = &service.Housekeeping{
		Join:     app.joinService,
		Interval: app.cfg.HousekeepingInterval,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		app.cfg.ClientURL,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.UserService = app.userService
	router.ResourceService = app.resourceService
	router.ShareService = app.shareService
	router.JoinService = app.joinService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
