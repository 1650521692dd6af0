package entrypoint

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/audit"
	"github.com/mrlokans/bookreviews/internal/catalog"
	"github.com/mrlokans/bookreviews/internal/config"
	http_controllers "github.com/mrlokans/bookreviews/internal/http"
	"github.com/mrlokans/bookreviews/internal/logging"
	"github.com/mrlokans/bookreviews/internal/readonly"
	"github.com/mrlokans/bookreviews/internal/scheduler"
	"github.com/mrlokans/bookreviews/internal/snapshot"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Dur("timeout", timeout).Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests before the final flush so no write is lost.
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("server shutdown")
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	logging.Info().Msg("server exiting")
}

// App is the wired service, ready to be served.
type App struct {
	Router     *gin.Engine
	Catalog    *catalog.Service
	Snapshots  snapshot.Store
	Checkpoint *scheduler.CheckpointScheduler
}

// Bootstrap opens the snapshot backend, loads the collections and wires the
// router. Call Shutdown to flush and release resources.
func Bootstrap(ctx context.Context, cfg *config.Config, version string) (*App, error) {
	store, err := snapshot.Open(cfg.Storage.Backend, cfg.Storage.DataDir, cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot backend: %w", err)
	}

	data, err := store.Load(ctx)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	users, books, reviews, recs := data.Counts()
	logging.Info().
		Str("backend", store.Name()).
		Int("users", users).
		Int("books", books).
		Int("reviews", reviews).
		Int("recommendations", recs).
		Msg("snapshot loaded")

	svc := catalog.NewService(catalog.CollectionsFromSnapshot(data))

	checkpoint := scheduler.NewCheckpointScheduler(svc, store, cfg.Checkpoint.Enabled, cfg.Checkpoint.Schedule)
	if err := checkpoint.Start(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to start checkpoint scheduler: %w", err)
	}

	if cfg.ReadOnly.Enabled {
		logging.Warn().Msg("read-only mode enabled - write operations will be blocked")
	}
	auditService := audit.NewService(cfg.Audit.Dir)
	if auditService != nil {
		logging.Info().Str("dir", auditService.Dir()).Msg("audit trail enabled")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Store:      svc,
		Audit:      auditService,
		ReadOnly:   readonly.NewMiddleware(cfg.ReadOnly.Enabled),
		Version:    version,
		Backend:    store.Name(),
		Checkpoint: checkpoint,
	})

	return &App{
		Router:     router,
		Catalog:    svc,
		Snapshots:  store,
		Checkpoint: checkpoint,
	}, nil
}

// Shutdown stops the scheduler, writes a final snapshot and closes the backend.
func (a *App) Shutdown(ctx context.Context) error {
	a.Checkpoint.Stop()

	flushErr := a.Checkpoint.RunNow(ctx)
	if err := a.Snapshots.Close(); err != nil {
		logging.Error().Err(err).Msg("failed to close snapshot backend")
	}
	return flushErr
}

func Run(cfg *config.Config, version string) {
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	gin.SetMode(cfg.HTTP.GinMode)
	logging.Info().Str("version", version).Msg("starting bookreviews")

	app, err := Bootstrap(context.Background(), cfg, version)
	if err != nil {
		logging.Fatal().Err(err).Msg("startup failed")
	}

	onShutdown := func(ctx context.Context) {
		if err := app.Shutdown(ctx); err != nil {
			logging.Error().Err(err).Msg("final snapshot failed")
		}
	}

	Serve(app.Router, cfg, onShutdown)
}
