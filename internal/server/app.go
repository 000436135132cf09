// Package server initializes and runs the application processes: the HTTP
// API server and the background worker pool. It wires storage backends,
// handles graceful shutdown, and owns the lifecycle of shared clients.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vtumanov/filevault/internal/logging"
	"github.com/vtumanov/filevault/internal/server/blob"
	"github.com/vtumanov/filevault/internal/server/config"
	"github.com/vtumanov/filevault/internal/server/httpapi"
	"github.com/vtumanov/filevault/internal/server/queue"
	"github.com/vtumanov/filevault/internal/server/repositories/repomanager"
	"github.com/vtumanov/filevault/internal/server/services"
	"github.com/vtumanov/filevault/internal/server/sessions"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// App is the HTTP API process.
type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	router http.Handler
}

// NewApp connects to the database and cache, runs migrations, and wires the
// service graph.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := newLogger()

	db, rdb, err := connectStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	userRepo := rm.Users(db)
	fileRepo := rm.Files(db)

	sessionStore := sessions.NewRedisStore(rdb)
	jobQueue := queue.NewRedisQueue(rdb, logger)

	blobStore, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	authService := services.NewAuthService(userRepo, sessionStore, cfg.SessionTTL)
	userService := services.NewUserService(userRepo, jobQueue, logger)
	fileService := services.NewFileService(fileRepo, blobStore, jobQueue, logger)
	statusService := services.NewStatusService(db, sessionStore, userRepo, fileRepo)

	handler := httpapi.NewHandler(authService, userService, fileService, statusService, logger)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  rdb,
		router: httpapi.NewRouter(handler),
	}, nil
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	initSignalHandler(cancel)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.router,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddrHTTP)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	err := srv.Shutdown(shutdownCtx)
	app.close(shutdownCtx)
	return err
}

func (app *App) close(ctx context.Context) {
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close failed", "error", err.Error())
	}
	if err := app.redis.Close(); err != nil {
		app.logger.Error(ctx, "redis close failed", "error", err.Error())
	}
}

// --- shared wiring helpers, used by the worker process too ---

func newLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
}

func initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func connectStores(ctx context.Context, cfg *config.Config) (*sql.DB, *redis.Client, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, nil, fmt.Errorf("redis ping error: %w", err)
	}

	return db, rdb, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendS3:
		return blob.NewS3Store(ctx, blob.S3Options{
			User:         cfg.S3RootUser,
			Password:     cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	case config.BlobBackendDisk:
		return blob.NewDiskStore(cfg.StorageRoot), nil
	default:
		return nil, fmt.Errorf("unknown blob backend: %q", cfg.BlobBackend)
	}
}
