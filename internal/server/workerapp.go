package server

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vtumanov/filevault/internal/server/config"
	"github.com/vtumanov/filevault/internal/server/models"
	"github.com/vtumanov/filevault/internal/server/queue"
	"github.com/vtumanov/filevault/internal/server/repositories/repomanager"
	"github.com/vtumanov/filevault/internal/server/worker"
)

// WorkerApp is the background consumer process. It runs a pool of thumbnail
// consumers plus a single welcome consumer, all pulling from the job queue.
type WorkerApp struct {
	config      *config.Config
	thumbnailer *worker.Thumbnailer
	welcomer    *worker.Welcomer
	queue       queue.Queue
	closeFunc   func()
}

// NewWorkerApp wires the consumers against the shared stores.
func NewWorkerApp(ctx context.Context, cfg *config.Config) (*WorkerApp, error) {
	logger := newLogger()

	db, rdb, err := connectStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	rm := repomanager.NewPostgresRepositoryManager()

	blobStore, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &WorkerApp{
		config:      cfg,
		thumbnailer: worker.NewThumbnailer(rm.Files(db), blobStore, logger),
		welcomer:    worker.NewWelcomer(rm.Users(db), logger),
		queue:       queue.NewRedisQueue(rdb, logger),
		closeFunc: func() {
			db.Close()
			rdb.Close()
		},
	}, nil
}

// Run consumes jobs until ctx is cancelled or a termination signal arrives.
// Each consumer handles one job at a time; concurrency comes from running
// several thumbnail consumers against the same queue.
func (app *WorkerApp) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer app.closeFunc()

	initSignalHandler(cancel)

	g, ctx := errgroup.WithContext(ctx)

	concurrency := app.config.WorkerConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			return app.queue.Consume(ctx, models.FileQueue, app.thumbnailer.Handle)
		})
	}
	g.Go(func() error {
		return app.queue.Consume(ctx, models.UserQueue, app.welcomer.Handle)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("worker pool: %w", err)
	}
	return nil
}
