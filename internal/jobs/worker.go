package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/yomisub/yomisub/pkg/log"
)

// Executor runs the translation work for one claimed record.
type Executor func(ctx context.Context, record *Record) error

// Worker is the polling control loop: it claims one pending record at a
// time, runs the executor, and writes the terminal status back. Failures
// inside a record's processing never stop the loop.
type Worker struct {
	store        Store
	exec         Executor
	pollInterval time.Duration
}

func NewWorker(store Store, exec Executor, pollInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Worker{
		store:        store,
		exec:         exec,
		pollInterval: pollInterval,
	}
}

// Run polls until ctx is canceled. The in-flight record, if any, is finished
// before returning.
func (w *Worker) Run(ctx context.Context) {
	log.Info("Worker started (poll interval %s)", w.pollInterval)
	for {
		record, err := w.store.ClaimPending(ctx)
		if err != nil {
			log.Error("Failed to claim pending job: %v", err)
			record = nil
		}

		if record == nil {
			select {
			case <-ctx.Done():
				log.Info("Worker stopped")
				return
			case <-time.After(w.pollInterval):
			}
			continue
		}

		w.process(ctx, record)

		select {
		case <-ctx.Done():
			log.Info("Worker stopped")
			return
		default:
		}
	}
}

func (w *Worker) process(ctx context.Context, record *Record) {
	log.Info("Processing job %s (video %s)", record.ID, record.VideoID)

	err := w.runExecutor(ctx, record)
	if err != nil {
		log.Error("Job %s failed: %v", record.ID, err)
		if updateErr := w.store.UpdateStatus(ctx, record.ID, StatusFailed, err.Error()); updateErr != nil {
			log.Error("Failed to mark job %s failed: %v", record.ID, updateErr)
		}
		return
	}

	if err := w.store.UpdateStatus(ctx, record.ID, StatusCompleted, ""); err != nil {
		log.Error("Failed to mark job %s completed: %v", record.ID, err)
		return
	}
	log.Info("Job %s completed", record.ID)
}

// runExecutor shields the loop from panics in job processing; a panic is
// recorded on the record like any other failure.
func (w *Worker) runExecutor(ctx context.Context, record *Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("runtime error: %v", r)
		}
	}()
	return w.exec(ctx, record)
}
