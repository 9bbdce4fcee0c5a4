package revalidate

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper re-checks every accepted custom domain and returns how many
// were checked and how many changed status.
type Sweeper interface {
	ReverifyAll(ctx context.Context, batchSize int) (checked, changed int)
}

// Worker periodically sweeps custom domains whose DNS may have drifted
// since they were accepted. A domain that stops pointing at the platform
// is demoted without any tenant action; one that starts pointing back is
// promoted the same way.
type Worker struct {
	ctx       context.Context
	cancel    context.CancelFunc
	sweeper   Sweeper
	logger    *logrus.Entry
	interval  time.Duration
	batchSize int
}

// Config holds the configuration for the revalidation worker
type Config struct {
	Sweeper     Sweeper
	Logger      *logrus.Entry
	IntervalSec int
	BatchSize   int
}

// NewWorker creates a revalidation worker
func NewWorker(cfg *Config) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		ctx:       ctx,
		cancel:    cancel,
		sweeper:   cfg.Sweeper,
		logger:    cfg.Logger.WithField("component", "revalidate-worker"),
		interval:  time.Duration(cfg.IntervalSec) * time.Second,
		batchSize: cfg.BatchSize,
	}
}

// Start begins the periodic sweeps
func (w *Worker) Start() {
	w.logger.Info("Starting domain revalidation worker...")
	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.runSweep()
			case <-w.ctx.Done():
				w.logger.Info("Stopping domain revalidation worker...")
				return
			}
		}
	}()
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.cancel()
}

// RunOnce triggers an immediate sweep outside the schedule
func (w *Worker) RunOnce() (checked, changed int) {
	return w.sweeper.ReverifyAll(w.ctx, w.batchSize)
}

func (w *Worker) runSweep() {
	start := time.Now()
	checked, changed := w.sweeper.ReverifyAll(w.ctx, w.batchSize)
	w.logger.WithFields(logrus.Fields{
		"checked":  checked,
		"changed":  changed,
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}).Info("domain revalidation sweep finished")
}
