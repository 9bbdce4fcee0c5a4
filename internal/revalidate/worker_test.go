package revalidate

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeSweeper struct {
	calls int32
	batch int32
}

func (s *fakeSweeper) ReverifyAll(ctx context.Context, batchSize int) (int, int) {
	atomic.AddInt32(&s.calls, 1)
	atomic.StoreInt32(&s.batch, int32(batchSize))
	return batchSize, 0
}

func TestWorker_RunOnce(t *testing.T) {
	sweeper := &fakeSweeper{}
	w := NewWorker(&Config{
		Sweeper:     sweeper,
		Logger:      logrus.NewEntry(logrus.New()),
		IntervalSec: 3600,
		BatchSize:   25,
	})

	checked, _ := w.RunOnce()
	if checked != 25 {
		t.Errorf("checked = %d, want batch size 25", checked)
	}
	if got := atomic.LoadInt32(&sweeper.batch); got != 25 {
		t.Errorf("batch size = %d, want 25", got)
	}
}

func TestWorker_TickAndStop(t *testing.T) {
	sweeper := &fakeSweeper{}
	w := NewWorker(&Config{
		Sweeper:     sweeper,
		Logger:      logrus.NewEntry(logrus.New()),
		IntervalSec: 1,
		BatchSize:   10,
	})
	w.interval = 10 * time.Millisecond

	w.Start()
	time.Sleep(50 * time.Millisecond)
	w.Stop()

	calls := atomic.LoadInt32(&sweeper.calls)
	if calls == 0 {
		t.Fatal("expected at least one sweep before Stop")
	}

	time.Sleep(30 * time.Millisecond)
	if after := atomic.LoadInt32(&sweeper.calls); after > calls+1 {
		t.Errorf("sweeps continued after Stop: %d -> %d", calls, after)
	}
}
