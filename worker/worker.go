package worker

import (
	"context"
	"time"
)

// Worker worker interface
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker base of loop workers
//
// StartTick runs onTick until the context is done, backing off to
// ErrDelay whenever onTick returns an error (an idle pass reports an
// error on purpose so the loop slows down).
type TickWorker struct {
	Delay    time.Duration
	ErrDelay time.Duration
}

// StartTick start the tick loop
func (w *TickWorker) StartTick(ctx context.Context, onTick func(ctx context.Context) error) error {
	dur := time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := onTick(ctx); err != nil {
				dur = w.errDelay()
			} else {
				dur = w.delay()
			}
		}
	}
}

func (w *TickWorker) delay() time.Duration {
	if w.Delay > 0 {
		return w.Delay
	}

	return 100 * time.Millisecond
}

func (w *TickWorker) errDelay() time.Duration {
	if w.ErrDelay > 0 {
		return w.ErrDelay
	}

	return time.Second
}
