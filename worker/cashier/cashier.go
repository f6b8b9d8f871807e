package cashier

import (
	"context"
	"errors"

	"coursemarket/core"
	"coursemarket/worker"

	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Cashier drains pending completion signals through the state machine
//
// A signal the state machine refuses with an ErrorCode is marked rejected
// and never retried; any other failure leaves it pending for the next
// pass.
type Cashier struct {
	worker.TickWorker
	signalStore   core.ISignalStore
	marketService core.IMarketService
	roleService   core.IRoleService
	cfg           Config
}

// Config cashier config
type Config struct {
	Batch    int   `json:"batch" valid:"required"`
	Capacity int64 `json:"capacity" valid:"required"`
}

// New new cashier
func New(
	signalStr core.ISignalStore,
	marketSrv core.IMarketService,
	roleSrv core.IRoleService,
	cfg Config,
) *Cashier {
	return &Cashier{
		signalStore:   signalStr,
		marketService: marketSrv,
		roleService:   roleSrv,
		cfg:           cfg,
	}
}

// Run run worker
func (w *Cashier) Run(ctx context.Context) error {
	f := w.sync
	if w.cfg.Capacity > 1 {
		f = w.parallel(w.cfg.Capacity)
	}

	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx, f)
	})
}

func (w *Cashier) onWork(ctx context.Context, f func(context.Context, []*core.CompletionSignal) error) error {
	log := logger.FromContext(ctx).WithField("worker", "cashier")

	signals, err := w.signalStore.ListPending(ctx, w.cfg.Batch)
	if err != nil {
		log.WithError(err).Errorln("list pending signals")
		return err
	}

	if len(signals) == 0 {
		return errors.New("EOF")
	}

	return f(ctx, signals)
}

func (w *Cashier) sync(ctx context.Context, signals []*core.CompletionSignal) error {
	for _, signal := range signals {
		if err := w.handleSignal(ctx, signal); err != nil {
			return err
		}
	}

	return nil
}

func (w *Cashier) parallel(capacity int64) func(ctx context.Context, signals []*core.CompletionSignal) error {
	sem := semaphore.NewWeighted(capacity)

	return func(ctx context.Context, signals []*core.CompletionSignal) error {
		g := errgroup.Group{}

		for idx := range signals {
			signal := signals[idx]

			if err := sem.Acquire(ctx, 1); err != nil {
				return g.Wait()
			}

			g.Go(func() error {
				defer sem.Release(1)
				return w.handleSignal(ctx, signal)
			})
		}

		return g.Wait()
	}
}

func (w *Cashier) handleSignal(ctx context.Context, signal *core.CompletionSignal) error {
	log := logger.FromContext(ctx).WithField("worker", "cashier")

	oracle, err := w.roleService.Oracle(ctx)
	if err != nil {
		return err
	}

	tokenID, err := w.marketService.CompleteCourse(ctx, oracle, signal.UserID, signal.CourseID)
	if err != nil {
		var code core.ErrorCode
		if !errors.As(err, &code) {
			log.WithError(err).Errorln("complete course", signal.TraceID)
			return err
		}

		signal.Status = core.SignalStatusRejected
		signal.ErrorCode = int(code)
		return w.signalStore.Update(ctx, signal)
	}

	signal.Status = core.SignalStatusDone
	signal.TokenID = tokenID
	return w.signalStore.Update(ctx, signal)
}
