package syncer

import (
	"context"
	"errors"

	"coursemarket/core"
	"coursemarket/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
)

const checkpointKey = "signal_checkpoint"

// Syncer pulls completion signals from the grader endpoint
type Syncer struct {
	worker.TickWorker
	signalStore   core.ISignalStore
	oracleService core.IOracleService
	property      property.Store
}

// New new sync worker
func New(
	signalStr core.ISignalStore,
	oracleSrv core.IOracleService,
	property property.Store,
) *Syncer {
	return &Syncer{
		signalStore:   signalStr,
		oracleService: oracleSrv,
		property:      property,
	}
}

// Run run worker
func (w *Syncer) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Syncer) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "syncer")

	v, err := w.property.Get(ctx, checkpointKey)
	if err != nil {
		log.WithError(err).Errorln("property.Get", checkpointKey)
		return err
	}

	offset := uint64(v.Int64())

	const Limit = 100
	signals, err := w.oracleService.PullSignals(ctx, offset, Limit)
	if err != nil {
		log.WithError(err).Errorln("oraclez.PullSignals")
		return err
	}

	if len(signals) == 0 {
		return errors.New("EOF")
	}

	for _, signal := range signals {
		if signal.Sequence > offset {
			offset = signal.Sequence
		}
	}

	if err := w.signalStore.Save(ctx, signals); err != nil {
		log.WithError(err).Errorln("signals.Save")
		return err
	}

	if err := w.property.Save(ctx, checkpointKey, offset); err != nil {
		log.WithError(err).Errorln("property.Save", checkpointKey)
		return err
	}

	return nil
}
