package signal

import (
	"context"

	"coursemarket/core"

	"github.com/fox-one/pkg/store/db"
)

type signalStore struct {
	db *db.DB
}

// New new completion signal store
func New(db *db.DB) core.ISignalStore {
	return &signalStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.CompletionSignal{})
		if err := tx.AutoMigrate(core.CompletionSignal{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_completion_signals_trace_id", "trace_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *signalStore) Save(ctx context.Context, signals []*core.CompletionSignal) error {
	return s.db.Tx(func(tx *db.DB) error {
		for _, signal := range signals {
			if err := tx.Update().Where("trace_id = ?", signal.TraceID).FirstOrCreate(signal).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *signalStore) ListPending(ctx context.Context, limit int) ([]*core.CompletionSignal, error) {
	var signals []*core.CompletionSignal
	err := s.db.View().Where("status = ?", core.SignalStatusPending).
		Order("id").Limit(limit).Find(&signals).Error
	if err != nil {
		return nil, err
	}

	return signals, nil
}

func (s *signalStore) Update(ctx context.Context, signal *core.CompletionSignal) error {
	version := signal.Version
	signal.Version++

	update := s.db.Update().Model(core.CompletionSignal{}).
		Where("id = ? and version = ?", signal.ID, version).
		Updates(map[string]interface{}{
			"status":     signal.Status,
			"error_code": signal.ErrorCode,
			"token_id":   signal.TokenID,
			"version":    signal.Version,
		})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
