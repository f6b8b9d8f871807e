package core

import (
	"context"
	"time"
)

// SignalStatus completion signal status
type SignalStatus int

const (
	// SignalStatusPending waiting to be relayed into the state machine
	SignalStatusPending SignalStatus = iota
	// SignalStatusDone completion accepted, certificate minted
	SignalStatusDone
	// SignalStatusRejected state machine refused the completion
	SignalStatusRejected
)

// CompletionSignal completion assertion pulled from the grader endpoint
//
// Sequence is the grader's own cursor; TraceID dedupes signals across
// overlapping pulls. The signal queue is plumbing for the automated
// oracle, not part of the ledger state.
type CompletionSignal struct {
	ID        uint64       `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Sequence  uint64       `sql:"default:0" json:"sequence"`
	TraceID   string       `sql:"size:36;unique_index:idx_completion_signals_trace_id" json:"trace_id"`
	UserID    string       `sql:"size:64" json:"user_id"`
	CourseID  string       `sql:"size:64" json:"course_id"`
	Status    SignalStatus `sql:"index:idx_completion_signals_status" json:"status"`
	ErrorCode int          `sql:"default:0" json:"error_code,omitempty"`
	TokenID   uint64       `sql:"default:0" json:"token_id,omitempty"`
	Version   int64        `sql:"default:0" json:"version"`
	CreatedAt time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ISignalStore completion signal store interface
type ISignalStore interface {
	// Save stores signals, skipping trace ids seen before.
	Save(ctx context.Context, signals []*CompletionSignal) error
	ListPending(ctx context.Context, limit int) ([]*CompletionSignal, error)
	Update(ctx context.Context, signal *CompletionSignal) error
}

// IOracleService grader endpoint client of the automated oracle
//
// The grading decision itself is external; the service only pulls signals
// the grader already made.
type IOracleService interface {
	PullSignals(ctx context.Context, offset uint64, limit int) ([]*CompletionSignal, error)
}
