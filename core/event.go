package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// ActionType market event type
type ActionType int

const (
	// ActionTypeCourseAdded course added to the catalog
	ActionTypeCourseAdded ActionType = iota + 1
	// ActionTypeCourseStatus course activation toggled
	ActionTypeCourseStatus
	// ActionTypeCoursePurchased course purchased
	ActionTypeCoursePurchased
	// ActionTypeCourseCompleted course completed, certificate minted
	ActionTypeCourseCompleted
	// ActionTypeOracleChanged oracle reassigned
	ActionTypeOracleChanged
	// ActionTypeOwnerChanged owner reassigned
	ActionTypeOwnerChanged
)

// EventExtraData extra data
type EventExtraData map[string]interface{}

// NewEventExtra new event extra instance
func NewEventExtra() EventExtraData {
	return make(EventExtraData)
}

// Put put data
func (e EventExtraData) Put(key string, value interface{}) {
	e[key] = value
}

// Format format as json by default
func (e EventExtraData) Format() string {
	bs, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}

	return string(bs)
}

// Event observable marketplace event, append only
type Event struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Action    ActionType      `sql:"index:idx_events_action" json:"action"`
	UserID    string          `sql:"size:64;index:idx_events_user_id" json:"user_id,omitempty"`
	CourseID  string          `sql:"size:64;index:idx_events_course_id" json:"course_id,omitempty"`
	Amount    decimal.Decimal `sql:"type:decimal(20,8)" json:"amount,omitempty"`
	TokenID   uint64          `sql:"default:0" json:"token_id,omitempty"`
	Extra     string          `sql:"size:1024" json:"extra,omitempty"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// IEventStore event store interface
type IEventStore interface {
	Create(ctx context.Context, tx *db.DB, event *Event) error
	List(ctx context.Context, fromID uint64, limit int) ([]*Event, error)
	FindByUser(ctx context.Context, userID string, limit int) ([]*Event, error)
}
