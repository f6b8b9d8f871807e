package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Enrollment per (learner, course) purchase/completion record
//
// CourseID holds the external course id, matching the key the learner
// purchased with. Records are never reset or deleted; Completed implies
// Purchased.
type Enrollment struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID    string    `sql:"size:64;unique_index:idx_enrollments_user_course" json:"user_id"`
	CourseID  string    `sql:"size:64;unique_index:idx_enrollments_user_course" json:"course_id"`
	Purchased bool      `json:"purchased"`
	Completed bool      `json:"completed"`
	TokenID   uint64    `sql:"default:0" json:"token_id,omitempty"`
	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IEnrollmentStore enrollment store interface
//
// Find returns a zero-valued record with ID == 0 on a lookup miss; a miss
// and an explicit Purchased == false are equivalent to the state machine.
type IEnrollmentStore interface {
	Create(ctx context.Context, tx *db.DB, enrollment *Enrollment) error
	Find(ctx context.Context, userID, courseID string) (*Enrollment, error)
	FindByUser(ctx context.Context, userID string) ([]*Enrollment, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
	Update(ctx context.Context, tx *db.DB, enrollment *Enrollment) error
}
