package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Course course info
//
// ID is the canonical 1-based sequence number, CourseID the immutable
// external id chosen by the creator. An external id can never be bound
// to a second sequence number.
type Course struct {
	ID          uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	CourseID    string          `sql:"size:64;unique_index:idx_courses_course_id" json:"course_id"`
	Name        string          `sql:"size:256" json:"name"`
	Price       decimal.Decimal `sql:"type:decimal(20,8)" json:"price"`
	IsActive    bool            `json:"is_active"`
	Creator     string          `sql:"size:64" json:"creator"`
	MetadataURI string          `sql:"size:512" json:"metadata_uri,omitempty"`
	MediaURI    string          `sql:"size:512" json:"media_uri,omitempty"`
	Version     int64           `sql:"default:0" json:"version"`
	CreatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ICourseStore course store interface
//
// Find and FindByCourseID return a zero-valued course with ID == 0 on a
// lookup miss rather than an error.
type ICourseStore interface {
	Create(ctx context.Context, tx *db.DB, course *Course) error
	Find(ctx context.Context, id uint64) (*Course, error)
	FindByCourseID(ctx context.Context, courseID string) (*Course, error)
	All(ctx context.Context) ([]*Course, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, tx *db.DB, course *Course) error
}

// ICourseService course catalog interface
type ICourseService interface {
	AddCourse(ctx context.Context, caller string, course *Course) (uint64, error)
	SetActive(ctx context.Context, caller string, id uint64, active bool) error
	GetCourse(ctx context.Context, id uint64) (*Course, error)
	ResolveID(ctx context.Context, courseID string) (uint64, error)
	CourseCount(ctx context.Context) (int64, error)
}
