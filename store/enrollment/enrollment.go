package enrollment

import (
	"context"

	"coursemarket/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type enrollmentStore struct {
	db *db.DB
}

// New new enrollment store
func New(db *db.DB) core.IEnrollmentStore {
	return &enrollmentStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Enrollment{})
		if err := tx.AutoMigrate(core.Enrollment{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_enrollments_user_course", "user_id", "course_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *enrollmentStore) Create(ctx context.Context, tx *db.DB, enrollment *core.Enrollment) error {
	return tx.Update().Create(enrollment).Error
}

func (s *enrollmentStore) Find(ctx context.Context, userID, courseID string) (*core.Enrollment, error) {
	var enrollment core.Enrollment
	err := s.db.View().Where("user_id = ? and course_id = ?", userID, courseID).First(&enrollment).Error
	if store.IsErrNotFound(err) {
		return &core.Enrollment{UserID: userID, CourseID: courseID}, nil
	}

	return &enrollment, err
}

func (s *enrollmentStore) FindByUser(ctx context.Context, userID string) ([]*core.Enrollment, error) {
	var enrollments []*core.Enrollment
	if err := s.db.View().Where("user_id = ?", userID).Order("id").Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (s *enrollmentStore) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := s.db.View().Model(core.Enrollment{}).
		Where("course_id = ? and purchased = ?", courseID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (s *enrollmentStore) Update(ctx context.Context, tx *db.DB, enrollment *core.Enrollment) error {
	version := enrollment.Version
	enrollment.Version++

	update := tx.Update().Model(core.Enrollment{}).
		Where("id = ? and version = ?", enrollment.ID, version).
		Updates(map[string]interface{}{
			"purchased": enrollment.Purchased,
			"completed": enrollment.Completed,
			"token_id":  enrollment.TokenID,
			"version":   enrollment.Version,
		})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
