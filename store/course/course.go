package course

import (
	"context"

	"coursemarket/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type courseStore struct {
	db *db.DB
}

// New new course store
func New(db *db.DB) core.ICourseStore {
	return &courseStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Course{})
		if err := tx.AutoMigrate(core.Course{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_courses_course_id", "course_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *courseStore) Create(ctx context.Context, tx *db.DB, course *core.Course) error {
	return tx.Update().Create(course).Error
}

func (s *courseStore) Find(ctx context.Context, id uint64) (*core.Course, error) {
	var course core.Course
	err := s.db.View().Where("id = ?", id).First(&course).Error
	if store.IsErrNotFound(err) {
		return &core.Course{}, nil
	}

	return &course, err
}

func (s *courseStore) FindByCourseID(ctx context.Context, courseID string) (*core.Course, error) {
	var course core.Course
	err := s.db.View().Where("course_id = ?", courseID).First(&course).Error
	if store.IsErrNotFound(err) {
		return &core.Course{}, nil
	}

	return &course, err
}

func (s *courseStore) All(ctx context.Context) ([]*core.Course, error) {
	var courses []*core.Course
	if err := s.db.View().Order("id").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (s *courseStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.View().Model(core.Course{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (s *courseStore) Update(ctx context.Context, tx *db.DB, course *core.Course) error {
	version := course.Version
	course.Version++

	// is_active is the only mutable attribute; an explicit map keeps a
	// false value from being skipped as a zero field.
	update := tx.Update().Model(core.Course{}).
		Where("id = ? and version = ?", course.ID, version).
		Updates(map[string]interface{}{
			"is_active": course.IsActive,
			"version":   course.Version,
		})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
