package course

import (
	"context"
	"fmt"
	"time"

	"coursemarket/core"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/store/db"
	"golang.org/x/sync/singleflight"
)

// Cache wrap the store with a read through lru cache
func Cache(store core.ICourseStore, exp time.Duration) core.ICourseStore {
	return &cacheCourseStore{
		ICourseStore: store,
		cache:        gcache.New(1024).LRU().Expiration(exp).Build(),
		sf:           &singleflight.Group{},
	}
}

type cacheCourseStore struct {
	core.ICourseStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheCourseStore) Find(ctx context.Context, id uint64) (*core.Course, error) {
	key := s.idKey(id)
	if v, err := s.cache.Get(key); err == nil {
		if course, ok := v.(*core.Course); ok {
			return course, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		course, err := s.ICourseStore.Find(ctx, id)
		if err != nil {
			return nil, err
		}

		if course.ID > 0 {
			s.cacheCourse(course)
		}

		return course, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.Course), nil
}

func (s *cacheCourseStore) FindByCourseID(ctx context.Context, courseID string) (*core.Course, error) {
	key := s.courseIDKey(courseID)
	if v, err := s.cache.Get(key); err == nil {
		if course, ok := v.(*core.Course); ok {
			return course, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		course, err := s.ICourseStore.FindByCourseID(ctx, courseID)
		if err != nil {
			return nil, err
		}

		if course.ID > 0 {
			s.cacheCourse(course)
		}

		return course, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.Course), nil
}

func (s *cacheCourseStore) Update(ctx context.Context, tx *db.DB, course *core.Course) error {
	if err := s.ICourseStore.Update(ctx, tx, course); err != nil {
		return err
	}

	s.cache.Remove(s.idKey(course.ID))
	s.cache.Remove(s.courseIDKey(course.CourseID))
	return nil
}

func (s *cacheCourseStore) cacheCourse(course *core.Course) {
	_ = s.cache.Set(s.idKey(course.ID), course)
	_ = s.cache.Set(s.courseIDKey(course.CourseID), course)
}

func (s *cacheCourseStore) idKey(id uint64) string {
	return fmt.Sprintf("course:id:%d", id)
}

func (s *cacheCourseStore) courseIDKey(courseID string) string {
	return fmt.Sprintf("course:cid:%s", courseID)
}
