package course

import (
	"context"
	"errors"

	"coursemarket/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

type courseService struct {
	db      *db.DB
	courses core.ICourseStore
	events  core.IEventStore
	roles   core.IRoleService
}

// New new course catalog service
func New(db *db.DB, courses core.ICourseStore, events core.IEventStore, roles core.IRoleService) core.ICourseService {
	return &courseService{
		db:      db,
		courses: courses,
		events:  events,
		roles:   roles,
	}
}

func (s *courseService) AddCourse(ctx context.Context, caller string, course *core.Course) (uint64, error) {
	log := logger.FromContext(ctx).WithField("service", "course")

	owner, err := s.roles.Owner(ctx)
	if err != nil {
		return 0, err
	}

	if caller != owner {
		return 0, core.ErrUnauthorized
	}

	if course.CourseID == "" || course.Name == "" {
		return 0, errors.New("course id and name required")
	}

	if course.Price.IsNegative() {
		return 0, core.ErrInvalidPrice
	}

	existing, err := s.courses.FindByCourseID(ctx, course.CourseID)
	if err != nil {
		return 0, err
	}
	if existing.ID > 0 {
		return 0, core.ErrDuplicateCourse
	}

	course.IsActive = true
	course.Creator = owner

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.courses.Create(ctx, tx, course); err != nil {
			return err
		}

		extra := core.NewEventExtra()
		extra.Put("id", course.ID)

		event := &core.Event{
			Action:   core.ActionTypeCourseAdded,
			UserID:   owner,
			CourseID: course.CourseID,
			Amount:   course.Price,
			Extra:    extra.Format(),
		}
		return s.events.Create(ctx, tx, event)
	})
	if err != nil {
		log.WithError(err).Errorln("add course", course.CourseID)
		return 0, err
	}

	return course.ID, nil
}

func (s *courseService) SetActive(ctx context.Context, caller string, id uint64, active bool) error {
	owner, err := s.roles.Owner(ctx)
	if err != nil {
		return err
	}

	if caller != owner {
		return core.ErrUnauthorized
	}

	course, err := s.courses.Find(ctx, id)
	if err != nil {
		return err
	}
	if course.ID == 0 {
		return core.ErrCourseNotFound
	}

	if course.IsActive == active {
		return nil
	}

	course.IsActive = active

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.courses.Update(ctx, tx, course); err != nil {
			return err
		}

		extra := core.NewEventExtra()
		extra.Put("is_active", active)

		event := &core.Event{
			Action:   core.ActionTypeCourseStatus,
			UserID:   owner,
			CourseID: course.CourseID,
			Extra:    extra.Format(),
		}
		return s.events.Create(ctx, tx, event)
	})
}

func (s *courseService) GetCourse(ctx context.Context, id uint64) (*core.Course, error) {
	course, err := s.courses.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.ID == 0 {
		return nil, core.ErrCourseNotFound
	}

	return course, nil
}

func (s *courseService) ResolveID(ctx context.Context, courseID string) (uint64, error) {
	course, err := s.courses.FindByCourseID(ctx, courseID)
	if err != nil {
		return 0, err
	}
	if course.ID == 0 {
		return 0, core.ErrCourseNotFound
	}

	return course.ID, nil
}

func (s *courseService) CourseCount(ctx context.Context) (int64, error) {
	return s.courses.Count(ctx)
}
