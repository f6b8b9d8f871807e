package market

import (
	"context"
	"errors"

	"coursemarket/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

type marketService struct {
	db           *db.DB
	cfg          core.Market
	courses      core.ICourseStore
	enrollments  core.IEnrollmentStore
	events       core.IEventStore
	tokens       core.ITokenLedger
	certificates core.ICertificateRegistry
	roles        core.IRoleService
}

// New new market service
func New(
	db *db.DB,
	cfg core.Market,
	courses core.ICourseStore,
	enrollments core.IEnrollmentStore,
	events core.IEventStore,
	tokens core.ITokenLedger,
	certificates core.ICertificateRegistry,
	roles core.IRoleService,
) core.IMarketService {
	return &marketService{
		db:           db,
		cfg:          cfg,
		courses:      courses,
		enrollments:  enrollments,
		events:       events,
		tokens:       tokens,
		certificates: certificates,
		roles:        roles,
	}
}

func (s *marketService) PurchaseCourse(ctx context.Context, learner, courseID string) error {
	log := logger.FromContext(ctx).WithField("service", "market")

	course, err := s.courses.FindByCourseID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.ID == 0 {
		return core.ErrCourseNotFound
	}

	if !course.IsActive {
		return core.ErrCourseInactive
	}

	enrollment, err := s.enrollments.Find(ctx, learner, courseID)
	if err != nil {
		return err
	}
	if enrollment.Purchased {
		return core.ErrAlreadyPurchased
	}

	return s.db.Tx(func(tx *db.DB) error {
		// the token pull joins this transaction: a failure after the debit
		// unwinds it, a debit failure aborts before any record is written
		if course.Price.IsPositive() {
			if err := s.tokens.TransferFrom(ctx, tx, s.cfg.Address, learner, s.cfg.PayTo(), course.Price); err != nil {
				// only a ledger refusal is terminal; anything else is an
				// infrastructure failure and stays retryable
				if errors.Is(err, core.ErrInsufficientBalance) || errors.Is(err, core.ErrInsufficientAllowance) {
					log.WithError(err).Infoln("token pull refused", learner, courseID)
					return core.ErrPaymentFailed
				}
				return err
			}
		}

		enrollment.Purchased = true
		if enrollment.ID == 0 {
			if err := s.enrollments.Create(ctx, tx, enrollment); err != nil {
				return err
			}
		} else if err := s.enrollments.Update(ctx, tx, enrollment); err != nil {
			return err
		}

		event := &core.Event{
			Action:   core.ActionTypeCoursePurchased,
			UserID:   learner,
			CourseID: courseID,
			Amount:   course.Price,
		}
		return s.events.Create(ctx, tx, event)
	})
}

func (s *marketService) CompleteCourse(ctx context.Context, caller, learner, courseID string) (uint64, error) {
	log := logger.FromContext(ctx).WithField("service", "market")

	oracle, err := s.roles.Oracle(ctx)
	if err != nil {
		return 0, err
	}

	if caller != oracle {
		return 0, core.ErrUnauthorized
	}

	course, err := s.courses.FindByCourseID(ctx, courseID)
	if err != nil {
		return 0, err
	}
	if course.ID == 0 {
		return 0, core.ErrCourseNotFound
	}

	enrollment, err := s.enrollments.Find(ctx, learner, courseID)
	if err != nil {
		return 0, err
	}
	if !enrollment.Purchased {
		return 0, core.ErrNotPurchased
	}
	if enrollment.Completed {
		return 0, core.ErrAlreadyCompleted
	}

	var tokenID uint64
	err = s.db.Tx(func(tx *db.DB) error {
		// mint and record update are one atomic unit: a registry refusal
		// rolls the completion flag back
		tokenID, err = s.certificates.Mint(ctx, tx, s.cfg.Address, learner, s.mintURI(course))
		if err != nil {
			// only a registry refusal is terminal; anything else is an
			// infrastructure failure and stays retryable
			if errors.Is(err, core.ErrMinterNotAuthorized) {
				log.WithError(err).Errorln("mint refused", learner, courseID)
				return core.ErrMintNotAllowed
			}
			return err
		}

		enrollment.Completed = true
		enrollment.TokenID = tokenID
		if err := s.enrollments.Update(ctx, tx, enrollment); err != nil {
			return err
		}

		event := &core.Event{
			Action:   core.ActionTypeCourseCompleted,
			UserID:   learner,
			CourseID: courseID,
			TokenID:  tokenID,
		}
		return s.events.Create(ctx, tx, event)
	})
	if err != nil {
		return 0, err
	}

	return tokenID, nil
}

func (s *marketService) HasCourse(ctx context.Context, learner, courseID string) (bool, error) {
	enrollment, err := s.enrollments.Find(ctx, learner, courseID)
	if err != nil {
		return false, err
	}

	return enrollment.Purchased, nil
}

func (s *marketService) mintURI(course *core.Course) string {
	if course.MetadataURI != "" {
		return course.MetadataURI
	}

	if course.MediaURI != "" {
		return course.MediaURI
	}

	return course.CourseID
}
