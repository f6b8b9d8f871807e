package core

import "context"

// IMarketService purchase/completion state machine
//
// States per (learner, course) pair run Unpurchased -> Purchased ->
// Completed; no transition skips a state, none reverses. Every mutation is
// all or nothing: the token pull, the certificate mint and the record
// update of one operation commit together or not at all.
type IMarketService interface {
	// PurchaseCourse pulls the course price from the learner's allowance
	// and records ownership.
	PurchaseCourse(ctx context.Context, learner, courseID string) error
	// CompleteCourse marks the course completed for the learner and mints
	// the one-of-one certificate. Caller must be the current oracle.
	CompleteCourse(ctx context.Context, caller, learner, courseID string) (uint64, error)
	// HasCourse reports whether the learner purchased the course.
	HasCourse(ctx context.Context, learner, courseID string) (bool, error)
}
