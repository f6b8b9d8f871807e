package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized caller does not hold the required role
	ErrUnauthorized ErrorCode = 100001

	// ErrCourseNotFound no course
	ErrCourseNotFound ErrorCode = 100100
	// ErrDuplicateCourse external course id already taken
	ErrDuplicateCourse ErrorCode = 100101
	// ErrCourseInactive course not purchasable
	ErrCourseInactive ErrorCode = 100102
	// ErrInvalidPrice invalid price
	ErrInvalidPrice ErrorCode = 100103

	// ErrAlreadyPurchased learner already owns the course
	ErrAlreadyPurchased ErrorCode = 100200
	// ErrNotPurchased completion asserted without a purchase
	ErrNotPurchased ErrorCode = 100201
	// ErrAlreadyCompleted completion asserted twice
	ErrAlreadyCompleted ErrorCode = 100202
	// ErrPaymentFailed token ledger refused the transfer
	ErrPaymentFailed ErrorCode = 100203
	// ErrMintNotAllowed certificate registry refused the mint
	ErrMintNotAllowed ErrorCode = 100204

	// ErrInvalidRoleTarget role assigned to the zero address
	ErrInvalidRoleTarget ErrorCode = 100300
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
