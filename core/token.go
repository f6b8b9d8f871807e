package core

import (
	"context"
	"errors"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientBalance payer balance below the requested amount
	ErrInsufficientBalance = errors.New("token: insufficient balance")
	// ErrInsufficientAllowance spender allowance below the requested amount
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")
)

// ITokenLedger fungible token ledger
//
// External collaborator of the marketplace. TransferFrom joins the caller's
// transaction so a later failure in the same unit unwinds the debit; the
// remaining operations are caller-initiated setup steps and commit on
// their own.
type ITokenLedger interface {
	BalanceOf(ctx context.Context, user string) (decimal.Decimal, error)
	Allowance(ctx context.Context, owner, spender string) (decimal.Decimal, error)
	Approve(ctx context.Context, owner, spender string, amount decimal.Decimal) error
	Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error
	TransferFrom(ctx context.Context, tx *db.DB, spender, from, to string, amount decimal.Decimal) error
	Mint(ctx context.Context, to string, amount decimal.Decimal) error
}
