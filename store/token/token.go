package token

import (
	"context"
	"time"

	"coursemarket/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Account fungible token balance row
type Account struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID    string          `sql:"size:64;unique_index:idx_token_accounts_user_id" json:"user_id"`
	Balance   decimal.Decimal `sql:"type:decimal(20,8)" json:"balance"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Allowance spender allowance row
type Allowance struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID    string          `sql:"size:64;unique_index:idx_token_allowances_user_spender" json:"user_id"`
	Spender   string          `sql:"size:64;unique_index:idx_token_allowances_user_spender" json:"spender"`
	Amount    decimal.Decimal `sql:"type:decimal(20,8)" json:"amount"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type tokenStore struct {
	db *db.DB
}

// New new token ledger stand-in
//
// Minimal conforming fungible ledger: balances plus allowances, with
// transferFrom debiting the allowance before the balance and failing
// without mutation on either shortfall.
func New(db *db.DB) core.ITokenLedger {
	return &tokenStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update()
		if err := tx.AutoMigrate(Account{}).Error; err != nil {
			return err
		}

		if err := tx.Model(Account{}).AddUniqueIndex("idx_token_accounts_user_id", "user_id").Error; err != nil {
			return err
		}

		if err := tx.AutoMigrate(Allowance{}).Error; err != nil {
			return err
		}

		if err := tx.Model(Allowance{}).AddUniqueIndex("idx_token_allowances_user_spender", "user_id", "spender").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *tokenStore) BalanceOf(ctx context.Context, user string) (decimal.Decimal, error) {
	var account Account
	err := s.db.View().Where("user_id = ?", user).First(&account).Error
	if store.IsErrNotFound(err) {
		return decimal.Zero, nil
	}

	return account.Balance, err
}

func (s *tokenStore) Allowance(ctx context.Context, owner, spender string) (decimal.Decimal, error) {
	var allowance Allowance
	err := s.db.View().Where("user_id = ? and spender = ?", owner, spender).First(&allowance).Error
	if store.IsErrNotFound(err) {
		return decimal.Zero, nil
	}

	return allowance.Amount, err
}

func (s *tokenStore) Approve(ctx context.Context, owner, spender string, amount decimal.Decimal) error {
	return s.db.Tx(func(tx *db.DB) error {
		allowance := Allowance{UserID: owner, Spender: spender}
		if err := tx.Update().Where("user_id = ? and spender = ?", owner, spender).FirstOrCreate(&allowance).Error; err != nil {
			return err
		}

		return s.updateAllowance(tx, &allowance, amount)
	})
}

func (s *tokenStore) Mint(ctx context.Context, to string, amount decimal.Decimal) error {
	return s.db.Tx(func(tx *db.DB) error {
		return s.credit(tx, to, amount)
	})
}

func (s *tokenStore) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error {
	return s.db.Tx(func(tx *db.DB) error {
		return s.move(tx, from, to, amount)
	})
}

func (s *tokenStore) TransferFrom(ctx context.Context, tx *db.DB, spender, from, to string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}

	var allowance Allowance
	err := tx.Update().Where("user_id = ? and spender = ?", from, spender).First(&allowance).Error
	if store.IsErrNotFound(err) || (err == nil && allowance.Amount.LessThan(amount)) {
		return core.ErrInsufficientAllowance
	}
	if err != nil {
		return err
	}

	if err := s.updateAllowance(tx, &allowance, allowance.Amount.Sub(amount)); err != nil {
		return err
	}

	return s.move(tx, from, to, amount)
}

func (s *tokenStore) move(tx *db.DB, from, to string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}

	var payer Account
	err := tx.Update().Where("user_id = ?", from).First(&payer).Error
	if store.IsErrNotFound(err) || (err == nil && payer.Balance.LessThan(amount)) {
		return core.ErrInsufficientBalance
	}
	if err != nil {
		return err
	}

	if err := s.updateBalance(tx, &payer, payer.Balance.Sub(amount)); err != nil {
		return err
	}

	return s.credit(tx, to, amount)
}

func (s *tokenStore) credit(tx *db.DB, to string, amount decimal.Decimal) error {
	account := Account{UserID: to}
	if err := tx.Update().Where("user_id = ?", to).FirstOrCreate(&account).Error; err != nil {
		return err
	}

	return s.updateBalance(tx, &account, account.Balance.Add(amount))
}

func (s *tokenStore) updateBalance(tx *db.DB, account *Account, balance decimal.Decimal) error {
	version := account.Version
	account.Version++
	account.Balance = balance

	update := tx.Update().Model(Account{}).
		Where("id = ? and version = ?", account.ID, version).
		Updates(map[string]interface{}{
			"balance": account.Balance,
			"version": account.Version,
		})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *tokenStore) updateAllowance(tx *db.DB, allowance *Allowance, amount decimal.Decimal) error {
	version := allowance.Version
	allowance.Version++
	allowance.Amount = amount

	update := tx.Update().Model(Allowance{}).
		Where("id = ? and version = ?", allowance.ID, version).
		Updates(map[string]interface{}{
			"amount":  allowance.Amount,
			"version": allowance.Version,
		})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
