package core

import (
	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/store/db"
)

// Config coursemarket config
type Config struct {
	App     App       `json:"app"`
	DB      db.Config `json:"db"`
	Market  Market    `json:"market"`
	Genesis Genesis   `json:"genesis"`
	Grader  Grader    `json:"grader"`
	Cashier Cashier   `json:"cashier"`
}

// App app config
type App struct {
	Location string `json:"location"`
}

// Market marketplace identity config
//
// Address is the marketplace's own ledger account, the spender learners
// approve and the minter the certificate registry must authorize. Purchases
// are credited to PayoutAddress when set, otherwise they accrue to Address.
type Market struct {
	Address       string `json:"address" valid:"required"`
	PayoutAddress string `json:"payout_address"`
}

// PayTo revenue recipient for purchases
func (m Market) PayTo() string {
	if m.PayoutAddress != "" {
		return m.PayoutAddress
	}

	return m.Address
}

// Genesis initial role holders, written on first access
type Genesis struct {
	Owner  string `json:"owner" valid:"required"`
	Oracle string `json:"oracle" valid:"required"`
}

// Grader automated oracle endpoint config
type Grader struct {
	EndPoint string `json:"end_point"`
}

// Cashier signal cashier tuning
type Cashier struct {
	Batch    int   `json:"batch"`
	Capacity int64 `json:"capacity"`
}

// Validate validate config
func (c *Config) Validate() error {
	_, err := govalidator.ValidateStruct(c)
	return err
}
