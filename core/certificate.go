package core

import (
	"context"
	"errors"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// ErrMinterNotAuthorized minter missing from the registry's minter set
var ErrMinterNotAuthorized = errors.New("certificate: minter not authorized")

// Certificate non-fungible completion record
type Certificate struct {
	TokenID   uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"token_id"`
	Owner     string    `sql:"size:64;index:idx_certificates_owner" json:"owner"`
	TokenURI  string    `sql:"size:512" json:"token_uri"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// CertificateMinter entry of the registry's authorized-minter set
type CertificateMinter struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Address   string    `sql:"size:64;unique_index:idx_certificate_minters_address" json:"address"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ICertificateRegistry certificate registry
//
// Mint joins the caller's transaction and fails with ErrMinterNotAuthorized
// unless minter is in the enabled set. SetMinter is a deployment concern,
// never called by the state machine itself.
type ICertificateRegistry interface {
	SetMinter(ctx context.Context, address string, enabled bool) error
	IsMinter(ctx context.Context, address string) (bool, error)
	Mint(ctx context.Context, tx *db.DB, minter, owner, tokenURI string) (uint64, error)
	BalanceOf(ctx context.Context, owner string) (int64, error)
	OwnerOf(ctx context.Context, tokenID uint64) (string, error)
	TokenURI(ctx context.Context, tokenID uint64) (string, error)
	TokenOfOwnerByIndex(ctx context.Context, owner string, index int) (uint64, error)
	TotalSupply(ctx context.Context) (int64, error)
}
