package certificate

import (
	"context"

	"coursemarket/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type certificateStore struct {
	db *db.DB
}

// New new certificate registry stand-in
//
// Minimal conforming registry: one-of-one tokens with auto-increment ids,
// minting gated by the authorized-minter set.
func New(db *db.DB) core.ICertificateRegistry {
	return &certificateStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update()
		if err := tx.AutoMigrate(core.Certificate{}).Error; err != nil {
			return err
		}

		if err := tx.AutoMigrate(core.CertificateMinter{}).Error; err != nil {
			return err
		}

		if err := tx.Model(core.CertificateMinter{}).AddUniqueIndex("idx_certificate_minters_address", "address").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *certificateStore) SetMinter(ctx context.Context, address string, enabled bool) error {
	return s.db.Tx(func(tx *db.DB) error {
		minter := core.CertificateMinter{Address: address}
		if err := tx.Update().Where("address = ?", address).FirstOrCreate(&minter).Error; err != nil {
			return err
		}

		return tx.Update().Model(core.CertificateMinter{}).
			Where("address = ?", address).
			Updates(map[string]interface{}{"enabled": enabled}).Error
	})
}

func (s *certificateStore) IsMinter(ctx context.Context, address string) (bool, error) {
	var minter core.CertificateMinter
	err := s.db.View().Where("address = ?", address).First(&minter).Error
	if store.IsErrNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return minter.Enabled, nil
}

func (s *certificateStore) Mint(ctx context.Context, tx *db.DB, minter, owner, tokenURI string) (uint64, error) {
	// the gate reads through the caller's transaction, not a separate view
	var record core.CertificateMinter
	err := tx.Update().Where("address = ?", minter).First(&record).Error
	if store.IsErrNotFound(err) || (err == nil && !record.Enabled) {
		return 0, core.ErrMinterNotAuthorized
	}
	if err != nil {
		return 0, err
	}

	certificate := core.Certificate{
		Owner:    owner,
		TokenURI: tokenURI,
	}
	if err := tx.Update().Create(&certificate).Error; err != nil {
		return 0, err
	}

	return certificate.TokenID, nil
}

func (s *certificateStore) BalanceOf(ctx context.Context, owner string) (int64, error) {
	var count int64
	if err := s.db.View().Model(core.Certificate{}).Where("owner = ?", owner).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (s *certificateStore) OwnerOf(ctx context.Context, tokenID uint64) (string, error) {
	certificate, err := s.find(tokenID)
	if err != nil {
		return "", err
	}

	return certificate.Owner, nil
}

func (s *certificateStore) TokenURI(ctx context.Context, tokenID uint64) (string, error) {
	certificate, err := s.find(tokenID)
	if err != nil {
		return "", err
	}

	return certificate.TokenURI, nil
}

func (s *certificateStore) TokenOfOwnerByIndex(ctx context.Context, owner string, index int) (uint64, error) {
	var certificate core.Certificate
	err := s.db.View().Where("owner = ?", owner).
		Order("token_id").Offset(index).First(&certificate).Error
	if store.IsErrNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return certificate.TokenID, nil
}

func (s *certificateStore) TotalSupply(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.View().Model(core.Certificate{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (s *certificateStore) find(tokenID uint64) (*core.Certificate, error) {
	var certificate core.Certificate
	err := s.db.View().Where("token_id = ?", tokenID).First(&certificate).Error
	if store.IsErrNotFound(err) {
		return &core.Certificate{}, nil
	}

	return &certificate, err
}
