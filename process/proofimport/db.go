package proofimport

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/LittleKatyusha/Sapi-sub004/models"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/proof"
)

// DBAttacher implements Deposits on the bank_deposits table.
type DBAttacher struct {
	DB *gorm.DB
	// UserID is recorded as the uploader of imported proofs.
	UserID *uint
}

func (a DBAttacher) Lookup(ctx context.Context, nomorSetor string) (uint, bool, error) {
	var d models.BankDeposit
	err := a.DB.WithContext(ctx).Select("id", "bukti_id").Where("nomor_setor = ?", nomorSetor).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, fmt.Errorf("%s: %w", nomorSetor, ErrNoDeposit)
	}
	if err != nil {
		return 0, false, err
	}
	return d.ID, d.BuktiID != nil, nil
}

// Attach inserts the upload row and points the deposit at it. A replaced
// proof keeps its upload row for audit.
func (a DBAttacher) Attach(ctx context.Context, id uint, s proof.Stored) error {
	return a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		up := s.Upload(a.UserID)
		if err := tx.Create(&up).Error; err != nil {
			return err
		}
		res := tx.Model(&models.BankDeposit{}).Where("id = ?", id).Update("bukti_id", up.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoDeposit
		}
		return nil
	})
}
