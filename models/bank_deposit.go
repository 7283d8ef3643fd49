package models

import "time"

// BankDeposit is a cash deposit to the bank, optionally with a scanned proof.
type BankDeposit struct {
	Base
	NomorSetor    string    `gorm:"size:50;not null;uniqueIndex"`
	TanggalSetor  time.Time `gorm:"type:date;not null;index"`
	Bank          string    `gorm:"size:64;not null;index"`
	NomorRekening string    `gorm:"size:64;not null"`
	Nominal       int64     `gorm:"not null"`
	Keterangan    string    `gorm:"size:512"`
	BuktiID       *uint     `gorm:"index"`
	Bukti         *Upload   `gorm:"foreignKey:BuktiID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Kas           []KeuanganKas
}

// NominalOCR is the OCR suggestion from the attached proof.
func (d BankDeposit) NominalOCR() int64 {
	if d.Bukti == nil {
		return 0
	}
	return d.Bukti.OCRAmount
}
