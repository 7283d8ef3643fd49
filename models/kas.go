package models

import "time"

const (
	JenisMasuk  = "masuk"
	JenisKeluar = "keluar"

	SetorPending   = "pending"
	SetorPaid      = "paid"
	SetorDeposited = "deposited"
)

// KeuanganKas is one petty cash movement. Rows linked to a bank deposit are
// deposited and cannot be deleted.
type KeuanganKas struct {
	Base
	Tanggal       time.Time `gorm:"type:date;not null;index"`
	NomorBukti    string    `gorm:"size:50;not null;uniqueIndex"`
	Keterangan    string    `gorm:"size:512"`
	Jenis         string    `gorm:"size:10;not null;index"`
	Nominal       int64     `gorm:"not null"`
	StatusSetor   string    `gorm:"size:16;not null;default:pending;index"`
	BankDepositID *uint     `gorm:"index"`
	BankDeposit   *BankDeposit
	PengajuanID   *uint `gorm:"index"`
	Pengajuan     *PengajuanBiayaKas
	UserID        *uint `gorm:"index"`
}

func (KeuanganKas) TableName() string { return "keuangan_kas" }
