package models

import "time"

// Base is embedded by every business table. The numeric ID never leaves the
// server; handlers expose it as an encrypted pid.
type Base struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b Base) PK() uint { return b.ID }

// Keyed is satisfied by every model embedding Base.
type Keyed interface {
	PK() uint
}

// Business lists the tables migrated after users and roles, in FK order.
func Business() []any {
	return []any{
		&Upload{},
		&PengajuanBiayaKas{},
		&BankDeposit{},
		&KeuanganKas{},
		&PembelianFeedmil{},
		&PembelianOVK{},
		&TandaTerima{},
	}
}
