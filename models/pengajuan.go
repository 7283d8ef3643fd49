package models

import "time"

const (
	PengajuanPending   = "Pending"
	PengajuanDisetujui = "Disetujui"
	PengajuanSebagian  = "Disetujui Sebagian"
	PengajuanDitolak   = "Ditolak"
)

// PengajuanBiayaKas is a cash expense request. Status is free text derived
// on approval; clients classify it themselves.
type PengajuanBiayaKas struct {
	Base
	NomorPengajuan   string    `gorm:"size:50;not null;uniqueIndex"`
	TanggalPengajuan time.Time `gorm:"type:date;not null;index"`
	Pemohon          string    `gorm:"size:255;not null"`
	Keperluan        string    `gorm:"size:512;not null"`
	NominalPengajuan int64     `gorm:"not null"`
	NominalDisetujui int64
	Status           string `gorm:"size:64;not null;default:Pending;index"`
	Catatan          string `gorm:"size:512"`
	ApprovedByID     *uint
	ApprovedAt       *time.Time
}

func (PengajuanBiayaKas) TableName() string { return "pengajuan_biaya_kas" }

// Decided reports whether the request already went through approval.
func (p PengajuanBiayaKas) Decided() bool { return p.ApprovedAt != nil }

// ApprovalStatus derives the status text from the approved amount.
func ApprovalStatus(requested, approved int64, rejected bool) string {
	switch {
	case rejected || approved <= 0:
		return PengajuanDitolak
	case approved < requested:
		return PengajuanSebagian
	default:
		return PengajuanDisetujui
	}
}
