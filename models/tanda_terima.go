package models

import "time"

// TandaTerima acknowledges delivery of a feedmil or OVK nota. Exactly one of
// FeedmilID and OVKID is set; both are RESTRICT so a referenced nota cannot
// be deleted.
type TandaTerima struct {
	Base
	NomorTandaTerima string    `gorm:"size:50;not null;uniqueIndex"`
	Tanggal          time.Time `gorm:"type:date;not null;index"`
	Nota             string    `gorm:"size:50;not null;index"`
	NamaSupplier     string    `gorm:"size:255"`
	Total            int64
	Penerima         string            `gorm:"size:255;not null"`
	Keterangan       string            `gorm:"size:512"`
	FeedmilID        *uint             `gorm:"index"`
	Feedmil          *PembelianFeedmil `gorm:"foreignKey:FeedmilID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	OVKID            *uint             `gorm:"column:ovk_id;index"`
	OVK              *PembelianOVK     `gorm:"foreignKey:OVKID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

func (TandaTerima) TableName() string { return "tanda_terima" }
