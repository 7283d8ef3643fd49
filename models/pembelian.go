package models

import "time"

const (
	PembelianBelumDiterima = "belum diterima"
	PembelianDiterima      = "diterima"
)

// PembelianFeedmil is a feed purchase. Total is jumlah_kg * harga_per_kg.
type PembelianFeedmil struct {
	Base
	Nota         string    `gorm:"size:50;not null;uniqueIndex"`
	TanggalMasuk time.Time `gorm:"type:date;not null;index"`
	NamaSupplier string    `gorm:"size:255;not null;index"`
	JenisPakan   string    `gorm:"size:255;not null"`
	JumlahKg     int64     `gorm:"not null"`
	HargaPerKg   int64     `gorm:"not null"`
	Total        int64     `gorm:"not null"`
	Status       string    `gorm:"size:32;not null;default:'belum diterima'"`
}

func (PembelianFeedmil) TableName() string { return "pembelian_feedmil" }

func (p *PembelianFeedmil) ComputeTotal() { p.Total = p.JumlahKg * p.HargaPerKg }

// PembelianOVK is a purchase of medicine and vaccines (obat, vaksin, kimia).
type PembelianOVK struct {
	Base
	Nota         string     `gorm:"size:50;not null;uniqueIndex"`
	Tanggal      time.Time  `gorm:"type:date;not null;index"`
	NamaSupplier string     `gorm:"size:255;not null;index"`
	NamaBarang   string     `gorm:"size:255;not null"`
	Jumlah       int64      `gorm:"not null"`
	Satuan       string     `gorm:"size:32;not null"`
	HargaSatuan  int64      `gorm:"not null"`
	Total        int64      `gorm:"not null"`
	JatuhTempo   *time.Time `gorm:"type:date"`
	Status       string     `gorm:"size:32;not null;default:'belum diterima'"`
}

func (PembelianOVK) TableName() string { return "pembelian_ovk" }

func (p *PembelianOVK) ComputeTotal() { p.Total = p.Jumlah * p.HargaSatuan }
