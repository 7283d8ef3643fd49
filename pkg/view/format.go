package view

import (
	"fmt"
	"time"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/money"
)

var bulan = [...]string{"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember"}

// Rupiah formats a whole amount as "Rp 1.500.000".
func Rupiah(n int64) string { return money.Format(n) }

// Tanggal formats t as "2 Mei 2024", "-" for the zero time.
func Tanggal(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d %s %d", t.Day(), bulan[t.Month()-1], t.Year())
}

// TanggalPendek formats t as "02/05/2024".
func TanggalPendek(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}

// Dash replaces empty text with "-".
func Dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
