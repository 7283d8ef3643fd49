// Package report computes month-bounded totals across the back-office tables.
package report

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gorm.io/gorm"

	"github.com/LittleKatyusha/Sapi-sub004/models"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/money"
)

// Line is one row of the report.
type Line struct {
	Name  string
	Count int64
	Total int64
}

type Report struct {
	Month time.Time
	Lines []Line
}

type section struct {
	name   string
	table  string
	date   string
	amount string
	where  string
	args   []any
}

var sections = []section{
	{name: "Kas masuk", table: "keuangan_kas", date: "tanggal", amount: "nominal", where: "jenis = ?", args: []any{models.JenisMasuk}},
	{name: "Kas keluar", table: "keuangan_kas", date: "tanggal", amount: "nominal", where: "jenis = ?", args: []any{models.JenisKeluar}},
	{name: "Pengajuan diajukan", table: "pengajuan_biaya_kas", date: "tanggal_pengajuan", amount: "nominal_pengajuan"},
	{name: "Pengajuan disetujui", table: "pengajuan_biaya_kas", date: "tanggal_pengajuan", amount: "nominal_disetujui",
		where: "status IN ?", args: []any{[]string{models.PengajuanDisetujui, models.PengajuanSebagian}}},
	{name: "Setoran bank", table: "bank_deposits", date: "tanggal_setor", amount: "nominal"},
	{name: "Pembelian feedmil", table: "pembelian_feedmil", date: "tanggal_masuk", amount: "total"},
	{name: "Pembelian OVK", table: "pembelian_ovk", date: "tanggal", amount: "total"},
	{name: "Tanda terima", table: "tanda_terima", date: "tanggal", amount: "total"},
}

// ParseMonth accepts YYYY-MM.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return t, nil
}

// Bounds returns [first day of month, first day of next month).
func Bounds(month time.Time) (time.Time, time.Time) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Monthly runs one COUNT/SUM query per section.
func Monthly(ctx context.Context, db *gorm.DB, month time.Time) (Report, error) {
	start, end := Bounds(month)
	rep := Report{Month: start}
	for _, s := range sections {
		q := db.WithContext(ctx).Table(s.table).
			Where(s.date+" >= ? AND "+s.date+" < ?", start, end)
		if s.where != "" {
			q = q.Where(s.where, s.args...)
		}
		var out struct {
			Count int64
			Total int64
		}
		err := q.Select("COUNT(*) AS count, COALESCE(SUM(" + s.amount + "), 0) AS total").Scan(&out).Error
		if err != nil {
			return Report{}, fmt.Errorf("%s: %w", s.name, err)
		}
		rep.Lines = append(rep.Lines, Line{Name: s.name, Count: out.Count, Total: out.Total})
	}
	return rep, nil
}

// Balance is kas masuk minus kas keluar.
func (r Report) Balance() int64 {
	var b int64
	for _, l := range r.Lines {
		switch l.Name {
		case "Kas masuk":
			b += l.Total
		case "Kas keluar":
			b -= l.Total
		}
	}
	return b
}

func (r Report) Write(w io.Writer) error {
	fmt.Fprintf(w, "Laporan bulan %s\n", r.Month.Format("2006-01"))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tJumlah\tTotal\t")
	for _, l := range r.Lines {
		fmt.Fprintf(tw, "%s\t%d\t%s\t\n", l.Name, l.Count, money.Format(l.Total))
	}
	fmt.Fprintf(tw, "Saldo kas\t\t%s\t\n", money.Format(r.Balance()))
	return tw.Flush()
}

// ListKas writes the kas rows of the month, one per line.
func ListKas(ctx context.Context, db *gorm.DB, month time.Time, w io.Writer) error {
	start, end := Bounds(month)
	var rows []models.KeuanganKas
	err := db.WithContext(ctx).Where("tanggal >= ? AND tanggal < ?", start, end).
		Order("tanggal, id").Find(&rows).Error
	if err != nil {
		return err
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%d|%s|%s|%s|%d|%s\n", r.ID, r.Tanggal.Format("2006-01-02"), r.NomorBukti, r.Jenis, r.Nominal, r.StatusSetor)
	}
	return nil
}
