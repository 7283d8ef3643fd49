package view

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	r "github.com/LittleKatyusha/Sapi-sub004/pkg/resources"
)

func KasTable() Table[r.Kas] {
	return Table[r.Kas]{Numbered: true, Columns: []Column[r.Kas]{
		{Title: "Tanggal", Cell: func(k r.Kas) string { return Tanggal(k.Tanggal) }},
		{Title: "No. Bukti", Cell: func(k r.Kas) string { return Dash(k.NomorBukti) }},
		{Title: "Keterangan", Cell: func(k r.Kas) string { return Dash(k.Keterangan) }},
		{Title: "Jenis", Cell: func(k r.Kas) string {
			if k.Jenis == r.JenisKeluar {
				return "Keluar"
			}
			return "Masuk"
		}},
		{Title: "Nominal", Right: true, Cell: func(k r.Kas) string { return Rupiah(k.Nominal) }},
		{Title: "Setor", Cell: func(k r.Kas) string { return setorLabel(k.StatusSetor) }},
	}}
}

func setorLabel(s string) string {
	switch s {
	case r.SetorPaid:
		return "Dibayar"
	case r.SetorDeposited:
		return "Disetor"
	}
	return "Belum disetor"
}

func PengajuanTable() Table[r.Pengajuan] {
	return Table[r.Pengajuan]{Numbered: true, Columns: []Column[r.Pengajuan]{
		{Title: "No. Pengajuan", Cell: func(p r.Pengajuan) string { return Dash(p.NomorPengajuan) }},
		{Title: "Tanggal", Cell: func(p r.Pengajuan) string { return Tanggal(p.TanggalPengajuan) }},
		{Title: "Pemohon", Cell: func(p r.Pengajuan) string { return Dash(p.Pemohon) }},
		{Title: "Keperluan", Cell: func(p r.Pengajuan) string { return Dash(p.Keperluan) }},
		{Title: "Diajukan", Right: true, Cell: func(p r.Pengajuan) string { return Rupiah(p.NominalPengajuan) }},
		{Title: "Disetujui", Right: true, Cell: func(p r.Pengajuan) string { return Rupiah(p.NominalDisetujui) }},
		{
			Title: "Status",
			Cell:  func(p r.Pengajuan) string { return p.Badge().Label },
			Style: func(p r.Pengajuan) lipgloss.Style { return BadgeStyle(p.Badge()) },
		},
	}}
}

func BankDepositTable() Table[r.BankDeposit] {
	return Table[r.BankDeposit]{Numbered: true, Columns: []Column[r.BankDeposit]{
		{Title: "No. Setor", Cell: func(d r.BankDeposit) string { return Dash(d.NomorSetor) }},
		{Title: "Tanggal", Cell: func(d r.BankDeposit) string { return Tanggal(d.TanggalSetor) }},
		{Title: "Bank", Cell: func(d r.BankDeposit) string { return Dash(d.Bank) }},
		{Title: "Rekening", Cell: func(d r.BankDeposit) string { return Dash(d.NomorRekening) }},
		{Title: "Nominal", Right: true, Cell: func(d r.BankDeposit) string { return Rupiah(d.Nominal) }},
		{
			Title: "Bukti",
			Cell: func(d r.BankDeposit) string {
				switch {
				case !d.HasProof():
					return "-"
				case d.OCRMismatch():
					return "Ada (OCR " + Rupiah(d.NominalOCR) + ")"
				}
				return "Ada"
			},
			Style: func(d r.BankDeposit) lipgloss.Style {
				if d.OCRMismatch() {
					return lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308"))
				}
				return lipgloss.NewStyle()
			},
		},
	}}
}

func FeedmilTable() Table[r.Feedmil] {
	return Table[r.Feedmil]{Numbered: true, Columns: []Column[r.Feedmil]{
		{Title: "Nota", Cell: func(f r.Feedmil) string { return Dash(f.Nota) }},
		{Title: "Tanggal Masuk", Cell: func(f r.Feedmil) string { return Tanggal(f.TanggalMasuk) }},
		{Title: "Supplier", Cell: func(f r.Feedmil) string { return Dash(f.NamaSupplier) }},
		{Title: "Jenis Pakan", Cell: func(f r.Feedmil) string { return Dash(f.JenisPakan) }},
		{Title: "Jumlah (kg)", Right: true, Cell: func(f r.Feedmil) string { return strconv.FormatInt(f.JumlahKg, 10) }},
		{Title: "Total", Right: true, Cell: func(f r.Feedmil) string { return Rupiah(f.Total) }},
		{Title: "Status", Cell: func(f r.Feedmil) string { return Dash(f.Status) }},
	}}
}

func OVKTable() Table[r.OVK] {
	return Table[r.OVK]{Numbered: true, Columns: []Column[r.OVK]{
		{Title: "Nota", Cell: func(o r.OVK) string { return Dash(o.Nota) }},
		{Title: "Tanggal", Cell: func(o r.OVK) string { return Tanggal(o.Tanggal) }},
		{Title: "Supplier", Cell: func(o r.OVK) string { return Dash(o.NamaSupplier) }},
		{Title: "Barang", Cell: func(o r.OVK) string { return Dash(o.NamaBarang) }},
		{Title: "Jumlah", Right: true, Cell: func(o r.OVK) string {
			return strconv.FormatInt(o.Jumlah, 10) + " " + o.Satuan
		}},
		{Title: "Total", Right: true, Cell: func(o r.OVK) string { return Rupiah(o.Total) }},
		{Title: "Jatuh Tempo", Cell: func(o r.OVK) string { return TanggalPendek(o.JatuhTempo) }},
		{Title: "Status", Cell: func(o r.OVK) string { return Dash(o.Status) }},
	}}
}

func TandaTerimaTable() Table[r.TandaTerima] {
	return Table[r.TandaTerima]{Numbered: true, Columns: []Column[r.TandaTerima]{
		{Title: "No. Tanda Terima", Cell: func(t r.TandaTerima) string { return Dash(t.NomorTandaTerima) }},
		{Title: "Tanggal", Cell: func(t r.TandaTerima) string { return Tanggal(t.Tanggal) }},
		{Title: "Nota", Cell: func(t r.TandaTerima) string { return Dash(t.Nota) }},
		{Title: "Supplier", Cell: func(t r.TandaTerima) string { return Dash(t.NamaSupplier) }},
		{Title: "Total", Right: true, Cell: func(t r.TandaTerima) string { return Rupiah(t.Total) }},
		{Title: "Penerima", Cell: func(t r.TandaTerima) string { return Dash(t.Penerima) }},
	}}
}
