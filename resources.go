package main

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/LittleKatyusha/Sapi-sub004/models"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/datatables"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/forms"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/money"
)

func resourceRoutes() []registrar {
	return []registrar{kasResource, pengajuanResource, bankDepositResource, feedmilResource, ovkResource, tandaTerimaResource}
}

func parseDate(s string) time.Time {
	t, _ := time.ParseInLocation(datatables.DateLayout, strings.TrimSpace(s), time.Local)
	return t
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(datatables.DateLayout)
}

// amount parses a value already checked by the rupiah rule.
func amount(s string) int64 {
	n, _ := money.Parse(s)
	return n
}

func pidOf(id *uint) string {
	if id == nil {
		return ""
	}
	return pids.MustEncode(*id)
}

func ilike(col, v string) datatables.Scope {
	pattern := datatables.ContainsPattern(v)
	return func(q *gorm.DB) *gorm.DB { return q.Where(col+" ILIKE ?", pattern) }
}

func exists(tx *gorm.DB, model any, where string, args ...any) (bool, error) {
	var n int64
	err := tx.Model(model).Where(where, args...).Limit(1).Count(&n).Error
	return n > 0, err
}

// Keuangan kas

var kasResource = &resource[models.KeuanganKas]{
	path: "keuangan-kas",
	table: datatables.Table{
		Searchable:   []string{"nomor_bukti", "keterangan", "jenis", "CAST(nominal AS TEXT)"},
		Orderable:    []string{"", "tanggal", "nomor_bukti", "keterangan", "jenis", "nominal", "status_setor"},
		DefaultOrder: "tanggal",
		DateColumn:   "tanggal",
	},
	amount: "nominal",
	scopes: func(r datatables.Request) []datatables.Scope {
		switch tab := r.Filter("tab"); tab {
		case models.JenisMasuk, models.JenisKeluar:
			return []datatables.Scope{func(q *gorm.DB) *gorm.DB { return q.Where("jenis = ?", tab) }}
		case models.SetorPending, models.SetorPaid, models.SetorDeposited:
			return []datatables.Scope{func(q *gorm.DB) *gorm.DB { return q.Where("status_setor = ?", tab) }}
		}
		return nil
	},
	toJSON: func(m *models.KeuanganKas) gin.H {
		return gin.H{
			"pid":          pids.MustEncode(m.ID),
			"tanggal":      formatDate(m.Tanggal),
			"nomor_bukti":  m.NomorBukti,
			"keterangan":   m.Keterangan,
			"jenis":        m.Jenis,
			"nominal":      m.Nominal,
			"status_setor": m.StatusSetor,
		}
	},
	fill: func(c *gin.Context, tx *gorm.DB, m *models.KeuanganKas, creating bool) error {
		var f forms.KasForm
		if err := bindForm(c, &f); err != nil {
			return err
		}
		if !creating && m.StatusSetor == models.SetorDeposited {
			return rejection("Data yang sudah disetor tidak dapat diubah")
		}
		m.Tanggal = parseDate(f.Tanggal)
		m.NomorBukti = strings.TrimSpace(f.NomorBukti)
		m.Keterangan = strings.TrimSpace(f.Keterangan)
		m.Jenis = f.Jenis
		m.Nominal = amount(f.Nominal)
		if creating {
			m.StatusSetor = models.SetorPending
			m.UserID = currentUserID(c)
		}
		return nil
	},
	inUse: func(tx *gorm.DB, m *models.KeuanganKas) (bool, error) {
		return m.BankDepositID != nil || m.StatusSetor == models.SetorDeposited, nil
	},
	duplicate: "Nomor bukti sudah digunakan",
}

// Pengajuan biaya kas

var pengajuanResource = &resource[models.PengajuanBiayaKas]{
	path: "pengajuan-biaya-kas",
	table: datatables.Table{
		Searchable:   []string{"nomor_pengajuan", "pemohon", "keperluan", "status", "CAST(nominal_pengajuan AS TEXT)"},
		Orderable:    []string{"", "nomor_pengajuan", "tanggal_pengajuan", "pemohon", "keperluan", "nominal_pengajuan", "nominal_disetujui", "status"},
		DefaultOrder: "tanggal_pengajuan",
		DateColumn:   "tanggal_pengajuan",
	},
	amount: "nominal_pengajuan",
	scopes: func(r datatables.Request) []datatables.Scope {
		if s := pengajuanStatusScope(r.Filter("status")); s != nil {
			return []datatables.Scope{s}
		}
		return nil
	},
	toJSON: func(m *models.PengajuanBiayaKas) gin.H {
		return gin.H{
			"pid":               pids.MustEncode(m.ID),
			"nomor_pengajuan":   m.NomorPengajuan,
			"tanggal_pengajuan": formatDate(m.TanggalPengajuan),
			"pemohon":           m.Pemohon,
			"keperluan":         m.Keperluan,
			"nominal_pengajuan": m.NominalPengajuan,
			"nominal_disetujui": m.NominalDisetujui,
			"status":            m.Status,
			"catatan":           m.Catatan,
		}
	},
	fill: func(c *gin.Context, tx *gorm.DB, m *models.PengajuanBiayaKas, creating bool) error {
		var f forms.PengajuanForm
		if err := bindForm(c, &f); err != nil {
			return err
		}
		if !creating && m.Decided() {
			return rejection("Pengajuan yang sudah diproses tidak dapat diubah")
		}
		m.NomorPengajuan = strings.TrimSpace(f.NomorPengajuan)
		m.TanggalPengajuan = parseDate(f.TanggalPengajuan)
		m.Pemohon = strings.TrimSpace(f.Pemohon)
		m.Keperluan = strings.TrimSpace(f.Keperluan)
		m.NominalPengajuan = amount(f.NominalPengajuan)
		m.Catatan = strings.TrimSpace(f.Catatan)
		if creating {
			m.Status = models.PengajuanPending
		}
		return nil
	},
	inUse: func(tx *gorm.DB, m *models.PengajuanBiayaKas) (bool, error) {
		return exists(tx, &models.KeuanganKas{}, "pengajuan_id = ?", m.ID)
	},
	duplicate: "Nomor pengajuan sudah digunakan",
}

// pengajuanStatusScope classifies the free-text status column the same way
// clients do: "sebagian" before "disetujui" before "ditolak".
func pengajuanStatusScope(v string) datatables.Scope {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "":
		return nil
	case "pending":
		return func(q *gorm.DB) *gorm.DB {
			return q.Where("status NOT ILIKE ? AND status NOT ILIKE ?", "%disetujui%", "%ditolak%")
		}
	case "disetujui", "approved":
		return func(q *gorm.DB) *gorm.DB {
			return q.Where("status ILIKE ? AND status NOT ILIKE ?", "%disetujui%", "%sebagian%")
		}
	case "sebagian", "disetujui sebagian":
		return ilike("status", "sebagian")
	case "ditolak", "rejected":
		return func(q *gorm.DB) *gorm.DB {
			return q.Where("status ILIKE ? AND status NOT ILIKE ? AND status NOT ILIKE ?", "%ditolak%", "%disetujui%", "%sebagian%")
		}
	}
	return ilike("status", v)
}

// approvePengajuanHandler decides a pending request. An empty amount
// approves in full; a non-zero approval books a kas keluar row.
func approvePengajuanHandler(c *gin.Context) {
	var p models.PengajuanBiayaKas
	err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := pengajuanResource.load(c, tx, &p); err != nil {
			return err
		}
		var f forms.ApprovalForm
		if err := bindForm(c, &f); err != nil {
			return err
		}
		if p.Decided() {
			return rejection("Pengajuan sudah diproses")
		}
		approved := p.NominalPengajuan
		switch {
		case f.Ditolak:
			approved = 0
		case strings.TrimSpace(f.NominalDisetujui) != "":
			n, err := money.Parse(f.NominalDisetujui)
			if err != nil || n <= 0 {
				return rejection("Nominal disetujui harus berupa angka lebih dari 0")
			}
			approved = n
		}
		if approved > p.NominalPengajuan {
			return rejection("Nominal disetujui melebihi nominal pengajuan")
		}
		now := time.Now()
		p.NominalDisetujui = approved
		p.Status = models.ApprovalStatus(p.NominalPengajuan, approved, f.Ditolak)
		if s := strings.TrimSpace(f.Catatan); s != "" {
			p.Catatan = s
		}
		p.ApprovedAt = &now
		p.ApprovedByID = currentUserID(c)
		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		if approved == 0 {
			return nil
		}
		pid := p.ID
		return tx.Create(&models.KeuanganKas{
			Tanggal:     time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local),
			NomorBukti:  "KK-" + p.NomorPengajuan,
			Keterangan:  p.Keperluan,
			Jenis:       models.JenisKeluar,
			Nominal:     approved,
			StatusSetor: models.SetorPaid,
			PengajuanID: &pid,
			UserID:      currentUserID(c),
		}).Error
	})
	if err != nil {
		pengajuanResource.finish(c, "approve", err)
		return
	}
	respondOK(c, "Pengajuan berhasil diproses", gin.H{"status": p.Status, "nominal_disetujui": p.NominalDisetujui})
}

// Bank deposit

var bankDepositResource = &resource[models.BankDeposit]{
	path: "bank-deposit",
	table: datatables.Table{
		Searchable:   []string{"nomor_setor", "bank", "nomor_rekening", "keterangan", "CAST(nominal AS TEXT)"},
		Orderable:    []string{"", "nomor_setor", "tanggal_setor", "bank", "nomor_rekening", "nominal"},
		DefaultOrder: "tanggal_setor",
		DateColumn:   "tanggal_setor",
	},
	amount:  "nominal",
	preload: []string{"Bukti"},
	scopes: func(r datatables.Request) []datatables.Scope {
		if b := r.Filter("bank"); b != "" {
			return []datatables.Scope{ilike("bank", b)}
		}
		return nil
	},
	toJSON: func(m *models.BankDeposit) gin.H {
		return gin.H{
			"pid":            pids.MustEncode(m.ID),
			"nomor_setor":    m.NomorSetor,
			"tanggal_setor":  formatDate(m.TanggalSetor),
			"bank":           m.Bank,
			"nomor_rekening": m.NomorRekening,
			"nominal":        m.Nominal,
			"keterangan":     m.Keterangan,
			"bukti_pid":      pidOf(m.BuktiID),
			"nominal_ocr":    m.NominalOCR(),
		}
	},
	fill: func(c *gin.Context, tx *gorm.DB, m *models.BankDeposit, creating bool) error {
		var f forms.BankDepositForm
		if err := bindForm(c, &f); err != nil {
			return err
		}
		m.NomorSetor = strings.TrimSpace(f.NomorSetor)
		m.TanggalSetor = parseDate(f.TanggalSetor)
		m.Bank = strings.TrimSpace(f.Bank)
		m.NomorRekening = strings.TrimSpace(f.NomorRekening)
		m.Nominal = amount(f.Nominal)
		m.Keterangan = strings.TrimSpace(f.Keterangan)
		up, err := proofFromRequest(c, tx)
		if err != nil || up == nil {
			return err
		}
		m.BuktiID = &up.ID
		return nil
	},
	afterSave: linkKas,
	beforeDelete: func(tx *gorm.DB, m *models.BankDeposit) error {
		return tx.Model(&models.KeuanganKas{}).Where("bank_deposit_id = ?", m.ID).
			Updates(map[string]any{"bank_deposit_id": nil, "status_setor": models.SetorPending}).Error
	},
	duplicate: "Nomor setor sudah digunakan",
}

// linkKas marks the kas rows named by kas_pid as deposited by m.
func linkKas(c *gin.Context, tx *gorm.DB, m *models.BankDeposit) error {
	raw := c.PostFormArray("kas_pid")
	if len(raw) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(raw))
	for _, p := range raw {
		id, err := pids.Decode(p)
		if err != nil {
			return rejection("Data kas tidak ditemukan")
		}
		ids = append(ids, id)
	}
	res := tx.Model(&models.KeuanganKas{}).
		Where("id IN ? AND jenis = ? AND bank_deposit_id IS NULL", ids, models.JenisMasuk).
		Updates(map[string]any{"bank_deposit_id": m.ID, "status_setor": models.SetorDeposited})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return rejection("Data kas sudah disetor atau tidak ditemukan")
	}
	return nil
}

// Pembelian feedmil

var feedmilResource = &resource[models.PembelianFeedmil]{
	path: "pembelian-feedmil",
	table: datatables.Table{
		Searchable:   []string{"nota", "nama_supplier", "jenis_pakan", "status"},
		Orderable:    []string{"", "nota", "tanggal_masuk", "nama_supplier", "jenis_pakan", "jumlah_kg", "harga_per_kg", "total", "status"},
		DefaultOrder: "tanggal_masuk",
		DateColumn:   "tanggal_masuk",
	},
	amount: "total",
	scopes: supplierScope,
	toJSON: func(m *models.PembelianFeedmil) gin.H {
		return gin.H{
			"pid":           pids.MustEncode(m.ID),
			"nota":          m.Nota,
			"tanggal_masuk": formatDate(m.TanggalMasuk),
			"nama_supplier": m.NamaSupplier,
			"jenis_pakan":   m.JenisPakan,
			"jumlah_kg":     m.JumlahKg,
			"harga_per_kg":  m.HargaPerKg,
			"total":         m.Total,
			"status":        m.Status,
		}
	},
	fill: func(c *gin.Context, tx *gorm.DB, m *models.PembelianFeedmil, creating bool) error {
		var f forms.FeedmilForm
		if err := bindForm(c, &f); err != nil {
			return err
		}
		nota := strings.TrimSpace(f.Nota)
		if !creating && nota != m.Nota && m.Status == models.PembelianDiterima {
			return rejection("Nota sudah memiliki tanda terima")
		}
		m.Nota = nota
		m.TanggalMasuk = parseDate(f.TanggalMasuk)
		m.NamaSupplier = strings.TrimSpace(f.NamaSupplier)
		m.JenisPakan = strings.TrimSpace(f.JenisPakan)
		m.JumlahKg = amount(f.JumlahKg)
		m.HargaPerKg = amount(f.HargaPerKg)
		m.ComputeTotal()
		if creating {
			m.Status = models.PembelianBelumDiterima
		}
		return nil
	},
	inUse: func(tx *gorm.DB, m *models.PembelianFeedmil) (bool, error) {
		return exists(tx, &models.TandaTerima{}, "feedmil_id = ?", m.ID)
	},
	duplicate: "Nota sudah digunakan",
}

func supplierScope(r datatables.Request) []datatables.Scope {
	if s := r.Filter("supplier"); s != "" {
		return []datatables.Scope{ilike("nama_supplier", s)}
	}
	return nil
}

// Pembelian OVK

var ovkResource = &resource[models.PembelianOVK]{
	path: "pembelian-ovk",
	table: datatables.Table{
		Searchable:   []string{"nota", "nama_supplier", "nama_barang", "status"},
		Orderable:    []string{"", "nota", "tanggal", "nama_supplier", "nama_barang", "jumlah", "harga_satuan", "total", "jatuh_tempo", "status"},
		DefaultOrder: "tanggal",
		DateColumn:   "tanggal",
	},
	amount: "total",
	scopes: supplierScope,
	toJSON: func(m *models.PembelianOVK) gin.H {
		due := ""
		if m.JatuhTempo != nil {
			due = formatDate(*m.JatuhTempo)
		}
		return gin.H{
			"pid":           pids.MustEncode(m.ID),
			"nota":          m.Nota,
			"tanggal":       formatDate(m.Tanggal),
			"nama_supplier": m.NamaSupplier,
			"nama_barang":   m.NamaBarang,
			"jumlah":        m.Jumlah,
			"satuan":        m.Satuan,
			"harga_satuan":  m.HargaSatuan,
			"total":         m.Total,
			"jatuh_tempo":   due,
			"status":        m.Status,
		}
	},
	fill: func(c *gin.Context, tx *gorm.DB, m *models.PembelianOVK, creating bool) error {
		var f forms.OVKForm
		if err := bindForm(c, &f); err != nil {
			return err
		}
		nota := strings.TrimSpace(f.Nota)
		if !creating && nota != m.Nota && m.Status == models.PembelianDiterima {
			return rejection("Nota sudah memiliki tanda terima")
		}
		m.Nota = nota
		m.Tanggal = parseDate(f.Tanggal)
		m.NamaSupplier = strings.TrimSpace(f.NamaSupplier)
		m.NamaBarang = strings.TrimSpace(f.NamaBarang)
		m.Jumlah = amount(f.Jumlah)
		m.Satuan = strings.TrimSpace(f.Satuan)
		m.HargaSatuan = amount(f.HargaSatuan)
		m.JatuhTempo = nil
		if due := parseDate(f.JatuhTempo); !due.IsZero() {
			if due.Before(m.Tanggal) {
				return rejection(forms.ErrDueBeforeDate.Error())
			}
			m.JatuhTempo = &due
		}
		m.ComputeTotal()
		if creating {
			m.Status = models.PembelianBelumDiterima
		}
		return nil
	},
	inUse: func(tx *gorm.DB, m *models.PembelianOVK) (bool, error) {
		return exists(tx, &models.TandaTerima{}, "ovk_id = ?", m.ID)
	},
	duplicate: "Nota sudah digunakan",
}

// Tanda terima

var tandaTerimaResource = &resource[models.TandaTerima]{
	path: "tanda-terima",
	table: datatables.Table{
		Searchable:   []string{"nomor_tanda_terima", "nota", "nama_supplier", "penerima", "keterangan"},
		Orderable:    []string{"", "nomor_tanda_terima", "tanggal", "nota", "nama_supplier", "total", "penerima"},
		DefaultOrder: "tanggal",
		DateColumn:   "tanggal",
	},
	amount: "total",
	toJSON: func(m *models.TandaTerima) gin.H {
		return gin.H{
			"pid":                pids.MustEncode(m.ID),
			"nomor_tanda_terima": m.NomorTandaTerima,
			"tanggal":            formatDate(m.Tanggal),
			"nota":               m.Nota,
			"nama_supplier":      m.NamaSupplier,
			"total":              m.Total,
			"penerima":           m.Penerima,
			"keterangan":         m.Keterangan,
		}
	},
	fill: fillTandaTerima,
	afterSave: func(c *gin.Context, tx *gorm.DB, m *models.TandaTerima) error {
		return setNotaStatus(tx, m.FeedmilID, m.OVKID, models.PembelianDiterima)
	},
	beforeDelete: func(tx *gorm.DB, m *models.TandaTerima) error {
		return setNotaStatus(tx, m.FeedmilID, m.OVKID, models.PembelianBelumDiterima)
	},
	duplicate: "Nomor tanda terima sudah digunakan",
}

// fillTandaTerima resolves the nota against feedmil first, then OVK, and
// copies supplier and total from it. A nota gets at most one receipt.
func fillTandaTerima(c *gin.Context, tx *gorm.DB, m *models.TandaTerima, creating bool) error {
	var f forms.TandaTerimaForm
	if err := bindForm(c, &f); err != nil {
		return err
	}
	nota := strings.TrimSpace(f.Nota)
	taken, err := exists(tx, &models.TandaTerima{}, "nota = ? AND id <> ?", nota, m.ID)
	if err != nil {
		return err
	}
	if taken {
		return rejection("Nota sudah memiliki tanda terima")
	}
	prevFeedmil, prevOVK := m.FeedmilID, m.OVKID
	m.FeedmilID, m.OVKID = nil, nil

	var feed models.PembelianFeedmil
	var ovk models.PembelianOVK
	switch {
	case tx.Where("nota = ?", nota).Limit(1).Find(&feed).RowsAffected > 0:
		m.FeedmilID, m.NamaSupplier, m.Total = &feed.ID, feed.NamaSupplier, feed.Total
	case tx.Where("nota = ?", nota).Limit(1).Find(&ovk).RowsAffected > 0:
		m.OVKID, m.NamaSupplier, m.Total = &ovk.ID, ovk.NamaSupplier, ovk.Total
	default:
		return rejection("Nota tidak ditemukan")
	}
	if !creating && nota != m.Nota {
		if err := setNotaStatus(tx, prevFeedmil, prevOVK, models.PembelianBelumDiterima); err != nil {
			return err
		}
	}
	m.Nota = nota
	m.NomorTandaTerima = strings.TrimSpace(f.NomorTandaTerima)
	m.Tanggal = parseDate(f.Tanggal)
	m.Penerima = strings.TrimSpace(f.Penerima)
	m.Keterangan = strings.TrimSpace(f.Keterangan)
	return nil
}

func setNotaStatus(tx *gorm.DB, feedmilID, ovkID *uint, status string) error {
	if feedmilID != nil {
		if err := tx.Model(&models.PembelianFeedmil{}).Where("id = ?", *feedmilID).Update("status", status).Error; err != nil {
			return err
		}
	}
	if ovkID != nil {
		if err := tx.Model(&models.PembelianOVK{}).Where("id = ?", *ovkID).Update("status", status).Error; err != nil {
			return err
		}
	}
	return nil
}
