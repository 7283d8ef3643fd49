package forms

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/money"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/resources"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/transport"
)

// Upload is a proof file picked by the user.
type Upload struct {
	Name    string
	Content []byte
}

type KasForm struct {
	Tanggal    string `form:"tanggal" label:"Tanggal" validate:"filled,datetime=2006-01-02"`
	NomorBukti string `form:"nomor_bukti" label:"Nomor bukti" validate:"filled,max=50"`
	Keterangan string `form:"keterangan" label:"Keterangan" validate:"filled"`
	Jenis      string `form:"jenis" label:"Jenis" validate:"oneof=masuk keluar"`
	Nominal    string `form:"nominal" label:"Nominal" validate:"rupiah"`
}

func KasFormFrom(v resources.Kas) KasForm {
	return KasForm{
		Tanggal:    resources.FormatDate(v.Tanggal),
		NomorBukti: v.NomorBukti,
		Keterangan: v.Keterangan,
		Jenis:      v.Jenis,
		Nominal:    money.Group(v.Nominal),
	}
}

func (f KasForm) Payload() (listresource.Payload, error) {
	fields := url.Values{}
	setTrimmed(fields, "tanggal", f.Tanggal)
	setTrimmed(fields, "nomor_bukti", f.NomorBukti)
	setTrimmed(fields, "keterangan", f.Keterangan)
	setTrimmed(fields, "jenis", f.Jenis)
	if err := setAmount(fields, "nominal", f.Nominal); err != nil {
		return listresource.Payload{}, err
	}
	return listresource.Payload{Fields: fields}, nil
}

type PengajuanForm struct {
	NomorPengajuan   string `form:"nomor_pengajuan" label:"Nomor pengajuan" validate:"filled,max=50"`
	TanggalPengajuan string `form:"tanggal_pengajuan" label:"Tanggal pengajuan" validate:"filled,datetime=2006-01-02"`
	Pemohon          string `form:"pemohon" label:"Pemohon" validate:"filled"`
	Keperluan        string `form:"keperluan" label:"Keperluan" validate:"filled"`
	NominalPengajuan string `form:"nominal_pengajuan" label:"Nominal pengajuan" validate:"rupiah"`
	Catatan          string `form:"catatan"`
}

func PengajuanFormFrom(v resources.Pengajuan) PengajuanForm {
	return PengajuanForm{
		NomorPengajuan:   v.NomorPengajuan,
		TanggalPengajuan: resources.FormatDate(v.TanggalPengajuan),
		Pemohon:          v.Pemohon,
		Keperluan:        v.Keperluan,
		NominalPengajuan: money.Group(v.NominalPengajuan),
		Catatan:          v.Catatan,
	}
}

func (f PengajuanForm) Payload() (listresource.Payload, error) {
	fields := url.Values{}
	setTrimmed(fields, "nomor_pengajuan", f.NomorPengajuan)
	setTrimmed(fields, "tanggal_pengajuan", f.TanggalPengajuan)
	setTrimmed(fields, "pemohon", f.Pemohon)
	setTrimmed(fields, "keperluan", f.Keperluan)
	setTrimmed(fields, "catatan", f.Catatan)
	if err := setAmount(fields, "nominal_pengajuan", f.NominalPengajuan); err != nil {
		return listresource.Payload{}, err
	}
	return listresource.Payload{Fields: fields}, nil
}

// ApprovalForm decides a pengajuan. Leaving the amount empty approves the
// full request; Ditolak rejects it.
type ApprovalForm struct {
	NominalDisetujui string `form:"nominal_disetujui"`
	Ditolak          bool   `form:"ditolak"`
	Catatan          string `form:"catatan" label:"Catatan" validate:"required_if=Ditolak true"`
}

func (f ApprovalForm) Payload() (listresource.Payload, error) {
	fields := url.Values{}
	fields.Set("ditolak", strconv.FormatBool(f.Ditolak))
	setTrimmed(fields, "catatan", f.Catatan)
	if !f.Ditolak && strings.TrimSpace(f.NominalDisetujui) != "" {
		if err := setAmount(fields, "nominal_disetujui", f.NominalDisetujui); err != nil {
			return listresource.Payload{}, err
		}
	}
	return listresource.Payload{Fields: fields}, nil
}

type BankDepositForm struct {
	NomorSetor    string  `form:"nomor_setor" label:"Nomor setor" validate:"filled,max=50"`
	TanggalSetor  string  `form:"tanggal_setor" label:"Tanggal setor" validate:"filled,datetime=2006-01-02"`
	Bank          string  `form:"bank" label:"Bank" validate:"filled"`
	NomorRekening string  `form:"nomor_rekening" label:"Nomor rekening" validate:"filled"`
	Nominal       string  `form:"nominal" label:"Nominal" validate:"rupiah"`
	Keterangan    string  `form:"keterangan"`
	Bukti         *Upload `form:"-"`
}

func BankDepositFormFrom(v resources.BankDeposit) BankDepositForm {
	return BankDepositForm{
		NomorSetor:    v.NomorSetor,
		TanggalSetor:  resources.FormatDate(v.TanggalSetor),
		Bank:          v.Bank,
		NomorRekening: v.NomorRekening,
		Nominal:       money.Group(v.Nominal),
		Keterangan:    v.Keterangan,
	}
}

// Payload fails fast on a proof the server would reject anyway.
func (f BankDepositForm) Payload() (listresource.Payload, error) {
	fields := url.Values{}
	setTrimmed(fields, "nomor_setor", f.NomorSetor)
	setTrimmed(fields, "tanggal_setor", f.TanggalSetor)
	setTrimmed(fields, "bank", f.Bank)
	setTrimmed(fields, "nomor_rekening", f.NomorRekening)
	setTrimmed(fields, "keterangan", f.Keterangan)
	if err := setAmount(fields, "nominal", f.Nominal); err != nil {
		return listresource.Payload{}, err
	}
	p := listresource.Payload{Fields: fields}
	if f.Bukti != nil {
		if err := CheckUpload(f.Bukti.Name, int64(len(f.Bukti.Content))); err != nil {
			return listresource.Payload{}, err
		}
		p.Files = append(p.Files, transport.File{
			Field:    "bukti",
			Name:     f.Bukti.Name,
			Content:  bytes.NewReader(f.Bukti.Content),
			MimeType: MimeType(f.Bukti.Name),
		})
	}
	return p, nil
}

type FeedmilForm struct {
	Nota         string `form:"nota" label:"Nota" validate:"filled,max=50"`
	TanggalMasuk string `form:"tanggal_masuk" label:"Tanggal masuk" validate:"filled,datetime=2006-01-02"`
	NamaSupplier string `form:"nama_supplier" label:"Nama supplier" validate:"filled"`
	JenisPakan   string `form:"jenis_pakan" label:"Jenis pakan" validate:"filled"`
	JumlahKg     string `form:"jumlah_kg" label:"Jumlah (kg)" validate:"rupiah"`
	HargaPerKg   string `form:"harga_per_kg" label:"Harga per kg" validate:"rupiah"`
	Status       string `form:"status"`
}

func (f FeedmilForm) Payload() (listresource.Payload, error) {
	fields := url.Values{}
	setTrimmed(fields, "nota", f.Nota)
	setTrimmed(fields, "tanggal_masuk", f.TanggalMasuk)
	setTrimmed(fields, "nama_supplier", f.NamaSupplier)
	setTrimmed(fields, "jenis_pakan", f.JenisPakan)
	setTrimmed(fields, "status", f.Status)
	for k, v := range map[string]string{"jumlah_kg": f.JumlahKg, "harga_per_kg": f.HargaPerKg} {
		if err := setAmount(fields, k, v); err != nil {
			return listresource.Payload{}, err
		}
	}
	return listresource.Payload{Fields: fields}, nil
}

var ErrDueBeforeDate = errors.New("Jatuh tempo tidak boleh sebelum tanggal transaksi")

type OVKForm struct {
	Nota         string `form:"nota" label:"Nota" validate:"filled,max=50"`
	Tanggal      string `form:"tanggal" label:"Tanggal" validate:"filled,datetime=2006-01-02"`
	NamaSupplier string `form:"nama_supplier" label:"Nama supplier" validate:"filled"`
	NamaBarang   string `form:"nama_barang" label:"Nama barang" validate:"filled"`
	Jumlah       string `form:"jumlah" label:"Jumlah" validate:"rupiah"`
	Satuan       string `form:"satuan" label:"Satuan" validate:"filled"`
	HargaSatuan  string `form:"harga_satuan" label:"Harga satuan" validate:"rupiah"`
	JatuhTempo   string `form:"jatuh_tempo" label:"Jatuh tempo" validate:"omitempty,datetime=2006-01-02"`
	Status       string `form:"status"`
}

func (f OVKForm) Payload() (listresource.Payload, error) {
	fields := url.Values{}
	setTrimmed(fields, "nota", f.Nota)
	setTrimmed(fields, "tanggal", f.Tanggal)
	setTrimmed(fields, "nama_supplier", f.NamaSupplier)
	setTrimmed(fields, "nama_barang", f.NamaBarang)
	setTrimmed(fields, "satuan", f.Satuan)
	setTrimmed(fields, "jatuh_tempo", f.JatuhTempo)
	setTrimmed(fields, "status", f.Status)
	if f.JatuhTempo != "" && f.JatuhTempo < f.Tanggal {
		return listresource.Payload{}, ErrDueBeforeDate
	}
	for k, v := range map[string]string{"jumlah": f.Jumlah, "harga_satuan": f.HargaSatuan} {
		if err := setAmount(fields, k, v); err != nil {
			return listresource.Payload{}, err
		}
	}
	return listresource.Payload{Fields: fields}, nil
}

type TandaTerimaForm struct {
	NomorTandaTerima string `form:"nomor_tanda_terima" label:"Nomor tanda terima" validate:"filled,max=50"`
	Tanggal          string `form:"tanggal" label:"Tanggal" validate:"filled,datetime=2006-01-02"`
	Nota             string `form:"nota" label:"Nota" validate:"filled"`
	Penerima         string `form:"penerima" label:"Penerima" validate:"filled"`
	Keterangan       string `form:"keterangan"`
}

func (f TandaTerimaForm) Payload() (listresource.Payload, error) {
	fields := url.Values{}
	setTrimmed(fields, "nomor_tanda_terima", f.NomorTandaTerima)
	setTrimmed(fields, "tanggal", f.Tanggal)
	setTrimmed(fields, "nota", f.Nota)
	setTrimmed(fields, "penerima", f.Penerima)
	setTrimmed(fields, "keterangan", f.Keterangan)
	return listresource.Payload{Fields: fields}, nil
}

func setTrimmed(v url.Values, key, s string) {
	v.Set(key, strings.TrimSpace(s))
}

func setAmount(v url.Values, key, s string) error {
	n, err := money.Parse(s)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	v.Set(key, strconv.FormatInt(n, 10))
	return nil
}

func FeedmilFormFrom(v resources.Feedmil) FeedmilForm {
	return FeedmilForm{
		Nota:         v.Nota,
		TanggalMasuk: resources.FormatDate(v.TanggalMasuk),
		NamaSupplier: v.NamaSupplier,
		JenisPakan:   v.JenisPakan,
		JumlahKg:     money.Group(v.JumlahKg),
		HargaPerKg:   money.Group(v.HargaPerKg),
		Status:       v.Status,
	}
}

func OVKFormFrom(v resources.OVK) OVKForm {
	return OVKForm{
		Nota:         v.Nota,
		Tanggal:      resources.FormatDate(v.Tanggal),
		NamaSupplier: v.NamaSupplier,
		NamaBarang:   v.NamaBarang,
		Jumlah:       money.Group(v.Jumlah),
		Satuan:       v.Satuan,
		HargaSatuan:  money.Group(v.HargaSatuan),
		JatuhTempo:   resources.FormatDate(v.JatuhTempo),
		Status:       v.Status,
	}
}

func TandaTerimaFormFrom(v resources.TandaTerima) TandaTerimaForm {
	return TandaTerimaForm{
		NomorTandaTerima: v.NomorTandaTerima,
		Tanggal:          resources.FormatDate(v.Tanggal),
		Nota:             v.Nota,
		Penerima:         v.Penerima,
		Keterangan:       v.Keterangan,
	}
}
