package forms

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
)

func validPengajuan() PengajuanForm {
	return PengajuanForm{
		NomorPengajuan:   "PBK-001",
		TanggalPengajuan: "2024-05-02",
		Pemohon:          "Andi",
		Keperluan:        "Obat ternak",
		NominalPengajuan: "1.500.000",
	}
}

func TestMissingRequiredFieldBlocksSubmit(t *testing.T) {
	calls := 0
	m := NewModal[PengajuanForm](func(ctx context.Context, p listresource.Payload) Outcome {
		calls++
		return Outcome{OK: true}
	})
	f := validPengajuan()
	f.NomorPengajuan = "   "
	m.Open(f)

	out := m.Submit(context.Background())
	assert.False(t, out.OK)
	assert.Zero(t, calls)
	assert.Equal(t, Idle, m.Phase())
	assert.Equal(t, "Nomor pengajuan harus diisi", m.Errors()["nomor_pengajuan"])
}

func TestValidSubmitSendsParsedAmountAndCloses(t *testing.T) {
	var got listresource.Payload
	m := NewModal[PengajuanForm](func(ctx context.Context, p listresource.Payload) Outcome {
		got = p
		return Outcome{OK: true, Message: "Data berhasil disimpan"}
	})
	m.Open(validPengajuan())

	out := m.Submit(context.Background())
	require.True(t, out.OK)
	assert.Equal(t, Closed, m.Phase())
	assert.Equal(t, "1500000", got.Fields.Get("nominal_pengajuan"))
	assert.Equal(t, "PBK-001", got.Fields.Get("nomor_pengajuan"))
}

func TestFailedSubmitReturnsToIdleWithMessage(t *testing.T) {
	m := NewModal[PengajuanForm](func(ctx context.Context, p listresource.Payload) Outcome {
		return Outcome{Message: "Nomor pengajuan sudah digunakan"}
	})
	m.Open(validPengajuan())

	m.Submit(context.Background())
	assert.Equal(t, Idle, m.Phase())
	assert.Equal(t, "Nomor pengajuan sudah digunakan", m.SubmitError())
}

func TestCloseIsIgnoredWhileSubmitting(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	m := NewModal[PengajuanForm](func(ctx context.Context, p listresource.Payload) Outcome {
		close(entered)
		<-release
		return Outcome{OK: true}
	})
	m.Open(validPengajuan())

	done := make(chan Outcome, 1)
	go func() { done <- m.Submit(context.Background()) }()
	<-entered

	assert.True(t, m.Busy())
	assert.False(t, m.Close())
	assert.Equal(t, Submitting, m.Phase())
	second := m.Submit(context.Background())
	assert.False(t, second.OK)

	close(release)
	require.True(t, (<-done).OK)
	assert.Equal(t, Closed, m.Phase())
}

func TestValidationMessages(t *testing.T) {
	errs := Validate(KasForm{Tanggal: "02-05-2024", Jenis: "transfer", Nominal: "abc"})
	assert.Equal(t, "Tanggal tidak valid", errs["tanggal"])
	assert.Equal(t, "Nomor bukti harus diisi", errs["nomor_bukti"])
	assert.Equal(t, "Jenis harus salah satu dari: masuk, keluar", errs["jenis"])
	assert.Equal(t, "Nominal harus berupa angka lebih dari 0", errs["nominal"])

	errs = Validate(ApprovalForm{Ditolak: true})
	assert.Equal(t, "Catatan harus diisi", errs["catatan"])
	assert.Empty(t, Validate(ApprovalForm{NominalDisetujui: "500.000"}))
}

func TestUploadRules(t *testing.T) {
	assert.NoError(t, CheckUpload("bukti.JPG", 1024))
	assert.NoError(t, CheckUpload("bukti.pdf", MaxUploadSize))
	assert.ErrorIs(t, CheckUpload("bukti.gif", 10), ErrUploadType)
	assert.ErrorIs(t, CheckUpload("bukti", 10), ErrUploadType)
	assert.ErrorIs(t, CheckUpload("bukti.png", MaxUploadSize+1), ErrUploadSize)
}

func TestBankDepositPayloadAttachesProof(t *testing.T) {
	f := BankDepositForm{
		NomorSetor: "ST-9", TanggalSetor: "2024-05-02", Bank: "BRI", NomorRekening: "001",
		Nominal: "Rp 2.500.000", Bukti: &Upload{Name: "bukti.png", Content: []byte("png")},
	}
	require.Empty(t, Validate(f))
	p, err := f.Payload()
	require.NoError(t, err)
	assert.Equal(t, "2500000", p.Fields.Get("nominal"))
	require.Len(t, p.Files, 1)
	assert.Equal(t, "bukti", p.Files[0].Field)
	assert.Equal(t, "image/png", p.Files[0].MimeType)

	f.Bukti = &Upload{Name: "big.pdf", Content: bytes.Repeat([]byte{0}, MaxUploadSize+1)}
	_, err = f.Payload()
	assert.ErrorIs(t, err, ErrUploadSize)
}

func TestOVKDueDateOrder(t *testing.T) {
	f := OVKForm{Nota: "N1", Tanggal: "2024-05-10", NamaSupplier: "S", NamaBarang: "Vaksin",
		Jumlah: "3", Satuan: "botol", HargaSatuan: "50.000", JatuhTempo: "2024-05-01"}
	require.Empty(t, Validate(f))
	_, err := f.Payload()
	assert.ErrorIs(t, err, ErrDueBeforeDate)

	f.JatuhTempo = ""
	p, err := f.Payload()
	require.NoError(t, err)
	assert.Equal(t, "50000", p.Fields.Get("harga_satuan"))
}

func TestApprovalPayload(t *testing.T) {
	p, err := ApprovalForm{NominalDisetujui: "750.000"}.Payload()
	require.NoError(t, err)
	assert.Equal(t, "750000", p.Fields.Get("nominal_disetujui"))
	assert.Equal(t, "false", p.Fields.Get("ditolak"))

	p, err = ApprovalForm{Ditolak: true, Catatan: "Tidak sesuai", NominalDisetujui: "1"}.Payload()
	require.NoError(t, err)
	assert.Empty(t, p.Fields.Get("nominal_disetujui"))
}
