package resources

import (
	"net/url"
	"time"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
)

type BankDepositWire struct {
	PID           Text   `json:"pid"`
	NomorSetor    Text   `json:"nomor_setor"`
	TanggalSetor  Text   `json:"tanggal_setor"`
	Bank          Text   `json:"bank"`
	NomorRekening Text   `json:"nomor_rekening"`
	Nominal       Amount `json:"nominal"`
	Keterangan    Text   `json:"keterangan"`
	BuktiPID      Text   `json:"bukti_pid"`
	NominalOCR    Amount `json:"nominal_ocr"`
}

type BankDeposit struct {
	PID           string
	NomorSetor    string
	TanggalSetor  time.Time
	Bank          string
	NomorRekening string
	Nominal       int64
	Keterangan    string
	BuktiPID      string
	// NominalOCR is read from the proof image; a hint, not the amount.
	NominalOCR int64
}

// HasProof reports whether a proof file is attached.
func (d BankDeposit) HasProof() bool { return d.BuktiPID != "" }

// OCRMismatch is true when the proof was read and disagrees with Nominal.
func (d BankDeposit) OCRMismatch() bool { return d.NominalOCR > 0 && d.NominalOCR != d.Nominal }

func BankDepositToView(w BankDepositWire) BankDeposit {
	return BankDeposit{
		PID:           string(w.PID),
		NomorSetor:    string(w.NomorSetor),
		TanggalSetor:  ParseDate(string(w.TanggalSetor)),
		Bank:          string(w.Bank),
		NomorRekening: string(w.NomorRekening),
		Nominal:       int64(w.Nominal),
		Keterangan:    string(w.Keterangan),
		BuktiPID:      string(w.BuktiPID),
		NominalOCR:    int64(w.NominalOCR),
	}
}

func BankDepositToWire(v BankDeposit) url.Values {
	return url.Values{
		"nomor_setor":    {v.NomorSetor},
		"tanggal_setor":  {FormatDate(v.TanggalSetor)},
		"bank":           {v.Bank},
		"nomor_rekening": {v.NomorRekening},
		"nominal":        {itoa(v.Nominal)},
		"keterangan":     {v.Keterangan},
	}
}

var BankDepositEndpoint = listresource.Endpoint{Name: "bank-deposit", Base: "/api/bank-deposit"}

func NewBankDepositSource(tr listresource.Transport) *listresource.HTTPSource[BankDepositWire, BankDeposit] {
	return &listresource.HTTPSource[BankDepositWire, BankDeposit]{Client: tr, Endpoint: BankDepositEndpoint, ToView: BankDepositToView}
}
