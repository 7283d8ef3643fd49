package resources

import (
	"net/url"
	"time"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
)

// Kas movement directions.
const (
	JenisMasuk  = "masuk"
	JenisKeluar = "keluar"
)

// Deposit states of a kas row. Tabs of the kas page map to these.
const (
	SetorPending   = "pending"
	SetorPaid      = "paid"
	SetorDeposited = "deposited"
)

type KasWire struct {
	PID         Text   `json:"pid"`
	Tanggal     Text   `json:"tanggal"`
	NomorBukti  Text   `json:"nomor_bukti"`
	Keterangan  Text   `json:"keterangan"`
	Jenis       Text   `json:"jenis"`
	Nominal     Amount `json:"nominal"`
	StatusSetor Text   `json:"status_setor"`
}

type Kas struct {
	PID         string
	Tanggal     time.Time
	NomorBukti  string
	Keterangan  string
	Jenis       string
	Nominal     int64
	StatusSetor string
}

func KasToView(w KasWire) Kas {
	jenis := string(w.Jenis)
	if jenis != JenisKeluar {
		jenis = JenisMasuk
	}
	setor := string(w.StatusSetor)
	if setor == "" {
		setor = SetorPending
	}
	return Kas{
		PID:         string(w.PID),
		Tanggal:     ParseDate(string(w.Tanggal)),
		NomorBukti:  string(w.NomorBukti),
		Keterangan:  string(w.Keterangan),
		Jenis:       jenis,
		Nominal:     int64(w.Nominal),
		StatusSetor: setor,
	}
}

func KasToWire(v Kas) url.Values {
	return url.Values{
		"tanggal":     {FormatDate(v.Tanggal)},
		"nomor_bukti": {v.NomorBukti},
		"keterangan":  {v.Keterangan},
		"jenis":       {v.Jenis},
		"nominal":     {itoa(v.Nominal)},
	}
}

var KasEndpoint = listresource.Endpoint{Name: "keuangan-kas", Base: "/api/keuangan-kas"}

func NewKasSource(tr listresource.Transport) *listresource.HTTPSource[KasWire, Kas] {
	return &listresource.HTTPSource[KasWire, Kas]{Client: tr, Endpoint: KasEndpoint, ToView: KasToView}
}
