package resources

import (
	"net/url"
	"time"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
)

type TandaTerimaWire struct {
	PID              Text   `json:"pid"`
	NomorTandaTerima Text   `json:"nomor_tanda_terima"`
	Tanggal          Text   `json:"tanggal"`
	Nota             Text   `json:"nota"`
	NamaSupplier     Text   `json:"nama_supplier"`
	Total            Amount `json:"total"`
	Penerima         Text   `json:"penerima"`
	Keterangan       Text   `json:"keterangan"`
}

// TandaTerima is a goods receipt against a purchase nota.
type TandaTerima struct {
	PID              string
	NomorTandaTerima string
	Tanggal          time.Time
	Nota             string
	NamaSupplier     string
	Total            int64
	Penerima         string
	Keterangan       string
}

func TandaTerimaToView(w TandaTerimaWire) TandaTerima {
	return TandaTerima{
		PID:              string(w.PID),
		NomorTandaTerima: string(w.NomorTandaTerima),
		Tanggal:          ParseDate(string(w.Tanggal)),
		Nota:             string(w.Nota),
		NamaSupplier:     string(w.NamaSupplier),
		Total:            int64(w.Total),
		Penerima:         string(w.Penerima),
		Keterangan:       string(w.Keterangan),
	}
}

func TandaTerimaToWire(v TandaTerima) url.Values {
	return url.Values{
		"nomor_tanda_terima": {v.NomorTandaTerima},
		"tanggal":            {FormatDate(v.Tanggal)},
		"nota":               {v.Nota},
		"penerima":           {v.Penerima},
		"keterangan":         {v.Keterangan},
	}
}

// Receipts are refetched when the list regains focus after 30s.
var TandaTerimaEndpoint = listresource.Endpoint{Name: "tanda-terima", Base: "/api/tanda-terima"}

func NewTandaTerimaSource(tr listresource.Transport) *listresource.HTTPSource[TandaTerimaWire, TandaTerima] {
	return &listresource.HTTPSource[TandaTerimaWire, TandaTerima]{Client: tr, Endpoint: TandaTerimaEndpoint, ToView: TandaTerimaToView}
}
