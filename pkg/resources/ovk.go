package resources

import (
	"net/url"
	"time"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
)

type OVKWire struct {
	PID          Text   `json:"pid"`
	Nota         Text   `json:"nota"`
	Tanggal      Text   `json:"tanggal"`
	NamaSupplier Text   `json:"nama_supplier"`
	NamaBarang   Text   `json:"nama_barang"`
	Jumlah       Amount `json:"jumlah"`
	Satuan       Text   `json:"satuan"`
	HargaSatuan  Amount `json:"harga_satuan"`
	Total        Amount `json:"total"`
	JatuhTempo   Text   `json:"jatuh_tempo"`
	Status       Text   `json:"status"`
}

// OVK is a purchase of veterinary supplies.
type OVK struct {
	PID          string
	Nota         string
	Tanggal      time.Time
	NamaSupplier string
	NamaBarang   string
	Jumlah       int64
	Satuan       string
	HargaSatuan  int64
	Total        int64
	JatuhTempo   time.Time
	Status       string
}

// Overdue reports whether the purchase is unpaid past its due date.
func (o OVK) Overdue(now time.Time) bool {
	if o.JatuhTempo.IsZero() || o.Status == "lunas" {
		return false
	}
	return now.After(o.JatuhTempo.AddDate(0, 0, 1))
}

func OVKToView(w OVKWire) OVK {
	return OVK{
		PID:          string(w.PID),
		Nota:         string(w.Nota),
		Tanggal:      ParseDate(string(w.Tanggal)),
		NamaSupplier: string(w.NamaSupplier),
		NamaBarang:   string(w.NamaBarang),
		Jumlah:       int64(w.Jumlah),
		Satuan:       string(w.Satuan),
		HargaSatuan:  int64(w.HargaSatuan),
		Total:        int64(w.Total),
		JatuhTempo:   ParseDate(string(w.JatuhTempo)),
		Status:       string(w.Status),
	}
}

func OVKToWire(v OVK) url.Values {
	return url.Values{
		"nota":          {v.Nota},
		"tanggal":       {FormatDate(v.Tanggal)},
		"nama_supplier": {v.NamaSupplier},
		"nama_barang":   {v.NamaBarang},
		"jumlah":        {itoa(v.Jumlah)},
		"satuan":        {v.Satuan},
		"harga_satuan":  {itoa(v.HargaSatuan)},
		"jatuh_tempo":   {FormatDate(v.JatuhTempo)},
		"status":        {v.Status},
	}
}

var OVKEndpoint = listresource.Endpoint{Name: "pembelian-ovk", Base: "/api/pembelian-ovk"}

func NewOVKSource(tr listresource.Transport) *listresource.HTTPSource[OVKWire, OVK] {
	return &listresource.HTTPSource[OVKWire, OVK]{Client: tr, Endpoint: OVKEndpoint, ToView: OVKToView}
}
