package resources

import (
	"net/url"
	"time"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
)

type FeedmilWire struct {
	PID          Text   `json:"pid"`
	Nota         Text   `json:"nota"`
	TanggalMasuk Text   `json:"tanggal_masuk"`
	NamaSupplier Text   `json:"nama_supplier"`
	JenisPakan   Text   `json:"jenis_pakan"`
	JumlahKg     Amount `json:"jumlah_kg"`
	HargaPerKg   Amount `json:"harga_per_kg"`
	Total        Amount `json:"total"`
	Status       Text   `json:"status"`
}

// Feedmil is one feed purchase. Total is computed by the backend.
type Feedmil struct {
	PID          string
	Nota         string
	TanggalMasuk time.Time
	NamaSupplier string
	JenisPakan   string
	JumlahKg     int64
	HargaPerKg   int64
	Total        int64
	Status       string
}

func FeedmilToView(w FeedmilWire) Feedmil {
	return Feedmil{
		PID:          string(w.PID),
		Nota:         string(w.Nota),
		TanggalMasuk: ParseDate(string(w.TanggalMasuk)),
		NamaSupplier: string(w.NamaSupplier),
		JenisPakan:   string(w.JenisPakan),
		JumlahKg:     int64(w.JumlahKg),
		HargaPerKg:   int64(w.HargaPerKg),
		Total:        int64(w.Total),
		Status:       string(w.Status),
	}
}

func FeedmilToWire(v Feedmil) url.Values {
	return url.Values{
		"nota":          {v.Nota},
		"tanggal_masuk": {FormatDate(v.TanggalMasuk)},
		"nama_supplier": {v.NamaSupplier},
		"jenis_pakan":   {v.JenisPakan},
		"jumlah_kg":     {itoa(v.JumlahKg)},
		"harga_per_kg":  {itoa(v.HargaPerKg)},
		"status":        {v.Status},
	}
}

var FeedmilEndpoint = listresource.Endpoint{Name: "pembelian-feedmil", Base: "/api/pembelian-feedmil"}

func NewFeedmilSource(tr listresource.Transport) *listresource.HTTPSource[FeedmilWire, Feedmil] {
	return &listresource.HTTPSource[FeedmilWire, Feedmil]{Client: tr, Endpoint: FeedmilEndpoint, ToView: FeedmilToView}
}
