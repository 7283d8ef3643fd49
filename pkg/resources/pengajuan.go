package resources

import (
	"net/url"
	"time"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
)

type PengajuanWire struct {
	PID              Text   `json:"pid"`
	NomorPengajuan   Text   `json:"nomor_pengajuan"`
	TanggalPengajuan Text   `json:"tanggal_pengajuan"`
	Pemohon          Text   `json:"pemohon"`
	Keperluan        Text   `json:"keperluan"`
	NominalPengajuan Amount `json:"nominal_pengajuan"`
	NominalDisetujui Amount `json:"nominal_disetujui"`
	Status           Text   `json:"status"`
	Catatan          Text   `json:"catatan"`
}

// Pengajuan is a cash disbursement request.
type Pengajuan struct {
	PID              string
	NomorPengajuan   string
	TanggalPengajuan time.Time
	Pemohon          string
	Keperluan        string
	NominalPengajuan int64
	NominalDisetujui int64
	Status           Status
	StatusText       string
	Catatan          string
}

func (p Pengajuan) Badge() Badge { return StatusBadge(p.StatusText) }

func PengajuanToView(w PengajuanWire) Pengajuan {
	return Pengajuan{
		PID:              string(w.PID),
		NomorPengajuan:   string(w.NomorPengajuan),
		TanggalPengajuan: ParseDate(string(w.TanggalPengajuan)),
		Pemohon:          string(w.Pemohon),
		Keperluan:        string(w.Keperluan),
		NominalPengajuan: int64(w.NominalPengajuan),
		NominalDisetujui: int64(w.NominalDisetujui),
		Status:           ParseStatus(string(w.Status)),
		StatusText:       string(w.Status),
		Catatan:          string(w.Catatan),
	}
}

// PengajuanToWire leaves out the approval fields; those only change through
// the approve endpoint.
func PengajuanToWire(v Pengajuan) url.Values {
	return url.Values{
		"nomor_pengajuan":   {v.NomorPengajuan},
		"tanggal_pengajuan": {FormatDate(v.TanggalPengajuan)},
		"pemohon":           {v.Pemohon},
		"keperluan":         {v.Keperluan},
		"nominal_pengajuan": {itoa(v.NominalPengajuan)},
		"catatan":           {v.Catatan},
	}
}

var PengajuanEndpoint = listresource.Endpoint{Name: "pengajuan-biaya-kas", Base: "/api/pengajuan-biaya-kas", PostList: true}

func NewPengajuanSource(tr listresource.Transport) *listresource.HTTPSource[PengajuanWire, Pengajuan] {
	return &listresource.HTTPSource[PengajuanWire, Pengajuan]{Client: tr, Endpoint: PengajuanEndpoint, ToView: PengajuanToView}
}
