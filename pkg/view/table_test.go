package view

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/resources"
)

func pengajuanState(n, page int) listresource.ListState[resources.Pengajuan] {
	st := listresource.ListState[resources.Pengajuan]{
		Pagination: listresource.Pagination{CurrentPage: page, PerPage: 10, TotalItems: 23, TotalPages: 3},
	}
	for i := 0; i < n; i++ {
		st.Items = append(st.Items, resources.Pengajuan{
			NomorPengajuan:   "PBK-00" + string(rune('1'+i)),
			NominalPengajuan: 1500000,
			StatusText:       "Disetujui Sebagian",
		})
	}
	return st
}

func TestFooter(t *testing.T) {
	assert.Equal(t, "Menampilkan 1 - 10 dari 23 data", Footer(listresource.Pagination{CurrentPage: 1, PerPage: 10, TotalItems: 23}))
	assert.Equal(t, "Menampilkan 21 - 23 dari 23 data", Footer(listresource.Pagination{CurrentPage: 3, PerPage: 10, TotalItems: 23}))
	assert.Equal(t, "Menampilkan 0 - 0 dari 0 data", Footer(listresource.Pagination{CurrentPage: 1, PerPage: 10}))
}

func TestRowsAreNumberedAcrossPages(t *testing.T) {
	cells := PengajuanTable().Cells(pengajuanState(3, 3))
	require.Len(t, cells, 3)
	assert.Equal(t, "21", cells[0][0])
	assert.Equal(t, "23", cells[2][0])
	assert.Equal(t, "Rp 1.500.000", cells[0][5])
	assert.Equal(t, "Disetujui Sebagian", cells[0][7])
}

func TestBodySlotsAreExclusive(t *testing.T) {
	st := pengajuanState(2, 1)
	slot, _ := BodyOf(st)
	assert.Equal(t, SlotRows, slot)

	st.Loading = true
	st.Error = "boom"
	slot, msg := BodyOf(st)
	assert.Equal(t, SlotLoading, slot)
	assert.Equal(t, LoadingText, msg)

	st.Loading = false
	slot, msg = BodyOf(st)
	assert.Equal(t, SlotError, slot)
	assert.Equal(t, "boom", msg)

	st.Error = ""
	st.Items = nil
	slot, msg = BodyOf(st)
	assert.Equal(t, SlotEmpty, slot)
	assert.Equal(t, EmptyText, msg)
}

func TestRenderShowsMessageInsteadOfRows(t *testing.T) {
	st := pengajuanState(2, 1)
	st.Error = "Sesi telah berakhir, silakan login kembali"
	out := PengajuanTable().Render(st, -1)
	assert.Contains(t, out, "Sesi telah berakhir")
	assert.NotContains(t, out, "PBK-001")

	st.Error = ""
	out = PengajuanTable().Render(st, 0)
	assert.Contains(t, out, "PBK-001")
	assert.Contains(t, out, "Menampilkan 1 - 10 dari 23 data")
	assert.Equal(t, 4, len(strings.Split(out, "\n")))
}

func TestTanggal(t *testing.T) {
	assert.Equal(t, "2 Mei 2024", Tanggal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "-", Tanggal(time.Time{}))
	assert.Equal(t, "02/05/2024", TanggalPendek(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)))
}
