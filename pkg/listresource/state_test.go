package listresource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/api"
)

func TestPaginationArithmetic(t *testing.T) {
	for total := 0; total <= 45; total++ {
		for _, per := range []int{1, 5, 10, 25} {
			pages := TotalPagesFor(total, per)
			assert.Equal(t, (total+per-1)/per, pages)
			for page := 1; page <= max(pages, 1); page++ {
				p := Pagination{CurrentPage: page, PerPage: per, TotalItems: total, TotalPages: pages}
				if total == 0 {
					assert.Zero(t, p.From())
				} else {
					assert.Equal(t, (page-1)*per+1, p.From())
				}
				assert.Equal(t, min(page*per, total), p.To())
			}
		}
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Pagination{CurrentPage: 0}.Clamp().CurrentPage)
	assert.Equal(t, 1, Pagination{CurrentPage: 4, TotalPages: 0}.Clamp().CurrentPage)
	assert.Equal(t, 3, Pagination{CurrentPage: 9, TotalPages: 3}.Clamp().CurrentPage)
}

func TestPageStatsCountsOnlyLoadedRows(t *testing.T) {
	now := time.Date(2024, 5, 15, 14, 0, 0, 0, time.UTC) // Wednesday
	items := []row{
		{Tanggal: now.Add(-2 * time.Hour), Nominal: 100},
		{Tanggal: time.Date(2024, 5, 13, 8, 0, 0, 0, time.UTC), Nominal: 200}, // Monday
		{Tanggal: time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC), Nominal: 400},
		{Tanggal: time.Date(2024, 4, 30, 8, 0, 0, 0, time.UTC), Nominal: 800},
		{},
	}
	s := PageStats(items, func(r row) time.Time { return r.Tanggal }, func(r row) int64 { return r.Nominal }, now)
	assert.Equal(t, api.Bucket{Count: 1, Total: 100}, s.Today)
	assert.Equal(t, api.Bucket{Count: 2, Total: 300}, s.ThisWeek)
	assert.Equal(t, api.Bucket{Count: 3, Total: 700}, s.ThisMonth)
}
