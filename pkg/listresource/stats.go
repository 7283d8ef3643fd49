package listresource

import (
	"time"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/api"
)

// PageStats counts the rows of the loaded page falling on today, this week
// (Monday based) and this month, summing amount for each bucket.
//
// The numbers only describe the current page. Use the resource's /summary
// endpoint for figures over the whole dataset.
func PageStats[T any](items []T, date func(T) time.Time, amount func(T) int64, now time.Time) api.Summary {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	offset := (int(today.Weekday()) + 6) % 7
	week := today.AddDate(0, 0, -offset)
	month := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	var s api.Summary
	for _, it := range items {
		t := date(it)
		if t.IsZero() || !t.Before(tomorrow) {
			continue
		}
		var n int64
		if amount != nil {
			n = amount(it)
		}
		if !t.Before(today) {
			s.Today.Count++
			s.Today.Total += n
		}
		if !t.Before(week) {
			s.ThisWeek.Count++
			s.ThisWeek.Total += n
		}
		if !t.Before(month) {
			s.ThisMonth.Count++
			s.ThisMonth.Total += n
		}
	}
	return s
}
