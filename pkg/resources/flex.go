package resources

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/money"
)

// Amount is a whole number that may arrive as a JSON number, a numeric
// string ("1500000.00", "1.500.000") or null. Anything unreadable is 0.
type Amount int64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*a = 0
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*a = Amount(math.Round(f))
			return nil
		}
		if n, err := money.Parse(s); err == nil {
			*a = Amount(n)
		}
		return nil
	}
	if f, err := strconv.ParseFloat(string(b), 64); err == nil {
		*a = Amount(math.Round(f))
	}
	return nil
}

// Text is a string field that tolerates numbers, booleans and null.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*t = ""
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*t = Text(s)
		}
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		return nil
	}
	*t = Text(b)
	return nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// ParseDate reads the date formats the backend emits; unreadable input gives
// the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatDate is the wire format of dates, "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
