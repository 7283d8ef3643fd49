// Package money parses and formats whole-Rupiah amounts.
package money

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrNoDigits = errors.New("no digits in amount")

var centsRE = regexp.MustCompile(`[.,]\d{2}$`)

var printer = message.NewPrinter(language.Indonesian)

// Parse reads amounts as typed by users or printed on receipts:
// "1.500.000", "Rp 1.500.000,00", "1500000". A trailing two digit decimal
// part is dropped; every other separator is a thousands separator.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrNoDigits
	}
	neg := strings.HasPrefix(s, "-")
	if centsRE.MatchString(s) {
		cut := max(strings.LastIndex(s, "."), strings.LastIndex(s, ","))
		s = s[:cut]
	}
	digits := onlyDigits(s)
	if digits == "" {
		return 0, ErrNoDigits
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", digits, err)
	}
	if neg {
		n = -n
	}
	return n, nil
}

// Format renders n as "Rp 1.500.000".
func Format(n int64) string {
	if n < 0 {
		return "-Rp " + printer.Sprintf("%d", -n)
	}
	return "Rp " + printer.Sprintf("%d", n)
}

// Group renders n with Indonesian thousands separators and no currency.
func Group(n int64) string {
	return printer.Sprintf("%d", n)
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
