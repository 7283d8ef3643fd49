package ocr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/money"
)

type candidate struct {
	amount int64
	raw    string
	score  int
}

var (
	keywordRE = regexp.MustCompile(`(?i)((?:jumlah(?:\s+transfer)?|total(?:\s+bayar|\s+pembayaran)?|nominal|transfer)[:\s]*(?:rp|idr)?\.?\s*[0-9][0-9.,]*)`)
	currencyRE = regexp.MustCompile(`(?i)((?:rp|idr)\.?\s*[:\-]?\s*[0-9od][0-9od.,]*)`)
	groupedRE  = regexp.MustCompile(`\b[1-9][0-9]{0,2}(?:[.,][0-9]{3})+(?:[.,][0-9]{2})?\b`)
	plainRE    = regexp.MustCompile(`\b[1-9][0-9]{4,6}\b`)
	spacedRE   = regexp.MustCompile(`(?i)rp\s*([0-9][0-9 .,]{4,20})`)
	ribuRE     = regexp.MustCompile(`(?i)\b([1-9][0-9]{0,3})\s*[,.:;-]?\s*ribu\b`)
	ocrDigits  = strings.NewReplacer("o", "0", "O", "0", "d", "0", "D", "0")
)

// FromText picks the most likely transfer amount out of OCR text.
func FromText(text string) (Reading, error) {
	r, ok := pick(normalize(text))
	if !ok {
		return Reading{}, ErrNoAmount
	}
	return r, nil
}

func pick(text string) (Reading, bool) {
	var cands []candidate
	seen := map[string]bool{}
	add := func(raw string) {
		raw = strings.TrimRight(strings.TrimSpace(raw), ".,:-")
		if raw == "" || seen[raw] || !plausible(raw) {
			return
		}
		seen[raw] = true
		amt, err := money.Parse(ocrDigits.Replace(stripLabel(raw)))
		if err != nil || amt <= 0 || amt > 999_999_999 {
			return
		}
		cands = append(cands, candidate{amount: amt, raw: raw, score: score(raw)})
	}
	for _, m := range keywordRE.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range currencyRE.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range groupedRE.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range plainRE.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range spacedRE.FindAllStringSubmatch(text, -1) {
		digits := strings.NewReplacer(" ", "", ".", "", ",", "").Replace(m[1])
		if len(digits) >= 5 && len(digits) <= 9 && len(strings.Fields(m[1])) > 1 {
			add("Rp" + money.Group(atoi(digits)))
		}
	}

	if len(cands) == 0 {
		if m := ribuRE.FindStringSubmatch(text); m != nil {
			return Reading{Amount: atoi(m[1]) * 1000, Confidence: 0.5, Raw: m[0]}, true
		}
		return Reading{}, false
	}

	best := cands[0]
	for _, c := range cands[1:] {
		switch {
		case c.score != best.score:
			if c.score > best.score {
				best = c
			}
		case c.amount != best.amount:
			if c.amount > best.amount {
				best = c
			}
		case len(c.raw) > len(best.raw):
			best = c
		}
	}

	amt := best.amount
	low := strings.ToLower(text)
	if (strings.Contains(low, "rp") || strings.Contains(low, "idr")) && !hasHints(best.raw) && amt >= 1000 {
		// A misread separator shows up as stray trailing digits: 250003.
		if rem := amt % 1000; rem <= 20 || rem >= 980 {
			amt -= rem
		}
	}
	conf := min(0.3+0.03*float64(best.score), 0.95)
	if hasCurrency(best.raw) {
		conf = max(conf, 0.85)
	}
	return Reading{Amount: amt, Confidence: conf, Raw: best.raw}, true
}

func score(raw string) int {
	s := 0
	if hasCurrency(raw) {
		s += 10
	}
	if hasKeyword(raw) {
		s += 8
	}
	if strings.ContainsAny(raw, ".,") {
		s += 5
	}
	if centsSuffix(raw) {
		s += 3
	}
	if len(digitsOf(raw)) >= 4 {
		s++
	}
	return s
}

// plausible rejects phone numbers, reference numbers and similar digit runs.
func plausible(raw string) bool {
	if hasCurrency(raw) || hasKeyword(raw) {
		return len(digitsOf(ocrDigits.Replace(stripLabel(raw)))) >= 3
	}
	d := digitsOf(raw)
	if len(d) < 2 || d[0] == '0' {
		return false
	}
	if strings.ContainsAny(raw, ".,") {
		return len(d) >= 3
	}
	if len(d) > 7 {
		return false
	}
	return len(d) < 5 || strings.HasSuffix(d, "000") || strings.HasSuffix(d, "500")
}

// stripLabel drops the keyword and currency prefix so only the number is
// parsed.
func stripLabel(raw string) string {
	low := strings.ToLower(raw)
	for _, mark := range []string{"rp", "idr"} {
		if i := strings.LastIndex(low, mark); i >= 0 {
			return raw[i+len(mark):]
		}
	}
	if i := strings.IndexFunc(raw, func(r rune) bool { return r >= '0' && r <= '9' }); i > 0 {
		return raw[i:]
	}
	return raw
}

func hasCurrency(raw string) bool {
	low := strings.ToLower(raw)
	return strings.Contains(low, "rp") || strings.Contains(low, "idr")
}

func hasKeyword(raw string) bool {
	low := strings.ToLower(raw)
	for _, k := range []string{"total", "jumlah", "nominal", "transfer"} {
		if strings.Contains(low, k) {
			return true
		}
	}
	return false
}

func hasHints(raw string) bool { return hasCurrency(raw) || strings.ContainsAny(raw, ".,") }

func centsSuffix(raw string) bool {
	return strings.HasSuffix(raw, ",00") || strings.HasSuffix(raw, ".00")
}

func digitsOf(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func atoi(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
