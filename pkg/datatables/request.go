// Package datatables implements the DataTables server-side protocol used by
// every list endpoint: draw/start/length/search/order in, recordsTotal /
// recordsFiltered / data out.
package datatables

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLength = 10
	MaxLength     = 100
)

// Request keys on the wire.
const (
	KeyDraw        = "draw"
	KeyStart       = "start"
	KeyLength      = "length"
	KeySearch      = "search[value]"
	KeyOrderColumn = "order[0][column]"
	KeyOrderDir    = "order[0][dir]"
)

const (
	DirAsc  = "asc"
	DirDesc = "desc"
)

// Request is one list query. Filters carries the resource specific
// parameters (start_date, end_date, tab, ...).
type Request struct {
	Draw        int
	Start       int
	Length      int
	Search      string
	OrderColumn int
	OrderDir    string
	Filters     map[string]string
}

// ForPage builds a request for a 1-based page.
func ForPage(page, perPage int, search string) Request {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultLength
	}
	return Request{
		Start:    (page - 1) * perPage,
		Length:   perPage,
		Search:   search,
		OrderDir: DirDesc,
	}
}

// Page returns the 1-based page the request points at.
func (r Request) Page() int {
	if r.Length <= 0 {
		return 1
	}
	return r.Start/r.Length + 1
}

// Values encodes the request for a query string or a form body.
func (r Request) Values() url.Values {
	v := url.Values{}
	v.Set(KeyDraw, strconv.Itoa(r.Draw))
	v.Set(KeyStart, strconv.Itoa(r.Start))
	v.Set(KeyLength, strconv.Itoa(r.Length))
	v.Set(KeySearch, r.Search)
	v.Set(KeyOrderColumn, strconv.Itoa(r.OrderColumn))
	dir := r.OrderDir
	if dir == "" {
		dir = DirDesc
	}
	v.Set(KeyOrderDir, dir)
	for k, val := range r.Filters {
		if val == "" {
			continue
		}
		v.Set(k, val)
	}
	return v
}

// Parse reads a request from query/form values. Unknown keys that are not
// part of the DataTables column/order grammar become filters.
func Parse(v url.Values) Request {
	r := Request{
		Draw:     atoi(v.Get(KeyDraw), 0),
		Start:    atoi(v.Get(KeyStart), 0),
		Length:   atoi(v.Get(KeyLength), DefaultLength),
		Search:   strings.TrimSpace(v.Get(KeySearch)),
		OrderDir: strings.ToLower(v.Get(KeyOrderDir)),
		Filters:  map[string]string{},
	}
	r.OrderColumn = atoi(v.Get(KeyOrderColumn), -1)
	for k, vals := range v {
		if len(vals) == 0 || isProtocolKey(k) {
			continue
		}
		r.Filters[k] = strings.TrimSpace(vals[0])
	}
	return r.Normalize()
}

// Normalize clamps the request into a servable shape. A length of -1 (the
// DataTables "all" option) falls back to the default page size.
func (r Request) Normalize() Request {
	if r.Draw < 0 {
		r.Draw = 0
	}
	if r.Start < 0 {
		r.Start = 0
	}
	if r.Length <= 0 {
		r.Length = DefaultLength
	}
	if r.Length > MaxLength {
		r.Length = MaxLength
	}
	if r.OrderDir != DirAsc && r.OrderDir != DirDesc {
		r.OrderDir = DirDesc
		r.OrderColumn = -1
	}
	return r
}

// Filter returns a trimmed filter value or "".
func (r Request) Filter(name string) string {
	if r.Filters == nil {
		return ""
	}
	return r.Filters[name]
}

func isProtocolKey(k string) bool {
	switch k {
	case KeyDraw, KeyStart, KeyLength, KeySearch, KeyOrderColumn, KeyOrderDir, "search[regex]", "_":
		return true
	}
	return strings.HasPrefix(k, "columns[") || strings.HasPrefix(k, "order[")
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
