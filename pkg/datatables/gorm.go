package datatables

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// DateLayout is the wire format of start_date / end_date.
const DateLayout = "2006-01-02"

// Table describes how a resource table answers list requests.
//
// Searchable entries are SQL expressions matched with ILIKE; non-text columns
// must be cast by the caller (e.g. "CAST(nominal AS TEXT)"). Orderable maps
// the DataTables column index to a column name; anything outside the slice
// falls back to DefaultOrder.
type Table struct {
	Searchable   []string
	Orderable    []string
	DefaultOrder string
	DateColumn   string
}

// Scope is an extra resource specific filter applied to both counters.
type Scope func(*gorm.DB) *gorm.DB

// Run answers r against model M. Scopes narrow the base set (recordsTotal),
// the search term narrows it further (recordsFiltered).
func Run[M any](db *gorm.DB, t Table, r Request, scopes ...Scope) (Response[M], error) {
	r = r.Normalize()
	out := Response[M]{Draw: r.Draw, Data: []M{}}

	base := db.Model(new(M))
	for _, s := range scopes {
		base = s(base)
	}
	base = t.dateRange(base, r)

	if err := base.Session(&gorm.Session{}).Count(&out.RecordsTotal).Error; err != nil {
		return out, fmt.Errorf("count total: %w", err)
	}
	filtered := t.search(base.Session(&gorm.Session{}), r.Search)
	if err := filtered.Session(&gorm.Session{}).Count(&out.RecordsFiltered).Error; err != nil {
		return out, fmt.Errorf("count filtered: %w", err)
	}
	if out.RecordsFiltered == 0 {
		return out, nil
	}
	q := filtered.Order(t.orderClause(r)).Offset(r.Start).Limit(r.Length)
	if err := q.Find(&out.Data).Error; err != nil {
		return out, fmt.Errorf("fetch page: %w", err)
	}
	return out, nil
}

func (t Table) search(q *gorm.DB, term string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(t.Searchable) == 0 {
		return q
	}
	like := ContainsPattern(term)
	parts := make([]string, 0, len(t.Searchable))
	args := make([]any, 0, len(t.Searchable))
	for _, col := range t.Searchable {
		parts = append(parts, col+" ILIKE ?")
		args = append(args, like)
	}
	return q.Where("("+strings.Join(parts, " OR ")+")", args...)
}

func (t Table) orderClause(r Request) string {
	col := t.DefaultOrder
	if r.OrderColumn >= 0 && r.OrderColumn < len(t.Orderable) && t.Orderable[r.OrderColumn] != "" {
		col = t.Orderable[r.OrderColumn]
	}
	if col == "" {
		col = "id"
	}
	return col + " " + strings.ToUpper(r.OrderDir) + ", id DESC"
}

func (t Table) dateRange(q *gorm.DB, r Request) *gorm.DB {
	if t.DateColumn == "" {
		return q
	}
	if d, err := time.Parse(DateLayout, r.Filter("start_date")); err == nil {
		q = q.Where(t.DateColumn+" >= ?", d)
	}
	if d, err := time.Parse(DateLayout, r.Filter("end_date")); err == nil {
		q = q.Where(t.DateColumn+" < ?", d.AddDate(0, 0, 1))
	}
	return q
}

// ContainsPattern is the ILIKE argument matching v anywhere, with LIKE
// wildcards in v taken literally.
func ContainsPattern(v string) string { return "%" + escapeLike(v) + "%" }

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
