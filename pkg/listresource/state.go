package listresource

import "time"

// Pagination mirrors the server-reported counters of the current page.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
}

// TotalPagesFor is ceil(totalItems / perPage).
func TotalPagesFor(totalItems, perPage int) int {
	if totalItems <= 0 || perPage <= 0 {
		return 0
	}
	return (totalItems + perPage - 1) / perPage
}

// From is the 1-based index of the first row on the page, 0 when empty.
func (p Pagination) From() int {
	if p.TotalItems <= 0 {
		return 0
	}
	return (p.CurrentPage-1)*p.PerPage + 1
}

// To is the 1-based index of the last row on the page.
func (p Pagination) To() int {
	return min(p.CurrentPage*p.PerPage, p.TotalItems)
}

// Clamp keeps CurrentPage inside [1, max(TotalPages, 1)].
func (p Pagination) Clamp() Pagination {
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	if last := max(p.TotalPages, 1); p.CurrentPage > last {
		p.CurrentPage = last
	}
	return p
}

// ListState is the controller's view of one resource list.
type ListState[T any] struct {
	Items       []T
	Loading     bool
	Error       string
	SearchTerm  string
	IsSearching bool
	SearchError string
	Pagination  Pagination
	Filters     map[string]string
	LastFetched time.Time
}

func (s ListState[T]) clone() ListState[T] {
	out := s
	out.Items = append([]T(nil), s.Items...)
	if s.Filters != nil {
		out.Filters = make(map[string]string, len(s.Filters))
		for k, v := range s.Filters {
			out.Filters[k] = v
		}
	}
	return out
}
