package datatables

// Response is the DataTables list envelope.
type Response[T any] struct {
	Draw            int   `json:"draw"`
	RecordsTotal    int64 `json:"recordsTotal"`
	RecordsFiltered int64 `json:"recordsFiltered"`
	Data            []T   `json:"data"`
}

// Map converts the rows of a response, keeping the counters.
func Map[M, T any](in Response[M], fn func(M) T) Response[T] {
	out := Response[T]{
		Draw:            in.Draw,
		RecordsTotal:    in.RecordsTotal,
		RecordsFiltered: in.RecordsFiltered,
		Data:            make([]T, 0, len(in.Data)),
	}
	for _, m := range in.Data {
		out.Data = append(out.Data, fn(m))
	}
	return out
}
