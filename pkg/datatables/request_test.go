package datatables

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestForPageOffsets(t *testing.T) {
	r := ForPage(3, 10, "INV")
	require.Equal(t, 20, r.Start)
	require.Equal(t, 10, r.Length)
	require.Equal(t, 3, r.Page())

	r = ForPage(0, 0, "")
	require.Equal(t, 0, r.Start)
	require.Equal(t, DefaultLength, r.Length)
}

func TestValuesParseRoundTripKeepsFilters(t *testing.T) {
	in := Request{
		Draw: 4, Start: 10, Length: 10, Search: "INV-001",
		OrderColumn: 2, OrderDir: DirAsc,
		Filters: map[string]string{"start_date": "2024-01-01", "end_date": "2024-01-31", "tab": "paid"},
	}
	v := in.Values()
	require.Equal(t, "INV-001", v.Get("search[value]"))
	require.Equal(t, "2", v.Get("order[0][column]"))

	got := Parse(v)
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIgnoresColumnGrammarAndClamps(t *testing.T) {
	v := url.Values{}
	v.Set("draw", "1")
	v.Set("start", "-5")
	v.Set("length", "-1")
	v.Set("columns[0][data]", "nota")
	v.Set("order[0][dir]", "sideways")
	v.Set("bank", "BCA")

	r := Parse(v)
	require.Equal(t, 0, r.Start)
	require.Equal(t, DefaultLength, r.Length)
	require.Equal(t, DirDesc, r.OrderDir)
	require.Equal(t, -1, r.OrderColumn)
	require.Equal(t, map[string]string{"bank": "BCA"}, r.Filters)

	v.Set("length", "5000")
	require.Equal(t, MaxLength, Parse(v).Length)
}

func TestOrderClauseUsesWhitelist(t *testing.T) {
	tbl := Table{Orderable: []string{"", "nota", "tanggal"}, DefaultOrder: "tanggal"}
	require.Equal(t, "nota ASC, id DESC", tbl.orderClause(Request{OrderColumn: 1, OrderDir: DirAsc}))
	require.Equal(t, "tanggal DESC, id DESC", tbl.orderClause(Request{OrderColumn: 0, OrderDir: DirDesc}))
	require.Equal(t, "tanggal DESC, id DESC", tbl.orderClause(Request{OrderColumn: 99, OrderDir: DirDesc}))
}

func TestEscapeLike(t *testing.T) {
	require.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
	require.Equal(t, `%B\_I%`, ContainsPattern("B_I"))
}

func TestMapKeepsCounters(t *testing.T) {
	in := Response[int]{Draw: 2, RecordsTotal: 23, RecordsFiltered: 3, Data: []int{1, 2, 3}}
	out := Map(in, func(i int) string { return string(rune('a' + i)) })
	require.Equal(t, int64(23), out.RecordsTotal)
	require.Equal(t, int64(3), out.RecordsFiltered)
	require.Equal(t, []string{"b", "c", "d"}, out.Data)
}
