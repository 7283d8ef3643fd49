package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/api"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/datatables"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/view"
)

type fakePane struct {
	title    string
	rows     int
	calls    []string
	searches []string
	sum      api.Summary
	sumErr   error
}

func (f *fakePane) Title() string { return f.title }
func (f *fakePane) Refresh(context.Context) error {
	f.calls = append(f.calls, "refresh")
	return nil
}
func (f *fakePane) Refocus(context.Context) (bool, error) {
	f.calls = append(f.calls, "refocus")
	return true, nil
}
func (f *fakePane) Search(term string) { f.searches = append(f.searches, term) }
func (f *fakePane) ClearSearch(context.Context) error {
	f.calls = append(f.calls, "clear")
	return nil
}
func (f *fakePane) Page(_ context.Context, delta int) error {
	f.calls = append(f.calls, fmt.Sprintf("page%+d", delta))
	return nil
}
func (f *fakePane) Rows() int { return f.rows }
func (f *fakePane) Render(selected int) string { return fmt.Sprintf("%s selected=%d", f.title, selected) }
func (f *fakePane) Note() string { return "" }
func (f *fakePane) Summary(context.Context) (api.Summary, error) {
	f.calls = append(f.calls, "summary")
	return f.sum, f.sumErr
}
func (f *fakePane) OnChange(func()) {}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and feeds fetch and summary results back into b,
// expanding batches.
func drain(t *testing.T, b *Browser, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drain(t, b, c)
		}
	case fetchDoneMsg, summaryMsg:
		_, next := b.Update(msg)
		drain(t, b, next)
	}
}

func press(t *testing.T, b *Browser, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := b.Update(key(k))
		drain(t, b, cmd)
	}
}

func TestBrowserPagingAndTabs(t *testing.T) {
	kas := &fakePane{title: "Keuangan Kas", rows: 3, sum: api.Summary{Today: api.Bucket{Count: 1, Total: 50000}}}
	ovk := &fakePane{title: "Pembelian OVK", rows: 1}
	b := NewBrowser(context.Background(), kas, ovk)

	press(t, b, "right", "left", "down", "down", "down")
	assert.Equal(t, []string{"page+1", "page-1"}, kas.calls)
	assert.Equal(t, 2, b.cursor)

	press(t, b, "tab")
	assert.Equal(t, 1, b.active)
	assert.Equal(t, 0, b.cursor)
	assert.ElementsMatch(t, []string{"refocus", "summary"}, ovk.calls)
	assert.Contains(t, b.View(), "Pembelian OVK selected=0")

	press(t, b, "tab", "r")
	assert.Equal(t, 0, b.active)
	assert.Equal(t, []string{"page+1", "page-1", "refocus", "summary", "refresh", "summary"}, kas.calls)
	assert.Contains(t, b.View(), "Hari ini: 1 (Rp 50.000)")
}

func TestBrowserSearchBox(t *testing.T) {
	p := &fakePane{title: "Bank Deposit", rows: 2}
	b := NewBrowser(context.Background(), p)
	// a blinking cursor would schedule timer commands on every key
	_ = b.search.Cursor.SetMode(cursor.CursorStatic)

	press(t, b, "/", "B", "C", "A")
	assert.True(t, b.search.Focused())
	assert.Equal(t, []string{"B", "BC", "BCA"}, p.searches)

	// q goes to the search box while it is focused
	press(t, b, "q")
	assert.Equal(t, "BCAq", b.search.Value())

	press(t, b, "enter")
	assert.False(t, b.search.Focused())
	press(t, b, "esc")
	assert.Equal(t, "", b.search.Value())
	assert.Equal(t, []string{"clear"}, p.calls)
}

func TestBrowserShowsFetchError(t *testing.T) {
	p := &fakePane{title: "Tanda Terima"}
	b := NewBrowser(context.Background(), p)
	b.Update(fetchDoneMsg{pane: 0, err: fmt.Errorf("Sesi berakhir")})
	assert.Contains(t, b.View(), "Sesi berakhir")

	b.Update(fetchDoneMsg{pane: 0, err: context.Canceled})
	assert.NotContains(t, b.View(), "Sesi berakhir")
}

func TestSummaryLine(t *testing.T) {
	got := SummaryLine(api.Summary{
		Today:     api.Bucket{Count: 2, Total: 1_500_000},
		ThisWeek:  api.Bucket{Count: 4, Total: 2_000_000},
		ThisMonth: api.Bucket{Count: 9},
	})
	assert.Equal(t, "Hari ini: 2 (Rp 1.500.000) • Minggu ini: 4 (Rp 2.000.000) • Bulan ini: 9 (Rp 0)", got)
}

type notaSource struct {
	mu    sync.Mutex
	notas []string
}

func (s *notaSource) Name() string { return "nota" }

func (s *notaSource) List(_ context.Context, req datatables.Request) (datatables.Response[string], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []string
	for _, n := range s.notas {
		if strings.Contains(n, req.Search) {
			matched = append(matched, n)
		}
	}
	start := min(req.Start, len(matched))
	end := min(start+req.Length, len(matched))
	return datatables.Response[string]{
		Draw: req.Draw, RecordsTotal: int64(len(s.notas)), RecordsFiltered: int64(len(matched)),
		Data: matched[start:end],
	}, nil
}

func (s *notaSource) Show(context.Context, string) (string, api.Envelope, error) {
	return "", api.Envelope{}, nil
}
func (s *notaSource) Create(context.Context, listresource.Payload) (api.Envelope, error) {
	return api.Envelope{}, nil
}
func (s *notaSource) Update(context.Context, string, listresource.Payload) (api.Envelope, error) {
	return api.Envelope{}, nil
}
func (s *notaSource) Delete(context.Context, string) (api.Envelope, error) {
	return api.Envelope{}, nil
}

type staticSummary api.Summary

func (s staticSummary) Summary(context.Context, map[string]string) (api.Summary, error) {
	return api.Summary(s), nil
}

func TestListPaneDrivesController(t *testing.T) {
	src := &notaSource{}
	for i := 1; i <= 12; i++ {
		src.notas = append(src.notas, fmt.Sprintf("INV-%02d", i))
	}
	ctx := context.Background()
	ctl := listresource.New[string](ctx, src, listresource.Options{PerPage: 5})
	pane := &ListPane[string]{
		Name:       "Nota",
		Ctl:        ctl,
		Table:      view.Table[string]{Numbered: true, Columns: []view.Column[string]{{Title: "Nota", Cell: func(s string) string { return s }}}},
		Summarizer: staticSummary{ThisMonth: api.Bucket{Count: 12}},
	}

	changes := 0
	pane.OnChange(func() { changes++ })
	require.NoError(t, pane.Refresh(ctx))
	assert.Equal(t, 5, pane.Rows())
	refetched, err := pane.Refocus(ctx)
	require.NoError(t, err)
	assert.False(t, refetched, "fresh list is not refetched")
	require.NoError(t, pane.Page(ctx, 2))
	assert.Equal(t, 2, pane.Rows())
	out := pane.Render(-1)
	assert.Contains(t, out, "INV-11")
	assert.Contains(t, out, "Menampilkan 11 - 12 dari 12 data")
	assert.Positive(t, changes)

	// pages past the end are ignored
	require.NoError(t, pane.Page(ctx, 1))
	assert.Equal(t, 2, pane.Rows())

	sum, err := pane.Summary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 12, sum.ThisMonth.Count)

	pane.Summarizer = nil
	_, err = pane.Summary(ctx)
	assert.ErrorIs(t, err, ErrNoSummary)
}
