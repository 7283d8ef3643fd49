package tui

import (
	"context"
	"errors"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/api"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/view"
)

var ErrNoSummary = errors.New("summary not available")

// Pane is one resource list inside the browser.
type Pane interface {
	Title() string
	Refresh(ctx context.Context) error
	// Refocus refetches only when the list is stale and reports whether it
	// did.
	Refocus(ctx context.Context) (bool, error)
	Search(term string)
	ClearSearch(ctx context.Context) error
	// Page moves delta pages from the current one.
	Page(ctx context.Context, delta int) error
	Rows() int
	Render(selected int) string
	// Note is a short status shown under the search box, e.g. while a
	// search is in flight.
	Note() string
	Summary(ctx context.Context) (api.Summary, error)
	OnChange(fn func())
}

// Summarizer is satisfied by *listresource.HTTPSource.
type Summarizer interface {
	Summary(ctx context.Context, filters map[string]string) (api.Summary, error)
}

// ListPane adapts a list controller and its table to Pane.
type ListPane[T any] struct {
	Name       string
	Ctl        *listresource.Controller[T]
	Table      view.Table[T]
	Summarizer Summarizer
}

func (p *ListPane[T]) Title() string { return p.Name }

func (p *ListPane[T]) Refresh(ctx context.Context) error { return p.Ctl.Refresh(ctx) }

func (p *ListPane[T]) Refocus(ctx context.Context) (bool, error) { return p.Ctl.Refocus(ctx) }

func (p *ListPane[T]) Search(term string) { p.Ctl.Search(term) }

func (p *ListPane[T]) ClearSearch(ctx context.Context) error { return p.Ctl.ClearSearch(ctx) }

func (p *ListPane[T]) Page(ctx context.Context, delta int) error {
	st := p.Ctl.State()
	return p.Ctl.ChangePage(ctx, st.Pagination.CurrentPage+delta)
}

func (p *ListPane[T]) Rows() int { return len(p.Ctl.State().Items) }

func (p *ListPane[T]) Render(selected int) string {
	return p.Table.Render(p.Ctl.State(), selected)
}

func (p *ListPane[T]) Note() string {
	st := p.Ctl.State()
	switch {
	case st.IsSearching:
		return "Mencari..."
	case st.SearchError != "" && len(st.Items) > 0:
		return st.SearchError
	}
	return ""
}

func (p *ListPane[T]) Summary(ctx context.Context) (api.Summary, error) {
	if p.Summarizer == nil {
		return api.Summary{}, ErrNoSummary
	}
	return p.Summarizer.Summary(ctx, p.Ctl.State().Filters)
}

func (p *ListPane[T]) OnChange(fn func()) {
	p.Ctl.OnChange(func(listresource.ListState[T]) { fn() })
}
