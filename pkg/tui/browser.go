// Package tui is the interactive list browser of the back-office client. It
// follows the bubbletea model: controllers do the fetching, the Browser only
// turns keys into controller calls and redraws on every state change.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/api"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/view"
)

const fetchTimeout = 30 * time.Second

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#888888"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5B8DEF"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

// changedMsg is sent when any pane's controller published new state.
type changedMsg struct{}

type fetchDoneMsg struct {
	pane int
	err  error
}

type summaryMsg struct {
	pane int
	sum  api.Summary
	err  error
}

type Browser struct {
	ctx     context.Context
	panes   []Pane
	active  int
	cursor  int
	search  textinput.Model
	changes chan struct{}

	summary    *api.Summary
	err        string
	helpHidden bool
}

// NewBrowser opens on the first pane. ctx bounds every fetch.
func NewBrowser(ctx context.Context, panes ...Pane) *Browser {
	ti := textinput.New()
	ti.Placeholder = "Cari..."
	ti.Prompt = "/ "
	ti.CharLimit = 100

	b := &Browser{
		ctx:     ctx,
		panes:   panes,
		search:  ti,
		changes: make(chan struct{}, 1),
	}
	for _, p := range panes {
		p.OnChange(b.signal)
	}
	return b
}

// signal coalesces change notifications; one pending message is enough.
func (b *Browser) signal() {
	select {
	case b.changes <- struct{}{}:
	default:
	}
}

func (b *Browser) waitForChange() tea.Msg {
	select {
	case <-b.changes:
		return changedMsg{}
	case <-b.ctx.Done():
		return nil
	}
}

func (b *Browser) Init() tea.Cmd {
	if len(b.panes) == 0 {
		return tea.Quit
	}
	return tea.Batch(b.load(), b.waitForChange)
}

func (b *Browser) pane() Pane { return b.panes[b.active] }

func (b *Browser) run(fn func(ctx context.Context, p Pane) error) tea.Cmd {
	idx, p := b.active, b.pane()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(b.ctx, fetchTimeout)
		defer cancel()
		return fetchDoneMsg{pane: idx, err: fn(ctx, p)}
	}
}

func (b *Browser) fetchSummary() tea.Cmd {
	idx, p := b.active, b.pane()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(b.ctx, fetchTimeout)
		defer cancel()
		sum, err := p.Summary(ctx)
		return summaryMsg{pane: idx, sum: sum, err: err}
	}
}

// load refreshes the active pane and its summary.
func (b *Browser) load() tea.Cmd {
	return tea.Batch(
		b.run(func(ctx context.Context, p Pane) error { return p.Refresh(ctx) }),
		b.fetchSummary(),
	)
}

func (b *Browser) switchTo(i int) tea.Cmd {
	n := len(b.panes)
	b.active = ((i % n) + n) % n
	b.cursor = 0
	b.summary = nil
	b.err = ""
	b.search.SetValue("")
	// coming back to a tab reloads it only when its data is stale
	return tea.Batch(
		b.run(func(ctx context.Context, p Pane) error {
			_, err := p.Refocus(ctx)
			return err
		}),
		b.fetchSummary(),
	)
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		b.clampCursor()
		return b, b.waitForChange
	case fetchDoneMsg:
		if msg.pane == b.active {
			b.err = ""
			if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
				b.err = msg.err.Error()
			}
			b.clampCursor()
		}
		return b, nil
	case summaryMsg:
		if msg.pane == b.active {
			b.summary = nil
			if msg.err == nil {
				sum := msg.sum
				b.summary = &sum
			}
		}
		return b, nil
	case tea.KeyMsg:
		if b.search.Focused() {
			return b.updateSearch(msg)
		}
		return b.updateKeys(msg)
	}
	return b, nil
}

func (b *Browser) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return b, tea.Quit
	case "enter":
		b.search.Blur()
		return b, nil
	case "esc":
		b.search.Blur()
		b.search.SetValue("")
		return b, b.run(func(ctx context.Context, p Pane) error { return p.ClearSearch(ctx) })
	}
	before := b.search.Value()
	var cmd tea.Cmd
	b.search, cmd = b.search.Update(msg)
	if after := b.search.Value(); after != before {
		b.cursor = 0
		// the controller debounces; empty terms reload right away
		b.pane().Search(strings.TrimSpace(after))
	}
	return b, cmd
}

func (b *Browser) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return b, tea.Quit
	case "/":
		return b, b.search.Focus()
	case "esc":
		if b.search.Value() == "" {
			return b, nil
		}
		b.search.SetValue("")
		return b, b.run(func(ctx context.Context, p Pane) error { return p.ClearSearch(ctx) })
	case "tab":
		return b, b.switchTo(b.active + 1)
	case "shift+tab":
		return b, b.switchTo(b.active - 1)
	case "right", "n", "pgdown":
		b.cursor = 0
		return b, b.run(func(ctx context.Context, p Pane) error { return p.Page(ctx, 1) })
	case "left", "p", "pgup":
		b.cursor = 0
		return b, b.run(func(ctx context.Context, p Pane) error { return p.Page(ctx, -1) })
	case "down", "j":
		if b.cursor < b.pane().Rows()-1 {
			b.cursor++
		}
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "r":
		return b, b.load()
	case "?":
		b.helpHidden = !b.helpHidden
	}
	return b, nil
}

func (b *Browser) clampCursor() {
	if len(b.panes) == 0 {
		return
	}
	if n := b.pane().Rows(); b.cursor >= n {
		b.cursor = max(n-1, 0)
	}
}

func (b *Browser) View() string {
	if len(b.panes) == 0 {
		return ""
	}
	var s strings.Builder
	tabs := make([]string, len(b.panes))
	for i, p := range b.panes {
		if i == b.active {
			tabs[i] = activeTabStyle.Render(p.Title())
		} else {
			tabs[i] = tabStyle.Render(p.Title())
		}
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	s.WriteString("\n\n")
	s.WriteString(b.search.View())
	if note := b.pane().Note(); note != "" {
		s.WriteString("  " + helpStyle.Render(note))
	}
	s.WriteString("\n\n")
	s.WriteString(b.pane().Render(b.cursor))
	s.WriteString("\n")
	if b.summary != nil {
		s.WriteString("\n" + summaryStyle.Render(SummaryLine(*b.summary)) + "\n")
	}
	if b.err != "" {
		s.WriteString("\n" + errorStyle.Render(b.err) + "\n")
	}
	if !b.helpHidden {
		s.WriteString("\n" + helpStyle.Render("tab: sumber data • ←/→: halaman • ↑/↓: pilih • /: cari • r: muat ulang • q: keluar") + "\n")
	}
	return s.String()
}

// SummaryLine renders the three aggregate buckets on one line.
func SummaryLine(s api.Summary) string {
	b := func(label string, x api.Bucket) string {
		return fmt.Sprintf("%s: %d (%s)", label, x.Count, view.Rupiah(x.Total))
	}
	return strings.Join([]string{
		b("Hari ini", s.Today),
		b("Minggu ini", s.ThisWeek),
		b("Bulan ini", s.ThisMonth),
	}, " • ")
}
