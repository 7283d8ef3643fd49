// Package view renders list state as text tables. It holds no state of its
// own: everything comes from a listresource.ListState snapshot.
package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/resources"
)

const (
	LoadingText = "Memuat data..."
	EmptyText   = "Tidak ada data"
)

// Column renders one cell of a row. Style, when set, decorates the cell
// after padding.
type Column[T any] struct {
	Title string
	Width int
	Cell  func(T) string
	Style func(T) lipgloss.Style
	Right bool
}

// Slot is what the body of the table shows.
type Slot int

const (
	SlotRows Slot = iota
	SlotLoading
	SlotError
	SlotEmpty
)

// BodyOf picks the body slot: loading beats error beats empty beats rows.
// Search fetches keep the rows visible.
func BodyOf[T any](st listresource.ListState[T]) (Slot, string) {
	switch {
	case st.Loading:
		return SlotLoading, LoadingText
	case st.Error != "":
		return SlotError, st.Error
	case len(st.Items) == 0:
		if st.SearchError != "" {
			return SlotError, st.SearchError
		}
		return SlotEmpty, EmptyText
	}
	return SlotRows, ""
}

type Table[T any] struct {
	Columns []Column[T]
	// Numbered prefixes a "No" column counting across pages.
	Numbered bool
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

// RowNumber is the 1-based number of row i of the current page.
func RowNumber(p listresource.Pagination, i int) int {
	return (p.CurrentPage-1)*p.PerPage + i + 1
}

// Headers returns the column titles.
func (t Table[T]) Headers() []string {
	var out []string
	if t.Numbered {
		out = append(out, "No")
	}
	for _, c := range t.Columns {
		out = append(out, c.Title)
	}
	return out
}

// Cells returns the plain text of every row of the page.
func (t Table[T]) Cells(st listresource.ListState[T]) [][]string {
	rows := make([][]string, 0, len(st.Items))
	for i, it := range st.Items {
		var r []string
		if t.Numbered {
			r = append(r, strconv.Itoa(RowNumber(st.Pagination, i)))
		}
		for _, c := range t.Columns {
			r = append(r, c.Cell(it))
		}
		rows = append(rows, r)
	}
	return rows
}

// Render draws header, body and footer. selected highlights a row, -1 for
// none.
func (t Table[T]) Render(st listresource.ListState[T], selected int) string {
	widths := t.widths(st)
	var b strings.Builder
	b.WriteString(headerStyle.Render(t.line(t.Headers(), widths)))
	b.WriteByte('\n')

	slot, msg := BodyOf(st)
	switch slot {
	case SlotLoading, SlotEmpty:
		b.WriteString(noteStyle.Render(msg))
		b.WriteByte('\n')
	case SlotError:
		b.WriteString(errStyle.Render(msg))
		b.WriteByte('\n')
	default:
		off := 0
		if t.Numbered {
			off = 1
		}
		for i, it := range st.Items {
			cells := make([]string, 0, len(widths))
			if t.Numbered {
				cells = append(cells, pad(strconv.Itoa(RowNumber(st.Pagination, i)), widths[0], true))
			}
			for j, c := range t.Columns {
				cell := pad(c.Cell(it), widths[j+off], c.Right)
				if c.Style != nil {
					cell = c.Style(it).Render(cell)
				}
				cells = append(cells, cell)
			}
			line := strings.Join(cells, "  ")
			if i == selected {
				line = lipgloss.NewStyle().Reverse(true).Render(line)
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	b.WriteString(noteStyle.Render(Footer(st.Pagination)))
	return b.String()
}

func (t Table[T]) widths(st listresource.ListState[T]) []int {
	heads := t.Headers()
	w := make([]int, len(heads))
	for i, h := range heads {
		w[i] = lipgloss.Width(h)
	}
	off := 0
	if t.Numbered {
		off = 1
	}
	for j, c := range t.Columns {
		if c.Width > 0 {
			w[j+off] = max(w[j+off], c.Width)
		}
	}
	for _, r := range t.Cells(st) {
		for i, cell := range r {
			w[i] = max(w[i], lipgloss.Width(cell))
		}
	}
	return w
}

func (t Table[T]) line(cells []string, widths []int) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = pad(c, widths[i], false)
	}
	return strings.Join(out, "  ")
}

func pad(s string, w int, right bool) string {
	n := lipgloss.Width(s)
	if n >= w {
		return s
	}
	if right {
		return strings.Repeat(" ", w-n) + s
	}
	return s + strings.Repeat(" ", w-n)
}

// Footer is "Menampilkan X - Y dari Z data".
func Footer(p listresource.Pagination) string {
	return fmt.Sprintf("Menampilkan %d - %d dari %d data", p.From(), p.To(), p.TotalItems)
}

// BadgeStyle colours a status badge.
func BadgeStyle(b resources.Badge) lipgloss.Style {
	c := map[string]string{
		resources.ColorGreen:  "#22C55E",
		resources.ColorBlue:   "#3B82F6",
		resources.ColorRed:    "#EF4444",
		resources.ColorYellow: "#EAB308",
	}[b.Color]
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true)
}
