package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/render"
	"github.com/Makepad-fr/tada/internal/ui"
)

// rowItem adapts render.Row to bubbles/list.Item
type rowItem struct {
	render.Row
}

func (i rowItem) FilterValue() string { return i.Title }

// rowDelegate draws one row per line.
type rowDelegate struct {
	theme   ui.Theme
	pending func(id int64) bool
	spinner func() string
}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(rowItem)
	if !ok {
		return
	}
	pending := d.pending != nil && d.pending(it.ID)
	line := render.Line(d.theme, it.Row, m.Width()-2, pending)
	prefix := "  "
	if pending && d.spinner != nil {
		prefix = d.spinner() + " "
	} else if index == m.Index() {
		prefix = d.theme.Selected.Render(">") + " "
	}
	fmt.Fprint(w, prefix+line)
}

func newTaskList(d rowDelegate) list.Model {
	l := list.New(nil, d, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = d.theme.Help
	l.Styles.NoItems = d.theme.Muted
	l.SetStatusBarItemName("todo", "todos")
	// d deletes here; keep it off the pager
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("right", "pgdown", "f"), key.WithHelp("→/pgdn", "next page"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("left", "pgup", "b"), key.WithHelp("←/pgup", "prev page"))
	return l
}
