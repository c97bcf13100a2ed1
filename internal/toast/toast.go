// Package toast keeps the transient notifications shown at the bottom of
// the TUI. Each toast expires on its own timer; several can be visible at
// once and they are drawn in the order they were shown.
package toast

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/render"
	"github.com/Makepad-fr/tada/internal/ui"
)

// DefaultTTL is how long a toast stays up when no TTL is configured.
const DefaultTTL = 3 * time.Second

type Severity int

const (
	Info Severity = iota
	Success
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

func (s Severity) icon() string {
	switch s {
	case Success:
		return "✔"
	case Error:
		return "✖"
	default:
		return "ℹ"
	}
}

// Toast is one visible notification.
type Toast struct {
	ID       int
	Message  string
	Severity Severity
}

// ExpiredMsg is delivered when the toast with ID has outlived its TTL.
type ExpiredMsg struct{ ID int }

// Notifier owns the visible toasts. The zero value is not usable; call New.
type Notifier struct {
	ttl    time.Duration
	nextID int
	toasts []Toast
}

func New(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{ttl: ttl}
}

// Show appends a toast and returns the command that expires it.
func (n *Notifier) Show(message string, sev Severity) tea.Cmd {
	n.nextID++
	id := n.nextID
	n.toasts = append(n.toasts, Toast{
		ID:       id,
		Message:  render.Sanitize(message),
		Severity: sev,
	})
	return tea.Tick(n.ttl, func(time.Time) tea.Msg { return ExpiredMsg{ID: id} })
}

func (n *Notifier) Info(message string) tea.Cmd    { return n.Show(message, Info) }
func (n *Notifier) Success(message string) tea.Cmd { return n.Show(message, Success) }
func (n *Notifier) Error(message string) tea.Cmd   { return n.Show(message, Error) }

// Update consumes ExpiredMsg. It reports whether msg was for the notifier.
func (n *Notifier) Update(msg tea.Msg) bool {
	m, ok := msg.(ExpiredMsg)
	if !ok {
		return false
	}
	n.remove(m.ID)
	return true
}

// DismissAt removes the toast drawn on row (0 is the oldest visible one).
func (n *Notifier) DismissAt(row int) bool {
	if row < 0 || row >= len(n.toasts) {
		return false
	}
	n.toasts = append(n.toasts[:row:row], n.toasts[row+1:]...)
	return true
}

// DismissLatest removes the newest toast.
func (n *Notifier) DismissLatest() bool {
	return n.DismissAt(len(n.toasts) - 1)
}

// Toasts returns a copy of the visible toasts, oldest first.
func (n *Notifier) Toasts() []Toast {
	return append([]Toast(nil), n.toasts...)
}

func (n *Notifier) Len() int { return len(n.toasts) }

func (n *Notifier) remove(id int) {
	for i, t := range n.toasts {
		if t.ID == id {
			n.DismissAt(i)
			return
		}
	}
}

// View renders one line per toast; empty when nothing is visible.
func (n *Notifier) View(th ui.Theme) string {
	if len(n.toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(n.toasts))
	for _, t := range n.toasts {
		style := th.Accent
		switch t.Severity {
		case Success:
			style = th.Success
		case Error:
			style = th.Error
		}
		lines = append(lines, style.Render(t.Severity.icon()+" "+t.Message))
	}
	return strings.Join(lines, "\n")
}
