package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + border.
// Renderers take it by value; there is no package-level current theme.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Overdue, DueSoon, Upcoming                    lipgloss.Style
	Low, Medium, High                             lipgloss.Style
	Selected, Done, Help                          lipgloss.Style
	TabActive, TabInactive                        lipgloss.Style

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	Border                   lipgloss.Border
	BorderColor              lipgloss.TerminalColor
}

// NewTheme returns classic, neon or mono. Unknown names get classic.
func NewTheme(name string) Theme {
	switch strings.ToLower(name) {
	case "neon":
		return theme("neon", palette{
			title: "13", muted: "8", accent: "14", success: "10", err: "9", pending: "11",
			upcoming: "12", border: "13",
		}, "◻", "◼", lipgloss.RoundedBorder())
	case "mono":
		t := Theme{
			Name:         "mono",
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-",
			Border:      lipgloss.NormalBorder(),
			BorderColor: lipgloss.NoColor{},
		}
		plain := lipgloss.NewStyle()
		t.Title = plain.Bold(true)
		t.Muted, t.Accent, t.Success, t.Pending = plain, plain, plain, plain
		t.Error = plain.Bold(true)
		t.Overdue = plain.Bold(true)
		t.DueSoon = plain.Underline(true)
		t.Upcoming = plain
		t.Low, t.Medium, t.High = plain, plain, plain.Bold(true)
		t.Selected = plain.Reverse(true)
		t.Done = plain.Strikethrough(true)
		t.Help = plain
		t.TabActive = plain.Reverse(true).Padding(0, 1)
		t.TabInactive = plain.Padding(0, 1)
		return t
	default: // classic
		return theme("classic", palette{
			title: "", muted: "8", accent: "12", success: "42", err: "9", pending: "214",
			upcoming: "39", border: "8",
		}, "☐", "☑", lipgloss.RoundedBorder())
	}
}

type palette struct {
	title, muted, accent, success, err, pending, upcoming, border string
}

func theme(name string, p palette, unchecked, checked string, border lipgloss.Border) Theme {
	c := func(code string) lipgloss.Style {
		s := lipgloss.NewStyle()
		if code != "" {
			s = s.Foreground(lipgloss.Color(code))
		}
		return s
	}
	return Theme{
		Name:        name,
		Title:       c(p.title).Bold(true),
		Muted:       c(p.muted).Faint(true),
		Accent:      c(p.accent),
		Success:     c(p.success),
		Error:       c(p.err).Bold(true),
		Pending:     c(p.pending),
		Overdue:     c(p.err).Bold(true),
		DueSoon:     c(p.pending).Bold(true),
		Upcoming:    c(p.upcoming),
		Low:         c(p.success),
		Medium:      c(p.pending),
		High:        c(p.err),
		Selected:    lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:        lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:        lipgloss.NewStyle().Faint(true),
		TabActive:   c(p.accent).Bold(true).Underline(true).Padding(0, 1),
		TabInactive: c(p.muted).Padding(0, 1),

		BoxUnchecked: unchecked,
		BoxChecked:   checked,
		SymDone:      "✔",
		SymPending:   "•",
		Border:       border,
		BorderColor:  lipgloss.Color(p.border),
	}
}
