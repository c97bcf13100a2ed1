// Package render projects the todo snapshot and the active filter into
// terminal markup. Everything here is a pure function of its inputs;
// user text is sanitised before it meets any style.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Apply keeps the todos that pass f, in their original order.
func Apply(todos []model.Todo, f model.Filter) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Sanitize makes s safe to embed in a single styled line: escape
// sequences are removed, line breaks and tabs become spaces and other
// control characters are dropped.
func Sanitize(s string) string {
	return clean(s, false)
}

// SanitizeBlock is Sanitize but keeps newlines, for descriptions.
func SanitizeBlock(s string) string {
	return clean(s, true)
}

func clean(s string, keepNewlines bool) string {
	s = ansi.Strip(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' && keepNewlines:
			b.WriteRune(r)
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteByte(' ')
		case unicode.IsControl(r), unicode.Is(unicode.Bidi_Control, r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Row is the view model of one list line.
type Row struct {
	ID          int64
	Title       string // sanitised
	Description string // sanitised, newlines kept
	Priority    model.Priority
	Completed   bool
	Badge       Badge
	Urgency     Bucket
	Created     string
}

// Rows projects todos through f at time now.
func Rows(todos []model.Todo, f model.Filter, now time.Time) []Row {
	visible := Apply(todos, f)
	rows := make([]Row, 0, len(visible))
	for _, t := range visible {
		rows = append(rows, NewRow(t, now))
	}
	return rows
}

// NewRow builds the view model of t.
func NewRow(t model.Todo, now time.Time) Row {
	r := Row{
		ID:          t.ID,
		Title:       Sanitize(t.Title),
		Description: SanitizeBlock(t.Description),
		Priority:    t.Priority,
		Completed:   t.Completed,
		Badge:       Classify(t.Deadline, now),
		Urgency:     Urgency(t.Deadline, now, t.Completed),
	}
	if r.Priority == "" {
		r.Priority = model.PriorityMedium
	}
	if !t.CreatedAt.IsZero() {
		r.Created = t.CreatedAt.In(now.Location()).Format("2006-01-02 15:04")
	}
	return r
}

// Truncate cuts s to width display cells, adding an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Line renders one row. width bounds the title; pending marks a row
// with a request in flight.
func Line(th ui.Theme, r Row, width int, pending bool) string {
	box := th.Muted.Render(th.BoxUnchecked)
	if r.Completed {
		box = th.Success.Render(th.BoxChecked)
	}

	titleWidth := width - 24
	if titleWidth < 10 {
		titleWidth = 10
	}
	title := Truncate(r.Title, titleWidth)
	switch {
	case r.Completed:
		title = th.Done.Render(title)
	case r.Urgency == BucketOverdue:
		title = th.Overdue.Render(title)
	case r.Urgency == BucketDueSoon:
		title = th.DueSoon.Render(title)
	}

	parts := []string{
		th.Muted.Render(fmt.Sprintf("#%-3d", r.ID)),
		box,
		title,
		PriorityTag(th, r.Priority),
	}
	if b := BadgeText(th, r.Badge); b != "" {
		parts = append(parts, b)
	}
	if pending {
		parts = append(parts, th.Muted.Render("(saving…)"))
	}
	return strings.Join(parts, " ")
}

// Lines renders rows, or a muted placeholder when empty.
func Lines(th ui.Theme, rows []Row, width int, pending func(id int64) bool) []string {
	if len(rows) == 0 {
		return []string{th.Muted.Render("no items")}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		p := pending != nil && pending(r.ID)
		out = append(out, Line(th, r, width, p))
	}
	return out
}

// PriorityTag renders the priority badge.
func PriorityTag(th ui.Theme, p model.Priority) string {
	label := "[" + string(p) + "]"
	switch p {
	case model.PriorityHigh:
		return th.High.Render(label)
	case model.PriorityLow:
		return th.Low.Render(label)
	default:
		return th.Medium.Render(label)
	}
}

// BadgeText renders the deadline badge, empty for BucketNone.
func BadgeText(th ui.Theme, b Badge) string {
	text := b.Icon + " " + b.Label
	switch b.Bucket {
	case BucketOverdue:
		return th.Overdue.Render(text)
	case BucketDueSoon:
		return th.DueSoon.Render(text)
	case BucketUpcoming:
		return th.Upcoming.Render(text)
	}
	return ""
}

// Header is the title line with per-state counts and a progress bar.
func Header(th ui.Theme, all, completed, pending int) []string {
	return []string{
		fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			th.Title.Render("Todos"),
			th.Success.Render(th.SymDone), completed,
			th.Pending.Render(th.SymPending), pending,
			th.Accent.Render("Total"), all,
		),
		th.Muted.Render(ui.ProgressBar(completed, all, 28)),
	}
}

// Markdown renders a sanitised description for the detail pane.
func Markdown(description string, width int, style string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", nil
	}
	if width < 20 {
		width = 20
	}
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(SanitizeBlock(description))
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}
