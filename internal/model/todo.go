package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/Makepad-fr/tada/internal/apperr"
)

// Priority is the urgency a user assigns to a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority accepts low|medium|high in any case. Empty means medium.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, nil
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("unknown priority %q (want low, medium or high)", s)
}

// Next cycles low -> medium -> high -> low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Todo is the backend's task record. The client only ever holds copies.
type Todo struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Draft projects the record back into an editable draft.
func (t Todo) Draft() Draft {
	d := Draft{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
	}
	if t.Deadline != nil {
		dl := *t.Deadline
		d.Deadline = &dl
	}
	return d
}

// Draft is the request body for creating or fully updating a todo.
type Draft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
}

// Normalize trims text fields and defaults the priority.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	return d
}

// Validate requires a non-empty title and a known priority.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return apperr.Validation("title cannot be empty")
	}
	switch d.Priority {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
		return nil
	}
	return apperr.Validation("unknown priority %q", d.Priority)
}

// Deadline input layouts, tried in order after RFC 3339.
var deadlineLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// ParseDeadline reads a user-entered deadline in loc. An empty string
// means no deadline; a bare date means the end of that day.
func ParseDeadline(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		eod := t.Add(23*time.Hour + 59*time.Minute)
		return &eod, nil
	}
	return nil, fmt.Errorf("cannot parse deadline %q (use YYYY-MM-DD HH:MM)", s)
}

// FormatDeadline is the inverse of ParseDeadline for form fields.
func FormatDeadline(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
