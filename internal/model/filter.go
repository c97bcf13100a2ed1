package model

import (
	"fmt"
	"strings"
)

// Filter selects which todos the list shows. It is UI state only.
type Filter int

const (
	FilterAll Filter = iota
	FilterPending
	FilterCompleted
)

// Filters is the tab order of the task view.
var Filters = []Filter{FilterAll, FilterPending, FilterCompleted}

func (f Filter) String() string {
	switch f {
	case FilterPending:
		return "pending"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// ParseFilter accepts all|pending|completed (and done as an alias).
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "pending", "todo":
		return FilterPending, nil
	case "completed", "done":
		return FilterCompleted, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q (want all, pending or completed)", s)
}

// Match reports whether t passes the filter.
func (f Filter) Match(t Todo) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next returns the following tab, wrapping around.
func (f Filter) Next() Filter {
	return Filters[(int(f)+1)%len(Filters)]
}
