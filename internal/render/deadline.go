package render

import (
	"fmt"
	"time"
)

// Bucket is a deadline-urgency class.
type Bucket string

const (
	BucketNone     Bucket = ""
	BucketOverdue  Bucket = "overdue"
	BucketDueSoon  Bucket = "due-soon"
	BucketUpcoming Bucket = "upcoming"
)

const (
	soonWindow = 24 * time.Hour
	weekWindow = 7 * 24 * time.Hour
)

// Badge is the deadline marker drawn next to a todo.
type Badge struct {
	Bucket Bucket
	Label  string
	Icon   string
}

// Classify buckets deadline relative to now. Labels are formatted in
// now's location. A nil deadline gets no badge.
func Classify(deadline *time.Time, now time.Time) Badge {
	if deadline == nil {
		return Badge{}
	}
	dl := deadline.In(now.Location())
	diff := dl.Sub(now)
	switch {
	case diff < 0:
		return Badge{
			Bucket: BucketOverdue,
			Label:  "Overdue: " + dl.Format("2006-01-02 15:04"),
			Icon:   "⚠",
		}
	case diff <= soonWindow:
		var label string
		if diff < time.Hour {
			label = "Due in " + plural(max(1, int(diff/time.Minute)), "minute")
		} else {
			label = "Due in " + plural(int(diff/time.Hour), "hour")
		}
		return Badge{Bucket: BucketDueSoon, Label: label, Icon: "⏰"}
	case diff <= weekWindow:
		return Badge{Bucket: BucketUpcoming, Label: "Due " + dl.Format("Mon Jan 2 15:04"), Icon: "◷"}
	default:
		return Badge{Bucket: BucketUpcoming, Label: "Due " + dl.Format("Jan 2 2006 15:04"), Icon: "◌"}
	}
}

// Urgency is the row-level styling class. Completed todos are never
// urgent; upcoming deadlines do not style the row.
func Urgency(deadline *time.Time, now time.Time, completed bool) Bucket {
	if completed {
		return BucketNone
	}
	switch b := Classify(deadline, now).Bucket; b {
	case BucketOverdue, BucketDueSoon:
		return b
	}
	return BucketNone
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
