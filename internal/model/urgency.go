package model

import (
	"sort"
	"strings"
	"time"
)

// DefaultDueSoonDays is the window that separates DueSoon from DueLater.
const DefaultDueSoonDays = 30

type Urgency int

const (
	UrgencyOverdue Urgency = iota
	UrgencyDueSoon
	UrgencyDueLater
	UrgencyNoDueDate
	UrgencyCompleted
)

func (u Urgency) String() string {
	switch u {
	case UrgencyOverdue:
		return "Overdue"
	case UrgencyDueSoon:
		return "DueSoon"
	case UrgencyDueLater:
		return "DueLater"
	case UrgencyNoDueDate:
		return "NoDueDate"
	case UrgencyCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// ColorName is the legend name of the urgency color.
func (u Urgency) ColorName() string {
	switch u {
	case UrgencyOverdue:
		return "red"
	case UrgencyDueSoon:
		return "orange"
	case UrgencyDueLater:
		return "blue"
	case UrgencyCompleted:
		return "green"
	default:
		return "white"
	}
}

// Hex is the display color of the urgency.
func (u Urgency) Hex() string {
	switch u {
	case UrgencyOverdue:
		return "#ff073a"
	case UrgencyDueSoon:
		return "#ffa500"
	case UrgencyDueLater:
		return "#1E90FF"
	case UrgencyCompleted:
		return "#32CD32"
	default:
		return "#FFFFFF"
	}
}

// Classify buckets a task by completion and due date relative to now's calendar day.
// A due date at or before today is overdue. A non-positive window falls back to
// DefaultDueSoonDays.
func Classify(t Task, now time.Time, window int) Urgency {
	if t.Completed {
		return UrgencyCompleted
	}
	if t.DueDate == nil {
		return UrgencyNoDueDate
	}
	if window <= 0 {
		window = DefaultDueSoonDays
	}
	days := daysBetween(now, *t.DueDate)
	switch {
	case days <= 0:
		return UrgencyOverdue
	case days <= window:
		return UrgencyDueSoon
	default:
		return UrgencyDueLater
	}
}

// Sort returns a new slice ordered by urgency, then priority (High first).
// Ties keep their input order.
func Sort(tasks []Task, now time.Time, window int) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		ui, uj := Classify(out[i], now, window), Classify(out[j], now, window)
		if ui != uj {
			return ui < uj
		}
		return out[i].Priority > out[j].Priority
	})
	return out
}

type Query struct {
	Text          string
	ShowCompleted bool
}

// Filter drops deleted tasks, tasks not matching the query text and, unless
// ShowCompleted is set, completed tasks.
func Filter(tasks []Task, q Query) []Task {
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Visible() {
			continue
		}
		if t.Completed && !q.ShowCompleted {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Incomplete returns visible, not-completed tasks in sorted order.
func Incomplete(tasks []Task, now time.Time, window int) []Task {
	return Sort(Filter(tasks, Query{}), now, window)
}

// daysBetween counts whole calendar days from a's day to b's day.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
