package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the DD/MM/YY layout used for due and created dates everywhere.
const DateLayout = "02/01/06"

// shortDateLayout also accepts typed dates without zero padding, like 5/3/26.
const shortDateLayout = "2/1/06"

var (
	ErrInvalidPriority    = errors.New("model: invalid task priority")
	ErrEmptyDescription   = errors.New("model: description cannot be empty")
	ErrInvalidDate        = errors.New("model: invalid date, use DD/MM/YY")
	ErrAlreadyCompleted   = errors.New("model: task is already completed")
	ErrMissingID          = errors.New("model: task id is required")
	ErrMissingCreatedDate = errors.New("model: task created date is required")
)

type Priority int

const (
	PriorityLow    Priority = 1
	PriorityNormal Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	default:
		return false
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityNormal:
		return "Normal"
	case PriorityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// Next cycles Low -> Normal -> High -> Low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityNormal
	case PriorityNormal:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// ParsePriority accepts a level name (any case) or its number.
func ParsePriority(raw string) (Priority, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	switch trimmed {
	case "low", "l":
		return PriorityLow, nil
	case "normal", "n", "medium":
		return PriorityNormal, nil
	case "high", "h":
		return PriorityHigh, nil
	}
	if n, err := strconv.Atoi(trimmed); err == nil && Priority(n).IsValid() {
		return Priority(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
}

type Task struct {
	ID             string
	Description    string
	Priority       Priority
	DueDate        *time.Time
	Completed      bool
	AdditionalInfo string
	CreatedDate    time.Time
	Deleted        bool
}

// NewTask builds a validated, incomplete task created on now's calendar day.
func NewTask(description string, priority Priority, due *time.Time, info string, now time.Time) (Task, error) {
	t := Task{
		ID:          uuid.NewString(),
		Description: strings.TrimSpace(description),
		Priority:    priority,
		CreatedDate: truncateDay(now),
	}
	if due != nil {
		d := truncateDay(*due)
		t.DueDate = &d
	}
	t.UpdateAdditionalInfo(info)
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, t.Priority)
	}
	if t.CreatedDate.IsZero() {
		return ErrMissingCreatedDate
	}
	return nil
}

func (t *Task) MarkCompleted() error {
	if t.Completed {
		return ErrAlreadyCompleted
	}
	t.Completed = true
	return nil
}

func (t *Task) Reopen() {
	t.Completed = false
}

func (t *Task) ToggleCompleted() {
	t.Completed = !t.Completed
}

// Reschedule sets the due date from DD/MM/YY text. Blank text clears it.
func (t *Task) Reschedule(raw string) error {
	due, err := ParseOptionalDate(raw)
	if err != nil {
		return err
	}
	t.DueDate = due
	return nil
}

func (t *Task) UpdatePriority(p Priority) error {
	if !p.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, p)
	}
	t.Priority = p
	return nil
}

func (t *Task) UpdateDescription(description string) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return ErrEmptyDescription
	}
	t.Description = trimmed
	return nil
}

// UpdateAdditionalInfo stores info as written. Whitespace-only text clears it.
func (t *Task) UpdateAdditionalInfo(info string) {
	if strings.TrimSpace(info) == "" {
		t.AdditionalInfo = ""
		return
	}
	t.AdditionalInfo = info
}

// Visible reports whether the task takes part in display and export at all.
func (t Task) Visible() bool {
	return !t.Deleted
}

func ParseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range []string{DateLayout, shortDateLayout} {
		if d, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

func ParseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// FormatDueDate renders the due date or "No due date".
func FormatDueDate(d *time.Time) string {
	if d == nil {
		return "No due date"
	}
	return FormatDate(*d)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
