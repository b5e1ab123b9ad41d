package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/tasklist/internal/model"
)

// taskRecord is the on-disk shape of one task in the JSON file.
type taskRecord struct {
	ID             string  `json:"id,omitempty"`
	Description    string  `json:"description"`
	Completed      bool    `json:"completed"`
	DueDate        *string `json:"due_date"`
	Priority       int     `json:"priority"`
	AdditionalInfo *string `json:"additional_info"`
	CreatedDate    string  `json:"created_date"`
	Deleted        bool    `json:"deleted"`
}

func toRecord(t model.Task) taskRecord {
	rec := taskRecord{
		ID:          t.ID,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    int(t.Priority),
		CreatedDate: model.FormatDate(t.CreatedDate),
		Deleted:     t.Deleted,
	}
	if t.DueDate != nil {
		due := model.FormatDate(*t.DueDate)
		rec.DueDate = &due
	}
	if strings.TrimSpace(t.AdditionalInfo) != "" {
		info := t.AdditionalInfo
		rec.AdditionalInfo = &info
	}
	return rec
}

// fromRecord converts a stored record, filling in an id and created date for
// records written before those fields existed.
func fromRecord(rec taskRecord, now time.Time) (model.Task, error) {
	out := model.Task{
		ID:          strings.TrimSpace(rec.ID),
		Description: rec.Description,
		Completed:   rec.Completed,
		Priority:    model.Priority(rec.Priority),
		Deleted:     rec.Deleted,
	}
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if rec.DueDate != nil && strings.TrimSpace(*rec.DueDate) != "" {
		due, err := model.ParseDate(*rec.DueDate)
		if err != nil {
			return model.Task{}, err
		}
		out.DueDate = &due
	}
	if rec.AdditionalInfo != nil {
		out.UpdateAdditionalInfo(*rec.AdditionalInfo)
	}
	if strings.TrimSpace(rec.CreatedDate) != "" {
		created, err := model.ParseDate(rec.CreatedDate)
		if err != nil {
			return model.Task{}, err
		}
		out.CreatedDate = created
	} else {
		y, m, d := now.Date()
		out.CreatedDate = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}
	if err := out.Validate(); err != nil {
		return model.Task{}, fmt.Errorf("task %q: %w", out.ID, err)
	}
	return out, nil
}
