// Package export writes the incomplete tasks to a file for use outside the app.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("export: unknown format")

const (
	FormatText = "txt"
	FormatYAML = "yaml"
)

// Line renders one task the way the text export lists it.
func Line(t model.Task) string {
	status := "Incomplete"
	if t.Completed {
		status = "Completed"
	}
	info := t.AdditionalInfo
	if strings.TrimSpace(info) == "" {
		info = "No additional info"
	}
	info = strings.ReplaceAll(strings.ReplaceAll(info, "\r", " "), "\n", " ")
	return fmt.Sprintf("%-30s | %-10s | %-10s | %-10s | Created: %s | Info: %s",
		t.Description, status, model.FormatDueDate(t.DueDate), t.Priority.String(),
		model.FormatDate(t.CreatedDate), info)
}

// Text writes incomplete tasks in sorted order, one line each, and returns
// how many were written.
func Text(w io.Writer, tasks []model.Task, now time.Time, window int) (int, error) {
	selected := model.Incomplete(tasks, now, window)
	for _, t := range selected {
		if _, err := fmt.Fprintln(w, Line(t)); err != nil {
			return 0, err
		}
	}
	return len(selected), nil
}

type yamlTask struct {
	Description    string `yaml:"description"`
	Priority       string `yaml:"priority"`
	DueDate        string `yaml:"due_date,omitempty"`
	Urgency        string `yaml:"urgency"`
	CreatedDate    string `yaml:"created_date"`
	AdditionalInfo string `yaml:"additional_info,omitempty"`
}

// YAML writes the same selection as Text as a YAML sequence.
func YAML(w io.Writer, tasks []model.Task, now time.Time, window int) (int, error) {
	selected := model.Incomplete(tasks, now, window)
	out := make([]yamlTask, 0, len(selected))
	for _, t := range selected {
		item := yamlTask{
			Description:    t.Description,
			Priority:       t.Priority.String(),
			Urgency:        model.Classify(t, now, window).String(),
			CreatedDate:    model.FormatDate(t.CreatedDate),
			AdditionalInfo: t.AdditionalInfo,
		}
		if t.DueDate != nil {
			item.DueDate = model.FormatDate(*t.DueDate)
		}
		out = append(out, item)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return 0, fmt.Errorf("export: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("export: encode yaml: %w", err)
	}
	return len(selected), nil
}

// ToFile renders tasks in format and replaces path with the result.
func ToFile(path, format string, tasks []model.Task, now time.Time, window int) (int, error) {
	var buf bytes.Buffer
	var n int
	var err error
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText, "text":
		n, err = Text(&buf, tasks, now, window)
	case FormatYAML, "yml":
		n, err = YAML(&buf, tasks, now, window)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return 0, err
	}
	if err := storage.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return 0, fmt.Errorf("export: write %s: %w", path, err)
	}
	return n, nil
}
