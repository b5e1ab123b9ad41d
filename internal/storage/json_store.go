package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
)

// JSONStore keeps the task list as one JSON array on disk.
type JSONStore struct {
	path string
	now  func() time.Time
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: strings.TrimSpace(path), now: time.Now}
}

func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) Close() error { return nil }

// Load reads the task file. A missing or blank file is an empty list. A file
// that fails to parse or validate is renamed to <path>.corrupt and ErrCorrupt
// is returned. When the rename fails the error also matches ErrNotPreserved.
func (s *JSONStore) Load(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("storage: read %s: %w", s.path, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return []model.Task{}, nil
	}

	tasks, err := s.decode(raw)
	if err != nil {
		if qErr := s.quarantine(); qErr != nil {
			return nil, errors.Join(err, qErr)
		}
		return nil, err
	}
	return tasks, nil
}

func (s *JSONStore) decode(raw []byte) ([]model.Task, error) {
	if err := validateTasksJSON(raw); err != nil {
		return nil, err
	}
	var records []taskRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	now := s.now()
	out := make([]model.Task, 0, len(records))
	for i, rec := range records {
		task, err := fromRecord(rec, now)
		if err != nil {
			return nil, fmt.Errorf("%w: [%d]: %v", ErrCorrupt, i, err)
		}
		out = append(out, task)
	}
	return out, nil
}

// CorruptPath is where an unreadable task file is moved aside.
func (s *JSONStore) CorruptPath() string {
	return s.path + ".corrupt"
}

func (s *JSONStore) quarantine() error {
	if err := os.Rename(s.path, s.CorruptPath()); err != nil {
		return fmt.Errorf("%w: %v", ErrNotPreserved, err)
	}
	return nil
}

// Save overwrites the task file with the full list.
func (s *JSONStore) Save(ctx context.Context, tasks []model.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, toRecord(t))
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: marshal tasks: %w", err)
	}
	if err := WriteFileAtomic(s.path, append(payload, '\n')); err != nil {
		return fmt.Errorf("storage: write %s: %w", s.path, err)
	}
	return nil
}

// WriteFileAtomic writes data to path via a sibling temp file and rename,
// creating the parent directory when needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
