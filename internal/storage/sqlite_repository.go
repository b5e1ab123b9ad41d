package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sandeepkv93/tasklist/internal/model"
)

const sqliteDateLayout = "2006-01-02"

type SQLiteRepository struct {
	db   *sql.DB
	path string
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens the database at path and applies the up migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	repo.path = path
	return repo, nil
}

func (r *SQLiteRepository) Path() string { return r.path }

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Load reads every row in list order. A row that cannot be decoded makes the
// whole load fail with ErrCorrupt, after the database has been copied to
// <path>.corrupt. When no copy could be made the error also matches
// ErrNotPreserved.
func (r *SQLiteRepository) Load(ctx context.Context) ([]model.Task, error) {
	out, err := r.loadRows(ctx)
	if errors.Is(err, ErrCorrupt) {
		if bErr := r.backup(ctx); bErr != nil {
			return nil, errors.Join(err, bErr)
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepository) loadRows(ctx context.Context) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, completed, due_date, priority, additional_info, created_date, deleted
		FROM tasks ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("storage: query tasks: %w", err)
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, scanErr)
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: read tasks: %w", err)
	}
	return out, nil
}

// CorruptPath is where a copy of an undecodable database is written.
func (r *SQLiteRepository) CorruptPath() string {
	if r.path == "" {
		return ""
	}
	return r.path + ".corrupt"
}

func (r *SQLiteRepository) backup(ctx context.Context) error {
	dst := r.CorruptPath()
	if dst == "" {
		return fmt.Errorf("%w: database has no file path", ErrNotPreserved)
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrNotPreserved, err)
	}
	if _, err := r.db.ExecContext(ctx, `VACUUM INTO ?`, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrNotPreserved, err)
	}
	return nil
}

// Save replaces every stored row with tasks, in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, tasks []model.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("storage: clear tasks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (id, position, description, completed, due_date, priority, additional_info, created_date, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		if _, err := stmt.ExecContext(ctx,
			t.ID, i, t.Description, boolInt(t.Completed), nullDate(t.DueDate), int(t.Priority),
			nullString(t.AdditionalInfo), mustDate(t.CreatedDate), boolInt(t.Deleted),
		); err != nil {
			return fmt.Errorf("storage: insert task %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func nullDate(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.Format(sqliteDateLayout)
}

func mustDate(v time.Time) string {
	return v.Format(sqliteDateLayout)
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func parseNullableDate(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(sqliteDateLayout, v.String, time.Local)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var completed, priority, deleted int
	var due, info sql.NullString
	var created string
	if err := s.Scan(&out.ID, &out.Description, &completed, &due, &priority, &info, &created, &deleted); err != nil {
		return model.Task{}, err
	}
	createdDate, err := time.ParseInLocation(sqliteDateLayout, created, time.Local)
	if err != nil {
		return model.Task{}, err
	}
	dueDate, err := parseNullableDate(due)
	if err != nil {
		return model.Task{}, err
	}
	out.Completed = completed == 1
	out.Deleted = deleted == 1
	out.Priority = model.Priority(priority)
	out.DueDate = dueDate
	out.AdditionalInfo = info.String
	out.CreatedDate = createdDate
	return out, nil
}
