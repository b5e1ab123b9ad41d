package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/model"
)

var (
	ErrCorrupt        = errors.New("storage: corrupt task store")
	ErrNotPreserved   = errors.New("storage: corrupt task store could not be moved aside")
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Repository persists the whole task list. Save always replaces everything
// previously stored.
type Repository interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
	Path() string
	Close() error
}

func Open(backend, path string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		return NewJSONStore(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
