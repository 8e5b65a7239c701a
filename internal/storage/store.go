// Package storage provides abstractions for persistent split storage.
package storage

import (
	"context"
	"errors"

	"github.com/receiptsplit/receiptsplit/internal/models"
)

// ErrNotFound is returned when a split id does not exist.
var ErrNotFound = errors.New("split not found")

// Store defines the interface for split storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateSplit persists a new split. Missing IDs and timestamps are
	// populated on the passed split.
	CreateSplit(ctx context.Context, split *models.Split) error

	// GetSplit retrieves a split by id, including all items,
	// assignments, and participants. Returns ErrNotFound if absent.
	GetSplit(ctx context.Context, splitID string) (*models.Split, error)

	// UpdateSplit replaces an existing split's contents.
	// Returns ErrNotFound if the split does not exist.
	UpdateSplit(ctx context.Context, split *models.Split) error

	// DeleteSplit removes a split and everything attached to it.
	// Returns ErrNotFound if the split does not exist.
	DeleteSplit(ctx context.Context, splitID string) error

	// ListSplits returns all splits, most recently created first.
	ListSplits(ctx context.Context) ([]models.Split, error)

	// Close releases any resources held by the store.
	Close() error
}
