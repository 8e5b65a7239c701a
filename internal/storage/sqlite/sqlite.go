// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/receiptsplit/receiptsplit/internal/models"
	"github.com/receiptsplit/receiptsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSplit persists a new split to the database.
func (s *SQLiteStore) CreateSplit(ctx context.Context, split *models.Split) error {
	if split.ID == "" {
		split.ID = uuid.New().String()
	}
	now := time.Now().UnixMilli()
	if split.CreatedAt == 0 {
		split.CreatedAt = now
	}
	if split.UpdatedAt == 0 {
		split.UpdatedAt = split.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO splits (id, name, tax_cents, tip_cents, category, exclude_me, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		split.ID, split.Name, split.TaxInCents, split.TipInCents, string(split.Category), split.ExcludeMe, split.CreatedAt, split.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}

	if err := insertContents(ctx, tx, split); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateSplit replaces an existing split's row and all attached
// participants, items, and assignments.
func (s *SQLiteStore) UpdateSplit(ctx context.Context, split *models.Split) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE splits SET name = ?, tax_cents = ?, tip_cents = ?, category = ?, exclude_me = ?, updated_at = ? WHERE id = ?",
		split.Name, split.TaxInCents, split.TipInCents, string(split.Category), split.ExcludeMe, split.UpdatedAt, split.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update split: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update split %s: %w", split.ID, storage.ErrNotFound)
	}

	// Items cascade-delete their assignments.
	if _, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE split_id = ?", split.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE split_id = ?", split.ID); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	if err := insertContents(ctx, tx, split); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertContents writes a split's participants, items, and assignments.
// Duplicate assignments for one participant on one item collapse into a
// single row with summed shares, matching the calculator's convention.
func insertContents(ctx context.Context, tx *sql.Tx, split *models.Split) error {
	for pos, p := range split.Participants {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO participants (split_id, id, name, source, position) VALUES (?, ?, ?, ?, ?)",
			split.ID, p.ID, p.Name, string(p.Source), pos,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for pos := range split.Items {
		item := &split.Items[pos]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err := tx.ExecContext(ctx,
			"INSERT INTO items (id, split_id, name, price_cents, quantity, position) VALUES (?, ?, ?, ?, ?, ?)",
			item.ID, split.ID, item.Name, item.PriceInCents, item.Quantity, pos,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for _, a := range item.Assignments {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO item_assignments (item_id, participant_id, shares) VALUES (?, ?, ?)
				 ON CONFLICT(item_id, participant_id) DO UPDATE SET shares = shares + excluded.shares`,
				item.ID, a.ParticipantID, a.Shares,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}
	}
	return nil
}

// GetSplit retrieves a split by id, including all items, assignments,
// and participants.
func (s *SQLiteStore) GetSplit(ctx context.Context, splitID string) (*models.Split, error) {
	split := &models.Split{}
	var category string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, tax_cents, tip_cents, category, exclude_me, created_at, updated_at FROM splits WHERE id = ?",
		splitID,
	).Scan(&split.ID, &split.Name, &split.TaxInCents, &split.TipInCents, &category, &split.ExcludeMe, &split.CreatedAt, &split.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get split %s: %w", splitID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}
	split.Category = models.Category(category)

	if err := s.loadContents(ctx, split); err != nil {
		return nil, err
	}
	return split, nil
}

// loadContents fills in a split's participants, items, and assignments.
func (s *SQLiteStore) loadContents(ctx context.Context, split *models.Split) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, source FROM participants WHERE split_id = ? ORDER BY position",
		split.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Participant
		var source string
		if err := rows.Scan(&p.ID, &p.Name, &source); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Source = models.ParticipantSource(source)
		split.Participants = append(split.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price_cents, quantity FROM items WHERE split_id = ? ORDER BY position",
		split.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.Item
		if err := itemRows.Scan(&item.ID, &item.Name, &item.PriceInCents, &item.Quantity); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}

		assignRows, err := s.db.QueryContext(ctx,
			"SELECT participant_id, shares FROM item_assignments WHERE item_id = ? ORDER BY participant_id",
			item.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get item assignments: %w", err)
		}

		for assignRows.Next() {
			var a models.ItemAssignment
			if err := assignRows.Scan(&a.ParticipantID, &a.Shares); err != nil {
				assignRows.Close()
				return fmt.Errorf("failed to scan assignment: %w", err)
			}
			item.Assignments = append(item.Assignments, a)
		}
		assignRows.Close()
		if err := assignRows.Err(); err != nil {
			return fmt.Errorf("failed to iterate assignments: %w", err)
		}

		split.Items = append(split.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	return nil
}

// DeleteSplit removes a split; participants, items, and assignments
// cascade.
func (s *SQLiteStore) DeleteSplit(ctx context.Context, splitID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM splits WHERE id = ?", splitID)
	if err != nil {
		return fmt.Errorf("failed to delete split: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete split %s: %w", splitID, storage.ErrNotFound)
	}
	return nil
}

// ListSplits returns all splits, most recently created first.
func (s *SQLiteStore) ListSplits(ctx context.Context) ([]models.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM splits ORDER BY created_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan split id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	splits := make([]models.Split, 0, len(ids))
	for _, id := range ids {
		split, err := s.GetSplit(ctx, id)
		if err != nil {
			return nil, err
		}
		splits = append(splits, *split)
	}
	return splits, nil
}
