package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/curioapp/curio-server/internal/domain"
	"github.com/curioapp/curio-server/internal/store"
)

const tabColumns = `id, owner_id, name, slug, description, sort_order, created_at, updated_at`

func scanTab(scanner interface{ Scan(dest ...any) error }) (*domain.Tab, error) {
	var t domain.Tab

	var (
		description sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Name,
		&t.Slug,
		&description,
		&t.SortOrder,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		t.Description = description.String
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTab inserts a new tab. A duplicate slug for the same owner
// returns store.ErrAlreadyExists.
func (s *Store) CreateTab(ctx context.Context, tab *domain.Tab) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tabs (id, owner_id, name, slug, description, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tab.ID,
		tab.OwnerID,
		tab.Name,
		tab.Slug,
		nullString(tab.Description),
		tab.SortOrder,
		formatTime(tab.CreatedAt),
		formatTime(tab.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists.WithMessage("tab slug already in use")
		}
		return err
	}
	return nil
}

// GetTab retrieves a tab by ID.
func (s *Store) GetTab(ctx context.Context, id string) (*domain.Tab, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tabColumns+` FROM tabs WHERE id = ?`, id)

	t, err := scanTab(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("tab not found")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTabsByOwner returns all of a user's tabs in their curated order.
func (s *Store) ListTabsByOwner(ctx context.Context, ownerID string) ([]*domain.Tab, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tabColumns+` FROM tabs WHERE owner_id = ?
		 ORDER BY sort_order ASC, created_at ASC, id ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tabs []*domain.Tab
	for rows.Next() {
		t, err := scanTab(rows)
		if err != nil {
			return nil, err
		}
		tabs = append(tabs, t)
	}
	return tabs, rows.Err()
}

// UpdateTab persists tab changes.
func (s *Store) UpdateTab(ctx context.Context, tab *domain.Tab) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tabs SET name = ?, slug = ?, description = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		tab.Name,
		tab.Slug,
		nullString(tab.Description),
		tab.SortOrder,
		formatTime(time.Now()),
		tab.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists.WithMessage("tab slug already in use")
		}
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("tab not found")
	}
	return nil
}

// DeleteTab removes a tab. Reviews and categories under it cascade.
func (s *Store) DeleteTab(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tabs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("tab not found")
	}
	return nil
}

// ReorderTabs rewrites sort_order for the owner's tabs to match orderedIDs.
// The id set must cover exactly the owner's tabs; a mismatch returns
// store.ErrInvalidInput and nothing is changed.
func (s *Store) ReorderTabs(ctx context.Context, ownerID string, orderedIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tabs WHERE owner_id = ?`, ownerID).Scan(&count); err != nil {
		return err
	}
	if count != len(orderedIDs) {
		return store.ErrInvalidInput.WithMessage("tab order must include every tab exactly once")
	}

	now := formatTime(time.Now())
	for i, id := range orderedIDs {
		res, err := tx.ExecContext(ctx,
			`UPDATE tabs SET sort_order = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
			i, now, id, ownerID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrInvalidInput.WithMessage("tab order references an unknown tab")
		}
	}

	return tx.Commit()
}
