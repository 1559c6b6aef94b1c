package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/curioapp/curio-server/internal/domain"
	"github.com/curioapp/curio-server/internal/store"
)

const categoryColumns = `id, tab_id, name, slug, created_at`

func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var c domain.Category
	var createdAt string

	err := scanner.Scan(&c.ID, &c.TabID, &c.Name, &c.Slug, &createdAt)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a new category. A duplicate slug within the same
// tab returns store.ErrAlreadyExists.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, tab_id, name, slug, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		category.ID,
		category.TabID,
		category.Name,
		category.Slug,
		formatTime(category.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists.WithMessage("category slug already in use")
		}
		return err
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)

	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("category not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListLiveCategories returns the tab's categories that have at least one
// published review, ordered by name.
func (s *Store) ListLiveCategories(ctx context.Context, tabID string) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+` FROM categories c
		WHERE c.tab_id = ?
		  AND EXISTS (
			SELECT 1 FROM review_categories rc
			JOIN reviews r ON r.id = rc.review_id
			WHERE rc.category_id = c.id
			  AND r.tab_id = c.tab_id
			  AND r.published_at IS NOT NULL
		  )
		ORDER BY c.name COLLATE NOCASE ASC, c.id ASC`, tabID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategoriesForReviews batch-loads the categories attached to each of
// reviewIDs in a single query. Reviews without categories are absent from
// the result map.
func (s *Store) GetCategoriesForReviews(ctx context.Context, reviewIDs []string) (map[string][]*domain.Category, error) {
	result := make(map[string][]*domain.Category)
	if len(reviewIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT rc.review_id, c.id, c.tab_id, c.name, c.slug, c.created_at
		FROM review_categories rc
		JOIN categories c ON c.id = rc.category_id
		WHERE rc.review_id IN (` + placeholders(len(reviewIDs)) + `)
		ORDER BY c.name COLLATE NOCASE ASC, c.id ASC`

	rows, err := s.db.QueryContext(ctx, query, toAnySlice(reviewIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var reviewID string
		var c domain.Category
		var createdAt string
		if err := rows.Scan(&reviewID, &c.ID, &c.TabID, &c.Name, &c.Slug, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		result[reviewID] = append(result[reviewID], &c)
	}
	return result, rows.Err()
}
