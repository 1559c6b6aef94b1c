package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/curioapp/curio-server/internal/domain"
	"github.com/curioapp/curio-server/internal/store"
)

// reviewColumns selects from reviews r joined with tabs t. The owner comes
// off the tab; reviews do not store it themselves.
const reviewColumns = `r.id, r.tab_id, t.owner_id, r.title, r.description, r.author,
	r.media_type, r.media_url, r.media_config, r.sort_order, r.published_at,
	r.created_at, r.updated_at`

const reviewFrom = ` FROM reviews r JOIN tabs t ON t.id = r.tab_id `

// visibilityPredicate is the SQL form of the draft rule: published rows
// match for everyone, drafts only for the tab owner. Takes one caller-ID
// argument; the empty string matches no owner.
const visibilityPredicate = `(r.published_at IS NOT NULL OR t.owner_id = ?)`

func scanReview(scanner interface{ Scan(dest ...any) error }) (*domain.Review, error) {
	var r domain.Review

	var (
		description sql.NullString
		author      sql.NullString
		mediaType   string
		mediaURL    sql.NullString
		mediaConfig sql.NullString
		publishedAt sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&r.ID,
		&r.TabID,
		&r.OwnerID,
		&r.Title,
		&description,
		&author,
		&mediaType,
		&mediaURL,
		&mediaConfig,
		&r.SortOrder,
		&publishedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		r.Description = description.String
	}
	if author.Valid {
		r.Author = author.String
	}
	r.MediaType = domain.MediaType(mediaType)
	if mediaURL.Valid {
		r.MediaURL = mediaURL.String
	}
	if mediaConfig.Valid && mediaConfig.String != "" {
		if err := json.Unmarshal([]byte(mediaConfig.String), &r.MediaConfig); err != nil {
			return nil, fmt.Errorf("decoding media config for review %s: %w", r.ID, err)
		}
	}

	r.PublishedAt, err = parseNullableTime(publishedAt)
	if err != nil {
		return nil, err
	}
	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

func encodeMediaConfig(cfg map[string]any) (any, error) {
	if len(cfg) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding media config: %w", err)
	}
	return string(data), nil
}

// insertReviewAssociations writes the meta fields, category links, and
// related-review links for a review. Assumes any previous rows are gone.
func insertReviewAssociations(ctx context.Context, tx *sql.Tx, review *domain.Review) error {
	for i, f := range review.MetaFields {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO review_meta_fields (review_id, position, label, value)
			VALUES (?, ?, ?, ?)`,
			review.ID, i, f.Label, f.Value); err != nil {
			return err
		}
	}
	for _, categoryID := range review.CategoryIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO review_categories (review_id, category_id)
			VALUES (?, ?)`,
			review.ID, categoryID); err != nil {
			return err
		}
	}
	for i, relatedID := range review.RelatedIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO related_reviews (review_id, related_id, sort_order)
			VALUES (?, ?, ?)`,
			review.ID, relatedID, i); err != nil {
			return err
		}
	}
	return nil
}

func deleteReviewAssociations(ctx context.Context, tx *sql.Tx, reviewID string) error {
	for _, table := range []string{"review_meta_fields", "review_categories", "related_reviews"} {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE review_id = ?`, reviewID); err != nil {
			return err
		}
	}
	return nil
}

// CreateReview inserts a review and its associations in one transaction.
func (s *Store) CreateReview(ctx context.Context, review *domain.Review) error {
	mediaConfig, err := encodeMediaConfig(review.MediaConfig)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reviews (
			id, tab_id, title, description, author, media_type, media_url,
			media_config, sort_order, published_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		review.ID,
		review.TabID,
		review.Title,
		nullString(review.Description),
		nullString(review.Author),
		string(review.MediaType),
		nullString(review.MediaURL),
		mediaConfig,
		review.SortOrder,
		nullTimeString(review.PublishedAt),
		formatTime(review.CreatedAt),
		formatTime(review.UpdatedAt),
	); err != nil {
		return err
	}

	if err := insertReviewAssociations(ctx, tx, review); err != nil {
		return err
	}

	return tx.Commit()
}

// loadReviewGraphs batch-loads meta fields and category IDs for a set of
// reviews in two queries total.
func (s *Store) loadReviewGraphs(ctx context.Context, reviews []*domain.Review) error {
	if len(reviews) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Review, len(reviews))
	ids := make([]string, len(reviews))
	for i, r := range reviews {
		byID[r.ID] = r
		ids[i] = r.ID
	}
	args := toAnySlice(ids)
	in := placeholders(len(ids))

	rows, err := s.db.QueryContext(ctx, `
		SELECT review_id, label, value FROM review_meta_fields
		WHERE review_id IN (`+in+`) ORDER BY review_id, position`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var reviewID string
		var f domain.MetaField
		if err := rows.Scan(&reviewID, &f.Label, &f.Value); err != nil {
			return err
		}
		if r := byID[reviewID]; r != nil {
			r.MetaFields = append(r.MetaFields, f)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	catRows, err := s.db.QueryContext(ctx, `
		SELECT rc.review_id, rc.category_id FROM review_categories rc
		JOIN categories c ON c.id = rc.category_id
		WHERE rc.review_id IN (`+in+`)
		ORDER BY c.name COLLATE NOCASE, c.id`, args...)
	if err != nil {
		return err
	}
	defer catRows.Close()
	for catRows.Next() {
		var reviewID, categoryID string
		if err := catRows.Scan(&reviewID, &categoryID); err != nil {
			return err
		}
		if r := byID[reviewID]; r != nil {
			r.CategoryIDs = append(r.CategoryIDs, categoryID)
		}
	}
	return catRows.Err()
}

// GetReview loads the full review graph: row, meta fields, category IDs,
// and ordered related IDs. Visibility is the caller's concern.
func (s *Store) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+reviewFrom+`WHERE r.id = ?`, id)

	r, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("review not found")
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadReviewGraphs(ctx, []*domain.Review{r}); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT related_id FROM related_reviews
		WHERE review_id = ? ORDER BY sort_order`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var relatedID string
		if err := rows.Scan(&relatedID); err != nil {
			return nil, err
		}
		r.RelatedIDs = append(r.RelatedIDs, relatedID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r, nil
}

// UpdateReview rewrites the review row and all of its associations in one
// transaction.
func (s *Store) UpdateReview(ctx context.Context, review *domain.Review) error {
	mediaConfig, err := encodeMediaConfig(review.MediaConfig)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE reviews SET
			title = ?, description = ?, author = ?, media_type = ?,
			media_url = ?, media_config = ?, sort_order = ?, published_at = ?,
			updated_at = ?
		WHERE id = ?`,
		review.Title,
		nullString(review.Description),
		nullString(review.Author),
		string(review.MediaType),
		nullString(review.MediaURL),
		mediaConfig,
		review.SortOrder,
		nullTimeString(review.PublishedAt),
		formatTime(time.Now()),
		review.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("review not found")
	}

	if err := deleteReviewAssociations(ctx, tx, review.ID); err != nil {
		return err
	}
	if err := insertReviewAssociations(ctx, tx, review); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteReview removes a review. Associations and bookmarks cascade.
func (s *Store) DeleteReview(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("review not found")
	}
	return nil
}

// buildReviewFilter renders the WHERE clause for a review listing. The
// visibility predicate is part of the filter itself so drafts never leak
// into counts or pages.
func buildReviewFilter(filter store.ReviewFilter) (string, []any) {
	where := `r.tab_id = ? AND ` + visibilityPredicate
	args := []any{filter.TabID, filter.CallerID}

	if filter.Search != "" {
		where += ` AND r.title LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(filter.Search)+"%")
	}
	if filter.CategoryID != "" {
		where += ` AND EXISTS (
			SELECT 1 FROM review_categories rc
			WHERE rc.review_id = r.id AND rc.category_id = ?)`
		args = append(args, filter.CategoryID)
	}
	return where, args
}

// ListReviews returns one page of reviews in curated order plus the total
// count for the identical filter. Count and fetch run concurrently.
func (s *Store) ListReviews(ctx context.Context, filter store.ReviewFilter) ([]*domain.Review, int, error) {
	where, args := buildReviewFilter(filter)

	listQuery := `SELECT ` + reviewColumns + reviewFrom + `WHERE ` + where +
		` ORDER BY r.sort_order ASC, r.created_at ASC, r.id ASC LIMIT ? OFFSET ?`
	countQuery := `SELECT COUNT(*)` + reviewFrom + `WHERE ` + where

	var (
		wg       sync.WaitGroup
		reviews  []*domain.Review
		total    int
		listErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		listArgs := append(append([]any{}, args...), filter.Page.Take(), filter.Page.Skip())
		rows, err := s.db.QueryContext(ctx, listQuery, listArgs...)
		if err != nil {
			listErr = err
			return
		}
		defer rows.Close()

		for rows.Next() {
			r, err := scanReview(rows)
			if err != nil {
				listErr = err
				return
			}
			reviews = append(reviews, r)
		}
		listErr = rows.Err()
	}()
	go func() {
		defer wg.Done()
		countErr = s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	}()
	wg.Wait()

	if listErr != nil {
		return nil, 0, listErr
	}
	if countErr != nil {
		return nil, 0, countErr
	}

	if err := s.loadReviewGraphs(ctx, reviews); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// GetReviewsByIDs batch-loads reviews in one query, returning them in the
// order of ids. Missing IDs are skipped.
func (s *Store) GetReviewsByIDs(ctx context.Context, ids []string) ([]*domain.Review, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+reviewFrom+
			`WHERE r.id IN (`+placeholders(len(ids))+`)`, toAnySlice(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*domain.Review, len(ids))
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		byID[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reviews := make([]*domain.Review, 0, len(byID))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			reviews = append(reviews, r)
		}
	}

	if err := s.loadReviewGraphs(ctx, reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
