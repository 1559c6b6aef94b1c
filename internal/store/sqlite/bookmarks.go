package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/curioapp/curio-server/internal/domain"
	"github.com/curioapp/curio-server/internal/store"
)

// UpsertReviewBookmark creates the bookmark edge if it does not exist.
// Re-bookmarking keeps the original created_at.
func (s *Store) UpsertReviewBookmark(ctx context.Context, userID, reviewID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_bookmarks (user_id, review_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, review_id) DO NOTHING`,
		userID, reviewID, formatTime(time.Now()))
	return err
}

// DeleteReviewBookmark removes the edge. Removing a non-existent edge is
// not an error.
func (s *Store) DeleteReviewBookmark(ctx context.Context, userID, reviewID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM review_bookmarks WHERE user_id = ? AND review_id = ?`,
		userID, reviewID)
	return err
}

// GetBookmarkedReviewIDs reports which of reviewIDs the user has
// bookmarked, in one query. IDs not bookmarked are absent from the map.
func (s *Store) GetBookmarkedReviewIDs(ctx context.Context, userID string, reviewIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if userID == "" || len(reviewIDs) == 0 {
		return result, nil
	}

	args := append([]any{userID}, toAnySlice(reviewIDs)...)
	rows, err := s.db.QueryContext(ctx, `
		SELECT review_id FROM review_bookmarks
		WHERE user_id = ? AND review_id IN (`+placeholders(len(reviewIDs))+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result[id] = true
	}
	return result, rows.Err()
}

// ListReviewBookmarks returns a page of the user's bookmarked reviews
// ordered by bookmark time descending, plus the total count. Drafts are
// excluded unless the user owns them, matching review visibility
// everywhere else.
func (s *Store) ListReviewBookmarks(ctx context.Context, userID string, page store.Page) ([]*store.ReviewBookmarkEntry, int, error) {
	where := `b.user_id = ? AND ` + visibilityPredicate

	var total int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM review_bookmarks b
		JOIN reviews r ON r.id = b.review_id
		JOIN tabs t ON t.id = r.tab_id
		WHERE `+where, userID, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reviewColumns+`, b.created_at
		FROM review_bookmarks b
		JOIN reviews r ON r.id = b.review_id
		JOIN tabs t ON t.id = r.tab_id
		WHERE `+where+`
		ORDER BY b.created_at DESC, r.id ASC
		LIMIT ? OFFSET ?`,
		userID, userID, page.Take(), page.Skip())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []*store.ReviewBookmarkEntry
	var reviews []*domain.Review
	for rows.Next() {
		r, bookmarkedAt, err := scanReviewWithBookmarkTime(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, &store.ReviewBookmarkEntry{Review: r, BookmarkedAt: bookmarkedAt})
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := s.loadReviewGraphs(ctx, reviews); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// UpsertUserBookmark creates the user bookmark edge if it does not exist.
func (s *Store) UpsertUserBookmark(ctx context.Context, userID, targetID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_bookmarks (user_id, target_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, target_id) DO NOTHING`,
		userID, targetID, formatTime(time.Now()))
	return err
}

// DeleteUserBookmark removes the edge. Removing a non-existent edge is
// not an error.
func (s *Store) DeleteUserBookmark(ctx context.Context, userID, targetID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_bookmarks WHERE user_id = ? AND target_id = ?`,
		userID, targetID)
	return err
}

// GetBookmarkedUserIDs reports which of targetIDs the user has bookmarked.
func (s *Store) GetBookmarkedUserIDs(ctx context.Context, userID string, targetIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if userID == "" || len(targetIDs) == 0 {
		return result, nil
	}

	args := append([]any{userID}, toAnySlice(targetIDs)...)
	rows, err := s.db.QueryContext(ctx, `
		SELECT target_id FROM user_bookmarks
		WHERE user_id = ? AND target_id IN (`+placeholders(len(targetIDs))+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result[id] = true
	}
	return result, rows.Err()
}

// ListUserBookmarks returns a page of users the caller has bookmarked,
// ordered by bookmark time descending, plus the total count.
func (s *Store) ListUserBookmarks(ctx context.Context, userID string, page store.Page) ([]*store.UserBookmarkEntry, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_bookmarks WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.external_id, u.username, u.bio, u.avatar_url, u.avatar_color,
			u.role, u.aesthetic, u.palette, u.created_at, u.updated_at, b.created_at
		FROM user_bookmarks b
		JOIN users u ON u.id = b.target_id
		WHERE b.user_id = ?
		ORDER BY b.created_at DESC, u.id ASC
		LIMIT ? OFFSET ?`,
		userID, page.Take(), page.Skip())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []*store.UserBookmarkEntry
	for rows.Next() {
		entry, err := scanUserBookmarkEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}

// scanReviewWithBookmarkTime scans a review row trailed by the bookmark's
// created_at column.
func scanReviewWithBookmarkTime(scanner interface{ Scan(dest ...any) error }) (*domain.Review, time.Time, error) {
	var r domain.Review

	var (
		description  sql.NullString
		author       sql.NullString
		mediaType    string
		mediaURL     sql.NullString
		mediaConfig  sql.NullString
		publishedAt  sql.NullString
		createdAt    string
		updatedAt    string
		bookmarkedAt string
	)

	err := scanner.Scan(
		&r.ID, &r.TabID, &r.OwnerID, &r.Title,
		&description, &author, &mediaType, &mediaURL, &mediaConfig,
		&r.SortOrder, &publishedAt, &createdAt, &updatedAt,
		&bookmarkedAt,
	)
	if err != nil {
		return nil, time.Time{}, err
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
			return nil, time.Time{}, err
		}
	}
	r.PublishedAt, err = parseNullableTime(publishedAt)
	if err != nil {
		return nil, time.Time{}, err
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, time.Time{}, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, time.Time{}, err
	}

	at, err := parseTime(bookmarkedAt)
	if err != nil {
		return nil, time.Time{}, err
	}
	return &r, at, nil
}

// scanUserBookmarkEntry scans a user row trailed by the bookmark's
// created_at column.
func scanUserBookmarkEntry(scanner interface{ Scan(dest ...any) error }) (*store.UserBookmarkEntry, error) {
	var u domain.User

	var (
		bio          sql.NullString
		avatarURL    sql.NullString
		role         string
		createdAt    string
		updatedAt    string
		bookmarkedAt string
	)

	err := scanner.Scan(
		&u.ID, &u.ExternalID, &u.Username, &bio, &avatarURL, &u.AvatarColor,
		&role, &u.Aesthetic, &u.Palette, &createdAt, &updatedAt,
		&bookmarkedAt,
	)
	if err != nil {
		return nil, err
	}

	if bio.Valid {
		u.Bio = bio.String
	}
	if avatarURL.Valid {
		u.AvatarURL = avatarURL.String
	}
	u.Role = domain.Role(role)
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	at, err := parseTime(bookmarkedAt)
	if err != nil {
		return nil, err
	}
	return &store.UserBookmarkEntry{User: &u, BookmarkedAt: at}, nil
}
