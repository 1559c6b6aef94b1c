package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/curioapp/curio-server/internal/domain"
	"github.com/curioapp/curio-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, external_id, username, bio, avatar_url, avatar_color,
	role, aesthetic, palette, created_at, updated_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		bio       sql.NullString
		avatarURL sql.NullString
		role      string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&u.ID,
		&u.ExternalID,
		&u.Username,
		&bio,
		&avatarURL,
		&u.AvatarColor,
		&role,
		&u.Aesthetic,
		&u.Palette,
		&createdAt,
		&updatedAt,
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

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// userConstraintError maps a SQLite uniqueness violation to the matching
// store sentinel so callers can tell a username collision (retryable) from
// a provisioning race on external_id.
func userConstraintError(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return err
	}
	if strings.Contains(msg, "users.username") {
		return store.ErrUsernameTaken
	}
	if strings.Contains(msg, "users.external_id") {
		return store.ErrExternalIDExists
	}
	return store.ErrAlreadyExists
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (
			id, external_id, username, bio, avatar_url, avatar_color,
			role, aesthetic, palette, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.ExternalID,
		user.Username,
		nullString(user.Bio),
		nullString(user.AvatarURL),
		user.AvatarColor,
		string(user.Role),
		user.Aesthetic,
		user.Palette,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		return userConstraintError(err)
	}
	return nil
}

// GetUser retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByExternalID retrieves a user by identity provider subject.
func (s *Store) GetUserByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE external_id = ?`, externalID)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByUsername retrieves a user by username, case-insensitively.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser persists user profile changes.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			username = ?, bio = ?, avatar_url = ?, avatar_color = ?,
			role = ?, aesthetic = ?, palette = ?, updated_at = ?
		WHERE id = ?`,
		user.Username,
		nullString(user.Bio),
		nullString(user.AvatarURL),
		user.AvatarColor,
		string(user.Role),
		user.Aesthetic,
		user.Palette,
		formatTime(time.Now()),
		user.ID,
	)
	if err != nil {
		return userConstraintError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("user not found")
	}
	return nil
}

// escapeLike escapes LIKE wildcards in user-supplied search input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// userOrderClause returns the ORDER BY expression for a user sort.
// Every ordering ends with id for deterministic pagination.
func userOrderClause(sort store.UserSort) string {
	switch sort {
	case store.UserSortMostPopular:
		return `(SELECT COUNT(*) FROM user_bookmarks ub WHERE ub.target_id = u.id) DESC, u.created_at DESC, u.id ASC`
	case store.UserSortMostReviews:
		return `(SELECT COUNT(*) FROM reviews r JOIN tabs t ON r.tab_id = t.id
			WHERE t.owner_id = u.id AND r.published_at IS NOT NULL) DESC, u.created_at DESC, u.id ASC`
	case store.UserSortRecentlyActive:
		return `COALESCE((SELECT MAX(r.published_at) FROM reviews r JOIN tabs t ON r.tab_id = t.id
			WHERE t.owner_id = u.id), '') DESC, u.created_at DESC, u.id ASC`
	default: // newest
		return `u.created_at DESC, u.id ASC`
	}
}

// ListUsers returns a page of users and the total count for the same filter.
// Count and fetch run concurrently against identical predicates.
func (s *Store) ListUsers(ctx context.Context, filter store.UserFilter) ([]*domain.User, int, error) {
	where := "1=1"
	var args []any
	if filter.Search != "" {
		where = `u.username LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(filter.Search)+"%")
	}

	listQuery := `SELECT ` + userColumns + ` FROM users u WHERE ` + where +
		` ORDER BY ` + userOrderClause(filter.Sort) + ` LIMIT ? OFFSET ?`
	countQuery := `SELECT COUNT(*) FROM users u WHERE ` + where

	var (
		wg       sync.WaitGroup
		users    []*domain.User
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
			u, err := scanUser(rows)
			if err != nil {
				listErr = err
				return
			}
			users = append(users, u)
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
	return users, total, nil
}
