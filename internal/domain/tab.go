package domain

import "time"

// Tab is a named, ordered collection of reviews owned by exactly one user.
// The slug is derived from the name and unique per owner; SortOrder controls
// display order and is user-reorderable. Deleting a tab cascades to its
// reviews and categories.
type Tab struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
