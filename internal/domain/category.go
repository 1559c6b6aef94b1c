package domain

import "time"

// Category is a tag scoped to a single tab, not a global taxonomy.
// Listing responses only include categories with at least one published
// review in their tab; that filter is computed at query time, not stored.
type Category struct {
	ID        string    `json:"id"`
	TabID     string    `json:"tab_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
