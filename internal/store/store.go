// Package store defines the persistence contracts for Curio and the typed
// errors and pagination primitives shared by all implementations.
//
// The contracts encode the read-model rules directly: review listings take
// the caller identity so draft visibility is enforced inside the query
// (never post-filtered), and bookmark lookups are batched per page to
// avoid N+1 round trips.
package store

import (
	"context"
	"time"

	"github.com/curioapp/curio-server/internal/domain"
)

// UserSort is the ordering applied to user listings.
type UserSort string

const (
	// UserSortMostPopular orders by incoming user-bookmark count.
	UserSortMostPopular UserSort = "most_popular"
	// UserSortRecentlyActive orders by most recent published review.
	UserSortRecentlyActive UserSort = "recently_active"
	// UserSortNewest orders by account creation time.
	UserSortNewest UserSort = "newest"
	// UserSortMostReviews orders by published review count.
	UserSortMostReviews UserSort = "most_reviews"
)

// Valid reports whether s is a known sort order.
func (s UserSort) Valid() bool {
	switch s {
	case UserSortMostPopular, UserSortRecentlyActive, UserSortNewest, UserSortMostReviews:
		return true
	}
	return false
}

// UserFilter selects and orders a page of users.
type UserFilter struct {
	Search string // case-insensitive username substring, empty = no filter
	Sort   UserSort
	Page   Page
}

// ReviewFilter selects a page of reviews within one tab.
// CallerID drives the visibility predicate: published reviews always match;
// drafts match only when the caller owns the tab. Empty CallerID means
// anonymous.
type ReviewFilter struct {
	TabID      string
	CallerID   string
	Search     string // case-insensitive title substring, empty = no filter
	CategoryID string // empty = no category filter
	Page       Page
}

// ReviewBookmarkEntry is one row of a user's review-bookmark listing.
type ReviewBookmarkEntry struct {
	Review       *domain.Review
	BookmarkedAt time.Time
}

// UserBookmarkEntry is one row of a user's user-bookmark listing.
type UserBookmarkEntry struct {
	User         *domain.User
	BookmarkedAt time.Time
}

// UserStore persists user profiles.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrUsernameTaken on a username
	// uniqueness violation and ErrExternalIDExists when a row for the same
	// external identity already exists.
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// UpdateUser persists profile changes. Returns ErrUsernameTaken when a
	// username change collides.
	UpdateUser(ctx context.Context, user *domain.User) error
	// ListUsers returns one page plus the total count for the same filter.
	ListUsers(ctx context.Context, filter UserFilter) ([]*domain.User, int, error)
}

// TabStore persists tabs.
type TabStore interface {
	// CreateTab inserts a new tab. Returns ErrAlreadyExists when the owner
	// already has a tab with the same slug.
	CreateTab(ctx context.Context, tab *domain.Tab) error
	GetTab(ctx context.Context, id string) (*domain.Tab, error)
	ListTabsByOwner(ctx context.Context, ownerID string) ([]*domain.Tab, error)
	UpdateTab(ctx context.Context, tab *domain.Tab) error
	// DeleteTab removes the tab and cascades to its reviews, categories,
	// and bookmark edges in a single transaction.
	DeleteTab(ctx context.Context, id string) error
	// ReorderTabs assigns sort order by position in orderedIDs for tabs
	// owned by ownerID. IDs not owned by ownerID are rejected.
	ReorderTabs(ctx context.Context, ownerID string, orderedIDs []string) error
}

// CategoryStore persists per-tab categories.
type CategoryStore interface {
	// CreateCategory inserts a new category. Returns ErrAlreadyExists when
	// the tab already has a category with the same slug.
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	// ListLiveCategories returns the tab's categories having at least one
	// published review in that tab, ordered by name. Computed with a single
	// existence query.
	ListLiveCategories(ctx context.Context, tabID string) ([]*domain.Category, error)
	// GetCategoriesForReviews batch-loads categories for a page of reviews,
	// keyed by review ID. One query regardless of page size.
	GetCategoriesForReviews(ctx context.Context, reviewIDs []string) (map[string][]*domain.Category, error)
}

// ReviewStore persists reviews and their associations.
type ReviewStore interface {
	CreateReview(ctx context.Context, review *domain.Review) error
	// GetReview loads the full review graph: owner, meta fields, category
	// and related IDs. Visibility is the caller's concern.
	GetReview(ctx context.Context, id string) (*domain.Review, error)
	UpdateReview(ctx context.Context, review *domain.Review) error
	DeleteReview(ctx context.Context, id string) error
	// ListReviews returns one page plus the total count for the identical
	// filter. Count and fetch run concurrently; the window between them is
	// accepted as best-effort consistency.
	ListReviews(ctx context.Context, filter ReviewFilter) ([]*domain.Review, int, error)
	// GetReviewsByIDs batch-loads reviews, preserving the order of ids and
	// silently skipping missing ones.
	GetReviewsByIDs(ctx context.Context, ids []string) ([]*domain.Review, error)
}

// BookmarkStore persists bookmark edges.
type BookmarkStore interface {
	// UpsertReviewBookmark creates the edge if absent. Re-bookmarking is a
	// no-op that keeps the original timestamp.
	UpsertReviewBookmark(ctx context.Context, userID, reviewID string) error
	// DeleteReviewBookmark removes the edge. Deleting a non-existent edge
	// is not an error.
	DeleteReviewBookmark(ctx context.Context, userID, reviewID string) error
	// GetBookmarkedReviewIDs returns which of reviewIDs the user has
	// bookmarked, in one query.
	GetBookmarkedReviewIDs(ctx context.Context, userID string, reviewIDs []string) (map[string]bool, error)
	// ListReviewBookmarks returns a page of the caller's bookmarked reviews
	// (drafts excluded unless the caller owns them) ordered by bookmark
	// time descending, plus the total count.
	ListReviewBookmarks(ctx context.Context, userID string, page Page) ([]*ReviewBookmarkEntry, int, error)

	UpsertUserBookmark(ctx context.Context, userID, targetID string) error
	DeleteUserBookmark(ctx context.Context, userID, targetID string) error
	GetBookmarkedUserIDs(ctx context.Context, userID string, targetIDs []string) (map[string]bool, error)
	ListUserBookmarks(ctx context.Context, userID string, page Page) ([]*UserBookmarkEntry, int, error)
}

// Store is the full persistence surface used by the services.
type Store interface {
	UserStore
	TabStore
	CategoryStore
	ReviewStore
	BookmarkStore

	Close() error
}
