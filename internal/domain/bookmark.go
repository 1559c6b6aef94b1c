package domain

import "time"

// ReviewBookmark is a directed edge recording that a user saved a review.
// Unique per (user, review) pair; re-bookmarking is an upsert that keeps
// the original CreatedAt.
type ReviewBookmark struct {
	UserID    string    `json:"user_id"`
	ReviewID  string    `json:"review_id"`
	CreatedAt time.Time `json:"created_at"`
}

// UserBookmark is a directed edge recording that a user saved another user.
type UserBookmark struct {
	UserID    string    `json:"user_id"`
	TargetID  string    `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}
