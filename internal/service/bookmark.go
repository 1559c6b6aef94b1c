package service

import (
	"context"
	"fmt"
	"log/slog"

	domainerrors "github.com/curioapp/curio-server/internal/errors"
	"github.com/curioapp/curio-server/internal/store"
)

// BookmarkService manages the caller's review and user bookmarks.
// All operations require an authenticated caller; bookmark state is
// per-user and never shared.
type BookmarkService struct {
	store  store.Store
	logger *slog.Logger
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(st store.Store, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		store:  st,
		logger: logger,
	}
}

// BookmarkReview bookmarks a review for the caller. Idempotent: repeating
// the call keeps the original bookmark time. Drafts cannot be bookmarked,
// not even by their owner, and surface as NotFound.
func (s *BookmarkService) BookmarkReview(ctx context.Context, userID, reviewID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if !review.IsPublished() {
		return store.ErrNotFound.WithMessage("review not found")
	}

	if err := s.store.UpsertReviewBookmark(ctx, userID, reviewID); err != nil {
		return fmt.Errorf("bookmark review: %w", err)
	}

	s.logger.Info("review bookmarked", "user_id", userID, "review_id", reviewID)
	return nil
}

// UnbookmarkReview removes a review bookmark. Removing a bookmark that does
// not exist is a no-op.
func (s *BookmarkService) UnbookmarkReview(ctx context.Context, userID, reviewID string) error {
	if err := s.store.DeleteReviewBookmark(ctx, userID, reviewID); err != nil {
		return fmt.Errorf("remove review bookmark: %w", err)
	}
	return nil
}

// ListReviewBookmarks returns a page of the caller's bookmarked reviews,
// most recently bookmarked first. Reviews that went back to draft since
// being bookmarked are hidden unless the caller owns them.
func (s *BookmarkService) ListReviewBookmarks(ctx context.Context, userID string, page store.Page) ([]*store.ReviewBookmarkEntry, int, error) {
	entries, total, err := s.store.ListReviewBookmarks(ctx, userID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list review bookmarks: %w", err)
	}
	return entries, total, nil
}

// BookmarkUser bookmarks another user for the caller. Idempotent.
// Bookmarking yourself is rejected.
func (s *BookmarkService) BookmarkUser(ctx context.Context, userID, targetID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if userID == targetID {
		return domainerrors.Validation("you cannot bookmark yourself")
	}

	if _, err := s.store.GetUser(ctx, targetID); err != nil {
		return err
	}

	if err := s.store.UpsertUserBookmark(ctx, userID, targetID); err != nil {
		return fmt.Errorf("bookmark user: %w", err)
	}

	s.logger.Info("user bookmarked", "user_id", userID, "target_id", targetID)
	return nil
}

// UnbookmarkUser removes a user bookmark. No-op when absent.
func (s *BookmarkService) UnbookmarkUser(ctx context.Context, userID, targetID string) error {
	if err := s.store.DeleteUserBookmark(ctx, userID, targetID); err != nil {
		return fmt.Errorf("remove user bookmark: %w", err)
	}
	return nil
}

// ListUserBookmarks returns a page of the caller's bookmarked users, most
// recently bookmarked first.
func (s *BookmarkService) ListUserBookmarks(ctx context.Context, userID string, page store.Page) ([]*store.UserBookmarkEntry, int, error) {
	entries, total, err := s.store.ListUserBookmarks(ctx, userID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list user bookmarks: %w", err)
	}
	return entries, total, nil
}
