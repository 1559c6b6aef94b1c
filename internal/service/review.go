package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/curioapp/curio-server/internal/domain"
	domainerrors "github.com/curioapp/curio-server/internal/errors"
	"github.com/curioapp/curio-server/internal/id"
	"github.com/curioapp/curio-server/internal/store"
)

// ReviewService orchestrates review CRUD, publication, and the listing
// aggregation that joins reviews with categories and bookmark state.
type ReviewService struct {
	store  store.Store
	logger *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(st store.Store, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:  st,
		logger: logger,
	}
}

// ReviewInput carries the writable review fields shared by create and
// update.
type ReviewInput struct {
	Title       string
	Description string
	Author      string
	MediaType   domain.MediaType
	MediaURL    string
	MediaConfig map[string]any
	MetaFields  []domain.MetaField
	CategoryIDs []string
	RelatedIDs  []string
	// Published toggles publication: true sets publishedAt if unset,
	// false clears it back to draft. Nil leaves it alone.
	Published *bool
}

func (in *ReviewInput) validate() error {
	if in.Title == "" {
		return domainerrors.Validation("review title cannot be empty")
	}
	if !in.MediaType.Valid() {
		return domainerrors.Validationf("unknown media type %q", in.MediaType)
	}
	return nil
}

// CreateReview creates a review in a tab at the end of the tab's curated
// order. Requires tab ownership.
func (s *ReviewService) CreateReview(ctx context.Context, callerID, tabID string, in ReviewInput) (*domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	tab, err := s.store.GetTab(ctx, tabID)
	if err != nil {
		return nil, err
	}
	if tab.OwnerID != callerID {
		return nil, domainerrors.Forbidden("you do not own this tab")
	}

	if err := s.checkCategories(ctx, tabID, in.CategoryIDs); err != nil {
		return nil, err
	}
	if err := s.checkRelated(ctx, callerID, "", in.RelatedIDs); err != nil {
		return nil, err
	}

	// Appending at the end keeps existing curation untouched. The count
	// includes drafts, which only the owner can see anyway.
	page, _ := store.NewPage(1, 1)
	_, total, err := s.store.ListReviews(ctx, store.ReviewFilter{
		TabID:    tabID,
		CallerID: callerID,
		Page:     page,
	})
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	reviewID, err := id.Generate("rev")
	if err != nil {
		return nil, fmt.Errorf("generate review ID: %w", err)
	}

	now := time.Now()
	review := &domain.Review{
		ID:          reviewID,
		TabID:       tabID,
		OwnerID:     callerID,
		Title:       in.Title,
		Description: in.Description,
		Author:      in.Author,
		MediaType:   in.MediaType,
		MediaURL:    in.MediaURL,
		MediaConfig: in.MediaConfig,
		SortOrder:   total,
		MetaFields:  in.MetaFields,
		CategoryIDs: in.CategoryIDs,
		RelatedIDs:  in.RelatedIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Published != nil && *in.Published {
		review.PublishedAt = &now
	}

	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.Info("review created",
		"review_id", reviewID,
		"tab_id", tabID,
		"owner_id", callerID,
		"published", review.IsPublished(),
	)
	return review, nil
}

// UpdateReview rewrites a review's fields and associations. Requires
// ownership.
func (s *ReviewService) UpdateReview(ctx context.Context, callerID, reviewID string, in ReviewInput) (*domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	review, err := s.ownedReview(ctx, callerID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := s.checkCategories(ctx, review.TabID, in.CategoryIDs); err != nil {
		return nil, err
	}
	if err := s.checkRelated(ctx, callerID, reviewID, in.RelatedIDs); err != nil {
		return nil, err
	}

	review.Title = in.Title
	review.Description = in.Description
	review.Author = in.Author
	review.MediaType = in.MediaType
	review.MediaURL = in.MediaURL
	review.MediaConfig = in.MediaConfig
	review.MetaFields = in.MetaFields
	review.CategoryIDs = in.CategoryIDs
	review.RelatedIDs = in.RelatedIDs
	review.UpdatedAt = time.Now()

	if in.Published != nil {
		switch {
		case *in.Published && review.PublishedAt == nil:
			now := time.Now()
			review.PublishedAt = &now
		case !*in.Published:
			review.PublishedAt = nil
		}
	}

	if err := s.store.UpdateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.logger.Info("review updated",
		"review_id", reviewID,
		"user_id", callerID,
		"published", review.IsPublished(),
	)
	return review, nil
}

// DeleteReview deletes a review. Requires ownership.
func (s *ReviewService) DeleteReview(ctx context.Context, callerID, reviewID string) error {
	if _, err := s.ownedReview(ctx, callerID, reviewID); err != nil {
		return err
	}

	if err := s.store.DeleteReview(ctx, reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.Info("review deleted", "review_id", reviewID, "user_id", callerID)
	return nil
}

// ReviewDetail is the full review graph for the detail endpoint.
type ReviewDetail struct {
	Review       *domain.Review
	Categories   []*domain.Category
	Related      []*domain.Review
	IsBookmarked bool
}

// GetReviewDetail loads a review with its categories and related reviews.
// Invisible reviews surface as NotFound so drafts do not leak their
// existence. Related reviews are filtered to published targets.
func (s *ReviewService) GetReviewDetail(ctx context.Context, callerID, reviewID string) (*ReviewDetail, error) {
	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !review.VisibleTo(callerID) {
		return nil, store.ErrNotFound.WithMessage("review not found")
	}

	categories, err := s.store.GetCategoriesForReviews(ctx, []string{reviewID})
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	var related []*domain.Review
	if len(review.RelatedIDs) > 0 {
		all, err := s.store.GetReviewsByIDs(ctx, review.RelatedIDs)
		if err != nil {
			return nil, fmt.Errorf("load related reviews: %w", err)
		}
		for _, r := range all {
			if r.IsPublished() {
				related = append(related, r)
			}
		}
	}

	bookmarked, err := s.store.GetBookmarkedReviewIDs(ctx, callerID, []string{reviewID})
	if err != nil {
		return nil, fmt.Errorf("resolve bookmark: %w", err)
	}

	return &ReviewDetail{
		Review:       review,
		Categories:   categories[reviewID],
		Related:      related,
		IsBookmarked: bookmarked[reviewID],
	}, nil
}

// ReviewListing is one page of a tab's reviews with per-review categories
// and the caller's bookmark state, both resolved in one query per concern.
type ReviewListing struct {
	Reviews    []*domain.Review
	Categories map[string][]*domain.Category
	Bookmarked map[string]bool
	Total      int
}

// ListReviewsForTab returns a page of a tab's published reviews in curated
// order. Drafts never appear in listings; their owner reaches them through
// the detail endpoint.
func (s *ReviewService) ListReviewsForTab(ctx context.Context, callerID, tabID, search, categoryID string, page store.Page) (*ReviewListing, error) {
	if _, err := s.store.GetTab(ctx, tabID); err != nil {
		return nil, err
	}

	reviews, total, err := s.store.ListReviews(ctx, store.ReviewFilter{
		TabID:      tabID,
		CallerID:   "", // listings are published-only for everyone
		Search:     search,
		CategoryID: categoryID,
		Page:       page,
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	ids := make([]string, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
	}

	categories, err := s.store.GetCategoriesForReviews(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	bookmarked, err := s.store.GetBookmarkedReviewIDs(ctx, callerID, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve bookmarks: %w", err)
	}

	return &ReviewListing{
		Reviews:    reviews,
		Categories: categories,
		Bookmarked: bookmarked,
		Total:      total,
	}, nil
}

// checkCategories verifies every category belongs to the review's tab.
func (s *ReviewService) checkCategories(ctx context.Context, tabID string, categoryIDs []string) error {
	for _, categoryID := range categoryIDs {
		category, err := s.store.GetCategory(ctx, categoryID)
		if store.IsNotFound(err) {
			return domainerrors.Validationf("category %s does not exist", categoryID)
		}
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}
		if category.TabID != tabID {
			return domainerrors.Validationf("category %s belongs to a different tab", categoryID)
		}
	}
	return nil
}

// checkRelated verifies related reviews exist, belong to the caller, and
// do not include the review itself.
func (s *ReviewService) checkRelated(ctx context.Context, callerID, selfID string, relatedIDs []string) error {
	if len(relatedIDs) == 0 {
		return nil
	}

	for _, relatedID := range relatedIDs {
		if relatedID == selfID {
			return domainerrors.Validation("a review cannot relate to itself")
		}
	}

	found, err := s.store.GetReviewsByIDs(ctx, relatedIDs)
	if err != nil {
		return fmt.Errorf("load related reviews: %w", err)
	}
	byID := make(map[string]*domain.Review, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	for _, relatedID := range relatedIDs {
		r, ok := byID[relatedID]
		if !ok {
			return domainerrors.Validationf("related review %s does not exist", relatedID)
		}
		if r.OwnerID != callerID {
			return domainerrors.Validationf("related review %s is not yours", relatedID)
		}
	}
	return nil
}

// ownedReview loads a review and enforces ownership. Non-owners of drafts
// get NotFound, matching the visibility rule; non-owners of published
// reviews get Forbidden.
func (s *ReviewService) ownedReview(ctx context.Context, callerID, reviewID string) (*domain.Review, error) {
	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.OwnerID != callerID {
		if !review.IsPublished() {
			return nil, store.ErrNotFound.WithMessage("review not found")
		}
		return nil, domainerrors.Forbidden("you do not own this review")
	}
	return review, nil
}
